package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/samidev/credit-service/internal/models"
	"github.com/shopspring/decimal"
)

type createLoanRequest struct {
	CustomerID           int64           `json:"customer_id"`
	Amount               decimal.Decimal `json:"amount"`
	InterestRate         float64         `json:"interest_rate"`
	NumberOfInstallments int             `json:"number_of_installments"`
}

type payLoanRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateLoan handles POST /api/loans
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	loan, err := h.svc.CreateLoan(req.CustomerID, req.Amount, req.InterestRate, req.NumberOfInstallments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// ListLoans handles GET /api/loans?customerId=
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(r.URL.Query().Get("customerId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid or missing customerId"})
		return
	}

	loans, err := h.svc.GetLoansByCustomer(customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if loans == nil {
		loans = []models.Loan{}
	}
	writeJSON(w, http.StatusOK, loans)
}

// ListInstallments handles GET /api/loans/{loanId}/installments
func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid loan id"})
		return
	}

	installments, err := h.svc.GetInstallmentsByLoan(loanID)
	if err != nil {
		writeError(w, err)
		return
	}
	if installments == nil {
		installments = []models.LoanInstallment{}
	}
	writeJSON(w, http.StatusOK, installments)
}

// PayLoan handles POST /api/loans/{loanId}/pay
func (h *Handler) PayLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid loan id"})
		return
	}

	var req payLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.PayLoan(loanID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
