package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samidev/credit-service/internal/models"
	"github.com/samidev/credit-service/internal/repository"
	"github.com/samidev/credit-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewService(repository.NewMemoryStore(), nil, log)
	h := NewHandler(svc)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods("DELETE")
	api.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", h.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}/installments", h.ListInstallments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/pay", h.PayLoan).Methods("POST")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createCustomer(t *testing.T, srv *httptest.Server, limit string) models.Customer {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/customers", map[string]interface{}{
		"name":         "Ada",
		"surname":      "Lovelace",
		"credit_limit": limit,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c models.Customer
	decode(t, resp, &c)
	return c
}

func TestCustomerEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	created := createCustomer(t, srv, "1000")
	assert.NotZero(t, created.ID)
	assert.True(t, created.CreditLimit.Equal(decimal.RequireFromString("1000")))

	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/customers/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Customer
	decode(t, resp, &got)
	assert.Equal(t, "Ada", got.Name)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/customers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []models.Customer
	decode(t, resp, &all)
	assert.Len(t, all, 1)

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/customers/%d", srv.URL, created.ID), map[string]interface{}{
		"name":         "Ada",
		"surname":      "King",
		"credit_limit": "2000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Customer
	decode(t, resp, &updated)
	assert.Equal(t, "King", updated.Surname)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/customers/%d", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/customers/%d", srv.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateLoanEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	customer := createCustomer(t, srv, "1000")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/loans", map[string]interface{}{
		"customer_id":            customer.ID,
		"amount":                 "100",
		"interest_rate":          0.2,
		"number_of_installments": 6,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var loan models.Loan
	decode(t, resp, &loan)
	assert.True(t, loan.LoanAmount.Equal(decimal.RequireFromString("120")), "loan amount = %s", loan.LoanAmount)
	assert.Equal(t, 6, loan.NumberOfInstallments)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/loans?customerId=%d", srv.URL, customer.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loans []models.Loan
	decode(t, resp, &loans)
	assert.Len(t, loans, 1)
}

func TestCreateLoanEndpointErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	customer := createCustomer(t, srv, "100")

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
	}{
		{
			"interest rate outside band",
			map[string]interface{}{"customer_id": customer.ID, "amount": "10", "interest_rate": 0.05, "number_of_installments": 6},
			http.StatusBadRequest,
		},
		{
			"installment count not allowed",
			map[string]interface{}{"customer_id": customer.ID, "amount": "10", "interest_rate": 0.2, "number_of_installments": 5},
			http.StatusBadRequest,
		},
		{
			"unknown customer",
			map[string]interface{}{"customer_id": 9999, "amount": "10", "interest_rate": 0.2, "number_of_installments": 6},
			http.StatusNotFound,
		},
		{
			"insufficient credit",
			map[string]interface{}{"customer_id": customer.ID, "amount": "100", "interest_rate": 0.2, "number_of_installments": 6},
			http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/loans", tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			var payload map[string]string
			decode(t, resp, &payload)
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestListInstallmentsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	customer := createCustomer(t, srv, "1000")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/loans", map[string]interface{}{
		"customer_id":            customer.ID,
		"amount":                 "100",
		"interest_rate":          0.2,
		"number_of_installments": 6,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var loan models.Loan
	decode(t, resp, &loan)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/loans/%d/installments", srv.URL, loan.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var installments []models.LoanInstallment
	decode(t, resp, &installments)
	require.Len(t, installments, 6)
	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i-1].DueDate.Before(installments[i].DueDate),
			"installments must be ordered by due date")
	}
}

func TestPayLoanEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	customer := createCustomer(t, srv, "1000")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/loans", map[string]interface{}{
		"customer_id":            customer.ID,
		"amount":                 "100",
		"interest_rate":          0.2,
		"number_of_installments": 6,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var loan models.Loan
	decode(t, resp, &loan)

	// Two 20.00 installments are covered; the remainder is returned
	// unconsumed rather than partially paying a third.
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/loans/%d/pay", srv.URL, loan.ID),
		map[string]interface{}{"amount": "50"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result models.PaymentResult
	decode(t, resp, &result)
	assert.Equal(t, 2, result.InstallmentsPaid)
	assert.True(t, result.TotalAmountPaid.Equal(decimal.RequireFromString("40")), "paid = %s", result.TotalAmountPaid)
	assert.False(t, result.LoanFullyPaid)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/loans/9999/pay",
		map[string]interface{}{"amount": "50"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/loans/%d/pay", srv.URL, loan.ID),
		map[string]interface{}{"amount": "-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
