package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents an installment loan drawn against a customer's credit limit.
// LoanAmount is the total repayable amount including interest, rounded to
// 2 decimal places.
type Loan struct {
	ID                   int64           `json:"id"`
	CustomerID           int64           `json:"customer_id"`
	LoanAmount           decimal.Decimal `json:"loan_amount"`
	NumberOfInstallments int             `json:"number_of_installments"`
	CreateDate           time.Time       `json:"create_date"`
	IsPaid               bool            `json:"is_paid"`
}
