package models

import "github.com/shopspring/decimal"

// PaymentResult reports the outcome of a loan payment
type PaymentResult struct {
	InstallmentsPaid int             `json:"installments_paid"`
	TotalAmountPaid  decimal.Decimal `json:"total_amount_paid"`
	LoanFullyPaid    bool            `json:"loan_fully_paid"`
}
