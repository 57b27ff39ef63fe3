package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanInstallment represents one scheduled equal-amount repayment of a loan.
// PaymentDate is nil until the installment is paid.
type LoanInstallment struct {
	ID          int64           `json:"id"`
	LoanID      int64           `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	DueDate     time.Time       `json:"due_date"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	IsPaid      bool            `json:"is_paid"`
}
