package models

import "github.com/shopspring/decimal"

// Customer represents a credit customer with a revolving limit
type Customer struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Surname         string          `json:"surname"`
	Email           string          `json:"email,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsedCreditLimit decimal.Decimal `json:"used_credit_limit"`
}

// AvailableCredit returns the unreserved portion of the credit limit
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedCreditLimit)
}
