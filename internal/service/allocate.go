package service

import (
	"github.com/samidev/credit-service/internal/models"
	"github.com/shopspring/decimal"
)

// allocatePayment walks pending installments in ascending due-date order
// and pays each one in full while the remaining amount covers it. It stops
// at the first installment the remainder cannot cover; an installment is
// never partially paid. Each paid installment is persisted before the next
// is considered, so a persistence failure mid-sequence leaves a
// well-defined prefix paid: the returned count and consumed amount cover
// only installments that were actually persisted.
func (s *Service) allocatePayment(pending []models.LoanInstallment, amount decimal.Decimal) (int, decimal.Decimal, error) {
	remaining := amount
	paid := 0
	for i := range pending {
		installment := &pending[i]
		if remaining.LessThan(installment.Amount) {
			break
		}

		paymentDate := s.now()
		installment.PaidAmount = installment.Amount
		installment.PaymentDate = &paymentDate
		installment.IsPaid = true
		if err := s.store.SaveInstallment(installment); err != nil {
			return paid, amount.Sub(remaining), err
		}
		remaining = remaining.Sub(installment.Amount)
		paid++
	}
	return paid, amount.Sub(remaining), nil
}
