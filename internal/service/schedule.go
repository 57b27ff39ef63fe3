package service

import (
	"fmt"
	"time"

	"github.com/samidev/credit-service/internal/models"
	"github.com/shopspring/decimal"
)

// scheduleInstallments splits totalAmount into count equal shares, each
// rounded half-up to 2 decimals, due on the first day of the month 1..count
// months ahead of now. The first installment is always due next month,
// never the current one. Either the full sequence is produced or nothing is.
func (s *Service) scheduleInstallments(loanID int64, totalAmount decimal.Decimal, count int) ([]models.LoanInstallment, error) {
	if count <= 0 {
		return nil, fmt.Errorf("installment count must be positive: %w", ErrValidation)
	}
	if !totalAmount.IsPositive() {
		return nil, fmt.Errorf("total amount must be positive: %w", ErrValidation)
	}

	share := totalAmount.DivRound(decimal.NewFromInt(int64(count)), 2)
	now := s.now()

	installments := make([]models.LoanInstallment, count)
	for i := 1; i <= count; i++ {
		installments[i-1] = models.LoanInstallment{
			LoanID:     loanID,
			Amount:     share,
			PaidAmount: decimal.Zero,
			DueDate:    firstOfMonth(now, i),
			IsPaid:     false,
		}
	}
	return installments, nil
}

// firstOfMonth returns midnight UTC on the first day of the month,
// monthsAhead months after t.
func firstOfMonth(t time.Time, monthsAhead int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(monthsAhead), 1, 0, 0, 0, 0, time.UTC)
}
