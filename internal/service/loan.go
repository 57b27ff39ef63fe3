package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samidev/credit-service/internal/models"
	"github.com/shopspring/decimal"
)

// Installment counts a loan may be originated with.
var allowedInstallmentCounts = map[int]bool{6: true, 9: true, 12: true, 24: true}

const (
	minInterestRate = 0.1
	maxInterestRate = 0.5

	// installments due further out than this are not eligible for payment
	paymentWindowMonths = 3

	cacheTTL = time.Minute
)

// CreateLoan originates a loan for a customer: validates the parameters,
// reserves credit, and persists the loan together with its installment
// schedule. The repayable total is principal * (1 + interestRate); the
// rounded total is stored on the loan while the unrounded total is what
// gets divided into installment shares.
//
// Persisting the loan, its installments, and the credit reservation is
// not atomic: a storage failure partway through leaves the earlier steps
// committed. Wrapping the three steps in a storage transaction is the
// strengthening path if that ever bites.
func (s *Service) CreateLoan(customerID int64, principal decimal.Decimal, interestRate float64, numberOfInstallments int) (*models.Loan, error) {
	if interestRate < minInterestRate || interestRate > maxInterestRate {
		return nil, fmt.Errorf("interest rate must be between %v and %v: %w",
			minInterestRate, maxInterestRate, ErrValidation)
	}
	if !allowedInstallmentCounts[numberOfInstallments] {
		return nil, fmt.Errorf("number of installments must be 6, 9, 12, or 24: %w", ErrValidation)
	}
	if !principal.IsPositive() {
		return nil, fmt.Errorf("loan amount must be positive: %w", ErrValidation)
	}

	totalAmount := principal.Mul(decimal.NewFromFloat(1 + interestRate))

	lock := s.customerLock(customerID)
	lock.Lock()
	defer lock.Unlock()

	ok, err := s.validateCapacityLocked(customerID, totalAmount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("customer %d does not have enough credit limit: %w",
			customerID, ErrInsufficientCredit)
	}

	loan := &models.Loan{
		CustomerID:           customerID,
		LoanAmount:           totalAmount.Round(2),
		NumberOfInstallments: numberOfInstallments,
		CreateDate:           s.now(),
		IsPaid:               false,
	}
	if err := s.store.CreateLoan(loan); err != nil {
		return nil, err
	}

	installments, err := s.scheduleInstallments(loan.ID, totalAmount, numberOfInstallments)
	if err != nil {
		return nil, err
	}
	for i := range installments {
		if err := s.store.CreateInstallment(&installments[i]); err != nil {
			return nil, err
		}
	}

	if err := s.adjustUsedCreditLocked(customerID, totalAmount); err != nil {
		return nil, err
	}

	s.invalidateLoanCaches(customerID, loan.ID)
	s.log.Infof("Loan %d created for customer %d: total %s over %d installments",
		loan.ID, customerID, loan.LoanAmount, numberOfInstallments)
	return loan, nil
}

// PayLoan applies amount against the loan's unpaid installments in
// due-date order. Only installments due within the next 3 months are
// eligible; whole installments are paid greedily and nothing is ever
// partially paid. The loan is closed only when the installments paid in
// this call cover every unpaid installment, eligible or not. Credit is
// released for exactly the amount consumed.
func (s *Service) PayLoan(loanID int64, amount decimal.Decimal) (*models.PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive: %w", ErrValidation)
	}

	loan, err := s.store.GetLoan(loanID)
	if err != nil {
		return nil, err
	}

	unpaid, err := s.store.FindUnpaidInstallmentsByLoan(loanID)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().AddDate(0, paymentWindowMonths, 0)
	var eligible []models.LoanInstallment
	for _, installment := range unpaid {
		if installment.DueDate.Before(cutoff) {
			eligible = append(eligible, installment)
		}
	}

	paid, consumed, allocErr := s.allocatePayment(eligible, amount)
	if allocErr != nil {
		// Release credit only for installments that actually persisted
		// as paid before the failure.
		if consumed.IsPositive() {
			if err := s.AdjustUsedCredit(loan.CustomerID, consumed.Neg()); err != nil {
				s.log.Errorf("Failed to release credit for customer %d after partial payment on loan %d: %v",
					loan.CustomerID, loanID, err)
			}
			s.invalidateLoanCaches(loan.CustomerID, loanID)
		}
		return nil, allocErr
	}

	fullyPaid := len(unpaid) == paid
	if fullyPaid {
		loan.IsPaid = true
		if err := s.store.SaveLoan(loan); err != nil {
			return nil, err
		}
	}

	if err := s.AdjustUsedCredit(loan.CustomerID, consumed.Neg()); err != nil {
		return nil, err
	}

	s.invalidateLoanCaches(loan.CustomerID, loanID)
	s.log.Infof("Payment of %s on loan %d paid %d installments (consumed %s, fully paid: %t)",
		amount, loanID, paid, consumed, fullyPaid)
	return &models.PaymentResult{
		InstallmentsPaid: paid,
		TotalAmountPaid:  consumed,
		LoanFullyPaid:    fullyPaid,
	}, nil
}

// GetLoansByCustomer lists a customer's loans, served read-through from
// the cache when one is configured.
func (s *Service) GetLoansByCustomer(customerID int64) ([]models.Loan, error) {
	key := loansCacheKey(customerID)
	var cached []models.Loan
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	loans, err := s.store.FindLoansByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(key, loans)
	return loans, nil
}

// GetInstallmentsByLoan lists a loan's installments ordered by due date,
// served read-through from the cache when one is configured.
func (s *Service) GetInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error) {
	key := installmentsCacheKey(loanID)
	var cached []models.LoanInstallment
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	installments, err := s.store.FindInstallmentsByLoan(loanID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(key, installments)
	return installments, nil
}

func loansCacheKey(customerID int64) string {
	return fmt.Sprintf("loans:customer:%d", customerID)
}

func installmentsCacheKey(loanID int64) string {
	return fmt.Sprintf("installments:loan:%d", loanID)
}

func (s *Service) cacheGet(key string, v interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, ok := s.cache.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.log.Warnf("Failed to decode cached value for %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) cacheSet(key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, string(raw), cacheTTL); err != nil {
		s.log.Warnf("Failed to cache %s: %v", key, err)
	}
}

func (s *Service) invalidateLoanCaches(customerID, loanID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(loansCacheKey(customerID)); err != nil {
		s.log.Warnf("Failed to invalidate loan cache for customer %d: %v", customerID, err)
	}
	if err := s.cache.Delete(installmentsCacheKey(loanID)); err != nil {
		s.log.Warnf("Failed to invalidate installment cache for loan %d: %v", loanID, err)
	}
}
