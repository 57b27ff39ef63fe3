package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateCapacity reports whether the customer has at least amount of
// unreserved credit. Read-only; no side effect.
func (s *Service) ValidateCapacity(customerID int64, amount decimal.Decimal) (bool, error) {
	lock := s.customerLock(customerID)
	lock.Lock()
	defer lock.Unlock()
	return s.validateCapacityLocked(customerID, amount)
}

func (s *Service) validateCapacityLocked(customerID int64, amount decimal.Decimal) (bool, error) {
	customer, err := s.store.GetCustomer(customerID)
	if err != nil {
		return false, err
	}
	return customer.AvailableCredit().GreaterThanOrEqual(amount), nil
}

// AdjustUsedCredit adds delta to the customer's used credit limit -
// positive to reserve credit on origination, negative to release it on
// repayment. The customer record is left unchanged if the result would
// fall below zero or exceed the credit limit.
func (s *Service) AdjustUsedCredit(customerID int64, delta decimal.Decimal) error {
	lock := s.customerLock(customerID)
	lock.Lock()
	defer lock.Unlock()
	return s.adjustUsedCreditLocked(customerID, delta)
}

func (s *Service) adjustUsedCreditLocked(customerID int64, delta decimal.Decimal) error {
	customer, err := s.store.GetCustomer(customerID)
	if err != nil {
		return err
	}

	newUsed := customer.UsedCreditLimit.Add(delta)
	if newUsed.IsNegative() {
		return fmt.Errorf("used credit limit cannot be negative: %w", ErrInvalidState)
	}
	if newUsed.GreaterThan(customer.CreditLimit) {
		return fmt.Errorf("used credit limit cannot exceed total credit limit: %w", ErrInvalidState)
	}

	customer.UsedCreditLimit = newUsed
	if err := s.store.SaveCustomer(customer); err != nil {
		return err
	}

	s.log.Debugf("Used credit for customer %d adjusted by %s to %s",
		customerID, delta, newUsed)
	return nil
}
