package service

import (
	"fmt"

	"github.com/samidev/credit-service/internal/models"
)

// CreateCustomer opens a customer account
func (s *Service) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	if customer.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("credit limit cannot be negative: %w", ErrValidation)
	}
	if customer.UsedCreditLimit.IsNegative() || customer.UsedCreditLimit.GreaterThan(customer.CreditLimit) {
		return nil, fmt.Errorf("used credit limit must be between zero and the credit limit: %w", ErrValidation)
	}

	if err := s.store.CreateCustomer(customer); err != nil {
		return nil, err
	}
	s.log.Infof("Customer %d created with credit limit %s", customer.ID, customer.CreditLimit)
	return customer, nil
}

// GetCustomer retrieves a customer by id
func (s *Service) GetCustomer(id int64) (*models.Customer, error) {
	return s.store.GetCustomer(id)
}

// ListCustomers retrieves all customers
func (s *Service) ListCustomers() ([]models.Customer, error) {
	return s.store.ListCustomers()
}

// UpdateCustomer copies name, surname, email and credit limit onto an
// existing customer. The used credit limit is never updated this way -
// it moves only through the ledger.
func (s *Service) UpdateCustomer(id int64, updated models.Customer) (*models.Customer, error) {
	if updated.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("credit limit cannot be negative: %w", ErrValidation)
	}

	lock := s.customerLock(id)
	lock.Lock()
	defer lock.Unlock()

	customer, err := s.store.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	customer.Name = updated.Name
	customer.Surname = updated.Surname
	customer.Email = updated.Email
	customer.CreditLimit = updated.CreditLimit
	if err := s.store.SaveCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer by id
func (s *Service) DeleteCustomer(id int64) error {
	if err := s.store.DeleteCustomer(id); err != nil {
		return err
	}
	s.log.Infof("Customer %d deleted", id)
	return nil
}
