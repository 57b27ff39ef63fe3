package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samidev/credit-service/internal/models"
)

// MemoryStore is an in-memory implementation of the store interfaces,
// used in tests and for running without a database.
type MemoryStore struct {
	mu           sync.Mutex
	customers    map[int64]models.Customer
	loans        map[int64]models.Loan
	installments map[int64]models.LoanInstallment
	nextID       int64
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:    make(map[int64]models.Customer),
		loans:        make(map[int64]models.Loan),
		installments: make(map[int64]models.LoanInstallment),
	}
}

func (m *MemoryStore) nextSeq() int64 {
	m.nextID++
	return m.nextID
}

// CreateCustomer stores a new customer and assigns its id
func (m *MemoryStore) CreateCustomer(customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer.ID = m.nextSeq()
	m.customers[customer.ID] = *customer
	return nil
}

// GetCustomer retrieves a customer by id
func (m *MemoryStore) GetCustomer(id int64) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return &c, nil
}

// ListCustomers returns all customers ordered by id
func (m *MemoryStore) ListCustomers() ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customers := make([]models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

// SaveCustomer updates an existing customer
func (m *MemoryStore) SaveCustomer(customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return fmt.Errorf("customer %d: %w", customer.ID, ErrNotFound)
	}
	m.customers[customer.ID] = *customer
	return nil
}

// DeleteCustomer removes a customer by id
func (m *MemoryStore) DeleteCustomer(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	delete(m.customers, id)
	return nil
}

// CreateLoan stores a new loan and assigns its id
func (m *MemoryStore) CreateLoan(loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan.ID = m.nextSeq()
	m.loans[loan.ID] = *loan
	return nil
}

// GetLoan retrieves a loan by id
func (m *MemoryStore) GetLoan(id int64) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loans[id]
	if !ok {
		return nil, fmt.Errorf("loan %d: %w", id, ErrNotFound)
	}
	return &l, nil
}

// FindLoansByCustomer returns all loans for a customer ordered by id
func (m *MemoryStore) FindLoansByCustomer(customerID int64) ([]models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var loans []models.Loan
	for _, l := range m.loans {
		if l.CustomerID == customerID {
			loans = append(loans, l)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

// SaveLoan updates an existing loan
func (m *MemoryStore) SaveLoan(loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[loan.ID]; !ok {
		return fmt.Errorf("loan %d: %w", loan.ID, ErrNotFound)
	}
	m.loans[loan.ID] = *loan
	return nil
}

// CreateInstallment stores a new installment and assigns its id
func (m *MemoryStore) CreateInstallment(installment *models.LoanInstallment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	installment.ID = m.nextSeq()
	m.installments[installment.ID] = *installment
	return nil
}

// SaveInstallment updates an existing installment
func (m *MemoryStore) SaveInstallment(installment *models.LoanInstallment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.installments[installment.ID]; !ok {
		return fmt.Errorf("installment %d: %w", installment.ID, ErrNotFound)
	}
	m.installments[installment.ID] = *installment
	return nil
}

// FindInstallmentsByLoan returns all installments for a loan ordered by due date
func (m *MemoryStore) FindInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error) {
	return m.findInstallments(func(in models.LoanInstallment) bool {
		return in.LoanID == loanID
	})
}

// FindUnpaidInstallmentsByLoan returns unpaid installments for a loan ordered by due date
func (m *MemoryStore) FindUnpaidInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error) {
	return m.findInstallments(func(in models.LoanInstallment) bool {
		return in.LoanID == loanID && !in.IsPaid
	})
}

// FindUnpaidInstallmentsDueBefore returns unpaid installments across all loans
// due before the cutoff, ordered by due date
func (m *MemoryStore) FindUnpaidInstallmentsDueBefore(cutoff time.Time) ([]models.LoanInstallment, error) {
	return m.findInstallments(func(in models.LoanInstallment) bool {
		return !in.IsPaid && in.DueDate.Before(cutoff)
	})
}

func (m *MemoryStore) findInstallments(match func(models.LoanInstallment) bool) ([]models.LoanInstallment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var installments []models.LoanInstallment
	for _, in := range m.installments {
		if match(in) {
			installments = append(installments, in)
		}
	}
	sort.Slice(installments, func(i, j int) bool {
		if installments[i].DueDate.Equal(installments[j].DueDate) {
			return installments[i].ID < installments[j].ID
		}
		return installments[i].DueDate.Before(installments[j].DueDate)
	})
	return installments, nil
}
