package repository

import (
	"errors"
	"time"

	"github.com/samidev/credit-service/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CustomerStore provides persistence for customers
type CustomerStore interface {
	CreateCustomer(customer *models.Customer) error
	GetCustomer(id int64) (*models.Customer, error)
	ListCustomers() ([]models.Customer, error)
	SaveCustomer(customer *models.Customer) error
	DeleteCustomer(id int64) error
}

// LoanStore provides persistence for loans
type LoanStore interface {
	CreateLoan(loan *models.Loan) error
	GetLoan(id int64) (*models.Loan, error)
	FindLoansByCustomer(customerID int64) ([]models.Loan, error)
	SaveLoan(loan *models.Loan) error
}

// InstallmentStore provides persistence for loan installments
type InstallmentStore interface {
	CreateInstallment(installment *models.LoanInstallment) error
	SaveInstallment(installment *models.LoanInstallment) error
	FindInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error)
	FindUnpaidInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error)
	FindUnpaidInstallmentsDueBefore(cutoff time.Time) ([]models.LoanInstallment, error)
}

// Store bundles the three stores behind one value
type Store interface {
	CustomerStore
	LoanStore
	InstallmentStore
}
