package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/samidev/credit-service/internal/models"
)

// Repository provides database operations backed by PostgreSQL
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateCustomer creates a new customer in the database
func (r *Repository) CreateCustomer(customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, surname, email, credit_limit, used_credit_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(query, customer.Name, customer.Surname, customer.Email,
		customer.CreditLimit, customer.UsedCreditLimit).
		Scan(&customer.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by id
func (r *Repository) GetCustomer(id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT id, name, surname, email, credit_limit, used_credit_limit
		FROM customers
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&customer.ID, &customer.Name, &customer.Surname, &customer.Email,
			&customer.CreditLimit, &customer.UsedCreditLimit)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// ListCustomers retrieves all customers ordered by id
func (r *Repository) ListCustomers() ([]models.Customer, error) {
	query := `
		SELECT id, name, surname, email, credit_limit, used_credit_limit
		FROM customers
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Email,
			&c.CreditLimit, &c.UsedCreditLimit); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// SaveCustomer updates an existing customer
func (r *Repository) SaveCustomer(customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, surname = $2, email = $3, credit_limit = $4, used_credit_limit = $5
		WHERE id = $6`
	res, err := r.db.Exec(query, customer.Name, customer.Surname, customer.Email,
		customer.CreditLimit, customer.UsedCreditLimit, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %d: %w", customer.ID, ErrNotFound)
	}
	return nil
}

// DeleteCustomer removes a customer by id
func (r *Repository) DeleteCustomer(id int64) error {
	res, err := r.db.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateLoan creates a new loan in the database
func (r *Repository) CreateLoan(loan *models.Loan) error {
	query := `
		INSERT INTO loans (customer_id, loan_amount, number_of_installments, create_date, is_paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(query, loan.CustomerID, loan.LoanAmount,
		loan.NumberOfInstallments, loan.CreateDate, loan.IsPaid).
		Scan(&loan.ID)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// GetLoan retrieves a loan by id
func (r *Repository) GetLoan(id int64) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		SELECT id, customer_id, loan_amount, number_of_installments, create_date, is_paid
		FROM loans
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&loan.ID, &loan.CustomerID, &loan.LoanAmount,
			&loan.NumberOfInstallments, &loan.CreateDate, &loan.IsPaid)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("loan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	return loan, nil
}

// FindLoansByCustomer retrieves all loans for a customer ordered by id
func (r *Repository) FindLoansByCustomer(customerID int64) ([]models.Loan, error) {
	query := `
		SELECT id, customer_id, loan_amount, number_of_installments, create_date, is_paid
		FROM loans
		WHERE customer_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var l models.Loan
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.LoanAmount,
			&l.NumberOfInstallments, &l.CreateDate, &l.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// SaveLoan updates an existing loan
func (r *Repository) SaveLoan(loan *models.Loan) error {
	query := `
		UPDATE loans
		SET is_paid = $1
		WHERE id = $2`
	res, err := r.db.Exec(query, loan.IsPaid, loan.ID)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("loan %d: %w", loan.ID, ErrNotFound)
	}
	return nil
}

// CreateInstallment creates a new loan installment in the database
func (r *Repository) CreateInstallment(installment *models.LoanInstallment) error {
	query := `
		INSERT INTO loan_installments (loan_id, amount, paid_amount, due_date, payment_date, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRow(query, installment.LoanID, installment.Amount,
		installment.PaidAmount, installment.DueDate, installment.PaymentDate,
		installment.IsPaid).
		Scan(&installment.ID)
	if err != nil {
		return fmt.Errorf("failed to create installment: %w", err)
	}
	return nil
}

// SaveInstallment updates an existing installment's payment state
func (r *Repository) SaveInstallment(installment *models.LoanInstallment) error {
	query := `
		UPDATE loan_installments
		SET paid_amount = $1, payment_date = $2, is_paid = $3
		WHERE id = $4`
	res, err := r.db.Exec(query, installment.PaidAmount, installment.PaymentDate,
		installment.IsPaid, installment.ID)
	if err != nil {
		return fmt.Errorf("failed to save installment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("installment %d: %w", installment.ID, ErrNotFound)
	}
	return nil
}

// FindInstallmentsByLoan retrieves all installments for a loan ordered by due date
func (r *Repository) FindInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error) {
	query := `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY due_date`
	return r.queryInstallments(query, loanID)
}

// FindUnpaidInstallmentsByLoan retrieves unpaid installments for a loan ordered by due date
func (r *Repository) FindUnpaidInstallmentsByLoan(loanID int64) ([]models.LoanInstallment, error) {
	query := `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid
		FROM loan_installments
		WHERE loan_id = $1 AND is_paid = FALSE
		ORDER BY due_date`
	return r.queryInstallments(query, loanID)
}

// FindUnpaidInstallmentsDueBefore retrieves unpaid installments across all
// loans with a due date before the cutoff, ordered by due date
func (r *Repository) FindUnpaidInstallmentsDueBefore(cutoff time.Time) ([]models.LoanInstallment, error) {
	query := `
		SELECT id, loan_id, amount, paid_amount, due_date, payment_date, is_paid
		FROM loan_installments
		WHERE is_paid = FALSE AND due_date < $1
		ORDER BY due_date`
	return r.queryInstallments(query, cutoff)
}

func (r *Repository) queryInstallments(query string, arg interface{}) ([]models.LoanInstallment, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var installments []models.LoanInstallment
	for rows.Next() {
		var in models.LoanInstallment
		var paymentDate sql.NullTime
		if err := rows.Scan(&in.ID, &in.LoanID, &in.Amount, &in.PaidAmount,
			&in.DueDate, &paymentDate, &in.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		if paymentDate.Valid {
			t := paymentDate.Time
			in.PaymentDate = &t
		}
		installments = append(installments, in)
	}
	return installments, rows.Err()
}
