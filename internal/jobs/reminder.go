package jobs

import (
	"time"

	"github.com/samidev/credit-service/internal/notify"
	"github.com/samidev/credit-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// Reminder sweeps unpaid installments coming due and emails the owning
// customers. Overdue installments are flagged as such. Customers without
// an email address are skipped.
type Reminder struct {
	store  repository.Store
	mailer notify.Mailer
	log    *logrus.Logger
	days   int

	now func() time.Time
}

// NewReminder creates a reminder job looking days ahead for due installments
func NewReminder(store repository.Store, mailer notify.Mailer, log *logrus.Logger, days int) *Reminder {
	return &Reminder{
		store:  store,
		mailer: mailer,
		log:    log,
		days:   days,
		now:    time.Now,
	}
}

// Run performs one reminder sweep. Send failures are logged and do not
// stop the sweep.
func (r *Reminder) Run() {
	now := r.now()
	cutoff := now.AddDate(0, 0, r.days)

	installments, err := r.store.FindUnpaidInstallmentsDueBefore(cutoff)
	if err != nil {
		r.log.Errorf("Reminder sweep failed to load installments: %v", err)
		return
	}

	sent := 0
	for _, installment := range installments {
		loan, err := r.store.GetLoan(installment.LoanID)
		if err != nil {
			r.log.Errorf("Reminder sweep failed to load loan %d: %v", installment.LoanID, err)
			continue
		}
		customer, err := r.store.GetCustomer(loan.CustomerID)
		if err != nil {
			r.log.Errorf("Reminder sweep failed to load customer %d: %v", loan.CustomerID, err)
			continue
		}
		if customer.Email == "" {
			continue
		}

		overdue := installment.DueDate.Before(now)
		if err := r.mailer.SendInstallmentReminder(customer.Email, customer.Name,
			installment.DueDate, installment.Amount, overdue); err != nil {
			continue
		}
		sent++
	}

	r.log.Infof("Reminder sweep done: %d installments due before %s, %d reminders sent",
		len(installments), cutoff.Format("2006-01-02"), sent)
}
