package notify

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/samidev/credit-service/internal/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Mailer sends installment reminders. Abstracted so the reminder job can
// be tested without an SMTP server.
type Mailer interface {
	SendInstallmentReminder(to, name string, dueDate time.Time, amount decimal.Decimal, overdue bool) error
}

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendInstallmentReminder sends a reminder for an upcoming or overdue
// loan installment
func (s *Sender) SendInstallmentReminder(to, name string, dueDate time.Time, amount decimal.Decimal, overdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if overdue {
		e.Subject = "Overdue Loan Installment Notification"
	} else {
		e.Subject = "Upcoming Loan Installment Reminder"
	}

	body := fmt.Sprintf("Dear %s,\n\n", name)
	if overdue {
		body += fmt.Sprintf(
			"Your loan installment of %s was due on %s and is now overdue.\n"+
				"Please make the payment as soon as possible.\n",
			amount, dueDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your loan installment of %s is due on %s.\n"+
				"Please ensure sufficient funds are available.\n",
			amount, dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nCredit Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
