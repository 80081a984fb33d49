// Package notification sends borrower-facing emails over SMTP.
package notification

import (
	"fmt"
	"log"
	"net/smtp"
	"time"

	"finch/internal/config"

	"github.com/jordan-wright/email"
)

// Sender delivers notification emails.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSender builds a sender from SMTP_* environment variables.
func NewSender() *Sender {
	return &Sender{
		host:     config.GetEnv("SMTP_HOST", "localhost"),
		port:     config.GetEnv("SMTP_PORT", "587"),
		username: config.GetEnv("SMTP_USERNAME", ""),
		password: config.GetEnv("SMTP_PASSWORD", ""),
		from:     config.GetEnv("SMTP_SENDER", "no-reply@finch.local"),
	}
}

// SendRepaymentReminder emails the borrower about an installment that
// is past due.
func (s *Sender) SendRepaymentReminder(to, name string, dueDate time.Time, amount int64, currency string) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = "Overdue loan repayment"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your scheduled repayment of %d %s was due on %s and is now overdue.\n"+
			"Please make the payment as soon as possible.\n"+
			"\nBest regards,\nFinch",
		name, amount, currency, dueDate.Format("2006-01-02"),
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := e.Send(addr, auth); err != nil {
		log.Printf("Failed to send reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
