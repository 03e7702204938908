package notify

import (
	"context"
	"fmt"
	"time"
)

// Mailer sends one plain-text message. The SMTP implementation lives in
// platform/email; tests swap in a recorder.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	mailer  Mailer
	from    string
	company string
}

func NewService(mailer Mailer, from, company string) *Service {
	return &Service{mailer: mailer, from: from, company: company}
}

// PayslipReady tells an employee their payslip for the period has been
// validated and what the net amount is.
func (s *Service) PayslipReady(ctx context.Context, email, firstName string, month, year int, netWage float64) error {
	period := fmt.Sprintf("%s %d", time.Month(month).String(), year)
	subject := fmt.Sprintf("Your payslip for %s is ready", period)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payslip for %s has been validated.\nNet pay: %.2f\n\nRegards,\n%s",
		firstName, period, netWage, s.company,
	)
	return s.mailer.Send(ctx, s.from, email, subject, body)
}

// TimeOffDecision tells an employee their leave request was approved or
// rejected. The reason is included on rejection only.
func (s *Service) TimeOffDecision(ctx context.Context, email, firstName, typ, status string, start, end time.Time, reason string) error {
	subject := fmt.Sprintf("Your %s request has been %s", typ, status)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s request for %s to %s has been %s.",
		firstName, typ, start.Format("2006-01-02"), end.Format("2006-01-02"), status,
	)
	if reason != "" {
		body += fmt.Sprintf("\nReason: %s", reason)
	}
	body += fmt.Sprintf("\n\nRegards,\n%s", s.company)
	return s.mailer.Send(ctx, s.from, email, subject, body)
}
