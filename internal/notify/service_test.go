package notify

import (
	"context"
	"strings"
	"testing"
	"time"
)

type recordedMail struct {
	from, to, subject, body string
}

type recorderMailer struct {
	sent []recordedMail
}

func (r *recorderMailer) Send(_ context.Context, from, to, subject, body string) error {
	r.sent = append(r.sent, recordedMail{from, to, subject, body})
	return nil
}

func TestPayslipReady(t *testing.T) {
	mailer := &recorderMailer{}
	svc := NewService(mailer, "no-reply@acme.test", "Acme")

	err := svc.PayslipReady(context.Background(), "jane@acme.test", "Jane", 9, 2025, 28000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mailer.sent))
	}

	mail := mailer.sent[0]
	if mail.to != "jane@acme.test" || mail.from != "no-reply@acme.test" {
		t.Fatalf("unexpected addressing: %+v", mail)
	}
	if !strings.Contains(mail.subject, "September 2025") {
		t.Fatalf("expected period in subject, got %q", mail.subject)
	}
	if !strings.Contains(mail.body, "28000.00") {
		t.Fatalf("expected net pay in body, got %q", mail.body)
	}
}

func TestTimeOffDecision(t *testing.T) {
	mailer := &recorderMailer{}
	svc := NewService(mailer, "no-reply@acme.test", "Acme")

	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC)

	err := svc.TimeOffDecision(context.Background(), "jane@acme.test", "Jane", "Paid Time Off", "Rejected", start, end, "blackout period")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mail := mailer.sent[0]
	if !strings.Contains(mail.subject, "Rejected") {
		t.Fatalf("expected decision in subject, got %q", mail.subject)
	}
	if !strings.Contains(mail.body, "blackout period") {
		t.Fatalf("expected reason in body, got %q", mail.body)
	}

	// Approvals carry no reason line.
	if err := svc.TimeOffDecision(context.Background(), "jane@acme.test", "Jane", "Paid Time Off", "Approved", start, end, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(mailer.sent[1].body, "Reason:") {
		t.Fatalf("unexpected reason line: %q", mailer.sent[1].body)
	}
}
