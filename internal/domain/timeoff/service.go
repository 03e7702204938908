package timeoff

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Notifier delivers the approval or rejection notice to the requesting
// employee. Failures are logged and never roll back the decision.
type Notifier interface {
	TimeOffDecision(ctx context.Context, email, firstName, typ, status string, start, end time.Time, reason string) error
}

type Service struct {
	store    StoreAPI
	notifier Notifier
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CheckAvailableBalance reports whether the employee has enough balance for
// the requested interval. Unpaid leave is always available.
func (s *Service) CheckAvailableBalance(ctx context.Context, employeeID, typ string, start, end time.Time) (BalanceCheck, error) {
	if !validType(typ) {
		return BalanceCheck{}, ErrUnknownType
	}
	if end.Before(start) {
		return BalanceCheck{}, ErrInvalidRange
	}
	if typ == TypeUnpaid {
		return BalanceCheck{Available: true, Unlimited: true}, nil
	}

	allocation, err := s.store.Allocation(ctx, employeeID)
	if err != nil {
		return BalanceCheck{}, err
	}
	balance := allocation.PaidDaysRemaining
	if typ == TypeSick {
		balance = allocation.SickDaysRemaining
	}
	days := WorkingDaysBetween(start, end)
	return BalanceCheck{Available: balance >= days, Balance: balance}, nil
}

// CreateRequest files a Pending request. The working-day count is computed
// once here and reused verbatim at approval time, so a request spanning a
// weekend debits only the weekdays. Paid types are checked against the
// remaining balance here as well: a request that already exceeds the ledger
// is rejected up front instead of lingering as an unapprovable Pending row.
// The balance is checked again, atomically, when the request is approved.
func (s *Service) CreateRequest(ctx context.Context, employeeID, typ string, start, end time.Time, reason string) (Request, error) {
	if !validType(typ) {
		return Request{}, ErrUnknownType
	}
	if end.Before(start) {
		return Request{}, ErrInvalidRange
	}
	days := WorkingDaysBetween(start, end)
	if days == 0 {
		// Weekend-only requests consume nothing and are rejected outright.
		return Request{}, ErrInvalidRange
	}

	if typ != TypeUnpaid {
		allocation, err := s.store.Allocation(ctx, employeeID)
		if err != nil {
			return Request{}, err
		}
		balance := allocation.PaidDaysRemaining
		if typ == TypeSick {
			balance = allocation.SickDaysRemaining
		}
		if balance < days {
			return Request{}, ErrInsufficientBalance
		}
	}

	return s.store.InsertRequest(ctx, Request{
		EmployeeID: employeeID,
		Type:       typ,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     reason,
		Status:     StatusPending,
	})
}

// Approve debits the leave ledger (paid types only), marks the request
// Approved and records each weekday of the interval as an On Leave attendance
// row. The ledger debit happens first: if the status update then fails the
// debit is restored, so the balance never leaks on a half-applied approval.
func (s *Service) Approve(ctx context.Context, requestID, approverID string) (Request, error) {
	req, err := s.store.RequestByID(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}

	deducted := false
	if req.Type != TypeUnpaid {
		if err := s.store.DeductBalance(ctx, req.EmployeeID, req.Type, req.Days); err != nil {
			return Request{}, err
		}
		deducted = true
	}

	if err := s.store.MarkApproved(ctx, requestID, approverID); err != nil {
		if deducted {
			if restoreErr := s.store.RestoreBalance(ctx, req.EmployeeID, req.Type, req.Days); restoreErr != nil {
				slog.Error("leave balance restore failed",
					"requestId", requestID,
					"employeeId", req.EmployeeID,
					"days", req.Days,
					"err", restoreErr,
				)
			}
		}
		return Request{}, fmt.Errorf("approve request: %w", err)
	}

	if err := s.store.MarkLeaveDays(ctx, req.EmployeeID, LeaveDates(req.StartDate, req.EndDate)); err != nil {
		slog.Warn("leave attendance marking failed", "requestId", requestID, "err", err)
	}

	s.notifyDecision(ctx, req, StatusApproved, "")

	req.Status = StatusApproved
	req.ApprovedBy = approverID
	now := time.Now()
	req.ApprovalDate = &now
	return req, nil
}

// Reject marks a pending request Rejected with the reviewer's reason. No
// ledger movement happens on rejection.
func (s *Service) Reject(ctx context.Context, requestID, approverID, reason string) (Request, error) {
	req, err := s.store.RequestByID(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}

	if err := s.store.MarkRejected(ctx, requestID, approverID, reason); err != nil {
		return Request{}, fmt.Errorf("reject request: %w", err)
	}

	s.notifyDecision(ctx, req, StatusRejected, reason)

	req.Status = StatusRejected
	req.RejectionReason = reason
	return req, nil
}

// DeletePending lets an employee withdraw their own request before a
// decision is made.
func (s *Service) DeletePending(ctx context.Context, requestID, employeeID string) error {
	return s.store.DeletePending(ctx, requestID, employeeID)
}

func (s *Service) Request(ctx context.Context, requestID string) (Request, error) {
	return s.store.RequestByID(ctx, requestID)
}

func (s *Service) EmployeeRequests(ctx context.Context, employeeID string, limit int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListByEmployee(ctx, employeeID, limit)
}

func (s *Service) PendingRequests(ctx context.Context, limit int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListByStatus(ctx, StatusPending, limit)
}

func (s *Service) Balance(ctx context.Context, employeeID string) (Allocation, error) {
	return s.store.Allocation(ctx, employeeID)
}

func (s *Service) notifyDecision(ctx context.Context, req Request, status, reason string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.TimeOffDecision(ctx, req.EmployeeEmail, req.EmployeeName, req.Type, status, req.StartDate, req.EndDate, reason)
	if err != nil {
		slog.Warn("time off notification failed", "requestId", req.ID, "err", err)
	}
}
