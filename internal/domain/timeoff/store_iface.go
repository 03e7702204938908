package timeoff

import (
	"context"
	"time"
)

type StoreAPI interface {
	InsertRequest(ctx context.Context, req Request) (Request, error)
	RequestByID(ctx context.Context, id string) (Request, error)
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Request, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]Request, error)
	DeletePending(ctx context.Context, id, employeeID string) error

	MarkApproved(ctx context.Context, id, approvedBy string) error
	MarkRejected(ctx context.Context, id, rejectedBy, reason string) error

	Allocation(ctx context.Context, employeeID string) (Allocation, error)
	// DeductBalance debits the ledger only when enough balance remains, in a
	// single conditional update so concurrent approvals cannot overdraw it.
	DeductBalance(ctx context.Context, employeeID, typ string, days int) error
	RestoreBalance(ctx context.Context, employeeID, typ string, days int) error

	// MarkLeaveDays records each date as an On Leave attendance row so payroll
	// never double counts a day as both present and on leave.
	MarkLeaveDays(ctx context.Context, employeeID string, dates []time.Time) error
}
