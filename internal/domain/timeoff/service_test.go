package timeoff

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	requests    map[string]*Request
	allocations map[string]*Allocation
	leaveDays   map[string][]time.Time

	approveErr error
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:    make(map[string]*Request),
		allocations: make(map[string]*Allocation),
		leaveDays:   make(map[string][]time.Time),
	}
}

func (f *fakeStore) InsertRequest(_ context.Context, req Request) (Request, error) {
	f.nextID++
	req.ID = fmt.Sprintf("req-%d", f.nextID)
	req.CreatedAt = time.Now()
	f.requests[req.ID] = &req
	return req, nil
}

func (f *fakeStore) RequestByID(_ context.Context, id string) (Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return *req, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, employeeID string, limit int) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && len(out) < limit {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, status string, limit int) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.Status == status && len(out) < limit {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) DeletePending(_ context.Context, id, employeeID string) error {
	req, ok := f.requests[id]
	if !ok || req.EmployeeID != employeeID || req.Status != StatusPending {
		return ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeStore) MarkApproved(_ context.Context, id, approvedBy string) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	req, ok := f.requests[id]
	if !ok || req.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	now := time.Now()
	req.Status = StatusApproved
	req.ApprovedBy = approvedBy
	req.ApprovalDate = &now
	return nil
}

func (f *fakeStore) MarkRejected(_ context.Context, id, rejectedBy, reason string) error {
	req, ok := f.requests[id]
	if !ok || req.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	req.Status = StatusRejected
	req.ApprovedBy = rejectedBy
	req.RejectionReason = reason
	return nil
}

func (f *fakeStore) Allocation(_ context.Context, employeeID string) (Allocation, error) {
	allocation, ok := f.allocations[employeeID]
	if !ok {
		return Allocation{}, ErrNoAllocation
	}
	return *allocation, nil
}

func (f *fakeStore) DeductBalance(_ context.Context, employeeID, typ string, days int) error {
	allocation, ok := f.allocations[employeeID]
	if !ok {
		return ErrNoAllocation
	}
	balance := &allocation.PaidDaysRemaining
	if typ == TypeSick {
		balance = &allocation.SickDaysRemaining
	}
	if *balance < days {
		return ErrInsufficientBalance
	}
	*balance -= days
	return nil
}

func (f *fakeStore) RestoreBalance(_ context.Context, employeeID, typ string, days int) error {
	allocation, ok := f.allocations[employeeID]
	if !ok {
		return ErrNoAllocation
	}
	if typ == TypeSick {
		allocation.SickDaysRemaining += days
	} else {
		allocation.PaidDaysRemaining += days
	}
	return nil
}

func (f *fakeStore) MarkLeaveDays(_ context.Context, employeeID string, dates []time.Time) error {
	f.leaveDays[employeeID] = append(f.leaveDays[employeeID], dates...)
	return nil
}

type fakeDecisionNotifier struct {
	decisions []string
	err       error
}

func (f *fakeDecisionNotifier) TimeOffDecision(_ context.Context, _, _, _, status string, _, _ time.Time, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.decisions = append(f.decisions, status)
	return nil
}

func pendingRequest(t *testing.T, svc *Service, store *fakeStore, typ string, start, end time.Time) Request {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), "emp-1", typ, start, end, "family event")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return req
}

func TestCreateRequest(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24, SickDaysRemaining: 12}
	svc := NewService(store, nil)

	// Fri 2025-09-05 .. Mon 2025-09-08: two working days.
	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 5), date(2025, time.September, 8))
	if req.Days != 2 {
		t.Fatalf("expected 2 days, got %d", req.Days)
	}
	if req.Status != StatusPending {
		t.Fatalf("expected status %s, got %s", StatusPending, req.Status)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	ctx := context.Background()

	if _, err := svc.CreateRequest(ctx, "emp-1", "Holiday", date(2025, time.September, 1), date(2025, time.September, 2), ""); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := svc.CreateRequest(ctx, "emp-1", TypePaid, date(2025, time.September, 5), date(2025, time.September, 1), ""); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted range, got %v", err)
	}
	// Weekend-only request consumes no balance.
	if _, err := svc.CreateRequest(ctx, "emp-1", TypePaid, date(2025, time.September, 6), date(2025, time.September, 7), ""); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for weekend-only range, got %v", err)
	}
}

func TestCreateRequestInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 3, SickDaysRemaining: 12}
	svc := NewService(store, nil)
	ctx := context.Background()

	// Mon 2025-09-01 .. Fri 2025-09-05: five working days against a balance of three.
	if _, err := svc.CreateRequest(ctx, "emp-1", TypePaid, date(2025, time.September, 1), date(2025, time.September, 5), ""); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if len(store.requests) != 0 {
		t.Fatalf("expected no request to be filed, got %d", len(store.requests))
	}

	// Unpaid leave never consults the ledger, even with no allocation at all.
	if _, err := svc.CreateRequest(ctx, "emp-2", TypeUnpaid, date(2025, time.September, 1), date(2025, time.September, 5), ""); err != nil {
		t.Fatalf("unexpected error for unpaid leave: %v", err)
	}

	// Paid leave without any allocation row is rejected too.
	if _, err := svc.CreateRequest(ctx, "emp-2", TypePaid, date(2025, time.September, 1), date(2025, time.September, 2), ""); !errors.Is(err, ErrNoAllocation) {
		t.Fatalf("expected ErrNoAllocation, got %v", err)
	}
}

func TestCheckAvailableBalance(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 3, SickDaysRemaining: 12}
	svc := NewService(store, nil)
	ctx := context.Background()

	check, err := svc.CheckAvailableBalance(ctx, "emp-1", TypePaid, date(2025, time.September, 1), date(2025, time.September, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Available || check.Balance != 3 {
		t.Fatalf("expected 3 days available, got %+v", check)
	}

	check, err = svc.CheckAvailableBalance(ctx, "emp-1", TypePaid, date(2025, time.September, 1), date(2025, time.September, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Available {
		t.Fatalf("expected 5 days to exceed the balance of 3, got %+v", check)
	}

	check, err = svc.CheckAvailableBalance(ctx, "emp-1", TypeUnpaid, date(2025, time.September, 1), date(2025, time.September, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Available || !check.Unlimited {
		t.Fatalf("expected unpaid leave to always be available, got %+v", check)
	}
}

func TestApprove(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24, SickDaysRemaining: 12}
	notifier := &fakeDecisionNotifier{}
	svc := NewService(store, notifier)

	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 1), date(2025, time.September, 3))
	approved, err := svc.Approve(context.Background(), req.ID, "manager-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != StatusApproved || approved.ApprovedBy != "manager-1" {
		t.Fatalf("unexpected request after approval: %+v", approved)
	}
	if got := store.allocations["emp-1"].PaidDaysRemaining; got != 21 {
		t.Fatalf("expected balance 21 after debiting 3 days, got %d", got)
	}
	if len(store.leaveDays["emp-1"]) != 3 {
		t.Fatalf("expected 3 leave attendance days, got %d", len(store.leaveDays["emp-1"]))
	}
	if len(notifier.decisions) != 1 || notifier.decisions[0] != StatusApproved {
		t.Fatalf("expected one approval notification, got %v", notifier.decisions)
	}
}

func TestApproveSickDebitsSickLedger(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24, SickDaysRemaining: 12}
	svc := NewService(store, nil)

	req := pendingRequest(t, svc, store, TypeSick, date(2025, time.September, 1), date(2025, time.September, 2))
	if _, err := svc.Approve(context.Background(), req.ID, "manager-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.allocations["emp-1"].SickDaysRemaining; got != 10 {
		t.Fatalf("expected sick balance 10, got %d", got)
	}
	if got := store.allocations["emp-1"].PaidDaysRemaining; got != 24 {
		t.Fatalf("expected paid balance untouched, got %d", got)
	}
}

func TestApproveInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 3}
	svc := NewService(store, nil)

	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 1), date(2025, time.September, 3))
	// Another approved request drains the ledger between filing and approval.
	store.allocations["emp-1"].PaidDaysRemaining = 1
	if _, err := svc.Approve(context.Background(), req.ID, "manager-1"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// The request stays pending and the ledger is untouched.
	got, err := svc.Request(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected request to remain pending, got %s", got.Status)
	}
	if store.allocations["emp-1"].PaidDaysRemaining != 1 {
		t.Fatalf("expected balance untouched, got %d", store.allocations["emp-1"].PaidDaysRemaining)
	}
}

func TestApproveUnpaidSkipsLedger(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	// No allocation exists at all; unpaid leave must not need one.
	req := pendingRequest(t, svc, store, TypeUnpaid, date(2025, time.September, 1), date(2025, time.September, 5))
	if _, err := svc.Approve(context.Background(), req.ID, "manager-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApproveRestoresBalanceOnFailure(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24}
	store.approveErr = errors.New("connection reset")
	svc := NewService(store, nil)

	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 1), date(2025, time.September, 3))
	if _, err := svc.Approve(context.Background(), req.ID, "manager-1"); err == nil {
		t.Fatal("expected error")
	}
	if got := store.allocations["emp-1"].PaidDaysRemaining; got != 24 {
		t.Fatalf("expected debit to be restored, got %d", got)
	}
}

func TestApproveTwice(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24}
	svc := NewService(store, nil)

	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 1), date(2025, time.September, 2))
	if _, err := svc.Approve(context.Background(), req.ID, "manager-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Approve(context.Background(), req.ID, "manager-1"); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	// The second attempt must not debit again.
	if got := store.allocations["emp-1"].PaidDaysRemaining; got != 22 {
		t.Fatalf("expected balance 22 after a single debit, got %d", got)
	}
}

func TestReject(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24}
	notifier := &fakeDecisionNotifier{}
	svc := NewService(store, notifier)

	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 1), date(2025, time.September, 2))
	rejected, err := svc.Reject(context.Background(), req.ID, "manager-1", "blackout period")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != StatusRejected || rejected.RejectionReason != "blackout period" {
		t.Fatalf("unexpected request after rejection: %+v", rejected)
	}
	// No ledger movement on rejection.
	if got := store.allocations["emp-1"].PaidDaysRemaining; got != 24 {
		t.Fatalf("expected balance untouched, got %d", got)
	}
	if len(notifier.decisions) != 1 || notifier.decisions[0] != StatusRejected {
		t.Fatalf("expected one rejection notification, got %v", notifier.decisions)
	}
}

func TestDeletePending(t *testing.T) {
	store := newFakeStore()
	store.allocations["emp-1"] = &Allocation{PaidDaysRemaining: 24}
	svc := NewService(store, nil)
	ctx := context.Background()

	req := pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 1), date(2025, time.September, 2))
	if err := svc.DeletePending(ctx, req.ID, "emp-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Request(ctx, req.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// An approved request cannot be withdrawn.
	req = pendingRequest(t, svc, store, TypePaid, date(2025, time.September, 3), date(2025, time.September, 4))
	if _, err := svc.Approve(ctx, req.ID, "manager-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeletePending(ctx, req.ID, "emp-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for processed request, got %v", err)
	}
}
