package payroll

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"hrpay/internal/domain/timeoff"
)

type fakeStore struct {
	runs      map[string]*Payrun
	slips     map[string]*Payslip
	employees []ActiveEmployee

	components map[string][]SalaryComponent
	present    map[string]int
	paidLeave  map[string][]DateRange
	unpaid     map[string][]DateRange

	insertErr map[string]error
	nextRunID int
	nextSlip  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runs:       make(map[string]*Payrun),
		slips:      make(map[string]*Payslip),
		components: make(map[string][]SalaryComponent),
		present:    make(map[string]int),
		paidLeave:  make(map[string][]DateRange),
		unpaid:     make(map[string][]DateRange),
		insertErr:  make(map[string]error),
	}
}

func (f *fakeStore) addEmployee(id string, wage float64, presentDays int) {
	f.employees = append(f.employees, ActiveEmployee{
		ID:        id,
		FirstName: "Test",
		LastName:  id,
		Email:     id + "@example.com",
		Wage:      wage,
	})
	f.present[id] = presentDays
	if wage > 0 {
		components, err := BuildSalaryComponents(wage)
		if err != nil {
			panic(err)
		}
		f.components[id] = components
	}
}

func (f *fakeStore) CreatePayrun(_ context.Context, month, year int, generatedBy string) (Payrun, error) {
	for _, run := range f.runs {
		if run.Month == month && run.Year == year && run.Status != RunStatusCancelled {
			return Payrun{}, ErrDuplicateRun
		}
	}
	f.nextRunID++
	run := Payrun{
		ID:          fmt.Sprintf("run-%d", f.nextRunID),
		Month:       month,
		Year:        year,
		Status:      RunStatusDraft,
		GeneratedBy: generatedBy,
		CreatedAt:   time.Now(),
	}
	f.runs[run.ID] = &run
	return run, nil
}

func (f *fakeStore) PayrunByID(_ context.Context, id string) (Payrun, error) {
	run, ok := f.runs[id]
	if !ok {
		return Payrun{}, ErrRunNotFound
	}
	return *run, nil
}

func (f *fakeStore) ListPayruns(_ context.Context, limit int) ([]Payrun, error) {
	var out []Payrun
	for _, run := range f.runs {
		if len(out) == limit {
			break
		}
		out = append(out, *run)
	}
	return out, nil
}

func (f *fakeStore) FinishComputation(_ context.Context, runID string, gross, net, employerCost float64, failed []string) error {
	run, ok := f.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	run.Gross = gross
	run.Net = net
	run.EmployerCost = employerCost
	run.FailedEmployees = failed
	run.Status = RunStatusComputed
	return nil
}

func (f *fakeStore) SetRunStatus(_ context.Context, runID, status string) error {
	run, ok := f.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	run.Status = status
	return nil
}

func (f *fakeStore) MarkRunDone(_ context.Context, runID, validatedBy string) error {
	run, ok := f.runs[runID]
	if !ok {
		return ErrRunNotFound
	}
	now := time.Now()
	run.Status = RunStatusDone
	run.ValidatedBy = validatedBy
	run.ValidatedAt = &now
	return nil
}

func (f *fakeStore) ListActiveEmployees(context.Context) ([]ActiveEmployee, error) {
	return f.employees, nil
}

func (f *fakeStore) SalaryComponents(_ context.Context, employeeID string) ([]SalaryComponent, error) {
	return f.components[employeeID], nil
}

func (f *fakeStore) PresentDays(_ context.Context, employeeID string, _, _ time.Time) (int, error) {
	return f.present[employeeID], nil
}

func (f *fakeStore) ApprovedLeaveRanges(_ context.Context, employeeID string, types []string, _, _ time.Time) ([]DateRange, error) {
	for _, typ := range types {
		if typ == timeoff.TypeUnpaid {
			return f.unpaid[employeeID], nil
		}
	}
	return f.paidLeave[employeeID], nil
}

func (f *fakeStore) InsertPayslip(_ context.Context, slip Payslip) (string, error) {
	if err := f.insertErr[slip.EmployeeID]; err != nil {
		return "", err
	}
	for _, existing := range f.slips {
		if existing.PayrunID == slip.PayrunID && existing.EmployeeID == slip.EmployeeID {
			return "", ErrPayslipExists
		}
	}
	f.nextSlip++
	slip.ID = fmt.Sprintf("slip-%d", f.nextSlip)
	f.slips[slip.ID] = &slip
	return slip.ID, nil
}

func (f *fakeStore) PayslipByID(_ context.Context, id string) (Payslip, error) {
	slip, ok := f.slips[id]
	if !ok {
		return Payslip{}, ErrPayslipNotFound
	}
	return *slip, nil
}

func (f *fakeStore) ListPayslipsByRun(_ context.Context, runID string) ([]PayslipSummary, error) {
	var out []PayslipSummary
	for _, slip := range f.slips {
		if slip.PayrunID != runID {
			continue
		}
		out = append(out, PayslipSummary{
			ID:         slip.ID,
			EmployeeID: slip.EmployeeID,
			FirstName:  "Test",
			Email:      slip.EmployeeID + "@example.com",
			NetWage:    slip.NetWage,
		})
	}
	return out, nil
}

func (f *fakeStore) ListPayslipsByEmployee(_ context.Context, employeeID string, limit int) ([]Payslip, error) {
	var out []Payslip
	for _, slip := range f.slips {
		if slip.EmployeeID == employeeID && len(out) < limit {
			out = append(out, *slip)
		}
	}
	return out, nil
}

func (f *fakeStore) SetPayslipStatus(_ context.Context, payslipID, status string) error {
	slip, ok := f.slips[payslipID]
	if !ok {
		return ErrPayslipNotFound
	}
	slip.Status = status
	return nil
}

func (f *fakeStore) SetPayslipStatusByRun(_ context.Context, runID, status string) error {
	for _, slip := range f.slips {
		if slip.PayrunID == runID {
			slip.Status = status
		}
	}
	return nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) PayslipReady(_ context.Context, email, _ string, _, _ int, _ float64) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

func TestGenerate(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	store.addEmployee("emp-2", 44000, 11)
	svc := NewService(store, nil, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != RunStatusComputed {
		t.Fatalf("expected status %s, got %s", RunStatusComputed, run.Status)
	}
	if len(store.slips) != 2 {
		t.Fatalf("expected 2 payslips, got %d", len(store.slips))
	}
	if len(run.FailedEmployees) != 0 {
		t.Fatalf("expected no failed employees, got %v", run.FailedEmployees)
	}

	// emp-1 at full attendance grosses the full wage; emp-2 at half
	// attendance grosses half. 30000 + 22000.
	if math.Abs(run.Gross-52000) > 1 {
		t.Fatalf("expected gross 52000, got %.2f", run.Gross)
	}
	// Deductions: emp-1 PF 1800 + tax 200; emp-2 half of (PF 2640 + tax 200).
	wantNet := 52000.0 - 2000 - 1420
	if math.Abs(run.Net-wantNet) > 1 {
		t.Fatalf("expected net %.2f, got %.2f", wantNet, run.Net)
	}
	if math.Abs(run.EmployerCost-run.Gross) > 0.01 {
		t.Fatalf("expected employer cost to equal gross, got %.2f vs %.2f", run.EmployerCost, run.Gross)
	}
}

func TestGenerateNetForFullMonth(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	svc := NewService(store, nil, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(run.Gross-30000) > 1 {
		t.Fatalf("expected gross 30000, got %.2f", run.Gross)
	}
	if math.Abs(run.Net-28000) > 1 {
		t.Fatalf("expected net 28000 after PF and professional tax, got %.2f", run.Net)
	}
}

func TestGeneratePaidLeaveIsPayNeutral(t *testing.T) {
	store := newFakeStore()
	// 20 attendance days plus 2 approved paid leave days (Thu 2025-09-04 and
	// Fri 2025-09-05) make the full 22 payable days.
	store.addEmployee("emp-1", 30000, 20)
	store.paidLeave["emp-1"] = []DateRange{{
		Start: date(2025, time.September, 4),
		End:   date(2025, time.September, 5),
	}}
	svc := NewService(store, nil, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(run.Gross-30000) > 1 {
		t.Fatalf("expected paid leave to be pay neutral, got gross %.2f", run.Gross)
	}

	for _, slip := range store.slips {
		if slip.TotalPayableDays != 22 {
			t.Fatalf("expected 22 payable days, got %d", slip.TotalPayableDays)
		}
		if slip.PaidTimeOffDays != 2 {
			t.Fatalf("expected 2 paid leave days, got %d", slip.PaidTimeOffDays)
		}
	}
}

func TestGenerateDuplicatePeriod(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	svc := NewService(store, nil, 22)

	if _, err := svc.Generate(context.Background(), 9, 2025, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Generate(context.Background(), 9, 2025, "admin"); !errors.Is(err, ErrDuplicateRun) {
		t.Fatalf("expected ErrDuplicateRun, got %v", err)
	}
}

func TestGenerateInvalidPeriod(t *testing.T) {
	svc := NewService(newFakeStore(), nil, 22)

	for _, tc := range []struct{ month, year int }{
		{0, 2025}, {13, 2025}, {9, 1999}, {9, 2101},
	} {
		if _, err := svc.Generate(context.Background(), tc.month, tc.year, "admin"); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("month=%d year=%d: expected ErrInvalidPeriod, got %v", tc.month, tc.year, err)
		}
	}
}

func TestGeneratePartialFailure(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	store.addEmployee("emp-2", 0, 22) // no wage configured
	store.addEmployee("emp-3", 30000, 22)
	store.insertErr["emp-3"] = errors.New("connection reset")
	store.addEmployee("emp-4", 30000, 22)
	svc := NewService(store, nil, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("expected batch to survive individual failures, got %v", err)
	}
	if len(run.FailedEmployees) != 2 {
		t.Fatalf("expected 2 failed employees, got %v", run.FailedEmployees)
	}
	if len(store.slips) != 2 {
		t.Fatalf("expected 2 payslips for the surviving employees, got %d", len(store.slips))
	}
	// Totals aggregate successes only.
	if math.Abs(run.Gross-60000) > 1 {
		t.Fatalf("expected gross 60000 from two employees, got %.2f", run.Gross)
	}
}

func TestValidate(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	store.addEmployee("emp-2", 44000, 22)
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Validate(context.Background(), run.ID, "payroll-officer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Payrun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != RunStatusDone {
		t.Fatalf("expected run status %s, got %s", RunStatusDone, got.Status)
	}
	if got.ValidatedBy != "payroll-officer" || got.ValidatedAt == nil {
		t.Fatalf("expected validation audit fields to be set, got %+v", got)
	}
	for _, slip := range store.slips {
		if slip.Status != PayslipStatusValidated {
			t.Fatalf("expected payslip status %s, got %s", PayslipStatusValidated, slip.Status)
		}
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.sent))
	}
}

func TestValidateTwice(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	svc := NewService(store, &fakeNotifier{}, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Validate(context.Background(), run.ID, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Validate(context.Background(), run.ID, "admin"); !errors.Is(err, ErrAlreadyValidated) {
		t.Fatalf("expected ErrAlreadyValidated, got %v", err)
	}
}

func TestValidateSurvivesNotifierFailure(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	svc := NewService(store, notifier, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Validate(context.Background(), run.ID, "admin"); err != nil {
		t.Fatalf("expected validation to survive notification failures, got %v", err)
	}

	got, err := svc.Payrun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != RunStatusDone {
		t.Fatalf("expected run status %s, got %s", RunStatusDone, got.Status)
	}
}

func TestCancel(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	svc := NewService(store, nil, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Cancel(context.Background(), run.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Payrun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != RunStatusCancelled {
		t.Fatalf("expected run status %s, got %s", RunStatusCancelled, got.Status)
	}
	for _, slip := range store.slips {
		if slip.Status != PayslipStatusCancelled {
			t.Fatalf("expected payslip status %s, got %s", PayslipStatusCancelled, slip.Status)
		}
	}

	// The period is reusable after a cancellation.
	if _, err := svc.Generate(context.Background(), 9, 2025, "admin"); err != nil {
		t.Fatalf("expected period to be reusable after cancel, got %v", err)
	}
}

func TestCancelDoneRun(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 22)
	svc := NewService(store, nil, 22)

	run, err := svc.Generate(context.Background(), 9, 2025, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Validate(context.Background(), run.ID, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Cancel(context.Background(), run.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestWorkedDaysWithoutRecords(t *testing.T) {
	store := newFakeStore()
	store.addEmployee("emp-1", 30000, 0)
	svc := NewService(store, nil, 22)

	worked, err := svc.WorkedDays(context.Background(), "emp-1", 9, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if worked != (WorkedDays{}) {
		t.Fatalf("expected zero worked days, got %+v", worked)
	}
}
