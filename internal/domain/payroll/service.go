package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"hrpay/internal/domain/timeoff"
)

// Notifier delivers the payslip-ready notice to an employee. Delivery is
// fire-and-forget from the orchestrator's perspective: failures are logged
// and never abort a validation run.
type Notifier interface {
	PayslipReady(ctx context.Context, email, firstName string, month, year int, netWage float64) error
}

type Service struct {
	store       StoreAPI
	notifier    Notifier
	workingDays int
}

func NewService(store StoreAPI, notifier Notifier, workingDaysPerMonth int) *Service {
	if workingDaysPerMonth <= 0 {
		workingDaysPerMonth = DefaultWorkingDaysPerMonth
	}
	return &Service{store: store, notifier: notifier, workingDays: workingDaysPerMonth}
}

// WorkedDays derives attendance, paid leave and unpaid leave day counts for
// one employee-month. An employee with no records at all yields zeroes.
func (s *Service) WorkedDays(ctx context.Context, employeeID string, month, year int) (WorkedDays, error) {
	first, last := MonthInterval(month, year)

	present, err := s.store.PresentDays(ctx, employeeID, first, last)
	if err != nil {
		return WorkedDays{}, fmt.Errorf("attendance lookup: %w", err)
	}
	paidRanges, err := s.store.ApprovedLeaveRanges(ctx, employeeID, timeoff.PaidTypes, first, last)
	if err != nil {
		return WorkedDays{}, fmt.Errorf("paid leave lookup: %w", err)
	}
	unpaidRanges, err := s.store.ApprovedLeaveRanges(ctx, employeeID, []string{timeoff.TypeUnpaid}, first, last)
	if err != nil {
		return WorkedDays{}, fmt.Errorf("unpaid leave lookup: %w", err)
	}

	return ComputeWorkedDays(present, paidRanges, unpaidRanges, month, year), nil
}

func (s *Service) assemblePayslip(ctx context.Context, runID string, emp ActiveEmployee, month, year int, generatedBy string) (Payslip, error) {
	if emp.Wage <= 0 {
		return Payslip{}, ErrInvalidWage
	}

	worked, err := s.WorkedDays(ctx, emp.ID, month, year)
	if err != nil {
		return Payslip{}, err
	}

	components, err := s.store.SalaryComponents(ctx, emp.ID)
	if err != nil {
		return Payslip{}, fmt.Errorf("salary components lookup: %w", err)
	}

	proRata := ProRataSalary(emp.Wage, worked.TotalPayableDays, s.workingDays)
	earnings, deductions := ScaleComponents(components, proRata, emp.Wage)

	var gross, totalDeductions float64
	for _, e := range earnings {
		gross += e.Amount
	}
	for _, d := range deductions {
		totalDeductions += d.Amount
	}

	first, last := MonthInterval(month, year)
	slip := Payslip{
		PayrunID:         runID,
		EmployeeID:       emp.ID,
		PayPeriodStart:   first,
		PayPeriodEnd:     last,
		AttendanceDays:   worked.AttendanceDays,
		PaidTimeOffDays:  worked.PaidTimeOffDays,
		UnpaidLeaveDays:  worked.UnpaidLeaveDays,
		TotalPayableDays: worked.TotalPayableDays,
		BasicWage:        proRata * 0.50,
		GrossWage:        gross,
		TotalDeductions:  totalDeductions,
		NetWage:          gross - totalDeductions,
		// Employer PF rides along as a deduction line instead of being added
		// on top, so employer cost equals gross.
		EmployerCost: gross,
		Earnings:     earnings,
		Deductions:   deductions,
		Status:       PayslipStatusComputed,
		GeneratedBy:  generatedBy,
	}

	id, err := s.store.InsertPayslip(ctx, slip)
	if err != nil {
		return Payslip{}, err
	}
	slip.ID = id
	return slip, nil
}

// Generate creates the payrun for (month, year) and assembles one payslip per
// active employee. The unique (month, year) insert is the duplicate guard.
// Employee failures do not abort the batch: each failing employee is logged,
// recorded on the run and skipped, and the totals aggregate successes only.
func (s *Service) Generate(ctx context.Context, month, year int, requestedBy string) (Payrun, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return Payrun{}, ErrInvalidPeriod
	}

	run, err := s.store.CreatePayrun(ctx, month, year, requestedBy)
	if err != nil {
		return Payrun{}, err
	}

	employees, err := s.store.ListActiveEmployees(ctx)
	if err != nil {
		return Payrun{}, fmt.Errorf("employee listing: %w", err)
	}

	var gross, net, employerCost float64
	var failed []string
	for _, emp := range employees {
		slip, err := s.assemblePayslip(ctx, run.ID, emp, month, year, requestedBy)
		if err != nil {
			slog.Warn("payslip assembly failed",
				"payrunId", run.ID,
				"employeeId", emp.ID,
				"err", err,
			)
			failed = append(failed, emp.ID)
			continue
		}
		gross += slip.GrossWage
		net += slip.NetWage
		employerCost += slip.EmployerCost
	}

	if err := s.store.FinishComputation(ctx, run.ID, gross, net, employerCost, failed); err != nil {
		return Payrun{}, fmt.Errorf("payrun totals update: %w", err)
	}

	run.Gross = gross
	run.Net = net
	run.EmployerCost = employerCost
	run.FailedEmployees = failed
	run.Status = RunStatusComputed
	return run, nil
}

// Validate marks every payslip of the run Validated and notifies each
// employee, then marks the run itself Done. A payslip whose update or
// notification fails does not stop the remaining payslips from being
// processed.
func (s *Service) Validate(ctx context.Context, runID, validatedBy string) error {
	run, err := s.store.PayrunByID(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status == RunStatusValidated || run.Status == RunStatusDone {
		return ErrAlreadyValidated
	}

	slips, err := s.store.ListPayslipsByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("payslip listing: %w", err)
	}

	for _, slip := range slips {
		if err := s.store.SetPayslipStatus(ctx, slip.ID, PayslipStatusValidated); err != nil {
			slog.Warn("payslip validation failed", "payslipId", slip.ID, "err", err)
			continue
		}
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.PayslipReady(ctx, slip.Email, slip.FirstName, run.Month, run.Year, slip.NetWage); err != nil {
			slog.Warn("payslip notification failed", "payslipId", slip.ID, "employeeId", slip.EmployeeID, "err", err)
		}
	}

	return s.store.MarkRunDone(ctx, runID, validatedBy)
}

// Cancel is a terminal transition allowed from Draft or Computed only.
func (s *Service) Cancel(ctx context.Context, runID string) error {
	run, err := s.store.PayrunByID(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != RunStatusDraft && run.Status != RunStatusComputed {
		return ErrInvalidState
	}
	if err := s.store.SetPayslipStatusByRun(ctx, runID, PayslipStatusCancelled); err != nil {
		return err
	}
	return s.store.SetRunStatus(ctx, runID, RunStatusCancelled)
}

func (s *Service) Payrun(ctx context.Context, runID string) (Payrun, error) {
	return s.store.PayrunByID(ctx, runID)
}

func (s *Service) ListPayruns(ctx context.Context, limit int) ([]Payrun, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.store.ListPayruns(ctx, limit)
}

func (s *Service) Payslip(ctx context.Context, payslipID string) (Payslip, error) {
	return s.store.PayslipByID(ctx, payslipID)
}

func (s *Service) PayslipsForRun(ctx context.Context, runID string) ([]PayslipSummary, error) {
	return s.store.ListPayslipsByRun(ctx, runID)
}

func (s *Service) EmployeePayslips(ctx context.Context, employeeID string, limit int) ([]Payslip, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.store.ListPayslipsByEmployee(ctx, employeeID, limit)
}
