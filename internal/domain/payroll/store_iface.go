package payroll

import (
	"context"
	"time"
)

// PayslipSummary carries what the validation loop needs per payslip: the
// status transition target and the notification recipient.
type PayslipSummary struct {
	ID         string
	EmployeeID string
	FirstName  string
	Email      string
	NetWage    float64
}

type StoreAPI interface {
	CreatePayrun(ctx context.Context, month, year int, generatedBy string) (Payrun, error)
	PayrunByID(ctx context.Context, id string) (Payrun, error)
	ListPayruns(ctx context.Context, limit int) ([]Payrun, error)
	FinishComputation(ctx context.Context, runID string, gross, net, employerCost float64, failed []string) error
	SetRunStatus(ctx context.Context, runID, status string) error
	MarkRunDone(ctx context.Context, runID, validatedBy string) error

	ListActiveEmployees(ctx context.Context) ([]ActiveEmployee, error)
	SalaryComponents(ctx context.Context, employeeID string) ([]SalaryComponent, error)
	PresentDays(ctx context.Context, employeeID string, start, end time.Time) (int, error)
	ApprovedLeaveRanges(ctx context.Context, employeeID string, types []string, start, end time.Time) ([]DateRange, error)

	InsertPayslip(ctx context.Context, slip Payslip) (string, error)
	PayslipByID(ctx context.Context, id string) (Payslip, error)
	ListPayslipsByRun(ctx context.Context, runID string) ([]PayslipSummary, error)
	ListPayslipsByEmployee(ctx context.Context, employeeID string, limit int) ([]Payslip, error)
	SetPayslipStatus(ctx context.Context, payslipID, status string) error
	SetPayslipStatusByRun(ctx context.Context, runID, status string) error
}
