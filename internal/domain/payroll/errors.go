package payroll

import "errors"

var (
	ErrDuplicateRun     = errors.New("payrun already exists for this period")
	ErrRunNotFound      = errors.New("payrun not found")
	ErrPayslipNotFound  = errors.New("payslip not found")
	ErrAlreadyValidated = errors.New("payrun already validated")
	ErrInvalidState     = errors.New("payrun cannot be cancelled in its current state")
	ErrInvalidWage      = errors.New("wage must be positive")
	ErrInvalidPeriod    = errors.New("invalid month/year")
	ErrPayslipExists    = errors.New("payslip already generated for this employee and payrun")
)
