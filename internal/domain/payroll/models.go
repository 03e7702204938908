package payroll

import "time"

type Payrun struct {
	ID              string     `json:"id"`
	Month           int        `json:"month"`
	Year            int        `json:"year"`
	Status          string     `json:"status"`
	Gross           float64    `json:"gross"`
	Net             float64    `json:"net"`
	EmployerCost    float64    `json:"employerCost"`
	FailedEmployees []string   `json:"failedEmployees,omitempty"`
	GeneratedBy     string     `json:"generatedBy"`
	ValidatedBy     string     `json:"validatedBy,omitempty"`
	ValidatedAt     *time.Time `json:"validatedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// SalaryComponent is one line of an employee's stored salary structure,
// expressed at full monthly wage.
type SalaryComponent struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Percentage  float64 `json:"percentage"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// ComponentResult is a structure line scaled to the pro-rata salary of a
// specific pay period, as it appears on a payslip.
type ComponentResult struct {
	Component  string  `json:"component"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

type WorkedDays struct {
	AttendanceDays   int `json:"attendanceDays"`
	PaidTimeOffDays  int `json:"paidTimeOffDays"`
	UnpaidLeaveDays  int `json:"unpaidLeaveDays"`
	TotalPayableDays int `json:"totalPayableDays"`
}

type Payslip struct {
	ID               string            `json:"id"`
	PayrunID         string            `json:"payrunId"`
	EmployeeID       string            `json:"employeeId"`
	EmployeeName     string            `json:"employeeName,omitempty"`
	PayPeriodStart   time.Time         `json:"payPeriodStart"`
	PayPeriodEnd     time.Time         `json:"payPeriodEnd"`
	AttendanceDays   int               `json:"attendanceDays"`
	PaidTimeOffDays  int               `json:"paidTimeOffDays"`
	UnpaidLeaveDays  int               `json:"unpaidLeaveDays"`
	TotalPayableDays int               `json:"totalPayableDays"`
	BasicWage        float64           `json:"basicWage"`
	GrossWage        float64           `json:"grossWage"`
	TotalDeductions  float64           `json:"totalDeductions"`
	NetWage          float64           `json:"netWage"`
	EmployerCost     float64           `json:"employerCost"`
	Earnings         []ComponentResult `json:"earnings,omitempty"`
	Deductions       []ComponentResult `json:"deductions,omitempty"`
	Status           string            `json:"status"`
	GeneratedBy      string            `json:"generatedBy,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// ActiveEmployee is the slice of the employee directory the payrun loop needs.
type ActiveEmployee struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Wage      float64
}

// DateRange is a closed [Start, End] calendar interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}
