package payroll

const (
	RunStatusDraft     = "Draft"
	RunStatusComputed  = "Computed"
	RunStatusValidated = "Validated"
	RunStatusDone      = "Done"
	RunStatusCancelled = "Cancelled"

	// Payslips share the run's status vocabulary. A validated run ends up as
	// Done while its payslips end up as Validated; that asymmetry is how the
	// labels have always been and downstream consumers rely on both.
	PayslipStatusComputed  = "Computed"
	PayslipStatusValidated = "Validated"
	PayslipStatusCancelled = "Cancelled"

	ComponentEarning   = "earning"
	ComponentDeduction = "deduction"
	// ComponentEmployer marks contributions the employer pays on top of the
	// employee's package (employer PF). They are never netted against
	// employee pay.
	ComponentEmployer = "employer"

	// DefaultWorkingDaysPerMonth is the pro-rata divisor when none is
	// configured. Every month is treated as 22 working days regardless of its
	// actual calendar.
	DefaultWorkingDaysPerMonth = 22
)
