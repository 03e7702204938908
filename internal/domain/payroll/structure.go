package payroll

// Fixed salary structure policy. Earning percentages sum to 100% of the
// monthly wage; deductions are computed independently and reduce net pay, not
// gross. HRA and PF are expressed as percentages of basic salary (50% of
// wage), which is why their display percentages differ from their share of
// the wage.
var structureTable = []SalaryComponent{
	{Name: "Basic Salary", Kind: ComponentEarning, Percentage: 50.00, Description: "Define basic salary from company cost, compute it based on monthly wages."},
	{Name: "House Rent Allowance", Kind: ComponentEarning, Percentage: 50.00, Description: "HRA provided to employees = 50% of basic salary."},
	{Name: "Standard Allowance", Kind: ComponentEarning, Percentage: 16.67, Description: "A predetermined fixed amount provided to employees as part of their salary."},
	{Name: "Performance Bonus", Kind: ComponentEarning, Percentage: 8.33, Description: "Variable amount paid during payroll, defined by the company and calculated as a % of basic salary."},
	{Name: "Leave Travel Allowance", Kind: ComponentEarning, Percentage: 8.33, Description: "Paid by the company to employees to cover travel expenses, calculated as % of basic salary."},
	{Name: "Fixed Allowance", Kind: ComponentEarning, Percentage: 11.67, Description: "Fixed portion of wages determined after calculating all salary components."},
	{Name: "PF Employee", Kind: ComponentDeduction, Percentage: 12.00, Description: "PF calculated based on basic salary."},
	{Name: "PF Employer", Kind: ComponentEmployer, Percentage: 12.00, Description: "PF calculated based on basic salary."},
	{Name: "Professional Tax", Kind: ComponentDeduction, Percentage: 0, Description: "Deducted from gross salary."},
}

// wageShare maps a component name to its amount at full wage.
func wageShare(name string, wage float64) float64 {
	switch name {
	case "Basic Salary":
		return wage * 0.50
	case "House Rent Allowance":
		return wage * 0.50 * 0.50
	case "Standard Allowance":
		return wage * 0.1667
	case "Performance Bonus":
		return wage * 0.0833
	case "Leave Travel Allowance":
		return wage * 0.0833
	case "Fixed Allowance":
		return wage * 0.1167
	case "PF Employee", "PF Employer":
		return wage * 0.50 * 0.12
	case "Professional Tax":
		return 200
	}
	return 0
}

// BuildSalaryComponents derives the full component set for a monthly wage.
// The result replaces any previously stored set wholesale; rebuilding with
// the same wage yields an identical set.
func BuildSalaryComponents(wage float64) ([]SalaryComponent, error) {
	if wage <= 0 {
		return nil, ErrInvalidWage
	}
	components := make([]SalaryComponent, len(structureTable))
	for i, entry := range structureTable {
		entry.Amount = wageShare(entry.Name, wage)
		components[i] = entry
	}
	return components, nil
}
