package payroll

// ProRataSalary is the fraction of the full monthly wage corresponding to the
// days actually payable. The divisor is a policy value (22 by default), not
// the calendar month's real working-day count.
func ProRataSalary(fullWage float64, payableDays, workingDaysInMonth int) float64 {
	if workingDaysInMonth <= 0 {
		workingDaysInMonth = DefaultWorkingDaysPerMonth
	}
	dailyRate := fullWage / float64(workingDaysInMonth)
	return dailyRate * float64(payableDays)
}

// ScaleComponents scales every stored component linearly to the pro-rata
// salary. The flat Professional Tax scales with days worked like everything
// else; that is deliberate policy, not an oversight. Employer contributions
// are tracked in the structure but never become payslip deduction lines, so
// they do not reduce net pay.
func ScaleComponents(components []SalaryComponent, proRataSalary, fullWage float64) (earnings, deductions []ComponentResult) {
	if fullWage == 0 {
		return nil, nil
	}
	for _, comp := range components {
		result := ComponentResult{
			Component:  comp.Name,
			Percentage: comp.Percentage,
			Amount:     comp.Amount / fullWage * proRataSalary,
		}
		switch comp.Kind {
		case ComponentEarning:
			earnings = append(earnings, result)
		case ComponentDeduction:
			deductions = append(deductions, result)
		}
	}
	return earnings, deductions
}
