package timeoff

import "time"

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// WorkingDaysBetween counts weekdays in the closed interval [start, end].
// Saturdays and Sundays never consume leave balance. The count is fixed at
// request creation and is what the ledger is debited by on approval.
func WorkingDaysBetween(start, end time.Time) int {
	start, end = dateOnly(start), dateOnly(end)
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			days++
		}
	}
	return days
}

// LeaveDates lists the weekdays in [start, end], the attendance rows an
// approved request turns into.
func LeaveDates(start, end time.Time) []time.Time {
	start, end = dateOnly(start), dateOnly(end)
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

func validType(typ string) bool {
	return typ == TypePaid || typ == TypeSick || typ == TypeUnpaid
}
