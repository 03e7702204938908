package payroll

import "time"

// MonthInterval returns the closed [first, last] day interval of a calendar
// month. Month is 1-indexed.
func MonthInterval(month, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CountWorkingDays returns the number of non-weekend days in the closed
// interval [start, end]. An inverted interval counts zero days.
func CountWorkingDays(start, end time.Time) int {
	start = dateOnly(start)
	end = dateOnly(end)
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !isWeekend(day) {
			count++
		}
	}
	return count
}

// ClipRange clips [r.Start, r.End] to [lo, hi]. The second return is false
// when the range does not overlap the interval at all.
func ClipRange(r DateRange, lo, hi time.Time) (DateRange, bool) {
	start := r.Start
	if start.Before(lo) {
		start = lo
	}
	end := r.End
	if end.After(hi) {
		end = hi
	}
	if end.Before(start) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

// SumWorkingDays clips each range to [lo, hi] and totals the non-weekend days
// of the clipped ranges.
func SumWorkingDays(ranges []DateRange, lo, hi time.Time) int {
	total := 0
	for _, r := range ranges {
		clipped, ok := ClipRange(r, lo, hi)
		if !ok {
			continue
		}
		total += CountWorkingDays(clipped.Start, clipped.End)
	}
	return total
}

// ComputeWorkedDays derives the day counts for one employee-month from the
// number of Present attendance records and the approved paid/unpaid leave
// ranges overlapping the month. Unpaid days are not payable.
func ComputeWorkedDays(presentDays int, paidLeave, unpaidLeave []DateRange, month, year int) WorkedDays {
	first, last := MonthInterval(month, year)
	paid := SumWorkingDays(paidLeave, first, last)
	unpaid := SumWorkingDays(unpaidLeave, first, last)
	return WorkedDays{
		AttendanceDays:   presentDays,
		PaidTimeOffDays:  paid,
		UnpaidLeaveDays:  unpaid,
		TotalPayableDays: presentDays + paid,
	}
}
