package attendance

import "time"

const (
	StatusPresent = "Present"
	StatusLeave   = "On Leave"
)

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	Status     string     `json:"status"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	WorkHours  float64    `json:"workHours"`
}

// MonthlyStats summarizes one employee-month for the attendance dashboard.
type MonthlyStats struct {
	PresentDays    int     `json:"presentDays"`
	LeaveDays      int     `json:"leaveDays"`
	TotalWorkHours float64 `json:"totalWorkHours"`
}
