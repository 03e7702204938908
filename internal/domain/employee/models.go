package employee

import "time"

type Employee struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Department  string     `json:"department,omitempty"`
	Designation string     `json:"designation,omitempty"`
	JoiningDate *time.Time `json:"joiningDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	Wage        float64    `json:"wage"`
	CreatedAt   time.Time  `json:"createdAt"`
}
