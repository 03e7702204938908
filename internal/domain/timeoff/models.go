package timeoff

import "time"

type Request struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName,omitempty"`
	EmployeeEmail   string     `json:"-"`
	Type            string     `json:"type"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	Days            int        `json:"days"`
	Reason          string     `json:"reason,omitempty"`
	Status          string     `json:"status"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovalDate    *time.Time `json:"approvalDate,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Allocation is the remaining paid leave ledger for one employee, kept on the
// salary record and debited when a request is approved.
type Allocation struct {
	PaidDaysRemaining int `json:"paidDaysRemaining"`
	SickDaysRemaining int `json:"sickDaysRemaining"`
}

type BalanceCheck struct {
	Available bool `json:"available"`
	Balance   int  `json:"balance"`
	// Unlimited leave types (unpaid) have no ledger to debit.
	Unlimited bool `json:"unlimited"`
}
