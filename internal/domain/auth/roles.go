package auth

const (
	RoleAdmin          = "Admin"
	RoleHROfficer      = "HR Officer"
	RolePayrollOfficer = "Payroll Officer"
	RoleManager        = "Manager"
	RoleEmployee       = "Employee"
)

// CanRunPayroll covers generating, validating and cancelling payruns.
func CanRunPayroll(role string) bool {
	return role == RoleAdmin || role == RolePayrollOfficer
}

// CanDecideTimeOff covers approving and rejecting leave requests.
func CanDecideTimeOff(role string) bool {
	return role == RoleAdmin || role == RoleHROfficer || role == RoleManager
}

// CanManageEmployees covers directory changes and wage updates.
func CanManageEmployees(role string) bool {
	return role == RoleAdmin || role == RoleHROfficer
}
