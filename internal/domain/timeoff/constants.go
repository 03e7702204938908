package timeoff

const (
	TypePaid   = "Paid Time Off"
	TypeSick   = "Sick Time Off"
	TypeUnpaid = "Unpaid Leave"

	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// PaidTypes are the request types that count toward payable days and are
// capacity-constrained by the leave allocation ledger.
var PaidTypes = []string{TypePaid, TypeSick}
