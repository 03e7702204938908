package timeoff

import "errors"

var (
	ErrNotFound            = errors.New("time off request not found")
	ErrInvalidRange        = errors.New("invalid date range")
	ErrUnknownType         = errors.New("unknown time off type")
	ErrAlreadyProcessed    = errors.New("time off request already processed")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrNoAllocation        = errors.New("no leave allocation for employee")
)
