package attendance

import "errors"

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("no open check-in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)
