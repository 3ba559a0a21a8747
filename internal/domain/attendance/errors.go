package attendance

import "errors"

var (
	// Punch errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")
	ErrNoShiftForDate    = errors.New("no shift assignment covers this date")
	ErrPunchOutOfOrder   = errors.New("punches must alternate in/out in time order")
	ErrPunchPolicyDenied = errors.New("punch rejected by strict shift policy")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrNoPunches      = errors.New("attendance record has no punches")
)
