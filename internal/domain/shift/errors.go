package shift

import "errors"

var (
	ErrShiftNotFound        = errors.New("shift not found")
	ErrShiftTypeNotFound    = errors.New("shift type not found")
	ErrScheduleRuleNotFound = errors.New("schedule rule not found")
	ErrAssignmentNotFound   = errors.New("shift assignment not found")

	// ErrAssignmentOverlap signals a new assignment whose date range
	// intersects an existing active assignment for the same employee.
	ErrAssignmentOverlap = errors.New("employee already has an active shift assignment for this date range")

	ErrAssignmentNotActive   = errors.New("assignment is not active")
	ErrAssignmentTerminal    = errors.New("assignment is cancelled or expired and cannot be changed")
	ErrPostponeDateInPast    = errors.New("postpone date must be in the future")
	ErrPostponeBeyondEndDate = errors.New("postpone date must not be after the assignment end date")
	ErrShiftInactive         = errors.New("shift is not active")
	ErrNoAssignmentForDate   = errors.New("no shift assignment covers this date")
)
