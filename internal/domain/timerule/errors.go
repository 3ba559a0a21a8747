package timerule

import "errors"

var (
	ErrLatenessRuleNotFound = errors.New("lateness rule not found")
	ErrOvertimeRuleNotFound = errors.New("overtime rule not found")

	// ErrRuleNotApproved is returned when a draft or rejected rule is
	// applied to payroll-affecting computation.
	ErrRuleNotApproved = errors.New("rule must be approved before it affects payroll")

	ErrRuleAlreadyApproved = errors.New("rule is already approved")
	ErrRuleInactive        = errors.New("rule is not active")
)
