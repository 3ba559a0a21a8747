package leave

import "errors"

var (
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrBalanceNotFound   = errors.New("leave balance not found")

	ErrAccrualAlreadyApplied = errors.New("accrual already applied for this period")
	ErrEmployeeIneligible    = errors.New("employee is not eligible for this leave type")
	ErrLeaveTypeInactive     = errors.New("leave type is not active")
)
