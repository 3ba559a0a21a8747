package user

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or missing access token")
	ErrOwnerAccessRequired    = errors.New("owner access required")
	ErrManagerAccessRequired  = errors.New("manager access required")
	ErrPermissionDenied       = errors.New("insufficient permissions")
	ErrMissingCompanyClaim    = errors.New("company_id claim is missing or invalid")
	ErrMissingEmployeeClaim   = errors.New("employee_id claim is missing or invalid")
	ErrMissingUserClaim       = errors.New("user_id claim is missing or invalid")
)
