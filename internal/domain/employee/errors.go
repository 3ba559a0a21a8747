package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrPositionNotFound   = errors.New("position not found")
	ErrEmailExists        = errors.New("email already registered in this company")
	ErrNationalIDExists   = errors.New("national ID already registered")
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrInvalidPunchPIN    = errors.New("invalid punch clock PIN")
)
