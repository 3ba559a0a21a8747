package leave

import (
	"context"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, lt LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, lt LeaveType) error
	Delete(ctx context.Context, id string, companyID string) error
}

type LeaveBalanceRepository interface {
	Create(ctx context.Context, b LeaveBalance) (LeaveBalance, error)

	// GetByEmployeeTypeYear returns the balance row for an employee, leave
	// type and period year, or nil when none exists yet.
	GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveTypeID string, year int) (*LeaveBalance, error)

	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]LeaveBalance, error)

	Update(ctx context.Context, b LeaveBalance) error
}
