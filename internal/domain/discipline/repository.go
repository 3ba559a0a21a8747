package discipline

import (
	"context"
)

type LatenessFlagRepository interface {
	Create(ctx context.Context, flag LatenessFlag) (LatenessFlag, error)

	GetByID(ctx context.Context, id string, companyID string) (LatenessFlag, error)

	// GetUnresolvedByEmployee returns the employee's PENDING or OPEN flag,
	// or nil. Backs the monitor's idempotence check.
	GetUnresolvedByEmployee(ctx context.Context, employeeID string, companyID string) (*LatenessFlag, error)

	List(ctx context.Context, companyID string, status *FlagStatus) ([]LatenessFlag, error)

	Update(ctx context.Context, flag LatenessFlag) error
}
