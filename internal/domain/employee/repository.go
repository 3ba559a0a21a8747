package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employees.
// All methods include companyID to prevent cross-company data access.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// GetByEmail and GetByNationalID back the duplicate-registration checks.
	GetByEmail(ctx context.Context, email string, companyID string) (*Employee, error)
	GetByNationalID(ctx context.Context, nationalID string, companyID string) (*Employee, error)

	// GetActiveByCompanyID returns all active employees, optionally scoped
	// to a department. Used by bulk accrual, carry-forward and the
	// repeated-lateness scan.
	GetActiveByCompanyID(ctx context.Context, companyID string, departmentID *string) ([]Employee, error)

	// GetEmployeeIDsByPosition resolves position-targeted shift assignments.
	GetEmployeeIDsByPosition(ctx context.Context, positionID string, companyID string) ([]string, error)

	// GetEmployeeIDsByDepartment resolves department-targeted shift
	// assignments, skipping the excluded positions.
	GetEmployeeIDsByDepartment(ctx context.Context, departmentID string, companyID string, excludedPositionIDs []string) ([]string, error)

	List(ctx context.Context, filter EmployeeFilter, companyID string) ([]Employee, int64, error)

	Update(ctx context.Context, emp Employee) error

	// GetCompanyIDs returns all company IDs with at least one active
	// employee. Used by company-wide batch jobs.
	GetCompanyIDs(ctx context.Context) ([]string, error)
}
