package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // HR manager - can approve rules and resolve flags
	RoleEmployee Role = "employee" // Regular employee
)

// Principal is the authenticated caller extracted from JWT claims.
type Principal struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       Role
}

// IsOwner checks if the principal is the company owner
func (p *Principal) IsOwner() bool {
	return p.Role == RoleOwner
}

// IsManager checks if the principal is manager or owner
func (p *Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}
