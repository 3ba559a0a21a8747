package employee

import "time"

type EmploymentStatus string

const (
	StatusActive   EmploymentStatus = "active"
	StatusInactive EmploymentStatus = "inactive"
	StatusResigned EmploymentStatus = "resigned"
)

type Employee struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	PositionID   *string
	FullName     string
	Email        string
	NationalID   string
	HireDate     time.Time
	Status       EmploymentStatus

	// Punch clock kiosk PIN, bcrypt hashed. Nil until the employee sets one.
	PunchPINHash *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join fields
	DepartmentName *string
	PositionName   *string
}

type Department struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Position struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
