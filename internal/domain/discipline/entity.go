package discipline

import "time"

type FlagStatus string

const (
	FlagPending  FlagStatus = "PENDING"
	FlagOpen     FlagStatus = "OPEN"
	FlagResolved FlagStatus = "RESOLVED"
)

// LatenessFlag is a disciplinary flag raised by the repeated-lateness
// monitor. Re-running the monitor updates the occurrence count on an
// existing PENDING/OPEN flag instead of creating duplicates.
type LatenessFlag struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	Status          FlagStatus
	OccurrenceCount int
	LookbackDays    int
	Reason          string
	ResolvedBy      *string
	ResolvedAt      *time.Time
	ResolutionNote  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / join fields
	EmployeeName *string
}
