package shift

import "time"

// PunchPolicy controls how punches outside the shift window are treated.
type PunchPolicy string

const (
	// PolicyStrict rejects punches outside the allowed window and records
	// them as violations.
	PolicyStrict PunchPolicy = "strict"
	// PolicyFlexible accepts any punches but still computes deviation
	// minutes for downstream rules.
	PolicyFlexible PunchPolicy = "flexible"
)

type ShiftType struct {
	ID        string
	CompanyID string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Shift is a named work-time template. StartTime and EndTime are clock
// times in "15:04" form; EndTime <= StartTime declares an overnight shift
// ending on the next calendar day.
type Shift struct {
	ID                       string
	CompanyID                string
	ShiftTypeID              string
	Name                     string
	PunchPolicy              PunchPolicy
	StartTime                string
	EndTime                  string
	GraceInMinutes           int
	GraceOutMinutes          int
	OvertimeApprovalRequired bool
	Active                   bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// ScheduleRule is a recurring work pattern distinct from a single shift's
// daily timing, e.g. "4-ON/2-OFF", "FLEX-IN/FLEX-OUT", "ROTATIONAL".
type ScheduleRule struct {
	ID        string
	CompanyID string
	Name      string
	Pattern   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AssignmentTarget string

const (
	TargetEmployee   AssignmentTarget = "employee"
	TargetDepartment AssignmentTarget = "department"
	TargetPosition   AssignmentTarget = "position"
)

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCancelled AssignmentStatus = "cancelled"
	AssignmentPostponed AssignmentStatus = "postponed"
	AssignmentExpired   AssignmentStatus = "expired"
)

// ShiftAssignment binds a shift (and optionally a schedule rule) to an
// employee for a date range. Department/position targeted assignments are
// expanded into one row per employee so the non-overlap invariant can be
// checked per employee.
type ShiftAssignment struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	TargetType     AssignmentTarget
	TargetID       string
	ShiftID        string
	ScheduleRuleID *string
	StartDate      time.Time
	EndDate        *time.Time
	Status         AssignmentStatus
	Note           *string
	CancelReason   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO / join fields
	ShiftName    *string
	EmployeeName *string
}

// CoversDate reports whether the assignment window includes the given day.
func (a *ShiftAssignment) CoversDate(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(a.StartDate.Truncate(24 * time.Hour)) {
		return false
	}
	if a.EndDate != nil && day.After(a.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// Overlaps reports whether two date ranges intersect. A nil end date means
// the range is open ended.
func Overlaps(startA time.Time, endA *time.Time, startB time.Time, endB *time.Time) bool {
	if endA != nil && endA.Before(startB) {
		return false
	}
	if endB != nil && endB.Before(startA) {
		return false
	}
	return true
}
