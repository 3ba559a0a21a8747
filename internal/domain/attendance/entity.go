package attendance

import (
	"time"
)

type PunchType string

const (
	PunchIn  PunchType = "in"
	PunchOut PunchType = "out"
)

// Punch is a single clock event. At is stored in UTC; evaluation happens
// in the shift's local frame.
type Punch struct {
	ID           string
	AttendanceID string
	Type         PunchType
	At           time.Time
	Source       *string
	CreatedAt    time.Time
}

type RecordStatus string

const (
	StatusPresent    RecordStatus = "present"
	StatusLate       RecordStatus = "late"
	StatusAbsent     RecordStatus = "absent"
	StatusViolation  RecordStatus = "violation"
	StatusSuppressed RecordStatus = "suppressed"
)

// AttendanceRecord is one employee work day. Records are corrected in
// place by re-running rule evaluation; they are never deleted.
type AttendanceRecord struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Date       time.Time
	ShiftID    *string
	Punches    []Punch

	// Computed by the punch evaluator and rule engine.
	LateMinutes       int
	EarlyLeaveMinutes int
	OvertimeMinutes   int
	DeductionMinutes  int
	DeductionAmount   float64
	OvertimeApproved  *bool

	HolidaySuppressed  bool
	SuppressionMessage *string

	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / join fields
	EmployeeName *string
}

// IsLate reports whether the record counts toward repeated-lateness.
func (r *AttendanceRecord) IsLate() bool {
	return !r.HolidaySuppressed && r.LateMinutes > 0
}
