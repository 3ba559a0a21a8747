package timerule

import "time"

// ApprovalStatus is the lifecycle shared by payroll-affecting rules.
// Editing an approved rule resets it to draft; only approved rules take
// payroll effect.
type ApprovalStatus string

const (
	StatusDraft    ApprovalStatus = "draft"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// RoundingStrategy selects how punch timestamps snap to the rounding
// interval. The same strategy is applied to clock-in and clock-out so
// rounding never systematically favors one direction.
type RoundingStrategy string

const (
	RoundNearest RoundingStrategy = "nearest"
	RoundUp      RoundingStrategy = "up"
	RoundDown    RoundingStrategy = "down"
)

// LatenessRule parameterizes the lateness deduction:
// deduction = max(0, minutesLate - GracePeriodMinutes) * DeductionPerMinute.
type LatenessRule struct {
	ID                 string
	CompanyID          string
	Name               string
	Description        *string
	GracePeriodMinutes int
	DeductionPerMinute float64
	// RoundingIntervalMinutes of 0 disables timestamp rounding.
	RoundingIntervalMinutes int
	RoundingStrategy        RoundingStrategy
	Active                  bool
	Status                  ApprovalStatus
	ApprovedBy              *string
	ApprovedAt              *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// OvertimeRule parameterizes overtime computation. Minutes worked past the
// shift end (or before the start when BeforeShiftAllowed is set) count as
// overtime once they exceed MinOvertimeMinutes.
type OvertimeRule struct {
	ID                 string
	CompanyID          string
	Name               string
	Description        *string
	MinOvertimeMinutes int
	RatePerMinute      float64
	BeforeShiftAllowed bool
	RequiresApproval   bool
	Active             bool
	Status             ApprovalStatus
	ApprovedBy         *string
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Effective reports whether the rule may affect payroll.
func (r *LatenessRule) Effective() bool {
	return r.Active && r.Status == StatusApproved
}

func (r *OvertimeRule) Effective() bool {
	return r.Active && r.Status == StatusApproved
}
