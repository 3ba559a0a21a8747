package attendance

import (
	"time"

	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string  `json:"employee_id"`
	PunchPIN   *string `json:"punch_pin,omitempty"`
	Source     *string `json:"source,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.PunchPIN != nil && !validator.IsValidPunchPIN(*r.PunchPIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_pin",
			Message: "punch_pin must be 4-6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	PunchPIN   *string `json:"punch_pin,omitempty"`
	Source     *string `json:"source,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	req := ClockInRequest{EmployeeID: r.EmployeeID, PunchPIN: r.PunchPIN}
	return req.Validate()
}

// ========================================
// EVALUATION DTOs
// ========================================

type PunchInput struct {
	Type string `json:"type"`
	At   string `json:"at"` // RFC3339
}

// EvaluatePunchesRequest evaluates an explicit punch list against the
// employee's assigned shift for the date. Used for corrections and
// what-if checks; the persisted flow reads punches from the record.
type EvaluatePunchesRequest struct {
	EmployeeID string       `json:"employee_id"`
	Date       string       `json:"date"`
	Punches    []PunchInput `json:"punches"`
}

func (r *EvaluatePunchesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(r.Punches) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "punches",
			Message: "at least one punch is required",
		})
	}

	for _, p := range r.Punches {
		if p.Type != string(PunchIn) && p.Type != string(PunchOut) {
			errs = append(errs, validator.ValidationError{
				Field:   "punches",
				Message: "punch type must be 'in' or 'out'",
			})
			break
		}
		if _, err := time.Parse(time.RFC3339, p.At); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "punches",
				Message: "punch timestamps must be RFC3339",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchClassification struct {
	Type          string `json:"type"`
	At            string `json:"at"`
	Class         string `json:"class"` // on_time | early | late | violation
	OffsetMinutes int    `json:"offset_minutes"`
}

type EvaluationResponse struct {
	Classifications   []PunchClassification `json:"classifications"`
	LatenessMinutes   int                   `json:"lateness_minutes"`
	EarlyLeaveMinutes int                   `json:"early_leave_minutes"`
	OvertimeMinutes   int                   `json:"overtime_minutes"`
	Violations        []string              `json:"violations"`
}

// ApplyRulesRequest recomputes deduction/overtime for a stored record
// using the company's effective rules. SuppressOnHoliday requests holiday
// suppression for matching dates.
type ApplyRulesRequest struct {
	RecordID          string `json:"-"`
	SuppressOnHoliday bool   `json:"suppress_on_holiday"`
}

type RuleApplicationResponse struct {
	DeductionMinutes int     `json:"deduction_minutes"`
	DeductionAmount  float64 `json:"deduction_amount"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	Suppressed       bool    `json:"suppressed"`
	Message          *string `json:"message,omitempty"`
}

// ========================================
// LIST / RESPONSE DTOs
// ========================================

type AttendanceFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
}

type PunchResponse struct {
	Type string `json:"type"`
	At   string `json:"at"`
}

type RecordResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	Date               string          `json:"date"`
	ShiftID            *string         `json:"shift_id,omitempty"`
	Punches            []PunchResponse `json:"punches"`
	LateMinutes        int             `json:"late_minutes"`
	EarlyLeaveMinutes  int             `json:"early_leave_minutes"`
	OvertimeMinutes    int             `json:"overtime_minutes"`
	DeductionMinutes   int             `json:"deduction_minutes"`
	DeductionAmount    float64         `json:"deduction_amount"`
	HolidaySuppressed  bool            `json:"holiday_suppressed"`
	SuppressionMessage *string         `json:"suppression_message,omitempty"`
	Status             string          `json:"status"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}
