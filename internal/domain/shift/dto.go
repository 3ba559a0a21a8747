package shift

import (
	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

// ========================================
// SHIFT DTOs
// ========================================

type CreateShiftRequest struct {
	ShiftTypeID              string `json:"shift_type_id"`
	Name                     string `json:"name"`
	PunchPolicy              string `json:"punch_policy"`
	StartTime                string `json:"start_time"`
	EndTime                  string `json:"end_time"`
	GraceInMinutes           int    `json:"grace_in_minutes"`
	GraceOutMinutes          int    `json:"grace_out_minutes"`
	OvertimeApprovalRequired bool   `json:"overtime_approval_required"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_type_id",
			Message: "shift_type_id is required",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.PunchPolicy != string(PolicyStrict) && r.PunchPolicy != string(PolicyFlexible) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_policy",
			Message: "punch_policy must be 'strict' or 'flexible'",
		})
	}

	if _, ok := validator.IsValidClockTime(r.StartTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	if _, ok := validator.IsValidClockTime(r.EndTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	if r.GraceInMinutes < 0 || r.GraceOutMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_minutes",
			Message: "grace minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateShiftRequest struct {
	ID                       string `json:"-"`
	ShiftTypeID              string `json:"shift_type_id"`
	Name                     string `json:"name"`
	PunchPolicy              string `json:"punch_policy"`
	StartTime                string `json:"start_time"`
	EndTime                  string `json:"end_time"`
	GraceInMinutes           int    `json:"grace_in_minutes"`
	GraceOutMinutes          int    `json:"grace_out_minutes"`
	OvertimeApprovalRequired bool   `json:"overtime_approval_required"`
	Active                   bool   `json:"active"`
}

func (r *UpdateShiftRequest) Validate() error {
	req := CreateShiftRequest{
		ShiftTypeID:     r.ShiftTypeID,
		Name:            r.Name,
		PunchPolicy:     r.PunchPolicy,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		GraceInMinutes:  r.GraceInMinutes,
		GraceOutMinutes: r.GraceOutMinutes,
	}
	return req.Validate()
}

// ========================================
// SHIFT TYPE / SCHEDULE RULE DTOs
// ========================================

type CreateShiftTypeRequest struct {
	Name string `json:"name"`
}

func (r *CreateShiftTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateScheduleRuleRequest struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

func (r *CreateScheduleRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Pattern) {
		errs = append(errs, validator.ValidationError{
			Field:   "pattern",
			Message: "pattern is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// ASSIGNMENT DTOs
// ========================================

// AssignShiftRequest targets exactly one of employee, department or
// position. Department assignments may exclude positions. When Supersede
// is set, an overlapping active assignment is cancelled instead of the
// request being rejected.
type AssignShiftRequest struct {
	EmployeeID          *string  `json:"employee_id,omitempty"`
	DepartmentID        *string  `json:"department_id,omitempty"`
	PositionID          *string  `json:"position_id,omitempty"`
	ShiftID             string   `json:"shift_id"`
	ScheduleRuleID      *string  `json:"schedule_rule_id,omitempty"`
	StartDate           string   `json:"start_date"`
	EndDate             *string  `json:"end_date,omitempty"`
	ExcludedPositionIDs []string `json:"excluded_position_ids,omitempty"`
	Supersede           bool     `json:"supersede"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	targets := 0
	for _, t := range []*string{r.EmployeeID, r.DepartmentID, r.PositionID} {
		if t != nil && !validator.IsEmpty(*t) {
			targets++
		}
	}
	if targets != 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "target",
			Message: "exactly one of employee_id, department_id or position_id is required",
		})
	}

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(r.ExcludedPositionIDs) > 0 && (r.DepartmentID == nil || validator.IsEmpty(*r.DepartmentID)) {
		errs = append(errs, validator.ValidationError{
			Field:   "excluded_position_ids",
			Message: "excluded_position_ids is only valid for department assignments",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RenewAssignmentRequest struct {
	ID         string  `json:"-"`
	NewEndDate *string `json:"new_end_date,omitempty"`
	Note       *string `json:"note,omitempty"`
}

func (r *RenewAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.NewEndDate != nil {
		if _, ok := validator.IsValidDate(*r.NewEndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "new_end_date",
				Message: "new_end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CancelAssignmentRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

type PostponeAssignmentRequest struct {
	ID            string `json:"-"`
	PostponeUntil string `json:"postpone_until"`
}

func (r *PostponeAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.PostponeUntil); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "postpone_until",
			Message: "postpone_until must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignmentResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	TargetType     string  `json:"target_type"`
	TargetID       string  `json:"target_id"`
	ShiftID        string  `json:"shift_id"`
	ShiftName      *string `json:"shift_name,omitempty"`
	ScheduleRuleID *string `json:"schedule_rule_id,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date,omitempty"`
	Status         string  `json:"status"`
	Note           *string `json:"note,omitempty"`
	CancelReason   *string `json:"cancel_reason,omitempty"`
}

// AssignShiftResult reports the expanded per-employee assignments created
// by a single request together with any superseded assignment IDs.
type AssignShiftResult struct {
	Assignments  []AssignmentResponse `json:"assignments"`
	SupersededID []string             `json:"superseded_ids,omitempty"`
}
