package timerule

import (
	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

type CreateLatenessRuleRequest struct {
	Name                    string  `json:"name"`
	Description             *string `json:"description,omitempty"`
	GracePeriodMinutes      int     `json:"grace_period_minutes"`
	DeductionPerMinute      float64 `json:"deduction_per_minute"`
	RoundingIntervalMinutes int     `json:"rounding_interval_minutes"`
	RoundingStrategy        string  `json:"rounding_strategy"`
}

func (r *CreateLatenessRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must not be negative",
		})
	}

	if r.DeductionPerMinute < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "deduction_per_minute",
			Message: "deduction_per_minute must not be negative",
		})
	}

	if r.RoundingIntervalMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rounding_interval_minutes",
			Message: "rounding_interval_minutes must not be negative",
		})
	}

	if r.RoundingIntervalMinutes > 0 && !validator.IsValidRoundingStrategy(r.RoundingStrategy) {
		errs = append(errs, validator.ValidationError{
			Field:   "rounding_strategy",
			Message: "rounding_strategy must be 'nearest', 'up' or 'down'",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLatenessRuleRequest struct {
	ID                      string   `json:"-"`
	Name                    *string  `json:"name,omitempty"`
	Description             *string  `json:"description,omitempty"`
	GracePeriodMinutes      *int     `json:"grace_period_minutes,omitempty"`
	DeductionPerMinute      *float64 `json:"deduction_per_minute,omitempty"`
	RoundingIntervalMinutes *int     `json:"rounding_interval_minutes,omitempty"`
	RoundingStrategy        *string  `json:"rounding_strategy,omitempty"`
	Active                  *bool    `json:"active,omitempty"`
}

type CreateOvertimeRuleRequest struct {
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	MinOvertimeMinutes int     `json:"min_overtime_minutes"`
	RatePerMinute      float64 `json:"rate_per_minute"`
	BeforeShiftAllowed bool    `json:"before_shift_allowed"`
	RequiresApproval   bool    `json:"requires_approval"`
}

func (r *CreateOvertimeRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.MinOvertimeMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "min_overtime_minutes",
			Message: "min_overtime_minutes must not be negative",
		})
	}

	if r.RatePerMinute < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rate_per_minute",
			Message: "rate_per_minute must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateOvertimeRuleRequest struct {
	ID                 string   `json:"-"`
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	MinOvertimeMinutes *int     `json:"min_overtime_minutes,omitempty"`
	RatePerMinute      *float64 `json:"rate_per_minute,omitempty"`
	BeforeShiftAllowed *bool    `json:"before_shift_allowed,omitempty"`
	RequiresApproval   *bool    `json:"requires_approval,omitempty"`
	Active             *bool    `json:"active,omitempty"`
}

type LatenessRuleResponse struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	Description             *string `json:"description,omitempty"`
	GracePeriodMinutes      int     `json:"grace_period_minutes"`
	DeductionPerMinute      float64 `json:"deduction_per_minute"`
	RoundingIntervalMinutes int     `json:"rounding_interval_minutes"`
	RoundingStrategy        string  `json:"rounding_strategy"`
	Active                  bool    `json:"active"`
	Status                  string  `json:"status"`
	ApprovedBy              *string `json:"approved_by,omitempty"`
}

type OvertimeRuleResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	MinOvertimeMinutes int     `json:"min_overtime_minutes"`
	RatePerMinute      float64 `json:"rate_per_minute"`
	BeforeShiftAllowed bool    `json:"before_shift_allowed"`
	RequiresApproval   bool    `json:"requires_approval"`
	Active             bool    `json:"active"`
	Status             string  `json:"status"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
}
