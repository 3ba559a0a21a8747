package discipline

import (
	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

type CheckLatenessRequest struct {
	EmployeeID     string `json:"employee_id"`
	ThresholdCount int    `json:"threshold_count"`
	LookbackDays   int    `json:"lookback_days"`
}

func (r *CheckLatenessRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.ThresholdCount < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "threshold_count",
			Message: "threshold_count must not be negative",
		})
	}

	if r.LookbackDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "lookback_days",
			Message: "lookback_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckLatenessResult struct {
	Flagged         bool `json:"flagged"`
	OccurrenceCount int  `json:"occurrence_count"`
}

type ScanRequest struct {
	Days int `json:"days"`
}

type ScanResult struct {
	FlaggedCount int `json:"flagged_count"`
}

type ResolveFlagRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

type FlagResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Status          string  `json:"status"`
	OccurrenceCount int     `json:"occurrence_count"`
	Reason          string  `json:"reason"`
	CreatedAt       string  `json:"created_at"`
}
