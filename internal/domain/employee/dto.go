package employee

import (
	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

type RegisterEmployeeRequest struct {
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	NationalID   string  `json:"national_id"`
	DepartmentID *string `json:"department_id,omitempty"`
	PositionID   *string `json:"position_id,omitempty"`
	HireDate     string  `json:"hire_date"`
	PunchPIN     *string `json:"punch_pin,omitempty"`
}

func (r *RegisterEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is invalid",
		})
	}

	if !validator.IsValidNationalID(r.NationalID) {
		errs = append(errs, validator.ValidationError{
			Field:   "national_id",
			Message: "national_id must be a 16 digit number",
		})
	}

	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
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

type EmployeeResponse struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
	PositionID     *string `json:"position_id,omitempty"`
	PositionName   *string `json:"position_name,omitempty"`
	HireDate       string  `json:"hire_date"`
	Status         string  `json:"status"`
}

type EmployeeFilter struct {
	DepartmentID *string
	PositionID   *string
	Status       *string
	Page         int
	Limit        int
}
