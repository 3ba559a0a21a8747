package leave

import (
	"github.com/shopspring/decimal"
	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

// ========================================
// ACCRUAL DTOs
// ========================================

type AccrueLeaveRequest struct {
	EmployeeID  string          `json:"employee_id"`
	LeaveTypeID string          `json:"leave_type_id"`
	Amount      decimal.Decimal `json:"amount"`
	AccrualType string          `json:"accrual_type"`
	AsOfDate    *string         `json:"as_of_date,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

func (r *AccrueLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if !validator.IsInSlice(r.AccrualType, []string{string(AccrualMonthly), string(AccrualYearly), string(AccrualPerTerm)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_type",
			Message: "accrual_type must be 'monthly', 'yearly' or 'per_term'",
		})
	}

	if r.AsOfDate != nil {
		if _, ok := validator.IsValidDate(*r.AsOfDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "as_of_date",
				Message: "as_of_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AccrueLeaveResult reports either the new balance or a human-readable
// skip reason. Skips are not errors.
type AccrueLeaveResult struct {
	Success    bool             `json:"success"`
	NewBalance *decimal.Decimal `json:"new_balance,omitempty"`
	Reason     *string          `json:"reason,omitempty"`
}

type BulkAccrueRequest struct {
	LeaveTypeID  string          `json:"leave_type_id"`
	Amount       decimal.Decimal `json:"amount"`
	AccrualType  string          `json:"accrual_type"`
	DepartmentID *string         `json:"department_id,omitempty"`
	AsOfDate     *string         `json:"as_of_date,omitempty"`
}

func (r *BulkAccrueRequest) Validate() error {
	req := AccrueLeaveRequest{
		EmployeeID:  "bulk", // target resolved per employee
		LeaveTypeID: r.LeaveTypeID,
		Amount:      r.Amount,
		AccrualType: r.AccrualType,
		AsOfDate:    r.AsOfDate,
	}
	return req.Validate()
}

type BulkItemStatus string

const (
	ItemSuccessful BulkItemStatus = "successful"
	ItemFailed     BulkItemStatus = "failed"
	ItemSkipped    BulkItemStatus = "skipped"
)

type BulkAccrueDetail struct {
	EmployeeID string           `json:"employee_id"`
	Status     BulkItemStatus   `json:"status"`
	Accrued    *decimal.Decimal `json:"accrued,omitempty"`
	NewBalance *decimal.Decimal `json:"new_balance,omitempty"`
	Error      *string          `json:"error,omitempty"`
	Reason     *string          `json:"reason,omitempty"`
}

type BulkAccrueResult struct {
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
	Details    []BulkAccrueDetail `json:"details"`
}

// ========================================
// CARRY-FORWARD DTOs
// ========================================

type CarryForwardRequest struct {
	LeaveTypeID  string  `json:"leave_type_id"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	AsOfDate     *string `json:"as_of_date,omitempty"`
}

func (r *CarryForwardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.AsOfDate != nil {
		if _, ok := validator.IsValidDate(*r.AsOfDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "as_of_date",
				Message: "as_of_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CarryForwardDetail struct {
	EmployeeID     string          `json:"employee_id"`
	Status         BulkItemStatus  `json:"status"`
	AccruedRounded decimal.Decimal `json:"accrued_rounded"`
	Taken          decimal.Decimal `json:"taken"`
	Pending        decimal.Decimal `json:"pending"`
	CarryForward   decimal.Decimal `json:"carry_forward"`
	Error          *string         `json:"error,omitempty"`
}

type CarryForwardResult struct {
	Total      int                  `json:"total"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	Details    []CarryForwardDetail `json:"details"`
}

// ========================================
// LEAVE TYPE DTOs
// ========================================

type CreateLeaveTypeRequest struct {
	Name              string           `json:"name"`
	AccrualType       string           `json:"accrual_type"`
	AccrualAmount     decimal.Decimal  `json:"accrual_amount"`
	CarryForwardCap   *decimal.Decimal `json:"carry_forward_cap,omitempty"`
	RoundingIncrement decimal.Decimal  `json:"rounding_increment"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsInSlice(r.AccrualType, []string{string(AccrualMonthly), string(AccrualYearly), string(AccrualPerTerm)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_type",
			Message: "accrual_type must be 'monthly', 'yearly' or 'per_term'",
		})
	}

	if r.AccrualAmount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "accrual_amount",
			Message: "accrual_amount must be greater than zero",
		})
	}

	if r.RoundingIncrement.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "rounding_increment",
			Message: "rounding_increment must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                string           `json:"-"`
	Name              string           `json:"name"`
	AccrualType       string           `json:"accrual_type"`
	AccrualAmount     decimal.Decimal  `json:"accrual_amount"`
	CarryForwardCap   *decimal.Decimal `json:"carry_forward_cap,omitempty"`
	RoundingIncrement decimal.Decimal  `json:"rounding_increment"`
	Active            bool             `json:"active"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	req := CreateLeaveTypeRequest{
		Name:              r.Name,
		AccrualType:       r.AccrualType,
		AccrualAmount:     r.AccrualAmount,
		RoundingIncrement: r.RoundingIncrement,
	}
	return req.Validate()
}

type LeaveTypeResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	AccrualType       string           `json:"accrual_type"`
	AccrualAmount     decimal.Decimal  `json:"accrual_amount"`
	CarryForwardCap   *decimal.Decimal `json:"carry_forward_cap,omitempty"`
	RoundingIncrement decimal.Decimal  `json:"rounding_increment"`
	Active            bool             `json:"active"`
}

type BalanceResponse struct {
	EmployeeID     string          `json:"employee_id"`
	LeaveTypeID    string          `json:"leave_type_id"`
	PeriodYear     int             `json:"period_year"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Accrued        decimal.Decimal `json:"accrued"`
	Taken          decimal.Decimal `json:"taken"`
	Pending        decimal.Decimal `json:"pending"`
	CarriedForward decimal.Decimal `json:"carried_forward"`
	Available      decimal.Decimal `json:"available"`
}
