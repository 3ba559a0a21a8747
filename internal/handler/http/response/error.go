package response

import (
	"errors"
	"net/http"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/discipline"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/leave"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
	"github.com/stafflane/timecore-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth / principal errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, user.ErrMissingCompanyClaim),
		errors.Is(err, user.ErrMissingEmployeeClaim),
		errors.Is(err, user.ErrMissingUserClaim):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrOwnerAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrPermissionDenied):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "No open clock-in to close", nil)
	case errors.Is(err, attendance.ErrNoShiftForDate):
		BadRequest(w, "No shift assignment covers this date", nil)
	case errors.Is(err, attendance.ErrPunchOutOfOrder):
		BadRequest(w, "Punches must alternate in/out in time order", nil)
	case errors.Is(err, attendance.ErrPunchPolicyDenied):
		Forbidden(w, "Punch rejected by strict shift policy")
	case errors.Is(err, attendance.ErrNoPunches):
		BadRequest(w, "Attendance record has no punches", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this company")
	case errors.Is(err, employee.ErrNationalIDExists):
		Conflict(w, "National ID already registered")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, employee.ErrInvalidPunchPIN):
		Unauthorized(w, "Invalid punch clock PIN")

	// Time rule domain errors
	case errors.Is(err, timerule.ErrLatenessRuleNotFound):
		NotFound(w, "Lateness rule not found")
	case errors.Is(err, timerule.ErrOvertimeRuleNotFound):
		NotFound(w, "Overtime rule not found")
	case errors.Is(err, timerule.ErrRuleNotApproved):
		Conflict(w, "Rule must be approved before it affects payroll")
	case errors.Is(err, timerule.ErrRuleAlreadyApproved):
		Conflict(w, "Rule is already approved")
	case errors.Is(err, timerule.ErrRuleInactive):
		Conflict(w, "Rule is not active")

	// Discipline domain errors
	case errors.Is(err, discipline.ErrFlagNotFound):
		NotFound(w, "Disciplinary flag not found")
	case errors.Is(err, discipline.ErrFlagAlreadyResolved):
		Conflict(w, "Disciplinary flag is already resolved")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrAccrualAlreadyApplied):
		Conflict(w, "Accrual already applied for this period")
	case errors.Is(err, leave.ErrEmployeeIneligible):
		BadRequest(w, "Employee is not eligible for this leave type", nil)
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is not active", nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftTypeNotFound):
		NotFound(w, "Shift type not found")
	case errors.Is(err, shift.ErrScheduleRuleNotFound):
		NotFound(w, "Schedule rule not found")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrAssignmentOverlap):
		Conflict(w, "Employee already has an active shift assignment for this date range")
	case errors.Is(err, shift.ErrAssignmentNotActive):
		Conflict(w, "Assignment is not active")
	case errors.Is(err, shift.ErrAssignmentTerminal):
		Conflict(w, "Assignment is cancelled or expired and cannot be changed")
	case errors.Is(err, shift.ErrPostponeDateInPast):
		BadRequest(w, "Postpone date must be in the future", nil)
	case errors.Is(err, shift.ErrPostponeBeyondEndDate):
		BadRequest(w, "Postpone date must not be after the assignment end date", nil)
	case errors.Is(err, shift.ErrShiftInactive):
		BadRequest(w, "Shift is not active", nil)

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrInvalidRange):
		BadRequest(w, "Holiday end date must not be before start date", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
