package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
	"github.com/stafflane/timecore-backend-go/internal/repository/postgresql"
)

// Service manages shifts and their assignment lifecycle. Targeted
// assignments (department, position) are expanded to one assignment per
// employee so overlap checks stay per employee.
type Service struct {
	shift.ShiftRepository
	db               *database.DB
	shiftTypeRepo    shift.ShiftTypeRepository
	scheduleRuleRepo shift.ScheduleRuleRepository
	assignmentRepo   shift.ShiftAssignmentRepository
	employeeRepo     employee.EmployeeRepository
}

func NewService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	shiftTypeRepo shift.ShiftTypeRepository,
	scheduleRuleRepo shift.ScheduleRuleRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	employeeRepo employee.EmployeeRepository,
) *Service {
	return &Service{
		ShiftRepository:  shiftRepo,
		db:               db,
		shiftTypeRepo:    shiftTypeRepo,
		scheduleRuleRepo: scheduleRuleRepo,
		assignmentRepo:   assignmentRepo,
		employeeRepo:     employeeRepo,
	}
}

// inTx runs fn inside a database transaction when the service holds a
// connection; a nil db runs fn on the bare repositories.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

func (s *Service) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.Shift{}, err
	}

	if _, err := s.shiftTypeRepo.GetByID(ctx, req.ShiftTypeID, principal.CompanyID); err != nil {
		return shift.Shift{}, err
	}

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		CompanyID:                principal.CompanyID,
		ShiftTypeID:              req.ShiftTypeID,
		Name:                     req.Name,
		PunchPolicy:              shift.PunchPolicy(req.PunchPolicy),
		StartTime:                req.StartTime,
		EndTime:                  req.EndTime,
		GraceInMinutes:           req.GraceInMinutes,
		GraceOutMinutes:          req.GraceOutMinutes,
		OvertimeApprovalRequired: req.OvertimeApprovalRequired,
		Active:                   true,
	})
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

func (s *Service) ListShifts(ctx context.Context) ([]shift.Shift, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.ShiftRepository.List(ctx, principal.CompanyID, false)
}

// UpdateShift rewrites the shift template. Attendance already evaluated
// under the old times is not recomputed; rerun rule application for the
// affected days when that matters.
func (s *Service) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.Shift{}, err
	}

	sh, err := s.ShiftRepository.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return shift.Shift{}, err
	}

	if _, err := s.shiftTypeRepo.GetByID(ctx, req.ShiftTypeID, principal.CompanyID); err != nil {
		return shift.Shift{}, err
	}

	sh.ShiftTypeID = req.ShiftTypeID
	sh.Name = req.Name
	sh.PunchPolicy = shift.PunchPolicy(req.PunchPolicy)
	sh.StartTime = req.StartTime
	sh.EndTime = req.EndTime
	sh.GraceInMinutes = req.GraceInMinutes
	sh.GraceOutMinutes = req.GraceOutMinutes
	sh.OvertimeApprovalRequired = req.OvertimeApprovalRequired
	sh.Active = req.Active

	if err := s.ShiftRepository.Update(ctx, sh); err != nil {
		return shift.Shift{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return sh, nil
}

func (s *Service) DeleteShift(ctx context.Context, id string) error {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return s.ShiftRepository.Delete(ctx, id, principal.CompanyID)
}

func (s *Service) CreateShiftType(ctx context.Context, req shift.CreateShiftTypeRequest) (shift.ShiftType, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftType{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.ShiftType{}, err
	}

	created, err := s.shiftTypeRepo.Create(ctx, shift.ShiftType{
		CompanyID: principal.CompanyID,
		Name:      req.Name,
		Active:    true,
	})
	if err != nil {
		return shift.ShiftType{}, fmt.Errorf("failed to create shift type: %w", err)
	}
	return created, nil
}

func (s *Service) ListShiftTypes(ctx context.Context) ([]shift.ShiftType, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.shiftTypeRepo.List(ctx, principal.CompanyID)
}

func (s *Service) CreateScheduleRule(ctx context.Context, req shift.CreateScheduleRuleRequest) (shift.ScheduleRule, error) {
	if err := req.Validate(); err != nil {
		return shift.ScheduleRule{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.ScheduleRule{}, err
	}

	created, err := s.scheduleRuleRepo.Create(ctx, shift.ScheduleRule{
		CompanyID: principal.CompanyID,
		Name:      req.Name,
		Pattern:   req.Pattern,
		Active:    true,
	})
	if err != nil {
		return shift.ScheduleRule{}, fmt.Errorf("failed to create schedule rule: %w", err)
	}
	return created, nil
}

func (s *Service) ListScheduleRules(ctx context.Context) ([]shift.ScheduleRule, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.scheduleRuleRepo.List(ctx, principal.CompanyID, false)
}

// AssignShift expands the request's target into per-employee assignments.
// An overlap with an existing active assignment rejects the whole request
// unless Supersede is set, in which case the overlapping assignment is
// cancelled first.
func (s *Service) AssignShift(ctx context.Context, req shift.AssignShiftRequest) (shift.AssignShiftResult, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignShiftResult{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.AssignShiftResult{}, err
	}
	companyID := principal.CompanyID

	sh, err := s.ShiftRepository.GetByID(ctx, req.ShiftID, companyID)
	if err != nil {
		return shift.AssignShiftResult{}, err
	}
	if !sh.Active {
		return shift.AssignShiftResult{}, shift.ErrShiftInactive
	}

	if req.ScheduleRuleID != nil {
		if _, err := s.scheduleRuleRepo.GetByID(ctx, *req.ScheduleRuleID, companyID); err != nil {
			return shift.AssignShiftResult{}, err
		}
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return shift.AssignShiftResult{}, fmt.Errorf("invalid start_date: %w", err)
	}
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return shift.AssignShiftResult{}, fmt.Errorf("invalid end_date: %w", err)
		}
		endDate = &parsed
	}

	targetType, targetID, employeeIDs, err := s.expandTarget(ctx, companyID, req)
	if err != nil {
		return shift.AssignShiftResult{}, err
	}

	// Check every employee before creating anything so a rejection leaves
	// no partial assignments behind.
	superseded := make(map[string][]shift.ShiftAssignment, len(employeeIDs))
	for _, empID := range employeeIDs {
		overlapping, err := s.assignmentRepo.GetActiveOverlapping(ctx, empID, startDate, endDate, companyID)
		if err != nil {
			return shift.AssignShiftResult{}, fmt.Errorf("failed to check overlapping assignments: %w", err)
		}
		if len(overlapping) > 0 && !req.Supersede {
			return shift.AssignShiftResult{}, shift.ErrAssignmentOverlap
		}
		superseded[empID] = overlapping
	}

	result := shift.AssignShiftResult{
		Assignments: make([]shift.AssignmentResponse, 0, len(employeeIDs)),
	}

	// Supersede and create atomically so a mid-batch failure never leaves
	// an employee with a cancelled assignment and no replacement.
	err = s.inTx(ctx, func(ctx context.Context) error {
		for _, empID := range employeeIDs {
			for _, old := range superseded[empID] {
				reason := "superseded by new assignment"
				old.Status = shift.AssignmentCancelled
				old.CancelReason = &reason
				if err := s.assignmentRepo.Update(ctx, old); err != nil {
					return fmt.Errorf("failed to supersede assignment: %w", err)
				}
				result.SupersededID = append(result.SupersededID, old.ID)
			}

			created, err := s.assignmentRepo.Create(ctx, shift.ShiftAssignment{
				CompanyID:      companyID,
				EmployeeID:     empID,
				TargetType:     targetType,
				TargetID:       targetID,
				ShiftID:        req.ShiftID,
				ScheduleRuleID: req.ScheduleRuleID,
				StartDate:      startDate,
				EndDate:        endDate,
				Status:         shift.AssignmentActive,
			})
			if err != nil {
				return fmt.Errorf("failed to create assignment: %w", err)
			}
			result.Assignments = append(result.Assignments, mapAssignment(created))
		}
		return nil
	})
	if err != nil {
		return shift.AssignShiftResult{}, err
	}

	slog.Info("Shift assigned",
		"company_id", companyID, "shift_id", req.ShiftID,
		"target_type", targetType, "employees", len(employeeIDs),
		"superseded", len(result.SupersededID))

	return result, nil
}

// RenewAssignment extends an active or postponed assignment's end date.
// A nil new end date makes the assignment open ended. Renewing a
// postponed assignment whose new start date has already arrived returns
// it to active.
func (s *Service) RenewAssignment(ctx context.Context, req shift.RenewAssignmentRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	a, err := s.assignmentRepo.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if a.Status != shift.AssignmentActive && a.Status != shift.AssignmentPostponed {
		return shift.AssignmentResponse{}, shift.ErrAssignmentNotActive
	}
	if a.Status == shift.AssignmentPostponed && !a.StartDate.After(time.Now()) {
		a.Status = shift.AssignmentActive
	}

	if req.NewEndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.NewEndDate)
		if err != nil {
			return shift.AssignmentResponse{}, fmt.Errorf("invalid new_end_date: %w", err)
		}
		a.EndDate = &parsed
	} else {
		a.EndDate = nil
	}
	a.Note = req.Note

	if err := s.assignmentRepo.Update(ctx, a); err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to renew assignment: %w", err)
	}
	return mapAssignment(a), nil
}

// CancelAssignment moves an assignment to the terminal cancelled state.
func (s *Service) CancelAssignment(ctx context.Context, req shift.CancelAssignmentRequest) (shift.AssignmentResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	a, err := s.assignmentRepo.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if a.Status == shift.AssignmentCancelled || a.Status == shift.AssignmentExpired {
		return shift.AssignmentResponse{}, shift.ErrAssignmentTerminal
	}

	a.Status = shift.AssignmentCancelled
	a.CancelReason = req.Reason

	if err := s.assignmentRepo.Update(ctx, a); err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to cancel assignment: %w", err)
	}
	return mapAssignment(a), nil
}

// PostponeAssignment pushes an assignment's start into the future. The
// assignment stays postponed until the new start date passes.
func (s *Service) PostponeAssignment(ctx context.Context, req shift.PostponeAssignmentRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	a, err := s.assignmentRepo.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if a.Status == shift.AssignmentCancelled || a.Status == shift.AssignmentExpired {
		return shift.AssignmentResponse{}, shift.ErrAssignmentTerminal
	}

	until, err := time.Parse("2006-01-02", req.PostponeUntil)
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("invalid postpone_until: %w", err)
	}
	if !until.After(time.Now()) {
		return shift.AssignmentResponse{}, shift.ErrPostponeDateInPast
	}
	if a.EndDate != nil && until.After(*a.EndDate) {
		return shift.AssignmentResponse{}, shift.ErrPostponeBeyondEndDate
	}

	a.StartDate = until
	a.Status = shift.AssignmentPostponed

	if err := s.assignmentRepo.Update(ctx, a); err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to postpone assignment: %w", err)
	}
	return mapAssignment(a), nil
}

func (s *Service) ListAssignments(ctx context.Context, employeeID string) ([]shift.AssignmentResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByEmployee(ctx, employeeID, principal.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, mapAssignment(a))
	}
	return responses, nil
}

// expandTarget resolves the request's single target into the employee IDs
// an assignment row must be created for.
func (s *Service) expandTarget(ctx context.Context, companyID string, req shift.AssignShiftRequest) (shift.AssignmentTarget, string, []string, error) {
	switch {
	case req.EmployeeID != nil && *req.EmployeeID != "":
		emp, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID, companyID)
		if err != nil {
			return "", "", nil, err
		}
		return shift.TargetEmployee, emp.ID, []string{emp.ID}, nil

	case req.DepartmentID != nil && *req.DepartmentID != "":
		ids, err := s.employeeRepo.GetEmployeeIDsByDepartment(ctx, *req.DepartmentID, companyID, req.ExcludedPositionIDs)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to resolve department employees: %w", err)
		}
		return shift.TargetDepartment, *req.DepartmentID, ids, nil

	default:
		ids, err := s.employeeRepo.GetEmployeeIDsByPosition(ctx, *req.PositionID, companyID)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to resolve position employees: %w", err)
		}
		return shift.TargetPosition, *req.PositionID, ids, nil
	}
}

func mapAssignment(a shift.ShiftAssignment) shift.AssignmentResponse {
	resp := shift.AssignmentResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		EmployeeName:   a.EmployeeName,
		TargetType:     string(a.TargetType),
		TargetID:       a.TargetID,
		ShiftID:        a.ShiftID,
		ShiftName:      a.ShiftName,
		ScheduleRuleID: a.ScheduleRuleID,
		StartDate:      a.StartDate.Format("2006-01-02"),
		Status:         string(a.Status),
		Note:           a.Note,
		CancelReason:   a.CancelReason,
	}
	if a.EndDate != nil {
		end := a.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}
