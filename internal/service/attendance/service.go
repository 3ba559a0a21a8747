package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	timeruledomain "github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
	"github.com/stafflane/timecore-backend-go/internal/service/punch"
	"github.com/stafflane/timecore-backend-go/internal/service/timerule"
)

type Service struct {
	attendance.AttendanceRepository
	employeeRepo     employee.EmployeeRepository
	shiftRepo        shift.ShiftRepository
	assignmentRepo   shift.ShiftAssignmentRepository
	latenessRepo     timeruledomain.LatenessRuleRepository
	overtimeRepo     timeruledomain.OvertimeRuleRepository
	holidayRepo      holiday.HolidayRepository
	evaluator        *punch.Evaluator
	engine           *timerule.Engine
	location         *time.Location
	now              func() time.Time
}

func NewService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	latenessRepo timeruledomain.LatenessRuleRepository,
	overtimeRepo timeruledomain.OvertimeRuleRepository,
	holidayRepo holiday.HolidayRepository,
	location *time.Location,
) *Service {
	return &Service{
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		shiftRepo:            shiftRepo,
		assignmentRepo:       assignmentRepo,
		latenessRepo:         latenessRepo,
		overtimeRepo:         overtimeRepo,
		holidayRepo:          holidayRepo,
		evaluator:            punch.NewEvaluator(),
		engine:               timerule.NewEngine(),
		location:             location,
		now:                  time.Now,
	}
}

// ClockIn records an "in" punch for today. A second clock-in on the same
// day is rejected.
func (s *Service) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.verifyEmployee(ctx, principal.CompanyID, req.EmployeeID, req.PunchPIN)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.now().In(s.location)
	today := startOfDay(now)

	sh, assignment, err := s.shiftForDate(ctx, principal.CompanyID, emp.ID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today, principal.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if record != nil {
		for _, p := range record.Punches {
			if p.Type == attendance.PunchIn {
				return attendance.RecordResponse{}, attendance.ErrAlreadyClockedIn
			}
		}
	}

	if sh.PunchPolicy == shift.PolicyStrict {
		if err := s.checkStrictWindow(sh, today, now); err != nil {
			return attendance.RecordResponse{}, err
		}
	}

	if record == nil {
		created, err := s.AttendanceRepository.Create(ctx, attendance.AttendanceRecord{
			CompanyID:  principal.CompanyID,
			EmployeeID: emp.ID,
			Date:       today,
			ShiftID:    &assignment.ShiftID,
			Status:     attendance.StatusPresent,
		})
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
		}
		record = &created
	}

	p, err := s.AttendanceRepository.AddPunch(ctx, attendance.Punch{
		AttendanceID: record.ID,
		Type:         attendance.PunchIn,
		At:           now.UTC(),
		Source:       req.Source,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}
	record.Punches = append(record.Punches, p)

	if err := s.evaluateAndStore(ctx, record, sh, today); err != nil {
		return attendance.RecordResponse{}, err
	}

	slog.Info("Employee clocked in",
		"employee_id", emp.ID, "company_id", principal.CompanyID, "at", now.Format(time.RFC3339))

	return mapRecord(*record), nil
}

// ClockOut records an "out" punch and re-evaluates the day.
func (s *Service) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.verifyEmployee(ctx, principal.CompanyID, req.EmployeeID, req.PunchPIN)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.now().In(s.location)
	today := startOfDay(now)

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today, principal.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if record == nil || len(record.Punches) == 0 {
		// An overnight shift's out punch can land on the next day.
		yesterday := today.AddDate(0, 0, -1)
		record, err = s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, yesterday, principal.CompanyID)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
		}
		if record == nil || len(record.Punches) == 0 {
			return attendance.RecordResponse{}, attendance.ErrNotClockedIn
		}
		today = yesterday
	}

	last := record.Punches[len(record.Punches)-1]
	if last.Type == attendance.PunchOut {
		return attendance.RecordResponse{}, attendance.ErrNotClockedIn
	}

	sh, _, err := s.shiftForDate(ctx, principal.CompanyID, emp.ID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if sh.PunchPolicy == shift.PolicyStrict {
		if err := s.checkStrictWindow(sh, today, now); err != nil {
			return attendance.RecordResponse{}, err
		}
	}

	p, err := s.AttendanceRepository.AddPunch(ctx, attendance.Punch{
		AttendanceID: record.ID,
		Type:         attendance.PunchOut,
		At:           now.UTC(),
		Source:       req.Source,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}
	record.Punches = append(record.Punches, p)

	if err := s.evaluateAndStore(ctx, record, sh, today); err != nil {
		return attendance.RecordResponse{}, err
	}

	slog.Info("Employee clocked out",
		"employee_id", emp.ID, "company_id", principal.CompanyID, "at", now.Format(time.RFC3339))

	return mapRecord(*record), nil
}

// EvaluatePunches classifies an explicit punch list without persisting
// anything. Used for corrections and what-if checks.
func (s *Service) EvaluatePunches(ctx context.Context, req attendance.EvaluatePunchesRequest) (attendance.EvaluationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EvaluationResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.EvaluationResponse{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.location)
	if err != nil {
		return attendance.EvaluationResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	sh, _, err := s.shiftForDate(ctx, principal.CompanyID, req.EmployeeID, date)
	if err != nil {
		return attendance.EvaluationResponse{}, err
	}

	punches := make([]attendance.Punch, 0, len(req.Punches))
	for _, in := range req.Punches {
		at, err := time.Parse(time.RFC3339, in.At)
		if err != nil {
			return attendance.EvaluationResponse{}, fmt.Errorf("invalid punch timestamp: %w", err)
		}
		punches = append(punches, attendance.Punch{
			Type: attendance.PunchType(in.Type),
			At:   at,
		})
	}

	rounding, err := s.roundingForCompany(ctx, principal.CompanyID)
	if err != nil {
		return attendance.EvaluationResponse{}, err
	}

	eval, err := s.evaluator.Evaluate(punches, sh, date, s.location, rounding)
	if err != nil {
		return attendance.EvaluationResponse{}, err
	}

	resp := attendance.EvaluationResponse{
		LatenessMinutes:   eval.LatenessMinutes,
		EarlyLeaveMinutes: eval.EarlyLeaveMinutes,
		OvertimeMinutes:   eval.OvertimeMinutes,
		Violations:        eval.Violations,
	}
	for _, c := range eval.Classifications {
		resp.Classifications = append(resp.Classifications, attendance.PunchClassification{
			Type:          string(c.Punch.Type),
			At:            c.Punch.At.Format(time.RFC3339),
			Class:         string(c.Class),
			OffsetMinutes: c.OffsetMinutes,
		})
	}
	return resp, nil
}

// ApplyRules recomputes deduction and overtime for a stored record under
// the company's effective rules and persists the corrected record.
// Records are corrected in place; reruns overwrite prior results.
func (s *Service) ApplyRules(ctx context.Context, req attendance.ApplyRulesRequest) (attendance.RuleApplicationResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.RuleApplicationResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.RecordID, principal.CompanyID)
	if err != nil {
		return attendance.RuleApplicationResponse{}, err
	}
	if len(record.Punches) == 0 {
		return attendance.RuleApplicationResponse{}, attendance.ErrNoPunches
	}

	sh, _, err := s.shiftForDate(ctx, principal.CompanyID, record.EmployeeID, record.Date)
	if err != nil {
		return attendance.RuleApplicationResponse{}, err
	}

	latenessRule, err := s.latenessRepo.GetEffective(ctx, principal.CompanyID)
	if err != nil {
		return attendance.RuleApplicationResponse{}, fmt.Errorf("failed to load lateness rule: %w", err)
	}
	overtimeRule, err := s.overtimeRepo.GetEffective(ctx, principal.CompanyID)
	if err != nil {
		return attendance.RuleApplicationResponse{}, fmt.Errorf("failed to load overtime rule: %w", err)
	}

	var hol *holiday.Holiday
	if req.SuppressOnHoliday {
		hol, err = s.holidayRepo.FindForDate(ctx, record.Date, principal.CompanyID)
		if err != nil {
			return attendance.RuleApplicationResponse{}, fmt.Errorf("failed to look up holiday: %w", err)
		}
	}

	eval, err := s.evaluator.Evaluate(record.Punches, sh, record.Date, s.location, timerule.RoundingFor(latenessRule))
	if err != nil {
		return attendance.RuleApplicationResponse{}, err
	}

	application, err := s.engine.Apply(eval, record.Date, latenessRule, overtimeRule, hol, req.SuppressOnHoliday)
	if err != nil {
		return attendance.RuleApplicationResponse{}, err
	}

	record.LateMinutes = eval.LatenessMinutes
	record.EarlyLeaveMinutes = eval.EarlyLeaveMinutes
	record.OvertimeMinutes = application.OvertimeMinutes
	record.DeductionMinutes = application.DeductionMinutes
	record.DeductionAmount = application.DeductionAmount
	record.HolidaySuppressed = application.Suppressed
	record.SuppressionMessage = application.Message
	if application.OvertimePendingApproval {
		pending := false
		record.OvertimeApproved = &pending
	}
	record.Status = recordStatus(eval, application)

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.RuleApplicationResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return attendance.RuleApplicationResponse{
		DeductionMinutes: application.DeductionMinutes,
		DeductionAmount:  application.DeductionAmount,
		OvertimeMinutes:  application.OvertimeMinutes,
		Suppressed:       application.Suppressed,
		Message:          application.Message,
	}, nil
}

func (s *Service) GetRecord(ctx context.Context, id string) (attendance.RecordResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return mapRecord(record), nil
}

func (s *Service) ListRecords(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListRecordsResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter, principal.CompanyID)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, mapRecord(r))
	}
	return resp, nil
}

// verifyEmployee loads the employee and, when a kiosk PIN is supplied,
// checks it against the stored bcrypt hash.
func (s *Service) verifyEmployee(ctx context.Context, companyID, employeeID string, pin *string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return employee.Employee{}, err
	}
	if emp.Status != employee.StatusActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}

	if pin != nil {
		if emp.PunchPINHash == nil {
			return employee.Employee{}, employee.ErrInvalidPunchPIN
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*emp.PunchPINHash), []byte(*pin)); err != nil {
			return employee.Employee{}, employee.ErrInvalidPunchPIN
		}
	}

	return emp, nil
}

// shiftForDate resolves which shift governs the employee's work day via
// the active assignment covering it.
func (s *Service) shiftForDate(ctx context.Context, companyID, employeeID string, date time.Time) (shift.Shift, *shift.ShiftAssignment, error) {
	assignment, err := s.assignmentRepo.GetActiveForDate(ctx, employeeID, date, companyID)
	if err != nil {
		return shift.Shift{}, nil, fmt.Errorf("failed to resolve shift assignment: %w", err)
	}
	if assignment == nil {
		return shift.Shift{}, nil, attendance.ErrNoShiftForDate
	}

	sh, err := s.shiftRepo.GetByID(ctx, assignment.ShiftID, companyID)
	if err != nil {
		return shift.Shift{}, nil, err
	}
	return sh, assignment, nil
}

func (s *Service) roundingForCompany(ctx context.Context, companyID string) (punch.Rounding, error) {
	latenessRule, err := s.latenessRepo.GetEffective(ctx, companyID)
	if err != nil {
		return punch.Rounding{}, fmt.Errorf("failed to load lateness rule: %w", err)
	}
	return timerule.RoundingFor(latenessRule), nil
}

// checkStrictWindow rejects live punches too far outside the shift
// window under the strict policy.
func (s *Service) checkStrictWindow(sh shift.Shift, date, at time.Time) error {
	start, end, err := punch.ShiftWindow(sh, date, s.location)
	if err != nil {
		return err
	}
	if at.Before(start.Add(-punch.StrictOuterWindow)) || at.After(end.Add(punch.StrictOuterWindow)) {
		return attendance.ErrPunchPolicyDenied
	}
	return nil
}

// evaluateAndStore recomputes the punch evaluation after a new punch and
// persists the partial result. Rule money amounts are applied separately
// via ApplyRules.
func (s *Service) evaluateAndStore(ctx context.Context, record *attendance.AttendanceRecord, sh shift.Shift, date time.Time) error {
	rounding, err := s.roundingForCompany(ctx, record.CompanyID)
	if err != nil {
		return err
	}

	eval, err := s.evaluator.Evaluate(record.Punches, sh, date, s.location, rounding)
	if err != nil {
		return err
	}

	record.LateMinutes = eval.LatenessMinutes
	record.EarlyLeaveMinutes = eval.EarlyLeaveMinutes
	record.OvertimeMinutes = eval.OvertimeMinutes
	if eval.LatenessMinutes > 0 {
		record.Status = attendance.StatusLate
	} else if len(eval.Violations) > 0 {
		record.Status = attendance.StatusViolation
	} else {
		record.Status = attendance.StatusPresent
	}

	if err := s.AttendanceRepository.Update(ctx, *record); err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	return nil
}

func recordStatus(eval punch.Evaluation, application timerule.RuleApplication) attendance.RecordStatus {
	switch {
	case application.Suppressed:
		return attendance.StatusSuppressed
	case len(eval.Violations) > 0:
		return attendance.StatusViolation
	case eval.LatenessMinutes > 0:
		return attendance.StatusLate
	default:
		return attendance.StatusPresent
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mapRecord(r attendance.AttendanceRecord) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		Date:               r.Date.Format("2006-01-02"),
		ShiftID:            r.ShiftID,
		Punches:            make([]attendance.PunchResponse, 0, len(r.Punches)),
		LateMinutes:        r.LateMinutes,
		EarlyLeaveMinutes:  r.EarlyLeaveMinutes,
		OvertimeMinutes:    r.OvertimeMinutes,
		DeductionMinutes:   r.DeductionMinutes,
		DeductionAmount:    r.DeductionAmount,
		HolidaySuppressed:  r.HolidaySuppressed,
		SuppressionMessage: r.SuppressionMessage,
		Status:             string(r.Status),
	}
	for _, p := range r.Punches {
		resp.Punches = append(resp.Punches, attendance.PunchResponse{
			Type: string(p.Type),
			At:   p.At.Format(time.RFC3339),
		})
	}
	return resp
}
