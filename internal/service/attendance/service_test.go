package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records map[string]attendance.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
}

func (f *fakeAttendanceRepo) Create(_ context.Context, r attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	r.ID = uuid.NewString()
	f.records[r.ID] = r
	return r, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string, companyID string) (attendance.AttendanceRecord, error) {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time, companyID string) (*attendance.AttendanceRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.CompanyID == companyID && r.Date.Equal(date) {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) AddPunch(_ context.Context, p attendance.Punch) (attendance.Punch, error) {
	p.ID = uuid.NewString()
	r := f.records[p.AttendanceID]
	r.Punches = append(r.Punches, p)
	f.records[p.AttendanceID] = r
	return p, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, r attendance.AttendanceRecord) error {
	if _, ok := f.records[r.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	f.records[r.ID] = r
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeShiftRepo struct {
	shift.ShiftRepository
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string, companyID string) (shift.Shift, error) {
	sh, ok := f.shifts[id]
	if !ok || sh.CompanyID != companyID {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

type fakeAssignmentRepo struct {
	shift.ShiftAssignmentRepository
	assignments []shift.ShiftAssignment
}

func (f *fakeAssignmentRepo) GetActiveForDate(_ context.Context, employeeID string, date time.Time, companyID string) (*shift.ShiftAssignment, error) {
	for _, a := range f.assignments {
		if a.EmployeeID != employeeID || a.CompanyID != companyID {
			continue
		}
		if a.Status != shift.AssignmentActive && a.Status != shift.AssignmentPostponed {
			continue
		}
		if a.CoversDate(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

type fakeLatenessRuleRepo struct {
	timerule.LatenessRuleRepository
	rule *timerule.LatenessRule
}

func (f *fakeLatenessRuleRepo) GetEffective(_ context.Context, _ string) (*timerule.LatenessRule, error) {
	return f.rule, nil
}

type fakeOvertimeRuleRepo struct {
	timerule.OvertimeRuleRepository
	rule *timerule.OvertimeRule
}

func (f *fakeOvertimeRuleRepo) GetEffective(_ context.Context, _ string) (*timerule.OvertimeRule, error) {
	return f.rule, nil
}

type fakeHolidayRepo struct {
	holiday.HolidayRepository
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) FindForDate(_ context.Context, date time.Time, companyID string) (*holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.CompanyID == companyID && h.Active && h.Covers(date) {
			found := h
			return &found, nil
		}
	}
	return nil, nil
}

func authedContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := auth.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": companyID,
		"role":       "manager",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type testEnv struct {
	svc          *Service
	attendances  *fakeAttendanceRepo
	latenessRepo *fakeLatenessRuleRepo
	overtimeRepo *fakeOvertimeRuleRepo
	holidayRepo  *fakeHolidayRepo
}

// newTestEnv wires the service against in-memory fakes: one active
// employee on a flexible 09:00-17:00 shift and one on a strict copy.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	pinHash, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(pinHash)

	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1":    {ID: "emp-1", CompanyID: "co-1", Status: employee.StatusActive, PunchPINHash: &hash},
		"emp-gone": {ID: "emp-gone", CompanyID: "co-1", Status: employee.StatusInactive},
	}}
	shiftRepo := &fakeShiftRepo{shifts: map[string]shift.Shift{
		"shift-flex": {
			ID: "shift-flex", CompanyID: "co-1", Name: "Day",
			PunchPolicy: shift.PolicyFlexible, StartTime: "09:00", EndTime: "17:00",
			Active: true,
		},
		"shift-strict": {
			ID: "shift-strict", CompanyID: "co-1", Name: "Gate",
			PunchPolicy: shift.PolicyStrict, StartTime: "09:00", EndTime: "17:00",
			Active: true,
		},
	}}
	assignmentRepo := &fakeAssignmentRepo{assignments: []shift.ShiftAssignment{
		{
			ID: "asg-1", CompanyID: "co-1", EmployeeID: "emp-1", ShiftID: "shift-flex",
			Status: shift.AssignmentActive, StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}

	env := &testEnv{
		attendances:  newFakeAttendanceRepo(),
		latenessRepo: &fakeLatenessRuleRepo{},
		overtimeRepo: &fakeOvertimeRuleRepo{},
		holidayRepo:  &fakeHolidayRepo{},
	}
	env.svc = NewService(env.attendances, empRepo, shiftRepo, assignmentRepo,
		env.latenessRepo, env.overtimeRepo, env.holidayRepo, time.UTC)
	return env
}

func (e *testEnv) at(t *testing.T, clock string) {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, clock)
	require.NoError(t, err)
	e.svc.now = func() time.Time { return ts }
}

func strPtr(s string) *string { return &s }

func TestClockIn_OnTime(t *testing.T) {
	env := newTestEnv(t)
	env.at(t, "2025-06-02T08:58:00Z")

	res, err := env.svc.ClockIn(authedContext(t, "co-1"), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusPresent), res.Status)
	assert.Zero(t, res.LateMinutes)
	require.Len(t, res.Punches, 1)
	assert.Equal(t, string(attendance.PunchIn), res.Punches[0].Type)
}

func TestClockIn_LateSetsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.at(t, "2025-06-02T09:20:00Z")

	res, err := env.svc.ClockIn(authedContext(t, "co-1"), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusLate), res.Status)
	assert.Equal(t, 20, res.LateMinutes)
}

func TestClockIn_TwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "co-1")
	env.at(t, "2025-06-02T09:00:00Z")

	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockIn_NoAssignment(t *testing.T) {
	env := newTestEnv(t)
	env.at(t, "2024-06-03T09:00:00Z") // before the assignment starts

	_, err := env.svc.ClockIn(authedContext(t, "co-1"), attendance.ClockInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoShiftForDate)
}

func TestClockIn_InactiveEmployee(t *testing.T) {
	env := newTestEnv(t)
	env.at(t, "2025-06-02T09:00:00Z")

	_, err := env.svc.ClockIn(authedContext(t, "co-1"), attendance.ClockInRequest{EmployeeID: "emp-gone"})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestClockIn_PunchPIN(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "co-1")
	env.at(t, "2025-06-02T09:00:00Z")

	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", PunchPIN: strPtr("9999")})
	assert.ErrorIs(t, err, employee.ErrInvalidPunchPIN)

	_, err = env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1", PunchPIN: strPtr("4321")})
	assert.NoError(t, err)
}

func TestClockIn_StrictPolicyRejectsFarPunch(t *testing.T) {
	env := newTestEnv(t)
	env.svc.assignmentRepo = &fakeAssignmentRepo{assignments: []shift.ShiftAssignment{
		{
			ID: "asg-s", CompanyID: "co-1", EmployeeID: "emp-1", ShiftID: "shift-strict",
			Status: shift.AssignmentActive, StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	env.at(t, "2025-06-02T02:00:00Z") // seven hours before a 09:00 start

	_, err := env.svc.ClockIn(authedContext(t, "co-1"), attendance.ClockInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrPunchPolicyDenied)
}

func TestClockOut_WithoutClockIn(t *testing.T) {
	env := newTestEnv(t)
	env.at(t, "2025-06-02T17:00:00Z")

	_, err := env.svc.ClockOut(authedContext(t, "co-1"), attendance.ClockOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOut_ComputesOvertime(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "co-1")

	env.at(t, "2025-06-02T09:00:00Z")
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	env.at(t, "2025-06-02T18:30:00Z")
	res, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, 90, res.OvertimeMinutes)
	assert.Zero(t, res.EarlyLeaveMinutes)
	require.Len(t, res.Punches, 2)
}

func TestClockOut_EarlyLeave(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "co-1")

	env.at(t, "2025-06-02T09:00:00Z")
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	env.at(t, "2025-06-02T16:15:00Z")
	res, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, 45, res.EarlyLeaveMinutes)
	assert.Zero(t, res.OvertimeMinutes)
}

func TestEvaluatePunches_DoesNotPersist(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.EvaluatePunches(authedContext(t, "co-1"), attendance.EvaluatePunchesRequest{
		EmployeeID: "emp-1",
		Date:       "2025-06-02",
		Punches: []attendance.PunchInput{
			{Type: "in", At: "2025-06-02T09:10:00Z"},
			{Type: "out", At: "2025-06-02T17:00:00Z"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.LatenessMinutes)
	assert.Len(t, res.Classifications, 2)
	assert.Empty(t, env.attendances.records)
}

func applyRulesFixture(t *testing.T, env *testEnv) (context.Context, string) {
	t.Helper()
	ctx := authedContext(t, "co-1")

	env.at(t, "2025-06-02T09:30:00Z")
	_, err := env.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	env.at(t, "2025-06-02T17:00:00Z")
	res, err := env.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	return ctx, res.ID
}

func TestApplyRules_LatenessDeduction(t *testing.T) {
	env := newTestEnv(t)
	env.latenessRepo.rule = &timerule.LatenessRule{
		ID: "lr-1", CompanyID: "co-1", Name: "Standard",
		GracePeriodMinutes: 10, DeductionPerMinute: 2.5,
		Active: true, Status: timerule.StatusApproved,
	}
	ctx, recordID := applyRulesFixture(t, env)

	res, err := env.svc.ApplyRules(ctx, attendance.ApplyRulesRequest{RecordID: recordID})
	require.NoError(t, err)

	// 30 late minutes minus the 10 minute grace.
	assert.Equal(t, 20, res.DeductionMinutes)
	assert.InDelta(t, 50.0, res.DeductionAmount, 0.001)
	assert.False(t, res.Suppressed)

	stored, err := env.attendances.GetByID(ctx, recordID, "co-1")
	require.NoError(t, err)
	assert.Equal(t, 20, stored.DeductionMinutes)
	assert.Equal(t, attendance.StatusLate, stored.Status)
}

func TestApplyRules_HolidaySuppression(t *testing.T) {
	env := newTestEnv(t)
	env.latenessRepo.rule = &timerule.LatenessRule{
		ID: "lr-1", CompanyID: "co-1", Name: "Standard",
		DeductionPerMinute: 2.5,
		Active:             true, Status: timerule.StatusApproved,
	}
	env.holidayRepo.holidays = []holiday.Holiday{{
		ID: "hol-1", CompanyID: "co-1", Name: "Founders Day", Active: true,
		StartDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}}
	ctx, recordID := applyRulesFixture(t, env)

	res, err := env.svc.ApplyRules(ctx, attendance.ApplyRulesRequest{
		RecordID:          recordID,
		SuppressOnHoliday: true,
	})
	require.NoError(t, err)

	assert.True(t, res.Suppressed)
	assert.Zero(t, res.DeductionMinutes)
	require.NotNil(t, res.Message)
	assert.Contains(t, *res.Message, "Founders Day")

	stored, err := env.attendances.GetByID(ctx, recordID, "co-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusSuppressed, stored.Status)
}

func TestApplyRules_NoPunches(t *testing.T) {
	env := newTestEnv(t)
	ctx := authedContext(t, "co-1")

	created, err := env.attendances.Create(ctx, attendance.AttendanceRecord{
		CompanyID: "co-1", EmployeeID: "emp-1",
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = env.svc.ApplyRules(ctx, attendance.ApplyRulesRequest{RecordID: created.ID})
	assert.ErrorIs(t, err, attendance.ErrNoPunches)
}
