package shift

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
)

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
	assignments map[string]shift.ShiftAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[string]shift.ShiftAssignment{}}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	a.ID = uuid.NewString()
	f.assignments[a.ID] = a
	return a, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id string, companyID string) (shift.ShiftAssignment, error) {
	a, ok := f.assignments[id]
	if !ok || a.CompanyID != companyID {
		return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeAssignmentRepo) GetActiveOverlapping(_ context.Context, employeeID string, startDate time.Time, endDate *time.Time, companyID string) ([]shift.ShiftAssignment, error) {
	var out []shift.ShiftAssignment
	for _, a := range f.assignments {
		if a.EmployeeID != employeeID || a.CompanyID != companyID {
			continue
		}
		if a.Status != shift.AssignmentActive && a.Status != shift.AssignmentPostponed {
			continue
		}
		if shift.Overlaps(a.StartDate, a.EndDate, startDate, endDate) {
			out = append(out, a)
		}
	}
	return out, nil
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

func (f *fakeAssignmentRepo) ListByEmployee(_ context.Context, employeeID string, companyID string) ([]shift.ShiftAssignment, error) {
	var out []shift.ShiftAssignment
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID && a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, a shift.ShiftAssignment) error {
	if _, ok := f.assignments[a.ID]; !ok {
		return shift.ErrAssignmentNotFound
	}
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeAssignmentRepo) ExpireEnded(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	for id, a := range f.assignments {
		if a.Status == shift.AssignmentActive && a.EndDate != nil && a.EndDate.Before(asOf) {
			a.Status = shift.AssignmentExpired
			f.assignments[id] = a
			n++
		}
	}
	return n, nil
}

func (f *fakeAssignmentRepo) ActivatePostponed(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	for id, a := range f.assignments {
		if a.Status == shift.AssignmentPostponed && !a.StartDate.After(asOf) {
			a.Status = shift.AssignmentActive
			f.assignments[id] = a
			n++
		}
	}
	return n, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees    map[string]employee.Employee
	byDepartment map[string][]string
	byPosition   map[string][]string
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetEmployeeIDsByDepartment(_ context.Context, departmentID string, _ string, excludedPositionIDs []string) ([]string, error) {
	excluded := map[string]bool{}
	for _, id := range excludedPositionIDs {
		excluded[id] = true
	}
	var out []string
	for _, empID := range f.byDepartment[departmentID] {
		emp := f.employees[empID]
		if emp.PositionID != nil && excluded[*emp.PositionID] {
			continue
		}
		out = append(out, empID)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetEmployeeIDsByPosition(_ context.Context, positionID string, _ string) ([]string, error) {
	return f.byPosition[positionID], nil
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

func strPtr(s string) *string { return &s }

func testService(t *testing.T) (*Service, *fakeAssignmentRepo) {
	t.Helper()

	posID := "pos-senior"
	shiftRepo := &fakeShiftRepo{shifts: map[string]shift.Shift{
		"shift-1": {ID: "shift-1", CompanyID: "co-1", Name: "Morning", Active: true},
		"shift-2": {ID: "shift-2", CompanyID: "co-1", Name: "Night", Active: true},
		"shift-off": {ID: "shift-off", CompanyID: "co-1", Name: "Retired", Active: false},
	}}
	assignmentRepo := newFakeAssignmentRepo()
	empRepo := &fakeEmployeeRepo{
		employees: map[string]employee.Employee{
			"emp-1": {ID: "emp-1", CompanyID: "co-1", Status: employee.StatusActive},
			"emp-2": {ID: "emp-2", CompanyID: "co-1", Status: employee.StatusActive},
			"emp-3": {ID: "emp-3", CompanyID: "co-1", Status: employee.StatusActive, PositionID: &posID},
		},
		byDepartment: map[string][]string{"dept-eng": {"emp-1", "emp-2", "emp-3"}},
		byPosition:   map[string][]string{"pos-senior": {"emp-3"}},
	}

	return NewService(nil, shiftRepo, nil, nil, assignmentRepo, empRepo), assignmentRepo
}

func TestAssignShift_SingleEmployee(t *testing.T) {
	svc, repo := testService(t)

	res, err := svc.AssignShift(authedContext(t, "co-1"), shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
		EndDate:    strPtr("2025-06-30"),
	})
	require.NoError(t, err)

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, "emp-1", res.Assignments[0].EmployeeID)
	assert.Equal(t, string(shift.TargetEmployee), res.Assignments[0].TargetType)
	assert.Equal(t, string(shift.AssignmentActive), res.Assignments[0].Status)
	assert.Len(t, repo.assignments, 1)
}

func TestAssignShift_OverlapRejected(t *testing.T) {
	svc, _ := testService(t)
	ctx := authedContext(t, "co-1")

	_, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
		EndDate:    strPtr("2025-06-30"),
	})
	require.NoError(t, err)

	_, err = svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-2",
		StartDate:  "2025-05-01",
	})
	assert.ErrorIs(t, err, shift.ErrAssignmentOverlap)
}

func TestAssignShift_NonOverlappingRangesAllowed(t *testing.T) {
	svc, _ := testService(t)
	ctx := authedContext(t, "co-1")

	_, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
		EndDate:    strPtr("2025-04-30"),
	})
	require.NoError(t, err)

	_, err = svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-2",
		StartDate:  "2025-05-01",
		EndDate:    strPtr("2025-05-31"),
	})
	assert.NoError(t, err)
}

func TestAssignShift_Supersede(t *testing.T) {
	svc, repo := testService(t)
	ctx := authedContext(t, "co-1")

	first, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
	})
	require.NoError(t, err)

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-2",
		StartDate:  "2025-05-01",
		Supersede:  true,
	})
	require.NoError(t, err)

	require.Len(t, res.SupersededID, 1)
	assert.Equal(t, first.Assignments[0].ID, res.SupersededID[0])

	old := repo.assignments[first.Assignments[0].ID]
	assert.Equal(t, shift.AssignmentCancelled, old.Status)
	require.NotNil(t, old.CancelReason)
}

func TestAssignShift_DepartmentExpansionWithExclusions(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.AssignShift(authedContext(t, "co-1"), shift.AssignShiftRequest{
		DepartmentID:        strPtr("dept-eng"),
		ShiftID:             "shift-1",
		StartDate:           "2025-04-01",
		ExcludedPositionIDs: []string{"pos-senior"},
	})
	require.NoError(t, err)

	// emp-3 holds the excluded position.
	require.Len(t, res.Assignments, 2)
	for _, a := range res.Assignments {
		assert.NotEqual(t, "emp-3", a.EmployeeID)
		assert.Equal(t, string(shift.TargetDepartment), a.TargetType)
		assert.Equal(t, "dept-eng", a.TargetID)
	}
}

func TestAssignShift_PositionTarget(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.AssignShift(authedContext(t, "co-1"), shift.AssignShiftRequest{
		PositionID: strPtr("pos-senior"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
	})
	require.NoError(t, err)

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, "emp-3", res.Assignments[0].EmployeeID)
}

func TestAssignShift_InactiveShift(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.AssignShift(authedContext(t, "co-1"), shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-off",
		StartDate:  "2025-04-01",
	})
	assert.ErrorIs(t, err, shift.ErrShiftInactive)
}

func TestCancelAssignment_TerminalStateRejected(t *testing.T) {
	svc, _ := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
	})
	require.NoError(t, err)
	id := res.Assignments[0].ID

	reason := "restructure"
	cancelled, err := svc.CancelAssignment(ctx, shift.CancelAssignmentRequest{ID: id, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, string(shift.AssignmentCancelled), cancelled.Status)

	_, err = svc.CancelAssignment(ctx, shift.CancelAssignmentRequest{ID: id})
	assert.ErrorIs(t, err, shift.ErrAssignmentTerminal)
}

func TestPostponeAssignment(t *testing.T) {
	svc, repo := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
	})
	require.NoError(t, err)
	id := res.Assignments[0].ID

	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	postponed, err := svc.PostponeAssignment(ctx, shift.PostponeAssignmentRequest{ID: id, PostponeUntil: future})
	require.NoError(t, err)

	assert.Equal(t, string(shift.AssignmentPostponed), postponed.Status)
	assert.Equal(t, future, repo.assignments[id].StartDate.Format("2006-01-02"))
}

func TestPostponeAssignment_ResolvesAgainAfterNewStart(t *testing.T) {
	svc, repo := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  time.Now().AddDate(0, 0, -10).Format("2006-01-02"),
	})
	require.NoError(t, err)
	id := res.Assignments[0].ID

	newStart := time.Now().AddDate(0, 0, 1)
	_, err = svc.PostponeAssignment(ctx, shift.PostponeAssignmentRequest{
		ID:            id,
		PostponeUntil: newStart.Format("2006-01-02"),
	})
	require.NoError(t, err)

	// Before the new start date the assignment resolves to nothing.
	got, err := repo.GetActiveForDate(ctx, "emp-1", time.Now().AddDate(0, 0, -1), "co-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Once the new start date passes the assignment covers again even
	// before the activation job has run.
	got, err = repo.GetActiveForDate(ctx, "emp-1", newStart.AddDate(0, 0, 30), "co-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)

	// The activation job returns it to active.
	n, err := repo.ActivatePostponed(ctx, newStart.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, shift.AssignmentActive, repo.assignments[id].Status)
}

func TestRenewAssignment_AcceptsPostponed(t *testing.T) {
	svc, repo := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
	})
	require.NoError(t, err)
	id := res.Assignments[0].ID

	// A postponed assignment whose new start has already passed.
	a := repo.assignments[id]
	a.Status = shift.AssignmentPostponed
	a.StartDate = time.Now().AddDate(0, 0, -3)
	repo.assignments[id] = a

	renewed, err := svc.RenewAssignment(ctx, shift.RenewAssignmentRequest{
		ID:         id,
		NewEndDate: strPtr("2027-12-31"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(shift.AssignmentActive), renewed.Status)
	assert.Equal(t, shift.AssignmentActive, repo.assignments[id].Status)
}

func TestPostponeAssignment_BeyondEndDateRejected(t *testing.T) {
	svc, _ := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  time.Now().AddDate(0, 0, -30).Format("2006-01-02"),
		EndDate:    strPtr(time.Now().AddDate(0, 0, 5).Format("2006-01-02")),
	})
	require.NoError(t, err)

	_, err = svc.PostponeAssignment(ctx, shift.PostponeAssignmentRequest{
		ID:            res.Assignments[0].ID,
		PostponeUntil: time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
	})
	assert.ErrorIs(t, err, shift.ErrPostponeBeyondEndDate)
}

func TestPostponeAssignment_PastDateRejected(t *testing.T) {
	svc, _ := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
	})
	require.NoError(t, err)

	_, err = svc.PostponeAssignment(ctx, shift.PostponeAssignmentRequest{
		ID:            res.Assignments[0].ID,
		PostponeUntil: "2020-01-01",
	})
	assert.ErrorIs(t, err, shift.ErrPostponeDateInPast)
}

func TestRenewAssignment_ExtendsEndDate(t *testing.T) {
	svc, repo := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-04-01",
		EndDate:    strPtr("2025-06-30"),
	})
	require.NoError(t, err)
	id := res.Assignments[0].ID

	renewed, err := svc.RenewAssignment(ctx, shift.RenewAssignmentRequest{
		ID:         id,
		NewEndDate: strPtr("2025-12-31"),
	})
	require.NoError(t, err)

	require.NotNil(t, renewed.EndDate)
	assert.Equal(t, "2025-12-31", *renewed.EndDate)
	assert.Equal(t, shift.AssignmentActive, repo.assignments[id].Status)
}

func TestExpireEnded(t *testing.T) {
	svc, repo := testService(t)
	ctx := authedContext(t, "co-1")

	res, err := svc.AssignShift(ctx, shift.AssignShiftRequest{
		EmployeeID: strPtr("emp-1"),
		ShiftID:    "shift-1",
		StartDate:  "2025-01-01",
		EndDate:    strPtr("2025-03-31"),
	})
	require.NoError(t, err)
	id := res.Assignments[0].ID

	asOf, err := time.Parse("2006-01-02", "2025-04-02")
	require.NoError(t, err)

	n, err := repo.ExpireEnded(ctx, asOf)
	require.NoError(t, err)

	assert.Equal(t, int64(1), n)
	assert.Equal(t, shift.AssignmentExpired, repo.assignments[id].Status)
}
