package discipline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/discipline"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	lateCounts map[string]int
}

func (f *fakeAttendanceRepo) CountLateByEmployee(_ context.Context, employeeID string, _ time.Time, _ string) (int, error) {
	return f.lateCounts[employeeID], nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	companies map[string][]employee.Employee
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string, _ *string) ([]employee.Employee, error) {
	return f.companies[companyID], nil
}

func (f *fakeEmployeeRepo) GetCompanyIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.companies))
	for id := range f.companies {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeFlagRepo struct {
	mu    sync.Mutex
	flags map[string]discipline.LatenessFlag
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: map[string]discipline.LatenessFlag{}}
}

func (f *fakeFlagRepo) Create(_ context.Context, flag discipline.LatenessFlag) (discipline.LatenessFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flag.ID = uuid.NewString()
	flag.CreatedAt = time.Now()
	f.flags[flag.ID] = flag
	return flag, nil
}

func (f *fakeFlagRepo) GetByID(_ context.Context, id string, companyID string) (discipline.LatenessFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flag, ok := f.flags[id]
	if !ok || flag.CompanyID != companyID {
		return discipline.LatenessFlag{}, discipline.ErrFlagNotFound
	}
	return flag, nil
}

func (f *fakeFlagRepo) GetUnresolvedByEmployee(_ context.Context, employeeID string, companyID string) (*discipline.LatenessFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, flag := range f.flags {
		if flag.EmployeeID == employeeID && flag.CompanyID == companyID && flag.Status != discipline.FlagResolved {
			found := flag
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeFlagRepo) List(_ context.Context, companyID string, status *discipline.FlagStatus) ([]discipline.LatenessFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []discipline.LatenessFlag
	for _, flag := range f.flags {
		if flag.CompanyID != companyID {
			continue
		}
		if status != nil && flag.Status != *status {
			continue
		}
		out = append(out, flag)
	}
	return out, nil
}

func (f *fakeFlagRepo) Update(_ context.Context, flag discipline.LatenessFlag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.flags[flag.ID]; !ok {
		return discipline.ErrFlagNotFound
	}
	f.flags[flag.ID] = flag
	return nil
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

func TestCheckRepeatedLateness_BelowThreshold(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	m := NewMonitor(flagRepo,
		&fakeAttendanceRepo{lateCounts: map[string]int{"emp-1": 2}},
		&fakeEmployeeRepo{})

	res, err := m.CheckRepeatedLateness(authedContext(t, "co-1"), discipline.CheckLatenessRequest{
		EmployeeID:     "emp-1",
		ThresholdCount: 3,
		LookbackDays:   30,
	})
	require.NoError(t, err)

	assert.False(t, res.Flagged)
	assert.Equal(t, 2, res.OccurrenceCount)
	assert.Empty(t, flagRepo.flags)
}

func TestCheckRepeatedLateness_AtThresholdRaisesFlag(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	m := NewMonitor(flagRepo,
		&fakeAttendanceRepo{lateCounts: map[string]int{"emp-1": 3}},
		&fakeEmployeeRepo{})

	res, err := m.CheckRepeatedLateness(authedContext(t, "co-1"), discipline.CheckLatenessRequest{
		EmployeeID:     "emp-1",
		ThresholdCount: 3,
		LookbackDays:   30,
	})
	require.NoError(t, err)

	assert.True(t, res.Flagged)
	require.Len(t, flagRepo.flags, 1)
	for _, flag := range flagRepo.flags {
		assert.Equal(t, discipline.FlagPending, flag.Status)
		assert.Equal(t, 3, flag.OccurrenceCount)
		assert.Equal(t, "co-1", flag.CompanyID)
		assert.Contains(t, flag.Reason, "Late 3 times in the last 30 days")
	}
}

func TestCheckRepeatedLateness_IdempotentRerun(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	attRepo := &fakeAttendanceRepo{lateCounts: map[string]int{"emp-1": 3}}
	m := NewMonitor(flagRepo, attRepo, &fakeEmployeeRepo{})

	ctx := authedContext(t, "co-1")
	req := discipline.CheckLatenessRequest{EmployeeID: "emp-1", ThresholdCount: 3, LookbackDays: 30}

	_, err := m.CheckRepeatedLateness(ctx, req)
	require.NoError(t, err)

	// The employee is late once more; the rerun refreshes the same flag.
	attRepo.lateCounts["emp-1"] = 4
	_, err = m.CheckRepeatedLateness(ctx, req)
	require.NoError(t, err)

	require.Len(t, flagRepo.flags, 1)
	for _, flag := range flagRepo.flags {
		assert.Equal(t, 4, flag.OccurrenceCount)
	}
}

func TestCheckRepeatedLateness_ResolvedFlagAllowsNewFlag(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	m := NewMonitor(flagRepo,
		&fakeAttendanceRepo{lateCounts: map[string]int{"emp-1": 5}},
		&fakeEmployeeRepo{})

	ctx := authedContext(t, "co-1")
	req := discipline.CheckLatenessRequest{EmployeeID: "emp-1", ThresholdCount: 3, LookbackDays: 30}

	_, err := m.CheckRepeatedLateness(ctx, req)
	require.NoError(t, err)

	var flagID string
	for id := range flagRepo.flags {
		flagID = id
	}

	_, err = m.ResolveFlag(ctx, discipline.ResolveFlagRequest{ID: flagID})
	require.NoError(t, err)

	_, err = m.CheckRepeatedLateness(ctx, req)
	require.NoError(t, err)

	assert.Len(t, flagRepo.flags, 2)
}

func TestCheckRepeatedLateness_DefaultsApplied(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	m := NewMonitor(flagRepo,
		&fakeAttendanceRepo{lateCounts: map[string]int{"emp-1": DefaultThresholdCount}},
		&fakeEmployeeRepo{})

	res, err := m.CheckRepeatedLateness(authedContext(t, "co-1"), discipline.CheckLatenessRequest{
		EmployeeID: "emp-1",
	})
	require.NoError(t, err)

	assert.True(t, res.Flagged)
}

func TestResolveFlag_AlreadyResolved(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	m := NewMonitor(flagRepo,
		&fakeAttendanceRepo{lateCounts: map[string]int{"emp-1": 3}},
		&fakeEmployeeRepo{})

	ctx := authedContext(t, "co-1")
	_, err := m.CheckRepeatedLateness(ctx, discipline.CheckLatenessRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	var flagID string
	for id := range flagRepo.flags {
		flagID = id
	}

	note := "spoke with employee"
	resolved, err := m.ResolveFlag(ctx, discipline.ResolveFlagRequest{ID: flagID, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, string(discipline.FlagResolved), resolved.Status)

	_, err = m.ResolveFlag(ctx, discipline.ResolveFlagRequest{ID: flagID})
	assert.ErrorIs(t, err, discipline.ErrFlagAlreadyResolved)
}

func TestScanAllCompanies(t *testing.T) {
	flagRepo := newFakeFlagRepo()
	empRepo := &fakeEmployeeRepo{companies: map[string][]employee.Employee{
		"co-1": {{ID: "emp-1", CompanyID: "co-1"}, {ID: "emp-2", CompanyID: "co-1"}},
		"co-2": {{ID: "emp-3", CompanyID: "co-2"}},
	}}
	attRepo := &fakeAttendanceRepo{lateCounts: map[string]int{
		"emp-1": 5, // flagged
		"emp-2": 1,
		"emp-3": 3, // flagged
	}}
	m := NewMonitor(flagRepo, attRepo, empRepo)

	res, err := m.ScanAllCompanies(context.Background(), discipline.ScanRequest{Days: 30})
	require.NoError(t, err)

	assert.Equal(t, 2, res.FlaggedCount)
	assert.Len(t, flagRepo.flags, 2)
}
