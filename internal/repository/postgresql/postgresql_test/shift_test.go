package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
	"github.com/stafflane/timecore-backend-go/internal/repository/postgresql"
)

var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("Failed to connect to test database: " + err.Error())
		}
	}
	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
}

func cleanupShiftData(t *testing.T) {
	ctx := context.Background()
	_, err := testDB.Exec(ctx, "TRUNCATE TABLE shift_assignments CASCADE")
	require.NoError(t, err)
	_, err = testDB.Exec(ctx, "TRUNCATE TABLE shifts CASCADE")
	require.NoError(t, err)
	_, err = testDB.Exec(ctx, "TRUNCATE TABLE shift_types CASCADE")
	require.NoError(t, err)
}

func createTestShift(t *testing.T, ctx context.Context, companyID string) shift.Shift {
	t.Helper()

	typeRepo := postgresql.NewShiftTypeRepository(testDB)
	st, err := typeRepo.Create(ctx, shift.ShiftType{
		CompanyID: companyID,
		Name:      "Regular",
		Active:    true,
	})
	require.NoError(t, err)

	shiftRepo := postgresql.NewShiftRepository(testDB)
	sh, err := shiftRepo.Create(ctx, shift.Shift{
		CompanyID:      companyID,
		ShiftTypeID:    st.ID,
		Name:           "Day Shift",
		PunchPolicy:    shift.PolicyFlexible,
		StartTime:      "09:00",
		EndTime:        "17:00",
		GraceInMinutes: 5,
		Active:         true,
	})
	require.NoError(t, err)
	return sh
}

func datePtr(t time.Time) *time.Time { return &t }

func TestShiftRepository_CreateAndGet(t *testing.T) {
	requireDB(t)
	cleanupShiftData(t)
	ctx := context.Background()
	companyID := uuid.NewString()

	sh := createTestShift(t, ctx, companyID)
	require.NotEmpty(t, sh.ID)

	repo := postgresql.NewShiftRepository(testDB)
	got, err := repo.GetByID(ctx, sh.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Day Shift", got.Name)
	assert.Equal(t, shift.PolicyFlexible, got.PunchPolicy)
	assert.Equal(t, "09:00", got.StartTime)

	_, err = repo.GetByID(ctx, sh.ID, uuid.NewString())
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestShiftAssignmentRepository_OverlapQuery(t *testing.T) {
	requireDB(t)
	cleanupShiftData(t)
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	sh := createTestShift(t, ctx, companyID)
	repo := postgresql.NewShiftAssignmentRepository(testDB)

	created, err := repo.Create(ctx, shift.ShiftAssignment{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		TargetType: shift.TargetEmployee,
		TargetID:   employeeID,
		ShiftID:    sh.ID,
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    datePtr(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
		Status:     shift.AssignmentActive,
	})
	require.NoError(t, err)

	overlapping, err := repo.GetActiveOverlapping(ctx, employeeID,
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), nil, companyID)
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, created.ID, overlapping[0].ID)

	// A range entirely after the assignment ends does not overlap.
	overlapping, err = repo.GetActiveOverlapping(ctx, employeeID,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), nil, companyID)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestShiftAssignmentRepository_GetActiveForDate(t *testing.T) {
	requireDB(t)
	cleanupShiftData(t)
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	sh := createTestShift(t, ctx, companyID)
	repo := postgresql.NewShiftAssignmentRepository(testDB)

	_, err := repo.Create(ctx, shift.ShiftAssignment{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		TargetType: shift.TargetEmployee,
		TargetID:   employeeID,
		ShiftID:    sh.ID,
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:     shift.AssignmentActive,
	})
	require.NoError(t, err)

	got, err := repo.GetActiveForDate(ctx, employeeID,
		time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), companyID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sh.ID, got.ShiftID)

	got, err = repo.GetActiveForDate(ctx, employeeID,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), companyID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestShiftAssignmentRepository_ExpireEnded(t *testing.T) {
	requireDB(t)
	cleanupShiftData(t)
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	sh := createTestShift(t, ctx, companyID)
	repo := postgresql.NewShiftAssignmentRepository(testDB)

	ended, err := repo.Create(ctx, shift.ShiftAssignment{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		TargetType: shift.TargetEmployee,
		TargetID:   employeeID,
		ShiftID:    sh.ID,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    datePtr(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)),
		Status:     shift.AssignmentActive,
	})
	require.NoError(t, err)

	otherEmployeeID := uuid.NewString()
	openEnded, err := repo.Create(ctx, shift.ShiftAssignment{
		CompanyID:  companyID,
		EmployeeID: otherEmployeeID,
		TargetType: shift.TargetEmployee,
		TargetID:   otherEmployeeID,
		ShiftID:    sh.ID,
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     shift.AssignmentActive,
	})
	require.NoError(t, err)

	n, err := repo.ExpireEnded(ctx, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByID(ctx, ended.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, shift.AssignmentExpired, got.Status)

	got, err = repo.GetByID(ctx, openEnded.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, shift.AssignmentActive, got.Status)
}
