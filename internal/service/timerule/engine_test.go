package timerule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/service/punch"
)

func approvedLatenessRule() *timerule.LatenessRule {
	return &timerule.LatenessRule{
		ID:                 "lr-1",
		Name:               "Standard lateness",
		GracePeriodMinutes: 5,
		DeductionPerMinute: 2.5,
		Active:             true,
		Status:             timerule.StatusApproved,
	}
}

func approvedOvertimeRule() *timerule.OvertimeRule {
	return &timerule.OvertimeRule{
		ID:                 "or-1",
		Name:               "Standard overtime",
		MinOvertimeMinutes: 30,
		RatePerMinute:      1.5,
		Active:             true,
		Status:             timerule.StatusApproved,
	}
}

func testDay(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2025-03-10")
	require.NoError(t, err)
	return d
}

func TestApply_DeductionFormula(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name         string
		lateMinutes  int
		wantMinutes  int
		wantDeducted float64
	}{
		{"zero lateness", 0, 0, 0},
		{"within rule grace", 5, 0, 0},
		{"one past grace", 6, 1, 2.5},
		{"well past grace", 20, 15, 37.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := punch.Evaluation{LatenessMinutes: tt.lateMinutes}

			res, err := e.Apply(eval, testDay(t), approvedLatenessRule(), nil, nil, false)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMinutes, res.DeductionMinutes)
			assert.InDelta(t, tt.wantDeducted, res.DeductionAmount, 1e-9)
			assert.False(t, res.Suppressed)
		})
	}
}

func TestApply_DeductionMonotoneInLateness(t *testing.T) {
	e := NewEngine()
	rule := approvedLatenessRule()

	prev := -1.0
	for late := 0; late <= 60; late += 7 {
		res, err := e.Apply(punch.Evaluation{LatenessMinutes: late}, testDay(t), rule, nil, nil, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.DeductionAmount, prev, "lateness %d", late)
		prev = res.DeductionAmount
	}
}

func TestApply_OvertimeThreshold(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name        string
		overtime    int
		wantMinutes int
		wantAmount  float64
	}{
		{"below minimum", 29, 0, 0},
		{"at minimum", 30, 30, 45},
		{"above minimum", 90, 90, 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := punch.Evaluation{OvertimeMinutes: tt.overtime}

			res, err := e.Apply(eval, testDay(t), nil, approvedOvertimeRule(), nil, false)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMinutes, res.OvertimeMinutes)
			assert.InDelta(t, tt.wantAmount, res.OvertimeAmount, 1e-9)
		})
	}
}

func TestApply_BeforeShiftOvertime(t *testing.T) {
	e := NewEngine()
	eval := punch.Evaluation{OvertimeMinutes: 20, EarlyStartMinutes: 25}

	t.Run("allowed", func(t *testing.T) {
		rule := approvedOvertimeRule()
		rule.BeforeShiftAllowed = true

		res, err := e.Apply(eval, testDay(t), nil, rule, nil, false)
		require.NoError(t, err)

		assert.Equal(t, 45, res.OvertimeMinutes)
		assert.InDelta(t, 67.5, res.OvertimeAmount, 1e-9)
	})

	t.Run("not allowed", func(t *testing.T) {
		res, err := e.Apply(eval, testDay(t), nil, approvedOvertimeRule(), nil, false)
		require.NoError(t, err)

		// Without the flag the 20 after-shift minutes stay below the
		// 30 minute threshold.
		assert.Zero(t, res.OvertimeMinutes)
		assert.Zero(t, res.OvertimeAmount)
	})

	t.Run("early start only", func(t *testing.T) {
		rule := approvedOvertimeRule()
		rule.BeforeShiftAllowed = true

		res, err := e.Apply(punch.Evaluation{EarlyStartMinutes: 40}, testDay(t), nil, rule, nil, false)
		require.NoError(t, err)

		assert.Equal(t, 40, res.OvertimeMinutes)
	})
}

func TestApply_OvertimeRequiresApproval(t *testing.T) {
	e := NewEngine()

	rule := approvedOvertimeRule()
	rule.RequiresApproval = true

	res, err := e.Apply(punch.Evaluation{OvertimeMinutes: 45}, testDay(t), nil, rule, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 45, res.OvertimeMinutes)
	assert.True(t, res.OvertimePendingApproval)
}

func TestApply_UnapprovedRuleRejected(t *testing.T) {
	e := NewEngine()

	for _, status := range []timerule.ApprovalStatus{timerule.StatusDraft, timerule.StatusRejected} {
		rule := approvedLatenessRule()
		rule.Status = status

		_, err := e.Apply(punch.Evaluation{LatenessMinutes: 10}, testDay(t), rule, nil, nil, false)
		assert.ErrorIs(t, err, timerule.ErrRuleNotApproved, "status %s", status)
	}
}

func TestApply_InactiveRuleRejected(t *testing.T) {
	e := NewEngine()

	rule := approvedOvertimeRule()
	rule.Active = false

	_, err := e.Apply(punch.Evaluation{OvertimeMinutes: 60}, testDay(t), nil, rule, nil, false)
	assert.ErrorIs(t, err, timerule.ErrRuleNotApproved)
}

func TestApply_HolidaySuppression(t *testing.T) {
	e := NewEngine()

	day := testDay(t)
	hol := &holiday.Holiday{
		Name:      "Company Anniversary",
		StartDate: day,
		EndDate:   day,
		Active:    true,
	}

	eval := punch.Evaluation{LatenessMinutes: 40, OvertimeMinutes: 90}

	res, err := e.Apply(eval, day, approvedLatenessRule(), approvedOvertimeRule(), hol, true)
	require.NoError(t, err)

	assert.True(t, res.Suppressed)
	assert.Zero(t, res.DeductionMinutes)
	assert.Zero(t, res.DeductionAmount)
	assert.Zero(t, res.OvertimeMinutes)
	assert.Zero(t, res.OvertimeAmount)
	require.NotNil(t, res.Message)
	assert.Contains(t, *res.Message, "Company Anniversary")
}

func TestApply_HolidayWithoutSuppressionFlag(t *testing.T) {
	e := NewEngine()

	day := testDay(t)
	hol := &holiday.Holiday{
		Name:      "Company Anniversary",
		StartDate: day,
		EndDate:   day,
		Active:    true,
	}

	res, err := e.Apply(punch.Evaluation{LatenessMinutes: 10}, day, approvedLatenessRule(), nil, hol, false)
	require.NoError(t, err)

	assert.False(t, res.Suppressed)
	assert.Equal(t, 5, res.DeductionMinutes)
}

func TestApply_HolidayOutsideRangeDoesNotSuppress(t *testing.T) {
	e := NewEngine()

	day := testDay(t)
	hol := &holiday.Holiday{
		Name:      "New Year",
		StartDate: day.AddDate(0, 0, 5),
		EndDate:   day.AddDate(0, 0, 6),
		Active:    true,
	}

	res, err := e.Apply(punch.Evaluation{LatenessMinutes: 10}, day, approvedLatenessRule(), nil, hol, true)
	require.NoError(t, err)

	assert.False(t, res.Suppressed)
	assert.Equal(t, 5, res.DeductionMinutes)
}

func TestApply_NilRulesComputeNothing(t *testing.T) {
	e := NewEngine()

	res, err := e.Apply(punch.Evaluation{LatenessMinutes: 30, OvertimeMinutes: 60}, testDay(t), nil, nil, nil, false)
	require.NoError(t, err)

	assert.Zero(t, res.DeductionAmount)
	assert.Zero(t, res.OvertimeAmount)
}

func TestRoundingFor(t *testing.T) {
	assert.Equal(t, punch.Rounding{}, RoundingFor(nil))

	rule := approvedLatenessRule()
	rule.RoundingIntervalMinutes = 15
	rule.RoundingStrategy = timerule.RoundUp

	got := RoundingFor(rule)
	assert.Equal(t, 15, got.IntervalMinutes)
	assert.Equal(t, timerule.RoundUp, got.Strategy)
}
