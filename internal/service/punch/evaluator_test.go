package punch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
)

func dayShift() shift.Shift {
	return shift.Shift{
		ID:              "shift-1",
		Name:            "Morning",
		PunchPolicy:     shift.PolicyFlexible,
		StartTime:       "09:00",
		EndTime:         "17:00",
		GraceInMinutes:  10,
		GraceOutMinutes: 5,
	}
}

func punchAt(t *testing.T, typ attendance.PunchType, value string) attendance.Punch {
	t.Helper()
	at, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return attendance.Punch{Type: typ, At: at}
}

func workDay(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2025-03-10")
	require.NoError(t, err)
	return d
}

func TestEvaluate_OnTimeWithinGrace(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T09:08:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T17:00:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	assert.Equal(t, 0, eval.LatenessMinutes)
	assert.Equal(t, 0, eval.EarlyLeaveMinutes)
	assert.Equal(t, 0, eval.OvertimeMinutes)
	require.Len(t, eval.Classifications, 2)
	assert.Equal(t, ClassOnTime, eval.Classifications[0].Class)
	assert.Equal(t, 8, eval.Classifications[0].OffsetMinutes)
}

func TestEvaluate_LatenessBeyondGrace(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T09:15:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T17:00:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	// 15 minutes after start minus the 10 minute grace.
	assert.Equal(t, 5, eval.LatenessMinutes)
	assert.Equal(t, ClassLate, eval.Classifications[0].Class)
}

func TestEvaluate_EarlyArrivalIsNotLate(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T08:30:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T17:02:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	assert.Equal(t, 0, eval.LatenessMinutes)
	assert.Equal(t, ClassEarly, eval.Classifications[0].Class)
	assert.Equal(t, -30, eval.Classifications[0].OffsetMinutes)
}

func TestEvaluate_EarlyLeave(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T09:00:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T16:30:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	// 30 minutes early minus the 5 minute grace-out.
	assert.Equal(t, 25, eval.EarlyLeaveMinutes)
	assert.Equal(t, 0, eval.OvertimeMinutes)
	assert.Equal(t, ClassEarly, eval.Classifications[1].Class)
}

func TestEvaluate_Overtime(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T09:00:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T18:00:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	// 60 minutes past end minus the 5 minute grace-out.
	assert.Equal(t, 55, eval.OvertimeMinutes)
	assert.Equal(t, 0, eval.EarlyLeaveMinutes)
}

func TestEvaluate_EarlyStartMinutes(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"forty-five minutes early", "2025-03-10T08:15:00Z", 35},
		{"within grace window", "2025-03-10T08:55:00Z", 0},
		{"on time", "2025-03-10T09:00:00Z", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			punches := []attendance.Punch{
				punchAt(t, attendance.PunchIn, tt.in),
				punchAt(t, attendance.PunchOut, "2025-03-10T17:00:00Z"),
			}

			eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
			require.NoError(t, err)

			assert.Equal(t, tt.want, eval.EarlyStartMinutes)
			assert.Equal(t, 0, eval.LatenessMinutes)
		})
	}
}

func TestEvaluate_MultiplePunchPairs(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T09:00:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T12:00:00Z"),
		punchAt(t, attendance.PunchIn, "2025-03-10T13:00:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T17:00:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	// Lateness keys off the first in, overtime off the last out.
	assert.Equal(t, 0, eval.LatenessMinutes)
	assert.Equal(t, 0, eval.EarlyLeaveMinutes)
	assert.Equal(t, 0, eval.OvertimeMinutes)
	assert.Len(t, eval.Classifications, 4)
}

func TestEvaluate_OutOfOrderPunches(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name    string
		punches []attendance.Punch
	}{
		{
			name: "out before in",
			punches: []attendance.Punch{
				punchAt(t, attendance.PunchOut, "2025-03-10T09:00:00Z"),
				punchAt(t, attendance.PunchIn, "2025-03-10T17:00:00Z"),
			},
		},
		{
			name: "double in",
			punches: []attendance.Punch{
				punchAt(t, attendance.PunchIn, "2025-03-10T09:00:00Z"),
				punchAt(t, attendance.PunchIn, "2025-03-10T10:00:00Z"),
			},
		},
		{
			name: "not time ordered",
			punches: []attendance.Punch{
				punchAt(t, attendance.PunchIn, "2025-03-10T09:00:00Z"),
				punchAt(t, attendance.PunchOut, "2025-03-10T08:00:00Z"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(tt.punches, dayShift(), workDay(t), time.UTC, Rounding{})
			assert.ErrorIs(t, err, attendance.ErrPunchOutOfOrder)
		})
	}
}

func TestEvaluate_NoPunches(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Evaluate(nil, dayShift(), workDay(t), time.UTC, Rounding{})
	assert.ErrorIs(t, err, attendance.ErrNoPunches)
}

func TestEvaluate_StrictPolicyViolation(t *testing.T) {
	e := NewEvaluator()

	sh := dayShift()
	sh.PunchPolicy = shift.PolicyStrict

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T03:00:00Z"), // 6h before start
		punchAt(t, attendance.PunchOut, "2025-03-10T17:00:00Z"),
	}

	eval, err := e.Evaluate(punches, sh, workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	assert.Equal(t, ClassViolation, eval.Classifications[0].Class)
	require.Len(t, eval.Violations, 1)
	assert.Contains(t, eval.Violations[0], "outside the allowed window")
}

func TestEvaluate_FlexiblePolicyAllowsDistantPunch(t *testing.T) {
	e := NewEvaluator()

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T03:00:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T17:00:00Z"),
	}

	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	assert.Empty(t, eval.Violations)
	assert.Equal(t, ClassEarly, eval.Classifications[0].Class)
}

func TestEvaluate_OvernightShift(t *testing.T) {
	e := NewEvaluator()

	sh := shift.Shift{
		Name:            "Night",
		PunchPolicy:     shift.PolicyFlexible,
		StartTime:       "22:00",
		EndTime:         "06:00",
		GraceInMinutes:  10,
		GraceOutMinutes: 5,
	}

	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T22:20:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-11T06:00:00Z"),
	}

	eval, err := e.Evaluate(punches, sh, workDay(t), time.UTC, Rounding{})
	require.NoError(t, err)

	// 20 minutes after start minus the 10 minute grace.
	assert.Equal(t, 10, eval.LatenessMinutes)
	assert.Equal(t, 0, eval.EarlyLeaveMinutes)
	assert.Equal(t, 0, eval.OvertimeMinutes)
}

func TestShiftWindow_OvernightRollsEndForward(t *testing.T) {
	sh := shift.Shift{StartTime: "22:00", EndTime: "06:00"}

	start, end, err := ShiftWindow(sh, workDay(t), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 10, start.Day())
	assert.Equal(t, 11, end.Day())
	assert.True(t, end.After(start))
}

func TestShiftWindow_InvalidClockTime(t *testing.T) {
	sh := shift.Shift{StartTime: "25:00", EndTime: "17:00"}

	_, _, err := ShiftWindow(sh, workDay(t), time.UTC)
	assert.Error(t, err)
}

func TestRoundTime(t *testing.T) {
	at, err := time.Parse(time.RFC3339, "2025-03-10T09:07:00Z")
	require.NoError(t, err)

	tests := []struct {
		name     string
		rounding Rounding
		want     string
	}{
		{"disabled", Rounding{}, "09:07"},
		{"nearest rounds down below midpoint", Rounding{IntervalMinutes: 15, Strategy: timerule.RoundNearest}, "09:00"},
		{"up", Rounding{IntervalMinutes: 15, Strategy: timerule.RoundUp}, "09:15"},
		{"down", Rounding{IntervalMinutes: 15, Strategy: timerule.RoundDown}, "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTime(at, tt.rounding)
			assert.Equal(t, tt.want, got.Format("15:04"))
		})
	}
}

func TestRoundTime_HalfHourOffsetZone(t *testing.T) {
	// A zone offset by 5h30m must still round to local clock
	// boundaries, not UTC epoch multiples shifted by half an hour.
	loc := time.FixedZone("UTC+0530", 5*3600+30*60)

	tests := []struct {
		name     string
		local    time.Time
		rounding Rounding
		want     string
	}{
		{
			"nearest hour",
			time.Date(2025, 3, 10, 9, 10, 0, 0, loc),
			Rounding{IntervalMinutes: 60, Strategy: timerule.RoundNearest},
			"09:00",
		},
		{
			"down to hour",
			time.Date(2025, 3, 10, 9, 40, 0, 0, loc),
			Rounding{IntervalMinutes: 60, Strategy: timerule.RoundDown},
			"09:00",
		},
		{
			"up to hour",
			time.Date(2025, 3, 10, 9, 10, 0, 0, loc),
			Rounding{IntervalMinutes: 60, Strategy: timerule.RoundUp},
			"10:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTime(tt.local, tt.rounding)
			assert.Equal(t, tt.want, got.In(loc).Format("15:04"))
		})
	}
}

func TestRoundTime_OnBoundaryIsStable(t *testing.T) {
	at, err := time.Parse(time.RFC3339, "2025-03-10T09:15:00Z")
	require.NoError(t, err)

	for _, strategy := range []timerule.RoundingStrategy{timerule.RoundNearest, timerule.RoundUp, timerule.RoundDown} {
		got := RoundTime(at, Rounding{IntervalMinutes: 15, Strategy: strategy})
		assert.Equal(t, at, got, "strategy %s", strategy)
	}
}

func TestEvaluate_RoundingAppliedToBothDirections(t *testing.T) {
	e := NewEvaluator()

	// Rounding down forgives a 7 minute late arrival but also shaves
	// the out punch back to the hour.
	punches := []attendance.Punch{
		punchAt(t, attendance.PunchIn, "2025-03-10T09:17:00Z"),
		punchAt(t, attendance.PunchOut, "2025-03-10T17:14:00Z"),
	}

	rounding := Rounding{IntervalMinutes: 15, Strategy: timerule.RoundDown}
	eval, err := e.Evaluate(punches, dayShift(), workDay(t), time.UTC, rounding)
	require.NoError(t, err)

	// In rounds to 09:15: 15 past start minus 10 grace.
	assert.Equal(t, 5, eval.LatenessMinutes)
	// Out rounds to 17:00: no overtime, no early leave.
	assert.Equal(t, 0, eval.OvertimeMinutes)
	assert.Equal(t, 0, eval.EarlyLeaveMinutes)
}
