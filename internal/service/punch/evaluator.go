package punch

import (
	"fmt"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
)

type Class string

const (
	ClassOnTime    Class = "on_time"
	ClassEarly     Class = "early"
	ClassLate      Class = "late"
	ClassViolation Class = "violation"
)

// StrictOuterWindow is how far outside the shift window a punch may land
// before the strict policy rejects it.
const StrictOuterWindow = 4 * time.Hour

type Classification struct {
	Punch         attendance.Punch
	Class         Class
	OffsetMinutes int
}

// Rounding snaps punch timestamps to an interval before minute math. A
// zero interval disables it. The same strategy applies to in and out
// punches so rounding never favors one direction.
type Rounding struct {
	IntervalMinutes int
	Strategy        timerule.RoundingStrategy
}

// Evaluation is the outcome of classifying one employee-day's punches
// against the assigned shift.
type Evaluation struct {
	Classifications   []Classification
	LatenessMinutes   int
	EarlyLeaveMinutes int
	OvertimeMinutes   int
	// EarlyStartMinutes is how far the first in punch precedes the shift
	// start beyond the grace window. The rule engine counts it as
	// overtime only when the effective overtime rule allows before-shift
	// work.
	EarlyStartMinutes int
	Violations        []string
}

// Evaluator classifies raw punches against a shift's declared window.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate classifies the ordered punches of one work day against the
// shift. date is the work day at midnight in loc; overnight shifts
// (EndTime <= StartTime) end on the following calendar day, and punches
// are interpreted against that declared window regardless of which
// calendar day they fall on.
func (e *Evaluator) Evaluate(punches []attendance.Punch, sh shift.Shift, date time.Time, loc *time.Location, rounding Rounding) (Evaluation, error) {
	if len(punches) == 0 {
		return Evaluation{}, attendance.ErrNoPunches
	}

	shiftStart, shiftEnd, err := ShiftWindow(sh, date, loc)
	if err != nil {
		return Evaluation{}, err
	}

	// Punches must alternate in/out in time order.
	for i := 1; i < len(punches); i++ {
		if punches[i].At.Before(punches[i-1].At) || punches[i].Type == punches[i-1].Type {
			return Evaluation{}, attendance.ErrPunchOutOfOrder
		}
	}
	if punches[0].Type != attendance.PunchIn {
		return Evaluation{}, attendance.ErrPunchOutOfOrder
	}

	result := Evaluation{
		Classifications: make([]Classification, 0, len(punches)),
	}

	var firstIn, lastOut *time.Time
	for i := range punches {
		p := punches[i]
		at := RoundTime(p.At, rounding)

		var cls Classification
		cls.Punch = p

		switch p.Type {
		case attendance.PunchIn:
			offset := minutesBetween(shiftStart, at)
			cls.OffsetMinutes = offset
			switch {
			case offset < 0:
				cls.Class = ClassEarly
			case offset <= sh.GraceInMinutes:
				cls.Class = ClassOnTime
			default:
				cls.Class = ClassLate
			}
			if firstIn == nil {
				firstIn = &at
			}
		case attendance.PunchOut:
			offset := minutesBetween(shiftEnd, at)
			cls.OffsetMinutes = offset
			switch {
			case offset < -sh.GraceOutMinutes:
				cls.Class = ClassEarly
			default:
				cls.Class = ClassOnTime
			}
			out := at
			lastOut = &out
		}

		if sh.PunchPolicy == shift.PolicyStrict {
			if at.Before(shiftStart.Add(-StrictOuterWindow)) || at.After(shiftEnd.Add(StrictOuterWindow)) {
				cls.Class = ClassViolation
				result.Violations = append(result.Violations,
					fmt.Sprintf("%s punch at %s is outside the allowed window for shift %q",
						p.Type, at.Format("15:04"), sh.Name))
			}
		}

		result.Classifications = append(result.Classifications, cls)
	}

	if firstIn != nil {
		offset := minutesBetween(shiftStart, *firstIn)
		if late := offset - sh.GraceInMinutes; late > 0 {
			result.LatenessMinutes = late
		}
		if early := -offset - sh.GraceInMinutes; early > 0 {
			result.EarlyStartMinutes = early
		}
	}

	if lastOut != nil {
		offset := minutesBetween(shiftEnd, *lastOut)
		if early := -offset - sh.GraceOutMinutes; early > 0 {
			result.EarlyLeaveMinutes = early
		}
		if over := offset - sh.GraceOutMinutes; over > 0 {
			result.OvertimeMinutes = over
		}
	}

	return result, nil
}

// ShiftWindow resolves a shift's declared clock times into absolute start
// and end instants for the given work day. EndTime <= StartTime rolls the
// end over to the next calendar day.
func ShiftWindow(sh shift.Shift, date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	startClock, err := time.Parse("15:04", sh.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid shift start time %q: %w", sh.StartTime, err)
	}
	endClock, err := time.Parse("15:04", sh.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid shift end time %q: %w", sh.EndTime, err)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, loc)

	// Overnight shift ends the next calendar day.
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}

	return start, end, nil
}

// RoundTime snaps t to the rounding interval using the configured
// strategy. Intervals are measured from local midnight, not the UTC
// epoch, so zones with non-whole-hour offsets still snap to local clock
// boundaries.
func RoundTime(t time.Time, r Rounding) time.Time {
	if r.IntervalMinutes <= 0 {
		return t
	}
	interval := time.Duration(r.IntervalMinutes) * time.Minute

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	elapsed := t.Sub(midnight)

	switch r.Strategy {
	case timerule.RoundUp:
		rounded := elapsed.Truncate(interval)
		if rounded < elapsed {
			rounded += interval
		}
		return midnight.Add(rounded)
	case timerule.RoundDown:
		return midnight.Add(elapsed.Truncate(interval))
	default: // nearest
		return midnight.Add(elapsed.Round(interval))
	}
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
