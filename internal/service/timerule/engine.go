package timerule

import (
	"fmt"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/service/punch"
)

// RuleApplication is the payroll-relevant outcome of applying the
// effective rules to one evaluated attendance day.
type RuleApplication struct {
	DeductionMinutes int
	DeductionAmount  float64
	OvertimeMinutes  int
	OvertimeAmount   float64
	// OvertimePendingApproval is set when the overtime rule requires
	// manager approval before the minutes reach payroll.
	OvertimePendingApproval bool
	Suppressed              bool
	Message                 *string
}

// Engine computes lateness deductions and overtime from a punch
// evaluation under the company's approved rules.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Apply computes deduction and overtime for one evaluated day.
//
// Rules must be approved before they take payroll effect: a draft or
// rejected rule yields ErrRuleNotApproved. Either rule may be nil, in
// which case that side of the computation is skipped.
//
// When the overtime rule allows before-shift work, early-start minutes
// join the after-shift minutes before the minimum threshold applies.
//
// When day falls inside an active holiday and suppression is requested,
// both deduction and overtime are zeroed and the result carries an
// explanatory message.
func (e *Engine) Apply(
	eval punch.Evaluation,
	day time.Time,
	latenessRule *timerule.LatenessRule,
	overtimeRule *timerule.OvertimeRule,
	hol *holiday.Holiday,
	suppressOnHoliday bool,
) (RuleApplication, error) {
	if latenessRule != nil && !latenessRule.Effective() {
		return RuleApplication{}, timerule.ErrRuleNotApproved
	}
	if overtimeRule != nil && !overtimeRule.Effective() {
		return RuleApplication{}, timerule.ErrRuleNotApproved
	}

	if suppressOnHoliday && hol != nil && hol.Active && hol.Covers(day) {
		msg := fmt.Sprintf("Lateness and overtime penalties suppressed: %s (%s - %s)",
			hol.Name, hol.StartDate.Format("2006-01-02"), hol.EndDate.Format("2006-01-02"))
		return RuleApplication{
			Suppressed: true,
			Message:    &msg,
		}, nil
	}

	var result RuleApplication

	if latenessRule != nil {
		if over := eval.LatenessMinutes - latenessRule.GracePeriodMinutes; over > 0 {
			result.DeductionMinutes = over
			result.DeductionAmount = float64(over) * latenessRule.DeductionPerMinute
		}
	}

	if overtimeRule != nil {
		minutes := eval.OvertimeMinutes
		if overtimeRule.BeforeShiftAllowed {
			minutes += eval.EarlyStartMinutes
		}
		if minutes > 0 && minutes >= overtimeRule.MinOvertimeMinutes {
			result.OvertimeMinutes = minutes
			result.OvertimeAmount = float64(minutes) * overtimeRule.RatePerMinute
			result.OvertimePendingApproval = overtimeRule.RequiresApproval
		}
	}

	return result, nil
}

// RoundingFor derives the evaluator's rounding options from a lateness
// rule. A nil rule disables rounding.
func RoundingFor(rule *timerule.LatenessRule) punch.Rounding {
	if rule == nil {
		return punch.Rounding{}
	}
	return punch.Rounding{
		IntervalMinutes: rule.RoundingIntervalMinutes,
		Strategy:        rule.RoundingStrategy,
	}
}
