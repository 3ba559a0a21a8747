package attendance

import (
	"context"
)

// AttendanceService defines business logic for punch ingestion and rule
// evaluation.
type AttendanceService interface {
	// ClockIn records an "in" punch for today, evaluating it against the
	// employee's assigned shift.
	ClockIn(ctx context.Context, req ClockInRequest) (RecordResponse, error)

	// ClockOut records an "out" punch and finalizes the day's evaluation.
	ClockOut(ctx context.Context, req ClockOutRequest) (RecordResponse, error)

	// EvaluatePunches classifies an explicit punch list against the shift
	// assigned for the date without persisting anything.
	EvaluatePunches(ctx context.Context, req EvaluatePunchesRequest) (EvaluationResponse, error)

	// ApplyRules recomputes deduction and overtime for a stored record
	// using the effective lateness/overtime rules and holiday lookup, and
	// persists the corrected record.
	ApplyRules(ctx context.Context, req ApplyRulesRequest) (RuleApplicationResponse, error)

	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	ListRecords(ctx context.Context, filter AttendanceFilter) (ListRecordsResponse, error)
}
