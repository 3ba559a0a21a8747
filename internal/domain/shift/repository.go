package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]Shift, error)
	Update(ctx context.Context, s Shift) error
	Delete(ctx context.Context, id string, companyID string) error
}

type ShiftTypeRepository interface {
	Create(ctx context.Context, st ShiftType) (ShiftType, error)
	GetByID(ctx context.Context, id string, companyID string) (ShiftType, error)
	List(ctx context.Context, companyID string) ([]ShiftType, error)
	Update(ctx context.Context, st ShiftType) error
	Delete(ctx context.Context, id string, companyID string) error
}

type ScheduleRuleRepository interface {
	Create(ctx context.Context, sr ScheduleRule) (ScheduleRule, error)
	GetByID(ctx context.Context, id string, companyID string) (ScheduleRule, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]ScheduleRule, error)
	Update(ctx context.Context, sr ScheduleRule) error
}

type ShiftAssignmentRepository interface {
	Create(ctx context.Context, a ShiftAssignment) (ShiftAssignment, error)

	GetByID(ctx context.Context, id string, companyID string) (ShiftAssignment, error)

	// GetActiveOverlapping returns active or postponed assignments for the
	// employee whose date range intersects [startDate, endDate]. A nil
	// endDate means open ended.
	GetActiveOverlapping(ctx context.Context, employeeID string, startDate time.Time, endDate *time.Time, companyID string) ([]ShiftAssignment, error)

	// GetActiveForDate returns the assignment covering the given day, used
	// to resolve the shift for punch evaluation. A postponed assignment
	// whose new start date has arrived counts as covering.
	GetActiveForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*ShiftAssignment, error)

	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]ShiftAssignment, error)

	Update(ctx context.Context, a ShiftAssignment) error

	// ExpireEnded marks active assignments whose end date has passed as
	// expired and returns the number affected. Run by the cron scheduler.
	ExpireEnded(ctx context.Context, asOf time.Time) (int64, error)

	// ActivatePostponed flips postponed assignments whose new start date
	// has arrived back to active and returns the number affected. Run by
	// the cron scheduler.
	ActivatePostponed(ctx context.Context, asOf time.Time) (int64, error)
}
