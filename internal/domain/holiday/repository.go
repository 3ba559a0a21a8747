package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string, companyID string) (Holiday, error)
	// FindForDate returns the active holiday covering the given day, or
	// nil when the day is a regular work day.
	FindForDate(ctx context.Context, date time.Time, companyID string) (*Holiday, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string, companyID string) error
}
