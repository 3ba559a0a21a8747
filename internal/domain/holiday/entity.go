package holiday

import "time"

type HolidayType string

const (
	TypePublic    HolidayType = "public"
	TypeCompany   HolidayType = "company"
	TypeReligious HolidayType = "religious"
)

// Holiday is a date range on which lateness and overtime penalties may be
// suppressed.
type Holiday struct {
	ID        string
	CompanyID string
	Type      HolidayType
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the holiday range includes the given day.
func (h *Holiday) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	return !day.Before(h.StartDate.Truncate(24*time.Hour)) &&
		!day.After(h.EndDate.Truncate(24*time.Hour))
}
