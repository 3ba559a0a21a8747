package holiday

import "errors"

var (
	ErrHolidayNotFound = errors.New("holiday not found")
	ErrInvalidRange    = errors.New("holiday end date must not be before start date")
)
