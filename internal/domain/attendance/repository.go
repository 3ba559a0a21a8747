package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID to prevent cross-company data access.
type AttendanceRepository interface {
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	GetByID(ctx context.Context, id string, companyID string) (AttendanceRecord, error)

	// GetByEmployeeAndDate returns the record for the employee's work day,
	// or nil. Used to prevent double clock-in.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*AttendanceRecord, error)

	AddPunch(ctx context.Context, punch Punch) (Punch, error)

	Update(ctx context.Context, record AttendanceRecord) error

	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]AttendanceRecord, int64, error)

	// CountLateByEmployee counts late, non-suppressed records for the
	// employee with date >= since. Backs the repeated-lateness monitor.
	CountLateByEmployee(ctx context.Context, employeeID string, since time.Time, companyID string) (int, error)
}
