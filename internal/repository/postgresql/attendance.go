package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, company_id, employee_id, date, shift_id,
	late_minutes, early_leave_minutes, overtime_minutes,
	deduction_minutes, deduction_amount, overtime_approved,
	holiday_suppressed, suppression_message, status,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var r attendance.AttendanceRecord
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.EmployeeID, &r.Date, &r.ShiftID,
		&r.LateMinutes, &r.EarlyLeaveMinutes, &r.OvertimeMinutes,
		&r.DeductionMinutes, &r.DeductionAmount, &r.OvertimeApproved,
		&r.HolidaySuppressed, &r.SuppressionMessage, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			company_id, employee_id, date, shift_id,
			late_minutes, early_leave_minutes, overtime_minutes,
			deduction_minutes, deduction_amount, overtime_approved,
			holiday_suppressed, suppression_message, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.CompanyID,
		record.EmployeeID,
		record.Date,
		record.ShiftID,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
		record.OvertimeMinutes,
		record.DeductionMinutes,
		record.DeductionAmount,
		record.OvertimeApproved,
		record.HolidaySuppressed,
		record.SuppressionMessage,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendance_records
		WHERE id = $1 AND company_id = $2
	`, attendanceColumns)

	record, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	record.Punches, err = a.punchesFor(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s FROM attendance_records
		WHERE employee_id = $1 AND date = $2 AND company_id = $3
		LIMIT 1
	`, attendanceColumns)

	record, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	record.Punches, err = a.punchesFor(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// AddPunch implements attendance.AttendanceRepository.
func (a *attendanceRepository) AddPunch(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_punches (attendance_id, type, at, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		punch.AttendanceID,
		punch.Type,
		punch.At,
		punch.Source,
	).Scan(&punch.ID, &punch.CreatedAt)

	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to add punch: %w", err)
	}

	return punch, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET late_minutes = $1, early_leave_minutes = $2, overtime_minutes = $3,
			deduction_minutes = $4, deduction_amount = $5, overtime_approved = $6,
			holiday_suppressed = $7, suppression_message = $8, status = $9,
			updated_at = NOW()
		WHERE id = $10 AND company_id = $11
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
		record.OvertimeMinutes,
		record.DeductionMinutes,
		record.DeductionAmount,
		record.OvertimeApproved,
		record.HolidaySuppressed,
		record.SuppressionMessage,
		record.Status,
		record.ID,
		record.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"ar.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("ar.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("ar.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("ar.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("ar.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_records ar WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT
			ar.id, ar.company_id, ar.employee_id, ar.date, ar.shift_id,
			ar.late_minutes, ar.early_leave_minutes, ar.overtime_minutes,
			ar.deduction_minutes, ar.deduction_amount, ar.overtime_approved,
			ar.holiday_suppressed, ar.suppression_message, ar.status,
			ar.created_at, ar.updated_at,
			e.full_name AS employee_name
		FROM attendance_records ar
		LEFT JOIN employees e ON ar.employee_id = e.id
		WHERE %s
		ORDER BY ar.date DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var r attendance.AttendanceRecord
		err := rows.Scan(
			&r.ID, &r.CompanyID, &r.EmployeeID, &r.Date, &r.ShiftID,
			&r.LateMinutes, &r.EarlyLeaveMinutes, &r.OvertimeMinutes,
			&r.DeductionMinutes, &r.DeductionAmount, &r.OvertimeApproved,
			&r.HolidaySuppressed, &r.SuppressionMessage, &r.Status,
			&r.CreatedAt, &r.UpdatedAt,
			&r.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CountLateByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountLateByEmployee(ctx context.Context, employeeID string, since time.Time, companyID string) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*) FROM attendance_records
		WHERE employee_id = $1
		  AND company_id = $2
		  AND date >= $3
		  AND late_minutes > 0
		  AND holiday_suppressed = FALSE
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, companyID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count late records: %w", err)
	}

	return count, nil
}

func (a *attendanceRepository) punchesFor(ctx context.Context, attendanceID string) ([]attendance.Punch, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, attendance_id, type, at, source, created_at
		FROM attendance_punches
		WHERE attendance_id = $1
		ORDER BY at ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load punches: %w", err)
	}
	defer rows.Close()

	var punches []attendance.Punch
	for rows.Next() {
		var p attendance.Punch
		if err := rows.Scan(&p.ID, &p.AttendanceID, &p.Type, &p.At, &p.Source, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return punches, nil
}
