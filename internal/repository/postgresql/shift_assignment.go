package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type shiftAssignmentRepository struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shift.ShiftAssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}

const assignmentColumns = `
	sa.id, sa.company_id, sa.employee_id, sa.target_type, sa.target_id,
	sa.shift_id, sa.schedule_rule_id, sa.start_date, sa.end_date, sa.status,
	sa.note, sa.cancel_reason, sa.created_at, sa.updated_at
`

func scanAssignment(row pgx.Row) (shift.ShiftAssignment, error) {
	var a shift.ShiftAssignment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.TargetType, &a.TargetID,
		&a.ShiftID, &a.ScheduleRuleID, &a.StartDate, &a.EndDate, &a.Status,
		&a.Note, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) Create(ctx context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			company_id, employee_id, target_type, target_id, shift_id,
			schedule_rule_id, start_date, end_date, status, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.CompanyID,
		a.EmployeeID,
		a.TargetType,
		a.TargetID,
		a.ShiftID,
		a.ScheduleRuleID,
		a.StartDate,
		a.EndDate,
		a.Status,
		a.Note,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return shift.ShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return a, nil
}

// GetByID implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) GetByID(ctx context.Context, id string, companyID string) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM shift_assignments sa
		WHERE sa.id = $1 AND sa.company_id = $2
	`, assignmentColumns)

	a, err := scanAssignment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
		}
		return shift.ShiftAssignment{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}

	return a, nil
}

// GetActiveOverlapping implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) GetActiveOverlapping(ctx context.Context, employeeID string, startDate time.Time, endDate *time.Time, companyID string) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	// A nil end date on either side means the range is open ended.
	query := fmt.Sprintf(`
		SELECT %s FROM shift_assignments sa
		WHERE sa.employee_id = $1
			AND sa.company_id = $2
			AND sa.status IN ('active', 'postponed')
			AND (sa.end_date IS NULL OR sa.end_date >= $3)
			AND ($4::date IS NULL OR sa.start_date <= $4)
		ORDER BY sa.start_date ASC
	`, assignmentColumns)

	rows, err := q.Query(ctx, query, employeeID, companyID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetActiveForDate implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) GetActiveForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	// A postponed assignment whose new start date has arrived resolves
	// like an active one; the cron activation job catches up later.
	query := fmt.Sprintf(`
		SELECT %s FROM shift_assignments sa
		WHERE sa.employee_id = $1
			AND sa.company_id = $2
			AND sa.status IN ('active', 'postponed')
			AND sa.start_date <= $3
			AND (sa.end_date IS NULL OR sa.end_date >= $3)
		ORDER BY sa.start_date DESC
		LIMIT 1
	`, assignmentColumns)

	a, err := scanAssignment(q.QueryRow(ctx, query, employeeID, companyID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment for date: %w", err)
	}

	return &a, nil
}

// ListByEmployee implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, s.name AS shift_name, e.name AS employee_name
		FROM shift_assignments sa
		LEFT JOIN shifts s ON s.id = sa.shift_id
		LEFT JOIN employees e ON e.id = sa.employee_id
		WHERE sa.employee_id = $1 AND sa.company_id = $2
		ORDER BY sa.start_date DESC
	`, assignmentColumns)

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.ShiftAssignment
	for rows.Next() {
		var a shift.ShiftAssignment
		err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.TargetType, &a.TargetID,
			&a.ShiftID, &a.ScheduleRuleID, &a.StartDate, &a.EndDate, &a.Status,
			&a.Note, &a.CancelReason, &a.CreatedAt, &a.UpdatedAt,
			&a.ShiftName, &a.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// Update implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) Update(ctx context.Context, a shift.ShiftAssignment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET shift_id = $1, schedule_rule_id = $2, start_date = $3, end_date = $4,
			status = $5, note = $6, cancel_reason = $7, updated_at = NOW()
		WHERE id = $8 AND company_id = $9
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		a.ShiftID, a.ScheduleRuleID, a.StartDate, a.EndDate,
		a.Status, a.Note, a.CancelReason,
		a.ID, a.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to update shift assignment: %w", err)
	}

	return nil
}

// ExpireEnded implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ExpireEnded(ctx context.Context, asOf time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date IS NOT NULL AND end_date < $1
	`

	tag, err := q.Exec(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to expire assignments: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ActivatePostponed implements shift.ShiftAssignmentRepository.
func (r *shiftAssignmentRepository) ActivatePostponed(ctx context.Context, asOf time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET status = 'active', updated_at = NOW()
		WHERE status = 'postponed' AND start_date <= $1
	`

	tag, err := q.Exec(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to activate postponed assignments: %w", err)
	}

	return tag.RowsAffected(), nil
}

func collectAssignments(rows pgx.Rows) ([]shift.ShiftAssignment, error) {
	var assignments []shift.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
