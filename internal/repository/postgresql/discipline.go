package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/discipline"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type latenessFlagRepository struct {
	db *database.DB
}

func NewLatenessFlagRepository(db *database.DB) discipline.LatenessFlagRepository {
	return &latenessFlagRepository{db: db}
}

const latenessFlagColumns = `
	lf.id, lf.company_id, lf.employee_id, lf.status, lf.occurrence_count,
	lf.lookback_days, lf.reason, lf.resolved_by, lf.resolved_at,
	lf.resolution_note, lf.created_at, lf.updated_at
`

func scanLatenessFlag(row pgx.Row) (discipline.LatenessFlag, error) {
	var f discipline.LatenessFlag
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.EmployeeID, &f.Status, &f.OccurrenceCount,
		&f.LookbackDays, &f.Reason, &f.ResolvedBy, &f.ResolvedAt,
		&f.ResolutionNote, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Create implements discipline.LatenessFlagRepository.
func (r *latenessFlagRepository) Create(ctx context.Context, flag discipline.LatenessFlag) (discipline.LatenessFlag, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO lateness_flags (
			company_id, employee_id, status, occurrence_count, lookback_days, reason
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		flag.CompanyID,
		flag.EmployeeID,
		flag.Status,
		flag.OccurrenceCount,
		flag.LookbackDays,
		flag.Reason,
	).Scan(&flag.ID, &flag.CreatedAt, &flag.UpdatedAt)

	if err != nil {
		return discipline.LatenessFlag{}, fmt.Errorf("failed to create lateness flag: %w", err)
	}

	return flag, nil
}

// GetByID implements discipline.LatenessFlagRepository.
func (r *latenessFlagRepository) GetByID(ctx context.Context, id string, companyID string) (discipline.LatenessFlag, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM lateness_flags lf
		WHERE lf.id = $1 AND lf.company_id = $2
	`, latenessFlagColumns)

	f, err := scanLatenessFlag(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return discipline.LatenessFlag{}, discipline.ErrFlagNotFound
		}
		return discipline.LatenessFlag{}, fmt.Errorf("failed to get lateness flag: %w", err)
	}

	return f, nil
}

// GetUnresolvedByEmployee implements discipline.LatenessFlagRepository.
func (r *latenessFlagRepository) GetUnresolvedByEmployee(ctx context.Context, employeeID string, companyID string) (*discipline.LatenessFlag, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM lateness_flags lf
		WHERE lf.employee_id = $1
			AND lf.company_id = $2
			AND lf.status != 'RESOLVED'
		ORDER BY lf.created_at DESC
		LIMIT 1
	`, latenessFlagColumns)

	f, err := scanLatenessFlag(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get unresolved lateness flag: %w", err)
	}

	return &f, nil
}

// List implements discipline.LatenessFlagRepository.
func (r *latenessFlagRepository) List(ctx context.Context, companyID string, status *discipline.FlagStatus) ([]discipline.LatenessFlag, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.name AS employee_name
		FROM lateness_flags lf
		LEFT JOIN employees e ON e.id = lf.employee_id
		WHERE lf.company_id = $1
	`, latenessFlagColumns)

	args := []interface{}{companyID}
	if status != nil {
		query += " AND lf.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY lf.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lateness flags: %w", err)
	}
	defer rows.Close()

	var flags []discipline.LatenessFlag
	for rows.Next() {
		var f discipline.LatenessFlag
		err := rows.Scan(
			&f.ID, &f.CompanyID, &f.EmployeeID, &f.Status, &f.OccurrenceCount,
			&f.LookbackDays, &f.Reason, &f.ResolvedBy, &f.ResolvedAt,
			&f.ResolutionNote, &f.CreatedAt, &f.UpdatedAt,
			&f.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lateness flag: %w", err)
		}
		flags = append(flags, f)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return flags, nil
}

// Update implements discipline.LatenessFlagRepository.
func (r *latenessFlagRepository) Update(ctx context.Context, flag discipline.LatenessFlag) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE lateness_flags
		SET status = $1, occurrence_count = $2, lookback_days = $3, reason = $4,
			resolved_by = $5, resolved_at = $6, resolution_note = $7, updated_at = NOW()
		WHERE id = $8 AND company_id = $9
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		flag.Status, flag.OccurrenceCount, flag.LookbackDays, flag.Reason,
		flag.ResolvedBy, flag.ResolvedAt, flag.ResolutionNote,
		flag.ID, flag.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return discipline.ErrFlagNotFound
		}
		return fmt.Errorf("failed to update lateness flag: %w", err)
	}

	return nil
}
