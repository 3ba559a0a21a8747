package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, company_id, shift_type_id, name, punch_policy, start_time, end_time,
	grace_in_minutes, grace_out_minutes, overtime_approval_required, active,
	created_at, updated_at
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.ShiftTypeID, &s.Name, &s.PunchPolicy, &s.StartTime, &s.EndTime,
		&s.GraceInMinutes, &s.GraceOutMinutes, &s.OvertimeApprovalRequired, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			company_id, shift_type_id, name, punch_policy, start_time, end_time,
			grace_in_minutes, grace_out_minutes, overtime_approval_required, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.CompanyID,
		s.ShiftTypeID,
		s.Name,
		s.PunchPolicy,
		s.StartTime,
		s.EndTime,
		s.GraceInMinutes,
		s.GraceOutMinutes,
		s.OvertimeApprovalRequired,
		s.Active,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM shifts
		WHERE id = $1 AND company_id = $2
	`, shiftColumns)

	s, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM shifts
		WHERE company_id = $1
	`, shiftColumns)
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET shift_type_id = $1, name = $2, punch_policy = $3, start_time = $4,
			end_time = $5, grace_in_minutes = $6, grace_out_minutes = $7,
			overtime_approval_required = $8, active = $9, updated_at = NOW()
		WHERE id = $10 AND company_id = $11
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		s.ShiftTypeID, s.Name, s.PunchPolicy, s.StartTime, s.EndTime,
		s.GraceInMinutes, s.GraceOutMinutes, s.OvertimeApprovalRequired, s.Active,
		s.ID, s.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}

	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx,
		"DELETE FROM shifts WHERE id = $1 AND company_id = $2 RETURNING id",
		id, companyID,
	).Scan(&deletedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	return nil
}

type shiftTypeRepository struct {
	db *database.DB
}

func NewShiftTypeRepository(db *database.DB) shift.ShiftTypeRepository {
	return &shiftTypeRepository{db: db}
}

// Create implements shift.ShiftTypeRepository.
func (r *shiftTypeRepository) Create(ctx context.Context, st shift.ShiftType) (shift.ShiftType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_types (company_id, name, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, st.CompanyID, st.Name, st.Active).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return shift.ShiftType{}, fmt.Errorf("failed to create shift type: %w", err)
	}

	return st, nil
}

// GetByID implements shift.ShiftTypeRepository.
func (r *shiftTypeRepository) GetByID(ctx context.Context, id string, companyID string) (shift.ShiftType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, active, created_at, updated_at
		FROM shift_types
		WHERE id = $1 AND company_id = $2
	`

	var st shift.ShiftType
	err := q.QueryRow(ctx, query, id, companyID).
		Scan(&st.ID, &st.CompanyID, &st.Name, &st.Active, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftType{}, shift.ErrShiftTypeNotFound
		}
		return shift.ShiftType{}, fmt.Errorf("failed to get shift type: %w", err)
	}

	return st, nil
}

// List implements shift.ShiftTypeRepository.
func (r *shiftTypeRepository) List(ctx context.Context, companyID string) ([]shift.ShiftType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, active, created_at, updated_at
		FROM shift_types
		WHERE company_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift types: %w", err)
	}
	defer rows.Close()

	var types []shift.ShiftType
	for rows.Next() {
		var st shift.ShiftType
		if err := rows.Scan(&st.ID, &st.CompanyID, &st.Name, &st.Active, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift type: %w", err)
		}
		types = append(types, st)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

// Update implements shift.ShiftTypeRepository.
func (r *shiftTypeRepository) Update(ctx context.Context, st shift.ShiftType) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_types
		SET name = $1, active = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, st.Name, st.Active, st.ID, st.CompanyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftTypeNotFound
		}
		return fmt.Errorf("failed to update shift type: %w", err)
	}

	return nil
}

// Delete implements shift.ShiftTypeRepository.
func (r *shiftTypeRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx,
		"DELETE FROM shift_types WHERE id = $1 AND company_id = $2 RETURNING id",
		id, companyID,
	).Scan(&deletedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrShiftTypeNotFound
		}
		return fmt.Errorf("failed to delete shift type: %w", err)
	}

	return nil
}

type scheduleRuleRepository struct {
	db *database.DB
}

func NewScheduleRuleRepository(db *database.DB) shift.ScheduleRuleRepository {
	return &scheduleRuleRepository{db: db}
}

// Create implements shift.ScheduleRuleRepository.
func (r *scheduleRuleRepository) Create(ctx context.Context, sr shift.ScheduleRule) (shift.ScheduleRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedule_rules (company_id, name, pattern, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, sr.CompanyID, sr.Name, sr.Pattern, sr.Active).
		Scan(&sr.ID, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return shift.ScheduleRule{}, fmt.Errorf("failed to create schedule rule: %w", err)
	}

	return sr, nil
}

// GetByID implements shift.ScheduleRuleRepository.
func (r *scheduleRuleRepository) GetByID(ctx context.Context, id string, companyID string) (shift.ScheduleRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, pattern, active, created_at, updated_at
		FROM schedule_rules
		WHERE id = $1 AND company_id = $2
	`

	var sr shift.ScheduleRule
	err := q.QueryRow(ctx, query, id, companyID).
		Scan(&sr.ID, &sr.CompanyID, &sr.Name, &sr.Pattern, &sr.Active, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ScheduleRule{}, shift.ErrScheduleRuleNotFound
		}
		return shift.ScheduleRule{}, fmt.Errorf("failed to get schedule rule: %w", err)
	}

	return sr, nil
}

// List implements shift.ScheduleRuleRepository.
func (r *scheduleRuleRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]shift.ScheduleRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, pattern, active, created_at, updated_at
		FROM schedule_rules
		WHERE company_id = $1
	`
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule rules: %w", err)
	}
	defer rows.Close()

	var rules []shift.ScheduleRule
	for rows.Next() {
		var sr shift.ScheduleRule
		if err := rows.Scan(&sr.ID, &sr.CompanyID, &sr.Name, &sr.Pattern, &sr.Active, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule rule: %w", err)
		}
		rules = append(rules, sr)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// Update implements shift.ScheduleRuleRepository.
func (r *scheduleRuleRepository) Update(ctx context.Context, sr shift.ScheduleRule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedule_rules
		SET name = $1, pattern = $2, active = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, sr.Name, sr.Pattern, sr.Active, sr.ID, sr.CompanyID).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ErrScheduleRuleNotFound
		}
		return fmt.Errorf("failed to update schedule rule: %w", err)
	}

	return nil
}
