package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type latenessRuleRepository struct {
	db *database.DB
}

func NewLatenessRuleRepository(db *database.DB) timerule.LatenessRuleRepository {
	return &latenessRuleRepository{db: db}
}

const latenessRuleColumns = `
	id, company_id, name, description, grace_period_minutes,
	deduction_per_minute, rounding_interval_minutes, rounding_strategy,
	active, status, approved_by, approved_at, created_at, updated_at
`

func scanLatenessRule(row pgx.Row) (timerule.LatenessRule, error) {
	var r timerule.LatenessRule
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Name, &r.Description, &r.GracePeriodMinutes,
		&r.DeductionPerMinute, &r.RoundingIntervalMinutes, &r.RoundingStrategy,
		&r.Active, &r.Status, &r.ApprovedBy, &r.ApprovedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements timerule.LatenessRuleRepository.
func (r *latenessRuleRepository) Create(ctx context.Context, rule timerule.LatenessRule) (timerule.LatenessRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO lateness_rules (
			company_id, name, description, grace_period_minutes,
			deduction_per_minute, rounding_interval_minutes, rounding_strategy,
			active, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.CompanyID,
		rule.Name,
		rule.Description,
		rule.GracePeriodMinutes,
		rule.DeductionPerMinute,
		rule.RoundingIntervalMinutes,
		rule.RoundingStrategy,
		rule.Active,
		rule.Status,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return timerule.LatenessRule{}, fmt.Errorf("failed to create lateness rule: %w", err)
	}

	return rule, nil
}

// GetByID implements timerule.LatenessRuleRepository.
func (r *latenessRuleRepository) GetByID(ctx context.Context, id string, companyID string) (timerule.LatenessRule, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM lateness_rules
		WHERE id = $1 AND company_id = $2
	`, latenessRuleColumns)

	rule, err := scanLatenessRule(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timerule.LatenessRule{}, timerule.ErrLatenessRuleNotFound
		}
		return timerule.LatenessRule{}, fmt.Errorf("failed to get lateness rule: %w", err)
	}

	return rule, nil
}

// GetEffective implements timerule.LatenessRuleRepository.
func (r *latenessRuleRepository) GetEffective(ctx context.Context, companyID string) (*timerule.LatenessRule, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM lateness_rules
		WHERE company_id = $1 AND active = TRUE AND status = 'approved'
		ORDER BY approved_at DESC
		LIMIT 1
	`, latenessRuleColumns)

	rule, err := scanLatenessRule(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get effective lateness rule: %w", err)
	}

	return &rule, nil
}

// List implements timerule.LatenessRuleRepository.
func (r *latenessRuleRepository) List(ctx context.Context, companyID string) ([]timerule.LatenessRule, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM lateness_rules
		WHERE company_id = $1
		ORDER BY created_at DESC
	`, latenessRuleColumns)

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lateness rules: %w", err)
	}
	defer rows.Close()

	var rules []timerule.LatenessRule
	for rows.Next() {
		rule, err := scanLatenessRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lateness rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// Update implements timerule.LatenessRuleRepository.
func (r *latenessRuleRepository) Update(ctx context.Context, rule timerule.LatenessRule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE lateness_rules
		SET name = $1, description = $2, grace_period_minutes = $3,
			deduction_per_minute = $4, rounding_interval_minutes = $5,
			rounding_strategy = $6, active = $7, status = $8,
			approved_by = $9, approved_at = $10, updated_at = NOW()
		WHERE id = $11 AND company_id = $12
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rule.Name,
		rule.Description,
		rule.GracePeriodMinutes,
		rule.DeductionPerMinute,
		rule.RoundingIntervalMinutes,
		rule.RoundingStrategy,
		rule.Active,
		rule.Status,
		rule.ApprovedBy,
		rule.ApprovedAt,
		rule.ID,
		rule.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return timerule.ErrLatenessRuleNotFound
		}
		return fmt.Errorf("failed to update lateness rule: %w", err)
	}

	return nil
}

// Delete implements timerule.LatenessRuleRepository.
func (r *latenessRuleRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx,
		"DELETE FROM lateness_rules WHERE id = $1 AND company_id = $2 RETURNING id",
		id, companyID,
	).Scan(&deletedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return timerule.ErrLatenessRuleNotFound
		}
		return fmt.Errorf("failed to delete lateness rule: %w", err)
	}

	return nil
}

type overtimeRuleRepository struct {
	db *database.DB
}

func NewOvertimeRuleRepository(db *database.DB) timerule.OvertimeRuleRepository {
	return &overtimeRuleRepository{db: db}
}

const overtimeRuleColumns = `
	id, company_id, name, description, min_overtime_minutes,
	rate_per_minute, before_shift_allowed, requires_approval,
	active, status, approved_by, approved_at, created_at, updated_at
`

func scanOvertimeRule(row pgx.Row) (timerule.OvertimeRule, error) {
	var r timerule.OvertimeRule
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Name, &r.Description, &r.MinOvertimeMinutes,
		&r.RatePerMinute, &r.BeforeShiftAllowed, &r.RequiresApproval,
		&r.Active, &r.Status, &r.ApprovedBy, &r.ApprovedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements timerule.OvertimeRuleRepository.
func (r *overtimeRuleRepository) Create(ctx context.Context, rule timerule.OvertimeRule) (timerule.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_rules (
			company_id, name, description, min_overtime_minutes,
			rate_per_minute, before_shift_allowed, requires_approval,
			active, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.CompanyID,
		rule.Name,
		rule.Description,
		rule.MinOvertimeMinutes,
		rule.RatePerMinute,
		rule.BeforeShiftAllowed,
		rule.RequiresApproval,
		rule.Active,
		rule.Status,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return timerule.OvertimeRule{}, fmt.Errorf("failed to create overtime rule: %w", err)
	}

	return rule, nil
}

// GetByID implements timerule.OvertimeRuleRepository.
func (r *overtimeRuleRepository) GetByID(ctx context.Context, id string, companyID string) (timerule.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM overtime_rules
		WHERE id = $1 AND company_id = $2
	`, overtimeRuleColumns)

	rule, err := scanOvertimeRule(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timerule.OvertimeRule{}, timerule.ErrOvertimeRuleNotFound
		}
		return timerule.OvertimeRule{}, fmt.Errorf("failed to get overtime rule: %w", err)
	}

	return rule, nil
}

// GetEffective implements timerule.OvertimeRuleRepository.
func (r *overtimeRuleRepository) GetEffective(ctx context.Context, companyID string) (*timerule.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM overtime_rules
		WHERE company_id = $1 AND active = TRUE AND status = 'approved'
		ORDER BY approved_at DESC
		LIMIT 1
	`, overtimeRuleColumns)

	rule, err := scanOvertimeRule(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get effective overtime rule: %w", err)
	}

	return &rule, nil
}

// List implements timerule.OvertimeRuleRepository.
func (r *overtimeRuleRepository) List(ctx context.Context, companyID string) ([]timerule.OvertimeRule, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM overtime_rules
		WHERE company_id = $1
		ORDER BY created_at DESC
	`, overtimeRuleColumns)

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime rules: %w", err)
	}
	defer rows.Close()

	var rules []timerule.OvertimeRule
	for rows.Next() {
		rule, err := scanOvertimeRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// Update implements timerule.OvertimeRuleRepository.
func (r *overtimeRuleRepository) Update(ctx context.Context, rule timerule.OvertimeRule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_rules
		SET name = $1, description = $2, min_overtime_minutes = $3,
			rate_per_minute = $4, before_shift_allowed = $5,
			requires_approval = $6, active = $7, status = $8,
			approved_by = $9, approved_at = $10, updated_at = NOW()
		WHERE id = $11 AND company_id = $12
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rule.Name,
		rule.Description,
		rule.MinOvertimeMinutes,
		rule.RatePerMinute,
		rule.BeforeShiftAllowed,
		rule.RequiresApproval,
		rule.Active,
		rule.Status,
		rule.ApprovedBy,
		rule.ApprovedAt,
		rule.ID,
		rule.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return timerule.ErrOvertimeRuleNotFound
		}
		return fmt.Errorf("failed to update overtime rule: %w", err)
	}

	return nil
}

// Delete implements timerule.OvertimeRuleRepository.
func (r *overtimeRuleRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx,
		"DELETE FROM overtime_rules WHERE id = $1 AND company_id = $2 RETURNING id",
		id, companyID,
	).Scan(&deletedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return timerule.ErrOvertimeRuleNotFound
		}
		return fmt.Errorf("failed to delete overtime rule: %w", err)
	}

	return nil
}
