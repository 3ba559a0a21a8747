package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/leave"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

const leaveTypeColumns = `
	id, company_id, name, accrual_type, accrual_amount, carry_forward_cap,
	rounding_increment, active, created_at, updated_at
`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.CompanyID, &lt.Name, &lt.AccrualType, &lt.AccrualAmount,
		&lt.CarryForwardCap, &lt.RoundingIncrement, &lt.Active,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (
			company_id, name, accrual_type, accrual_amount, carry_forward_cap,
			rounding_increment, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		lt.CompanyID,
		lt.Name,
		lt.AccrualType,
		lt.AccrualAmount,
		lt.CarryForwardCap,
		lt.RoundingIncrement,
		lt.Active,
	).Scan(&lt.ID, &lt.CreatedAt, &lt.UpdatedAt)

	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return lt, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM leave_types
		WHERE id = $1 AND company_id = $2
	`, leaveTypeColumns)

	lt, err := scanLeaveType(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	return lt, nil
}

// List implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM leave_types
		WHERE company_id = $1
	`, leaveTypeColumns)
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) Update(ctx context.Context, lt leave.LeaveType) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_types
		SET name = $1, accrual_type = $2, accrual_amount = $3,
			carry_forward_cap = $4, rounding_increment = $5, active = $6,
			updated_at = NOW()
		WHERE id = $7 AND company_id = $8
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		lt.Name, lt.AccrualType, lt.AccrualAmount,
		lt.CarryForwardCap, lt.RoundingIncrement, lt.Active,
		lt.ID, lt.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrLeaveTypeNotFound
		}
		return fmt.Errorf("failed to update leave type: %w", err)
	}

	return nil
}

// Delete implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx,
		"DELETE FROM leave_types WHERE id = $1 AND company_id = $2 RETURNING id",
		id, companyID,
	).Scan(&deletedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrLeaveTypeNotFound
		}
		return fmt.Errorf("failed to delete leave type: %w", err)
	}

	return nil
}

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	id, company_id, employee_id, leave_type_id, period_year, opening_balance,
	accrued, taken, pending, carried_forward, last_accrued_period,
	created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.EmployeeID, &b.LeaveTypeID, &b.PeriodYear,
		&b.OpeningBalance, &b.Accrued, &b.Taken, &b.Pending, &b.CarriedForward,
		&b.LastAccruedPeriod, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Create(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			company_id, employee_id, leave_type_id, period_year, opening_balance,
			accrued, taken, pending, carried_forward, last_accrued_period
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.CompanyID,
		b.EmployeeID,
		b.LeaveTypeID,
		b.PeriodYear,
		b.OpeningBalance,
		b.Accrued,
		b.Taken,
		b.Pending,
		b.CarriedForward,
		b.LastAccruedPeriod,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return b, nil
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND period_year = $3
	`, leaveBalanceColumns)

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return &b, nil
}

// ListByEmployee implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM leave_balances
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY period_year DESC, leave_type_id ASC
	`, leaveBalanceColumns)

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return balances, nil
}

// Update implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Update(ctx context.Context, b leave.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET opening_balance = $1, accrued = $2, taken = $3, pending = $4,
			carried_forward = $5, last_accrued_period = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		b.OpeningBalance, b.Accrued, b.Taken, b.Pending,
		b.CarriedForward, b.LastAccruedPeriod,
		b.ID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	return nil
}
