package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, company_id, department_id, position_id, full_name, email,
	national_id, hire_date, status, punch_pin_hash, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.DepartmentID, &e.PositionID, &e.FullName, &e.Email,
		&e.NationalID, &e.HireDate, &e.Status, &e.PunchPINHash, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			company_id, department_id, position_id, full_name, email,
			national_id, hire_date, status, punch_pin_hash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.CompanyID,
		emp.DepartmentID,
		emp.PositionID,
		emp.FullName,
		emp.Email,
		emp.NationalID,
		emp.HireDate,
		emp.Status,
		emp.PunchPINHash,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)

	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE id = $1 AND company_id = $2
	`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string, companyID string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE LOWER(email) = LOWER($1) AND company_id = $2
		LIMIT 1
	`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, email, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return &emp, nil
}

// GetByNationalID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByNationalID(ctx context.Context, nationalID string, companyID string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE national_id = $1 AND company_id = $2
		LIMIT 1
	`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, nationalID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee by national ID: %w", err)
	}

	return &emp, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string, departmentID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE company_id = $1 AND status = 'active'
	`, employeeColumns)
	args := []interface{}{companyID}

	if departmentID != nil && *departmentID != "" {
		query += " AND department_id = $2"
		args = append(args, *departmentID)
	}
	query += " ORDER BY full_name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// GetEmployeeIDsByPosition implements employee.EmployeeRepository.
func (r *employeeRepository) GetEmployeeIDsByPosition(ctx context.Context, positionID string, companyID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id FROM employees
		WHERE position_id = $1 AND company_id = $2 AND status = 'active'
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query, positionID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by position: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

// GetEmployeeIDsByDepartment implements employee.EmployeeRepository.
func (r *employeeRepository) GetEmployeeIDsByDepartment(ctx context.Context, departmentID string, companyID string, excludedPositionIDs []string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id FROM employees
		WHERE department_id = $1 AND company_id = $2 AND status = 'active'
	`
	args := []interface{}{departmentID, companyID}

	if len(excludedPositionIDs) > 0 {
		query += " AND (position_id IS NULL OR position_id != ALL($3))"
		args = append(args, excludedPositionIDs)
	}
	query += " ORDER BY full_name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by department: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter, companyID string) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"e.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.PositionID != nil && *filter.PositionID != "" {
		conditions = append(conditions, fmt.Sprintf("e.position_id = $%d", argIdx))
		args = append(args, *filter.PositionID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees e WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT
			e.id, e.company_id, e.department_id, e.position_id, e.full_name, e.email,
			e.national_id, e.hire_date, e.status, e.punch_pin_hash, e.created_at, e.updated_at,
			d.name AS department_name,
			p.name AS position_name
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		LEFT JOIN positions p ON e.position_id = p.id
		WHERE %s
		ORDER BY e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		err := rows.Scan(
			&e.ID, &e.CompanyID, &e.DepartmentID, &e.PositionID, &e.FullName, &e.Email,
			&e.NationalID, &e.HireDate, &e.Status, &e.PunchPINHash, &e.CreatedAt, &e.UpdatedAt,
			&e.DepartmentName, &e.PositionName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET department_id = $1, position_id = $2, full_name = $3, email = $4,
			national_id = $5, hire_date = $6, status = $7, punch_pin_hash = $8,
			updated_at = NOW()
		WHERE id = $9 AND company_id = $10
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		emp.DepartmentID,
		emp.PositionID,
		emp.FullName,
		emp.Email,
		emp.NationalID,
		emp.HireDate,
		emp.Status,
		emp.PunchPINHash,
		emp.ID,
		emp.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

// GetCompanyIDs implements employee.EmployeeRepository.
func (r *employeeRepository) GetCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT company_id FROM employees
		WHERE status = 'active'
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list company IDs: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
