package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
)

type Service struct {
	employee.EmployeeRepository
}

func NewService(repo employee.EmployeeRepository) *Service {
	return &Service{EmployeeRepository: repo}
}

// RegisterEmployee creates an employee. Email and national ID must be
// unique within the company. The optional kiosk PIN is stored as a
// bcrypt hash, never in clear.
func (s *Service) RegisterEmployee(ctx context.Context, req employee.RegisterEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.EmployeeRepository.GetByEmail(ctx, req.Email, principal.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	existing, err = s.EmployeeRepository.GetByNationalID(ctx, req.NationalID, principal.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check national ID: %w", err)
	}
	if existing != nil {
		return employee.EmployeeResponse{}, employee.ErrNationalIDExists
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("invalid hire_date: %w", err)
	}

	emp := employee.Employee{
		CompanyID:    principal.CompanyID,
		DepartmentID: req.DepartmentID,
		PositionID:   req.PositionID,
		FullName:     req.FullName,
		Email:        req.Email,
		NationalID:   req.NationalID,
		HireDate:     hireDate,
		Status:       employee.StatusActive,
	}

	if req.PunchPIN != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.PunchPIN), bcrypt.DefaultCost)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to hash punch PIN: %w", err)
		}
		hashed := string(hash)
		emp.PunchPINHash = &hashed
	}

	created, err := s.EmployeeRepository.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee registered",
		"employee_id", created.ID, "company_id", principal.CompanyID)

	return mapEmployee(created), nil
}

// SetPunchPIN replaces the employee's kiosk PIN.
func (s *Service) SetPunchPIN(ctx context.Context, employeeID string, pin string) error {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID, principal.CompanyID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash punch PIN: %w", err)
	}
	hashed := string(hash)
	emp.PunchPINHash = &hashed

	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployee(emp), nil
}

func (s *Service) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, int64, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	employees, total, err := s.EmployeeRepository.List(ctx, filter, principal.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployee(emp))
	}
	return responses, total, nil
}

// DeactivateEmployee removes the employee from active rosters without
// deleting the row; history stays queryable.
func (s *Service) DeactivateEmployee(ctx context.Context, id string) error {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, id, principal.CompanyID)
	if err != nil {
		return err
	}

	emp.Status = employee.StatusInactive
	if err := s.EmployeeRepository.Update(ctx, emp); err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	return nil
}

func mapEmployee(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:             e.ID,
		FullName:       e.FullName,
		Email:          e.Email,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		PositionID:     e.PositionID,
		PositionName:   e.PositionName,
		HireDate:       e.HireDate.Format("2006-01-02"),
		Status:         string(e.Status),
	}
}
