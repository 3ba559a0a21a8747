package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/leave"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
)

// AccrualService applies periodic leave accruals and year-end
// carry-forward. All balance arithmetic is decimal so fractional day
// policies (e.g. 1.25 days per month) never drift.
type AccrualService struct {
	leave.LeaveTypeRepository
	balanceRepo  leave.LeaveBalanceRepository
	employeeRepo employee.EmployeeRepository
}

func NewAccrualService(
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AccrualService {
	return &AccrualService{
		LeaveTypeRepository: typeRepo,
		balanceRepo:         balanceRepo,
		employeeRepo:        employeeRepo,
	}
}

func (s *AccrualService) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt := leave.LeaveType{
		CompanyID:         principal.CompanyID,
		Name:              req.Name,
		AccrualType:       leave.AccrualType(req.AccrualType),
		AccrualAmount:     req.AccrualAmount,
		CarryForwardCap:   req.CarryForwardCap,
		RoundingIncrement: req.RoundingIncrement,
		Active:            true,
	}

	created, err := s.LeaveTypeRepository.Create(ctx, lt)
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return mapLeaveType(created), nil
}

func (s *AccrualService) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.LeaveTypeRepository.List(ctx, principal.CompanyID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, mapLeaveType(lt))
	}
	return responses, nil
}

// UpdateLeaveType rewrites the leave type's policy. Existing balances
// are untouched; the new policy takes effect from the next accrual run.
func (s *AccrualService) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt, err := s.LeaveTypeRepository.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt.Name = req.Name
	lt.AccrualType = leave.AccrualType(req.AccrualType)
	lt.AccrualAmount = req.AccrualAmount
	lt.CarryForwardCap = req.CarryForwardCap
	lt.RoundingIncrement = req.RoundingIncrement
	lt.Active = req.Active

	if err := s.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}

	return mapLeaveType(lt), nil
}

func (s *AccrualService) DeleteLeaveType(ctx context.Context, id string) error {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return s.LeaveTypeRepository.Delete(ctx, id, principal.CompanyID)
}

// AccrueLeave adds one period's accrual to an employee's balance. The
// accrual is idempotent per period: a second run for the same period key
// is skipped, not doubled. Skips come back as a non-error result so bulk
// callers can tally them.
func (s *AccrualService) AccrueLeave(ctx context.Context, req leave.AccrueLeaveRequest) (leave.AccrueLeaveResult, error) {
	if err := req.Validate(); err != nil {
		return leave.AccrueLeaveResult{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.AccrueLeaveResult{}, err
	}

	return s.accrue(ctx, principal.CompanyID, req)
}

func (s *AccrualService) accrue(ctx context.Context, companyID string, req leave.AccrueLeaveRequest) (leave.AccrueLeaveResult, error) {
	lt, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID, companyID)
	if err != nil {
		return leave.AccrueLeaveResult{}, err
	}
	if !lt.Active {
		return leave.AccrueLeaveResult{}, leave.ErrLeaveTypeInactive
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return leave.AccrueLeaveResult{}, err
	}
	if emp.Status != employee.StatusActive {
		return leave.AccrueLeaveResult{}, leave.ErrEmployeeIneligible
	}

	asOf := time.Now()
	if req.AsOfDate != nil {
		asOf, err = time.Parse("2006-01-02", *req.AsOfDate)
		if err != nil {
			return leave.AccrueLeaveResult{}, fmt.Errorf("invalid as_of_date: %w", err)
		}
	}

	periodKey := leave.PeriodKey(leave.AccrualType(req.AccrualType), asOf)

	balance, err := s.balanceRepo.GetByEmployeeTypeYear(ctx, req.EmployeeID, req.LeaveTypeID, asOf.Year())
	if err != nil {
		return leave.AccrueLeaveResult{}, fmt.Errorf("failed to load leave balance: %w", err)
	}

	if balance == nil {
		created, err := s.balanceRepo.Create(ctx, leave.LeaveBalance{
			CompanyID:   companyID,
			EmployeeID:  req.EmployeeID,
			LeaveTypeID: req.LeaveTypeID,
			PeriodYear:  asOf.Year(),
		})
		if err != nil {
			return leave.AccrueLeaveResult{}, fmt.Errorf("failed to create leave balance: %w", err)
		}
		balance = &created
	}

	if balance.LastAccruedPeriod != nil && *balance.LastAccruedPeriod == periodKey {
		reason := fmt.Sprintf("accrual for period %s already applied", periodKey)
		return leave.AccrueLeaveResult{Reason: &reason}, nil
	}

	balance.Accrued = balance.Accrued.Add(req.Amount)
	balance.LastAccruedPeriod = &periodKey

	if err := s.balanceRepo.Update(ctx, *balance); err != nil {
		return leave.AccrueLeaveResult{}, fmt.Errorf("failed to update leave balance: %w", err)
	}

	available := balance.Available()
	return leave.AccrueLeaveResult{Success: true, NewBalance: &available}, nil
}

// AccrueLeaveAllEmployees applies one period's accrual to every active
// employee, sequentially so per-employee results stay deterministic.
// Individual failures are recorded and do not stop the batch.
func (s *AccrualService) AccrueLeaveAllEmployees(ctx context.Context, req leave.BulkAccrueRequest) (leave.BulkAccrueResult, error) {
	if err := req.Validate(); err != nil {
		return leave.BulkAccrueResult{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.BulkAccrueResult{}, err
	}

	return s.AccrueForCompany(ctx, principal.CompanyID, req)
}

// AccrueForCompany is the scheduler entrypoint: same batch as
// AccrueLeaveAllEmployees but with the company given explicitly.
func (s *AccrualService) AccrueForCompany(ctx context.Context, companyID string, req leave.BulkAccrueRequest) (leave.BulkAccrueResult, error) {
	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID, req.DepartmentID)
	if err != nil {
		return leave.BulkAccrueResult{}, fmt.Errorf("failed to load active employees: %w", err)
	}

	result := leave.BulkAccrueResult{
		Total:   len(employees),
		Details: make([]leave.BulkAccrueDetail, 0, len(employees)),
	}

	for _, emp := range employees {
		detail := leave.BulkAccrueDetail{EmployeeID: emp.ID}

		res, err := s.accrue(ctx, companyID, leave.AccrueLeaveRequest{
			EmployeeID:  emp.ID,
			LeaveTypeID: req.LeaveTypeID,
			Amount:      req.Amount,
			AccrualType: req.AccrualType,
			AsOfDate:    req.AsOfDate,
		})
		switch {
		case err != nil:
			msg := err.Error()
			detail.Status = leave.ItemFailed
			detail.Error = &msg
			result.Failed++
		case !res.Success:
			detail.Status = leave.ItemSkipped
			detail.Reason = res.Reason
			result.Skipped++
		default:
			detail.Status = leave.ItemSuccessful
			detail.Accrued = &req.Amount
			detail.NewBalance = res.NewBalance
			result.Successful++
		}

		result.Details = append(result.Details, detail)
	}

	slog.Info("Bulk leave accrual finished",
		"company_id", companyID, "leave_type_id", req.LeaveTypeID,
		"total", result.Total, "successful", result.Successful,
		"failed", result.Failed, "skipped", result.Skipped)

	return result, nil
}

func (s *AccrualService) GetBalances(ctx context.Context, employeeID string) ([]leave.BalanceResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByEmployee(ctx, employeeID, principal.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.BalanceResponse{
			EmployeeID:     b.EmployeeID,
			LeaveTypeID:    b.LeaveTypeID,
			PeriodYear:     b.PeriodYear,
			OpeningBalance: b.OpeningBalance,
			Accrued:        b.Accrued,
			Taken:          b.Taken,
			Pending:        b.Pending,
			CarriedForward: b.CarriedForward,
			Available:      b.Available(),
		})
	}
	return responses, nil
}

func mapLeaveType(lt leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:                lt.ID,
		Name:              lt.Name,
		AccrualType:       string(lt.AccrualType),
		AccrualAmount:     lt.AccrualAmount,
		CarryForwardCap:   lt.CarryForwardCap,
		RoundingIncrement: lt.RoundingIncrement,
		Active:            lt.Active,
	}
}

func capCarryForward(v decimal.Decimal, cap *decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if cap != nil && v.GreaterThan(*cap) {
		return *cap
	}
	return v
}
