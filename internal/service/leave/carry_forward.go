package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/leave"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
)

// RunCarryForward moves unused balance from the closing period year into
// the next one:
//
//	carryForward = min(cap, max(0, round(accrued) - taken - pending))
//
// The accrued total is rounded to the leave type's increment before the
// subtraction. The next year's balance opens with the carried amount.
func (s *AccrualService) RunCarryForward(ctx context.Context, req leave.CarryForwardRequest) (leave.CarryForwardResult, error) {
	if err := req.Validate(); err != nil {
		return leave.CarryForwardResult{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.CarryForwardResult{}, err
	}

	return s.CarryForwardForCompany(ctx, principal.CompanyID, req)
}

// CarryForwardForCompany is the scheduler entrypoint for the year-end
// close, with the company given explicitly.
func (s *AccrualService) CarryForwardForCompany(ctx context.Context, companyID string, req leave.CarryForwardRequest) (leave.CarryForwardResult, error) {
	lt, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID, companyID)
	if err != nil {
		return leave.CarryForwardResult{}, err
	}

	asOf := time.Now()
	if req.AsOfDate != nil {
		asOf, err = time.Parse("2006-01-02", *req.AsOfDate)
		if err != nil {
			return leave.CarryForwardResult{}, fmt.Errorf("invalid as_of_date: %w", err)
		}
	}
	closingYear := asOf.Year()

	var targets []employee.Employee
	if req.EmployeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID, companyID)
		if err != nil {
			return leave.CarryForwardResult{}, err
		}
		targets = []employee.Employee{emp}
	} else {
		targets, err = s.employeeRepo.GetActiveByCompanyID(ctx, companyID, req.DepartmentID)
		if err != nil {
			return leave.CarryForwardResult{}, fmt.Errorf("failed to load active employees: %w", err)
		}
	}

	result := leave.CarryForwardResult{
		Total:   len(targets),
		Details: make([]leave.CarryForwardDetail, 0, len(targets)),
	}

	for _, emp := range targets {
		detail, err := s.carryForwardOne(ctx, companyID, emp.ID, lt, closingYear)
		if err != nil {
			msg := err.Error()
			detail = leave.CarryForwardDetail{
				EmployeeID: emp.ID,
				Status:     leave.ItemFailed,
				Error:      &msg,
			}
			result.Failed++
		} else {
			result.Successful++
		}
		result.Details = append(result.Details, detail)
	}

	slog.Info("Carry-forward finished",
		"company_id", companyID, "leave_type_id", lt.ID, "closing_year", closingYear,
		"total", result.Total, "successful", result.Successful, "failed", result.Failed)

	return result, nil
}

func (s *AccrualService) carryForwardOne(ctx context.Context, companyID, employeeID string, lt leave.LeaveType, closingYear int) (leave.CarryForwardDetail, error) {
	closing, err := s.balanceRepo.GetByEmployeeTypeYear(ctx, employeeID, lt.ID, closingYear)
	if err != nil {
		return leave.CarryForwardDetail{}, fmt.Errorf("failed to load closing balance: %w", err)
	}
	if closing == nil {
		// Nothing accrued this year, nothing to carry.
		return leave.CarryForwardDetail{
			EmployeeID: employeeID,
			Status:     leave.ItemSuccessful,
		}, nil
	}

	accruedRounded := leave.RoundToIncrement(closing.OpeningBalance.Add(closing.Accrued), lt.RoundingIncrement)
	carry := capCarryForward(accruedRounded.Sub(closing.Taken).Sub(closing.Pending), lt.CarryForwardCap)

	next, err := s.balanceRepo.GetByEmployeeTypeYear(ctx, employeeID, lt.ID, closingYear+1)
	if err != nil {
		return leave.CarryForwardDetail{}, fmt.Errorf("failed to load next year balance: %w", err)
	}

	if next == nil {
		_, err = s.balanceRepo.Create(ctx, leave.LeaveBalance{
			CompanyID:      companyID,
			EmployeeID:     employeeID,
			LeaveTypeID:    lt.ID,
			PeriodYear:     closingYear + 1,
			OpeningBalance: carry,
			CarriedForward: carry,
		})
		if err != nil {
			return leave.CarryForwardDetail{}, fmt.Errorf("failed to open next year balance: %w", err)
		}
	} else {
		// Re-running the close replaces the carried amount instead of
		// stacking it.
		next.OpeningBalance = next.OpeningBalance.Sub(next.CarriedForward).Add(carry)
		next.CarriedForward = carry
		if err := s.balanceRepo.Update(ctx, *next); err != nil {
			return leave.CarryForwardDetail{}, fmt.Errorf("failed to update next year balance: %w", err)
		}
	}

	return leave.CarryForwardDetail{
		EmployeeID:     employeeID,
		Status:         leave.ItemSuccessful,
		AccruedRounded: accruedRounded,
		Taken:          closing.Taken,
		Pending:        closing.Pending,
		CarryForward:   carry,
	}, nil
}
