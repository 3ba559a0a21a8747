package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/domain/discipline"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/leave"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	disciplinesvc "github.com/stafflane/timecore-backend-go/internal/service/discipline"
	leavesvc "github.com/stafflane/timecore-backend-go/internal/service/leave"
)

type TimekeepingJobs struct {
	monitor        *disciplinesvc.Monitor
	accrualService *leavesvc.AccrualService
	assignmentRepo shift.ShiftAssignmentRepository
	leaveTypeRepo  leave.LeaveTypeRepository
	employeeRepo   employee.EmployeeRepository
}

func NewTimekeepingJobs(
	monitor *disciplinesvc.Monitor,
	accrualService *leavesvc.AccrualService,
	assignmentRepo shift.ShiftAssignmentRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	employeeRepo employee.EmployeeRepository,
) *TimekeepingJobs {
	return &TimekeepingJobs{
		monitor:        monitor,
		accrualService: accrualService,
		assignmentRepo: assignmentRepo,
		leaveTypeRepo:  leaveTypeRepo,
		employeeRepo:   employeeRepo,
	}
}

func (j *TimekeepingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("activate_postponed_assignments", 1*time.Hour, j.ActivatePostponedAssignments)
	scheduler.AddJob("expire_ended_assignments", 1*time.Hour, j.ExpireEndedAssignments)
	scheduler.AddJob("repeated_lateness_scan", 1*time.Hour, j.RepeatedLatenessScan)
	scheduler.AddJob("periodic_leave_accrual", 1*time.Hour, j.PeriodicLeaveAccrual)
}

// ActivatePostponedAssignments returns postponed shift assignments whose
// new start date has arrived to the active state.
func (j *TimekeepingJobs) ActivatePostponedAssignments(ctx context.Context) error {
	count, err := j.assignmentRepo.ActivatePostponed(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to activate postponed assignments: %w", err)
	}

	if count > 0 {
		slog.Info("Cron: Activated postponed shift assignments", "count", count)
	}
	return nil
}

// ExpireEndedAssignments marks active shift assignments whose end date
// has passed as expired so punch evaluation stops resolving them.
func (j *TimekeepingJobs) ExpireEndedAssignments(ctx context.Context) error {
	count, err := j.assignmentRepo.ExpireEnded(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to expire assignments: %w", err)
	}

	if count > 0 {
		slog.Info("Cron: Expired ended shift assignments", "count", count)
	}
	return nil
}

// RepeatedLatenessScan runs the discipline monitor across every company.
func (j *TimekeepingJobs) RepeatedLatenessScan(ctx context.Context) error {
	// Only run at 01:00-01:59 UTC
	if time.Now().UTC().Hour() != 1 {
		return nil
	}

	slog.Info("Cron: Starting repeated lateness scan")

	result, err := j.monitor.ScanAllCompanies(ctx, discipline.ScanRequest{})
	if err != nil {
		return fmt.Errorf("lateness scan failed: %w", err)
	}

	slog.Info("Cron: Repeated lateness scan completed", "flagged_count", result.FlaggedCount)
	return nil
}

// PeriodicLeaveAccrual applies scheduled accruals: monthly types on the
// first of each month, yearly types on January 1st and per-term types on
// January 1st and July 1st. The accrual engine's period key makes reruns
// within the same period no-ops.
func (j *TimekeepingJobs) PeriodicLeaveAccrual(ctx context.Context) error {
	now := time.Now().UTC()

	// Only run at 02:00-02:59 UTC on accrual boundary days
	if now.Hour() != 2 || now.Day() != 1 {
		return nil
	}

	companyIDs, err := j.employeeRepo.GetCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load company IDs: %w", err)
	}

	for _, companyID := range companyIDs {
		types, err := j.leaveTypeRepo.List(ctx, companyID, true)
		if err != nil {
			slog.Error("Cron: Failed to load leave types", "company_id", companyID, "error", err)
			continue
		}

		for _, lt := range types {
			if !accrualDue(lt.AccrualType, now) {
				continue
			}

			result, err := j.accrualService.AccrueForCompany(ctx, companyID, leave.BulkAccrueRequest{
				LeaveTypeID: lt.ID,
				Amount:      lt.AccrualAmount,
				AccrualType: string(lt.AccrualType),
			})
			if err != nil {
				slog.Error("Cron: Leave accrual failed",
					"company_id", companyID,
					"leave_type_id", lt.ID,
					"error", err)
				continue
			}

			slog.Info("Cron: Leave accrual completed",
				"company_id", companyID,
				"leave_type", lt.Name,
				"successful", result.Successful,
				"skipped", result.Skipped,
				"failed", result.Failed)
		}
	}

	return nil
}

func accrualDue(accrualType leave.AccrualType, now time.Time) bool {
	switch accrualType {
	case leave.AccrualMonthly:
		return true
	case leave.AccrualYearly:
		return now.Month() == time.January
	case leave.AccrualPerTerm:
		return now.Month() == time.January || now.Month() == time.July
	default:
		return false
	}
}
