package discipline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stafflane/timecore-backend-go/internal/domain/attendance"
	"github.com/stafflane/timecore-backend-go/internal/domain/discipline"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/user"
)

const (
	DefaultThresholdCount = 3
	DefaultLookbackDays   = 30

	// companyScanWorkers bounds the cross-company fan-out of the daily
	// scan.
	companyScanWorkers = 4
)

// Monitor raises disciplinary flags for employees who are repeatedly
// late within a rolling lookback window.
type Monitor struct {
	discipline.LatenessFlagRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewMonitor(
	flagRepo discipline.LatenessFlagRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) *Monitor {
	return &Monitor{
		LatenessFlagRepository: flagRepo,
		attendanceRepo:         attendanceRepo,
		employeeRepo:           employeeRepo,
	}
}

// CheckRepeatedLateness counts the employee's late days inside the
// lookback window and raises or refreshes a flag when the count reaches
// the threshold. Holiday-suppressed records never count. The check is
// idempotent: an existing unresolved flag is updated in place.
func (m *Monitor) CheckRepeatedLateness(ctx context.Context, req discipline.CheckLatenessRequest) (discipline.CheckLatenessResult, error) {
	if err := req.Validate(); err != nil {
		return discipline.CheckLatenessResult{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return discipline.CheckLatenessResult{}, err
	}

	return m.check(ctx, principal.CompanyID, req.EmployeeID, req.ThresholdCount, req.LookbackDays)
}

func (m *Monitor) check(ctx context.Context, companyID, employeeID string, threshold, lookbackDays int) (discipline.CheckLatenessResult, error) {
	if threshold <= 0 {
		threshold = DefaultThresholdCount
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	since := time.Now().AddDate(0, 0, -lookbackDays)
	count, err := m.attendanceRepo.CountLateByEmployee(ctx, employeeID, since, companyID)
	if err != nil {
		return discipline.CheckLatenessResult{}, fmt.Errorf("failed to count late records: %w", err)
	}

	result := discipline.CheckLatenessResult{OccurrenceCount: count}
	if count < threshold {
		return result, nil
	}
	result.Flagged = true

	existing, err := m.LatenessFlagRepository.GetUnresolvedByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return discipline.CheckLatenessResult{}, fmt.Errorf("failed to look up existing flag: %w", err)
	}

	reason := fmt.Sprintf("Late %d times in the last %d days", count, lookbackDays)

	if existing != nil {
		existing.OccurrenceCount = count
		existing.LookbackDays = lookbackDays
		existing.Reason = reason
		if err := m.LatenessFlagRepository.Update(ctx, *existing); err != nil {
			return discipline.CheckLatenessResult{}, fmt.Errorf("failed to update disciplinary flag: %w", err)
		}
		return result, nil
	}

	flag := discipline.LatenessFlag{
		CompanyID:       companyID,
		EmployeeID:      employeeID,
		Status:          discipline.FlagPending,
		OccurrenceCount: count,
		LookbackDays:    lookbackDays,
		Reason:          reason,
	}
	if _, err := m.LatenessFlagRepository.Create(ctx, flag); err != nil {
		return discipline.CheckLatenessResult{}, fmt.Errorf("failed to create disciplinary flag: %w", err)
	}

	slog.Info("Repeated lateness flag raised",
		"employee_id", employeeID, "company_id", companyID, "occurrences", count)

	return result, nil
}

// ScanCompany runs the repeated-lateness check for every active employee
// of one company. Employees are checked sequentially so flag writes for
// one employee never race.
func (m *Monitor) ScanCompany(ctx context.Context, companyID string, req discipline.ScanRequest) (discipline.ScanResult, error) {
	employees, err := m.employeeRepo.GetActiveByCompanyID(ctx, companyID, nil)
	if err != nil {
		return discipline.ScanResult{}, fmt.Errorf("failed to load active employees: %w", err)
	}

	var result discipline.ScanResult
	for _, emp := range employees {
		res, err := m.check(ctx, companyID, emp.ID, DefaultThresholdCount, req.Days)
		if err != nil {
			slog.Error("Failed to check employee for repeated lateness",
				"employee_id", emp.ID, "company_id", companyID, "error", err)
			continue
		}
		if res.Flagged {
			result.FlaggedCount++
		}
	}

	return result, nil
}

// ScanAllCompanies fans the scan out across all companies with active
// employees. Intended to be driven by the daily scheduler.
func (m *Monitor) ScanAllCompanies(ctx context.Context, req discipline.ScanRequest) (discipline.ScanResult, error) {
	companyIDs, err := m.employeeRepo.GetCompanyIDs(ctx)
	if err != nil {
		return discipline.ScanResult{}, fmt.Errorf("failed to load company IDs: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(companyScanWorkers)

	results := make([]discipline.ScanResult, len(companyIDs))
	for i, companyID := range companyIDs {
		i, companyID := i, companyID
		g.Go(func() error {
			res, err := m.ScanCompany(gctx, companyID, req)
			if err != nil {
				return fmt.Errorf("scan company %s: %w", companyID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return discipline.ScanResult{}, err
	}

	var total discipline.ScanResult
	for _, r := range results {
		total.FlaggedCount += r.FlaggedCount
	}
	return total, nil
}

// ResolveFlag marks a flag resolved. Resolved flags stay queryable for
// audit but are excluded from the monitor's idempotence lookup.
func (m *Monitor) ResolveFlag(ctx context.Context, req discipline.ResolveFlagRequest) (discipline.FlagResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return discipline.FlagResponse{}, err
	}

	flag, err := m.LatenessFlagRepository.GetByID(ctx, req.ID, principal.CompanyID)
	if err != nil {
		return discipline.FlagResponse{}, err
	}

	if flag.Status == discipline.FlagResolved {
		return discipline.FlagResponse{}, discipline.ErrFlagAlreadyResolved
	}

	now := time.Now()
	flag.Status = discipline.FlagResolved
	flag.ResolvedBy = &principal.UserID
	flag.ResolvedAt = &now
	flag.ResolutionNote = req.Note

	if err := m.LatenessFlagRepository.Update(ctx, flag); err != nil {
		return discipline.FlagResponse{}, fmt.Errorf("failed to resolve disciplinary flag: %w", err)
	}

	return mapFlag(flag), nil
}

func (m *Monitor) ListFlags(ctx context.Context, status *discipline.FlagStatus) ([]discipline.FlagResponse, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	flags, err := m.LatenessFlagRepository.List(ctx, principal.CompanyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplinary flags: %w", err)
	}

	responses := make([]discipline.FlagResponse, 0, len(flags))
	for _, f := range flags {
		responses = append(responses, mapFlag(f))
	}
	return responses, nil
}

func mapFlag(f discipline.LatenessFlag) discipline.FlagResponse {
	return discipline.FlagResponse{
		ID:              f.ID,
		EmployeeID:      f.EmployeeID,
		EmployeeName:    f.EmployeeName,
		Status:          string(f.Status),
		OccurrenceCount: f.OccurrenceCount,
		Reason:          f.Reason,
		CreatedAt:       f.CreatedAt.Format(time.RFC3339),
	}
}
