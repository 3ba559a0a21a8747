package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/stafflane/timecore-backend-go/internal/config"
	"github.com/stafflane/timecore-backend-go/internal/domain/employee"
	"github.com/stafflane/timecore-backend-go/internal/domain/holiday"
	"github.com/stafflane/timecore-backend-go/internal/domain/leave"
	"github.com/stafflane/timecore-backend-go/internal/domain/shift"
	"github.com/stafflane/timecore-backend-go/internal/domain/timerule"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
	"github.com/stafflane/timecore-backend-go/internal/repository/postgresql"
)

const (
	companyCount      = 2
	employeesPerGroup = 25
)

// Seeds a development database with companies, employees, shifts,
// approved time rules, holidays and leave types. Safe to run only
// against an empty database.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	gofakeit.Seed(time.Now().UnixNano())

	ctx := context.Background()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	shiftTypeRepo := postgresql.NewShiftTypeRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	latenessRuleRepo := postgresql.NewLatenessRuleRepository(db)
	overtimeRuleRepo := postgresql.NewOvertimeRuleRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)

	for c := 0; c < companyCount; c++ {
		companyID := uuid.NewString()
		fmt.Printf("Seeding company %s\n", companyID)

		st, err := shiftTypeRepo.Create(ctx, shift.ShiftType{
			CompanyID: companyID,
			Name:      "Regular",
			Active:    true,
		})
		if err != nil {
			log.Fatal("Failed to seed shift type: ", err)
		}

		dayShift, err := shiftRepo.Create(ctx, shift.Shift{
			CompanyID:       companyID,
			ShiftTypeID:     st.ID,
			Name:            "Day Shift",
			PunchPolicy:     shift.PolicyFlexible,
			StartTime:       "09:00",
			EndTime:         "17:00",
			GraceInMinutes:  10,
			GraceOutMinutes: 5,
			Active:          true,
		})
		if err != nil {
			log.Fatal("Failed to seed shift: ", err)
		}

		nightShift, err := shiftRepo.Create(ctx, shift.Shift{
			CompanyID:                companyID,
			ShiftTypeID:              st.ID,
			Name:                     "Night Shift",
			PunchPolicy:              shift.PolicyStrict,
			StartTime:                "22:00",
			EndTime:                  "06:00",
			GraceInMinutes:           10,
			GraceOutMinutes:          10,
			OvertimeApprovalRequired: true,
			Active:                   true,
		})
		if err != nil {
			log.Fatal("Failed to seed shift: ", err)
		}

		seedRules(ctx, companyID, latenessRuleRepo, overtimeRuleRepo)
		seedHolidays(ctx, companyID, holidayRepo)
		seedLeaveTypes(ctx, companyID, leaveTypeRepo)

		shifts := []shift.Shift{dayShift, nightShift}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(8)
		for i := 0; i < employeesPerGroup; i++ {
			i := i
			g.Go(func() error {
				emp, err := employeeRepo.Create(gctx, employee.Employee{
					CompanyID:  companyID,
					FullName:   gofakeit.Name(),
					Email:      gofakeit.Email(),
					NationalID: gofakeit.Numerify("################"),
					HireDate:   gofakeit.DateRange(time.Now().AddDate(-5, 0, 0), time.Now()),
					Status:     employee.StatusActive,
				})
				if err != nil {
					return fmt.Errorf("failed to seed employee: %w", err)
				}

				sh := shifts[i%len(shifts)]
				_, err = assignmentRepo.Create(gctx, shift.ShiftAssignment{
					CompanyID:  companyID,
					EmployeeID: emp.ID,
					TargetType: shift.TargetEmployee,
					TargetID:   emp.ID,
					ShiftID:    sh.ID,
					StartDate:  time.Now().AddDate(0, -3, 0),
					Status:     shift.AssignmentActive,
				})
				if err != nil {
					return fmt.Errorf("failed to seed assignment: %w", err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("Seed completed")
}

func seedRules(
	ctx context.Context,
	companyID string,
	latenessRepo timerule.LatenessRuleRepository,
	overtimeRepo timerule.OvertimeRuleRepository,
) {
	now := time.Now()
	approver := "seed"

	_, err := latenessRepo.Create(ctx, timerule.LatenessRule{
		CompanyID:               companyID,
		Name:                    "Standard lateness",
		GracePeriodMinutes:      5,
		DeductionPerMinute:      2.5,
		RoundingIntervalMinutes: 15,
		RoundingStrategy:        timerule.RoundNearest,
		Active:                  true,
		Status:                  timerule.StatusApproved,
		ApprovedBy:              &approver,
		ApprovedAt:              &now,
	})
	if err != nil {
		log.Fatal("Failed to seed lateness rule: ", err)
	}

	_, err = overtimeRepo.Create(ctx, timerule.OvertimeRule{
		CompanyID:          companyID,
		Name:               "Standard overtime",
		MinOvertimeMinutes: 30,
		RatePerMinute:      1.5,
		Active:             true,
		Status:             timerule.StatusApproved,
		ApprovedBy:         &approver,
		ApprovedAt:         &now,
	})
	if err != nil {
		log.Fatal("Failed to seed overtime rule: ", err)
	}
}

func seedHolidays(ctx context.Context, companyID string, repo holiday.HolidayRepository) {
	year := time.Now().Year()
	days := []struct {
		name  string
		typ   holiday.HolidayType
		month time.Month
		day   int
	}{
		{"New Year's Day", holiday.TypePublic, time.January, 1},
		{"Independence Day", holiday.TypePublic, time.August, 17},
		{"Company Anniversary", holiday.TypeCompany, time.October, 3},
	}

	for _, d := range days {
		date := time.Date(year, d.month, d.day, 0, 0, 0, 0, time.UTC)
		_, err := repo.Create(ctx, holiday.Holiday{
			CompanyID: companyID,
			Type:      d.typ,
			Name:      d.name,
			StartDate: date,
			EndDate:   date,
			Active:    true,
		})
		if err != nil {
			log.Fatal("Failed to seed holiday: ", err)
		}
	}
}

func seedLeaveTypes(ctx context.Context, companyID string, repo leave.LeaveTypeRepository) {
	carryCap := decimal.NewFromInt(6)
	types := []leave.LeaveType{
		{
			CompanyID:         companyID,
			Name:              "Annual Leave",
			AccrualType:       leave.AccrualMonthly,
			AccrualAmount:     decimal.NewFromFloat(1.25),
			CarryForwardCap:   &carryCap,
			RoundingIncrement: decimal.NewFromFloat(0.5),
			Active:            true,
		},
		{
			CompanyID:         companyID,
			Name:              "Study Leave",
			AccrualType:       leave.AccrualYearly,
			AccrualAmount:     decimal.NewFromInt(5),
			RoundingIncrement: decimal.NewFromInt(1),
			Active:            true,
		},
	}

	for _, lt := range types {
		if _, err := repo.Create(ctx, lt); err != nil {
			log.Fatal("Failed to seed leave type: ", err)
		}
	}
}
