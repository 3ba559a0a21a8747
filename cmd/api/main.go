package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/stafflane/timecore-backend-go/internal/config"
	appHTTP "github.com/stafflane/timecore-backend-go/internal/handler/http"
	"github.com/stafflane/timecore-backend-go/internal/pkg/cron"
	"github.com/stafflane/timecore-backend-go/internal/pkg/database"
	"github.com/stafflane/timecore-backend-go/internal/pkg/jwt"
	"github.com/stafflane/timecore-backend-go/internal/repository/postgresql"
	attendanceService "github.com/stafflane/timecore-backend-go/internal/service/attendance"
	disciplineService "github.com/stafflane/timecore-backend-go/internal/service/discipline"
	employeeService "github.com/stafflane/timecore-backend-go/internal/service/employee"
	holidayService "github.com/stafflane/timecore-backend-go/internal/service/holiday"
	leaveService "github.com/stafflane/timecore-backend-go/internal/service/leave"
	shiftService "github.com/stafflane/timecore-backend-go/internal/service/shift"
	timeruleService "github.com/stafflane/timecore-backend-go/internal/service/timerule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE: ", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	latenessRuleRepo := postgresql.NewLatenessRuleRepository(db)
	overtimeRuleRepo := postgresql.NewOvertimeRuleRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	shiftTypeRepo := postgresql.NewShiftTypeRepository(db)
	scheduleRuleRepo := postgresql.NewScheduleRuleRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	latenessFlagRepo := postgresql.NewLatenessFlagRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewService(
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		assignmentRepo,
		latenessRuleRepo,
		overtimeRuleRepo,
		holidayRepo,
		location,
	)
	ruleSvc := timeruleService.NewRuleService(latenessRuleRepo, overtimeRuleRepo)
	monitor := disciplineService.NewMonitor(latenessFlagRepo, attendanceRepo, employeeRepo)
	accrualSvc := leaveService.NewAccrualService(leaveTypeRepo, leaveBalanceRepo, employeeRepo)
	shiftSvc := shiftService.NewService(
		db,
		shiftRepo,
		shiftTypeRepo,
		scheduleRuleRepo,
		assignmentRepo,
		employeeRepo,
	)
	holidaySvc := holidayService.NewService(holidayRepo)
	employeeSvc := employeeService.NewService(employeeRepo)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		TimeRule:   appHTTP.NewTimeRuleHandler(ruleSvc),
		Discipline: appHTTP.NewDisciplineHandler(monitor),
		Leave:      appHTTP.NewLeaveHandler(accrualSvc),
		Shift:      appHTTP.NewShiftHandler(shiftSvc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
	}, cfg.App.AllowedOrigins)

	scheduler := cron.NewScheduler()
	jobs := cron.NewTimekeepingJobs(monitor, accrualSvc, assignmentRepo, leaveTypeRepo, employeeRepo)
	jobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
