package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/stafflane/timecore-backend-go/internal/domain/user"
	"github.com/stafflane/timecore-backend-go/internal/handler/http/middleware"
	"github.com/stafflane/timecore-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Attendance AttendanceHandler
	TimeRule   TimeRuleHandler
	Discipline DisciplineHandler
	Leave      LeaveHandler
	Shift      ShiftHandler
	Holiday    HolidayHandler
	Employee   EmployeeHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timecore"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Everything requires authentication; token issuance lives in the
		// identity service, not here.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendancePunch)).Post("/clock-in", h.Attendance.ClockIn)
				r.With(middleware.RequirePermission(user.PermissionAttendancePunch)).Post("/clock-out", h.Attendance.ClockOut)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Post("/evaluate", h.Attendance.Evaluate)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/{id}", h.Attendance.Get)
				r.With(middleware.RequirePermission(user.PermissionAttendanceRecompute)).Post("/{id}/apply-rules", h.Attendance.ApplyRules)
			})

			r.Route("/time-rules", func(r chi.Router) {
				r.Route("/lateness", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionTimeRuleManage)).Post("/", h.TimeRule.CreateLatenessRule)
					r.With(middleware.RequirePermission(user.PermissionTimeRuleManage)).Put("/{id}", h.TimeRule.UpdateLatenessRule)
					r.With(middleware.RequirePermission(user.PermissionTimeRuleApprove)).Post("/{id}/approve", h.TimeRule.ApproveLatenessRule)
					r.With(middleware.RequirePermission(user.PermissionTimeRuleApprove)).Post("/{id}/reject", h.TimeRule.RejectLatenessRule)
					r.Get("/", h.TimeRule.ListLatenessRules)
				})
				r.Route("/overtime", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionTimeRuleManage)).Post("/", h.TimeRule.CreateOvertimeRule)
					r.With(middleware.RequirePermission(user.PermissionTimeRuleManage)).Put("/{id}", h.TimeRule.UpdateOvertimeRule)
					r.With(middleware.RequirePermission(user.PermissionTimeRuleApprove)).Post("/{id}/approve", h.TimeRule.ApproveOvertimeRule)
					r.With(middleware.RequirePermission(user.PermissionTimeRuleApprove)).Post("/{id}/reject", h.TimeRule.RejectOvertimeRule)
					r.Get("/", h.TimeRule.ListOvertimeRules)
				})
			})

			r.Route("/discipline", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDisciplineView))
				r.Post("/check", h.Discipline.Check)
				r.With(middleware.RequireManager).Post("/scan", h.Discipline.Scan)
				r.Get("/flags", h.Discipline.ListFlags)
				r.With(middleware.RequirePermission(user.PermissionDisciplineResolve)).Post("/flags/{id}/resolve", h.Discipline.Resolve)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveManageTypes)).Post("/", h.Leave.CreateLeaveType)
					r.With(middleware.RequirePermission(user.PermissionLeaveManageTypes)).Put("/{id}", h.Leave.UpdateLeaveType)
					r.With(middleware.RequirePermission(user.PermissionLeaveManageTypes)).Delete("/{id}", h.Leave.DeleteLeaveType)
					r.Get("/", h.Leave.ListLeaveTypes)
				})
				r.With(middleware.RequirePermission(user.PermissionLeaveAccrue)).Post("/accrue", h.Leave.Accrue)
				r.With(middleware.RequirePermission(user.PermissionLeaveAccrue)).Post("/accrue/bulk", h.Leave.BulkAccrue)
				r.With(middleware.RequirePermission(user.PermissionLeaveAccrue)).Post("/carry-forward", h.Leave.CarryForward)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/balances/{employeeID}", h.Leave.GetBalances)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionShiftManage)).Post("/", h.Shift.CreateShift)
				r.With(middleware.RequirePermission(user.PermissionShiftManage)).Put("/{id}", h.Shift.UpdateShift)
				r.With(middleware.RequirePermission(user.PermissionShiftManage)).Delete("/{id}", h.Shift.DeleteShift)
				r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/", h.Shift.ListShifts)

				r.Route("/types", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionShiftManage)).Post("/", h.Shift.CreateShiftType)
					r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/", h.Shift.ListShiftTypes)
				})

				r.Route("/schedule-rules", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionShiftManage)).Post("/", h.Shift.CreateScheduleRule)
					r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/", h.Shift.ListScheduleRules)
				})

				r.Route("/assignments", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionShiftAssign)).Post("/", h.Shift.Assign)
					r.With(middleware.RequirePermission(user.PermissionShiftAssign)).Post("/{id}/renew", h.Shift.Renew)
					r.With(middleware.RequirePermission(user.PermissionShiftAssign)).Post("/{id}/cancel", h.Shift.Cancel)
					r.With(middleware.RequirePermission(user.PermissionShiftAssign)).Post("/{id}/postpone", h.Shift.Postpone)
					r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/employee/{employeeID}", h.Shift.ListAssignments)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.List)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
					r.Post("/", h.Holiday.Create)
					r.Put("/{id}", h.Holiday.Update)
					r.Delete("/{id}", h.Holiday.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/", h.Employee.List)
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).Get("/{id}", h.Employee.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.Register)
					r.Put("/{id}/punch-pin", h.Employee.SetPunchPIN)
					r.With(middleware.RequireOwner).Post("/{id}/deactivate", h.Employee.Deactivate)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}
