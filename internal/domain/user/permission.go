package user

type Permission string

const (
	// Attendance & time rules
	PermissionAttendanceViewOwn   Permission = "attendance.view_own"
	PermissionAttendancePunch     Permission = "attendance.punch"
	PermissionAttendanceViewAll   Permission = "attendance.view_all"
	PermissionAttendanceRecompute Permission = "attendance.recompute"
	PermissionTimeRuleManage      Permission = "timerule.manage"
	PermissionTimeRuleApprove     Permission = "timerule.approve"

	// Discipline
	PermissionDisciplineView    Permission = "discipline.view"
	PermissionDisciplineResolve Permission = "discipline.resolve"

	// Leave
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveManageTypes Permission = "leave.manage_types"
	PermissionLeaveAccrue      Permission = "leave.accrue"

	// Shifts & schedules
	PermissionShiftView   Permission = "shift.view"
	PermissionShiftManage Permission = "shift.manage"
	PermissionShiftAssign Permission = "shift.assign"

	// Holidays
	PermissionHolidayManage Permission = "holiday.manage"

	// Employees
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendancePunch,
		PermissionAttendanceViewAll,
		PermissionAttendanceRecompute,
		PermissionTimeRuleManage,
		PermissionTimeRuleApprove,
		PermissionDisciplineView,
		PermissionDisciplineResolve,
		PermissionLeaveViewOwn,
		PermissionLeaveManageTypes,
		PermissionLeaveAccrue,
		PermissionShiftView,
		PermissionShiftManage,
		PermissionShiftAssign,
		PermissionHolidayManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
	},
	RoleManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendancePunch,
		PermissionAttendanceViewAll,
		PermissionAttendanceRecompute,
		PermissionTimeRuleManage,
		PermissionDisciplineView,
		PermissionDisciplineResolve,
		PermissionLeaveViewOwn,
		PermissionLeaveAccrue,
		PermissionShiftView,
		PermissionShiftAssign,
		PermissionEmployeeViewAll,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendancePunch,
		PermissionLeaveViewOwn,
		PermissionShiftView,
	},
}

// HasPermission checks if a role grants a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyRole checks a principal's role against a required role set.
func HasAnyRole(role Role, required []Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
