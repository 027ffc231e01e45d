package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionApplicantsRead allows viewing applicant lists and details.
	PermissionApplicantsRead Permission = "applicants:read"

	// PermissionApplicantsWrite allows creating applicants and moving them
	// through the pipeline (verify, course assignment).
	PermissionApplicantsWrite Permission = "applicants:write"

	// PermissionSchedulesRead allows viewing schedules and rosters.
	PermissionSchedulesRead Permission = "schedules:read"

	// PermissionSchedulesWrite allows creating, editing, and deleting schedules.
	PermissionSchedulesWrite Permission = "schedules:write"

	// PermissionAssignmentsWrite allows assigning people to schedules and
	// transitioning assignments (complete/cancel).
	PermissionAssignmentsWrite Permission = "assignments:write"

	// PermissionRosterImport allows bulk score/outcome uploads.
	PermissionRosterImport Permission = "roster:import"

	// PermissionRosterExport allows downloading schedule rosters.
	PermissionRosterExport Permission = "roster:export"

	// PermissionCoursesRead allows viewing courses.
	PermissionCoursesRead Permission = "courses:read"

	// PermissionCoursesWrite allows creating and updating courses.
	PermissionCoursesWrite Permission = "courses:write"

	// PermissionVenuesRead allows viewing venues.
	PermissionVenuesRead Permission = "venues:read"

	// PermissionVenuesWrite allows creating and updating venues.
	PermissionVenuesWrite Permission = "venues:write"

	// PermissionAdminsRead allows viewing admin user lists and details.
	PermissionAdminsRead Permission = "admins:read"

	// PermissionAdminsWrite allows creating, updating, and deleting admin users.
	PermissionAdminsWrite Permission = "admins:write"

	// PermissionRolesRead allows viewing admin roles and permissions.
	PermissionRolesRead Permission = "roles:read"

	// PermissionRolesWrite allows creating, updating, and deleting admin roles.
	PermissionRolesWrite Permission = "roles:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionApplicantsRead,
	PermissionApplicantsWrite,
	PermissionSchedulesRead,
	PermissionSchedulesWrite,
	PermissionAssignmentsWrite,
	PermissionRosterImport,
	PermissionRosterExport,
	PermissionCoursesRead,
	PermissionCoursesWrite,
	PermissionVenuesRead,
	PermissionVenuesWrite,
	PermissionAdminsRead,
	PermissionAdminsWrite,
	PermissionRolesRead,
	PermissionRolesWrite,
}
