package auth

// Fixed navigation targets.
const (
	PathHome         = "/"
	PathLogin        = "/login"
	PathSignup       = "/signup"
	PathUnauthorized = "/unauthorized"
	PathDashboard    = "/dashboard"

	AfterSignup = PathLogin
	AfterLogout = PathHome
)

var destinations = map[Role]string{
	RoleStudent:     PathDashboard,
	RoleTeacher:     "/teacher/dashboard",
	RoleParent:      "/parent/dashboard",
	RoleAdmin:       "/admin/dashboard",
	RoleSchoolAdmin: "/school-admin/dashboard",
}

// Destination returns the landing path after a successful login as r.
// Unknown roles land on the generic dashboard.
func Destination(r Role) string {
	if dest, ok := destinations[r]; ok {
		return dest
	}
	return PathDashboard
}
