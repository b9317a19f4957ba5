package auth

// Decision is the outcome of guarding a navigation.
type Decision uint8

const (
	Loading Decision = iota
	Render
	RedirectToLogin
	RedirectToUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToUnauthorized:
		return "redirect_to_unauthorized"
	default:
		return "unknown"
	}
}

// Redirect returns the target path of a redirect decision, or "".
func (d Decision) Redirect() string {
	switch d {
	case RedirectToLogin:
		return PathLogin
	case RedirectToUnauthorized:
		return PathUnauthorized
	default:
		return ""
	}
}

// Requirement is the set of roles allowed to view a route.
// An empty Requirement admits every authenticated role.
type Requirement struct {
	Public bool // no session needed at all
	Roles  RoleSet
}

// Require returns the Requirement satisfied by any one of roles.
func Require(roles ...Role) Requirement {
	return Requirement{Roles: NewRoleSet(roles...)}
}

var Public = Requirement{Public: true}

// Decide is the route guard. Until ready is true it only ever returns Loading.
// Public routes need not be guarded at all; callers may render them without asking.
func Decide(sess *Session, ready bool, req Requirement) Decision {
	if !ready {
		return Loading
	}
	if req.Public {
		return Render
	}
	if sess == nil {
		return RedirectToLogin
	}
	if !req.Roles.IsEmpty() && !req.Roles.Has(sess.Role) {
		return RedirectToUnauthorized
	}
	return Render
}
