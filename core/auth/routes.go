package auth

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

type (
	// Route is a named view of the front end and who may see it.
	Route struct {
		Name        string
		Pattern     string // `:name` segments match any single path segment
		Requirement Requirement
	}

	// Routes is an ordered route table. Static patterns should come before parametrized ones.
	Routes []Route
)

// DefaultRoutes is the SkillXP route table.
var DefaultRoutes = Routes{
	{Name: "home", Pattern: PathHome, Requirement: Public},
	{Name: "login", Pattern: PathLogin, Requirement: Public},
	{Name: "signup", Pattern: PathSignup, Requirement: Public},
	{Name: "unauthorized", Pattern: PathUnauthorized, Requirement: Public},

	{Name: "dashboard", Pattern: PathDashboard},
	{Name: "classroom", Pattern: "/classroom/:classId"},

	{Name: "student-dashboard", Pattern: "/student/dashboard", Requirement: Require(RoleStudent)},
	{Name: "student-dashboard-legacy", Pattern: "/StudentDashboard", Requirement: Require(RoleStudent)},
	{Name: "student-profile", Pattern: "/student/profile", Requirement: Require(RoleStudent)},
	{Name: "teacher-dashboard", Pattern: "/teacher/dashboard", Requirement: Require(RoleTeacher)},
	{Name: "parent-dashboard", Pattern: "/parent/dashboard", Requirement: Require(RoleParent)},
	{Name: "parent-children", Pattern: "/parent/children", Requirement: Require(RoleParent)},
	{Name: "parent-notifications", Pattern: "/parent/notifications", Requirement: Require(RoleParent)},
	{Name: "parent-progress", Pattern: "/parent/progress", Requirement: Require(RoleParent)},
	{Name: "admin-dashboard", Pattern: "/admin/dashboard", Requirement: Require(RoleAdmin)},
	{Name: "school-admin-dashboard", Pattern: "/school-admin/dashboard", Requirement: Require(RoleSchoolAdmin)},
	{Name: "school-users", Pattern: "/school/users", Requirement: Requirement{Roles: SchoolAdmins}},
	{Name: "wellbeing-analytics", Pattern: "/wellbeing/analytics", Requirement: Requirement{Roles: SchoolAdmins}},
}

// Match resolves path to its route and the values of its `:name` segments.
func (rs Routes) Match(path string) (Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, r := range rs {
		if params, ok := matchSegments(splitPath(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Suggest returns up to n patterns close to path, best first.
func (rs Routes) Suggest(path string, n int) []string {
	patterns := make([]string, 0, len(rs))
	for _, r := range rs {
		patterns = append(patterns, r.Pattern)
	}
	return difflib.GetCloseMatches(normalizePath(path), patterns, n, 0.6)
}

func normalizePath(path string) string {
	return "/" + strings.Join(splitPath(path), "/")
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
