package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// Role is the closed set of account roles.
type Role uint8

// Roles
const (
	RoleUnspecified Role = iota // treated as RoleStudent on signup

	RoleStudent
	RoleTeacher
	RoleParent
	RoleAdmin
	RoleSchoolAdmin
)

var (
	ErrInvalidRole = errors.New("invalid role")

	// AllRoles lists every assignable role.
	AllRoles = []Role{RoleStudent, RoleTeacher, RoleParent, RoleAdmin, RoleSchoolAdmin}

	// SignupRoles are the roles a person may pick when signing up on their own.
	SignupRoles = NewRoleSet(RoleStudent, RoleTeacher, RoleParent)

	// SchoolAdmins may manage a school.
	SchoolAdmins = NewRoleSet(RoleAdmin, RoleSchoolAdmin)

	roleNames = map[Role]string{
		RoleStudent:     "STUDENT",
		RoleTeacher:     "TEACHER",
		RoleParent:      "PARENT",
		RoleAdmin:       "ADMIN",
		RoleSchoolAdmin: "SCHOOL_ADMIN",
	}

	roleDisplayNames = map[Role]string{
		RoleStudent:     "Student",
		RoleTeacher:     "Teacher",
		RoleParent:      "Parent",
		RoleAdmin:       "Admin",
		RoleSchoolAdmin: "School Administrator",
	}
)

// ParseRole is case-insensitive; dashes & spaces are read as underscores.
// An empty string yields RoleUnspecified.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return RoleUnspecified, nil
	}
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnspecified, errors.Wrapf(ErrInvalidRole, "parsing %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return ""
}

// Display returns the human friendly name of r.
func (r Role) Display() string { return roleDisplayNames[r] }

func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// OrDefault returns RoleStudent for RoleUnspecified.
func (r Role) OrDefault() Role {
	if r == RoleUnspecified {
		return RoleStudent
	}
	return r
}

func (r Role) MarshalText() ([]byte, error) {
	if r == RoleUnspecified {
		return []byte{}, nil
	}
	if !r.IsValid() {
		return nil, errors.Wrapf(ErrInvalidRole, "marshalling %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// RoleSet is an unordered set of roles. The zero value is empty.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) IsEmpty() bool { return len(s) == 0 }

// Slice returns the members of s in AllRoles order.
func (s RoleSet) Slice() []Role {
	roles := make([]Role, 0, len(s))
	for _, r := range AllRoles {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}
