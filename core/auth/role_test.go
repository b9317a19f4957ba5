package auth

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "", want: RoleUnspecified},
		{in: "STUDENT", want: RoleStudent},
		{in: "teacher", want: RoleTeacher},
		{in: " Parent ", want: RoleParent},
		{in: "ADMIN", want: RoleAdmin},
		{in: "SCHOOL_ADMIN", want: RoleSchoolAdmin},
		{in: "school-admin", want: RoleSchoolAdmin},
		{in: "school admin", want: RoleSchoolAdmin},
		{in: "PRINCIPAL", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Equal(t, ErrInvalidRole, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleSchoolAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"SCHOOL_ADMIN"}`, string(data))

	var got struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"parent"}`), &got))
	assert.Equal(t, RoleParent, got.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"KING"}`), &got))

	_, err = json.Marshal(struct{ Role Role }{Role(42)})
	assert.Error(t, err)
}

func TestRole_Display(t *testing.T) {
	assert.Equal(t, "School Administrator", RoleSchoolAdmin.Display())
	assert.Equal(t, "Student", RoleStudent.Display())
	assert.Equal(t, RoleStudent, RoleUnspecified.OrDefault())
	assert.Equal(t, RoleParent, RoleParent.OrDefault())
}

func TestRoleSets(t *testing.T) {
	assert.True(t, SchoolAdmins.Has(RoleAdmin))
	assert.True(t, SchoolAdmins.Has(RoleSchoolAdmin))
	assert.False(t, SchoolAdmins.Has(RoleTeacher))
	assert.Equal(t, []Role{RoleStudent, RoleTeacher, RoleParent}, SignupRoles.Slice())
}

func TestDestination(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleStudent, "/dashboard"},
		{RoleTeacher, "/teacher/dashboard"},
		{RoleParent, "/parent/dashboard"},
		{RoleAdmin, "/admin/dashboard"},
		{RoleSchoolAdmin, "/school-admin/dashboard"},
		{RoleUnspecified, "/dashboard"},
		{Role(99), "/dashboard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Destination(tt.role), tt.role.String())
	}
	assert.Equal(t, "/login", AfterSignup)
	assert.Equal(t, "/", AfterLogout)
}
