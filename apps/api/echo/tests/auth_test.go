package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/skillxp/core/auth"
)

type sessionData struct {
	Ready bool          `json:"ready"`
	State string        `json:"state"`
	User  *auth.Session `json:"user"`
}

type authData struct {
	User     *auth.Session `json:"user"`
	Redirect string        `json:"redirect"`
}

func currentSession(t *testing.T, device *http.Cookie) sessionData {
	rec := serve(httpTest{method: http.MethodGet, path: "/v1/auth/session", device: device})
	require.Equal(t, http.StatusOK, rec.Code)
	var data sessionData
	unmarshalBody(t, rec, &data)
	return data
}

func TestSession_newDevice(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/v1/auth/session")
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"ready": true, "state": "unauthenticated", "user": null}`),
	}, rec)

	c := deviceCookie(rec)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
}

func TestSession_invalidDevice(t *testing.T) {
	device := signup(t, "forged@skillxp.test", "pwd", auth.RoleStudent)
	forged := &http.Cookie{Name: device.Name, Value: device.Value + "x"}

	rec := serve(httpTest{method: http.MethodGet, path: "/v1/auth/session", device: forged})
	assert.Equal(t, http.StatusOK, rec.Code)
	var data sessionData
	unmarshalBody(t, rec, &data)
	assert.Equal(t, "unauthenticated", data.State)

	reissued := deviceCookie(rec)
	require.NotNil(t, reissued, "a new device should be issued")
	assert.NotEqual(t, device.Value, reissued.Value)
}

func TestSignup(t *testing.T) {
	device := newDevice(t)
	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/v1/auth/signup",
		body: marchallObj(t, map[string]string{
			"email":      "  Amina@SkillXP.test ",
			"password":   "secret",
			"first_name": "Amina",
			"last_name":  "Diallo",
			"role":       "TEACHER",
		}),
		device: device,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data authData
	unmarshalBody(t, rec, &data)
	assert.Equal(t, auth.AfterSignup, data.Redirect)
	require.NotNil(t, data.User)
	assert.NotEmpty(t, data.User.ID)
	assert.Equal(t, "amina@skillxp.test", data.User.Email)
	assert.Equal(t, auth.RoleTeacher, data.User.Role)
	assert.NotContains(t, rec.Body.String(), "secret")

	sess := currentSession(t, device)
	assert.Equal(t, "authenticated", sess.State)
	assert.Equal(t, data.User, sess.User)

	var notified bool
	for _, s := range recordedSignups() {
		if s.ID == data.User.ID {
			notified = true
		}
	}
	assert.True(t, notified, "signup notifier not called")
}

func TestSignup_defaultRole(t *testing.T) {
	device := newDevice(t)
	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/v1/auth/signup",
		body:   []byte(`{"email": "norole@skillxp.test", "password": "pwd"}`),
		device: device,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data authData
	unmarshalBody(t, rec, &data)
	require.NotNil(t, data.User)
	assert.Equal(t, auth.RoleStudent, data.User.Role)
}

func TestSignup_errors(t *testing.T) {
	_ = signup(t, "taken@skillxp.test", "pwd", auth.RoleStudent)

	tests := []httpTest{
		{
			name:     "duplicate email",
			body:     []byte(`{"email": "TAKEN@skillxp.test", "password": "other"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: auth.ErrDuplicateAccount.Error()}),
		},
		{
			name:     "missing email",
			body:     []byte(`{"email": "   ", "password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error": {"email": "this field is required"}}`),
		},
		{
			name:     "role not offered at signup",
			body:     []byte(`{"email": "boss@skillxp.test", "password": "pwd", "role": "ADMIN"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error": {"role": "this role cannot be picked at signup"}}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path, tt.device = http.MethodPost, "/v1/auth/signup", newDevice(t)
			rec := serve(tt)
			checkCodeAndData(t, tt, rec)
			assert.Equal(t, "unauthenticated", currentSession(t, tt.device).State)
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		rec := serve(httpTest{
			method: http.MethodPost,
			path:   "/v1/auth/signup",
			body:   []byte(`{"email": "wizard@skillxp.test", "password": "pwd", "role": "WIZARD"}`),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	_ = signup(t, "teacher@skillxp.test", "pwd", auth.RoleTeacher)
	_ = signup(t, "parent@skillxp.test", "pwd", auth.RoleParent)

	tests := []httpTest{
		{
			name:     "unknown email",
			body:     []byte(`{"email": "nobody@skillxp.test", "password": "pwd"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: auth.ErrAccountNotFound.Error()}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "teacher@skillxp.test", "password": "nope"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: auth.ErrInvalidCredentials.Error()}),
		},
		{
			name:     "missing email",
			body:     []byte(`{"password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error": {"email": "this field is required"}}`),
		},
		{
			name:     "teacher",
			body:     []byte(`{"email": "Teacher@skillxp.test", "password": "pwd"}`),
			wantCode: http.StatusOK,
			extra:    "/teacher/dashboard",
		},
		{
			name:     "parent",
			body:     []byte(`{"email": "parent@skillxp.test", "password": "pwd"}`),
			wantCode: http.StatusOK,
			extra:    "/parent/dashboard",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path, tt.device = http.MethodPost, "/v1/auth/login", newDevice(t)
			rec := serve(tt)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				assert.Equal(t, "unauthenticated", currentSession(t, tt.device).State)
				return
			}

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			var data authData
			unmarshalBody(t, rec, &data)
			assert.Equal(t, tt.extra, data.Redirect)

			sess := currentSession(t, tt.device)
			assert.Equal(t, "authenticated", sess.State)
			assert.Equal(t, data.User, sess.User)
		})
	}
}

func TestLogout(t *testing.T) {
	device := signup(t, "leaving@skillxp.test", "pwd", auth.RoleStudent)

	rec := serve(httpTest{method: http.MethodPost, path: "/v1/auth/logout", device: device})
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"redirect": "/"}`),
	}, rec)

	assert.Equal(t, "unauthenticated", currentSession(t, device).State)

	// logging out twice is fine
	rec = serve(httpTest{method: http.MethodPost, path: "/v1/auth/logout", device: device})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDevices_areIsolated(t *testing.T) {
	deviceA := signup(t, "multi@skillxp.test", "pwd", auth.RoleParent)
	deviceB := newDevice(t)

	assert.Equal(t, "authenticated", currentSession(t, deviceA).State)
	assert.Equal(t, "unauthenticated", currentSession(t, deviceB).State)

	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/v1/auth/login",
		body:   []byte(`{"email": "multi@skillxp.test", "password": "pwd"}`),
		device: deviceB,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(httpTest{method: http.MethodPost, path: "/v1/auth/logout", device: deviceA})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "unauthenticated", currentSession(t, deviceA).State)
	assert.Equal(t, "authenticated", currentSession(t, deviceB).State)
}
