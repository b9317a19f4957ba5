package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/skillxp/core/auth"
)

var signupsMu sync.Mutex

func recordSignup(_ context.Context, sess auth.Session) error {
	signupsMu.Lock()
	defer signupsMu.Unlock()
	signups = append(signups, sess)
	return nil
}

func recordedSignups() []auth.Session {
	signupsMu.Lock()
	defer signupsMu.Unlock()
	return append([]auth.Session(nil), signups...)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	device   *http.Cookie
	wantCode int
	wantData []byte
	extra    interface{}
}

func newDeviceRequest(method, path string, device *http.Cookie, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if device != nil {
		req.AddCookie(device)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newDeviceRequest(method, path, nil, data...)
}

// serve runs tt against the app & returns the recorder.
func serve(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newDeviceRequest(tt.method, tt.path, tt.device, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func deviceCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == conf.Auth.DeviceCookie {
			return c
		}
	}
	return nil
}

// newDevice returns the cookie of a fresh device, as issued on its first request.
func newDevice(t *testing.T) *http.Cookie {
	req, rec := newRequest(http.MethodGet, "/v1/auth/session")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	c := deviceCookie(rec)
	require.NotNil(t, c, "no device cookie issued")
	return c
}

// signup registers an account from a new device & returns that device, signed in.
func signup(t *testing.T, email, pwd string, role auth.Role) *http.Cookie {
	device := newDevice(t)
	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/v1/auth/signup",
		body: marchallObj(t, map[string]interface{}{
			"email":      email,
			"password":   pwd,
			"first_name": "Test",
			"last_name":  "User",
			"role":       role,
		}),
		device: device,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return device
}

// staff registers an account the public signup refuses, as the admin CLI does,
// & returns a new device signed in to it.
func staff(t *testing.T, email, pwd string, role auth.Role) *http.Cookie {
	opts, err := auth.NewOptions(conf.Auth)
	require.NoError(t, err)
	svc := auth.NewService(auth.NewDeviceStore(kv, "admin-cli"), logs, opts)
	_, err = svc.Signup(context.Background(), auth.NewAccount{Email: email, Password: pwd, Role: role})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background()))

	device := newDevice(t)
	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/v1/auth/login",
		body:   marchallObj(t, map[string]string{"email": email, "password": pwd}),
		device: device,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return device
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshalBody() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
