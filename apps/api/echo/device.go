package echoapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core"
)

const defaultDeviceCookie = "skillxp_device"

var errInvalidDevice = errors.New("invalid device token")

// deviceIssuer binds each browser to its own session slot through a signed cookie.
// The cookie only carries the device ID; the session itself stays in the KV store.
type deviceIssuer struct {
	key    []byte
	issuer string
	cookie string
	secure bool
}

func newDeviceIssuer(conf *core.Config) *deviceIssuer {
	cookie := conf.Auth.DeviceCookie
	if cookie == "" {
		cookie = defaultDeviceCookie
	}
	return &deviceIssuer{
		key:    []byte(conf.SecretKey),
		issuer: conf.AppName,
		cookie: cookie,
		secure: !(conf.Debug || conf.TestMode),
	}
}

func (d *deviceIssuer) sign(deviceID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   d.issuer,
		Subject:  deviceID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.key)
	return ss, errors.Wrap(err, "signing device token")
}

func (d *deviceIssuer) parse(token string) (string, error) {
	claims := new(jwt.RegisteredClaims)
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (interface{}, error) { return d.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(d.issuer),
	)
	if err != nil {
		return "", errors.Wrap(err, "parsing device token")
	}
	if _, err = uuid.Parse(claims.Subject); err != nil {
		return "", errInvalidDevice
	}
	return claims.Subject, nil
}

// deviceID returns the device of the request, issuing a new one when the cookie is missing or invalid.
func (d *deviceIssuer) deviceID(ctx echo.Context) (string, error) {
	if c, err := ctx.Cookie(d.cookie); err == nil {
		if id, err := d.parse(c.Value); err == nil {
			return id, nil
		}
	}

	id := uuid.NewString()
	token, err := d.sign(id)
	if err != nil {
		return "", err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     d.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   d.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}
