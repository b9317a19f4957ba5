package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core/auth"
)

const contextAuthKey = "auth"

// sessionMiddleware attaches to the context an auth.Service bound to the session slot of the request's device.
// The stored session is not restored until a handler asks for it.
func (s *Server) sessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := s.devices.deviceID(ctx)
			if err != nil {
				return errors.Wrap(err, "identifying device")
			}
			store := auth.NewDeviceStore(s.deps.KV, id)
			ctx.Set(contextAuthKey, auth.NewService(store, s.deps.Logger, s.deps.AuthOptions))
			return next(ctx)
		}
	}
}

func contextAuth(ctx echo.Context) (*auth.Service, bool) {
	svc, ok := ctx.Get(contextAuthKey).(*auth.Service)
	return svc, ok
}

func mustContextAuth(ctx echo.Context) *auth.Service {
	svc, ok := contextAuth(ctx)
	if !ok {
		panic("echoapi: no auth.Service in context, is sessionMiddleware installed?")
	}
	return svc
}
