package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/core/auth"
)

type (
	authAPI struct {
		validate       *validator.Validate
		restoreTimeout time.Duration
	}

	signupRequest struct {
		Email     string    `json:"email"`
		Password  string    `json:"password"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		Role      auth.Role `json:"role" validate:"signuprole"`
	}

	loginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password"`
	}

	sessionResponse struct {
		Ready bool          `json:"ready"`
		State auth.State    `json:"state"`
		User  *auth.Session `json:"user"`
	}

	authResponse struct {
		User     *auth.Session `json:"user,omitempty"`
		Redirect string        `json:"redirect"`
	}
)

func registerAuthAPI(g *echo.Group, validate *validator.Validate, restoreTimeout time.Duration) {
	api := &authAPI{validate: validate, restoreTimeout: restoreTimeout}

	g.GET("/auth/session", api.session)
	g.POST("/auth/signup", api.signup)
	g.POST("/auth/login", api.login)
	g.POST("/auth/logout", api.logout)
}

func (api *authAPI) session(ctx echo.Context) error {
	svc := mustContextAuth(ctx)
	waitRestored(ctx, svc, api.restoreTimeout)

	resp := sessionResponse{Ready: svc.Ready(), State: svc.State()}
	if sess, ok := svc.Current(); ok {
		resp.User = &sess
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *authAPI) signup(ctx echo.Context) error {
	var data signupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := api.validate.Struct(data); err != nil {
		return errors.Wrap(err, "validating data")
	}

	na := auth.NewAccount{
		Email:     data.Email,
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Role:      data.Role,
	}
	if err := na.Validate(api.validate); err != nil {
		return errors.Wrap(err, "validating data")
	}

	sess, err := mustContextAuth(ctx).Signup(ctx.Request().Context(), na)
	if err != nil {
		return errors.Wrap(authHTTPError(err), "signing up")
	}
	return ctx.JSON(http.StatusCreated, authResponse{User: &sess, Redirect: auth.AfterSignup})
}

func (api *authAPI) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := api.validate.Struct(data); err != nil {
		return errors.Wrap(err, "validating data")
	}

	sess, err := mustContextAuth(ctx).Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(authHTTPError(err), "logging in")
	}
	return ctx.JSON(http.StatusOK, authResponse{User: &sess, Redirect: auth.Destination(sess.Role)})
}

func (api *authAPI) logout(ctx echo.Context) error {
	if err := mustContextAuth(ctx).Logout(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, authResponse{Redirect: auth.AfterLogout})
}

// waitRestored restores the stored session of svc, waiting at most timeout.
// The restore outlives the request so that a slow store does not log spurious cancellations.
func waitRestored(ctx echo.Context, svc *auth.Service, timeout time.Duration) {
	reqCtx := ctx.Request().Context()
	pending := svc.Restore(context.WithoutCancel(reqCtx))

	wctx, cancel := context.WithTimeout(reqCtx, timeout)
	defer cancel()
	_ = pending.Wait(wctx) // failed restores are logged by svc and leave it unauthenticated
}
