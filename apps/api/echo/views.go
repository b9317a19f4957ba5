package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/skillxp/core/auth"
)

const retryAfter = time.Second

type (
	viewResponse struct {
		View   string            `json:"view"`
		Path   string            `json:"path"`
		Params map[string]string `json:"params,omitempty"`
		User   *auth.Session     `json:"user,omitempty"`
	}

	loadingResponse struct {
		Status string `json:"status"`
	}

	notFoundResponse struct {
		Error       string   `json:"error"`
		Suggestions []string `json:"suggestions,omitempty"`
	}
)

// registerViews serves every route of the table behind the route guard.
func registerViews(e *echo.Echo, routes auth.Routes, restoreTimeout time.Duration, mw ...echo.MiddlewareFunc) {
	for _, route := range routes {
		e.GET(route.Pattern, viewHandler(route, restoreTimeout), mw...)
	}
	e.RouteNotFound("/*", notFoundHandler(routes))
}

func viewHandler(route auth.Route, restoreTimeout time.Duration) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		svc := mustContextAuth(ctx)

		// public routes are not guarded: they render without waiting for the restore
		decision := auth.Render
		if !route.Requirement.Public {
			waitRestored(ctx, svc, restoreTimeout)
			decision = svc.Check(route.Requirement)
		}

		switch decision {
		case auth.Loading:
			ctx.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			return ctx.JSON(http.StatusAccepted, loadingResponse{Status: decision.String()})
		case auth.RedirectToLogin, auth.RedirectToUnauthorized:
			return ctx.Redirect(http.StatusSeeOther, decision.Redirect())
		default:
			resp := viewResponse{View: route.Name, Path: ctx.Request().URL.Path}
			if len(ctx.ParamNames()) > 0 {
				resp.Params = make(map[string]string, len(ctx.ParamNames()))
				for _, name := range ctx.ParamNames() {
					resp.Params[name] = ctx.Param(name)
				}
			}
			if sess, ok := svc.Current(); ok {
				resp.User = &sess
			}
			return ctx.JSON(http.StatusOK, resp)
		}
	}
}

func notFoundHandler(routes auth.Routes) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.JSON(http.StatusNotFound, notFoundResponse{
			Error:       http.StatusText(http.StatusNotFound),
			Suggestions: routes.Suggest(ctx.Request().URL.Path, 3),
		})
	}
}
