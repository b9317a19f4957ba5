package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
)

type (
	Deps struct {
		Logger      core.Logger
		KV          core.KVStore
		AuthOptions auth.Options
		Validate    *validator.Validate
		Translator  ut.Translator
		Routes      auth.Routes // defaults to auth.DefaultRoutes
	}

	Server struct {
		conf     *core.Config
		deps     Deps
		app      *echo.Echo
		devices  *deviceIssuer
		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(conf *core.Config, deps Deps) *Server {
	if deps.Routes == nil {
		deps.Routes = auth.DefaultRoutes
	}
	s := &Server{
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
		devices:  newDeviceIssuer(conf),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = s.conf.Debug

	session := s.sessionMiddleware()

	v1 := s.app.Group("/v1", session)
	registerAuthAPI(v1, s.deps.Validate, s.restoreTimeout())

	registerViews(s.app, s.deps.Routes, s.restoreTimeout(), session)
}

func (s *Server) restoreTimeout() time.Duration {
	if d := s.conf.Auth.RestoreTimeout; d > 0 {
		return d
	}
	return 2 * time.Second
}

// Start listens on the configured address until Shutdown or Close. Failures are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the owner of the Server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signalled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
