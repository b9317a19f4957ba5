package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"net/http"

	dig_container "github.com/trezcool/skillxp/apps/api/di/dig"
	"github.com/trezcool/skillxp/apps/api/echo"
	"github.com/trezcool/skillxp/core"
)

func startWithDig(graph io.Writer) {
	c := dig_container.New(graph)

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		kvLoggerParam dig_container.KVLoggerParam,
		kv core.KVStore,
		mailSvc core.EmailService,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
		apiLogger.Info(fmt.Sprintf("Sessions stored in %q kv backend", conf.KV.Backend))

		kvLogger := kvLoggerParam.Logger
		defer func() {
			if err := kv.Close(); err != nil {
				kvLogger.Fatal("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")
		defer mailSvc.Wait() // let welcome mails go out

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("kvBackend").Set(conf.KV.Backend)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}
