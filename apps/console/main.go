package main

import (
	"context"
	"fmt"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/skillxp/assets"
	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
	"github.com/trezcool/skillxp/services/email"
	"github.com/trezcool/skillxp/services/logger"
	"github.com/trezcool/skillxp/storage/kv"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.New("CONSOLE : ", conf)
	ctx := context.Background()

	if conf.KV.Backend == "" || conf.KV.Backend == core.KVBackendMemory {
		logger.Warn("memory kv backend: the session will not outlive this command")
	}
	kv, err := kvstore.Open(ctx, conf.KV)
	errAndDie(err)

	tmpls, err := core.ParseEmailTemplates(assets.FS, conf.Debug)
	errAndDie(err)
	mailSvc := emailsvc.New(conf, tmpls, logger)
	welcome := emailsvc.NewWelcomeNotifier(conf, mailSvc)

	opts, err := auth.NewOptions(conf.Auth, welcome)
	errAndDie(err)

	translator := core.NewTranslator()
	c := &console{
		svc:            auth.NewService(auth.NewStore(kv), logger, opts),
		routes:         auth.DefaultRoutes,
		validate:       auth.NewValidator(translator),
		restoreTimeout: conf.Auth.RestoreTimeout,
		out:            os.Stdout,
	}

	err = c.run(ctx, os.Args)
	mailSvc.Wait()
	_ = kv.Close()
	if err != nil {
		if err != errHelp && err != errNotFound {
			fmt.Fprintf(os.Stderr, "error: %s\n", describe(err, translator))
		}
		os.Exit(1)
	}
}

// describe renders err for a person at a terminal.
func describe(err error, translator ut.Translator) string {
	switch cause := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		return fmt.Sprint(core.TranslateErrors(cause, translator))
	case *core.ValidationError:
		return cause.Error()
	default:
		return err.Error()
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
