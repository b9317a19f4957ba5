package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/skillxp/apps/api/echo"
	"github.com/trezcool/skillxp/assets"
	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
	"github.com/trezcool/skillxp/services/email"
	"github.com/trezcool/skillxp/services/logger"
	"github.com/trezcool/skillxp/storage/kv"
)

type KVLoggerParam struct {
	dig.In
	Logger core.Logger `name:"kvLogger"`
}

type ServerParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	KV          core.KVStore
	AuthOptions auth.Options
	Validate    *validator.Validate
	Translator  ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.New("API : ", conf)
}

func newKVLogger(conf *core.Config) core.Logger {
	return logsvc.New("KV : ", conf, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
}

func newKVStore(conf *core.Config, loggerParam KVLoggerParam) core.KVStore {
	store, err := kvstore.Open(context.Background(), conf.KV)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s kv store: %v", conf.KV.Backend, err), err)
	}
	return store
}

func newEmailTemplates(conf *core.Config, logger core.Logger) *core.EmailTemplates {
	tmpls, err := core.ParseEmailTemplates(assets.FS, conf.Debug || conf.TestMode)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}
	return tmpls
}

func newAuthOptions(conf *core.Config, mailSvc core.EmailService) (auth.Options, error) {
	return auth.NewOptions(conf.Auth, emailsvc.NewWelcomeNotifier(conf, mailSvc))
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, echoapi.Deps{
		Logger:      p.Logger,
		KV:          p.KV,
		AuthOptions: p.AuthOptions,
		Validate:    p.Validate,
		Translator:  p.Translator,
	})
}

// New returns a new dependency injection dig.Container.
// The dependency graph is written to graph, if any, in DOT format.
func New(graph ...io.Writer) *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newKVLogger, dig.Name("kvLogger")))
	must(c.Provide(newKVStore))
	must(c.Provide(newEmailTemplates))
	must(c.Provide(emailsvc.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(auth.NewValidator))
	must(c.Provide(newAuthOptions))
	must(c.Provide(newServer))

	if len(graph) > 0 && graph[0] != nil {
		_ = dig.Visualize(c, graph[0])
	}

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
