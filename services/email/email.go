package emailsvc

import "github.com/trezcool/skillxp/core"

// New returns the console service in debug mode or without a SendGrid key, SendGrid otherwise.
func New(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return NewConsoleService(conf, tmpls, logger)
	}
	return NewSendgridService(conf, tmpls, logger)
}
