package emailsvc

import (
	"context"
	"net/mail"

	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
)

const welcomeTemplate = "welcome"

type (
	// WelcomeNotifier emails every new account. Delivery happens in the background.
	WelcomeNotifier struct {
		mailSvc core.EmailService
		appName string
	}

	welcomeData struct {
		ShortName string
		FullName  string
		RoleName  string
	}
)

var _ auth.SignupNotifier = (*WelcomeNotifier)(nil)

func NewWelcomeNotifier(conf *core.Config, mailSvc core.EmailService) *WelcomeNotifier {
	return &WelcomeNotifier{mailSvc: mailSvc, appName: conf.AppName}
}

func (n *WelcomeNotifier) AccountCreated(_ context.Context, sess auth.Session) error {
	if sess.Email == "" {
		return nil
	}
	n.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: sess.FullName(), Address: sess.Email}},
		Subject:      "Welcome to " + n.appName,
		TemplateName: welcomeTemplate,
		TemplateData: welcomeData{
			ShortName: sess.ShortName(),
			FullName:  sess.FullName(),
			RoleName:  sess.Role.Display(),
		},
	})
	return nil
}
