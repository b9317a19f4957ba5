package emailsvc

import (
	"bytes"
	"context"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/skillxp/assets"
	"github.com/trezcool/skillxp/core"
	"github.com/trezcool/skillxp/core/auth"
	logsvc "github.com/trezcool/skillxp/services/logger"
)

func setup(t *testing.T) (*core.Config, *core.EmailTemplates) {
	t.Helper()
	conf := core.NewTestConfig()
	tmpls, err := core.ParseEmailTemplates(assets.FS, true)
	require.NoError(t, err)
	return conf, tmpls
}

func TestWelcomeNotifier(t *testing.T) {
	conf, tmpls := setup(t)
	mailSvc := NewConsoleServiceMock(conf, tmpls, logsvc.NewRecorder())
	notifier := NewWelcomeNotifier(conf, mailSvc)

	sess := auth.Session{ID: "1", Email: "a@x.com", Role: auth.RoleTeacher, FirstName: "Jo", LastName: "Lee"}
	require.NoError(t, notifier.AccountCreated(context.Background(), sess))

	sent := mailSvc.SentMessages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, []mail.Address{{Name: "Jo Lee", Address: "a@x.com"}}, msg.To)
	assert.Equal(t, "Welcome to SkillXP Nexus", msg.Subject)
	assert.Contains(t, msg.TextContent, "Hello Jo,")
	assert.Contains(t, msg.TextContent, "Role: Teacher")
	assert.Contains(t, msg.TextContent, "http://localhost:5173/login")
	assert.Contains(t, msg.HTMLContent, "<strong>Teacher</strong>")
}

func TestWelcomeNotifier_noEmail(t *testing.T) {
	conf, tmpls := setup(t)
	mailSvc := NewConsoleServiceMock(conf, tmpls, logsvc.NewRecorder())

	require.NoError(t, NewWelcomeNotifier(conf, mailSvc).AccountCreated(context.Background(), auth.Session{}))
	assert.Empty(t, mailSvc.SentMessages())
}

func TestConsoleService_send(t *testing.T) {
	conf, tmpls := setup(t)
	var out bytes.Buffer
	svc := newConsoleService(conf, tmpls, logsvc.NewRecorder(), &out)

	err := svc.sendMessage(&core.EmailMessage{
		To:      []mail.Address{{Address: "a@x.com"}},
		Subject: "Hi",
		BodyStr: "plain body",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Subject: [SkillXP Nexus] Hi")
	assert.Contains(t, out.String(), "To: <a@x.com>")
	assert.Contains(t, out.String(), "plain body")
}

func TestConsoleService_unknownTemplate(t *testing.T) {
	conf, tmpls := setup(t)
	logger := logsvc.NewRecorder()
	mailSvc := NewConsoleServiceMock(conf, tmpls, logger)

	mailSvc.SendMessages(&core.EmailMessage{To: []mail.Address{{Address: "a@x.com"}}, TemplateName: "lol"})
	assert.Empty(t, mailSvc.SentMessages())
	assert.Len(t, logger.Entries("ERROR"), 1)
}

func TestSendgridService_prepare(t *testing.T) {
	conf, tmpls := setup(t)
	svc := NewSendgridService(conf, tmpls, logsvc.NewRecorder()).(*sendgridService)

	m := svc.prepare(core.EmailMessage{
		To:          []mail.Address{{Name: "Jo", Address: "a@x.com"}},
		Subject:     "Hi",
		TextContent: "text",
	})
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[SkillXP Nexus] Hi", m.Personalizations[0].Subject)
	assert.Equal(t, "a@x.com", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 1)
	assert.Equal(t, "noreply@localhost", m.From.Address)
}
