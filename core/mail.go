package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

const emailTemplatesDir = "templates/email"

type (
	tmplCacheEntry struct {
		text     *texttmpl.Template
		textName string
		html     *htmltmpl.Template
		htmlName string
	}

	// EmailTemplates holds the parsed `<name>.txt` & `<name>.gohtml` email templates.
	// Files prefixed with `_` are base layouts.
	EmailTemplates struct {
		cache map[string]*tmplCacheEntry
	}

	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
		// Wait blocks until the messages sent so far are delivered or dropped.
		Wait()
	}
)

// ParseEmailTemplates parses every email template found in fsys.
// In strict mode, missing template keys are execution errors.
func ParseEmailTemplates(fsys fs.FS, strict bool) (*EmailTemplates, error) {
	tmpls := &EmailTemplates{cache: make(map[string]*tmplCacheEntry)}

	fps, err := fs.Glob(fsys, path.Join(emailTemplatesDir, "*"))
	if err != nil {
		return nil, errors.Wrap(err, "listing email templates")
	}
	textBase := path.Join(emailTemplatesDir, "_base.txt")
	htmlBase := path.Join(emailTemplatesDir, "_base.gohtml")

	for _, fp := range fps {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") || !(ext == ".txt" || ext == ".gohtml") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		entry, ok := tmpls.cache[name]
		if !ok {
			entry = new(tmplCacheEntry)
			tmpls.cache[name] = entry
		}

		if ext == ".txt" {
			tmpl, err := texttmpl.ParseFS(fsys, textBase, fp)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fp)
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			entry.text, entry.textName = tmpl, fname
		} else {
			tmpl, err := htmltmpl.ParseFS(fsys, htmlBase, fp)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fp)
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			entry.html, entry.htmlName = tmpl, fname
		}
	}
	return tmpls, nil
}

// Has reports whether a template called name was parsed.
func (t *EmailTemplates) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cache[name]
	return ok
}

// Render fills TextContent & HTMLContent from BodyStr or the named template.
func (m *EmailMessage) Render(tmpls *EmailTemplates, data ContextData) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}
	if !tmpls.Has(m.TemplateName) {
		return errors.Errorf("email template %q not found", m.TemplateName)
	}
	entry := tmpls.cache[m.TemplateName]
	data.Data = m.TemplateData

	var buff bytes.Buffer
	if entry.text != nil && m.BodyStr == "" {
		if err := entry.text.ExecuteTemplate(&buff, entry.textName, data); err != nil {
			return errors.Wrap(err, "rendering text template")
		}
		m.TextContent = buff.String()
	}
	if entry.html != nil {
		buff.Reset()
		if err := entry.html.ExecuteTemplate(&buff, entry.htmlName, data); err != nil {
			return errors.Wrap(err, "rendering html template")
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
