package mail

import (
	"fmt"
	"html/template"
	"time"

	"gramm/internal/config"

	gomail "github.com/wneessen/go-mail"
)

const (
	activationSubject = "Registration at Gramm"
	resetSubject      = "Reset Email at Gramm"
)

const emailTemplates = `
{{define "activation"}}<html><body>
<p>Hi,</p>
<p>Thanks for registering at {{.AppName}}. Please go to the following page to activate your account:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
</body></html>{{end}}

{{define "password_reset"}}<html><body>
<p>Hi,</p>
<p>Somebody asked to reset the password of your {{.AppName}} account. Follow the link below to choose a new one:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If it was not you, just ignore this email.</p>
</body></html>{{end}}
`

type Mailer interface {
	Send(to, subject, body string) error
	SendActivation(to, link string) error
	SendPasswordReset(to, link string) error
}

type linkData struct {
	AppName string
	Link    string
}

type sendFunc func(msg *gomail.Msg) error

type SMTPMailer struct {
	cfg       config.SMTP
	templates *template.Template
	send      sendFunc
}

func New(cfg config.SMTP) (*SMTPMailer, error) {
	tmpl, err := template.New("emails").Parse(emailTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	client, err := gomail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	m := &SMTPMailer{cfg: cfg, templates: tmpl}
	m.send = func(msg *gomail.Msg) error {
		if err := client.DialAndSend(msg); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	return m, nil
}

// clientOptions dials straight into TLS when UseSSL is set (port 465),
// otherwise upgrades with STARTTLS when the server offers it.
func clientOptions(cfg config.SMTP) []gomail.Option {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []gomail.Option{gomail.WithTimeout(timeout)}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}

	if cfg.UseSSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	return opts
}

func (m *SMTPMailer) SendActivation(to, link string) error {
	return m.sendTemplate(to, activationSubject, "activation", link)
}

func (m *SMTPMailer) SendPasswordReset(to, link string) error {
	return m.sendTemplate(to, resetSubject, "password_reset", link)
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg, err := m.newMessage(to, subject)
	if err != nil {
		return err
	}
	msg.SetBodyString(gomail.TypeTextHTML, body)

	return m.send(msg)
}

func (m *SMTPMailer) sendTemplate(to, subject, name, link string) error {
	msg, err := m.newMessage(to, subject)
	if err != nil {
		return err
	}

	data := linkData{AppName: m.cfg.FromName, Link: link}
	if err := msg.SetBodyHTMLTemplate(m.templates.Lookup(name), data); err != nil {
		return fmt.Errorf("failed to render %s template: %w", name, err)
	}

	return m.send(msg)
}

func (m *SMTPMailer) newMessage(to, subject string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)

	return msg, nil
}
