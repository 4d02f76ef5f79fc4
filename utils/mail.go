package utils

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
	AppURL   string
}

// Mailer sends application mail through any gomail sender.
type Mailer struct {
	cfg    MailConfig
	dialer *gomail.Dialer
	sender gomail.Sender
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password),
	}
}

// NewMailerWithSender is used when the transport is already open (or faked).
func NewMailerWithSender(cfg MailConfig, sender gomail.Sender) *Mailer {
	return &Mailer{cfg: cfg, sender: sender}
}

func (m *Mailer) SendWelcome(toEmail, name, provider string) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.cfg.Sender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", "Welcome aboard")
	mailer.SetBody("text/html", fmt.Sprintf(
		`<p>Hi %s,</p><p>your account was created with %s. <a href="%s">Open the app</a>.</p>`,
		html.EscapeString(name), provider, m.cfg.AppURL,
	))

	if m.sender != nil {
		return gomail.Send(m.sender, mailer)
	}
	return m.dialer.DialAndSend(mailer)
}
