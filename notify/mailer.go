package notify

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jabrane-me/crous-bot-notifier/config"
)

// sendgridLogin is the literal SMTP username SendGrid expects; the API key
// goes in the password slot.
const sendgridLogin = "apikey"

// ErrMailDisabled is returned when credentials are missing. Callers treat it
// like any other send failure: logged, never fatal.
var ErrMailDisabled = errors.New("mail: disabled, missing credentials")

// Mailer sends HTML e-mail through SendGrid's SMTP relay.
type Mailer struct {
	cfg config.MailConfig
}

// NewMailer creates a Mailer from the given credentials. A Mailer built from
// incomplete credentials stays constructible but refuses to send.
func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one HTML message to the configured recipient.
func (m *Mailer) Send(subject, htmlBody string) error {
	if m == nil || !m.cfg.Enabled() {
		return ErrMailDisabled
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.SenderName)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, sendgridLogin, m.cfg.APIKey)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send %q: %w", subject, err)
	}
	return nil
}
