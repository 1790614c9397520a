package notify

import (
	"errors"
	"testing"

	"github.com/jabrane-me/crous-bot-notifier/config"
)

func TestMailerDisabledWithoutCredentials(t *testing.T) {
	m := NewMailer(config.MailConfig{Host: "smtp.sendgrid.net", Port: 587})

	err := m.Send("subject", "<p>body</p>")
	if !errors.Is(err, ErrMailDisabled) {
		t.Fatalf("want ErrMailDisabled, got %v", err)
	}
}

func TestNilMailerRefusesToSend(t *testing.T) {
	var m *Mailer

	err := m.Send("subject", "<p>body</p>")
	if !errors.Is(err, ErrMailDisabled) {
		t.Fatalf("want ErrMailDisabled on nil mailer, got %v", err)
	}
}
