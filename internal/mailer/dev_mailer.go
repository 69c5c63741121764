package mailer

import (
	"github.com/coderr-app/coderr-backend/pkg/logger"
)

// DevMailer logs emails instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return "dev-mail", nil
}

func (d *DevMailer) SendWelcome(toEmail, username string) error {
	_, err := d.Send(toEmail, username, "Welcome to Coderr", "Your Coderr account is ready.", "")
	return err
}

var _ Service = (*DevMailer)(nil)
