package inquiry

import (
	"context"
	"fmt"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server string `json:"server"`
	Port   int    `json:"port"`
	Sender string `json:"sender"`
}

// SmtpMailer sends through the municipality's internal relay, which
// accepts unauthenticated mail from the robot's host.
type SmtpMailer struct {
	config SmtpConfig
}

func NewSmtpMailer(config SmtpConfig) SmtpMailer {
	return SmtpMailer{config: config}
}

func (m SmtpMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	mail := email.NewEmail()
	mail.From = m.config.Sender
	mail.To = to
	mail.Subject = subject
	mail.HTML = []byte(htmlBody)

	err := mail.Send(fmt.Sprintf("%s:%d", m.config.Server, m.config.Port), nil)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
