package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender sends mail over SMTP. The dialer configuration is reused
// across sends; gomail opens a connection per message.
type SMTPSender struct {
	config Config
	dialer *gomail.Dialer
}

func NewSMTPSender(config Config) (*SMTPSender, error) {
	if config.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password),
	}, nil
}

func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromEmail, s.config.FromName))
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
		if email.HTMLBody != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		}
	} else {
		m.SetBody("text/html", email.HTMLBody)
	}

	return s.dialer.DialAndSend(m)
}

// SendVerification renders the verification template and sends it.
func (s *SMTPSender) SendVerification(to string, data VerificationData) error {
	htmlBody, err := RenderVerification(data)
	if err != nil {
		return fmt.Errorf("failed to render verification template: %w", err)
	}

	return s.Send(&Email{
		To:       []string{to},
		Subject:  "Verify Account",
		HTMLBody: htmlBody,
	})
}
