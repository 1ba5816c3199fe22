package mailer

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer sends application email. Every message goes out with the configured
// From address and has the configured prefix prepended to its subject, so the
// individual call sites cannot impersonate another sender.
type Mailer struct {
	config *mailerConfig
	dialer *gomail.Dialer
}

// Email represents an outbound email message.
type Email struct {
	To      []string
	Bcc     []string
	ReplyTo string
	Subject string
	Body    string
}

// NewMailer creates a Mailer from SMTP environment configuration.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg := newMailerConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &Mailer{
		config: cfg,
		dialer: dialer,
	}
}

// Send sends a single email. At least one To or Bcc recipient is required.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 && len(email.Bcc) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	return m.dialer.DialAndSend(msg)
}

// SendBroadcast sends one message blind-copying all recipients, so no
// recipient sees who else received it.
func (m *Mailer) SendBroadcast(bcc []string, subject, body string) error {
	return m.Send(Email{
		Bcc:     bcc,
		Subject: subject,
		Body:    body,
	})
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)

	if len(email.To) > 0 {
		msg.SetHeader("To", email.To...)
	} else {
		// Broadcasts have only blind-copied recipients; address the message
		// to the sender so the To header is never empty.
		msg.SetHeader("To", m.config.From)
	}

	if len(email.Bcc) > 0 {
		msg.SetHeader("Bcc", email.Bcc...)
	}

	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}

	msg.SetHeader("Subject", m.config.SubjectPrefix+email.Subject)
	msg.SetBody("text/plain", email.Body)
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Host          string `env:"SMTP_HOST"`
	Port          int    `env:"SMTP_PORT"`
	Username      string `env:"SMTP_USERNAME"`
	Password      string `env:"SMTP_PASSWORD"`
	From          string `env:"SMTP_FROM"`
	SubjectPrefix string `env:"SMTP_SUBJECT_PREFIX" envDefault:"[Workshop Hub] "`
}

// newMailerConfig creates a mailerConfig instance from environment variables.
func newMailerConfig(logger *zerolog.Logger) *mailerConfig {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Mailer configuration is valid.
func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
