package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

const smtpPort = 587

// Sender delivers composed messages; *gomail.Dialer satisfies it
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer sends account emails over SMTP.
// Without credentials it runs in simulation mode and only logs what it would send.
type Mailer struct {
	from        string
	frontendURL string
	sender      Sender
	policy      jobcontext.Policy
	logger      *zap.Logger
}

// SMTPHost returns the submission host for the configured email service
func SMTPHost(service string) string {
	if strings.EqualFold(service, "Zoho") {
		return "smtp.zoho.eu"
	}
	return "smtp.gmail.com"
}

// NewMailer creates a Mailer from config
func NewMailer(cfg *config.MailConfig, frontendURL string, logger *zap.Logger) *Mailer {
	m := &Mailer{
		from:        cfg.From,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		policy:      jobcontext.Policy{Timeout: cfg.Timeout, MaxRetries: cfg.MaxRetries},
		logger:      logger,
	}
	if m.from == "" {
		m.from = cfg.User
	}
	if cfg.User != "" && cfg.Password != "" {
		m.sender = gomail.NewDialer(SMTPHost(cfg.Service), smtpPort, cfg.User, cfg.Password)
		if logger != nil {
			logger.Info("📧 Mailer initialized", zap.String("host", SMTPHost(cfg.Service)))
		}
	} else if logger != nil {
		logger.Warn("⚠️  EMAIL_USER/EMAIL_PASS not set, emails will be simulated")
	}
	return m
}

// WithSender replaces the SMTP transport
func (m *Mailer) WithSender(s Sender) *Mailer {
	m.sender = s
	return m
}

// Simulated reports whether emails are only logged
func (m *Mailer) Simulated() bool {
	return m.sender == nil
}

// VerificationLink returns the frontend link that confirms token
func (m *Mailer) VerificationLink(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, url.QueryEscape(token))
}

// SendVerification emails the verification link to a newly registered user
func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	link := m.VerificationLink(token)

	if m.Simulated() {
		if m.logger != nil {
			m.logger.Info("email.simulation",
				zap.String("to", to),
				zap.String("subject", "Verify your email"),
				zap.String("link", link),
			)
		}
		return nil
	}

	return m.Send(ctx, Email{
		To:      []string{to},
		Subject: "Meeting Intel - Verify your email",
		Body:    fmt.Sprintf("Please open the link below to verify your email address:\n%s\n", link),
		HTMLBody: fmt.Sprintf(`<h3>Welcome to Meeting Intel!</h3>
<p>Please click the link below to verify your email address:</p>
<a href="%s">%s</a>
<p>If you didn't request this, please ignore this email.</p>`, link, link),
	})
}

// Send sends a single email, retrying transient SMTP failures.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}
	if m.Simulated() {
		return fmt.Errorf("mailer has no transport configured")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	err := jobcontext.Retry(ctx, m.policy, func(ctx context.Context) error {
		done := make(chan error, 1)
		go func() { done <- m.sender.DialAndSend(msg) }()
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		if m.logger != nil {
			m.logger.Error("failed to send email",
				zap.Strings("to", email.To),
				zap.String("subject", email.Subject),
				zap.Error(err),
			)
		}
		return err
	}

	if m.logger != nil {
		m.logger.Info("email sent", zap.Strings("to", email.To), zap.String("subject", email.Subject))
	}
	return nil
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}
