package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/ideauto/magicauth/internal/metrics"
)

// Sender is the delivery capability. Implementations are selected once at
// startup by EMAIL_PROVIDER and are interchangeable behind this contract.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// LogSender logs emails instead of sending them — used with
// EMAIL_PROVIDER=log (local dev and tests).
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, text, _ string) error {
	s.logger.InfoContext(ctx, "magic link email (log provider)", "to", to, "subject", subject, "body", text)
	metrics.EmailsSent.WithLabelValues("log", "ok").Inc()
	return nil
}

// ResendSender delivers via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, text, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
		Html:    html,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("resend", "error").Inc()
		return fmt.Errorf("send email: %w", err)
	}
	metrics.EmailsSent.WithLabelValues("resend", "ok").Inc()
	return nil
}

// SMTPSender delivers through a plain SMTP relay, optionally with PLAIN
// auth. The message carries both plaintext and HTML alternatives.
type SMTPSender struct {
	addr string
	host string
	auth smtp.Auth
	from string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	s := &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		from: from,
	}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

func (s *SMTPSender) Send(_ context.Context, to, subject, text, html string) error {
	msg := buildMultipart(s.from, to, subject, text, html)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		metrics.EmailsSent.WithLabelValues("smtp", "error").Inc()
		return fmt.Errorf("send email: %w", err)
	}
	metrics.EmailsSent.WithLabelValues("smtp", "ok").Inc()
	return nil
}

const altBoundary = "magicauth-alt"

func buildMultipart(from, to, subject, text, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", altBoundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", altBoundary, text)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", altBoundary, html)
	fmt.Fprintf(&b, "--%s--\r\n", altBoundary)

	return []byte(b.String())
}

// Provider names accepted by NewSender.
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
	ProviderLog    = "log"
)

type ProviderConfig struct {
	Provider     string
	ResendAPIKey string
	ResendFrom   string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

// NewSender selects the delivery backend once at startup.
func NewSender(cfg ProviderConfig, logger *slog.Logger) Sender {
	switch cfg.Provider {
	case ProviderResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.ResendFrom)
	case ProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	default:
		return NewLogSender(logger)
	}
}
