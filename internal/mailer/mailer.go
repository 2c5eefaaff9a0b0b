package mailer

import (
	"context"
	"fmt"
	"strings"
	"todo-backend/internal/config"

	"github.com/wneessen/go-mail"
)

// Notifier dispatches account lifecycle emails. Delivery is fire-and-forget
// from the caller's point of view; a failed send never fails the request.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, toEmail, token string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// SMTPMailer sends emails over SMTP using go-mail.
type SMTPMailer struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewSMTPMailer creates a mailer from the SMTP config section.
func NewSMTPMailer(cfg *config.SMTPConfig, baseURL string) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &SMTPMailer{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	verifyURL := fmt.Sprintf("%s/api/v1/verify_email?email=%s&verificationToken=%s", m.baseURL, toEmail, token)

	body := fmt.Sprintf(
		"Welcome!\n\nPlease verify your email address by visiting the link below:\n\n%s\n\nIf you did not create an account, ignore this message.\n",
		verifyURL,
	)

	return m.send(ctx, toEmail, "Verify your email address", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nUse the link below to choose a new password:\n\n%s\n\nIf you did not request a reset, ignore this message.\n",
		resetURL,
	)

	return m.send(ctx, toEmail, "Reset your password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
	}
	if m.cfg.User != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
