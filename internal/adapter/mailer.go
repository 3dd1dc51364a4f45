// Package adapter holds outbound integrations. The only one today is the
// transactional mail gateway that delivers password-recovery artifacts.
package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/service"
)

const defaultMailTimeout = 15 * time.Second

// mailMessage is the JSON payload accepted by the mail gateway's send
// endpoint.
type mailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// mailGateway is the HTTP implementation of [service.Mailer]. It posts
// messages to an external transactional mail API authenticated with a bearer
// API key.
type mailGateway struct {
	client       *resty.Client
	from         string
	resetURLBase string
	logger       *logger.Logger
}

// NewMailer constructs a [service.Mailer] from cfg.
//
// When no gateway base URL is configured, a no-op mailer is returned instead
// so recovery flows keep working in environments without mail delivery; the
// artifacts then reach users only through the admin endpoints.
func NewMailer(cfg config.Mail, logger *logger.Logger) service.Mailer {
	if cfg.BaseURL == "" {
		logger.Warn().Msg("mail gateway not configured, recovery emails will be dropped")
		return &nopMailer{logger: logger}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+cfg.APIKey)

	return &mailGateway{
		client:       cli,
		from:         cfg.From,
		resetURLBase: cfg.ResetURLBase,
		logger:       logger,
	}
}

// SendResetLink mails the password-reset link built from the configured
// reset page URL and the token.
func (m *mailGateway) SendResetLink(ctx context.Context, email string, firstName string, token string) error {
	link := fmt.Sprintf("%s?token=%s", m.resetURLBase, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received a request to reset your password. The link below is valid for a limited time:</p><p><a href=%q>Reset your password</a></p><p>If you did not request this, you can ignore this email.</p>",
		firstName, link,
	)

	return m.send(ctx, email, "Reset your password", body)
}

// SendResetOTP mails the one-time recovery code.
func (m *mailGateway) SendResetOTP(ctx context.Context, email string, firstName string, otp string) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password recovery code is:</p><p><strong>%s</strong></p><p>The code expires shortly. If you did not request this, you can ignore this email.</p>",
		firstName, otp,
	)

	return m.send(ctx, email, "Your password recovery code", body)
}

func (m *mailGateway) send(ctx context.Context, email string, subject string, html string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(mailMessage{
			From:    m.from,
			To:      []string{email},
			Subject: subject,
			HTML:    html,
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("mail gateway request: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("mail gateway returned %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	return nil
}

// nopMailer drops every message. Used when the gateway is not configured.
// Artifact values are deliberately kept out of the logs.
type nopMailer struct {
	logger *logger.Logger
}

func (n *nopMailer) SendResetLink(_ context.Context, email string, _ string, _ string) error {
	n.logger.Debug().Str("to", email).Msg("mail gateway not configured, dropping reset link email")
	return nil
}

func (n *nopMailer) SendResetOTP(_ context.Context, email string, _ string, _ string) error {
	n.logger.Debug().Str("to", email).Msg("mail gateway not configured, dropping recovery code email")
	return nil
}
