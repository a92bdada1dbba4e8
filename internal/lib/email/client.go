// Package email sends transactional email through Resend.
//
// Bodies are rendered from the HTML templates embedded under templates/.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/deppfellow/formrequest/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender is the part of the Resend emails service the client uses.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and sends them.
type Client struct {
	sender    Sender
	from      string
	templates *template.Template
	logger    *zerolog.Logger
}

// NewClient creates a Client backed by the Resend API.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return New(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration.EmailFrom, logger)
}

// New creates a Client that sends through sender.
func New(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{
		sender:    sender,
		from:      from,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:    logger,
	}
}

// Render executes the named template with data.
func (c *Client) Render(name Template, data map[string]string) (string, error) {
	tmpl := c.templates.Lookup(string(name) + ".html")
	if tmpl == nil {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}

	return body.String(), nil
}

// SendEmail renders a template and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, name Template, data map[string]string) error {
	html, err := c.Render(name, data)
	if err != nil {
		return err
	}

	sent, err := c.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("template", string(name)).
		Str("email_id", sent.Id).
		Msg("email sent")

	return nil
}
