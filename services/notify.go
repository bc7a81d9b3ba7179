package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/config"
)

// Notifier sends the contact-form notification email through Resend. It is a
// best-effort side channel: when the API key or recipient is not configured
// every send is reported as skipped, never as an error.
type Notifier struct {
	client    *resend.Client
	from      string
	recipient string
	logger    zerolog.Logger
}

func NewNotifier(cfg config.Config) *Notifier {
	n := &Notifier{
		from:      cfg.EmailFrom,
		recipient: cfg.NotificationEmail,
		logger:    log.With().Str("service", "notifier").Logger(),
	}
	if cfg.ResendAPIKey != "" {
		n.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return n
}

// SendContactNotification emails the configured recipient about a new
// contact-form submission. The bool result reports whether a send was
// actually attempted; (false, nil) means the notifier is not configured.
func (n *Notifier) SendContactNotification(ctx context.Context, firstName, lastName, email, message string) (bool, error) {
	if n.client == nil || n.recipient == "" || n.from == "" {
		n.logger.Warn().Msg("Email not configured, skipping contact notification")
		return false, nil
	}

	fullName := firstName
	if strings.TrimSpace(lastName) != "" {
		fullName = strings.TrimSpace(firstName + " " + lastName)
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.recipient},
		Subject: fmt.Sprintf("New Contact Form Submission from %s", fullName),
		Html:    contactNotificationBody(fullName, email, message),
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return true, fmt.Errorf("resend API error: %w", err)
	}

	n.logger.Info().Str("emailId", sent.Id).Str("to", n.recipient).Msg("Contact notification sent")
	return true, nil
}

func contactNotificationBody(fullName, email, message string) string {
	var b strings.Builder
	b.WriteString(`<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333">`)
	b.WriteString(`<div style="background:#0f172a;color:#fff;padding:20px;border-radius:8px 8px 0 0"><h2 style="margin:0">New Contact Form Submission</h2></div>`)
	b.WriteString(`<div style="background:#f8fafc;padding:20px;border:1px solid #e2e8f0">`)
	writeField(&b, "Name", html.EscapeString(fullName))
	writeField(&b, "Email", fmt.Sprintf(`<a href="mailto:%s">%s</a>`, html.EscapeString(email), html.EscapeString(email)))
	writeField(&b, "Message", `<span style="white-space:pre-wrap">`+html.EscapeString(message)+`</span>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div style="padding:15px;text-align:center;color:#64748b;font-size:12px">This email was sent from your portfolio contact form.</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<div style="margin-bottom:15px"><div style="font-weight:bold;color:#64748b;font-size:12px;text-transform:uppercase">%s</div><div style="margin-top:5px;padding:10px;background:#fff;border-radius:4px">%s</div></div>`, label, value)
}
