package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mru-labs/merchant-os/internal/domain"
)

// SendGridProvider delivers through the SendGrid v3 mail API.
type SendGridProvider struct {
	from   *mail.Email
	client *sendgrid.Client
}

func NewSendGridProvider(apiKey, fromEmail, fromName string) *SendGridProvider {
	return &SendGridProvider{
		from:   mail.NewEmail(fromName, fromEmail),
		client: sendgrid.NewSendClient(apiKey),
	}
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	return p.deliver(ctx, buildSGMail(p.from, msg))
}

func (p *SendGridProvider) deliver(ctx context.Context, m *mail.SGMailV3) error {
	resp, err := p.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d: %s", domain.ErrUpstream, resp.StatusCode, resp.Body)
	}
	return nil
}

// buildSGMail puts the plain-text part first; mail clients render the last part they support.
func buildSGMail(from *mail.Email, msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(from)
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	m.AddPersonalizations(p)

	if msg.Text != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}
	m.AddCategories(msg.Categories...)
	return m
}
