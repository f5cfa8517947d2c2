package messaging

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendGridEmailClient sends email through the SendGrid v3 Mail Send API.
type sendGridEmailClient struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func newSendGridEmailClient(cfg Config) (EmailClient, error) {
	return &sendGridEmailClient{
		client:    sendgrid.NewSendClient(cfg.SendGrid.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}, nil
}

func (c *sendGridEmailClient) Send(ctx context.Context, req EmailRequest) (Receipt, error) {
	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(c.fromName, c.fromEmail))
	message.Subject = req.Subject

	personalization := sgmail.NewPersonalization()
	for _, rcpt := range trimRecipients(req.Recipients) {
		personalization.AddTos(sgmail.NewEmail("", rcpt))
	}
	message.AddPersonalizations(personalization)
	message.AddContent(sgmail.NewContent("text/html", req.Message))

	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return Receipt{}, &TransportError{Provider: ProviderSendGrid, Err: err}
	}
	if resp.StatusCode >= 400 {
		return Receipt{}, &TransportError{
			Provider: ProviderSendGrid,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Body),
		}
	}

	receipt := Receipt{Provider: ProviderSendGrid, StatusCode: resp.StatusCode}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		receipt.MessageID = ids[0]
	}
	return receipt, nil
}
