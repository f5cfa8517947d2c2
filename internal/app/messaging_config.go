package app

import "github.com/hypersenta/backend/internal/messaging"

// MessagingSettings converts MessagingConfig to the messaging package representation.
func (c MessagingConfig) MessagingSettings() messaging.Config {
	return messaging.Config{
		Twilio: messaging.TwilioConfig{
			AccountSID:          c.Twilio.AccountSID,
			AuthToken:           c.Twilio.AuthToken,
			MessagingServiceSID: c.Twilio.MessagingServiceSID,
		},
		SendGrid: messaging.SendGridConfig{
			APIKey: c.SendGrid.APIKey,
		},
		Mailgun: messaging.MailgunConfig{
			APIKey:  c.Mailgun.APIKey,
			BaseURL: c.Mailgun.BaseURL,
		},
		FromEmail: c.FromEmail,
		FromName:  c.FromName,
	}
}
