package messaging

// Config carries provider credentials and sender identities. It is read once
// at process start and never mutated afterwards; clients copy what they need
// at construction time.
type Config struct {
	Twilio   TwilioConfig
	SendGrid SendGridConfig
	Mailgun  MailgunConfig

	// FromEmail and FromName identify the sender on outbound email.
	FromEmail string
	FromName  string
}

// TwilioConfig holds Twilio API credentials.
type TwilioConfig struct {
	AccountSID          string
	AuthToken           string
	MessagingServiceSID string
}

// SendGridConfig holds SendGrid API credentials.
type SendGridConfig struct {
	APIKey string
}

// MailgunConfig holds Mailgun API credentials and the account base URL,
// e.g. "https://api.mailgun.net/v3/mg.example.com".
type MailgunConfig struct {
	APIKey  string
	BaseURL string
}
