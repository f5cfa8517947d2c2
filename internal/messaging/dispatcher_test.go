package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	provider, err := ParseProvider(" Twilio ")
	require.NoError(t, err)
	require.Equal(t, ProviderTwilio, provider)

	_, err = ParseProvider("carrier-pigeon")
	var unsupported *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "carrier-pigeon", unsupported.Provider)
}

func TestSendSMSUnsupportedProvider(t *testing.T) {
	dispatcher := NewDispatcher(Config{})

	// sendgrid exists in the enumerated set but has no SMS implementation.
	_, err := dispatcher.SendSMS(context.Background(), SMSRequest{
		Recipient: "+12025550123",
		Body:      "hello",
		Provider:  ProviderSendGrid,
	})

	var unsupported *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, ModeSMS, unsupported.Mode)
}

func TestSendSMSValidatesInput(t *testing.T) {
	dispatcher := NewDispatcher(Config{})

	_, err := dispatcher.SendSMS(context.Background(), SMSRequest{Body: "hello"})
	require.ErrorIs(t, err, ErrMissingRecipient)

	_, err = dispatcher.SendSMS(context.Background(), SMSRequest{Recipient: "+12025550123"})
	require.ErrorIs(t, err, ErrMissingContent)
}

func TestSendEmailUnsupportedProvider(t *testing.T) {
	dispatcher := NewDispatcher(Config{})

	// twilio exists in the enumerated set but has no email implementation.
	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		Message:    "<p>hello</p>",
		Provider:   ProviderTwilio,
	})

	var unsupported *UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, ModeEmail, unsupported.Mode)
}

func TestSendEmailMissingContent(t *testing.T) {
	// An unroutable mailgun base URL proves validation fails before any
	// network call is attempted.
	cfg := Config{Mailgun: MailgunConfig{BaseURL: "http://127.0.0.1:1"}}
	dispatcher := NewDispatcher(cfg)

	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		Provider:   ProviderMailgun,
	})
	require.ErrorIs(t, err, ErrMissingContent)
}

func TestSendEmailTemplatesRejectedEvenWithMessage(t *testing.T) {
	cfg := Config{Mailgun: MailgunConfig{BaseURL: "http://127.0.0.1:1"}}
	dispatcher := NewDispatcher(cfg)

	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		Message:    "<p>also set</p>",
		Template:   "welcome",
		Provider:   ProviderMailgun,
	})
	require.ErrorIs(t, err, ErrTemplateUnsupported)
}

func TestSendEmailRequiresRecipients(t *testing.T) {
	cfg := Config{Mailgun: MailgunConfig{BaseURL: "http://127.0.0.1:1"}}
	dispatcher := NewDispatcher(cfg)

	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"  ", ""},
		Subject:    "Hi",
		Message:    "<p>hello</p>",
		Provider:   ProviderMailgun,
	})
	require.ErrorIs(t, err, ErrMissingRecipient)
}

func TestSendEmailDefaultsToSendGrid(t *testing.T) {
	registry := NewRegistry()
	captured := make(chan Provider, 1)
	require.NoError(t, registry.RegisterEmail(ProviderSendGrid, func(cfg Config) (EmailClient, error) {
		return emailClientFunc(func(ctx context.Context, req EmailRequest) (Receipt, error) {
			captured <- ProviderSendGrid
			return Receipt{Provider: ProviderSendGrid}, nil
		}), nil
	}))

	dispatcher := NewDispatcher(Config{}, WithRegistry(registry))
	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		Message:    "<p>hello</p>",
	})
	require.NoError(t, err)
	require.Equal(t, ProviderSendGrid, <-captured)
}

func TestSendSMSDefaultsToTwilio(t *testing.T) {
	registry := NewRegistry()
	captured := make(chan Provider, 1)
	require.NoError(t, registry.RegisterSMS(ProviderTwilio, func(cfg Config) (SMSClient, error) {
		return smsClientFunc(func(ctx context.Context, recipient, body string) (Receipt, error) {
			captured <- ProviderTwilio
			return Receipt{Provider: ProviderTwilio}, nil
		}), nil
	}))

	dispatcher := NewDispatcher(Config{}, WithRegistry(registry))
	_, err := dispatcher.SendSMS(context.Background(), SMSRequest{Recipient: "+12025550123", Body: "hello"})
	require.NoError(t, err)
	require.Equal(t, ProviderTwilio, <-captured)
}

func TestTransportErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{Provider: ProviderSendGrid, Err: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "sendgrid")
}

type emailClientFunc func(ctx context.Context, req EmailRequest) (Receipt, error)

func (f emailClientFunc) Send(ctx context.Context, req EmailRequest) (Receipt, error) {
	return f(ctx, req)
}

type smsClientFunc func(ctx context.Context, recipient, body string) (Receipt, error)

func (f smsClientFunc) Send(ctx context.Context, recipient, body string) (Receipt, error) {
	return f(ctx, recipient, body)
}
