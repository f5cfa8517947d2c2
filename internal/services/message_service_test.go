package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypersenta/backend/internal/database/testutil"
	"github.com/hypersenta/backend/internal/messaging"
	"github.com/hypersenta/backend/internal/models"
)

type stubSMSClient struct {
	receipt messaging.Receipt
	err     error
}

func (s stubSMSClient) Send(ctx context.Context, recipient, body string) (messaging.Receipt, error) {
	return s.receipt, s.err
}

type stubEmailClient struct {
	receipt messaging.Receipt
	err     error
}

func (s stubEmailClient) Send(ctx context.Context, req messaging.EmailRequest) (messaging.Receipt, error) {
	return s.receipt, s.err
}

func newStubDispatcher(t *testing.T, sms messaging.SMSClient, email messaging.EmailClient) *messaging.Dispatcher {
	t.Helper()

	registry := messaging.NewRegistry()
	if sms != nil {
		require.NoError(t, registry.RegisterSMS(messaging.ProviderTwilio, func(messaging.Config) (messaging.SMSClient, error) {
			return sms, nil
		}))
	}
	if email != nil {
		require.NoError(t, registry.RegisterEmail(messaging.ProviderSendGrid, func(messaging.Config) (messaging.EmailClient, error) {
			return email, nil
		}))
	}
	return messaging.NewDispatcher(messaging.Config{}, messaging.WithRegistry(registry))
}

func TestMessageServiceSendSMSRecordsSuccess(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	dispatcher := newStubDispatcher(t, stubSMSClient{
		receipt: messaging.Receipt{Provider: messaging.ProviderTwilio, MessageID: "SM123"},
	}, nil)

	svc, err := NewMessageService(db, dispatcher)
	require.NoError(t, err)

	record, err := svc.SendSMS(context.Background(), SendSMSInput{
		Recipient: "+12025550123",
		Body:      "hello",
	})
	require.NoError(t, err)
	require.Equal(t, models.MessageStatusSent, record.Status)
	require.Equal(t, "SM123", record.ProviderMessageID)
	require.Equal(t, "sms", record.Channel)
	require.Equal(t, "twilio", record.Provider)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestMessageServiceSendSMSRecordsFailure(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	cause := errors.New("provider unavailable")
	dispatcher := newStubDispatcher(t, stubSMSClient{
		err: &messaging.TransportError{Provider: messaging.ProviderTwilio, Err: cause},
	}, nil)

	svc, err := NewMessageService(db, dispatcher)
	require.NoError(t, err)

	record, err := svc.SendSMS(context.Background(), SendSMSInput{
		Recipient: "+12025550123",
		Body:      "hello",
	})
	require.Error(t, err)

	var transportErr *messaging.TransportError
	require.ErrorAs(t, err, &transportErr)

	require.NotNil(t, record)
	require.Equal(t, models.MessageStatusFailed, record.Status)
	require.Contains(t, record.Error, "provider unavailable")
}

func TestMessageServiceSendSMSRejectsUnknownProvider(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewMessageService(db, newStubDispatcher(t, stubSMSClient{}, nil))
	require.NoError(t, err)

	_, err = svc.SendSMS(context.Background(), SendSMSInput{
		Recipient: "+12025550123",
		Body:      "hello",
		Provider:  "carrier-pigeon",
	})

	var unsupported *messaging.UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)

	// Nothing is logged for requests rejected before dispatch.
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestMessageServiceSendEmailRecordsRecipients(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	dispatcher := newStubDispatcher(t, nil, stubEmailClient{
		receipt: messaging.Receipt{Provider: messaging.ProviderSendGrid, MessageID: "msg-1", StatusCode: 202},
	})

	svc, err := NewMessageService(db, dispatcher)
	require.NoError(t, err)

	record, err := svc.SendEmail(context.Background(), SendEmailInput{
		Recipients: []string{"a@example.com", "b@example.com"},
		Subject:    "Welcome",
		Message:    "<p>Hi</p>",
	})
	require.NoError(t, err)
	require.Equal(t, models.MessageStatusSent, record.Status)
	require.Equal(t, "email", record.Channel)
	require.Equal(t, "sendgrid", record.Provider)
	require.Equal(t, "a@example.com,b@example.com", record.Recipient)
}

func TestMessageServiceSendEmailValidationFailuresAreLogged(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewMessageService(db, newStubDispatcher(t, nil, stubEmailClient{}))
	require.NoError(t, err)

	record, err := svc.SendEmail(context.Background(), SendEmailInput{
		Recipients: []string{"a@example.com"},
	})
	require.ErrorIs(t, err, messaging.ErrMissingContent)
	require.Equal(t, models.MessageStatusFailed, record.Status)

	record, err = svc.SendEmail(context.Background(), SendEmailInput{
		Recipients: []string{"a@example.com"},
		Message:    "body",
		Template:   "welcome",
	})
	require.ErrorIs(t, err, messaging.ErrTemplateUnsupported)
	require.Equal(t, models.MessageStatusFailed, record.Status)
}

func TestMessageServiceListRecent(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	dispatcher := newStubDispatcher(t, stubSMSClient{
		receipt: messaging.Receipt{Provider: messaging.ProviderTwilio},
	}, nil)

	svc, err := NewMessageService(db, dispatcher)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.SendSMS(ctx, SendSMSInput{Recipient: "+12025550123", Body: "hello"})
		require.NoError(t, err)
	}

	messages, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
}
