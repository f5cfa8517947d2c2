package messaging

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// twilioSMSClient sends SMS through the Twilio Programmable Messaging API.
// It is the only SMS-capable provider in the enumerated set.
type twilioSMSClient struct {
	client              *twilio.RestClient
	messagingServiceSID string
}

func newTwilioSMSClient(cfg Config) (SMSClient, error) {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.Twilio.AccountSID,
		Password: cfg.Twilio.AuthToken,
	})

	return &twilioSMSClient{
		client:              client,
		messagingServiceSID: cfg.Twilio.MessagingServiceSID,
	}, nil
}

func (c *twilioSMSClient) Send(ctx context.Context, recipient, body string) (Receipt, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetMessagingServiceSid(c.messagingServiceSID)
	params.SetTo(recipient)
	params.SetBody(body)

	message, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return Receipt{}, &TransportError{Provider: ProviderTwilio, Err: err}
	}

	receipt := Receipt{Provider: ProviderTwilio}
	if message.Sid != nil {
		receipt.MessageID = *message.Sid
	}
	return receipt, nil
}
