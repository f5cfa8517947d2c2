// Package messaging routes outbound SMS and email through third-party
// providers. Callers pick a delivery mode and optionally a provider; the
// package validates the request for that combination, performs a single
// synchronous provider call, and normalizes the outcome into a Receipt or a
// classified error. No retries or backoff happen here; transport failures mean
// delivery status unknown and retrying is a caller decision.
package messaging

import (
	"context"
	"strings"
)

// Provider identifies a third-party messaging vendor.
type Provider string

// Enumerated providers.
const (
	ProviderTwilio   Provider = "twilio"
	ProviderSendGrid Provider = "sendgrid"
	ProviderMailgun  Provider = "mailgun"
)

// Mode selects the delivery channel for a dispatch.
type Mode string

// Delivery modes.
const (
	ModeSMS   Mode = "sms"
	ModeEmail Mode = "email"
)

// Default providers per mode. These defaults are part of the package contract.
const (
	DefaultSMSProvider   = ProviderTwilio
	DefaultEmailProvider = ProviderSendGrid
)

// ParseProvider maps a provider string onto the enumerated set.
func ParseProvider(raw string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderTwilio:
		return ProviderTwilio, nil
	case ProviderSendGrid:
		return ProviderSendGrid, nil
	case ProviderMailgun:
		return ProviderMailgun, nil
	default:
		return "", &UnsupportedProviderError{Provider: raw}
	}
}

// Receipt is the normalized result of a successful dispatch.
type Receipt struct {
	Provider   Provider `json:"provider"`
	MessageID  string   `json:"message_id,omitempty"`
	StatusCode int      `json:"status_code,omitempty"`
}

// SMSRequest describes a single SMS dispatch.
type SMSRequest struct {
	Recipient string
	Body      string
	// Provider overrides the default SMS provider when set.
	Provider Provider
}

// EmailRequest describes a single email dispatch.
type EmailRequest struct {
	Recipients []string
	Subject    string
	// Message is the HTML body. Either Message or Template must be supplied.
	Message string
	// Template selects a provider-side template. Templated email is not
	// implemented; any non-empty value is rejected at validation time.
	Template     string
	TemplateVars map[string]any
	// Provider overrides the default email provider when set.
	Provider Provider
}

// SMSClient delivers a single SMS per call.
type SMSClient interface {
	Send(ctx context.Context, recipient, body string) (Receipt, error)
}

// EmailClient delivers a single email per call. Implementations may assume
// the request already passed validateEmailRequest.
type EmailClient interface {
	Send(ctx context.Context, req EmailRequest) (Receipt, error)
}

// SendSMS dispatches one SMS with the default provider unless the request
// overrides it.
func SendSMS(ctx context.Context, cfg Config, req SMSRequest) (Receipt, error) {
	return NewDispatcher(cfg).SendSMS(ctx, req)
}

// SendEmail dispatches one email with the default provider unless the request
// overrides it.
func SendEmail(ctx context.Context, cfg Config, req EmailRequest) (Receipt, error) {
	return NewDispatcher(cfg).SendEmail(ctx, req)
}
