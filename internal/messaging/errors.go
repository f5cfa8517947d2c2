package messaging

import (
	"errors"
	"fmt"
)

// Validation errors, all detected before any network call.
var (
	// ErrMissingRecipient indicates no recipient was supplied.
	ErrMissingRecipient = errors.New("messaging: at least one recipient is required")

	// ErrMissingContent indicates neither a message body nor a template was
	// supplied for an email send.
	ErrMissingContent = errors.New("messaging: a message or template is required")

	// ErrTemplateUnsupported indicates a templated email was requested.
	// Dynamic templates are not implemented; callers must supply a message.
	ErrTemplateUnsupported = errors.New("messaging: dynamic email templates are not supported")
)

// UnsupportedProviderError reports a provider outside the enumerated set, or
// a (mode, provider) pairing with no implementation.
type UnsupportedProviderError struct {
	Provider string
	Mode     Mode
}

func (e *UnsupportedProviderError) Error() string {
	if e.Mode != "" {
		return fmt.Sprintf("messaging: provider %q does not support %s delivery", e.Provider, e.Mode)
	}
	return fmt.Sprintf("messaging: %q is not a supported provider", e.Provider)
}

// TransportError wraps a provider call failure so callers depend on one error
// taxonomy instead of each vendor SDK's exception surface. A transport error
// means delivery status is unknown: the provider may have accepted the
// request before the failure.
type TransportError struct {
	Provider Provider
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("messaging: %s transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
