package messaging

import (
	"context"
	"strings"
)

// Dispatcher resolves a provider client per dispatch and runs request
// validation before any side effect occurs. It holds no mutable state beyond
// its immutable configuration, so independent dispatches are fully isolated.
type Dispatcher struct {
	cfg      Config
	registry *Registry
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRegistry replaces the built-in provider registry, primarily for tests.
func WithRegistry(r *Registry) DispatcherOption {
	return func(d *Dispatcher) {
		if r != nil {
			d.registry = r
		}
	}
}

// NewDispatcher constructs a Dispatcher with the built-in providers.
func NewDispatcher(cfg Config, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		registry: DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendSMS dispatches one SMS. The provider defaults to twilio.
//
// Error precedence: unsupported provider, then missing recipient, then
// missing body, all before the client is invoked.
func (d *Dispatcher) SendSMS(ctx context.Context, req SMSRequest) (Receipt, error) {
	provider := req.Provider
	if provider == "" {
		provider = DefaultSMSProvider
	}

	client, err := d.registry.SMSClient(provider, d.cfg)
	if err != nil {
		return Receipt{}, err
	}

	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		return Receipt{}, ErrMissingRecipient
	}
	if strings.TrimSpace(req.Body) == "" {
		return Receipt{}, ErrMissingContent
	}

	return client.Send(ctx, recipient, req.Body)
}

// SendEmail dispatches one email. The provider defaults to sendgrid.
//
// The validation order is part of the observable contract: a request with
// neither message nor template fails with ErrMissingContent; a request naming
// a template fails with ErrTemplateUnsupported even when a message is also
// set. Both checks run before any network call.
func (d *Dispatcher) SendEmail(ctx context.Context, req EmailRequest) (Receipt, error) {
	provider := req.Provider
	if provider == "" {
		provider = DefaultEmailProvider
	}

	client, err := d.registry.EmailClient(provider, d.cfg)
	if err != nil {
		return Receipt{}, err
	}

	if err := validateEmailRequest(req); err != nil {
		return Receipt{}, err
	}

	return client.Send(ctx, req)
}

func validateEmailRequest(req EmailRequest) error {
	if req.Message == "" && req.Template == "" {
		return ErrMissingContent
	}
	if req.Template != "" {
		return ErrTemplateUnsupported
	}
	if len(trimRecipients(req.Recipients)) == 0 {
		return ErrMissingRecipient
	}
	return nil
}

func trimRecipients(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, rcpt := range recipients {
		if trimmed := strings.TrimSpace(rcpt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
