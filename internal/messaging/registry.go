package messaging

import (
	"errors"
	"fmt"
	"sync"
)

// ErrProviderExists is returned when a (mode, provider) pair is registered twice.
var ErrProviderExists = errors.New("messaging registry: provider already registered")

// SMSFactory builds an SMS client from configuration.
type SMSFactory func(cfg Config) (SMSClient, error)

// EmailFactory builds an email client from configuration.
type EmailFactory func(cfg Config) (EmailClient, error)

// Registry maps (mode, provider) pairs onto client factories. Adding a
// provider is a registration, not an edit to a dispatch conditional.
type Registry struct {
	mu    sync.RWMutex
	sms   map[Provider]SMSFactory
	email map[Provider]EmailFactory
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sms:   make(map[Provider]SMSFactory),
		email: make(map[Provider]EmailFactory),
	}
}

// RegisterSMS adds an SMS client factory for the provider.
func (r *Registry) RegisterSMS(provider Provider, factory SMSFactory) error {
	if factory == nil {
		return errors.New("messaging registry: sms factory is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sms[provider]; exists {
		return fmt.Errorf("%w: sms/%s", ErrProviderExists, provider)
	}
	r.sms[provider] = factory
	return nil
}

// RegisterEmail adds an email client factory for the provider.
func (r *Registry) RegisterEmail(provider Provider, factory EmailFactory) error {
	if factory == nil {
		return errors.New("messaging registry: email factory is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.email[provider]; exists {
		return fmt.Errorf("%w: email/%s", ErrProviderExists, provider)
	}
	r.email[provider] = factory
	return nil
}

// SMSClient instantiates the SMS client registered for the provider.
func (r *Registry) SMSClient(provider Provider, cfg Config) (SMSClient, error) {
	r.mu.RLock()
	factory, ok := r.sms[provider]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnsupportedProviderError{Provider: string(provider), Mode: ModeSMS}
	}
	return factory(cfg)
}

// EmailClient instantiates the email client registered for the provider.
func (r *Registry) EmailClient(provider Provider, cfg Config) (EmailClient, error) {
	r.mu.RLock()
	factory, ok := r.email[provider]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnsupportedProviderError{Provider: string(provider), Mode: ModeEmail}
	}
	return factory(cfg)
}

// DefaultRegistry returns a registry with the built-in provider clients.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Registrations over a fresh registry cannot collide.
	_ = r.RegisterSMS(ProviderTwilio, newTwilioSMSClient)
	_ = r.RegisterEmail(ProviderSendGrid, newSendGridEmailClient)
	_ = r.RegisterEmail(ProviderMailgun, newMailgunEmailClient)
	return r
}
