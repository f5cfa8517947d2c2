package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hypersenta/backend/internal/messaging"
	"github.com/hypersenta/backend/internal/models"
	"github.com/hypersenta/backend/pkg/logger"
	"github.com/hypersenta/backend/pkg/metrics"
)

// SendSMSInput describes one SMS dispatch request.
type SendSMSInput struct {
	Recipient string
	Body      string
	Provider  string
}

// SendEmailInput describes one email dispatch request.
type SendEmailInput struct {
	Recipients []string
	Subject    string
	Message    string
	Template   string
	Provider   string
}

// MessageService dispatches notifications through the configured providers and
// records one message log row per attempt.
type MessageService struct {
	db         *gorm.DB
	dispatcher *messaging.Dispatcher
	log        *zap.Logger
}

// NewMessageService constructs a MessageService instance.
func NewMessageService(db *gorm.DB, dispatcher *messaging.Dispatcher) (*MessageService, error) {
	if db == nil {
		return nil, errors.New("message service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("message service: dispatcher is required")
	}
	return &MessageService{
		db:         db,
		dispatcher: dispatcher,
		log:        logger.WithModule("messages"),
	}, nil
}

// SendSMS dispatches an SMS and persists the attempt outcome.
func (s *MessageService) SendSMS(ctx context.Context, input SendSMSInput) (*models.Message, error) {
	ctx = ensureContext(ctx)

	provider := messaging.DefaultSMSProvider
	if strings.TrimSpace(input.Provider) != "" {
		parsed, err := messaging.ParseProvider(input.Provider)
		if err != nil {
			return nil, err
		}
		provider = parsed
	}

	receipt, sendErr := s.dispatcher.SendSMS(ctx, messaging.SMSRequest{
		Recipient: input.Recipient,
		Body:      input.Body,
		Provider:  provider,
	})

	record := &models.Message{
		Channel:   string(messaging.ModeSMS),
		Provider:  string(provider),
		Recipient: strings.TrimSpace(input.Recipient),
		Body:      input.Body,
	}

	return s.finish(ctx, record, receipt, sendErr)
}

// SendEmail dispatches an email and persists the attempt outcome. Multiple
// recipients share one log row; the recipient column holds them comma joined.
func (s *MessageService) SendEmail(ctx context.Context, input SendEmailInput) (*models.Message, error) {
	ctx = ensureContext(ctx)

	provider := messaging.DefaultEmailProvider
	if strings.TrimSpace(input.Provider) != "" {
		parsed, err := messaging.ParseProvider(input.Provider)
		if err != nil {
			return nil, err
		}
		provider = parsed
	}

	receipt, sendErr := s.dispatcher.SendEmail(ctx, messaging.EmailRequest{
		Recipients: input.Recipients,
		Subject:    input.Subject,
		Message:    input.Message,
		Template:   input.Template,
		Provider:   provider,
	})

	record := &models.Message{
		Channel:   string(messaging.ModeEmail),
		Provider:  string(provider),
		Recipient: strings.Join(input.Recipients, ","),
		Subject:   input.Subject,
		Body:      input.Message,
	}

	return s.finish(ctx, record, receipt, sendErr)
}

// ListRecent returns the newest message log rows up to the given limit.
func (s *MessageService) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	ctx = ensureContext(ctx)

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("message service: list messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) finish(ctx context.Context, record *models.Message, receipt messaging.Receipt, sendErr error) (*models.Message, error) {
	result := "success"
	if sendErr != nil {
		result = "failure"
		record.Status = models.MessageStatusFailed
		record.Error = sendErr.Error()
	} else {
		record.Status = models.MessageStatusSent
		record.ProviderMessageID = receipt.MessageID
	}

	metrics.MessagesDispatched.WithLabelValues(record.Channel, record.Provider, result).Inc()

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		s.log.Error("persist message log",
			zap.String("channel", record.Channel),
			zap.String("provider", record.Provider),
			zap.Error(err),
		)
		if sendErr != nil {
			return nil, sendErr
		}
		return nil, fmt.Errorf("message service: persist message: %w", err)
	}

	if sendErr != nil {
		return record, sendErr
	}
	return record, nil
}
