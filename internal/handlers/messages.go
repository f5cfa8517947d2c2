package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hypersenta/backend/internal/messaging"
	"github.com/hypersenta/backend/internal/services"
	apperrors "github.com/hypersenta/backend/pkg/errors"
	"github.com/hypersenta/backend/pkg/response"
)

// MessageHandler exposes notification dispatch endpoints.
type MessageHandler struct {
	svc *services.MessageService
}

func NewMessageHandler(svc *services.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type sendSMSRequest struct {
	Recipient string `json:"recipient" validate:"required,mobile"`
	Body      string `json:"body" validate:"required,max=1600"`
	Provider  string `json:"provider" validate:"omitempty,max=32"`
}

// POST /api/messages/sms
func (h *MessageHandler) SendSMS(c *gin.Context) {
	var req sendSMSRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.svc.SendSMS(requestContext(c), services.SendSMSInput{
		Recipient: req.Recipient,
		Body:      req.Body,
		Provider:  req.Provider,
	})
	if err != nil {
		response.Error(c, messagingError(err))
		return
	}

	response.Success(c, http.StatusAccepted, record)
}

type sendEmailRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
	Subject    string   `json:"subject" validate:"omitempty,max=255"`
	Message    string   `json:"message"`
	Template   string   `json:"template"`
	Provider   string   `json:"provider" validate:"omitempty,max=32"`
}

// POST /api/messages/email
func (h *MessageHandler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.svc.SendEmail(requestContext(c), services.SendEmailInput{
		Recipients: req.Recipients,
		Subject:    req.Subject,
		Message:    req.Message,
		Template:   req.Template,
		Provider:   req.Provider,
	})
	if err != nil {
		response.Error(c, messagingError(err))
		return
	}

	response.Success(c, http.StatusAccepted, record)
}

// GET /api/messages
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.svc.ListRecent(requestContext(c), parseIntQuery(c, "limit", 100))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

// messagingError maps dispatch failures onto API error responses.
func messagingError(err error) error {
	var unsupported *messaging.UnsupportedProviderError
	if errors.As(err, &unsupported) {
		return apperrors.New("UNSUPPORTED_PROVIDER", unsupported.Error(), http.StatusBadRequest)
	}

	switch {
	case errors.Is(err, messaging.ErrMissingRecipient):
		return apperrors.NewBadRequest("at least one recipient is required")
	case errors.Is(err, messaging.ErrMissingContent):
		return apperrors.NewBadRequest("message content is required")
	case errors.Is(err, messaging.ErrTemplateUnsupported):
		return apperrors.NewBadRequest("templated messages are not supported")
	}

	var transport *messaging.TransportError
	if errors.As(err, &transport) {
		return apperrors.New("PROVIDER_UNAVAILABLE", "Message delivery failed", http.StatusBadGateway).WithInternal(err)
	}

	return err
}
