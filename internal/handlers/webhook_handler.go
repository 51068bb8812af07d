package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/services"
	"zokoai-middleware/pkg/httputil"
)

// WebhookHandler handles inbound provider webhook events.
type WebhookHandler struct {
	conversations *services.ConversationService
	validate      *validator.Validate
	log           *slog.Logger
}

func NewWebhookHandler(cs *services.ConversationService) *WebhookHandler {
	return &WebhookHandler{
		conversations: cs,
		validate:      validator.New(),
		log:           slog.With("component", "webhook-handler"),
	}
}

// HandleZokoWebhook decodes and validates the webhook body, then hands it
// to the conversation dispatcher. Schema faults yield 422 with structured
// field errors; an empty or unusable payload yields 400; chat-completion
// exhaustion yields 502. Every processed request is acknowledged with the
// same fixed body regardless of which flow ran.
func (h *WebhookHandler) HandleZokoWebhook(w http.ResponseWriter, r *http.Request) {
	var payload models.ZokoWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn("webhook body is not valid JSON", "error", err)
		httputil.RespondError(w, http.StatusUnprocessableEntity, []models.FieldError{
			{Field: "body", Message: "invalid JSON: " + err.Error()},
		})
		return
	}

	if payload.Messages == nil {
		httputil.RespondError(w, http.StatusUnprocessableEntity, []models.FieldError{
			{Field: "messages", Message: "field is required"},
		})
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]models.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, models.FieldError{
					Field:   fe.Namespace(),
					Message: "failed validation: " + fe.Tag(),
				})
			}
			httputil.RespondError(w, http.StatusUnprocessableEntity, fields)
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.conversations.HandleWebhook(r.Context(), payload); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayload):
			h.log.Warn("invalid webhook payload", "error", err)
			httputil.RespondError(w, http.StatusBadRequest, "Invalid payload")
		case errors.Is(err, services.ErrAIUnavailable):
			h.log.Error("AI gateway unavailable", "error", err)
			httputil.RespondError(w, http.StatusBadGateway, "AI service unavailable")
		default:
			h.log.Error("webhook processing failed", "error", err)
			httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.StatusResponse{Status: "processed"})
}
