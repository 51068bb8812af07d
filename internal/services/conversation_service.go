package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/retry"
	"zokoai-middleware/internal/store"
)

// Sentinel errors the webhook handler maps onto HTTP statuses.
var (
	// ErrInvalidPayload marks a webhook body that decoded but cannot be
	// processed (no messages, missing sender, empty text). Maps to 400.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrAIUnavailable marks an exhausted chat-completion retry budget.
	// Maps to 502.
	ErrAIUnavailable = errors.New("AI service unavailable")
)

// MessagingGateway delivers messages to end users.
type MessagingGateway interface {
	SendText(ctx context.Context, chatID, text string) error
	SendCarousel(ctx context.Context, chatID string, carousel models.Carousel) error
}

// CatalogGateway returns product listings.
type CatalogGateway interface {
	FetchProducts(ctx context.Context, limit int) ([]models.Product, error)
}

// LanguageGateway performs chat completion, translation and keyword
// extraction.
type LanguageGateway interface {
	ChatComplete(ctx context.Context, history []models.Message) (string, error)
	Translate(ctx context.Context, text, targetLang string) (string, error)
	ExtractKeywords(ctx context.Context, text string) ([]string, error)
}

// LanguageDetector classifies text into a language code, falling back to
// "en" on any failure.
type LanguageDetector interface {
	Detect(text string) string
}

const (
	catalogFetchLimit   = 20
	carouselPlaceholder = "<sent carousel>"
)

// ConversationService is the dispatcher behind the webhook endpoint: it
// validates the inbound payload, normalizes the text to English, persists
// the exchange and routes it to the recommendation or the chat flow.
type ConversationService struct {
	store     store.Store
	messaging MessagingGateway
	catalog   CatalogGateway
	language  LanguageGateway
	detector  LanguageDetector
	retry     retry.Policy
	storeName string
	log       *slog.Logger
	now       func() time.Time
}

func NewConversationService(
	st store.Store,
	messaging MessagingGateway,
	catalog CatalogGateway,
	language LanguageGateway,
	detector LanguageDetector,
	retryPolicy retry.Policy,
	storeName string,
) *ConversationService {
	return &ConversationService{
		store:     st,
		messaging: messaging,
		catalog:   catalog,
		language:  language,
		detector:  detector,
		retry:     retryPolicy,
		storeName: storeName,
		log:       slog.With("component", "conversation"),
		now:       time.Now,
	}
}

// HandleWebhook processes one inbound webhook call. Only the first message
// of a multi-message payload is consumed; the rest are ignored.
//
// Storage and outbound delivery failures are logged and swallowed
// (availability over durability); chat-completion exhaustion and payload
// problems surface as ErrAIUnavailable / ErrInvalidPayload.
func (s *ConversationService) HandleWebhook(ctx context.Context, payload models.ZokoWebhookPayload) error {
	if len(payload.Messages) == 0 {
		return fmt.Errorf("empty messages array: %w", ErrInvalidPayload)
	}
	if len(payload.Messages) > 1 {
		s.log.Debug("multi-message payload, processing first message only",
			"dropped", len(payload.Messages)-1)
	}

	msg := payload.Messages[0]
	chatID, text := msg.From, msg.Text.Body
	if chatID == "" || strings.TrimSpace(text) == "" {
		return fmt.Errorf("missing sender or text body: %w", ErrInvalidPayload)
	}

	lang := s.detector.Detect(text)

	// Normalize to English: history and routing always see English text.
	textEn := text
	if lang != "en" {
		translated, err := s.language.Translate(ctx, text, "en")
		if err != nil {
			s.log.Warn("inbound translation failed, using raw text",
				"chat_id", chatID, "lang", lang, "error", err)
		} else {
			textEn = translated
		}
	}
	s.log.Info("webhook message received", "chat_id", chatID, "lang", lang)

	if err := s.store.UpsertConversation(ctx, models.Conversation{ChatID: chatID, Language: lang}); err != nil {
		s.log.Error("recording conversation language failed, continuing",
			"chat_id", chatID, "error", err)
	}
	if err := s.store.AppendMessage(ctx, chatID, models.RoleUser, textEn); err != nil {
		s.log.Error("persisting inbound message failed, continuing",
			"chat_id", chatID, "error", err)
	}

	if strings.HasPrefix(strings.ToLower(textEn), "recommend") {
		return s.handleRecommendation(ctx, chatID, textEn)
	}
	return s.handleChat(ctx, chatID, textEn, lang)
}

func (s *ConversationService) handleRecommendation(ctx context.Context, chatID, textEn string) error {
	keywords, err := s.language.ExtractKeywords(ctx, textEn)
	if err != nil {
		return fmt.Errorf("extracting keywords: %w", err)
	}
	s.log.Info("extracted keywords", "chat_id", chatID, "keywords", keywords)

	products, err := s.catalog.FetchProducts(ctx, catalogFetchLimit)
	if err != nil {
		s.log.Error("catalog fetch failed, recommending from empty list",
			"chat_id", chatID, "error", err)
		products = nil
	}

	recs := FilterProducts(products, keywords)
	carousel := BuildCarousel(recs, s.storeName)
	if err := s.messaging.SendCarousel(ctx, chatID, carousel); err != nil {
		s.log.Error("sending carousel failed", "chat_id", chatID, "error", err)
	}

	if err := s.store.AppendMessage(ctx, chatID, models.RoleAssistant, carouselPlaceholder); err != nil {
		s.log.Error("persisting carousel placeholder failed", "chat_id", chatID, "error", err)
	}
	s.log.Info("sent carousel", "chat_id", chatID, "products", len(carousel.Elements))
	return nil
}

func (s *ConversationService) handleChat(ctx context.Context, chatID, textEn, lang string) error {
	history, err := s.store.LoadHistory(ctx, chatID)
	if err != nil {
		s.log.Error("loading history failed, continuing with empty history",
			"chat_id", chatID, "error", err)
		history = nil
	}
	history = append(history, models.Message{
		Role:      models.RoleUser,
		Content:   textEn,
		Timestamp: float64(s.now().UnixNano()) / float64(time.Second),
	})

	var replyEn string
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		var opErr error
		replyEn, opErr = s.language.ChatComplete(ctx, history)
		return opErr
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAIUnavailable, err)
	}

	reply := replyEn
	if lang != "en" {
		translated, err := s.language.Translate(ctx, replyEn, lang)
		if err != nil {
			s.log.Warn("outbound translation failed, sending English reply",
				"chat_id", chatID, "lang", lang, "error", err)
		} else {
			reply = translated
		}
	}

	if err := s.store.AppendMessage(ctx, chatID, models.RoleAssistant, reply); err != nil {
		s.log.Error("persisting reply failed", "chat_id", chatID, "error", err)
	}
	if err := s.messaging.SendText(ctx, chatID, reply); err != nil {
		s.log.Error("sending reply failed", "chat_id", chatID, "error", err)
	}
	s.log.Info("sent reply", "chat_id", chatID, "lang", lang)
	return nil
}
