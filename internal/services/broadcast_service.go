package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"zokoai-middleware/internal/store"
)

// Templates holds the broadcast message templates, keyed by campaign then
// language. The "promo" campaign with an "en" entry must exist; other
// languages are optional and fall back to English.
type Templates map[string]map[string]string

// LoadTemplates reads and validates the templates JSON file.
func LoadTemplates(path string) (Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates file: %w", err)
	}
	var t Templates
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parsing templates file %s: %w", path, err)
	}
	if _, ok := t["promo"]["en"]; !ok {
		return nil, fmt.Errorf("templates file %s is missing the promo.en template", path)
	}
	return t, nil
}

// BroadcastService fans a templated promotional message out to every known
// conversation. Explicit best-effort: a failed send is logged and does not
// block the remaining recipients.
type BroadcastService struct {
	store     store.Store
	messaging MessagingGateway
	templates Templates
	log       *slog.Logger
}

func NewBroadcastService(st store.Store, messaging MessagingGateway, templates Templates) *BroadcastService {
	return &BroadcastService{
		store:     st,
		messaging: messaging,
		templates: templates,
		log:       slog.With("component", "broadcast"),
	}
}

// BroadcastPromo sends the promo template to all conversations, selecting
// the template by each conversation's stored language and interpolating its
// stored name (chat id when absent). Runs synchronously to completion.
func (s *BroadcastService) BroadcastPromo(ctx context.Context) error {
	convs, err := s.store.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("listing conversations for broadcast: %w", err)
	}
	if len(convs) == 0 {
		s.log.Warn("no conversations found for broadcast")
		return nil
	}

	sent := 0
	for _, conv := range convs {
		name := conv.Name
		if name == "" {
			name = conv.ChatID
		}
		lang := conv.Language
		if lang == "" {
			lang = "en"
		}

		tmpl, ok := s.templates["promo"][lang]
		if !ok {
			tmpl = s.templates["promo"]["en"]
		}
		text := strings.ReplaceAll(tmpl, "{name}", name)

		if err := s.messaging.SendText(ctx, conv.ChatID, text); err != nil {
			s.log.Error("promo send failed, continuing",
				"chat_id", conv.ChatID, "error", err)
			continue
		}
		sent++
		s.log.Info("sent promo", "chat_id", conv.ChatID, "lang", lang)
	}
	s.log.Info("broadcast complete", "recipients", len(convs), "sent", sent)
	return nil
}
