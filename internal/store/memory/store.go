// Package memory provides an in-process history store. It backs the service
// when no DATABASE_URL is configured (degraded mode: conversations do not
// survive a restart) and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/store"
)

// Compile-time check to ensure MemoryStore implements store.Store.
var _ store.Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]models.Message
	convs    map[string]models.Conversation
	order    []string
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string][]models.Message),
		convs:    make(map[string]models.Conversation),
		now:      time.Now,
	}
}

// SetClock overrides the store's time source. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// UpsertConversation records conversation metadata. Empty incoming fields
// keep whatever is already stored.
func (s *MemoryStore) UpsertConversation(_ context.Context, conv models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.convs[conv.ChatID]
	if !ok {
		s.order = append(s.order, conv.ChatID)
		existing = models.Conversation{ChatID: conv.ChatID}
	}
	if conv.Name != "" {
		existing.Name = conv.Name
	}
	if conv.Language != "" {
		existing.Language = conv.Language
	}
	s.convs[conv.ChatID] = existing
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, chatID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[chatID]; !ok {
		s.convs[chatID] = models.Conversation{ChatID: chatID}
		s.order = append(s.order, chatID)
	}
	s.messages[chatID] = append(s.messages[chatID], models.Message{
		Role:      role,
		Content:   content,
		Timestamp: float64(s.now().UnixNano()) / float64(time.Second),
	})
	return nil
}

func (s *MemoryStore) LoadHistory(_ context.Context, chatID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]models.Message, len(s.messages[chatID]))
	copy(history, s.messages[chatID])
	return history, nil
}

func (s *MemoryStore) ListConversations(_ context.Context) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	convs := make([]models.Conversation, 0, len(s.order))
	for _, id := range s.order {
		convs = append(convs, s.convs[id])
	}
	return convs, nil
}
