package store

import (
	"context"
	"errors"

	"zokoai-middleware/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// Store defines the conversation history operations. This allows for
// mocking in tests and backend switching (Postgres in deployments, memory
// when no database is configured).
//
// Callers treat write and read failures as best-effort: the dispatcher logs
// them and proceeds with degraded memory rather than failing the request.
type Store interface {
	// AppendMessage appends one immutable message to chatID's history,
	// creating the conversation lazily on first use.
	AppendMessage(ctx context.Context, chatID, role, content string) error

	// UpsertConversation records conversation metadata (display name,
	// detected language). Empty fields never overwrite stored values.
	UpsertConversation(ctx context.Context, conv models.Conversation) error

	// LoadHistory returns chatID's messages in arrival order. An unknown
	// chatID yields an empty history, not ErrNotFound.
	LoadHistory(ctx context.Context, chatID string) ([]models.Message, error)

	// ListConversations returns every known conversation, for broadcast
	// fan-out.
	ListConversations(ctx context.Context) ([]models.Conversation, error)
}
