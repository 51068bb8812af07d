package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"zokoai-middleware/internal/models"
	"zokoai-middleware/internal/store"
)

// Compile-time check to ensure PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: slog.With("component", "postgres-store"),
	}
}

// EnsureSchema creates the conversation tables when they do not exist yet.
// Called once at startup; idempotent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS conversations (
			chat_id    TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			language   TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS messages (
			id      UUID PRIMARY KEY,
			chat_id TEXT NOT NULL REFERENCES conversations(chat_id),
			role    TEXT NOT NULL,
			content TEXT NOT NULL,
			ts      DOUBLE PRECISION NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_chat_ts ON messages (chat_id, ts);`

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// AppendMessage inserts one message, creating the conversation row lazily.
func (s *PostgresStore) AppendMessage(ctx context.Context, chatID, role, content string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("database error starting append: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO conversations (chat_id)
		VALUES ($1)
		ON CONFLICT (chat_id) DO NOTHING`, chatID)
	if err != nil {
		return s.wrapPgError("AppendMessage: upsert conversation", chatID, err)
	}

	ts := float64(time.Now().UnixNano()) / float64(time.Second)
	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, chat_id, role, content, ts)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), chatID, role, content, ts)
	if err != nil {
		return s.wrapPgError("AppendMessage: insert message", chatID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("database error committing append for %s: %w", chatID, err)
	}
	return nil
}

// UpsertConversation records conversation metadata. Empty incoming fields
// keep the stored values.
func (s *PostgresStore) UpsertConversation(ctx context.Context, conv models.Conversation) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO conversations (chat_id, name, language)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE SET
			name     = COALESCE(NULLIF(EXCLUDED.name, ''), conversations.name),
			language = COALESCE(NULLIF(EXCLUDED.language, ''), conversations.language)`,
		conv.ChatID, conv.Name, conv.Language)
	if err != nil {
		return s.wrapPgError("UpsertConversation", conv.ChatID, err)
	}
	return nil
}

// LoadHistory returns chatID's messages in arrival order. Unknown chat ids
// yield an empty history.
func (s *PostgresStore) LoadHistory(ctx context.Context, chatID string) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT role, content, ts
		FROM messages
		WHERE chat_id = $1
		ORDER BY ts ASC`, chatID)
	if err != nil {
		return nil, s.wrapPgError("LoadHistory", chatID, err)
	}
	defer rows.Close()

	var history []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("database error scanning message for %s: %w", chatID, err)
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error reading history for %s: %w", chatID, err)
	}
	return history, nil
}

// ListConversations returns every known conversation.
func (s *PostgresStore) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT chat_id, name, language
		FROM conversations
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, s.wrapPgError("ListConversations", "", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ChatID, &c.Name, &c.Language); err != nil {
			return nil, fmt.Errorf("database error scanning conversation: %w", err)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error listing conversations: %w", err)
	}
	return convs, nil
}

func (s *PostgresStore) wrapPgError(op, chatID string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		s.log.Error("postgres error",
			"op", op, "chat_id", chatID,
			"code", pgErr.Code, "message", pgErr.Message)
	} else {
		s.log.Error("database error", "op", op, "chat_id", chatID, "error", err)
	}
	return fmt.Errorf("database error in %s: %w", op, err)
}
