package store

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"murmur/internal/domain"
)

// OpenDB opens the SQLite message database at dsn.
func OpenDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStorage, "open message database", err)
	}
	// SQLite tolerates a single writer; more connections just contend.
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// MessageDB stores message history in SQLite through bun.
type MessageDB struct {
	db *bun.DB
}

// NewMessageDB returns a MessageDB backed by db.
func NewMessageDB(db *bun.DB) *MessageDB {
	return &MessageDB{db: db}
}

// Init creates the messages table when missing.
func (s *MessageDB) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*domain.Message)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "create messages table", err)
	}
	return nil
}

// Insert persists msg. Inserting an id that already exists is a silent
// no-op, so redelivered messages never clobber the first write.
func (s *MessageDB) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := s.db.NewInsert().
		Model(msg).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "insert message", err)
	}
	return nil
}

// ByConversation returns the conversation's messages ascending by timestamp.
func (s *MessageDB) ByConversation(ctx context.Context, id domain.ConversationID) ([]domain.Message, error) {
	var msgs []domain.Message
	err := s.db.NewSelect().
		Model(&msgs).
		Where("conversation_id = ?", id).
		Order("timestamp ASC", "created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.CodeStorage, "load conversation", err)
	}
	return msgs, nil
}

// MarkRead stamps readAt on every unread message in the conversation.
// Already-read messages keep their original timestamp.
func (s *MessageDB) MarkRead(ctx context.Context, id domain.ConversationID, at int64) error {
	_, err := s.db.NewUpdate().
		Model((*domain.Message)(nil)).
		Set("read_at = ?", at).
		Where("conversation_id = ?", id).
		Where("read_at IS NULL").
		Exec(ctx)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "mark conversation read", err)
	}
	return nil
}

// UpdateStatus advances the delivery status of a single message.
func (s *MessageDB) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	_, err := s.db.NewUpdate().
		Model((*domain.Message)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "update message status", err)
	}
	return nil
}

// Delete removes a single message by id.
func (s *MessageDB) Delete(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Model((*domain.Message)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "delete message", err)
	}
	return nil
}

// DeleteConversation removes every message in the conversation.
func (s *MessageDB) DeleteConversation(ctx context.Context, id domain.ConversationID) error {
	_, err := s.db.NewDelete().
		Model((*domain.Message)(nil)).
		Where("conversation_id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "delete conversation", err)
	}
	return nil
}

// Compile-time assertion that MessageDB implements domain.MessageStore.
var _ domain.MessageStore = (*MessageDB)(nil)
