package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MessageRow is a message record as stored; attachments are JSON-encoded
type MessageRow struct {
	ID          string
	ThreadID    string
	Content     string
	Sender      string
	Kind        string
	Attachments string
	CreatedAt   int64
	Seq         int64
}

// MessageStore handles message persistence keyed by thread
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore creates a new message store from a base store
func NewMessageStore(store *Store) *MessageStore {
	if store == nil {
		return nil
	}
	return &MessageStore{db: store.DB()}
}

// AppendMessage appends a message at the end of its thread's sequence
func (ms *MessageStore) AppendMessage(ctx context.Context, row MessageRow) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	if strings.TrimSpace(row.ID) == "" || strings.TrimSpace(row.ThreadID) == "" {
		return fmt.Errorf("invalid message inputs")
	}
	attachments := row.Attachments
	if attachments == "" {
		attachments = "[]"
	}
	_, err := ms.db.ExecContext(ctx, `INSERT INTO messages(id, thread_id, content, sender, kind, attachments, created_at, seq)
VALUES(?,?,?,?,?,?,?, COALESCE((SELECT MAX(seq)+1 FROM messages WHERE thread_id=?), 1));
`, row.ID, row.ThreadID, row.Content, row.Sender, row.Kind, attachments, row.CreatedAt, row.ThreadID)
	return err
}

// GetMessage returns a message by id, sql.ErrNoRows when absent
func (ms *MessageStore) GetMessage(ctx context.Context, id string) (*MessageRow, error) {
	if ms == nil || ms.db == nil {
		return nil, fmt.Errorf("message store not initialized")
	}
	var row MessageRow
	err := ms.db.QueryRowContext(ctx,
		`SELECT id, thread_id, content, sender, kind, attachments, created_at, seq FROM messages WHERE id=?`, id).
		Scan(&row.ID, &row.ThreadID, &row.Content, &row.Sender, &row.Kind, &row.Attachments, &row.CreatedAt, &row.Seq)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByThread returns a thread's messages in insertion order
func (ms *MessageStore) ListByThread(ctx context.Context, threadID string) ([]MessageRow, error) {
	if ms == nil || ms.db == nil {
		return nil, fmt.Errorf("message store not initialized")
	}
	rows, err := ms.db.QueryContext(ctx,
		`SELECT id, thread_id, content, sender, kind, attachments, created_at, seq FROM messages WHERE thread_id=? ORDER BY seq ASC`,
		threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MessageRow
	for rows.Next() {
		var row MessageRow
		if err := rows.Scan(&row.ID, &row.ThreadID, &row.Content, &row.Sender, &row.Kind, &row.Attachments, &row.CreatedAt, &row.Seq); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteByThread removes all messages belonging to a thread
func (ms *MessageStore) DeleteByThread(ctx context.Context, threadID string) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	_, err := ms.db.ExecContext(ctx, `DELETE FROM messages WHERE thread_id=?`, threadID)
	return err
}

// SaveFeedback upserts an out-of-band rating for a message
func (ms *MessageStore) SaveFeedback(ctx context.Context, messageID string, rating int, updatedAt int64) error {
	if ms == nil || ms.db == nil {
		return fmt.Errorf("message store not initialized")
	}
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("invalid feedback inputs")
	}
	_, err := ms.db.ExecContext(ctx, `INSERT INTO message_feedback(message_id, rating, updated_at)
VALUES(?,?,?)
ON CONFLICT(message_id) DO UPDATE SET rating=excluded.rating, updated_at=excluded.updated_at;
`, messageID, rating, updatedAt)
	return err
}

// LoadFeedback returns the stored rating for a message, 0 when none
func (ms *MessageStore) LoadFeedback(ctx context.Context, messageID string) (int, error) {
	if ms == nil || ms.db == nil {
		return 0, fmt.Errorf("message store not initialized")
	}
	var rating int
	err := ms.db.QueryRowContext(ctx, `SELECT rating FROM message_feedback WHERE message_id=?`, messageID).Scan(&rating)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rating, nil
}
