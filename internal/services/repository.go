package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mindvault/mindvault/internal/db"
)

// SQLThreadRepository implements ThreadRepository over the SQLite store
type SQLThreadRepository struct {
	store *db.ThreadStore
}

// NewSQLThreadRepository creates a thread repository backed by SQLite
func NewSQLThreadRepository(store *db.Store) *SQLThreadRepository {
	return &SQLThreadRepository{store: db.NewThreadStore(store)}
}

func (r *SQLThreadRepository) List(ctx context.Context) ([]*ChatThread, error) {
	rows, err := r.store.ListThreads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	threads := make([]*ChatThread, 0, len(rows))
	for _, row := range rows {
		threads = append(threads, threadFromRow(row))
	}
	return threads, nil
}

func (r *SQLThreadRepository) Get(ctx context.Context, id string) (*ChatThread, error) {
	row, err := r.store.GetThread(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", id, err)
	}
	return threadFromRow(*row), nil
}

func (r *SQLThreadRepository) Create(ctx context.Context, thread *ChatThread) error {
	err := r.store.InsertThread(ctx, db.ThreadRow{
		ID:        thread.ID,
		Title:     thread.Title,
		Preview:   thread.LastMessagePreview,
		CreatedAt: thread.CreatedAt.Unix(),
		UpdatedAt: thread.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

func (r *SQLThreadRepository) Update(ctx context.Context, thread *ChatThread) error {
	err := r.store.UpdateThread(ctx, thread.ID, thread.Title, thread.LastMessagePreview, thread.UpdatedAt.Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update thread %s: %w", thread.ID, err)
	}
	return nil
}

func (r *SQLThreadRepository) Delete(ctx context.Context, id string) error {
	err := r.store.DeleteThread(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", id, err)
	}
	return nil
}

func threadFromRow(row db.ThreadRow) *ChatThread {
	return &ChatThread{
		ID:                 row.ID,
		Title:              row.Title,
		LastMessagePreview: row.Preview,
		CreatedAt:          time.Unix(row.CreatedAt, 0),
		UpdatedAt:          time.Unix(row.UpdatedAt, 0),
	}
}

// SQLMessageRepository implements MessageRepository over the SQLite store
type SQLMessageRepository struct {
	store *db.MessageStore
}

// NewSQLMessageRepository creates a message repository backed by SQLite
func NewSQLMessageRepository(store *db.Store) *SQLMessageRepository {
	return &SQLMessageRepository{store: db.NewMessageStore(store)}
}

func (r *SQLMessageRepository) ListByThread(ctx context.Context, threadID string) ([]*Message, error) {
	rows, err := r.store.ListByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	messages := make([]*Message, 0, len(rows))
	for _, row := range rows {
		msg, err := messageFromRow(row)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *SQLMessageRepository) Get(ctx context.Context, id string) (*Message, error) {
	row, err := r.store.GetMessage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return messageFromRow(*row)
}

func (r *SQLMessageRepository) Append(ctx context.Context, message *Message) error {
	attachments, err := json.Marshal(message.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}
	err = r.store.AppendMessage(ctx, db.MessageRow{
		ID:          message.ID,
		ThreadID:    message.ThreadID,
		Content:     message.Content,
		Sender:      string(message.Sender),
		Kind:        string(message.Kind),
		Attachments: string(attachments),
		CreatedAt:   message.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (r *SQLMessageRepository) DeleteByThread(ctx context.Context, threadID string) error {
	if err := r.store.DeleteByThread(ctx, threadID); err != nil {
		return fmt.Errorf("failed to delete messages for thread %s: %w", threadID, err)
	}
	return nil
}

func (r *SQLMessageRepository) SaveFeedback(ctx context.Context, messageID string, rating FeedbackRating) error {
	if err := r.store.SaveFeedback(ctx, messageID, int(rating), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

func (r *SQLMessageRepository) GetFeedback(ctx context.Context, messageID string) (FeedbackRating, error) {
	rating, err := r.store.LoadFeedback(ctx, messageID)
	if err != nil {
		return FeedbackNone, fmt.Errorf("failed to load feedback: %w", err)
	}
	return FeedbackRating(rating), nil
}

func messageFromRow(row db.MessageRow) (*Message, error) {
	var attachments []Attachment
	if row.Attachments != "" && row.Attachments != "[]" {
		if err := json.Unmarshal([]byte(row.Attachments), &attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments for message %s: %w", row.ID, err)
		}
	}
	return &Message{
		ID:          row.ID,
		ThreadID:    row.ThreadID,
		Content:     row.Content,
		Sender:      Sender(row.Sender),
		Kind:        MessageKind(row.Kind),
		Attachments: attachments,
		CreatedAt:   time.Unix(row.CreatedAt, 0),
	}, nil
}

// SQLAccountRepository implements AccountRepository over the SQLite store
type SQLAccountRepository struct {
	store *db.AccountStore
}

// NewSQLAccountRepository creates an account repository backed by SQLite
func NewSQLAccountRepository(store *db.Store) *SQLAccountRepository {
	return &SQLAccountRepository{store: db.NewAccountStore(store)}
}

func (r *SQLAccountRepository) List(ctx context.Context) ([]*EmailAccount, error) {
	rows, err := r.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts := make([]*EmailAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, accountFromRow(row))
	}
	return accounts, nil
}

func (r *SQLAccountRepository) Get(ctx context.Context, id string) (*EmailAccount, error) {
	row, err := r.store.GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return accountFromRow(*row), nil
}

func (r *SQLAccountRepository) Create(ctx context.Context, account *EmailAccount) error {
	if err := r.store.InsertAccount(ctx, accountToRow(account)); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *SQLAccountRepository) Update(ctx context.Context, account *EmailAccount) error {
	err := r.store.UpdateAccount(ctx, accountToRow(account))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, err)
	}
	return nil
}

func (r *SQLAccountRepository) Delete(ctx context.Context, id string) error {
	err := r.store.DeleteAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}

func accountFromRow(row db.AccountRow) *EmailAccount {
	var lastSync time.Time
	if row.LastSyncAt > 0 {
		lastSync = time.Unix(row.LastSyncAt, 0)
	}
	return &EmailAccount{
		ID:            row.ID,
		Email:         row.Email,
		Provider:      Provider(row.Provider),
		DisplayName:   row.DisplayName,
		SyncFrequency: SyncFrequency(row.SyncFrequency),
		LastSyncAt:    lastSync,
		IsActive:      row.IsActive,
		Status:        AccountStatus(row.Status),
	}
}

func accountToRow(account *EmailAccount) db.AccountRow {
	var lastSync int64
	if !account.LastSyncAt.IsZero() {
		lastSync = account.LastSyncAt.Unix()
	}
	return db.AccountRow{
		ID:            account.ID,
		Email:         account.Email,
		Provider:      string(account.Provider),
		DisplayName:   account.DisplayName,
		SyncFrequency: string(account.SyncFrequency),
		LastSyncAt:    lastSync,
		IsActive:      account.IsActive,
		Status:        string(account.Status),
	}
}
