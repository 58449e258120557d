package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		dbPath      string
		expectedErr string
	}{
		{"empty_path", "", "empty database path"},
		{"whitespace_path", "   ", "empty database path"},
		{"tabs_path", "\t\t", "empty database path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.dbPath)
			assert.Nil(t, store)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestOpen_Success(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "mindvault.db")

	store, err := Open(ctx, dbPath)
	assert.NoError(t, err)
	assert.NotNil(t, store)
	assert.NotNil(t, store.db)

	assert.NoError(t, store.Close())
}

func TestThreadStore_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	ts := NewThreadStore(openTestStore(t))

	for i, id := range []string{"t1", "t2", "t3"} {
		err := ts.InsertThread(ctx, ThreadRow{
			ID:        id,
			Title:     "Thread " + id,
			CreatedAt: int64(100 + i),
			UpdatedAt: int64(100 + i),
		})
		require.NoError(t, err)
	}

	rows, err := ts.ListThreads(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "t1", rows[0].ID)
	assert.Equal(t, "t2", rows[1].ID)
	assert.Equal(t, "t3", rows[2].ID)
}

func TestThreadStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	ts := NewThreadStore(openTestStore(t))

	require.NoError(t, ts.InsertThread(ctx, ThreadRow{ID: "t1", Title: "Old", CreatedAt: 1, UpdatedAt: 1}))

	err := ts.UpdateThread(ctx, "t1", "New", "last words", 42)
	require.NoError(t, err)

	row, err := ts.GetThread(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "New", row.Title)
	assert.Equal(t, "last words", row.Preview)
	assert.Equal(t, int64(42), row.UpdatedAt)

	// Updating or deleting unknown ids reports no rows
	assert.Equal(t, sql.ErrNoRows, ts.UpdateThread(ctx, "nope", "x", "y", 1))
	assert.Equal(t, sql.ErrNoRows, ts.DeleteThread(ctx, "nope"))

	require.NoError(t, ts.DeleteThread(ctx, "t1"))
	_, err = ts.GetThread(ctx, "t1")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestMessageStore_PerThreadOrdering(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	ts := NewThreadStore(store)
	ms := NewMessageStore(store)

	require.NoError(t, ts.InsertThread(ctx, ThreadRow{ID: "t1", Title: "A", CreatedAt: 1, UpdatedAt: 1}))
	require.NoError(t, ts.InsertThread(ctx, ThreadRow{ID: "t2", Title: "B", CreatedAt: 2, UpdatedAt: 2}))

	require.NoError(t, ms.AppendMessage(ctx, MessageRow{ID: "m1", ThreadID: "t1", Content: "hi", Sender: "user", Kind: "text", CreatedAt: 10}))
	require.NoError(t, ms.AppendMessage(ctx, MessageRow{ID: "m2", ThreadID: "t2", Content: "other", Sender: "user", Kind: "text", CreatedAt: 11}))
	require.NoError(t, ms.AppendMessage(ctx, MessageRow{ID: "m3", ThreadID: "t1", Content: "reply", Sender: "ai", Kind: "text", CreatedAt: 12}))

	rows, err := ms.ListByThread(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m1", rows[0].ID)
	assert.Equal(t, "m3", rows[1].ID)
	assert.Equal(t, int64(1), rows[0].Seq)
	assert.Equal(t, int64(2), rows[1].Seq)

	// Sequences are per thread
	other, err := ms.ListByThread(ctx, "t2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, int64(1), other[0].Seq)
}

func TestMessageStore_DeleteByThread(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	ts := NewThreadStore(store)
	ms := NewMessageStore(store)

	require.NoError(t, ts.InsertThread(ctx, ThreadRow{ID: "t1", Title: "A", CreatedAt: 1, UpdatedAt: 1}))
	require.NoError(t, ms.AppendMessage(ctx, MessageRow{ID: "m1", ThreadID: "t1", Content: "hi", Sender: "user", Kind: "text", CreatedAt: 10}))

	require.NoError(t, ms.DeleteByThread(ctx, "t1"))

	rows, err := ms.ListByThread(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMessageStore_Feedback(t *testing.T) {
	ctx := context.Background()
	ms := NewMessageStore(openTestStore(t))

	rating, err := ms.LoadFeedback(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, rating)

	require.NoError(t, ms.SaveFeedback(ctx, "m1", 1, 100))
	rating, err = ms.LoadFeedback(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, rating)

	// Upsert replaces the rating
	require.NoError(t, ms.SaveFeedback(ctx, "m1", 2, 101))
	rating, err = ms.LoadFeedback(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, rating)
}

func TestAccountStore_CRUD(t *testing.T) {
	ctx := context.Background()
	as := NewAccountStore(openTestStore(t))

	row := AccountRow{
		ID:            "a1",
		Email:         "john.doe@gmail.com",
		Provider:      "gmail",
		DisplayName:   "Personal Gmail",
		SyncFrequency: "15min",
		IsActive:      true,
		Status:        "connected",
	}
	require.NoError(t, as.InsertAccount(ctx, row))

	got, err := as.GetAccount(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "john.doe@gmail.com", got.Email)
	assert.True(t, got.IsActive)

	got.SyncFrequency = "daily"
	got.IsActive = false
	require.NoError(t, as.UpdateAccount(ctx, *got))

	got, err = as.GetAccount(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "daily", got.SyncFrequency)
	assert.False(t, got.IsActive)

	assert.Equal(t, sql.ErrNoRows, as.DeleteAccount(ctx, "missing"))
	require.NoError(t, as.DeleteAccount(ctx, "a1"))

	rows, err := as.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAccountStore_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	as := NewAccountStore(openTestStore(t))

	err := as.InsertAccount(ctx, AccountRow{ID: "", Email: "x@y.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account inputs")

	err = as.InsertAccount(ctx, AccountRow{ID: "a1", Email: "   "})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account inputs")
}
