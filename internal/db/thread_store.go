package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ThreadRow is a thread record as stored
type ThreadRow struct {
	ID        string
	Title     string
	Preview   string
	CreatedAt int64
	UpdatedAt int64
	Seq       int64
}

// ThreadStore handles chat thread persistence
type ThreadStore struct {
	db *sql.DB
}

// NewThreadStore creates a new thread store from a base store
func NewThreadStore(store *Store) *ThreadStore {
	if store == nil {
		return nil
	}
	return &ThreadStore{db: store.DB()}
}

// InsertThread appends a thread at the end of the collection order
func (ts *ThreadStore) InsertThread(ctx context.Context, row ThreadRow) error {
	if ts == nil || ts.db == nil {
		return fmt.Errorf("thread store not initialized")
	}
	if strings.TrimSpace(row.ID) == "" {
		return fmt.Errorf("invalid thread inputs")
	}
	_, err := ts.db.ExecContext(ctx, `INSERT INTO threads(id, title, preview, created_at, updated_at, seq)
VALUES(?,?,?,?,?, COALESCE((SELECT MAX(seq)+1 FROM threads), 1));
`, row.ID, row.Title, row.Preview, row.CreatedAt, row.UpdatedAt)
	return err
}

// UpdateThread updates title, preview and update timestamp of a thread
func (ts *ThreadStore) UpdateThread(ctx context.Context, id, title, preview string, updatedAt int64) error {
	if ts == nil || ts.db == nil {
		return fmt.Errorf("thread store not initialized")
	}
	res, err := ts.db.ExecContext(ctx, `UPDATE threads SET title=?, preview=?, updated_at=? WHERE id=?`,
		title, preview, updatedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetThread returns a thread by id, sql.ErrNoRows when absent
func (ts *ThreadStore) GetThread(ctx context.Context, id string) (*ThreadRow, error) {
	if ts == nil || ts.db == nil {
		return nil, fmt.Errorf("thread store not initialized")
	}
	var row ThreadRow
	err := ts.db.QueryRowContext(ctx,
		`SELECT id, title, preview, created_at, updated_at, seq FROM threads WHERE id=?`, id).
		Scan(&row.ID, &row.Title, &row.Preview, &row.CreatedAt, &row.UpdatedAt, &row.Seq)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListThreads returns all threads in insertion order
func (ts *ThreadStore) ListThreads(ctx context.Context) ([]ThreadRow, error) {
	if ts == nil || ts.db == nil {
		return nil, fmt.Errorf("thread store not initialized")
	}
	rows, err := ts.db.QueryContext(ctx,
		`SELECT id, title, preview, created_at, updated_at, seq FROM threads ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ThreadRow
	for rows.Next() {
		var row ThreadRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Preview, &row.CreatedAt, &row.UpdatedAt, &row.Seq); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteThread removes a thread; messages cascade via foreign key
func (ts *ThreadStore) DeleteThread(ctx context.Context, id string) error {
	if ts == nil || ts.db == nil {
		return fmt.Errorf("thread store not initialized")
	}
	res, err := ts.db.ExecContext(ctx, `DELETE FROM threads WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
