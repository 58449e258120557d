package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// AccountRow is an email account record as stored
type AccountRow struct {
	ID            string
	Email         string
	Provider      string
	DisplayName   string
	SyncFrequency string
	LastSyncAt    int64
	IsActive      bool
	Status        string
	Seq           int64
}

// AccountStore handles email account persistence
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore creates a new account store from a base store
func NewAccountStore(store *Store) *AccountStore {
	if store == nil {
		return nil
	}
	return &AccountStore{db: store.DB()}
}

// InsertAccount appends an account at the end of the collection order
func (as *AccountStore) InsertAccount(ctx context.Context, row AccountRow) error {
	if as == nil || as.db == nil {
		return fmt.Errorf("account store not initialized")
	}
	if strings.TrimSpace(row.ID) == "" || strings.TrimSpace(row.Email) == "" {
		return fmt.Errorf("invalid account inputs")
	}
	_, err := as.db.ExecContext(ctx, `INSERT INTO email_accounts(id, email, provider, display_name, sync_frequency, last_sync_at, is_active, status, seq)
VALUES(?,?,?,?,?,?,?,?, COALESCE((SELECT MAX(seq)+1 FROM email_accounts), 1));
`, row.ID, row.Email, row.Provider, row.DisplayName, row.SyncFrequency, row.LastSyncAt, row.IsActive, row.Status)
	return err
}

// UpdateAccount rewrites the mutable fields of an account
func (as *AccountStore) UpdateAccount(ctx context.Context, row AccountRow) error {
	if as == nil || as.db == nil {
		return fmt.Errorf("account store not initialized")
	}
	res, err := as.db.ExecContext(ctx, `UPDATE email_accounts
SET email=?, display_name=?, sync_frequency=?, last_sync_at=?, is_active=?, status=?
WHERE id=?`, row.Email, row.DisplayName, row.SyncFrequency, row.LastSyncAt, row.IsActive, row.Status, row.ID)
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

// GetAccount returns an account by id, sql.ErrNoRows when absent
func (as *AccountStore) GetAccount(ctx context.Context, id string) (*AccountRow, error) {
	if as == nil || as.db == nil {
		return nil, fmt.Errorf("account store not initialized")
	}
	var row AccountRow
	err := as.db.QueryRowContext(ctx,
		`SELECT id, email, provider, display_name, sync_frequency, last_sync_at, is_active, status, seq
FROM email_accounts WHERE id=?`, id).
		Scan(&row.ID, &row.Email, &row.Provider, &row.DisplayName, &row.SyncFrequency, &row.LastSyncAt, &row.IsActive, &row.Status, &row.Seq)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAccounts returns all accounts in insertion order
func (as *AccountStore) ListAccounts(ctx context.Context) ([]AccountRow, error) {
	if as == nil || as.db == nil {
		return nil, fmt.Errorf("account store not initialized")
	}
	rows, err := as.db.QueryContext(ctx,
		`SELECT id, email, provider, display_name, sync_frequency, last_sync_at, is_active, status, seq
FROM email_accounts ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountRow
	for rows.Next() {
		var row AccountRow
		if err := rows.Scan(&row.ID, &row.Email, &row.Provider, &row.DisplayName, &row.SyncFrequency, &row.LastSyncAt, &row.IsActive, &row.Status, &row.Seq); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteAccount removes an account
func (as *AccountStore) DeleteAccount(ctx context.Context, id string) error {
	if as == nil || as.db == nil {
		return fmt.Errorf("account store not initialized")
	}
	res, err := as.db.ExecContext(ctx, `DELETE FROM email_accounts WHERE id=?`, id)
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
