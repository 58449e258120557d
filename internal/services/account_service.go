package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindvault/mindvault/internal/connector"
)

// AccountServiceImpl implements AccountService
type AccountServiceImpl struct {
	accounts   AccountRepository
	connectors map[Provider]connector.EmailConnector
}

// NewAccountService creates a new account service. Providers without a
// registered connector are reported as not yet supported.
func NewAccountService(accounts AccountRepository, connectors map[Provider]connector.EmailConnector) *AccountServiceImpl {
	if connectors == nil {
		connectors = make(map[Provider]connector.EmailConnector)
	}
	return &AccountServiceImpl{
		accounts:   accounts,
		connectors: connectors,
	}
}

// ListAccounts returns accounts in insertion order
func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]*EmailAccount, error) {
	return s.accounts.List(ctx)
}

// Connect runs the provider OAuth flow and stores the resulting account
func (s *AccountServiceImpl) Connect(ctx context.Context, provider Provider) (*EmailAccount, error) {
	if !provider.Valid() {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, provider)
	}
	conn, ok := s.connectors[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}

	connected, err := conn.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	// Reconnecting an already stored address refreshes it instead of
	// creating a duplicate
	existing, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if strings.EqualFold(a.Email, connected.Email) {
			a.Status = AccountStatusConnected
			a.LastSyncAt = time.Now()
			if err := s.accounts.Update(ctx, a); err != nil {
				return nil, err
			}
			return a, nil
		}
	}

	account := &EmailAccount{
		ID:            uuid.NewString(),
		Email:         connected.Email,
		Provider:      provider,
		DisplayName:   connected.DisplayName,
		SyncFrequency: Sync15Min,
		LastSyncAt:    time.Now(),
		IsActive:      true,
		Status:        AccountStatusConnected,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to store account: %w", err)
	}
	return account, nil
}

// ToggleActive flips whether an account participates in syncing
func (s *AccountServiceImpl) ToggleActive(ctx context.Context, id string) error {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	account.IsActive = !account.IsActive
	return s.accounts.Update(ctx, account)
}

// SetSyncFrequency changes how often an account refreshes. Unknown frequencies
// are rejected without touching the account.
func (s *AccountServiceImpl) SetSyncFrequency(ctx context.Context, id string, frequency SyncFrequency) error {
	if !frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, frequency)
	}
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	account.SyncFrequency = frequency
	return s.accounts.Update(ctx, account)
}

// Remove deletes an account. Provider-side revocation is best effort: the
// account is removed regardless, and a revocation failure is reported so the
// caller can surface a warning.
func (s *AccountServiceImpl) Remove(ctx context.Context, id string) error {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return err
	}

	var revokeErr error
	if conn, ok := s.connectors[account.Provider]; ok {
		if err := conn.Revoke(ctx, account.Email); err != nil {
			revokeErr = fmt.Errorf("%w: %v", ErrRevokeFailed, err)
		}
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	return revokeErr
}

// Sync refreshes one account from its provider now
func (s *AccountServiceImpl) Sync(ctx context.Context, id string) error {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	conn, ok := s.connectors[account.Provider]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, account.Provider)
	}

	account.Status = AccountStatusSyncing
	if err := s.accounts.Update(ctx, account); err != nil {
		return err
	}

	if err := conn.Sync(ctx, account.Email); err != nil {
		account.Status = AccountStatusError
		_ = s.accounts.Update(ctx, account)
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	account.Status = AccountStatusConnected
	account.LastSyncAt = time.Now()
	return s.accounts.Update(ctx, account)
}
