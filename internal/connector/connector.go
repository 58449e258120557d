package connector

import (
	"context"
	"errors"
)

// ConnectedAccount is what a successful provider handshake yields
type ConnectedAccount struct {
	Email       string
	DisplayName string
}

// EmailConnector performs the external provider handshake and sync
type EmailConnector interface {
	// Provider names the service this connector handles (e.g. "gmail")
	Provider() string
	// Connect runs the OAuth-style handshake and returns the account identity
	Connect(ctx context.Context) (*ConnectedAccount, error)
	// Sync refreshes the account's data from the provider
	Sync(ctx context.Context, email string) error
	// Revoke drops cached provider state for the account
	Revoke(ctx context.Context, email string) error
}

// Errors reported by connectors
var (
	ErrConnectFailed = errors.New("provider connection failed")
	ErrSyncFailed    = errors.New("provider sync failed")
	ErrRevokeFailed  = errors.New("provider revocation failed")
)
