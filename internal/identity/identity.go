package identity

import (
	"context"
	"errors"
	"strings"
)

// Provider defines the external identity collaborator
type Provider interface {
	Authenticate(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, name string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// Errors reported by identity providers
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("email already registered")
	ErrDeliveryFailed     = errors.New("reset email delivery failed")
)

// DevProvider is a process-local provider for credential-less development.
// Any well-formed email with a non-empty password authenticates.
type DevProvider struct{}

// NewDevProvider creates a new development identity provider
func NewDevProvider() *DevProvider {
	return &DevProvider{}
}

// Authenticate accepts any plausible credentials
func (p *DevProvider) Authenticate(ctx context.Context, email, password string) error {
	if !plausibleEmail(email) || password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// Register accepts any plausible registration
func (p *DevProvider) Register(ctx context.Context, email, password, name string) error {
	if !plausibleEmail(email) || password == "" || strings.TrimSpace(name) == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// SendPasswordReset pretends delivery succeeded
func (p *DevProvider) SendPasswordReset(ctx context.Context, email string) error {
	if !plausibleEmail(email) {
		return ErrDeliveryFailed
	}
	return nil
}

func plausibleEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}
