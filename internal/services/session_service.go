package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mindvault/mindvault/internal/identity"
)

// SessionServiceImpl implements SessionService
type SessionServiceImpl struct {
	provider identity.Provider

	mu           sync.RWMutex
	session      Session
	screen       Screen
	settingsTab  SettingsTab
	resetSent    map[string]bool
	resetEmail   string
	authInFlight bool
}

// NewSessionService creates a new session service backed by an identity provider
func NewSessionService(provider identity.Provider) *SessionServiceImpl {
	return &SessionServiceImpl{
		provider:    provider,
		session:     Session{AuthMode: AuthModeLogin},
		screen:      ScreenLogin,
		settingsTab: SettingsTabAccounts,
		resetSent:   make(map[string]bool),
	}
}

func (s *SessionServiceImpl) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionServiceImpl) ActiveScreen() Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen
}

func (s *SessionServiceImpl) SettingsTab() SettingsTab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settingsTab
}

// ResetRequested reports whether a reset email was already sent for the most
// recently submitted address
func (s *SessionServiceImpl) ResetRequested() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resetEmail == "" {
		return "", false
	}
	return s.resetEmail, s.resetSent[s.resetEmail]
}

// SetAuthMode switches between the auth screens while unauthenticated
func (s *SessionServiceImpl) SetAuthMode(mode AuthMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown auth mode %q", ErrInvalidInput, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.IsAuthenticated {
		return fmt.Errorf("%w: already authenticated", ErrInvalidInput)
	}

	s.session.AuthMode = mode
	s.screen = screenForAuthMode(mode)
	return nil
}

// OpenSettings switches the router to the settings screen on the given tab
func (s *SessionServiceImpl) OpenSettings(tab SettingsTab) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.IsAuthenticated {
		return fmt.Errorf("%w: not authenticated", ErrInvalidInput)
	}
	if tab != SettingsTabAccounts && tab != SettingsTabProfile {
		tab = SettingsTabAccounts
	}

	s.settingsTab = tab
	s.screen = ScreenSettings
	return nil
}

// CloseSettings returns to the main screen; a no-op when settings is not open
func (s *SessionServiceImpl) CloseSettings() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen == ScreenSettings {
		s.screen = ScreenMain
	}
}

// Login authenticates against the identity provider and, on success, moves the
// session to the main screen
func (s *SessionServiceImpl) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.endAuth()

	if err := s.provider.Authenticate(ctx, email, password); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	s.mu.Lock()
	s.session.IsAuthenticated = true
	s.screen = ScreenMain
	s.mu.Unlock()
	return nil
}

// Register creates an account and routes back to the login form. The new
// credentials still have to be used to sign in.
func (s *SessionServiceImpl) Register(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.endAuth()

	if err := s.provider.Register(ctx, email, password, name); err != nil {
		if errors.Is(err, identity.ErrAlreadyRegistered) || errors.Is(err, identity.ErrInvalidCredentials) {
			return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	s.mu.Lock()
	s.session.AuthMode = AuthModeLogin
	s.screen = ScreenLogin
	s.mu.Unlock()
	return nil
}

// ResetPassword asks the identity provider to deliver a reset email. The sent
// state is remembered per address so the screen can show confirmation.
func (s *SessionServiceImpl) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.endAuth()

	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.mu.Lock()
	s.resetEmail = email
	s.resetSent[email] = true
	s.mu.Unlock()
	return nil
}

// Logout drops authentication and returns the router to the login screen
func (s *SessionServiceImpl) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{AuthMode: AuthModeLogin}
	s.screen = ScreenLogin
	s.settingsTab = SettingsTabAccounts
	s.resetEmail = ""
}

func (s *SessionServiceImpl) beginAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authInFlight {
		return ErrOperationPending
	}
	s.authInFlight = true
	return nil
}

func (s *SessionServiceImpl) endAuth() {
	s.mu.Lock()
	s.authInFlight = false
	s.mu.Unlock()
}

func screenForAuthMode(mode AuthMode) Screen {
	switch mode {
	case AuthModeRegister:
		return ScreenRegister
	case AuthModeForgotPassword:
		return ScreenForgotPassword
	default:
		return ScreenLogin
	}
}
