package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindvault/mindvault/internal/identity"
)

// fakeIdentity is a scriptable identity provider for tests
type fakeIdentity struct {
	authErr     error
	registerErr error
	resetErr    error
}

func (f *fakeIdentity) Authenticate(ctx context.Context, email, password string) error {
	return f.authErr
}

func (f *fakeIdentity) Register(ctx context.Context, email, password, name string) error {
	return f.registerErr
}

func (f *fakeIdentity) SendPasswordReset(ctx context.Context, email string) error {
	return f.resetErr
}

func TestSessionService_InitialState(t *testing.T) {
	svc := NewSessionService(&fakeIdentity{})

	assert.False(t, svc.Session().IsAuthenticated)
	assert.Equal(t, AuthModeLogin, svc.Session().AuthMode)
	assert.Equal(t, ScreenLogin, svc.ActiveScreen())
	assert.Equal(t, SettingsTabAccounts, svc.SettingsTab())
}

func TestSessionService_SetAuthMode(t *testing.T) {
	tests := []struct {
		name       string
		mode       AuthMode
		wantErr    bool
		wantScreen Screen
	}{
		{
			name:       "switch_to_register",
			mode:       AuthModeRegister,
			wantScreen: ScreenRegister,
		},
		{
			name:       "switch_to_forgot_password",
			mode:       AuthModeForgotPassword,
			wantScreen: ScreenForgotPassword,
		},
		{
			name:       "back_to_login",
			mode:       AuthModeLogin,
			wantScreen: ScreenLogin,
		},
		{
			name:    "unknown_mode_rejected",
			mode:    AuthMode("admin"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSessionService(&fakeIdentity{})
			err := svc.SetAuthMode(tt.mode)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Equal(t, ScreenLogin, svc.ActiveScreen())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, svc.Session().AuthMode)
			assert.Equal(t, tt.wantScreen, svc.ActiveScreen())
		})
	}
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success_moves_to_main", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{})
		require.NoError(t, svc.Login(ctx, "user@example.com", "secret"))
		assert.True(t, svc.Session().IsAuthenticated)
		assert.Equal(t, ScreenMain, svc.ActiveScreen())
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{authErr: identity.ErrInvalidCredentials})
		err := svc.Login(ctx, "user@example.com", "wrong")
		assert.ErrorIs(t, err, ErrAuthFailed)
		assert.False(t, svc.Session().IsAuthenticated)
		assert.Equal(t, ScreenLogin, svc.ActiveScreen())
	})

	t.Run("missing_fields", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{})
		assert.ErrorIs(t, svc.Login(ctx, "", "secret"), ErrInvalidInput)
		assert.ErrorIs(t, svc.Login(ctx, "user@example.com", ""), ErrInvalidInput)
	})
}

func TestSessionService_RegisterFlow(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(&fakeIdentity{})

	require.NoError(t, svc.SetAuthMode(AuthModeRegister))
	assert.Equal(t, ScreenRegister, svc.ActiveScreen())

	// Registering routes back to login without signing the user in
	require.NoError(t, svc.Register(ctx, "new@example.com", "secret", "New User"))
	assert.False(t, svc.Session().IsAuthenticated)
	assert.Equal(t, AuthModeLogin, svc.Session().AuthMode)
	assert.Equal(t, ScreenLogin, svc.ActiveScreen())
}

func TestSessionService_RegisterRejected(t *testing.T) {
	svc := NewSessionService(&fakeIdentity{registerErr: identity.ErrAlreadyRegistered})
	require.NoError(t, svc.SetAuthMode(AuthModeRegister))

	err := svc.Register(context.Background(), "dup@example.com", "secret", "Dup")
	assert.ErrorIs(t, err, ErrRegistrationFailed)
	assert.False(t, svc.Session().IsAuthenticated)
	assert.Equal(t, AuthModeRegister, svc.Session().AuthMode)
}

func TestSessionService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("remembers_sent_state_per_email", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{})

		_, ok := svc.ResetRequested()
		assert.False(t, ok)

		require.NoError(t, svc.ResetPassword(ctx, "user@example.com"))
		email, ok := svc.ResetRequested()
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", email)
	})

	t.Run("delivery_failure", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{resetErr: identity.ErrDeliveryFailed})
		err := svc.ResetPassword(ctx, "user@example.com")
		assert.ErrorIs(t, err, ErrDeliveryFailed)
		_, ok := svc.ResetRequested()
		assert.False(t, ok)
	})
}

func TestSessionService_Settings(t *testing.T) {
	ctx := context.Background()

	t.Run("requires_authentication", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{})
		assert.ErrorIs(t, svc.OpenSettings(SettingsTabAccounts), ErrInvalidInput)
	})

	t.Run("opens_on_requested_tab", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{})
		require.NoError(t, svc.Login(ctx, "user@example.com", "secret"))

		require.NoError(t, svc.OpenSettings(SettingsTabProfile))
		assert.Equal(t, ScreenSettings, svc.ActiveScreen())
		assert.Equal(t, SettingsTabProfile, svc.SettingsTab())

		svc.CloseSettings()
		assert.Equal(t, ScreenMain, svc.ActiveScreen())
	})

	t.Run("close_is_noop_outside_settings", func(t *testing.T) {
		svc := NewSessionService(&fakeIdentity{})
		svc.CloseSettings()
		assert.Equal(t, ScreenLogin, svc.ActiveScreen())
	})
}

func TestSessionService_Logout(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(&fakeIdentity{})
	require.NoError(t, svc.Login(ctx, "user@example.com", "secret"))
	require.NoError(t, svc.OpenSettings(SettingsTabProfile))

	svc.Logout()

	assert.False(t, svc.Session().IsAuthenticated)
	assert.Equal(t, AuthModeLogin, svc.Session().AuthMode)
	assert.Equal(t, ScreenLogin, svc.ActiveScreen())
	assert.Equal(t, SettingsTabAccounts, svc.SettingsTab())
}
