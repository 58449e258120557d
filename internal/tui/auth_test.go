package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindvault/mindvault/internal/config"
	"github.com/mindvault/mindvault/internal/identity"
	"github.com/mindvault/mindvault/internal/services"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "test.log")

	threads := services.NewMemoryThreadRepository()
	messages := services.NewMemoryMessageRepository()
	accounts := services.NewMemoryAccountRepository()

	session := services.NewSessionService(identity.NewDevProvider())
	selector := services.NewThreadService(threads, messages)
	msgSvc := services.NewMessageService(messages, threads, selector, services.NewAIService(nil, cfg.LLM))

	app := NewApp(cfg, nil, Services{
		Session:     session,
		Threads:     selector,
		Messages:    msgSvc,
		Accounts:    services.NewAccountService(accounts, nil),
		Attachments: services.NewAttachmentService(),
	})
	t.Cleanup(app.closeLogger)
	return app
}

func TestForgotScreen_SentConfirmation(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, app.session.SetAuthMode(services.AuthModeForgotPassword))
	app.syncScreen()

	// Before submitting, the email form is showing
	name, _ := app.forgotPages.GetFrontPage()
	assert.Equal(t, "form", name)

	// After a reset email goes out, the screen stays on the confirmation
	// keyed by the submitted address
	require.NoError(t, app.session.ResetPassword(ctx, "user@example.com"))
	app.syncScreen()

	name, _ = app.forgotPages.GetFrontPage()
	assert.Equal(t, "sent", name)
	assert.Contains(t, app.forgotSentView.GetText(true), "user@example.com")

	// Leaving for login and coming back keeps the confirmation
	require.NoError(t, app.session.SetAuthMode(services.AuthModeLogin))
	app.syncScreen()
	require.NoError(t, app.session.SetAuthMode(services.AuthModeForgotPassword))
	app.syncScreen()

	name, _ = app.forgotPages.GetFrontPage()
	assert.Equal(t, "sent", name)
}

func TestRegisterRoutesBackToLogin(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, app.session.SetAuthMode(services.AuthModeRegister))
	app.syncScreen()

	require.NoError(t, app.session.Register(ctx, "new@example.com", "secret", "New User"))
	app.syncScreen()

	// Registration routes to the login form without signing the user in
	name, _ := app.Pages.GetFrontPage()
	assert.Equal(t, string(services.ScreenLogin), name)
	assert.False(t, app.session.Session().IsAuthenticated)
}
