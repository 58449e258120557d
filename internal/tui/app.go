package tui

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/derailed/tview"

	"github.com/mindvault/mindvault/internal/config"
	"github.com/mindvault/mindvault/internal/services"
)

// App encapsulates the terminal UI and the service layer
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config
	Keys   config.KeyBindings

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex

	session     services.SessionService
	threads     services.ThreadService
	messages    services.MessageService
	accounts    services.AccountService
	attachments services.AttachmentService

	theme *config.ThemeConfig

	logger  *log.Logger
	logFile *os.File

	errorHandler *ErrorHandler

	// Auth screens
	loginForm      *tview.Form
	registerForm   *tview.Form
	forgotForm     *tview.Form
	forgotPages    *tview.Pages
	forgotSentView *tview.TextView
	forgotSentForm *tview.Form

	// Main screen
	searchInput *tview.InputField
	threadList  *tview.List
	chatView    *tview.TextView
	composer    *tview.InputField
	statusView  *tview.TextView

	// Settings screen
	settingsPages *tview.Pages
	accountsTable *tview.Table
	profileView   *tview.TextView

	// State
	filter             string
	threadIDs          []string
	accountIDs         []string
	pendingAttachments []services.Attachment
	lastAIMessageID    string
	showHelp           bool
}

// Services bundles the service layer handed to the UI
type Services struct {
	Session     services.SessionService
	Threads     services.ThreadService
	Messages    services.MessageService
	Accounts    services.AccountService
	Attachments services.AttachmentService
}

// NewApp creates the terminal application on top of the service layer
func NewApp(cfg *config.Config, theme *config.ThemeConfig, svcs Services) *App {
	ctx, cancel := context.WithCancel(context.Background())

	if theme == nil {
		theme = config.DefaultTheme()
	}

	a := &App{
		Application: tview.NewApplication(),
		Pages:       tview.NewPages(),
		Config:      cfg,
		Keys:        cfg.Keys,
		ctx:         ctx,
		cancel:      cancel,
		session:     svcs.Session,
		threads:     svcs.Threads,
		messages:    svcs.Messages,
		accounts:    svcs.Accounts,
		attachments: svcs.Attachments,
		theme:       theme,
	}

	a.initLogger()
	a.initViews()
	a.errorHandler = NewErrorHandler(a.Application, a.statusView, a.logger)
	a.messages.OnReply(a.handleReply)

	return a
}

// GetErrorHandler returns the centralized error handler
func (a *App) GetErrorHandler() *ErrorHandler {
	return a.errorHandler
}

// initLogger opens the file logger configured in LogFile, defaulting to the
// config directory
func (a *App) initLogger() {
	if a.logger != nil && a.logFile != nil {
		return
	}

	logPath := a.Config.LogFile
	if logPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			logDir := filepath.Join(home, ".config", "mindvault")
			if err := os.MkdirAll(logDir, 0o755); err == nil {
				logPath = filepath.Join(logDir, "mindvault.log")
			}
		}
	}
	if logPath == "" {
		return
	}

	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		a.logFile = f
		a.logger = log.New(f, "[mindvault] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// closeLogger closes the log file if opened
func (a *App) closeLogger() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// initViews builds every screen up front and registers them as pages. The
// pages act as the view router: exactly one screen is visible at a time.
func (a *App) initViews() {
	a.statusView = tview.NewTextView().SetDynamicColors(true)

	a.Pages.AddPage(string(services.ScreenLogin), a.buildLoginScreen(), true, true)
	a.Pages.AddPage(string(services.ScreenRegister), a.buildRegisterScreen(), true, false)
	a.Pages.AddPage(string(services.ScreenForgotPassword), a.buildForgotScreen(), true, false)
	a.Pages.AddPage(string(services.ScreenMain), a.buildMainScreen(), true, false)
	a.Pages.AddPage(string(services.ScreenSettings), a.buildSettingsScreen(), true, false)
}

// syncScreen switches the visible page to match the session state. Must be
// called from the UI goroutine.
func (a *App) syncScreen() {
	screen := a.session.ActiveScreen()
	a.Pages.SwitchToPage(string(screen))

	switch screen {
	case services.ScreenMain:
		a.reloadThreads()
		a.reloadMessages()
		a.SetFocus(a.composer)
	case services.ScreenSettings:
		a.reloadAccounts()
		a.syncSettingsTab()
	case services.ScreenLogin:
		a.SetFocus(a.loginForm)
	case services.ScreenRegister:
		a.SetFocus(a.registerForm)
	case services.ScreenForgotPassword:
		a.syncForgotScreen()
	}
}

// handleReply receives asynchronous AI completions from the message service
func (a *App) handleReply(threadID string, reply *services.Message, err error) {
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "AI reply failed")
	}

	a.QueueUpdateDraw(func() {
		if reply != nil {
			a.mu.Lock()
			a.lastAIMessageID = reply.ID
			a.mu.Unlock()
		}
		if a.session.ActiveScreen() != services.ScreenMain {
			return
		}
		a.reloadThreads()
		if a.threads.ActiveThreadID() == threadID {
			a.reloadMessages()
		}
	})
}

// Run starts the terminal application
func (a *App) Run() error {
	defer a.cancel()
	defer a.closeLogger()

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.Pages, 0, 1, true).
		AddItem(a.statusView, 1, 0, false)

	a.SetInputCapture(a.handleGlobalKey)
	a.syncScreen()

	if a.logger != nil {
		a.logger.Printf("starting UI")
	}
	return a.SetRoot(root, true).EnableMouse(true).Run()
}

// Stop shuts the UI down
func (a *App) Stop() {
	a.cancel()
	a.Application.Stop()
}
