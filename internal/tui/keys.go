package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/mindvault/mindvault/internal/services"
)

// handleGlobalKey routes application level shortcuts. Shortcuts bound to
// plain runes are suppressed while a text input has focus so typing works.
func (a *App) handleGlobalKey(event *tcell.EventKey) *tcell.EventKey {
	screen := a.session.ActiveScreen()

	switch event.Key() {
	case tcell.KeyEscape:
		if a.showHelp {
			a.hideHelp()
			return nil
		}
		if screen == services.ScreenSettings {
			a.session.CloseSettings()
			a.syncScreen()
			return nil
		}
		return event
	case tcell.KeyTab:
		if screen == services.ScreenSettings {
			a.switchSettingsTab()
			return nil
		}
		return event
	}

	if screen == services.ScreenMain {
		if k, ok := ctrlKeyFor(a.Keys.FocusSidebar); ok && event.Key() == k {
			a.SetFocus(a.threadList)
			return nil
		}
		if k, ok := ctrlKeyFor(a.Keys.FocusCompose); ok && event.Key() == k {
			a.SetFocus(a.composer)
			return nil
		}
	}

	if event.Rune() == 0 || a.textInputFocused() {
		return event
	}
	if screen != services.ScreenMain && screen != services.ScreenSettings {
		return event
	}

	key := string(event.Rune())
	switch key {
	case a.Keys.Quit:
		a.Stop()
		return nil
	case a.Keys.Help:
		a.toggleHelp()
		return nil
	case a.Keys.Logout:
		a.doLogout()
		return nil
	case a.Keys.Settings:
		a.openSettings(services.SettingsTabAccounts)
		return nil
	case a.Keys.Profile:
		a.openSettings(services.SettingsTabProfile)
		return nil
	}

	if screen != services.ScreenMain {
		return event
	}

	switch key {
	case a.Keys.NewChat:
		a.startNewChat()
	case a.Keys.Search:
		a.SetFocus(a.searchInput)
	case a.Keys.Rename:
		a.promptRenameThread()
	case a.Keys.Delete:
		a.confirmDeleteThread()
	case a.Keys.Attach:
		a.promptAttach()
	case a.Keys.CopyMessage:
		a.copyLastReply()
	case a.Keys.LikeMessage:
		a.rateLastReply(true)
	case a.Keys.Dislike:
		a.rateLastReply(false)
	default:
		return event
	}
	return nil
}

// ctrlKeyFor translates a "ctrl+<letter>" binding into its tcell key
func ctrlKeyFor(binding string) (tcell.Key, bool) {
	rest, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(binding)), "ctrl+")
	if !ok || len(rest) != 1 || rest[0] < 'a' || rest[0] > 'z' {
		return 0, false
	}
	return tcell.KeyCtrlA + tcell.Key(rest[0]-'a'), true
}

// textInputFocused reports whether the focused primitive consumes plain runes
func (a *App) textInputFocused() bool {
	switch a.GetFocus().(type) {
	case *tview.InputField, *tview.Form:
		return true
	}
	return false
}

func (a *App) openSettings(tab services.SettingsTab) {
	if err := a.session.OpenSettings(tab); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Cannot open settings")
		return
	}
	a.syncScreen()
}

func (a *App) switchSettingsTab() {
	tab := services.SettingsTabAccounts
	if a.session.SettingsTab() == services.SettingsTabAccounts {
		tab = services.SettingsTabProfile
	}
	if err := a.session.OpenSettings(tab); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Cannot switch tab")
		return
	}
	a.syncSettingsTab()
}

func (a *App) doLogout() {
	if active := a.threads.ActiveThreadID(); active != "" {
		a.messages.CancelPendingReply(active)
	}
	a.session.Logout()
	a.threads.NewChat()
	a.syncScreen()
	a.errorHandler.ShowMessage(a.ctx, "Signed out", LogLevelInfo)
}

func (a *App) toggleHelp() {
	if a.showHelp {
		a.hideHelp()
		return
	}
	a.showHelp = true

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText(a.helpText())
	help.SetBorder(true).SetTitle(" Keyboard Shortcuts ")
	a.showModal("help", centered(help, 52, 20))
}

func (a *App) hideHelp() {
	a.showHelp = false
	a.closeModal("help")
}

func (a *App) helpText() string {
	k := a.Keys
	rows := []struct{ key, desc string }{
		{k.NewChat, "New conversation"},
		{k.Search, "Search conversations"},
		{k.Rename, "Rename conversation"},
		{k.Delete, "Delete conversation"},
		{k.Attach, "Attach file"},
		{k.CopyMessage, "Copy last AI reply"},
		{k.LikeMessage, "Like last AI reply"},
		{k.Dislike, "Dislike last AI reply"},
		{k.Settings, "Email accounts"},
		{k.Profile, "Profile"},
		{k.Logout, "Sign out"},
		{k.Quit, "Quit"},
		{k.FocusSidebar, "Focus conversation list"},
		{k.FocusCompose, "Focus composer"},
		{"Esc", "Close settings / dialog"},
		{"Tab", "Switch settings tab"},
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  [yellow]%-6s[-] %s\n", r.key, r.desc)
	}
	return b.String()
}
