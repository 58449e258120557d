package tui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/mindvault/mindvault/internal/services"
)

var syncFrequencyOrder = []services.SyncFrequency{
	services.SyncRealtime,
	services.Sync15Min,
	services.Sync1Hour,
	services.SyncDaily,
}

// buildSettingsScreen builds the settings screen with its two tabs
func (a *App) buildSettingsScreen() tview.Primitive {
	a.accountsTable = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.accountsTable.SetBorder(true).
		SetTitle(" Email Accounts | a:add  t:toggle  f:frequency  s:sync  d:remove ")
	a.accountsTable.SetInputCapture(a.handleAccountsKey)

	a.profileView = tview.NewTextView().SetDynamicColors(true)
	a.profileView.SetBorder(true).SetTitle(" Profile ")

	a.settingsPages = tview.NewPages()
	a.settingsPages.AddPage(string(services.SettingsTabAccounts), a.accountsTable, true, true)
	a.settingsPages.AddPage(string(services.SettingsTabProfile), a.profileView, true, false)

	hint := tview.NewTextView().
		SetText(" Tab: switch tab   Esc: back to chat").
		SetTextColor(tcell.ColorGray)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.settingsPages, 0, 1, true).
		AddItem(hint, 1, 0, false)
}

// syncSettingsTab shows the tab the session service selected
func (a *App) syncSettingsTab() {
	tab := a.session.SettingsTab()
	a.settingsPages.SwitchToPage(string(tab))
	if tab == services.SettingsTabProfile {
		a.renderProfile()
		a.SetFocus(a.profileView)
	} else {
		a.SetFocus(a.accountsTable)
	}
}

// reloadAccounts refreshes the accounts table. Must run on the UI goroutine.
func (a *App) reloadAccounts() {
	accounts, err := a.accounts.ListAccounts(a.ctx)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not load accounts")
		return
	}

	a.accountsTable.Clear()
	headers := []string{"Email", "Provider", "Frequency", "Last Sync", "Status", "Active"}
	for col, h := range headers {
		a.accountsTable.SetCell(0, col,
			tview.NewTableCell(h).SetSelectable(false).SetAttributes(tcell.AttrBold))
	}

	ids := make([]string, 0, len(accounts))
	for row, acc := range accounts {
		ids = append(ids, acc.ID)
		active := " "
		if acc.IsActive {
			active = "✓"
		}
		cells := []string{
			acc.Email,
			string(acc.Provider),
			string(acc.SyncFrequency),
			acc.LastSync(),
			a.renderStatus(acc.Status),
			active,
		}
		for col, text := range cells {
			a.accountsTable.SetCell(row+1, col, tview.NewTableCell(text).SetExpansion(1))
		}
	}

	a.mu.Lock()
	a.accountIDs = ids
	a.mu.Unlock()
}

func (a *App) renderStatus(status services.AccountStatus) string {
	switch status {
	case services.AccountStatusConnected:
		return fmt.Sprintf("[%s]● connected[-]", a.theme.Status.ConnectedColor)
	case services.AccountStatusSyncing:
		return fmt.Sprintf("[%s]● syncing[-]", a.theme.Status.SyncingColor)
	default:
		return fmt.Sprintf("[%s]● error[-]", a.theme.Status.ErrorColor)
	}
}

// renderProfile fills the profile tab
func (a *App) renderProfile() {
	a.profileView.SetText(fmt.Sprintf(
		"\n  Theme: %s\n  Config: %s\n\n  Press %s on the main screen to sign out.",
		a.theme.Name, a.Config.LogFile, a.Keys.Logout))
}

// selectedAccountID maps the table selection to an account
func (a *App) selectedAccountID() string {
	row, _ := a.accountsTable.GetSelection()
	index := row - 1

	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.accountIDs) {
		return ""
	}
	return a.accountIDs[index]
}

// handleAccountsKey handles account table shortcuts
func (a *App) handleAccountsKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'a':
		a.promptAddAccount()
		return nil
	case 't', ' ':
		a.toggleSelectedAccount()
		return nil
	case 'f':
		a.cycleSelectedFrequency()
		return nil
	case 's':
		a.syncSelectedAccount()
		return nil
	case 'd':
		a.confirmRemoveAccount()
		return nil
	}
	return event
}

// promptAddAccount opens the provider picker
func (a *App) promptAddAccount() {
	list := tview.NewList().ShowSecondaryText(true)
	providers := []struct {
		provider services.Provider
		label    string
		hint     string
	}{
		{services.ProviderGmail, "Gmail", "Connect with Google OAuth"},
		{services.ProviderOutlook, "Outlook", "Coming soon"},
		{services.ProviderICloud, "iCloud", "Coming soon"},
		{services.ProviderPOP3, "POP3", "Coming soon"},
	}
	for _, p := range providers {
		provider := p.provider
		list.AddItem(p.label, p.hint, 0, func() {
			a.closeModal("add-account")
			go a.connectProvider(provider)
		})
	}
	list.SetDoneFunc(func() {
		a.closeModal("add-account")
	})
	list.SetBorder(true).SetTitle(" Add Email Account ")
	a.showModal("add-account", centered(list, 48, 12))
}

func (a *App) connectProvider(provider services.Provider) {
	a.errorHandler.ShowMessage(a.ctx, fmt.Sprintf("Connecting %s...", provider), LogLevelInfo)

	account, err := a.accounts.Connect(a.ctx, provider)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, connectErrorMessage(err, provider))
		return
	}

	a.QueueUpdateDraw(a.reloadAccounts)
	a.errorHandler.ShowMessage(a.ctx, fmt.Sprintf("Connected %s", account.Email), LogLevelSuccess)
}

func connectErrorMessage(err error, provider services.Provider) string {
	if services.IsPermanentError(err) {
		return fmt.Sprintf("%s support is coming soon", provider)
	}
	return fmt.Sprintf("Could not connect %s", provider)
}

func (a *App) toggleSelectedAccount() {
	id := a.selectedAccountID()
	if id == "" {
		return
	}
	if err := a.accounts.ToggleActive(a.ctx, id); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Toggle failed")
		return
	}
	a.reloadAccounts()
}

// cycleSelectedFrequency steps the selected account through the sync
// frequency values in order
func (a *App) cycleSelectedFrequency() {
	id := a.selectedAccountID()
	if id == "" {
		return
	}

	accounts, err := a.accounts.ListAccounts(a.ctx)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not load accounts")
		return
	}

	var current services.SyncFrequency
	for _, acc := range accounts {
		if acc.ID == id {
			current = acc.SyncFrequency
			break
		}
	}

	next := syncFrequencyOrder[0]
	for i, f := range syncFrequencyOrder {
		if f == current {
			next = syncFrequencyOrder[(i+1)%len(syncFrequencyOrder)]
			break
		}
	}

	if err := a.accounts.SetSyncFrequency(a.ctx, id, next); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not change frequency")
		return
	}
	a.reloadAccounts()
}

func (a *App) syncSelectedAccount() {
	id := a.selectedAccountID()
	if id == "" {
		return
	}

	go func() {
		if err := a.accounts.Sync(a.ctx, id); err != nil {
			a.errorHandler.HandleError(a.ctx, err, "Sync failed")
		} else {
			a.errorHandler.ShowMessage(a.ctx, "Account synced", LogLevelSuccess)
		}
		a.QueueUpdateDraw(a.reloadAccounts)
	}()
}

func (a *App) confirmRemoveAccount() {
	id := a.selectedAccountID()
	if id == "" {
		return
	}

	modal := tview.NewModal().
		SetText("Remove this email account? Provider access will be revoked.").
		AddButtons([]string{"Remove", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			defer a.closeModal("remove-account")
			if label != "Remove" {
				return
			}
			if err := a.accounts.Remove(a.ctx, id); err != nil {
				// The account may be gone even when revocation failed
				a.errorHandler.HandleError(a.ctx, err, "Account removed, but revocation failed")
			}
			a.reloadAccounts()
		})
	a.showModal("remove-account", modal)
}
