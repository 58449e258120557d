package tui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/mattn/go-runewidth"
)

const sidebarTitleWidth = 26

// buildSidebar builds the search box and the thread list
func (a *App) buildSidebar() tview.Primitive {
	a.searchInput = tview.NewInputField().
		SetLabel("🔍 ").
		SetPlaceholder("Search conversations...")
	a.searchInput.SetChangedFunc(func(text string) {
		a.mu.Lock()
		a.filter = text
		a.mu.Unlock()
		a.reloadThreads()
	})
	a.searchInput.SetDoneFunc(func(key tcell.Key) {
		a.SetFocus(a.threadList)
	})

	a.threadList = tview.NewList().
		SetSecondaryTextColor(a.theme.Sidebar.PreviewColor.Color()).
		SetMainTextColor(a.theme.Sidebar.TitleColor.Color()).
		SetSelectedFocusOnly(false)
	a.threadList.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		a.selectThreadAt(index)
	})
	a.threadList.SetBorder(true).SetTitle(" Chats ")

	sidebar := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.searchInput, 1, 0, false).
		AddItem(a.threadList, 0, 1, true)
	return sidebar
}

// reloadThreads refreshes the sidebar from the thread service, keeping the
// active thread highlighted. Must run on the UI goroutine.
func (a *App) reloadThreads() {
	a.mu.RLock()
	filter := a.filter
	a.mu.RUnlock()

	threads, err := a.threads.ListThreads(a.ctx, filter)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not load conversations")
		return
	}

	activeID := a.threads.ActiveThreadID()
	activeIndex := -1

	a.threadList.Clear()
	ids := make([]string, 0, len(threads))
	for i, t := range threads {
		ids = append(ids, t.ID)
		title := runewidth.Truncate(t.Title, sidebarTitleWidth, "…")
		secondary := fmt.Sprintf("%s · %s",
			runewidth.Truncate(t.LastMessagePreview, sidebarTitleWidth-10, "…"),
			t.Timestamp())
		a.threadList.AddItem(title, secondary, 0, nil)
		if t.ID == activeID {
			activeIndex = i
		}
	}

	a.mu.Lock()
	a.threadIDs = ids
	a.mu.Unlock()

	if activeIndex >= 0 {
		a.threadList.SetCurrentItem(activeIndex)
	}
}

// selectThreadAt makes the thread at a sidebar index active. Navigating away
// from a thread drops its in-flight AI reply.
func (a *App) selectThreadAt(index int) {
	a.mu.RLock()
	var id string
	if index >= 0 && index < len(a.threadIDs) {
		id = a.threadIDs[index]
	}
	a.mu.RUnlock()
	if id == "" {
		return
	}

	if prev := a.threads.ActiveThreadID(); prev != "" && prev != id {
		a.messages.CancelPendingReply(prev)
	}

	if err := a.threads.SelectThread(a.ctx, id); err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not open conversation")
		return
	}
	a.reloadMessages()
	a.SetFocus(a.composer)
}

// startNewChat clears the selection so the next send opens a fresh thread
func (a *App) startNewChat() {
	if prev := a.threads.ActiveThreadID(); prev != "" {
		a.messages.CancelPendingReply(prev)
	}
	a.threads.NewChat()
	a.reloadThreads()
	a.reloadMessages()
	a.SetFocus(a.composer)
}

// promptRenameThread opens a one-line modal to rename the active thread
func (a *App) promptRenameThread() {
	id := a.threads.ActiveThreadID()
	if id == "" {
		a.errorHandler.ShowMessage(a.ctx, "No conversation selected", LogLevelWarning)
		return
	}

	input := tview.NewInputField().SetLabel("New title: ").SetFieldWidth(40)
	input.SetDoneFunc(func(key tcell.Key) {
		defer a.closeModal("rename")
		if key != tcell.KeyEnter {
			return
		}
		if err := a.threads.RenameThread(a.ctx, id, input.GetText()); err != nil {
			a.errorHandler.HandleError(a.ctx, err, "Rename failed")
			return
		}
		a.reloadThreads()
	})
	input.SetBorder(true).SetTitle(" Rename Conversation ")
	a.showModal("rename", centered(input, 56, 3))
}

// confirmDeleteThread asks before removing the active thread and its messages
func (a *App) confirmDeleteThread() {
	id := a.threads.ActiveThreadID()
	if id == "" {
		a.errorHandler.ShowMessage(a.ctx, "No conversation selected", LogLevelWarning)
		return
	}

	modal := tview.NewModal().
		SetText("Delete this conversation and all of its messages?").
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			defer a.closeModal("delete")
			if label != "Delete" {
				return
			}
			a.messages.CancelPendingReply(id)
			if err := a.threads.DeleteThread(a.ctx, id); err != nil {
				a.errorHandler.HandleError(a.ctx, err, "Delete failed")
				return
			}
			a.reloadThreads()
			a.reloadMessages()
		})
	a.showModal("delete", modal)
}

func (a *App) showModal(name string, p tview.Primitive) {
	a.Pages.AddPage("modal:"+name, p, true, true)
	a.SetFocus(p)
}

func (a *App) closeModal(name string) {
	a.Pages.RemovePage("modal:" + name)
	a.syncScreen()
}
