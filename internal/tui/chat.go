package tui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/mindvault/mindvault/internal/services"
)

// buildMainScreen assembles the sidebar and the chat pane
func (a *App) buildMainScreen() tview.Primitive {
	a.chatView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	a.chatView.SetBorder(true).SetTitle(" MindVault ")

	a.composer = tview.NewInputField().
		SetPlaceholder("Type your message...")
	a.composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.sendCurrent()
		}
	})
	a.composer.SetBorder(true)

	chat := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.chatView, 0, 1, false).
		AddItem(a.composer, 3, 0, true)

	return tview.NewFlex().
		AddItem(a.buildSidebar(), 34, 0, false).
		AddItem(chat, 0, 1, true)
}

// reloadMessages redraws the chat pane for the active thread. Must run on the
// UI goroutine.
func (a *App) reloadMessages() {
	id := a.threads.ActiveThreadID()
	if id == "" {
		a.chatView.SetTitle(" MindVault ")
		a.chatView.SetText(a.emptyStateText())
		return
	}

	msgs, err := a.messages.ListMessages(a.ctx, id)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Could not load messages")
		return
	}

	var b strings.Builder
	var lastAI string
	for _, m := range msgs {
		a.renderMessage(&b, m)
		if m.Sender == services.SenderAI {
			lastAI = m.ID
		}
	}

	a.mu.Lock()
	a.lastAIMessageID = lastAI
	a.mu.Unlock()

	a.chatView.SetText(b.String())
	a.chatView.ScrollToEnd()
}

func (a *App) renderMessage(b *strings.Builder, m *services.Message) {
	userColor := string(a.theme.Chat.UserColor)
	aiColor := string(a.theme.Chat.AssistantColor)
	tsColor := string(a.theme.Chat.TimestampColor)

	if m.Sender == services.SenderUser {
		fmt.Fprintf(b, "[%s]You[-] [%s]%s[-]\n", userColor, tsColor, m.Timestamp())
	} else {
		fmt.Fprintf(b, "[%s]MindVault AI[-] [%s]%s[-]\n", aiColor, tsColor, m.Timestamp())
	}

	fmt.Fprintf(b, "%s\n", tview.Escape(m.Content))
	for _, att := range m.Attachments {
		fmt.Fprintf(b, "[%s]📎 %s (%d bytes)[-]\n", tsColor, tview.Escape(att.Filename), att.Size)
	}

	if m.Sender == services.SenderAI {
		if rating, err := a.messages.MessageFeedback(a.ctx, m.ID); err == nil {
			switch rating {
			case services.FeedbackLike:
				fmt.Fprintf(b, "[%s]👍[-]\n", tsColor)
			case services.FeedbackDislike:
				fmt.Fprintf(b, "[%s]👎[-]\n", tsColor)
			}
		}
	}
	b.WriteString("\n")
}

func (a *App) emptyStateText() string {
	return "\n  Start a new conversation.\n\n  Type a message below and press Enter;\n  a thread is created automatically."
}

// sendCurrent sends the composer content with any staged attachments
func (a *App) sendCurrent() {
	content := a.composer.GetText()

	a.mu.Lock()
	attachments := a.pendingAttachments
	a.pendingAttachments = nil
	a.mu.Unlock()

	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return
	}

	threadID := a.threads.ActiveThreadID()
	a.composer.SetText("")
	a.composer.SetLabel("")

	go func() {
		if _, err := a.messages.SendMessage(a.ctx, threadID, content, attachments); err != nil {
			a.errorHandler.HandleError(a.ctx, err, "Could not send message")
			return
		}
		a.QueueUpdateDraw(func() {
			a.reloadThreads()
			a.reloadMessages()
		})
	}()
}

// promptAttach opens a path prompt and stages the file on the next send
func (a *App) promptAttach() {
	input := tview.NewInputField().SetLabel("File path: ").SetFieldWidth(48)
	input.SetDoneFunc(func(key tcell.Key) {
		defer a.closeModal("attach")
		if key != tcell.KeyEnter {
			return
		}
		path := strings.TrimSpace(input.GetText())
		if path == "" {
			return
		}

		built, err := a.attachments.BuildAttachments([]string{path})
		if err != nil {
			a.errorHandler.HandleError(a.ctx, err, "Attachment rejected")
			return
		}

		a.mu.Lock()
		a.pendingAttachments = append(a.pendingAttachments, built...)
		count := len(a.pendingAttachments)
		a.mu.Unlock()

		a.composer.SetLabel(fmt.Sprintf("📎%d ", count))
	})
	input.SetBorder(true).SetTitle(" Attach File ")
	a.showModal("attach", centered(input, 64, 3))
}

// copyLastReply copies the latest AI message content into the composer
func (a *App) copyLastReply() {
	a.mu.RLock()
	id := a.lastAIMessageID
	a.mu.RUnlock()
	if id == "" {
		a.errorHandler.ShowMessage(a.ctx, "No AI message to copy", LogLevelWarning)
		return
	}

	content, err := a.messages.CopyMessage(a.ctx, id)
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Copy failed")
		return
	}
	a.composer.SetText(content)
	a.errorHandler.ShowMessage(a.ctx, "Message copied to composer", LogLevelSuccess)
}

// rateLastReply records like or dislike feedback on the latest AI message
func (a *App) rateLastReply(like bool) {
	a.mu.RLock()
	id := a.lastAIMessageID
	a.mu.RUnlock()
	if id == "" {
		a.errorHandler.ShowMessage(a.ctx, "No AI message to rate", LogLevelWarning)
		return
	}

	var err error
	if like {
		err = a.messages.LikeMessage(a.ctx, id)
	} else {
		err = a.messages.DislikeMessage(a.ctx, id)
	}
	if err != nil {
		a.errorHandler.HandleError(a.ctx, err, "Feedback failed")
		return
	}
	a.reloadMessages()
}
