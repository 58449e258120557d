package tui

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
)

func TestNewErrorHandler(t *testing.T) {
	app := tview.NewApplication()
	statusView := tview.NewTextView()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	eh := NewErrorHandler(app, statusView, logger)

	assert.NotNil(t, eh)
	assert.Equal(t, app, eh.app)
	assert.Equal(t, statusView, eh.statusView)
	assert.Equal(t, logger, eh.logger)
	assert.Empty(t, eh.currentStatus)
	assert.Empty(t, eh.persistentStatus)
}

func TestNewErrorHandler_NilInputs(t *testing.T) {
	eh := NewErrorHandler(nil, nil, nil)

	assert.NotNil(t, eh)
	assert.Nil(t, eh.app)
	assert.Nil(t, eh.statusView)
	assert.Nil(t, eh.logger)
}

func TestErrorHandler_HandleError_NilError(t *testing.T) {
	eh := &ErrorHandler{}

	assert.NotPanics(t, func() {
		eh.HandleError(context.Background(), nil, "test message")
	})
}

func TestErrorHandler_HandleError_WithError(t *testing.T) {
	eh := &ErrorHandler{statusView: tview.NewTextView()}

	assert.NotPanics(t, func() {
		eh.HandleError(context.Background(), errors.New("test error"), "Custom error message")
	})
}

func TestErrorHandler_FormatMessage(t *testing.T) {
	eh := &ErrorHandler{}

	tests := []struct {
		name  string
		level LogLevel
		want  string
	}{
		{name: "info_icon", level: LogLevelInfo, want: "ℹ️ hello"},
		{name: "warning_icon", level: LogLevelWarning, want: "⚠️ hello"},
		{name: "error_icon", level: LogLevelError, want: "❌ hello"},
		{name: "success_icon", level: LogLevelSuccess, want: "✅ hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eh.formatMessage("hello", tt.level))
		})
	}
}

func TestErrorHandler_LevelToString(t *testing.T) {
	eh := &ErrorHandler{}

	assert.Equal(t, "INFO", eh.levelToString(LogLevelInfo))
	assert.Equal(t, "WARN", eh.levelToString(LogLevelWarning))
	assert.Equal(t, "ERROR", eh.levelToString(LogLevelError))
	assert.Equal(t, "SUCCESS", eh.levelToString(LogLevelSuccess))
	assert.Equal(t, "UNKNOWN", eh.levelToString(LogLevel(99)))
}

func TestErrorHandler_RefreshStatusDisplay(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.currentStatus = "current"
	eh.persistentStatus = "persistent"
	eh.refreshStatusDisplay()
	assert.Equal(t, "current", statusView.GetText(true))

	// Persistent status shows when no temporary message is active
	eh.currentStatus = ""
	eh.refreshStatusDisplay()
	assert.Equal(t, "persistent", statusView.GetText(true))
}
