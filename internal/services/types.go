package services

import (
	"fmt"
	"time"
)

// AuthMode identifies which auth screen is active while unauthenticated
type AuthMode string

const (
	AuthModeLogin          AuthMode = "login"
	AuthModeRegister       AuthMode = "register"
	AuthModeForgotPassword AuthMode = "forgot-password"
)

// Valid reports whether the auth mode is one of the known screens
func (m AuthMode) Valid() bool {
	switch m {
	case AuthModeLogin, AuthModeRegister, AuthModeForgotPassword:
		return true
	}
	return false
}

// Screen identifies the top-level screen the view router selects
type Screen string

const (
	ScreenLogin          Screen = "login"
	ScreenRegister       Screen = "register"
	ScreenForgotPassword Screen = "forgot-password"
	ScreenMain           Screen = "main"
	ScreenSettings       Screen = "settings"
)

// SettingsTab selects the tab the settings screen opens on
type SettingsTab string

const (
	SettingsTabAccounts SettingsTab = "email-accounts"
	SettingsTabProfile  SettingsTab = "profile"
)

// Session holds the authentication state owned by the session service
type Session struct {
	IsAuthenticated bool
	AuthMode        AuthMode
}

// ChatThread is a named conversation shown in the sidebar
type ChatThread struct {
	ID                 string
	Title              string
	LastMessagePreview string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Timestamp returns the display timestamp for the thread row
func (t *ChatThread) Timestamp() string {
	return RelativeTime(t.UpdatedAt, time.Now())
}

// Sender identifies who produced a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// MessageKind classifies message content
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
	MessageKindFile  MessageKind = "file"
	MessageKindAudio MessageKind = "audio"
)

// Message belongs to exactly one thread; ordering is insertion order
type Message struct {
	ID          string
	ThreadID    string
	Content     string
	Sender      Sender
	Kind        MessageKind
	Attachments []Attachment
	CreatedAt   time.Time
}

// Timestamp returns the display timestamp for the message row
func (m *Message) Timestamp() string {
	return m.CreatedAt.Format("3:04 PM")
}

// Attachment describes a file attached to an outgoing message
type Attachment struct {
	Filename string
	MimeType string
	Kind     MessageKind
	Size     int64
}

// FeedbackRating is out-of-band reader feedback on an AI message
type FeedbackRating int

const (
	FeedbackNone FeedbackRating = iota
	FeedbackLike
	FeedbackDislike
)

// Provider is an external email service an account connects through
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
	ProviderICloud  Provider = "icloud"
	ProviderPOP3    Provider = "pop3"
)

// Valid reports whether the provider is one of the known services
func (p Provider) Valid() bool {
	switch p {
	case ProviderGmail, ProviderOutlook, ProviderICloud, ProviderPOP3:
		return true
	}
	return false
}

// SyncFrequency controls how often an account refreshes from its provider
type SyncFrequency string

const (
	SyncRealtime SyncFrequency = "realtime"
	Sync15Min    SyncFrequency = "15min"
	Sync1Hour    SyncFrequency = "1hour"
	SyncDaily    SyncFrequency = "daily"
)

// Valid reports whether the frequency is one of the enumerated values
func (f SyncFrequency) Valid() bool {
	switch f {
	case SyncRealtime, Sync15Min, Sync1Hour, SyncDaily:
		return true
	}
	return false
}

// AccountStatus reflects the connection state of an email account
type AccountStatus string

const (
	AccountStatusConnected AccountStatus = "connected"
	AccountStatusError     AccountStatus = "error"
	AccountStatusSyncing   AccountStatus = "syncing"
)

// EmailAccount is a connected email provider account
type EmailAccount struct {
	ID            string
	Email         string
	Provider      Provider
	DisplayName   string
	SyncFrequency SyncFrequency
	LastSyncAt    time.Time
	IsActive      bool
	Status        AccountStatus
}

// LastSync returns the display timestamp of the last completed sync
func (a *EmailAccount) LastSync() string {
	if a.LastSyncAt.IsZero() {
		return "never"
	}
	return RelativeTime(a.LastSyncAt, time.Now())
}

// RelativeTime renders a timestamp the way the sidebar displays it
func RelativeTime(t, now time.Time) string {
	if t.IsZero() || t.After(now) {
		return "just now"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		n := int(d.Hours())
		if n == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", n)
	case d < 48*time.Hour:
		return "Yesterday"
	default:
		n := int(d.Hours() / 24)
		return fmt.Sprintf("%d days ago", n)
	}
}
