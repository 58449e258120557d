package services

import (
	"context"
)

// SessionService owns authentication state and top-level navigation
type SessionService interface {
	// State access
	Session() Session
	ActiveScreen() Screen
	SettingsTab() SettingsTab
	ResetRequested() (email string, ok bool)

	// Navigation
	SetAuthMode(mode AuthMode) error
	OpenSettings(tab SettingsTab) error
	CloseSettings()

	// Identity operations (blocking; run them off the UI loop)
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, name string) error
	ResetPassword(ctx context.Context, email string) error
	Logout()
}

// ThreadService owns the ordered thread collection and the active selection
type ThreadService interface {
	ListThreads(ctx context.Context, filter string) ([]*ChatThread, error)
	SelectThread(ctx context.Context, id string) error
	ActiveThreadID() string
	NewChat()
	RenameThread(ctx context.Context, id, newTitle string) error
	DeleteThread(ctx context.Context, id string) error
}

// ReplyHandler receives asynchronous AI reply completions
type ReplyHandler func(threadID string, reply *Message, err error)

// MessageService owns per-thread message sequences and the send pipeline
type MessageService interface {
	ListMessages(ctx context.Context, threadID string) ([]*Message, error)
	// SendMessage appends a user message; an empty threadID creates a new
	// thread first and binds it as active. The AI reply arrives later via
	// the registered ReplyHandler.
	SendMessage(ctx context.Context, threadID, content string, attachments []Attachment) (*Message, error)
	OnReply(handler ReplyHandler)
	CancelPendingReply(threadID string)

	// Side-channel feedback; never mutates message content
	CopyMessage(ctx context.Context, messageID string) (string, error)
	LikeMessage(ctx context.Context, messageID string) error
	DislikeMessage(ctx context.Context, messageID string) error
	MessageFeedback(ctx context.Context, messageID string) (FeedbackRating, error)
}

// AccountService owns the connected email account collection
type AccountService interface {
	ListAccounts(ctx context.Context) ([]*EmailAccount, error)
	Connect(ctx context.Context, provider Provider) (*EmailAccount, error)
	ToggleActive(ctx context.Context, id string) error
	SetSyncFrequency(ctx context.Context, id string, frequency SyncFrequency) error
	Remove(ctx context.Context, id string) error
	Sync(ctx context.Context, id string) error
}

// AttachmentService validates and builds outgoing attachments
type AttachmentService interface {
	ValidateFilename(filename string) error
	BuildAttachments(paths []string) ([]Attachment, error)
}

// AIService generates replies and thread titles
type AIService interface {
	GenerateReply(ctx context.Context, history []*Message) (string, error)
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)
}

// ThreadRepository handles thread persistence
type ThreadRepository interface {
	List(ctx context.Context) ([]*ChatThread, error)
	Get(ctx context.Context, id string) (*ChatThread, error)
	Create(ctx context.Context, thread *ChatThread) error
	Update(ctx context.Context, thread *ChatThread) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository handles message persistence, keyed by thread
type MessageRepository interface {
	ListByThread(ctx context.Context, threadID string) ([]*Message, error)
	Get(ctx context.Context, id string) (*Message, error)
	Append(ctx context.Context, message *Message) error
	DeleteByThread(ctx context.Context, threadID string) error
	SaveFeedback(ctx context.Context, messageID string, rating FeedbackRating) error
	GetFeedback(ctx context.Context, messageID string) (FeedbackRating, error)
}

// AccountRepository handles email account persistence
type AccountRepository interface {
	List(ctx context.Context) ([]*EmailAccount, error)
	Get(ctx context.Context, id string) (*EmailAccount, error)
	Create(ctx context.Context, account *EmailAccount) error
	Update(ctx context.Context, account *EmailAccount) error
	Delete(ctx context.Context, id string) error
}
