package services

import (
	"context"
	"sync"
	"time"
)

// MemoryThreadRepository is an in-memory ThreadRepository for tests and
// credential-less demo mode
type MemoryThreadRepository struct {
	mu      sync.RWMutex
	threads []*ChatThread
}

// NewMemoryThreadRepository creates an empty in-memory thread repository
func NewMemoryThreadRepository() *MemoryThreadRepository {
	return &MemoryThreadRepository{}
}

func (r *MemoryThreadRepository) List(ctx context.Context) ([]*ChatThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ChatThread, 0, len(r.threads))
	for _, t := range r.threads {
		threadCopy := *t
		out = append(out, &threadCopy)
	}
	return out, nil
}

func (r *MemoryThreadRepository) Get(ctx context.Context, id string) (*ChatThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.threads {
		if t.ID == id {
			threadCopy := *t
			return &threadCopy, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryThreadRepository) Create(ctx context.Context, thread *ChatThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	threadCopy := *thread
	r.threads = append(r.threads, &threadCopy)
	return nil
}

func (r *MemoryThreadRepository) Update(ctx context.Context, thread *ChatThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.threads {
		if t.ID == thread.ID {
			threadCopy := *thread
			threadCopy.CreatedAt = t.CreatedAt
			r.threads[i] = &threadCopy
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryThreadRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.threads {
		if t.ID == id {
			r.threads = append(r.threads[:i], r.threads[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryMessageRepository is an in-memory MessageRepository keyed by thread
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	byThread map[string][]*Message
	feedback map[string]FeedbackRating
}

// NewMemoryMessageRepository creates an empty in-memory message repository
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		byThread: make(map[string][]*Message),
		feedback: make(map[string]FeedbackRating),
	}
}

func (r *MemoryMessageRepository) ListByThread(ctx context.Context, threadID string) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.byThread[threadID]
	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		msgCopy := *m
		out = append(out, &msgCopy)
	}
	return out, nil
}

func (r *MemoryMessageRepository) Get(ctx context.Context, id string) (*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, msgs := range r.byThread {
		for _, m := range msgs {
			if m.ID == id {
				msgCopy := *m
				return &msgCopy, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryMessageRepository) Append(ctx context.Context, message *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgCopy := *message
	r.byThread[message.ThreadID] = append(r.byThread[message.ThreadID], &msgCopy)
	return nil
}

func (r *MemoryMessageRepository) DeleteByThread(ctx context.Context, threadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byThread, threadID)
	return nil
}

func (r *MemoryMessageRepository) SaveFeedback(ctx context.Context, messageID string, rating FeedbackRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.feedback[messageID] = rating
	return nil
}

func (r *MemoryMessageRepository) GetFeedback(ctx context.Context, messageID string) (FeedbackRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.feedback[messageID], nil
}

// MemoryAccountRepository is an in-memory AccountRepository
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts []*EmailAccount
}

// NewMemoryAccountRepository creates an empty in-memory account repository
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{}
}

func (r *MemoryAccountRepository) List(ctx context.Context) ([]*EmailAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*EmailAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		accountCopy := *a
		out = append(out, &accountCopy)
	}
	return out, nil
}

func (r *MemoryAccountRepository) Get(ctx context.Context, id string) (*EmailAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ID == id {
			accountCopy := *a
			return &accountCopy, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepository) Create(ctx context.Context, account *EmailAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountCopy := *account
	r.accounts = append(r.accounts, &accountCopy)
	return nil
}

func (r *MemoryAccountRepository) Update(ctx context.Context, account *EmailAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.accounts {
		if a.ID == account.ID {
			accountCopy := *account
			r.accounts[i] = &accountCopy
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryAccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.accounts {
		if a.ID == id {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SeedDemoData loads the demo threads, messages and accounts shown on a
// credential-less first run
func SeedDemoData(ctx context.Context, threads ThreadRepository, messages MessageRepository, accounts AccountRepository) error {
	now := time.Now()

	demoThreads := []*ChatThread{
		{ID: "demo-1", Title: "Email Marketing Strategy", LastMessagePreview: "Can you help me create an email campaign?", CreatedAt: now.Add(-2 * time.Minute), UpdatedAt: now.Add(-2 * time.Minute)},
		{ID: "demo-2", Title: "Project Planning", LastMessagePreview: "Let's discuss the project timeline", CreatedAt: now.Add(-1 * time.Hour), UpdatedAt: now.Add(-1 * time.Hour)},
		{ID: "demo-3", Title: "Data Analysis Question", LastMessagePreview: "How do I analyze customer data?", CreatedAt: now.Add(-25 * time.Hour), UpdatedAt: now.Add(-25 * time.Hour)},
		{ID: "demo-4", Title: "Content Creation Ideas", LastMessagePreview: "I need help with blog post ideas", CreatedAt: now.Add(-49 * time.Hour), UpdatedAt: now.Add(-49 * time.Hour)},
	}
	for _, t := range demoThreads {
		if err := threads.Create(ctx, t); err != nil {
			return err
		}
	}

	welcome := []*Message{
		{ID: "demo-m1", ThreadID: "demo-1", Sender: SenderAI, Kind: MessageKindText, CreatedAt: now.Add(-3 * time.Minute),
			Content: "Hello! I'm MindVault AI. I can help you with email analysis, content creation, data insights, and much more. How can I assist you today?"},
		{ID: "demo-m2", ThreadID: "demo-1", Sender: SenderUser, Kind: MessageKindText, CreatedAt: now.Add(-2 * time.Minute),
			Content: "Hi! I'd like to analyze my email patterns and get insights about my communication habits."},
		{ID: "demo-m3", ThreadID: "demo-1", Sender: SenderAI, Kind: MessageKindText, CreatedAt: now.Add(-2 * time.Minute),
			Content: "I'd be happy to help you analyze your email patterns! To get started, you'll need to connect your email accounts in the Settings."},
	}
	for _, m := range welcome {
		if err := messages.Append(ctx, m); err != nil {
			return err
		}
	}

	demoAccounts := []*EmailAccount{
		{ID: "demo-a1", Email: "john.doe@gmail.com", Provider: ProviderGmail, DisplayName: "Personal Gmail", SyncFrequency: Sync15Min, LastSyncAt: now.Add(-2 * time.Minute), IsActive: true, Status: AccountStatusConnected},
		{ID: "demo-a2", Email: "work@company.com", Provider: ProviderOutlook, DisplayName: "Work Email", SyncFrequency: Sync1Hour, LastSyncAt: now.Add(-45 * time.Minute), IsActive: false, Status: AccountStatusError},
	}
	for _, a := range demoAccounts {
		if err := accounts.Create(ctx, a); err != nil {
			return err
		}
	}

	return nil
}
