package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const previewMaxRunes = 80

// MessageServiceImpl implements MessageService
type MessageServiceImpl struct {
	messages MessageRepository
	threads  ThreadRepository
	selector ThreadService
	ai       AIService

	mu      sync.Mutex
	handler ReplyHandler
	pending map[string]context.CancelFunc
}

// NewMessageService creates a new message service. The thread service is used
// to bind implicitly created threads as the active one.
func NewMessageService(messages MessageRepository, threads ThreadRepository, selector ThreadService, ai AIService) *MessageServiceImpl {
	return &MessageServiceImpl{
		messages: messages,
		threads:  threads,
		selector: selector,
		ai:       ai,
		pending:  make(map[string]context.CancelFunc),
	}
}

// ListMessages returns the messages of a thread in insertion order. An empty
// threadID means no thread is selected and yields an empty sequence.
func (s *MessageServiceImpl) ListMessages(ctx context.Context, threadID string) ([]*Message, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, nil
	}
	if _, err := s.threads.Get(ctx, threadID); err != nil {
		return nil, err
	}
	return s.messages.ListByThread(ctx, threadID)
}

// OnReply registers the handler that receives asynchronous AI completions
func (s *MessageServiceImpl) OnReply(handler ReplyHandler) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

// SendMessage appends a user message and kicks off AI reply generation. An
// empty threadID creates a new thread titled from the message and binds it as
// the active thread before the message lands.
func (s *MessageServiceImpl) SendMessage(ctx context.Context, threadID, content string, attachments []Attachment) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}

	newThread := threadID == ""
	if newThread {
		thread := &ChatThread{
			ID:        uuid.NewString(),
			Title:     deriveTitle(content),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.threads.Create(ctx, thread); err != nil {
			return nil, fmt.Errorf("failed to create thread: %w", err)
		}
		if err := s.selector.SelectThread(ctx, thread.ID); err != nil {
			return nil, err
		}
		threadID = thread.ID
	} else if _, err := s.threads.Get(ctx, threadID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, busy := s.pending[threadID]; busy {
		s.mu.Unlock()
		return nil, ErrOperationPending
	}
	genCtx, cancel := context.WithCancel(context.Background())
	s.pending[threadID] = cancel
	s.mu.Unlock()

	msg := &Message{
		ID:          uuid.NewString(),
		ThreadID:    threadID,
		Content:     content,
		Sender:      SenderUser,
		Kind:        kindForAttachments(attachments),
		Attachments: attachments,
		CreatedAt:   time.Now(),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		s.clearPending(threadID)
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	if err := s.touchThread(ctx, threadID, content); err != nil {
		s.clearPending(threadID)
		return nil, err
	}

	go s.generateReply(genCtx, threadID, newThread, content)
	return msg, nil
}

// CancelPendingReply drops the in-flight reply generation for a thread, if any
func (s *MessageServiceImpl) CancelPendingReply(threadID string) {
	s.mu.Lock()
	cancel, ok := s.pending[threadID]
	delete(s.pending, threadID)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

// CopyMessage returns the content of a message for the clipboard
func (s *MessageServiceImpl) CopyMessage(ctx context.Context, messageID string) (string, error) {
	msg, err := s.messages.Get(ctx, messageID)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// LikeMessage records a like; liking an already liked message clears it
func (s *MessageServiceImpl) LikeMessage(ctx context.Context, messageID string) error {
	return s.toggleFeedback(ctx, messageID, FeedbackLike)
}

// DislikeMessage records a dislike; disliking twice clears it
func (s *MessageServiceImpl) DislikeMessage(ctx context.Context, messageID string) error {
	return s.toggleFeedback(ctx, messageID, FeedbackDislike)
}

// MessageFeedback returns the stored rating for a message
func (s *MessageServiceImpl) MessageFeedback(ctx context.Context, messageID string) (FeedbackRating, error) {
	if _, err := s.messages.Get(ctx, messageID); err != nil {
		return FeedbackNone, err
	}
	return s.messages.GetFeedback(ctx, messageID)
}

func (s *MessageServiceImpl) toggleFeedback(ctx context.Context, messageID string, rating FeedbackRating) error {
	if _, err := s.messages.Get(ctx, messageID); err != nil {
		return err
	}
	current, err := s.messages.GetFeedback(ctx, messageID)
	if err != nil {
		return err
	}
	if current == rating {
		rating = FeedbackNone
	}
	return s.messages.SaveFeedback(ctx, messageID, rating)
}

func (s *MessageServiceImpl) generateReply(ctx context.Context, threadID string, newThread bool, firstContent string) {
	defer s.clearPending(threadID)

	if newThread {
		// Upgrade the provisional truncation title to an AI generated one;
		// failures keep the provisional title
		if title, err := s.ai.GenerateTitle(ctx, firstContent); err == nil && title != "" {
			if thread, err := s.threads.Get(ctx, threadID); err == nil && title != thread.Title {
				thread.Title = title
				_ = s.threads.Update(ctx, thread)
			}
		}
	}

	history, err := s.messages.ListByThread(ctx, threadID)
	if err != nil {
		s.deliver(threadID, nil, fmt.Errorf("failed to load history: %w", err))
		return
	}

	content, err := s.ai.GenerateReply(ctx, history)
	if ctx.Err() != nil {
		// Canceled by navigation; nothing to deliver
		return
	}
	if err != nil {
		s.deliver(threadID, nil, err)
		return
	}

	reply := &Message{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Content:   content,
		Sender:    SenderAI,
		Kind:      MessageKindText,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Append(ctx, reply); err != nil {
		s.deliver(threadID, nil, fmt.Errorf("failed to append reply: %w", err))
		return
	}
	if err := s.touchThread(ctx, threadID, content); err != nil {
		s.deliver(threadID, nil, err)
		return
	}

	s.deliver(threadID, reply, nil)
}

func (s *MessageServiceImpl) deliver(threadID string, reply *Message, err error) {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler != nil {
		handler(threadID, reply, err)
	}
}

func (s *MessageServiceImpl) clearPending(threadID string) {
	s.mu.Lock()
	if cancel, ok := s.pending[threadID]; ok {
		delete(s.pending, threadID)
		defer cancel()
	}
	s.mu.Unlock()
}

func (s *MessageServiceImpl) touchThread(ctx context.Context, threadID, preview string) error {
	thread, err := s.threads.Get(ctx, threadID)
	if err != nil {
		return err
	}
	thread.LastMessagePreview = truncateRunes(preview, previewMaxRunes)
	thread.UpdatedAt = time.Now()
	if err := s.threads.Update(ctx, thread); err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}
	return nil
}

func kindForAttachments(attachments []Attachment) MessageKind {
	if len(attachments) == 0 {
		return MessageKindText
	}
	return attachments[0].Kind
}

// deriveTitle names a new thread after its first message
func deriveTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "New Chat"
	}
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = strings.TrimSpace(content[:i])
	}
	return truncateRunes(content, 40)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
