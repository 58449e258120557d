package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAI returns scripted replies and titles
type fakeAI struct {
	reply    string
	replyErr error
	title    string
	block    chan struct{}
}

func (f *fakeAI) GenerateReply(ctx context.Context, history []*Message) (string, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeAI) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	if f.title != "" {
		return f.title, nil
	}
	return deriveTitle(firstMessage), nil
}

// replyRecorder collects ReplyHandler calls
type replyRecorder struct {
	mu      sync.Mutex
	calls   int
	lastErr error
	reply   *Message
	done    chan struct{}
}

func newReplyRecorder() *replyRecorder {
	return &replyRecorder{done: make(chan struct{}, 8)}
}

func (r *replyRecorder) handle(threadID string, reply *Message, err error) {
	r.mu.Lock()
	r.calls++
	r.reply = reply
	r.lastErr = err
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *replyRecorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply handler")
	}
}

func newTestMessageService(ai AIService) (*MessageServiceImpl, *ThreadServiceImpl, ThreadRepository, MessageRepository) {
	threads := NewMemoryThreadRepository()
	messages := NewMemoryMessageRepository()
	selector := NewThreadService(threads, messages)
	svc := NewMessageService(messages, threads, selector, ai)
	return svc, selector, threads, messages
}

func TestMessageService_SendMessage_ImplicitThread(t *testing.T) {
	ctx := context.Background()
	svc, selector, threads, messages := newTestMessageService(&fakeAI{reply: "Sure, happy to help."})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	msg, err := svc.SendMessage(ctx, "", "Can you help me plan a launch?", nil)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, SenderUser, msg.Sender)
	assert.Equal(t, MessageKindText, msg.Kind)

	// The new thread is bound as active and titled after the message
	assert.Equal(t, msg.ThreadID, selector.ActiveThreadID())
	thread, err := threads.Get(ctx, msg.ThreadID)
	require.NoError(t, err)
	assert.Equal(t, "Can you help me plan a launch?", thread.Title)
	assert.Equal(t, "Can you help me plan a launch?", thread.LastMessagePreview)

	rec.wait(t)
	require.NoError(t, rec.lastErr)
	require.NotNil(t, rec.reply)
	assert.Equal(t, SenderAI, rec.reply.Sender)
	assert.Equal(t, "Sure, happy to help.", rec.reply.Content)

	all, err := messages.ListByThread(ctx, msg.ThreadID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, SenderUser, all[0].Sender)
	assert.Equal(t, SenderAI, all[1].Sender)
}

func TestMessageService_ListMessages_NoSelection(t *testing.T) {
	ctx := context.Background()
	svc, selector, _, _ := newTestMessageService(&fakeAI{reply: "ok"})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	// Nothing selected yet: an empty id is the welcome state, not an error
	msgs, err := svc.ListMessages(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Same after starting a new chat from an existing one
	msg, err := svc.SendMessage(ctx, "", "hello there", nil)
	require.NoError(t, err)
	rec.wait(t)

	selector.NewChat()
	msgs, err = svc.ListMessages(ctx, selector.ActiveThreadID())
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// The thread's own messages are still reachable by id
	msgs, err = svc.ListMessages(ctx, msg.ThreadID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestMessageService_SendMessage_ExistingThread(t *testing.T) {
	ctx := context.Background()
	svc, _, threads, messages := newTestMessageService(&fakeAI{reply: "ok"})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	require.NoError(t, threads.Create(ctx, &ChatThread{ID: "t1", Title: "Planning"}))

	msg, err := svc.SendMessage(ctx, "t1", "first", nil)
	require.NoError(t, err)
	assert.Equal(t, "t1", msg.ThreadID)
	rec.wait(t)

	// Exactly one user message per send
	all, err := messages.ListByThread(ctx, "t1")
	require.NoError(t, err)
	users := 0
	for _, m := range all {
		if m.Sender == SenderUser {
			users++
		}
	}
	assert.Equal(t, 1, users)
}

func TestMessageService_SendMessage_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, threads, _ := newTestMessageService(&fakeAI{reply: "ok"})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	t.Run("empty_message_rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, "", "   ", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
		all, lerr := threads.List(ctx)
		require.NoError(t, lerr)
		assert.Empty(t, all, "rejected send must not create a thread")
	})

	t.Run("unknown_thread_rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, "missing", "hello", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("attachment_only_message_allowed", func(t *testing.T) {
		att := []Attachment{{Filename: "report.pdf", MimeType: "application/pdf", Kind: MessageKindFile, Size: 1}}
		msg, err := svc.SendMessage(ctx, "", "", att)
		require.NoError(t, err)
		assert.Equal(t, MessageKindFile, msg.Kind)

		thread, err := threads.Get(ctx, msg.ThreadID)
		require.NoError(t, err)
		assert.Equal(t, "New Chat", thread.Title)
		rec.wait(t)
	})
}

func TestMessageService_SendMessage_PendingGuard(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	svc, _, threads, _ := newTestMessageService(&fakeAI{reply: "ok", block: block})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	require.NoError(t, threads.Create(ctx, &ChatThread{ID: "t1", Title: "Planning"}))

	_, err := svc.SendMessage(ctx, "t1", "first", nil)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, "t1", "second while pending", nil)
	assert.ErrorIs(t, err, ErrOperationPending)

	close(block)
	rec.wait(t)

	// After completion the thread accepts sends again
	_, err = svc.SendMessage(ctx, "t1", "third", nil)
	require.NoError(t, err)
	rec.wait(t)
}

func TestMessageService_CancelPendingReply(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	defer close(block)
	svc, _, threads, messages := newTestMessageService(&fakeAI{reply: "ok", block: block})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	require.NoError(t, threads.Create(ctx, &ChatThread{ID: "t1", Title: "Planning"}))
	_, err := svc.SendMessage(ctx, "t1", "question", nil)
	require.NoError(t, err)

	svc.CancelPendingReply("t1")

	// A canceled generation delivers nothing and frees the thread
	_, err = svc.SendMessage(ctx, "t1", "again", nil)
	require.NoError(t, err)
	svc.CancelPendingReply("t1")

	time.Sleep(50 * time.Millisecond)
	rec.mu.Lock()
	calls := rec.calls
	rec.mu.Unlock()
	assert.Zero(t, calls)

	all, err := messages.ListByThread(ctx, "t1")
	require.NoError(t, err)
	for _, m := range all {
		assert.Equal(t, SenderUser, m.Sender)
	}
}

func TestMessageService_ReplyFailure(t *testing.T) {
	ctx := context.Background()
	svc, _, threads, messages := newTestMessageService(&fakeAI{replyErr: errors.New("model offline")})
	rec := newReplyRecorder()
	svc.OnReply(rec.handle)

	require.NoError(t, threads.Create(ctx, &ChatThread{ID: "t1", Title: "Planning"}))
	_, err := svc.SendMessage(ctx, "t1", "question", nil)
	require.NoError(t, err)

	rec.wait(t)
	assert.Error(t, rec.lastErr)
	assert.Nil(t, rec.reply)

	// The user message stays even when generation fails
	all, err := messages.ListByThread(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, SenderUser, all[0].Sender)
}

func TestMessageService_Feedback(t *testing.T) {
	ctx := context.Background()
	svc, _, _, messages := newTestMessageService(&fakeAI{reply: "ok"})
	require.NoError(t, messages.Append(ctx, &Message{ID: "m1", ThreadID: "t1", Content: "an answer", Sender: SenderAI, Kind: MessageKindText}))

	t.Run("like_then_toggle_off", func(t *testing.T) {
		require.NoError(t, svc.LikeMessage(ctx, "m1"))
		got, err := svc.MessageFeedback(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, FeedbackLike, got)

		require.NoError(t, svc.LikeMessage(ctx, "m1"))
		got, err = svc.MessageFeedback(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, FeedbackNone, got)
	})

	t.Run("dislike_replaces_like", func(t *testing.T) {
		require.NoError(t, svc.LikeMessage(ctx, "m1"))
		require.NoError(t, svc.DislikeMessage(ctx, "m1"))
		got, err := svc.MessageFeedback(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, FeedbackDislike, got)
	})

	t.Run("feedback_never_mutates_content", func(t *testing.T) {
		msg, err := messages.Get(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, "an answer", msg.Content)
	})

	t.Run("unknown_message", func(t *testing.T) {
		assert.ErrorIs(t, svc.LikeMessage(ctx, "missing"), ErrNotFound)
		_, err := svc.MessageFeedback(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMessageService_CopyMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, _, messages := newTestMessageService(&fakeAI{reply: "ok"})
	require.NoError(t, messages.Append(ctx, &Message{ID: "m1", ThreadID: "t1", Content: "copy me", Sender: SenderAI, Kind: MessageKindText}))

	got, err := svc.CopyMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "copy me", got)

	_, err = svc.CopyMessage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short_message_used_verbatim",
			content: "Plan my week",
			want:    "Plan my week",
		},
		{
			name:    "long_message_truncated",
			content: "This is a very long first message that keeps going well past the limit",
			want:    "This is a very long first message tha...",
		},
		{
			name:    "first_line_only",
			content: "Subject here\nand a body below",
			want:    "Subject here",
		},
		{
			name:    "empty_falls_back",
			content: "   ",
			want:    "New Chat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveTitle(tt.content))
		})
	}
}
