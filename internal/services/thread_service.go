package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ThreadServiceImpl implements ThreadService
type ThreadServiceImpl struct {
	threads  ThreadRepository
	messages MessageRepository

	mu       sync.RWMutex
	activeID string
}

// NewThreadService creates a new thread service
func NewThreadService(threads ThreadRepository, messages MessageRepository) *ThreadServiceImpl {
	return &ThreadServiceImpl{
		threads:  threads,
		messages: messages,
	}
}

// ListThreads returns threads in insertion order, optionally narrowed by a
// case-insensitive filter over title and last message preview
func (s *ThreadServiceImpl) ListThreads(ctx context.Context, filter string) ([]*ChatThread, error) {
	all, err := s.threads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return all, nil
	}

	matched := make([]*ChatThread, 0, len(all))
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Title), filter) ||
			strings.Contains(strings.ToLower(t.LastMessagePreview), filter) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// SelectThread binds an existing thread as the active one
func (s *ThreadServiceImpl) SelectThread(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty thread id", ErrInvalidInput)
	}
	if _, err := s.threads.Get(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	return nil
}

// ActiveThreadID returns the active thread id, or "" when composing a new chat
func (s *ThreadServiceImpl) ActiveThreadID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// NewChat clears the active selection; the next send creates a fresh thread
func (s *ThreadServiceImpl) NewChat() {
	s.mu.Lock()
	s.activeID = ""
	s.mu.Unlock()
}

// RenameThread changes a thread title in place
func (s *ThreadServiceImpl) RenameThread(ctx context.Context, id, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidInput)
	}

	thread, err := s.threads.Get(ctx, id)
	if err != nil {
		return err
	}

	thread.Title = newTitle
	thread.UpdatedAt = time.Now()
	return s.threads.Update(ctx, thread)
}

// DeleteThread removes a thread and all of its messages. Deleting the active
// thread clears the active selection.
func (s *ThreadServiceImpl) DeleteThread(ctx context.Context, id string) error {
	if err := s.threads.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.messages.DeleteByThread(ctx, id); err != nil {
		return fmt.Errorf("failed to delete thread messages: %w", err)
	}

	s.mu.Lock()
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()
	return nil
}
