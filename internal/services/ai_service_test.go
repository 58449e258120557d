package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindvault/mindvault/internal/config"
)

// fakeLLM implements llm.Provider with a scripted response
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Generate(prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestAIService_GenerateReply(t *testing.T) {
	ctx := context.Background()
	history := []*Message{
		{Sender: SenderUser, Content: "What is Go?"},
		{Sender: SenderAI, Content: "A programming language."},
		{Sender: SenderUser, Content: "Who made it?"},
	}

	t.Run("renders_history_into_prompt", func(t *testing.T) {
		provider := &fakeLLM{response: "Google did."}
		svc := NewAIService(provider, config.DefaultLLMConfig())

		got, err := svc.GenerateReply(ctx, history)
		require.NoError(t, err)
		assert.Equal(t, "Google did.", got)
		assert.Contains(t, provider.lastPrompt, "User: What is Go?")
		assert.Contains(t, provider.lastPrompt, "Assistant: A programming language.")
		assert.NotContains(t, provider.lastPrompt, "{{history}}")
	})

	t.Run("nil_provider_returns_demo_reply", func(t *testing.T) {
		svc := NewAIService(nil, config.DefaultLLMConfig())
		got, err := svc.GenerateReply(ctx, history)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})

	t.Run("provider_failure", func(t *testing.T) {
		svc := NewAIService(&fakeLLM{err: errors.New("connection refused")}, config.DefaultLLMConfig())
		_, err := svc.GenerateReply(ctx, history)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("empty_provider_response", func(t *testing.T) {
		svc := NewAIService(&fakeLLM{response: "   "}, config.DefaultLLMConfig())
		_, err := svc.GenerateReply(ctx, history)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("empty_history_rejected", func(t *testing.T) {
		svc := NewAIService(&fakeLLM{response: "hi"}, config.DefaultLLMConfig())
		_, err := svc.GenerateReply(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("canceled_context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		svc := NewAIService(&fakeLLM{response: "late"}, config.DefaultLLMConfig())
		_, err := svc.GenerateReply(canceled, history)
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestAIService_GenerateTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("uses_provider_title", func(t *testing.T) {
		provider := &fakeLLM{response: "\"Go Language Basics\"\n"}
		svc := NewAIService(provider, config.DefaultLLMConfig())

		got, err := svc.GenerateTitle(ctx, "What is Go and who made it?")
		require.NoError(t, err)
		assert.Equal(t, "Go Language Basics", got)
		assert.NotContains(t, provider.lastPrompt, "{{body}}")
	})

	t.Run("caps_long_provider_titles", func(t *testing.T) {
		provider := &fakeLLM{response: strings.Repeat("word ", 20)}
		svc := NewAIService(provider, config.DefaultLLMConfig())

		got, err := svc.GenerateTitle(ctx, "anything")
		require.NoError(t, err)
		assert.LessOrEqual(t, len([]rune(got)), 40)
	})

	t.Run("provider_failure_falls_back_to_truncation", func(t *testing.T) {
		svc := NewAIService(&fakeLLM{err: errors.New("offline")}, config.DefaultLLMConfig())
		got, err := svc.GenerateTitle(ctx, "Plan my product launch")
		require.NoError(t, err)
		assert.Equal(t, "Plan my product launch", got)
	})

	t.Run("nil_provider_truncates_locally", func(t *testing.T) {
		svc := NewAIService(nil, config.DefaultLLMConfig())
		got, err := svc.GenerateTitle(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "New Chat", got)
	})
}
