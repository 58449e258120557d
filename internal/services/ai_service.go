package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindvault/mindvault/internal/config"
	"github.com/mindvault/mindvault/internal/llm"
)

// demoReply is returned when no LLM provider is configured, so the app stays
// usable in demo mode
const demoReply = "I understand your question. Connect an AI provider in the configuration to get real answers; for now this is a canned response."

// AIServiceImpl implements AIService on top of a generic LLM provider
type AIServiceImpl struct {
	provider llm.Provider
	cfg      config.LLMConfig
}

// NewAIService creates a new AI service. A nil provider enables demo replies.
func NewAIService(provider llm.Provider, cfg config.LLMConfig) *AIServiceImpl {
	return &AIServiceImpl{
		provider: provider,
		cfg:      cfg,
	}
}

// GenerateReply produces the assistant answer for a conversation history
func (s *AIServiceImpl) GenerateReply(ctx context.Context, history []*Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("%w: empty history", ErrInvalidInput)
	}
	if s.provider == nil {
		return demoReply, nil
	}

	prompt := strings.ReplaceAll(s.cfg.GetReplyPrompt(), "{{history}}", renderHistory(history))
	result, err := s.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return "", fmt.Errorf("%w: provider returned empty response", ErrGenerationFailed)
	}
	return result, nil
}

// GenerateTitle names a thread after its first message. Provider failures fall
// back to a local truncation so thread creation never blocks on the LLM.
func (s *AIServiceImpl) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	fallback := deriveTitle(firstMessage)
	if s.provider == nil {
		return fallback, nil
	}

	prompt := strings.ReplaceAll(s.cfg.GetTitlePrompt(), "{{body}}", firstMessage)
	result, err := s.generate(ctx, prompt)
	if err != nil {
		return fallback, nil
	}

	title := strings.Trim(strings.TrimSpace(result), `"'`)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return fallback, nil
	}
	return truncateRunes(title, 40), nil
}

// generate runs the provider call in a goroutine so it honors ctx cancellation
func (s *AIServiceImpl) generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	type generation struct {
		text string
		err  error
	}
	done := make(chan generation, 1)
	go func() {
		text, err := s.provider.Generate(prompt)
		done <- generation{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case g := <-done:
		return g.text, g.err
	}
}

func renderHistory(history []*Message) string {
	var b strings.Builder
	for _, m := range history {
		role := "User"
		if m.Sender == SenderAI {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	return b.String()
}
