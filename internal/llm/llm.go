package llm

// Provider defines a generic LLM interface
type Provider interface {
	Name() string
	Generate(prompt string) (string, error)
}
