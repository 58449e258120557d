package llm

import (
	"time"
)

// NewProviderFromConfig creates a Provider from config fields
func NewProviderFromConfig(provider, arg, model string, timeout time.Duration) (Provider, error) {
	switch provider {
	case "bedrock":
		return NewBedrock(arg, model, timeout)
	case "ollama", "":
		return NewClient(arg, model, timeout), nil
	default:
		return NewClient(arg, model, timeout), nil
	}
}
