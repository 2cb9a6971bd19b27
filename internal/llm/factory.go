package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a provider of the given type. API keys and endpoints
// are read from the environment.
// Supported provider types: "anthropic", "openai", "google", "ollama".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return NewAnthropicProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model, os.Getenv("OPENAI_BASE_URL")), nil

	case "google":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is not set")
		}
		return NewGoogleProvider(apiKey, model), nil

	case "ollama":
		return NewOllamaProvider(OllamaHost(), model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// OllamaHost returns OLLAMA_HOST or the local default.
func OllamaHost() string {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		return host
	}
	return "http://localhost:11434"
}
