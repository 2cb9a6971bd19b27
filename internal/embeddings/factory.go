package embeddings

import (
	"fmt"
	"os"
)

// NewEmbedder creates an embedder for the given provider and model. API keys
// and endpoints come from the environment. dimensions is only consulted for
// Ollama models, whose size cannot be inferred from the name.
func NewEmbedder(provider, model string, dimensions int) (Embedder, error) {
	switch provider {
	case "google":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required for Google embeddings")
		}
		return NewGoogleEmbedder(apiKey, GoogleModel(model)), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return NewOpenAIEmbedder(apiKey, OpenAIModel(model), os.Getenv("OPENAI_BASE_URL")), nil
	case "ollama":
		if dimensions <= 0 {
			dimensions = 768
		}
		return NewOllamaEmbedder(model, dimensions, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
