package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docqa.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docqa! Let's configure your document store.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   (fast and cheap)",
			"normal (balanced)",
			"max    (highest quality)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	quality := tiers[qualityIdx]

	preset := GetPreset(provider, quality)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (index, database, uploaded files)",
		Default: ".docqa",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Index backend.
	indexPrompt := promptui.Select{
		Label: "Select vector index",
		Items: []string{IndexChromem, IndexQdrant},
	}
	_, backend, err := indexPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("index selection: %w", err)
	}

	// 5. Default top_k.
	topKPrompt := promptui.Prompt{
		Label:    "Passages retrieved per question",
		Default:  "5",
		Validate: validateTopK,
	}
	topKStr, err := topKPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("top_k: %w", err)
	}
	topK, _ := strconv.Atoi(strings.TrimSpace(topKStr))

	// Build the config.
	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = preset.Model
	cfg.EmbeddingProvider = preset.EmbeddingProvider
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.Quality = quality
	cfg.DataDir = dataDir
	cfg.Index.Backend = backend
	cfg.DefaultTopK = topK

	// Check for API keys.
	warned := map[string]bool{}
	for _, p := range []ProviderType{provider, preset.EmbeddingProvider} {
		envVar := APIKeyEnvVar(p)
		if envVar == "" || warned[envVar] || os.Getenv(envVar) != "" {
			continue
		}
		warned[envVar] = true
		fmt.Printf("\nNote: Set %s in your environment (or .env) before running docqa.\n", envVar)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

func validateTopK(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n < 1 || n > topKLimit {
		return fmt.Errorf("must be between 1 and %d", topKLimit)
	}
	return nil
}
