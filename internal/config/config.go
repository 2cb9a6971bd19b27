package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/docqa/internal/docerr"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".docqa.yml"

// envPrefix prefixes environment overrides. A double underscore descends
// into a nested key: DOCQA_INDEX__BACKEND sets index.backend.
const envPrefix = "DOCQA_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCQA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCQA_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized generation provider values.
var validProviders = map[ProviderType]bool{
	ProviderAnthropic: true,
	ProviderOpenAI:    true,
	ProviderGoogle:    true,
	ProviderOllama:    true,
}

// validEmbeddingProviders excludes anthropic, which has no embedding API.
var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderGoogle: true,
	ProviderOllama: true,
}

// validQualityTiers is the set of recognized quality tier values.
var validQualityTiers = map[QualityTier]bool{
	QualityLite:   true,
	QualityNormal: true,
	QualityMax:    true,
}

// topKLimit caps max_top_k.
const topKLimit = 20

// Validate checks that the configuration contains valid values. Every
// returned error wraps docerr.ErrConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", docerr.ErrConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of anthropic, openai, google, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, google, ollama", c.EmbeddingProvider)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingDimensions < 0 {
		return fmt.Errorf("embedding_dimensions must be non-negative")
	}

	if c.Quality != "" && !validQualityTiers[c.Quality] {
		return fmt.Errorf("invalid quality %q: must be one of lite, normal, max", c.Quality)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap)
	}

	if c.MaxTopK < 1 || c.MaxTopK > topKLimit {
		return fmt.Errorf("max_top_k must be between 1 and %d", topKLimit)
	}
	if c.DefaultTopK < 1 || c.DefaultTopK > c.MaxTopK {
		return fmt.Errorf("default_top_k must be between 1 and max_top_k (%d)", c.MaxTopK)
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}

	switch c.Index.Backend {
	case IndexChromem:
	case IndexQdrant:
		if c.Index.QdrantAddr == "" {
			return fmt.Errorf("index.qdrant_addr is required for the qdrant backend")
		}
	default:
		return fmt.Errorf("invalid index.backend %q: must be chromem or qdrant", c.Index.Backend)
	}
	if c.Index.Collection == "" {
		return fmt.Errorf("index.collection is required")
	}

	switch c.Blob.Backend {
	case BlobLocal:
	case BlobS3:
		if c.Blob.Endpoint == "" || c.Blob.Bucket == "" {
			return fmt.Errorf("blob.endpoint and blob.bucket are required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid blob.backend %q: must be local or s3", c.Blob.Backend)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.InitialIntervalMS < 0 || c.Retry.MaxIntervalMS < 0 {
		return fmt.Errorf("retry intervals must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
