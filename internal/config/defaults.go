package config

import (
	"path/filepath"
	"time"

	"github.com/ziadkadry99/docqa/internal/retry"
)

// QualityPreset describes the models to use for a given quality tier.
type QualityPreset struct {
	Model             string
	EmbeddingProvider ProviderType
	EmbeddingModel    string
}

// qualityPresets maps each provider+quality combination to its model choices.
// Anthropic has no embedding API, so its presets embed with OpenAI.
var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderAnthropic: {
		QualityLite:   {Model: "claude-haiku-4-5-20251001", EmbeddingProvider: ProviderOpenAI, EmbeddingModel: "text-embedding-3-small"},
		QualityNormal: {Model: "claude-sonnet-4-5-20250929", EmbeddingProvider: ProviderOpenAI, EmbeddingModel: "text-embedding-3-small"},
		QualityMax:    {Model: "claude-opus-4-6", EmbeddingProvider: ProviderOpenAI, EmbeddingModel: "text-embedding-3-large"},
	},
	ProviderOpenAI: {
		QualityLite:   {Model: "gpt-4o-mini", EmbeddingProvider: ProviderOpenAI, EmbeddingModel: "text-embedding-3-small"},
		QualityNormal: {Model: "gpt-4o", EmbeddingProvider: ProviderOpenAI, EmbeddingModel: "text-embedding-3-small"},
		QualityMax:    {Model: "gpt-4.1", EmbeddingProvider: ProviderOpenAI, EmbeddingModel: "text-embedding-3-large"},
	},
	ProviderGoogle: {
		QualityLite:   {Model: "gemini-2.5-flash-lite", EmbeddingProvider: ProviderGoogle, EmbeddingModel: "text-embedding-004"},
		QualityNormal: {Model: "gemini-2.5-flash", EmbeddingProvider: ProviderGoogle, EmbeddingModel: "text-embedding-004"},
		QualityMax:    {Model: "gemini-2.5-pro", EmbeddingProvider: ProviderGoogle, EmbeddingModel: "gemini-embedding-001"},
	},
	ProviderOllama: {
		QualityLite:   {Model: "llama3", EmbeddingProvider: ProviderOllama, EmbeddingModel: "nomic-embed-text"},
		QualityNormal: {Model: "llama3", EmbeddingProvider: ProviderOllama, EmbeddingModel: "nomic-embed-text"},
		QualityMax:    {Model: "llama3:70b", EmbeddingProvider: ProviderOllama, EmbeddingModel: "nomic-embed-text"},
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             "gemini-2.5-flash",
		EmbeddingProvider: ProviderGoogle,
		EmbeddingModel:    "text-embedding-004",
		Quality:           QualityNormal,
		DataDir:           ".docqa",
		ChunkSize:         1000,
		ChunkOverlap:      200,
		DefaultTopK:       5,
		MaxTopK:           20,
		MaxUploadMB:       50,
		RequestsPerMinute: 60,
		Index: IndexConfig{
			Backend:    IndexChromem,
			QdrantAddr: "localhost:6334",
			Collection: "documents",
		},
		Blob: BlobConfig{
			Backend: BlobLocal,
			Bucket:  "docqa-pdfs",
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialIntervalMS: 500,
			MaxIntervalMS:     8000,
		},
		Server: ServerConfig{
			Port:           8000,
			TimeoutSeconds: 120,
		},
	}
}

// GetPreset returns the quality preset for the given provider and tier.
// Returns the Normal Google preset if the combination is not found.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderGoogle][QualityNormal]
}

// DatabasePath is the sqlite file holding document records.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "docqa.db")
}

// IndexDir is where the embedded vector index persists. Defaults to
// <data_dir>/index.
func (c *Config) IndexDir() string {
	if c.Index.Dir != "" {
		return c.Index.Dir
	}
	return filepath.Join(c.DataDir, "index")
}

// BlobDir is where the local blob store keeps files. Defaults to
// <data_dir>/files.
func (c *Config) BlobDir() string {
	if c.Blob.Dir != "" {
		return c.Blob.Dir
	}
	return filepath.Join(c.DataDir, "files")
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// RetryPolicy converts the retry settings for the retry package.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     c.Retry.MaxAttempts,
		InitialInterval: time.Duration(c.Retry.InitialIntervalMS) * time.Millisecond,
		MaxInterval:     time.Duration(c.Retry.MaxIntervalMS) * time.Millisecond,
	}
}
