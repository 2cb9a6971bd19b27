package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderGoogle    ProviderType = "google"
	ProviderOllama    ProviderType = "ollama"
)

// Index backends.
const (
	IndexChromem = "chromem"
	IndexQdrant  = "qdrant"
)

// Blob backends.
const (
	BlobLocal = "local"
	BlobS3    = "s3"
)

// Config is the top-level docqa configuration, corresponding to .docqa.yml.
type Config struct {
	Provider            ProviderType `yaml:"provider" koanf:"provider"`
	Model               string       `yaml:"model" koanf:"model"`
	EmbeddingProvider   ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int          `yaml:"embedding_dimensions,omitempty" koanf:"embedding_dimensions"`
	Quality             QualityTier  `yaml:"quality" koanf:"quality"`
	DataDir             string       `yaml:"data_dir" koanf:"data_dir"`
	ChunkSize           int          `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap        int          `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	DefaultTopK         int          `yaml:"default_top_k" koanf:"default_top_k"`
	MaxTopK             int          `yaml:"max_top_k" koanf:"max_top_k"`
	MaxUploadMB         int          `yaml:"max_upload_mb" koanf:"max_upload_mb"`
	RequestsPerMinute   int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	Index               IndexConfig  `yaml:"index" koanf:"index"`
	Blob                BlobConfig   `yaml:"blob" koanf:"blob"`
	Retry               RetryConfig  `yaml:"retry" koanf:"retry"`
	Server              ServerConfig `yaml:"server" koanf:"server"`
}

// IndexConfig selects and locates the vector index.
type IndexConfig struct {
	Backend      string `yaml:"backend" koanf:"backend"`
	Dir          string `yaml:"dir,omitempty" koanf:"dir"`
	QdrantAddr   string `yaml:"qdrant_addr,omitempty" koanf:"qdrant_addr"`
	QdrantAPIKey string `yaml:"qdrant_api_key,omitempty" koanf:"qdrant_api_key"`
	QdrantTLS    bool   `yaml:"qdrant_tls,omitempty" koanf:"qdrant_tls"`
	Collection   string `yaml:"collection" koanf:"collection"`
}

// BlobConfig selects and locates the store for uploaded files.
type BlobConfig struct {
	Backend   string `yaml:"backend" koanf:"backend"`
	Dir       string `yaml:"dir,omitempty" koanf:"dir"`
	Endpoint  string `yaml:"endpoint,omitempty" koanf:"endpoint"`
	Bucket    string `yaml:"bucket,omitempty" koanf:"bucket"`
	Region    string `yaml:"region,omitempty" koanf:"region"`
	AccessKey string `yaml:"access_key,omitempty" koanf:"access_key"`
	SecretKey string `yaml:"secret_key,omitempty" koanf:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" koanf:"use_ssl"`
}

// RetryConfig bounds retries of calls to embedding and generation services.
type RetryConfig struct {
	MaxAttempts       int `yaml:"max_attempts" koanf:"max_attempts"`
	InitialIntervalMS int `yaml:"initial_interval_ms" koanf:"initial_interval_ms"`
	MaxIntervalMS     int `yaml:"max_interval_ms" koanf:"max_interval_ms"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int `yaml:"port" koanf:"port"`
	TimeoutSeconds int `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}
