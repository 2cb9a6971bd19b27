package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ziadkadry99/docqa/internal/blobstore"
	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/db"
	"github.com/ziadkadry99/docqa/internal/documents"
	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/index"
	"github.com/ziadkadry99/docqa/internal/ingest"
	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// app holds the wired services shared by the commands.
type app struct {
	database *db.DB
	vectors  vectordb.VectorStore
	index    *index.Index
	ingest   *ingest.Service
	composer *qa.Composer
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docqa init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createEmbedderFromConfig creates a retrying embedder for the configured
// embedding provider.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	e, err := embeddings.NewEmbedder(string(cfg.EmbeddingProvider), cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	if err != nil {
		return nil, err
	}
	return embeddings.NewRetrying(e, cfg.RetryPolicy()), nil
}

// createLLMProviderFromConfig creates a rate limited, retrying provider.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	p = llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute)
	return llm.NewRetryingProvider(p, cfg.RetryPolicy()), nil
}

func createVectorStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	switch cfg.Index.Backend {
	case config.IndexQdrant:
		return vectordb.NewQdrantStore(ctx, vectordb.QdrantConfig{
			Addr:       cfg.Index.QdrantAddr,
			APIKey:     cfg.Index.QdrantAPIKey,
			UseTLS:     cfg.Index.QdrantTLS,
			Collection: cfg.Index.Collection,
			Dimensions: embedder.Dimensions(),
		})
	default:
		return vectordb.NewChromemStore(cfg.IndexDir(), cfg.Index.Collection, embedder)
	}
}

func createBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Blob.Backend {
	case config.BlobS3:
		return blobstore.NewMinioStore(ctx, blobstore.MinioConfig{
			Endpoint:  cfg.Blob.Endpoint,
			Bucket:    cfg.Blob.Bucket,
			AccessKey: cfg.Blob.AccessKey,
			SecretKey: cfg.Blob.SecretKey,
			UseSSL:    cfg.Blob.UseSSL,
		})
	default:
		return blobstore.NewLocalStore(cfg.BlobDir())
	}
}

// buildApp opens every store named in cfg and wires the services on top.
// The caller must Close the result.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	blobs, err := createBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening blob store: %w", err)
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	vectors, err := createVectorStore(ctx, cfg, embedder)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	ix := index.New(splitter, embedder, vectors)
	a := &app{
		database: database,
		vectors:  vectors,
		index:    ix,
		ingest:   ingest.NewService(blobs, documents.NewStore(database), ix, cfg.MaxUploadBytes()),
		composer: qa.New(ix, provider, cfg.Model, cfg.DefaultTopK, cfg.MaxTopK),
	}
	log.Printf("docqa: provider=%s model=%s embeddings=%s index=%s blob=%s",
		provider.Name(), cfg.Model, embedder.Name(), cfg.Index.Backend, cfg.Blob.Backend)
	return a, nil
}

// Close releases the database and vector store.
func (a *app) Close() error {
	return errors.Join(a.vectors.Close(), a.database.Close())
}
