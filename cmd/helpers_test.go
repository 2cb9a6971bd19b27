package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/docerr"
)

func ollamaConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Provider = config.ProviderOllama
	cfg.Model = "llama3"
	cfg.EmbeddingProvider = config.ProviderOllama
	cfg.EmbeddingModel = "nomic-embed-text"
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func TestBuildAppLocalBackends(t *testing.T) {
	cfg := ollamaConfig(t)

	a, err := buildApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	defer a.Close()

	if a.ingest == nil || a.composer == nil || a.index == nil {
		t.Fatal("services not wired")
	}
	if _, err := os.Stat(cfg.DatabasePath()); err != nil {
		t.Errorf("database not created: %v", err)
	}
	if _, err := os.Stat(cfg.BlobDir()); err != nil {
		t.Errorf("blob dir not created: %v", err)
	}

	recs, err := a.ingest.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty catalog, got %d", len(recs))
	}
}

func TestBuildAppMissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	cfg := ollamaConfig(t)
	cfg.EmbeddingProvider = config.ProviderGoogle
	cfg.EmbeddingModel = "text-embedding-004"

	if _, err := buildApp(context.Background(), cfg); err == nil {
		t.Fatal("expected error without GOOGLE_API_KEY")
	}
}

func TestLoadConfigValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yml")
	if err := os.WriteFile(path, []byte("chunk_size: 100\nchunk_overlap: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := cfgFile
	cfgFile = path
	defer func() { cfgFile = old }()

	if _, err := loadConfig(); !errors.Is(err, docerr.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is longer", 4, "this..."},
		{"héllo wörld", 5, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
