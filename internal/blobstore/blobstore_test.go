package blobstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/docqa/internal/docerr"
)

func TestLocalStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	key := DocumentKey("doc-1", "report.pdf")
	data := []byte("%PDF-1.4 fake body")
	if err := store.Put(ctx, key, data); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "documents", "doc-1", "report.pdf")); err != nil {
		t.Errorf("blob not written where expected: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get returned %q, want %q", got, data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, docerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("second Delete should succeed: %v", err)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	for _, key := range []string{"", "../outside.pdf", "documents/../../x", "a//b"} {
		if err := store.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "documents/id/report.pdf"},
		{"nested/dir/report.pdf", "documents/id/report.pdf"},
		{`C:\Users\me\scan.pdf`, "documents/id/scan.pdf"},
	}
	for _, tt := range tests {
		if got := DocumentKey("id", tt.filename); got != tt.want {
			t.Errorf("DocumentKey(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if contentType("documents/a/B.PDF") != "application/pdf" {
		t.Error("expected pdf content type")
	}
	if contentType("documents/a/notes.txt") != "application/octet-stream" {
		t.Error("expected generic content type")
	}
}
