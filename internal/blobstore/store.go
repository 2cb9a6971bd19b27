// Package blobstore keeps the raw bytes of uploaded files.
package blobstore

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Store saves, fetches and removes blobs by key. Keys use forward slashes.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns an error wrapping docerr.ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// DocumentKey returns the key under which a document's file is stored.
func DocumentKey(docID, filename string) string {
	return path.Join("documents", docID, path.Base(strings.ReplaceAll(filename, `\`, "/")))
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return cleaned, nil
}
