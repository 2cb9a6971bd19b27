package ingest

import (
	"context"

	"github.com/ziadkadry99/docqa/internal/pdftext"
)

// DefaultMaxUploadBytes is the upload size limit when none is configured.
const DefaultMaxUploadBytes = 50 << 20

// headerWindow is how far into an upload the %PDF- marker may appear.
const headerWindow = 1024

// UploadRequest is a PDF submitted for indexing.
type UploadRequest struct {
	Filename   string
	Title      string
	Collection string
	Data       []byte
}

// UploadResult reports a successful upload.
type UploadResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	Message    string `json:"message"`
}

// Indexer stores and removes a document's searchable chunks. *index.Index
// satisfies it.
type Indexer interface {
	Add(ctx context.Context, docID, title string, pages []pdftext.Page) (int, error)
	Delete(ctx context.Context, docID string) error
}
