// Package ingest runs the document lifecycle: upload, listing, download and
// deletion across the blob store, the metadata store and the index.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docqa/internal/blobstore"
	"github.com/ziadkadry99/docqa/internal/docerr"
	"github.com/ziadkadry99/docqa/internal/documents"
	"github.com/ziadkadry99/docqa/internal/pdftext"
)

// Service coordinates the stores that make up a document.
type Service struct {
	blobs    blobstore.Store
	records  documents.Store
	index    Indexer
	maxBytes int64
	locks    *keyedMutex
	newID    func() string
}

// NewService creates a Service. A non-positive maxBytes uses
// DefaultMaxUploadBytes.
func NewService(blobs blobstore.Store, records documents.Store, index Indexer, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Service{
		blobs:    blobs,
		records:  records,
		index:    index,
		maxBytes: maxBytes,
		locks:    newKeyedMutex(),
		newID:    uuid.NewString,
	}
}

// MaxUploadBytes returns the largest accepted upload.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}

func (s *Service) validate(req UploadRequest) error {
	if !strings.EqualFold(filepath.Ext(req.Filename), ".pdf") {
		return fmt.Errorf("%w: Only PDF files are allowed", docerr.ErrValidation)
	}
	if int64(len(req.Data)) > s.maxBytes {
		return fmt.Errorf("%w: File size must be less than %dMB", docerr.ErrValidation, s.maxBytes>>20)
	}
	head := req.Data[:min(len(req.Data), headerWindow)]
	if !bytes.Contains(head, []byte("%PDF-")) {
		return fmt.Errorf("%w: file is not a PDF", docerr.ErrValidation)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", docerr.ErrValidation)
	}
	return nil
}

// Upload validates and extracts a PDF, stores its bytes and record, and
// indexes its pages. If any step after extraction fails, the steps already
// done are undone before the error is returned.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	content, err := pdftext.Extract(req.Data)
	if err != nil {
		return nil, fmt.Errorf("extract pdf: %w", err)
	}
	if content.PageCount == 0 {
		return nil, fmt.Errorf("%w: Could not extract any content from the PDF", docerr.ErrEmptyDocument)
	}

	id := s.newID()
	unlock := s.locks.Lock(id)
	defer unlock()

	rec := &documents.Record{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Filename:    filepath.Base(req.Filename),
		PageCount:   content.PageCount,
		Collection:  strings.TrimSpace(req.Collection),
		StoragePath: blobstore.DocumentKey(id, req.Filename),
		SizeBytes:   int64(len(req.Data)),
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.blobs.Put(ctx, rec.StoragePath, req.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	if err := s.records.Save(ctx, rec); err != nil {
		s.rollback(ctx, rec, false)
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	chunks, err := s.index.Add(ctx, id, rec.Title, content.Pages)
	if err != nil {
		s.rollback(ctx, rec, true)
		return nil, fmt.Errorf("index document: %w", err)
	}

	log.Printf("ingest: uploaded %s (%q): %d pages, %d chunks", id, rec.Title, rec.PageCount, chunks)
	return &UploadResult{
		DocumentID: id,
		ChunkCount: chunks,
		Message:    fmt.Sprintf("Document uploaded successfully. Created %d searchable chunks.", chunks),
	}, nil
}

// rollback undoes a partial upload. Failures are logged, not returned.
func (s *Service) rollback(ctx context.Context, rec *documents.Record, indexed bool) {
	ctx = context.WithoutCancel(ctx)
	if indexed {
		if err := s.index.Delete(ctx, rec.ID); err != nil {
			log.Printf("ingest: rollback %s: delete chunks: %v", rec.ID, err)
		}
	}
	if err := s.blobs.Delete(ctx, rec.StoragePath); err != nil {
		log.Printf("ingest: rollback %s: delete file: %v", rec.ID, err)
	}
	if err := s.records.Delete(ctx, rec.ID); err != nil {
		log.Printf("ingest: rollback %s: delete metadata: %v", rec.ID, err)
	}
}

// Get returns the record for id, or an error wrapping docerr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*documents.Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: document %s", docerr.ErrNotFound, id)
	}
	return rec, nil
}

// List returns document records, newest first. An empty collection lists all.
func (s *Service) List(ctx context.Context, collection string) ([]documents.Record, error) {
	recs, err := s.records.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	return recs, nil
}

// Download returns a document's record and its original file.
func (s *Service) Download(ctx context.Context, id string) (*documents.Record, []byte, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.blobs.Get(ctx, rec.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load file: %w", err)
	}
	return rec, data, nil
}

// Delete removes a document's chunks, file and record, in that order. It
// stops at the first failing step.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.blobs.Delete(ctx, rec.StoragePath); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}

	log.Printf("ingest: deleted %s (%q)", id, rec.Title)
	return nil
}
