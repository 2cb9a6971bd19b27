// Package index turns document pages into embedded chunks and answers
// similarity queries over them.
package index

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/docerr"
	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/pdftext"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// Passage is a stored chunk returned by a search, with its similarity score.
type Passage struct {
	DocumentID string
	Title      string
	PageNumber int
	Content    string
	Score      float32
}

// Index owns the chunk store. It is safe for concurrent use as long as the
// backend is.
type Index struct {
	splitter *chunker.Splitter
	embedder embeddings.Embedder
	store    vectordb.VectorStore
}

// New creates an Index.
func New(splitter *chunker.Splitter, embedder embeddings.Embedder, store vectordb.VectorStore) *Index {
	return &Index{splitter: splitter, embedder: embedder, store: store}
}

// Add chunks every non-blank page of a document, embeds all chunks in one
// call and stores them. It returns the number of chunks stored. Nothing is
// written when embedding fails.
func (ix *Index) Add(ctx context.Context, docID, title string, pages []pdftext.Page) (int, error) {
	var docs []vectordb.Document
	for _, page := range pages {
		if page.IsBlank() {
			continue
		}
		for i, content := range ix.splitter.Split(page.Text) {
			docs = append(docs, vectordb.Document{
				ID:      fmt.Sprintf("%s:%d:%d", docID, page.Number, i),
				Content: content,
				Metadata: vectordb.ChunkMetadata{
					DocumentID: docID,
					Title:      title,
					PageNumber: page.Number,
					ChunkIndex: i,
				},
			})
		}
	}
	if len(docs) == 0 {
		return 0, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w: %w", docerr.ErrEmbeddingService, err)
	}
	if len(vectors) != len(docs) {
		return 0, fmt.Errorf("embed chunks: %w: got %d vectors for %d chunks", docerr.ErrEmbeddingService, len(vectors), len(docs))
	}
	for i := range docs {
		docs[i].Embedding = vectors[i]
	}

	if err := ix.store.AddDocuments(ctx, docs); err != nil {
		// Remove whatever part of the batch made it in.
		if delErr := ix.store.DeleteByDocumentID(context.WithoutCancel(ctx), docID); delErr != nil {
			log.Printf("index: cleanup after failed write of %s: %v", docID, delErr)
		}
		return 0, fmt.Errorf("store chunks: %w", err)
	}
	return len(docs), nil
}

// Search embeds query and returns up to k passages in descending similarity.
// When docIDs is non-empty only chunks of those documents are considered, so
// a docIDs holding only blank ids matches nothing.
func (ix *Index) Search(ctx context.Context, query string, k int, docIDs []string) ([]Passage, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", docerr.ErrValidation, k)
	}
	if len(docIDs) > 0 && allBlank(docIDs) {
		return []Passage{}, nil
	}

	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", docerr.ErrEmbeddingService, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: %w: got %d vectors", docerr.ErrEmbeddingService, len(vectors))
	}

	var filter *vectordb.SearchFilter
	if len(docIDs) > 0 {
		filter = &vectordb.SearchFilter{DocumentIDs: docIDs}
	}
	results, err := ix.store.Search(ctx, vectors[0], k, filter)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	passages := make([]Passage, len(results))
	for i, r := range results {
		md := r.Document.Metadata
		passages[i] = Passage{
			DocumentID: md.DocumentID,
			Title:      md.Title,
			PageNumber: md.PageNumber,
			Content:    r.Document.Content,
			Score:      r.Similarity,
		}
	}
	return passages, nil
}

func allBlank(ids []string) bool {
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			return false
		}
	}
	return true
}

// Delete removes every chunk of docID. Deleting an unknown document succeeds.
func (ix *Index) Delete(ctx context.Context, docID string) error {
	if err := ix.store.DeleteByDocumentID(ctx, docID); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", docID, err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (ix *Index) Count(ctx context.Context) (int, error) {
	return ix.store.Count(ctx)
}
