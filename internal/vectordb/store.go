package vectordb

import "context"

// VectorStore stores chunk vectors with their provenance and answers
// nearest-neighbour queries over them.
type VectorStore interface {
	// AddDocuments adds or replaces documents. Every document must carry
	// its embedding.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search returns up to limit documents ordered by descending similarity
	// to embedding. A filter restricts candidates before ranking.
	Search(ctx context.Context, embedding []float32, limit int, filter *SearchFilter) ([]SearchResult, error)

	// DeleteByDocumentID removes every chunk of the given source document.
	// Deleting an unknown id is not an error.
	DeleteByDocumentID(ctx context.Context, documentID string) error

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
