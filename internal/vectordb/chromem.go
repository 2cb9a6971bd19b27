package vectordb

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/docqa/internal/embeddings"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "documents"

// ChromemStore implements VectorStore using chromem-go. With a directory it
// persists every chunk to disk as it is written.
type ChromemStore struct {
	collection *chromem.Collection
}

// NewChromemStore opens (or creates) a store. An empty dir keeps the store in
// memory. The embedder only serves chunks added without a vector.
func NewChromemStore(dir, collection string, embedder embeddings.Embedder) (*ChromemStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	var db *chromem.DB
	if dir == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(dir, true)
		if err != nil {
			return nil, fmt.Errorf("open chromem db at %s: %w", dir, err)
		}
	}

	col, err := db.GetOrCreateCollection(collection, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{collection: col}, nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		chromDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Embedding,
			Metadata:  metadataToMap(doc.Metadata),
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, embedding []float32, limit int, filter *SearchFilter) ([]SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	ids, restricted := filter.documentIDs()
	if restricted && len(ids) == 0 {
		return nil, nil
	}
	if !restricted {
		return s.query(ctx, embedding, limit, nil)
	}

	// Where clauses only support equality, so a set of ids is searched one
	// id at a time and merged.
	parts := make([][]SearchResult, 0, len(ids))
	for _, id := range ids {
		res, err := s.query(ctx, embedding, limit, map[string]string{keyDocumentID: id})
		if err != nil {
			return nil, err
		}
		parts = append(parts, res)
	}
	return mergeTopK(parts, limit), nil
}

// query clamps limit to the collection size, which chromem-go requires. A
// delete landing between the count and the query shrinks the collection
// under the clamp, so the query is retried with a fresh count.
func (s *ChromemStore) query(ctx context.Context, embedding []float32, limit int, where map[string]string) ([]SearchResult, error) {
	var (
		results []chromem.Result
		err     error
	)
	for attempt := 0; attempt < 3; attempt++ {
		n := min(limit, s.collection.Count())
		if n == 0 {
			return nil, nil
		}
		results, err = s.collection.QueryEmbedding(ctx, embedding, n, where, nil)
		if err == nil || n <= s.collection.Count() {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("document id is required")
	}
	return s.collection.Delete(ctx, map[string]string{keyDocumentID: documentID}, nil)
}

func (s *ChromemStore) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *ChromemStore) Close() error {
	return nil
}

func metadataToMap(m ChunkMetadata) map[string]string {
	return map[string]string{
		keyDocumentID: m.DocumentID,
		keyTitle:      m.Title,
		keyPage:       strconv.Itoa(m.PageNumber),
		keyChunkIndex: strconv.Itoa(m.ChunkIndex),
	}
}

func mapToMetadata(m map[string]string) ChunkMetadata {
	page, _ := strconv.Atoi(m[keyPage])
	idx, _ := strconv.Atoi(m[keyChunkIndex])
	return ChunkMetadata{
		DocumentID: m[keyDocumentID],
		Title:      m[keyTitle],
		PageNumber: page,
		ChunkIndex: idx,
	}
}
