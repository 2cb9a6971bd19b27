package vectordb

import "strings"

// Document is one chunk of a source document together with its vector.
type Document struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  ChunkMetadata
}

// ChunkMetadata records where a chunk came from.
type ChunkMetadata struct {
	DocumentID string
	Title      string
	PageNumber int
	ChunkIndex int
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter narrows a search. A nil filter or an empty DocumentIDs means
// no restriction. A non-empty DocumentIDs holding only blank ids matches
// nothing.
type SearchFilter struct {
	DocumentIDs []string
}

// documentIDs returns the distinct non-blank ids and whether the filter
// restricts the search at all.
func (f *SearchFilter) documentIDs() (ids []string, restricted bool) {
	if f == nil || len(f.DocumentIDs) == 0 {
		return nil, false
	}
	seen := make(map[string]bool, len(f.DocumentIDs))
	for _, id := range f.DocumentIDs {
		if strings.TrimSpace(id) == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, true
}

// Payload keys shared by the backends.
const (
	keyDocumentID = "document_id"
	keyTitle      = "title"
	keyPage       = "page_number"
	keyChunkIndex = "chunk_index"
	keyContent    = "content"
)
