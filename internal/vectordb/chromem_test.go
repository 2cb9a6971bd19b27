package vectordb

import (
	"context"
	"fmt"
	"math"
	"testing"
)

// mockEmbedder returns deterministic embeddings based on text content.
// It produces a simple hash-based vector for reproducible tests.
type mockEmbedder struct {
	dims int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.vector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

// vector produces a normalized vector from text. Texts sharing characters
// land on the same positions.
func (m *mockEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func chunk(e *mockEmbedder, docID, title string, page, idx int, content string) Document {
	return Document{
		ID:        fmt.Sprintf("%s:%d:%d", docID, page, idx),
		Content:   content,
		Embedding: e.vector(content),
		Metadata:  ChunkMetadata{DocumentID: docID, Title: title, PageNumber: page, ChunkIndex: idx},
	}
}

func newTestStore(t *testing.T, dir string) (*ChromemStore, *mockEmbedder) {
	t.Helper()
	e := newMockEmbedder(64)
	store, err := NewChromemStore(dir, "", e)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	return store, e
}

func count(t *testing.T, s VectorStore) int {
	t.Helper()
	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	return n
}

func TestChromemStore_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	store, e := newTestStore(t, "")

	docs := []Document{
		chunk(e, "doc-a", "Handbook", 1, 0, "Employees accrue twenty days of paid leave each year"),
		chunk(e, "doc-a", "Handbook", 2, 0, "Expense reports are due within thirty days of travel"),
		chunk(e, "doc-b", "Manual", 1, 0, "Reset the router by holding the button for ten seconds"),
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}
	if n := count(t, store); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}

	results, err := store.Search(ctx, e.vector("Employees accrue twenty days of paid leave each year"), 2, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search returned %d results, want 2", len(results))
	}
	top := results[0].Document
	if top.Metadata.DocumentID != "doc-a" || top.Metadata.PageNumber != 1 || top.Metadata.Title != "Handbook" {
		t.Errorf("unexpected top result metadata: %+v", top.Metadata)
	}
	if results[0].Similarity < results[1].Similarity {
		t.Error("results are not ordered by descending similarity")
	}
}

func TestChromemStore_SearchClampsLimit(t *testing.T) {
	ctx := context.Background()
	store, e := newTestStore(t, "")

	docs := []Document{
		chunk(e, "d", "T", 1, 0, "alpha beta"),
		chunk(e, "d", "T", 1, 1, "gamma delta"),
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	results, err := store.Search(ctx, e.vector("alpha"), 5, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestChromemStore_SearchEmpty(t *testing.T) {
	store, e := newTestStore(t, "")
	results, err := store.Search(context.Background(), e.vector("anything"), 5, nil)
	if err != nil {
		t.Fatalf("Search on empty store: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestChromemStore_SearchFilterNeverLeaks(t *testing.T) {
	ctx := context.Background()
	store, e := newTestStore(t, "")

	var docs []Document
	for _, id := range []string{"x", "y", "z"} {
		for i := 0; i < 4; i++ {
			docs = append(docs, chunk(e, id, "Doc "+id, i+1, 0, fmt.Sprintf("%s content about topic number %d", id, i)))
		}
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	allowed := map[string]bool{"x": true, "z": true}
	results, err := store.Search(ctx, e.vector("y content about topic number 1"), 5, &SearchFilter{DocumentIDs: []string{"x", "z", "x"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for i, r := range results {
		if !allowed[r.Document.Metadata.DocumentID] {
			t.Errorf("result from %q leaked through the filter", r.Document.Metadata.DocumentID)
		}
		if i > 0 && r.Similarity > results[i-1].Similarity {
			t.Error("merged results are not ordered")
		}
	}

	single, err := store.Search(ctx, e.vector("topic"), 10, &SearchFilter{DocumentIDs: []string{"y"}})
	if err != nil {
		t.Fatalf("Search single: %v", err)
	}
	if len(single) != 4 {
		t.Errorf("got %d results for y, want 4", len(single))
	}

	none, err := store.Search(ctx, e.vector("topic"), 3, &SearchFilter{DocumentIDs: []string{"missing"}})
	if err != nil {
		t.Fatalf("Search missing: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no results for unknown id, got %d", len(none))
	}
}

func TestChromemStore_SearchBlankFilterMatchesNothing(t *testing.T) {
	ctx := context.Background()
	store, e := newTestStore(t, "")
	docs := []Document{
		chunk(e, "doc-a", "A", 1, 0, "alpha report"),
		chunk(e, "doc-b", "B", 1, 0, "alpha notes"),
		chunk(e, "doc-b", "B", 2, 0, "alpha appendix"),
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	for _, ids := range [][]string{{""}, {"", " "}} {
		results, err := store.Search(ctx, e.vector("alpha"), 5, &SearchFilter{DocumentIDs: ids})
		if err != nil {
			t.Fatalf("Search %q: %v", ids, err)
		}
		if len(results) != 0 {
			t.Errorf("filter %q returned %d results", ids, len(results))
		}
	}

	all, err := store.Search(ctx, e.vector("alpha"), 5, &SearchFilter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("empty filter returned %d results, want 3", len(all))
	}
}

func TestSearchFilterDocumentIDs(t *testing.T) {
	tests := []struct {
		filter         *SearchFilter
		wantIDs        []string
		wantRestricted bool
	}{
		{nil, nil, false},
		{&SearchFilter{}, nil, false},
		{&SearchFilter{DocumentIDs: []string{""}}, nil, true},
		{&SearchFilter{DocumentIDs: []string{"a", "", "a", "b"}}, []string{"a", "b"}, true},
	}
	for _, tt := range tests {
		ids, restricted := tt.filter.documentIDs()
		if restricted != tt.wantRestricted || fmt.Sprint(ids) != fmt.Sprint(tt.wantIDs) {
			t.Errorf("documentIDs(%+v) = %v, %v; want %v, %v", tt.filter, ids, restricted, tt.wantIDs, tt.wantRestricted)
		}
	}
}

func TestChromemStore_SearchDuringDelete(t *testing.T) {
	ctx := context.Background()
	store, e := newTestStore(t, "")

	var stable []Document
	for i := 0; i < 5; i++ {
		stable = append(stable, chunk(e, "kept", "Kept", i+1, 0, fmt.Sprintf("kept page %d", i)))
	}
	if err := store.AddDocuments(ctx, stable); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	done := make(chan struct{})
	errs := make(chan error, 1)
	go func() {
		defer close(done)
		for round := 0; round < 100; round++ {
			var churn []Document
			for i := 0; i < 10; i++ {
				churn = append(churn, chunk(e, "churn", "Churn", i+1, 0, fmt.Sprintf("churn page %d", i)))
			}
			if err := store.AddDocuments(ctx, churn); err != nil {
				errs <- err
				return
			}
			if err := store.DeleteByDocumentID(ctx, "churn"); err != nil {
				errs <- err
				return
			}
		}
	}()

	for searching := true; searching; {
		select {
		case <-done:
			searching = false
		default:
		}
		if _, err := store.Search(ctx, e.vector("page"), 15, nil); err != nil {
			t.Fatalf("Search during delete: %v", err)
		}
	}
	select {
	case err := <-errs:
		t.Fatalf("writer: %v", err)
	default:
	}
}

func TestChromemStore_DeleteByDocumentID(t *testing.T) {
	ctx := context.Background()
	store, e := newTestStore(t, "")

	docs := []Document{
		chunk(e, "keep", "Keep", 1, 0, "first document content"),
		chunk(e, "drop", "Drop", 1, 0, "second document content"),
		chunk(e, "drop", "Drop", 2, 0, "third document content"),
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	if err := store.DeleteByDocumentID(ctx, "drop"); err != nil {
		t.Fatalf("DeleteByDocumentID: %v", err)
	}
	if n := count(t, store); n != 1 {
		t.Errorf("Count after delete: got %d, want 1", n)
	}

	// Second delete is a no-op.
	if err := store.DeleteByDocumentID(ctx, "drop"); err != nil {
		t.Fatalf("repeated DeleteByDocumentID: %v", err)
	}
	if n := count(t, store); n != 1 {
		t.Errorf("Count after repeated delete: got %d, want 1", n)
	}
}

func TestChromemStore_RejectsMissingEmbedding(t *testing.T) {
	store, _ := newTestStore(t, "")
	err := store.AddDocuments(context.Background(), []Document{{ID: "a", Content: "text"}})
	if err == nil {
		t.Fatal("expected error for document without embedding")
	}
}

func TestChromemStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, e := newTestStore(t, dir)
	docs := []Document{
		chunk(e, "p1", "Persistent", 3, 0, "persistent document about authentication"),
		chunk(e, "p1", "Persistent", 4, 0, "persistent document about database queries"),
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	reopened, _ := newTestStore(t, dir)
	if n := count(t, reopened); n != 2 {
		t.Fatalf("Count after reopen: got %d, want 2", n)
	}

	results, err := reopened.Search(ctx, e.vector("persistent document about authentication"), 1, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	md := results[0].Document.Metadata
	if md.DocumentID != "p1" || md.Title != "Persistent" || md.PageNumber != 3 {
		t.Errorf("metadata not restored: %+v", md)
	}
}

func TestMergeTopK(t *testing.T) {
	parts := [][]SearchResult{
		{{Similarity: 0.9}, {Similarity: 0.5}},
		{{Similarity: 0.7}, {Similarity: 0.6}},
	}
	got := mergeTopK(parts, 3)
	want := []float32{0.9, 0.7, 0.6}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Similarity != want[i] {
			t.Errorf("position %d: %v, want %v", i, got[i].Similarity, want[i])
		}
	}
}
