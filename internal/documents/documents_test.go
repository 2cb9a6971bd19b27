package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ziadkadry99/docqa/internal/db"
	"github.com/ziadkadry99/docqa/internal/docerr"
)

func setupTestStore(t *testing.T) *SQLStore {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func record(id, title, collection string, uploaded time.Time) *Record {
	return &Record{
		ID:          id,
		Title:       title,
		Filename:    id + ".pdf",
		PageCount:   3,
		Collection:  collection,
		StoragePath: "documents/" + id + "/" + id + ".pdf",
		SizeBytes:   1024,
		UploadedAt:  uploaded,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	uploaded := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, record("doc-1", "Q1 Report", "finance", uploaded)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Title != "Q1 Report" || got.Collection != "finance" || got.PageCount != 3 {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.StoragePath != "documents/doc-1/doc-1.pdf" {
		t.Errorf("StoragePath = %q", got.StoragePath)
	}
	if !got.UploadedAt.Equal(uploaded) {
		t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, uploaded)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := setupTestStore(t)
	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSaveDefaultsUploadTime(t *testing.T) {
	store := setupTestStore(t)
	rec := record("doc-1", "T", "", time.Time{})
	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.UploadedAt.IsZero() {
		t.Error("expected UploadedAt to be set")
	}
}

func TestSaveValidates(t *testing.T) {
	store := setupTestStore(t)
	bad := []*Record{
		{Title: "t", Filename: "f.pdf", StoragePath: "p"},
		{ID: "a", Title: "  ", Filename: "f.pdf", StoragePath: "p"},
		{ID: "a", Title: "t", StoragePath: "p"},
		{ID: "a", Title: "t", Filename: "f.pdf"},
		{ID: "a", Title: "t", Filename: "f.pdf", StoragePath: "p", PageCount: -1},
	}
	for i, rec := range bad {
		if err := store.Save(context.Background(), rec); !errors.Is(err, docerr.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestListFiltersByCollection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, r := range []*Record{
		record("a", "A", "legal", base),
		record("b", "B", "finance", base.Add(time.Hour)),
		record("c", "C", "legal", base.Add(2*time.Hour)),
	} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].ID != "c" {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	legal, err := store.List(ctx, "legal")
	if err != nil {
		t.Fatalf("List legal: %v", err)
	}
	if len(legal) != 2 {
		t.Fatalf("got %d legal records, want 2", len(legal))
	}
	for _, r := range legal {
		if r.Collection != "legal" {
			t.Errorf("record %s has collection %q", r.ID, r.Collection)
		}
	}

	none, err := store.List(ctx, "hr")
	if err != nil {
		t.Fatalf("List hr: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty list, got %d", len(none))
	}
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, record("doc-1", "T", "", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, "doc-1"); got != nil {
		t.Error("record still present after delete")
	}
	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Errorf("deleting a missing record should succeed: %v", err)
	}
}
