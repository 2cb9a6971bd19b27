// Package documents persists document records.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/docqa/internal/db"
)

// Store is the metadata store for document records.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	// Get returns nil, nil when no record has the id.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first. An empty collection lists all.
	List(ctx context.Context, collection string) ([]Record, error)
	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}

// SQLStore implements Store on the sqlite database.
type SQLStore struct {
	db *db.DB
}

// NewStore creates a new document store.
func NewStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

// Save inserts or replaces a record.
func (s *SQLStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, title, filename, page_count, collection, storage_path, size_bytes, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Filename, rec.PageCount, rec.Collection, rec.StoragePath, rec.SizeBytes, rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a record by its ID.
func (s *SQLStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, filename, page_count, collection, storage_path, size_bytes, uploaded_at
		 FROM documents WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	return rec, nil
}

// List returns records, optionally restricted to a collection.
func (s *SQLStore) List(ctx context.Context, collection string) ([]Record, error) {
	query := `SELECT id, title, filename, page_count, collection, storage_path, size_bytes, uploaded_at
		 FROM documents`
	var args []interface{}
	if collection != "" {
		query += " WHERE collection = ?"
		args = append(args, collection)
	}
	query += " ORDER BY uploaded_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Delete removes a record by ID.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(sc scanner) (*Record, error) {
	var rec Record
	err := sc.Scan(&rec.ID, &rec.Title, &rec.Filename, &rec.PageCount, &rec.Collection, &rec.StoragePath, &rec.SizeBytes, &rec.UploadedAt)
	if err != nil {
		return nil, err
	}
	rec.UploadedAt = rec.UploadedAt.UTC()
	return &rec, nil
}
