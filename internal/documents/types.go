package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/docqa/internal/docerr"
)

// Record describes an uploaded document.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	PageCount   int       `json:"page_count"`
	Collection  string    `json:"collection,omitempty"`
	StoragePath string    `json:"storage_path"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"upload_date"`
}

// Validate checks the fields every stored record must have.
func (r *Record) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: document id is required", docerr.ErrValidation)
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: title is required", docerr.ErrValidation)
	case r.Filename == "":
		return fmt.Errorf("%w: filename is required", docerr.ErrValidation)
	case r.StoragePath == "":
		return fmt.Errorf("%w: storage path is required", docerr.ErrValidation)
	case r.PageCount < 0:
		return fmt.Errorf("%w: page count must not be negative", docerr.ErrValidation)
	}
	return nil
}
