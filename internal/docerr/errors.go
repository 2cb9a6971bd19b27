// Package docerr defines the error kinds surfaced by the document pipeline.
// Callers wrap upstream errors with a kind and the failing stage, e.g.
//
//	fmt.Errorf("embed chunks: %w: %w", docerr.ErrEmbeddingService, err)
//
// and match kinds with errors.Is.
package docerr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks bad input shape, size or type. User-fixable.
	ErrValidation = errors.New("validation error")

	// ErrExtraction marks a byte stream that is not a parseable PDF.
	ErrExtraction = errors.New("extraction error")

	// ErrEmptyDocument marks a PDF that yielded zero pages.
	ErrEmptyDocument = errors.New("empty document")

	// ErrEmbeddingService marks a failing or unavailable embedding capability.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGeneration marks a failing or unavailable generative model.
	ErrGeneration = errors.New("generation error")

	// ErrNotFound marks a referenced document id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfig marks invalid configuration. Fatal at startup.
	ErrConfig = errors.New("config error")
)

// HTTPStatus maps an error to the status code the API layer should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether err is caused by the caller's input.
func IsClientError(err error) bool {
	status := HTTPStatus(err)
	return status >= 400 && status < 500
}
