package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docqa/internal/docerr"
	"github.com/ziadkadry99/docqa/internal/documents"
)

// multipartOverhead is allowed on top of the file size for form fields and
// boundaries.
const multipartOverhead = 1 << 20

// RegisterRoutes mounts document endpoints under /documents on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", handleList(svc))
		r.Post("/upload", handleUpload(svc))
		r.Get("/{id}", handleGet(svc))
		r.Get("/{id}/file", handleDownload(svc))
		r.Delete("/{id}", handleDelete(svc))
	})
}

func handleUpload(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tooLarge := fmt.Sprintf("File size must be less than %dMB", svc.MaxUploadBytes()>>20)
		limit := svc.MaxUploadBytes() + multipartOverhead
		if r.ContentLength > limit {
			writeError(w, http.StatusBadRequest, tooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, http.StatusBadRequest, tooLarge)
				return
			}
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, svc.MaxUploadBytes()+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file")
			return
		}

		result, err := svc.Upload(r.Context(), UploadRequest{
			Filename:   header.Filename,
			Title:      r.FormValue("title"),
			Collection: r.FormValue("collection"),
			Data:       data,
		})
		if err != nil {
			writeServiceError(w, "upload", err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleList(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := svc.List(r.Context(), r.URL.Query().Get("collection"))
		if err != nil {
			writeServiceError(w, "list", err)
			return
		}
		if recs == nil {
			recs = []documents.Record{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": recs})
	}
}

func handleGet(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, "get", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func handleDownload(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, data, err := svc.Download(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, "download", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", rec.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}
}

func handleDelete(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, "delete", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
	}
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	status := docerr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ingest: %s failed: %v", op, err)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
