package uploads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskhive/internal/domain"
)

// maxUploadBytes caps a single upload request at 32 MiB.
const maxUploadBytes = 32 << 20

// Handler accepts multipart attachment uploads for a task.
type Handler struct {
	store *Store
	tasks domain.TaskRepository
}

func NewHandler(store *Store, tasks domain.TaskRepository) *Handler {
	return &Handler{store: store, tasks: tasks}
}

// ServeHTTP handles POST /task/upload/{id}. The uploaded URLs are collected
// in a slice local to this request, so concurrent uploads for different
// tasks never see each other's files.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": "invalid task id"})
		return
	}

	if _, err := h.tasks.GetByID(r.Context(), taskID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": "task not found"})
			return
		}
		log.Error().Err(err).Msg("uploads: task lookup failed")
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": err.Error()})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": "invalid multipart payload"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var urls []string
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": err.Error()})
				return
			}

			url, err := h.store.Save(taskID, fh.Filename, f)
			_ = f.Close()
			if err != nil {
				log.Error().Err(err).Str("filename", fh.Filename).Msg("uploads: save failed")
				writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": err.Error()})
				return
			}

			urls = append(urls, url)
		}
	}

	if urls == nil {
		urls = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Files uploaded successfully.",
		"urls":    urls,
	})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
