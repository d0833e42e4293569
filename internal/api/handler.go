package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Vikas-Kain/TalentFlow/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

type AppDeps struct {
	Store      *storage.Store
	Simulation Simulation
}

// NewAppHandler returns the Remote Store HTTP API. Every route except
// /health runs behind the latency and failure simulation.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(Simulate(deps.Simulation))

		r.Get("/jobs", handleListJobs(deps))
		r.Post("/jobs", handleCreateJob(deps))
		r.Get("/jobs/{id}", handleGetJob(deps))
		r.Patch("/jobs/{id}", handleUpdateJob(deps))
		r.Patch("/jobs/{id}/reorder", handleReorderJob(deps))

		r.Get("/candidates", handleListCandidates(deps))
		r.Post("/candidates", handleCreateCandidate(deps))
		r.Get("/candidates/{id}", handleGetCandidate(deps))
		r.Patch("/candidates/{id}", handleUpdateCandidate(deps))
		r.Get("/candidates/{id}/timeline", handleTimeline(deps))
		r.Post("/candidates/{id}/notes", handleAddNote(deps))
		r.Get("/candidates/{id}/responses", handleListResponses(deps))

		r.Get("/assessments/{jobId}", handleGetAssessment(deps))
		r.Put("/assessments/{jobId}", handleSaveAssessment(deps))
		r.Post("/assessments/{jobId}/submit", handleSubmitResponse(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// storeError maps storage errors onto HTTP statuses.
func storeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "%s not found", what)
	case errors.Is(err, storage.ErrInvalid):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%s: %v", what, err)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
