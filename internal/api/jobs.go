package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// ReorderRequest moves a job from one order position to another.
type ReorderRequest struct {
	FromOrder int `json:"fromOrder"`
	ToOrder   int `json:"toOrder"`
}

func handleListJobs(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := deps.Store.ListJobs(hiring.ParseJobQuery(r.URL.Query()))
		if err != nil {
			storeError(w, err, "failed to list jobs")
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func handleCreateJob(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hiring.NewJob
		if !decodeBody(w, r, &req) {
			return
		}
		job, err := deps.Store.CreateJob(req)
		if err != nil {
			storeError(w, err, "failed to create job")
			return
		}
		writeJSON(w, http.StatusCreated, job)
	}
}

func handleGetJob(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := deps.Store.GetJob(chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, err, "job")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func handleUpdateJob(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch hiring.JobPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		job, err := deps.Store.UpdateJob(chi.URLParam(r, "id"), patch)
		if err != nil {
			storeError(w, err, "job")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func handleReorderJob(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := deps.Store.ReorderJob(chi.URLParam(r, "id"), req.FromOrder, req.ToOrder); err != nil {
			storeError(w, err, "job")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
