package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

type NoteRequest struct {
	Content string `json:"content"`
}

func handleListCandidates(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := deps.Store.ListCandidates(hiring.ParseCandidateQuery(r.URL.Query()))
		if err != nil {
			storeError(w, err, "failed to list candidates")
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func handleCreateCandidate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hiring.NewCandidate
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Store.CreateCandidate(req)
		if err != nil {
			storeError(w, err, "failed to create candidate")
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleGetCandidate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := deps.Store.GetCandidate(chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, err, "candidate")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleUpdateCandidate(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch hiring.CandidatePatch
		if !decodeBody(w, r, &patch) {
			return
		}
		c, err := deps.Store.UpdateCandidate(chi.URLParam(r, "id"), patch)
		if err != nil {
			storeError(w, err, "candidate")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleTimeline(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := deps.Store.Timeline(chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, err, "failed to load timeline")
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func handleAddNote(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NoteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		ev, err := deps.Store.AddNote(chi.URLParam(r, "id"), req.Content)
		if err != nil {
			storeError(w, err, "candidate")
			return
		}
		writeJSON(w, http.StatusCreated, ev)
	}
}

func handleListResponses(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := deps.Store.Responses(chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, err, "failed to list responses")
			return
		}
		if responses == nil {
			responses = []hiring.Response{}
		}
		writeJSON(w, http.StatusOK, responses)
	}
}
