package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

type SubmitRequest struct {
	CandidateID string         `json:"candidateId"`
	Answers     hiring.Answers `json:"responses"`
}

func handleGetAssessment(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := deps.Store.GetAssessment(chi.URLParam(r, "jobId"))
		if err != nil {
			storeError(w, err, "assessment")
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleSaveAssessment(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body hiring.Assessment
		if !decodeBody(w, r, &body) {
			return
		}
		a, err := deps.Store.SaveAssessment(chi.URLParam(r, "jobId"), body)
		if err != nil {
			storeError(w, err, "job")
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleSubmitResponse(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.CandidateID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "candidateId is required")
			return
		}
		resp, err := deps.Store.SubmitResponse(chi.URLParam(r, "jobId"), req.CandidateID, req.Answers)
		if err != nil {
			storeError(w, err, "assessment or candidate")
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}
