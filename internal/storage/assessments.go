package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// GetAssessment returns the assessment attached to jobID.
func (s *Store) GetAssessment(jobID string) (hiring.Assessment, error) {
	var id, body, createdAt, updatedAt string
	err := s.db.QueryRow(`SELECT id, body, created_at, updated_at FROM assessments WHERE job_id = ?`, jobID).
		Scan(&id, &body, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return hiring.Assessment{}, ErrNotFound
	}
	if err != nil {
		return hiring.Assessment{}, err
	}

	var a hiring.Assessment
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return hiring.Assessment{}, fmt.Errorf("parsing assessment %s: %w", id, err)
	}
	a.ID = id
	a.JobID = jobID
	if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return hiring.Assessment{}, err
	}
	if a.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return hiring.Assessment{}, err
	}
	if a.Sections == nil {
		a.Sections = []hiring.Section{}
	}
	return a, nil
}

// SaveAssessment creates or replaces the assessment for jobID. The stored id
// and creation time survive replacement.
func (s *Store) SaveAssessment(jobID string, a hiring.Assessment) (hiring.Assessment, error) {
	if _, err := s.GetJob(jobID); err != nil {
		return hiring.Assessment{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return hiring.Assessment{}, fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	var id, createdAt string
	err = tx.QueryRow(`SELECT id, created_at FROM assessments WHERE job_id = ?`, jobID).Scan(&id, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = a.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt = formatTime(now)
	case err != nil:
		return hiring.Assessment{}, fmt.Errorf("looking up assessment: %w", err)
	}

	a = a.Clone()
	a.ID = id
	a.JobID = jobID
	if a.Sections == nil {
		a.Sections = []hiring.Section{}
	}
	body, err := json.Marshal(a)
	if err != nil {
		return hiring.Assessment{}, fmt.Errorf("marshalling assessment: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO assessments (id, job_id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, jobID, string(body), createdAt, formatTime(now),
	)
	if err != nil {
		return hiring.Assessment{}, fmt.Errorf("saving assessment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return hiring.Assessment{}, fmt.Errorf("committing assessment: %w", err)
	}
	return s.GetAssessment(jobID)
}

// SubmitResponse stores a submitted answer set and appends an
// assessment_submitted event to the candidate's timeline.
func (s *Store) SubmitResponse(jobID, candidateID string, answers hiring.Answers) (hiring.Response, error) {
	a, err := s.GetAssessment(jobID)
	if err != nil {
		return hiring.Response{}, err
	}
	if _, err := s.GetCandidate(candidateID); err != nil {
		return hiring.Response{}, err
	}
	if answers == nil {
		answers = hiring.Answers{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return hiring.Response{}, fmt.Errorf("marshalling answers: %w", err)
	}

	now := s.now()
	resp := hiring.Response{
		ID:           uuid.New().String(),
		AssessmentID: a.ID,
		JobID:        jobID,
		CandidateID:  candidateID,
		Answers:      answers.Clone(),
		SubmittedAt:  storedTime(now),
		Status:       hiring.ResponseSubmitted,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return hiring.Response{}, fmt.Errorf("beginning submit transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO assessment_responses (id, assessment_id, candidate_id, answers, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		resp.ID, resp.AssessmentID, candidateID, string(answersJSON), string(resp.Status), formatTime(now),
	)
	if err != nil {
		return hiring.Response{}, fmt.Errorf("inserting response: %w", err)
	}

	ev := hiring.TimelineEvent{
		ID:          uuid.New().String(),
		CandidateID: candidateID,
		Kind:        hiring.EventAssessmentSubmitted,
		Description: fmt.Sprintf("Submitted assessment %q", a.Title),
		Timestamp:   now,
		Metadata: map[string]string{
			hiring.MetaAssessmentID: a.ID,
			hiring.MetaResponseID:   resp.ID,
		},
	}
	if err := insertEvent(tx, ev); err != nil {
		return hiring.Response{}, err
	}
	if err := tx.Commit(); err != nil {
		return hiring.Response{}, fmt.Errorf("committing response: %w", err)
	}
	return resp, nil
}

// Responses lists a candidate's submitted responses, newest first.
func (s *Store) Responses(candidateID string) ([]hiring.Response, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.assessment_id, a.job_id, r.candidate_id, r.answers, r.status, r.submitted_at
		FROM assessment_responses r JOIN assessments a ON a.id = r.assessment_id
		WHERE r.candidate_id = ? ORDER BY r.submitted_at DESC`, candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	defer rows.Close()

	var out []hiring.Response
	for rows.Next() {
		var r hiring.Response
		var answers, status, submittedAt string
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.JobID, &r.CandidateID, &answers, &status, &submittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("parsing answers for response %s: %w", r.ID, err)
		}
		r.Status = hiring.ResponseStatus(status)
		if r.SubmittedAt, err = parseTime("submitted_at", submittedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
