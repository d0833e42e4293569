package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

const candidateColumns = `id, name, email, phone, stage, job_id, notes, applied_at, updated_at`

func scanCandidate(row rowScanner) (hiring.Candidate, error) {
	var c hiring.Candidate
	var stage, appliedAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &stage, &c.JobID, &c.Notes, &appliedAt, &updatedAt); err != nil {
		return hiring.Candidate{}, err
	}
	c.Stage = hiring.Stage(stage)
	var err error
	if c.AppliedAt, err = parseTime("applied_at", appliedAt); err != nil {
		return hiring.Candidate{}, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return hiring.Candidate{}, err
	}
	return c, nil
}

// ListCandidates returns one page of candidates. Search matches name and email.
func (s *Store) ListCandidates(q hiring.CandidateQuery) (hiring.Page[hiring.Candidate], error) {
	q = q.Normalize()

	var where []string
	var args []any
	if q.Search != "" {
		where = append(where, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`)
		p := likePattern(q.Search)
		args = append(args, p, p)
	}
	if q.Stage != "" {
		where = append(where, "stage = ?")
		args = append(args, string(q.Stage))
	}
	if q.JobID != "" {
		where = append(where, "job_id = ?")
		args = append(args, q.JobID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM candidates"+clause, args...).Scan(&total); err != nil {
		return hiring.Page[hiring.Candidate]{}, fmt.Errorf("counting candidates: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT "+candidateColumns+" FROM candidates"+clause+" ORDER BY applied_at DESC, id ASC LIMIT ? OFFSET ?",
		append(args, q.PageSize, (q.Page-1)*q.PageSize)...,
	)
	if err != nil {
		return hiring.Page[hiring.Candidate]{}, fmt.Errorf("listing candidates: %w", err)
	}
	defer rows.Close()

	var out []hiring.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return hiring.Page[hiring.Candidate]{}, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return hiring.Page[hiring.Candidate]{}, err
	}
	return hiring.NewPage(out, q.Page, q.PageSize, total), nil
}

func (s *Store) GetCandidate(id string) (hiring.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRow("SELECT "+candidateColumns+" FROM candidates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return hiring.Candidate{}, ErrNotFound
	}
	return c, err
}

func (s *Store) CreateCandidate(in hiring.NewCandidate) (hiring.Candidate, error) {
	return s.CreateCandidateAt(in, s.now())
}

// CreateCandidateAt creates a candidate with an explicit application time,
// used when importing seed data.
func (s *Store) CreateCandidateAt(in hiring.NewCandidate, appliedAt time.Time) (hiring.Candidate, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return hiring.Candidate{}, fmt.Errorf("%w: name and email are required", ErrInvalid)
	}
	stage := in.Stage
	if stage == "" {
		stage = hiring.StageApplied
	}
	if !stage.Valid() {
		return hiring.Candidate{}, fmt.Errorf("%w: unknown stage %q", ErrInvalid, stage)
	}
	if _, err := s.GetJob(in.JobID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return hiring.Candidate{}, fmt.Errorf("%w: job %s does not exist", ErrInvalid, in.JobID)
		}
		return hiring.Candidate{}, err
	}

	c := hiring.Candidate{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		Stage:     stage,
		JobID:     in.JobID,
		AppliedAt: storedTime(appliedAt),
		UpdatedAt: storedTime(appliedAt),
	}
	_, err := s.db.Exec(`INSERT INTO candidates (`+candidateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, string(c.Stage), c.JobID, c.Notes,
		formatTime(appliedAt), formatTime(appliedAt),
	)
	if err != nil {
		return hiring.Candidate{}, fmt.Errorf("inserting candidate: %w", err)
	}
	return c, nil
}

// UpdateCandidate applies a partial update. When the stage changes, a
// stage_change event is appended in the same transaction.
func (s *Store) UpdateCandidate(id string, patch hiring.CandidatePatch) (hiring.Candidate, error) {
	if patch.Stage != nil && !patch.Stage.Valid() {
		return hiring.Candidate{}, fmt.Errorf("%w: unknown stage %q", ErrInvalid, *patch.Stage)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return hiring.Candidate{}, fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback()

	cur, err := scanCandidate(tx.QueryRow("SELECT "+candidateColumns+" FROM candidates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return hiring.Candidate{}, ErrNotFound
	}
	if err != nil {
		return hiring.Candidate{}, err
	}

	next := patch.Apply(cur)
	now := s.now()
	next.UpdatedAt = storedTime(now)

	_, err = tx.Exec(`UPDATE candidates SET name = ?, email = ?, phone = ?, stage = ?, notes = ?, updated_at = ? WHERE id = ?`,
		next.Name, next.Email, next.Phone, string(next.Stage), next.Notes, formatTime(now), id)
	if err != nil {
		return hiring.Candidate{}, fmt.Errorf("updating candidate: %w", err)
	}

	if next.Stage != cur.Stage {
		ev := hiring.TimelineEvent{
			ID:          uuid.New().String(),
			CandidateID: id,
			Kind:        hiring.EventStageChange,
			Description: fmt.Sprintf("Moved from %s to %s", cur.Stage, next.Stage),
			Timestamp:   now,
			Metadata: map[string]string{
				hiring.MetaPreviousStage: string(cur.Stage),
				hiring.MetaNewStage:      string(next.Stage),
			},
		}
		if err := insertEvent(tx, ev); err != nil {
			return hiring.Candidate{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return hiring.Candidate{}, fmt.Errorf("committing candidate update: %w", err)
	}
	return next, nil
}

// AddNote appends a note_added event and records the note on the candidate.
func (s *Store) AddNote(candidateID, content string) (hiring.TimelineEvent, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return hiring.TimelineEvent{}, fmt.Errorf("%w: note content is required", ErrInvalid)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return hiring.TimelineEvent{}, fmt.Errorf("beginning note transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	res, err := tx.Exec(`UPDATE candidates SET notes = ?, updated_at = ? WHERE id = ?`, content, formatTime(now), candidateID)
	if err != nil {
		return hiring.TimelineEvent{}, fmt.Errorf("updating candidate notes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return hiring.TimelineEvent{}, err
	}
	if n == 0 {
		return hiring.TimelineEvent{}, ErrNotFound
	}

	ev := hiring.TimelineEvent{
		ID:          uuid.New().String(),
		CandidateID: candidateID,
		Kind:        hiring.EventNoteAdded,
		Description: "Note added: " + content,
		Timestamp:   now,
		Metadata:    map[string]string{},
	}
	if err := insertEvent(tx, ev); err != nil {
		return hiring.TimelineEvent{}, err
	}
	if err := tx.Commit(); err != nil {
		return hiring.TimelineEvent{}, fmt.Errorf("committing note: %w", err)
	}
	ev.Timestamp = storedTime(now)
	return ev, nil
}

// Timeline returns a candidate's events, newest first.
func (s *Store) Timeline(candidateID string) ([]hiring.TimelineEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, candidate_id, kind, description, created_at, metadata
		FROM timeline_events WHERE candidate_id = ?
		ORDER BY created_at DESC, seq DESC`, candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing timeline: %w", err)
	}
	defer rows.Close()

	events := []hiring.TimelineEvent{}
	for rows.Next() {
		var ev hiring.TimelineEvent
		var kind, createdAt, metadata string
		if err := rows.Scan(&ev.ID, &ev.CandidateID, &kind, &ev.Description, &createdAt, &metadata); err != nil {
			return nil, err
		}
		ev.Kind = hiring.EventKind(kind)
		if ev.Timestamp, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metadata), &ev.Metadata); err != nil {
			return nil, fmt.Errorf("parsing metadata for event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func insertEvent(tx *sql.Tx, ev hiring.TimelineEvent) error {
	meta := ev.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshalling event metadata: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO timeline_events (id, candidate_id, kind, description, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.CandidateID, string(ev.Kind), ev.Description, formatTime(ev.Timestamp), string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting %s event: %w", ev.Kind, err)
	}
	return nil
}
