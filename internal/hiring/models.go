// Package hiring holds the data model shared by the store, the API and the
// client-side core: jobs, candidates, timeline events and assessments.
package hiring

import "time"

type JobStatus string

const (
	JobActive   JobStatus = "active"
	JobArchived JobStatus = "archived"
)

func (s JobStatus) Valid() bool {
	return s == JobActive || s == JobArchived
}

// Job is a position candidates apply to. Order defines the display and drag
// sequence; across all jobs the orders are 0..n-1.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Status      JobStatus `json:"status"`
	Tags        []string  `json:"tags"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// JobPatch is a partial job update. Nil fields are left unchanged; Tags
// pointing at an empty list clears the job's tags.
type JobPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *JobStatus `json:"status,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
}

// ReplaceTags returns a Tags patch value that replaces the job's tags with
// tags. A nil or empty tags clears them.
func ReplaceTags(tags []string) *[]string {
	out := append([]string{}, tags...)
	return &out
}

// Apply returns a copy of j with the patch applied.
func (p JobPatch) Apply(j Job) Job {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Tags != nil {
		j.Tags = append([]string{}, *p.Tags...)
	}
	return j
}

type NewJob struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      JobStatus `json:"status"`
	Tags        []string  `json:"tags"`
}

// Stage is a candidate's position in the hiring pipeline.
type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageFinal    Stage = "final"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageApplied, StageScreen, StageTech, StageFinal, StageHired, StageRejected}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// Index returns the position of s in Stages, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if s == st {
			return i
		}
	}
	return -1
}

type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Stage     Stage     `json:"currentStage"`
	JobID     string    `json:"jobId"`
	AppliedAt time.Time `json:"appliedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Notes     string    `json:"notes,omitempty"`
}

// CandidatePatch is a partial candidate update. A non-nil Stage that differs
// from the stored stage produces a stage_change timeline event.
type CandidatePatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Stage *Stage  `json:"currentStage,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (p CandidatePatch) Apply(c Candidate) Candidate {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Stage != nil {
		c.Stage = *p.Stage
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	return c
}

type NewCandidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Stage Stage  `json:"currentStage"`
	JobID string `json:"jobId"`
}

type EventKind string

const (
	EventStageChange         EventKind = "stage_change"
	EventNoteAdded           EventKind = "note_added"
	EventAssessmentSubmitted EventKind = "assessment_submitted"
)

// TimelineEvent is an append-only record of something that happened to a
// candidate.
type TimelineEvent struct {
	ID          string            `json:"id"`
	CandidateID string            `json:"candidateId"`
	Kind        EventKind         `json:"type"`
	Description string            `json:"description"`
	Timestamp   time.Time         `json:"timestamp"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Metadata keys used on stage_change and assessment_submitted events.
const (
	MetaPreviousStage = "previousStage"
	MetaNewStage      = "newStage"
	MetaAssessmentID  = "assessmentId"
	MetaResponseID    = "responseId"
)
