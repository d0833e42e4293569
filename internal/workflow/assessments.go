package workflow

import (
	"context"
	"errors"

	"github.com/Vikas-Kain/TalentFlow/internal/assessment"
	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/mutation"
	"github.com/Vikas-Kain/TalentFlow/internal/querycache"
	"github.com/Vikas-Kain/TalentFlow/internal/remote"
)

// Assessments covers the builder (drafts) and the runner (forms) for job
// assessments.
type Assessments struct {
	store     remote.Store
	cache     *querycache.Cache[hiring.Assessment]
	timelines mutation.Invalidator
}

func assessmentKey(jobID string) string { return assessmentPrefix + jobID }

func (a *Assessments) Get(ctx context.Context, jobID string) (hiring.Assessment, error) {
	return a.cache.Fetch(ctx, assessmentKey(jobID), func(ctx context.Context) (hiring.Assessment, error) {
		return a.store.GetAssessment(ctx, jobID)
	})
}

// Edit opens a draft of the job's assessment, or an empty one when the job
// has none yet.
func (a *Assessments) Edit(ctx context.Context, jobID string) (*assessment.Draft, error) {
	current, err := a.Get(ctx, jobID)
	if errors.Is(err, remote.ErrNotFound) {
		return assessment.NewDraft(jobID, hiring.Assessment{}), nil
	}
	if err != nil {
		return nil, err
	}
	return assessment.NewDraft(jobID, current), nil
}

// Save stores the draft and caches the server copy.
func (a *Assessments) Save(ctx context.Context, d *assessment.Draft) (hiring.Assessment, error) {
	saved, err := d.Save(ctx, a.store)
	if err != nil {
		return hiring.Assessment{}, err
	}
	a.cache.Set(assessmentKey(saved.JobID), saved)
	return saved, nil
}

// Start opens an answer form on the job's assessment for a candidate.
func (a *Assessments) Start(ctx context.Context, jobID, candidateID string) (*assessment.Form, error) {
	current, err := a.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return assessment.NewForm(current, candidateID), nil
}

// Submit sends a valid form. The candidate's timeline gains an event, so its
// cached view goes stale.
func (a *Assessments) Submit(ctx context.Context, f *assessment.Form) (hiring.Response, error) {
	resp, err := f.Submit(ctx, a.store)
	if err != nil {
		return hiring.Response{}, err
	}
	a.timelines.Invalidate(hiring.TimelineKey(resp.CandidateID))
	return resp, nil
}
