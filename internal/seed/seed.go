package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// Target is the store being seeded. *storage.Store satisfies it.
type Target interface {
	CreateJob(in hiring.NewJob) (hiring.Job, error)
	CreateCandidateAt(in hiring.NewCandidate, appliedAt time.Time) (hiring.Candidate, error)
	AddNote(candidateID, content string) (hiring.TimelineEvent, error)
	SaveAssessment(jobID string, a hiring.Assessment) (hiring.Assessment, error)
}

// Summary counts what Apply created.
type Summary struct {
	Jobs        int
	Candidates  int
	Notes       int
	Assessments int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d jobs, %d candidates, %d notes, %d assessments", s.Jobs, s.Candidates, s.Notes, s.Assessments)
}

const saveLimit = 4

// Apply writes the fixture into t. Jobs and candidates are created in fixture
// order so job orders follow the file; assessments are saved concurrently
// once their jobs exist. Application times are relative to now.
func Apply(ctx context.Context, t Target, f Fixture, now time.Time) (Summary, error) {
	var sum Summary
	type pending struct {
		jobID string
		a     hiring.Assessment
	}
	var assessments []pending

	for _, js := range f.Jobs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		job, err := t.CreateJob(hiring.NewJob{
			Title:       js.Title,
			Description: js.Description,
			Status:      hiring.JobStatus(js.Status),
			Tags:        js.Tags,
		})
		if err != nil {
			return sum, fmt.Errorf("creating job %q: %w", js.Title, err)
		}
		sum.Jobs++

		for _, cs := range js.Candidates {
			appliedAt := now.Add(-time.Duration(cs.AppliedDaysAgo) * 24 * time.Hour)
			c, err := t.CreateCandidateAt(hiring.NewCandidate{
				Name:  cs.Name,
				Email: cs.Email,
				Phone: cs.Phone,
				Stage: hiring.Stage(cs.Stage),
				JobID: job.ID,
			}, appliedAt)
			if err != nil {
				return sum, fmt.Errorf("creating candidate %q: %w", cs.Name, err)
			}
			sum.Candidates++
			for _, note := range cs.Notes {
				if _, err := t.AddNote(c.ID, note); err != nil {
					return sum, fmt.Errorf("adding note for %q: %w", cs.Name, err)
				}
				sum.Notes++
			}
		}

		if js.Assessment != nil {
			assessments = append(assessments, pending{jobID: job.ID, a: *js.Assessment})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(saveLimit)
	for _, p := range assessments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := t.SaveAssessment(p.jobID, p.a); err != nil {
				return fmt.Errorf("saving assessment %q: %w", p.a.Title, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	sum.Assessments = len(assessments)
	return sum, nil
}
