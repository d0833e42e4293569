package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/mutation"
	"github.com/Vikas-Kain/TalentFlow/internal/ordering"
	"github.com/Vikas-Kain/TalentFlow/internal/querycache"
	"github.com/Vikas-Kain/TalentFlow/internal/remote"
)

type candidatePage = hiring.Page[hiring.Candidate]

// Pipeline is the candidate side: list views, the stage board, timelines and
// notes.
type Pipeline struct {
	store     remote.Store
	cache     *querycache.Cache[candidatePage]
	timelines *querycache.Cache[[]hiring.TimelineEvent]
	engine    *mutation.Engine[candidatePage]
	notes     *mutation.Engine[[]hiring.TimelineEvent]
}

func (p *Pipeline) List(ctx context.Context, q hiring.CandidateQuery) (candidatePage, error) {
	q = q.Normalize()
	return p.cache.Fetch(ctx, q.Key(), func(ctx context.Context) (candidatePage, error) {
		return p.store.ListCandidates(ctx, q)
	})
}

func (p *Pipeline) Cached(q hiring.CandidateQuery) (querycache.Entry[candidatePage], bool) {
	return p.cache.Get(q.Normalize().Key())
}

func (p *Pipeline) Create(ctx context.Context, in hiring.NewCandidate) (hiring.Candidate, error) {
	c, err := p.store.CreateCandidate(ctx, in)
	if err != nil {
		return hiring.Candidate{}, fmt.Errorf("creating candidate: %w", err)
	}
	p.cache.InvalidatePrefix(candidatesPrefix)
	return c, nil
}

// Board groups the view for q into stage columns.
func (p *Pipeline) Board(ctx context.Context, q hiring.CandidateQuery) (ordering.Board, error) {
	page, err := p.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return ordering.NewBoard(page.Items), nil
}

// Drop resolves a released drag on the board built from the cached view q.
// ok is false when nothing is persisted: unknown ids, a drop inside the same
// column, or a view that is not cached.
func (p *Pipeline) Drop(ctx context.Context, q hiring.CandidateQuery, d ordering.Drop) (*mutation.Result[hiring.Candidate], bool) {
	e, found := p.Cached(q)
	if !found {
		return nil, false
	}
	t, ok := ordering.ResolveStageMove(ordering.NewBoard(e.Value.Items), d)
	if !ok {
		return nil, false
	}
	return p.Move(ctx, t.CandidateID, t.To), true
}

// Move sets a candidate's stage. Views listing the candidate change at once;
// stage-filtered views the candidate no longer matches drop it. On success
// the candidate's timeline and every other candidate view are marked stale.
func (p *Pipeline) Move(ctx context.Context, id string, to hiring.Stage) *mutation.Result[hiring.Candidate] {
	derived := append(p.cache.Keys(querycache.HasPrefix(candidatesPrefix)), hiring.TimelineKey(id))
	return mutation.Mutate(ctx, p.engine, mutation.Mutation[candidatePage, hiring.Candidate]{
		Entity: "candidate/" + id,
		Label:  "Move candidate",
		Views:  containing(p.cache, candidatesPrefix, candidateID, id),
		Apply: func(key string, page candidatePage) candidatePage {
			return moveInView(key, page, id, to)
		},
		Commit: func(ctx context.Context) (hiring.Candidate, error) {
			return p.store.UpdateCandidate(ctx, id, hiring.CandidatePatch{Stage: &to})
		},
		Confirm: func(_ string, page candidatePage, saved hiring.Candidate) candidatePage {
			for i := range page.Items {
				if page.Items[i].ID == id {
					page.Items[i] = saved
				}
			}
			return page
		},
		Derived: derived,
	})
}

// Timeline returns a candidate's events, newest first.
func (p *Pipeline) Timeline(ctx context.Context, id string) ([]hiring.TimelineEvent, error) {
	return p.timelines.Fetch(ctx, hiring.TimelineKey(id), func(ctx context.Context) ([]hiring.TimelineEvent, error) {
		return p.store.Timeline(ctx, id)
	})
}

// AddNote shows the note at the top of a cached timeline right away and
// replaces it with the stored event once the write succeeds.
func (p *Pipeline) AddNote(ctx context.Context, id, content string) *mutation.Result[hiring.TimelineEvent] {
	pending := hiring.TimelineEvent{
		ID:          uuid.NewString(),
		CandidateID: id,
		Kind:        hiring.EventNoteAdded,
		Description: "Note added: " + content,
		Timestamp:   time.Now().UTC(),
	}
	key := hiring.TimelineKey(id)
	return mutation.Mutate(ctx, p.notes, mutation.Mutation[[]hiring.TimelineEvent, hiring.TimelineEvent]{
		Entity: "candidate/" + id + "/notes",
		Label:  "Add note",
		Views:  querycache.Exact(key),
		Apply: func(_ string, evs []hiring.TimelineEvent) []hiring.TimelineEvent {
			return append([]hiring.TimelineEvent{pending}, evs...)
		},
		Commit: func(ctx context.Context) (hiring.TimelineEvent, error) {
			return p.store.AddNote(ctx, id, content)
		},
		Confirm: func(_ string, evs []hiring.TimelineEvent, saved hiring.TimelineEvent) []hiring.TimelineEvent {
			for i := range evs {
				if evs[i].ID == pending.ID {
					evs[i] = saved
				}
			}
			return evs
		},
		Derived: p.cache.Keys(querycache.HasPrefix(candidatesPrefix)),
	})
}

func candidateID(c hiring.Candidate) string { return c.ID }

// moveInView sets the candidate's stage and drops it from views filtered to
// a different stage.
func moveInView(key string, page candidatePage, id string, to hiring.Stage) candidatePage {
	for i := range page.Items {
		if page.Items[i].ID == id {
			page.Items[i].Stage = to
		}
	}
	if q, ok := parseCandidateKey(key); ok && q.Stage != "" && q.Stage != to {
		page = page.Remove(func(c hiring.Candidate) bool { return c.ID == id })
	}
	return page
}
