package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/mutation"
	"github.com/Vikas-Kain/TalentFlow/internal/ordering"
	"github.com/Vikas-Kain/TalentFlow/internal/querycache"
	"github.com/Vikas-Kain/TalentFlow/internal/remote"
)

// jobOrderEntity serializes reorders. Every reorder shifts other jobs, so
// they all share one entity.
const jobOrderEntity = "jobs/order"

type jobPage = hiring.Page[hiring.Job]

// JobBoard is the jobs list with drag reordering and inline edits.
type JobBoard struct {
	store  remote.Store
	cache  *querycache.Cache[jobPage]
	engine *mutation.Engine[jobPage]
}

// List returns the view for q, fetching it when missing or stale.
func (b *JobBoard) List(ctx context.Context, q hiring.JobQuery) (jobPage, error) {
	q = q.Normalize()
	return b.cache.Fetch(ctx, q.Key(), func(ctx context.Context) (jobPage, error) {
		return b.store.ListJobs(ctx, q)
	})
}

// Cached returns the view for q without fetching.
func (b *JobBoard) Cached(q hiring.JobQuery) (querycache.Entry[jobPage], bool) {
	return b.cache.Get(q.Normalize().Key())
}

// Create adds a job. It is not optimistic; list views go stale afterwards.
func (b *JobBoard) Create(ctx context.Context, in hiring.NewJob) (hiring.Job, error) {
	job, err := b.store.CreateJob(ctx, in)
	if err != nil {
		return hiring.Job{}, fmt.Errorf("creating job: %w", err)
	}
	b.cache.InvalidatePrefix(jobsPrefix)
	return job, nil
}

// Reorder moves the job at order from to order to. Every cached list view is
// resequenced before the write is sent.
func (b *JobBoard) Reorder(ctx context.Context, id string, from, to int) *mutation.Result[struct{}] {
	return mutation.Mutate(ctx, b.engine, mutation.Mutation[jobPage, struct{}]{
		Entity: jobOrderEntity,
		Label:  "Reorder job",
		Views:  querycache.HasPrefix(jobsPrefix),
		Apply: func(key string, p jobPage) jobPage {
			return reorderView(key, p, from, to)
		},
		Commit: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, b.store.ReorderJob(ctx, id, from, to)
		},
	})
}

// Drop resolves a drag of activeID over overID in the cached view q and
// issues the reorder. ok is false when the view is not cached, not sorted by
// order, or the drop moves nothing.
func (b *JobBoard) Drop(ctx context.Context, q hiring.JobQuery, activeID, overID string) (res *mutation.Result[struct{}], ok bool) {
	q = q.Normalize()
	if q.Sort != hiring.SortByOrder {
		return nil, false
	}
	e, found := b.cache.Get(q.Key())
	if !found {
		return nil, false
	}
	ids := make([]string, len(e.Value.Items))
	for i, j := range e.Value.Items {
		ids[i] = j.ID
	}
	from, to, ok := ordering.ResolveListMove(ids, activeID, overID)
	if !ok {
		return nil, false
	}
	return b.Reorder(ctx, activeID, e.Value.Items[from].Order, e.Value.Items[to].Order), true
}

// Update patches a job optimistically in every view that lists it.
func (b *JobBoard) Update(ctx context.Context, id string, patch hiring.JobPatch) *mutation.Result[hiring.Job] {
	return mutation.Mutate(ctx, b.engine, mutation.Mutation[jobPage, hiring.Job]{
		Entity: "job/" + id,
		Label:  "Update job",
		Views:  containing(b.cache, jobsPrefix, jobID, id),
		Apply: func(key string, p jobPage) jobPage {
			return patchInView(key, p, id, patch.Apply)
		},
		Commit: func(ctx context.Context) (hiring.Job, error) {
			return b.store.UpdateJob(ctx, id, patch)
		},
		Confirm: func(key string, p jobPage, saved hiring.Job) jobPage {
			return patchInView(key, p, id, func(hiring.Job) hiring.Job { return saved })
		},
	})
}

// Archive sets a job's status to archived.
func (b *JobBoard) Archive(ctx context.Context, id string) *mutation.Result[hiring.Job] {
	archived := hiring.JobArchived
	return b.Update(ctx, id, hiring.JobPatch{Status: &archived})
}

func jobID(j hiring.Job) string { return j.ID }

// patchInView rewrites the job and drops it from views filtered to a status
// it no longer has.
func patchInView(key string, p jobPage, id string, fn func(hiring.Job) hiring.Job) jobPage {
	for i := range p.Items {
		if p.Items[i].ID == id {
			p.Items[i] = fn(p.Items[i])
		}
	}
	if q, ok := parseJobKey(key); ok && q.Status != "" {
		p = p.Remove(func(j hiring.Job) bool { return j.ID == id && j.Status != q.Status })
	}
	return p
}

// reorderView applies the shift rule to one page. A page holds only part of
// the jobs, so an order-sorted page may briefly show neighbours from the
// wrong page; the view is refetched once the write settles.
func reorderView(key string, p jobPage, from, to int) jobPage {
	for i := range p.Items {
		p.Items[i].Order = ordering.Shift(p.Items[i].Order, from, to)
	}
	if q, ok := parseJobKey(key); ok && q.Sort == hiring.SortByOrder {
		sort.SliceStable(p.Items, func(a, c int) bool { return p.Items[a].Order < p.Items[c].Order })
	}
	return p
}
