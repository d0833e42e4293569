// Package workflow wires the client-side core together: cached views over the
// Remote Store, the mutation engine that keeps them optimistic, the ordering
// resolver for drag gestures and the assessment builder and runner.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/mutation"
	"github.com/Vikas-Kain/TalentFlow/internal/querycache"
	"github.com/Vikas-Kain/TalentFlow/internal/remote"
	"github.com/Vikas-Kain/TalentFlow/internal/session"
)

const (
	jobsPrefix       = "jobs?"
	candidatesPrefix = "candidates?"
	timelinePrefix   = "timeline/"
	assessmentPrefix = "assessment/"
)

// refreshLimit bounds concurrent refetches of stale views.
const refreshLimit = 4

// Core is one application session.
type Core struct {
	Session     *session.State
	Jobs        *JobBoard
	Candidates  *Pipeline
	Assessments *Assessments

	logger *slog.Logger
}

// New builds a Core over store. A nil logger means slog.Default().
func New(store remote.Store, logger *slog.Logger) *Core {
	if logger == nil {
		logger = slog.Default()
	}
	state := session.New()

	jobViews := querycache.New(func(p hiring.Page[hiring.Job]) hiring.Page[hiring.Job] { return p.Clone() })
	candidateViews := querycache.New(func(p hiring.Page[hiring.Candidate]) hiring.Page[hiring.Candidate] { return p.Clone() })
	timelines := querycache.New(func(evs []hiring.TimelineEvent) []hiring.TimelineEvent { return slices.Clone(evs) })
	assessments := querycache.New(func(a hiring.Assessment) hiring.Assessment { return a.Clone() })

	jobEngine := mutation.New(jobViews, state)
	jobEngine.SetLogger(logger)
	candidateEngine := mutation.New(candidateViews, state, timelines)
	candidateEngine.SetLogger(logger)
	noteEngine := mutation.New(timelines, state, candidateViews)
	noteEngine.SetLogger(logger)

	return &Core{
		Session: state,
		Jobs:    &JobBoard{store: store, cache: jobViews, engine: jobEngine},
		Candidates: &Pipeline{
			store:     store,
			cache:     candidateViews,
			timelines: timelines,
			engine:    candidateEngine,
			notes:     noteEngine,
		},
		Assessments: &Assessments{store: store, cache: assessments, timelines: timelines},
		logger:      logger,
	}
}

// Wait blocks until every issued mutation has resolved.
func (c *Core) Wait() {
	c.Jobs.engine.Wait()
	c.Candidates.engine.Wait()
	c.Candidates.notes.Wait()
}

// Refresh refetches every stale view and returns how many were reloaded.
// Keys that no longer parse are evicted.
func (c *Core) Refresh(ctx context.Context) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshLimit)
	var n atomic.Int64

	run := func(key string, load func(context.Context) error) {
		g.Go(func() error {
			if err := load(ctx); err != nil {
				return fmt.Errorf("refreshing %s: %w", key, err)
			}
			n.Add(1)
			return nil
		})
	}

	for _, key := range c.Jobs.cache.Stale() {
		q, ok := parseJobKey(key)
		if !ok {
			c.Jobs.cache.Delete(key)
			continue
		}
		run(key, func(ctx context.Context) error {
			_, err := c.Jobs.cache.Refresh(ctx, key, func(ctx context.Context) (hiring.Page[hiring.Job], error) {
				return c.Jobs.store.ListJobs(ctx, q)
			})
			return err
		})
	}
	for _, key := range c.Candidates.cache.Stale() {
		q, ok := parseCandidateKey(key)
		if !ok {
			c.Candidates.cache.Delete(key)
			continue
		}
		run(key, func(ctx context.Context) error {
			_, err := c.Candidates.cache.Refresh(ctx, key, func(ctx context.Context) (hiring.Page[hiring.Candidate], error) {
				return c.Candidates.store.ListCandidates(ctx, q)
			})
			return err
		})
	}
	for _, key := range c.Candidates.timelines.Stale() {
		id := strings.TrimPrefix(key, timelinePrefix)
		run(key, func(ctx context.Context) error {
			_, err := c.Candidates.timelines.Refresh(ctx, key, func(ctx context.Context) ([]hiring.TimelineEvent, error) {
				return c.Candidates.store.Timeline(ctx, id)
			})
			return err
		})
	}
	for _, key := range c.Assessments.cache.Stale() {
		jobID := strings.TrimPrefix(key, assessmentPrefix)
		run(key, func(ctx context.Context) error {
			_, err := c.Assessments.cache.Refresh(ctx, key, func(ctx context.Context) (hiring.Assessment, error) {
				return c.Assessments.store.GetAssessment(ctx, jobID)
			})
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		c.logger.Warn("refresh incomplete", "refreshed", n.Load(), "error", err)
	} else {
		c.logger.Debug("views refreshed", "count", n.Load())
	}
	return int(n.Load()), err
}

func parseJobKey(key string) (hiring.JobQuery, bool) {
	raw, ok := strings.CutPrefix(key, jobsPrefix)
	if !ok {
		return hiring.JobQuery{}, false
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return hiring.JobQuery{}, false
	}
	return hiring.ParseJobQuery(v), true
}

func parseCandidateKey(key string) (hiring.CandidateQuery, bool) {
	raw, ok := strings.CutPrefix(key, candidatesPrefix)
	if !ok {
		return hiring.CandidateQuery{}, false
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return hiring.CandidateQuery{}, false
	}
	return hiring.ParseCandidateQuery(v), true
}

// containing selects the cached pages that list the item with id.
func containing[T any](c *querycache.Cache[hiring.Page[T]], prefix string, id func(T) string, want string) func(string) bool {
	var keys []string
	for _, k := range c.Keys(querycache.HasPrefix(prefix)) {
		e, ok := c.Get(k)
		if !ok {
			continue
		}
		if slices.ContainsFunc(e.Value.Items, func(it T) bool { return id(it) == want }) {
			keys = append(keys, k)
		}
	}
	return querycache.Exact(keys...)
}
