package mutation

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Vikas-Kain/TalentFlow/internal/querycache"
	"github.com/Vikas-Kain/TalentFlow/internal/session"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []session.Notice
}

func (r *recordingNotifier) Notify(n session.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

func cloneStrings(v []string) []string { return append([]string(nil), v...) }

func newTestEngine(t *testing.T, invalidators ...Invalidator) (*Engine[[]string], *recordingNotifier) {
	t.Helper()
	cache := querycache.New(cloneStrings)
	cache.Set("list?page=1", []string{"a", "b", "c"})
	cache.Set("list?page=2", []string{"d"})
	cache.Set("other", []string{"x"})
	n := &recordingNotifier{}
	return New(cache, n, invalidators...), n
}

func reverse(_ string, v []string) []string {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
	return v
}

func wait[R any](t *testing.T, r *Result[R]) (R, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-r.Done():
	case <-ctx.Done():
		t.Fatal("mutation did not resolve")
	}
	return r.Wait(ctx)
}

func TestMutate_OptimisticBeforeCommit(t *testing.T) {
	timeline := querycache.New[int](nil)
	timeline.Set("timeline/a", 1)
	e, n := newTestEngine(t, timeline)

	release := make(chan struct{})
	res := Mutate(context.Background(), e, Mutation[[]string, string]{
		Entity: "list:order",
		Views:  querycache.HasPrefix("list?"),
		Apply:  reverse,
		Commit: func(context.Context) (string, error) {
			<-release
			return "z", nil
		},
		Confirm: func(_ string, v []string, r string) []string { return append(v, r) },
		Derived: []string{"timeline/a"},
	})

	got, _ := e.Cache().Get("list?page=1")
	if !reflect.DeepEqual(got.Value, []string{"c", "b", "a"}) {
		t.Fatalf("optimistic view = %v", got.Value)
	}
	if res.Outcome() != Pending {
		t.Fatalf("outcome before commit = %v", res.Outcome())
	}

	close(release)
	if _, err := wait(t, res); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got, _ = e.Cache().Get("list?page=1")
	if !reflect.DeepEqual(got.Value, []string{"c", "b", "a", "z"}) || !got.Stale {
		t.Errorf("confirmed view = %+v", got)
	}
	if other, _ := e.Cache().Get("other"); other.Stale {
		t.Error("unrelated view was invalidated")
	}
	if tl, _ := timeline.Get("timeline/a"); !tl.Stale {
		t.Error("derived view not invalidated")
	}
	if res.Outcome() != Confirmed || n.count() != 0 {
		t.Errorf("outcome = %v, notices = %d", res.Outcome(), n.count())
	}
}

func TestMutate_FailureRestoresSnapshotExactly(t *testing.T) {
	e, n := newTestEngine(t)
	before := e.Cache().Snapshot(nil)

	res := Mutate(context.Background(), e, Mutation[[]string, struct{}]{
		Entity: "list:order",
		Label:  "Reorder",
		Views:  querycache.HasPrefix("list?"),
		Apply:  reverse,
		Commit: func(context.Context) (struct{}, error) {
			return struct{}{}, errors.New("server error")
		},
	})
	if _, err := wait(t, res); err == nil {
		t.Fatal("expected commit error")
	}

	after := e.Cache().Snapshot(nil)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("cache differs from pre-image:\nbefore %+v\nafter  %+v", before, after)
	}
	if res.Outcome() != RolledBack {
		t.Errorf("outcome = %v", res.Outcome())
	}
	if n.count() != 1 {
		t.Fatalf("notices = %d, want 1", n.count())
	}
	if n.notices[0].Title != "Reorder failed" || n.notices[0].Level != session.LevelError {
		t.Errorf("notice = %+v", n.notices[0])
	}
}

func TestMutate_SameEntityRunsInIssueOrder(t *testing.T) {
	e, n := newTestEngine(t)

	var mu sync.Mutex
	var started []string
	releaseFirst := make(chan struct{})

	first := Mutate(context.Background(), e, Mutation[[]string, string]{
		Entity: "candidate:1",
		Views:  querycache.Exact("list?page=1"),
		Apply:  func(_ string, v []string) []string { return append(v, "first") },
		Commit: func(context.Context) (string, error) {
			mu.Lock()
			started = append(started, "first")
			mu.Unlock()
			<-releaseFirst
			return "", errors.New("boom")
		},
	})
	second := Mutate(context.Background(), e, Mutation[[]string, string]{
		Entity: "candidate:1",
		Views:  querycache.Exact("list?page=1"),
		Apply:  func(_ string, v []string) []string { return append(v, "second") },
		Commit: func(context.Context) (string, error) {
			mu.Lock()
			started = append(started, "second")
			mu.Unlock()
			return "ok", nil
		},
	})

	time.Sleep(20 * time.Millisecond)
	select {
	case <-second.Done():
		t.Fatal("second mutation resolved before the first")
	default:
	}

	close(releaseFirst)
	wait(t, first)
	wait(t, second)

	if !reflect.DeepEqual(started, []string{"first", "second"}) {
		t.Errorf("commit order = %v", started)
	}
	if first.Outcome() != Superseded || second.Outcome() != Confirmed {
		t.Errorf("outcomes = %v, %v", first.Outcome(), second.Outcome())
	}
	if n.count() != 1 {
		t.Errorf("notices = %d, want 1 for the failed first mutation", n.count())
	}

	// The stale failure must not restore over the newer optimistic state.
	got, _ := e.Cache().Get("list?page=1")
	if !reflect.DeepEqual(got.Value, []string{"a", "b", "c", "first", "second"}) || !got.Stale {
		t.Errorf("view = %+v", got)
	}
}

func TestMutate_LatestFailureAfterEarlierSuccessIsStale(t *testing.T) {
	e, _ := newTestEngine(t)
	release := make(chan struct{})

	first := Mutate(context.Background(), e, Mutation[[]string, string]{
		Entity: "job:1",
		Views:  querycache.Exact("list?page=2"),
		Apply:  func(_ string, v []string) []string { return append(v, "first") },
		Commit: func(context.Context) (string, error) {
			<-release
			return "ok", nil
		},
	})
	second := Mutate(context.Background(), e, Mutation[[]string, string]{
		Entity: "job:1",
		Views:  querycache.Exact("list?page=2"),
		Apply:  func(_ string, v []string) []string { return append(v, "second") },
		Commit: func(context.Context) (string, error) { return "", errors.New("boom") },
	})
	close(release)
	wait(t, first)
	wait(t, second)

	got, _ := e.Cache().Get("list?page=2")
	if !reflect.DeepEqual(got.Value, []string{"d", "first"}) {
		t.Errorf("view = %v, want the second mutation rolled back", got.Value)
	}
	if !got.Stale {
		t.Error("view should be stale so it is refetched")
	}
}

func TestMutate_DifferentEntitiesIndependent(t *testing.T) {
	e, _ := newTestEngine(t)
	block := make(chan struct{})
	defer close(block)

	Mutate(context.Background(), e, Mutation[[]string, int]{
		Entity: "job:1",
		Views:  querycache.Exact("list?page=1"),
		Commit: func(context.Context) (int, error) {
			<-block
			return 1, nil
		},
	})
	other := Mutate(context.Background(), e, Mutation[[]string, int]{
		Entity: "job:2",
		Views:  querycache.Exact("list?page=2"),
		Commit: func(context.Context) (int, error) { return 2, nil },
	})

	v, err := wait(t, other)
	if err != nil || v != 2 {
		t.Errorf("other = %d, %v", v, err)
	}
}

func TestMutate_RollbackAfterOtherEntityConfirmsIsStale(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	release := make(chan struct{})

	order := Mutate(ctx, e, Mutation[[]string, int]{
		Entity: "list:order",
		Views:  querycache.Exact("list?page=1"),
		Apply:  reverse,
		Commit: func(context.Context) (int, error) {
			<-release
			return 0, errors.New("boom")
		},
	})
	rename := Mutate(ctx, e, Mutation[[]string, int]{
		Entity: "item:b",
		Views:  querycache.Exact("list?page=1"),
		Apply: func(_ string, v []string) []string {
			for i := range v {
				if v[i] == "b" {
					v[i] = "B"
				}
			}
			return v
		},
		Commit: func(context.Context) (int, error) { return 1, nil },
	})
	if _, err := wait(t, rename); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ := e.Cache().Get("list?page=1")
	if !reflect.DeepEqual(got.Value, []string{"c", "B", "a"}) || !got.Stale {
		t.Fatalf("after rename = %+v", got)
	}

	close(release)
	wait(t, order)
	if order.Outcome() != RolledBack {
		t.Fatalf("order outcome = %v", order.Outcome())
	}
	got, _ = e.Cache().Get("list?page=1")
	if !got.Stale {
		t.Fatalf("rolled back view = %+v, want it stale so the rename is refetched", got)
	}

	v, err := e.Cache().Fetch(ctx, "list?page=1", func(context.Context) ([]string, error) {
		return []string{"a", "B", "c"}, nil
	})
	if err != nil || !reflect.DeepEqual(v, []string{"a", "B", "c"}) {
		t.Errorf("refetched view = %v, %v", v, err)
	}
}

func TestMutate_RefreshDuringPendingKeepsOptimisticView(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	loading := make(chan struct{})
	finishLoad := make(chan struct{})
	refreshed := make(chan []string, 1)
	go func() {
		v, _ := e.Cache().Refresh(ctx, "list?page=1", func(context.Context) ([]string, error) {
			close(loading)
			<-finishLoad
			return []string{"a", "b", "c"}, nil
		})
		refreshed <- v
	}()
	<-loading

	release := make(chan struct{})
	res := Mutate(ctx, e, Mutation[[]string, string]{
		Entity: "list:order",
		Views:  querycache.HasPrefix("list?"),
		Apply:  reverse,
		Commit: func(context.Context) (string, error) {
			<-release
			return "ok", nil
		},
	})

	close(finishLoad)
	if v := <-refreshed; !reflect.DeepEqual(v, []string{"c", "b", "a"}) {
		t.Errorf("late refresh returned %v, want the optimistic view", v)
	}
	got, _ := e.Cache().Get("list?page=1")
	if !reflect.DeepEqual(got.Value, []string{"c", "b", "a"}) {
		t.Fatalf("late refresh overwrote the optimistic view: %+v", got)
	}
	if res.Outcome() != Pending {
		t.Fatalf("outcome = %v, want pending", res.Outcome())
	}

	close(release)
	if _, err := wait(t, res); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	got, _ = e.Cache().Get("list?page=1")
	if !reflect.DeepEqual(got.Value, []string{"c", "b", "a"}) || !got.Stale {
		t.Errorf("confirmed view = %+v", got)
	}
}

func TestMutate_RollbackSkipsEvictedViews(t *testing.T) {
	e, _ := newTestEngine(t)
	release := make(chan struct{})

	res := Mutate(context.Background(), e, Mutation[[]string, int]{
		Entity: "job:1",
		Views:  querycache.Exact("list?page=1"),
		Apply:  reverse,
		Commit: func(context.Context) (int, error) {
			<-release
			return 0, errors.New("boom")
		},
	})
	e.Cache().Delete("list?page=1")
	close(release)
	wait(t, res)

	if _, ok := e.Cache().Get("list?page=1"); ok {
		t.Error("rollback recreated an evicted view")
	}
}

func TestMutate_CanceledContextRollsBack(t *testing.T) {
	e, n := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	res := Mutate(ctx, e, Mutation[[]string, int]{
		Entity: "job:1",
		Views:  querycache.Exact("list?page=1"),
		Apply:  reverse,
		Commit: func(context.Context) (int, error) {
			called = true
			return 0, nil
		},
	})
	e.Wait()

	if called {
		t.Error("commit ran with a canceled context")
	}
	if !errors.Is(res.Err(), context.Canceled) || res.Outcome() != RolledBack {
		t.Errorf("err = %v, outcome = %v", res.Err(), res.Outcome())
	}
	if n.count() != 1 {
		t.Errorf("notices = %d", n.count())
	}
	got, _ := e.Cache().Get("list?page=1")
	if got.Value[0] != "a" {
		t.Errorf("view = %v", got.Value)
	}
}

func TestMutate_CommitPanicBecomesFailure(t *testing.T) {
	e, n := newTestEngine(t)
	res := Mutate(context.Background(), e, Mutation[[]string, int]{
		Entity: "job:1",
		Views:  querycache.Exact("list?page=1"),
		Commit: func(context.Context) (int, error) { panic("bad") },
	})
	if _, err := wait(t, res); err == nil {
		t.Fatal("expected error from panicking commit")
	}
	if n.count() != 1 {
		t.Errorf("notices = %d", n.count())
	}
}
