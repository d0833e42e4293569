package querycache

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func cloneInts(v []int) []int { return append([]int(nil), v...) }

func TestGetReturnsCopy(t *testing.T) {
	c := New(cloneInts)
	c.Set("k", []int{1, 2})

	e, ok := c.Get("k")
	if !ok {
		t.Fatal("expected entry")
	}
	e.Value[0] = 99

	again, _ := c.Get("k")
	if again.Value[0] != 1 {
		t.Errorf("cache value aliased caller copy: %v", again.Value)
	}
}

func TestSnapshotRollback(t *testing.T) {
	c := New(cloneInts)
	c.Set("jobs?page=1", []int{0, 1, 2})
	c.Set("jobs?page=2", []int{3})
	c.Set("candidates?page=1", []int{7})

	snap := c.Snapshot(HasPrefix("jobs?"))
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d, want 2", len(snap))
	}

	c.Update(snap.Keys(), func(_ string, v []int) []int {
		for i := range v {
			v[i] = -1
		}
		return v
	})
	held := c.Hold(snap.Keys())
	c.Release(snap.Keys())
	if stale := c.Rollback(snap, held); len(stale) != 0 {
		t.Errorf("restored stale = %v, want none", stale)
	}

	e, _ := c.Get("jobs?page=1")
	if e.Value[0] != 0 || e.Value[2] != 2 || e.Stale {
		t.Errorf("restored = %+v", e)
	}
}

func TestRollbackAfterOtherWriteIsStale(t *testing.T) {
	c := New(cloneInts)
	c.Set("a", []int{1, 2})
	c.Set("b", []int{3})

	snap := c.Snapshot(Exact("a", "b"))
	c.Update(snap.Keys(), func(_ string, v []int) []int { return append(v, 0) })
	held := c.Hold(snap.Keys())
	c.Update([]string{"a"}, func(_ string, v []int) []int {
		v[0] = 10
		return v
	})
	c.Release(snap.Keys())

	stale := c.Rollback(snap, held)
	if len(stale) != 1 || stale[0] != "a" {
		t.Fatalf("restored stale = %v, want [a]", stale)
	}
	if e, _ := c.Get("a"); !e.Stale || len(e.Value) != 2 {
		t.Errorf("a = %+v, want pre-image marked stale", e)
	}
	if e, _ := c.Get("b"); e.Stale || len(e.Value) != 1 {
		t.Errorf("b = %+v, want exact pre-image", e)
	}
}

func TestRollbackSkipsEvictedKeys(t *testing.T) {
	c := New(cloneInts)
	c.Set("a", []int{1})
	snap := c.Snapshot(Exact("a"))
	held := c.Hold(snap.Keys())
	c.Delete("a")
	c.Release(snap.Keys())

	c.Rollback(snap, held)
	if _, ok := c.Get("a"); ok {
		t.Error("rollback recreated an evicted key")
	}
}

func TestRefreshWhileHeldKeepsValue(t *testing.T) {
	c := New(cloneInts)
	c.Set("k", []int{1, 2})
	c.Hold([]string{"k"})

	got, err := c.Refresh(context.Background(), "k", func(context.Context) ([]int, error) {
		return []int{9}, nil
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Refresh returned %v, want the held value", got)
	}
	e, _ := c.Get("k")
	if len(e.Value) != 2 || !e.Stale {
		t.Errorf("held entry = %+v, want value kept and marked stale", e)
	}

	c.Release([]string{"k"})
	got, _ = c.Refresh(context.Background(), "k", func(context.Context) ([]int, error) {
		return []int{9}, nil
	})
	if e, _ := c.Get("k"); len(got) != 1 || e.Stale {
		t.Errorf("after release: got %v, entry %+v", got, e)
	}
}

func TestRefreshDiscardsResultAfterConcurrentWrite(t *testing.T) {
	c := New(cloneInts)
	c.Set("k", []int{1})

	got, err := c.Refresh(context.Background(), "k", func(context.Context) ([]int, error) {
		c.Update([]string{"k"}, func(_ string, v []int) []int { return append(v, 2) })
		return []int{0}, nil
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	e, _ := c.Get("k")
	if len(e.Value) != 2 || !e.Stale || len(got) != 2 {
		t.Errorf("entry = %+v, returned %v; want the newer write kept and stale", e, got)
	}
}

func TestInvalidate(t *testing.T) {
	c := New[int](nil)
	c.Set("timeline/1", 1)
	c.Set("timeline/2", 2)
	c.Set("jobs?", 3)

	if n := c.InvalidatePrefix("timeline/"); n != 2 {
		t.Errorf("invalidated = %d, want 2", n)
	}
	if n := c.Invalidate("missing"); n != 0 {
		t.Errorf("invalidated missing = %d", n)
	}

	stale := c.Stale()
	sort.Strings(stale)
	if len(stale) != 2 || stale[0] != "timeline/1" {
		t.Errorf("stale = %v", stale)
	}
}

func TestFetch(t *testing.T) {
	c := New[int](nil)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls * 10, nil
	}

	v, err := c.Fetch(ctx, "k", load)
	if err != nil || v != 10 {
		t.Fatalf("first fetch = %d, %v", v, err)
	}
	v, _ = c.Fetch(ctx, "k", load)
	if v != 10 || calls != 1 {
		t.Errorf("fresh entry refetched: v=%d calls=%d", v, calls)
	}

	c.Invalidate("k")
	v, _ = c.Fetch(ctx, "k", load)
	if v != 20 {
		t.Errorf("stale fetch = %d, want 20", v)
	}
	if e, _ := c.Get("k"); e.Stale {
		t.Error("entry still stale after refetch")
	}
}

func TestFetchErrorKeepsEntry(t *testing.T) {
	c := New[int](nil)
	c.Set("k", 5)
	c.Invalidate("k")

	boom := errors.New("boom")
	_, err := c.Fetch(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	e, ok := c.Get("k")
	if !ok || e.Value != 5 || !e.Stale {
		t.Errorf("entry = %+v, %v", e, ok)
	}
}
