// Package ordering turns drag gestures into persisted positions: the shift rule
// for the linear job list and stage transitions between pipeline columns.
package ordering

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// ErrOutOfRange is returned when a position falls outside the list.
var ErrOutOfRange = errors.New("position out of range")

// Move returns a copy of items with the element at from removed and
// reinserted at to.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d in %d items", ErrOutOfRange, from, to, len(items))
	}
	out := append([]T(nil), items...)
	if from == to {
		return out, nil
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}

// ReorderJobs applies the shift rule to a full set of jobs: moving the job at
// order from to order to shifts every job strictly between them by one. The
// result is sorted by order. The input is not modified.
func ReorderJobs(jobs []hiring.Job, from, to int) ([]hiring.Job, error) {
	n := len(jobs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: reorder %d -> %d in %d jobs", ErrOutOfRange, from, to, n)
	}

	out := make([]hiring.Job, n)
	copy(out, jobs)
	for i := range out {
		out[i].Order = Shift(out[i].Order, from, to)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out, nil
}

// Shift returns where the item at order o ends up when the item at from is
// moved to to. It needs no other context, so it applies to a partial view.
func Shift(o, from, to int) int {
	switch {
	case o == from:
		return to
	case from < to && o > from && o <= to:
		return o - 1
	case from > to && o >= to && o < from:
		return o + 1
	}
	return o
}

// CheckDense reports an error unless the job orders are exactly 0..n-1.
func CheckDense(jobs []hiring.Job) error {
	seen := make([]bool, len(jobs))
	for _, j := range jobs {
		if j.Order < 0 || j.Order >= len(jobs) {
			return fmt.Errorf("job %s has order %d outside [0, %d)", j.ID, j.Order, len(jobs))
		}
		if seen[j.Order] {
			return fmt.Errorf("order %d is used more than once", j.Order)
		}
		seen[j.Order] = true
	}
	return nil
}

// ResolveListMove maps a drop of activeID over overID in a linear list of ids
// to source and destination indexes. ok is false when either id is unknown or
// the drop does not move anything.
func ResolveListMove(ids []string, activeID, overID string) (from, to int, ok bool) {
	from, to = -1, -1
	for i, id := range ids {
		if id == activeID {
			from = i
		}
		if id == overID {
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return 0, 0, false
	}
	return from, to, true
}

// ReindexSections assigns order = index to every section.
func ReindexSections(sections []hiring.Section) {
	for i := range sections {
		sections[i].Order = i
	}
}

// ReindexQuestions assigns order = index to every question.
func ReindexQuestions(questions []hiring.Question) {
	for i := range questions {
		questions[i].Order = i
	}
}
