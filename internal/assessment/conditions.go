package assessment

import (
	"errors"
	"fmt"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// ErrCyclicCondition is returned for condition chains that loop back on
// themselves or reference a question that does not exist.
var ErrCyclicCondition = errors.New("invalid conditional logic")

// CheckConditions verifies every condition in a references an existing
// question other than its own, and that no chain of conditions forms a cycle.
func CheckConditions(a hiring.Assessment) error {
	deps := make(map[string]string)
	exists := make(map[string]bool)
	for _, q := range a.Questions() {
		exists[q.ID] = true
		if q.Condition != nil && q.Condition.DependsOn != "" {
			deps[q.ID] = q.Condition.DependsOn
		}
	}

	for id, dep := range deps {
		if !exists[dep] {
			return fmt.Errorf("%w: question %s depends on unknown question %s", ErrCyclicCondition, id, dep)
		}
	}

	// Each question has at most one dependency, so following the chain from
	// every question finds any cycle.
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int)
	for start := range deps {
		var path []string
		cur := start
		for {
			switch state[cur] {
			case inProgress:
				return fmt.Errorf("%w: cycle through question %s", ErrCyclicCondition, cur)
			case done:
			default:
				state[cur] = inProgress
				path = append(path, cur)
				if next, ok := deps[cur]; ok {
					cur = next
					continue
				}
			}
			break
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return nil
}
