package assessment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// Errors maps question ids to one validation message each.
type Errors map[string]string

// ValidationError is returned when a submission is refused.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + ": " + e.Errors[id]
	}
	return fmt.Sprintf("%d invalid answer(s): %s", len(ids), strings.Join(parts, "; "))
}

const (
	msgRequired   = "This question is required"
	msgNotNumeric = "Please enter a valid number"
)

// Validate checks every visible question of a against answers. Hidden
// questions are never validated.
func Validate(a hiring.Assessment, answers hiring.Answers) Errors {
	errs := Errors{}
	for _, q := range VisibleQuestions(a, answers) {
		if msg, ok := checkQuestion(q, answers[q.ID]); !ok {
			errs[q.ID] = msg
		}
	}
	return errs
}

func checkQuestion(q hiring.Question, ans hiring.Answer) (string, bool) {
	if ans.Empty() {
		if q.Required {
			return msgRequired, false
		}
		return "", true
	}

	switch {
	case q.Type == hiring.Numeric:
		n, ok := ans.Float()
		if !ok {
			return msgNotNumeric, false
		}
		// Both bounds share one slot; the maximum check runs last and wins.
		msg := ""
		if q.Min != nil && n < *q.Min {
			msg = "Value must be at least " + formatNumber(*q.Min)
		}
		if q.Max != nil && n > *q.Max {
			msg = "Value must be at most " + formatNumber(*q.Max)
		}
		if msg != "" {
			return msg, false
		}
	case q.Type.IsText():
		if q.MaxLength > 0 && ans.Len() > q.MaxLength {
			return fmt.Sprintf("Answer must be at most %d characters", q.MaxLength), false
		}
	}
	return "", true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
