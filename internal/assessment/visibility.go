// Package assessment evaluates conditional visibility and validation of an
// assessment against a candidate's answers, and holds the builder draft of an
// assessment definition until it is saved.
package assessment

import (
	"strings"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// Visible reports whether q is shown given the current answers. Questions
// without a condition, or with an unknown operator or an incomplete rule, are
// always visible. Conditions are evaluated once against whatever answer the
// referenced question holds, even when that question is itself hidden.
func Visible(q hiring.Question, answers hiring.Answers) bool {
	c := q.Condition
	if c == nil || c.DependsOn == "" {
		return true
	}
	v, ok := answers[c.DependsOn]
	if !ok {
		v = hiring.Answer{}
	}

	switch c.Operator {
	case hiring.OpEquals:
		if v.Kind() == hiring.AnswerSet {
			return v.Has(c.Value)
		}
		return ok && v.Kind() != hiring.AnswerNone && v.String() == c.Value
	case hiring.OpNotEquals:
		if v.Kind() == hiring.AnswerSet {
			return !v.Has(c.Value)
		}
		return !ok || v.Kind() == hiring.AnswerNone || v.String() != c.Value
	case hiring.OpContains:
		switch v.Kind() {
		case hiring.AnswerSet:
			return v.Has(c.Value)
		case hiring.AnswerText:
			return strings.Contains(v.String(), c.Value)
		}
		return false
	}
	return true
}

// VisibleQuestions returns the questions of a shown under answers, in
// section order.
func VisibleQuestions(a hiring.Assessment, answers hiring.Answers) []hiring.Question {
	var out []hiring.Question
	for _, q := range a.Questions() {
		if Visible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}
