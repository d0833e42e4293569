package hiring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerSet
	AnswerNumber
)

// Answer is the value given to one question: a string, a set of strings
// (multi-choice) or a number. The zero value is "unanswered".
type Answer struct {
	kind AnswerKind
	text string
	set  []string
	num  float64
}

func TextAnswer(s string) Answer { return Answer{kind: AnswerText, text: s} }

func SetAnswer(values ...string) Answer {
	return Answer{kind: AnswerSet, set: append([]string{}, values...)}
}

func NumberAnswer(f float64) Answer { return Answer{kind: AnswerNumber, num: f} }

// AnswerOf converts a decoded JSON or YAML value into an Answer.
func AnswerOf(v any) (Answer, error) {
	switch val := v.(type) {
	case nil:
		return Answer{}, nil
	case string:
		return TextAnswer(val), nil
	case bool:
		return TextAnswer(strconv.FormatBool(val)), nil
	case float64:
		return NumberAnswer(val), nil
	case int:
		return NumberAnswer(float64(val)), nil
	case int64:
		return NumberAnswer(float64(val)), nil
	case []string:
		return SetAnswer(val...), nil
	case []any:
		set := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return Answer{}, fmt.Errorf("set answers must contain strings, got %T", item)
			}
			set = append(set, s)
		}
		return SetAnswer(set...), nil
	default:
		return Answer{}, fmt.Errorf("unsupported answer type %T", v)
	}
}

func (a Answer) Kind() AnswerKind { return a.kind }

// Values returns the members of a set answer, or nil.
func (a Answer) Values() []string {
	if a.kind != AnswerSet {
		return nil
	}
	return append([]string(nil), a.set...)
}

// Has reports whether v is a member of a set answer.
func (a Answer) Has(v string) bool {
	for _, s := range a.set {
		if s == v {
			return true
		}
	}
	return false
}

// Empty reports whether the answer counts as unanswered: absent, blank text or
// an empty set.
func (a Answer) Empty() bool {
	switch a.kind {
	case AnswerText:
		return strings.TrimSpace(a.text) == ""
	case AnswerSet:
		return len(a.set) == 0
	case AnswerNumber:
		return false
	}
	return true
}

// String renders the answer as text. Numbers use the shortest representation.
func (a Answer) String() string {
	switch a.kind {
	case AnswerText:
		return a.text
	case AnswerSet:
		return strings.Join(a.set, ", ")
	case AnswerNumber:
		return strconv.FormatFloat(a.num, 'f', -1, 64)
	}
	return ""
}

// Len is the rune length of a text answer.
func (a Answer) Len() int {
	return len([]rune(a.String()))
}

// Float parses the answer as a finite number.
func (a Answer) Float() (float64, bool) {
	switch a.kind {
	case AnswerNumber:
		if math.IsNaN(a.num) || math.IsInf(a.num, 0) {
			return 0, false
		}
		return a.num, true
	case AnswerText:
		f, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case AnswerSet:
		if len(a.set) != len(b.set) {
			return false
		}
		for i := range a.set {
			if a.set[i] != b.set[i] {
				return false
			}
		}
		return true
	case AnswerNumber:
		return a.num == b.num
	}
	return a.text == b.text
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerText:
		return json.Marshal(a.text)
	case AnswerSet:
		return json.Marshal(a.set)
	case AnswerNumber:
		return json.Marshal(a.num)
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := AnswerOf(v)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Answers maps question ids to answers.
type Answers map[string]Answer

func (as Answers) Clone() Answers {
	out := make(Answers, len(as))
	for k, v := range as {
		v.set = append([]string(nil), v.set...)
		out[k] = v
	}
	return out
}
