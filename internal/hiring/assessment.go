package hiring

import "time"

type QuestionType string

const (
	SingleChoice QuestionType = "single-choice"
	MultiChoice  QuestionType = "multi-choice"
	ShortText    QuestionType = "short-text"
	LongText     QuestionType = "long-text"
	Numeric      QuestionType = "numeric"
	File         QuestionType = "file"
)

func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultiChoice, ShortText, LongText, Numeric, File:
		return true
	}
	return false
}

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultiChoice
}

// IsText reports whether the type is bounded by MaxLength.
func (t QuestionType) IsText() bool {
	return t == ShortText || t == LongText
}

type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not-equals"
	OpContains  Operator = "contains"
)

// Condition makes a question visible only when another question's answer
// matches Value under Operator.
type Condition struct {
	DependsOn string   `json:"dependsOn" yaml:"dependsOn"`
	Operator  Operator `json:"operator" yaml:"operator"`
	Value     string   `json:"value" yaml:"value"`
}

type Question struct {
	ID          string       `json:"id" yaml:"id"`
	Type        QuestionType `json:"type" yaml:"type"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool         `json:"required" yaml:"required"`
	Order       int          `json:"order" yaml:"order"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64     `json:"max,omitempty" yaml:"max,omitempty"`
	MaxLength   int          `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Condition   *Condition   `json:"conditionalLogic,omitempty" yaml:"condition,omitempty"`
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	if q.Min != nil {
		v := *q.Min
		q.Min = &v
	}
	if q.Max != nil {
		v := *q.Max
		q.Max = &v
	}
	if q.Condition != nil {
		c := *q.Condition
		q.Condition = &c
	}
	return q
}

type Section struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Order       int        `json:"order" yaml:"order"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

func (s Section) Clone() Section {
	qs := make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		qs[i] = q.Clone()
	}
	s.Questions = qs
	return s
}

type Assessment struct {
	ID          string    `json:"id" yaml:"id"`
	JobID       string    `json:"jobId" yaml:"jobId"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Sections    []Section `json:"sections" yaml:"sections"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

func (a Assessment) Clone() Assessment {
	ss := make([]Section, len(a.Sections))
	for i, s := range a.Sections {
		ss[i] = s.Clone()
	}
	a.Sections = ss
	return a
}

// Questions returns every question in section order.
func (a Assessment) Questions() []Question {
	var out []Question
	for _, s := range a.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

// Question looks up a question by id across all sections.
func (a Assessment) Question(id string) (Question, bool) {
	for _, s := range a.Sections {
		for _, q := range s.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

type ResponseStatus string

const (
	ResponseDraft     ResponseStatus = "draft"
	ResponseSubmitted ResponseStatus = "submitted"
)

// Response is a candidate's answer set for an assessment.
type Response struct {
	ID           string         `json:"id"`
	AssessmentID string         `json:"assessmentId"`
	JobID        string         `json:"jobId"`
	CandidateID  string         `json:"candidateId"`
	Answers      Answers        `json:"responses"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	Status       ResponseStatus `json:"status"`
}
