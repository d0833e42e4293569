package assessment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/ordering"
)

// Default shapes of new questions.
const (
	DefaultShortTextMax = 200
	DefaultLongTextMax  = 2000
	DefaultNumericMin   = 0
	DefaultNumericMax   = 100
)

// Saver creates or replaces the assessment of a job.
type Saver interface {
	SaveAssessment(ctx context.Context, jobID string, a hiring.Assessment) (hiring.Assessment, error)
}

// SectionPatch updates a section's text fields. Nil fields are unchanged.
type SectionPatch struct {
	Title       *string
	Description *string
}

// QuestionPatch updates a question in place. Nil fields are unchanged;
// ClearCondition removes an existing condition.
type QuestionPatch struct {
	Title          *string
	Description    *string
	Type           *hiring.QuestionType
	Required       *bool
	Options        []string
	Min            *float64
	Max            *float64
	MaxLength      *int
	Condition      *hiring.Condition
	ClearCondition bool
}

// Draft is the builder's editable copy of an assessment. Every structural
// change leaves section and question orders dense.
type Draft struct {
	mu sync.Mutex
	a  hiring.Assessment
}

// NewDraft starts editing a copy of a. An empty assessment is fine.
func NewDraft(jobID string, a hiring.Assessment) *Draft {
	a = a.Clone()
	a.JobID = jobID
	ordering.ReindexSections(a.Sections)
	for i := range a.Sections {
		ordering.ReindexQuestions(a.Sections[i].Questions)
	}
	return &Draft{a: a}
}

// Assessment returns a deep copy of the draft.
func (d *Draft) Assessment() hiring.Assessment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.a.Clone()
}

func (d *Draft) SetTitle(title, description string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.a.Title = title
	d.a.Description = description
}

// AddSection appends an empty section and returns its id.
func (d *Draft) AddSection(title string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := hiring.Section{
		ID:        uuid.New().String(),
		Title:     title,
		Order:     len(d.a.Sections),
		Questions: []hiring.Question{},
	}
	d.a.Sections = append(d.a.Sections, s)
	return s.ID
}

func (d *Draft) UpdateSection(id string, p SectionPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.sectionIndex(id)
	if i < 0 {
		return fmt.Errorf("section %s not found", id)
	}
	if p.Title != nil {
		d.a.Sections[i].Title = *p.Title
	}
	if p.Description != nil {
		d.a.Sections[i].Description = *p.Description
	}
	return nil
}

func (d *Draft) DeleteSection(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.sectionIndex(id)
	if i < 0 {
		return fmt.Errorf("section %s not found", id)
	}
	d.a.Sections = append(d.a.Sections[:i], d.a.Sections[i+1:]...)
	ordering.ReindexSections(d.a.Sections)
	return nil
}

// MoveSection moves the section at from to position to.
func (d *Draft) MoveSection(from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	moved, err := ordering.Move(d.a.Sections, from, to)
	if err != nil {
		return err
	}
	d.a.Sections = moved
	ordering.ReindexSections(d.a.Sections)
	return nil
}

// AddQuestion appends a question of type t with its default shape and
// returns its id.
func (d *Draft) AddQuestion(sectionID string, t hiring.QuestionType, title string) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("unknown question type %q", t)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.sectionIndex(sectionID)
	if i < 0 {
		return "", fmt.Errorf("section %s not found", sectionID)
	}
	q := defaultQuestion(t)
	q.ID = uuid.New().String()
	q.Title = title
	q.Order = len(d.a.Sections[i].Questions)
	d.a.Sections[i].Questions = append(d.a.Sections[i].Questions, q)
	return q.ID, nil
}

func defaultQuestion(t hiring.QuestionType) hiring.Question {
	q := hiring.Question{Type: t}
	switch {
	case t.IsChoice():
		q.Options = []string{"Option 1", "Option 2"}
	case t == hiring.Numeric:
		lo, hi := float64(DefaultNumericMin), float64(DefaultNumericMax)
		q.Min, q.Max = &lo, &hi
	case t == hiring.ShortText:
		q.MaxLength = DefaultShortTextMax
	case t == hiring.LongText:
		q.MaxLength = DefaultLongTextMax
	}
	return q
}

func (d *Draft) UpdateQuestion(sectionID, questionID string, p QuestionPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	si, qi, err := d.questionIndex(sectionID, questionID)
	if err != nil {
		return err
	}
	q := &d.a.Sections[si].Questions[qi]
	if p.Type != nil {
		if !p.Type.Valid() {
			return fmt.Errorf("unknown question type %q", *p.Type)
		}
		if *p.Type != q.Type {
			shape := defaultQuestion(*p.Type)
			q.Type, q.Options, q.Min, q.Max, q.MaxLength = shape.Type, shape.Options, shape.Min, shape.Max, shape.MaxLength
		}
	}
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Required != nil {
		q.Required = *p.Required
	}
	if p.Options != nil {
		q.Options = append([]string(nil), p.Options...)
	}
	if p.Min != nil {
		v := *p.Min
		q.Min = &v
	}
	if p.Max != nil {
		v := *p.Max
		q.Max = &v
	}
	if p.MaxLength != nil {
		q.MaxLength = *p.MaxLength
	}
	if p.ClearCondition {
		q.Condition = nil
	}
	if p.Condition != nil {
		c := *p.Condition
		q.Condition = &c
	}
	return nil
}

func (d *Draft) DeleteQuestion(sectionID, questionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	si, qi, err := d.questionIndex(sectionID, questionID)
	if err != nil {
		return err
	}
	qs := d.a.Sections[si].Questions
	d.a.Sections[si].Questions = append(qs[:qi], qs[qi+1:]...)
	ordering.ReindexQuestions(d.a.Sections[si].Questions)
	return nil
}

// MoveQuestion moves a question within its section.
func (d *Draft) MoveQuestion(sectionID string, from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.sectionIndex(sectionID)
	if i < 0 {
		return fmt.Errorf("section %s not found", sectionID)
	}
	moved, err := ordering.Move(d.a.Sections[i].Questions, from, to)
	if err != nil {
		return err
	}
	d.a.Sections[i].Questions = moved
	ordering.ReindexQuestions(moved)
	return nil
}

// Save checks the conditional logic and sends the whole draft to s. On
// success the draft becomes the server's copy; on failure it is unchanged.
func (d *Draft) Save(ctx context.Context, s Saver) (hiring.Assessment, error) {
	a := d.Assessment()
	if err := CheckConditions(a); err != nil {
		return hiring.Assessment{}, err
	}
	saved, err := s.SaveAssessment(ctx, a.JobID, a)
	if err != nil {
		return hiring.Assessment{}, fmt.Errorf("saving assessment: %w", err)
	}

	d.mu.Lock()
	d.a = saved.Clone()
	d.mu.Unlock()
	return saved.Clone(), nil
}

func (d *Draft) sectionIndex(id string) int {
	for i, s := range d.a.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (d *Draft) questionIndex(sectionID, questionID string) (int, int, error) {
	si := d.sectionIndex(sectionID)
	if si < 0 {
		return 0, 0, fmt.Errorf("section %s not found", sectionID)
	}
	for qi, q := range d.a.Sections[si].Questions {
		if q.ID == questionID {
			return si, qi, nil
		}
	}
	return 0, 0, fmt.Errorf("question %s not found in section %s", questionID, sectionID)
}
