package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

type fakeSaver struct {
	saved hiring.Assessment
	err   error
}

func (f *fakeSaver) SaveAssessment(_ context.Context, jobID string, a hiring.Assessment) (hiring.Assessment, error) {
	if f.err != nil {
		return hiring.Assessment{}, f.err
	}
	a = a.Clone()
	a.ID = "server-id"
	a.JobID = jobID
	f.saved = a
	return a, nil
}

func checkDense(t *testing.T, a hiring.Assessment) {
	t.Helper()
	for i, s := range a.Sections {
		if s.Order != i {
			t.Errorf("section %s order = %d, want %d", s.ID, s.Order, i)
		}
		for j, q := range s.Questions {
			if q.Order != j {
				t.Errorf("question %s order = %d, want %d", q.ID, q.Order, j)
			}
		}
	}
}

func TestDraft_AddQuestionDefaults(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{})
	sec := d.AddSection("Basics")

	tests := []struct {
		typ   hiring.QuestionType
		check func(hiring.Question) bool
	}{
		{hiring.SingleChoice, func(q hiring.Question) bool { return len(q.Options) == 2 && q.Options[0] == "Option 1" }},
		{hiring.MultiChoice, func(q hiring.Question) bool { return len(q.Options) == 2 }},
		{hiring.Numeric, func(q hiring.Question) bool { return *q.Min == 0 && *q.Max == 100 }},
		{hiring.ShortText, func(q hiring.Question) bool { return q.MaxLength == 200 }},
		{hiring.LongText, func(q hiring.Question) bool { return q.MaxLength == 2000 }},
		{hiring.File, func(q hiring.Question) bool { return q.Options == nil && q.MaxLength == 0 }},
	}
	for i, tt := range tests {
		id, err := d.AddQuestion(sec, tt.typ, string(tt.typ))
		if err != nil {
			t.Fatalf("AddQuestion(%s): %v", tt.typ, err)
		}
		q, ok := d.Assessment().Question(id)
		if !ok {
			t.Fatalf("question %s missing", id)
		}
		if q.Order != i || !tt.check(q) {
			t.Errorf("%s default shape = %+v", tt.typ, q)
		}
	}

	if _, err := d.AddQuestion(sec, "rating", "x"); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := d.AddQuestion("missing", hiring.ShortText, "x"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestDraft_DeleteReindexes(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{})
	s1 := d.AddSection("one")
	s2 := d.AddSection("two")
	d.AddSection("three")

	q1, _ := d.AddQuestion(s2, hiring.ShortText, "a")
	d.AddQuestion(s2, hiring.ShortText, "b")
	d.AddQuestion(s2, hiring.ShortText, "c")

	if err := d.DeleteSection(s1); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	if err := d.DeleteQuestion(s2, q1); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	a := d.Assessment()
	if len(a.Sections) != 2 || len(a.Sections[0].Questions) != 2 {
		t.Fatalf("draft = %+v", a)
	}
	checkDense(t, a)
}

func TestDraft_MoveReindexes(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{})
	a := d.AddSection("a")
	d.AddSection("b")
	c := d.AddSection("c")

	if err := d.MoveSection(2, 0); err != nil {
		t.Fatalf("MoveSection: %v", err)
	}
	got := d.Assessment()
	if got.Sections[0].ID != c || got.Sections[1].ID != a {
		t.Errorf("sections = %s, %s", got.Sections[0].Title, got.Sections[1].Title)
	}
	checkDense(t, got)

	d.AddQuestion(a, hiring.ShortText, "x")
	y, _ := d.AddQuestion(a, hiring.ShortText, "y")
	if err := d.MoveQuestion(a, 1, 0); err != nil {
		t.Fatalf("MoveQuestion: %v", err)
	}
	got = d.Assessment()
	if got.Sections[1].Questions[0].ID != y {
		t.Errorf("first question = %s", got.Sections[1].Questions[0].Title)
	}
	checkDense(t, got)

	if err := d.MoveSection(0, 5); err == nil {
		t.Error("expected error for out of range move")
	}
}

func TestDraft_UpdateQuestion(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{})
	sec := d.AddSection("s")
	q, _ := d.AddQuestion(sec, hiring.ShortText, "old")

	title := "Years of Go"
	numeric := hiring.Numeric
	required := true
	err := d.UpdateQuestion(sec, q, QuestionPatch{Title: &title, Type: &numeric, Required: &required, Max: ptr(15)})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	got, _ := d.Assessment().Question(q)
	if got.Title != title || got.Type != hiring.Numeric || !got.Required {
		t.Errorf("question = %+v", got)
	}
	if got.MaxLength != 0 || *got.Min != 0 || *got.Max != 15 {
		t.Errorf("shape not reset for new type: %+v", got)
	}

	newTitle := "Renamed"
	if err := d.UpdateSection(sec, SectionPatch{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if d.Assessment().Sections[0].Title != newTitle {
		t.Error("section title not updated")
	}
}

func TestDraft_AccessorReturnsCopy(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{})
	sec := d.AddSection("s")
	d.AddQuestion(sec, hiring.SingleChoice, "q")

	a := d.Assessment()
	a.Sections[0].Questions[0].Options[0] = "changed"
	if d.Assessment().Sections[0].Questions[0].Options[0] != "Option 1" {
		t.Error("draft shares memory with caller")
	}
}

func TestDraft_Save(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{Title: "Quiz"})
	sec := d.AddSection("s")
	d.AddQuestion(sec, hiring.ShortText, "q")

	saver := &fakeSaver{}
	saved, err := d.Save(context.Background(), saver)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != "server-id" || d.Assessment().ID != "server-id" {
		t.Errorf("draft not refreshed from server copy: %+v", d.Assessment())
	}
	if len(saver.saved.Sections[0].Questions) != 1 {
		t.Errorf("saved tree = %+v", saver.saved)
	}
}

func TestDraft_SaveFailureLeavesDraft(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{Title: "Quiz"})
	d.AddSection("s")
	before := d.Assessment()

	boom := errors.New("boom")
	if _, err := d.Save(context.Background(), &fakeSaver{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	after := d.Assessment()
	if after.ID != before.ID || len(after.Sections) != 1 || after.Title != "Quiz" {
		t.Errorf("draft changed on failure: %+v", after)
	}
}

func TestDraft_SaveRejectsCycle(t *testing.T) {
	d := NewDraft("job-1", hiring.Assessment{})
	sec := d.AddSection("s")
	a, _ := d.AddQuestion(sec, hiring.ShortText, "a")
	b, _ := d.AddQuestion(sec, hiring.ShortText, "b")
	d.UpdateQuestion(sec, a, QuestionPatch{Condition: cond(b, hiring.OpEquals, "x")})
	d.UpdateQuestion(sec, b, QuestionPatch{Condition: cond(a, hiring.OpEquals, "x")})

	saver := &fakeSaver{}
	if _, err := d.Save(context.Background(), saver); !errors.Is(err, ErrCyclicCondition) {
		t.Fatalf("err = %v, want ErrCyclicCondition", err)
	}
	if saver.saved.ID != "" {
		t.Error("cyclic draft reached the store")
	}
}
