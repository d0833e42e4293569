package hiring

import (
	"encoding/json"
	"math"
	"net/url"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senior Go Engineer", "senior-go-engineer"},
		{"  Backend / Platform (Remote) ", "backend-platform-remote"},
		{"C++ Developer", "c-developer"},
		{"!!!", "job"},
		{"Data-Scientist II", "data-scientist-ii"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStageOrder(t *testing.T) {
	if len(Stages) != 6 {
		t.Fatalf("len(Stages) = %d, want 6", len(Stages))
	}
	if StageApplied.Index() != 0 || StageRejected.Index() != 5 {
		t.Errorf("unexpected stage indexes: applied=%d rejected=%d", StageApplied.Index(), StageRejected.Index())
	}
	if Stage("offer").Valid() {
		t.Error("Stage(offer).Valid() = true, want false")
	}
}

func TestAnswerJSON(t *testing.T) {
	raw := `{"q1":"Yes","q2":["a","b"],"q3":12.5,"q4":null}`
	var as Answers
	if err := json.Unmarshal([]byte(raw), &as); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if as["q1"].Kind() != AnswerText || as["q1"].String() != "Yes" {
		t.Errorf("q1 = %#v", as["q1"])
	}
	if as["q2"].Kind() != AnswerSet || !as["q2"].Has("b") {
		t.Errorf("q2 = %#v", as["q2"])
	}
	if f, ok := as["q3"].Float(); !ok || f != 12.5 {
		t.Errorf("q3 Float() = %v, %v", f, ok)
	}
	if !as["q4"].Empty() {
		t.Errorf("q4 should be empty")
	}

	out, err := json.Marshal(as["q2"])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["a","b"]` {
		t.Errorf("marshal set = %s", out)
	}
}

func TestAnswerEmpty(t *testing.T) {
	tests := []struct {
		name string
		a    Answer
		want bool
	}{
		{"absent", Answer{}, true},
		{"blank text", TextAnswer("   "), true},
		{"text", TextAnswer("x"), false},
		{"empty set", SetAnswer(), true},
		{"set", SetAnswer("a"), false},
		{"zero number", NumberAnswer(0), false},
	}
	for _, tt := range tests {
		if got := tt.a.Empty(); got != tt.want {
			t.Errorf("%s: Empty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAnswerFloat(t *testing.T) {
	if _, ok := TextAnswer("abc").Float(); ok {
		t.Error(`TextAnswer("abc").Float() ok = true`)
	}
	if _, ok := TextAnswer("Inf").Float(); ok {
		t.Error(`TextAnswer("Inf").Float() ok = true, want non-finite rejected`)
	}
	if _, ok := NumberAnswer(math.NaN()).Float(); ok {
		t.Error("NaN accepted")
	}
	if f, ok := TextAnswer(" 25 ").Float(); !ok || f != 25 {
		t.Errorf(`TextAnswer(" 25 ").Float() = %v, %v`, f, ok)
	}
}

func TestJobQueryKeyCanonical(t *testing.T) {
	a := JobQuery{Search: " go ", Page: 0}
	b := JobQuery{Search: "go", Sort: SortByOrder, Page: 1, PageSize: DefaultPageSize}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}

	parsed := ParseJobQuery(url.Values{"search": {"go"}, "pageSize": {"500"}})
	if parsed.PageSize != MaxPageSize {
		t.Errorf("PageSize = %d, want clamp to %d", parsed.PageSize, MaxPageSize)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, 2, 10, 21)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if p.Items == nil {
		t.Error("Items should be non-nil for JSON encoding")
	}
}

func TestCandidatePatchApply(t *testing.T) {
	stage := StageTech
	c := CandidatePatch{Stage: &stage}.Apply(Candidate{ID: "c1", Stage: StageApplied, Name: "Ana"})
	if c.Stage != StageTech || c.Name != "Ana" {
		t.Errorf("Apply = %+v", c)
	}
}

func TestJobPatchTags(t *testing.T) {
	job := Job{ID: "j1", Title: "Go", Tags: []string{"go", "remote"}}

	raw, err := json.Marshal(JobPatch{})
	if err != nil || string(raw) != `{}` {
		t.Fatalf("empty patch = %s, %v", raw, err)
	}
	if got := (JobPatch{}).Apply(job); len(got.Tags) != 2 {
		t.Errorf("empty patch changed tags: %v", got.Tags)
	}

	clearing := JobPatch{Tags: ReplaceTags(nil)}
	raw, err = json.Marshal(clearing)
	if err != nil || string(raw) != `{"tags":[]}` {
		t.Fatalf("clearing patch = %s, %v", raw, err)
	}
	var decoded JobPatch
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got := decoded.Apply(job)
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("decoded clearing patch left tags = %#v", got.Tags)
	}
}

func TestPageRemove(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 1, 3, 4)
	if p.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", p.TotalPages)
	}

	p = p.Remove(func(v int) bool { return v == 2 })
	if len(p.Items) != 2 || p.Items[1] != 3 {
		t.Errorf("Items = %v", p.Items)
	}
	if p.Total != 3 || p.TotalPages != 1 {
		t.Errorf("Total = %d, TotalPages = %d, want 3, 1", p.Total, p.TotalPages)
	}

	p = p.Remove(func(int) bool { return true })
	if p.Total != 1 || p.TotalPages != 1 || len(p.Items) != 0 {
		t.Errorf("after removing all visible items: %+v", p)
	}
}
