// Package seed fills a fresh store with jobs, candidates and assessments,
// either from a YAML fixture or from a deterministic generator.
package seed

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// Fixture is the YAML seed format.
type Fixture struct {
	Jobs []JobSpec `yaml:"jobs"`
}

type JobSpec struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Status      string             `yaml:"status"`
	Tags        []string           `yaml:"tags"`
	Candidates  []CandidateSpec    `yaml:"candidates"`
	Assessment  *hiring.Assessment `yaml:"assessment"`
}

type CandidateSpec struct {
	Name           string   `yaml:"name"`
	Email          string   `yaml:"email"`
	Phone          string   `yaml:"phone"`
	Stage          string   `yaml:"stage"`
	AppliedDaysAgo int      `yaml:"appliedDaysAgo"`
	Notes          []string `yaml:"notes"`
}

// ParseFixture decodes a fixture from YAML (or JSON) bytes.
func ParseFixture(data []byte) (Fixture, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Fixture{}, fmt.Errorf("seed: fixture is empty")
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	for i, j := range f.Jobs {
		if j.Title == "" {
			return Fixture{}, fmt.Errorf("seed: job %d has no title", i)
		}
		if j.Status != "" && !hiring.JobStatus(j.Status).Valid() {
			return Fixture{}, fmt.Errorf("seed: job %q: unknown status %q", j.Title, j.Status)
		}
		if j.Assessment != nil {
			a, err := Normalize(*j.Assessment)
			if err != nil {
				return Fixture{}, fmt.Errorf("seed: job %q: %w", j.Title, err)
			}
			f.Jobs[i].Assessment = &a
		}
		for _, c := range j.Candidates {
			if c.Stage != "" && !hiring.Stage(c.Stage).Valid() {
				return Fixture{}, fmt.Errorf("seed: candidate %q: unknown stage %q", c.Name, c.Stage)
			}
		}
	}
	return f, nil
}

// LoadFixtureFile reads and decodes a fixture file.
func LoadFixtureFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseAssessment decodes a standalone assessment definition, the format of
// `talentflow assessment build --file`.
func ParseAssessment(data []byte) (hiring.Assessment, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return hiring.Assessment{}, fmt.Errorf("seed: assessment definition is empty")
	}
	var a hiring.Assessment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return hiring.Assessment{}, fmt.Errorf("seed: decode assessment: %w", err)
	}
	return Normalize(a)
}

// Normalize fills missing section and question ids, sets dense orders in
// file order and rejects unknown question types.
func Normalize(a hiring.Assessment) (hiring.Assessment, error) {
	a = a.Clone()
	if a.Sections == nil {
		a.Sections = []hiring.Section{}
	}
	for si := range a.Sections {
		sec := &a.Sections[si]
		sec.ID = orNewID(sec.ID)
		sec.Order = si
		for qi := range sec.Questions {
			q := &sec.Questions[qi]
			if !q.Type.Valid() {
				return hiring.Assessment{}, fmt.Errorf("seed: question %q: unknown type %q", q.Title, q.Type)
			}
			q.ID = orNewID(q.ID)
			q.Order = qi
		}
	}
	return a, nil
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}
