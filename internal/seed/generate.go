package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

const (
	DefaultJobs        = 25
	DefaultCandidates  = 1000
	DefaultAssessments = 3
)

// Options sizes a generated fixture. Zero counts use the defaults; a
// negative candidate count generates none.
type Options struct {
	Seed        uint64
	Jobs        int
	Candidates  int
	Assessments int
}

var (
	roles = []string{
		"Backend Engineer", "Frontend Engineer", "Platform Engineer", "Data Engineer",
		"Product Designer", "Product Manager", "QA Engineer", "Site Reliability Engineer",
		"Mobile Engineer", "Security Engineer", "Data Scientist", "Technical Writer",
		"Engineering Manager",
	}
	levels    = []string{"", "Senior ", "Staff ", "Junior "}
	tagPool   = []string{"go", "react", "typescript", "python", "kubernetes", "aws", "sql", "design", "remote", "onsite", "full-time", "contract"}
	firstName = []string{"Ana", "Bo", "Chen", "Dara", "Elif", "Femi", "Gita", "Hugo", "Ines", "Jonas", "Kemal", "Lena", "Mateo", "Nadia", "Omar", "Priya", "Quinn", "Rosa", "Sami", "Tomas"}
	lastName  = []string{"Lima", "Okafor", "Nguyen", "Schmidt", "Kaya", "Haddad", "Rossi", "Tanaka", "Moreau", "Silva", "Novak", "Berg", "Costa", "Ibrahim", "Park"}
	notePool  = []string{
		"Strong communication on the intro call.",
		"Asked for a follow-up on compensation.",
		"Referred by a current employee.",
		"Needs relocation support.",
	}
)

// stageWeights sums to 100.
var stageWeights = []struct {
	stage  hiring.Stage
	weight int
}{
	{hiring.StageApplied, 35},
	{hiring.StageScreen, 20},
	{hiring.StageTech, 15},
	{hiring.StageFinal, 10},
	{hiring.StageHired, 8},
	{hiring.StageRejected, 12},
}

// Generate builds a fixture deterministically from opts.Seed.
func Generate(opts Options) Fixture {
	if opts.Jobs <= 0 {
		opts.Jobs = DefaultJobs
	}
	if opts.Candidates < 0 {
		opts.Candidates = 0
	} else if opts.Candidates == 0 {
		opts.Candidates = DefaultCandidates
	}
	if opts.Assessments <= 0 {
		opts.Assessments = DefaultAssessments
	}
	opts.Assessments = min(opts.Assessments, opts.Jobs)

	r := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	f := Fixture{Jobs: make([]JobSpec, opts.Jobs)}

	for i := range f.Jobs {
		title := levels[(i/len(roles))%len(levels)] + roles[i%len(roles)]
		status := hiring.JobActive
		if i%5 == 4 {
			status = hiring.JobArchived
		}
		f.Jobs[i] = JobSpec{
			Title:       title,
			Description: fmt.Sprintf("Join the team as a %s.", title),
			Status:      string(status),
			Tags:        pickTags(r, 2+r.IntN(2)),
		}
		if i < opts.Assessments {
			a := screeningTemplate(title + " assessment")
			f.Jobs[i].Assessment = &a
		}
	}

	for n := 0; n < opts.Candidates; n++ {
		first := firstName[r.IntN(len(firstName))]
		last := lastName[r.IntN(len(lastName))]
		cs := CandidateSpec{
			Name:           first + " " + last,
			Email:          fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), n),
			Stage:          string(pickStage(r)),
			AppliedDaysAgo: r.IntN(90),
		}
		if r.IntN(10) == 0 {
			cs.Notes = []string{notePool[r.IntN(len(notePool))]}
		}
		j := n % opts.Jobs
		f.Jobs[j].Candidates = append(f.Jobs[j].Candidates, cs)
	}
	return f
}

func pickTags(r *rand.Rand, n int) []string {
	perm := r.Perm(len(tagPool))
	tags := make([]string, n)
	for i := range tags {
		tags[i] = tagPool[perm[i]]
	}
	return tags
}

func pickStage(r *rand.Rand) hiring.Stage {
	x := r.IntN(100)
	for _, sw := range stageWeights {
		if x < sw.weight {
			return sw.stage
		}
		x -= sw.weight
	}
	return hiring.StageApplied
}

func bound(v float64) *float64 { return &v }

// screeningTemplate is a three-section assessment with conditional
// follow-ups covering every question type.
func screeningTemplate(title string) hiring.Assessment {
	q := func(id string, t hiring.QuestionType, text string, required bool) hiring.Question {
		return hiring.Question{ID: id, Type: t, Title: text, Required: required}
	}
	yesNo := []string{"Yes", "No"}

	experience := q("years", hiring.Numeric, "Years of professional experience", true)
	experience.Min, experience.Max = bound(0), bound(40)
	education := q("education", hiring.SingleChoice, "Highest level of education", true)
	education.Options = []string{"High school", "Bachelor's", "Master's", "PhD"}
	remote := q("remote", hiring.SingleChoice, "Have you worked remotely before?", true)
	remote.Options = yesNo
	setup := q("remote-setup", hiring.LongText, "Describe your remote setup", false)
	setup.MaxLength = 2000
	setup.Condition = &hiring.Condition{DependsOn: "remote", Operator: hiring.OpEquals, Value: "Yes"}

	languages := q("languages", hiring.MultiChoice, "Which languages do you use regularly?", true)
	languages.Options = []string{"Go", "TypeScript", "Python", "Java", "Rust"}
	design := q("design", hiring.LongText, "Describe a system you designed", true)
	design.MaxLength = 2000
	goYears := q("go-years", hiring.Numeric, "Years of Go experience", true)
	goYears.Min, goYears.Max = bound(0), bound(20)
	goYears.Condition = &hiring.Condition{DependsOn: "languages", Operator: hiring.OpContains, Value: "Go"}
	sample := q("sample", hiring.ShortText, "Link to a code sample", false)
	sample.MaxLength = 200

	start := q("start", hiring.ShortText, "Earliest start date", true)
	start.MaxLength = 200
	visa := q("visa", hiring.SingleChoice, "Do you need visa sponsorship?", true)
	visa.Options = yesNo
	country := q("country", hiring.ShortText, "Which country are you based in?", true)
	country.MaxLength = 200
	country.Condition = &hiring.Condition{DependsOn: "visa", Operator: hiring.OpEquals, Value: "Yes"}
	resume := q("resume", hiring.File, "Upload your resume", false)

	sections := []hiring.Section{
		{ID: "background", Title: "Background", Questions: []hiring.Question{experience, education, remote, setup}},
		{ID: "technical", Title: "Technical", Questions: []hiring.Question{languages, design, goYears, sample}},
		{ID: "logistics", Title: "Logistics", Questions: []hiring.Question{start, visa, country, resume}},
	}
	for si := range sections {
		sections[si].Order = si
		for qi := range sections[si].Questions {
			sections[si].Questions[qi].Order = qi
		}
	}
	return hiring.Assessment{
		Title:       title,
		Description: "Screening questions for this role.",
		Sections:    sections,
	}
}
