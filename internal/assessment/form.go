package assessment

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

// Submitter stores a submitted answer set.
type Submitter interface {
	SubmitResponse(ctx context.Context, jobID, candidateID string, answers hiring.Answers) (hiring.Response, error)
}

// Form is a candidate's answer set for one assessment. Entering an answer
// is never blocked; validation only gates Submit. Answers to questions that
// are hidden at submit time stay in the form but are not submitted.
type Form struct {
	mu          sync.Mutex
	assessment  hiring.Assessment
	candidateID string
	answers     hiring.Answers
}

func NewForm(a hiring.Assessment, candidateID string) *Form {
	return &Form{
		assessment:  a.Clone(),
		candidateID: candidateID,
		answers:     hiring.Answers{},
	}
}

// Set records the answer to a question.
func (f *Form) Set(questionID string, ans hiring.Answer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[questionID] = ans
}

func (f *Form) Clear(questionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.answers, questionID)
}

func (f *Form) Answers() hiring.Answers {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers.Clone()
}

func (f *Form) VisibleQuestions() []hiring.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	return VisibleQuestions(f.assessment, f.answers)
}

// Validate runs the submission check without submitting.
func (f *Form) Validate() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Validate(f.assessment, f.answers)
}

// Submit validates the answers and hands s the non-empty answers to the
// questions visible at that moment. Answers to hidden questions are
// dropped from the submitted set, so a stored response never holds a value
// for a question whose condition was unmet. Invalid answers produce a
// *ValidationError and nothing is sent.
func (f *Form) Submit(ctx context.Context, s Submitter) (hiring.Response, error) {
	f.mu.Lock()
	errs := Validate(f.assessment, f.answers)
	if len(errs) > 0 {
		f.mu.Unlock()
		return hiring.Response{}, &ValidationError{Errors: errs}
	}
	payload := hiring.Answers{}
	for _, q := range VisibleQuestions(f.assessment, f.answers) {
		if ans, ok := f.answers[q.ID]; ok && !ans.Empty() {
			payload[q.ID] = ans
		}
	}
	payload = payload.Clone()
	jobID := f.assessment.JobID
	f.mu.Unlock()

	resp, err := s.SubmitResponse(ctx, jobID, f.candidateID, payload)
	if err != nil {
		return hiring.Response{}, fmt.Errorf("submitting assessment: %w", err)
	}
	return resp, nil
}
