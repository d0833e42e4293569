// Package session is the application-scoped UI state container: open modals,
// selected entities and pending notifications. All changes go through its
// methods; readers get copies.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a user-facing notification.
type Notice struct {
	ID      string
	Level   Level
	Title   string
	Message string
	At      time.Time
}

// Modal names.
const (
	ModalJobForm        = "job-form"
	ModalCandidateForm  = "candidate-form"
	ModalAssessmentForm = "assessment-form"
)

// Selection kinds.
const (
	SelectJob        = "job"
	SelectCandidate  = "candidate"
	SelectAssessment = "assessment"
)

// State is safe for concurrent use.
type State struct {
	mu        sync.Mutex
	modals    map[string]bool
	selected  map[string]string
	notices   []Notice
	listeners []func(Notice)
	now       func() time.Time
}

func New() *State {
	return &State{
		modals:   make(map[string]bool),
		selected: make(map[string]string),
		now:      time.Now,
	}
}

func (s *State) OpenModal(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals[name] = true
}

func (s *State) CloseModal(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modals, name)
}

func (s *State) ModalOpen(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modals[name]
}

// Select records the selected id for kind. An empty id clears it.
func (s *State) Select(kind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		delete(s.selected, kind)
		return
	}
	s.selected[kind] = id
}

func (s *State) Selected(kind string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.selected[kind]
	return id, ok
}

// Notify queues a notice and hands it to every subscriber. It fills in the
// id and timestamp when missing.
func (s *State) Notify(n Notice) {
	s.mu.Lock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.At.IsZero() {
		n.At = s.now()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	s.notices = append(s.notices, n)
	listeners := append([]func(Notice){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
}

// Subscribe registers fn to receive every later notice.
func (s *State) Subscribe(fn func(Notice)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Notices returns the pending notices, oldest first.
func (s *State) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.notices...)
}

// Dismiss removes a notice by id.
func (s *State) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notices {
		if n.ID == id {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			return
		}
	}
}

// Drain returns the pending notices and clears them.
func (s *State) Drain() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// Reset returns the state to its initial values. Subscribers are kept.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals = make(map[string]bool)
	s.selected = make(map[string]string)
	s.notices = nil
}
