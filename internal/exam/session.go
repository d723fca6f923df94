package exam

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/examportal/internal/model"
)

// Session is one timed multiple-choice attempt.
//
// A Session is not safe for concurrent use. The presentation layer owns it
// and drives it from a single goroutine, including timer ticks.
type Session struct {
	attempt

	questions []model.Question
	selected  []int
	marked    []bool
	result    *model.ResultSummary
}

// NewSession starts a session over a private copy of questions. IDs are
// renumbered 1..N in the given order and question 0 is shown and visited.
func NewSession(subject string, questions []model.Question, limit time.Duration, opts ...Option) (*Session, error) {
	if limit <= 0 {
		return nil, ErrInvalidDuration
	}
	qs, err := copyQuestions(questions)
	if err != nil {
		return nil, err
	}
	s := &Session{attempt: newAttempt(subject, len(qs), limit, buildOptions(opts))}
	s.load(qs)
	slog.Debug("session started", "session", s.id, "subject", subject, "questions", len(qs), "limit", limit)
	return s, nil
}

func copyQuestions(questions []model.Question) ([]model.Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		if len(q.Options) != model.NumOptions || q.CorrectOption < 1 || q.CorrectOption > model.NumOptions {
			return nil, fmt.Errorf("question %d: %w", i+1, ErrInvalidQuestion)
		}
		q.ID = i + 1
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out, nil
}

func (s *Session) load(qs []model.Question) {
	s.questions = qs
	s.selected = make([]int, len(qs))
	s.marked = make([]bool, len(qs))
	s.result = nil
}

// Current returns the displayed question and its index.
func (s *Session) Current() (int, model.Question) {
	return s.current, s.questions[s.current]
}

// Question returns the question at index.
func (s *Session) Question(index int) (model.Question, error) {
	if index < 0 || index >= len(s.questions) {
		return model.Question{}, ErrInvalidIndex
	}
	return s.questions[index], nil
}

// Questions returns a copy of the session's ordered question list.
func (s *Session) Questions() []model.Question {
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Selected returns a copy of the selections, 0 meaning unanswered.
func (s *Session) Selected() []int {
	out := make([]int, len(s.selected))
	copy(out, s.selected)
	return out
}

// SelectedAt returns the selection for question index, 0 if unanswered or out of range.
func (s *Session) SelectedAt(index int) int {
	if index < 0 || index >= len(s.selected) {
		return 0
	}
	return s.selected[index]
}

// Marked returns a copy of the review marks.
func (s *Session) Marked() []bool {
	out := make([]bool, len(s.marked))
	copy(out, s.marked)
	return out
}

// Select commits value for the current question. It does not advance.
func (s *Session) Select(value int) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if value < 1 || value > model.NumOptions {
		return ErrInvalidOption
	}
	s.selected[s.current] = value
	return nil
}

// ClearSelection resets the current question to unanswered.
func (s *Session) ClearSelection() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.selected[s.current] = 0
	return nil
}

// ToggleMark flips the review mark on the current question. A marked
// question always counts as visited.
func (s *Session) ToggleMark() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.marked[s.current] = !s.marked[s.current]
	s.visited[s.current] = true
	return nil
}

// Submit closes the session and freezes its score. It is accepted in both
// the active and expired states; a second call returns ErrSessionClosed.
func (s *Session) Submit() (model.ResultSummary, error) {
	if !s.finish() {
		return model.ResultSummary{}, ErrSessionClosed
	}
	r := Score(s)
	s.result = &r
	slog.Info("session submitted",
		"session", s.id,
		"subject", s.subject,
		"correct", r.Correct,
		"attempted", r.Attempted,
		"total", r.Total,
		"auto", r.AutoSubmitted,
	)
	return r, nil
}

// Result returns the frozen summary once the session has been submitted.
func (s *Session) Result() (model.ResultSummary, bool) {
	if s.result == nil {
		return model.ResultSummary{}, false
	}
	return *s.result, true
}

// Restart resets all per-question state and the clock for a retake. A nil
// or empty questions slice keeps the current question list.
func (s *Session) Restart(questions []model.Question) error {
	qs := s.questions
	if len(questions) > 0 {
		var err error
		if qs, err = copyQuestions(questions); err != nil {
			return err
		}
	}
	s.reset(len(qs))
	s.load(qs)
	slog.Debug("session restarted", "session", s.id, "subject", s.subject, "questions", len(qs))
	return nil
}

// NavStatus is the navigator state of one question.
type NavStatus int

const (
	NavNotVisited NavStatus = iota
	NavVisited
	NavAnswered
	NavMarked
)

func (n NavStatus) String() string {
	switch n {
	case NavVisited:
		return "visited"
	case NavAnswered:
		return "answered"
	case NavMarked:
		return "marked"
	default:
		return "not_visited"
	}
}

// NavEntry is one cell of the question navigator.
type NavEntry struct {
	Index   int
	Status  NavStatus
	Current bool
}

// Navigator projects visited/marked/selected into one status per question.
// Marked wins over answered, which wins over visited.
func (s *Session) Navigator() []NavEntry {
	out := make([]NavEntry, len(s.questions))
	for i := range s.questions {
		st := NavNotVisited
		switch {
		case s.marked[i]:
			st = NavMarked
		case s.selected[i] != 0:
			st = NavAnswered
		case s.visited[i]:
			st = NavVisited
		}
		out[i] = NavEntry{Index: i, Status: st, Current: i == s.current}
	}
	return out
}
