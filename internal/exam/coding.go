package exam

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/examportal/internal/model"
)

// CodingSession is one coding-test attempt: a list of problems with a saved
// source text per problem.
type CodingSession struct {
	attempt

	problems []model.CodingProblem
	answers  []string
	result   *model.ResultSummary
}

// NewCodingSession starts a coding attempt over a copy of problems.
func NewCodingSession(subject string, problems []model.CodingProblem, limit time.Duration, opts ...Option) (*CodingSession, error) {
	if limit <= 0 {
		return nil, ErrInvalidDuration
	}
	if len(problems) == 0 {
		return nil, ErrNoQuestions
	}
	ps := make([]model.CodingProblem, len(problems))
	for i, p := range problems {
		p.ID = i + 1
		ps[i] = p
	}
	return &CodingSession{
		attempt:  newAttempt(subject, len(ps), limit, buildOptions(opts)),
		problems: ps,
		answers:  make([]string, len(ps)),
	}, nil
}

// Current returns the displayed problem and its index.
func (c *CodingSession) Current() (int, model.CodingProblem) {
	return c.current, c.problems[c.current]
}

// Problems returns a copy of the problem list.
func (c *CodingSession) Problems() []model.CodingProblem {
	out := make([]model.CodingProblem, len(c.problems))
	copy(out, c.problems)
	return out
}

// Answer returns the saved source for problem index.
func (c *CodingSession) Answer(index int) (string, error) {
	if index < 0 || index >= len(c.answers) {
		return "", ErrInvalidIndex
	}
	return c.answers[index], nil
}

// SaveAnswer stores source for the current problem, trailing whitespace removed.
func (c *CodingSession) SaveAnswer(source string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.answers[c.current] = strings.TrimRight(source, " \t\r\n")
	return nil
}

// Submit closes the attempt and freezes its crude score.
func (c *CodingSession) Submit() (model.ResultSummary, error) {
	if !c.finish() {
		return model.ResultSummary{}, ErrSessionClosed
	}
	r := ScoreCoding(c)
	c.result = &r
	slog.Info("coding session submitted", "session", c.id, "subject", c.subject, "solved", r.Correct, "total", r.Total)
	return r, nil
}

// Result returns the frozen summary once submitted.
func (c *CodingSession) Result() (model.ResultSummary, bool) {
	if c.result == nil {
		return model.ResultSummary{}, false
	}
	return *c.result, true
}
