package exam

import (
	"strings"
	"unicode/utf8"

	"github.com/pavelanni/examportal/internal/model"
)

// solvedMinRunes is the length a saved coding answer must exceed to count
// as solved. There is no real grading of coding answers.
const solvedMinRunes = 20

// Score computes the summary for a session. It reads state only, so calling
// it again on a submitted session returns the same summary.
func Score(s *Session) model.ResultSummary {
	correct, attempted := 0, 0
	for i, q := range s.questions {
		if s.selected[i] == 0 {
			continue
		}
		attempted++
		if s.selected[i] == q.CorrectOption {
			correct++
		}
	}
	return s.summary(model.ModeMCQ, correct, attempted)
}

// ScoreCoding counts a problem as solved when its saved answer is longer
// than solvedMinRunes after trimming.
func ScoreCoding(c *CodingSession) model.ResultSummary {
	solved := 0
	for _, ans := range c.answers {
		if utf8.RuneCountInString(strings.TrimSpace(ans)) > solvedMinRunes {
			solved++
		}
	}
	return c.summary(model.ModeCoding, solved, solved)
}

func (a *attempt) summary(mode model.Mode, correct, attempted int) model.ResultSummary {
	return model.ResultSummary{
		SessionID:     a.id,
		Username:      a.username,
		Subject:       a.subject,
		Mode:          mode,
		Correct:       correct,
		Attempted:     attempted,
		Total:         a.n,
		Elapsed:       a.elapsed().Seconds(),
		AvgPerItem:    a.avgPerItem(),
		AutoSubmitted: a.state == StateSubmitted && a.auto,
		StartedAt:     a.timer.start,
		SubmittedAt:   a.submittedAt,
	}
}
