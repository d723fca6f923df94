package profile

import (
	"fmt"

	"github.com/pavelanni/examportal/internal/model"
)

// History is an append-only sequence of result summaries. Implementations
// live only for the lifetime of the process.
type History interface {
	Append(r model.ResultSummary) error
	All() ([]model.ResultSummary, error)
	Totals() (correct, total int, err error)
	SubjectTotals() (map[string]Totals, error)
}

// Totals are the correct and total question counts summed for a group.
type Totals struct {
	Correct int
	Total   int
}

// Accuracy returns Correct/Total*100, or 0 when Total is zero.
func (t Totals) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) * 100 / float64(t.Total)
}

// Profile accumulates results for one user over the current run.
type Profile struct {
	Username string
	history  History
}

// New creates a profile backed by an in-process slice.
func New(username string) *Profile {
	return NewWithHistory(username, &MemoryHistory{})
}

// NewWithHistory creates a profile on a caller-provided backend.
func NewWithHistory(username string, h History) *Profile {
	if username == "" {
		username = "Guest"
	}
	return &Profile{Username: username, history: h}
}

// Record appends a summary to the history.
func (p *Profile) Record(r model.ResultSummary) error {
	if err := p.history.Append(r); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// History returns every recorded summary in order.
func (p *Profile) History() ([]model.ResultSummary, error) {
	return p.history.All()
}

// Recent returns up to n of the latest summaries, oldest first.
func (p *Profile) Recent(n int) ([]model.ResultSummary, error) {
	all, err := p.history.All()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

// TestsTaken returns the number of recorded summaries.
func (p *Profile) TestsTaken() (int, error) {
	all, err := p.history.All()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// OverallAccuracy is sum(correct)/sum(total)*100 over the whole history,
// 0 for an empty history.
func (p *Profile) OverallAccuracy() (float64, error) {
	correct, total, err := p.history.Totals()
	if err != nil {
		return 0, err
	}
	return Totals{Correct: correct, Total: total}.Accuracy(), nil
}

// SubjectAccuracy groups the history by subject.
func (p *Profile) SubjectAccuracy() (map[string]float64, error) {
	groups, err := p.history.SubjectTotals()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(groups))
	for subject, t := range groups {
		out[subject] = t.Accuracy()
	}
	return out, nil
}

// Export builds the JSON export view of the profile.
func (p *Profile) Export() (model.ProfileExport, error) {
	all, err := p.history.All()
	if err != nil {
		return model.ProfileExport{}, err
	}
	overall, err := p.OverallAccuracy()
	if err != nil {
		return model.ProfileExport{}, err
	}
	bySubject, err := p.SubjectAccuracy()
	if err != nil {
		return model.ProfileExport{}, err
	}
	return model.ProfileExport{
		Username:        p.Username,
		TestsTaken:      len(all),
		OverallAccuracy: overall,
		SubjectAccuracy: bySubject,
		Results:         all,
	}, nil
}

// MemoryHistory is the default slice-backed History.
type MemoryHistory struct {
	results []model.ResultSummary
}

func (m *MemoryHistory) Append(r model.ResultSummary) error {
	m.results = append(m.results, r)
	return nil
}

func (m *MemoryHistory) All() ([]model.ResultSummary, error) {
	out := make([]model.ResultSummary, len(m.results))
	copy(out, m.results)
	return out, nil
}

func (m *MemoryHistory) Totals() (int, int, error) {
	correct, total := 0, 0
	for _, r := range m.results {
		correct += r.Correct
		total += r.Total
	}
	return correct, total, nil
}

func (m *MemoryHistory) SubjectTotals() (map[string]Totals, error) {
	out := make(map[string]Totals)
	for _, r := range m.results {
		name := r.Subject
		if name == "" {
			name = "Unknown"
		}
		t := out[name]
		t.Correct += r.Correct
		t.Total += r.Total
		out[name] = t
	}
	return out, nil
}
