package profile

import (
	"testing"

	"github.com/pavelanni/examportal/internal/model"
)

func result(subject string, correct, total int) model.ResultSummary {
	return model.ResultSummary{Subject: subject, Mode: model.ModeMCQ, Correct: correct, Attempted: correct, Total: total}
}

func TestOverallAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		results []model.ResultSummary
		want    float64
	}{
		{"empty history", nil, 0},
		{"two python runs", []model.ResultSummary{result("Python", 3, 5), result("Python", 4, 5)}, 70},
		{"zero total", []model.ResultSummary{result("OS", 0, 0)}, 0},
		{"mixed", []model.ResultSummary{result("C", 1, 4), result("OS", 3, 4)}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("ann")
			for _, r := range tt.results {
				if err := p.Record(r); err != nil {
					t.Fatalf("Record: %v", err)
				}
			}
			got, err := p.OverallAccuracy()
			if err != nil {
				t.Fatalf("OverallAccuracy: %v", err)
			}
			if got != tt.want {
				t.Errorf("OverallAccuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubjectAccuracy(t *testing.T) {
	p := New("ann")
	for _, r := range []model.ResultSummary{
		result("Python", 3, 5),
		result("Python", 4, 5),
		result("OS", 0, 0),
		result("", 1, 2),
	} {
		_ = p.Record(r)
	}
	got, err := p.SubjectAccuracy()
	if err != nil {
		t.Fatalf("SubjectAccuracy: %v", err)
	}
	want := map[string]float64{"Python": 70, "OS": 0, "Unknown": 50}
	if len(got) != len(want) {
		t.Fatalf("SubjectAccuracy() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("SubjectAccuracy()[%q] = %v, want %v", k, got[k], v)
		}
	}
}

func TestRecentAndHistory(t *testing.T) {
	p := New("")
	if p.Username != "Guest" {
		t.Errorf("Username = %q, want Guest", p.Username)
	}
	for i := 1; i <= 5; i++ {
		_ = p.Record(result("C", i, 5))
	}
	taken, _ := p.TestsTaken()
	if taken != 5 {
		t.Errorf("TestsTaken() = %d, want 5", taken)
	}

	recent, err := p.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 || recent[0].Correct != 3 || recent[2].Correct != 5 {
		t.Errorf("Recent(3) = %+v, want correct 3,4,5", recent)
	}
	if all, _ := p.Recent(10); len(all) != 5 {
		t.Errorf("Recent(10) len = %d, want 5", len(all))
	}

	h, _ := p.History()
	h[0].Correct = 99
	again, _ := p.History()
	if again[0].Correct != 1 {
		t.Error("History() must return a copy")
	}
}

func TestExport(t *testing.T) {
	p := New("ann")
	_ = p.Record(result("Python", 3, 5))
	_ = p.Record(result("Python", 4, 5))
	e, err := p.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if e.Username != "ann" || e.TestsTaken != 2 || e.OverallAccuracy != 70 {
		t.Errorf("Export() = %+v", e)
	}
	if e.SubjectAccuracy["Python"] != 70 {
		t.Errorf("Export().SubjectAccuracy = %v", e.SubjectAccuracy)
	}
}
