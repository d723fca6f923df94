package bank

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pavelanni/examportal/internal/model"
)

func TestNewBuildsEverySubject(t *testing.T) {
	b := New(1)
	for _, c := range Categories() {
		for _, s := range c.Subjects {
			want := DefaultGenerated
			if s == "Aptitude" {
				want += len(aptitude)
			}
			if got := b.Count(s); got != want {
				t.Errorf("Count(%s) = %d, want %d", s, got, want)
			}
			if got := b.CodingCount(s); got != 5 {
				t.Errorf("CodingCount(%s) = %d, want 5", s, got)
			}
		}
	}
	if len(b.Imported()) != 0 {
		t.Errorf("Imported() = %v, want none", b.Imported())
	}
}

func TestGenerateQuestionsAreWellFormed(t *testing.T) {
	r := newRand(42)
	for subject := range templates {
		qs, err := Generate(subject, 60, r)
		if err != nil {
			t.Fatalf("Generate(%s): %v", subject, err)
		}
		counts := map[model.Difficulty]int{}
		for _, q := range qs {
			counts[q.Difficulty]++
			if len(q.Options) != model.NumOptions {
				t.Fatalf("%s: %d options in %q", subject, len(q.Options), q.Prompt)
			}
			if q.CorrectOption < 1 || q.CorrectOption > model.NumOptions {
				t.Fatalf("%s: correct option %d", subject, q.CorrectOption)
			}
			seen := map[string]bool{}
			for _, o := range q.Options {
				if seen[o] {
					t.Errorf("%s: duplicate option %q in %q", subject, o, q.Prompt)
				}
				seen[o] = true
			}
		}
		if counts[model.DifficultyEasy] != 30 || counts[model.DifficultyMedium] != 20 || counts[model.DifficultyHard] != 10 {
			t.Errorf("%s: difficulty mix = %v", subject, counts)
		}
	}
}

func TestGenerateUnknownSubject(t *testing.T) {
	if _, err := Generate("Cobol", 3, newRand(1)); !errors.Is(err, ErrUnknownSubject) {
		t.Errorf("Generate(Cobol) error = %v, want ErrUnknownSubject", err)
	}
}

func TestDrawIsDeterministicPerSeed(t *testing.T) {
	b := New(7)
	a1, err := b.Draw("Aptitude", 10, 99)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	a2, _ := b.Draw("Aptitude", 10, 99)
	if len(a1) != 10 {
		t.Fatalf("Draw len = %d, want 10", len(a1))
	}
	for i := range a1 {
		if a1[i].Prompt != a2[i].Prompt || !slices.Equal(a1[i].Options, a2[i].Options) {
			t.Fatalf("draw %d differs across identical seeds", i)
		}
		if a1[i].ID != i+1 {
			t.Errorf("ID = %d, want %d", a1[i].ID, i+1)
		}
	}

	// Sessions never share option slices.
	a1[0].Options[0] = "mutated"
	if a2[0].Options[0] == "mutated" {
		t.Error("draws share option storage")
	}
	again, _ := b.Draw("Aptitude", 10, 99)
	if again[0].Options[0] == "mutated" {
		t.Error("draw mutated the bank")
	}
}

func TestDrawAllAndUnknown(t *testing.T) {
	b := New(1)
	all, err := b.Draw("OS", 0, 5)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(all) != b.Count("OS") {
		t.Errorf("Draw(n=0) len = %d, want %d", len(all), b.Count("OS"))
	}
	ordered, _ := b.Ordered("Aptitude", 3)
	if ordered[0].Prompt != aptitude[0].prompt {
		t.Errorf("Ordered()[0] = %q, want first curated question", ordered[0].Prompt)
	}
	if _, err := b.Draw("Cobol", 5, 1); !errors.Is(err, ErrUnknownSubject) {
		t.Errorf("Draw(Cobol) error = %v, want ErrUnknownSubject", err)
	}
	if _, err := b.Coding("Cobol"); !errors.Is(err, ErrUnknownSubject) {
		t.Errorf("Coding(Cobol) error = %v, want ErrUnknownSubject", err)
	}
}

func TestCodingLanguages(t *testing.T) {
	b := New(1)
	tests := []struct {
		subject string
		want    string
	}{
		{"Python", "Python"},
		{"C", "C"},
		{"DBMS", "SQL"},
		{"OS", "Text"},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			ps, err := b.Coding(tt.subject)
			if err != nil {
				t.Fatalf("Coding: %v", err)
			}
			for _, p := range ps {
				if p.Language != tt.want {
					t.Errorf("Language = %q, want %q", p.Language, tt.want)
				}
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    int
		wantErr error
	}{
		{
			name: "json",
			file: "q.json",
			content: `[{"subject":"Go","prompt":"Zero value of int?","options":["0","nil","1","undefined"],"answer":1},
			{"subject":"Go","prompt":"Keyword for goroutines?","options":["go","async","spawn","thread"],"answer":1,"difficulty":"Easy"}]`,
			want: 2,
		},
		{
			name: "yaml",
			file: "q.yaml",
			content: `- subject: Go
  prompt: Which type is a reference type?
  options: [map, int, bool, struct]
  answer: 1
  difficulty: Hard
`,
			want: 1,
		},
		{
			name:    "three options",
			file:    "bad.json",
			content: `[{"subject":"Go","prompt":"x","options":["a","b","c"],"answer":1}]`,
			wantErr: ErrInvalidQuestion,
		},
		{
			name:    "answer out of range",
			file:    "bad.yml",
			content: "- subject: Go\n  prompt: x\n  options: [a, b, c, d]\n  answer: 5\n",
			wantErr: ErrInvalidQuestion,
		},
		{
			name:    "empty option",
			file:    "bad2.json",
			content: `[{"subject":"Go","prompt":"x","options":["a","","c","d"],"answer":2}]`,
			wantErr: ErrInvalidQuestion,
		},
		{
			name:    "bad difficulty",
			file:    "bad3.json",
			content: `[{"subject":"Go","prompt":"x","options":["a","b","c","d"],"answer":2,"difficulty":"Brutal"}]`,
			wantErr: ErrInvalidQuestion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := LoadFile(writeFile(t, tt.file, tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadFile error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if len(qs) != tt.want {
				t.Fatalf("LoadFile len = %d, want %d", len(qs), tt.want)
			}
			for _, q := range qs {
				if q.Difficulty == "" {
					t.Error("difficulty should default")
				}
			}
		})
	}
}

func TestImportedSubjectsJoinBank(t *testing.T) {
	extra := []model.Question{
		{Subject: "Go", Prompt: "q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1},
		{Subject: "Python", Prompt: "q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
	}
	b := New(1, extra...)
	if !slices.Equal(b.Imported(), []string{"Go"}) {
		t.Errorf("Imported() = %v, want [Go]", b.Imported())
	}
	if b.Count("Python") != DefaultGenerated+1 {
		t.Errorf("Count(Python) = %d, want %d", b.Count("Python"), DefaultGenerated+1)
	}
	if !b.Has("Go") || b.Has("Cobol") {
		t.Error("Has() mismatch")
	}
}
