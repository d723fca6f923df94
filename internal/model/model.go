package model

import (
	"strings"
	"time"
)

// Mode is the kind of test a session runs.
type Mode string

const (
	ModeMCQ    Mode = "MCQ"
	ModeCoding Mode = "Coding"
)

// ParseMode maps a flag value (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq":
		return ModeMCQ, true
	case "coding":
		return ModeCoding, true
	}
	return "", false
}

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// NumOptions is the fixed number of choices on every multiple-choice question.
const NumOptions = 4

// Question is a single multiple-choice question.
//
// CorrectOption is 1-based; 0 is reserved for "no answer" in session state.
type Question struct {
	ID            int        `json:"id"`
	Subject       string     `json:"subject"`
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	CorrectOption int        `json:"correct_option"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
}

// CodingProblem is an open-ended coding prompt.
type CodingProblem struct {
	ID          int    `json:"id"`
	Subject     string `json:"subject"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// QuestionImport is used for loading questions from JSON or YAML files.
type QuestionImport struct {
	Subject    string     `json:"subject" yaml:"subject" validate:"required"`
	Prompt     string     `json:"prompt" yaml:"prompt" validate:"required"`
	Options    []string   `json:"options" yaml:"options" validate:"len=4,dive,required"`
	Answer     int        `json:"answer" yaml:"answer" validate:"min=1,max=4"`
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
}

// ResultSummary is the frozen outcome of one submitted session.
type ResultSummary struct {
	SessionID     string    `json:"session_id"`
	Username      string    `json:"username"`
	Subject       string    `json:"subject"`
	Mode          Mode      `json:"mode"`
	Correct       int       `json:"correct"`
	Attempted     int       `json:"attempted"`
	Total         int       `json:"total"`
	Elapsed       float64   `json:"elapsed_seconds"`
	AvgPerItem    float64   `json:"avg_seconds_per_question"`
	AutoSubmitted bool      `json:"auto_submitted"`
	StartedAt     time.Time `json:"started_at"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// Percent returns correct/total*100, or 0 for an empty test.
func (r ResultSummary) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) * 100 / float64(r.Total)
}

// Wrong returns the number of attempted but incorrect answers.
func (r ResultSummary) Wrong() int {
	return r.Attempted - r.Correct
}

// ExamConfig holds runtime exam parameters set via CLI flags.
type ExamConfig struct {
	Username     string
	Subject      string
	Mode         Mode
	Duration     time.Duration
	NumQuestions int // 0 means all available
	Shuffle      bool
	Seed         uint64 // 0 means time-based
}
