package model

import "time"

// ProfileExport is the top-level JSON structure written by `take --export`.
type ProfileExport struct {
	Username        string             `json:"username"`
	ExportedAt      time.Time          `json:"exported_at"`
	TestsTaken      int                `json:"tests_taken"`
	OverallAccuracy float64            `json:"overall_accuracy"`
	SubjectAccuracy map[string]float64 `json:"subject_accuracy"`
	Results         []ResultSummary    `json:"results"`
}
