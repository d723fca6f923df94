package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/examportal/internal/model"
	"github.com/pavelanni/examportal/internal/profile"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private SQLite database that disappears with the process.
const MemoryDSN = ":memory:"

// Store is a SQLite-backed profile.History. It is meant to run on
// MemoryDSN; results are never kept across runs.
type Store struct {
	db *sql.DB
}

var _ profile.History = (*Store)(nil)

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every new connection to :memory: is a separate empty database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL,
		correct INTEGER NOT NULL DEFAULT 0,
		attempted INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		elapsed REAL NOT NULL DEFAULT 0,
		avg_per_item REAL NOT NULL DEFAULT 0,
		auto_submitted INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		submitted_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_subject ON results(subject);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores a result summary.
func (s *Store) Append(r model.ResultSummary) error {
	_, err := s.db.Exec(
		`INSERT INTO results (session_id, username, subject, mode, correct, attempted, total,
		 elapsed, avg_per_item, auto_submitted, started_at, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Username, r.Subject, string(r.Mode), r.Correct, r.Attempted, r.Total,
		r.Elapsed, r.AvgPerItem, r.AutoSubmitted, r.StartedAt.UnixNano(), r.SubmittedAt.UnixNano(),
	)
	if err != nil {
		slog.Error("failed to store result", "session", r.SessionID, "error", err)
		return err
	}
	slog.Debug("stored result", "session", r.SessionID, "subject", r.Subject)
	return nil
}

// All returns every result in insertion order.
func (s *Store) All() ([]model.ResultSummary, error) {
	rows, err := s.db.Query(
		`SELECT session_id, username, subject, mode, correct, attempted, total,
		 elapsed, avg_per_item, auto_submitted, started_at, submitted_at
		 FROM results ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := []model.ResultSummary{}
	for rows.Next() {
		var (
			r                model.ResultSummary
			mode             string
			started, submitd int64
		)
		if err := rows.Scan(&r.SessionID, &r.Username, &r.Subject, &mode, &r.Correct, &r.Attempted, &r.Total,
			&r.Elapsed, &r.AvgPerItem, &r.AutoSubmitted, &started, &submitd); err != nil {
			return nil, err
		}
		r.Mode = model.Mode(mode)
		r.StartedAt = time.Unix(0, started).UTC()
		r.SubmittedAt = time.Unix(0, submitd).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

// Totals sums correct and total over all results.
func (s *Store) Totals() (int, int, error) {
	var correct, total int
	err := s.db.QueryRow(`SELECT COALESCE(SUM(correct), 0), COALESCE(SUM(total), 0) FROM results`).Scan(&correct, &total)
	return correct, total, err
}

// SubjectTotals sums correct and total per subject.
func (s *Store) SubjectTotals() (map[string]profile.Totals, error) {
	rows, err := s.db.Query(
		`SELECT CASE WHEN subject = '' THEN 'Unknown' ELSE subject END AS name,
		 SUM(correct), SUM(total)
		 FROM results GROUP BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]profile.Totals)
	for rows.Next() {
		var name string
		var t profile.Totals
		if err := rows.Scan(&name, &t.Correct, &t.Total); err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, rows.Err()
}

// Count returns the number of stored results.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count)
	return count, err
}
