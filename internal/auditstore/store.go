// Package auditstore persists pipeline run provenance to SQLite. Merge
// decisions and discarded candidates are kept so an underwriter can always
// answer "why did this date win" after the fact.
package auditstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/vnexsus/dateconsensus/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id            TEXT PRIMARY KEY,
	started_at        TEXT NOT NULL,
	completed_at      TEXT NOT NULL,
	contract_date     TEXT NOT NULL DEFAULT '',
	modes             TEXT NOT NULL DEFAULT '[]',
	selected_strategy TEXT NOT NULL DEFAULT '',
	candidate_count   INTEGER NOT NULL DEFAULT 0,
	error_code        TEXT NOT NULL DEFAULT '',
	vectors           TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS strategy_results (
	run_id        TEXT NOT NULL,
	position      INTEGER NOT NULL,
	strategy      TEXT NOT NULL,
	success       INTEGER NOT NULL DEFAULT 0,
	candidates    INTEGER NOT NULL DEFAULT 0,
	confidence    REAL NOT NULL DEFAULT 0,
	processing_ms INTEGER NOT NULL DEFAULT 0,
	error_code    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, position)
);

CREATE TABLE IF NOT EXISTS candidates (
	run_id     TEXT NOT NULL,
	position   INTEGER NOT NULL,
	date       TEXT NOT NULL,
	page       INTEGER NOT NULL DEFAULT 0,
	pattern    TEXT NOT NULL DEFAULT '',
	strategy   TEXT NOT NULL DEFAULT '',
	relevance  INTEGER NOT NULL DEFAULT 0,
	tier       INTEGER NOT NULL DEFAULT 0,
	confidence REAL NOT NULL DEFAULT 0,
	merged     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, position)
);

CREATE TABLE IF NOT EXISTS merge_decisions (
	run_id               TEXT NOT NULL,
	date                 TEXT NOT NULL,
	page                 INTEGER NOT NULL DEFAULT 0,
	discarded_strategy   TEXT NOT NULL DEFAULT '',
	discarded_confidence REAL NOT NULL DEFAULT 0,
	kept_strategy        TEXT NOT NULL DEFAULT ''
);
`

// Store is a SQLite-backed pipeline.Auditor.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the audit database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordRun persists one settled pipeline run inside a transaction.
func (s *Store) RecordRun(rec pipeline.AuditRecord) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	errCode := ""
	if rec.Consensus.Empty() {
		errCode = rec.Consensus.ErrCode
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO runs
		(run_id, started_at, completed_at, contract_date, modes, selected_strategy, candidate_count, error_code, vectors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		timeToString(rec.StartedAt),
		timeToString(rec.CompletedAt),
		rec.ContractDate,
		marshalJSON(rec.Modes),
		rec.Consensus.SelectedStrategy,
		len(rec.Consensus.Candidates),
		errCode,
		marshalJSON(rec.Vectors),
	); err != nil {
		return err
	}

	for i, res := range rec.Results {
		code, msg := "", ""
		if res.Err != nil {
			code, msg = string(res.Err.Code), res.Err.Message
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO strategy_results
			(run_id, position, strategy, success, candidates, confidence, processing_ms, error_code, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, i, string(res.Strategy), boolToInt(res.Success),
			len(res.Candidates), res.Confidence, res.ProcessingMs, code, msg,
		); err != nil {
			return err
		}
	}

	for i, cand := range rec.Consensus.Candidates {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO candidates
			(run_id, position, date, page, pattern, strategy, relevance, tier, confidence, merged)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, i, cand.Date, cand.Page, cand.Pattern, string(cand.Strategy),
			cand.RelevanceScore, cand.Tier, cand.Confidence, boolToInt(cand.Merged),
		); err != nil {
			return err
		}
	}

	for _, d := range rec.Consensus.Metadata.Discarded {
		if _, err := tx.Exec(`INSERT INTO merge_decisions
			(run_id, date, page, discarded_strategy, discarded_confidence, kept_strategy)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.RunID, d.Date, d.Page, string(d.Strategy), d.Confidence, string(d.KeptFrom),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the runs table, used by the offline tooling.
type RunSummary struct {
	RunID            string `db:"run_id"`
	StartedAt        string `db:"started_at"`
	CompletedAt      string `db:"completed_at"`
	ContractDate     string `db:"contract_date"`
	Modes            string `db:"modes"`
	SelectedStrategy string `db:"selected_strategy"`
	CandidateCount   int    `db:"candidate_count"`
	ErrorCode        string `db:"error_code"`
	Vectors          string `db:"vectors"`
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []RunSummary
	err := s.db.Select(&out,
		`SELECT run_id, started_at, completed_at, contract_date, modes, selected_strategy, candidate_count, error_code, vectors
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	return out, err
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func marshalJSON(v any) string {
	if v == nil {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure Store satisfies the pipeline auditor at compile time.
var _ pipeline.Auditor = (*Store)(nil)
