package auditstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vnexsus/dateconsensus/internal/consensus"
	"github.com/vnexsus/dateconsensus/internal/pipeline"
	"github.com/vnexsus/dateconsensus/internal/riskvector"
	"github.com/vnexsus/dateconsensus/internal/strategy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(runID string, started time.Time) pipeline.AuditRecord {
	return pipeline.AuditRecord{
		RunID:        runID,
		StartedAt:    started,
		CompletedAt:  started.Add(50 * time.Millisecond),
		ContractDate: "2023-01-01",
		Modes:        []string{"legacy", "context"},
		Results: []strategy.Result{
			{
				Strategy: strategy.ModeLegacy,
				Success:  true,
				Candidates: []strategy.Candidate{
					{Date: "2024-12-15", Confidence: 0.9, Pattern: "korean_literal"},
				},
				Confidence:   0.9,
				ProcessingMs: 3,
			},
			{
				Strategy:   strategy.ModeContext,
				Success:    false,
				Candidates: []strategy.Candidate{},
				Err:        &strategy.Failure{Code: strategy.FailureTimeout, Message: "strategy exceeded its deadline"},
			},
		},
		Consensus: consensus.Result{
			SelectedStrategy: "legacy",
			Candidates: []consensus.ScoredCandidate{
				{
					Candidate:      strategy.Candidate{Date: "2024-12-15", Confidence: 0.9, Pattern: "korean_literal"},
					Strategy:       strategy.ModeLegacy,
					RelevanceScore: 27,
					Tier:           4,
				},
			},
			Metadata: consensus.MergeMetadata{
				TotalCandidates: 1,
				Discarded: []consensus.Discard{
					{Date: "2024-12-15", Page: 2, Strategy: strategy.ModeContext, Confidence: 0.7, KeptFrom: strategy.ModeLegacy},
				},
			},
		},
		Vectors: []pipeline.VectorEntry{
			{Vector: riskvector.Vector{X: 10, Y: -5, Z: 8, Type: riskvector.VectorViolationRisk}, EventRef: "2024-12-15"},
		},
	}
}

func TestRecordRunAndReadBack(t *testing.T) {
	store := openTestStore(t)
	started := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	if err := store.RecordRun(sampleRecord("run-1", started)); err != nil {
		t.Fatalf("record run: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.RunID != "run-1" || r.SelectedStrategy != "legacy" || r.CandidateCount != 1 {
		t.Fatalf("unexpected run summary: %+v", r)
	}
	if r.ContractDate != "2023-01-01" {
		t.Fatalf("contract date not persisted: %+v", r)
	}
	if r.Modes != `["legacy","context"]` {
		t.Fatalf("modes not persisted as JSON: %q", r.Modes)
	}
	if r.ErrorCode != "" {
		t.Fatalf("successful consensus must not carry an error code: %q", r.ErrorCode)
	}

	var strategyRows int
	if err := store.db.Get(&strategyRows, `SELECT COUNT(*) FROM strategy_results WHERE run_id = ?`, "run-1"); err != nil {
		t.Fatalf("count strategy rows: %v", err)
	}
	if strategyRows != 2 {
		t.Fatalf("expected 2 strategy rows, got %d", strategyRows)
	}

	var discardRows int
	if err := store.db.Get(&discardRows, `SELECT COUNT(*) FROM merge_decisions WHERE run_id = ?`, "run-1"); err != nil {
		t.Fatalf("count merge decisions: %v", err)
	}
	if discardRows != 1 {
		t.Fatalf("expected 1 merge decision, got %d", discardRows)
	}
}

func TestRecordRunIsIdempotentPerRunID(t *testing.T) {
	store := openTestStore(t)
	started := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	rec := sampleRecord("run-1", started)
	rec.Consensus.Metadata.Discarded = nil
	if err := store.RecordRun(rec); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := store.RecordRun(rec); err != nil {
		t.Fatalf("second record: %v", err)
	}
	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("re-recording the same run must not duplicate it, got %d rows", len(runs))
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		rec := sampleRecord(id, base.Add(time.Duration(i)*time.Hour))
		rec.Consensus.Metadata.Discarded = nil
		if err := store.RecordRun(rec); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Fatalf("expected newest first, got %s then %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestRecordRunEmptyConsensus(t *testing.T) {
	store := openTestStore(t)
	rec := pipeline.AuditRecord{
		RunID:       "run-empty",
		StartedAt:   time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC),
		CompletedAt: time.Date(2025, 1, 10, 9, 30, 1, 0, time.UTC),
		Modes:       []string{"legacy"},
		Results: []strategy.Result{
			{Strategy: strategy.ModeLegacy, Success: true, Candidates: []strategy.Candidate{}},
		},
		Consensus: consensus.Result{
			Candidates: []consensus.ScoredCandidate{},
			ErrCode:    consensus.ErrCodeNoCandidates,
		},
	}
	if err := store.RecordRun(rec); err != nil {
		t.Fatalf("record run: %v", err)
	}
	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ErrorCode != consensus.ErrCodeNoCandidates {
		t.Fatalf("expected NO_CANDIDATES persisted, got %+v", runs)
	}
	if runs[0].CandidateCount != 0 {
		t.Fatalf("expected zero candidates, got %d", runs[0].CandidateCount)
	}
}
