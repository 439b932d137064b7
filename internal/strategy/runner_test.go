package strategy

import (
	"context"
	"errors"
	"testing"
	"time"
)

// mockStrategy lets runner tests script success, errors, panics, and hangs
// without touching the real extractors.
type mockStrategy struct {
	mode    Mode
	cands   []Candidate
	err     error
	panics  bool
	sleep   time.Duration
	waitCtx bool
}

func (m mockStrategy) Name() Mode { return m.mode }

func (m mockStrategy) Extract(ctx context.Context, _ Input) ([]Candidate, error) {
	if m.panics {
		panic("scripted panic")
	}
	if m.waitCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.sleep > 0 {
		select {
		case <-time.After(m.sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.cands, m.err
}

func mockFactory(mocks map[Mode]mockStrategy) func(Mode) (Strategy, error) {
	return func(mode Mode) (Strategy, error) {
		m, ok := mocks[mode]
		if !ok {
			return nil, errors.New("no mock for mode " + string(mode))
		}
		return m, nil
	}
}

func TestRunAllPreservesRequestOrder(t *testing.T) {
	r := &Runner{Factory: mockFactory(map[Mode]mockStrategy{
		ModeLegacy:     {mode: ModeLegacy, cands: []Candidate{{Date: "2024-01-01", Confidence: 0.9}}, sleep: 30 * time.Millisecond},
		ModeContext:    {mode: ModeContext, cands: []Candidate{{Date: "2024-01-02", Confidence: 0.8}}},
		ModeCoordinate: {mode: ModeCoordinate, cands: []Candidate{{Date: "2024-01-03", Confidence: 0.7}}, sleep: 10 * time.Millisecond},
	})}
	modes := []Mode{ModeLegacy, ModeContext, ModeCoordinate}
	results := r.RunAll(context.Background(), Input{Text: "x"}, modes, time.Second)
	if len(results) != len(modes) {
		t.Fatalf("expected %d results, got %d", len(modes), len(results))
	}
	for i, mode := range modes {
		if results[i].Strategy != mode {
			t.Fatalf("slot %d holds %s, want %s", i, results[i].Strategy, mode)
		}
		if !results[i].Success {
			t.Fatalf("slot %d unexpectedly failed: %+v", i, results[i].Err)
		}
	}
}

func TestRunAllIsolatesFailures(t *testing.T) {
	r := &Runner{Factory: mockFactory(map[Mode]mockStrategy{
		ModeLegacy:  {mode: ModeLegacy, err: errors.New("regex backend unavailable")},
		ModeContext: {mode: ModeContext, panics: true},
		ModeAdaptive: {mode: ModeAdaptive, cands: []Candidate{
			{Date: "2024-12-15", Confidence: 0.9},
		}},
	})}
	modes := []Mode{ModeLegacy, ModeContext, ModeAdaptive}
	results := r.RunAll(context.Background(), Input{Text: "x"}, modes, time.Second)
	if len(results) != 3 {
		t.Fatalf("expected 3 settled results, got %d", len(results))
	}

	if results[0].Success || results[0].Err == nil || results[0].Err.Code != FailureError {
		t.Fatalf("erroring strategy should settle as STRATEGY_ERROR: %+v", results[0])
	}
	if results[1].Success || results[1].Err == nil || results[1].Err.Code != FailureError {
		t.Fatalf("panicking strategy should settle as STRATEGY_ERROR: %+v", results[1])
	}
	if results[2].Candidates == nil || results[0].Candidates == nil {
		t.Fatal("candidates must never be nil, even on failure")
	}
	if !results[2].Success || len(results[2].Candidates) != 1 {
		t.Fatalf("healthy sibling must be untouched: %+v", results[2])
	}
}

func TestRunAllAllStrategiesFailStillSettles(t *testing.T) {
	r := &Runner{Factory: mockFactory(map[Mode]mockStrategy{
		ModeLegacy:  {mode: ModeLegacy, err: errors.New("boom")},
		ModeContext: {mode: ModeContext, panics: true},
	})}
	results := r.RunAll(context.Background(), Input{Text: "x"}, []Mode{ModeLegacy, ModeContext}, time.Second)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Success || res.Err == nil {
			t.Fatalf("expected settled failure, got %+v", res)
		}
	}
}

func TestRunAllTimesOutHungStrategy(t *testing.T) {
	r := &Runner{Factory: mockFactory(map[Mode]mockStrategy{
		ModeLegacy:  {mode: ModeLegacy, waitCtx: true},
		ModeContext: {mode: ModeContext, cands: []Candidate{{Date: "2024-12-15", Confidence: 0.8}}},
	})}
	results := r.RunAll(context.Background(), Input{Text: "x"}, []Mode{ModeLegacy, ModeContext}, 20*time.Millisecond)
	if results[0].Success || results[0].Err == nil || results[0].Err.Code != FailureTimeout {
		t.Fatalf("hung strategy should settle as STRATEGY_TIMEOUT: %+v", results[0])
	}
	if !results[1].Success {
		t.Fatalf("fast sibling should still succeed: %+v", results[1])
	}
}

func TestRunAllCallerCancellationFillsRemainingSlots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{Factory: mockFactory(map[Mode]mockStrategy{
		ModeLegacy:  {mode: ModeLegacy, waitCtx: true},
		ModeContext: {mode: ModeContext, waitCtx: true},
	})}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	results := r.RunAll(ctx, Input{Text: "x"}, []Mode{ModeLegacy, ModeContext}, time.Minute)
	if len(results) != 2 {
		t.Fatalf("expected 2 results after cancellation, got %d", len(results))
	}
	for i, res := range results {
		// Depending on which side observes the cancellation first the slot
		// settles as a timeout or a canceled-context error; it must never
		// report success or stay unsettled.
		if res.Success || res.Err == nil {
			t.Fatalf("slot %d should have settled as a failure: %+v", i, res)
		}
		if res.Candidates == nil {
			t.Fatalf("slot %d: candidates must never be nil", i)
		}
	}
}

func TestRunAllUnknownModeSettlesAsError(t *testing.T) {
	r := &Runner{}
	results := r.RunAll(context.Background(), Input{Text: "2024-12-15"}, []Mode{Mode("quantum")}, time.Second)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Success || results[0].Err == nil || results[0].Err.Code != FailureError {
		t.Fatalf("unknown mode should settle as STRATEGY_ERROR: %+v", results[0])
	}
}

func TestRunAllRealStrategiesEndToEnd(t *testing.T) {
	r := &Runner{}
	in := Input{Text: "환자는 2024년 12월 15일에 내원하여 검사를 받았습니다."}
	results := r.RunAll(context.Background(), in, AllModes, time.Second)
	if len(results) != len(AllModes) {
		t.Fatalf("expected %d results, got %d", len(AllModes), len(results))
	}
	for _, res := range results {
		if !res.Success {
			t.Fatalf("strategy %s failed: %+v", res.Strategy, res.Err)
		}
		if len(res.Candidates) != 1 || res.Candidates[0].Date != "2024-12-15" {
			t.Fatalf("strategy %s: expected one 2024-12-15 candidate, got %v", res.Strategy, res.Candidates)
		}
	}
}
