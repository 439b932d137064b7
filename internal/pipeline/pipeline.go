// Package pipeline wires the extraction strategies, the consensus engine,
// and the risk vectorizer into one in-process call. The surrounding
// service layer owns transport, OCR acquisition, and report rendering;
// this package owns everything between raw OCR output and classified,
// scored event data.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vnexsus/dateconsensus/internal/consensus"
	"github.com/vnexsus/dateconsensus/internal/ocr"
	"github.com/vnexsus/dateconsensus/internal/riskvector"
	"github.com/vnexsus/dateconsensus/internal/strategy"
)

var tracer = otel.Tracer("github.com/vnexsus/dateconsensus/internal/pipeline")

// Config assembles one pipeline. Zero values select production defaults.
type Config struct {
	Scoring consensus.ScoringConfig
	Domain  string
	Risk    riskvector.Config
	Auditor Auditor
	Debug   bool
}

// Pipeline is safe for concurrent use: all per-run state lives on the
// stack of Run.
type Pipeline struct {
	runner     *strategy.Runner
	engine     *consensus.Engine
	vectorizer *riskvector.Vectorizer
	auditor    Auditor
	debug      bool
}

// New builds a pipeline. An unset ScoringConfig means the production
// scoring defaults (no ground-truth bonus).
func New(cfg Config) *Pipeline {
	scoring := cfg.Scoring
	if scoring.ImportancePoints == nil {
		scoring = consensus.DefaultScoringConfig()
	}
	return &Pipeline{
		runner:     &strategy.Runner{Debug: cfg.Debug},
		engine:     consensus.NewEngine(scoring, cfg.Domain),
		vectorizer: riskvector.New(cfg.Risk),
		auditor:    cfg.Auditor,
		debug:      cfg.Debug,
	}
}

// Run executes one request end to end. The only error it returns is a
// malformed top-level request; every component-local failure is recovered
// and reported inside the Response.
func (p *Pipeline) Run(ctx context.Context, req ocr.Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.StringSlice("run.modes", req.RequestedModes),
		))
	defer span.End()

	started := time.Now()
	in := strategy.Input{
		Text:   ocr.NormalizeText(req.Text),
		Blocks: ocr.NormalizeBlocks(req.Blocks),
	}
	modes := make([]strategy.Mode, len(req.RequestedModes))
	for i, m := range req.RequestedModes {
		modes[i] = strategy.Mode(m)
	}

	timeout := time.Duration(req.PerStrategyTimeoutMs) * time.Millisecond
	results := p.runner.RunAll(ctx, in, modes, timeout)

	cons := p.engine.Build(results)

	errs := []StrategyError{}
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, StrategyError{
				Strategy: string(res.Strategy),
				Code:     string(res.Err.Code),
				Message:  res.Err.Message,
			})
		}
	}
	if cons.Empty() {
		errs = append(errs, StrategyError{
			Code:    consensus.ErrCodeNoCandidates,
			Message: "no strategy produced candidates",
		})
	}

	vectors := []VectorEntry{}
	if req.ContractDate != "" && !cons.Empty() {
		events := eventsFromConsensus(cons)
		vec, err := p.vectorizer.Evaluate(events, req.ContractDate)
		if err != nil {
			// Contract date already validated; this only fires on a broken
			// candidate date, which normalization should have rejected.
			span.RecordError(err)
			log.Printf("risk vectorization failed run=%s err=%v", runID, err)
		} else {
			entry := VectorEntry{Vector: vec}
			if vec.Significant != nil {
				entry.EventRef = vec.Significant.Date
			}
			vectors = append(vectors, entry)
		}
	}

	resp := Response{
		Success:     true,
		RunID:       runID,
		Consensus:   cons,
		RiskVectors: vectors,
		Errors:      errs,
		Strategies:  results,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}

	span.SetAttributes(
		attribute.Int("run.candidates", len(cons.Candidates)),
		attribute.Int("run.errors", len(errs)),
		attribute.String("run.selected", cons.SelectedStrategy),
	)
	if p.debug {
		log.Printf("pipeline run=%s selected=%s candidates=%d errors=%d elapsed=%s",
			runID, cons.SelectedStrategy, len(cons.Candidates), len(errs),
			resp.CompletedAt.Sub(started).Round(time.Millisecond))
	}

	if p.auditor != nil {
		rec := AuditRecord{
			RunID:        runID,
			StartedAt:    started,
			CompletedAt:  resp.CompletedAt,
			ContractDate: req.ContractDate,
			Modes:        req.RequestedModes,
			Results:      results,
			Consensus:    cons,
			Vectors:      vectors,
		}
		if err := p.auditor.RecordRun(rec); err != nil {
			log.Printf("audit record failed run=%s err=%v", runID, err)
		}
	}
	return resp, nil
}

// eventsFromConsensus turns canonical candidates into clinical events: the
// candidate's context window stands in for the event content until the
// surrounding application enriches it.
func eventsFromConsensus(cons consensus.Result) []riskvector.Event {
	events := make([]riskvector.Event, 0, len(cons.Candidates))
	for _, cand := range cons.Candidates {
		content := cand.Context
		if content == "" {
			content = cand.OriginalText
		}
		events = append(events, riskvector.Event{Date: cand.Date, Content: content})
	}
	return events
}
