package strategy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultPerStrategyTimeout bounds a single strategy when the caller does
// not supply one.
const DefaultPerStrategyTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/vnexsus/dateconsensus/internal/strategy")

// Runner fans the requested strategies out as independent goroutines and
// collects settled results. Strategies are pure and share nothing, so the
// only coordination is the fan-in itself.
type Runner struct {
	// Debug enables per-strategy completion logging.
	Debug bool
	// Factory overrides strategy construction; nil means New.
	Factory func(Mode) (Strategy, error)
}

// RunAll executes every requested mode concurrently with all-settle
// semantics: a strategy that fails, panics, or times out becomes a
// success=false entry and never disturbs its siblings. The returned slice
// always has len(modes) entries, index-aligned with the request, whatever
// order the strategies finish in. If the caller's ctx is cancelled the
// runner stops waiting and fills unfinished slots with timeout entries.
func (r *Runner) RunAll(ctx context.Context, in Input, modes []Mode, perStrategyTimeout time.Duration) []Result {
	if perStrategyTimeout <= 0 {
		perStrategyTimeout = DefaultPerStrategyTimeout
	}

	type settled struct {
		idx int
		res Result
	}
	ch := make(chan settled, len(modes))
	for i, mode := range modes {
		go func(idx int, mode Mode) {
			ch <- settled{idx, r.runOne(ctx, in, mode, perStrategyTimeout)}
		}(i, mode)
	}

	results := make([]Result, len(modes))
	done := make([]bool, len(modes))
	for pending := len(modes); pending > 0; {
		select {
		case s := <-ch:
			results[s.idx] = s.res
			done[s.idx] = true
			pending--
		case <-ctx.Done():
			for i := range results {
				if !done[i] {
					results[i] = timeoutResult(modes[i], 0)
				}
			}
			return results
		}
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, in Input, mode Mode, timeout time.Duration) Result {
	ctx, span := tracer.Start(ctx, "strategy.run",
		trace.WithAttributes(attribute.String("strategy.mode", string(mode))))
	defer span.End()

	factory := r.Factory
	if factory == nil {
		factory = New
	}
	strat, err := factory(mode)
	if err != nil {
		span.RecordError(err)
		return failedResult(mode, FailureError, err.Error(), 0)
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		cands []Candidate
		err   error
	}
	out := make(chan outcome, 1)
	start := time.Now()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				out <- outcome{err: fmt.Errorf("strategy panic: %v", p)}
			}
		}()
		cands, err := strat.Extract(cctx, in)
		out <- outcome{cands: cands, err: err}
	}()

	var res Result
	select {
	case o := <-out:
		elapsed := time.Since(start)
		switch {
		case o.err == nil:
			res = Result{
				Strategy:       mode,
				Success:        true,
				Candidates:     o.cands,
				Confidence:     MeanConfidence(o.cands),
				ProcessingTime: elapsed,
				ProcessingMs:   elapsed.Milliseconds(),
			}
		case errors.Is(o.err, context.DeadlineExceeded):
			res = timeoutResult(mode, elapsed)
		default:
			span.RecordError(o.err)
			res = failedResult(mode, FailureError, o.err.Error(), elapsed)
		}
	case <-cctx.Done():
		// The goroutine may still be running; it owns only local data and
		// will be collected when it settles into the buffered channel.
		res = timeoutResult(mode, time.Since(start))
	}

	span.SetAttributes(
		attribute.Bool("strategy.success", res.Success),
		attribute.Int("strategy.candidates", len(res.Candidates)),
	)
	if r.Debug {
		log.Printf("strategy %s settled success=%t candidates=%d elapsed=%s",
			mode, res.Success, len(res.Candidates), res.ProcessingTime.Round(time.Millisecond))
	}
	return res
}

func timeoutResult(mode Mode, elapsed time.Duration) Result {
	return failedResult(mode, FailureTimeout, "strategy exceeded its deadline", elapsed)
}

func failedResult(mode Mode, code FailureCode, msg string, elapsed time.Duration) Result {
	return Result{
		Strategy:       mode,
		Success:        false,
		Candidates:     []Candidate{},
		ProcessingTime: elapsed,
		ProcessingMs:   elapsed.Milliseconds(),
		Err:            &Failure{Code: code, Message: msg},
	}
}
