package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/vnexsus/dateconsensus/internal/ocr"
)

// Mode identifies one extraction strategy. The set is closed: unknown mode
// strings are rejected at parse time instead of silently running nothing.
type Mode string

const (
	// ModeLegacy is the plain regex sweep carried over from the first
	// generation of the extractor.
	ModeLegacy Mode = "legacy"
	// ModeContext weights matches by nearby medical/insurance keywords.
	ModeContext Mode = "context"
	// ModeCoordinate uses block bounding boxes and fragment merging.
	ModeCoordinate Mode = "coordinate"
	// ModeAdaptive inspects the input shape and delegates to the best fit.
	ModeAdaptive Mode = "adaptive"
)

// AllModes lists every mode in declaration order. Declaration order is also
// the consensus tie-break order, so it is part of the observable contract.
var AllModes = []Mode{ModeLegacy, ModeContext, ModeCoordinate, ModeAdaptive}

// ParseMode validates a caller-supplied mode string.
func ParseMode(s string) (Mode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown strategy mode %q", s)
}

// Importance tags how decisive the context around a candidate looked.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Candidate is a single date hypothesis. Candidates are never mutated
// after creation; merging fragments produces a new Candidate.
type Candidate struct {
	Date         string    `json:"date"`
	OriginalText string    `json:"original_text"`
	Pattern      string    `json:"pattern"`
	Page         int       `json:"page"`
	BBox         *ocr.BBox `json:"bbox,omitempty"`
	// Context is the local text window around the match, used by the
	// relevance scorer.
	Context      string     `json:"context,omitempty"`
	Importance   Importance `json:"importance,omitempty"`
	Confidence   float64    `json:"confidence"`
	Merged       bool       `json:"merged,omitempty"`
	SourceBlocks []int      `json:"source_blocks,omitempty"`
}

// FailureCode classifies why a strategy produced no usable result.
type FailureCode string

const (
	FailureTimeout FailureCode = "STRATEGY_TIMEOUT"
	FailureError   FailureCode = "STRATEGY_ERROR"
)

// Failure is a recorded, non-fatal strategy failure.
type Failure struct {
	Code    FailureCode `json:"code"`
	Message string      `json:"message"`
}

// Result is the settled outcome of one strategy run. The runner produces
// exactly one Result per requested mode, success or not.
type Result struct {
	Strategy       Mode          `json:"strategy"`
	Success        bool          `json:"success"`
	Candidates     []Candidate   `json:"candidates"`
	Confidence     float64       `json:"confidence"`
	ProcessingTime time.Duration `json:"-"`
	ProcessingMs   int64         `json:"processing_time_ms"`
	Err            *Failure      `json:"error,omitempty"`
}

// Input is one strategy invocation's view of the request. Text and blocks
// are already normalized; strategies treat both as read-only.
type Input struct {
	Text   string
	Blocks []ocr.Block
	// ContextWindow is the rune radius of the context captured around each
	// match. Zero means DefaultContextWindow.
	ContextWindow int
}

// DefaultContextWindow is the rune radius used when the caller does not
// override it.
const DefaultContextWindow = 60

// Strategy is the single capability every extractor implements. A strategy
// may return an error (or panic) on genuinely broken input; the runner is
// the only place that converts those into settled failures.
type Strategy interface {
	Name() Mode
	Extract(ctx context.Context, in Input) ([]Candidate, error)
}

// New binds a mode to its concrete implementation.
func New(mode Mode) (Strategy, error) {
	switch mode {
	case ModeLegacy:
		return legacyStrategy{}, nil
	case ModeContext:
		return contextStrategy{}, nil
	case ModeCoordinate:
		return coordinateStrategy{}, nil
	case ModeAdaptive:
		return adaptiveStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy mode %q", mode)
	}
}

// MeanConfidence averages candidate confidences; empty lists score zero.
func MeanConfidence(cands []Candidate) float64 {
	if len(cands) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range cands {
		sum += c.Confidence
	}
	return sum / float64(len(cands))
}
