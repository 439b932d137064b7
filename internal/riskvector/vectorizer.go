// Package riskvector classifies dated clinical events along severity,
// temporal relevance, and evidentiary certainty, relative to an insurance
// contract date.
package riskvector

import (
	"fmt"

	"github.com/vnexsus/dateconsensus/internal/dateparse"
)

// Temporal bucket boundaries. Y is discrete, not continuous: underwriting
// rules care about which window an event falls into, not the exact gap.
const (
	// ExemptionWindowDays is the statutory post-enrollment exemption window.
	ExemptionWindowDays = 90
	// DistantPastYears marks events old enough to be outside the
	// disclosure horizon.
	DistantPastYears = 5
)

// Config carries the axis tables so deployments can override the tuning
// without forking the package. Zero value means the package defaults.
type Config struct {
	Severity         []KeywordScore
	DefaultSeverity  int
	Certainty        []KeywordScore
	DefaultCertainty int
}

func (c Config) withDefaults() Config {
	if c.Severity == nil {
		c.Severity = SeverityTable
		c.DefaultSeverity = DefaultSeverity
	}
	if c.Certainty == nil {
		c.Certainty = CertaintyTable
		c.DefaultCertainty = DefaultCertainty
	}
	return c
}

// Vectorizer computes risk vectors. Stateless: every call is a fresh
// evaluation of (events, contractDate).
type Vectorizer struct {
	cfg Config
}

func New(cfg Config) *Vectorizer { return &Vectorizer{cfg: cfg.withDefaults()} }

// Evaluate computes the case vector. An empty event list is the terminal
// trivial case and yields {0,0,0,EMPTY}. Events whose date cannot be
// parsed are skipped for the temporal axis but still count toward
// severity and certainty.
func (v *Vectorizer) Evaluate(events []Event, contractDate string) (Vector, error) {
	if len(events) == 0 {
		return Vector{Type: VectorEmpty}, nil
	}
	contract, err := dateparse.ParseISO(contractDate)
	if err != nil {
		return Vector{}, fmt.Errorf("contract date %q: %w", contractDate, err)
	}

	significant := v.pickSignificant(events, contractDate)
	x := lookup(significant.Content, v.cfg.Severity, v.cfg.DefaultSeverity)

	y := 0
	if t, err := dateparse.ParseISO(significant.Date); err == nil {
		y = temporalBucket(int(t.Sub(contract).Hours() / 24))
	}

	z := v.cfg.DefaultCertainty
	for _, ev := range events {
		if c := lookup(ev.Content, v.cfg.Certainty, v.cfg.DefaultCertainty); c > z {
			z = c
		}
	}

	ev := significant
	return Vector{X: x, Y: y, Z: z, Type: classify(x, y), Significant: &ev}, nil
}

// pickSignificant prefers pre-contract high-severity events (severity ≥7
// and negative temporal bucket) — the underwriting-critical case — taking
// the highest severity among them; with none qualifying, the single
// highest-severity event overall wins regardless of timing.
func (v *Vectorizer) pickSignificant(events []Event, contractDate string) Event {
	contract, contractErr := dateparse.ParseISO(contractDate)

	bestPre, bestPreSeverity := -1, -1
	bestAny, bestAnySeverity := -1, -1
	for i, ev := range events {
		sev := lookup(ev.Content, v.cfg.Severity, v.cfg.DefaultSeverity)
		if sev > bestAnySeverity {
			bestAny, bestAnySeverity = i, sev
		}
		if sev < 7 || contractErr != nil {
			continue
		}
		t, err := dateparse.ParseISO(ev.Date)
		if err != nil || !t.Before(contract) {
			continue
		}
		if sev > bestPreSeverity {
			bestPre, bestPreSeverity = i, sev
		}
	}
	if bestPre >= 0 {
		return events[bestPre]
	}
	return events[bestAny]
}

// temporalBucket maps a day difference (event − contract) to the discrete
// Y axis.
func temporalBucket(diffDays int) int {
	switch {
	case diffDays < -365*DistantPastYears:
		return -10
	case diffDays < 0:
		return -5
	case diffDays == 0:
		return 0
	case diffDays <= ExemptionWindowDays:
		return 1
	default:
		return 10
	}
}

// classify resolves the vector type. The severity guard is hoisted once;
// the temporal guards inside it are mutually exclusive, so order only
// settles the y==0 edge, which falls through to GENERAL_REVIEW.
func classify(x, y int) VectorType {
	if x >= 8 {
		switch {
		case y < 0:
			return VectorViolationRisk
		case y == 1:
			return VectorExemptionTarget
		case y > 0:
			return VectorPaymentTarget
		}
	}
	return VectorGeneralReview
}
