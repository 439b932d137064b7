package strategy

import (
	"context"

	"github.com/vnexsus/dateconsensus/internal/terms"
)

// contextStrategy re-weights the baseline matches by the clinical and
// contractual vocabulary around them. A date sitting next to 수술/진단
// keywords is almost always a clinical event; a bare number block rarely is.
type contextStrategy struct{}

var contextBaseConfidence = map[string]float64{
	"korean_literal": 0.9,
	"ymd_separated":  0.85,
	"ymd_compact":    0.6,
	"ymd_two_digit":  0.55,
}

var (
	criticalTerms = []string{"수술", "진단", "입원", "암", "확진"}
	highTerms     = []string{"검사", "치료", "처방", "투약", "퇴원"}
)

func (contextStrategy) Name() Mode { return ModeContext }

func (contextStrategy) Extract(ctx context.Context, in Input) ([]Candidate, error) {
	cands, err := scanText(ctx, flattenedText(in), in.ContextWindow, contextBaseConfidence)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		medical := terms.CountDistinct(c.Context, terms.Medical)
		insurance := terms.CountDistinct(c.Context, terms.Insurance)

		conf := c.Confidence + 0.05*float64(medical) + 0.03*float64(insurance)
		if conf > 1 {
			conf = 1
		}
		c.Confidence = conf
		c.Importance = classifyImportance(c.Context, medical)
		out = append(out, c)
	}
	return out, nil
}

func classifyImportance(window string, medicalHits int) Importance {
	switch {
	case terms.ContainsAny(window, criticalTerms):
		return ImportanceCritical
	case terms.ContainsAny(window, highTerms):
		return ImportanceHigh
	case medicalHits > 0:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}
