package strategy

import (
	"context"
	"strings"
)

// legacyStrategy is the original regex sweep: every literal pattern over
// the flattened text, fixed per-pattern confidences, no context weighting.
// Kept as the baseline the other strategies are measured against.
type legacyStrategy struct{}

var legacyConfidence = map[string]float64{
	"korean_literal": 0.95,
	"ymd_separated":  0.9,
	"ymd_compact":    0.7,
	"ymd_two_digit":  0.6,
}

func (legacyStrategy) Name() Mode { return ModeLegacy }

func (legacyStrategy) Extract(ctx context.Context, in Input) ([]Candidate, error) {
	return scanText(ctx, flattenedText(in), in.ContextWindow, legacyConfidence)
}

// flattenedText gives text-only strategies something to scan when the
// caller supplied blocks without a pre-joined text body.
func flattenedText(in Input) string {
	if strings.TrimSpace(in.Text) != "" {
		return in.Text
	}
	parts := make([]string, 0, len(in.Blocks))
	for _, b := range in.Blocks {
		if b.Text == "" {
			continue
		}
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}
