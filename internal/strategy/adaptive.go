package strategy

import (
	"context"

	"github.com/vnexsus/dateconsensus/internal/terms"
)

// adaptiveStrategy picks the concrete strategy that fits the input shape:
// block-heavy inputs go to the coordinate extractor, keyword-rich prose to
// the context extractor, everything else to the legacy sweep. The chosen
// delegate is recorded on each candidate's pattern for auditability.
type adaptiveStrategy struct{}

const (
	// adaptiveBlockThreshold is the block count above which spatial
	// structure is worth exploiting.
	adaptiveBlockThreshold = 20
	// adaptiveProseThreshold is the minimum text length for the keyword
	// strategy to have enough context to weigh.
	adaptiveProseThreshold = 200
)

func (adaptiveStrategy) Name() Mode { return ModeAdaptive }

func (adaptiveStrategy) Extract(ctx context.Context, in Input) ([]Candidate, error) {
	delegate := pickDelegate(in)
	cands, err := delegate.Extract(ctx, in)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		c.Pattern = string(delegate.Name()) + "/" + c.Pattern
		out = append(out, c)
	}
	return out, nil
}

func pickDelegate(in Input) Strategy {
	if len(in.Blocks) >= adaptiveBlockThreshold {
		return coordinateStrategy{}
	}
	text := flattenedText(in)
	if len([]rune(text)) >= adaptiveProseThreshold && terms.ContainsAny(text, terms.Medical) {
		return contextStrategy{}
	}
	return legacyStrategy{}
}
