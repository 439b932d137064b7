package consensus

import (
	"github.com/vnexsus/dateconsensus/internal/strategy"
)

// SelectorWeights combine candidate count, mean confidence, and speed into
// one quality score per strategy result. Count is capped at CountCeil so a
// noisy strategy emitting hundreds of junk candidates cannot out-vote a
// precise one.
type SelectorWeights struct {
	Count      float64
	Confidence float64
	Speed      float64
	CountCeil  int
}

// selectorProfiles tunes the weights per document domain. Insurance claim
// bundles favor precision; the default favors recall slightly more.
var selectorProfiles = map[string]SelectorWeights{
	"insurance_claim": {Count: 0.3, Confidence: 0.6, Speed: 0.1, CountCeil: 20},
	"default":         {Count: 0.4, Confidence: 0.5, Speed: 0.1, CountCeil: 20},
}

// WeightsForDomain returns the selector profile for a domain, falling back
// to the default profile.
func WeightsForDomain(domain string) SelectorWeights {
	if w, ok := selectorProfiles[domain]; ok {
		return w
	}
	return selectorProfiles["default"]
}

// Select picks the canonical strategy result. Only successful results with
// at least one candidate qualify; if none do, ok=false and the caller
// builds the no-consensus result. Ties break by slice order, which the
// runner guarantees is requested-mode order, so selection is reproducible.
func Select(results []strategy.Result, domain string) (strategy.Result, bool) {
	w := WeightsForDomain(domain)

	best := -1
	bestScore := 0.0
	for i, res := range results {
		if !res.Success || len(res.Candidates) == 0 {
			continue
		}
		score := quality(res, w)
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return strategy.Result{}, false
	}
	return results[best], true
}

func quality(res strategy.Result, w SelectorWeights) float64 {
	count := len(res.Candidates)
	if count > w.CountCeil {
		count = w.CountCeil
	}
	countScore := float64(count) / float64(w.CountCeil)
	speedScore := 1.0 / (1.0 + float64(res.ProcessingMs))
	return w.Count*countScore + w.Confidence*res.Confidence + w.Speed*speedScore
}
