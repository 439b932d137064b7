package consensus

import (
	"github.com/vnexsus/dateconsensus/internal/strategy"
)

// Engine scores, selects, and merges strategy results into one consensus.
type Engine struct {
	scorer *Scorer
	domain string
}

// NewEngine builds an engine for one document domain. Pass an empty domain
// for the default selector profile.
func NewEngine(cfg ScoringConfig, domain string) *Engine {
	return &Engine{scorer: NewScorer(cfg), domain: domain}
}

// Build produces the canonical consensus for one set of settled results.
// With zero qualifying results it returns the no-consensus result — never
// nil, never an error; callers treat an empty consensus as normal.
func (e *Engine) Build(results []strategy.Result) Result {
	winner, ok := Select(results, e.domain)
	if !ok {
		return Result{
			Candidates: []ScoredCandidate{},
			ErrCode:    ErrCodeNoCandidates,
		}
	}

	scored := map[strategy.Mode][]ScoredCandidate{}
	order := make([]strategy.Mode, 0, len(results))
	contributing := 0
	for _, res := range results {
		if !res.Success || len(res.Candidates) == 0 {
			continue
		}
		order = append(order, res.Strategy)
		contributing++
		list := make([]ScoredCandidate, 0, len(res.Candidates))
		for _, cand := range res.Candidates {
			total, breakdown := e.scorer.Score(cand, "")
			list = append(list, ScoredCandidate{
				Candidate:      cand,
				Strategy:       res.Strategy,
				RelevanceScore: total,
				ScoreBreakdown: breakdown,
				Tier:           TierFor(total),
			})
		}
		scored[res.Strategy] = list
	}

	merged, meta := Merge(scored, order)
	selected := string(winner.Strategy)
	if contributing > 1 {
		selected = SelectedEnsemble
	}
	return Result{
		SelectedStrategy: selected,
		Candidates:       merged,
		Metadata:         meta,
	}
}
