package consensus

import (
	"math"

	"github.com/vnexsus/dateconsensus/internal/strategy"
	"github.com/vnexsus/dateconsensus/internal/terms"
)

// ScoringConfig names every heuristic weight in the relevance score. The
// values were tuned empirically against the offline validation corpus;
// they are a tuning surface, not a frozen contract, which is why they are
// configuration rather than literals.
type ScoringConfig struct {
	ImportancePoints map[strategy.Importance]int
	// DefaultImportancePoints applies to untagged candidates.
	DefaultImportancePoints int

	MedicalTermPoints   int
	InsuranceTermPoints int
	// TableBonus is added when at least TableBonusMinHits distinct
	// table-structure keywords co-occur in the context window.
	TableBonus        int
	TableBonusMinHits int
	ContextCap        int

	ConfidenceScale int

	// GroundTruth enables the evaluation-only exact-match bonus. It must
	// stay nil on the production path; DefaultScoringConfig never sets it.
	GroundTruth      map[string]struct{}
	GroundTruthBonus int
}

// DefaultScoringConfig returns the production configuration.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ImportancePoints: map[strategy.Importance]int{
			strategy.ImportanceCritical: 50,
			strategy.ImportanceHigh:     30,
			strategy.ImportanceMedium:   10,
			strategy.ImportanceLow:      5,
		},
		DefaultImportancePoints: 10,
		MedicalTermPoints:       4,
		InsuranceTermPoints:     3,
		TableBonus:              10,
		TableBonusMinHits:       2,
		ContextCap:              50,
		ConfidenceScale:         10,
		GroundTruthBonus:        100,
	}
}

// Scorer computes composite relevance scores. Identical inputs always
// yield identical scores: there is no randomness and no clock.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer { return &Scorer{cfg: cfg} }

// Score returns the total relevance score and its per-component breakdown.
// contextText defaults to the candidate's own context window when empty.
func (s *Scorer) Score(cand strategy.Candidate, contextText string) (int, map[string]int) {
	if contextText == "" {
		contextText = cand.Context
	}
	breakdown := map[string]int{}

	imp, ok := s.cfg.ImportancePoints[cand.Importance]
	if !ok {
		imp = s.cfg.DefaultImportancePoints
	}
	breakdown["importance"] = imp

	ctxPts := terms.CountDistinct(contextText, terms.Medical)*s.cfg.MedicalTermPoints +
		terms.CountDistinct(contextText, terms.Insurance)*s.cfg.InsuranceTermPoints
	if terms.CountDistinct(contextText, terms.Table) >= s.cfg.TableBonusMinHits {
		ctxPts += s.cfg.TableBonus
	}
	if ctxPts > s.cfg.ContextCap {
		ctxPts = s.cfg.ContextCap
	}
	breakdown["context"] = ctxPts

	breakdown["confidence"] = int(math.Round(cand.Confidence * float64(s.cfg.ConfidenceScale)))

	if s.cfg.GroundTruth != nil {
		if _, hit := s.cfg.GroundTruth[cand.Date]; hit {
			breakdown["ground_truth"] = s.cfg.GroundTruthBonus
		}
	}

	total := 0
	for _, pts := range breakdown {
		total += pts
	}
	return total, breakdown
}
