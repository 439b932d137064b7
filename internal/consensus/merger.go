package consensus

import (
	"fmt"
	"log"
	"sort"

	"github.com/vnexsus/dateconsensus/internal/strategy"
)

// Merge unions the scored candidates of every successful strategy result,
// deduplicating by (date, page). When duplicates collide the higher
// confidence wins and the loser's provenance is recorded in the metadata —
// a merge conflict is an audit event, never an error. Output is ordered by
// ascending date, then descending relevance score. Merge is idempotent.
func Merge(scored map[strategy.Mode][]ScoredCandidate, order []strategy.Mode) ([]ScoredCandidate, MergeMetadata) {
	meta := MergeMetadata{}
	kept := map[string]ScoredCandidate{}

	for _, mode := range order {
		for _, cand := range scored[mode] {
			meta.TotalCandidates++
			key := fmt.Sprintf("%s|%d", cand.Date, cand.Page)
			existing, dup := kept[key]
			if !dup {
				kept[key] = cand
				continue
			}
			meta.Deduplicated++
			if cand.Strategy != existing.Strategy && cand.Confidence != existing.Confidence {
				meta.MergeConflicts++
				log.Printf("merge conflict date=%s page=%d kept=%s(%.2f) discarded=%s(%.2f)",
					cand.Date, cand.Page, existing.Strategy, existing.Confidence, cand.Strategy, cand.Confidence)
			}
			loser, winner := cand, existing
			if cand.Confidence > existing.Confidence {
				loser, winner = existing, cand
				kept[key] = cand
			}
			meta.Discarded = append(meta.Discarded, Discard{
				Date:       loser.Date,
				Page:       loser.Page,
				Strategy:   loser.Strategy,
				Confidence: loser.Confidence,
				KeptFrom:   winner.Strategy,
			})
		}
	}

	out := make([]ScoredCandidate, 0, len(kept))
	for _, cand := range kept {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].RelevanceScore != out[j].RelevanceScore {
			return out[i].RelevanceScore > out[j].RelevanceScore
		}
		return out[i].Page < out[j].Page
	})
	return out, meta
}
