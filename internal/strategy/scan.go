package strategy

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vnexsus/dateconsensus/internal/dateparse"
)

// span tracks byte ranges already claimed by a more specific pattern so a
// looser pattern cannot re-emit the same text as a second candidate.
type span struct{ start, end int }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// scanText runs every literal pattern over text in declaration order and
// returns one candidate per non-overlapping match. confidence maps a
// pattern name to the strategy's trust in it; unmapped patterns are
// skipped entirely.
func scanText(ctx context.Context, text string, window int, confidence map[string]float64) ([]Candidate, error) {
	if window <= 0 {
		window = DefaultContextWindow
	}
	var (
		cands   []Candidate
		claimed []span
	)
	for _, p := range dateparse.Patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		conf, ok := confidence[p.Name]
		if !ok {
			continue
		}
		for _, idx := range p.Re.FindAllStringSubmatchIndex(text, -1) {
			matchSpan := span{idx[2*p.YearGroup], idx[2*p.DayGroup+1]}
			if anyOverlap(claimed, matchSpan) {
				continue
			}
			iso, valid := p.Normalize(submatches(text, idx))
			if !valid {
				continue
			}
			claimed = append(claimed, matchSpan)
			cands = append(cands, Candidate{
				Date:         iso,
				OriginalText: text[matchSpan.start:matchSpan.end],
				Pattern:      p.Name,
				Context:      contextWindow(text, matchSpan.start, matchSpan.end, window),
				Confidence:   conf,
			})
		}
	}
	return cands, nil
}

func anyOverlap(claimed []span, s span) bool {
	for _, c := range claimed {
		if c.overlaps(s) {
			return true
		}
	}
	return false
}

// submatches converts a FindAllStringSubmatchIndex row into the submatch
// strings Normalize expects.
func submatches(text string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := range out {
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 {
			continue
		}
		out[i] = text[start:end]
	}
	return out
}

// contextWindow returns up to radius runes on each side of [start, end).
func contextWindow(text string, start, end, radius int) string {
	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return strings.TrimSpace(text[lo:hi])
}
