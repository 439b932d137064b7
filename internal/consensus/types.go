package consensus

import "github.com/vnexsus/dateconsensus/internal/strategy"

// ErrCodeNoCandidates marks the canonical empty consensus: every strategy
// failed or returned nothing. Callers treat it as a normal outcome.
const ErrCodeNoCandidates = "NO_CANDIDATES"

// SelectedEnsemble is the strategy label used when the canonical candidate
// list was merged across strategies rather than taken from a single one.
const SelectedEnsemble = "ensemble"

// ScoredCandidate is a candidate annotated with its relevance score, the
// per-component breakdown, and the contour tier derived from the score.
type ScoredCandidate struct {
	strategy.Candidate
	Strategy       strategy.Mode  `json:"strategy"`
	RelevanceScore int            `json:"relevance_score"`
	ScoreBreakdown map[string]int `json:"score_breakdown"`
	Tier           int            `json:"tier"`
}

// Discard records the losing side of a merge conflict so provenance is
// never silently dropped.
type Discard struct {
	Date       string        `json:"date"`
	Page       int           `json:"page"`
	Strategy   strategy.Mode `json:"strategy"`
	Confidence float64       `json:"confidence"`
	KeptFrom   strategy.Mode `json:"kept_from"`
}

// MergeMetadata summarizes what the ensemble merger did.
type MergeMetadata struct {
	TotalCandidates int       `json:"total_candidates"`
	Deduplicated    int       `json:"deduplicated"`
	MergeConflicts  int       `json:"merge_conflicts"`
	Discarded       []Discard `json:"discarded,omitempty"`
}

// Result is one pipeline invocation's consensus. Candidates is never nil;
// an empty consensus carries ErrCode instead of being null.
type Result struct {
	SelectedStrategy string            `json:"selected_strategy"`
	Candidates       []ScoredCandidate `json:"canonical_candidates"`
	Metadata         MergeMetadata     `json:"merge_metadata"`
	ErrCode          string            `json:"error,omitempty"`
}

// Empty reports whether this is the no-consensus result.
func (r Result) Empty() bool { return r.ErrCode == ErrCodeNoCandidates }
