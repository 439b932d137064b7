package consensus

// TierBand is one contour level: every score at or above Min (and below
// the next-higher band) lands in Tier.
type TierBand struct {
	Tier  int
	Label string
	Min   int
}

// TierBands are the fixed classification bands, highest first. Scores
// below the lowest explicit band still resolve to tier 5 — nothing is
// ever unclassified.
var TierBands = []TierBand{
	{Tier: 1, Label: "essential", Min: 100},
	{Tier: 2, Label: "very high", Min: 60},
	{Tier: 3, Label: "high", Min: 40},
	{Tier: 4, Label: "moderate", Min: 20},
	{Tier: 5, Label: "low", Min: 0},
}

// TierFor maps a relevance score to its contour tier. Monotonic: a lower
// score never gets a lower-numbered (higher-priority) tier.
func TierFor(score int) int {
	for _, band := range TierBands {
		if score >= band.Min {
			return band.Tier
		}
	}
	return TierBands[len(TierBands)-1].Tier
}

// TierLabel returns the human label for a tier, or "low" for anything
// outside the table.
func TierLabel(tier int) string {
	for _, band := range TierBands {
		if band.Tier == tier {
			return band.Label
		}
	}
	return TierBands[len(TierBands)-1].Label
}
