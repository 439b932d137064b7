package dateparse

import (
	"regexp"
	"strings"

	"github.com/vnexsus/dateconsensus/internal/ocr"
)

// MergeWindow caps how far past a year anchor the scanner looks, which
// bounds merge cost to O(n·MergeWindow).
const MergeWindow = 10

var (
	yearAnchorRe = regexp.MustCompile(`^\d{4}$`)
	separatorRe  = regexp.MustCompile(`^[.\-/]$`)
	digitsRe     = regexp.MustCompile(`^\d{1,2}$`)
	fullDateRe   = regexp.MustCompile(`^(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})$`)
)

// MergedDate is a date reassembled from spatially-tokenized OCR blocks,
// e.g. ["2024"]["."]["04"]["."]["09"] emitted as separate fragments.
type MergedDate struct {
	Date         string
	OriginalText string
	Page         int
	BBox         ocr.BBox
	Confidence   float64
	BlockIndexes []int
}

// MergeFragments scans an ordered block sequence for fragmented dates.
// A block that is exactly a four-digit year anchors a forward scan of up
// to MergeWindow blocks on the same page; separator and 1–2 digit blocks
// are consumed until the concatenation forms a full date. Blocks that
// never complete a date are left untouched, and a block consumed by one
// merge cannot anchor or join another.
func MergeFragments(blocks []ocr.Block) []MergedDate {
	var merged []MergedDate
	consumed := map[int]struct{}{}

	for i, anchor := range blocks {
		if _, used := consumed[i]; used {
			continue
		}
		text := strings.TrimSpace(anchor.Text)
		if !yearAnchorRe.MatchString(text) {
			continue
		}

		parts := []string{text}
		indexes := []int{i}
		box := anchor.BBox
		confSum := anchor.Confidence

		limit := i + MergeWindow
		if limit >= len(blocks) {
			limit = len(blocks) - 1
		}
		for j := i + 1; j <= limit; j++ {
			if _, used := consumed[j]; used {
				break
			}
			b := blocks[j]
			if b.Page != anchor.Page {
				break
			}
			frag := strings.TrimSpace(b.Text)
			if !separatorRe.MatchString(frag) && !digitsRe.MatchString(frag) {
				break
			}
			parts = append(parts, frag)
			indexes = append(indexes, j)
			box = box.Union(b.BBox)
			confSum += b.Confidence

			joined := strings.Join(parts, "")
			m := fullDateRe.FindStringSubmatch(joined)
			if m == nil {
				continue
			}
			iso, ok := Pattern{Name: "fragment_merge", YearGroup: 1, MonthGroup: 2, DayGroup: 3}.Normalize(m)
			if !ok {
				// Date-shaped but invalid so far; later fragments may still
				// complete it (e.g. day "0" followed by "9").
				continue
			}
			merged = append(merged, MergedDate{
				Date:         iso,
				OriginalText: joined,
				Page:         anchor.Page,
				BBox:         box,
				Confidence:   confSum / float64(len(indexes)),
				BlockIndexes: indexes,
			})
			for _, idx := range indexes {
				consumed[idx] = struct{}{}
			}
			break
		}
	}
	return merged
}
