package strategy

import (
	"context"
	"strings"

	"github.com/vnexsus/dateconsensus/internal/dateparse"
	"github.com/vnexsus/dateconsensus/internal/ocr"
)

// coordinateStrategy works block-by-block: each candidate keeps its page
// and bounding box, and spatially-fragmented dates are reassembled before
// matching. Without blocks it degrades to a text-only sweep at reduced
// confidence instead of failing.
type coordinateStrategy struct{}

var coordinateConfidence = map[string]float64{
	"korean_literal": 0.95,
	"ymd_separated":  0.9,
	"ymd_compact":    0.75,
	"ymd_two_digit":  0.6,
}

// defaultBlockConfidence stands in when the OCR collaborator did not
// report per-block confidence (some offline engines emit zero).
const defaultBlockConfidence = 0.85

// degradedScale discounts the text-only fallback relative to a true
// coordinate run.
const degradedScale = 0.75

func (coordinateStrategy) Name() Mode { return ModeCoordinate }

func (s coordinateStrategy) Extract(ctx context.Context, in Input) ([]Candidate, error) {
	if len(in.Blocks) == 0 {
		cands, err := scanText(ctx, in.Text, in.ContextWindow, coordinateConfidence)
		if err != nil {
			return nil, err
		}
		for i := range cands {
			cands[i].Confidence *= degradedScale
		}
		return cands, nil
	}

	merged := dateparse.MergeFragments(in.Blocks)
	out := make([]Candidate, 0, len(merged))
	inMerge := map[int]struct{}{}
	for _, md := range merged {
		for _, idx := range md.BlockIndexes {
			inMerge[idx] = struct{}{}
		}
		conf := md.Confidence
		if conf == 0 {
			conf = defaultBlockConfidence
		}
		box := md.BBox
		out = append(out, Candidate{
			Date:         md.Date,
			OriginalText: md.OriginalText,
			Pattern:      "fragment_merge",
			Page:         md.Page,
			BBox:         &box,
			Context:      neighborText(in.Blocks, md.BlockIndexes[0], 2),
			Confidence:   conf,
			Merged:       true,
			SourceBlocks: md.BlockIndexes,
		})
	}

	for i, b := range in.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, used := inMerge[i]; used {
			continue
		}
		blockCands, err := scanText(ctx, b.Text, in.ContextWindow, coordinateConfidence)
		if err != nil {
			return nil, err
		}
		for _, c := range blockCands {
			blockConf := b.Confidence
			if blockConf == 0 {
				blockConf = defaultBlockConfidence
			}
			box := b.BBox
			c.Page = b.Page
			c.BBox = &box
			c.Confidence *= blockConf
			c.Context = neighborText(in.Blocks, i, 2)
			c.SourceBlocks = []int{i}
			out = append(out, c)
		}
	}
	return out, nil
}

// neighborText joins the text of the blocks within ±window of index,
// giving block-level candidates a context comparable to the text sweep.
func neighborText(blocks []ocr.Block, index, window int) string {
	lo := index - window
	if lo < 0 {
		lo = 0
	}
	hi := index + window
	if hi >= len(blocks) {
		hi = len(blocks) - 1
	}
	parts := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		if blocks[i].Text == "" {
			continue
		}
		parts = append(parts, blocks[i].Text)
	}
	return strings.Join(parts, " ")
}
