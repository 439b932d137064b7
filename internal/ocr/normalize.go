package ocr

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeText canonicalizes OCR output before any pattern matching.
// Scanned Korean documents routinely come back with fullwidth digits and
// separators (２０２４．０４．０９), so everything is folded to halfwidth NFKC
// and control characters other than newline/tab are stripped.
func NormalizeText(text string) string {
	folded := width.Fold.String(norm.NFKC.String(text))
	folded = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, folded)
	return strings.TrimSpace(folded)
}

// NormalizeBlocks returns a copy of blocks with normalized text. Blocks
// whose text normalizes to empty are kept so indices stay stable for
// fragment merging.
func NormalizeBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.Text = NormalizeText(b.Text)
		out[i] = b
	}
	return out
}
