package dateparse

import (
	"testing"

	"github.com/vnexsus/dateconsensus/internal/ocr"
)

func fragmentBlocks(page int, texts ...string) []ocr.Block {
	blocks := make([]ocr.Block, len(texts))
	for i, txt := range texts {
		blocks[i] = ocr.Block{
			Text:       txt,
			Page:       page,
			BBox:       ocr.BBox{XMin: float64(i * 10), XMax: float64(i*10 + 8), YMin: 100, YMax: 110},
			Confidence: 0.9,
		}
	}
	return blocks
}

func TestMergeFragmentsReassemblesDate(t *testing.T) {
	blocks := fragmentBlocks(1, "2024", ".", "04", ".", "09")
	merged := MergeFragments(blocks)
	if len(merged) != 1 {
		t.Fatalf("expected one merged date, got %d", len(merged))
	}
	md := merged[0]
	if md.Date != "2024-04-09" {
		t.Fatalf("expected 2024-04-09, got %s", md.Date)
	}
	if md.OriginalText != "2024.04.09" {
		t.Fatalf("unexpected original text %q", md.OriginalText)
	}
	if len(md.BlockIndexes) != 5 {
		t.Fatalf("expected 5 consumed blocks, got %v", md.BlockIndexes)
	}
	if md.Page != 1 {
		t.Fatalf("expected page 1, got %d", md.Page)
	}
	if md.BBox.XMin != 0 || md.BBox.XMax != 48 {
		t.Fatalf("expected union bbox spanning all fragments, got %+v", md.BBox)
	}
}

func TestMergeFragmentsStopsAtPageBoundary(t *testing.T) {
	blocks := fragmentBlocks(1, "2024", ".", "04")
	tail := fragmentBlocks(2, ".", "09")
	blocks = append(blocks, tail...)
	if merged := MergeFragments(blocks); len(merged) != 0 {
		t.Fatalf("expected no merge across pages, got %v", merged)
	}
}

func TestMergeFragmentsStopsAtForeignBlock(t *testing.T) {
	blocks := fragmentBlocks(1, "2024", ".", "진단", ".", "04", ".", "09")
	if merged := MergeFragments(blocks); len(merged) != 0 {
		t.Fatalf("expected foreign block to break the merge, got %v", merged)
	}
}

func TestMergeFragmentsRespectsWindow(t *testing.T) {
	texts := []string{"2024"}
	for i := 0; i < MergeWindow; i++ {
		texts = append(texts, "1") // digits forever, never a full date
	}
	texts = append(texts, ".", "04", ".", "09")
	if merged := MergeFragments(fragmentBlocks(1, texts...)); len(merged) != 0 {
		t.Fatalf("expected window to bound the scan, got %v", merged)
	}
}

func TestMergeFragmentsDoesNotReuseConsumedBlocks(t *testing.T) {
	blocks := fragmentBlocks(1, "2024", ".", "04", ".", "09", "2025", "-", "1", "-", "2")
	merged := MergeFragments(blocks)
	if len(merged) != 2 {
		t.Fatalf("expected two independent merges, got %d", len(merged))
	}
	if merged[0].Date != "2024-04-09" || merged[1].Date != "2025-01-02" {
		t.Fatalf("unexpected dates: %s, %s", merged[0].Date, merged[1].Date)
	}
}

func TestMergeFragmentsInvalidDateRejected(t *testing.T) {
	blocks := fragmentBlocks(1, "2024", ".", "13", ".", "09")
	if merged := MergeFragments(blocks); len(merged) != 0 {
		t.Fatalf("expected invalid month to be dropped, got %v", merged)
	}
}

func TestMergeFragmentsMeanConfidence(t *testing.T) {
	blocks := fragmentBlocks(1, "2024", ".", "04", ".", "09")
	blocks[0].Confidence = 1.0
	blocks[4].Confidence = 0.5
	merged := MergeFragments(blocks)
	if len(merged) != 1 {
		t.Fatalf("expected one merge, got %d", len(merged))
	}
	want := (1.0 + 0.9 + 0.9 + 0.9 + 0.5) / 5
	if diff := merged[0].Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected mean confidence %.4f, got %.4f", want, merged[0].Confidence)
	}
}
