package ocr

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeTextFoldsFullwidth(t *testing.T) {
	got := NormalizeText("２０２４．０４．０９　검사")
	if got != "2024.04.09 검사" {
		t.Fatalf("expected halfwidth fold, got %q", got)
	}
}

func TestNormalizeTextStripsControls(t *testing.T) {
	got := NormalizeText("진단\x00일\x07 2024")
	if got != "진단일 2024" {
		t.Fatalf("expected control characters stripped, got %q", got)
	}
	got = NormalizeText("첫줄\n둘째줄\t탭")
	if got != "첫줄\n둘째줄\t탭" {
		t.Fatalf("newline and tab must survive, got %q", got)
	}
}

func TestNormalizeBlocksKeepsIndices(t *testing.T) {
	blocks := []Block{
		{Text: "２０２４", Page: 1},
		{Text: "\x00", Page: 1},
		{Text: "０９", Page: 1},
	}
	out := NormalizeBlocks(blocks)
	if len(out) != 3 {
		t.Fatalf("expected 3 blocks back, got %d", len(out))
	}
	if out[0].Text != "2024" || out[1].Text != "" || out[2].Text != "09" {
		t.Fatalf("unexpected normalized texts: %q %q %q", out[0].Text, out[1].Text, out[2].Text)
	}
	if blocks[0].Text != "２０２４" {
		t.Fatal("input slice must not be mutated")
	}
}

func TestDecodeRequestValid(t *testing.T) {
	payload := `{"text":"2024년 12월 15일 진단","requested_modes":["legacy"],"contract_date":"2023-01-01"}`
	req, err := DecodeRequest(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ContractDate != "2023-01-01" || len(req.RequestedModes) != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeRequestRejectsUnknownField(t *testing.T) {
	payload := `{"text":"x","requested_modes":["legacy"],"txet":"typo"}`
	if _, err := DecodeRequest(strings.NewReader(payload)); !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("expected ErrMalformedRequest, got %v", err)
	}
}

func TestValidateRequiresInput(t *testing.T) {
	req := Request{Text: "  ", RequestedModes: []string{"legacy"}}
	if err := req.Validate(); !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("expected ErrMalformedRequest for empty input, got %v", err)
	}
	req = Request{Text: "2024", RequestedModes: nil}
	if err := req.Validate(); !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("expected ErrMalformedRequest for empty modes, got %v", err)
	}
	req = Request{Text: "2024", RequestedModes: []string{"legacy"}, ContractDate: "15-12-2024"}
	if err := req.Validate(); !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("expected ErrMalformedRequest for bad contract date, got %v", err)
	}
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{XMin: 10, XMax: 20, YMin: 5, YMax: 15}
	b := BBox{XMin: 0, XMax: 30, YMin: 8, YMax: 12}
	u := a.Union(b)
	want := BBox{XMin: 0, XMax: 30, YMin: 5, YMax: 15}
	if u != want {
		t.Fatalf("union = %+v, want %+v", u, want)
	}
}
