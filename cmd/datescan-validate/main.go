// datescan-validate replays one OCR case against a baseline report and
// measures date-extraction coverage. It is the offline accuracy harness:
// the ground-truth scoring bonus is active here and only here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/vnexsus/dateconsensus/internal/auditstore"
	"github.com/vnexsus/dateconsensus/internal/consensus"
	"github.com/vnexsus/dateconsensus/internal/dateparse"
	"github.com/vnexsus/dateconsensus/internal/ocr"
	"github.com/vnexsus/dateconsensus/internal/pipeline"
	"github.com/vnexsus/dateconsensus/internal/telemetry"
)

func main() {
	inputPath := flag.String("input", "", "OCR envelope JSON ({text, blocks})")
	baselinePath := flag.String("baseline", "", "baseline report text with ground-truth dates")
	modesFlag := flag.String("modes", "legacy,context,coordinate,adaptive", "comma-separated strategy modes")
	timeoutMs := flag.Int("timeout-ms", 5000, "per-strategy timeout in milliseconds")
	contractDate := flag.String("contract-date", "", "optional contract date (YYYY-MM-DD) for risk vectors")
	auditDB := flag.String("audit-db", "", "optional SQLite audit database path")
	debug := flag.Bool("debug", false, "verbose per-strategy logging")
	flag.Parse()

	if *inputPath == "" || *baselinePath == "" {
		log.Fatal("both -input and -baseline are required")
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, "datescan-validate")
	if err != nil {
		log.Fatal(err)
	}
	defer shutdown(ctx)

	baselineText, err := os.ReadFile(*baselinePath)
	if err != nil {
		log.Fatal(err)
	}
	baseline := dateparse.ExtractAll(ocr.NormalizeText(string(baselineText)))
	if len(baseline) == 0 {
		log.Fatalf("baseline %s contains no recognizable dates", *baselinePath)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal(err)
	}
	var req ocr.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Fatalf("decode %s: %v", *inputPath, err)
	}
	req.RequestedModes = splitModes(*modesFlag)
	req.PerStrategyTimeoutMs = *timeoutMs
	req.ContractDate = *contractDate

	scoring := consensus.DefaultScoringConfig()
	scoring.GroundTruth = map[string]struct{}{}
	for _, d := range baseline {
		scoring.GroundTruth[d] = struct{}{}
	}

	cfg := pipeline.Config{Scoring: scoring, Debug: *debug}
	if *auditDB != "" {
		store, err := auditstore.Open(*auditDB)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		cfg.Auditor = store
	}

	resp, err := pipeline.New(cfg).Run(ctx, req)
	if err != nil {
		log.Fatal(err)
	}

	extracted := map[string]struct{}{}
	for _, cand := range resp.Consensus.Candidates {
		extracted[cand.Date] = struct{}{}
	}

	var matched, missing []string
	for _, d := range baseline {
		if _, ok := extracted[d]; ok {
			matched = append(matched, d)
		} else {
			missing = append(missing, d)
		}
	}
	var extra []string
	baselineSet := map[string]struct{}{}
	for _, d := range baseline {
		baselineSet[d] = struct{}{}
	}
	for d := range extracted {
		if _, ok := baselineSet[d]; !ok {
			extra = append(extra, d)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	sort.Strings(extra)

	coverage := float64(len(matched)) / float64(len(baseline)) * 100

	fmt.Printf("run=%s selected=%s\n", resp.RunID, resp.Consensus.SelectedStrategy)
	fmt.Printf("baseline=%d extracted=%d matched=%d missing=%d extra=%d coverage=%.1f%%\n",
		len(baseline), len(extracted), len(matched), len(missing), len(extra), coverage)
	if len(missing) > 0 {
		fmt.Printf("missing: %s\n", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		fmt.Printf("extra: %s\n", strings.Join(extra, ", "))
	}
	for _, v := range resp.RiskVectors {
		fmt.Printf("risk vector x=%d y=%d z=%d type=%s event=%s\n", v.X, v.Y, v.Z, v.Type, v.EventRef)
	}
	for _, e := range resp.Errors {
		fmt.Printf("error strategy=%s code=%s message=%s\n", e.Strategy, e.Code, e.Message)
	}

	if coverage < 100 {
		os.Exit(1)
	}
}

func splitModes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
