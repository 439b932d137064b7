// Package dateparse canonicalizes raw date-like substrings from OCR text
// into ISO YYYY-MM-DD form. Every extraction strategy goes through this
// package, so two-digit-year handling and range validation cannot diverge
// between strategies.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// MinYear and MaxYear bound the plausible clinical-record window.
	// Anything outside is treated as OCR noise and dropped.
	MinYear = 1990
	MaxYear = 2060

	// TwoDigitPivot splits two-digit years: 00–50 map to 20xx, 51–99 to 19xx.
	TwoDigitPivot = 50
)

// Pattern is one literal date rule. Name travels onto the Candidate so
// audits can tell which rule produced a hypothesis.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
	// YearGroup/MonthGroup/DayGroup index into the submatch slice.
	YearGroup, MonthGroup, DayGroup int
	// TwoDigitYear applies the pivot before validation.
	TwoDigitYear bool
}

// Patterns lists every supported literal form, most specific first.
// Strategies iterate in order and dedupe overlapping spans themselves.
var Patterns = []Pattern{
	{
		Name:       "korean_literal",
		Re:         regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`),
		YearGroup:  1,
		MonthGroup: 2,
		DayGroup:   3,
	},
	{
		Name:       "ymd_separated",
		Re:         regexp.MustCompile(`(\d{4})[.\-/]\s?(\d{1,2})[.\-/]\s?(\d{1,2})`),
		YearGroup:  1,
		MonthGroup: 2,
		DayGroup:   3,
	},
	{
		Name:       "ymd_compact",
		Re:         regexp.MustCompile(`(?:^|[^\d])(\d{4})(\d{2})(\d{2})(?:[^\d]|$)`),
		YearGroup:  1,
		MonthGroup: 2,
		DayGroup:   3,
	},
	{
		Name:         "ymd_two_digit",
		Re:           regexp.MustCompile(`(?:^|[^\d.\-/])(\d{2})[.\-/](\d{1,2})[.\-/](\d{1,2})`),
		YearGroup:    1,
		MonthGroup:   2,
		DayGroup:     3,
		TwoDigitYear: true,
	},
}

// Normalize converts one submatch set into an ISO date. ok=false means the
// match is syntactically date-like but not a valid calendar date in range;
// callers drop it silently per the rejection contract.
func (p Pattern) Normalize(submatch []string) (string, bool) {
	if len(submatch) <= p.DayGroup {
		return "", false
	}
	year, err := strconv.Atoi(submatch[p.YearGroup])
	if err != nil {
		return "", false
	}
	if p.TwoDigitYear {
		year = PivotYear(year)
	}
	month, err := strconv.Atoi(submatch[p.MonthGroup])
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(submatch[p.DayGroup])
	if err != nil {
		return "", false
	}
	if !Valid(year, month, day) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// PivotYear expands a two-digit year around TwoDigitPivot.
func PivotYear(yy int) int {
	if yy <= TwoDigitPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

// Valid reports whether (year, month, day) is a real calendar date inside
// the [MinYear, MaxYear] window. The time.Date round-trip rejects things
// like February 31 that pass the per-field range checks.
func Valid(year, month, day int) bool {
	if year < MinYear || year > MaxYear {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// ParseISO parses a YYYY-MM-DD string previously produced by this package.
func ParseISO(date string) (time.Time, error) {
	return time.Parse("2006-01-02", date)
}

// ExtractAll returns every distinct ISO date found in text, in first-seen
// order. Used by the offline validation harness to read baseline reports
// with the same rules the strategies use.
func ExtractAll(text string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range Patterns {
		for _, m := range p.Re.FindAllStringSubmatch(text, -1) {
			iso, ok := p.Normalize(m)
			if !ok {
				continue
			}
			if _, dup := seen[iso]; dup {
				continue
			}
			seen[iso] = struct{}{}
			out = append(out, iso)
		}
	}
	return out
}
