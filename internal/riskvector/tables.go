package riskvector

import "strings"

// KeywordScore pairs a lookup keyword with its axis score. Tables are
// scanned in order and the first match wins — scores never combine.
type KeywordScore struct {
	Keyword string
	Score   int
}

// SeverityTable maps diagnosis keywords (English and Korean, as they
// appear in scanned records) to the severity axis. Tuned against the
// offline underwriting corpus; overridable via Config.
var SeverityTable = []KeywordScore{
	{"cancer", 10}, {"암", 10}, {"악성", 10},
	{"stroke", 10}, {"뇌졸중", 10}, {"뇌경색", 10}, {"뇌출혈", 10},
	{"myocardial infarction", 10}, {"심근경색", 10},
	{"angina", 9}, {"협심증", 9},
	{"arrhythmia", 8}, {"부정맥", 8},
	{"hypertension", 7}, {"고혈압", 7},
	{"diabetes", 7}, {"당뇨", 7},
	{"fracture", 5}, {"골절", 5},
	{"appendicitis", 4}, {"맹장염", 4}, {"충수염", 4},
}

// DefaultSeverity applies when no severity keyword matches.
const DefaultSeverity = 3

// CertaintyTable maps the diagnostic method mentioned in an event to the
// certainty axis. Certainty reflects the whole case: the vectorizer takes
// the maximum over all events, not just the significant one.
var CertaintyTable = []KeywordScore{
	{"biopsy", 10}, {"조직검사", 10},
	{"surgery", 10}, {"수술", 10},
	{"pathology", 10}, {"병리", 10},
	{"confirmed diagnosis", 10}, {"확진", 10},
	{"mri", 9}, {"ct", 9},
	{"admission", 8}, {"입원", 8},
	{"medication", 7}, {"투약", 7}, {"처방", 7},
	{"ultrasound", 6}, {"초음파", 6},
	{"x-ray", 5}, {"엑스레이", 5},
	{"opinion", 4}, {"소견", 4},
	{"symptom", 2}, {"증상", 2},
	{"complaint", 1}, {"호소", 1},
}

// DefaultCertainty applies when no certainty keyword matches.
const DefaultCertainty = 3

// lookup returns the first matching score in table, case-insensitively,
// or fallback when nothing matches.
func lookup(content string, table []KeywordScore, fallback int) int {
	lower := strings.ToLower(content)
	for _, entry := range table {
		if strings.Contains(lower, entry.Keyword) {
			return entry.Score
		}
	}
	return fallback
}
