// Package terms holds the keyword vocabularies shared by the extraction
// strategies and the relevance scorer. Scanned records mix Korean and
// English freely, so both forms are listed where they occur in practice.
package terms

import "strings"

// Medical terms signal that a nearby date belongs to a clinical event
// rather than document metadata.
var Medical = []string{
	"진단", "검사", "수술", "처방", "투약", "치료", "입원", "퇴원",
	"외래", "응급", "수혈", "주사", "촬영", "판독",
	"내과", "외과", "정형외과", "신경외과", "산부인과", "소아과", "이비인후과",
	"초진", "재진", "내원", "방문", "경과", "추적",
	"진료기록", "소견서", "의견서", "진단서", "처방전",
	"ct", "mri", "x-ray", "초음파", "혈액검사", "소변검사",
}

// Insurance terms mark contract and claim context around a date.
var Insurance = []string{
	"보험", "계약", "청약", "가입", "보장", "특약", "갱신",
	"고지", "면책", "청구", "지급", "보험금", "피보험자", "계약자",
	"손해보험", "생명보험",
}

// Table keywords indicate tabular structure; two or more distinct hits
// near a date usually mean a treatment-history table, which extracts with
// higher precision than running prose.
var Table = []string{
	"일자", "날짜", "일시", "내역", "항목", "구분", "순번",
	"진료일", "처방일", "검사일", "수술일", "입원일", "퇴원일",
}

// CountDistinct reports how many distinct needles occur in text,
// case-insensitively. Each needle counts once no matter how often it
// repeats.
func CountDistinct(text string, needles []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			n++
		}
	}
	return n
}

// ContainsAny reports whether any needle occurs in text, case-insensitively.
func ContainsAny(text string, needles []string) bool {
	return CountDistinct(text, needles) > 0
}
