package riskvector

// Event is one canonical, dated clinical event: the date is already ISO
// normalized by the extraction pipeline and the content is the free-text
// description of what happened on that date.
type Event struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// VectorType is the underwriting category a case falls into.
type VectorType string

const (
	// VectorViolationRisk: a severe event before the contract date —
	// possible non-disclosure.
	VectorViolationRisk VectorType = "VIOLATION_RISK"
	// VectorPaymentTarget: a severe event after the contract date and past
	// the statutory exemption window.
	VectorPaymentTarget VectorType = "PAYMENT_TARGET"
	// VectorExemptionTarget: a severe event inside the 90-day exemption
	// window after enrollment.
	VectorExemptionTarget VectorType = "EXEMPTION_TARGET"
	// VectorGeneralReview: everything else with events present.
	VectorGeneralReview VectorType = "GENERAL_REVIEW"
	// VectorEmpty: no events to evaluate.
	VectorEmpty VectorType = "EMPTY"
)

// Vector is the three-axis risk classification of a case relative to a
// contract date: X severity (0–10), Y temporal relevance (−10…+10,
// discrete buckets), Z evidentiary certainty (0–10). Significant is a
// non-owning reference to the event that drove the severity axis.
type Vector struct {
	X           int        `json:"x"`
	Y           int        `json:"y"`
	Z           int        `json:"z"`
	Type        VectorType `json:"vector_type"`
	Significant *Event     `json:"significant_event,omitempty"`
}
