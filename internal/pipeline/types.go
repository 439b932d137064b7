package pipeline

import (
	"time"

	"github.com/vnexsus/dateconsensus/internal/consensus"
	"github.com/vnexsus/dateconsensus/internal/riskvector"
	"github.com/vnexsus/dateconsensus/internal/strategy"
)

// StrategyError is one recorded, non-fatal failure surfaced to the caller.
type StrategyError struct {
	Strategy string `json:"strategy"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// VectorEntry is a risk vector plus the reference to the event that drove
// it, keyed by the event's canonical date.
type VectorEntry struct {
	riskvector.Vector
	EventRef string `json:"event_ref,omitempty"`
}

// Response is the structured result of one pipeline run. It is always
// populated, even when every strategy failed — an empty consensus is a
// normal outcome, not an exception.
type Response struct {
	Success     bool              `json:"success"`
	RunID       string            `json:"run_id"`
	Consensus   consensus.Result  `json:"consensus"`
	RiskVectors []VectorEntry     `json:"risk_vectors"`
	Errors      []StrategyError   `json:"errors"`
	Strategies  []strategy.Result `json:"strategies,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// AuditRecord is what the optional auditor persists after a run settles.
type AuditRecord struct {
	RunID        string
	StartedAt    time.Time
	CompletedAt  time.Time
	ContractDate string
	Modes        []string
	Results      []strategy.Result
	Consensus    consensus.Result
	Vectors      []VectorEntry
}

// Auditor persists run provenance. Implementations must tolerate being
// called from the request path: failures are logged by the pipeline and
// never fail the run.
type Auditor interface {
	RecordRun(rec AuditRecord) error
}
