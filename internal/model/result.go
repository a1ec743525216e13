package model

import (
	"time"

	"github.com/sells-group/leadqual/internal/config"
)

// Tier is the discrete quality classification assigned to a scored record.
type Tier string

const (
	TierA      Tier = "A"
	TierB      Tier = "B"
	TierC      Tier = "C"
	TierReject Tier = "REJECT"
)

// TierBonus maps a tier to the bonus used by best-record selection during
// identity resolution.
func TierBonus(t Tier) int {
	switch t {
	case TierA:
		return 20
	case TierB:
		return 10
	case TierC:
		return 5
	default:
		return 0
	}
}

// RiskLevel summarizes the outcome of compliance screening.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
	RiskBlock  RiskLevel = "block"
)

// FieldChange records a before/after pair for one normalized field.
type FieldChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NormalizationResult holds a normalized record plus the change trail.
type NormalizationResult struct {
	Record   CandidateRecord        `json:"record"`
	Changes  map[string]FieldChange `json:"changes,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

// ComplianceResult holds the outcome of sanctions/geo/content screening.
type ComplianceResult struct {
	Compliant     bool      `json:"compliant"`
	RiskLevel     RiskLevel `json:"risk_level"`
	RiskFactors   []string  `json:"risk_factors,omitempty"`
	BlockedReason string    `json:"blocked_reason,omitempty"`
	SanctionFlags []string  `json:"sanction_flags,omitempty"`
	GeoLocation   string    `json:"geo_location,omitempty"`
}

// ShouldBlock reports whether a record must be excluded outright.
func (c *ComplianceResult) ShouldBlock() bool {
	return c.RiskLevel == RiskBlock || !c.Compliant
}

// RelevanceResult is the outcome of matching a record against an ICP.
type RelevanceResult struct {
	IsRelevant bool               `json:"is_relevant"`
	Score      float64            `json:"score"`
	Reasons    []string           `json:"reasons,omitempty"`
	Breakdown  map[string]float64 `json:"breakdown,omitempty"`
}

// ActivityResult is the outcome of the recency/engagement filter.
type ActivityResult struct {
	PassesFilter bool               `json:"passes_filter"`
	Score        float64            `json:"score"`
	Reasons      []string           `json:"reasons,omitempty"`
	Breakdown    map[string]float64 `json:"breakdown,omitempty"`
}

// ScoringResult is the combined lead-priority scoring outcome.
type ScoringResult struct {
	TotalScore      int               `json:"total_score"`
	ComponentScores map[string]int    `json:"component_scores"`
	Tier            Tier              `json:"tier"`
	Recommendation  string            `json:"recommendation"`
	RiskFactors     []string          `json:"risk_factors,omitempty"`
	PrioritySignals []string          `json:"priority_signals,omitempty"`
	Cohorts         []string          `json:"cohorts,omitempty"`
	Compliance      *ComplianceResult `json:"compliance,omitempty"`
}

// QualityGateResult aggregates the eight named validation gates.
type QualityGateResult struct {
	PassesAllGates bool            `json:"passes_all_gates"`
	Gates          map[string]bool `json:"gates"`
	FailureReasons []string        `json:"failure_reasons,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
	QualityScore   float64         `json:"quality_score"`
}

// MergedRecord is an identity-resolution group collapsed to one canonical
// record. MergeCount is always >= 1.
type MergedRecord struct {
	Key        string          `json:"key"`
	Logins     []string        `json:"logins,omitempty"`
	Best       CandidateRecord `json:"best"`
	Sources    []string        `json:"sources,omitempty"`
	MergeCount int             `json:"merge_count"`
}

// QualifiedRecord is a record that passed every gate, enriched with its
// scoring and gate diagnostics.
type QualifiedRecord struct {
	Record  CandidateRecord    `json:"record"`
	Scoring *ScoringResult     `json:"scoring,omitempty"`
	Quality *QualityGateResult `json:"quality,omitempty"`
}

// RejectedRecord is a record dropped by some stage, with the machine-
// readable reasons retained for diagnosis.
type RejectedRecord struct {
	Record       CandidateRecord `json:"record"`
	Stage        string          `json:"stage"`
	Reasons      []string        `json:"reasons"`
	QualityScore float64         `json:"quality_score,omitempty"`
}

// PipelineStepResult holds per-stage observability counters.
type PipelineStepResult struct {
	Step          string        `json:"step"`
	Success       bool          `json:"success"`
	InputCount    int           `json:"input_count"`
	OutputCount   int           `json:"output_count"`
	RejectedCount int           `json:"rejected_count"`
	Elapsed       time.Duration `json:"elapsed"`
	Errors        []string      `json:"errors,omitempty"`
}

// PipelineResult is the final qualified/rejected partition plus aggregate
// statistics. Callers always receive one, even on a fatal run error.
// Config is a snapshot of the configuration the run used, so results
// stay interpretable after thresholds change.
type PipelineResult struct {
	RunID     string               `json:"run_id"`
	Success   bool                 `json:"success"`
	Qualified []QualifiedRecord    `json:"qualified"`
	Rejected  []RejectedRecord     `json:"rejected"`
	Stats     map[string]float64   `json:"stats"`
	Steps     []PipelineStepResult `json:"steps"`
	Config    *config.Config       `json:"config,omitempty"`
	Elapsed   time.Duration        `json:"elapsed"`
	Errors    []string             `json:"errors,omitempty"`
	Warnings  []string             `json:"warnings,omitempty"`
}
