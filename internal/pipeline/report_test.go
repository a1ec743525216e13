package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadqual/internal/model"
)

func sampleResult() *model.PipelineResult {
	return &model.PipelineResult{
		RunID:   "run-123",
		Success: true,
		Qualified: []model.QualifiedRecord{
			{
				Record: model.CandidateRecord{Login: "asmith"},
				Scoring: &model.ScoringResult{
					TotalScore:     72,
					Tier:           model.TierA,
					Recommendation: "reach out",
				},
			},
			{
				Record: model.CandidateRecord{Login: "bdev"},
				Scoring: &model.ScoringResult{
					TotalScore:     58,
					Tier:           model.TierB,
					Recommendation: "next cycle",
				},
			},
		},
		Rejected: []model.RejectedRecord{
			{
				Record:  model.CandidateRecord{Login: "cfail"},
				Stage:   StageQualityGates,
				Reasons: []string{"No email address found"},
			},
		},
		Steps: []model.PipelineStepResult{
			{Step: StageValidation, Success: true, InputCount: 3, OutputCount: 3},
			{Step: StageQualityGates, Success: true, InputCount: 3, OutputCount: 2, RejectedCount: 1},
		},
		Stats:   map[string]float64{},
		Elapsed: 120 * time.Millisecond,
	}
}

func TestFormatReport(t *testing.T) {
	result := sampleResult()
	buildStats(result, 3)
	out := FormatReport(result)

	assert.Contains(t, out, "# Qualification Report: run-123")
	assert.Contains(t, out, "- Qualified: 2")
	assert.Contains(t, out, "- Rejected: 1")
	// Leads listed highest score first.
	assert.Less(t, indexOf(t, out, "asmith"), indexOf(t, out, "bdev"))
	assert.Contains(t, out, "No email address found")
	assert.Contains(t, out, StageValidation)
}

func TestBuildStats(t *testing.T) {
	result := sampleResult()
	buildStats(result, 3)

	assert.Equal(t, 3.0, result.Stats["input_count"])
	assert.Equal(t, 2.0, result.Stats["qualified_count"])
	assert.Equal(t, 1.0, result.Stats["rejected_count"])
	assert.InDelta(t, 2.0/3.0, result.Stats["qualification_rate"], 0.001)
	assert.InDelta(t, 1.0/3.0, result.Stats["rejection_rate"], 0.001)
	assert.Equal(t, 1.0, result.Stats["tier_a_count"])
	assert.Equal(t, 1.0, result.Stats["tier_b_count"])
	assert.Equal(t, 0.0, result.Stats["tier_c_count"])
	assert.Equal(t, 1.0, result.Stats["rejected_"+StageQualityGates])
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	if idx < 0 {
		t.Fatalf("%q not found in report", needle)
	}
	return idx
}
