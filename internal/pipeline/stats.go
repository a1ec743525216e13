package pipeline

import "github.com/sells-group/leadqual/internal/model"

// buildStats fills the result's aggregate statistics from the final
// partition and the per-stage counters.
func buildStats(result *model.PipelineResult, inputCount int) {
	stats := result.Stats
	if stats == nil {
		stats = map[string]float64{}
		result.Stats = stats
	}

	stats["input_count"] = float64(inputCount)
	stats["qualified_count"] = float64(len(result.Qualified))
	stats["rejected_count"] = float64(len(result.Rejected))
	stats["total_ms"] = float64(result.Elapsed.Milliseconds())

	if inputCount > 0 {
		stats["qualification_rate"] = float64(len(result.Qualified)) / float64(inputCount)
		stats["rejection_rate"] = float64(len(result.Rejected)) / float64(inputCount)
		stats["avg_ms_per_record"] = float64(result.Elapsed.Milliseconds()) / float64(inputCount)
	}

	tiers := map[model.Tier]int{}
	for _, q := range result.Qualified {
		if q.Scoring != nil {
			tiers[q.Scoring.Tier]++
		}
	}
	stats["tier_a_count"] = float64(tiers[model.TierA])
	stats["tier_b_count"] = float64(tiers[model.TierB])
	stats["tier_c_count"] = float64(tiers[model.TierC])

	byStage := map[string]int{}
	for _, r := range result.Rejected {
		byStage[r.Stage]++
	}
	for stage, n := range byStage {
		stats["rejected_"+stage] = float64(n)
	}
}
