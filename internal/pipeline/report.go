package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/leadqual/internal/model"
)

// FormatReport generates a human-readable qualification report.
func FormatReport(result *model.PipelineResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Qualification Report: %s\n\n", result.RunID)

	// Summary.
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Input records: %.0f\n", result.Stats["input_count"])
	fmt.Fprintf(&b, "- Qualified: %d\n", len(result.Qualified))
	fmt.Fprintf(&b, "- Rejected: %d\n", len(result.Rejected))
	if rate, ok := result.Stats["qualification_rate"]; ok {
		fmt.Fprintf(&b, "- Qualification rate: %.1f%%\n", rate*100)
	}
	fmt.Fprintf(&b, "- Elapsed: %s\n\n", result.Elapsed.Round(0))

	// Stage results.
	b.WriteString("## Stages\n")
	for _, s := range result.Steps {
		status := "ok"
		if !s.Success {
			status = "failed"
		}
		fmt.Fprintf(&b, "- %s: %s (%d in, %d out, %d rejected, %dms)\n",
			s.Step, status, s.InputCount, s.OutputCount, s.RejectedCount, s.Elapsed.Milliseconds())
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  Error: %s\n", e)
		}
	}
	b.WriteString("\n")

	// Tier breakdown.
	b.WriteString("## Tier Breakdown\n")
	fmt.Fprintf(&b, "- Tier A: %.0f\n", result.Stats["tier_a_count"])
	fmt.Fprintf(&b, "- Tier B: %.0f\n", result.Stats["tier_b_count"])
	fmt.Fprintf(&b, "- Tier C: %.0f\n\n", result.Stats["tier_c_count"])

	// Qualified leads, highest score first.
	if len(result.Qualified) > 0 {
		b.WriteString("## Qualified Leads\n")
		leads := make([]model.QualifiedRecord, len(result.Qualified))
		copy(leads, result.Qualified)
		sort.SliceStable(leads, func(i, j int) bool {
			return totalScore(leads[i]) > totalScore(leads[j])
		})
		for _, q := range leads {
			label := q.Record.Login
			if label == "" {
				label = q.Record.Name
			}
			if q.Scoring != nil {
				fmt.Fprintf(&b, "- **%s** [%s, %d]: %s\n",
					label, q.Scoring.Tier, q.Scoring.TotalScore, q.Scoring.Recommendation)
			} else {
				fmt.Fprintf(&b, "- **%s**\n", label)
			}
		}
		b.WriteString("\n")
	}

	// Rejections grouped by stage.
	if len(result.Rejected) > 0 {
		b.WriteString("## Rejections\n")
		byStage := map[string][]model.RejectedRecord{}
		stages := []string{}
		for _, r := range result.Rejected {
			if _, seen := byStage[r.Stage]; !seen {
				stages = append(stages, r.Stage)
			}
			byStage[r.Stage] = append(byStage[r.Stage], r)
		}
		for _, stage := range stages {
			fmt.Fprintf(&b, "### %s (%d)\n", stage, len(byStage[stage]))
			for _, r := range byStage[stage] {
				label := r.Record.Login
				if label == "" {
					label = r.Record.Name
				}
				if label == "" {
					label = "(unidentified)"
				}
				fmt.Fprintf(&b, "- %s: %s\n", label, strings.Join(r.Reasons, "; "))
			}
			b.WriteString("\n")
		}
	}

	// Run-level problems.
	if len(result.Errors) > 0 {
		b.WriteString("## Errors\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings (%d)\n", len(result.Warnings))
		max := len(result.Warnings)
		if max > 20 {
			max = 20
		}
		for _, w := range result.Warnings[:max] {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		if len(result.Warnings) > max {
			fmt.Fprintf(&b, "- ... and %d more\n", len(result.Warnings)-max)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func totalScore(q model.QualifiedRecord) int {
	if q.Scoring == nil {
		return 0
	}
	return q.Scoring.TotalScore
}
