package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/activity"
	"github.com/sells-group/leadqual/internal/compliance"
	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/dedupe"
	"github.com/sells-group/leadqual/internal/gate"
	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/normalize"
	"github.com/sells-group/leadqual/internal/relevance"
	"github.com/sells-group/leadqual/internal/scorer"
)

// Stage names as they appear in step results and logs.
const (
	StageValidation   = "validation"
	StageDedupe       = "deduplication"
	StageCompliance   = "compliance"
	StageICP          = "icp_filtering"
	StageActivity     = "activity_filtering"
	StageNormalize    = "normalization"
	StageQualityGates = "quality_gates"
)

// Orchestrator runs the full qualification pipeline: validation, dedupe,
// compliance screening, relevance and activity filtering, normalization,
// quality gates, and final scoring of the survivors.
type Orchestrator struct {
	cfg       *config.Config
	engine    *normalize.Engine
	screen    *compliance.Screen
	resolver  *dedupe.Resolver
	relevance *relevance.Scorer
	activity  *activity.Scorer
	scorer    *scorer.LeadScorer
	validator *gate.Validator
	exec      stageExecutor
}

func New(cfg *config.Config) *Orchestrator {
	var exec stageExecutor = sequentialExecutor{}
	if cfg.Pipeline.EnableParallel {
		workers := cfg.Pipeline.MaxWorkers
		if workers < 1 {
			workers = 1
		}
		exec = poolExecutor{
			workers:   workers,
			batchSize: cfg.Pipeline.BatchSize,
		}
	}
	screen := compliance.NewScreen(&cfg.Compliance, &cfg.Tables)
	return &Orchestrator{
		cfg:       cfg,
		engine:    normalize.NewEngine(&cfg.Normalize, &cfg.Tables),
		screen:    screen,
		resolver:  dedupe.NewResolver(&cfg.Tables),
		relevance: relevance.NewScorer(&cfg.Relevance, &cfg.Tables),
		activity:  activity.NewScorer(&cfg.Activity, &cfg.Tables),
		scorer:    scorer.NewLeadScorer(cfg, screen),
		validator: gate.NewValidator(&cfg.Gates, &cfg.Tables, screen),
		exec:      exec,
	}
}

// Run processes the batch end to end and returns the partitioned result.
// A failed stage is recorded and contributes no survivors; later stages
// run on an empty set. Run itself only fails on a top-level panic.
func (o *Orchestrator) Run(ctx context.Context, records []model.CandidateRecord) (result *model.PipelineResult, err error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := zap.L().With(zap.String("run_id", runID))

	cfgSnapshot := *o.cfg
	result = &model.PipelineResult{
		RunID:   runID,
		Success: true,
		Stats:   map[string]float64{},
		Config:  &cfgSnapshot,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panicked", zap.Any("panic", r))
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("pipeline: %v", r))
		}
		result.Elapsed = time.Since(started)
		buildStats(result, len(records))
	}()

	logger.Info("pipeline started", zap.Int("input_count", len(records)))

	current := records

	// runStage executes one stage with timing, panic recovery, and
	// step accounting. A panicking stage yields no survivors: nothing
	// reaches later stages unscreened.
	runStage := func(name string, enabled bool, fn func([]model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error)) {
		if !enabled {
			logger.Debug("stage disabled", zap.String("stage", name))
			return
		}
		stepStart := time.Now()
		step := model.PipelineStepResult{Step: name, Success: true, InputCount: len(current)}

		survivors, rejected, errs := func() (s []model.CandidateRecord, r []model.RejectedRecord, e []error) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("stage panicked", zap.String("stage", name), zap.Any("panic", p))
					s, r = nil, nil
					e = append(e, fmt.Errorf("panic: %v", p))
				}
			}()
			return fn(current)
		}()

		step.OutputCount = len(survivors)
		step.RejectedCount = step.InputCount - step.OutputCount
		step.Elapsed = time.Since(stepStart)
		for _, e := range errs {
			step.Success = false
			step.Errors = append(step.Errors, e.Error())
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", name, e.Error()))
		}

		logger.Info("stage finished",
			zap.String("stage", name),
			zap.Int("input", step.InputCount),
			zap.Int("output", step.OutputCount),
			zap.Int("rejected", step.RejectedCount),
			zap.Duration("elapsed", step.Elapsed))

		result.Steps = append(result.Steps, step)
		result.Rejected = append(result.Rejected, rejected...)
		current = survivors
	}

	pc := o.cfg.Pipeline

	runStage(StageValidation, pc.ValidationEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		return o.filterStage(ctx, StageValidation, in, o.validateRecord)
	})

	runStage(StageDedupe, pc.DeduplicationEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		return o.resolver.Deduplicate(in), nil, nil
	})

	runStage(StageCompliance, pc.ComplianceEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		return o.filterStage(ctx, StageCompliance, in, o.screenRecord)
	})

	runStage(StageICP, pc.ICPFilteringEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		return o.filterStage(ctx, StageICP, in, o.relevanceRecord)
	})

	runStage(StageActivity, pc.ActivityFilteringEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		return o.filterStage(ctx, StageActivity, in, o.activityRecord)
	})

	runStage(StageNormalize, pc.NormalizationEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		out := make([]model.CandidateRecord, 0, len(in))
		for _, rec := range in {
			nr := o.engine.Normalize(rec)
			out = append(out, nr.Record)
			result.Warnings = append(result.Warnings, nr.Warnings...)
		}
		return out, nil, nil
	})

	runStage(StageQualityGates, pc.QualityGatesEnabled, func(in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
		return o.gateStage(ctx, in)
	})

	for i := range current {
		rec := current[i]
		quality := o.validator.Validate(&rec)
		scoring := o.scorer.Score(&rec, rec.Source)
		rec.Tier = scoring.Tier
		result.Qualified = append(result.Qualified, model.QualifiedRecord{
			Record:  rec,
			Scoring: &scoring,
			Quality: &quality,
		})
	}

	logger.Info("pipeline finished",
		zap.Int("qualified", len(result.Qualified)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Duration("elapsed", time.Since(started)))

	return result, nil
}

// filterStage maps a per-record reject/keep decision over the input via
// the configured executor.
func (o *Orchestrator) filterStage(ctx context.Context, stage string, in []model.CandidateRecord, fn stageFunc) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
	outcomes := o.exec.run(ctx, in, fn)
	survivors := make([]model.CandidateRecord, 0, len(in))
	var rejected []model.RejectedRecord
	for _, oc := range outcomes {
		if oc.rejected {
			rejected = append(rejected, model.RejectedRecord{
				Record:  oc.rec,
				Stage:   stage,
				Reasons: oc.reasons,
			})
			continue
		}
		survivors = append(survivors, oc.rec)
	}
	return survivors, rejected, nil
}

func (o *Orchestrator) validateRecord(rec model.CandidateRecord) outcome {
	if rec.Login == "" && rec.Name == "" && rec.BestEmail() == "" {
		return outcome{rec: rec, rejected: true, reasons: []string{"record has no identity fields"}}
	}
	return outcome{rec: rec}
}

func (o *Orchestrator) screenRecord(rec model.CandidateRecord) outcome {
	res := o.screen.Check(&rec)
	if res.ShouldBlock() {
		reasons := res.RiskFactors
		if res.BlockedReason != "" {
			reasons = append([]string{res.BlockedReason}, reasons...)
		}
		if len(reasons) == 0 {
			reasons = []string{"compliance screen failed"}
		}
		return outcome{rec: rec, rejected: true, reasons: reasons}
	}
	if o.cfg.Pipeline.BlockHighRisk && res.RiskLevel == model.RiskHigh {
		return outcome{rec: rec, rejected: true, reasons: append([]string{"high compliance risk"}, res.RiskFactors...)}
	}
	return outcome{rec: rec}
}

func (o *Orchestrator) relevanceRecord(rec model.CandidateRecord) outcome {
	res := o.relevance.IsRelevant(&rec)
	rec.RelevanceScore = &res.Score
	if !res.IsRelevant {
		return outcome{rec: rec, rejected: true, reasons: []string{
			fmt.Sprintf("relevance score %.2f below threshold %.2f", res.Score, o.cfg.Relevance.RelevanceThreshold),
		}}
	}
	return outcome{rec: rec}
}

func (o *Orchestrator) activityRecord(rec model.CandidateRecord) outcome {
	res := o.activity.MeetsRequirements(&rec)
	rec.ActivityScore = &res.Score
	if !res.PassesFilter {
		reasons := res.Reasons
		if len(reasons) == 0 {
			reasons = []string{fmt.Sprintf("activity score %.2f below threshold %.2f", res.Score, o.cfg.Activity.MinActivityScore)}
		}
		return outcome{rec: rec, rejected: true, reasons: reasons}
	}
	return outcome{rec: rec}
}

func (o *Orchestrator) gateStage(ctx context.Context, in []model.CandidateRecord) ([]model.CandidateRecord, []model.RejectedRecord, []error) {
	outcomes := o.exec.run(ctx, in, func(rec model.CandidateRecord) outcome {
		res := o.validator.Validate(&rec)
		if !res.PassesAllGates {
			reasons := res.FailureReasons
			if len(reasons) == 0 {
				reasons = []string{"quality gates failed"}
			}
			return outcome{rec: rec, rejected: true, reasons: reasons, quality: res.QualityScore}
		}
		return outcome{rec: rec}
	})

	survivors := make([]model.CandidateRecord, 0, len(in))
	var rejected []model.RejectedRecord
	for _, oc := range outcomes {
		if oc.rejected {
			rejected = append(rejected, model.RejectedRecord{
				Record:       oc.rec,
				Stage:        StageQualityGates,
				Reasons:      oc.reasons,
				QualityScore: oc.quality,
			})
			continue
		}
		survivors = append(survivors, oc.rec)
	}
	return survivors, rejected, nil
}
