// Package activity filters candidate records on recency and engagement of
// their contribution signals.
package activity

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// Component weights. They sum to 1.
const (
	weightRecency     = 0.35
	weightQuality     = 0.25
	weightEngagement  = 0.20
	weightMaintainer  = 0.15
	weightConsistency = 0.05
)

// Scorer evaluates activity requirements.
type Scorer struct {
	cfg    *config.ActivityConfig
	tables *config.TableConfig
	now    func() time.Time
}

// NewScorer creates an activity scorer.
func NewScorer(cfg *config.ActivityConfig, tables *config.TableConfig) *Scorer {
	return &Scorer{cfg: cfg, tables: tables, now: time.Now}
}

// MeetsRequirements computes the weighted activity score and compares it
// against the configured minimum.
func (s *Scorer) MeetsRequirements(record *model.CandidateRecord) model.ActivityResult {
	var reasons []string

	recency := s.recencyScore(record, &reasons)
	quality := s.signalQualityScore(record)
	engagement := s.engagementScore(record)
	maintainer := s.maintainerScore(record)
	consistency := s.consistencyScore(record)

	score := recency*weightRecency +
		quality*weightQuality +
		engagement*weightEngagement +
		maintainer*weightMaintainer +
		consistency*weightConsistency
	score = clamp01(score)

	if s.cfg.RequireMaintainerStatus && maintainer == 0 {
		score = 0
		reasons = append(reasons, "maintainer status required but not detected")
	}

	result := model.ActivityResult{
		PassesFilter: score >= s.cfg.MinActivityScore,
		Score:        score,
		Reasons:      reasons,
		Breakdown: map[string]float64{
			"recency":     recency,
			"quality":     quality,
			"engagement":  engagement,
			"maintainer":  maintainer,
			"consistency": consistency,
		},
	}
	if !result.PassesFilter && len(result.Reasons) == 0 {
		result.Reasons = append(result.Reasons, "activity score below minimum")
	}

	zap.L().Debug("activity: scored record",
		zap.String("login", record.Login),
		zap.Float64("score", score),
		zap.Bool("passes", result.PassesFilter),
	)
	return result
}

func (s *Scorer) recencyScore(r *model.CandidateRecord, reasons *[]string) float64 {
	age := r.SignalAgeDays(s.now())
	switch {
	case age < 0:
		*reasons = append(*reasons, "no signal timestamp")
		return 0
	case age <= 30:
		return 1.0
	case age <= 60:
		return 0.8
	case age <= 90:
		return 0.6
	case age <= 180:
		*reasons = append(*reasons, "signal older than 90 days")
		return 0.3
	default:
		*reasons = append(*reasons, "signal older than 180 days")
		return 0.1
	}
}

// signalQualityScore ranks pull requests above issues above commits, with
// a small bonus for descriptive signal text.
func (s *Scorer) signalQualityScore(r *model.CandidateRecord) float64 {
	var base float64
	switch strings.ToLower(r.SignalType) {
	case "pr", "pull_request", "pull-request":
		base = 1.0
	case "issue":
		base = 0.7
	case "commit":
		base = 0.5
	default:
		return 0
	}

	if len(r.SignalText) >= 200 {
		base += 0.1
	} else if len(r.SignalText) >= 80 {
		base += 0.05
	}
	return clamp01(base)
}

// engagementScore combines follower/repository thresholds and bio length.
func (s *Scorer) engagementScore(r *model.CandidateRecord) float64 {
	var score float64

	followers := model.IntOr(r.Followers, 0)
	if followers >= s.cfg.MinFollowers*10 {
		score += 0.5
	} else if followers >= s.cfg.MinFollowers {
		score += 0.35
	}

	repos := model.IntOr(r.PublicRepos, 0)
	if repos >= s.cfg.MinRepos*5 {
		score += 0.3
	} else if repos >= s.cfg.MinRepos {
		score += 0.2
	}

	if len(r.Bio) >= 50 {
		score += 0.2
	} else if len(r.Bio) > 0 {
		score += 0.1
	}
	return clamp01(score)
}

// maintainerScore combines explicit flags, bio keyword detection, and an
// owner-login-matches-repo-owner heuristic.
func (s *Scorer) maintainerScore(r *model.CandidateRecord) float64 {
	if model.HasFlag(r.IsMaintainer) || model.HasFlag(r.IsCodeOwner) {
		return 1.0
	}

	bio := strings.ToLower(r.Bio)
	for _, kw := range s.tables.MaintainerKeywords {
		if kw != "" && strings.Contains(bio, strings.ToLower(kw)) {
			return 0.8
		}
	}

	if r.Login != "" && strings.EqualFold(r.Login, r.RepoOwner) {
		return 0.7
	}

	if model.HasFlag(r.IsOrgMember) {
		return 0.4
	}
	return 0
}

// consistencyScore rewards a present signal and profile completeness.
func (s *Scorer) consistencyScore(r *model.CandidateRecord) float64 {
	var score float64
	if r.SignalAt != nil && r.SignalType != "" {
		score += 0.5
	}

	complete := 0
	for _, present := range []bool{r.Name != "", r.BestEmail() != "", r.Bio != "", r.Location != ""} {
		if present {
			complete++
		}
	}
	score += float64(complete) / 4 * 0.5
	return clamp01(score)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
