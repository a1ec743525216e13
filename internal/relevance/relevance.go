// Package relevance scores candidate records against an Ideal Customer
// Profile over five weighted criteria: company size, technology stack,
// activity level, location, and engagement indicators.
package relevance

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// Criterion weights. They sum to 1.
const (
	weightCompanySize = 0.25
	weightTechStack   = 0.30
	weightActivity    = 0.20
	weightLocation    = 0.15
	weightEngagement  = 0.10
)

// Scorer evaluates ICP relevance.
type Scorer struct {
	cfg    *config.RelevanceConfig
	tables *config.TableConfig
	now    func() time.Time
}

// NewScorer creates an ICP relevance scorer.
func NewScorer(cfg *config.RelevanceConfig, tables *config.TableConfig) *Scorer {
	return &Scorer{cfg: cfg, tables: tables, now: time.Now}
}

// IsRelevant computes the weighted ICP match. The record is relevant when
// the weighted sum reaches the configured threshold.
func (s *Scorer) IsRelevant(record *model.CandidateRecord) model.RelevanceResult {
	var reasons []string

	companySize := s.companySizeScore(record, &reasons)
	techStack := s.techStackScore(record, &reasons)
	activity := s.activityScore(record, &reasons)
	location := s.locationScore(record, &reasons)
	engagement := s.engagementScore(record, &reasons)

	score := companySize*weightCompanySize +
		techStack*weightTechStack +
		activity*weightActivity +
		location*weightLocation +
		engagement*weightEngagement
	score = clamp01(score)

	result := model.RelevanceResult{
		IsRelevant: score >= s.cfg.RelevanceThreshold,
		Score:      score,
		Reasons:    reasons,
		Breakdown: map[string]float64{
			"company_size": companySize,
			"tech_stack":   techStack,
			"activity":     activity,
			"location":     location,
			"engagement":   engagement,
		},
	}

	zap.L().Debug("relevance: scored record",
		zap.String("login", record.Login),
		zap.Float64("score", score),
		zap.Bool("relevant", result.IsRelevant),
	)
	return result
}

// companySizeScore checks company-name and bio keywords against the
// configured size buckets, with a growth-hub location heuristic as a
// weaker fallback signal.
func (s *Scorer) companySizeScore(r *model.CandidateRecord, reasons *[]string) float64 {
	haystack := strings.ToLower(r.Company + " " + r.Bio)

	for _, bucket := range s.cfg.CompanySizes {
		for _, kw := range s.tables.CompanySizes[bucket] {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				*reasons = append(*reasons, fmt.Sprintf("company matches %s-stage indicator %q", bucket, kw))
				return 1.0
			}
		}
	}

	// Growth-hub cities bias toward venture-backed growth-stage companies.
	if r.Location != "" && containsSubstring(r.Location, s.tables.GrowthHubs) {
		if containsFold(s.cfg.CompanySizes, "growth") || containsFold(s.cfg.CompanySizes, "series-a") {
			*reasons = append(*reasons, "growth-hub location suggests target company stage")
			return 0.6
		}
	}

	if r.Company != "" {
		return 0.3
	}
	return 0.2
}

// techStackScore matches primary language, topics, and bio keywords
// against the selected stack definitions, averaged across all stacks with
// any match.
func (s *Scorer) techStackScore(r *model.CandidateRecord, reasons *[]string) float64 {
	var total float64
	matched := 0

	for _, name := range s.cfg.TechStacks {
		stack, ok := s.tables.TechStacks[name]
		if !ok {
			continue
		}

		var stackScore float64
		if r.Language != "" && containsFold(stack.Languages, r.Language) {
			stackScore += 0.5
		}
		if anyTopicOrBioMatch(r, stack.Frameworks) {
			stackScore += 0.25
		}
		if anyTopicOrBioMatch(r, stack.Domains) {
			stackScore += 0.25
		}

		if stackScore > 0 {
			total += stackScore
			matched++
			*reasons = append(*reasons, fmt.Sprintf("matches %s stack (%.2f)", name, stackScore))
		}
	}

	if matched == 0 {
		return 0
	}
	return clamp01(total / float64(matched))
}

// activityScore folds signal recency, signal-type quality, follower and
// repository counts, and maintainer indicators into one sub-score.
func (s *Scorer) activityScore(r *model.CandidateRecord, reasons *[]string) float64 {
	var recency float64
	switch age := r.SignalAgeDays(s.now()); {
	case age < 0:
		recency = 0
	case age <= 30:
		recency = 1.0
	case age <= 90:
		recency = 0.7
	case age <= 180:
		recency = 0.4
	default:
		recency = 0.1
	}

	var quality float64
	switch strings.ToLower(r.SignalType) {
	case "pr", "pull_request", "pull-request":
		quality = 1.0
	case "issue":
		quality = 0.7
	case "commit":
		quality = 0.5
	}

	var counts float64
	if model.IntOr(r.Followers, 0) >= 100 {
		counts += 0.6
	} else if model.IntOr(r.Followers, 0) >= 20 {
		counts += 0.3
	}
	if model.IntOr(r.PublicRepos, 0) >= 10 {
		counts += 0.4
	} else if model.IntOr(r.PublicRepos, 0) >= 3 {
		counts += 0.2
	}
	counts = clamp01(counts)

	var maintainer float64
	if model.HasFlag(r.IsMaintainer) || model.HasFlag(r.IsCodeOwner) {
		maintainer = 1.0
	} else if model.HasFlag(r.IsOrgMember) {
		maintainer = 0.5
	}

	score := recency*0.4 + quality*0.25 + counts*0.2 + maintainer*0.15
	if recency >= 0.7 {
		*reasons = append(*reasons, "recent activity signal")
	}
	return clamp01(score)
}

// locationScore applies block-list short-circuit, then preferred, tech-hub
// and English-speaking bonuses, else a neutral default.
func (s *Scorer) locationScore(r *model.CandidateRecord, reasons *[]string) float64 {
	if r.Location == "" {
		return 0.5
	}

	if containsSubstring(r.Location, s.cfg.BlockedLocations) {
		*reasons = append(*reasons, "location is blocked")
		return 0
	}
	if containsSubstring(r.Location, s.cfg.PreferredLocations) {
		*reasons = append(*reasons, "preferred location")
		return 1.0
	}
	if containsSubstring(r.Location, s.tables.TechHubs) {
		*reasons = append(*reasons, "tech-hub location")
		return 0.8
	}
	if containsSubstring(r.Location, s.tables.EnglishCountries) {
		return 0.7
	}
	return 0.5
}

// engagementScore rewards a social profile, personal site, substantial
// bio, and a company affiliation.
func (s *Scorer) engagementScore(r *model.CandidateRecord, reasons *[]string) float64 {
	var score float64
	if r.LinkedInURL != "" {
		score += 0.3
	}
	if r.WebsiteURL != "" {
		score += 0.3
	}
	if len(r.Bio) >= 50 {
		score += 0.2
	}
	if r.Company != "" {
		score += 0.2
	}
	if score >= 0.6 {
		*reasons = append(*reasons, "strong engagement indicators")
	}
	return clamp01(score)
}

func anyTopicOrBioMatch(r *model.CandidateRecord, keywords []string) bool {
	for _, t := range r.Topics {
		if containsFold(keywords, t) {
			return true
		}
	}
	bio := strings.ToLower(r.Bio)
	for _, kw := range keywords {
		if kw != "" && containsWord(bio, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// containsWord matches kw in text on rough word boundaries so that short
// keywords like "ml" do not match inside unrelated words.
func containsWord(text, kw string) bool {
	idx := strings.Index(text, kw)
	for idx >= 0 {
		beforeOK := idx == 0 || !isWordChar(text[idx-1])
		end := idx + len(kw)
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(text[idx+1:], kw)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func containsSubstring(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
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
