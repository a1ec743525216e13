// Package scorer combines maintainer, contactability, ICP, activity, and
// penalty signals into a single lead-priority score with a tier and a
// recommendation.
package scorer

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/compliance"
	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// Penalty magnitudes. All are subtracted from the total.
const (
	penaltyAcademic      = 15
	penaltyExcludedTopic = 10
	penaltyDisposable    = 15
	penaltyLowActivity   = 10
)

// Recommendation texts per tier.
const (
	recommendTierA  = "High-priority prospect: reach out within 48 hours with a personalized message."
	recommendTierB  = "Solid prospect: include in the next outreach cycle."
	recommendTierC  = "Marginal prospect: add to the nurture list, re-score after new signals."
	recommendReject = "Does not meet outreach criteria: do not contact."
)

// LeadScorer scores records for outreach priority. Compliance screening
// runs first and a blocking result rejects the record outright.
type LeadScorer struct {
	cfg    *config.ScoringConfig
	icp    *config.RelevanceConfig
	tables *config.TableConfig
	screen *compliance.Screen
	now    func() time.Time
}

// NewLeadScorer creates a lead scorer.
func NewLeadScorer(cfg *config.Config, screen *compliance.Screen) *LeadScorer {
	return &LeadScorer{
		cfg:    &cfg.Scoring,
		icp:    &cfg.Relevance,
		tables: &cfg.Tables,
		screen: screen,
		now:    time.Now,
	}
}

// Score computes the combined priority score for a record harvested from
// sourceCtx. The returned tier is always one of A, B, C, or REJECT.
func (s *LeadScorer) Score(record *model.CandidateRecord, sourceCtx string) model.ScoringResult {
	comp := s.screen.Check(record)
	if comp.ShouldBlock() {
		return model.ScoringResult{
			TotalScore:      0,
			ComponentScores: map[string]int{},
			Tier:            model.TierReject,
			Recommendation:  recommendReject,
			RiskFactors:     comp.RiskFactors,
			Compliance:      &comp,
		}
	}

	components := map[string]int{
		"maintainer":     s.maintainerScore(record),
		"org_member":     s.orgMemberScore(record),
		"contactability": s.contactabilityScore(record),
		"icp_match":      s.icpMatchScore(record),
		"activity":       s.activityScore(record),
		"penalties":      -s.penalties(record),
		"compliance":     complianceAdjustment(&comp),
	}

	total := 0
	for _, v := range components {
		total += v
	}
	if total < 0 {
		total = 0
	}

	tier := s.tierFor(total)
	result := model.ScoringResult{
		TotalScore:      total,
		ComponentScores: components,
		Tier:            tier,
		Recommendation:  recommendationFor(tier),
		RiskFactors:     s.riskFactors(record, &comp),
		PrioritySignals: s.prioritySignals(record),
		Cohorts:         s.cohorts(record, sourceCtx),
		Compliance:      &comp,
	}

	zap.L().Debug("scorer: scored record",
		zap.String("login", record.Login),
		zap.Int("total", total),
		zap.String("tier", string(tier)),
	)
	return result
}

func (s *LeadScorer) maintainerScore(r *model.CandidateRecord) int {
	score := 0
	if model.HasFlag(r.IsMaintainer) {
		score += s.cfg.Weights.Maintainer
	}
	if model.HasFlag(r.IsCodeOwner) {
		score += s.cfg.Weights.CodeOwner
	}
	if model.HasFlag(r.HasAdminPerm) {
		score += s.cfg.Weights.AdminPerm
	}
	return score
}

func (s *LeadScorer) orgMemberScore(r *model.CandidateRecord) int {
	if model.HasFlag(r.IsOrgMember) {
		return s.cfg.Weights.OrgMember
	}
	return 0
}

// contactabilityScore maps the 0-100 contactability input into the
// configured weight in tiers.
func (s *LeadScorer) contactabilityScore(r *model.CandidateRecord) int {
	c := model.IntOr(r.Contactability, -1)
	if c < 0 {
		c = Contactability(r, s.tables)
	}

	w := s.cfg.Weights.Contactability
	switch {
	case c >= 70:
		return w
	case c >= 50:
		return w * 3 / 4
	case c >= 30:
		return w / 2
	case c >= 10:
		return w / 4
	default:
		return 0
	}
}

// icpMatchScore combines language, topic overlap (capped), and company
// whitelist signals, scaled into the configured weight.
func (s *LeadScorer) icpMatchScore(r *model.CandidateRecord) int {
	w := s.cfg.Weights.ICPMatch
	pct := 0

	if r.Language != "" {
		for _, name := range s.icp.TechStacks {
			stack, ok := s.tables.TechStacks[name]
			if !ok {
				continue
			}
			if containsFold(stack.Languages, r.Language) {
				pct += 50
				break
			}
		}
	}

	topicPct := 0
	for _, t := range r.Topics {
		if s.topicInICP(t) {
			topicPct += 20
		}
	}
	if topicPct > 40 {
		topicPct = 40
	}
	pct += topicPct

	if r.Company != "" && matchSubstring(r.Company, s.cfg.CompanyWhitelist) {
		pct += 20
	}

	if pct > 100 {
		pct = 100
	}
	return w * pct / 100
}

func (s *LeadScorer) topicInICP(topic string) bool {
	for _, name := range s.icp.TechStacks {
		stack, ok := s.tables.TechStacks[name]
		if !ok {
			continue
		}
		if containsFold(stack.Domains, topic) || containsFold(stack.Frameworks, topic) {
			return true
		}
	}
	return false
}

// activityScore rewards stars, recent commit volume, yearly contributions,
// and fresh signals, capped at the configured weight.
func (s *LeadScorer) activityScore(r *model.CandidateRecord) int {
	w := s.cfg.Weights.Activity
	pct := 0

	switch stars := model.IntOr(r.Stars, 0); {
	case stars >= 1000:
		pct += 40
	case stars >= 100:
		pct += 25
	case stars >= 10:
		pct += 10
	}

	switch commits := model.IntOr(r.RecentCommits, 0); {
	case commits >= 20:
		pct += 20
	case commits >= 5:
		pct += 10
	}

	switch contrib := model.IntOr(r.ContributionsLastYear, 0); {
	case contrib >= 500:
		pct += 40
	case contrib >= 100:
		pct += 25
	case contrib >= 20:
		pct += 10
	}

	switch age := r.SignalAgeDays(s.now()); {
	case age < 0:
	case age <= 30:
		pct += 40
	case age <= 90:
		pct += 20
	}

	switch followers := model.IntOr(r.Followers, 0); {
	case followers >= 1000:
		pct += 40
	case followers >= 100:
		pct += 30
	case followers >= 25:
		pct += 15
	}

	switch repos := model.IntOr(r.PublicRepos, 0); {
	case repos >= 20:
		pct += 15
	case repos >= 5:
		pct += 8
	}

	if pct > 100 {
		pct = 100
	}
	return w * pct / 100
}

func (s *LeadScorer) penalties(r *model.CandidateRecord) int {
	total := 0

	if s.isAcademic(r) {
		total += penaltyAcademic
	}

	for _, t := range r.Topics {
		if containsFold(s.cfg.ExcludeTopics, t) {
			total += penaltyExcludedTopic
			break
		}
	}

	if domain := model.EmailDomain(r.BestEmail()); domain != "" && s.tables.IsDisposableEmailDomain(domain) {
		total += penaltyDisposable
	}

	if age := r.SignalAgeDays(s.now()); age < 0 || age > 180 {
		total += penaltyLowActivity
	}

	return total
}

// isAcademic detects academic accounts via email domain suffix, bio
// keywords, or company name.
func (s *LeadScorer) isAcademic(r *model.CandidateRecord) bool {
	if domain := model.EmailDomain(r.BestEmail()); domain != "" {
		for _, suffix := range s.cfg.AcademicDomains {
			if suffix != "" && strings.HasSuffix(domain, strings.ToLower(suffix)) {
				return true
			}
		}
	}

	haystack := strings.ToLower(r.Bio + " " + r.Company)
	for _, kw := range s.cfg.AcademicKeywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func complianceAdjustment(comp *model.ComplianceResult) int {
	switch comp.RiskLevel {
	case model.RiskHigh:
		return -20
	case model.RiskMedium:
		return -10
	case model.RiskLow:
		if comp.Compliant && len(comp.RiskFactors) == 0 {
			return 5
		}
		return -5
	default:
		return -20
	}
}

func (s *LeadScorer) tierFor(total int) model.Tier {
	t := s.cfg.TierThresholds
	switch {
	case total >= t.A:
		return model.TierA
	case total >= t.B:
		return model.TierB
	case total >= t.C:
		return model.TierC
	default:
		return model.TierReject
	}
}

func recommendationFor(tier model.Tier) string {
	switch tier {
	case model.TierA:
		return recommendTierA
	case model.TierB:
		return recommendTierB
	case model.TierC:
		return recommendTierC
	default:
		return recommendReject
	}
}

// riskFactors derives scorer-side risk factors and unions them with the
// compliance screen's own, removing duplicates.
func (s *LeadScorer) riskFactors(r *model.CandidateRecord, comp *model.ComplianceResult) []string {
	var factors []string

	if r.BestEmail() == "" {
		factors = append(factors, "no_email")
	} else if domain := model.EmailDomain(r.BestEmail()); domain != "" && s.tables.IsPublicEmailDomain(domain) {
		factors = append(factors, "public_email_only")
	}
	if s.isAcademic(r) {
		factors = append(factors, "academic_account")
	}
	if age := r.SignalAgeDays(s.now()); age < 0 || age > 180 {
		factors = append(factors, "stale_signal")
	}
	if model.IntOr(r.Followers, 0) < 5 {
		factors = append(factors, "low_followers")
	}

	factors = append(factors, comp.RiskFactors...)

	seen := make(map[string]struct{}, len(factors))
	out := factors[:0]
	for _, f := range factors {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func (s *LeadScorer) prioritySignals(r *model.CandidateRecord) []string {
	var signals []string
	if model.HasFlag(r.IsMaintainer) {
		signals = append(signals, "maintainer")
	}
	if model.HasFlag(r.IsCodeOwner) {
		signals = append(signals, "code_owner")
	}
	if model.HasFlag(r.IsOrgMember) {
		signals = append(signals, "org_member")
	}
	if domain := model.EmailDomain(r.BestEmail()); domain != "" &&
		!s.tables.IsPublicEmailDomain(domain) && !s.tables.IsDisposableEmailDomain(domain) {
		signals = append(signals, "corporate_email")
	}
	if age := r.SignalAgeDays(s.now()); age >= 0 && age <= 30 {
		signals = append(signals, "recent_signal")
	}
	if model.IntOr(r.Stars, 0) >= 1000 {
		signals = append(signals, "high_star_repo")
	}
	return signals
}

// cohorts tags the record for downstream segmentation.
func (s *LeadScorer) cohorts(r *model.CandidateRecord, sourceCtx string) []string {
	var cohorts []string
	if r.Language != "" {
		cohorts = append(cohorts, "lang:"+strings.ToLower(r.Language))
	}
	for _, name := range s.icp.TechStacks {
		stack, ok := s.tables.TechStacks[name]
		if !ok {
			continue
		}
		if containsFold(stack.Languages, r.Language) {
			cohorts = append(cohorts, "stack:"+name)
		}
	}
	if sourceCtx != "" {
		cohorts = append(cohorts, "source:"+sourceCtx)
	}
	sort.Strings(cohorts)
	return cohorts
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func matchSubstring(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
