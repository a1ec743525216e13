// Package gate runs eight independent named validation gates over a
// candidate record and aggregates them into a pass/fail verdict plus a
// continuous quality score.
package gate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/compliance"
	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// Gate names, in evaluation order.
const (
	GateEmail           = "email"
	GateCompleteness    = "completeness"
	GateAccuracy        = "accuracy"
	GateConsistency     = "consistency"
	GateICPRelevance    = "icp_relevance"
	GateActivity        = "activity"
	GateCompliance      = "compliance"
	GatePersonalization = "personalization"
)

// Quality-score weights. Only four gates contribute to the numeric score;
// the result is normalized by the weight sum.
const (
	scoreWeightCompleteness = 0.25
	scoreWeightAccuracy     = 0.25
	scoreWeightConsistency  = 0.25
	scoreWeightICP          = 0.15
)

var emailFormatRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// suspiciousEmailParts flag obviously fabricated addresses.
var suspiciousEmailParts = []string{"noreply", "no-reply", "donotreply", "example", "asdf", "fake", "spam"}

// Validator runs the gates.
type Validator struct {
	cfg    *config.GateConfig
	tables *config.TableConfig
	screen *compliance.Screen
	now    func() time.Time
}

// NewValidator creates a quality-gate validator.
func NewValidator(cfg *config.GateConfig, tables *config.TableConfig, screen *compliance.Screen) *Validator {
	return &Validator{cfg: cfg, tables: tables, screen: screen, now: time.Now}
}

// Validate runs all eight gates. PassesAllGates is the logical AND;
// warnings are raised for values near (but not violating) thresholds.
func (v *Validator) Validate(record *model.CandidateRecord) model.QualityGateResult {
	result := model.QualityGateResult{
		Gates: make(map[string]bool, 8),
	}

	completeness := v.completenessScore(record)
	accuracy := v.accuracyScore(record)
	consistency := v.consistencyScore(record)
	icpScore := 0.0
	if record.RelevanceScore != nil {
		icpScore = *record.RelevanceScore
	}

	v.gateEmail(record, &result)
	v.boolGate(&result, GateCompleteness, completeness >= v.cfg.DataCompletenessThreshold,
		fmt.Sprintf("completeness %.2f below threshold %.2f", completeness, v.cfg.DataCompletenessThreshold))
	v.boolGate(&result, GateAccuracy, accuracy >= v.cfg.DataAccuracyThreshold,
		fmt.Sprintf("accuracy %.2f below threshold %.2f", accuracy, v.cfg.DataAccuracyThreshold))
	v.boolGate(&result, GateConsistency, consistency >= v.cfg.DataConsistencyThreshold,
		fmt.Sprintf("consistency %.2f below threshold %.2f", consistency, v.cfg.DataConsistencyThreshold))
	v.gateICPRelevance(record, &result)
	v.gateActivity(record, &result)
	v.gateCompliance(record, &result)
	v.gatePersonalization(record, &result)

	weightSum := scoreWeightCompleteness + scoreWeightAccuracy + scoreWeightConsistency + scoreWeightICP
	result.QualityScore = clamp01((completeness*scoreWeightCompleteness +
		accuracy*scoreWeightAccuracy +
		consistency*scoreWeightConsistency +
		icpScore*scoreWeightICP) / weightSum)

	v.warnNear(&result, GateCompleteness, completeness, v.cfg.DataCompletenessThreshold)
	v.warnNear(&result, GateAccuracy, accuracy, v.cfg.DataAccuracyThreshold)
	v.warnNear(&result, GateConsistency, consistency, v.cfg.DataConsistencyThreshold)
	v.warnNear(&result, GateICPRelevance, icpScore, v.cfg.ICPRelevanceThreshold)

	result.PassesAllGates = true
	for _, pass := range result.Gates {
		if !pass {
			result.PassesAllGates = false
			break
		}
	}

	zap.L().Debug("gate: validated record",
		zap.String("login", record.Login),
		zap.Bool("passes", result.PassesAllGates),
		zap.Float64("quality_score", result.QualityScore),
	)
	return result
}

func (v *Validator) boolGate(result *model.QualityGateResult, name string, pass bool, reason string) {
	result.Gates[name] = pass
	if !pass {
		result.FailureReasons = append(result.FailureReasons, reason)
	}
}

// warnNear raises a warning when a passing value sits within 0.1 of its
// threshold.
func (v *Validator) warnNear(result *model.QualityGateResult, name string, value, threshold float64) {
	if result.Gates[name] && value-threshold < 0.1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s %.2f is close to threshold %.2f", name, value, threshold))
	}
}

func (v *Validator) gateEmail(r *model.CandidateRecord, result *model.QualityGateResult) {
	email := r.BestEmail()
	if email == "" {
		if v.cfg.EmailRequired {
			v.boolGate(result, GateEmail, false, "No email address found")
		} else {
			result.Gates[GateEmail] = true
		}
		return
	}

	if !emailFormatRe.MatchString(email) {
		v.boolGate(result, GateEmail, false, fmt.Sprintf("email %q fails format check", email))
		return
	}

	lower := strings.ToLower(email)
	for _, part := range suspiciousEmailParts {
		if strings.Contains(lower, part) {
			v.boolGate(result, GateEmail, false, fmt.Sprintf("email contains suspicious part %q", part))
			return
		}
	}

	domain := model.EmailDomain(email)
	if v.tables.IsDisposableEmailDomain(domain) {
		v.boolGate(result, GateEmail, false, "email domain is disposable")
		return
	}
	if v.cfg.EmailDeliverable && containsFold(v.cfg.UndeliverableDomains, domain) {
		v.boolGate(result, GateEmail, false, fmt.Sprintf("email domain %q is undeliverable", domain))
		return
	}

	result.Gates[GateEmail] = true
}

// completenessScore is a required-field presence check plus a weighted
// optional-field ratio.
func (v *Validator) completenessScore(r *model.CandidateRecord) float64 {
	// Required: some identity handle and a contact point.
	if r.Login == "" && r.Name == "" {
		return 0
	}

	optional := []struct {
		present bool
		weight  float64
	}{
		{r.BestEmail() != "", 0.25},
		{r.Name != "", 0.10},
		{r.Company != "", 0.10},
		{r.Location != "", 0.10},
		{r.Bio != "", 0.15},
		{r.Language != "", 0.10},
		{len(r.Topics) > 0, 0.05},
		{r.LinkedInURL != "" || r.WebsiteURL != "", 0.10},
		{r.SignalAt != nil, 0.05},
	}

	var score float64
	for _, f := range optional {
		if f.present {
			score += f.weight
		}
	}
	return clamp01(score)
}

// accuracyScore applies plausibility heuristics: suspicious email parts,
// malformed URLs, implausible follower/following ratios.
func (v *Validator) accuracyScore(r *model.CandidateRecord) float64 {
	issues := 0

	if email := strings.ToLower(r.BestEmail()); email != "" {
		for _, part := range suspiciousEmailParts {
			if strings.Contains(email, part) {
				issues++
				break
			}
		}
	}

	for _, raw := range []string{r.WebsiteURL, r.ProfileURL, r.RepoURL, r.LinkedInURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Host == "" || u.Scheme == "" {
			issues++
		}
	}

	followers := model.IntOr(r.Followers, 0)
	following := model.IntOr(r.Following, 0)
	if following > 5000 && followers < following/50 {
		issues++
	}

	return clamp01(1 - float64(issues)*0.34)
}

// consistencyScore cross-checks identity fields: login vs profile URL,
// repo name vs repo URL, name token vs bio. Only applicable checks count.
// A URL mismatch is a hard contradiction; a bio that simply does not
// mention the name gets half credit.
func (v *Validator) consistencyScore(r *model.CandidateRecord) float64 {
	var checks, score float64

	if r.Login != "" && r.ProfileURL != "" {
		checks++
		if strings.Contains(strings.ToLower(r.ProfileURL), strings.ToLower(r.Login)) {
			score++
		}
	}
	if r.RepoName != "" && r.RepoURL != "" {
		checks++
		if strings.Contains(strings.ToLower(r.RepoURL), strings.ToLower(r.RepoName)) {
			score++
		}
	}
	if r.Name != "" && r.Bio != "" {
		checks++
		score += 0.5
		bio := strings.ToLower(r.Bio)
		for _, tok := range strings.Fields(strings.ToLower(r.Name)) {
			if len(tok) >= 3 && strings.Contains(bio, tok) {
				score += 0.5
				break
			}
		}
	}

	if checks == 0 {
		return 1.0
	}
	return clamp01(score / checks)
}

func (v *Validator) gateICPRelevance(r *model.CandidateRecord, result *model.QualityGateResult) {
	if r.RelevanceScore == nil {
		v.boolGate(result, GateICPRelevance, false, "no relevance score computed")
		return
	}
	v.boolGate(result, GateICPRelevance, *r.RelevanceScore >= v.cfg.ICPRelevanceThreshold,
		fmt.Sprintf("relevance %.2f below threshold %.2f", *r.RelevanceScore, v.cfg.ICPRelevanceThreshold))
}

func (v *Validator) gateActivity(r *model.CandidateRecord, result *model.QualityGateResult) {
	age := r.SignalAgeDays(v.now())
	if age < 0 {
		v.boolGate(result, GateActivity, false, "no activity signal timestamp")
		return
	}
	window := v.cfg.ActivityRecentThreshold
	v.boolGate(result, GateActivity, age <= window,
		fmt.Sprintf("signal is %d days old, window is %d", age, window))
	if age <= window && age > window*8/10 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("activity signal %d days old is close to the %d-day window", age, window))
	}
}

func (v *Validator) gateCompliance(r *model.CandidateRecord, result *model.QualityGateResult) {
	if !v.cfg.ComplianceRequired {
		result.Gates[GateCompliance] = true
		return
	}

	comp := v.screen.Check(r)
	if comp.ShouldBlock() {
		v.boolGate(result, GateCompliance, false, "blocking compliance flags present")
		return
	}
	if domain := model.EmailDomain(r.BestEmail()); domain != "" && containsFold(v.cfg.BlockedEmailDomains, domain) {
		v.boolGate(result, GateCompliance, false, fmt.Sprintf("email domain %q is blocked", domain))
		return
	}
	result.Gates[GateCompliance] = true
}

func (v *Validator) gatePersonalization(r *model.CandidateRecord, result *model.QualityGateResult) {
	if !v.cfg.PersonalizationReady {
		result.Gates[GatePersonalization] = true
		return
	}

	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.RepoName == "" && r.Source == "" {
		missing = append(missing, "repository context")
	}
	if r.SignalType == "" && r.SignalText == "" {
		missing = append(missing, "signal")
	}
	if r.Language == "" {
		missing = append(missing, "language")
	}

	v.boolGate(result, GatePersonalization, len(missing) == 0,
		fmt.Sprintf("missing personalization fields: %s", strings.Join(missing, ", ")))
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
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
