// Package compliance screens candidate records for geographic, sanctions,
// domain, and content risk before any outreach scoring happens.
package compliance

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// Screen evaluates records against configured block and sanctions lists.
type Screen struct {
	cfg    *config.ComplianceConfig
	tables *config.TableConfig
}

// NewScreen creates a compliance screen.
func NewScreen(cfg *config.ComplianceConfig, tables *config.TableConfig) *Screen {
	return &Screen{cfg: cfg, tables: tables}
}

// Check runs the ordered screening checks. A geo-block hit short-circuits
// with risk level block; all other findings accumulate into risk factors
// and the level escalates with their count and severity.
func (s *Screen) Check(record *model.CandidateRecord) model.ComplianceResult {
	result := model.ComplianceResult{
		Compliant: true,
		RiskLevel: model.RiskLow,
	}

	// 1. Geographic block list. Substring match on the location field.
	if record.Location != "" {
		loc := strings.ToLower(record.Location)
		for _, term := range s.cfg.GeoBlock {
			if term != "" && strings.Contains(loc, strings.ToLower(term)) {
				result.Compliant = false
				result.RiskLevel = model.RiskBlock
				result.GeoLocation = record.Location
				result.BlockedReason = fmt.Sprintf("location matches geo block term %q", term)
				result.RiskFactors = append(result.RiskFactors, "geo_blocked")
				zap.L().Debug("compliance: geo block",
					zap.String("login", record.Login),
					zap.String("location", record.Location),
					zap.String("term", term),
				)
				return result
			}
		}
	}

	// 2. Sanctions screening of name, company, and email domain.
	s.checkSanctions(record, &result)

	// 3. Email-domain compliance.
	if domain := model.EmailDomain(record.BestEmail()); domain != "" {
		if s.tables.IsDisposableEmailDomain(domain) {
			result.RiskFactors = append(result.RiskFactors, "disposable_email_domain")
		}
		if matchTerm(domain, s.cfg.BlockedEmailDomains) != "" {
			result.RiskFactors = append(result.RiskFactors, "blocked_email_domain")
		}
	}

	// 4. Company block list.
	if record.Company != "" {
		if term := matchTerm(record.Company, s.cfg.BlockedCompanies); term != "" {
			result.RiskFactors = append(result.RiskFactors, "blocked_company")
		}
	}

	// 5. Free-text content screening.
	if record.Bio != "" {
		if term := matchTerm(record.Bio, s.cfg.ProhibitedBioTerms); term != "" {
			result.RiskFactors = append(result.RiskFactors, "prohibited_bio_term:"+term)
		}
	}
	repoText := record.RepoName + " " + record.RepoURL
	if strings.TrimSpace(repoText) != "" {
		if term := matchTerm(repoText, s.cfg.ProhibitedRepoTerms); term != "" {
			result.RiskFactors = append(result.RiskFactors, "prohibited_repo_term:"+term)
		}
	}

	s.escalate(&result)
	return result
}

// checkSanctions matches name, company, and email domain against the
// configured sanctions lists. Matches are case-insensitive substrings.
func (s *Screen) checkSanctions(record *model.CandidateRecord, result *model.ComplianceResult) {
	if record.Name != "" {
		if term := matchTerm(record.Name, s.cfg.SanctionedNames); term != "" {
			result.SanctionFlags = append(result.SanctionFlags, "sanctioned_name:"+term)
		}
	}
	if record.Company != "" {
		if term := matchTerm(record.Company, s.cfg.SanctionedNames); term != "" {
			result.SanctionFlags = append(result.SanctionFlags, "sanctioned_company:"+term)
		}
	}
	if domain := model.EmailDomain(record.BestEmail()); domain != "" {
		if term := matchTerm(domain, s.cfg.SanctionedDomains); term != "" {
			result.SanctionFlags = append(result.SanctionFlags, "sanctioned_domain:"+term)
		}
	}
}

// escalate sets the final risk level. Any sanctions hit is high risk, two
// or more distinct flags block outright; otherwise the level follows the
// accumulated risk-factor count (0-1 low, 2 medium, >=3 high).
func (s *Screen) escalate(result *model.ComplianceResult) {
	if n := len(result.SanctionFlags); n > 0 {
		result.Compliant = false
		result.RiskFactors = append(result.RiskFactors, result.SanctionFlags...)
		if n >= 2 {
			result.RiskLevel = model.RiskBlock
			result.BlockedReason = "multiple sanctions flags"
		} else {
			result.RiskLevel = model.RiskHigh
		}
		return
	}

	switch n := len(result.RiskFactors); {
	case n >= 3:
		result.RiskLevel = model.RiskHigh
	case n == 2:
		result.RiskLevel = model.RiskMedium
	default:
		result.RiskLevel = model.RiskLow
	}
}

// matchTerm returns the first list entry contained in s, case-insensitive.
func matchTerm(s string, terms []string) string {
	lower := strings.ToLower(s)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return t
		}
	}
	return ""
}
