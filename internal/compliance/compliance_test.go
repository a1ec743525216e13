package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

func newTestScreen(mutate func(*config.ComplianceConfig)) *Screen {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg.Compliance)
	}
	return NewScreen(&cfg.Compliance, &cfg.Tables)
}

func TestCheck_CleanRecord(t *testing.T) {
	s := newTestScreen(nil)
	res := s.Check(&model.CandidateRecord{
		Login:    "asmith",
		Name:     "Alice Smith",
		Location: "Berlin, Germany",
		Email:    "alice@corp.io",
	})

	assert.True(t, res.Compliant)
	assert.Equal(t, model.RiskLow, res.RiskLevel)
	assert.False(t, res.ShouldBlock())
	assert.Empty(t, res.RiskFactors)
}

func TestCheck_GeoBlockShortCircuits(t *testing.T) {
	s := newTestScreen(nil)
	res := s.Check(&model.CandidateRecord{
		Login:    "dev1",
		Location: "Tehran, Iran",
		// A disposable email that would normally add a risk factor.
		Email: "dev1@mailinator.com",
	})

	assert.False(t, res.Compliant)
	assert.Equal(t, model.RiskBlock, res.RiskLevel)
	assert.True(t, res.ShouldBlock())
	assert.Equal(t, "Tehran, Iran", res.GeoLocation)
	assert.NotEmpty(t, res.BlockedReason)
	// Short-circuit: only the geo factor, nothing else evaluated.
	assert.Equal(t, []string{"geo_blocked"}, res.RiskFactors)
}

func TestCheck_SingleSanctionHitIsHighRisk(t *testing.T) {
	s := newTestScreen(func(c *config.ComplianceConfig) {
		c.SanctionedNames = []string{"evilcorp"}
	})
	res := s.Check(&model.CandidateRecord{Name: "Bob", Company: "EvilCorp Ltd"})

	assert.False(t, res.Compliant)
	assert.Equal(t, model.RiskHigh, res.RiskLevel)
	assert.True(t, res.ShouldBlock()) // not compliant
	assert.Contains(t, res.RiskFactors, "sanctioned_company:evilcorp")
}

func TestCheck_MultipleSanctionFlagsBlock(t *testing.T) {
	s := newTestScreen(func(c *config.ComplianceConfig) {
		c.SanctionedNames = []string{"evilcorp"}
		c.SanctionedDomains = []string{"evil.example"}
	})
	res := s.Check(&model.CandidateRecord{
		Company: "EvilCorp",
		Email:   "bob@evil.example",
	})

	assert.Equal(t, model.RiskBlock, res.RiskLevel)
	assert.Equal(t, "multiple sanctions flags", res.BlockedReason)
}

func TestCheck_RiskFactorEscalation(t *testing.T) {
	s := newTestScreen(func(c *config.ComplianceConfig) {
		c.BlockedCompanies = []string{"shady"}
	})

	// One factor: low.
	res := s.Check(&model.CandidateRecord{Email: "x@mailinator.com"})
	assert.Equal(t, model.RiskLow, res.RiskLevel)
	assert.True(t, res.Compliant)

	// Two factors: medium.
	res = s.Check(&model.CandidateRecord{
		Email:   "x@mailinator.com",
		Company: "Shady Ventures",
	})
	assert.Equal(t, model.RiskMedium, res.RiskLevel)

	// Three factors: high.
	res = s.Check(&model.CandidateRecord{
		Email:   "x@mailinator.com",
		Company: "Shady Ventures",
		Bio:     "I sell botnet access",
	})
	assert.Equal(t, model.RiskHigh, res.RiskLevel)
}

func TestCheck_ProhibitedRepoTerm(t *testing.T) {
	s := newTestScreen(nil)
	res := s.Check(&model.CandidateRecord{
		Login:    "dev2",
		RepoName: "exploit-kit-builder",
	})

	assert.Contains(t, res.RiskFactors, "prohibited_repo_term:exploit-kit")
}
