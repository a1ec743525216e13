package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadqual/internal/compliance"
	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestScorer(mutate func(*config.Config)) *LeadScorer {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	screen := compliance.NewScreen(&cfg.Compliance, &cfg.Tables)
	s := NewLeadScorer(cfg, screen)
	s.now = func() time.Time { return testNow }
	return s
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func solidCandidate() *model.CandidateRecord {
	signal := testNow.AddDate(0, 0, -10)
	return &model.CandidateRecord{
		Login:       "asmith",
		Name:        "Alice Smith",
		Email:       "alice@corp.io",
		Location:    "San Francisco, USA",
		Language:    "Python",
		Topics:      []string{"machine-learning"},
		SignalType:  "pr",
		SignalAt:    timePtr(signal),
		Followers:   intPtr(150),
		PublicRepos: intPtr(25),
	}
}

func TestScore_SolidCandidateReachesTierB(t *testing.T) {
	s := newTestScorer(nil)
	res := s.Score(solidCandidate(), "repo:acme/api")

	// contactability 25 + icp 14 + activity 12 + compliance 5 = 56
	assert.Equal(t, 56, res.TotalScore)
	assert.Equal(t, model.TierB, res.Tier)
	assert.Equal(t, 25, res.ComponentScores["contactability"])
	assert.Equal(t, 14, res.ComponentScores["icp_match"])
	assert.Equal(t, 12, res.ComponentScores["activity"])
	assert.Equal(t, 5, res.ComponentScores["compliance"])
	assert.Equal(t, 0, res.ComponentScores["penalties"])
	assert.Contains(t, res.PrioritySignals, "corporate_email")
	assert.Contains(t, res.PrioritySignals, "recent_signal")
}

func TestScore_MaintainerReachesTierA(t *testing.T) {
	s := newTestScorer(nil)
	rec := solidCandidate()
	rec.IsMaintainer = boolPtr(true)
	rec.IsOrgMember = boolPtr(true)

	res := s.Score(rec, "")
	// Tier B base 56 + maintainer 20 + org member 10 = 86
	assert.Equal(t, 86, res.TotalScore)
	assert.Equal(t, model.TierA, res.Tier)
	assert.Contains(t, res.PrioritySignals, "maintainer")
}

func TestScore_SanctionedRecordRejectedOutright(t *testing.T) {
	s := newTestScorer(func(c *config.Config) {
		c.Compliance.SanctionedNames = []string{"blockedco"}
	})
	rec := solidCandidate()
	rec.Company = "BlockedCo GmbH"

	res := s.Score(rec, "")
	assert.Equal(t, 0, res.TotalScore)
	assert.Equal(t, model.TierReject, res.Tier)
	assert.Equal(t, recommendReject, res.Recommendation)
	require.NotNil(t, res.Compliance)
	assert.False(t, res.Compliance.Compliant)
}

func TestScore_GeoBlockedRecordRejectedOutright(t *testing.T) {
	s := newTestScorer(nil)
	rec := solidCandidate()
	rec.Location = "Pyongyang"

	res := s.Score(rec, "")
	assert.Equal(t, model.TierReject, res.Tier)
	assert.Contains(t, res.RiskFactors, "geo_blocked")
}

func TestTierFor_Thresholds(t *testing.T) {
	s := newTestScorer(nil)

	assert.Equal(t, model.TierA, s.tierFor(70))
	assert.Equal(t, model.TierB, s.tierFor(69))
	assert.Equal(t, model.TierB, s.tierFor(55))
	assert.Equal(t, model.TierC, s.tierFor(54))
	assert.Equal(t, model.TierC, s.tierFor(40))
	assert.Equal(t, model.TierReject, s.tierFor(39))
	assert.Equal(t, model.TierReject, s.tierFor(0))
}

func TestPenalties(t *testing.T) {
	s := newTestScorer(nil)
	fresh := timePtr(testNow.AddDate(0, 0, -5))

	// Academic email.
	assert.Equal(t, penaltyAcademic, s.penalties(&model.CandidateRecord{
		Email: "alice@mit.edu", SignalAt: fresh,
	}))

	// Excluded topic counts once regardless of how many match.
	assert.Equal(t, penaltyExcludedTopic, s.penalties(&model.CandidateRecord{
		Topics: []string{"homework", "tutorial"}, SignalAt: fresh,
	}))

	// Disposable email plus missing signal.
	assert.Equal(t, penaltyDisposable+penaltyLowActivity, s.penalties(&model.CandidateRecord{
		Email: "x@mailinator.com",
	}))
}

func TestScore_NeverNegative(t *testing.T) {
	s := newTestScorer(nil)
	res := s.Score(&model.CandidateRecord{
		Login:  "weak",
		Email:  "w@mailinator.com",
		Topics: []string{"homework"},
		Bio:    "PhD student",
	}, "")

	assert.GreaterOrEqual(t, res.TotalScore, 0)
	assert.Equal(t, model.TierReject, res.Tier)
}

func TestRiskFactors(t *testing.T) {
	s := newTestScorer(nil)
	res := s.Score(&model.CandidateRecord{Login: "ghost"}, "")

	assert.Contains(t, res.RiskFactors, "no_email")
	assert.Contains(t, res.RiskFactors, "stale_signal")
	assert.Contains(t, res.RiskFactors, "low_followers")

	res = s.Score(solidCandidate(), "")
	assert.NotContains(t, res.RiskFactors, "no_email")
	assert.NotContains(t, res.RiskFactors, "stale_signal")
}

func TestCohorts_SortedTags(t *testing.T) {
	s := newTestScorer(nil)
	res := s.Score(solidCandidate(), "repo:acme/api")

	assert.Equal(t, []string{"lang:python", "source:repo:acme/api", "stack:python-ml"}, res.Cohorts)
}

func TestContactability(t *testing.T) {
	cfg := config.DefaultConfig()

	// Corporate email + name + location.
	assert.Equal(t, 75, Contactability(solidCandidate(), &cfg.Tables))

	// Public provider.
	assert.Equal(t, 30, Contactability(&model.CandidateRecord{Email: "a@gmail.com"}, &cfg.Tables))

	// Disposable barely counts.
	assert.Equal(t, 5, Contactability(&model.CandidateRecord{Email: "a@yopmail.com"}, &cfg.Tables))

	// Everything present caps at 100.
	full := solidCandidate()
	full.LinkedInURL = "https://linkedin.com/in/asmith"
	full.WebsiteURL = "https://asmith.dev"
	full.ProfileURL = "https://github.com/asmith"
	assert.Equal(t, 100, Contactability(full, &cfg.Tables))

	assert.Equal(t, 0, Contactability(&model.CandidateRecord{}, &cfg.Tables))
}
