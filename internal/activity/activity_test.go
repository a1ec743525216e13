package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestScorer(mutate func(*config.ActivityConfig)) *Scorer {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg.Activity)
	}
	s := NewScorer(&cfg.Activity, &cfg.Tables)
	s.now = func() time.Time { return testNow }
	return s
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func activeCandidate() *model.CandidateRecord {
	signal := testNow.AddDate(0, 0, -10)
	return &model.CandidateRecord{
		Login:       "asmith",
		Name:        "Alice Smith",
		Email:       "alice@corp.io",
		Bio:         "ML engineer at a seed-stage startup building with pytorch",
		Location:    "San Francisco",
		SignalType:  "pr",
		SignalAt:    timePtr(signal),
		Followers:   intPtr(150),
		PublicRepos: intPtr(25),
	}
}

func TestMeetsRequirements_ActiveCandidate(t *testing.T) {
	s := newTestScorer(nil)
	res := s.MeetsRequirements(activeCandidate())

	assert.True(t, res.PassesFilter)
	// recency 1.0, quality 1.0, engagement 1.0, maintainer 0, consistency 1.0:
	// .35 + .25 + .20 + 0 + .05 = 0.85
	assert.InDelta(t, 0.85, res.Score, 0.01)
}

func TestMeetsRequirements_StaleSignalFails(t *testing.T) {
	s := newTestScorer(nil)
	rec := activeCandidate()
	old := testNow.AddDate(0, 0, -200)
	rec.SignalAt = &old

	res := s.MeetsRequirements(rec)
	assert.False(t, res.PassesFilter)
	assert.Contains(t, res.Reasons, "signal older than 180 days")
}

func TestMeetsRequirements_NoSignalScoresLow(t *testing.T) {
	s := newTestScorer(nil)
	res := s.MeetsRequirements(&model.CandidateRecord{Login: "ghost"})

	assert.False(t, res.PassesFilter)
	assert.Contains(t, res.Reasons, "no signal timestamp")
	assert.Equal(t, 0.0, res.Breakdown["recency"])
}

func TestMeetsRequirements_MaintainerRequired(t *testing.T) {
	s := newTestScorer(func(c *config.ActivityConfig) {
		c.RequireMaintainerStatus = true
	})

	res := s.MeetsRequirements(activeCandidate())
	assert.False(t, res.PassesFilter)
	assert.Equal(t, 0.0, res.Score)
	assert.Contains(t, res.Reasons, "maintainer status required but not detected")

	rec := activeCandidate()
	rec.IsMaintainer = boolPtr(true)
	res = s.MeetsRequirements(rec)
	assert.True(t, res.PassesFilter)
}

func TestRecencyScore_Buckets(t *testing.T) {
	s := newTestScorer(nil)

	for _, tc := range []struct {
		days int
		want float64
	}{
		{5, 1.0}, {45, 0.8}, {75, 0.6}, {120, 0.3}, {365, 0.1},
	} {
		var reasons []string
		at := testNow.AddDate(0, 0, -tc.days)
		rec := &model.CandidateRecord{SignalAt: &at}
		assert.Equal(t, tc.want, s.recencyScore(rec, &reasons), "days=%d", tc.days)
	}
}

func TestSignalQualityScore(t *testing.T) {
	s := newTestScorer(nil)

	assert.Equal(t, 1.0, s.signalQualityScore(&model.CandidateRecord{SignalType: "PR"}))
	assert.Equal(t, 0.7, s.signalQualityScore(&model.CandidateRecord{SignalType: "issue"}))
	assert.Equal(t, 0.5, s.signalQualityScore(&model.CandidateRecord{SignalType: "commit"}))
	assert.Equal(t, 0.0, s.signalQualityScore(&model.CandidateRecord{SignalType: "star"}))

	// Descriptive text earns a bonus, capped at 1.
	long := &model.CandidateRecord{SignalType: "issue", SignalText: string(make([]byte, 250))}
	assert.InDelta(t, 0.8, s.signalQualityScore(long), 0.001)
}

func TestMaintainerScore_Heuristics(t *testing.T) {
	s := newTestScorer(nil)

	assert.Equal(t, 1.0, s.maintainerScore(&model.CandidateRecord{IsCodeOwner: boolPtr(true)}))
	assert.Equal(t, 0.8, s.maintainerScore(&model.CandidateRecord{Bio: "Creator of widgets.py"}))
	assert.Equal(t, 0.7, s.maintainerScore(&model.CandidateRecord{Login: "asmith", RepoOwner: "ASmith"}))
	assert.Equal(t, 0.4, s.maintainerScore(&model.CandidateRecord{IsOrgMember: boolPtr(true)}))
	assert.Equal(t, 0.0, s.maintainerScore(&model.CandidateRecord{Login: "asmith", RepoOwner: "acme"}))
}
