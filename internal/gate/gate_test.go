package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadqual/internal/compliance"
	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestValidator(mutate func(*config.Config)) *Validator {
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	screen := compliance.NewScreen(&cfg.Compliance, &cfg.Tables)
	v := NewValidator(&cfg.Gates, &cfg.Tables, screen)
	v.now = func() time.Time { return testNow }
	return v
}

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func qualifiedCandidate() *model.CandidateRecord {
	signal := testNow.AddDate(0, 0, -10)
	return &model.CandidateRecord{
		Login:          "asmith",
		Name:           "Alice Smith",
		Company:        "Acme AI",
		Location:       "San Francisco, USA",
		Bio:            "ML engineer at a seed-stage startup building with pytorch",
		Email:          "alice@corp.io",
		LinkedInURL:    "https://linkedin.com/in/asmith",
		Language:       "Python",
		Topics:         []string{"machine-learning"},
		SignalType:     "pr",
		SignalAt:       timePtr(signal),
		Source:         "repo:acme/api",
		RelevanceScore: floatPtr(0.91),
	}
}

func TestValidate_QualifiedCandidatePassesAllGates(t *testing.T) {
	v := newTestValidator(nil)
	res := v.Validate(qualifiedCandidate())

	assert.True(t, res.PassesAllGates, "failures: %v", res.FailureReasons)
	assert.Len(t, res.Gates, 8)
	for name, pass := range res.Gates {
		assert.True(t, pass, name)
	}
	assert.Greater(t, res.QualityScore, 0.7)
}

func TestValidate_MissingEmailFailsWithCanonicalReason(t *testing.T) {
	v := newTestValidator(nil)
	rec := qualifiedCandidate()
	rec.Email = ""
	rec.Emails = nil

	res := v.Validate(rec)
	assert.False(t, res.PassesAllGates)
	assert.False(t, res.Gates[GateEmail])
	assert.Contains(t, res.FailureReasons, "No email address found")
}

func TestValidate_EmailNotRequired(t *testing.T) {
	v := newTestValidator(func(c *config.Config) {
		c.Gates.EmailRequired = false
	})
	rec := qualifiedCandidate()
	rec.Email = ""

	res := v.Validate(rec)
	assert.True(t, res.Gates[GateEmail])
}

func TestGateEmail_Rejections(t *testing.T) {
	v := newTestValidator(func(c *config.Config) {
		c.Gates.UndeliverableDomains = []string{"deadmail.net"}
	})

	for _, tc := range []struct {
		email string
		name  string
	}{
		{"not-an-email", "malformed"},
		{"noreply@corp.io", "suspicious part"},
		{"fake.user@corp.io", "fabricated"},
		{"x@mailinator.com", "disposable"},
		{"a@deadmail.net", "undeliverable"},
	} {
		rec := qualifiedCandidate()
		rec.Email = tc.email
		res := v.Validate(rec)
		assert.False(t, res.Gates[GateEmail], tc.name)
	}
}

func TestCompletenessScore(t *testing.T) {
	v := newTestValidator(nil)

	// No identity handle at all.
	assert.Equal(t, 0.0, v.completenessScore(&model.CandidateRecord{Email: "a@b.co"}))

	// Fully populated record.
	assert.InDelta(t, 1.0, v.completenessScore(qualifiedCandidate()), 0.001)

	// Sparse record: name only (0.10).
	assert.InDelta(t, 0.10, v.completenessScore(&model.CandidateRecord{Name: "Bob"}), 0.001)
}

func TestAccuracyScore_CountsIssues(t *testing.T) {
	v := newTestValidator(nil)

	assert.Equal(t, 1.0, v.accuracyScore(qualifiedCandidate()))

	following := 10000
	followers := 3
	rec := &model.CandidateRecord{
		Email:      "fake@corp.io",
		WebsiteURL: "://broken",
		Followers:  &followers,
		Following:  &following,
	}
	// Three issues at 0.34 each floor the score at 0.
	assert.Equal(t, 0.0, v.accuracyScore(rec))
}

func TestConsistencyScore(t *testing.T) {
	v := newTestValidator(nil)

	// Nothing to cross-check.
	assert.Equal(t, 1.0, v.consistencyScore(&model.CandidateRecord{Login: "x"}))

	// Login embedded in profile URL.
	assert.Equal(t, 1.0, v.consistencyScore(&model.CandidateRecord{
		Login: "asmith", ProfileURL: "https://github.com/asmith",
	}))

	// URL contradiction is a hard failure for that check.
	assert.Equal(t, 0.0, v.consistencyScore(&model.CandidateRecord{
		Login: "asmith", ProfileURL: "https://github.com/other",
	}))

	// Bio without the name keeps half credit.
	assert.Equal(t, 0.5, v.consistencyScore(&model.CandidateRecord{
		Name: "Alice Smith", Bio: "Building data tooling",
	}))

	// Bio mentioning the name gets full credit.
	assert.Equal(t, 1.0, v.consistencyScore(&model.CandidateRecord{
		Name: "Alice Smith", Bio: "Alice builds data tooling",
	}))
}

func TestGateICPRelevance(t *testing.T) {
	v := newTestValidator(nil)

	rec := qualifiedCandidate()
	rec.RelevanceScore = nil
	res := v.Validate(rec)
	assert.False(t, res.Gates[GateICPRelevance])
	assert.Contains(t, res.FailureReasons, "no relevance score computed")

	rec.RelevanceScore = floatPtr(0.3)
	res = v.Validate(rec)
	assert.False(t, res.Gates[GateICPRelevance])
}

func TestGateActivity_WindowAndWarning(t *testing.T) {
	v := newTestValidator(nil)

	rec := qualifiedCandidate()
	old := testNow.AddDate(0, 0, -120)
	rec.SignalAt = &old
	res := v.Validate(rec)
	assert.False(t, res.Gates[GateActivity])

	// Inside the window but close to its edge raises a warning.
	near := testNow.AddDate(0, 0, -85)
	rec.SignalAt = &near
	res = v.Validate(rec)
	assert.True(t, res.Gates[GateActivity])
	assert.NotEmpty(t, res.Warnings)
}

func TestGateCompliance_BlockedRecord(t *testing.T) {
	v := newTestValidator(nil)

	rec := qualifiedCandidate()
	rec.Location = "Tehran, Iran"
	res := v.Validate(rec)
	assert.False(t, res.Gates[GateCompliance])
	assert.Contains(t, res.FailureReasons, "blocking compliance flags present")
}

func TestGatePersonalization_MissingFields(t *testing.T) {
	v := newTestValidator(nil)

	rec := qualifiedCandidate()
	rec.Name = ""
	rec.Language = ""
	res := v.Validate(rec)
	assert.False(t, res.Gates[GatePersonalization])
}

func TestValidate_QualityScoreBounded(t *testing.T) {
	v := newTestValidator(nil)

	for _, rec := range []*model.CandidateRecord{
		{},
		qualifiedCandidate(),
		{Login: "x", Email: "fake@corp.io"},
	} {
		res := v.Validate(rec)
		assert.GreaterOrEqual(t, res.QualityScore, 0.0)
		assert.LessOrEqual(t, res.QualityScore, 1.0)
	}
}
