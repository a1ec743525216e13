package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfig_PositiveWeightsSumTo100(t *testing.T) {
	w := DefaultConfig().Scoring.Weights
	sum := w.Maintainer + w.CodeOwner + w.AdminPerm + w.OrgMember +
		w.Contactability + w.ICPMatch + w.Activity
	assert.Equal(t, 100, sum)
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.Weights.Maintainer = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring.weights.maintainer")
}

func TestValidate_TierThresholdOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.TierThresholds.B = 80 // above A
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier thresholds")
}

func TestValidate_ThresholdRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Relevance.RelevanceThreshold = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Gates.DataAccuracyThreshold = -0.1
	assert.Error(t, cfg.Validate())
}

func TestValidate_PipelineBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.MaxWorkers = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pipeline.BatchSize = 0
	assert.Error(t, cfg.Validate())
}

func TestEmailDomainTables(t *testing.T) {
	tables := DefaultConfig().Tables
	assert.True(t, tables.IsPublicEmailDomain("GMAIL.com"))
	assert.False(t, tables.IsPublicEmailDomain("corp.io"))
	assert.True(t, tables.IsDisposableEmailDomain("mailinator.com"))
	assert.False(t, tables.IsDisposableEmailDomain("gmail.com"))
}

func TestLoadTables_PartialOverride(t *testing.T) {
	cfg := DefaultConfig()

	path := filepath.Join(t.TempDir(), "tables.yaml")
	data := "public_email_domains:\n  - onlyone.example\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	require.NoError(t, cfg.LoadTables(path))
	assert.True(t, cfg.Tables.IsPublicEmailDomain("onlyone.example"))
	assert.False(t, cfg.Tables.IsPublicEmailDomain("gmail.com"))
	// Untouched tables keep their defaults.
	assert.True(t, cfg.Tables.IsDisposableEmailDomain("mailinator.com"))
	assert.NotEmpty(t, cfg.Tables.TechHubs)
}

func TestLoadTables_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadTables("/nonexistent/tables.yaml"))
}

func TestLoad_AppliesEnvOverride(t *testing.T) {
	t.Setenv("LEADQUAL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults survive alongside overrides.
	assert.Equal(t, 8080, cfg.Server.Port)
}
