package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full qualification-pipeline configuration. It is
// constructed once and passed by reference into every component; no
// component reads ambient state.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Normalize  NormalizeConfig  `yaml:"normalize" mapstructure:"normalize"`
	Compliance ComplianceConfig `yaml:"compliance" mapstructure:"compliance"`
	Relevance  RelevanceConfig  `yaml:"relevance" mapstructure:"relevance"`
	Activity   ActivityConfig   `yaml:"activity" mapstructure:"activity"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Gates      GateConfig       `yaml:"gates" mapstructure:"gates"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Tables     TableConfig      `yaml:"tables" mapstructure:"tables"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// NormalizeConfig configures the normalization engine.
type NormalizeConfig struct {
	NormalizeNames       bool `yaml:"normalize_names" mapstructure:"normalize_names"`
	NormalizeCompanies   bool `yaml:"normalize_companies" mapstructure:"normalize_companies"`
	NormalizeLocations   bool `yaml:"normalize_locations" mapstructure:"normalize_locations"`
	NormalizeEmails      bool `yaml:"normalize_emails" mapstructure:"normalize_emails"`
	NormalizeURLs        bool `yaml:"normalize_urls" mapstructure:"normalize_urls"`
	NormalizeBio         bool `yaml:"normalize_bio" mapstructure:"normalize_bio"`
	StandardizeLanguages bool `yaml:"standardize_languages" mapstructure:"standardize_languages"`
	LowercaseEmails      bool `yaml:"lowercase_emails" mapstructure:"lowercase_emails"`
	StandardizeProtocols bool `yaml:"standardize_protocols" mapstructure:"standardize_protocols"`
	MaxBioLength         int  `yaml:"max_bio_length" mapstructure:"max_bio_length"`
	MaxNameLength        int  `yaml:"max_name_length" mapstructure:"max_name_length"`
	MaxCompanyLength     int  `yaml:"max_company_length" mapstructure:"max_company_length"`
}

// ComplianceConfig configures sanctions/geo/content screening.
type ComplianceConfig struct {
	GeoBlock            []string `yaml:"geo_block" mapstructure:"geo_block"`
	SanctionedNames     []string `yaml:"sanctioned_names" mapstructure:"sanctioned_names"`
	SanctionedDomains   []string `yaml:"sanctioned_domains" mapstructure:"sanctioned_domains"`
	BlockedEmailDomains []string `yaml:"blocked_email_domains" mapstructure:"blocked_email_domains"`
	BlockedCompanies    []string `yaml:"blocked_companies" mapstructure:"blocked_companies"`
	ProhibitedBioTerms  []string `yaml:"prohibited_bio_terms" mapstructure:"prohibited_bio_terms"`
	ProhibitedRepoTerms []string `yaml:"prohibited_repo_terms" mapstructure:"prohibited_repo_terms"`
}

// RelevanceConfig configures the ICP match filter.
type RelevanceConfig struct {
	RelevanceThreshold float64  `yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	CompanySizes       []string `yaml:"company_sizes" mapstructure:"company_sizes"`
	TechStacks         []string `yaml:"tech_stacks" mapstructure:"tech_stacks"`
	PreferredLocations []string `yaml:"preferred_locations" mapstructure:"preferred_locations"`
	BlockedLocations   []string `yaml:"blocked_locations" mapstructure:"blocked_locations"`
}

// ActivityConfig configures the activity/recency filter.
type ActivityConfig struct {
	ActivityDaysThreshold   int     `yaml:"activity_days_threshold" mapstructure:"activity_days_threshold"`
	MinActivityScore        float64 `yaml:"min_activity_score" mapstructure:"min_activity_score"`
	RequireMaintainerStatus bool    `yaml:"require_maintainer_status" mapstructure:"require_maintainer_status"`
	MinFollowers            int     `yaml:"min_followers" mapstructure:"min_followers"`
	MinRepos                int     `yaml:"min_repos" mapstructure:"min_repos"`
}

// ScoringWeights holds the named integer weights of the lead scorer.
// Positive components sum to 100.
type ScoringWeights struct {
	Maintainer     int `yaml:"maintainer" mapstructure:"maintainer"`
	CodeOwner      int `yaml:"code_owner" mapstructure:"code_owner"`
	AdminPerm      int `yaml:"admin_perm" mapstructure:"admin_perm"`
	OrgMember      int `yaml:"org_member" mapstructure:"org_member"`
	Contactability int `yaml:"contactability" mapstructure:"contactability"`
	ICPMatch       int `yaml:"icp_match" mapstructure:"icp_match"`
	Activity       int `yaml:"activity" mapstructure:"activity"`
}

// TierThresholds holds the tier cut-offs applied to the total score.
type TierThresholds struct {
	A int `yaml:"a" mapstructure:"a"`
	B int `yaml:"b" mapstructure:"b"`
	C int `yaml:"c" mapstructure:"c"`
}

// ScoringConfig configures the lead scorer.
type ScoringConfig struct {
	Weights          ScoringWeights `yaml:"weights" mapstructure:"weights"`
	TierThresholds   TierThresholds `yaml:"tier_thresholds" mapstructure:"tier_thresholds"`
	AcademicDomains  []string       `yaml:"academic_domains" mapstructure:"academic_domains"`
	AcademicKeywords []string       `yaml:"academic_keywords" mapstructure:"academic_keywords"`
	CompanyWhitelist []string       `yaml:"company_whitelist" mapstructure:"company_whitelist"`
	ExcludeTopics    []string       `yaml:"exclude_topics" mapstructure:"exclude_topics"`
}

// GateConfig configures the quality-gate validator.
type GateConfig struct {
	EmailRequired             bool     `yaml:"email_required" mapstructure:"email_required"`
	EmailDeliverable          bool     `yaml:"email_deliverable" mapstructure:"email_deliverable"`
	DataCompletenessThreshold float64  `yaml:"data_completeness_threshold" mapstructure:"data_completeness_threshold"`
	DataAccuracyThreshold     float64  `yaml:"data_accuracy_threshold" mapstructure:"data_accuracy_threshold"`
	DataConsistencyThreshold  float64  `yaml:"data_consistency_threshold" mapstructure:"data_consistency_threshold"`
	ICPRelevanceThreshold     float64  `yaml:"icp_relevance_threshold" mapstructure:"icp_relevance_threshold"`
	ActivityRecentThreshold   int      `yaml:"activity_recent_threshold" mapstructure:"activity_recent_threshold"`
	ComplianceRequired        bool     `yaml:"compliance_required" mapstructure:"compliance_required"`
	PersonalizationReady      bool     `yaml:"personalization_ready" mapstructure:"personalization_ready"`
	BlockedEmailDomains       []string `yaml:"blocked_email_domains" mapstructure:"blocked_email_domains"`
	UndeliverableDomains      []string `yaml:"undeliverable_domains" mapstructure:"undeliverable_domains"`
}

// PipelineConfig configures stage toggles and execution strategy.
type PipelineConfig struct {
	ValidationEnabled        bool `yaml:"validation_enabled" mapstructure:"validation_enabled"`
	DeduplicationEnabled     bool `yaml:"deduplication_enabled" mapstructure:"deduplication_enabled"`
	ComplianceEnabled        bool `yaml:"compliance_enabled" mapstructure:"compliance_enabled"`
	ICPFilteringEnabled      bool `yaml:"icp_filtering_enabled" mapstructure:"icp_filtering_enabled"`
	ActivityFilteringEnabled bool `yaml:"activity_filtering_enabled" mapstructure:"activity_filtering_enabled"`
	NormalizationEnabled     bool `yaml:"normalization_enabled" mapstructure:"normalization_enabled"`
	QualityGatesEnabled      bool `yaml:"quality_gates_enabled" mapstructure:"quality_gates_enabled"`
	BlockHighRisk            bool `yaml:"block_high_risk" mapstructure:"block_high_risk"`
	EnableParallel           bool `yaml:"enable_parallel" mapstructure:"enable_parallel"`
	MaxWorkers               int  `yaml:"max_workers" mapstructure:"max_workers"`
	BatchSize                int  `yaml:"batch_size" mapstructure:"batch_size"`
}

// ServerConfig configures the qualify-batch HTTP server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	MaxBatch      int     `yaml:"max_batch" mapstructure:"max_batch"`
}

// Load reads configuration from file and environment on top of defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADQUAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("normalize.max_bio_length", 500)
	v.SetDefault("normalize.max_name_length", 100)
	v.SetDefault("normalize.max_company_length", 100)

	v.SetDefault("relevance.relevance_threshold", 0.6)
	v.SetDefault("activity.activity_days_threshold", 90)
	v.SetDefault("activity.min_activity_score", 0.6)
	v.SetDefault("activity.min_followers", 10)
	v.SetDefault("activity.min_repos", 5)

	v.SetDefault("scoring.tier_thresholds.a", 70)
	v.SetDefault("scoring.tier_thresholds.b", 55)
	v.SetDefault("scoring.tier_thresholds.c", 40)

	v.SetDefault("gates.data_completeness_threshold", 0.6)
	v.SetDefault("gates.data_accuracy_threshold", 0.7)
	v.SetDefault("gates.data_consistency_threshold", 0.5)
	v.SetDefault("gates.icp_relevance_threshold", 0.6)
	v.SetDefault("gates.activity_recent_threshold", 90)

	v.SetDefault("pipeline.max_workers", 4)
	v.SetDefault("pipeline.batch_size", 50)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 2)
	v.SetDefault("server.rate_burst", 5)
	v.SetDefault("server.max_batch", 5000)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	w := c.Scoring.Weights
	named := map[string]int{
		"maintainer":     w.Maintainer,
		"code_owner":     w.CodeOwner,
		"admin_perm":     w.AdminPerm,
		"org_member":     w.OrgMember,
		"contactability": w.Contactability,
		"icp_match":      w.ICPMatch,
		"activity":       w.Activity,
	}
	for name, weight := range named {
		if weight < 0 {
			errs = append(errs, fmt.Sprintf("scoring.weights.%s must be >= 0", name))
		}
	}

	t := c.Scoring.TierThresholds
	if !(t.A >= t.B && t.B >= t.C) {
		errs = append(errs, fmt.Sprintf("tier thresholds must be ordered A >= B >= C, got %d/%d/%d", t.A, t.B, t.C))
	}
	if t.C < 0 {
		errs = append(errs, "tier_thresholds.c must be >= 0")
	}

	for name, th := range map[string]float64{
		"relevance.relevance_threshold":     c.Relevance.RelevanceThreshold,
		"activity.min_activity_score":       c.Activity.MinActivityScore,
		"gates.data_completeness_threshold": c.Gates.DataCompletenessThreshold,
		"gates.data_accuracy_threshold":     c.Gates.DataAccuracyThreshold,
		"gates.data_consistency_threshold":  c.Gates.DataConsistencyThreshold,
		"gates.icp_relevance_threshold":     c.Gates.ICPRelevanceThreshold,
	} {
		if th < 0 || th > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in [0,1]", name))
		}
	}

	if c.Pipeline.MaxWorkers < 1 {
		errs = append(errs, "pipeline.max_workers must be >= 1")
	}
	if c.Pipeline.BatchSize < 1 {
		errs = append(errs, "pipeline.batch_size must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
