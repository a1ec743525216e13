package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// TechStack describes one named technology-stack definition used by the
// ICP relevance filter.
type TechStack struct {
	Languages  []string `yaml:"languages" mapstructure:"languages"`
	Frameworks []string `yaml:"frameworks" mapstructure:"frameworks"`
	Domains    []string `yaml:"domains" mapstructure:"domains"`
}

// TableConfig holds the lookup tables used by heuristic matching. They are
// configuration-supplied so they can be swapped and audited independently
// of code; DefaultConfig ships a compiled-in baseline.
type TableConfig struct {
	PublicEmailDomains     []string             `yaml:"public_email_domains" mapstructure:"public_email_domains"`
	DisposableEmailDomains []string             `yaml:"disposable_email_domains" mapstructure:"disposable_email_domains"`
	TechHubs               []string             `yaml:"tech_hubs" mapstructure:"tech_hubs"`
	EnglishCountries       []string             `yaml:"english_countries" mapstructure:"english_countries"`
	GrowthHubs             []string             `yaml:"growth_hubs" mapstructure:"growth_hubs"`
	MaintainerKeywords     []string             `yaml:"maintainer_keywords" mapstructure:"maintainer_keywords"`
	CountryAliases         map[string]string    `yaml:"country_aliases" mapstructure:"country_aliases"`
	LanguageAliases        map[string]string    `yaml:"language_aliases" mapstructure:"language_aliases"`
	TechStacks             map[string]TechStack `yaml:"tech_stacks" mapstructure:"tech_stacks"`
	CompanySizes           map[string][]string  `yaml:"company_sizes" mapstructure:"company_sizes"`
}

// IsPublicEmailDomain reports whether domain belongs to a public mail
// provider (gmail, outlook, ...). Comparison is case-insensitive.
func (t *TableConfig) IsPublicEmailDomain(domain string) bool {
	return containsFold(t.PublicEmailDomains, domain)
}

// IsDisposableEmailDomain reports whether domain is a throwaway provider.
func (t *TableConfig) IsDisposableEmailDomain(domain string) bool {
	return containsFold(t.DisposableEmailDomains, domain)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

// LoadTables replaces the lookup tables with the contents of a YAML file.
// Tables absent from the file keep their current values.
func (c *Config) LoadTables(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "config: read tables file")
	}

	tables := c.Tables
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return eris.Wrap(err, "config: parse tables file")
	}
	c.Tables = tables

	return nil
}
