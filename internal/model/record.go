package model

import (
	"strings"
	"time"
)

// CandidateRecord is a raw prospect record as harvested by an upstream
// collector. Every field is optional: the zero value (or nil pointer)
// means the collector did not observe it, and every consumer must treat
// absence as a valid state.
type CandidateRecord struct {
	Login    string `json:"login,omitempty"`
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`

	Email       string   `json:"email,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	LinkedInURL string   `json:"linkedin_url,omitempty"`
	WebsiteURL  string   `json:"website_url,omitempty"`
	ProfileURL  string   `json:"profile_url,omitempty"`

	RepoName  string `json:"repo_name,omitempty"`
	RepoOwner string `json:"repo_owner,omitempty"`
	RepoURL   string `json:"repo_url,omitempty"`

	SignalType string     `json:"signal_type,omitempty"` // pr | issue | commit
	SignalText string     `json:"signal_text,omitempty"`
	SignalAt   *time.Time `json:"signal_at,omitempty"`

	Followers             *int `json:"followers,omitempty"`
	Following             *int `json:"following,omitempty"`
	PublicRepos           *int `json:"public_repos,omitempty"`
	Stars                 *int `json:"stars,omitempty"`
	RecentCommits         *int `json:"recent_commits,omitempty"`
	ContributionsLastYear *int `json:"contributions_last_year,omitempty"`

	IsMaintainer *bool `json:"is_maintainer,omitempty"`
	IsCodeOwner  *bool `json:"is_code_owner,omitempty"`
	IsOrgMember  *bool `json:"is_org_member,omitempty"`
	HasAdminPerm *bool `json:"has_admin_perm,omitempty"`

	Topics   []string `json:"topics,omitempty"`
	Language string   `json:"language,omitempty"`

	// Source identifies the collection context (e.g. a repo or search
	// query) this record was harvested from. Sources accumulates contexts
	// when duplicate records are merged.
	Source  string   `json:"source,omitempty"`
	Sources []string `json:"sources,omitempty"`

	// Derived fields populated by pipeline stages. A nil pointer means the
	// producing stage has not run (or was disabled) for this record.
	Contactability *int     `json:"contactability,omitempty"` // 0-100
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	ActivityScore  *float64 `json:"activity_score,omitempty"`
	Tier           Tier     `json:"tier,omitempty"`

	Merge *MergeMeta `json:"merge,omitempty"`
}

// MergeMeta records how a canonical record was assembled from duplicates.
type MergeMeta struct {
	SourceCount   int       `json:"source_count"`
	ChangedFields []string  `json:"changed_fields,omitempty"`
	MergedAt      time.Time `json:"merged_at"`
}

// HasFlag reports whether an optional bool field is present and true.
func HasFlag(b *bool) bool { return b != nil && *b }

// IntOr returns the value of an optional int field, or def when absent.
func IntOr(n *int, def int) int {
	if n == nil {
		return def
	}
	return *n
}

// BestEmail returns the primary email if set, else the first alternate.
func (r *CandidateRecord) BestEmail() string {
	if r.Email != "" {
		return r.Email
	}
	if len(r.Emails) > 0 {
		return r.Emails[0]
	}
	return ""
}

// EmailDomain extracts the lower-cased domain part of an address.
// Returns "" when the address has no usable domain.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// AllSources returns the union of Source and Sources, deduplicated and
// in first-seen order.
func (r *CandidateRecord) AllSources() []string {
	seen := make(map[string]struct{}, len(r.Sources)+1)
	var out []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	add(r.Source)
	for _, s := range r.Sources {
		add(s)
	}
	return out
}

// SignalAgeDays returns whole days since the last signal, or -1 when the
// record carries no signal timestamp.
func (r *CandidateRecord) SignalAgeDays(now time.Time) int {
	if r.SignalAt == nil {
		return -1
	}
	d := now.Sub(*r.SignalAt)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
