// Package dedupe groups raw records referring to the same real-world
// person, picks a canonical representative per group, and merges contact
// and metadata fields from the rest of the group into it.
package dedupe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/scorer"
)

// Resolver performs identity resolution over a batch of records.
type Resolver struct {
	tables *config.TableConfig
	now    func() time.Time
}

// NewResolver creates an identity resolver.
func NewResolver(tables *config.TableConfig) *Resolver {
	return &Resolver{tables: tables, now: time.Now}
}

// Deduplicate collapses duplicate records and returns one canonical record
// per identity group. Running it on its own output is a no-op.
func (r *Resolver) Deduplicate(records []model.CandidateRecord) []model.CandidateRecord {
	groups := r.Groups(records)
	out := make([]model.CandidateRecord, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Best)
	}
	return out
}

// Groups builds the identity groups and their merged canonical records,
// preserving first-seen group order.
func (r *Resolver) Groups(records []model.CandidateRecord) []model.MergedRecord {
	byKey := make(map[string][]model.CandidateRecord, len(records))
	var order []string
	for _, rec := range records {
		key := r.IdentityKey(&rec)
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], rec)
	}

	groups := make([]model.MergedRecord, 0, len(order))
	merged := 0
	for _, key := range order {
		group := r.mergeGroup(key, byKey[key])
		if group.MergeCount > 1 {
			merged++
		}
		groups = append(groups, group)
	}

	if merged > 0 {
		zap.L().Info("dedupe: merged duplicate records",
			zap.Int("input", len(records)),
			zap.Int("groups", len(groups)),
			zap.Int("merged_groups", merged),
		)
	}
	return groups
}

// IdentityKey derives the grouping key for a record. Fallback chain:
// explicit login, then a non-public email address, then name+company or
// name alone, then a random unique key (no merge possible).
func (r *Resolver) IdentityKey(rec *model.CandidateRecord) string {
	if rec.Login != "" {
		return "login:" + strings.ToLower(rec.Login)
	}

	if email := rec.BestEmail(); email != "" {
		if domain := model.EmailDomain(email); domain != "" && !r.tables.IsPublicEmailDomain(domain) {
			return "email:" + strings.ToLower(email)
		}
	}

	name := strings.ToLower(strings.TrimSpace(rec.Name))
	if name != "" {
		if company := strings.ToLower(strings.TrimSpace(rec.Company)); company != "" {
			return "name:" + name + "|" + company
		}
		return "name:" + name
	}

	return "anon:" + uuid.NewString()
}

// mergeGroup selects the best record of a group and backfills its missing
// contact fields from the others. A group of one passes through unchanged.
func (r *Resolver) mergeGroup(key string, group []model.CandidateRecord) model.MergedRecord {
	best := 0
	if len(group) > 1 {
		bestScore := r.selectionScore(&group[0])
		for i := 1; i < len(group); i++ {
			if score := r.selectionScore(&group[i]); score > bestScore {
				best, bestScore = i, score
			}
		}
	}

	canonical := group[best]
	logins := loginSet(group)

	if len(group) == 1 {
		return model.MergedRecord{
			Key:        key,
			Logins:     logins,
			Best:       canonical,
			Sources:    canonical.AllSources(),
			MergeCount: 1,
		}
	}

	var changed []string

	// Best available email: prefer a corporate domain over a public
	// provider, either over nothing.
	if email := r.bestGroupEmail(group); email != "" && email != canonical.Email {
		canonical.Email = email
		changed = append(changed, "email")
	}

	if canonical.LinkedInURL == "" {
		for _, rec := range group {
			if rec.LinkedInURL != "" {
				canonical.LinkedInURL = rec.LinkedInURL
				changed = append(changed, "linkedin_url")
				break
			}
		}
	}

	for _, rec := range group {
		if len(rec.Bio) > len(canonical.Bio) {
			canonical.Bio = rec.Bio
		}
	}
	if canonical.Bio != group[best].Bio {
		changed = append(changed, "bio")
	}

	// Union of source contexts.
	sources := unionSources(group)
	canonical.Sources = sources
	if canonical.Source == "" && len(sources) > 0 {
		canonical.Source = sources[0]
	}

	// Contactability is recalculated over the merged contact surface.
	c := scorer.Contactability(&canonical, r.tables)
	canonical.Contactability = &c

	canonical.Merge = &model.MergeMeta{
		SourceCount:   len(group),
		ChangedFields: changed,
		MergedAt:      r.now().UTC(),
	}

	return model.MergedRecord{
		Key:        key,
		Logins:     logins,
		Best:       canonical,
		Sources:    sources,
		MergeCount: len(group),
	}
}

// selectionScore ranks candidates for canonical-record selection.
func (r *Resolver) selectionScore(rec *model.CandidateRecord) int {
	score := 0
	if model.HasFlag(rec.IsMaintainer) {
		score += 50
	}
	if model.HasFlag(rec.IsCodeOwner) {
		score += 30
	}
	if model.HasFlag(rec.IsOrgMember) {
		score += 20
	}

	score += scorer.Contactability(rec, r.tables)
	score += model.TierBonus(rec.Tier)

	switch age := rec.SignalAgeDays(r.now()); {
	case age < 0:
	case age <= 7:
		score += 30
	case age <= 30:
		score += 20
	case age <= 90:
		score += 10
	}

	return score
}

// bestGroupEmail picks the strongest email across the group, preferring a
// non-public (corporate) domain over a public provider.
func (r *Resolver) bestGroupEmail(group []model.CandidateRecord) string {
	var publicPick string
	for _, rec := range group {
		email := rec.BestEmail()
		domain := model.EmailDomain(email)
		if email == "" || domain == "" || r.tables.IsDisposableEmailDomain(domain) {
			continue
		}
		if !r.tables.IsPublicEmailDomain(domain) {
			return email
		}
		if publicPick == "" {
			publicPick = email
		}
	}
	return publicPick
}

func loginSet(group []model.CandidateRecord) []string {
	seen := make(map[string]struct{}, len(group))
	var out []string
	for _, rec := range group {
		login := strings.ToLower(rec.Login)
		if login == "" {
			continue
		}
		if _, ok := seen[login]; ok {
			continue
		}
		seen[login] = struct{}{}
		out = append(out, login)
	}
	return out
}

func unionSources(group []model.CandidateRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range group {
		for _, s := range rec.AllSources() {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
