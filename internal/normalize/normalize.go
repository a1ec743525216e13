// Package normalize standardizes free-text and contact fields of candidate
// records into canonical forms, recording a per-field change trail.
package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// companySuffixes maps legal-suffix variants to their canonical form.
var companySuffixes = map[string]string{
	"inc":          "Inc",
	"inc.":         "Inc",
	"incorporated": "Inc",
	"llc":          "LLC",
	"l.l.c.":       "LLC",
	"ltd":          "Ltd",
	"ltd.":         "Ltd",
	"limited":      "Ltd",
	"corp":         "Corp",
	"corp.":        "Corp",
	"corporation":  "Corp",
	"co":           "Co",
	"co.":          "Co",
}

// nameParticles stay lower-case inside a person name (but not at the front).
var nameParticles = map[string]bool{
	"van": true, "von": true, "de": true, "der": true, "den": true,
	"da": true, "di": true, "la": true, "le": true, "del": true,
}

// nameSuffixes are canonical generational suffixes.
var nameSuffixes = map[string]string{
	"jr": "Jr.", "jr.": "Jr.", "sr": "Sr.", "sr.": "Sr.",
	"ii": "II", "iii": "III", "iv": "IV",
}

var (
	multiSpaceRe  = regexp.MustCompile(`\s+`)
	repeatPunctRe = regexp.MustCompile(`([!?.,;:]){2,}`)
	multiDashRe   = regexp.MustCompile(`-{2,}`)
)

// Engine applies field-level normalization per its configuration. It never
// fails on malformed input: the worst case is the field left unchanged
// plus a warning.
type Engine struct {
	cfg    *config.NormalizeConfig
	tables *config.TableConfig
	titler cases.Caser
}

// NewEngine creates a normalization engine.
func NewEngine(cfg *config.NormalizeConfig, tables *config.TableConfig) *Engine {
	return &Engine{
		cfg:    cfg,
		tables: tables,
		titler: cases.Title(language.English),
	}
}

// Normalize standardizes every enabled field of the record. Unchanged
// fields are untouched; every change is recorded with before/after values.
func (e *Engine) Normalize(record model.CandidateRecord) model.NormalizationResult {
	result := model.NormalizationResult{
		Record:  record,
		Changes: make(map[string]model.FieldChange),
	}
	r := &result.Record

	set := func(field string, cur *string, next string) {
		if next == *cur {
			return
		}
		result.Changes[field] = model.FieldChange{From: *cur, To: next}
		*cur = next
	}

	if e.cfg.NormalizeNames && r.Name != "" {
		set("name", &r.Name, e.normalizeName(r.Name))
	}
	if e.cfg.NormalizeCompanies && r.Company != "" {
		set("company", &r.Company, e.normalizeCompany(r.Company))
	}
	if e.cfg.NormalizeLocations && r.Location != "" {
		set("location", &r.Location, e.normalizeLocation(r.Location))
	}

	if e.cfg.NormalizeEmails {
		if r.Email != "" {
			next, warn := e.normalizeEmail(r.Email)
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
			}
			set("email", &r.Email, next)
		}
		for i := range r.Emails {
			next, warn := e.normalizeEmail(r.Emails[i])
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
			}
			set("emails", &r.Emails[i], next)
		}
	}

	if e.cfg.NormalizeURLs {
		if r.WebsiteURL != "" {
			set("website_url", &r.WebsiteURL, e.normalizeURL(r.WebsiteURL))
		}
		if r.RepoURL != "" {
			set("repo_url", &r.RepoURL, e.normalizeURL(r.RepoURL))
		}
		if r.ProfileURL != "" {
			set("profile_url", &r.ProfileURL, e.normalizeURL(r.ProfileURL))
		}
		if r.LinkedInURL != "" {
			set("linkedin_url", &r.LinkedInURL, e.normalizeLinkedIn(r.LinkedInURL))
		}
	}

	if e.cfg.NormalizeBio && r.Bio != "" {
		set("bio", &r.Bio, e.normalizeBio(r.Bio))
	}

	if e.cfg.StandardizeLanguages && r.Language != "" {
		set("language", &r.Language, e.normalizeLanguage(r.Language))
	}

	if len(r.Topics) > 0 {
		before := strings.Join(r.Topics, ", ")
		topics := e.normalizeTopics(r.Topics)
		after := strings.Join(topics, ", ")
		if after != before {
			result.Changes["topics"] = model.FieldChange{From: before, To: after}
			r.Topics = topics
		}
	}

	return result
}

func (e *Engine) normalizeName(name string) string {
	name = strings.TrimSpace(multiSpaceRe.ReplaceAllString(name, " "))
	name = truncateAtWord(name, e.cfg.MaxNameLength)

	words := strings.Split(name, " ")
	for i, w := range words {
		lower := strings.ToLower(w)
		switch {
		case nameSuffixes[lower] != "":
			words[i] = nameSuffixes[lower]
		case i > 0 && nameParticles[lower]:
			words[i] = lower
		default:
			words[i] = e.titleWord(w)
		}
	}
	return strings.Join(words, " ")
}

// titleWord title-cases one word, handling hyphenated segments
// ("mary-jane" -> "Mary-Jane") and internal apostrophes.
func (e *Engine) titleWord(w string) string {
	parts := strings.Split(w, "-")
	for i, p := range parts {
		parts[i] = e.titler.String(strings.ToLower(p))
	}
	return strings.Join(parts, "-")
}

func (e *Engine) normalizeCompany(company string) string {
	company = strings.TrimSpace(multiSpaceRe.ReplaceAllString(company, " "))
	company = strings.TrimPrefix(company, "@")
	company = truncateAtWord(company, e.cfg.MaxCompanyLength)

	words := strings.Split(company, " ")
	if len(words) > 1 {
		last := strings.ToLower(strings.TrimSuffix(words[len(words)-1], ","))
		if canonical, ok := companySuffixes[last]; ok {
			words[len(words)-1] = canonical
			company = strings.Join(words, " ")
		}
	}
	return company
}

func (e *Engine) normalizeLocation(loc string) string {
	loc = strings.TrimSpace(multiSpaceRe.ReplaceAllString(loc, " "))

	// Canonicalize the country part, which is conventionally the last
	// comma-separated segment (or the whole string).
	parts := strings.Split(loc, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if canonical, ok := e.tables.CountryAliases[strings.ToLower(p)]; ok {
			p = canonical
		}
		parts[i] = p
	}
	return strings.Join(parts, ", ")
}

func (e *Engine) normalizeEmail(email string) (string, string) {
	email = strings.TrimSpace(email)
	email = strings.Trim(email, "<>\"'(),;: ")
	email = strings.TrimLeft(email, ".")
	email = strings.TrimRight(email, ".")

	if e.cfg.LowercaseEmails {
		email = strings.ToLower(email)
	}

	if !strings.Contains(email, "@") || model.EmailDomain(email) == "" {
		return email, "email: unparseable address left as-is"
	}
	return email, ""
}

func (e *Engine) normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	} else if e.cfg.StandardizeProtocols && strings.HasPrefix(raw, "http://") {
		raw = "https://" + strings.TrimPrefix(raw, "http://")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}
	u.Host = strings.ToLower(u.Host)
	return strings.TrimSuffix(u.String(), "/")
}

// normalizeLinkedIn rewrites profile links into the canonical
// https://linkedin.com/in/<handle> form.
func (e *Engine) normalizeLinkedIn(raw string) string {
	normalized := e.normalizeURL(raw)
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segments {
		if s == "in" && i+1 < len(segments) && segments[i+1] != "" {
			return "https://linkedin.com/in/" + segments[i+1]
		}
	}
	return normalized
}

func (e *Engine) normalizeBio(bio string) string {
	bio = strings.TrimSpace(multiSpaceRe.ReplaceAllString(bio, " "))
	bio = repeatPunctRe.ReplaceAllString(bio, "$1")
	return truncateAtWord(bio, e.cfg.MaxBioLength)
}

func (e *Engine) normalizeLanguage(lang string) string {
	if canonical, ok := e.tables.LanguageAliases[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return canonical
	}
	return strings.TrimSpace(lang)
}

func (e *Engine) normalizeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		t = strings.ReplaceAll(t, "_", "-")
		t = strings.ReplaceAll(t, " ", "-")
		t = multiDashRe.ReplaceAllString(t, "-")
		t = strings.Trim(t, "-")
		if t == "" {
			continue
		}
		t = e.titleWord(t)

		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// truncateAtWord caps s at max runes, cutting back to the previous word
// boundary when possible. max <= 0 disables the cap.
func truncateAtWord(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:-")
}
