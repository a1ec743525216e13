package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/leadqual/internal/model"
)

// dateFormats accepted for signal timestamps, most specific first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// headerIndex maps normalized column names to their position. Unknown
// columns are ignored so exports with extra fields still load.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		key = strings.ReplaceAll(key, "-", "_")
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}

// recordFromRow builds a candidate record from one tabular row. It
// returns warnings for cells it could not parse; the remaining fields
// are still populated.
func recordFromRow(row []string, idx map[string]int, rowNum int) (model.CandidateRecord, []string) {
	var warnings []string

	cell := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	intCell := func(name string) *int {
		s := cell(name)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %s: not an integer: %q", rowNum, name, s))
			return nil
		}
		return &n
	}
	boolCell := func(name string) *bool {
		s := cell(name)
		if s == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.ToLower(s))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %s: not a boolean: %q", rowNum, name, s))
			return nil
		}
		return &b
	}
	listCell := func(name string) []string {
		s := cell(name)
		if s == "" {
			return nil
		}
		parts := strings.Split(s, ";")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	rec := model.CandidateRecord{
		Login:    cell("login"),
		Name:     cell("name"),
		Company:  cell("company"),
		Location: cell("location"),
		Bio:      cell("bio"),

		Email:       cell("email"),
		Emails:      listCell("emails"),
		LinkedInURL: cell("linkedin_url"),
		WebsiteURL:  cell("website_url"),
		ProfileURL:  cell("profile_url"),

		RepoName:  cell("repo_name"),
		RepoOwner: cell("repo_owner"),
		RepoURL:   cell("repo_url"),

		SignalType: cell("signal_type"),
		SignalText: cell("signal_text"),

		Followers:             intCell("followers"),
		Following:             intCell("following"),
		PublicRepos:           intCell("public_repos"),
		Stars:                 intCell("stars"),
		RecentCommits:         intCell("recent_commits"),
		ContributionsLastYear: intCell("contributions_last_year"),

		IsMaintainer: boolCell("is_maintainer"),
		IsCodeOwner:  boolCell("is_code_owner"),
		IsOrgMember:  boolCell("is_org_member"),
		HasAdminPerm: boolCell("has_admin_perm"),

		Topics:   listCell("topics"),
		Language: cell("language"),
		Source:   cell("source"),
	}

	if s := cell("signal_at"); s != "" {
		parsed := false
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, s); err == nil {
				rec.SignalAt = &t
				parsed = true
				break
			}
		}
		if !parsed {
			warnings = append(warnings, fmt.Sprintf("row %d: signal_at: unparseable timestamp: %q", rowNum, s))
		}
	}

	return rec, warnings
}

// isEmpty reports whether a row holds no data at all.
func isEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
