package scorer

import (
	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

// Contactability derives a 0-100 reachability score from the record's
// contact surface. A corporate email dominates; social and web presence
// add smaller increments.
func Contactability(r *model.CandidateRecord, tables *config.TableConfig) int {
	score := 0

	if email := r.BestEmail(); email != "" {
		domain := model.EmailDomain(email)
		switch {
		case domain == "":
			// Unparseable address, no credit.
		case tables.IsDisposableEmailDomain(domain):
			score += 5
		case tables.IsPublicEmailDomain(domain):
			score += 30
		default:
			score += 60
		}
	}

	if r.LinkedInURL != "" {
		score += 20
	}
	if r.WebsiteURL != "" {
		score += 15
	}
	if r.ProfileURL != "" {
		score += 5
	}
	if r.Name != "" {
		score += 10
	}
	if r.Location != "" {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
