package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadqual/internal/config"
	"github.com/sells-group/leadqual/internal/model"
)

func newTestResolver() *Resolver {
	cfg := config.DefaultConfig()
	r := NewResolver(&cfg.Tables)
	r.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func boolPtr(b bool) *bool { return &b }

func TestIdentityKey_FallbackChain(t *testing.T) {
	r := newTestResolver()

	assert.Equal(t, "login:asmith", r.IdentityKey(&model.CandidateRecord{Login: "ASmith", Email: "a@corp.io"}))
	assert.Equal(t, "email:a@corp.io", r.IdentityKey(&model.CandidateRecord{Email: "A@corp.io"}))
	// Public-provider emails are not identities.
	assert.Equal(t, "name:alice smith|acme", r.IdentityKey(&model.CandidateRecord{
		Email: "a@gmail.com", Name: "Alice Smith", Company: "Acme",
	}))
	assert.Equal(t, "name:alice smith", r.IdentityKey(&model.CandidateRecord{Name: " Alice Smith "}))

	// Unidentifiable records get unique keys and never merge.
	k1 := r.IdentityKey(&model.CandidateRecord{Bio: "mystery"})
	k2 := r.IdentityKey(&model.CandidateRecord{Bio: "mystery"})
	assert.NotEqual(t, k1, k2)
}

func TestDeduplicate_MaintainerWinsAndBackfills(t *testing.T) {
	r := newTestResolver()

	records := []model.CandidateRecord{
		{
			Login:  "asmith",
			Name:   "Alice Smith",
			Email:  "alice@gmail.com",
			Source: "repo:acme/api",
		},
		{
			Login:        "ASmith",
			Name:         "Alice Smith",
			Email:        "alice@corp.io",
			IsMaintainer: boolPtr(true),
			Bio:          "Maintainer of acme/api, building backend infra",
			Source:       "repo:acme/worker",
		},
	}

	groups := r.Groups(records)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "login:asmith", g.Key)
	assert.Equal(t, 2, g.MergeCount)
	assert.ElementsMatch(t, []string{"repo:acme/api", "repo:acme/worker"}, g.Sources)

	// The maintainer record is canonical, keeping its corporate email.
	best := g.Best
	assert.True(t, model.HasFlag(best.IsMaintainer))
	assert.Equal(t, "alice@corp.io", best.Email)
	require.NotNil(t, best.Merge)
	assert.Equal(t, 2, best.Merge.SourceCount)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), best.Merge.MergedAt)
	require.NotNil(t, best.Contactability)
}

func TestDeduplicate_BackfillsEmailIntoCanonical(t *testing.T) {
	r := newTestResolver()

	records := []model.CandidateRecord{
		{Login: "bdev", IsMaintainer: boolPtr(true), IsOrgMember: boolPtr(true), Source: "repo:x/y"},
		{Login: "bdev", Email: "b@startup.io", Source: "search:go"},
	}

	out := r.Deduplicate(records)
	require.Len(t, out, 1)
	// Canonical is the maintainer, but the duplicate's email is merged in.
	assert.True(t, model.HasFlag(out[0].IsMaintainer))
	assert.Equal(t, "b@startup.io", out[0].Email)
	require.NotNil(t, out[0].Merge)
	assert.Contains(t, out[0].Merge.ChangedFields, "email")
}

func TestDeduplicate_SingletonPassesThroughUnchanged(t *testing.T) {
	r := newTestResolver()

	rec := model.CandidateRecord{Login: "solo", Email: "s@corp.io", Source: "repo:a/b"}
	out := r.Deduplicate([]model.CandidateRecord{rec})
	require.Len(t, out, 1)
	assert.Equal(t, rec, out[0])
	assert.Nil(t, out[0].Merge)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	r := newTestResolver()

	records := []model.CandidateRecord{
		{Login: "a", Email: "a@corp.io"},
		{Login: "a", Email: "a@gmail.com"},
		{Login: "b"},
		{Name: "Carol Webb", Company: "Acme"},
		{Name: "Carol Webb", Company: "Acme", Email: "c@gmail.com"},
	}

	once := r.Deduplicate(records)
	twice := r.Deduplicate(once)
	assert.Equal(t, once, twice)
}

func TestDeduplicate_PreservesFirstSeenOrder(t *testing.T) {
	r := newTestResolver()

	records := []model.CandidateRecord{
		{Login: "zeta"},
		{Login: "alpha"},
		{Login: "zeta", Bio: "dup"},
		{Login: "mid"},
	}

	out := r.Deduplicate(records)
	require.Len(t, out, 3)
	assert.Equal(t, "zeta", out[0].Login)
	assert.Equal(t, "alpha", out[1].Login)
	assert.Equal(t, "mid", out[2].Login)
}

func TestBestGroupEmail_PrefersCorporate(t *testing.T) {
	r := newTestResolver()

	group := []model.CandidateRecord{
		{Email: "x@mailinator.com"},
		{Email: "x@gmail.com"},
		{Email: "x@corp.io"},
	}
	assert.Equal(t, "x@corp.io", r.bestGroupEmail(group))

	// Without a corporate option the public address wins; disposable never.
	assert.Equal(t, "x@gmail.com", r.bestGroupEmail(group[:2]))
	assert.Equal(t, "", r.bestGroupEmail(group[:1]))
}
