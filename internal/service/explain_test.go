package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-server/internal/cache"
	"github.com/medguard-server/internal/domain"
)

func newProfileService(t *testing.T) (*ProfileService, *cache.LRUCache) {
	t.Helper()

	c, err := cache.NewLRUCache(16)
	require.NoError(t, err)
	return NewProfileService(newTestStore(t), c, testLogger()), c
}

func TestExplain_FullProfile(t *testing.T) {
	svc, _ := newProfileService(t)

	profile, err := svc.Explain(context.Background(), "D03")
	require.NoError(t, err)

	assert.Equal(t, "Ibuprofen", profile.Molecule)
	assert.Equal(t, "NSAID", profile.Class)
	assert.False(t, profile.IsAntibiotic)
	assert.ElementsMatch(t, []string{"Brufen", "Advil"}, profile.Brands)
	require.Len(t, profile.AdverseReactions, 3)
	// severe reactions lead, storage order breaks ties
	assert.Equal(t, domain.RED, profile.AdverseReactions[0].RiskLevel)
	assert.Equal(t, "NHS", profile.AdverseReactions[0].Source)
	assert.Equal(t, domain.RED, profile.AdverseReactions[1].RiskLevel)
	assert.Equal(t, "MedlinePlus", profile.AdverseReactions[1].Source)
	assert.Equal(t, domain.YELLOW, profile.AdverseReactions[2].RiskLevel)
	assert.Len(t, profile.Evidence, 2)
	assert.Equal(t, domain.Disclaimer, profile.Disclaimer)

	// the profile reports caution text verbatim, risk logic does not apply
	assert.NotEmpty(t, profile.ElderlyCaution)

	// food rules are unfiltered in the profile view
	require.Len(t, profile.FoodAlcoholRules, 1)
	assert.Equal(t, "alcohol", profile.FoodAlcoholRules[0].Trigger)
}

func TestExplain_ReportsExemptCautionVerbatim(t *testing.T) {
	svc, _ := newProfileService(t)

	profile, err := svc.Explain(context.Background(), "D01")
	require.NoError(t, err)
	assert.Equal(t, "None", profile.ElderlyCaution, "transparency over evaluation policy")
}

func TestExplain_NotFound(t *testing.T) {
	svc, c := newProfileService(t)

	_, err := svc.Explain(context.Background(), "D99")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, c.Len(), "failed lookups are not cached")
}

func TestExplain_CachesProfile(t *testing.T) {
	svc, c := newProfileService(t)
	ctx := context.Background()

	first, err := svc.Explain(ctx, "D09")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	second, err := svc.Explain(ctx, "D09")
	require.NoError(t, err)
	assert.Same(t, first, second, "second read served from cache")
}
