package limits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsForKnownPlans(t *testing.T) {
	free := LimitsFor("free")
	assert.Equal(t, PlanFree, free.ID)
	assert.Equal(t, 1, free.DocumentLimit)
	assert.Equal(t, 2, free.AnalysisLimit)

	standard := LimitsFor("standard")
	assert.Equal(t, Unlimited, standard.DocumentLimit)

	pro := LimitsFor("pro")
	assert.Equal(t, Unlimited, pro.DocumentLimit)
	assert.Contains(t, pro.Features, FeatureExamSimulation)
}

func TestLimitsForUnknownPlanDefaultsToFree(t *testing.T) {
	free := LimitsFor("free")
	for _, id := range []string{"", "not-a-real-plan", "FREE", "enterprise", "null"} {
		got := LimitsFor(id)
		assert.Equal(t, free, got, "plan %q must degrade to free", id)
	}
}

func TestLimitsForReturnsIsolatedSnapshot(t *testing.T) {
	first := LimitsFor("pro")
	first.Features[0] = Feature("tampered")
	second := LimitsFor("pro")
	assert.Equal(t, FeatureSummary, second.Features[0])
}

func TestDocumentLimitMonotonicAcrossTiers(t *testing.T) {
	// Finite limits never shrink on upgrade.
	prev := -1
	for _, p := range Plans() {
		if p.DocumentLimit == Unlimited {
			continue
		}
		require.GreaterOrEqual(t, p.DocumentLimit, prev, "tier %s", p.ID)
		prev = p.DocumentLimit
	}
}

func TestCanCreateDocumentBoundary(t *testing.T) {
	limit := LimitsFor("free").DocumentLimit
	require.Greater(t, limit, 0)

	ok, err := CanCreateDocument("free", limit-1)
	require.NoError(t, err)
	assert.True(t, ok, "one below the limit must be allowed")

	ok, err = CanCreateDocument("free", limit)
	require.NoError(t, err)
	assert.False(t, ok, "at the limit must be denied")
}

func TestCanCreateDocumentUnlimitedSentinel(t *testing.T) {
	for _, count := range []int{0, 1, 9999, 10000} {
		ok, err := CanCreateDocument("pro", count)
		require.NoError(t, err)
		assert.True(t, ok, "count %d", count)
	}
}

func TestCanCreateDocumentRejectsNegativeCount(t *testing.T) {
	_, err := CanCreateDocument("free", -1)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = CanCreateDocument("pro", -7)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCanRunAnalysis(t *testing.T) {
	ok, err := CanRunAnalysis("free", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CanRunAnalysis("free", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = CanRunAnalysis("standard", 50000)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = CanRunAnalysis("free", -1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCanUploadPages(t *testing.T) {
	ok, err := CanUploadPages("free", 5)
	require.NoError(t, err)
	assert.True(t, ok, "page limit is inclusive")

	ok, err = CanUploadPages("free", 6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = CanUploadPages("bogus", 6)
	require.NoError(t, err)
	assert.False(t, ok, "unknown plan uses free tier page limit")

	_, err = CanUploadPages("pro", -3)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestIsFeatureEnabled(t *testing.T) {
	assert.True(t, IsFeatureEnabled("free", FeatureSummary))
	assert.False(t, IsFeatureEnabled("free", FeatureSuggestions))
	assert.True(t, IsFeatureEnabled("standard", FeatureImprovedVersion))
	assert.False(t, IsFeatureEnabled("standard", FeatureExamSimulation))
	assert.True(t, IsFeatureEnabled("pro", FeatureExamSimulation))

	// Unknown plan gates by the free tier; unknown feature is always off.
	assert.True(t, IsFeatureEnabled("bogus", FeatureSummary))
	assert.False(t, IsFeatureEnabled("bogus", FeatureExamSimulation))
	assert.False(t, IsFeatureEnabled("pro", Feature("telepathy")))
}
