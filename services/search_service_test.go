package services

import (
	"context"
	"testing"

	"claims_backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%acme%", likePattern("  ACME "))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	policy := createTestPolicy(t, db, "POL-GLOBEX-1")
	claim, err := CreateClaim(ctx, db, testActor, ClaimInput{
		Title: "Roof collapse", PolicyID: &policy.ID, Currency: models.CurrencyBRL,
		InsuredName: "Globex Corp", ReportedDate: "2024-03-01",
	})
	require.NoError(t, err)
	activity, err := CreateActivity(ctx, db, testActor, ActivityInput{
		ClaimID: claim.ID, Title: "Inspect roof", Assignee: "globex.surveyor@example.com",
		Role: models.ActivityRoleSurveyor, DueDate: "2024-03-10",
	})
	require.NoError(t, err)

	results, err := Search(ctx, db, "globex", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byType := map[string]SearchResult{}
	for _, r := range results {
		byType[r.Type] = r
	}
	assert.Equal(t, "/claims/"+claim.ID, byType[SearchTypeClaim].URL)
	assert.Equal(t, claim.ClaimNumber+" Roof collapse", byType[SearchTypeClaim].Title)
	assert.Equal(t, models.ClaimStatusOpen, byType[SearchTypeClaim].Status)
	assert.Equal(t, "/policies/"+policy.ID, byType[SearchTypePolicy].URL)
	assert.Equal(t, "/activities/"+activity.ID, byType[SearchTypeActivity].URL)

	t.Run("short queries return nothing", func(t *testing.T) {
		results, err := Search(ctx, db, " g ", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		results, err := Search(ctx, db, "%%", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("limit applies per type", func(t *testing.T) {
		createTestPolicy(t, db, "POL-GLOBEX-2")
		results, err := Search(ctx, db, "pol-globex", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "POL-GLOBEX-2", results[0].Title)
	})
}
