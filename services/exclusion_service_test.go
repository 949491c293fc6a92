package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusionCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"War", "Cyber", "Flood"} {
		_, err := CreateExclusion(ctx, db, testActor, ExclusionInput{Title: title})
		require.NoError(t, err)
	}

	exclusions, err := ListExclusions(ctx, db)
	require.NoError(t, err)
	require.Len(t, exclusions, 3)
	assert.Equal(t, "Cyber", exclusions[0].Title)
	assert.Equal(t, "Flood", exclusions[1].Title)
	assert.Equal(t, "War", exclusions[2].Title)

	_, err = CreateExclusion(ctx, db, testActor, ExclusionInput{Title: "<i></i>"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "is required", ve.Fields["title"])
}

func TestUpdateExclusion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	exclusion, err := CreateExclusion(ctx, db, testActor, ExclusionInput{Title: "Mould", Description: strPtr("Gradual damage")})
	require.NoError(t, err)

	updated, err := UpdateExclusion(ctx, db, testActor, exclusion.ID, ExclusionInput{Title: "Mould and fungus"})
	require.NoError(t, err)
	assert.Equal(t, "Mould and fungus", updated.Title)
	assert.Nil(t, updated.Description)

	_, err = UpdateExclusion(ctx, db, testActor, "missing", ExclusionInput{Title: "x"})
	assert.ErrorIs(t, err, ErrExclusionNotFound)
}

func TestDeleteExclusionUnlinksPolicies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	nuclear, err := CreateExclusion(ctx, db, testActor, ExclusionInput{Title: "Nuclear"})
	require.NoError(t, err)
	war, err := CreateExclusion(ctx, db, testActor, ExclusionInput{Title: "War"})
	require.NoError(t, err)

	policy, err := CreatePolicy(ctx, db, testActor, PolicyInput{
		PolicyNumber: "POL-EXC", PeriodStart: "2024-01-01", PeriodEnd: "2024-12-31", NamedInsured: "Acme",
		ExclusionIDs: []string{nuclear.ID, war.ID},
	})
	require.NoError(t, err)
	require.Len(t, policy.Exclusions, 2)

	require.NoError(t, DeleteExclusion(ctx, db, testActor, nuclear.ID))

	got, err := GetPolicyByID(ctx, db, policy.ID)
	require.NoError(t, err)
	require.Len(t, got.Exclusions, 1)
	assert.Equal(t, "War", got.Exclusions[0].Title)

	_, err = GetExclusionByID(ctx, db, nuclear.ID)
	assert.ErrorIs(t, err, ErrExclusionNotFound)
	assert.ErrorIs(t, DeleteExclusion(ctx, db, testActor, nuclear.ID), ErrExclusionNotFound)
}
