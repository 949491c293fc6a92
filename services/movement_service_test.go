package services

import (
	"context"
	"testing"

	"claims_backoffice/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMovementRefreshesClaim(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, db, nil)

	steps := []MovementInput{
		{Type: models.MovementTypeReserveIncrease, Coverage: models.CoverageMaterialDamage, Amount: decimal.NewFromInt(10000), Date: "2024-03-05"},
		{Type: models.MovementTypePayment, Coverage: models.CoverageMaterialDamage, Amount: decimal.RequireFromString("2500.50"), Date: "2024-03-20"},
		{Type: models.MovementTypeReserveDecrease, Coverage: models.CoverageMaterialDamage, Amount: decimal.NewFromInt(1000), Date: "2024-04-01"},
		{Type: models.MovementTypeRecovery, Coverage: models.CoverageStock, Amount: decimal.NewFromInt(300), Date: "2024-04-10"},
	}
	for _, step := range steps {
		_, err := CreateMovement(ctx, db, testActor, claim.ID, step)
		require.NoError(t, err)

		// The rollup identity holds after every movement
		got, err := GetClaimByID(ctx, db, claim.ID)
		require.NoError(t, err)
		assert.True(t, got.IncurredAmount.Equal(got.PaidAmount.Add(got.OutstandingAmount)))
	}

	got, err := GetClaimByID(ctx, db, claim.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(decimal.RequireFromString("2500.50")), "paid %s", got.PaidAmount)
	assert.True(t, got.OutstandingAmount.Equal(decimal.RequireFromString("6499.50")), "outstanding %s", got.OutstandingAmount)
	assert.True(t, got.IncurredAmount.Equal(decimal.NewFromInt(9000)), "incurred %s", got.IncurredAmount)
	assert.True(t, got.ReserveAmount.Equal(decimal.NewFromInt(9000)))
	assert.True(t, got.RecoveredAmount.Equal(decimal.NewFromInt(300)))

	movements, err := ListMovementsByClaim(ctx, db, claim.ID)
	require.NoError(t, err)
	require.Len(t, movements, 4)
	assert.Equal(t, models.MovementTypeRecovery, movements[0].Type, "most recent date first")
	require.NotNil(t, movements[0].UserName)
	assert.Equal(t, testActor.UserName, *movements[0].UserName)
}

func TestCreateMovementValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, db, nil)

	tests := []struct {
		name  string
		input MovementInput
		field string
	}{
		{"zero amount", MovementInput{Type: models.MovementTypePayment, Coverage: models.CoverageBI, Amount: decimal.Zero, Date: "2024-03-01"}, "amount"},
		{"negative amount", MovementInput{Type: models.MovementTypePayment, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(-5), Date: "2024-03-01"}, "amount"},
		{"unknown type", MovementInput{Type: "Refund", Coverage: models.CoverageBI, Amount: decimal.NewFromInt(5), Date: "2024-03-01"}, "type"},
		{"unknown coverage", MovementInput{Type: models.MovementTypePayment, Coverage: "Cyber", Amount: decimal.NewFromInt(5), Date: "2024-03-01"}, "coverage"},
		{"missing date", MovementInput{Type: models.MovementTypePayment, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(5)}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateMovement(ctx, db, testActor, claim.ID, tt.input)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}

	t.Run("unknown claim", func(t *testing.T) {
		_, err := CreateMovement(ctx, db, testActor, "missing", MovementInput{
			Type: models.MovementTypePayment, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(5), Date: "2024-03-01",
		})
		assert.ErrorIs(t, err, ErrClaimNotFound)
	})
}

func TestDeleteMovementRecomputes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, db, nil)

	_, err := CreateMovement(ctx, db, testActor, claim.ID, MovementInput{
		Type: models.MovementTypeReserveIncrease, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(5000), Date: "2024-03-01",
	})
	require.NoError(t, err)
	payment, err := CreateMovement(ctx, db, testActor, claim.ID, MovementInput{
		Type: models.MovementTypePayment, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(2000), Date: "2024-03-02",
	})
	require.NoError(t, err)

	require.NoError(t, DeleteMovement(ctx, db, testActor, payment.ID))

	got, err := GetClaimByID(ctx, db, claim.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.IsZero())
	assert.True(t, got.OutstandingAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, got.IncurredAmount.Equal(decimal.NewFromInt(5000)))

	_, err = GetMovementByID(ctx, db, payment.ID)
	assert.ErrorIs(t, err, ErrMovementNotFound)
	assert.ErrorIs(t, DeleteMovement(ctx, db, testActor, payment.ID), ErrMovementNotFound)

	trail, err := GetClaimAuditTrail(ctx, db, claim.ID)
	require.NoError(t, err)
	actions := map[models.AuditAction]int{}
	for _, entry := range trail {
		if entry.ResourceType == models.AuditResourceMovement {
			actions[entry.Action]++
		}
	}
	assert.Equal(t, 2, actions[models.AuditActionCreate])
	assert.Equal(t, 1, actions[models.AuditActionDelete])
}

func TestRecalculateClaimFinancials(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, db, nil)

	_, err := CreateMovement(ctx, db, testActor, claim.ID, MovementInput{
		Type: models.MovementTypeReserveIncrease, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(700), Date: "2024-03-01",
	})
	require.NoError(t, err)

	// Simulate drift from a manual edit
	require.NoError(t, db.Model(&models.Claim{}).Where("id = ?", claim.ID).
		Update("incurred_amount", decimal.NewFromInt(1)).Error)

	financials, err := RecalculateClaimFinancials(ctx, db, testActor, claim.ID)
	require.NoError(t, err)
	assert.True(t, financials.Incurred.Equal(decimal.NewFromInt(700)))

	got, err := GetClaimByID(ctx, db, claim.ID)
	require.NoError(t, err)
	assert.True(t, got.IncurredAmount.Equal(decimal.NewFromInt(700)))

	_, err = RecalculateClaimFinancials(ctx, db, testActor, "missing")
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestListMovements(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	first := createTestClaim(t, db, nil)
	second := createTestClaim(t, db, nil)

	for _, claimID := range []string{first.ID, second.ID} {
		_, err := CreateMovement(ctx, db, testActor, claimID, MovementInput{
			Type: models.MovementTypeReserveIncrease, Coverage: models.CoverageBI, Amount: decimal.NewFromInt(10), Date: "2024-03-01",
		})
		require.NoError(t, err)
	}

	all, err := ListMovements(ctx, db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, m := range all {
		require.NotNil(t, m.Claim)
	}

	onlyFirst, err := ListMovementsByClaim(ctx, db, first.ID)
	require.NoError(t, err)
	assert.Len(t, onlyFirst, 1)
}
