package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"claims_backoffice/models"
	"claims_backoffice/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMovementHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, database, nil)

	t.Run("JSON refreshes the claim rollup", func(t *testing.T) {
		body := `{"type":"ReserveIncrease","coverage":"MaterialDamage","amount":"12000","date":"2024-03-05"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/claims/"+claim.ID+"/movements", strings.NewReader(body))
		withParam(c, "id", claim.ID)

		require.NoError(t, CreateMovementHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		stored, err := services.GetClaimByID(ctx, database, claim.ID)
		require.NoError(t, err)
		assert.True(t, stored.OutstandingAmount.Equal(decimal.NewFromInt(12000)))
		assert.True(t, stored.IncurredAmount.Equal(decimal.NewFromInt(12000)))
	})

	t.Run("Form payment", func(t *testing.T) {
		form := url.Values{}
		form.Set("type", models.MovementTypePayment)
		form.Set("coverage", models.CoverageMaterialDamage)
		form.Set("amount", "2000,25")
		form.Set("date", "2024-03-10")
		form.Set("note", "First installment")
		c, rec := setupForm(http.MethodPost, "/api/claims/"+claim.ID+"/movements", form)
		withParam(c, "id", claim.ID)

		require.NoError(t, CreateMovementHandler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/claims/"+claim.ID, rec.Header().Get("Location"))

		stored, err := services.GetClaimByID(ctx, database, claim.ID)
		require.NoError(t, err)
		assert.True(t, stored.PaidAmount.Equal(decimal.RequireFromString("2000.25")))
		assert.True(t, stored.IncurredAmount.Equal(stored.PaidAmount.Add(stored.OutstandingAmount)))
	})

	t.Run("Form without amount", func(t *testing.T) {
		form := url.Values{}
		form.Set("type", models.MovementTypePayment)
		form.Set("coverage", models.CoverageMaterialDamage)
		form.Set("date", "2024-03-10")
		c, rec := setupForm(http.MethodPost, "/api/claims/"+claim.ID+"/movements", form)
		withParam(c, "id", claim.ID)

		require.NoError(t, CreateMovementHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "amount is required")
		assert.Contains(t, rec.Body.String(), claim.ClaimNumber)
	})

	t.Run("Unknown type", func(t *testing.T) {
		body := `{"type":"Bonus","coverage":"MaterialDamage","amount":"1","date":"2024-03-05"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/claims/"+claim.ID+"/movements", strings.NewReader(body))
		withParam(c, "id", claim.ID)

		require.NoError(t, CreateMovementHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"type"`)
	})
}

func TestDeleteMovementHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, database, nil)
	movement, err := services.CreateMovement(ctx, database, testActor, claim.ID, services.MovementInput{
		Type:     models.MovementTypeReserveIncrease,
		Coverage: models.CoverageStock,
		Amount:   decimal.NewFromInt(800),
		Date:     "2024-03-05",
	})
	require.NoError(t, err)

	_, c, rec := setupEcho(http.MethodDelete, "/api/movements/"+movement.ID, nil)
	withParam(c, "id", movement.ID)
	require.NoError(t, DeleteMovementHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := services.GetClaimByID(ctx, database, claim.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingAmount.IsZero())

	_, c, rec = setupEcho(http.MethodGet, "/api/movements", nil)
	require.NoError(t, GetMovementsHandler(c))
	var movements []models.Movement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movements))
	assert.Empty(t, movements)
}
