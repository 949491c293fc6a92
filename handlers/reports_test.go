package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"claims_backoffice/models"
	"claims_backoffice/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReportSummaryHandler(t *testing.T) {
	database := setupTestDB(t)
	policy := createTestPolicy(t, database, "POL-REP")
	claim := createTestClaim(t, database, &policy.ID)
	_, err := services.CreateMovement(context.Background(), database, testActor, claim.ID, services.MovementInput{
		Type:     models.MovementTypeReserveIncrease,
		Coverage: models.CoverageMaterialDamage,
		Amount:   decimal.NewFromInt(4000),
		Date:     "2024-03-05",
	})
	require.NoError(t, err)

	_, c, rec := setupEcho(http.MethodGet, "/api/reports/summary", nil)
	require.NoError(t, GetReportSummaryHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary services.ReportSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.KPIs.TotalClaims)
	assert.Equal(t, 1, summary.KPIs.TotalPolicies)
	assert.Len(t, summary.ClaimsByMonth, 1)
	require.Len(t, summary.RecentClaims, 1)
	require.Len(t, summary.RecentPolicies, 1)
}

func TestReportsPageHandler(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/reports", nil)
	require.NoError(t, ReportsPageHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reports")
}
