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

func TestPoliciesPageHandler(t *testing.T) {
	database := setupTestDB(t)
	createTestPolicy(t, database, "POL-LIST-1")

	_, c, rec := setupEcho(http.MethodGet, "/policies?q=list", nil)

	require.NoError(t, PoliciesPageHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POL-LIST-1")
}

func TestPolicyDetailPageHandler(t *testing.T) {
	database := setupTestDB(t)
	policy := createTestPolicy(t, database, "POL-DETAIL")
	claim := createTestClaim(t, database, &policy.ID)

	_, c, rec := setupEcho(http.MethodGet, "/policies/"+policy.ID, nil)
	withParam(c, "id", policy.ID)

	require.NoError(t, PolicyDetailPageHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), claim.ClaimNumber)

	_, c, rec = setupEcho(http.MethodGet, "/policies/missing", nil)
	withParam(c, "id", "missing")
	require.NoError(t, PolicyDetailPageHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePolicyHandler(t *testing.T) {
	database := setupTestDB(t)
	exclusion, err := services.CreateExclusion(context.Background(), database, testActor, services.ExclusionInput{Title: "Flood"})
	require.NoError(t, err)

	t.Run("JSON", func(t *testing.T) {
		body := `{"policy_number":"POL-JSON","period_start":"2024-01-01","period_end":"2024-12-31","named_insured":"Globex","sum_insured":"250000"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/policies", strings.NewReader(body))

		require.NoError(t, CreatePolicyHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Policy
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "POL-JSON", created.PolicyNumber)
		assert.Equal(t, models.PolicyCoverageAllRisksProperty, created.CoverageType)
	})

	t.Run("Duplicate number", func(t *testing.T) {
		body := `{"policy_number":"POL-JSON","period_start":"2024-01-01","period_end":"2024-12-31","named_insured":"Globex","sum_insured":"1"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/policies", strings.NewReader(body))

		require.NoError(t, CreatePolicyHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "policy_number")
	})

	t.Run("Form with exclusions", func(t *testing.T) {
		form := url.Values{}
		form.Set("policy_number", "POL-FORM")
		form.Set("period_start", "2024-02-01")
		form.Set("period_end", "2025-01-31")
		form.Set("named_insured", "Initech")
		form.Set("sum_insured", "1500,50")
		form.Set("coverage_type", models.PolicyCoverageAllRisksProperty)
		form.Add("exclusion_ids", exclusion.ID)
		c, rec := setupForm(http.MethodPost, "/api/policies", form)

		require.NoError(t, CreatePolicyHandler(c))
		require.Equal(t, http.StatusSeeOther, rec.Code)

		policy, err := services.GetPolicyByNumber(context.Background(), database, "POL-FORM")
		require.NoError(t, err)
		assert.Equal(t, "/policies/"+policy.ID, rec.Header().Get("Location"))
		assert.True(t, policy.SumInsured.Equal(decimal.RequireFromString("1500.50")))
		require.Len(t, policy.Exclusions, 1)
		assert.Equal(t, "Flood", policy.Exclusions[0].Title)
	})

	t.Run("Form with a bad amount", func(t *testing.T) {
		form := url.Values{}
		form.Set("policy_number", "POL-BAD")
		form.Set("sum_insured", "a lot")
		c, rec := setupForm(http.MethodPost, "/api/policies", form)

		require.NoError(t, CreatePolicyHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "must be a number")
		assert.Contains(t, rec.Body.String(), "POL-BAD")
	})
}

func TestUpdatePolicyHandler(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	deductible := decimal.NewFromInt(500)
	policy, err := services.CreatePolicy(ctx, database, testActor, services.PolicyInput{
		PolicyNumber: "POL-UPD",
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-12-31",
		NamedInsured: "Acme Ltda",
		SumInsured:   decimal.NewFromInt(1000),
		Deductible:   &deductible,
	})
	require.NoError(t, err)

	t.Run("Blank deductible clears it", func(t *testing.T) {
		form := url.Values{}
		form.Set("policy_number", "POL-UPD")
		form.Set("named_insured", "Acme SA")
		form.Set("sum_insured", "2000")
		form.Set("deductible", "")
		c, rec := setupForm(http.MethodPut, "/api/policies/"+policy.ID, form)
		withParam(c, "id", policy.ID)

		require.NoError(t, UpdatePolicyHandler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		stored, err := services.GetPolicyByID(ctx, database, policy.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme SA", stored.NamedInsured)
		assert.Nil(t, stored.Deductible)
		assert.True(t, stored.SumInsured.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("Period end before start", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/api/policies/"+policy.ID, strings.NewReader(`{"period_end":"2023-01-01"}`))
		withParam(c, "id", policy.ID)

		require.NoError(t, UpdatePolicyHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "period_end")
	})
}

func TestDeletePolicyHandlerDetachesClaims(t *testing.T) {
	database := setupTestDB(t)
	policy := createTestPolicy(t, database, "POL-DEL")
	claim := createTestClaim(t, database, &policy.ID)

	c, rec := setupForm(http.MethodDelete, "/api/policies/"+policy.ID, url.Values{"_method": {"DELETE"}})
	withParam(c, "id", policy.ID)

	require.NoError(t, DeletePolicyHandler(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/policies", rec.Header().Get("Location"))

	var stored models.Claim
	require.NoError(t, database.First(&stored, "id = ?", claim.ID).Error)
	assert.Nil(t, stored.PolicyID)
}

func TestGetPolicyByNumberHandler(t *testing.T) {
	database := setupTestDB(t)
	createTestPolicy(t, database, "POL-NUM")

	_, c, rec := setupEcho(http.MethodGet, "/api/policies/by-number/POL-NUM", nil)
	withParam(c, "number", "POL-NUM")
	require.NoError(t, GetPolicyByNumberHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, c, rec = setupEcho(http.MethodGet, "/api/policies/by-number/NOPE", nil)
	withParam(c, "number", "NOPE")
	require.NoError(t, GetPolicyByNumberHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
