package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"claims_backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsPageHandler(t *testing.T) {
	database := setupTestDB(t)
	claim := createTestClaim(t, database, nil)

	_, c, rec := setupEcho(http.MethodGet, "/claims", nil)
	require.NoError(t, ClaimsPageHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Claims")
	assert.Contains(t, rec.Body.String(), claim.ClaimNumber)
}

func TestClaimDetailPageHandler(t *testing.T) {
	database := setupTestDB(t)
	claim := createTestClaim(t, database, nil)
	createTestActivity(t, database, claim.ID)

	t.Run("Found", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/claims/"+claim.ID, nil)
		withParam(c, "id", claim.ID)

		require.NoError(t, ClaimDetailPageHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Burst pipe in warehouse")
		assert.Contains(t, body, "Site inspection")
		assert.Contains(t, body, "N/A")
	})

	t.Run("Missing", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/claims/missing", nil)
		withParam(c, "id", "missing")

		require.NoError(t, ClaimDetailPageHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Back to list")
	})
}

func TestCreateClaimHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("JSON", func(t *testing.T) {
		body := `{"title":"Fire in kitchen","currency":"USD","reported_date":"2024-05-02","cause_of_loss":"Fire"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/claims", strings.NewReader(body))

		require.NoError(t, CreateClaimHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.True(t, strings.HasPrefix(created["claim_number"].(string), "CLM-"))
		assert.Equal(t, models.ClaimStatusOpen, created["status"])
		assert.Equal(t, "Tester", created["created_by"])
	})

	t.Run("JSON validation", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/claims", strings.NewReader(`{"currency":"EUR"}`))

		require.NoError(t, CreateClaimHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "validation failed", resp.Error)
		assert.Equal(t, "is required", resp.Fields["title"])
		assert.Contains(t, resp.Fields, "currency")
		assert.Contains(t, resp.Fields, "reported_date")
	})

	t.Run("Form redirects to the claim", func(t *testing.T) {
		form := url.Values{}
		form.Set("title", "Stolen laptops")
		form.Set("currency", models.CurrencyBRL)
		form.Set("reported_date", "2024-06-01")
		form.Set("policy_id", "")
		c, rec := setupForm(http.MethodPost, "/api/claims", form)

		require.NoError(t, CreateClaimHandler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/claims/"))
	})

	t.Run("Form errors re-render the form", func(t *testing.T) {
		form := url.Values{}
		form.Set("title", "")
		form.Set("insured_name", "<b>Acme</b>")
		form.Set("currency", models.CurrencyBRL)
		form.Set("reported_date", "2024-06-01")
		c, rec := setupForm(http.MethodPost, "/api/claims", form)

		require.NoError(t, CreateClaimHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Please correct the highlighted fields")
		assert.Contains(t, body, "&lt;b&gt;Acme&lt;/b&gt;")
		assert.NotContains(t, body, "<b>Acme</b>")
	})
}

func TestUpdateClaimHandler(t *testing.T) {
	database := setupTestDB(t)
	claim := createTestClaim(t, database, nil)

	t.Run("Closing stamps date_closed", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/api/claims/"+claim.ID, strings.NewReader(`{"status":"Closed"}`))
		withParam(c, "id", claim.ID)

		require.NoError(t, UpdateClaimHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, models.ClaimStatusClosed, updated["status"])
		assert.NotNil(t, updated["date_closed"])
	})

	t.Run("Form update keeps the number when left blank", func(t *testing.T) {
		form := url.Values{}
		form.Set("claim_number", "")
		form.Set("title", "Burst pipe, second floor")
		form.Set("status", models.ClaimStatusOpen)
		form.Set("reported_date", "2024-03-02")
		c, rec := setupForm(http.MethodPut, "/api/claims/"+claim.ID, form)
		withParam(c, "id", claim.ID)

		require.NoError(t, UpdateClaimHandler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		var stored models.Claim
		require.NoError(t, database.First(&stored, "id = ?", claim.ID).Error)
		assert.Equal(t, claim.ClaimNumber, stored.ClaimNumber)
		assert.Equal(t, "Burst pipe, second floor", stored.Title)
		assert.Nil(t, stored.DateClosed)
	})

	t.Run("Missing", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/api/claims/missing", strings.NewReader(`{"title":"x"}`))
		withParam(c, "id", "missing")

		require.NoError(t, UpdateClaimHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteClaimHandler(t *testing.T) {
	database := setupTestDB(t)
	withActivity := createTestClaim(t, database, nil)
	createTestActivity(t, database, withActivity.ID)
	empty := createTestClaim(t, database, nil)

	t.Run("Blocked by dependents", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/claims/"+withActivity.ID, nil)
		withParam(c, "id", withActivity.ID)

		require.NoError(t, DeleteClaimHandler(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Blocked from the page", func(t *testing.T) {
		c, rec := setupForm(http.MethodDelete, "/api/claims/"+withActivity.ID, url.Values{"_method": {"DELETE"}})
		withParam(c, "id", withActivity.ID)

		require.NoError(t, DeleteClaimHandler(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Cannot delete")
	})

	t.Run("Deleted", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/claims/"+empty.ID, nil)
		withParam(c, "id", empty.ID)

		require.NoError(t, DeleteClaimHandler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, c, rec = setupEcho(http.MethodGet, "/api/claims/"+empty.ID, nil)
		withParam(c, "id", empty.ID)
		require.NoError(t, GetClaimHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetClaimsHandler(t *testing.T) {
	database := setupTestDB(t)
	policy := createTestPolicy(t, database, "POL-1")
	linked := createTestClaim(t, database, &policy.ID)
	createTestClaim(t, database, nil)

	_, c, rec := setupEcho(http.MethodGet, "/api/claims?policy_id="+policy.ID, nil)
	require.NoError(t, GetClaimsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var claims []models.Claim
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	require.Len(t, claims, 1)
	assert.Equal(t, linked.ID, claims[0].ID)
	require.NotNil(t, claims[0].Policy)
	assert.Equal(t, "POL-1", claims[0].Policy.PolicyNumber)

	_, c, rec = setupEcho(http.MethodGet, "/api/claims/by-number/"+linked.ClaimNumber, nil)
	withParam(c, "number", linked.ClaimNumber)
	require.NoError(t, GetClaimByNumberHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetClaimAuditHandler(t *testing.T) {
	database := setupTestDB(t)
	claim := createTestClaim(t, database, nil)
	createTestActivity(t, database, claim.ID)

	_, c, rec := setupEcho(http.MethodGet, "/api/claims/"+claim.ID+"/audit", nil)
	withParam(c, "id", claim.ID)
	require.NoError(t, GetClaimAuditHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []models.AuditLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}
