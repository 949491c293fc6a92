package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"claims_backoffice/middleware"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGetPolicyImportTemplateHandler(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/policies/import/template?lang=pt", nil)
	handler := middleware.Locale(appConfig(c))(GetPolicyImportTemplateHandler)

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "policy_import_template_pt.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Apolices")
}

func TestImportPoliciesHandler(t *testing.T) {
	setupTestDB(t)

	_, c, _ := setupEcho(http.MethodGet, "/", nil)
	template, err := services.BuildPolicyImportTemplate(c.Request().Context())
	require.NoError(t, err)

	t.Run("JSON summary", func(t *testing.T) {
		c, rec := setupUpload(t, "/api/policies/import", "policies.xlsx", template.Bytes(), false)

		require.NoError(t, ImportPoliciesHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var result services.ImportResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result.TotalProcessed)
		assert.Equal(t, 1, result.SuccessCount)
	})

	t.Run("Result page lists row errors", func(t *testing.T) {
		c, rec := setupUpload(t, "/api/policies/import", "policies.xlsx", template.Bytes(), true)

		require.NoError(t, ImportPoliciesHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "policy_number already exists")
	})

	t.Run("Not a workbook", func(t *testing.T) {
		c, rec := setupUpload(t, "/api/policies/import", "policies.xlsx", []byte("plain text"), false)

		require.NoError(t, ImportPoliciesHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
