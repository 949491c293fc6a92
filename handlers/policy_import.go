package handlers

import (
	"fmt"
	"net/http"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/pages"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetPolicyImportTemplateHandler serves the import spreadsheet in the request language
func GetPolicyImportTemplateHandler(c echo.Context) error {
	ctx := c.Request().Context()

	buf, err := services.BuildPolicyImportTemplate(ctx)
	if err != nil {
		return apiError(c, err)
	}

	filename := fmt.Sprintf("policy_import_template_%s.xlsx", i18n.GetLocale(ctx))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportPoliciesHandler creates policies from an uploaded xlsx, one per row
func ImportPoliciesHandler(c echo.Context) error {
	ctx := c.Request().Context()

	file, err := c.FormFile("file")
	if err != nil {
		return apiError(c, &services.ValidationError{Fields: map[string]string{"file": "is required"}})
	}
	src, err := file.Open()
	if err != nil {
		return apiError(c, err)
	}
	defer src.Close()

	result, err := services.ImportPolicies(ctx, db.DB, middleware.GetAuditContext(c), src)
	if err != nil {
		return apiError(c, err)
	}

	if wantsHTML(c) {
		return render(c, http.StatusOK, i18n.T(ctx, "policies.import.result_title"), "/policies", pages.ImportResultPage(result))
	}
	return c.JSON(http.StatusOK, result)
}
