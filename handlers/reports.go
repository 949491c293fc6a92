package handlers

import (
	"net/http"

	"claims_backoffice/db"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/pages"

	"github.com/labstack/echo/v4"
)

// ReportsPageHandler renders the KPI and breakdown report
func ReportsPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	now, loc := observer(c)

	summary, err := services.GetReportSummary(ctx, db.DB, now, loc)
	if err != nil {
		return pageError(c, err, "/reports")
	}
	return render(c, http.StatusOK, i18n.T(ctx, "reports.title"), "/reports", pages.ReportsPage(summary))
}

// GetReportSummaryHandler returns the report summary as JSON
func GetReportSummaryHandler(c echo.Context) error {
	now, loc := observer(c)
	summary, err := services.GetReportSummary(c.Request().Context(), db.DB, now, loc)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
