package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"claims_backoffice/db"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/pages"

	"github.com/labstack/echo/v4"
)

const searchPageLimit = 20

// SearchHandler searches claims, policies and activities
// GET /api/search?q=keyword&limit=10
func SearchHandler(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	results, err := services.Search(c.Request().Context(), db.DB, c.QueryParam("q"), limit)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

// SearchPageHandler renders search results for the top bar search box
func SearchPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	query := strings.TrimSpace(c.QueryParam("q"))

	var results []services.SearchResult
	if query != "" {
		var err error
		if results, err = services.Search(ctx, db.DB, query, searchPageLimit); err != nil {
			return pageError(c, err, "/search")
		}
	}
	return render(c, http.StatusOK, i18n.T(ctx, "nav.search"), "/search", pages.SearchPage(query, results))
}
