package handlers

import (
	"net/http"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
)

// GetExclusionsHandler returns the exclusion catalog
func GetExclusionsHandler(c echo.Context) error {
	exclusions, err := services.ListExclusions(c.Request().Context(), db.DB)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, exclusions)
}

// CreateExclusionHandler adds an exclusion to the catalog
func CreateExclusionHandler(c echo.Context) error {
	var input services.ExclusionInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	exclusion, err := services.CreateExclusion(c.Request().Context(), db.DB, middleware.GetAuditContext(c), input)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, exclusion)
}

// UpdateExclusionHandler rewrites an exclusion's title and description
func UpdateExclusionHandler(c echo.Context) error {
	var input services.ExclusionInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	exclusion, err := services.UpdateExclusion(c.Request().Context(), db.DB, middleware.GetAuditContext(c), c.Param("id"), input)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, exclusion)
}

// DeleteExclusionHandler removes an exclusion and its policy assignments
func DeleteExclusionHandler(c echo.Context) error {
	if err := services.DeleteExclusion(c.Request().Context(), db.DB, middleware.GetAuditContext(c), c.Param("id")); err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
