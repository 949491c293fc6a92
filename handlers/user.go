package handlers

import (
	"net/http"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
)

// GetUsersHandler returns all backoffice users
func GetUsersHandler(c echo.Context) error {
	users, err := services.ListUsers(c.Request().Context(), db.DB)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUserHandler creates a user (admin only)
func CreateUserHandler(c echo.Context) error {
	var input services.UserInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	actx := middleware.GetAuditContext(c)
	user, err := services.CreateUser(c.Request().Context(), db.DB, actx, input)
	if err != nil {
		return apiError(c, err)
	}

	services.LogSecurityEvent("USER_CREATED", actx.UserID, "Created user: "+user.ID)
	return c.JSON(http.StatusCreated, user)
}

// UpdateUserHandler changes a user's name, role, status, language or password (admin only)
func UpdateUserHandler(c echo.Context) error {
	var input services.UserUpdate
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	actx := middleware.GetAuditContext(c)
	user, err := services.UpdateUser(c.Request().Context(), db.DB, actx, c.Param("id"), input)
	if err != nil {
		return apiError(c, err)
	}

	if input.Password != nil {
		services.LogSecurityEvent("PASSWORD_CHANGED", actx.UserID, "Password reset for user: "+user.ID)
	}
	if input.Role != nil || input.IsActive != nil {
		services.LogSecurityEvent("USER_UPDATED", actx.UserID, "Updated role or status of user: "+user.ID)
	}
	return c.JSON(http.StatusOK, user)
}

// GetCurrentUserHandler returns the authenticated user
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
