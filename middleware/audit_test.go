package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"claims_backoffice/models"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("AuthenticatedUser", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "test-agent")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		user := &models.User{ID: "user-123", Name: "Ana Souza", Role: models.RoleClaimsManager}
		c.Set(ContextKeyUser, user)

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		err := handler(c)
		assert.NoError(t, err)

		auditCtx := GetAuditContext(c)
		assert.Equal(t, "user-123", auditCtx.UserID)
		assert.Equal(t, "Ana Souza", auditCtx.UserName)
		assert.Equal(t, models.RoleClaimsManager, auditCtx.UserRole)
		assert.Equal(t, "test-agent", auditCtx.UserAgent)
		assert.Equal(t, "Ana Souza", auditCtx.Actor())
	})

	t.Run("Anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		err := handler(c)
		assert.NoError(t, err)

		auditCtx := GetAuditContext(c)
		assert.Empty(t, auditCtx.UserID)
		assert.NotEmpty(t, auditCtx.IPAddress)
	})
}

func TestGetAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("Exists", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		expected := services.AuditContext{UserID: "123"}
		c.Set(ContextKeyAuditContext, expected)

		assert.Equal(t, expected, GetAuditContext(c))
	})

	t.Run("NotExists", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "curl")
		c := e.NewContext(req, httptest.NewRecorder())

		result := GetAuditContext(c)
		assert.Empty(t, result.UserID)
		assert.Equal(t, "curl", result.UserAgent)
	})
}
