package middleware

import (
	"log"
	"net/http"

	"claims_backoffice/config"
	"claims_backoffice/models"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"

	authRealm = "Claims Backoffice"
)

// BasicAuth identifies the current user from HTTP Basic credentials (email and
// password). With auth disabled every request passes through anonymously.
// Failed attempts are counted per IP in failures.
func BasicAuth(cfg *config.Config, database *gorm.DB, failures *RateLimiter) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: authRealm,
		Skipper: func(c echo.Context) bool {
			return !cfg.AuthEnabled
		},
		Validator: func(email, password string, c echo.Context) (bool, error) {
			ip := c.RealIP()
			if failures.Blocked(ip) {
				services.LogSecurityEvent("LOGIN_THROTTLED", "", ip)
				return false, echo.NewHTTPError(http.StatusTooManyRequests, failures.Message())
			}

			user, err := services.AuthenticateUser(c.Request().Context(), database, email, password)
			if err != nil {
				if services.IsInvalidCredentials(err) {
					failures.Hit(ip)
					services.LogSecurityEvent("LOGIN_FAILED", "", "email="+email+" ip="+ip)
					return false, nil
				}
				log.Printf("[ERROR] Authenticating %s: %v", email, err)
				return false, echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed")
			}

			c.Set(ContextKeyUser, user)
			return true, nil
		},
	})
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			services.LogSecurityEvent("ACCESS_DENIED", user.ID, c.Request().Method+" "+c.Path())
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
