package handlers

import (
	"log"
	"net/http"
	"net/url"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
)

// SetLanguageHandler switches the interface language and returns to the previous page.
// The locale middleware has already stored the cookie for ?lang=.
func SetLanguageHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)

	if user := middleware.GetCurrentUser(c); user != nil && user.Language != lang {
		if _, err := services.UpdateUser(c.Request().Context(), db.DB, middleware.GetAuditContext(c), user.ID, services.UserUpdate{Language: &lang}); err != nil {
			log.Printf("[WARNING] Failed to save language for user %s: %v", user.ID, err)
		}
	}

	return c.Redirect(http.StatusSeeOther, localReferer(c))
}

// localReferer returns the path of the referring page when it belongs to this host
func localReferer(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return "/claims"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
