package middleware

import (
	"net/http"
	"strings"
	"time"

	"claims_backoffice/config"
	"claims_backoffice/services/i18n"

	"github.com/labstack/echo/v4"
)

const (
	langCookieName   = "lang"
	contextKeyLocale = "locale"
)

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. The authenticated user's preferred language
// 4. Accept-Language header
// 5. Default ("en")
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" {
				if !i18n.IsSupported(lang) {
					lang = "en"
				}
				setLanguageCookie(c, cfg, lang)
			} else if cookie, err := c.Cookie(langCookieName); err == nil && i18n.IsSupported(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				if user := GetCurrentUser(c); user != nil && i18n.IsSupported(user.Language) {
					lang = user.Language
				}
			}

			if lang == "" {
				lang = languageFromHeader(c.Request().Header.Get("Accept-Language"))
			}

			c.Set(contextKeyLocale, lang)

			// Templ components read the locale from the request context
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// languageFromHeader picks the first supported language of an Accept-Language header
func languageFromHeader(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if i18n.IsSupported(base) {
			return base
		}
	}
	return "en"
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string) {
	cfg, _ := c.Get("config").(*config.Config)
	setLanguageCookie(c, cfg, lang)
}

func setLanguageCookie(c echo.Context, cfg *config.Config, lang string) {
	cookie := new(http.Cookie)
	cookie.Name = langCookieName
	cookie.Value = lang
	cookie.Expires = time.Now().Add(24 * 365 * time.Hour) // 1 year
	cookie.Path = "/"
	cookie.HttpOnly = true
	cookie.SameSite = http.SameSiteLaxMode
	if cfg != nil && cfg.IsProduction() {
		cookie.Secure = true
	}
	c.SetCookie(cookie)
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get(contextKeyLocale).(string); ok {
		return lang
	}
	return "en"
}
