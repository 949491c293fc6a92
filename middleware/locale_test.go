package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"claims_backoffice/config"
	"claims_backoffice/models"
	"claims_backoffice/services/i18n"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestLocale(t *testing.T) {
	e := echo.New()
	cfg := &config.Config{Environment: "development"}

	run := func(t *testing.T, req *http.Request, setup func(c echo.Context)) (echo.Context, *httptest.ResponseRecorder) {
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if setup != nil {
			setup(c)
		}
		handler := Locale(cfg)(func(c echo.Context) error {
			assert.Equal(t, GetLocale(c), i18n.GetLocale(c.Request().Context()))
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		return c, rec
	}

	t.Run("PriorityQueryParam", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lang=pt", nil)
		req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
		c, rec := run(t, req, nil)

		assert.Equal(t, "pt", GetLocale(c))
		cookie := findCookie(rec, "lang")
		require.NotNil(t, cookie)
		assert.Equal(t, "pt", cookie.Value)
	})

	t.Run("UnsupportedQueryParam", func(t *testing.T) {
		c, rec := run(t, httptest.NewRequest(http.MethodGet, "/?lang=de", nil), nil)
		assert.Equal(t, "en", GetLocale(c))
		assert.Equal(t, "en", findCookie(rec, "lang").Value)
	})

	t.Run("PriorityCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "lang", Value: "pt"})
		req.Header.Set("Accept-Language", "en-US")
		c, _ := run(t, req, nil)
		assert.Equal(t, "pt", GetLocale(c))
	})

	t.Run("UserPreference", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "en-US")
		c, _ := run(t, req, func(c echo.Context) {
			c.Set(ContextKeyUser, &models.User{ID: "u1", Language: "pt"})
		})
		assert.Equal(t, "pt", GetLocale(c))
	})

	t.Run("PriorityHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "de-DE,pt-BR;q=0.9,en;q=0.8")
		c, _ := run(t, req, nil)
		assert.Equal(t, "pt", GetLocale(c))
	})

	t.Run("DefaultLanguage", func(t *testing.T) {
		c, rec := run(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
		assert.Equal(t, "en", GetLocale(c))
		assert.Nil(t, findCookie(rec, "lang"))
	})
}

func TestSetLanguageCookie(t *testing.T) {
	e := echo.New()

	t.Run("Development", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set("config", &config.Config{Environment: "development"})

		SetLanguageCookie(c, "pt")

		cookie := findCookie(rec, "lang")
		require.NotNil(t, cookie)
		assert.Equal(t, "pt", cookie.Value)
		assert.False(t, cookie.Secure)
	})

	t.Run("Production", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set("config", &config.Config{Environment: "production"})

		SetLanguageCookie(c, "en")

		cookie := findCookie(rec, "lang")
		require.NotNil(t, cookie)
		assert.True(t, cookie.Secure)
	})
}

func TestGetLocale(t *testing.T) {
	e := echo.New()

	c := e.NewContext(nil, nil)
	assert.Equal(t, "en", GetLocale(c))

	c.Set("locale", "pt")
	assert.Equal(t, "pt", GetLocale(c))
}
