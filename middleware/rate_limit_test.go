package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.Message())
}

func TestRateLimiterHitAndBlocked(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
	rl.now = func() time.Time { return now }

	assert.False(t, rl.Blocked("10.0.0.1"))
	assert.Equal(t, 1, rl.Hit("10.0.0.1"))
	assert.False(t, rl.Blocked("10.0.0.1"))
	assert.Equal(t, 2, rl.Hit("10.0.0.1"))
	assert.True(t, rl.Blocked("10.0.0.1"))
	assert.False(t, rl.Blocked("10.0.0.2"))

	// A new window starts once the old one expires
	now = now.Add(61 * time.Second)
	assert.False(t, rl.Blocked("10.0.0.1"))
	assert.Equal(t, 1, rl.Hit("10.0.0.1"))
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 2,
			Window:   time.Minute,
		})

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/policies/import", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
			Message:  "Too many uploads.",
		})

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.NoError(t, handler(c))

		req = httptest.NewRequest(http.MethodPost, "/", nil)
		c = e.NewContext(req, httptest.NewRecorder())
		err := handler(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
		assert.Equal(t, "Too many uploads.", he.Message)
	})
}
