package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"Validation", &services.ValidationError{Fields: map[string]string{"title": "is required"}}, http.StatusUnprocessableEntity, `"title":"is required"`},
		{"Not found", services.ErrClaimNotFound, http.StatusNotFound, "not found"},
		{"Dependents", services.ErrClaimHasDependents, http.StatusConflict, "error"},
		{"Store failure", errors.New("disk on fire"), http.StatusInternalServerError, "Failed to process request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, rec := setupEcho(http.MethodGet, "/api/claims", nil)
			require.NoError(t, apiError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

func TestPageErrorRetryLink(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/claims?status=Open", nil)
	require.NoError(t, pageError(c, errors.New("boom"), "/claims"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/claims?status=Open"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestFormHelpers(t *testing.T) {
	form := url.Values{}
	form.Set("note", "")
	form.Set("amount", "12abc")
	form.Set("sum", "10,50")
	form.Set("title", "  Fire  ")
	c, _ := setupForm(http.MethodPost, "/", form)

	assert.True(t, isFormRequest(c))
	assert.True(t, wantsHTML(c))

	note := formString(c, "note")
	require.NotNil(t, note)
	assert.Equal(t, "", *note)
	assert.Nil(t, formString(c, "missing"))
	assert.Nil(t, formNonEmpty(c, "note"))
	assert.Equal(t, "Fire", *formNonEmpty(c, "title"))

	ve := &services.ValidationError{}
	sum := formDecimal(c, "sum", ve)
	require.NotNil(t, sum)
	assert.Equal(t, "10.5", sum.String())
	assert.Nil(t, formDecimal(c, "amount", ve))
	assert.Equal(t, "must be a number", ve.Fields["amount"])
	assert.Error(t, validationFailure(ve))
	assert.NoError(t, validationFailure(&services.ValidationError{}))
}

func TestIsFormRequestJSON(t *testing.T) {
	_, c, _ := setupEcho(http.MethodPost, "/api/claims", nil)
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.False(t, isFormRequest(c))
	assert.False(t, wantsHTML(c))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		locale string
		want   string
		ok     bool
	}{
		{"1500", "en", "1500", true},
		{"10,50", "en", "10.5", true},
		{"2000,25", "pt", "2000.25", true},
		{"1,234.56", "en", "1234.56", true},
		{"1.234,56", "en", "1234.56", true},
		{"1.234,56", "pt", "1234.56", true},
		{"1,234,567", "en", "1234567", true},
		{"1.234.567", "pt", "1234567", true},
		{"1,234", "en", "1234", true},
		{"1,234", "pt", "1.234", true},
		{"1.234", "pt", "1234", true},
		{"1.234", "en", "1.234", true},
		{"-1.234,5", "pt", "-1234.5", true},
		{"1 234,50", "pt", "1234.5", true},
		{"12,34,5", "en", "", false},
		{"1.234,5.6", "pt", "", false},
		{"1,23.4", "en", "", false},
		{"12abc", "en", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw, tt.locale)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
