package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"claims_backoffice/config"
	"claims_backoffice/middleware"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/components"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// appConfig returns the config placed on the context by the server
func appConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok && cfg != nil {
		return cfg
	}
	return &config.Config{Timezone: "UTC"}
}

// observer returns the instant and timezone pages evaluate derived state at
func observer(c echo.Context) (time.Time, *time.Location) {
	loc := appConfig(c).Location()
	return time.Now().In(loc), loc
}

// isFormRequest reports whether the request was posted by an HTML form
func isFormRequest(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

// wantsHTML reports whether the client is a browser rather than an API consumer
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// render writes a full page with the given status
func render(c echo.Context, status int, title, active string, body templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return components.Layout(title, active, body).Render(c.Request().Context(), c.Response().Writer)
}

// redirect sends a form submission on to its result page
func redirect(c echo.Context, url string) error {
	return c.Redirect(http.StatusSeeOther, url)
}

// apiError maps a service error to a JSON response
func apiError(c echo.Context, err error) error {
	if ve, ok := services.AsValidationError(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	}
	if services.IsNotFound(err) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	if errors.Is(err, services.ErrClaimHasDependents) {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}

	log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process request"})
}

// pageError renders the not-found or error state for a page request
func pageError(c echo.Context, err error, active string) error {
	ctx := c.Request().Context()
	if services.IsNotFound(err) {
		return render(c, http.StatusNotFound, i18n.T(ctx, "common.not_found_title"), active, components.NotFound(active))
	}
	if errors.Is(err, services.ErrClaimHasDependents) {
		back := active
		if id := c.Param("id"); id != "" {
			back = active + "/" + id
		}
		return render(c, http.StatusConflict, i18n.T(ctx, "common.conflict_title"), active, components.Conflict("claims.has_dependents", back))
	}

	log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Path(), err)
	retry := c.Request().URL.RequestURI()
	if c.Request().Method != http.MethodGet {
		retry = active
	}
	return render(c, http.StatusInternalServerError, i18n.T(ctx, "common.error_title"), active, components.ErrorState(retry))
}

// formState echoes the submitted form values back with field errors
func formState(c echo.Context, fields ...string) components.FormState {
	form := components.NewFormState()
	for _, name := range fields {
		form.Set(name, c.FormValue(name))
	}
	return form
}

func withErrors(form components.FormState, err error) components.FormState {
	if ve, ok := services.AsValidationError(err); ok {
		for field, msg := range ve.Fields {
			form.Errors[field] = msg
		}
	}
	return form
}

// formString returns a pointer to the field value, nil when absent from the form
func formString(c echo.Context, name string) *string {
	values, err := c.FormParams()
	if err != nil {
		return nil
	}
	if _, ok := values[name]; !ok {
		return nil
	}
	v := c.FormValue(name)
	return &v
}

// formNonEmpty returns a pointer to the field value, nil when blank
func formNonEmpty(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return nil
	}
	return &v
}

// formDecimal parses a money field in the request locale. Blank values yield nil, unparsable ones a field error.
func formDecimal(c echo.Context, name string, ve *services.ValidationError) *decimal.Decimal {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return nil
	}
	d, err := parseAmount(raw, middleware.GetLocale(c))
	if err != nil {
		ve.Add(name, "must be a number")
		return nil
	}
	return &d
}

// parseAmount accepts "1234.5", "1,234.50" and "1.234,50". When both separators
// appear the last one is the decimal mark. A lone separator followed by exactly
// three digits is read as grouping when it is the locale's grouping mark.
func parseAmount(raw, locale string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, " ", "")
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	var decimalMark, groupMark string
	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalMark, groupMark = ".", ","
		if lastComma > lastDot {
			decimalMark, groupMark = ",", "."
		}
	case lastComma >= 0 || lastDot >= 0:
		mark := ","
		if lastDot >= 0 {
			mark = "."
		}
		localeGroup := ","
		if locale == "pt" {
			localeGroup = "."
		}
		after := s[strings.LastIndex(s, mark)+1:]
		if strings.Count(s, mark) > 1 || (len(after) == 3 && mark == localeGroup) {
			groupMark = mark
		} else {
			decimalMark = mark
		}
	}

	if groupMark != "" {
		if err := checkGrouping(s, groupMark, decimalMark); err != nil {
			return decimal.Decimal{}, err
		}
		s = strings.ReplaceAll(s, groupMark, "")
	}
	if decimalMark != "" {
		if strings.Count(s, decimalMark) > 1 {
			return decimal.Decimal{}, fmt.Errorf("amount %q has more than one decimal mark", raw)
		}
		s = strings.Replace(s, decimalMark, ".", 1)
	}
	return decimal.NewFromString(s)
}

// checkGrouping requires every group after the first to hold three digits
func checkGrouping(s, groupMark, decimalMark string) error {
	integer := s
	if decimalMark != "" {
		if i := strings.Index(s, decimalMark); i >= 0 {
			if strings.Contains(s[i:], groupMark) {
				return fmt.Errorf("grouping mark after decimal mark in %q", s)
			}
			integer = s[:i]
		}
	}
	groups := strings.Split(strings.TrimPrefix(integer, "-"), groupMark)
	if groups[0] == "" || len(groups[0]) > 3 {
		return fmt.Errorf("malformed grouping in %q", s)
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return fmt.Errorf("malformed grouping in %q", s)
		}
	}
	return nil
}

// validationFailure returns ve as an error only when a field was rejected
func validationFailure(ve *services.ValidationError) error {
	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}
