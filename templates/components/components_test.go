package components

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services/i18n"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func renderString(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestBadgeEscapesLabel(t *testing.T) {
	html := renderString(t, context.Background(), Badge(`<script>alert(1)</script>`, ""))
	assert.Contains(t, html, `class="badge badge-neutral"`)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestErrorStateOffersRetry(t *testing.T) {
	require.NoError(t, i18n.Load())

	html := renderString(t, context.Background(), ErrorState("/claims?status=Open"))
	assert.Contains(t, html, "Try Again")
	assert.Contains(t, html, `href="/claims?status=Open"`)

	html = renderString(t, context.Background(), ErrorState("javascript:alert(1)"))
	assert.NotContains(t, html, "javascript:")
}

func TestBadgesAreTranslated(t *testing.T) {
	require.NoError(t, i18n.Load())
	pt := i18n.WithLocale(context.Background(), "pt")

	assert.Contains(t, renderString(t, pt, NotFound("/claims")), "Voltar para a lista")
	assert.Contains(t, renderString(t, context.Background(), SLABadge(models.SLAOverdue, -3)), "Overdue (3 days)")
	assert.Contains(t, renderString(t, pt, SLABadge(models.SLAAtRisk, 1)), "(1 dias)")
	assert.Contains(t, renderString(t, context.Background(), SLABadge(models.SLAOnTrack, 9)), "badge-success")
	assert.Contains(t, renderString(t, context.Background(), ClaimStatusBadge("Bogus")), "Unknown")
}

func TestValidationSummary(t *testing.T) {
	require.NoError(t, i18n.Load())

	assert.Empty(t, renderString(t, context.Background(), ValidationSummary(nil)))

	html := renderString(t, context.Background(), ValidationSummary(map[string]string{
		"title":    "is required",
		"currency": "must be one of BRL, USD, GBP",
	}))
	assert.Contains(t, html, "Please correct the highlighted fields")
	assert.Less(t, bytes.Index([]byte(html), []byte("currency")), bytes.Index([]byte(html), []byte("title")))
}

func TestInputMarksInvalidField(t *testing.T) {
	require.NoError(t, i18n.Load())
	form := NewFormState()
	form.Set("title", `"quoted"`)
	form.Errors["title"] = "is required"

	html := renderString(t, context.Background(), Input("title", "claims.claim_title", "text", true, form))
	assert.Contains(t, html, "field-invalid")
	assert.Contains(t, html, "&#34;quoted&#34;")
	assert.Contains(t, html, `<small class="error">is required</small>`)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   decimal.Decimal
		currency string
		want     string
	}{
		{decimal.RequireFromString("1234.5"), models.CurrencyBRL, "R$ 1234.50"},
		{decimal.Zero, models.CurrencyUSD, "US$ 0.00"},
		{decimal.NewFromInt(7), models.CurrencyGBP, "£ 7.00"},
		{decimal.NewFromInt(7), "EUR", "EUR 7.00"},
		{decimal.NewFromInt(7), "", "7.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.amount, tt.currency))
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "2024-03-02", FormatDate(datatypes.Date(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))))
	assert.Equal(t, models.NotAvailable, FormatDate(datatypes.Date(time.Time{})))
	assert.Equal(t, models.NotAvailable, FormatOptionalDate(nil))

	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	stamp := time.Date(2024, 3, 2, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01 22:30", FormatTimestamp(stamp, sp))

	assert.Equal(t, "66.7%", FormatPercent(2.0/3.0))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.50 KB", FormatFileSize(1536))
	assert.Equal(t, "2.00 MB", FormatFileSize(2*1024*1024))
}

func TestLayoutMarksActiveNavigation(t *testing.T) {
	require.NoError(t, i18n.Load())
	ctx := i18n.WithLocale(context.Background(), "pt")

	html := renderString(t, ctx, Layout("Sinistros", "/claims", Badge("body", ToneInfo)))
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<html lang="pt">`)
	assert.Contains(t, html, `<a href="/claims" class="active">`)
	assert.NotContains(t, html, `<a href="/policies" class="active">`)
	assert.Contains(t, html, `<a href="/settings/language?lang=pt" class="active">pt</a>`)
	assert.Contains(t, html, `<main class="container"><span class="badge badge-info">body</span></main>`)
}

func TestSelectAndMultiSelectMarkChosenOptions(t *testing.T) {
	require.NoError(t, i18n.Load())
	form := NewFormState()
	form.Set("currency", "USD")
	options := []Option{{Value: "BRL", Label: "Real"}, {Value: "USD", Label: "Dollar"}}

	html := renderString(t, context.Background(), Select("currency", "claims.currency", options, true, form))
	assert.Contains(t, html, `<select id="currency" name="currency" required>`)
	assert.Contains(t, html, `<option value="USD" selected>Dollar</option>`)
	assert.Contains(t, html, `<option value="BRL">Real</option>`)
	assert.Contains(t, html, `<div class="field">`)

	html = renderString(t, context.Background(), MultiSelect("exclusion_ids", "policies.exclusions", options, []string{"BRL"}, form))
	assert.Contains(t, html, `<option value="BRL" selected>Real</option>`)
	assert.Contains(t, html, `<option value="USD">Dollar</option>`)
}

func TestDeleteButtonSanitizesAction(t *testing.T) {
	require.NoError(t, i18n.Load())

	html := renderString(t, context.Background(), DeleteButton("/api/claims/c-1"))
	assert.Contains(t, html, `action="/api/claims/c-1"`)
	assert.Contains(t, html, `<input type="hidden" name="_method" value="DELETE">`)

	html = renderString(t, context.Background(), DeleteButton("javascript:alert(1)"))
	assert.NotContains(t, html, "javascript:")
}

func TestEmptyRowSpansColumns(t *testing.T) {
	require.NoError(t, i18n.Load())

	html := renderString(t, context.Background(), EmptyRow(7, "claims.empty"))
	assert.True(t, strings.HasPrefix(html, `<tr class="empty"><td colspan="7">`))
}
