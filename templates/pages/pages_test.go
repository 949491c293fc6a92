package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	require.NoError(t, i18n.Load())
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestActivitiesListShowsSLA(t *testing.T) {
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	activities := []models.Activity{
		{ID: "a-1", ClaimID: "c-1", Title: "Overdue survey", Status: models.ActivityStatusPending, DueDate: date(2024, 3, 10)},
		{ID: "a-2", ClaimID: "c-1", Title: "Done survey", Status: models.ActivityStatusCompleted, DueDate: date(2024, 3, 1)},
	}

	html := render(t, context.Background(), ActivitiesList(activities, now, ActivityListFilters{SLA: models.SLAOverdue}))
	assert.Contains(t, html, "Overdue survey")
	assert.Contains(t, html, "Overdue (2 days)")
	assert.Contains(t, html, `value="Overdue" selected`)
}

func TestClaimDetailRendersMoneyAndEmptyStates(t *testing.T) {
	claim := &models.Claim{
		ID:                "c-1",
		ClaimNumber:       "CLM-2024-00001",
		Title:             "Burst pipe",
		Status:            models.ClaimStatusOpen,
		Currency:          models.CurrencyBRL,
		ReportedDate:      date(2024, 3, 2),
		OutstandingAmount: decimal.RequireFromString("1500"),
		IncurredAmount:    decimal.RequireFromString("1500"),
	}

	html := render(t, i18n.WithLocale(context.Background(), "pt"), ClaimDetail(ClaimDetailView{
		Claim:    claim,
		Now:      time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
	}))
	assert.Contains(t, html, "CLM-2024-00001")
	assert.Contains(t, html, "R$ 1500.00")
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, `action="/api/claims/c-1/movements"`)
}

func TestFormValuesRoundTrip(t *testing.T) {
	policyID := "p-1"
	loss := date(2024, 2, 28)
	claim := &models.Claim{
		ClaimNumber:  "CLM-2024-00002",
		Title:        "Theft",
		PolicyID:     &policyID,
		Status:       models.ClaimStatusUnderReview,
		Currency:     models.CurrencyUSD,
		ReportedDate: date(2024, 3, 1),
		DateOfLoss:   &loss,
	}
	form := ClaimFormValues(claim)
	assert.Equal(t, "p-1", form.Get("policy_id"))
	assert.Equal(t, "2024-02-28", form.Get("date_of_loss"))
	assert.Equal(t, "", form.Get("coverage"))

	deductible := decimal.NewFromInt(250)
	policy := &models.Policy{
		PolicyNumber: "POL-1",
		PeriodStart:  date(2024, 1, 1),
		PeriodEnd:    date(2024, 12, 31),
		SumInsured:   decimal.NewFromInt(100000),
		Deductible:   &deductible,
	}
	form = PolicyFormValues(policy)
	assert.Equal(t, "100000.00", form.Get("sum_insured"))
	assert.Equal(t, "250.00", form.Get("deductible"))
	assert.Equal(t, "2024-12-31", form.Get("period_end"))
}

func TestImportResultPage(t *testing.T) {
	html := render(t, context.Background(), ImportResultPage(&services.ImportResult{
		TotalProcessed: 3,
		SuccessCount:   2,
		FailedCount:    1,
		Errors:         []services.ImportError{{Row: 4, Message: "sum_insured must be a number"}},
	}))
	assert.Contains(t, html, "Row 4: sum_insured must be a number")
}

func TestSearchPage(t *testing.T) {
	html := render(t, context.Background(), SearchPage("pipe", nil))
	assert.Contains(t, html, "No results")

	html = render(t, context.Background(), SearchPage("pipe", []services.SearchResult{
		{Type: services.SearchTypeClaim, ID: "c-1", Title: "CLM-2024-00001 Burst pipe", URL: "/claims/c-1"},
	}))
	assert.Contains(t, html, `href="/claims/c-1"`)
	assert.NotContains(t, html, "No results")
}

func TestActivityDetailListsSLAOnlyWhileOpen(t *testing.T) {
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	activity := &models.Activity{ID: "a-1", ClaimID: "c-1", Title: "Call insured", Status: models.ActivityStatusPending, DueDate: date(2024, 3, 10)}

	html := render(t, context.Background(), ActivityDetail(ActivityDetailView{Activity: activity, Now: now, Location: time.UTC}))
	assert.Contains(t, html, `<dl class="details">`)
	assert.Contains(t, html, "Overdue (2 days)</span></dd></dl>")

	activity.Status = models.ActivityStatusCompleted
	html = render(t, context.Background(), ActivityDetail(ActivityDetailView{Activity: activity, Now: now, Location: time.UTC}))
	assert.NotContains(t, html, "badge-danger")
}

func TestReportsPageShowsEmptyTables(t *testing.T) {
	html := render(t, context.Background(), ReportsPage(&services.ReportSummary{}))
	assert.Contains(t, html, `<td colspan="4">No results`)
	assert.Contains(t, html, `<td colspan="3">No results`)
	assert.Contains(t, html, "0.0%")
}
