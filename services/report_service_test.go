package services

import (
	"context"
	"testing"
	"time"

	"claims_backoffice/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func reportDate(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestBuildReportSummary(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	fire := models.CauseOfLossFire

	policies := []models.Policy{
		{ID: "p3", PolicyNumber: "P-3", SumInsured: decimal.NewFromInt(300), PeriodStart: reportDate(2025, 1, 1), PeriodEnd: reportDate(2025, 12, 31), CreatedDate: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", PolicyNumber: "P-2", SumInsured: decimal.NewFromInt(200), PeriodStart: reportDate(2024, 1, 1), PeriodEnd: reportDate(2024, 6, 15), CreatedDate: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "p1", PolicyNumber: "P-1", SumInsured: decimal.RequireFromString("100.50"), PeriodStart: reportDate(2023, 1, 1), PeriodEnd: reportDate(2023, 12, 31), CreatedDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	claims := []models.Claim{
		{ID: "c4", Status: models.ClaimStatusClosed, CauseOfLoss: &fire, CreatedDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "c3", Status: models.ClaimStatusPaid, CauseOfLoss: &fire, CreatedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c2", Status: models.ClaimStatusApproved, CreatedDate: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)},
		{ID: "c1", Status: models.ClaimStatusOpen, CreatedDate: time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)},
	}

	summary := BuildReportSummary(policies, claims, now, time.UTC)

	assert.True(t, summary.KPIs.TotalSumInsured.Equal(decimal.RequireFromString("600.50")))
	assert.Equal(t, 3, summary.KPIs.TotalPolicies)
	assert.Equal(t, 1, summary.KPIs.ActivePolicies, "period end is inclusive")
	assert.Equal(t, 4, summary.KPIs.TotalClaims)
	assert.InDelta(t, 0.5, summary.KPIs.ApprovalRate, 1e-9)

	// Months from different years stay apart
	require.Len(t, summary.ClaimsByMonth, 3)
	assert.Equal(t, ClaimsMonth{Month: "2023-05", Quantity: 1}, summary.ClaimsByMonth[0])
	assert.Equal(t, ClaimsMonth{Month: "2024-05", Quantity: 1, Approved: 1}, summary.ClaimsByMonth[1])
	assert.Equal(t, ClaimsMonth{Month: "2024-06", Quantity: 2, Approved: 1, Rejected: 1}, summary.ClaimsByMonth[2])

	require.Len(t, summary.PoliciesByMonth, 2)
	assert.Equal(t, "2024-05", summary.PoliciesByMonth[0].Month)
	assert.Equal(t, 2, summary.PoliciesByMonth[0].Count)
	assert.True(t, summary.PoliciesByMonth[0].SumInsured.Equal(decimal.RequireFromString("300.50")))

	require.Len(t, summary.ClaimsByCause, 2)
	assert.Equal(t, models.CauseOfLossFire, summary.ClaimsByCause[0].Cause)
	assert.Equal(t, 50, summary.ClaimsByCause[0].Percentage)
	assert.Equal(t, "Other", summary.ClaimsByCause[1].Label)

	require.Len(t, summary.RecentPolicies, 3)
	assert.Equal(t, models.PolicyStateNotStarted, summary.RecentPolicies[0].State)
	assert.Equal(t, models.PolicyStateActive, summary.RecentPolicies[1].State)
	assert.Equal(t, models.PolicyStateExpired, summary.RecentPolicies[2].State)
	assert.Equal(t, "c4", summary.RecentClaims[0].ID)
}

func TestBuildReportSummaryEmpty(t *testing.T) {
	summary := BuildReportSummary(nil, nil, time.Now(), nil)

	assert.Zero(t, summary.KPIs.ApprovalRate)
	assert.True(t, summary.KPIs.TotalSumInsured.IsZero())
	assert.NotNil(t, summary.ClaimsByMonth)
	assert.NotNil(t, summary.PoliciesByMonth)
	assert.NotNil(t, summary.ClaimsByCause)
	assert.NotNil(t, summary.RecentClaims)
	assert.NotNil(t, summary.RecentPolicies)
}

func TestBuildReportSummaryUsesObserverTimezone(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:00 UTC on June 1st is still May 31st in Sao Paulo
	claims := []models.Claim{{ID: "c1", Status: models.ClaimStatusOpen, CreatedDate: time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)}}

	summary := BuildReportSummary(nil, claims, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), saoPaulo)
	require.Len(t, summary.ClaimsByMonth, 1)
	assert.Equal(t, "2024-05", summary.ClaimsByMonth[0].Month)
}

// memoryReportCache keeps summaries in a map
type memoryReportCache struct {
	entries     map[string]*ReportSummary
	invalidated int
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{entries: map[string]*ReportSummary{}}
}

func (m *memoryReportCache) Get(ctx context.Context, key string) (*ReportSummary, bool, error) {
	s, ok := m.entries[key]
	return s, ok, nil
}

func (m *memoryReportCache) Set(ctx context.Context, key string, summary *ReportSummary) error {
	m.entries[key] = summary
	return nil
}

func (m *memoryReportCache) Invalidate(ctx context.Context) error {
	m.invalidated++
	m.entries = map[string]*ReportSummary{}
	return nil
}

func TestGetReportSummaryCaches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cache := newMemoryReportCache()
	previous := Reports
	Reports = cache
	t.Cleanup(func() { Reports = previous })

	createTestPolicy(t, db, "POL-REP")
	now := time.Now()

	first, err := GetReportSummary(ctx, db, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, first.KPIs.TotalPolicies)
	assert.Len(t, cache.entries, 1)

	second, err := GetReportSummary(ctx, db, now, time.UTC)
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Writes drop the cached copy
	before := cache.invalidated
	createTestClaim(t, db, nil)
	assert.Greater(t, cache.invalidated, before)

	third, err := GetReportSummary(ctx, db, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, third.KPIs.TotalClaims)
}
