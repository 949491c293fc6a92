package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPolicyLifecycleState(t *testing.T) {
	start := date(2024, time.January, 10)
	end := date(2024, time.December, 31)

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"day before start", time.Date(2024, time.January, 9, 23, 59, 0, 0, time.UTC), PolicyStateNotStarted},
		{"start day midnight", start, PolicyStateActive},
		{"start day afternoon", time.Date(2024, time.January, 10, 15, 0, 0, 0, time.UTC), PolicyStateActive},
		{"mid period", date(2024, time.June, 1), PolicyStateActive},
		{"end day late evening", time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC), PolicyStateActive},
		{"day after end", date(2025, time.January, 1), PolicyStateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PolicyLifecycleState(tt.now, start, end))
		})
	}
}

func TestPolicyLifecycleStateUsesObserverCalendar(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	// 2024-04-01 01:00 UTC is still March 31 in Sao Paulo
	now := time.Date(2024, time.March, 31, 22, 0, 0, 0, saoPaulo)
	assert.Equal(t, PolicyStateActive, PolicyLifecycleState(now, start, end))
	assert.Equal(t, PolicyStateExpired, PolicyLifecycleState(now.UTC(), start, end))
}

func TestPolicyLifecycleStateSingleDayPeriod(t *testing.T) {
	day := date(2024, time.May, 5)
	assert.Equal(t, PolicyStateActive, PolicyLifecycleState(day.Add(12*time.Hour), day, day))
}

func TestActivitySLAState(t *testing.T) {
	now := time.Date(2024, time.January, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      time.Time
		days     int
		expected string
	}{
		{"yesterday", date(2024, time.January, 9), -1, SLAOverdue},
		{"last week", date(2024, time.January, 3), -7, SLAOverdue},
		{"today", date(2024, time.January, 10), 0, SLAAtRisk},
		{"tomorrow", date(2024, time.January, 11), 1, SLAAtRisk},
		{"in two days", date(2024, time.January, 12), 2, SLAAtRisk},
		{"in three days", date(2024, time.January, 13), 3, SLAOnTrack},
		{"next month", date(2024, time.February, 10), 31, SLAOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, DaysRemaining(now, tt.due))
			assert.Equal(t, tt.expected, ActivitySLAState(now, tt.due))
		})
	}
}

func TestActivitySLAAtMidnight(t *testing.T) {
	now := date(2024, time.January, 10)
	assert.Equal(t, 0, DaysRemaining(now, now))
	assert.Equal(t, SLAAtRisk, ActivitySLAState(now, now))
}

func TestApplyMovements(t *testing.T) {
	movements := []Movement{
		{Type: MovementTypeReserveIncrease, Amount: decimal.NewFromInt(10000)},
		{Type: MovementTypePayment, Amount: decimal.NewFromInt(2500)},
		{Type: MovementTypeReserveDecrease, Amount: decimal.NewFromInt(1000)},
		{Type: MovementTypeRecovery, Amount: decimal.NewFromInt(300)},
	}

	f := ApplyMovements(movements)

	assert.True(t, decimal.NewFromInt(2500).Equal(f.Paid))
	assert.True(t, decimal.NewFromInt(6500).Equal(f.Outstanding))
	assert.True(t, decimal.NewFromInt(300).Equal(f.Recovered))
	assert.True(t, decimal.NewFromInt(9000).Equal(f.Incurred))
	assert.True(t, f.Incurred.Equal(f.Reserve))
}

func TestApplyMovementsIgnoresSign(t *testing.T) {
	positive := ApplyMovements([]Movement{
		{Type: MovementTypeReserveIncrease, Amount: decimal.NewFromInt(500)},
		{Type: MovementTypePayment, Amount: decimal.NewFromInt(200)},
	})
	negative := ApplyMovements([]Movement{
		{Type: MovementTypeReserveIncrease, Amount: decimal.NewFromInt(-500)},
		{Type: MovementTypePayment, Amount: decimal.NewFromInt(-200)},
	})
	assert.True(t, positive.Paid.Equal(negative.Paid))
	assert.True(t, positive.Outstanding.Equal(negative.Outstanding))
	assert.True(t, positive.Incurred.Equal(negative.Incurred))
	assert.Equal(t, "300", negative.Outstanding.String())
}

func TestApplyMovementsIdentityHoldsAfterEveryStep(t *testing.T) {
	movements := []Movement{
		{Type: MovementTypeReserveIncrease, Amount: decimal.RequireFromString("1234.56")},
		{Type: MovementTypePayment, Amount: decimal.RequireFromString("200.10")},
		{Type: "Unknown", Amount: decimal.NewFromInt(99)},
		{Type: MovementTypeRecovery, Amount: decimal.RequireFromString("50")},
		{Type: MovementTypePayment, Amount: decimal.RequireFromString("1034.46")},
	}

	for i := range movements {
		f := ApplyMovements(movements[:i+1])
		assert.True(t, f.Incurred.Equal(f.Paid.Add(f.Outstanding)), "after movement %d", i)
	}

	final := ApplyMovements(movements)
	assert.True(t, final.Outstanding.IsZero())
	assert.Equal(t, "1234.56", final.Paid.StringFixed(2))
}

func TestApplyMovementsEmpty(t *testing.T) {
	f := ApplyMovements(nil)
	assert.True(t, f.Incurred.IsZero())
	assert.True(t, f.Paid.IsZero())
}

func TestApprovalRate(t *testing.T) {
	assert.Equal(t, 0.0, ApprovalRate(nil))

	claims := []Claim{
		{Status: ClaimStatusApproved},
		{Status: ClaimStatusPaid},
		{Status: ClaimStatusOpen},
		{Status: ClaimStatusClosed},
	}
	assert.InDelta(t, 0.5, ApprovalRate(claims), 1e-9)

	for _, n := range []int{1, 3, 7, 50} {
		batch := make([]Claim, n)
		for i := range batch {
			batch[i].Status = ClaimStatuses[i%len(ClaimStatuses)]
		}
		rate := ApprovalRate(batch)
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 1.0)
	}
}

func TestBucketByMonth(t *testing.T) {
	jan := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	janNextYear := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 1, 0, 0, 0, time.UTC)

	records := []*time.Time{&jan, nil, &janNextYear, &feb, {}}
	buckets := BucketByMonth(records, func(t *time.Time) *time.Time { return t }, time.UTC)

	assert.Len(t, buckets, 3)
	assert.Len(t, buckets["2024-01"], 1)
	assert.Len(t, buckets["2025-01"], 1)
	assert.Equal(t, []string{"2024-01", "2024-02", "2025-01"}, SortedMonthKeys(buckets))

	// Feb 1 01:00 UTC is still January in Sao Paulo
	brt := time.FixedZone("BRT", -3*60*60)
	local := BucketByMonth(records, func(t *time.Time) *time.Time { return t }, brt)
	assert.Len(t, local["2024-01"], 2)
	assert.NotContains(t, local, "2024-02")
}

func TestClaimsByCause(t *testing.T) {
	fire := CauseOfLossFire
	theft := CauseOfLossTheft
	empty := ""
	claims := []Claim{
		{CauseOfLoss: &fire},
		{CauseOfLoss: &fire},
		{CauseOfLoss: &theft},
		{CauseOfLoss: nil},
		{CauseOfLoss: &empty},
	}

	breakdown := ClaimsByCause(claims)
	assert.Len(t, breakdown, 3)
	assert.Equal(t, CauseBreakdown{Cause: CauseOfLossFire, Label: "Fire", Quantity: 2, Percentage: 40}, breakdown[0])
	assert.Equal(t, CauseBreakdown{Cause: CoverageOther, Label: "Other", Quantity: 2, Percentage: 40}, breakdown[1])
	assert.Equal(t, CauseBreakdown{Cause: CauseOfLossTheft, Label: "Theft", Quantity: 1, Percentage: 20}, breakdown[2])

	assert.Empty(t, ClaimsByCause(nil))
}

func TestNAFallbacks(t *testing.T) {
	assert.Equal(t, NotAvailable, StringOrNA(nil))
	empty := ""
	assert.Equal(t, NotAvailable, StringOrNA(&empty))
	v := "BND-1"
	assert.Equal(t, "BND-1", StringOrNA(&v))

	assert.Equal(t, NotAvailable, DateOrNA(nil))
	d := date(2024, time.March, 3)
	assert.Equal(t, "2024-03-03", DateOrNA(&d))
}
