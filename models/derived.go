package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// NotAvailable is rendered in place of a missing optional value
const NotAvailable = "N/A"

// Policy lifecycle states
const (
	PolicyStateNotStarted = "NotStarted"
	PolicyStateActive     = "Active"
	PolicyStateExpired    = "Expired"
)

// Activity SLA states
const (
	SLAOverdue = "Overdue"
	SLAAtRisk  = "AtRisk"
	SLAOnTrack = "OnTrack"
)

// SLAAtRiskDays is the last number of remaining days still considered at risk
const SLAAtRiskDays = 2

// civilDate drops the clock and keeps the calendar date as seen in t's own location
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PolicyLifecycleState places now relative to the policy period, both ends inclusive.
// A zero start or end is treated as open on that side.
func PolicyLifecycleState(now, start, end time.Time) string {
	today := civilDate(now)
	if !start.IsZero() && today.Before(civilDate(start)) {
		return PolicyStateNotStarted
	}
	if !end.IsZero() && today.After(civilDate(end)) {
		return PolicyStateExpired
	}
	return PolicyStateActive
}

// DaysRemaining returns the whole days from now until the start of the due date,
// rounded up, so an activity due today has 0 days left.
func DaysRemaining(now, due time.Time) int {
	return int(civilDate(due).Sub(civilDate(now)).Hours() / 24)
}

// ActivitySLAState classifies an activity by the days left until it is due
func ActivitySLAState(now, due time.Time) string {
	days := DaysRemaining(now, due)
	switch {
	case days < 0:
		return SLAOverdue
	case days <= SLAAtRiskDays:
		return SLAAtRisk
	default:
		return SLAOnTrack
	}
}

// GetPolicyStateDisplayName returns human-readable lifecycle state
func GetPolicyStateDisplayName(state string) string {
	names := map[string]string{
		PolicyStateNotStarted: "Not Started",
		PolicyStateActive:     "Active",
		PolicyStateExpired:    "Expired",
	}
	return labelOf(names, state)
}

// GetSLADisplayName returns human-readable SLA state
func GetSLADisplayName(state string) string {
	names := map[string]string{
		SLAOverdue: "Overdue",
		SLAAtRisk:  "At Risk",
		SLAOnTrack: "On Track",
	}
	return labelOf(names, state)
}

// ClaimFinancials is the money rollup of a claim
type ClaimFinancials struct {
	Reserve     decimal.Decimal `json:"reserve"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Recovered   decimal.Decimal `json:"recovered"`
	Incurred    decimal.Decimal `json:"incurred"`
}

// ApplyMovements folds movements into a rollup. The amount's sign is ignored,
// the movement type decides the direction. Incurred is always Paid + Outstanding.
func ApplyMovements(movements []Movement) ClaimFinancials {
	paid := decimal.Zero
	outstanding := decimal.Zero
	recovered := decimal.Zero

	for _, m := range movements {
		amount := m.Amount.Abs()
		switch m.Type {
		case MovementTypeReserveIncrease:
			outstanding = outstanding.Add(amount)
		case MovementTypeReserveDecrease:
			outstanding = outstanding.Sub(amount)
		case MovementTypePayment:
			paid = paid.Add(amount)
			outstanding = outstanding.Sub(amount)
		case MovementTypeRecovery:
			recovered = recovered.Add(amount)
		}
	}

	incurred := paid.Add(outstanding)
	return ClaimFinancials{
		Reserve:     incurred,
		Paid:        paid,
		Outstanding: outstanding,
		Recovered:   recovered,
		Incurred:    incurred,
	}
}

// ApprovalRate is the share of claims that are Approved or Paid, 0 for no claims
func ApprovalRate(claims []Claim) float64 {
	if len(claims) == 0 {
		return 0
	}
	approved := 0
	for i := range claims {
		if claims[i].IsApproved() {
			approved++
		}
	}
	return float64(approved) / float64(len(claims))
}

// MonthKey formats the calendar month of t in loc as YYYY-MM
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01")
}

// BucketByMonth groups records by the calendar month of their date.
// Records whose date is missing are left out of every bucket.
func BucketByMonth[T any](records []T, dateOf func(T) *time.Time, loc *time.Location) map[string][]T {
	buckets := make(map[string][]T)
	for _, r := range records {
		d := dateOf(r)
		if d == nil || d.IsZero() {
			continue
		}
		key := MonthKey(*d, loc)
		buckets[key] = append(buckets[key], r)
	}
	return buckets
}

// SortedMonthKeys returns the bucket keys in chronological order
func SortedMonthKeys[T any](buckets map[string][]T) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CauseBreakdown is the share of claims with a given cause of loss
type CauseBreakdown struct {
	Cause      string `json:"cause"`
	Label      string `json:"label"`
	Quantity   int    `json:"quantity"`
	Percentage int    `json:"percentage"`
}

// ClaimsByCause counts claims per cause of loss. Claims without a cause count as Other.
// Percentages are rounded to whole numbers.
func ClaimsByCause(claims []Claim) []CauseBreakdown {
	counts := make(map[string]int)
	for i := range claims {
		cause := CoverageOther
		if c := claims[i].CauseOfLoss; c != nil && *c != "" {
			cause = *c
		}
		counts[cause]++
	}

	total := len(claims)
	out := make([]CauseBreakdown, 0, len(counts))
	for cause, n := range counts {
		label := GetCauseOfLossDisplayName(cause)
		if cause == CoverageOther {
			label = "Other"
		}
		pct := 0
		if total > 0 {
			pct = int(decimal.NewFromInt(int64(n * 100)).Div(decimal.NewFromInt(int64(total))).Round(0).IntPart())
		}
		out = append(out, CauseBreakdown{Cause: cause, Label: label, Quantity: n, Percentage: pct})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Cause < out[j].Cause
	})
	return out
}

// StringOrNA renders an optional string, N/A when absent
func StringOrNA(s *string) string {
	if s == nil || *s == "" {
		return NotAvailable
	}
	return *s
}

// DateOrNA renders an optional date as YYYY-MM-DD, N/A when absent
func DateOrNA(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format("2006-01-02")
}
