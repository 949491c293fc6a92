package services

import (
	"context"
	"log"
	"time"

	"claims_backoffice/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentReportRows = 5

// ReportKPIs are the headline figures of the reports page
type ReportKPIs struct {
	TotalSumInsured decimal.Decimal `json:"total_sum_insured"`
	TotalPolicies   int             `json:"total_policies"`
	ActivePolicies  int             `json:"active_policies"`
	TotalClaims     int             `json:"total_claims"`
	ApprovalRate    float64         `json:"approval_rate"` // ratio in [0,1]
}

// ClaimsMonth aggregates the claims created in one calendar month.
// Rejected counts claims that ended Closed without approval.
type ClaimsMonth struct {
	Month    string `json:"month"` // YYYY-MM
	Quantity int    `json:"quantity"`
	Approved int    `json:"approved"`
	Rejected int    `json:"rejected"`
}

// PoliciesMonth aggregates the policies created in one calendar month
type PoliciesMonth struct {
	Month      string          `json:"month"`
	Count      int             `json:"count"`
	SumInsured decimal.Decimal `json:"sum_insured"`
}

// RecentClaim is a row of the latest claims table
type RecentClaim struct {
	ID          string    `json:"id"`
	ClaimNumber string    `json:"claim_number"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	CreatedDate time.Time `json:"created_date"`
}

// RecentPolicy is a row of the latest policies table
type RecentPolicy struct {
	ID           string          `json:"id"`
	PolicyNumber string          `json:"policy_number"`
	NamedInsured string          `json:"named_insured"`
	SumInsured   decimal.Decimal `json:"sum_insured"`
	State        string          `json:"state"`
	CreatedDate  time.Time       `json:"created_date"`
}

// ReportSummary is everything the reports page shows
type ReportSummary struct {
	GeneratedAt     time.Time               `json:"generated_at"`
	KPIs            ReportKPIs              `json:"kpis"`
	ClaimsByMonth   []ClaimsMonth           `json:"claims_by_month"`
	PoliciesByMonth []PoliciesMonth         `json:"policies_by_month"`
	ClaimsByCause   []models.CauseBreakdown `json:"claims_by_cause"`
	RecentClaims    []RecentClaim           `json:"recent_claims"`
	RecentPolicies  []RecentPolicy          `json:"recent_policies"`
}

// BuildReportSummary derives the report from already loaded records. Claims and
// policies are expected newest first. Months are evaluated in loc.
func BuildReportSummary(policies []models.Policy, claims []models.Claim, now time.Time, loc *time.Location) ReportSummary {
	if loc == nil {
		loc = now.Location()
	}
	observed := now.In(loc)

	summary := ReportSummary{
		GeneratedAt:     now,
		KPIs:            ReportKPIs{TotalSumInsured: decimal.Zero},
		ClaimsByMonth:   []ClaimsMonth{},
		PoliciesByMonth: []PoliciesMonth{},
		ClaimsByCause:   models.ClaimsByCause(claims),
		RecentClaims:    []RecentClaim{},
		RecentPolicies:  []RecentPolicy{},
	}

	summary.KPIs.TotalPolicies = len(policies)
	summary.KPIs.TotalClaims = len(claims)
	summary.KPIs.ApprovalRate = models.ApprovalRate(claims)
	for i := range policies {
		summary.KPIs.TotalSumInsured = summary.KPIs.TotalSumInsured.Add(policies[i].SumInsured)
		if policies[i].LifecycleState(observed) == models.PolicyStateActive {
			summary.KPIs.ActivePolicies++
		}
	}

	claimBuckets := models.BucketByMonth(claims, func(c models.Claim) *time.Time { return &c.CreatedDate }, loc)
	for _, month := range models.SortedMonthKeys(claimBuckets) {
		row := ClaimsMonth{Month: month}
		for i := range claimBuckets[month] {
			c := &claimBuckets[month][i]
			row.Quantity++
			if c.IsApproved() {
				row.Approved++
			} else if c.Status == models.ClaimStatusClosed {
				row.Rejected++
			}
		}
		summary.ClaimsByMonth = append(summary.ClaimsByMonth, row)
	}

	policyBuckets := models.BucketByMonth(policies, func(p models.Policy) *time.Time { return &p.CreatedDate }, loc)
	for _, month := range models.SortedMonthKeys(policyBuckets) {
		row := PoliciesMonth{Month: month, SumInsured: decimal.Zero}
		for i := range policyBuckets[month] {
			row.Count++
			row.SumInsured = row.SumInsured.Add(policyBuckets[month][i].SumInsured)
		}
		summary.PoliciesByMonth = append(summary.PoliciesByMonth, row)
	}

	for i := 0; i < len(claims) && i < recentReportRows; i++ {
		summary.RecentClaims = append(summary.RecentClaims, RecentClaim{
			ID:          claims[i].ID,
			ClaimNumber: claims[i].ClaimNumber,
			Title:       claims[i].Title,
			Status:      claims[i].Status,
			CreatedDate: claims[i].CreatedDate,
		})
	}
	for i := 0; i < len(policies) && i < recentReportRows; i++ {
		summary.RecentPolicies = append(summary.RecentPolicies, RecentPolicy{
			ID:           policies[i].ID,
			PolicyNumber: policies[i].PolicyNumber,
			NamedInsured: policies[i].NamedInsured,
			SumInsured:   policies[i].SumInsured,
			State:        policies[i].LifecycleState(observed),
			CreatedDate:  policies[i].CreatedDate,
		})
	}

	return summary
}

// GetReportSummary loads policies and claims and builds the summary, serving
// it from the report cache when a fresh copy exists
func GetReportSummary(ctx context.Context, db *gorm.DB, now time.Time, loc *time.Location) (*ReportSummary, error) {
	if loc == nil {
		loc = now.Location()
	}
	key := reportCacheKey(now, loc)

	if cached, ok, err := Reports.Get(ctx, key); err != nil {
		log.Printf("[WARNING] Report cache read failed: %v", err)
	} else if ok {
		return cached, nil
	}

	var policies []models.Policy
	if err := db.WithContext(ctx).Order("created_date DESC").Find(&policies).Error; err != nil {
		return nil, storeError("list", "policy", err, nil)
	}
	var claims []models.Claim
	if err := db.WithContext(ctx).Order("created_date DESC").Find(&claims).Error; err != nil {
		return nil, storeError("list", "claim", err, nil)
	}

	summary := BuildReportSummary(policies, claims, now, loc)
	if err := Reports.Set(ctx, key, &summary); err != nil {
		log.Printf("[WARNING] Report cache write failed: %v", err)
	}
	return &summary, nil
}
