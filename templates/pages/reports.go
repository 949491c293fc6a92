package pages

import (
	"strconv"

	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/templates/components"
)

func reportKPIs(k services.ReportKPIs) []kpi {
	return []kpi{
		{"reports.total_sum_insured", components.FormatMoney(k.TotalSumInsured, "")},
		{"reports.total_policies", strconv.Itoa(k.TotalPolicies)},
		{"reports.active_policies", strconv.Itoa(k.ActivePolicies)},
		{"reports.total_claims", strconv.Itoa(k.TotalClaims)},
		{"reports.approval_rate", components.FormatPercent(k.ApprovalRate)},
	}
}

func claimsByMonthRows(months []services.ClaimsMonth) [][]string {
	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{m.Month, strconv.Itoa(m.Quantity), strconv.Itoa(m.Approved), strconv.Itoa(m.Rejected)})
	}
	return rows
}

func policiesByMonthRows(months []services.PoliciesMonth) [][]string {
	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{m.Month, strconv.Itoa(m.Count), components.FormatMoney(m.SumInsured, "")})
	}
	return rows
}

func claimsByCauseRows(causes []models.CauseBreakdown) [][]string {
	rows := make([][]string, 0, len(causes))
	for _, c := range causes {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Quantity), strconv.Itoa(c.Percentage) + "%"})
	}
	return rows
}
