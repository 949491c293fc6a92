package pages

import (
	"context"
	"strconv"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/components"
)

// PolicyListFilters echoes the list filters back into the filter bar
type PolicyListFilters struct {
	Search string
	State  string
}

// PolicyDetailView drives the policy detail page
type PolicyDetailView struct {
	Policy   *models.Policy
	Claims   []models.Claim
	Now      time.Time
	Location *time.Location
}

// PolicyFormView drives the new and edit policy forms. PolicyID is empty for a new policy.
type PolicyFormView struct {
	PolicyID     string
	Form         components.FormState
	Exclusions   []models.Exclusion
	ExclusionIDs []string
}

func policyURL(id string) string {
	return "/policies/" + id
}

var policyStates = []string{models.PolicyStateNotStarted, models.PolicyStateActive, models.PolicyStateExpired}

func policyStateLabel(ctx context.Context, state string) string {
	return i18n.Label(ctx, "policy_state", state, models.GetPolicyStateDisplayName(state))
}

func importKPIs(result *services.ImportResult) []kpi {
	return []kpi{
		{"policies.import.summary_total", strconv.Itoa(result.TotalProcessed)},
		{"policies.import.summary_success", strconv.Itoa(result.SuccessCount)},
		{"policies.import.summary_failed", strconv.Itoa(result.FailedCount)},
	}
}

func policyDetails(view PolicyDetailView) []detailRow {
	p := view.Policy
	deductible := models.NotAvailable
	if p.Deductible != nil {
		deductible = components.FormatMoney(*p.Deductible, "")
	}
	return []detailRow{
		{"policies.named_insured", p.NamedInsured},
		{"policies.period_start", components.FormatDate(p.PeriodStart)},
		{"policies.period_end", components.FormatDate(p.PeriodEnd)},
		{"policies.coverage_type", p.GetCoverageTypeLabel()},
		{"policies.sum_insured", components.FormatMoney(p.SumInsured, "")},
		{"policies.deductible", deductible},
		{"policies.binder_ref", models.StringOrNA(p.BinderRef)},
		{"common.created", components.FormatTimestamp(p.CreatedDate, view.Location)},
		{"common.modified", components.FormatTimestamp(p.ModifiedDate, view.Location)},
	}
}

// policyFormTarget returns the heading, submit URL and cancel URL of the policy form
func policyFormTarget(ctx context.Context, view PolicyFormView) (string, string, string) {
	if view.PolicyID == "" {
		return i18n.T(ctx, "policies.new"), "/api/policies", "/policies"
	}
	return i18n.T(ctx, "common.edit") + " " + view.Form.Get("policy_number"), "/api/policies/" + view.PolicyID, policyURL(view.PolicyID)
}

func exclusionOptions(exclusions []models.Exclusion) []components.Option {
	options := make([]components.Option, 0, len(exclusions))
	for _, e := range exclusions {
		options = append(options, components.Option{Value: e.ID, Label: e.Title})
	}
	return options
}

// PolicyFormValues prefills a policy form from a stored policy
func PolicyFormValues(p *models.Policy) components.FormState {
	form := components.NewFormState()
	form.Set("policy_number", p.PolicyNumber)
	form.Set("named_insured", p.NamedInsured)
	form.Set("period_start", components.FormatDate(p.PeriodStart))
	form.Set("period_end", components.FormatDate(p.PeriodEnd))
	form.Set("coverage_type", p.CoverageType)
	form.Set("sum_insured", p.SumInsured.StringFixed(2))
	if p.Deductible != nil {
		form.Set("deductible", p.Deductible.StringFixed(2))
	}
	if p.BinderRef != nil {
		form.Set("binder_ref", *p.BinderRef)
	}
	return form
}
