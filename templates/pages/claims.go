package pages

import (
	"context"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/components"
)

// ClaimListFilters echoes the list filters back into the filter bar
type ClaimListFilters struct {
	Status string
	Search string
}

// ClaimDetailView is everything the claim detail page shows
type ClaimDetailView struct {
	Claim        *models.Claim
	Activities   []models.Activity
	Movements    []models.Movement
	Documents    []models.ClaimDocument
	Audit        []models.AuditLog
	Now          time.Time
	Location     *time.Location
	MovementForm components.FormState
	// UploadErrors holds the field errors of a rejected document upload
	UploadErrors map[string]string
}

// ClaimFormView drives the new and edit claim forms. ClaimID is empty for a new claim.
type ClaimFormView struct {
	ClaimID  string
	Form     components.FormState
	Policies []models.Policy
}

func claimURL(id string) string {
	return "/claims/" + id
}

func claimStatusLabel(ctx context.Context, status string) string {
	return i18n.Label(ctx, "claim_status", status, models.GetClaimStatusDisplayName(status))
}

func claimOverview(claim *models.Claim, loc *time.Location) []detailRow {
	policy := models.NotAvailable
	if claim.Policy != nil {
		policy = claim.Policy.PolicyNumber
	}
	return []detailRow{
		{"claims.insured", claim.InsuredName},
		{"claims.policy", policy},
		{"claims.currency", models.GetCurrencyDisplayName(claim.Currency)},
		{"claims.lob", optionalLabel(claim.ProductLOB, models.GetProductLOBDisplayName)},
		{"claims.coverage", optionalLabel(claim.Coverage, models.GetCoverageDisplayName)},
		{"claims.cause", optionalLabel(claim.CauseOfLoss, models.GetCauseOfLossDisplayName)},
		{"claims.date_of_loss", components.FormatOptionalDate(claim.DateOfLoss)},
		{"claims.reported_date", components.FormatDate(claim.ReportedDate)},
		{"claims.date_closed", models.DateOrNA(claim.DateClosed)},
		{"common.created", components.FormatTimestamp(claim.CreatedDate, loc) + " " + claim.CreatedBy},
		{"common.modified", components.FormatTimestamp(claim.ModifiedDate, loc) + " " + claim.ModifiedBy},
	}
}

func claimFinancials(claim *models.Claim) []kpi {
	return []kpi{
		{"claims.reserve", components.FormatMoney(claim.ReserveAmount, claim.Currency)},
		{"claims.paid", components.FormatMoney(claim.PaidAmount, claim.Currency)},
		{"claims.outstanding", components.FormatMoney(claim.OutstandingAmount, claim.Currency)},
		{"claims.recovered", components.FormatMoney(claim.RecoveredAmount, claim.Currency)},
		{"claims.incurred", components.FormatMoney(claim.IncurredAmount, claim.Currency)},
	}
}

// movementFormOrEmpty gives the detail page a blank movement form when none was submitted
func movementFormOrEmpty(form components.FormState) components.FormState {
	if form.Values == nil {
		return components.NewFormState()
	}
	return form
}

// claimFormTarget returns the heading, submit URL and cancel URL of the claim form
func claimFormTarget(ctx context.Context, claimID string) (string, string, string) {
	if claimID == "" {
		return i18n.T(ctx, "claims.new"), "/api/claims", "/claims"
	}
	return i18n.T(ctx, "claims.edit"), "/api/claims/" + claimID, claimURL(claimID)
}

func policyOptions(policies []models.Policy) []components.Option {
	options := make([]components.Option, 0, len(policies))
	for _, p := range policies {
		options = append(options, components.Option{Value: p.ID, Label: p.PolicyNumber + " - " + p.NamedInsured})
	}
	return options
}

func claimStatusOptions(ctx context.Context) []components.Option {
	return components.EnumOptions(models.ClaimStatuses, func(code string) string {
		return claimStatusLabel(ctx, code)
	})
}

func optionalLabel(code *string, label func(string) string) string {
	if code == nil || *code == "" {
		return models.NotAvailable
	}
	return label(*code)
}

// ClaimFormValues prefills a claim form from a stored claim
func ClaimFormValues(c *models.Claim) components.FormState {
	form := components.NewFormState()
	form.Set("claim_number", c.ClaimNumber)
	form.Set("title", c.Title)
	form.Set("insured_name", c.InsuredName)
	form.Set("status", c.Status)
	form.Set("currency", c.Currency)
	form.Set("reported_date", components.FormatDate(c.ReportedDate))
	form.Set("description", c.Description)
	if c.PolicyID != nil {
		form.Set("policy_id", *c.PolicyID)
	}
	if c.ProductLOB != nil {
		form.Set("product_lob", *c.ProductLOB)
	}
	if c.Coverage != nil {
		form.Set("coverage", *c.Coverage)
	}
	if c.CauseOfLoss != nil {
		form.Set("cause_of_loss", *c.CauseOfLoss)
	}
	if c.DateOfLoss != nil {
		form.Set("date_of_loss", components.FormatDate(*c.DateOfLoss))
	}
	return form
}
