package pages

import (
	"context"
	"strconv"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/components"
)

// ActivityListFilters echoes the list filters back into the filter bar
type ActivityListFilters struct {
	Status   string
	SLA      string
	Assignee string
}

// ActivityDetailView drives the activity detail page
type ActivityDetailView struct {
	Activity *models.Activity
	Now      time.Time
	Location *time.Location
	Audit    []models.AuditLog
}

// ActivityFormView drives the new and edit activity forms. ActivityID is empty for a new activity.
type ActivityFormView struct {
	ActivityID string
	Form       components.FormState
	Claims     []models.Claim
	Documents  []models.ClaimDocument
}

func activityURL(id string) string {
	return "/activities/" + id
}

func roleLabel(role string) string {
	return models.GetActivityRoleDisplayName(models.NormalizeActivityRole(role))
}

func activityStatusLabel(ctx context.Context, status string) string {
	return i18n.Label(ctx, "activity_status", status, models.GetActivityStatusDisplayName(status))
}

func slaLabel(ctx context.Context, state string) string {
	return i18n.Label(ctx, "sla", state, models.GetSLADisplayName(state))
}

var slaStates = []string{models.SLAOverdue, models.SLAAtRisk, models.SLAOnTrack}

func activityHeaders(showClaim bool) []string {
	headers := []string{"activities.activity_title", "activities.assignee", "activities.role", "activities.due_date", "activities.status", "activities.sla"}
	if showClaim {
		headers = append([]string{"activities.claim"}, headers...)
	}
	return headers
}

func activityDetails(view ActivityDetailView) []detailRow {
	a := view.Activity
	claim := models.NotAvailable
	if a.Claim != nil {
		claim = a.Claim.ClaimNumber + " " + a.Claim.Title
	}
	document := models.NotAvailable
	if a.RelatedDocument != nil {
		document = a.RelatedDocument.FileName
	}
	_, days := a.SLA(view.Now)
	return []detailRow{
		{"activities.claim", claim},
		{"activities.assignee", a.Assignee},
		{"activities.role", roleLabel(a.Role)},
		{"activities.due_date", components.FormatDate(a.DueDate)},
		{"activities.days_remaining", strconv.Itoa(days)},
		{"activities.description", models.StringOrNA(a.Description)},
		{"activities.related_document", document},
		{"common.created", components.FormatTimestamp(a.CreatedDate, view.Location) + " " + a.CreatedBy},
		{"common.modified", components.FormatTimestamp(a.ModifiedDate, view.Location) + " " + a.ModifiedBy},
	}
}

// activityFormTarget returns the heading, submit URL and cancel URL of the activity form
func activityFormTarget(ctx context.Context, view ActivityFormView) (string, string, string) {
	if view.ActivityID == "" {
		return i18n.T(ctx, "activities.new"), "/api/activities", "/activities"
	}
	return i18n.T(ctx, "common.edit") + " " + view.Form.Get("title"), "/api/activities/" + view.ActivityID, activityURL(view.ActivityID)
}

func claimOptions(claims []models.Claim) []components.Option {
	options := make([]components.Option, 0, len(claims))
	for _, c := range claims {
		options = append(options, components.Option{Value: c.ID, Label: c.ClaimNumber + " - " + c.Title})
	}
	return options
}

func documentOptions(documents []models.ClaimDocument) []components.Option {
	options := make([]components.Option, 0, len(documents))
	for _, d := range documents {
		options = append(options, components.Option{Value: d.ID, Label: d.FileName})
	}
	return options
}

func activityStatusOptions(ctx context.Context) []components.Option {
	return components.EnumOptions(models.ActivityStatuses, func(code string) string {
		return activityStatusLabel(ctx, code)
	})
}

// ActivityFormValues prefills an activity form from a stored activity
func ActivityFormValues(a *models.Activity) components.FormState {
	form := components.NewFormState()
	form.Set("claim_id", a.ClaimID)
	form.Set("title", a.Title)
	form.Set("assignee", a.Assignee)
	form.Set("role", models.NormalizeActivityRole(a.Role))
	form.Set("due_date", components.FormatDate(a.DueDate))
	form.Set("status", a.Status)
	if a.Description != nil {
		form.Set("description", *a.Description)
	}
	if a.RelatedDocumentID != nil {
		form.Set("related_document_id", *a.RelatedDocumentID)
	}
	return form
}
