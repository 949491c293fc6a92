package handlers

import (
	"net/http"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/templates/components"
	"claims_backoffice/templates/pages"

	"github.com/labstack/echo/v4"
)

var activityFormFields = []string{
	"claim_id", "title", "assignee", "role", "due_date", "status", "description", "related_document_id",
}

// ActivitiesPageHandler renders the activity list with status, SLA and assignee filters
func ActivitiesPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	now, _ := observer(c)
	filters := pages.ActivityListFilters{
		Status:   c.QueryParam("status"),
		SLA:      c.QueryParam("sla"),
		Assignee: c.QueryParam("assignee"),
	}

	activities, err := services.ListActivities(ctx, db.DB, services.ActivityFilters{
		Status:   filters.Status,
		SLA:      filters.SLA,
		Assignee: filters.Assignee,
		Now:      now,
	})
	if err != nil {
		return pageError(c, err, "/activities")
	}
	return render(c, http.StatusOK, i18n.T(ctx, "activities.title"), "/activities", pages.ActivitiesList(activities, now, filters))
}

// ActivityDetailPageHandler renders one activity with its SLA and history
func ActivityDetailPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	activity, err := services.GetActivityByID(ctx, db.DB, c.Param("id"))
	if err != nil {
		return pageError(c, err, "/activities")
	}
	history, err := services.GetResourceAuditHistory(ctx, db.DB, models.AuditResourceActivity, activity.ID)
	if err != nil {
		return pageError(c, err, "/activities")
	}

	now, loc := observer(c)
	return render(c, http.StatusOK, activity.Title, "/activities", pages.ActivityDetail(pages.ActivityDetailView{
		Activity: activity,
		Now:      now,
		Location: loc,
		Audit:    history,
	}))
}

// NewActivityPageHandler renders an empty activity form, optionally bound to ?claim_id=
func NewActivityPageHandler(c echo.Context) error {
	form := components.NewFormState()
	form.Set("claim_id", c.QueryParam("claim_id"))
	form.Set("status", models.ActivityStatusPending)
	form.Set("role", models.ActivityRoleAdjuster)
	return renderActivityForm(c, http.StatusOK, "", form)
}

// EditActivityPageHandler renders the activity form prefilled from the stored activity
func EditActivityPageHandler(c echo.Context) error {
	activity, err := services.GetActivityByID(c.Request().Context(), db.DB, c.Param("id"))
	if err != nil {
		return pageError(c, err, "/activities")
	}
	return renderActivityForm(c, http.StatusOK, activity.ID, pages.ActivityFormValues(activity))
}

func renderActivityForm(c echo.Context, status int, activityID string, form components.FormState) error {
	ctx := c.Request().Context()
	view := pages.ActivityFormView{ActivityID: activityID, Form: form}

	var err error
	if activityID == "" {
		if view.Claims, err = services.ListClaims(ctx, db.DB, services.ClaimFilters{}); err != nil {
			return pageError(c, err, "/activities")
		}
	}
	if claimID := form.Get("claim_id"); claimID != "" {
		if view.Documents, err = services.ListDocumentsByClaim(ctx, db.DB, claimID); err != nil {
			return pageError(c, err, "/activities")
		}
	}

	title := i18n.T(ctx, "activities.new")
	if activityID != "" {
		title = form.Get("title")
	}
	return render(c, status, title, "/activities", pages.ActivityForm(view))
}

// GetActivitiesHandler returns activities filtered by claim_id, status, assignee and sla
func GetActivitiesHandler(c echo.Context) error {
	now, _ := observer(c)
	activities, err := services.ListActivities(c.Request().Context(), db.DB, services.ActivityFilters{
		ClaimID:  c.QueryParam("claim_id"),
		Status:   c.QueryParam("status"),
		Assignee: c.QueryParam("assignee"),
		SLA:      c.QueryParam("sla"),
		Now:      now,
	})
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, activities)
}

// GetClaimActivitiesHandler returns the activities of one claim
func GetClaimActivitiesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	claimID := c.Param("id")
	if _, err := services.GetClaimByID(ctx, db.DB, claimID); err != nil {
		return apiError(c, err)
	}

	activities, err := services.ListActivitiesByClaim(ctx, db.DB, claimID)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, activities)
}

// GetActivityHandler returns a single activity by ID
func GetActivityHandler(c echo.Context) error {
	activity, err := services.GetActivityByID(c.Request().Context(), db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, activity)
}

// CreateActivityHandler creates an activity from a JSON body or the activity form
func CreateActivityHandler(c echo.Context) error {
	ctx := c.Request().Context()
	fromForm := isFormRequest(c)

	var input services.ActivityInput
	if fromForm {
		input = services.ActivityInput{
			ClaimID:           c.FormValue("claim_id"),
			Title:             c.FormValue("title"),
			Assignee:          c.FormValue("assignee"),
			Role:              c.FormValue("role"),
			DueDate:           c.FormValue("due_date"),
			Status:            c.FormValue("status"),
			Description:       formNonEmpty(c, "description"),
			RelatedDocumentID: formNonEmpty(c, "related_document_id"),
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	activity, err := services.CreateActivity(ctx, db.DB, middleware.GetAuditContext(c), input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderActivityForm(c, http.StatusUnprocessableEntity, "", withErrors(formState(c, activityFormFields...), err))
		}
		return pageError(c, err, "/activities")
	}

	if fromForm {
		return redirect(c, "/activities/"+activity.ID)
	}
	return c.JSON(http.StatusCreated, activity)
}

// UpdateActivityHandler applies a partial update to an activity
func UpdateActivityHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	fromForm := isFormRequest(c)

	var input services.ActivityUpdate
	if fromForm {
		input = services.ActivityUpdate{
			Title:             formString(c, "title"),
			Assignee:          formString(c, "assignee"),
			Role:              formNonEmpty(c, "role"),
			DueDate:           formNonEmpty(c, "due_date"),
			Status:            formNonEmpty(c, "status"),
			Description:       formString(c, "description"),
			RelatedDocumentID: formString(c, "related_document_id"),
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	activity, err := services.UpdateActivity(ctx, db.DB, middleware.GetAuditContext(c), id, input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderActivityForm(c, http.StatusUnprocessableEntity, id, withErrors(formState(c, activityFormFields...), err))
		}
		return pageError(c, err, "/activities")
	}

	if fromForm {
		return redirect(c, "/activities/"+activity.ID)
	}
	return c.JSON(http.StatusOK, activity)
}

// DeleteActivityHandler removes an activity
func DeleteActivityHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if !isFormRequest(c) {
		if err := services.DeleteActivity(ctx, db.DB, middleware.GetAuditContext(c), id); err != nil {
			return apiError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	activity, err := services.GetActivityByID(ctx, db.DB, id)
	if err == nil {
		err = services.DeleteActivity(ctx, db.DB, middleware.GetAuditContext(c), id)
	}
	if err != nil {
		return pageError(c, err, "/activities")
	}
	return redirect(c, "/claims/"+activity.ClaimID)
}
