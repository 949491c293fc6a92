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

var claimFormFields = []string{
	"claim_number", "title", "insured_name", "policy_id", "status", "currency",
	"product_lob", "coverage", "cause_of_loss", "date_of_loss", "reported_date", "description",
}

// ClaimsPageHandler renders the claims list
func ClaimsPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	filters := pages.ClaimListFilters{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("q"),
	}

	claims, err := services.ListClaims(ctx, db.DB, services.ClaimFilters{Status: filters.Status, Search: filters.Search})
	if err != nil {
		return pageError(c, err, "/claims")
	}
	return render(c, http.StatusOK, i18n.T(ctx, "claims.title"), "/claims", pages.ClaimsList(claims, filters))
}

// ClaimDetailPageHandler renders a claim with its activities, movements, documents and audit trail
func ClaimDetailPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	claim, err := services.GetClaimByID(ctx, db.DB, id)
	if err != nil {
		return pageError(c, err, "/claims")
	}
	view, err := claimDetailView(c, claim)
	if err != nil {
		return pageError(c, err, "/claims")
	}
	return render(c, http.StatusOK, claim.ClaimNumber, "/claims", pages.ClaimDetail(view))
}

func claimDetailView(c echo.Context, claim *models.Claim) (pages.ClaimDetailView, error) {
	ctx := c.Request().Context()
	now, loc := observer(c)
	view := pages.ClaimDetailView{Claim: claim, Now: now, Location: loc, MovementForm: components.NewFormState()}

	var err error
	if view.Activities, err = services.ListActivitiesByClaim(ctx, db.DB, claim.ID); err != nil {
		return view, err
	}
	if view.Movements, err = services.ListMovementsByClaim(ctx, db.DB, claim.ID); err != nil {
		return view, err
	}
	if view.Documents, err = services.ListDocumentsByClaim(ctx, db.DB, claim.ID); err != nil {
		return view, err
	}
	if view.Audit, err = services.GetClaimAuditTrail(ctx, db.DB, claim.ID); err != nil {
		return view, err
	}
	return view, nil
}

// NewClaimPageHandler renders an empty claim form
func NewClaimPageHandler(c echo.Context) error {
	now, _ := observer(c)
	form := components.NewFormState()
	form.Set("status", models.ClaimStatusOpen)
	form.Set("currency", models.CurrencyBRL)
	form.Set("reported_date", now.Format(services.DateLayout))
	if policyID := c.QueryParam("policy_id"); policyID != "" {
		form.Set("policy_id", policyID)
	}
	return renderClaimForm(c, http.StatusOK, "", form)
}

// EditClaimPageHandler renders the claim form prefilled from the stored claim
func EditClaimPageHandler(c echo.Context) error {
	claim, err := services.GetClaimByID(c.Request().Context(), db.DB, c.Param("id"))
	if err != nil {
		return pageError(c, err, "/claims")
	}
	return renderClaimForm(c, http.StatusOK, claim.ID, pages.ClaimFormValues(claim))
}

func renderClaimForm(c echo.Context, status int, claimID string, form components.FormState) error {
	ctx := c.Request().Context()
	policies, err := services.ListPolicies(ctx, db.DB, services.PolicyFilters{})
	if err != nil {
		return pageError(c, err, "/claims")
	}

	title := i18n.T(ctx, "claims.new")
	if claimID != "" {
		title = i18n.T(ctx, "claims.edit")
	}
	return render(c, status, title, "/claims", pages.ClaimForm(pages.ClaimFormView{
		ClaimID:  claimID,
		Form:     form,
		Policies: policies,
	}))
}

// GetClaimsHandler returns claims, filtered by status, policy_id and q
func GetClaimsHandler(c echo.Context) error {
	claims, err := services.ListClaims(c.Request().Context(), db.DB, services.ClaimFilters{
		Status:   c.QueryParam("status"),
		PolicyID: c.QueryParam("policy_id"),
		Search:   c.QueryParam("q"),
	})
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, claims)
}

// GetClaimHandler returns a single claim by ID
func GetClaimHandler(c echo.Context) error {
	claim, err := services.GetClaimByID(c.Request().Context(), db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, claim)
}

// GetClaimByNumberHandler returns a claim by its business number
func GetClaimByNumberHandler(c echo.Context) error {
	claim, err := services.GetClaimByNumber(c.Request().Context(), db.DB, c.Param("number"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, claim)
}

// CreateClaimHandler creates a claim from a JSON body or the claim form
func CreateClaimHandler(c echo.Context) error {
	ctx := c.Request().Context()
	fromForm := isFormRequest(c)

	var input services.ClaimInput
	if fromForm {
		input = services.ClaimInput{
			ClaimNumber:  c.FormValue("claim_number"),
			Title:        c.FormValue("title"),
			PolicyID:     formNonEmpty(c, "policy_id"),
			Status:       c.FormValue("status"),
			Currency:     c.FormValue("currency"),
			ProductLOB:   formNonEmpty(c, "product_lob"),
			InsuredName:  c.FormValue("insured_name"),
			Coverage:     formNonEmpty(c, "coverage"),
			CauseOfLoss:  formNonEmpty(c, "cause_of_loss"),
			DateOfLoss:   formNonEmpty(c, "date_of_loss"),
			ReportedDate: c.FormValue("reported_date"),
			Description:  c.FormValue("description"),
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	claim, err := services.CreateClaim(ctx, db.DB, middleware.GetAuditContext(c), input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderClaimForm(c, http.StatusUnprocessableEntity, "", withErrors(formState(c, claimFormFields...), err))
		}
		return pageError(c, err, "/claims")
	}

	if fromForm {
		return redirect(c, "/claims/"+claim.ID)
	}
	return c.JSON(http.StatusCreated, claim)
}

// UpdateClaimHandler applies a partial update to a claim
func UpdateClaimHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	fromForm := isFormRequest(c)

	var input services.ClaimUpdate
	if fromForm {
		input = services.ClaimUpdate{
			ClaimNumber:  formNonEmpty(c, "claim_number"),
			Title:        formString(c, "title"),
			PolicyID:     formString(c, "policy_id"),
			Status:       formNonEmpty(c, "status"),
			Currency:     formNonEmpty(c, "currency"),
			ProductLOB:   formString(c, "product_lob"),
			InsuredName:  formString(c, "insured_name"),
			Coverage:     formString(c, "coverage"),
			CauseOfLoss:  formString(c, "cause_of_loss"),
			DateOfLoss:   formString(c, "date_of_loss"),
			ReportedDate: formNonEmpty(c, "reported_date"),
			Description:  formString(c, "description"),
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	claim, err := services.UpdateClaim(ctx, db.DB, middleware.GetAuditContext(c), id, input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderClaimForm(c, http.StatusUnprocessableEntity, id, withErrors(formState(c, claimFormFields...), err))
		}
		return pageError(c, err, "/claims")
	}

	if fromForm {
		return redirect(c, "/claims/"+claim.ID)
	}
	return c.JSON(http.StatusOK, claim)
}

// DeleteClaimHandler removes a claim that has no dependents
func DeleteClaimHandler(c echo.Context) error {
	err := services.DeleteClaim(c.Request().Context(), db.DB, middleware.GetAuditContext(c), c.Param("id"))
	if isFormRequest(c) {
		if err != nil {
			return pageError(c, err, "/claims")
		}
		return redirect(c, "/claims")
	}
	if err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetClaimAuditHandler returns the audit trail of a claim and its children
func GetClaimAuditHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := services.GetClaimByID(ctx, db.DB, id); err != nil {
		return apiError(c, err)
	}

	entries, err := services.GetClaimAuditTrail(ctx, db.DB, id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
