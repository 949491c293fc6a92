package handlers

import (
	"net/http"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/services"
	"claims_backoffice/templates/pages"

	"github.com/labstack/echo/v4"
)

// GetMovementsHandler returns every movement across claims
func GetMovementsHandler(c echo.Context) error {
	movements, err := services.ListMovements(c.Request().Context(), db.DB)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, movements)
}

// GetClaimMovementsHandler returns the movements of one claim
func GetClaimMovementsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	claimID := c.Param("id")
	if _, err := services.GetClaimByID(ctx, db.DB, claimID); err != nil {
		return apiError(c, err)
	}

	movements, err := services.ListMovementsByClaim(ctx, db.DB, claimID)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, movements)
}

// CreateMovementHandler records a financial movement and refreshes the claim rollup
func CreateMovementHandler(c echo.Context) error {
	ctx := c.Request().Context()
	claimID := c.Param("id")
	fromForm := isFormRequest(c)

	var input services.MovementInput
	if fromForm {
		ve := &services.ValidationError{}
		amount := formDecimal(c, "amount", ve)
		if amount == nil && len(ve.Fields) == 0 {
			ve.Add("amount", "is required")
		}
		if err := validationFailure(ve); err != nil {
			return renderMovementErrors(c, claimID, err)
		}
		input = services.MovementInput{
			Type:     c.FormValue("type"),
			Coverage: c.FormValue("coverage"),
			Amount:   *amount,
			Date:     c.FormValue("date"),
			Note:     formNonEmpty(c, "note"),
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	movement, err := services.CreateMovement(ctx, db.DB, middleware.GetAuditContext(c), claimID, input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderMovementErrors(c, claimID, err)
		}
		return pageError(c, err, "/claims")
	}

	if fromForm {
		return redirect(c, "/claims/"+claimID)
	}
	return c.JSON(http.StatusCreated, movement)
}

// renderMovementErrors shows the claim page again with the rejected movement form
func renderMovementErrors(c echo.Context, claimID string, err error) error {
	claim, getErr := services.GetClaimByID(c.Request().Context(), db.DB, claimID)
	if getErr != nil {
		return pageError(c, getErr, "/claims")
	}
	view, viewErr := claimDetailView(c, claim)
	if viewErr != nil {
		return pageError(c, viewErr, "/claims")
	}
	view.MovementForm = withErrors(formState(c, "type", "coverage", "amount", "date", "note"), err)
	return render(c, http.StatusUnprocessableEntity, claim.ClaimNumber, "/claims", pages.ClaimDetail(view))
}

// DeleteMovementHandler removes a movement and refreshes the claim rollup
func DeleteMovementHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if !isFormRequest(c) {
		if err := services.DeleteMovement(ctx, db.DB, middleware.GetAuditContext(c), id); err != nil {
			return apiError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	movement, err := services.GetMovementByID(ctx, db.DB, id)
	if err == nil {
		err = services.DeleteMovement(ctx, db.DB, middleware.GetAuditContext(c), id)
	}
	if err != nil {
		return pageError(c, err, "/claims")
	}
	return redirect(c, "/claims/"+movement.ClaimID)
}
