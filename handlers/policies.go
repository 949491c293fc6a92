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

var policyFormFields = []string{
	"policy_number", "named_insured", "period_start", "period_end", "coverage_type",
	"sum_insured", "deductible", "binder_ref",
}

// PoliciesPageHandler renders the policy list
func PoliciesPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	now, _ := observer(c)
	filters := pages.PolicyListFilters{
		Search: c.QueryParam("q"),
		State:  c.QueryParam("state"),
	}

	policies, err := services.ListPolicies(ctx, db.DB, services.PolicyFilters{Search: filters.Search, State: filters.State, Now: now})
	if err != nil {
		return pageError(c, err, "/policies")
	}
	return render(c, http.StatusOK, i18n.T(ctx, "policies.title"), "/policies", pages.PoliciesList(policies, now, filters))
}

// PolicyDetailPageHandler renders a policy with its exclusions and claims
func PolicyDetailPageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	policy, err := services.GetPolicyByID(ctx, db.DB, c.Param("id"))
	if err != nil {
		return pageError(c, err, "/policies")
	}
	claims, err := services.ListClaims(ctx, db.DB, services.ClaimFilters{PolicyID: policy.ID})
	if err != nil {
		return pageError(c, err, "/policies")
	}

	now, loc := observer(c)
	return render(c, http.StatusOK, policy.PolicyNumber, "/policies", pages.PolicyDetail(pages.PolicyDetailView{
		Policy:   policy,
		Claims:   claims,
		Now:      now,
		Location: loc,
	}))
}

// NewPolicyPageHandler renders an empty policy form
func NewPolicyPageHandler(c echo.Context) error {
	form := components.NewFormState()
	form.Set("coverage_type", models.PolicyCoverageAllRisksProperty)
	return renderPolicyForm(c, http.StatusOK, "", form, nil)
}

// EditPolicyPageHandler renders the policy form prefilled from the stored policy
func EditPolicyPageHandler(c echo.Context) error {
	policy, err := services.GetPolicyByID(c.Request().Context(), db.DB, c.Param("id"))
	if err != nil {
		return pageError(c, err, "/policies")
	}
	ids := make([]string, 0, len(policy.Exclusions))
	for _, e := range policy.Exclusions {
		ids = append(ids, e.ID)
	}
	return renderPolicyForm(c, http.StatusOK, policy.ID, pages.PolicyFormValues(policy), ids)
}

func renderPolicyForm(c echo.Context, status int, policyID string, form components.FormState, exclusionIDs []string) error {
	ctx := c.Request().Context()
	exclusions, err := services.ListExclusions(ctx, db.DB)
	if err != nil {
		return pageError(c, err, "/policies")
	}

	title := i18n.T(ctx, "policies.new")
	if policyID != "" {
		title = form.Get("policy_number")
	}
	return render(c, status, title, "/policies", pages.PolicyForm(pages.PolicyFormView{
		PolicyID:     policyID,
		Form:         form,
		Exclusions:   exclusions,
		ExclusionIDs: exclusionIDs,
	}))
}

// formExclusionIDs returns the selected exclusions of the policy form
func formExclusionIDs(c echo.Context) []string {
	values, err := c.FormParams()
	if err != nil {
		return []string{}
	}
	ids := make([]string, 0, len(values["exclusion_ids"]))
	for _, id := range values["exclusion_ids"] {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// GetPoliciesHandler returns policies filtered by q and state
func GetPoliciesHandler(c echo.Context) error {
	now, _ := observer(c)
	policies, err := services.ListPolicies(c.Request().Context(), db.DB, services.PolicyFilters{
		Search: c.QueryParam("q"),
		State:  c.QueryParam("state"),
		Now:    now,
	})
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, policies)
}

// GetPolicyHandler returns a single policy by ID
func GetPolicyHandler(c echo.Context) error {
	policy, err := services.GetPolicyByID(c.Request().Context(), db.DB, c.Param("id"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, policy)
}

// GetPolicyByNumberHandler returns a policy by its business number
func GetPolicyByNumberHandler(c echo.Context) error {
	policy, err := services.GetPolicyByNumber(c.Request().Context(), db.DB, c.Param("number"))
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, policy)
}

// CreatePolicyHandler creates a policy from a JSON body or the policy form
func CreatePolicyHandler(c echo.Context) error {
	ctx := c.Request().Context()
	fromForm := isFormRequest(c)

	var input services.PolicyInput
	if fromForm {
		ve := &services.ValidationError{}
		sumInsured := formDecimal(c, "sum_insured", ve)
		if sumInsured == nil {
			ve.Add("sum_insured", "is required")
		}
		deductible := formDecimal(c, "deductible", ve)
		if err := validationFailure(ve); err != nil {
			return renderPolicyForm(c, http.StatusUnprocessableEntity, "", withErrors(formState(c, policyFormFields...), err), formExclusionIDs(c))
		}
		input = services.PolicyInput{
			PolicyNumber: c.FormValue("policy_number"),
			PeriodStart:  c.FormValue("period_start"),
			PeriodEnd:    c.FormValue("period_end"),
			NamedInsured: c.FormValue("named_insured"),
			SumInsured:   *sumInsured,
			CoverageType: c.FormValue("coverage_type"),
			Deductible:   deductible,
			BinderRef:    formNonEmpty(c, "binder_ref"),
			ExclusionIDs: formExclusionIDs(c),
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	policy, err := services.CreatePolicy(ctx, db.DB, middleware.GetAuditContext(c), input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderPolicyForm(c, http.StatusUnprocessableEntity, "", withErrors(formState(c, policyFormFields...), err), input.ExclusionIDs)
		}
		return pageError(c, err, "/policies")
	}

	if fromForm {
		return redirect(c, "/policies/"+policy.ID)
	}
	return c.JSON(http.StatusCreated, policy)
}

// UpdatePolicyHandler applies a partial update to a policy
func UpdatePolicyHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	fromForm := isFormRequest(c)

	var input services.PolicyUpdate
	if fromForm {
		ve := &services.ValidationError{}
		ids := formExclusionIDs(c)
		input = services.PolicyUpdate{
			PolicyNumber: formString(c, "policy_number"),
			PeriodStart:  formNonEmpty(c, "period_start"),
			PeriodEnd:    formNonEmpty(c, "period_end"),
			NamedInsured: formString(c, "named_insured"),
			SumInsured:   formDecimal(c, "sum_insured", ve),
			CoverageType: formNonEmpty(c, "coverage_type"),
			Deductible:   formDecimal(c, "deductible", ve),
			BinderRef:    formString(c, "binder_ref"),
			ExclusionIDs: &ids,
		}
		input.ClearDeductible = input.Deductible == nil && c.FormValue("deductible") == ""
		if err := validationFailure(ve); err != nil {
			return renderPolicyForm(c, http.StatusUnprocessableEntity, id, withErrors(formState(c, policyFormFields...), err), ids)
		}
	} else if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	policy, err := services.UpdatePolicy(ctx, db.DB, middleware.GetAuditContext(c), id, input)
	if err != nil {
		if !fromForm {
			return apiError(c, err)
		}
		if _, ok := services.AsValidationError(err); ok {
			return renderPolicyForm(c, http.StatusUnprocessableEntity, id, withErrors(formState(c, policyFormFields...), err), *input.ExclusionIDs)
		}
		return pageError(c, err, "/policies")
	}

	if fromForm {
		return redirect(c, "/policies/"+policy.ID)
	}
	return c.JSON(http.StatusOK, policy)
}

// DeletePolicyHandler removes a policy, detaching its claims
func DeletePolicyHandler(c echo.Context) error {
	err := services.DeletePolicy(c.Request().Context(), db.DB, middleware.GetAuditContext(c), c.Param("id"))
	if isFormRequest(c) {
		if err != nil {
			return pageError(c, err, "/policies")
		}
		return redirect(c, "/policies")
	}
	if err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
