package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNamesAreTotal(t *testing.T) {
	labelFuncs := map[string]func(string) string{
		"claim_status":    GetClaimStatusDisplayName,
		"activity_status": GetActivityStatusDisplayName,
		"activity_role":   GetActivityRoleDisplayName,
		"currency":        GetCurrencyDisplayName,
		"cause_of_loss":   GetCauseOfLossDisplayName,
		"coverage":        GetCoverageDisplayName,
		"movement_type":   GetMovementTypeDisplayName,
		"product_lob":     GetProductLOBDisplayName,
		"policy_coverage": GetPolicyCoverageTypeDisplayName,
		"document_type":   GetDocumentTypeDisplayName,
		"user_role":       GetUserRoleDisplayName,
	}

	for name, fn := range labelFuncs {
		t.Run(name, func(t *testing.T) {
			for _, code := range []string{"", "999", "Flood", "open", "\x00"} {
				assert.NotPanics(t, func() { fn(code) })
				assert.Equal(t, UnknownLabel, fn(code), "code %q", code)
			}
		})
	}
}

func TestEveryDeclaredCodeHasALabel(t *testing.T) {
	sets := []struct {
		values []string
		label  func(string) string
		valid  func(string) bool
	}{
		{ClaimStatuses, GetClaimStatusDisplayName, IsValidClaimStatus},
		{ActivityStatuses, GetActivityStatusDisplayName, IsValidActivityStatus},
		{ActivityRoles, GetActivityRoleDisplayName, IsValidActivityRole},
		{Currencies, GetCurrencyDisplayName, IsValidCurrency},
		{CausesOfLoss, GetCauseOfLossDisplayName, IsValidCauseOfLoss},
		{Coverages, GetCoverageDisplayName, IsValidCoverage},
		{MovementTypes, GetMovementTypeDisplayName, IsValidMovementType},
		{ProductLOBs, GetProductLOBDisplayName, IsValidProductLOB},
		{PolicyCoverageTypes, GetPolicyCoverageTypeDisplayName, IsValidPolicyCoverageType},
		{DocumentTypes, GetDocumentTypeDisplayName, IsValidDocumentType},
		{UserRoles, GetUserRoleDisplayName, IsValidUserRole},
	}

	for _, set := range sets {
		for _, code := range set.values {
			assert.NotEqual(t, UnknownLabel, set.label(code), "code %q", code)
			assert.True(t, set.valid(code), "code %q", code)
		}
	}
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "Under Review", GetClaimStatusDisplayName(ClaimStatusUnderReview))
	assert.Equal(t, "Soft Closed", GetClaimStatusDisplayName(ClaimStatusSoftClosed))
	assert.Equal(t, "In Progress", GetActivityStatusDisplayName(ActivityStatusInProgress))
	assert.Equal(t, "Escape of Water", GetCauseOfLossDisplayName(CauseOfLossEscapeOfWater))
	assert.Equal(t, "Reserve Increase", GetMovementTypeDisplayName(MovementTypeReserveIncrease))
	assert.Equal(t, "Mobile Device", GetProductLOBDisplayName(ProductLOBMobileDevice))
	assert.Equal(t, "All Risks Property", GetPolicyCoverageTypeDisplayName(PolicyCoverageAllRisksProperty))
}

func TestNormalizeActivityRole(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{LegacyRoleClaimsHandler, ActivityRoleAdjuster},
		{LegacyRoleInvestigator, ActivityRoleSurveyor},
		{LegacyRoleLegalCounsel, ActivityRoleLawyer},
		{ActivityRoleManager, ActivityRoleManager},
		{ActivityRoleAdjuster, ActivityRoleAdjuster},
		{"Plumber", "Plumber"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeActivityRole(tt.input))
		})
	}

	// Legacy codes display as the role they map to
	assert.Equal(t, "Adjuster", GetActivityRoleDisplayName(LegacyRoleClaimsHandler))
	assert.False(t, IsValidActivityRole(LegacyRoleInvestigator))
}

func TestLegacyActivityRolesIsACopy(t *testing.T) {
	roles := LegacyActivityRoles()
	roles[LegacyRoleClaimsHandler] = "Changed"
	assert.Equal(t, ActivityRoleAdjuster, NormalizeActivityRole(LegacyRoleClaimsHandler))
}
