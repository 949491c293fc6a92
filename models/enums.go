package models

// UnknownLabel is shown for any code outside a declared set
const UnknownLabel = "Unknown"

// Claim status constants
const (
	ClaimStatusOpen        = "Open"
	ClaimStatusUnderReview = "UnderReview"
	ClaimStatusApproved    = "Approved"
	ClaimStatusPaid        = "Paid"
	ClaimStatusClosed      = "Closed"
	ClaimStatusSoftClosed  = "SoftClosed"
)

// Activity status constants
const (
	ActivityStatusPending    = "Pending"
	ActivityStatusInProgress = "InProgress"
	ActivityStatusCompleted  = "Completed"
	ActivityStatusCancelled  = "Cancelled"
)

// Activity role constants (canonical vocabulary)
const (
	ActivityRoleAdjuster = "Adjuster"
	ActivityRoleSurveyor = "Surveyor"
	ActivityRoleLawyer   = "Lawyer"
	ActivityRoleManager  = "Manager"
)

// Legacy activity roles accepted from the simplified creation form
const (
	LegacyRoleClaimsHandler = "ClaimsHandler"
	LegacyRoleInvestigator  = "Investigator"
	LegacyRoleLegalCounsel  = "LegalCounsel"
)

// Currency constants
const (
	CurrencyBRL = "BRL"
	CurrencyUSD = "USD"
	CurrencyGBP = "GBP"
)

// Cause of loss constants
const (
	CauseOfLossEscapeOfWater = "EscapeOfWater"
	CauseOfLossFire          = "Fire"
	CauseOfLossTheft         = "Theft"
)

// Claim coverage constants
const (
	CoverageMaterialDamage = "MaterialDamage"
	CoverageBI             = "BI"
	CoverageStock          = "Stock"
	CoverageFidelity       = "Fidelity"
	CoverageOther          = "Other"
)

// Movement type constants
const (
	MovementTypeReserveIncrease = "ReserveIncrease"
	MovementTypeReserveDecrease = "ReserveDecrease"
	MovementTypePayment         = "Payment"
	MovementTypeRecovery        = "Recovery"
)

// Product line of business constants
const (
	ProductLOBProperty       = "Property"
	ProductLOBEngineering    = "Engineering"
	ProductLOBMobileDevice   = "MobileDevice"
	ProductLOBFinancialLines = "FinancialLines"
)

// Policy coverage type constants
const (
	PolicyCoverageAllRisksProperty = "AllRisksProperty"
)

// Document type constants
const (
	DocumentTypePdf   = "Pdf"
	DocumentTypeDoc   = "Doc"
	DocumentTypeXls   = "Xls"
	DocumentTypeImage = "Image"
)

// Ordered code lists, used for form selects and validation
var (
	ClaimStatuses       = []string{ClaimStatusOpen, ClaimStatusUnderReview, ClaimStatusApproved, ClaimStatusPaid, ClaimStatusClosed, ClaimStatusSoftClosed}
	ActivityStatuses    = []string{ActivityStatusPending, ActivityStatusInProgress, ActivityStatusCompleted, ActivityStatusCancelled}
	ActivityRoles       = []string{ActivityRoleAdjuster, ActivityRoleSurveyor, ActivityRoleLawyer, ActivityRoleManager}
	Currencies          = []string{CurrencyBRL, CurrencyUSD, CurrencyGBP}
	CausesOfLoss        = []string{CauseOfLossEscapeOfWater, CauseOfLossFire, CauseOfLossTheft}
	Coverages           = []string{CoverageMaterialDamage, CoverageBI, CoverageStock, CoverageFidelity, CoverageOther}
	MovementTypes       = []string{MovementTypeReserveIncrease, MovementTypeReserveDecrease, MovementTypePayment, MovementTypeRecovery}
	ProductLOBs         = []string{ProductLOBProperty, ProductLOBEngineering, ProductLOBMobileDevice, ProductLOBFinancialLines}
	PolicyCoverageTypes = []string{PolicyCoverageAllRisksProperty}
	DocumentTypes       = []string{DocumentTypePdf, DocumentTypeDoc, DocumentTypeXls, DocumentTypeImage}
)

var claimStatusNames = map[string]string{
	ClaimStatusOpen:        "Open",
	ClaimStatusUnderReview: "Under Review",
	ClaimStatusApproved:    "Approved",
	ClaimStatusPaid:        "Paid",
	ClaimStatusClosed:      "Closed",
	ClaimStatusSoftClosed:  "Soft Closed",
}

var activityStatusNames = map[string]string{
	ActivityStatusPending:    "Pending",
	ActivityStatusInProgress: "In Progress",
	ActivityStatusCompleted:  "Completed",
	ActivityStatusCancelled:  "Cancelled",
}

var activityRoleNames = map[string]string{
	ActivityRoleAdjuster: "Adjuster",
	ActivityRoleSurveyor: "Surveyor",
	ActivityRoleLawyer:   "Lawyer",
	ActivityRoleManager:  "Manager",
}

// legacyRoleMapping rewrites the simplified form's roles onto the canonical set
var legacyRoleMapping = map[string]string{
	LegacyRoleClaimsHandler: ActivityRoleAdjuster,
	LegacyRoleInvestigator:  ActivityRoleSurveyor,
	LegacyRoleLegalCounsel:  ActivityRoleLawyer,
}

var currencyNames = map[string]string{
	CurrencyBRL: "BRL",
	CurrencyUSD: "USD",
	CurrencyGBP: "GBP",
}

var causeOfLossNames = map[string]string{
	CauseOfLossEscapeOfWater: "Escape of Water",
	CauseOfLossFire:          "Fire",
	CauseOfLossTheft:         "Theft",
}

var coverageNames = map[string]string{
	CoverageMaterialDamage: "Material Damage",
	CoverageBI:             "Business Interruption",
	CoverageStock:          "Stock",
	CoverageFidelity:       "Fidelity",
	CoverageOther:          "Other",
}

var movementTypeNames = map[string]string{
	MovementTypeReserveIncrease: "Reserve Increase",
	MovementTypeReserveDecrease: "Reserve Decrease",
	MovementTypePayment:         "Payment",
	MovementTypeRecovery:        "Recovery",
}

var productLOBNames = map[string]string{
	ProductLOBProperty:       "Property",
	ProductLOBEngineering:    "Engineering",
	ProductLOBMobileDevice:   "Mobile Device",
	ProductLOBFinancialLines: "Financial Lines",
}

var policyCoverageTypeNames = map[string]string{
	PolicyCoverageAllRisksProperty: "All Risks Property",
}

var documentTypeNames = map[string]string{
	DocumentTypePdf:   "PDF",
	DocumentTypeDoc:   "Document",
	DocumentTypeXls:   "Spreadsheet",
	DocumentTypeImage: "Image",
}

func labelOf(names map[string]string, code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return UnknownLabel
}

func contains(values []string, code string) bool {
	for _, v := range values {
		if v == code {
			return true
		}
	}
	return false
}

// GetClaimStatusDisplayName returns human-readable claim status name
func GetClaimStatusDisplayName(status string) string {
	return labelOf(claimStatusNames, status)
}

// GetActivityStatusDisplayName returns human-readable activity status name
func GetActivityStatusDisplayName(status string) string {
	return labelOf(activityStatusNames, status)
}

// GetActivityRoleDisplayName returns the role name. Legacy codes display as their canonical role.
func GetActivityRoleDisplayName(role string) string {
	return labelOf(activityRoleNames, NormalizeActivityRole(role))
}

func GetCurrencyDisplayName(currency string) string {
	return labelOf(currencyNames, currency)
}

func GetCauseOfLossDisplayName(cause string) string {
	return labelOf(causeOfLossNames, cause)
}

func GetCoverageDisplayName(coverage string) string {
	return labelOf(coverageNames, coverage)
}

func GetMovementTypeDisplayName(movementType string) string {
	return labelOf(movementTypeNames, movementType)
}

func GetProductLOBDisplayName(lob string) string {
	return labelOf(productLOBNames, lob)
}

func GetPolicyCoverageTypeDisplayName(coverageType string) string {
	return labelOf(policyCoverageTypeNames, coverageType)
}

func GetDocumentTypeDisplayName(documentType string) string {
	return labelOf(documentTypeNames, documentType)
}

// IsValidClaimStatus checks if the status is valid
func IsValidClaimStatus(status string) bool { return contains(ClaimStatuses, status) }

// IsValidActivityStatus checks if the status is valid
func IsValidActivityStatus(status string) bool { return contains(ActivityStatuses, status) }

// IsValidActivityRole accepts canonical roles only. Normalize legacy input first.
func IsValidActivityRole(role string) bool { return contains(ActivityRoles, role) }

func IsValidCurrency(currency string) bool { return contains(Currencies, currency) }

func IsValidCauseOfLoss(cause string) bool { return contains(CausesOfLoss, cause) }

func IsValidCoverage(coverage string) bool { return contains(Coverages, coverage) }

func IsValidMovementType(movementType string) bool { return contains(MovementTypes, movementType) }

func IsValidProductLOB(lob string) bool { return contains(ProductLOBs, lob) }

func IsValidPolicyCoverageType(coverageType string) bool {
	return contains(PolicyCoverageTypes, coverageType)
}

func IsValidDocumentType(documentType string) bool { return contains(DocumentTypes, documentType) }

// NormalizeActivityRole maps a legacy role code onto the canonical vocabulary.
// Canonical and unrecognized codes are returned unchanged.
func NormalizeActivityRole(role string) string {
	if canonical, ok := legacyRoleMapping[role]; ok {
		return canonical
	}
	return role
}

// LegacyActivityRoles returns the legacy codes together with their canonical replacement
func LegacyActivityRoles() map[string]string {
	out := make(map[string]string, len(legacyRoleMapping))
	for k, v := range legacyRoleMapping {
		out[k] = v
	}
	return out
}

// IsClosedClaimStatus reports whether the status ends the claim lifecycle
func IsClosedClaimStatus(status string) bool {
	return status == ClaimStatusClosed || status == ClaimStatusSoftClosed
}

// IsOpenActivityStatus reports whether work on the activity is still outstanding
func IsOpenActivityStatus(status string) bool {
	return status == ActivityStatusPending || status == ActivityStatusInProgress
}
