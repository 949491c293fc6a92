package services

import (
	"context"
	"strings"
	"time"

	"claims_backoffice/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PolicyInput contains the fields of a new policy
type PolicyInput struct {
	PolicyNumber string           `json:"policy_number" validate:"required,max=100"`
	PeriodStart  string           `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd    string           `json:"period_end" validate:"required,datetime=2006-01-02"`
	NamedInsured string           `json:"named_insured" validate:"required,max=255"`
	SumInsured   decimal.Decimal  `json:"sum_insured" validate:"gte=0"`
	CoverageType string           `json:"coverage_type" validate:"omitempty,policy_coverage"`
	Deductible   *decimal.Decimal `json:"deductible" validate:"omitempty,gte=0"`
	BinderRef    *string          `json:"binder_ref" validate:"omitempty,max=100"`
	ExclusionIDs []string         `json:"exclusion_ids"`
}

// PolicyUpdate contains the fields to change, nil fields are left untouched
type PolicyUpdate struct {
	PolicyNumber *string          `json:"policy_number" validate:"omitempty,max=100"`
	PeriodStart  *string          `json:"period_start" validate:"omitempty,datetime=2006-01-02"`
	PeriodEnd    *string          `json:"period_end" validate:"omitempty,datetime=2006-01-02"`
	NamedInsured *string          `json:"named_insured" validate:"omitempty,max=255"`
	SumInsured   *decimal.Decimal `json:"sum_insured" validate:"omitempty,gte=0"`
	CoverageType *string          `json:"coverage_type" validate:"omitempty,policy_coverage"`
	Deductible   *decimal.Decimal `json:"deductible" validate:"omitempty,gte=0"`
	BinderRef    *string          `json:"binder_ref" validate:"omitempty,max=100"`
	ExclusionIDs *[]string        `json:"exclusion_ids"`
	// ClearDeductible removes the deductible, Deductible is ignored when set
	ClearDeductible bool `json:"clear_deductible"`
}

// PolicyFilters narrows ListPolicies
type PolicyFilters struct {
	Search string
	State  string    // lifecycle state, evaluated at Now
	Now    time.Time // defaults to time.Now()
}

// ListPolicies returns policies newest first
func ListPolicies(ctx context.Context, db *gorm.DB, filters PolicyFilters) ([]models.Policy, error) {
	query := db.WithContext(ctx).Model(&models.Policy{}).Preload("Exclusions", func(db *gorm.DB) *gorm.DB {
		return db.Order("title ASC")
	})

	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(policy_number) LIKE ? ESCAPE '\\' OR LOWER(named_insured) LIKE ? ESCAPE '\\'", pattern, pattern)
	}

	var policies []models.Policy
	if err := query.Order("created_date DESC").Find(&policies).Error; err != nil {
		return nil, storeError("list", "policy", err, nil)
	}

	if filters.State != "" {
		now := filters.Now
		if now.IsZero() {
			now = time.Now()
		}
		filtered := policies[:0]
		for _, p := range policies {
			if strings.EqualFold(p.LifecycleState(now), strings.TrimSpace(filters.State)) {
				filtered = append(filtered, p)
			}
		}
		policies = filtered
	}

	return policies, nil
}

// GetPolicyByID retrieves a policy with its exclusions
func GetPolicyByID(ctx context.Context, db *gorm.DB, id string) (*models.Policy, error) {
	var policy models.Policy
	err := db.WithContext(ctx).Preload("Exclusions", func(db *gorm.DB) *gorm.DB {
		return db.Order("title ASC")
	}).First(&policy, "id = ?", id).Error
	if err != nil {
		return nil, storeError("get", "policy", err, ErrPolicyNotFound)
	}
	return &policy, nil
}

// GetPolicyByNumber retrieves a policy by its business number
func GetPolicyByNumber(ctx context.Context, db *gorm.DB, number string) (*models.Policy, error) {
	var policy models.Policy
	err := db.WithContext(ctx).Preload("Exclusions").
		First(&policy, "policy_number = ?", strings.TrimSpace(number)).Error
	if err != nil {
		return nil, storeError("get", "policy", err, ErrPolicyNotFound)
	}
	return &policy, nil
}

// CreatePolicy validates and stores a new policy
func CreatePolicy(ctx context.Context, db *gorm.DB, actx AuditContext, input PolicyInput) (*models.Policy, error) {
	input.PolicyNumber = strings.TrimSpace(input.PolicyNumber)
	input.NamedInsured = strings.TrimSpace(input.NamedInsured)
	input.BinderRef = optionalString(input.BinderRef)
	if input.CoverageType == "" {
		input.CoverageType = models.PolicyCoverageAllRisksProperty
	}

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	start := parseDateField(input.PeriodStart)
	end := parseDateField(input.PeriodEnd)
	if err := checkPolicyRules(time.Time(start), time.Time(end), input.SumInsured, input.Deductible); err != nil {
		return nil, err
	}

	policy := models.Policy{
		PolicyNumber: input.PolicyNumber,
		PeriodStart:  start,
		PeriodEnd:    end,
		NamedInsured: input.NamedInsured,
		SumInsured:   input.SumInsured,
		CoverageType: input.CoverageType,
		Deductible:   input.Deductible,
		BinderRef:    input.BinderRef,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePolicyNumberFree(tx, policy.PolicyNumber, ""); err != nil {
			return err
		}

		exclusions, err := findExclusions(tx, input.ExclusionIDs)
		if err != nil {
			return err
		}
		policy.Exclusions = exclusions

		if err := tx.Omit("Exclusions.*").Create(&policy).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourcePolicy,
			ResourceID:   policy.ID,
			ResourceName: policy.PolicyNumber,
			Description:  "Policy created",
			NewValues:    policy,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("create", "policy", err, nil)
	}

	invalidateReports(ctx)
	return GetPolicyByID(ctx, db, policy.ID)
}

// UpdatePolicy applies a partial update and refreshes modified_date
func UpdatePolicy(ctx context.Context, db *gorm.DB, actx AuditContext, id string, input PolicyUpdate) (*models.Policy, error) {
	input.BinderRef = trimmedPtr(input.BinderRef)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := GetPolicyByID(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	ve := &ValidationError{}

	start := time.Time(existing.PeriodStart)
	end := time.Time(existing.PeriodEnd)
	sumInsured := existing.SumInsured
	deductible := existing.Deductible

	if input.PolicyNumber != nil {
		number := strings.TrimSpace(*input.PolicyNumber)
		if number == "" {
			ve.Add("policy_number", "is required")
		}
		updates["policy_number"] = number
	}
	if input.PeriodStart != nil {
		d := parseDateField(*input.PeriodStart)
		start = time.Time(d)
		updates["period_start"] = d
	}
	if input.PeriodEnd != nil {
		d := parseDateField(*input.PeriodEnd)
		end = time.Time(d)
		updates["period_end"] = d
	}
	if input.NamedInsured != nil {
		name := strings.TrimSpace(*input.NamedInsured)
		if name == "" {
			ve.Add("named_insured", "is required")
		}
		updates["named_insured"] = name
	}
	if input.SumInsured != nil {
		sumInsured = *input.SumInsured
		updates["sum_insured"] = sumInsured
	}
	if input.CoverageType != nil {
		updates["coverage_type"] = *input.CoverageType
	}
	if input.ClearDeductible {
		deductible = nil
		updates["deductible"] = nil
	} else if input.Deductible != nil {
		deductible = input.Deductible
		updates["deductible"] = *input.Deductible
	}
	if input.BinderRef != nil {
		updates["binder_ref"] = optionalString(input.BinderRef)
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}
	if err := checkPolicyRules(start, end, sumInsured, deductible); err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if number, ok := updates["policy_number"].(string); ok && number != existing.PolicyNumber {
			if err := ensurePolicyNumberFree(tx, number, id); err != nil {
				return err
			}
		}

		updates["modified_date"] = time.Now()
		if err := tx.Model(&models.Policy{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if input.ExclusionIDs != nil {
			exclusions, err := findExclusions(tx, *input.ExclusionIDs)
			if err != nil {
				return err
			}
			assoc := tx.Model(existing).Association("Exclusions")
			if len(exclusions) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(exclusions)
			}
			if err != nil {
				return err
			}
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionUpdate,
			ResourceType: models.AuditResourcePolicy,
			ResourceID:   id,
			ResourceName: existing.PolicyNumber,
			Description:  "Policy updated",
			OldValues:    existing,
			NewValues:    updates,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("update", "policy", err, nil)
	}

	invalidateReports(ctx)
	return GetPolicyByID(ctx, db, id)
}

// DeletePolicy removes a policy. Claims keep existing without a policy link
// and the policy's exclusion links are removed in the same transaction.
func DeletePolicy(ctx context.Context, db *gorm.DB, actx AuditContext, id string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var policy models.Policy
		if err := tx.First(&policy, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Claim{}).Where("policy_id = ?", id).
			Updates(map[string]interface{}{"policy_id": nil, "modified_date": time.Now()}).Error; err != nil {
			return err
		}
		if err := tx.Model(&policy).Association("Exclusions").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&policy).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionDelete,
			ResourceType: models.AuditResourcePolicy,
			ResourceID:   policy.ID,
			ResourceName: policy.PolicyNumber,
			Description:  "Policy deleted",
			OldValues:    policy,
		})
		return nil
	})
	if err != nil {
		return storeError("delete", "policy", err, ErrPolicyNotFound)
	}

	invalidateReports(ctx)
	return nil
}

// checkPolicyRules enforces the cross-field rules of a policy
func checkPolicyRules(start, end time.Time, sumInsured decimal.Decimal, deductible *decimal.Decimal) error {
	ve := &ValidationError{}
	if end.Before(start) {
		ve.Add("period_end", "must be on or after period_start")
	}
	if sumInsured.IsNegative() {
		ve.Add("sum_insured", "must be greater than or equal to 0")
	}
	if deductible != nil {
		if deductible.IsNegative() {
			ve.Add("deductible", "must be greater than or equal to 0")
		} else if deductible.GreaterThan(sumInsured) {
			ve.Add("deductible", "must not exceed sum_insured")
		}
	}
	return ve.orNil()
}

func ensurePolicyNumberFree(tx *gorm.DB, number, exceptID string) error {
	query := tx.Model(&models.Policy{}).Where("policy_number = ?", number)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{Fields: map[string]string{"policy_number": "already exists"}}
	}
	return nil
}

// trimmedPtr trims a pointer value but keeps an explicit empty string
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
