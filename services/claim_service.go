package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"claims_backoffice/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClaimInput contains the fields of a new claim
type ClaimInput struct {
	ClaimNumber  string  `json:"claim_number" validate:"omitempty,max=50"`
	Title        string  `json:"title" validate:"required,max=255"`
	PolicyID     *string `json:"policy_id"`
	Status       string  `json:"status" validate:"omitempty,claim_status"`
	Currency     string  `json:"currency" validate:"required,currency"`
	ProductLOB   *string `json:"product_lob" validate:"omitempty,product_lob"`
	InsuredName  string  `json:"insured_name" validate:"max=255"`
	Coverage     *string `json:"coverage" validate:"omitempty,coverage"`
	CauseOfLoss  *string `json:"cause_of_loss" validate:"omitempty,cause_of_loss"`
	DateOfLoss   *string `json:"date_of_loss" validate:"omitempty,datetime=2006-01-02"`
	ReportedDate string  `json:"reported_date" validate:"required,datetime=2006-01-02"`
	Description  string  `json:"description" validate:"max=10000"`
}

func (in *ClaimInput) normalize() {
	in.ClaimNumber = strings.TrimSpace(in.ClaimNumber)
	in.Title = sanitizeText(in.Title)
	in.InsuredName = strings.TrimSpace(in.InsuredName)
	in.Description = sanitizeText(in.Description)
	in.PolicyID = optionalString(in.PolicyID)
	in.ProductLOB = optionalString(in.ProductLOB)
	in.Coverage = optionalString(in.Coverage)
	in.CauseOfLoss = optionalString(in.CauseOfLoss)
	in.DateOfLoss = optionalString(in.DateOfLoss)
}

// ClaimUpdate contains the fields to change, nil fields are left untouched.
// An empty string clears an optional field.
type ClaimUpdate struct {
	ClaimNumber  *string `json:"claim_number" validate:"omitempty,max=50"`
	Title        *string `json:"title" validate:"omitempty,max=255"`
	PolicyID     *string `json:"policy_id"`
	Status       *string `json:"status" validate:"omitempty,claim_status"`
	Currency     *string `json:"currency" validate:"omitempty,currency"`
	ProductLOB   *string `json:"product_lob"`
	InsuredName  *string `json:"insured_name" validate:"omitempty,max=255"`
	Coverage     *string `json:"coverage"`
	CauseOfLoss  *string `json:"cause_of_loss"`
	DateOfLoss   *string `json:"date_of_loss"`
	ReportedDate *string `json:"reported_date" validate:"omitempty,datetime=2006-01-02"`
	Description  *string `json:"description" validate:"omitempty,max=10000"`
}

// ClaimFilters narrows ListClaims
type ClaimFilters struct {
	Status   string
	PolicyID string
	Search   string
}

// ListClaims returns claims newest first with their policy
func ListClaims(ctx context.Context, db *gorm.DB, filters ClaimFilters) ([]models.Claim, error) {
	query := db.WithContext(ctx).Model(&models.Claim{}).Preload("Policy")

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.PolicyID != "" {
		query = query.Where("policy_id = ?", filters.PolicyID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where(
			"LOWER(claim_number) LIKE ? ESCAPE '\\' OR LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(insured_name) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	var claims []models.Claim
	if err := query.Order("created_date DESC").Find(&claims).Error; err != nil {
		return nil, storeError("list", "claim", err, nil)
	}
	return claims, nil
}

// GetClaimByID retrieves a claim with its policy
func GetClaimByID(ctx context.Context, db *gorm.DB, id string) (*models.Claim, error) {
	var claim models.Claim
	if err := db.WithContext(ctx).Preload("Policy").First(&claim, "id = ?", id).Error; err != nil {
		return nil, storeError("get", "claim", err, ErrClaimNotFound)
	}
	return &claim, nil
}

// GetClaimByNumber retrieves a claim by its business number
func GetClaimByNumber(ctx context.Context, db *gorm.DB, number string) (*models.Claim, error) {
	var claim models.Claim
	err := db.WithContext(ctx).Preload("Policy").
		First(&claim, "claim_number = ?", strings.TrimSpace(number)).Error
	if err != nil {
		return nil, storeError("get", "claim", err, ErrClaimNotFound)
	}
	return &claim, nil
}

// CreateClaim validates and stores a new claim. A blank claim number is generated.
func CreateClaim(ctx context.Context, db *gorm.DB, actx AuditContext, input ClaimInput) (*models.Claim, error) {
	input.normalize()
	if input.Status == "" {
		input.Status = models.ClaimStatusOpen
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	reported := parseDateField(input.ReportedDate)
	var dateOfLoss *datatypes.Date
	if input.DateOfLoss != nil {
		d := parseDateField(*input.DateOfLoss)
		dateOfLoss = &d
	}
	if err := checkClaimDates(dateOfLoss, reported); err != nil {
		return nil, err
	}

	now := time.Now()
	claim := models.Claim{
		ClaimNumber:  input.ClaimNumber,
		Title:        input.Title,
		InsuredName:  input.InsuredName,
		PolicyID:     input.PolicyID,
		Status:       input.Status,
		Currency:     input.Currency,
		ProductLOB:   input.ProductLOB,
		Coverage:     input.Coverage,
		CauseOfLoss:  input.CauseOfLoss,
		DateOfLoss:   dateOfLoss,
		ReportedDate: reported,
		Description:  input.Description,
		CreatedBy:    actx.Actor(),
		ModifiedBy:   actx.Actor(),
	}
	if claim.IsClosed() {
		claim.DateClosed = &now
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePolicyExists(tx, claim.PolicyID); err != nil {
			return err
		}

		if claim.ClaimNumber == "" {
			number, err := EnsureUniqueClaimNumber(tx, now)
			if err != nil {
				return err
			}
			claim.ClaimNumber = number
		} else if err := ensureClaimNumberFree(tx, claim.ClaimNumber, ""); err != nil {
			return err
		}

		if err := tx.Omit("Policy").Create(&claim).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourceClaim,
			ResourceID:   claim.ID,
			ResourceName: claim.ClaimNumber,
			ClaimID:      claim.ID,
			Description:  "Claim created",
			NewValues:    claim,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("create", "claim", err, nil)
	}

	invalidateReports(ctx)
	return GetClaimByID(ctx, db, claim.ID)
}

// UpdateClaim applies a partial update. Moving into Closed or SoftClosed stamps
// date_closed, moving out of them clears it.
func UpdateClaim(ctx context.Context, db *gorm.DB, actx AuditContext, id string, input ClaimUpdate) (*models.Claim, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := GetClaimByID(ctx, db, id)
	if err != nil {
		return nil, err
	}

	ve := &ValidationError{}
	updates := map[string]interface{}{}

	if input.ClaimNumber != nil {
		number := strings.TrimSpace(*input.ClaimNumber)
		if number == "" {
			ve.Add("claim_number", "is required")
		}
		updates["claim_number"] = number
	}
	if input.Title != nil {
		title := sanitizeText(*input.Title)
		if title == "" {
			ve.Add("title", "is required")
		}
		updates["title"] = title
	}
	if input.PolicyID != nil {
		updates["policy_id"] = optionalString(input.PolicyID)
	}
	if input.Currency != nil {
		updates["currency"] = *input.Currency
	}
	if input.InsuredName != nil {
		updates["insured_name"] = strings.TrimSpace(*input.InsuredName)
	}
	if input.Description != nil {
		updates["description"] = sanitizeText(*input.Description)
	}
	setOptionalEnum(updates, ve, "product_lob", input.ProductLOB, models.IsValidProductLOB)
	setOptionalEnum(updates, ve, "coverage", input.Coverage, models.IsValidCoverage)
	setOptionalEnum(updates, ve, "cause_of_loss", input.CauseOfLoss, models.IsValidCauseOfLoss)

	dateOfLoss := existing.DateOfLoss
	if input.DateOfLoss != nil {
		if v := optionalString(input.DateOfLoss); v == nil {
			dateOfLoss = nil
			updates["date_of_loss"] = nil
		} else if _, err := ParseDate(*v); err != nil {
			ve.Add("date_of_loss", "must be a date (YYYY-MM-DD)")
		} else {
			d := parseDateField(*v)
			dateOfLoss = &d
			updates["date_of_loss"] = d
		}
	}
	reported := existing.ReportedDate
	if input.ReportedDate != nil {
		reported = parseDateField(*input.ReportedDate)
		updates["reported_date"] = reported
	}

	if input.Status != nil && *input.Status != existing.Status {
		updates["status"] = *input.Status
		switch {
		case models.IsClosedClaimStatus(*input.Status) && !existing.IsClosed():
			updates["date_closed"] = time.Now()
		case !models.IsClosedClaimStatus(*input.Status):
			updates["date_closed"] = nil
		}
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}
	if err := checkClaimDates(dateOfLoss, reported); err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if policyID, ok := updates["policy_id"].(*string); ok {
			if err := ensurePolicyExists(tx, policyID); err != nil {
				return err
			}
		}
		if number, ok := updates["claim_number"].(string); ok && number != existing.ClaimNumber {
			if err := ensureClaimNumberFree(tx, number, id); err != nil {
				return err
			}
		}

		updates["modified_date"] = time.Now()
		updates["modified_by"] = actx.Actor()
		if err := tx.Model(&models.Claim{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionUpdate,
			ResourceType: models.AuditResourceClaim,
			ResourceID:   id,
			ResourceName: existing.ClaimNumber,
			ClaimID:      id,
			Description:  "Claim updated",
			OldValues:    existing,
			NewValues:    updates,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("update", "claim", err, nil)
	}

	invalidateReports(ctx)
	return GetClaimByID(ctx, db, id)
}

// DeleteClaim removes a claim. Claims with activities, movements or documents
// cannot be deleted.
func DeleteClaim(ctx context.Context, db *gorm.DB, actx AuditContext, id string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim models.Claim
		if err := tx.First(&claim, "id = ?", id).Error; err != nil {
			return err
		}

		for _, dependent := range []interface{}{&models.Activity{}, &models.Movement{}, &models.ClaimDocument{}} {
			var count int64
			if err := tx.Model(dependent).Where("claim_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrClaimHasDependents
			}
		}

		if err := tx.Delete(&claim).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionDelete,
			ResourceType: models.AuditResourceClaim,
			ResourceID:   claim.ID,
			ResourceName: claim.ClaimNumber,
			ClaimID:      claim.ID,
			Description:  "Claim deleted",
			OldValues:    claim,
		})
		return nil
	})
	if err != nil {
		return storeError("delete", "claim", err, ErrClaimNotFound)
	}

	invalidateReports(ctx)
	return nil
}

// GenerateClaimNumber returns the next CLM-<year>-<seq> number for the year of now
func GenerateClaimNumber(db *gorm.DB, now time.Time) (string, error) {
	prefix := claimNumberPrefix(now)
	sequence, err := nextClaimSequence(db, prefix)
	if err != nil {
		return "", err
	}
	return formatClaimNumber(prefix, sequence), nil
}

func claimNumberPrefix(now time.Time) string {
	return fmt.Sprintf("CLM-%d-", now.Year())
}

func formatClaimNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%05d", prefix, sequence)
}

// nextClaimSequence returns one past the highest numeric suffix under prefix.
// Manually entered numbers with a non-numeric suffix are ignored.
func nextClaimSequence(db *gorm.DB, prefix string) (int, error) {
	var numbers []string
	err := db.Model(&models.Claim{}).
		Where("claim_number LIKE ?", prefix+"%").
		Pluck("claim_number", &numbers).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query claim numbers: %w", err)
	}

	highest := 0
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, prefix)
		if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
			continue
		}
		seq, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest + 1, nil
}

// EnsureUniqueClaimNumber generates a claim number with retry logic
func EnsureUniqueClaimNumber(db *gorm.DB, now time.Time) (string, error) {
	const maxRetries = 10

	prefix := claimNumberPrefix(now)
	sequence, err := nextClaimSequence(db, prefix)
	if err != nil {
		return "", err
	}

	for i := 0; i < maxRetries; i++ {
		number := formatClaimNumber(prefix, sequence+i)

		var count int64
		if err := db.Model(&models.Claim{}).Where("claim_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}

		log.Printf("[WARNING] Claim number collision on %s, retrying (%d/%d)", number, i+1, maxRetries)
	}

	return "", fmt.Errorf("failed to generate unique claim number after %d attempts", maxRetries)
}

func ensureClaimNumberFree(tx *gorm.DB, number, exceptID string) error {
	query := tx.Model(&models.Claim{}).Where("claim_number = ?", number)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{Fields: map[string]string{"claim_number": "already exists"}}
	}
	return nil
}

func ensurePolicyExists(tx *gorm.DB, policyID *string) error {
	if policyID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Policy{}).Where("id = ?", *policyID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ValidationError{Fields: map[string]string{"policy_id": "does not exist"}}
	}
	return nil
}

func checkClaimDates(dateOfLoss *datatypes.Date, reported datatypes.Date) error {
	if dateOfLoss == nil {
		return nil
	}
	if time.Time(reported).Before(time.Time(*dateOfLoss)) {
		return &ValidationError{Fields: map[string]string{"reported_date": "must be on or after date_of_loss"}}
	}
	return nil
}

// setOptionalEnum stages an optional enum column, blank clears it
func setOptionalEnum(updates map[string]interface{}, ve *ValidationError, column string, value *string, isValid func(string) bool) {
	if value == nil {
		return
	}
	v := optionalString(value)
	if v == nil {
		updates[column] = nil
		return
	}
	if !isValid(*v) {
		ve.Add(column, "is not a valid option")
		return
	}
	updates[column] = *v
}
