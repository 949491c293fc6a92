package services

import (
	"context"
	"time"

	"claims_backoffice/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementInput contains the fields of a new movement. Amount is a magnitude,
// the type decides whether it raises or lowers the claim figures.
type MovementInput struct {
	Type     string          `json:"type" validate:"required,movement_type"`
	Coverage string          `json:"coverage" validate:"required,coverage"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note     *string         `json:"note"`
	UserName *string         `json:"user_name"`
}

// ListMovements returns every movement, most recent date first
func ListMovements(ctx context.Context, db *gorm.DB) ([]models.Movement, error) {
	var movements []models.Movement
	err := db.WithContext(ctx).
		Preload("Claim").
		Order("date DESC, created_date DESC").
		Find(&movements).Error
	return movements, storeError("list", "movement", err, nil)
}

// ListMovementsByClaim returns a claim's movements, most recent date first
func ListMovementsByClaim(ctx context.Context, db *gorm.DB, claimID string) ([]models.Movement, error) {
	var movements []models.Movement
	err := db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("date DESC, created_date DESC").
		Find(&movements).Error
	return movements, storeError("list", "movement", err, nil)
}

// GetMovementByID retrieves a movement by ID
func GetMovementByID(ctx context.Context, db *gorm.DB, id string) (*models.Movement, error) {
	var movement models.Movement
	if err := db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		return nil, storeError("get", "movement", err, ErrMovementNotFound)
	}
	return &movement, nil
}

// CreateMovement records a movement and refreshes the claim's financial rollup
// in the same transaction
func CreateMovement(ctx context.Context, db *gorm.DB, actx AuditContext, claimID string, input MovementInput) (*models.Movement, error) {
	input.Note = sanitizeOptional(input.Note)
	input.UserName = optionalString(input.UserName)
	if input.UserName == nil && actx.UserName != "" {
		name := actx.UserName
		input.UserName = &name
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	movement := models.Movement{
		ClaimID:  claimID,
		Type:     input.Type,
		Coverage: input.Coverage,
		Amount:   input.Amount,
		Date:     parseDateField(input.Date),
		Note:     input.Note,
		UserName: input.UserName,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claim models.Claim
		if err := tx.First(&claim, "id = ?", claimID).Error; err != nil {
			return err
		}

		if err := tx.Omit("Claim").Create(&movement).Error; err != nil {
			return err
		}
		if _, err := refreshClaimFinancials(tx, claimID, actx); err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourceMovement,
			ResourceID:   movement.ID,
			ResourceName: models.GetMovementTypeDisplayName(movement.Type) + " " + movement.Amount.StringFixed(2),
			ClaimID:      claimID,
			Description:  "Movement recorded",
			NewValues:    movement,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("create", "movement", err, ErrClaimNotFound)
	}

	invalidateReports(ctx)
	return &movement, nil
}

// DeleteMovement removes a movement and refreshes the claim's rollup
func DeleteMovement(ctx context.Context, db *gorm.DB, actx AuditContext, id string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movement models.Movement
		if err := tx.First(&movement, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&movement).Error; err != nil {
			return err
		}
		if _, err := refreshClaimFinancials(tx, movement.ClaimID, actx); err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionDelete,
			ResourceType: models.AuditResourceMovement,
			ResourceID:   movement.ID,
			ClaimID:      movement.ClaimID,
			Description:  "Movement deleted",
			OldValues:    movement,
		})
		return nil
	})
	if err != nil {
		return storeError("delete", "movement", err, ErrMovementNotFound)
	}

	invalidateReports(ctx)
	return nil
}

// RecalculateClaimFinancials rebuilds a claim's rollup from its movements
func RecalculateClaimFinancials(ctx context.Context, db *gorm.DB, actx AuditContext, claimID string) (models.ClaimFinancials, error) {
	var financials models.ClaimFinancials
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Claim{}).Where("id = ?", claimID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrClaimNotFound
		}
		var err error
		financials, err = refreshClaimFinancials(tx, claimID, actx)
		return err
	})
	if err != nil {
		return financials, storeError("update", "claim", err, nil)
	}

	invalidateReports(ctx)
	return financials, nil
}

func refreshClaimFinancials(tx *gorm.DB, claimID string, actx AuditContext) (models.ClaimFinancials, error) {
	var movements []models.Movement
	if err := tx.Where("claim_id = ?", claimID).Find(&movements).Error; err != nil {
		return models.ClaimFinancials{}, err
	}

	financials := models.ApplyMovements(movements)
	err := tx.Model(&models.Claim{}).Where("id = ?", claimID).Updates(map[string]interface{}{
		"reserve_amount":     financials.Reserve,
		"paid_amount":        financials.Paid,
		"outstanding_amount": financials.Outstanding,
		"recovered_amount":   financials.Recovered,
		"incurred_amount":    financials.Incurred,
		"modified_date":      time.Now(),
		"modified_by":        actx.Actor(),
	}).Error
	return financials, err
}
