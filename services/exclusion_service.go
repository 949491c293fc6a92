package services

import (
	"context"
	"strings"
	"time"

	"claims_backoffice/models"

	"gorm.io/gorm"
)

// ExclusionInput contains the fields of an exclusion
type ExclusionInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
}

// ListExclusions returns the exclusion catalog ordered by title
func ListExclusions(ctx context.Context, db *gorm.DB) ([]models.Exclusion, error) {
	var exclusions []models.Exclusion
	err := db.WithContext(ctx).Order("title ASC").Find(&exclusions).Error
	return exclusions, storeError("list", "exclusion", err, nil)
}

// GetExclusionByID retrieves an exclusion by ID
func GetExclusionByID(ctx context.Context, db *gorm.DB, id string) (*models.Exclusion, error) {
	var exclusion models.Exclusion
	if err := db.WithContext(ctx).First(&exclusion, "id = ?", id).Error; err != nil {
		return nil, storeError("get", "exclusion", err, ErrExclusionNotFound)
	}
	return &exclusion, nil
}

// CreateExclusion adds an entry to the catalog
func CreateExclusion(ctx context.Context, db *gorm.DB, actx AuditContext, input ExclusionInput) (*models.Exclusion, error) {
	input.Title = sanitizeText(input.Title)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	exclusion := models.Exclusion{
		Title:       input.Title,
		Description: sanitizeOptional(input.Description),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exclusion).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourceExclusion,
			ResourceID:   exclusion.ID,
			ResourceName: exclusion.Title,
			Description:  "Exclusion created",
			NewValues:    exclusion,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("create", "exclusion", err, nil)
	}
	return &exclusion, nil
}

// UpdateExclusion changes the title and description of an exclusion
func UpdateExclusion(ctx context.Context, db *gorm.DB, actx AuditContext, id string, input ExclusionInput) (*models.Exclusion, error) {
	input.Title = sanitizeText(input.Title)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := GetExclusionByID(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":         input.Title,
		"description":   sanitizeOptional(input.Description),
		"modified_date": time.Now(),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Exclusion{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionUpdate,
			ResourceType: models.AuditResourceExclusion,
			ResourceID:   id,
			ResourceName: input.Title,
			Description:  "Exclusion updated",
			OldValues:    existing,
			NewValues:    updates,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("update", "exclusion", err, nil)
	}
	return GetExclusionByID(ctx, db, id)
}

// DeleteExclusion removes an exclusion and unlinks it from every policy
func DeleteExclusion(ctx context.Context, db *gorm.DB, actx AuditContext, id string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exclusion models.Exclusion
		if err := tx.First(&exclusion, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM policy_exclusions WHERE exclusion_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&exclusion).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionDelete,
			ResourceType: models.AuditResourceExclusion,
			ResourceID:   exclusion.ID,
			ResourceName: exclusion.Title,
			Description:  "Exclusion deleted",
			OldValues:    exclusion,
		})
		return nil
	})
	return storeError("delete", "exclusion", err, ErrExclusionNotFound)
}

// findExclusions loads the given exclusions, rejecting unknown ids
func findExclusions(tx *gorm.DB, ids []string) ([]models.Exclusion, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var exclusions []models.Exclusion
	if err := tx.Where("id IN ?", unique).Order("title ASC").Find(&exclusions).Error; err != nil {
		return nil, err
	}
	if len(exclusions) != len(unique) {
		return nil, &ValidationError{Fields: map[string]string{"exclusion_ids": "contains an unknown exclusion"}}
	}
	return exclusions, nil
}
