package services

import (
	"context"
	"strings"
	"time"

	"claims_backoffice/models"

	"gorm.io/gorm"
)

// ActivityInput contains the fields of a new activity
type ActivityInput struct {
	ClaimID           string  `json:"claim_id" validate:"required"`
	Title             string  `json:"title" validate:"required,max=255"`
	Assignee          string  `json:"assignee" validate:"required,max=255"`
	Role              string  `json:"role" validate:"required,activity_role"`
	DueDate           string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status            string  `json:"status" validate:"omitempty,activity_status"`
	Description       *string `json:"description"`
	RelatedDocumentID *string `json:"related_document_id"`
}

// ActivityUpdate contains the fields to change, nil fields are left untouched
type ActivityUpdate struct {
	Title             *string `json:"title" validate:"omitempty,max=255"`
	Assignee          *string `json:"assignee" validate:"omitempty,max=255"`
	Role              *string `json:"role" validate:"omitempty,activity_role"`
	DueDate           *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status            *string `json:"status" validate:"omitempty,activity_status"`
	Description       *string `json:"description"`
	RelatedDocumentID *string `json:"related_document_id"`
}

// ActivityFilters narrows ListActivities
type ActivityFilters struct {
	ClaimID  string
	Status   string
	Assignee string
	SLA      string    // SLA state, evaluated at Now for open activities
	Now      time.Time // defaults to time.Now()
}

// ListActivities returns activities newest first with their claim
func ListActivities(ctx context.Context, db *gorm.DB, filters ActivityFilters) ([]models.Activity, error) {
	query := db.WithContext(ctx).Model(&models.Activity{}).Preload("Claim")

	if filters.ClaimID != "" {
		query = query.Where("claim_id = ?", filters.ClaimID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Assignee != "" {
		query = query.Where("LOWER(assignee) = ?", strings.ToLower(strings.TrimSpace(filters.Assignee)))
	}

	var activities []models.Activity
	if err := query.Order("created_date DESC").Find(&activities).Error; err != nil {
		return nil, storeError("list", "activity", err, nil)
	}

	if filters.SLA != "" {
		now := filters.Now
		if now.IsZero() {
			now = time.Now()
		}
		filtered := activities[:0]
		for _, a := range activities {
			if state, _ := a.SLA(now); a.IsOpen() && strings.EqualFold(state, strings.TrimSpace(filters.SLA)) {
				filtered = append(filtered, a)
			}
		}
		activities = filtered
	}

	return activities, nil
}

// ListActivitiesByClaim returns a claim's activities, earliest due first
func ListActivitiesByClaim(ctx context.Context, db *gorm.DB, claimID string) ([]models.Activity, error) {
	var activities []models.Activity
	err := db.WithContext(ctx).
		Preload("RelatedDocument").
		Where("claim_id = ?", claimID).
		Order("due_date ASC, created_date DESC").
		Find(&activities).Error
	return activities, storeError("list", "activity", err, nil)
}

// GetActivityByID retrieves an activity with its claim
func GetActivityByID(ctx context.Context, db *gorm.DB, id string) (*models.Activity, error) {
	var activity models.Activity
	err := db.WithContext(ctx).
		Preload("Claim").
		Preload("RelatedDocument").
		First(&activity, "id = ?", id).Error
	if err != nil {
		return nil, storeError("get", "activity", err, ErrActivityNotFound)
	}
	return &activity, nil
}

// CreateActivity validates and stores a new activity. Legacy role codes are
// stored as their canonical role.
func CreateActivity(ctx context.Context, db *gorm.DB, actx AuditContext, input ActivityInput) (*models.Activity, error) {
	input.ClaimID = strings.TrimSpace(input.ClaimID)
	input.Title = sanitizeText(input.Title)
	input.Assignee = strings.TrimSpace(input.Assignee)
	input.Role = models.NormalizeActivityRole(strings.TrimSpace(input.Role))
	input.RelatedDocumentID = optionalString(input.RelatedDocumentID)
	if input.Status == "" {
		input.Status = models.ActivityStatusPending
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	activity := models.Activity{
		ClaimID:           input.ClaimID,
		Title:             input.Title,
		Assignee:          input.Assignee,
		Role:              input.Role,
		DueDate:           parseDateField(input.DueDate),
		Status:            input.Status,
		Description:       sanitizeOptional(input.Description),
		RelatedDocumentID: input.RelatedDocumentID,
		CreatedBy:         actx.Actor(),
		ModifiedBy:        actx.Actor(),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureClaimExists(tx, activity.ClaimID); err != nil {
			return err
		}
		if err := ensureDocumentOnClaim(tx, activity.RelatedDocumentID, activity.ClaimID); err != nil {
			return err
		}

		if err := tx.Omit("Claim", "RelatedDocument").Create(&activity).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourceActivity,
			ResourceID:   activity.ID,
			ResourceName: activity.Title,
			ClaimID:      activity.ClaimID,
			Description:  "Activity created",
			NewValues:    activity,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("create", "activity", err, nil)
	}

	return GetActivityByID(ctx, db, activity.ID)
}

// UpdateActivity applies a partial update and refreshes modified_date
func UpdateActivity(ctx context.Context, db *gorm.DB, actx AuditContext, id string, input ActivityUpdate) (*models.Activity, error) {
	if input.Role != nil {
		role := models.NormalizeActivityRole(strings.TrimSpace(*input.Role))
		input.Role = &role
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := GetActivityByID(ctx, db, id)
	if err != nil {
		return nil, err
	}

	ve := &ValidationError{}
	updates := map[string]interface{}{}

	if input.Title != nil {
		title := sanitizeText(*input.Title)
		if title == "" {
			ve.Add("title", "is required")
		}
		updates["title"] = title
	}
	if input.Assignee != nil {
		assignee := strings.TrimSpace(*input.Assignee)
		if assignee == "" {
			ve.Add("assignee", "is required")
		}
		updates["assignee"] = assignee
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.DueDate != nil {
		updates["due_date"] = parseDateField(*input.DueDate)
		// A new due date may need a fresh reminder
		updates["reminder_sent_at"] = nil
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Description != nil {
		updates["description"] = sanitizeOptional(input.Description)
	}
	var relatedDocumentID *string
	if input.RelatedDocumentID != nil {
		relatedDocumentID = optionalString(input.RelatedDocumentID)
		updates["related_document_id"] = relatedDocumentID
	}

	if err := ve.orNil(); err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureDocumentOnClaim(tx, relatedDocumentID, existing.ClaimID); err != nil {
			return err
		}

		updates["modified_date"] = time.Now()
		updates["modified_by"] = actx.Actor()
		if err := tx.Model(&models.Activity{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionUpdate,
			ResourceType: models.AuditResourceActivity,
			ResourceID:   id,
			ResourceName: existing.Title,
			ClaimID:      existing.ClaimID,
			Description:  "Activity updated",
			OldValues:    existing,
			NewValues:    updates,
		})
		return nil
	})
	if err != nil {
		return nil, storeError("update", "activity", err, nil)
	}

	return GetActivityByID(ctx, db, id)
}

// DeleteActivity removes an activity
func DeleteActivity(ctx context.Context, db *gorm.DB, actx AuditContext, id string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.First(&activity, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&activity).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionDelete,
			ResourceType: models.AuditResourceActivity,
			ResourceID:   activity.ID,
			ResourceName: activity.Title,
			ClaimID:      activity.ClaimID,
			Description:  "Activity deleted",
			OldValues:    activity,
		})
		return nil
	})
	return storeError("delete", "activity", err, ErrActivityNotFound)
}

// MigrateActivityRoles rewrites stored legacy role codes to the canonical
// vocabulary and returns how many rows changed per legacy code
func MigrateActivityRoles(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	changed := make(map[string]int64)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for legacy, canonical := range models.LegacyActivityRoles() {
			result := tx.Model(&models.Activity{}).
				Where("role = ?", legacy).
				Updates(map[string]interface{}{"role": canonical, "modified_date": time.Now()})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				changed[legacy] = result.RowsAffected
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError("update", "activity", err, nil)
	}
	return changed, nil
}

// ListActivitiesDueForReminder returns open activities that are at risk or overdue
// at now and have not been reminded since the start of now's day
func ListActivitiesDueForReminder(ctx context.Context, db *gorm.DB, now time.Time) ([]models.Activity, error) {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var candidates []models.Activity
	err := db.WithContext(ctx).
		Preload("Claim").
		Where("status IN ?", []string{models.ActivityStatusPending, models.ActivityStatusInProgress}).
		Order("due_date ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, storeError("list", "activity", err, nil)
	}

	due := candidates[:0]
	for _, a := range candidates {
		if a.ReminderSentAt != nil && !a.ReminderSentAt.Before(startOfDay) {
			continue
		}
		if state, _ := a.SLA(now); state != models.SLAOnTrack {
			due = append(due, a)
		}
	}
	return due, nil
}

// MarkReminderSent stamps the activity's reminder time
func MarkReminderSent(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	err := db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ?", id).
		Update("reminder_sent_at", at).Error
	return storeError("update", "activity", err, nil)
}

func ensureClaimExists(tx *gorm.DB, claimID string) error {
	var count int64
	if err := tx.Model(&models.Claim{}).Where("id = ?", claimID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ValidationError{Fields: map[string]string{"claim_id": "does not exist"}}
	}
	return nil
}

func ensureDocumentOnClaim(tx *gorm.DB, documentID *string, claimID string) error {
	if documentID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.ClaimDocument{}).
		Where("id = ? AND claim_id = ?", *documentID, claimID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ValidationError{Fields: map[string]string{"related_document_id": "is not a document of this claim"}}
	}
	return nil
}
