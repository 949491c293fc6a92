package services

import (
	"context"
	"encoding/json"
	"log"

	"claims_backoffice/models"

	"gorm.io/gorm"
)

// AuditContext identifies who performs a change and from where
type AuditContext struct {
	UserID    string
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// Actor returns the name stamped into created_by / modified_by
func (a AuditContext) Actor() string {
	if a.UserName == "" {
		return "system"
	}
	return a.UserName
}

// AuditEvent describes one audited change
type AuditEvent struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	ResourceName string
	ClaimID      string
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// LogAuditEvent writes an audit row with the given db handle, usually the
// transaction of the change itself. Failures are logged and never returned.
func LogAuditEvent(db *gorm.DB, actx AuditContext, event AuditEvent) {
	var oldJSON, newJSON string

	if event.OldValues != nil {
		if bytes, err := json.Marshal(event.OldValues); err == nil {
			oldJSON = string(bytes)
		}
	}
	if event.NewValues != nil {
		if bytes, err := json.Marshal(event.NewValues); err == nil {
			newJSON = string(bytes)
		}
	}

	auditLog := models.AuditLog{
		UserID:       ptrIfNotEmpty(actx.UserID),
		UserName:     actx.Actor(),
		UserRole:     actx.UserRole,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		ResourceName: event.ResourceName,
		ClaimID:      ptrIfNotEmpty(event.ClaimID),
		Action:       event.Action,
		Description:  event.Description,
		OldValues:    oldJSON,
		NewValues:    newJSON,
		IPAddress:    actx.IPAddress,
		UserAgent:    actx.UserAgent,
	}

	if err := db.Create(&auditLog).Error; err != nil {
		log.Printf("[AUDIT] Failed to create audit log: %v", err)
	}
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(ctx context.Context, db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, storeError("list", "audit log", err, nil)
}

// GetClaimAuditTrail returns every change recorded against a claim or its dependents
func GetClaimAuditTrail(ctx context.Context, db *gorm.DB, claimID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, storeError("list", "audit log", err, nil)
}
