package services

import (
	"context"
	"encoding/json"
	"testing"

	"claims_backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAuditEvent(t *testing.T) {
	db := setupTestDB(t)

	actx := AuditContext{
		UserID:   "11111111-1111-1111-1111-111111111111",
		UserName: "Test Auditor",
		UserRole: models.RoleClaimsManager,
	}

	oldVals := map[string]interface{}{"status": models.ClaimStatusOpen}
	newVals := map[string]interface{}{"status": models.ClaimStatusApproved}

	LogAuditEvent(db, actx, AuditEvent{
		Action:       models.AuditActionUpdate,
		ResourceType: models.AuditResourceClaim,
		ResourceID:   "22222222-2222-2222-2222-222222222222",
		ResourceName: "CLM-2024-00001",
		ClaimID:      "22222222-2222-2222-2222-222222222222",
		Description:  "Updated status",
		OldValues:    oldVals,
		NewValues:    newVals,
	})

	var entry models.AuditLog
	require.NoError(t, db.First(&entry, "resource_id = ?", "22222222-2222-2222-2222-222222222222").Error)
	assert.Equal(t, actx.UserID, *entry.UserID)
	assert.Equal(t, "Test Auditor", entry.UserName)
	assert.Equal(t, models.AuditResourceClaim, entry.ResourceType)
	assert.Equal(t, "Updated status", entry.Description)

	var savedOld, savedNew map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(entry.OldValues), &savedOld))
	assert.NoError(t, json.Unmarshal([]byte(entry.NewValues), &savedNew))
	assert.Equal(t, models.ClaimStatusOpen, savedOld["status"])
	assert.Equal(t, models.ClaimStatusApproved, savedNew["status"])

	changes := entry.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "status", changes[0].Field)
}

func TestLogAuditEventWithoutUser(t *testing.T) {
	db := setupTestDB(t)

	LogAuditEvent(db, AuditContext{}, AuditEvent{
		Action:       models.AuditActionCreate,
		ResourceType: models.AuditResourcePolicy,
		ResourceID:   "33333333-3333-3333-3333-333333333333",
	})

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Nil(t, entry.UserID)
	assert.Equal(t, "system", entry.UserName)
	assert.Nil(t, entry.ClaimID)
}

func TestAuditLogsAreImmutable(t *testing.T) {
	db := setupTestDB(t)

	LogAuditEvent(db, AuditContext{UserName: "a"}, AuditEvent{
		Action:       models.AuditActionCreate,
		ResourceType: models.AuditResourceClaim,
		ResourceID:   "44444444-4444-4444-4444-444444444444",
	})

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Error(t, db.Delete(&entry).Error)
	assert.Error(t, db.Model(&entry).Update("description", "changed").Error)
}

func TestGetClaimAuditTrail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	claim := createTestClaim(t, db, nil)
	_, err := CreateActivity(ctx, db, testActor, ActivityInput{
		ClaimID:  claim.ID,
		Title:    "Inspect site",
		Assignee: "Ana",
		Role:     models.ActivityRoleSurveyor,
		DueDate:  "2030-01-10",
	})
	require.NoError(t, err)

	trail, err := GetClaimAuditTrail(ctx, db, claim.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)

	types := []string{trail[0].ResourceType, trail[1].ResourceType}
	assert.ElementsMatch(t, []string{models.AuditResourceClaim, models.AuditResourceActivity}, types)

	history, err := GetResourceAuditHistory(ctx, db, models.AuditResourceClaim, claim.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, models.AuditActionCreate, history[0].Action)
}
