package services

import (
	"context"
	"testing"

	"attendance_tracker_go/models"

	"github.com/stretchr/testify/assert"
)

func TestLogAuditEvent(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()

	actor := AuditContext{UserID: "admin-1", UserName: "Grace Hopper", UserRole: models.RoleAdmin, IPAddress: "10.0.0.1"}
	LogAuditEvent(ctx, db, actor, AuditEntry{
		Action:       models.AuditActionUpdate,
		ResourceType: models.AuditResourceBatch,
		ResourceID:   "batch-1",
		ResourceName: "Morning Batch A",
		OldValues:    map[string]interface{}{"isActive": true},
		NewValues:    map[string]interface{}{"isActive": false},
	})

	logs, err := GetResourceAuditHistory(ctx, db, models.AuditResourceBatch, "batch-1")
	assert.NoError(t, err)
	if assert.Len(t, logs, 1) {
		entry := logs[0]
		assert.Equal(t, "admin-1", *entry.UserID)
		assert.Equal(t, "Grace Hopper", entry.UserName)
		assert.Equal(t, "10.0.0.1", entry.IPAddress)
		assert.Equal(t, []models.AuditChange{{Field: "isActive", Old: true, New: false}}, entry.Changes())
	}
}

func TestLogAuditEvent_SystemActor(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()

	LogAuditEvent(ctx, db, AuditContext{}, AuditEntry{
		Action:       models.AuditActionCreate,
		ResourceType: models.AuditResourceStudent,
		ResourceID:   "student-1",
	})

	logs, err := GetResourceAuditHistory(ctx, db, models.AuditResourceStudent, "student-1")
	assert.NoError(t, err)
	if assert.Len(t, logs, 1) {
		assert.Nil(t, logs[0].UserID)
		assert.Equal(t, "system", logs[0].UserName)
		assert.Empty(t, logs[0].OldValues)
		assert.Empty(t, logs[0].Changes())
	}
}

func TestAuditLogIsImmutable(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()

	LogAuditEvent(ctx, db, AuditContext{}, AuditEntry{
		Action:       models.AuditActionCreate,
		ResourceType: models.AuditResourceBatch,
		ResourceID:   "batch-1",
	})

	var entry models.AuditLog
	assert.NoError(t, db.First(&entry).Error)
	assert.Error(t, db.Model(&entry).Update("description", "edited").Error)
	assert.Error(t, db.Delete(&entry).Error)
}
