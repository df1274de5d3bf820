package services

import (
	"context"
	"encoding/json"
	"log"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

// AuditContext identifies who made a change and from where
type AuditContext struct {
	UserID    string
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// AuditEntry describes one change to record
type AuditEntry struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	ResourceName string
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// LogAuditEvent writes an audit log entry. Failures are logged and never
// returned so a change is not rolled back over its audit record.
func LogAuditEvent(ctx context.Context, db *gorm.DB, actor AuditContext, entry AuditEntry) {
	auditLog := models.AuditLog{
		UserID:       ptrIfNotEmpty(actor.UserID),
		UserName:     actor.UserName,
		UserRole:     actor.UserRole,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		ResourceName: entry.ResourceName,
		Action:       entry.Action,
		Description:  entry.Description,
		OldValues:    encodeAuditValues(entry.OldValues),
		NewValues:    encodeAuditValues(entry.NewValues),
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	}
	if auditLog.UserName == "" {
		auditLog.UserName = "system"
	}
	if auditLog.UserRole == "" {
		auditLog.UserRole = "system"
	}

	if err := db.WithContext(ctx).Create(&auditLog).Error; err != nil {
		log.Printf("[AUDIT] Failed to create audit log: %v", err)
	}
}

func encodeAuditValues(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[AUDIT] Failed to encode values: %v", err)
		return ""
	}
	return string(b)
}

func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetResourceAuditHistory returns the audit history of one resource, newest first
func GetResourceAuditHistory(ctx context.Context, db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
