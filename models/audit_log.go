package models

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction is the kind of change recorded
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionMark   AuditAction = "MARK" // attendance marked from a scan
)

// Audited resource types
const (
	AuditResourceBatch      = "Batch"
	AuditResourceStudent    = "Student"
	AuditResourceAttendance = "AttendanceRecord"
)

// AuditLog is an immutable record of a change to batches, students or attendance
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"createdAt"`

	// Denormalized so history survives user changes
	UserID   *string `gorm:"type:uuid;index:idx_audit_user" json:"userId,omitempty"`
	UserName string  `gorm:"not null" json:"userName"`
	UserRole string  `gorm:"not null" json:"userRole"`

	ResourceType string `gorm:"not null;index:idx_audit_resource" json:"resourceType"`
	ResourceID   string `gorm:"type:uuid;not null;index:idx_audit_resource" json:"resourceId"`
	ResourceName string `json:"resourceName,omitempty"`

	Action      AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Description string      `gorm:"type:text" json:"description,omitempty"`

	OldValues string `gorm:"type:text" json:"oldValues,omitempty"` // JSON encoded
	NewValues string `gorm:"type:text" json:"newValues,omitempty"` // JSON encoded

	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// AuditChange is a single field change
type AuditChange struct {
	Field string
	Old   interface{}
	New   interface{}
}

// Changes diffs OldValues against NewValues, sorted by field
func (a *AuditLog) Changes() []AuditChange {
	oldMap := make(map[string]interface{})
	newMap := make(map[string]interface{})
	if a.OldValues != "" {
		_ = json.Unmarshal([]byte(a.OldValues), &oldMap)
	}
	if a.NewValues != "" {
		_ = json.Unmarshal([]byte(a.NewValues), &newMap)
	}

	keys := make(map[string]struct{})
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	var changes []AuditChange
	for k := range keys {
		if o, n := oldMap[k], newMap[k]; !reflect.DeepEqual(o, n) {
			changes = append(changes, AuditChange{Field: k, Old: o, New: n})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

// BeforeCreate generates UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// BeforeDelete prevents deletion of audit logs
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
