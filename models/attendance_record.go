package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance statuses
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusLate    = "late"
	AttendanceStatusAbsent  = "absent"
)

// AttendanceDateLayout is the layout of AttendanceRecord.Day
const AttendanceDateLayout = "2006-01-02"

// AttendanceRecord is one student's attendance for one day
type AttendanceRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	StudentID string    `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_day" json:"studentId"`
	BatchID   string    `gorm:"type:uuid;not null;index" json:"batchId"`
	Day       string    `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_attendance_student_day" json:"day"`
	Status    string    `gorm:"type:varchar(16);not null" json:"status"`
	MarkedAt  time.Time `gorm:"not null" json:"markedAt"`
	MarkedBy  *string   `gorm:"type:uuid" json:"markedBy,omitempty"`

	// Relationships
	Student *Student `gorm:"foreignKey:StudentID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (a *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// CountsAsPresent reports whether the record counts toward the attendance rate
func (a AttendanceRecord) CountsAsPresent() bool {
	return a.Status == AttendanceStatusPresent || a.Status == AttendanceStatusLate
}

// IsValidAttendanceStatus checks a status string against the known statuses
func IsValidAttendanceStatus(status string) bool {
	switch status {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusAbsent:
		return true
	}
	return false
}

// TableName specifies the table name for AttendanceRecord model
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
