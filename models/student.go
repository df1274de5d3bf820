package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name    string `gorm:"not null" json:"name"`
	Code    string `gorm:"uniqueIndex;not null" json:"code"` // Printed on the student's QR card
	BatchID string `gorm:"type:uuid;not null;index" json:"batchId"`

	// Relationships
	Batch *Batch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
}

// BeforeCreate hook to generate UUID
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Student model
func (Student) TableName() string {
	return "students"
}
