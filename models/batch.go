package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Batch is a cohort of enrolled students whose attendance is tracked together
type Batch struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	IsActive bool   `gorm:"not null" json:"isActive"`

	// Not persisted; filled in by queries that join students
	StudentCount int `gorm:"->;-:migration" json:"studentCount"`

	Students []Student `gorm:"foreignKey:BatchID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (b *Batch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// StatusLabel is the badge text shown for the batch
func (b Batch) StatusLabel() string {
	if b.IsActive {
		return "Active"
	}
	return "Inactive"
}

// TableName specifies the table name for Batch model
func (Batch) TableName() string {
	return "batches"
}
