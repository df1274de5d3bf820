package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportArchive is a dashboard export kept in storage for later download
type ExportArchive struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	StorageKey  string  `gorm:"uniqueIndex;not null" json:"storageKey"`
	Format      string  `gorm:"type:varchar(8);not null" json:"format"` // xlsx, pdf
	ContentType string  `gorm:"not null" json:"contentType"`
	FileName    string  `gorm:"not null" json:"fileName"`
	FileSize    int64   `gorm:"not null" json:"fileSize"`
	CreatedBy   *string `gorm:"type:uuid" json:"createdBy,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *ExportArchive) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ExportArchive model
func (ExportArchive) TableName() string {
	return "export_archives"
}
