package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"attendance_tracker_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	// MaxBatchNameLength limits batch names shown on dashboard cards
	MaxBatchNameLength = 80
	// MaxStudentNameLength limits student names
	MaxStudentNameLength = 120
)

var (
	ErrBatchNameRequired = errors.New("batch name is required")
	ErrBatchNameTooLong  = errors.New("batch name is too long")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrBatchInactive     = errors.New("batch is not active")
)

var plainText = bluemonday.StrictPolicy()

// SanitizeName strips markup and surrounding whitespace from user supplied names.
// The sanitizer escapes entities; they are unescaped again since templates escape on output.
func SanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(strings.TrimSpace(name))))
}

// CreateBatch creates a new active batch
func CreateBatch(ctx context.Context, db *gorm.DB, name string) (*models.Batch, error) {
	name = SanitizeName(name)
	if name == "" {
		return nil, ErrBatchNameRequired
	}
	if utf8.RuneCountInString(name) > MaxBatchNameLength {
		return nil, ErrBatchNameTooLong
	}

	batch := &models.Batch{Name: name, IsActive: true}
	if err := db.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	return batch, nil
}

// GetBatch loads a batch by ID
func GetBatch(ctx context.Context, db *gorm.DB, id string) (*models.Batch, error) {
	var batch models.Batch
	if err := db.WithContext(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	return &batch, nil
}

// SetBatchActive activates or deactivates a batch
func SetBatchActive(ctx context.Context, db *gorm.DB, id string, active bool) (*models.Batch, error) {
	batch, err := GetBatch(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(batch).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update batch: %w", err)
	}
	batch.IsActive = active
	return batch, nil
}
