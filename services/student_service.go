package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

var (
	ErrStudentNameRequired = errors.New("student name is required")
	ErrStudentCodeRequired = errors.New("student code is required")
	ErrStudentCodeTaken    = errors.New("student code is already in use")
	ErrStudentNotFound     = errors.New("student not found")
)

// NormalizeStudentCode upper-cases a scanned or typed student code
func NormalizeStudentCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EnrollStudent adds a student to an active batch
func EnrollStudent(ctx context.Context, db *gorm.DB, batchID, name, code string) (*models.Student, error) {
	name = SanitizeName(name)
	code = NormalizeStudentCode(SanitizeName(code))
	if name == "" || utf8.RuneCountInString(name) > MaxStudentNameLength {
		return nil, ErrStudentNameRequired
	}
	if code == "" {
		return nil, ErrStudentCodeRequired
	}

	batch, err := GetBatch(ctx, db, batchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsActive {
		return nil, ErrBatchInactive
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.Student{}).Where("code = ?", code).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check student code: %w", err)
	}
	if existing > 0 {
		return nil, ErrStudentCodeTaken
	}

	student := &models.Student{Name: name, Code: code, BatchID: batch.ID}
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentCodeTaken
		}
		return nil, fmt.Errorf("failed to enroll student: %w", err)
	}
	return student, nil
}

// FindStudentByCode looks up a student by the code printed on their card
func FindStudentByCode(ctx context.Context, db *gorm.DB, code string) (*models.Student, error) {
	var student models.Student
	err := db.WithContext(ctx).Preload("Batch").
		Where("code = ?", NormalizeStudentCode(code)).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &student, nil
}
