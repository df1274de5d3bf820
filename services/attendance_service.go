package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyMarked = errors.New("attendance already marked for today")
	ErrInvalidStatus = errors.New("invalid attendance status")
	ErrEmptyScanCode = errors.New("scan code is required")
)

// MarkAttendanceInput describes one Quick Scan or manual mark
type MarkAttendanceInput struct {
	Code     string
	Status   string // defaults to present
	At       time.Time
	MarkedBy string
}

// MarkAttendance records a student's attendance for the day of in.At.
// A student can be marked once per day.
func MarkAttendance(ctx context.Context, db *gorm.DB, in MarkAttendanceInput) (*models.AttendanceRecord, error) {
	if NormalizeStudentCode(in.Code) == "" {
		return nil, ErrEmptyScanCode
	}
	status := in.Status
	if status == "" {
		status = models.AttendanceStatusPresent
	}
	if !models.IsValidAttendanceStatus(status) {
		return nil, ErrInvalidStatus
	}
	at := in.At
	if at.IsZero() {
		at = time.Now()
	}

	student, err := FindStudentByCode(ctx, db, in.Code)
	if err != nil {
		return nil, err
	}
	if student.Batch != nil && !student.Batch.IsActive {
		return nil, ErrBatchInactive
	}

	day := at.Format(models.AttendanceDateLayout)
	var existing int64
	err = db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("student_id = ? AND day = ?", student.ID, day).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyMarked
	}

	record := &models.AttendanceRecord{
		StudentID: student.ID,
		BatchID:   student.BatchID,
		Day:       day,
		Status:    status,
		MarkedAt:  at,
	}
	if in.MarkedBy != "" {
		record.MarkedBy = &in.MarkedBy
	}
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		// A concurrent scan of the same student won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMarked
		}
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}
	record.Student = student
	return record, nil
}
