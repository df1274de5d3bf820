package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"attendance_tracker_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Morning Batch A", SanitizeName("  Morning <script>alert(1)</script>Batch A "))
	assert.Equal(t, "", SanitizeName("<b></b>"))
}

func TestCreateBatch(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()

	batch, err := CreateBatch(ctx, db, " Morning Batch A ")
	assert.NoError(t, err)
	assert.Equal(t, "Morning Batch A", batch.Name)
	assert.True(t, batch.IsActive)
	assert.NotEmpty(t, batch.ID)

	_, err = CreateBatch(ctx, db, "   ")
	assert.ErrorIs(t, err, ErrBatchNameRequired)

	_, err = CreateBatch(ctx, db, strings.Repeat("x", MaxBatchNameLength+1))
	assert.ErrorIs(t, err, ErrBatchNameTooLong)
}

func TestSetBatchActive(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()
	batch := seedBatch(t, db, "Morning Batch A", true, time.Now())

	updated, err := SetBatchActive(ctx, db, batch.ID, false)
	assert.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := GetBatch(ctx, db, batch.ID)
	assert.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = SetBatchActive(ctx, db, "missing", true)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestEnrollStudent(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()
	active := seedBatch(t, db, "Morning Batch A", true, time.Now())
	inactive := seedBatch(t, db, "Weekend Batch C", false, time.Now())

	student, err := EnrollStudent(ctx, db, active.ID, "Ana Torres", " stu-001 ")
	assert.NoError(t, err)
	assert.Equal(t, "STU-001", student.Code)
	assert.Equal(t, active.ID, student.BatchID)

	_, err = EnrollStudent(ctx, db, active.ID, "Ben Okafor", "STU-001")
	assert.ErrorIs(t, err, ErrStudentCodeTaken)

	_, err = EnrollStudent(ctx, db, inactive.ID, "Ben Okafor", "STU-002")
	assert.ErrorIs(t, err, ErrBatchInactive)

	_, err = EnrollStudent(ctx, db, "missing", "Ben Okafor", "STU-002")
	assert.ErrorIs(t, err, ErrBatchNotFound)

	_, err = EnrollStudent(ctx, db, active.ID, "", "STU-002")
	assert.ErrorIs(t, err, ErrStudentNameRequired)

	_, err = EnrollStudent(ctx, db, active.ID, "Ben Okafor", "  ")
	assert.ErrorIs(t, err, ErrStudentCodeRequired)
}

func TestMarkAttendance(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 8, 55, 0, 0, time.UTC)
	batch := seedBatch(t, db, "Morning Batch A", true, now)
	student := seedStudent(t, db, batch.ID, "Ana Torres", "STU-001")

	t.Run("DefaultsToPresent", func(t *testing.T) {
		record, err := MarkAttendance(ctx, db, MarkAttendanceInput{Code: "stu-001", At: now, MarkedBy: "teacher-1"})
		assert.NoError(t, err)
		assert.Equal(t, models.AttendanceStatusPresent, record.Status)
		assert.Equal(t, "2026-03-10", record.Day)
		assert.Equal(t, student.ID, record.StudentID)
		assert.Equal(t, batch.ID, record.BatchID)
		if assert.NotNil(t, record.MarkedBy) {
			assert.Equal(t, "teacher-1", *record.MarkedBy)
		}
		assert.Equal(t, "Ana Torres", record.Student.Name)
	})

	t.Run("OncePerDay", func(t *testing.T) {
		_, err := MarkAttendance(ctx, db, MarkAttendanceInput{Code: "STU-001", At: now.Add(time.Hour)})
		assert.ErrorIs(t, err, ErrAlreadyMarked)

		// The next day is fine
		_, err = MarkAttendance(ctx, db, MarkAttendanceInput{Code: "STU-001", Status: models.AttendanceStatusLate, At: now.AddDate(0, 0, 1)})
		assert.NoError(t, err)
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := MarkAttendance(ctx, db, MarkAttendanceInput{Code: " "})
		assert.ErrorIs(t, err, ErrEmptyScanCode)

		_, err = MarkAttendance(ctx, db, MarkAttendanceInput{Code: "STU-001", Status: "excused"})
		assert.ErrorIs(t, err, ErrInvalidStatus)

		_, err = MarkAttendance(ctx, db, MarkAttendanceInput{Code: "NOPE"})
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	t.Run("InactiveBatch", func(t *testing.T) {
		closed := seedBatch(t, db, "Weekend Batch C", false, now)
		seedStudent(t, db, closed.ID, "Kira Ito", "STU-099")

		_, err := MarkAttendance(ctx, db, MarkAttendanceInput{Code: "STU-099", At: now})
		assert.ErrorIs(t, err, ErrBatchInactive)
	})
}

func TestMarkAttendance_ConcurrentInsertIsAlreadyMarked(t *testing.T) {
	db := setupServiceTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 8, 55, 0, 0, time.UTC)
	batch := seedBatch(t, db, "Morning Batch A", true, now)
	student := seedStudent(t, db, batch.ID, "Ana Torres", "STU-001")

	// Another scan lands between the existence check and the insert
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_scan", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.AttendanceRecord); !ok {
			return
		}
		db.Exec(
			"INSERT INTO attendance_records (id, created_at, student_id, batch_id, day, status, marked_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.New().String(), now, student.ID, batch.ID, now.Format(models.AttendanceDateLayout), models.AttendanceStatusPresent, now,
		)
	})
	assert.NoError(t, err)

	_, err = MarkAttendance(ctx, db, MarkAttendanceInput{Code: "STU-001", At: now})
	assert.ErrorIs(t, err, ErrAlreadyMarked)

	var count int64
	db.Model(&models.AttendanceRecord{}).Where("student_id = ?", student.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSanitizeName_KeepsPunctuation(t *testing.T) {
	assert.Equal(t, "O'Brien & Sons", SanitizeName("O'Brien & Sons"))
}
