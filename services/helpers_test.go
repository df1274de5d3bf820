package services

import (
	"testing"
	"time"

	"attendance_tracker_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Session{}, &models.Batch{}, &models.Student{}, &models.AttendanceRecord{}, &models.AuditLog{}, &models.ExportArchive{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func seedBatch(t *testing.T, db *gorm.DB, name string, active bool, createdAt time.Time) models.Batch {
	batch := models.Batch{Name: name, IsActive: active, CreatedAt: createdAt}
	assert.NoError(t, db.Create(&batch).Error)
	return batch
}

func seedStudent(t *testing.T, db *gorm.DB, batchID, name, code string) models.Student {
	student := models.Student{Name: name, Code: code, BatchID: batchID}
	assert.NoError(t, db.Create(&student).Error)
	return student
}

func seedRecord(t *testing.T, db *gorm.DB, s models.Student, day time.Time, status string) {
	record := models.AttendanceRecord{
		StudentID: s.ID,
		BatchID:   s.BatchID,
		Day:       day.Format(models.AttendanceDateLayout),
		Status:    status,
		MarkedAt:  day,
	}
	assert.NoError(t, db.Create(&record).Error)
}
