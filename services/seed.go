package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

type demoBatchSpec struct {
	name     string
	active   bool
	students []string
}

var demoBatches = []demoBatchSpec{
	{name: "Morning Batch A", active: true, students: []string{"Ana Torres", "Ben Okafor", "Chen Wei", "Dana Levi", "Elif Kaya"}},
	{name: "Evening Batch B", active: true, students: []string{"Farah Malik", "Goran Petrov", "Hana Sato", "Ivan Novak"}},
	{name: "Weekend Batch C", active: false, students: []string{"Jonas Berg", "Kira Ito"}},
}

// SeedDemoData loads demo batches, students and a week of attendance ending at now.
// It does nothing when batches already exist.
func SeedDemoData(ctx context.Context, db *gorm.DB, now time.Time) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Batch{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check existing batches: %w", err)
	}
	if existing > 0 {
		log.Printf("[SEED] %d batches already present, skipping demo data", existing)
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		studentNo := 0
		for i, sb := range demoBatches {
			batch := models.Batch{Name: sb.name, IsActive: sb.active, CreatedAt: now.Add(time.Duration(i-len(demoBatches)) * time.Hour)}
			if err := tx.Create(&batch).Error; err != nil {
				return fmt.Errorf("failed to seed batch %s: %w", sb.name, err)
			}

			for _, name := range sb.students {
				studentNo++
				student := models.Student{
					Name:    name,
					Code:    fmt.Sprintf("STU-%03d", studentNo),
					BatchID: batch.ID,
				}
				if err := tx.Create(&student).Error; err != nil {
					return fmt.Errorf("failed to seed student %s: %w", name, err)
				}
				if !sb.active {
					continue
				}
				if err := seedAttendance(tx, student, studentNo, now); err != nil {
					return err
				}
			}
		}
		log.Printf("[SEED] Seeded %d batches and %d students", len(demoBatches), studentNo)
		return nil
	})
}

// seedAttendance gives a student six days of history; every seventh student-day is an absence
func seedAttendance(tx *gorm.DB, student models.Student, studentNo int, now time.Time) error {
	for offset := 6; offset >= 1; offset-- {
		day := now.AddDate(0, 0, -offset)
		status := models.AttendanceStatusPresent
		switch (studentNo + offset) % 7 {
		case 0:
			status = models.AttendanceStatusAbsent
		case 3:
			status = models.AttendanceStatusLate
		}
		record := models.AttendanceRecord{
			StudentID: student.ID,
			BatchID:   student.BatchID,
			Day:       day.Format(models.AttendanceDateLayout),
			Status:    status,
			MarkedAt:  day,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed attendance: %w", err)
		}
	}
	return nil
}
