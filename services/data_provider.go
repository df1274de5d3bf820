package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

// DashboardStats is the aggregate shown on the dashboard tiles. The zero value is
// what the dashboard displays until real numbers are available.
type DashboardStats struct {
	TotalStudents  int `json:"totalStudents"`
	PresentToday   int `json:"presentToday"`
	ActiveBatches  int `json:"activeBatches"`
	AttendanceRate int `json:"attendanceRate"` // percent, 0-100
}

// DataProvider supplies the batch list and dashboard aggregate
type DataProvider interface {
	GetBatches(ctx context.Context) ([]models.Batch, error)
	GetDashboardStats(ctx context.Context) (DashboardStats, error)
}

// DBDataProvider reads dashboard data from the attendance database
type DBDataProvider struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDBDataProvider creates a provider backed by GORM
func NewDBDataProvider(db *gorm.DB) *DBDataProvider {
	return &DBDataProvider{db: db, now: time.Now}
}

// GetBatches returns all batches, oldest first, with their enrolled student count
func (p *DBDataProvider) GetBatches(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	err := p.db.WithContext(ctx).
		Model(&models.Batch{}).
		Select("batches.*, COUNT(students.id) AS student_count").
		Joins("LEFT JOIN students ON students.batch_id = batches.id AND students.deleted_at IS NULL").
		Group("batches.id").
		Order("batches.created_at ASC").
		Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load batches: %w", err)
	}
	return batches, nil
}

// GetDashboardStats recomputes the aggregate on every call
func (p *DBDataProvider) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	tx := p.db.WithContext(ctx)

	var totalStudents int64
	if err := tx.Model(&models.Student{}).Count(&totalStudents).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count students: %w", err)
	}

	var presentToday int64
	today := p.now().Format(models.AttendanceDateLayout)
	err := tx.Model(&models.AttendanceRecord{}).
		Where("day = ? AND status IN ?", today, []string{models.AttendanceStatusPresent, models.AttendanceStatusLate}).
		Distinct("student_id").
		Count(&presentToday).Error
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count present students: %w", err)
	}

	var activeBatches int64
	if err := tx.Model(&models.Batch{}).Where("is_active = ?", true).Count(&activeBatches).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("failed to count active batches: %w", err)
	}

	stats.TotalStudents = int(totalStudents)
	stats.PresentToday = int(presentToday)
	stats.ActiveBatches = int(activeBatches)
	stats.AttendanceRate = percentOf(stats.PresentToday, stats.TotalStudents)
	return stats, nil
}

// percentOf returns part/total as a whole percentage, 0 when total is 0
func percentOf(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
