package services

import (
	"context"
	"time"

	"attendance_tracker_go/models"
)

// MockDataProvider serves a fixed demo data set, used when DATA_SOURCE=mock
type MockDataProvider struct {
	Batches []models.Batch
	Stats   DashboardStats
	// Latency simulates a slow backend
	Latency time.Duration
}

// NewMockDataProvider returns the demo data set
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{
		Batches: []models.Batch{
			{ID: "batch-1", Name: "Morning Batch A", IsActive: true, StudentCount: 48},
			{ID: "batch-2", Name: "Evening Batch B", IsActive: true, StudentCount: 52},
			{ID: "batch-3", Name: "Weekend Batch C", IsActive: false, StudentCount: 56},
		},
		Stats: DashboardStats{
			TotalStudents:  156,
			PresentToday:   142,
			ActiveBatches:  2,
			AttendanceRate: 91,
		},
	}
}

// GetBatches returns a copy of the demo batches
func (m *MockDataProvider) GetBatches(ctx context.Context) ([]models.Batch, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]models.Batch, len(m.Batches))
	copy(out, m.Batches)
	return out, nil
}

// GetDashboardStats returns the demo aggregate
func (m *MockDataProvider) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	if err := m.wait(ctx); err != nil {
		return DashboardStats{}, err
	}
	return m.Stats, nil
}

func (m *MockDataProvider) wait(ctx context.Context) error {
	if m.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
