package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"attendance_tracker_go/models"

	"github.com/stretchr/testify/assert"
)

func TestMockChartGenerator(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	g := &MockChartGenerator{
		Days: 7,
		Now:  func() time.Time { return now },
		Rand: rand.New(rand.NewPCG(1, 2)),
	}

	data := g.GenerateTrendData()
	if assert.Len(t, data.TrendData, 7) {
		assert.Equal(t, "Mar 04", data.TrendData[0].Date)
		assert.Equal(t, "Mar 10", data.TrendData[6].Date)
	}
	for _, p := range data.TrendData {
		assert.GreaterOrEqual(t, p.AttendanceRate, 75)
		assert.LessOrEqual(t, p.AttendanceRate, 95)
	}
}

func TestMockChartGenerator_DefaultDays(t *testing.T) {
	data := NewMockChartGenerator(0).GenerateTrendData()
	assert.Len(t, data.TrendData, DefaultTrendDays)
}

func TestMockChartGenerator_NilRand(t *testing.T) {
	g := &MockChartGenerator{Days: 3}
	data := g.GenerateTrendData()
	if assert.Len(t, data.TrendData, 3) {
		for _, p := range data.TrendData {
			assert.GreaterOrEqual(t, p.AttendanceRate, 75)
			assert.LessOrEqual(t, p.AttendanceRate, 95)
		}
	}
}

func TestMockChartGenerator_ConcurrentLoads(t *testing.T) {
	svc := NewDashboardService(NewMockDataProvider(), NewMockChartGenerator(7), NewQueryCache(8, time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				snap := svc.Load(context.Background())
				assert.Len(t, snap.Trend.TrendData, 7)
			}
		}()
	}
	wg.Wait()
}

func TestRecordChartGenerator(t *testing.T) {
	db := setupServiceTestDB(t)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	g := NewRecordChartGenerator(db, 3)
	g.now = func() time.Time { return now }

	t.Run("NoStudents", func(t *testing.T) {
		data := g.GenerateTrendData()
		assert.Len(t, data.TrendData, 3)
		for _, p := range data.TrendData {
			assert.Equal(t, 0, p.AttendanceRate)
		}
	})

	t.Run("RatesPerDay", func(t *testing.T) {
		batch := seedBatch(t, db, "Morning Batch A", true, now)
		s1 := seedStudent(t, db, batch.ID, "Ana Torres", "STU-001")
		s2 := seedStudent(t, db, batch.ID, "Ben Okafor", "STU-002")

		seedRecord(t, db, s1, now.AddDate(0, 0, -2), models.AttendanceStatusPresent)
		seedRecord(t, db, s2, now.AddDate(0, 0, -2), models.AttendanceStatusLate)
		seedRecord(t, db, s1, now.AddDate(0, 0, -1), models.AttendanceStatusPresent)
		seedRecord(t, db, s2, now.AddDate(0, 0, -1), models.AttendanceStatusAbsent)
		// Outside the window
		seedRecord(t, db, s1, now.AddDate(0, 0, -5), models.AttendanceStatusPresent)

		data := g.GenerateTrendData()
		assert.Equal(t, []TrendPoint{
			{Date: "Mar 08", AttendanceRate: 100},
			{Date: "Mar 09", AttendanceRate: 50},
			{Date: "Mar 10", AttendanceRate: 0},
		}, data.TrendData)
	})
}

func TestTrendDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	days := trendDays(now, 3)

	assert.Equal(t, []time.Time{
		time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}, days)
}

func TestAverageRate(t *testing.T) {
	assert.Equal(t, 0, AverageRate(nil))
	assert.Equal(t, 85, AverageRate([]TrendPoint{{AttendanceRate: 80}, {AttendanceRate: 90}}))
	assert.Equal(t, 83, AverageRate([]TrendPoint{{AttendanceRate: 80}, {AttendanceRate: 85}, {AttendanceRate: 85}}))
}

func TestTrendTitle(t *testing.T) {
	assert.Equal(t, "Attendance Trend", TrendTitle(0))
	assert.Equal(t, "Attendance Trend (7 Days)", TrendTitle(7))
}
