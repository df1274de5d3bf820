package services

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

const (
	// DefaultTrendDays is the window of the dashboard trend chart
	DefaultTrendDays = 7
	// TrendLabelLayout formats the x-axis label of a trend point
	TrendLabelLayout = "Jan 02"

	mockTrendMin = 75
	mockTrendMax = 95
)

// TrendPoint is one day's aggregate attendance percentage
type TrendPoint struct {
	Date           string `json:"date"`
	AttendanceRate int    `json:"attendanceRate"`
}

// ChartData is the payload of the dashboard chart
type ChartData struct {
	TrendData []TrendPoint `json:"trendData"`
}

// ChartGenerator produces the trend series. Calls are synchronous and never fail;
// a generator that cannot read its source returns an empty series.
type ChartGenerator interface {
	GenerateTrendData() ChartData
}

// MockChartGenerator fabricates a plausible attendance trend
type MockChartGenerator struct {
	Days int
	Now  func() time.Time
	Rand *rand.Rand // nil uses the global source

	mu sync.Mutex // guards Rand
}

// NewMockChartGenerator creates a generator seeded from the current time
func NewMockChartGenerator(days int) *MockChartGenerator {
	seed := uint64(time.Now().UnixNano())
	return &MockChartGenerator{
		Days: days,
		Now:  time.Now,
		Rand: rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// GenerateTrendData returns Days points ending today with rates between 75 and 95
func (g *MockChartGenerator) GenerateTrendData() ChartData {
	days := g.Days
	if days <= 0 {
		days = DefaultTrendDays
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	intN := rand.IntN
	if g.Rand != nil {
		g.mu.Lock()
		defer g.mu.Unlock()
		intN = g.Rand.IntN
	}

	points := make([]TrendPoint, 0, days)
	for _, day := range trendDays(now(), days) {
		points = append(points, TrendPoint{
			Date:           day.Format(TrendLabelLayout),
			AttendanceRate: mockTrendMin + intN(mockTrendMax-mockTrendMin+1),
		})
	}
	return ChartData{TrendData: points}
}

// RecordChartGenerator derives the trend from stored attendance records
type RecordChartGenerator struct {
	db   *gorm.DB
	days int
	now  func() time.Time
}

// NewRecordChartGenerator creates a generator over the attendance tables
func NewRecordChartGenerator(db *gorm.DB, days int) *RecordChartGenerator {
	if days <= 0 {
		days = DefaultTrendDays
	}
	return &RecordChartGenerator{db: db, days: days, now: time.Now}
}

// GenerateTrendData computes, for each day in the window, the share of enrolled
// students marked present or late
func (g *RecordChartGenerator) GenerateTrendData() ChartData {
	days := trendDays(g.now(), g.days)

	var totalStudents int64
	if err := g.db.Model(&models.Student{}).Count(&totalStudents).Error; err != nil {
		log.Printf("[WARNING] Trend data unavailable: %v", err)
		return ChartData{TrendData: []TrendPoint{}}
	}

	type dayCount struct {
		Day     string
		Present int
	}
	var rows []dayCount
	err := g.db.Model(&models.AttendanceRecord{}).
		Select("day, COUNT(DISTINCT student_id) AS present").
		Where("day >= ? AND day <= ?", days[0].Format(models.AttendanceDateLayout), days[len(days)-1].Format(models.AttendanceDateLayout)).
		Where("status IN ?", []string{models.AttendanceStatusPresent, models.AttendanceStatusLate}).
		Group("day").
		Scan(&rows).Error
	if err != nil {
		log.Printf("[WARNING] Trend data unavailable: %v", err)
		return ChartData{TrendData: []TrendPoint{}}
	}

	present := make(map[string]int, len(rows))
	for _, r := range rows {
		present[r.Day] = r.Present
	}

	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		points = append(points, TrendPoint{
			Date:           day.Format(TrendLabelLayout),
			AttendanceRate: percentOf(present[day.Format(models.AttendanceDateLayout)], int(totalStudents)),
		})
	}
	return ChartData{TrendData: points}
}

// trendDays returns n calendar days ending at now's date, oldest first
func trendDays(now time.Time, n int) []time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = start.AddDate(0, 0, i-(n-1))
	}
	return days
}

// AverageRate is the mean attendance rate of the series, 0 for an empty series
// TrendTitle is the heading for a trend chart of the given length. An empty
// series has no day count to show.
func TrendTitle(points int) string {
	if points == 0 {
		return "Attendance Trend"
	}
	return fmt.Sprintf("Attendance Trend (%d Days)", points)
}

func AverageRate(points []TrendPoint) int {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += p.AttendanceRate
	}
	return percentOf(sum, len(points)*100)
}
