package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"attendance_tracker_go/models"
	"attendance_tracker_go/services"

	"github.com/stretchr/testify/assert"
)

func TestStatTiles(t *testing.T) {
	t.Run("Zero stats", func(t *testing.T) {
		tiles := StatTiles(services.DashboardStats{}, 0)
		if assert.Len(t, tiles, 4) {
			assert.Equal(t, "0", tiles[0].Value)
			assert.Equal(t, "0", tiles[1].Value)
			assert.Equal(t, "0%", tiles[1].CaptionLead)
			assert.Equal(t, "0", tiles[2].Value)
			assert.Equal(t, "0%", tiles[3].Value)
		}
	})

	t.Run("Values and fixed captions", func(t *testing.T) {
		stats := services.DashboardStats{TotalStudents: 156, PresentToday: 142, ActiveBatches: 2, AttendanceRate: 91}
		tiles := StatTiles(stats, 87)

		keys := make([]string, len(tiles))
		for i, tile := range tiles {
			keys[i] = tile.Key
		}
		assert.Equal(t, []string{"total-students", "present-today", "active-batches", "weekly-average"}, keys)
		assert.Equal(t, "156", tiles[0].Value)
		assert.Equal(t, "↗ 12%", tiles[0].CaptionLead)
		assert.Equal(t, "91%", tiles[1].CaptionLead)
		assert.Equal(t, "All sessions", tiles[2].CaptionLead)
		assert.Equal(t, "87%", tiles[3].Value)
		assert.Equal(t, "improvement", tiles[3].CaptionTail)
	})
}

func TestNewBatchOverview(t *testing.T) {
	batches := []models.Batch{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}

	capped := NewBatchOverview(batches, false)
	assert.Len(t, capped.Batches, MaxOverviewBatches)
	assert.Equal(t, "b1", capped.Batches[0].ID)
	assert.Equal(t, 1, capped.Hidden())

	expanded := NewBatchOverview(batches, true)
	assert.Len(t, expanded.Batches, 3)
	assert.Equal(t, 0, expanded.Hidden())

	empty := NewBatchOverview(nil, false)
	assert.Empty(t, empty.Batches)
	assert.Equal(t, 0, empty.Total)
}

func TestNewDashboardViewModel(t *testing.T) {
	t.Run("Empty snapshot", func(t *testing.T) {
		vm := NewDashboardViewModel(nil, "tok", services.DashboardSnapshot{})
		assert.Equal(t, "Dashboard | Attendance Tracker", vm.Title)
		assert.Equal(t, "Attendance Trend", vm.ChartTitle)
		assert.Empty(t, vm.UserName)
		assert.Len(t, vm.Chart.Series, 1)
		assert.Equal(t, `{"trendData":null}`, vm.TrendJSON)
	})

	t.Run("Populated snapshot", func(t *testing.T) {
		user := &models.User{Name: "Grace Hopper"}
		snap := services.DashboardSnapshot{
			Trend: services.ChartData{TrendData: []services.TrendPoint{
				{Date: "Mar 10", AttendanceRate: 80},
				{Date: "Mar 11", AttendanceRate: 90},
			}},
		}
		vm := NewDashboardViewModel(user, "tok", snap)
		assert.Equal(t, "Grace", vm.UserName)
		assert.Equal(t, "Attendance Trend (2 Days)", vm.ChartTitle)
		assert.Equal(t, "85%", vm.Tiles[3].Value)
		assert.Equal(t, "attendanceRate", vm.Chart.Series[0].DataKey)
		assert.Equal(t, "date", vm.Chart.XKey)
	})
}

func TestDashboardRender(t *testing.T) {
	render := func(t *testing.T, vm DashboardViewModel) string {
		var buf bytes.Buffer
		assert.NoError(t, Dashboard(vm).Render(context.Background(), &buf))
		return buf.String()
	}

	t.Run("Empty state", func(t *testing.T) {
		html := render(t, NewDashboardViewModel(nil, "tok", services.DashboardSnapshot{GeneratedAt: time.Now()}))
		assert.Contains(t, html, "Dashboard Overview")
		assert.Contains(t, html, `data-testid="stat-total-students">0</p>`)
		assert.Contains(t, html, "No batches created yet")
		assert.Contains(t, html, `data-testid="chart-attendance-trend"`)
		assert.Contains(t, html, `data-trend="{&#34;trendData&#34;:null}"`)
		assert.Contains(t, html, ">Attendance Trend</h3>")
		assert.NotContains(t, html, "(0 Days)")
		assert.Contains(t, html, `name="_csrf" value="tok"`)
	})

	t.Run("Lists first two batches", func(t *testing.T) {
		snap := services.DashboardSnapshot{Batches: []models.Batch{
			{ID: "b1", Name: "Morning Batch A", IsActive: true, StudentCount: 48},
			{ID: "b2", Name: "Evening Batch B", IsActive: false, StudentCount: 52},
			{ID: "b3", Name: "Weekend Batch C", IsActive: true, StudentCount: 56},
		}}
		html := render(t, NewDashboardViewModel(nil, "tok", snap))
		assert.Contains(t, html, `data-testid="batch-overview-b1"`)
		assert.Contains(t, html, `data-testid="batch-overview-b2"`)
		assert.NotContains(t, html, "Weekend Batch C")
		assert.Contains(t, html, ">Inactive<")
		assert.NotContains(t, html, "No batches created yet")
	})
}

func TestScanResult(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, ScanResult(false, "Unknown student code").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `data-testid="text-scan-error"`)
	assert.Contains(t, buf.String(), "Unknown student code")
}
