package pages

import (
	"strconv"
	"time"

	"attendance_tracker_go/models"
	"attendance_tracker_go/services"
	"attendance_tracker_go/templates/components"
	"attendance_tracker_go/templates/partials"
)

// MaxOverviewBatches is how many batches the overview card lists
const MaxOverviewBatches = 2

// StatTile is one of the summary cards at the top of the dashboard
type StatTile struct {
	Key         string // used in data-testid attributes
	Label       string
	Value       string
	Icon        string
	IconBgClass string
	IconClass   string
	CaptionLead string
	LeadClass   string
	CaptionTail string
	TailClass   string
}

// DashboardViewModel holds the data for the dashboard page
type DashboardViewModel struct {
	Title       string
	UserName    string
	CSRFToken   string
	Tiles       []StatTile
	ChartTitle  string
	Chart       components.LineChart
	TrendJSON   string
	Overview    partials.BatchOverviewView
	GeneratedAt time.Time
}

// NewDashboardViewModel turns a snapshot into what the page renders
func NewDashboardViewModel(user *models.User, csrfToken string, snap services.DashboardSnapshot) DashboardViewModel {
	vm := DashboardViewModel{
		Title:       "Dashboard | Attendance Tracker",
		CSRFToken:   csrfToken,
		Tiles:       StatTiles(snap.Stats, services.AverageRate(snap.Trend.TrendData)),
		ChartTitle:  services.TrendTitle(len(snap.Trend.TrendData)),
		Chart:       TrendChart(snap.Trend.TrendData),
		TrendJSON:   components.JSON(snap.Trend),
		Overview:    NewBatchOverview(snap.Batches, false),
		GeneratedAt: snap.GeneratedAt,
	}
	if user != nil {
		vm.UserName = user.FirstName()
	}
	return vm
}

// StatTiles builds the four summary cards. Only the attendance rate caption is
// data-derived; the other captions are fixed.
func StatTiles(stats services.DashboardStats, weeklyAverage int) []StatTile {
	return []StatTile{
		{
			Key: "total-students", Label: "Total Students", Value: strconv.Itoa(stats.TotalStudents),
			Icon: "fa-user-graduate", IconBgClass: "bg-blue-100", IconClass: "text-blue-600",
			CaptionLead: "↗ 12%", LeadClass: "text-emerald-600",
			CaptionTail: "vs last month", TailClass: "text-slate-500",
		},
		{
			Key: "present-today", Label: "Present Today", Value: strconv.Itoa(stats.PresentToday),
			Icon: "fa-check-circle", IconBgClass: "bg-emerald-100", IconClass: "text-emerald-600",
			CaptionLead: strconv.Itoa(stats.AttendanceRate) + "%", LeadClass: "text-emerald-600",
			CaptionTail: "attendance rate", TailClass: "text-slate-500",
		},
		{
			Key: "active-batches", Label: "Active Batches", Value: strconv.Itoa(stats.ActiveBatches),
			Icon: "fa-users", IconBgClass: "bg-purple-100", IconClass: "text-purple-600",
			CaptionLead: "All sessions", LeadClass: "text-slate-600",
			CaptionTail: "running", TailClass: "text-emerald-600",
		},
		{
			Key: "weekly-average", Label: "Weekly Average", Value: strconv.Itoa(weeklyAverage) + "%",
			Icon: "fa-chart-line", IconBgClass: "bg-orange-100", IconClass: "text-orange-600",
			CaptionLead: "↗ 3%", LeadClass: "text-emerald-600",
			CaptionTail: "improvement", TailClass: "text-slate-500",
		},
	}
}

// TrendChart lays out the attendance series against its date labels
func TrendChart(points []services.TrendPoint) components.LineChart {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Date
		values[i] = float64(p.AttendanceRate)
	}

	cfg := components.DefaultLineChartConfig()
	cfg.XKey = "date"
	cfg.DataKey = "attendanceRate"
	cfg.Name = "Attendance Rate (%)"
	return components.NewLineChart(cfg, labels, values)
}

// NewBatchOverview caps the list at MaxOverviewBatches unless expanded
func NewBatchOverview(batches []models.Batch, expanded bool) partials.BatchOverviewView {
	view := partials.BatchOverviewView{Total: len(batches), Expanded: expanded}
	if !expanded && len(batches) > MaxOverviewBatches {
		view.Batches = batches[:MaxOverviewBatches]
	} else {
		view.Batches = batches
	}
	return view
}
