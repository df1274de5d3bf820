package partials

import (
	"fmt"
	"strconv"
	"time"

	"attendance_tracker_go/models"
)

// BatchOverviewView is what the batch overview card lists
type BatchOverviewView struct {
	Batches  []models.Batch
	Total    int  // number of batches before capping
	Expanded bool // true when every batch is listed
}

// Hidden returns how many batches the card is not showing
func (v BatchOverviewView) Hidden() int {
	if n := v.Total - len(v.Batches); n > 0 {
		return n
	}
	return 0
}

func batchBadgeClass(b models.Batch) string {
	if b.IsActive {
		return "px-2 py-1 rounded-full text-xs font-medium bg-emerald-100 text-emerald-700"
	}
	return "px-2 py-1 rounded-full text-xs font-medium bg-gray-100 text-gray-700"
}

func batchRowTestID(b models.Batch) string {
	return "batch-overview-" + b.ID
}

func studentCountLabel(b models.Batch) string {
	return strconv.Itoa(b.StudentCount)
}

func viewAllLabel(v BatchOverviewView) string {
	if v.Expanded {
		return "Show Less"
	}
	return "View All Batches →"
}

func viewAllURL(v BatchOverviewView) string {
	if v.Expanded {
		return "/htmx/batch-overview"
	}
	return "/htmx/batch-overview?all=1"
}

// formatRelativeTime formats t relative to now
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	return t.Format("Jan 2, 2006 15:04")
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
