package services

import (
	"testing"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/models"

	"github.com/stretchr/testify/assert"
)

func TestSendEmail(t *testing.T) {
	email := &Email{To: []string{"staff@example.com"}, Subject: "Hi", TextBody: "Body"}

	t.Run("Test mode logs instead of sending", func(t *testing.T) {
		cfg := &config.Config{EmailTestMode: true}
		assert.NoError(t, SendEmail(cfg, email))
	})

	t.Run("Missing API key", func(t *testing.T) {
		cfg := &config.Config{}
		err := SendEmail(cfg, email)
		assert.EqualError(t, err, "RESEND_API_KEY not configured")
	})

	t.Run("No recipients", func(t *testing.T) {
		cfg := &config.Config{ResendAPIKey: "re_test"}
		err := SendEmail(cfg, &Email{Subject: "Hi", TextBody: "Body"})
		assert.EqualError(t, err, "email has no recipients")
	})

	t.Run("No body", func(t *testing.T) {
		cfg := &config.Config{ResendAPIKey: "re_test"}
		err := SendEmail(cfg, &Email{To: []string{"staff@example.com"}, Subject: "Hi"})
		assert.EqualError(t, err, "email must have either HTMLBody or TextBody")
	})
}

func TestBuildAttendanceSummaryEmail(t *testing.T) {
	at := time.Date(2024, time.March, 11, 18, 0, 0, 0, time.UTC)

	t.Run("With batches", func(t *testing.T) {
		snap := DashboardSnapshot{
			Batches: []models.Batch{{ID: "b1", Name: "Morning Batch A", IsActive: true, StudentCount: 5}},
			Stats:   DashboardStats{TotalStudents: 5, PresentToday: 4, ActiveBatches: 1, AttendanceRate: 80},
			Trend: ChartData{TrendData: []TrendPoint{
				{Date: "Mar 10", AttendanceRate: 90},
				{Date: "Mar 11", AttendanceRate: 80},
			}},
			GeneratedAt: at,
		}

		email, err := BuildAttendanceSummaryEmail([]string{"staff@example.com"}, snap, "https://attendance.example.com/")
		assert.NoError(t, err)
		assert.Equal(t, []string{"staff@example.com"}, email.To)
		assert.Equal(t, "Attendance summary: 80% present (Mar 11)", email.Subject)
		assert.Contains(t, email.TextBody, "Monday, March 11, 2024")
		assert.Contains(t, email.TextBody, "Weekly Average:  85%")
		assert.Contains(t, email.TextBody, "- Morning Batch A (Active, 5 students)")
		assert.Contains(t, email.TextBody, "https://attendance.example.com/dashboard")
		assert.Contains(t, email.HTMLBody, "Morning Batch A")
	})

	t.Run("Empty snapshot", func(t *testing.T) {
		email, err := BuildAttendanceSummaryEmail([]string{"staff@example.com"}, DashboardSnapshot{GeneratedAt: at}, "http://localhost:8080")
		assert.NoError(t, err)
		assert.Equal(t, "Attendance summary: 0% present (Mar 11)", email.Subject)
		assert.Contains(t, email.TextBody, "No batches created yet")
	})
}
