package jobs

import (
	"context"
	"log"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler registers the daily summary, session cleanup and export retention
// jobs and starts the cron runner
func StartScheduler(cfg *config.Config, database *gorm.DB, dashboard *services.DashboardService, storage services.StorageProvider) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[CRON] Unknown timezone %q, using UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(cfg.SummaryCron, func() {
		log.Println("[CRON] Sending daily attendance summary...")
		if err := SendDailySummary(context.Background(), cfg, dashboard); err != nil {
			log.Printf("[JOB] Daily summary failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@hourly", func() {
		if err := services.CleanupExpiredSessions(database); err != nil {
			log.Printf("[JOB] Error cleaning up expired sessions: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@daily", func() {
		if err := PurgeExpiredExports(context.Background(), cfg, database, storage, time.Now()); err != nil {
			log.Printf("[JOB] Export retention sweep failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (summary: %q, timezone: %s)", cfg.SummaryCron, loc)
	return c, nil
}

// SendDailySummary emails the current dashboard snapshot to the configured recipients.
// Cached values are dropped first so the email reflects the end of the day.
func SendDailySummary(ctx context.Context, cfg *config.Config, dashboard *services.DashboardService) error {
	if len(cfg.SummaryRecipients) == 0 {
		log.Println("[JOB] No SUMMARY_RECIPIENTS configured, skipping daily summary")
		return nil
	}

	dashboard.InvalidateAll()
	snap := dashboard.Load(ctx)

	email, err := services.BuildAttendanceSummaryEmail(cfg.SummaryRecipients, snap, cfg.AppURL)
	if err != nil {
		return err
	}
	if err := services.SendEmail(cfg, email); err != nil {
		return err
	}

	log.Printf("[JOB] Daily summary sent to %d recipients", len(cfg.SummaryRecipients))
	return nil
}

// PurgeExpiredExports removes archived exports older than EXPORT_RETENTION.
// A zero retention keeps exports forever.
func PurgeExpiredExports(ctx context.Context, cfg *config.Config, database *gorm.DB, storage services.StorageProvider, now time.Time) error {
	if cfg.ExportRetention <= 0 {
		return nil
	}
	purged, err := services.PurgeExpiredExports(ctx, database, storage, now.Add(-cfg.ExportRetention))
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Printf("[JOB] Purged %d archived exports", purged)
	}
	return nil
}
