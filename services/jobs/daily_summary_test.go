package jobs

import (
	"context"
	"testing"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/models"
	"attendance_tracker_go/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSendDailySummary(t *testing.T) {
	ctx := context.Background()
	dashboard := services.NewDashboardService(services.NewMockDataProvider(), services.NewMockChartGenerator(7), nil)

	t.Run("No recipients", func(t *testing.T) {
		cfg := &config.Config{EmailTestMode: true}
		assert.NoError(t, SendDailySummary(ctx, cfg, dashboard))
	})

	t.Run("Test mode", func(t *testing.T) {
		cfg := &config.Config{
			EmailTestMode:     true,
			SummaryRecipients: []string{"staff@example.com"},
			AppURL:            "http://localhost:8080",
		}
		assert.NoError(t, SendDailySummary(ctx, cfg, dashboard))
	})

	t.Run("Send failure is returned", func(t *testing.T) {
		cfg := &config.Config{SummaryRecipients: []string{"staff@example.com"}}
		assert.Error(t, SendDailySummary(ctx, cfg, dashboard))
	})
}

func TestStartScheduler(t *testing.T) {
	dashboard := services.NewDashboardService(services.NewMockDataProvider(), services.NewMockChartGenerator(7), nil)

	t.Run("Valid schedule", func(t *testing.T) {
		cfg := &config.Config{SummaryCron: "0 18 * * 1-5", Timezone: "UTC"}
		c, err := StartScheduler(cfg, nil, dashboard, nil)
		if assert.NoError(t, err) {
			assert.Len(t, c.Entries(), 3)
			<-c.Stop().Done()
		}
	})

	t.Run("Unknown timezone falls back to UTC", func(t *testing.T) {
		cfg := &config.Config{SummaryCron: "@daily", Timezone: "Mars/Olympus"}
		c, err := StartScheduler(cfg, nil, dashboard, nil)
		if assert.NoError(t, err) {
			assert.Equal(t, "UTC", c.Location().String())
			<-c.Stop().Done()
		}
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		cfg := &config.Config{SummaryCron: "not a schedule", Timezone: "UTC"}
		_, err := StartScheduler(cfg, nil, dashboard, nil)
		assert.Error(t, err)
	})
}

func TestPurgeExpiredExports(t *testing.T) {
	ctx := context.Background()
	database, err := gorm.Open(sqlite.Open("file:mem_"+uuid.New().String()+"?mode=memory&cache=shared"), &gorm.Config{})
	if !assert.NoError(t, err) {
		return
	}
	assert.NoError(t, database.AutoMigrate(&models.ExportArchive{}))
	storage := services.NewLocalStorage(t.TempDir())
	now := time.Date(2024, time.April, 20, 3, 0, 0, 0, time.UTC)

	archive, err := services.ArchiveDashboardExport(ctx, database, storage, []byte("%PDF"), "pdf", services.PDFContentType, now, "")
	if !assert.NoError(t, err) {
		return
	}
	assert.NoError(t, database.Model(archive).UpdateColumn("created_at", now.AddDate(0, 0, -40)).Error)

	t.Run("Zero retention keeps everything", func(t *testing.T) {
		assert.NoError(t, PurgeExpiredExports(ctx, &config.Config{}, database, storage, now))
		var count int64
		database.Model(&models.ExportArchive{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Expired exports are removed", func(t *testing.T) {
		cfg := &config.Config{ExportRetention: 30 * 24 * time.Hour}
		assert.NoError(t, PurgeExpiredExports(ctx, cfg, database, storage, now))

		var count int64
		database.Model(&models.ExportArchive{}).Count(&count)
		assert.Zero(t, count)
		_, _, err := storage.Get(ctx, archive.StorageKey)
		assert.Error(t, err)
	})
}
