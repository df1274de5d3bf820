package handlers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/db"
	"attendance_tracker_go/models"
	"attendance_tracker_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for concurrent reads
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Batch{},
		&models.Student{},
		&models.AttendanceRecord{},
		&models.AuditLog{},
		&models.ExportArchive{},
	)
	assert.NoError(t, err)

	// Set globals used by handlers
	db.DB = testDB
	services.Dashboard = services.NewDashboardService(
		services.NewDBDataProvider(testDB),
		services.NewRecordChartGenerator(testDB, services.DefaultTrendDays),
		services.NewQueryCache(16, 0),
	)
	services.Storage = services.NewLocalStorage(t.TempDir())

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

func createBatch(t *testing.T, database *gorm.DB, name string, active bool, createdAt time.Time) models.Batch {
	batch := models.Batch{Name: name, IsActive: active, CreatedAt: createdAt}
	assert.NoError(t, database.Create(&batch).Error)
	return batch
}

func createStudent(t *testing.T, database *gorm.DB, batchID, name, code string) models.Student {
	student := models.Student{Name: name, Code: code, BatchID: batchID}
	assert.NoError(t, database.Create(&student).Error)
	return student
}

// failingProvider simulates a backend that is down
type failingProvider struct{}

func (failingProvider) GetBatches(ctx context.Context) ([]models.Batch, error) {
	return nil, errors.New("connection refused")
}

func (failingProvider) GetDashboardStats(ctx context.Context) (services.DashboardStats, error) {
	return services.DashboardStats{}, errors.New("connection refused")
}
