package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/db"
	"attendance_tracker_go/handlers"
	"attendance_tracker_go/middleware"
	"attendance_tracker_go/models"
	"attendance_tracker_go/services"
	"attendance_tracker_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Batch{}, &models.Student{}, &models.AttendanceRecord{}, &models.AuditLog{}, &models.ExportArchive{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	services.InitializeDashboard(cfg, db.DB)
	services.InitializeStorage(cfg)

	scheduler, err := jobs.StartScheduler(cfg, db.DB, services.Dashboard, services.Storage)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: len(cfg.AllowedOrigins) > 0 && cfg.AllowedOrigins[0] != "*",
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.CSRF(cfg))

	// Static files
	e.Static("/static", "static")

	// Public routes
	e.GET("/", handlers.RootHandler)
	e.GET("/login", handlers.LoginHandler)
	e.POST("/login", handlers.LoginPostHandler, middleware.LoginRateLimiter.Middleware())

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.RequireAuth(), middleware.AuditContext())
	{
		protected.POST("/logout", handlers.LogoutHandler)

		protected.GET("/dashboard", handlers.DashboardHandler)
		protected.GET("/dashboard/export.xlsx", handlers.ExportXLSXHandler)
		protected.GET("/dashboard/export.pdf", handlers.ExportPDFHandler)
		protected.GET("/dashboard/exports/*", handlers.ArchivedExportHandler)
		protected.GET("/htmx/batch-overview", handlers.BatchOverviewHTMX)

		api := protected.Group("/api")
		api.Use(middleware.APIRateLimiter.Middleware())
		{
			api.GET("/batches", handlers.GetBatchesAPI)
			api.GET("/dashboard-stats", handlers.GetDashboardStatsAPI)
			api.GET("/trend", handlers.GetTrendAPI)
		}

		// Quick Scan has its own, higher limit
		protected.POST("/api/attendance/scan", handlers.ScanAttendanceHandler, middleware.ScanRateLimiter.Middleware())

		// Admin-only routes
		admin := protected.Group("/api")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/batches", handlers.CreateBatchAPI)
			admin.PUT("/batches/:id/active", handlers.SetBatchActiveAPI)
			admin.POST("/students", handlers.CreateStudentAPI)
		}
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
