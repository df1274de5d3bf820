package services

import (
	"context"
	"log"
	"time"

	"attendance_tracker_go/config"
	"attendance_tracker_go/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DashboardSnapshot is everything the dashboard page needs for one render
type DashboardSnapshot struct {
	Batches     []models.Batch
	Stats       DashboardStats
	Trend       ChartData
	GeneratedAt time.Time
}

// DashboardService loads dashboard data through the query cache
type DashboardService struct {
	Provider DataProvider
	Charts   ChartGenerator
	Cache    *QueryCache
}

// Dashboard is the global dashboard service instance
var Dashboard *DashboardService

// NewDashboardService wires a provider, a chart generator and a cache
func NewDashboardService(provider DataProvider, charts ChartGenerator, cache *QueryCache) *DashboardService {
	if cache == nil {
		cache = NewQueryCache(0, 0)
	}
	return &DashboardService{Provider: provider, Charts: charts, Cache: cache}
}

// InitializeDashboard sets up the dashboard service based on configuration
func InitializeDashboard(cfg *config.Config, database *gorm.DB) {
	cache := NewQueryCache(cfg.CacheSize, cfg.CacheTTL)
	if cfg.UseMockData() {
		Dashboard = NewDashboardService(NewMockDataProvider(), NewMockChartGenerator(cfg.TrendDays), cache)
		log.Println("Dashboard data source: mock")
		return
	}
	Dashboard = NewDashboardService(NewDBDataProvider(database), NewRecordChartGenerator(database, cfg.TrendDays), cache)
	log.Println("Dashboard data source: database")
}

// Batches returns the batch list through the cache
func (s *DashboardService) Batches(ctx context.Context) ([]models.Batch, error) {
	return CachedQuery(ctx, s.Cache, QueryKeyBatches, s.Provider.GetBatches)
}

// Stats returns the dashboard aggregate through the cache
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	return CachedQuery(ctx, s.Cache, QueryKeyDashboardStats, s.Provider.GetDashboardStats)
}

// Trend returns the chart series, never nil
func (s *DashboardService) Trend() ChartData {
	if s.Charts == nil {
		return ChartData{TrendData: []TrendPoint{}}
	}
	data := s.Charts.GenerateTrendData()
	if data.TrendData == nil {
		data.TrendData = []TrendPoint{}
	}
	return data
}

// Load fetches batches and stats concurrently. A failed read falls back to its
// empty value and is only logged; Load itself never fails.
func (s *DashboardService) Load(ctx context.Context) DashboardSnapshot {
	snap := DashboardSnapshot{
		Batches:     []models.Batch{},
		GeneratedAt: time.Now(),
	}

	var g errgroup.Group
	g.Go(func() error {
		batches, err := s.Batches(ctx)
		if err != nil {
			log.Printf("[WARNING] Dashboard batches unavailable: %v", err)
			return nil
		}
		if batches != nil {
			snap.Batches = batches
		}
		return nil
	})
	g.Go(func() error {
		stats, err := s.Stats(ctx)
		if err != nil {
			log.Printf("[WARNING] Dashboard stats unavailable: %v", err)
			return nil
		}
		snap.Stats = stats
		return nil
	})
	_ = g.Wait()

	snap.Trend = s.Trend()
	return snap
}

// InvalidateAll drops cached dashboard queries after a write
func (s *DashboardService) InvalidateAll() {
	s.Cache.Invalidate(QueryKeyBatches, QueryKeyDashboardStats)
}
