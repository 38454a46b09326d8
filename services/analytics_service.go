package services

import (
	"time"

	"litfund-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxStatsDays caps the daily series so an oversized query param cannot
// force a huge allocation.
const maxStatsDays = 365

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

type AnalyticsStats struct {
	TotalViews int64        `json:"total_views"`
	ViewsToday int64        `json:"views_today"`
	Daily      []DailyCount `json:"daily"`
	TopPaths   []PathCount  `json:"top_paths"`
}

type AnalyticsService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db, Now: time.Now}
}

// Record stores a pageview. A missing visitor id gets a fresh uuid so
// repeat views from the same client can be correlated by the frontend later.
func (s *AnalyticsService) Record(view *models.PageView) error {
	if view.VisitorID == "" {
		view.VisitorID = uuid.NewString()
	}
	return s.DB.Create(view).Error
}

// Stats aggregates the dashboard numbers for the last `days` calendar days.
// The daily series is bucketed in Go to stay portable across MySQL and the
// SQLite test store.
func (s *AnalyticsService) Stats(days int) (*AnalyticsStats, error) {
	if days <= 0 {
		days = 30
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	now := s.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := todayStart.AddDate(0, 0, -(days - 1))

	stats := &AnalyticsStats{}

	if err := s.DB.Model(&models.PageView{}).Count(&stats.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.PageView{}).
		Where("created_at >= ?", todayStart).Count(&stats.ViewsToday).Error; err != nil {
		return nil, err
	}

	var recent []models.PageView
	if err := s.DB.Select("created_at").
		Where("created_at >= ?", since).Find(&recent).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]int64, days)
	for _, v := range recent {
		buckets[v.CreatedAt.In(now.Location()).Format("2006-01-02")]++
	}
	stats.Daily = make([]DailyCount, 0, days)
	for d := 0; d < days; d++ {
		day := since.AddDate(0, 0, d).Format("2006-01-02")
		stats.Daily = append(stats.Daily, DailyCount{Date: day, Count: buckets[day]})
	}

	err := s.DB.Model(&models.PageView{}).
		Select("path, COUNT(*) as count").
		Group("path").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopPaths).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
