package service

import (
	"context"
	"math"
	"time"

	"github.com/LeFrancilien/LeadFlow/internal/dto"
	"github.com/LeFrancilien/LeadFlow/internal/repository"
)

const recentLeadsLimit = 10

// DashboardService assembles the aggregate metrics for the dashboard screen.
type DashboardService struct {
	stats repository.StatsRepository
	now   func() time.Time
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(stats repository.StatsRepository) *DashboardService {
	return &DashboardService{stats: stats, now: time.Now}
}

// Stats returns the pipeline snapshot. Rates and averages are rounded to
// whole numbers the way the dashboard displays them.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	raw, err := s.stats.LeadStats(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	recent, err := s.stats.RecentLeads(ctx, recentLeadsLimit)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalLeads:     raw.Total,
		LeadsThisMonth: raw.ThisMonth,
		AverageScore:   int(math.Round(raw.AverageScore)),
		BySource:       raw.BySource,
		ByStatus:       raw.ByStatus,
		RecentLeads:    recent,
	}
	if raw.Total > 0 {
		stats.ConversionRate = int(math.Round(float64(raw.Converted) / float64(raw.Total) * 100))
	}
	return stats, nil
}
