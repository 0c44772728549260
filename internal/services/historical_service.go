package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AI2HU/geolens/internal/analytics"
	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

const (
	// DefaultHistoryDays is the window used when the caller gives no start
	// date.
	DefaultHistoryDays = 30

	competitorTrendLimit = 5
)

// HistoricalService assembles time-bucketed historical stats under the
// project plan's retention window.
type HistoricalService struct {
	db  db.Database
	now func() time.Time
}

// NewHistoricalService creates a new historical stats service
func NewHistoricalService(database db.Database) *HistoricalService {
	return &HistoricalService{db: database, now: time.Now}
}

// WithClock overrides the service clock, for deterministic tests.
func (s *HistoricalService) WithClock(now func() time.Time) *HistoricalService {
	s.now = now
	return s
}

// GetHistoricalStats computes the historical series for a project. Returns
// (nil, nil) when the project's plan has no historical access at all. The
// requested window is clamped to the plan's retention limit; both the
// requested and effective windows are reported so the caller can tell the
// user when older data was withheld.
func (s *HistoricalService) GetHistoricalStats(ctx context.Context, projectID, ownerID string, start, end *time.Time) (*models.HistoricalStats, error) {
	project, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if ownerID != "" && project.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: project %s", ErrForbidden, projectID)
	}

	maxDays, allowed := project.Plan.RetentionDays()
	if !allowed {
		return nil, nil
	}

	now := s.now()
	requestedEnd := now
	if end != nil {
		requestedEnd = *end
	}
	requestedStart := requestedEnd.AddDate(0, 0, -DefaultHistoryDays)
	if start != nil {
		requestedStart = *start
	}

	window := analytics.ClampWindow(requestedStart, requestedEnd, maxDays, now)
	granularity := analytics.Granularity(window.EffectiveStart, window.EffectiveEnd)

	scans, err := s.db.ListScans(ctx, shared.ScanFilter{
		ProjectID: projectID,
		StartTime: &window.EffectiveStart,
		EndTime:   &window.EffectiveEnd,
	})
	if err != nil {
		logger.Error("Failed to list scans for project %s: %v", projectID, err)
		scans = nil
	}

	stats := &models.HistoricalStats{
		DateRange:          models.DateRange{Start: window.RequestedStart, End: window.RequestedEnd},
		EffectiveDateRange: models.DateRange{Start: window.EffectiveStart, End: window.EffectiveEnd},
		PlanLimit:          window.MaxDays,
		IsLimited:          window.IsLimited,
		Aggregation:        granularity,
		CitationRate:       analytics.CitationRateSeries(scans, window.EffectiveStart, window.EffectiveEnd, granularity),
		AverageRank:        analytics.AverageRankSeries(scans, window.EffectiveStart, window.EffectiveEnd, granularity),
		RankByModel:        analytics.RankByModelSeries(scans, window.EffectiveStart, window.EffectiveEnd, granularity),
		CompetitorTrends:   s.competitorTrends(scans, window),
		TotalScans:         len(scans),
	}

	return stats, nil
}

// competitorTrends ranks the window's competitors and attaches their
// per-bucket mention series. The trend periods split the effective window
// in half, so "current vs previous" scales with whatever range the caller
// asked for.
func (s *HistoricalService) competitorTrends(scans []models.ScanRecord, window models.RetentionWindow) []models.CompetitorTrendSeries {
	span := window.EffectiveEnd.Sub(window.EffectiveStart)
	currentStart := window.EffectiveStart.Add(span / 2)
	granularity := analytics.Granularity(window.EffectiveStart, window.EffectiveEnd)

	competitors := analytics.AggregateCompetitors(scans, currentStart, window.EffectiveStart, competitorTrendLimit)

	trends := make([]models.CompetitorTrendSeries, 0, len(competitors))
	for _, c := range competitors {
		trends = append(trends, models.CompetitorTrendSeries{
			Name:         c.Name,
			Mentions:     c.Mentions,
			ShareOfVoice: c.ShareOfVoice,
			Trend:        c.Trend,
			TrendPercent: c.TrendPercent,
			Series:       analytics.CompetitorMentionSeries(scans, c.Name, window.EffectiveStart, window.EffectiveEnd, granularity),
		})
	}

	return trends
}
