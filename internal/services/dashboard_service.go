package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/AI2HU/geolens/internal/analytics"
	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// Dashboard window defaults. The trend always compares the last seven days
// against the seven before, independent of the stats window.
const (
	DefaultDashboardWindowDays = 30
	trendPeriodDays            = 7
	topCompetitorLimit         = 10
)

// DashboardService assembles the live dashboard from stored scans. All
// numeric aggregation is delegated to the analytics package; this layer
// only fetches and orchestrates.
type DashboardService struct {
	db  db.Database
	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(database db.Database) *DashboardService {
	return &DashboardService{db: database, now: time.Now}
}

// WithClock overrides the service clock, for deterministic tests.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// GetDashboardStats computes the dashboard payload for a project over the
// last windowDays days (0 means the default window). A scan fetch failure
// degrades to an empty dashboard rather than failing the whole request.
func (s *DashboardService) GetDashboardStats(ctx context.Context, projectID, ownerID string, windowDays int) (*models.DashboardStats, error) {
	project, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if ownerID != "" && project.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: project %s", ErrForbidden, projectID)
	}

	if windowDays <= 0 {
		windowDays = DefaultDashboardWindowDays
	}

	now := s.now()
	start := now.AddDate(0, 0, -windowDays)

	scans, err := s.db.ListScans(ctx, shared.ScanFilter{
		ProjectID: projectID,
		StartTime: &start,
		EndTime:   &now,
	})
	if err != nil {
		// Partial dashboards beat hard failures: treat fetch errors as an
		// empty result set.
		logger.Error("Failed to list scans for project %s: %v", projectID, err)
		scans = nil
	}

	results := analytics.FlattenResults(scans)

	currentStart := now.AddDate(0, 0, -trendPeriodDays)
	previousStart := now.AddDate(0, 0, -2*trendPeriodDays)
	currentResults, previousResults := splitResultsAt(scans, currentStart, previousStart)

	stats := &models.DashboardStats{
		GlobalScore:    analytics.CitationRate(results),
		AverageRank:    analytics.AverageRank(results, analytics.DefaultUncitedRank),
		Providers:      analytics.ProviderBreakdowns(results, models.DashboardProviders),
		Models:         analytics.ModelBreakdowns(results),
		Trend:          analytics.RankTrend(currentResults, previousResults).Summarize(),
		TopCompetitors: analytics.AggregateCompetitors(scans, currentStart, previousStart, topCompetitorLimit),
		PromptStats:    s.promptStats(ctx, projectID, scans),
		TotalScans:     len(scans),
		LastScanAt:     lastScanAt(scans),
		WindowDays:     windowDays,
	}

	return stats, nil
}

// splitResultsAt partitions scan results into the current trend period
// [currentStart, now] and the previous one [previousStart, currentStart).
// Anything older than previousStart belongs to neither.
func splitResultsAt(scans []models.ScanRecord, currentStart, previousStart time.Time) (current, previous []models.ModelResult) {
	for _, scan := range scans {
		switch {
		case !scan.ExecutedAt.Before(currentStart):
			current = append(current, scan.Results...)
		case !scan.ExecutedAt.Before(previousStart):
			previous = append(previous, scan.Results...)
		}
	}
	return current, previous
}

// promptStats reduces scans per prompt, sorted ascending by citation rate
// so the weakest prompts surface first. Scans whose prompt no longer exists
// are excluded from the grouping; a prompt fetch failure yields no prompt
// stats rather than an error.
func (s *DashboardService) promptStats(ctx context.Context, projectID string, scans []models.ScanRecord) []models.PromptStats {
	prompts, err := s.db.ListPrompts(ctx, projectID, nil)
	if err != nil {
		logger.Error("Failed to list prompts for project %s: %v", projectID, err)
		return nil
	}

	promptByID := make(map[string]*models.Prompt, len(prompts))
	for _, prompt := range prompts {
		promptByID[prompt.ID] = prompt
	}

	scansByPrompt := make(map[string][]models.ScanRecord)
	var order []string
	for _, scan := range scans {
		if _, known := promptByID[scan.PromptID]; !known {
			continue
		}
		if _, seen := scansByPrompt[scan.PromptID]; !seen {
			order = append(order, scan.PromptID)
		}
		scansByPrompt[scan.PromptID] = append(scansByPrompt[scan.PromptID], scan)
	}

	stats := make([]models.PromptStats, 0, len(order))
	for _, promptID := range order {
		prompt := promptByID[promptID]
		results := analytics.FlattenResults(scansByPrompt[promptID])

		stats = append(stats, models.PromptStats{
			PromptID:     promptID,
			Content:      prompt.Content,
			Category:     prompt.Category,
			TotalScans:   len(scansByPrompt[promptID]),
			CitationRate: analytics.CitationRate(results),
			AverageRank:  analytics.AverageRank(results, analytics.DefaultUncitedRank),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].CitationRate < stats[j].CitationRate
	})

	return stats
}

func lastScanAt(scans []models.ScanRecord) *time.Time {
	var last *time.Time
	for i := range scans {
		if last == nil || scans[i].ExecutedAt.After(*last) {
			last = &scans[i].ExecutedAt
		}
	}
	return last
}
