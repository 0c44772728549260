package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeDB stubs the database methods the assemblers use. The embedded
// interface panics on anything else, which keeps the test honest about
// what the services actually touch.
type fakeDB struct {
	db.Database
	project    *models.Project
	projectErr error
	scans      []models.ScanRecord
	scansErr   error
	prompts    []*models.Prompt
	promptsErr error
}

func (f *fakeDB) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	return f.project, nil
}

func (f *fakeDB) ListScans(ctx context.Context, filter shared.ScanFilter) ([]models.ScanRecord, error) {
	if f.scansErr != nil {
		return nil, f.scansErr
	}
	var scans []models.ScanRecord
	for _, scan := range f.scans {
		if filter.StartTime != nil && scan.ExecutedAt.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && scan.ExecutedAt.After(*filter.EndTime) {
			continue
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

func (f *fakeDB) ListPrompts(ctx context.Context, projectID string, enabled *bool) ([]*models.Prompt, error) {
	if f.promptsErr != nil {
		return nil, f.promptsErr
	}
	return f.prompts, nil
}

func testProject(plan models.Plan) *models.Project {
	return &models.Project{
		ID:      "proj-1",
		Name:    "Woodshop",
		Brand:   "Atelier Nord",
		Plan:    plan,
		OwnerID: "owner-1",
	}
}

func citedResult(position int) models.ModelResult {
	return models.ModelResult{Provider: "openai", Model: "gpt-4o", IsCited: true, Position: &position}
}

func uncitedResult() models.ModelResult {
	return models.ModelResult{Provider: "openai", Model: "gpt-4o"}
}

func scanFor(promptID string, executedAt time.Time, results ...models.ModelResult) models.ScanRecord {
	return models.ScanRecord{
		ID:         "scan-" + promptID + executedAt.Format("2006-01-02T15"),
		ProjectID:  "proj-1",
		PromptID:   promptID,
		ExecutedAt: executedAt,
		Results:    results,
	}
}

func TestGetDashboardStats(t *testing.T) {
	clock := func() time.Time { return testNow }

	t.Run("unknown project", func(t *testing.T) {
		database := &fakeDB{projectErr: errors.New("project not found: nope")}
		svc := NewDashboardService(database).WithClock(clock)

		_, err := svc.GetDashboardStats(context.Background(), "nope", "owner-1", 0)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("foreign project is forbidden", func(t *testing.T) {
		database := &fakeDB{project: testProject(models.PlanFree)}
		svc := NewDashboardService(database).WithClock(clock)

		_, err := svc.GetDashboardStats(context.Background(), "proj-1", "intruder", 0)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("empty project yields a zero dashboard, not an error", func(t *testing.T) {
		database := &fakeDB{project: testProject(models.PlanFree)}
		svc := NewDashboardService(database).WithClock(clock)

		stats, err := svc.GetDashboardStats(context.Background(), "proj-1", "owner-1", 0)
		require.NoError(t, err)

		assert.Equal(t, 0.0, stats.GlobalScore)
		assert.Nil(t, stats.AverageRank)
		assert.Zero(t, stats.TotalScans)
		assert.Nil(t, stats.LastScanAt)
		assert.Equal(t, models.TrendStable, stats.Trend.Direction)
		// The fixed provider set still shows up with zero rows.
		assert.Len(t, stats.Providers, len(models.DashboardProviders))
	})

	t.Run("scan fetch failure degrades to an empty dashboard", func(t *testing.T) {
		database := &fakeDB{project: testProject(models.PlanFree), scansErr: errors.New("boom")}
		svc := NewDashboardService(database).WithClock(clock)

		stats, err := svc.GetDashboardStats(context.Background(), "proj-1", "owner-1", 0)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalScans)
	})

	t.Run("prompt stats sort ascending by citation rate", func(t *testing.T) {
		recent := testNow.AddDate(0, 0, -2)
		database := &fakeDB{
			project: testProject(models.PlanFree),
			prompts: []*models.Prompt{
				{ID: "prompt-a", ProjectID: "proj-1", Content: "best woodworking shops"},
				{ID: "prompt-b", ProjectID: "proj-1", Content: "custom furniture makers"},
			},
			scans: []models.ScanRecord{
				// Prompt A: 1 of 2 cited (50%), prompt B: 2 of 2 (100%).
				scanFor("prompt-b", recent, citedResult(1), citedResult(2)),
				scanFor("prompt-a", recent, citedResult(1), uncitedResult()),
				// A scan for a deleted prompt is excluded from grouping.
				scanFor("prompt-gone", recent, citedResult(1)),
			},
		}
		svc := NewDashboardService(database).WithClock(clock)

		stats, err := svc.GetDashboardStats(context.Background(), "proj-1", "owner-1", 0)
		require.NoError(t, err)

		require.Len(t, stats.PromptStats, 2)
		assert.Equal(t, "prompt-a", stats.PromptStats[0].PromptID)
		assert.Equal(t, 50.0, stats.PromptStats[0].CitationRate)
		assert.Equal(t, "prompt-b", stats.PromptStats[1].PromptID)
		assert.Equal(t, 100.0, stats.PromptStats[1].CitationRate)

		// The orphaned scan still counts globally.
		assert.Equal(t, 3, stats.TotalScans)
	})

	t.Run("trend compares last week against the one before", func(t *testing.T) {
		database := &fakeDB{
			project: testProject(models.PlanFree),
			scans: []models.ScanRecord{
				// Previous period avg rank 3.0, current 1.0: improving.
				scanFor("p", testNow.AddDate(0, 0, -10), citedResult(3)),
				scanFor("p", testNow.AddDate(0, 0, -2), citedResult(1)),
			},
		}
		svc := NewDashboardService(database).WithClock(clock)

		stats, err := svc.GetDashboardStats(context.Background(), "proj-1", "owner-1", 0)
		require.NoError(t, err)

		assert.Equal(t, -2.0, stats.Trend.Delta)
		assert.Equal(t, models.TrendImproving, stats.Trend.Direction)
	})

	t.Run("competitors are aggregated and capped at ten", func(t *testing.T) {
		recent := testNow.AddDate(0, 0, -1)
		result := models.ModelResult{Provider: "openai", Model: "gpt-4o"}
		for i := 0; i < 12; i++ {
			result.CompetitorMentions = append(result.CompetitorMentions, models.CompetitorMention{
				Name:     string(rune('A' + i)),
				Position: 1,
			})
		}
		database := &fakeDB{
			project: testProject(models.PlanFree),
			scans:   []models.ScanRecord{scanFor("p", recent, result)},
		}
		svc := NewDashboardService(database).WithClock(clock)

		stats, err := svc.GetDashboardStats(context.Background(), "proj-1", "owner-1", 0)
		require.NoError(t, err)
		assert.Len(t, stats.TopCompetitors, 10)
	})
}

func TestGetHistoricalStats(t *testing.T) {
	clock := func() time.Time { return testNow }

	t.Run("free plan has no historical access", func(t *testing.T) {
		database := &fakeDB{project: testProject(models.PlanFree)}
		svc := NewHistoricalService(database).WithClock(clock)

		stats, err := svc.GetHistoricalStats(context.Background(), "proj-1", "owner-1", nil, nil)
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("starter plan clamps to thirty days", func(t *testing.T) {
		database := &fakeDB{project: testProject(models.PlanStarter)}
		svc := NewHistoricalService(database).WithClock(clock)

		start := testNow.AddDate(0, 0, -60)
		stats, err := svc.GetHistoricalStats(context.Background(), "proj-1", "owner-1", &start, nil)
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, start, stats.DateRange.Start)
		assert.Equal(t, testNow.AddDate(0, 0, -30), stats.EffectiveDateRange.Start)
		assert.True(t, stats.IsLimited)
		require.NotNil(t, stats.PlanLimit)
		assert.Equal(t, 30, *stats.PlanLimit)
	})

	t.Run("scale plan is never clamped", func(t *testing.T) {
		database := &fakeDB{project: testProject(models.PlanScale)}
		svc := NewHistoricalService(database).WithClock(clock)

		start := testNow.AddDate(-2, 0, 0)
		stats, err := svc.GetHistoricalStats(context.Background(), "proj-1", "owner-1", &start, nil)
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, start, stats.EffectiveDateRange.Start)
		assert.False(t, stats.IsLimited)
		assert.Nil(t, stats.PlanLimit)
		// A two year span buckets monthly.
		assert.Equal(t, "month", stats.Aggregation)
	})

	t.Run("series and competitor trends over the window", func(t *testing.T) {
		mentionResult := models.ModelResult{
			Provider: "openai",
			Model:    "gpt-4o",
			IsCited:  true,
			Position: intPtr(2),
			CompetitorMentions: []models.CompetitorMention{
				{Name: "Atelier Boisé", Position: 1},
				{Name: "Acme", Position: 3},
			},
		}
		database := &fakeDB{
			project: testProject(models.PlanStarter),
			scans: []models.ScanRecord{
				scanFor("p", testNow.AddDate(0, 0, -3), mentionResult),
				scanFor("p", testNow.AddDate(0, 0, -2), uncitedResult()),
			},
		}
		svc := NewHistoricalService(database).WithClock(clock)

		stats, err := svc.GetHistoricalStats(context.Background(), "proj-1", "owner-1", nil, nil)
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, "day", stats.Aggregation)
		assert.Equal(t, 2, stats.TotalScans)
		assert.Len(t, stats.CitationRate, 2)
		// Only the scan day with a cited result carries rank signal.
		assert.Len(t, stats.AverageRank, 1)
		assert.Contains(t, stats.RankByModel, "gpt-4o")

		require.Len(t, stats.CompetitorTrends, 2)
		assert.Equal(t, "Atelier Boisé", stats.CompetitorTrends[0].Name)
		assert.Equal(t, 50.0, stats.CompetitorTrends[0].ShareOfVoice)
		assert.NotEmpty(t, stats.CompetitorTrends[0].Series)
	})

	t.Run("unknown project", func(t *testing.T) {
		database := &fakeDB{projectErr: errors.New("project not found: nope")}
		svc := NewHistoricalService(database).WithClock(clock)

		_, err := svc.GetHistoricalStats(context.Background(), "nope", "owner-1", nil, nil)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}

func intPtr(v int) *int {
	return &v
}
