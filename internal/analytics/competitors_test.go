package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func mention(name string, position int, keywords ...string) models.CompetitorMention {
	return models.CompetitorMention{Name: name, Position: position, Keywords: keywords}
}

func scanAt(executedAt time.Time, mentions ...models.CompetitorMention) models.ScanRecord {
	return models.ScanRecord{
		ExecutedAt: executedAt,
		Results: []models.ModelResult{
			{Provider: "openai", Model: "gpt-4o", CompetitorMentions: mentions},
		},
	}
}

func findCompetitor(t *testing.T, competitors []models.EnrichedCompetitor, name string) models.EnrichedCompetitor {
	t.Helper()
	for _, c := range competitors {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("competitor %q not found", name)
	return models.EnrichedCompetitor{}
}

func TestAggregateCompetitors(t *testing.T) {
	currentStart := now.AddDate(0, 0, -7)
	previousStart := now.AddDate(0, 0, -14)

	t.Run("accumulates mentions, positions and seen timestamps", func(t *testing.T) {
		early := now.AddDate(0, 0, -10)
		late := now.AddDate(0, 0, -1)

		// Scans given out of chronological order on purpose.
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(late, mention("Acme", 1)),
			scanAt(early, mention("Acme", 3)),
		}, currentStart, previousStart, 0)

		require.Len(t, competitors, 1)
		acme := competitors[0]
		assert.Equal(t, 2, acme.Mentions)
		require.NotNil(t, acme.AveragePosition)
		assert.Equal(t, 2.0, *acme.AveragePosition)
		assert.Equal(t, early, acme.FirstSeenAt)
		assert.Equal(t, late, acme.LastSeenAt)

		require.Contains(t, acme.ByModel, "gpt-4o")
		assert.Equal(t, 2, acme.ByModel["gpt-4o"].Mentions)
	})

	t.Run("share of voice over all mentions in window", func(t *testing.T) {
		ts := now.AddDate(0, 0, -2)
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(ts, mention("Atelier Boisé", 1), mention("Acme", 2)),
			scanAt(ts, mention("Atelier Boisé", 2), mention("Nimbus", 1)),
			scanAt(ts, mention("Atelier Boisé", 1), mention("Acme", 3)),
		}, currentStart, previousStart, 0)

		boise := findCompetitor(t, competitors, "Atelier Boisé")
		assert.Equal(t, 3, boise.Mentions)
		assert.Equal(t, 50.0, boise.ShareOfVoice)
	})

	t.Run("orders by mentions descending with stable ties and truncation", func(t *testing.T) {
		ts := now.AddDate(0, 0, -2)
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(ts, mention("First", 1), mention("Second", 2), mention("Big", 1)),
			scanAt(ts, mention("Big", 1)),
		}, currentStart, previousStart, 2)

		require.Len(t, competitors, 2)
		assert.Equal(t, "Big", competitors[0].Name)
		// First and Second tie at one mention: encounter order wins.
		assert.Equal(t, "First", competitors[1].Name)
	})

	t.Run("competitor names are case sensitive", func(t *testing.T) {
		ts := now.AddDate(0, 0, -2)
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(ts, mention("acme", 1), mention("Acme", 1)),
		}, currentStart, previousStart, 0)

		assert.Len(t, competitors, 2)
	})
}

func TestCompetitorTrend(t *testing.T) {
	currentStart := now.AddDate(0, 0, -7)
	previousStart := now.AddDate(0, 0, -14)

	t.Run("new when first seen inside the current period", func(t *testing.T) {
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -2), mention("Fresh", 1)),
		}, currentStart, previousStart, 0)

		assert.Equal(t, models.CompetitorTrendNew, competitors[0].Trend)
	})

	t.Run("up when average position improved beyond the threshold", func(t *testing.T) {
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -10), mention("Mover", 3)),
			scanAt(now.AddDate(0, 0, -2), mention("Mover", 1)),
		}, currentStart, previousStart, 0)

		mover := competitors[0]
		assert.Equal(t, models.CompetitorTrendUp, mover.Trend)
		assert.Equal(t, 1, mover.CurrentMentions)
		assert.Equal(t, 1, mover.PreviousMentions)
	})

	t.Run("down when average position worsened beyond the threshold", func(t *testing.T) {
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -10), mention("Slider", 1)),
			scanAt(now.AddDate(0, 0, -2), mention("Slider", 4)),
		}, currentStart, previousStart, 0)

		assert.Equal(t, models.CompetitorTrendDown, competitors[0].Trend)
	})

	t.Run("stable when a period has no position signal", func(t *testing.T) {
		// Mentioned only before the previous period: no data on either side.
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -20), mention("Old", 1)),
		}, currentStart, previousStart, 0)

		assert.Equal(t, models.CompetitorTrendStable, competitors[0].Trend)
	})
}

func TestCompetitorTrendPercent(t *testing.T) {
	currentStart := now.AddDate(0, 0, -7)
	previousStart := now.AddDate(0, 0, -14)

	t.Run("nil when both periods are empty", func(t *testing.T) {
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -20), mention("Dormant", 1)),
		}, currentStart, previousStart, 0)

		assert.Nil(t, competitors[0].TrendPercent)
	})

	t.Run("clamped to 100 on growth from nothing", func(t *testing.T) {
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -2), mention("Rocket", 1)),
			scanAt(now.AddDate(0, 0, -1), mention("Rocket", 2)),
		}, currentStart, previousStart, 0)

		require.NotNil(t, competitors[0].TrendPercent)
		assert.Equal(t, 100, *competitors[0].TrendPercent)
	})

	t.Run("relative growth otherwise", func(t *testing.T) {
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -10), mention("Steady", 1)),
			scanAt(now.AddDate(0, 0, -10), mention("Steady", 1)),
			scanAt(now.AddDate(0, 0, -2), mention("Steady", 1)),
			scanAt(now.AddDate(0, 0, -2), mention("Steady", 1)),
			scanAt(now.AddDate(0, 0, -1), mention("Steady", 1)),
		}, currentStart, previousStart, 0)

		// 2 → 3 mentions: +50%.
		require.NotNil(t, competitors[0].TrendPercent)
		assert.Equal(t, 50, *competitors[0].TrendPercent)
	})
}

func TestCompetitorKeywords(t *testing.T) {
	currentStart := now.AddDate(0, 0, -7)
	previousStart := now.AddDate(0, 0, -14)

	t.Run("top keywords by frequency with first-encounter ties", func(t *testing.T) {
		ts := now.AddDate(0, 0, -2)

		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(ts, mention("Acme", 1, "quality", "price")),
			scanAt(ts, mention("Acme", 1, "quality", "design")),
			scanAt(ts, mention("Acme", 1, "quality", "price", "support")),
		}, currentStart, previousStart, 0)

		// quality x3, price x2, then the design/support tie resolves by first
		// encounter.
		assert.Equal(t, []string{"quality", "price", "design"}, competitors[0].Keywords)
	})

	t.Run("latest keywords follow the most recent sighting", func(t *testing.T) {
		// Scans given out of chronological order on purpose.
		competitors := AggregateCompetitors([]models.ScanRecord{
			scanAt(now.AddDate(0, 0, -1), mention("Acme", 1, "warranty")),
			scanAt(now.AddDate(0, 0, -5), mention("Acme", 1, "quality", "price")),
		}, currentStart, previousStart, 0)

		assert.Equal(t, []string{"warranty"}, competitors[0].LatestKeywords)
	})
}

func TestEnrichedCompetitorJSON(t *testing.T) {
	// A competitor rounded down to a 0.0 share must still report the field.
	payload, err := json.Marshal(models.EnrichedCompetitor{Name: "Speck", ShareOfVoice: 0})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"share_of_voice":0`)
}
