package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func day(yearDay int) time.Time {
	return time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, yearDay-1)
}

func TestGranularity(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want string
	}{
		{"short window is daily", 30, GranularityDay},
		{"90 days still daily", 90, GranularityDay},
		{"91 days is weekly", 91, GranularityWeek},
		{"365 days still weekly", 365, GranularityWeek},
		{"366 days is monthly", 366, GranularityMonth},
		{"multi-year is monthly", 900, GranularityMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Granularity(start, start.AddDate(0, 0, tt.days)))
		})
	}
}

func TestBucketKey(t *testing.T) {
	t.Run("day key is the execution date", func(t *testing.T) {
		ts := time.Date(2026, 3, 15, 23, 45, 0, 0, time.UTC)
		assert.Equal(t, "2026-03-15", BucketKey(ts, GranularityDay))
	})

	t.Run("week key is the Monday of the week", func(t *testing.T) {
		// 2026-03-11 is a Wednesday; its Monday is 2026-03-09.
		ts := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, "2026-03-09", BucketKey(ts, GranularityWeek))
	})

	t.Run("sunday belongs to the week starting six days earlier", func(t *testing.T) {
		// 2026-03-15 is a Sunday; its Monday is 2026-03-09.
		ts := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, "2026-03-09", BucketKey(ts, GranularityWeek))
	})

	t.Run("monday maps to itself", func(t *testing.T) {
		ts := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2026-03-09", BucketKey(ts, GranularityWeek))
	})

	t.Run("month key is the first of the month", func(t *testing.T) {
		ts := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, "2026-03-01", BucketKey(ts, GranularityMonth))
	})
}

func TestEnumerateKeys(t *testing.T) {
	t.Run("daily keys cover the range inclusively", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

		keys := EnumerateKeys(start, end, GranularityDay)
		assert.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04"}, keys)
	})

	t.Run("monthly keys are deduplicated and never skip short months", func(t *testing.T) {
		start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

		keys := EnumerateKeys(start, end, GranularityMonth)
		assert.Equal(t, []string{"2026-01-01", "2026-02-01", "2026-03-01", "2026-04-01"}, keys)
	})

	t.Run("weekly keys step by seven days", func(t *testing.T) {
		start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // a Monday
		end := start.AddDate(0, 0, 20)

		keys := EnumerateKeys(start, end, GranularityWeek)
		assert.Equal(t, []string{"2026-03-09", "2026-03-16", "2026-03-23", "2026-03-30"}, keys)
	})

	t.Run("keys are unique", func(t *testing.T) {
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 400)

		for _, granularity := range []string{GranularityDay, GranularityWeek, GranularityMonth} {
			seen := make(map[string]bool)
			for _, key := range EnumerateKeys(start, end, granularity) {
				assert.False(t, seen[key], "duplicate key %s at %s granularity", key, granularity)
				seen[key] = true
			}
		}
	})
}

func TestCitationRateSeries(t *testing.T) {
	start := day(1)
	end := day(10)

	scans := []models.ScanRecord{
		{ExecutedAt: day(2), Results: []models.ModelResult{cited(1), uncited()}},
		{ExecutedAt: day(2), Results: []models.ModelResult{cited(2), cited(3)}},
		{ExecutedAt: day(5), Results: []models.ModelResult{uncited()}},
	}

	series := CitationRateSeries(scans, start, end, GranularityDay)

	// Only the two days with scans appear; day 5 has data (rate 0), the
	// other days are absent rather than zero-filled.
	require.Len(t, series, 2)
	assert.Equal(t, "2026-01-02", series[0].Date)
	assert.Equal(t, 75.0, series[0].Value)
	assert.Equal(t, "2026-01-05", series[1].Date)
	assert.Equal(t, 0.0, series[1].Value)
}

func TestAverageRankSeries(t *testing.T) {
	start := day(1)
	end := day(10)

	scans := []models.ScanRecord{
		{ExecutedAt: day(2), Results: []models.ModelResult{cited(1), uncited()}},
		// Day 5 has scans but no rank signal: the bucket is dropped.
		{ExecutedAt: day(5), Results: []models.ModelResult{uncited()}},
	}

	series := AverageRankSeries(scans, start, end, GranularityDay)

	require.Len(t, series, 1)
	assert.Equal(t, "2026-01-02", series[0].Date)
	assert.Equal(t, 4.0, series[0].Value)
}

func TestRankByModelSeries(t *testing.T) {
	start := day(1)
	end := day(10)

	gpt := func(position int) models.ModelResult {
		return models.ModelResult{Provider: "openai", Model: "gpt-4o", IsCited: true, Position: &position}
	}
	claudeUncited := models.ModelResult{Provider: "anthropic", Model: "claude-sonnet"}

	scans := []models.ScanRecord{
		{ExecutedAt: day(2), Results: []models.ModelResult{gpt(1), claudeUncited}},
		{ExecutedAt: day(4), Results: []models.ModelResult{gpt(3)}},
	}

	series := RankByModelSeries(scans, start, end, GranularityDay)

	require.Contains(t, series, "gpt-4o")
	assert.Equal(t, []models.AggregatedMetricPoint{
		{Date: "2026-01-02", Value: 1.0},
		{Date: "2026-01-04", Value: 3.0},
	}, series["gpt-4o"])

	// claude-sonnet never recorded a cited result: every bucket/model pair
	// is dropped for it.
	assert.NotContains(t, series, "claude-sonnet")
}

func TestCompetitorMentionSeries(t *testing.T) {
	start := day(1)
	end := day(10)

	scans := []models.ScanRecord{
		scanAt(day(2), mention("Acme", 1), mention("Acme", 2)),
		// Day 5 has a scan with zero Acme mentions: bucket kept at 0.
		scanAt(day(5), mention("Other", 1)),
	}

	series := CompetitorMentionSeries(scans, "Acme", start, end, GranularityDay)

	require.Len(t, series, 2)
	assert.Equal(t, models.AggregatedMetricPoint{Date: "2026-01-02", Value: 2}, series[0])
	assert.Equal(t, models.AggregatedMetricPoint{Date: "2026-01-05", Value: 0}, series[1])
}
