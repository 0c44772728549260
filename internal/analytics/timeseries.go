package analytics

import (
	"time"

	"github.com/AI2HU/geolens/internal/models"
)

// Series granularities. Chosen from the window span by a fixed step
// function; callers cannot override it because it changes the shape of the
// returned series.
const (
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"
)

const dateKeyFormat = "2006-01-02"

// Granularity selects the bucket size for a window: daily up to 90 days,
// weekly up to a year, monthly beyond.
func Granularity(start, end time.Time) string {
	days := int(end.Sub(start).Hours() / 24)
	switch {
	case days <= 90:
		return GranularityDay
	case days <= 365:
		return GranularityWeek
	default:
		return GranularityMonth
	}
}

// BucketKey derives the calendar key a timestamp falls into: the date
// itself for days, the Monday of the ISO week for weeks, the first of the
// month for months. Keys are computed in UTC so host timezone configuration
// cannot shift bucket boundaries.
func BucketKey(t time.Time, granularity string) string {
	t = t.UTC()
	switch granularity {
	case GranularityWeek:
		return mondayOf(t).Format(dateKeyFormat)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateKeyFormat)
	default:
		return t.Format(dateKeyFormat)
	}
}

// mondayOf steps back to the Monday of t's ISO week. Go counts Sunday as
// weekday 0, so Sunday steps back six days.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(day.Weekday())
	if weekday == 0 {
		return day.AddDate(0, 0, -6)
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// EnumerateKeys generates the complete candidate key axis between start and
// end inclusive by stepping the granularity unit forward from start, then
// deduplicating. This defines which buckets exist before any data is
// inspected.
func EnumerateKeys(start, end time.Time, granularity string) []string {
	var keys []string
	seen := make(map[string]bool)

	for cur := start.UTC(); !cur.After(end.UTC()); cur = step(cur, granularity) {
		key := BucketKey(cur, granularity)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	return keys
}

func step(t time.Time, granularity string) time.Time {
	switch granularity {
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		// Step from the first of the month so short months cannot be
		// skipped over.
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// bucketScans groups scans by their execution date's bucket key. Input
// ordering is irrelevant.
func bucketScans(scans []models.ScanRecord, granularity string) map[string][]models.ScanRecord {
	buckets := make(map[string][]models.ScanRecord)
	for _, scan := range scans {
		key := BucketKey(scan.ExecutedAt, granularity)
		buckets[key] = append(buckets[key], scan)
	}
	return buckets
}

// CitationRateSeries computes one citation-rate point per non-empty bucket.
// Buckets without scans are dropped entirely; sparse history must not read
// as a zero signal.
func CitationRateSeries(scans []models.ScanRecord, start, end time.Time, granularity string) []models.AggregatedMetricPoint {
	buckets := bucketScans(scans, granularity)

	var series []models.AggregatedMetricPoint
	for _, key := range EnumerateKeys(start, end, granularity) {
		bucket, ok := buckets[key]
		if !ok {
			continue
		}
		series = append(series, models.AggregatedMetricPoint{
			Date:  key,
			Value: CitationRate(FlattenResults(bucket)),
		})
	}

	return series
}

// AverageRankSeries computes one average-rank point per bucket that has
// scans with rank signal.
func AverageRankSeries(scans []models.ScanRecord, start, end time.Time, granularity string) []models.AggregatedMetricPoint {
	buckets := bucketScans(scans, granularity)

	var series []models.AggregatedMetricPoint
	for _, key := range EnumerateKeys(start, end, granularity) {
		bucket, ok := buckets[key]
		if !ok {
			continue
		}
		rank := AverageRank(FlattenResults(bucket), DefaultUncitedRank)
		if rank == nil {
			continue
		}
		series = append(series, models.AggregatedMetricPoint{
			Date:  key,
			Value: *rank,
		})
	}

	return series
}

// RankByModelSeries computes a per-model average-rank series. A
// bucket/model pair is dropped when that model recorded no cited result in
// the bucket, not merely when there were no scans. Models appear in
// first-observed order across the scan set.
func RankByModelSeries(scans []models.ScanRecord, start, end time.Time, granularity string) map[string][]models.AggregatedMetricPoint {
	buckets := bucketScans(scans, granularity)

	var modelOrder []string
	seenModel := make(map[string]bool)
	for _, scan := range scans {
		for _, r := range scan.Results {
			if !seenModel[r.Model] {
				seenModel[r.Model] = true
				modelOrder = append(modelOrder, r.Model)
			}
		}
	}

	keys := EnumerateKeys(start, end, granularity)
	series := make(map[string][]models.AggregatedMetricPoint, len(modelOrder))

	for _, model := range modelOrder {
		for _, key := range keys {
			bucket, ok := buckets[key]
			if !ok {
				continue
			}

			var results []models.ModelResult
			for _, r := range FlattenResults(bucket) {
				if r.Model == model {
					results = append(results, r)
				}
			}

			rank := AverageRank(results, DefaultUncitedRank)
			if rank == nil {
				continue
			}
			series[model] = append(series[model], models.AggregatedMetricPoint{
				Date:  key,
				Value: *rank,
			})
		}
	}

	return series
}

// CompetitorMentionSeries counts one competitor's mentions per bucket. A
// bucket is kept whenever it has scans at all, even with zero mentions of
// this competitor: "no data" and "zero mentions observed" are different
// facts.
func CompetitorMentionSeries(scans []models.ScanRecord, competitor string, start, end time.Time, granularity string) []models.AggregatedMetricPoint {
	buckets := bucketScans(scans, granularity)

	var series []models.AggregatedMetricPoint
	for _, key := range EnumerateKeys(start, end, granularity) {
		bucket, ok := buckets[key]
		if !ok {
			continue
		}

		count := 0
		for _, r := range FlattenResults(bucket) {
			for _, mention := range r.CompetitorMentions {
				if mention.Name == competitor {
					count++
				}
			}
		}

		series = append(series, models.AggregatedMetricPoint{
			Date:  key,
			Value: float64(count),
		})
	}

	return series
}
