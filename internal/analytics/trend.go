package analytics

import (
	"github.com/AI2HU/geolens/internal/models"
)

// Trend thresholds. Deltas inside [-0.2, 0.2] are treated as noise; anything
// beyond is a real move. Shared by the dashboard rank trend and the
// per-competitor position trend.
const (
	trendImprovementThreshold = -0.2
	trendDeclineThreshold     = 0.2
)

// TrendResult compares the average rank of two disjoint result sets.
// Delta is current minus previous: for rank metrics a negative delta is an
// improvement. Delta is 0 whenever either side has no rank signal.
type TrendResult struct {
	Current  *float64
	Previous *float64
	Delta    float64
}

// RankTrend computes the average-rank trend between a current and a previous
// period. Callers must guarantee the two sets are disjoint; no
// deduplication happens here.
func RankTrend(current, previous []models.ModelResult) TrendResult {
	trend := TrendResult{
		Current:  AverageRank(current, DefaultUncitedRank),
		Previous: AverageRank(previous, DefaultUncitedRank),
	}

	if trend.Current != nil && trend.Previous != nil {
		trend.Delta = round1(*trend.Current - *trend.Previous)
	}

	return trend
}

// ClassifyRankDelta maps a rank delta onto the dashboard trend labels.
func ClassifyRankDelta(delta float64) string {
	switch {
	case delta < trendImprovementThreshold:
		return models.TrendImproving
	case delta > trendDeclineThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// ClassifyPositionDelta maps a competitor position delta onto the
// competitor trend labels; "up" means the competitor moved to a better
// (numerically lower) position.
func ClassifyPositionDelta(delta float64) string {
	switch {
	case delta < trendImprovementThreshold:
		return models.CompetitorTrendUp
	case delta > trendDeclineThreshold:
		return models.CompetitorTrendDown
	default:
		return models.CompetitorTrendStable
	}
}

// Summarize turns a trend into the dashboard summary DTO.
func (t TrendResult) Summarize() models.TrendSummary {
	return models.TrendSummary{
		Current:   t.Current,
		Previous:  t.Previous,
		Delta:     t.Delta,
		Direction: ClassifyRankDelta(t.Delta),
	}
}
