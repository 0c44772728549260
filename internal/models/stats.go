package models

import (
	"time"
)

// Trend directions for the dashboard rank summary.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Trend directions for individual competitors. Competitor position is rank
// based, so "up" means a numerically lower (better) average position.
const (
	CompetitorTrendNew    = "new"
	CompetitorTrendUp     = "up"
	CompetitorTrendDown   = "down"
	CompetitorTrendStable = "stable"
)

// AggregatedMetricPoint is one non-empty calendar bucket of a series.
// Date is a calendar key (YYYY-MM-DD); buckets without data are never
// emitted, so consumers must not assume a contiguous axis.
type AggregatedMetricPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TrendSummary compares the same rank metric over two disjoint windows.
// Delta is current minus previous; for rank metrics a negative delta is an
// improvement.
type TrendSummary struct {
	Current   *float64 `json:"current"`
	Previous  *float64 `json:"previous"`
	Delta     float64  `json:"delta"`
	Direction string   `json:"direction"`
}

// ProviderBreakdown holds the reduced metrics for one provider. Providers
// from the fixed dashboard set appear even with zero observed scans.
type ProviderBreakdown struct {
	Provider     string   `json:"provider"`
	CitationRate float64  `json:"citation_rate"`
	AverageRank  *float64 `json:"average_rank"`
	TotalScans   int      `json:"total_scans"`
}

// ModelBreakdown holds the reduced metrics for one observed model.
type ModelBreakdown struct {
	Model        string   `json:"model"`
	CitationRate float64  `json:"citation_rate"`
	AverageRank  *float64 `json:"average_rank"`
	TotalScans   int      `json:"total_scans"`
}

// CompetitorModelStats is a competitor's per-model mention slice.
type CompetitorModelStats struct {
	Mentions        int      `json:"mentions"`
	AveragePosition *float64 `json:"average_position"`
}

// EnrichedCompetitor is the fully accumulated view of one competitor over
// the evaluated window.
type EnrichedCompetitor struct {
	Name             string                          `json:"name"`
	Mentions         int                             `json:"mentions"`
	AveragePosition  *float64                        `json:"average_position"`
	ByModel          map[string]CompetitorModelStats `json:"by_model"`
	FirstSeenAt      time.Time                       `json:"first_seen_at"`
	LastSeenAt       time.Time                       `json:"last_seen_at"`
	Keywords         []string                        `json:"keywords,omitempty"`
	LatestKeywords   []string                        `json:"latest_keywords,omitempty"`
	Trend            string                          `json:"trend"`
	TrendPercent     *int                            `json:"trend_percent"`
	CurrentMentions  int                             `json:"current_mentions"`
	PreviousMentions int                             `json:"previous_mentions"`
	ShareOfVoice     float64                         `json:"share_of_voice"`
}

// PromptStats summarizes scan outcomes for a single prompt.
type PromptStats struct {
	PromptID     string   `json:"prompt_id"`
	Content      string   `json:"content"`
	Category     string   `json:"category,omitempty"`
	TotalScans   int      `json:"total_scans"`
	CitationRate float64  `json:"citation_rate"`
	AverageRank  *float64 `json:"average_rank"`
}

// DashboardStats is the live dashboard payload.
type DashboardStats struct {
	GlobalScore    float64              `json:"global_score"` // Citation rate across every result in window
	AverageRank    *float64             `json:"average_rank"`
	Providers      []ProviderBreakdown  `json:"providers"`
	Models         []ModelBreakdown     `json:"models"`
	Trend          TrendSummary         `json:"trend"`
	TopCompetitors []EnrichedCompetitor `json:"top_competitors"`
	PromptStats    []PromptStats        `json:"prompt_stats"`
	TotalScans     int                  `json:"total_scans"`
	LastScanAt     *time.Time           `json:"last_scan_at"`
	WindowDays     int                  `json:"window_days"`
}

// DateRange is an inclusive [start, end] window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// RetentionWindow reports how a requested window was clamped by the plan's
// retention limit.
type RetentionWindow struct {
	RequestedStart time.Time `json:"requested_start"`
	RequestedEnd   time.Time `json:"requested_end"`
	EffectiveStart time.Time `json:"effective_start"`
	EffectiveEnd   time.Time `json:"effective_end"`
	MaxDays        *int      `json:"max_days"`
	IsLimited      bool      `json:"is_limited"`
}

// CompetitorTrendSeries is one competitor's historical mention series plus
// its window-level ranking stats.
type CompetitorTrendSeries struct {
	Name         string                  `json:"name"`
	Mentions     int                     `json:"mentions"`
	ShareOfVoice float64                 `json:"share_of_voice"`
	Trend        string                  `json:"trend"`
	TrendPercent *int                    `json:"trend_percent"`
	Series       []AggregatedMetricPoint `json:"series"`
}

// HistoricalStats is the historical stats payload. Series are sparse:
// calendar buckets without scans are dropped rather than zero-filled.
type HistoricalStats struct {
	DateRange          DateRange                          `json:"date_range"`
	EffectiveDateRange DateRange                          `json:"effective_date_range"`
	PlanLimit          *int                               `json:"plan_limit"`
	IsLimited          bool                               `json:"is_limited"`
	Aggregation        string                             `json:"aggregation"` // day, week or month
	CitationRate       []AggregatedMetricPoint            `json:"citation_rate"`
	AverageRank        []AggregatedMetricPoint            `json:"average_rank"`
	RankByModel        map[string][]AggregatedMetricPoint `json:"rank_by_model"`
	CompetitorTrends   []CompetitorTrendSeries            `json:"competitor_trends"`
	TotalScans         int                                `json:"total_scans"`
}
