package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/AI2HU/geolens/internal/models"
)

// topKeywordCount caps the summarized keyword list per competitor.
const topKeywordCount = 3

// competitorAccum is the per-competitor accumulation state, keyed by the
// raw mention name. Insertion order is kept alongside the map so ties stay
// deterministic.
type competitorAccum struct {
	name             string
	mentions         int
	positions        []int
	byModel          map[string]*competitorModelAccum
	modelOrder       []string
	firstSeen        time.Time
	lastSeen         time.Time
	keywordCounts    map[string]int
	keywordOrder     []string
	latestKeywords   []string
	latestKeywordsAt time.Time
	curMentions      int
	curPositions     []int
	prevMentions     int
	prevPositions    []int
}

type competitorModelAccum struct {
	mentions  int
	positions []int
}

// AggregateCompetitors folds every competitor mention in the given scans
// into enriched per-competitor records. currentStart and previousStart
// bound the two trend periods: [currentStart, ∞) is the current period and
// [previousStart, currentStart) the previous one. The output is ordered by
// descending mention count, ties in encounter order, truncated to limit
// (0 means no truncation). Scan order does not matter.
func AggregateCompetitors(scans []models.ScanRecord, currentStart, previousStart time.Time, limit int) []models.EnrichedCompetitor {
	accums := make(map[string]*competitorAccum)
	var order []string

	for _, scan := range scans {
		for _, result := range scan.Results {
			for _, mention := range result.CompetitorMentions {
				a, ok := accums[mention.Name]
				if !ok {
					a = &competitorAccum{
						name:          mention.Name,
						byModel:       make(map[string]*competitorModelAccum),
						keywordCounts: make(map[string]int),
						firstSeen:     scan.ExecutedAt,
						lastSeen:      scan.ExecutedAt,
					}
					accums[mention.Name] = a
					order = append(order, mention.Name)
				}

				a.mentions++
				a.positions = append(a.positions, mention.Position)

				if scan.ExecutedAt.Before(a.firstSeen) {
					a.firstSeen = scan.ExecutedAt
				}
				if scan.ExecutedAt.After(a.lastSeen) {
					a.lastSeen = scan.ExecutedAt
				}

				m, seen := a.byModel[result.Model]
				if !seen {
					m = &competitorModelAccum{}
					a.byModel[result.Model] = m
					a.modelOrder = append(a.modelOrder, result.Model)
				}
				m.mentions++
				m.positions = append(m.positions, mention.Position)

				for _, kw := range mention.Keywords {
					if _, known := a.keywordCounts[kw]; !known {
						a.keywordOrder = append(a.keywordOrder, kw)
					}
					a.keywordCounts[kw]++
				}

				// Scans arrive in no particular order, so the most recent
				// sighting's keyword list is tracked by timestamp.
				if !scan.ExecutedAt.Before(a.latestKeywordsAt) {
					a.latestKeywords = mention.Keywords
					a.latestKeywordsAt = scan.ExecutedAt
				}

				if !scan.ExecutedAt.Before(currentStart) {
					a.curMentions++
					a.curPositions = append(a.curPositions, mention.Position)
				} else if !scan.ExecutedAt.Before(previousStart) {
					a.prevMentions++
					a.prevPositions = append(a.prevPositions, mention.Position)
				}
			}
		}
	}

	totalMentions := 0
	for _, a := range accums {
		totalMentions += a.mentions
	}

	competitors := make([]models.EnrichedCompetitor, 0, len(order))
	for _, name := range order {
		a := accums[name]

		byModel := make(map[string]models.CompetitorModelStats, len(a.modelOrder))
		for _, model := range a.modelOrder {
			m := a.byModel[model]
			byModel[model] = models.CompetitorModelStats{
				Mentions:        m.mentions,
				AveragePosition: averagePosition(m.positions),
			}
		}

		ec := models.EnrichedCompetitor{
			Name:             a.name,
			Mentions:         a.mentions,
			AveragePosition:  averagePosition(a.positions),
			ByModel:          byModel,
			FirstSeenAt:      a.firstSeen,
			LastSeenAt:       a.lastSeen,
			Keywords:         a.topKeywords(),
			LatestKeywords:   a.latestKeywords,
			Trend:            a.trend(currentStart),
			TrendPercent:     a.trendPercent(),
			CurrentMentions:  a.curMentions,
			PreviousMentions: a.prevMentions,
		}
		if totalMentions > 0 {
			ec.ShareOfVoice = round1(float64(a.mentions) / float64(totalMentions) * 100)
		}

		competitors = append(competitors, ec)
	}

	sort.SliceStable(competitors, func(i, j int) bool {
		return competitors[i].Mentions > competitors[j].Mentions
	})

	if limit > 0 && len(competitors) > limit {
		competitors = competitors[:limit]
	}

	return competitors
}

// trend classifies the competitor's position movement between the two
// periods. A competitor first seen inside the current period has no history
// to compare and is "new"; missing signal on either side is "stable".
func (a *competitorAccum) trend(currentStart time.Time) string {
	if !a.firstSeen.Before(currentStart) {
		return models.CompetitorTrendNew
	}

	current := rawAverage(a.curPositions)
	previous := rawAverage(a.prevPositions)
	if current == nil || previous == nil {
		return models.CompetitorTrendStable
	}

	return ClassifyPositionDelta(*current - *previous)
}

// trendPercent is the mention growth between the two periods. Growth from
// zero is clamped to a flat 100 rather than reported as infinite.
func (a *competitorAccum) trendPercent() *int {
	if a.prevMentions == 0 {
		if a.curMentions == 0 {
			return nil
		}
		pct := 100
		return &pct
	}

	pct := int(math.Round(float64(a.curMentions-a.prevMentions) / float64(a.prevMentions) * 100))
	return &pct
}

// topKeywords returns the competitor's most frequent keywords, ties broken
// by first-encounter order.
func (a *competitorAccum) topKeywords() []string {
	if len(a.keywordOrder) == 0 {
		return nil
	}

	keywords := make([]string, len(a.keywordOrder))
	copy(keywords, a.keywordOrder)
	sort.SliceStable(keywords, func(i, j int) bool {
		return a.keywordCounts[keywords[i]] > a.keywordCounts[keywords[j]]
	})

	if len(keywords) > topKeywordCount {
		keywords = keywords[:topKeywordCount]
	}
	return keywords
}

// averagePosition reduces mention positions to a one-decimal average, nil
// when no positions were recorded.
func averagePosition(positions []int) *float64 {
	avg := rawAverage(positions)
	if avg == nil {
		return nil
	}
	rounded := round1(*avg)
	return &rounded
}

func rawAverage(positions []int) *float64 {
	if len(positions) == 0 {
		return nil
	}
	sum := 0
	for _, p := range positions {
		sum += p
	}
	avg := float64(sum) / float64(len(positions))
	return &avg
}
