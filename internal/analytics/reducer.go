package analytics

import (
	"math"

	"github.com/AI2HU/geolens/internal/models"
)

// DefaultUncitedRank is the rank substituted for results where the brand was
// not cited. It penalizes a miss as if ranked just below the typical top-5
// cited window, so average rank reflects overall competitiveness rather than
// only successful citations.
const DefaultUncitedRank = 7

// CitationRate returns the percentage of results where the brand was cited,
// rounded to one decimal. An empty result set yields 0, never an error.
func CitationRate(results []models.ModelResult) float64 {
	if len(results) == 0 {
		return 0
	}

	cited := 0
	for _, r := range results {
		if r.IsCited {
			cited++
		}
	}

	return round1(float64(cited) / float64(len(results)) * 100)
}

// AverageRank returns the average brand position across results, rounded to
// one decimal. Results that are not cited, or that claim a citation without
// a position, count as defaultRank. Returns nil when no result carries a
// valid citation position, meaning there is no rank signal at all.
func AverageRank(results []models.ModelResult, defaultRank int) *float64 {
	sum := 0
	signal := false

	for _, r := range results {
		if r.IsCited && r.Position != nil {
			sum += *r.Position
			signal = true
		} else {
			sum += defaultRank
		}
	}

	if !signal {
		return nil
	}

	avg := round1(float64(sum) / float64(len(results)))
	return &avg
}

// FlattenResults collects every per-model result across the given scans.
func FlattenResults(scans []models.ScanRecord) []models.ModelResult {
	var results []models.ModelResult
	for _, scan := range scans {
		results = append(results, scan.Results...)
	}
	return results
}

// round1 rounds to one decimal place, half away from zero. Applied once at
// final outputs, never on intermediate sums.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
