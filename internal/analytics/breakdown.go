package analytics

import (
	"github.com/AI2HU/geolens/internal/models"
)

// ProviderBreakdowns partitions results by provider and reduces each
// partition. Every provider in the given set appears in the output, with
// zero scans reported as rate 0 and a nil rank. Results from providers
// outside the set are ignored here; they still count in global metrics.
func ProviderBreakdowns(results []models.ModelResult, providers []string) []models.ProviderBreakdown {
	byProvider := make(map[string][]models.ModelResult)
	for _, r := range results {
		byProvider[r.Provider] = append(byProvider[r.Provider], r)
	}

	breakdowns := make([]models.ProviderBreakdown, 0, len(providers))
	for _, provider := range providers {
		partition := byProvider[provider]
		breakdowns = append(breakdowns, models.ProviderBreakdown{
			Provider:     provider,
			CitationRate: CitationRate(partition),
			AverageRank:  AverageRank(partition, DefaultUncitedRank),
			TotalScans:   len(partition),
		})
	}

	return breakdowns
}

// ModelBreakdowns partitions results by model identifier and reduces each
// partition. Only models observed at least once are emitted, in
// first-observed order; there are no synthetic zero rows.
func ModelBreakdowns(results []models.ModelResult) []models.ModelBreakdown {
	byModel := make(map[string][]models.ModelResult)
	var order []string

	for _, r := range results {
		if _, seen := byModel[r.Model]; !seen {
			order = append(order, r.Model)
		}
		byModel[r.Model] = append(byModel[r.Model], r)
	}

	breakdowns := make([]models.ModelBreakdown, 0, len(order))
	for _, model := range order {
		partition := byModel[model]
		breakdowns = append(breakdowns, models.ModelBreakdown{
			Model:        model,
			CitationRate: CitationRate(partition),
			AverageRank:  AverageRank(partition, DefaultUncitedRank),
			TotalScans:   len(partition),
		})
	}

	return breakdowns
}
