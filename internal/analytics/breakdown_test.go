package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func resultFor(provider, model string, position int) models.ModelResult {
	return models.ModelResult{Provider: provider, Model: model, IsCited: true, Position: &position}
}

func TestProviderBreakdowns(t *testing.T) {
	providers := []string{"openai", "anthropic"}

	t.Run("every enumerated provider appears even without results", func(t *testing.T) {
		breakdowns := ProviderBreakdowns(nil, providers)

		require.Len(t, breakdowns, 2)
		for _, b := range breakdowns {
			assert.Equal(t, 0.0, b.CitationRate)
			assert.Nil(t, b.AverageRank)
			assert.Zero(t, b.TotalScans)
		}
	})

	t.Run("partitions results by provider", func(t *testing.T) {
		results := []models.ModelResult{
			resultFor("openai", "gpt-4o", 1),
			{Provider: "openai", Model: "gpt-4o"},
			resultFor("anthropic", "claude-sonnet", 2),
		}

		breakdowns := ProviderBreakdowns(results, providers)

		require.Len(t, breakdowns, 2)
		assert.Equal(t, "openai", breakdowns[0].Provider)
		assert.Equal(t, 50.0, breakdowns[0].CitationRate)
		assert.Equal(t, 2, breakdowns[0].TotalScans)

		assert.Equal(t, "anthropic", breakdowns[1].Provider)
		assert.Equal(t, 100.0, breakdowns[1].CitationRate)
		require.NotNil(t, breakdowns[1].AverageRank)
		assert.Equal(t, 2.0, *breakdowns[1].AverageRank)
	})

	t.Run("providers outside the set are ignored", func(t *testing.T) {
		results := []models.ModelResult{resultFor("ollama", "llama3", 1)}

		breakdowns := ProviderBreakdowns(results, providers)
		for _, b := range breakdowns {
			assert.Zero(t, b.TotalScans)
		}
	})
}

func TestModelBreakdowns(t *testing.T) {
	t.Run("only observed models appear, in first-observed order", func(t *testing.T) {
		results := []models.ModelResult{
			resultFor("openai", "gpt-4o", 1),
			resultFor("anthropic", "claude-sonnet", 3),
			{Provider: "openai", Model: "gpt-4o"},
		}

		breakdowns := ModelBreakdowns(results)

		require.Len(t, breakdowns, 2)
		assert.Equal(t, "gpt-4o", breakdowns[0].Model)
		assert.Equal(t, 2, breakdowns[0].TotalScans)
		assert.Equal(t, "claude-sonnet", breakdowns[1].Model)
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		assert.Empty(t, ModelBreakdowns(nil))
	})
}
