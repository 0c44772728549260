package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func cited(position int) models.ModelResult {
	return models.ModelResult{Provider: "openai", Model: "gpt-4o", IsCited: true, Position: &position}
}

func uncited() models.ModelResult {
	return models.ModelResult{Provider: "openai", Model: "gpt-4o"}
}

// citedNoPosition builds a malformed stored result: a claimed citation
// without a position.
func citedNoPosition() models.ModelResult {
	return models.ModelResult{Provider: "openai", Model: "gpt-4o", IsCited: true}
}

func TestCitationRate(t *testing.T) {
	tests := []struct {
		name    string
		results []models.ModelResult
		want    float64
	}{
		{"empty", nil, 0},
		{"all cited", []models.ModelResult{cited(1), cited(2), cited(3)}, 100},
		{"none cited", []models.ModelResult{uncited(), uncited()}, 0},
		{"one of two", []models.ModelResult{cited(1), uncited()}, 50},
		{"one of three rounds to one decimal", []models.ModelResult{cited(1), uncited(), uncited()}, 33.3},
		{"two of three rounds half up", []models.ModelResult{cited(1), cited(2), uncited()}, 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CitationRate(tt.results))
		})
	}
}

func TestAverageRank(t *testing.T) {
	t.Run("nil on empty input", func(t *testing.T) {
		assert.Nil(t, AverageRank(nil, DefaultUncitedRank))
	})

	t.Run("nil when nothing is cited", func(t *testing.T) {
		assert.Nil(t, AverageRank([]models.ModelResult{uncited(), uncited()}, DefaultUncitedRank))
	})

	t.Run("nil when citations carry no position", func(t *testing.T) {
		assert.Nil(t, AverageRank([]models.ModelResult{citedNoPosition(), uncited()}, DefaultUncitedRank))
	})

	t.Run("single cited result", func(t *testing.T) {
		rank := AverageRank([]models.ModelResult{cited(3)}, DefaultUncitedRank)
		require.NotNil(t, rank)
		assert.Equal(t, 3.0, *rank)
	})

	t.Run("uncited results count as the default rank", func(t *testing.T) {
		// (1 + 7) / 2
		rank := AverageRank([]models.ModelResult{cited(1), uncited()}, DefaultUncitedRank)
		require.NotNil(t, rank)
		assert.Equal(t, 4.0, *rank)
	})

	t.Run("malformed citation counts as the default rank", func(t *testing.T) {
		// (2 + 7) / 2
		rank := AverageRank([]models.ModelResult{cited(2), citedNoPosition()}, DefaultUncitedRank)
		require.NotNil(t, rank)
		assert.Equal(t, 4.5, *rank)
	})

	t.Run("rounds once at the end", func(t *testing.T) {
		// (1 + 2 + 7) / 3 = 3.333...
		rank := AverageRank([]models.ModelResult{cited(1), cited(2), uncited()}, DefaultUncitedRank)
		require.NotNil(t, rank)
		assert.Equal(t, 3.3, *rank)
	})

	t.Run("improves as uncited results become well-ranked citations", func(t *testing.T) {
		results := []models.ModelResult{cited(4), uncited(), uncited()}
		previous := AverageRank(results, DefaultUncitedRank)
		require.NotNil(t, previous)

		for i := 1; i < len(results); i++ {
			results[i] = cited(1)
			current := AverageRank(results, DefaultUncitedRank)
			require.NotNil(t, current)
			assert.LessOrEqual(t, *current, *previous)
			previous = current
		}
	})
}

func TestFlattenResults(t *testing.T) {
	scans := []models.ScanRecord{
		{Results: []models.ModelResult{cited(1), uncited()}},
		{Results: nil},
		{Results: []models.ModelResult{cited(2)}},
	}

	assert.Len(t, FlattenResults(scans), 3)
	assert.Empty(t, FlattenResults(nil))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, round1(33.3333))
	assert.Equal(t, 66.7, round1(66.6666))
	// Half rounds away from zero.
	assert.Equal(t, 2.5, round1(2.45))
	assert.Equal(t, -2.5, round1(-2.45))
}
