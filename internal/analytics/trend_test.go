package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
)

func TestRankTrend(t *testing.T) {
	t.Run("delta is current minus previous", func(t *testing.T) {
		// previous avg 3.0, current avg 1.0
		trend := RankTrend(
			[]models.ModelResult{cited(1)},
			[]models.ModelResult{cited(3)},
		)
		require.NotNil(t, trend.Current)
		require.NotNil(t, trend.Previous)
		assert.Equal(t, 1.0, *trend.Current)
		assert.Equal(t, 3.0, *trend.Previous)
		assert.Equal(t, -2.0, trend.Delta)
		assert.Equal(t, models.TrendImproving, ClassifyRankDelta(trend.Delta))
	})

	t.Run("delta is zero when current period has no signal", func(t *testing.T) {
		trend := RankTrend(
			[]models.ModelResult{uncited()},
			[]models.ModelResult{cited(3)},
		)
		assert.Nil(t, trend.Current)
		assert.Equal(t, 0.0, trend.Delta)
	})

	t.Run("delta is zero when previous period has no signal", func(t *testing.T) {
		trend := RankTrend(
			[]models.ModelResult{cited(2)},
			nil,
		)
		assert.Nil(t, trend.Previous)
		assert.Equal(t, 0.0, trend.Delta)
	})

	t.Run("summary carries the classified direction", func(t *testing.T) {
		summary := RankTrend(
			[]models.ModelResult{cited(1)},
			[]models.ModelResult{cited(3)},
		).Summarize()
		assert.Equal(t, models.TrendImproving, summary.Direction)
		assert.Equal(t, -2.0, summary.Delta)
	})
}

func TestClassifyRankDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  string
	}{
		{"well below threshold", -2.0, models.TrendImproving},
		{"just below threshold", -0.3, models.TrendImproving},
		{"at negative boundary", -0.2, models.TrendStable},
		{"zero", 0, models.TrendStable},
		{"at positive boundary", 0.2, models.TrendStable},
		{"just above threshold", 0.3, models.TrendDeclining},
		{"well above threshold", 1.5, models.TrendDeclining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRankDelta(tt.delta))
		})
	}
}

func TestClassifyPositionDelta(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  string
	}{
		{"moved up", -0.21, models.CompetitorTrendUp},
		{"at negative boundary", -0.2, models.CompetitorTrendStable},
		{"flat", 0, models.CompetitorTrendStable},
		{"at positive boundary", 0.2, models.CompetitorTrendStable},
		{"moved down", 0.21, models.CompetitorTrendDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPositionDelta(tt.delta))
		})
	}
}
