package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampWindow(t *testing.T) {
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("start clamped to the plan lookback", func(t *testing.T) {
		maxDays := 30
		requestedStart := clock.AddDate(0, 0, -60)
		requestedEnd := clock.AddDate(0, 0, -1)

		window := ClampWindow(requestedStart, requestedEnd, &maxDays, clock)

		assert.Equal(t, requestedStart, window.RequestedStart)
		assert.Equal(t, clock.AddDate(0, 0, -30), window.EffectiveStart)
		assert.Equal(t, requestedEnd, window.EffectiveEnd)
		assert.True(t, window.IsLimited)
	})

	t.Run("no clamping with unlimited retention", func(t *testing.T) {
		requestedStart := clock.AddDate(-5, 0, 0)
		requestedEnd := clock.AddDate(0, 0, -1)

		window := ClampWindow(requestedStart, requestedEnd, nil, clock)

		assert.Equal(t, requestedStart, window.EffectiveStart)
		assert.False(t, window.IsLimited)
		assert.Nil(t, window.MaxDays)
	})

	t.Run("start inside the lookback stays untouched", func(t *testing.T) {
		maxDays := 30
		requestedStart := clock.AddDate(0, 0, -10)

		window := ClampWindow(requestedStart, clock, &maxDays, clock)

		assert.Equal(t, requestedStart, window.EffectiveStart)
		assert.False(t, window.IsLimited)
	})

	t.Run("end clamped to now", func(t *testing.T) {
		requestedEnd := clock.AddDate(0, 0, 7)

		window := ClampWindow(clock.AddDate(0, 0, -7), requestedEnd, nil, clock)

		assert.Equal(t, requestedEnd, window.RequestedEnd)
		assert.Equal(t, clock, window.EffectiveEnd)
		// An end in the future is routine, not a plan limitation.
		assert.False(t, window.IsLimited)
	})
}
