package analytics

import (
	"time"

	"github.com/AI2HU/geolens/internal/models"
)

// ClampWindow bounds a requested [start, end] window by the plan's maximum
// lookback. The end is always clamped to now; the start is pulled forward
// to now-maxDays when maxDays is non-nil (nil means unlimited lookback).
// IsLimited reports whether the plan limit cut off requested history, so
// callers can tell the user that older data is withheld rather than absent.
func ClampWindow(requestedStart, requestedEnd time.Time, maxDays *int, now time.Time) models.RetentionWindow {
	window := models.RetentionWindow{
		RequestedStart: requestedStart,
		RequestedEnd:   requestedEnd,
		EffectiveStart: requestedStart,
		EffectiveEnd:   requestedEnd,
		MaxDays:        maxDays,
	}

	if requestedEnd.After(now) {
		window.EffectiveEnd = now
	}

	if maxDays != nil {
		earliest := now.AddDate(0, 0, -*maxDays)
		if requestedStart.Before(earliest) {
			window.EffectiveStart = earliest
			window.IsLimited = true
		}
	}

	return window
}
