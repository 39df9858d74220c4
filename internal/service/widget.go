package service

import (
	"context"
	"time"

	"stratiles/internal/insights"
)

const (
	placeholderDays     = 150
	placeholderSeed     = 0xDEADBEEF
	placeholderRestRate = 0.35
	placeholderMaxMiles = 7.0
)

// LoadDaysForWidget loads heatmap days for the one-shot snapshot
// surface. It prefers a fresh cache, then a fetch, then a stale cache,
// and finally a deterministic placeholder pattern; it never fails,
// because a snapshot must always render something.
func (s *RefreshService) LoadDaysForWidget(ctx context.Context, selected []insights.ActivityType) []insights.HeatmapDay {
	types := insights.NormalizeSelection(selected)
	now := s.now()

	if payload := s.cache.Read(types); payload != nil && payload.IsFresh(CacheFreshness, now) {
		return payload.HeatmapDays
	}

	activities, err := s.fetch(ctx, types, now)
	if err == nil {
		ins := insights.Build(activities, now, s.opts)
		// Heatmap-only write: the snapshot path does not retain raw detail.
		_ = s.cache.Write(types, ins.HeatmapDays, nil)
		return ins.HeatmapDays
	}

	if payload := s.cache.Read(types); payload != nil {
		return payload.HeatmapDays
	}

	return PlaceholderDays(now)
}

// PlaceholderDays generates a natural-looking but fully deterministic
// activity pattern for previews: roughly a third rest days, the rest
// with varied mileage, seeded so repeated renders are identical.
func PlaceholderDays(now time.Time) []insights.HeatmapDay {
	seed := uint64(placeholderSeed)
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return float64((seed>>33)&0x7FFFFFFF) / float64(0x7FFFFFFF)
	}

	days := make([]insights.HeatmapDay, 0, placeholderDays)
	for offset := 0; offset < placeholderDays; offset++ {
		date := now.AddDate(0, 0, -offset)
		r := next()
		miles := 0.0
		if r >= placeholderRestRate {
			miles = r * placeholderMaxMiles
		}
		count := 0
		if miles > 0 {
			count = 1
		}
		days = append(days, insights.HeatmapDay{
			Date:           insights.DateKey(date),
			Miles:          miles,
			ActivityCount:  count,
			DistanceMeters: miles * 1609.344,
		})
	}
	return days
}
