package tui

import (
	"strings"
	"testing"
	"time"

	"stratiles/internal/insights"
)

func TestRenderSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	days := []insights.HeatmapDay{
		{Date: "2024-03-04", Miles: 4, ActivityCount: 1},
		{Date: "2024-03-05", Miles: 2, ActivityCount: 1},
	}

	out := RenderSnapshot(days, now, 4)

	if !strings.Contains(out, "6.00 mi in the last 4 weeks") {
		t.Errorf("output missing mileage summary:\n%s", out)
	}
	if !strings.Contains(out, "Mon") || !strings.Contains(out, "Fri") {
		t.Errorf("output missing weekday labels:\n%s", out)
	}
	// Peak day renders the darkest glyph
	if !strings.Contains(out, snapshotGlyphs[4]) {
		t.Errorf("output missing peak-intensity glyph:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("snapshot output contains ANSI escapes")
	}
}

func TestRenderSnapshotDeterministic(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	days := []insights.HeatmapDay{
		{Date: "2024-03-01", Miles: 3, ActivityCount: 1},
	}

	if RenderSnapshot(days, now, 8) != RenderSnapshot(days, now, 8) {
		t.Error("repeated renders differ")
	}
}

func TestRenderSnapshotEmpty(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	out := RenderSnapshot(nil, now, 4)

	if !strings.Contains(out, "0.00 mi") {
		t.Errorf("empty snapshot should show zero miles:\n%s", out)
	}
}
