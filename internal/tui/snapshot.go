package tui

import (
	"fmt"
	"strings"
	"time"

	"stratiles/internal/insights"
)

// snapshotGlyphs are plain shade characters, one per intensity level, so
// the snapshot stays readable when piped or captured without a terminal.
var snapshotGlyphs = [5]string{"·", "░", "▒", "▓", "█"}

// RenderSnapshot draws a one-shot plain-text heatmap from per-day
// aggregates, for non-interactive use. No ANSI styling.
func RenderSnapshot(days []insights.HeatmapDay, now time.Time, weeksToShow int) string {
	view := insights.BuildHeatmapView(days, now, weeksToShow)

	var b strings.Builder

	b.WriteString("    " + snapshotMonthRow(view.Weeks) + "\n")

	weekdayLabels := [7]string{"   ", "Mon", "   ", "Wed", "   ", "Fri", "   "}
	for row := 0; row < 7; row++ {
		b.WriteString(weekdayLabels[row] + " ")
		for _, week := range view.Weeks {
			cell := week.Cells[row]
			if cell.Date.After(view.Today) {
				b.WriteString("  ")
				continue
			}
			level := insights.Level(cell.Miles, view.MaxMiles)
			b.WriteString(snapshotGlyphs[level] + " ")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n    %.2f mi in the last %d weeks\n", view.TotalMiles, weeksToShow))

	return b.String()
}

func snapshotMonthRow(weeks []insights.HeatmapWeek) string {
	labels := insights.BuildMonthLabels(weeks)

	row := make([]rune, len(weeks)*2)
	for i := range row {
		row[i] = ' '
	}
	for _, label := range labels {
		pos := label.WeekIndex * 2
		for i, r := range label.Label {
			if pos+i < len(row) {
				row[pos+i] = r
			}
		}
	}
	return strings.TrimRight(string(row), " ")
}
