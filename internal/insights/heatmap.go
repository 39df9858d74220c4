package insights

import (
	"fmt"
	"math"
	"time"
)

// minLabelWeekGap is the minimum number of week columns between month
// labels, preventing crowding when a month spans few columns.
const minLabelWeekGap = 3

// DateKey formats a time as its YYYY-MM-DD calendar date
func DateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// Level maps a day's miles to a 0-4 intensity bucket relative to the
// grid's maximum day. 0 means no activity; 1-4 are increasing quartiles.
// The app and the snapshot renderer must agree on these boundaries.
func Level(miles, maxMiles float64) int {
	if miles <= 0 || maxMiles <= 0 {
		return 0
	}
	level := int(math.Ceil(miles / maxMiles * 4))
	if level < 1 {
		return 1
	}
	if level > 4 {
		return 4
	}
	return level
}

// BuildHeatmapView projects per-day aggregates onto a Sunday-aligned
// calendar grid of whole weeks covering the trailing weeksToShow weeks.
// Days absent from the input materialize as zero cells, never gaps.
// today is an explicit parameter so identical inputs always produce an
// identical grid.
func BuildHeatmapView(days []HeatmapDay, today time.Time, weeksToShow int) HeatmapView {
	today = startOfDay(today)

	byDate := make(map[string]HeatmapDay, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	windowStart := addDays(today, -(weeksToShow*7 - 1))
	gridStart := startOfWeek(windowStart)
	gridEnd := endOfWeek(today)

	var weeks []HeatmapWeek
	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = addDays(weekStart, 7) {
		cells := make([]HeatmapCell, 7)
		for i := 0; i < 7; i++ {
			date := addDays(weekStart, i)
			day := byDate[DateKey(date)]
			cells[i] = HeatmapCell{Date: date, Miles: day.Miles, ActivityCount: day.ActivityCount}
		}
		weeks = append(weeks, HeatmapWeek{Start: weekStart, Cells: cells})
	}

	var maxMiles, totalMiles float64
	for _, week := range weeks {
		for _, cell := range week.Cells {
			if cell.Miles > maxMiles {
				maxMiles = cell.Miles
			}
			totalMiles += cell.Miles
		}
	}

	return HeatmapView{Weeks: weeks, MaxMiles: maxMiles, TotalMiles: totalMiles, Today: today}
}

// BuildMonthLabels places month labels over the week columns: one at
// week zero and one at each month change, as long as at least
// minLabelWeekGap weeks have passed since the previous label.
func BuildMonthLabels(weeks []HeatmapWeek) []MonthLabel {
	var labels []MonthLabel
	previousMonth := time.Month(0)
	previousIndex := -minLabelWeekGap

	for i, week := range weeks {
		month := week.Start.Month()
		monthChange := i == 0 || month != previousMonth
		enoughGap := i == 0 || i-previousIndex >= minLabelWeekGap

		if monthChange && enoughGap {
			labels = append(labels, MonthLabel{Label: week.Start.Format("Jan"), WeekIndex: i})
			previousIndex = i
		}
		previousMonth = month
	}

	return labels
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, days int) time.Time {
	return startOfDay(t.AddDate(0, 0, days))
}

// startOfWeek snaps backward to the most recent Sunday
func startOfWeek(t time.Time) time.Time {
	return addDays(t, -int(t.Weekday()))
}

// endOfWeek snaps forward to the upcoming Saturday
func endOfWeek(t time.Time) time.Time {
	return addDays(t, 6-int(t.Weekday()))
}
