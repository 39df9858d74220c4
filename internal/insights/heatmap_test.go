package insights

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), "2024-03-09"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2024-12-31"},
		{time.Date(999, 1, 2, 12, 0, 0, 0, time.UTC), "0999-01-02"},
	}

	for _, tt := range tests {
		if got := DateKey(tt.in); got != tt.want {
			t.Errorf("DateKey(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name     string
		miles    float64
		maxMiles float64
		want     int
	}{
		{"rest day", 0, 10, 0},
		{"negative miles", -1, 10, 0},
		{"no max", 5, 0, 0},
		{"tiny fraction still shows", 0.01, 10, 1},
		{"first quartile boundary", 2.5, 10, 1},
		{"second quartile", 2.51, 10, 2},
		{"third quartile", 7.5, 10, 3},
		{"max day", 10, 10, 4},
		{"above max clamps", 15, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Level(tt.miles, tt.maxMiles); got != tt.want {
				t.Errorf("Level(%v, %v) = %d, want %d", tt.miles, tt.maxMiles, got, tt.want)
			}
		})
	}
}

func TestLevelMonotonic(t *testing.T) {
	maxMiles := 12.0
	prev := 0
	for miles := 0.0; miles <= maxMiles; miles += 0.1 {
		level := Level(miles, maxMiles)
		if level < prev {
			t.Fatalf("Level(%v, %v) = %d decreased below %d", miles, maxMiles, level, prev)
		}
		prev = level
	}
}

func TestBuildHeatmapViewGridShape(t *testing.T) {
	// Wednesday
	today := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

	view := BuildHeatmapView(nil, today, 52)

	if len(view.Weeks) != 53 {
		t.Fatalf("len(Weeks) = %d, want 53 (52 whole weeks plus the partial edges)", len(view.Weeks))
	}
	for i, week := range view.Weeks {
		if week.Start.Weekday() != time.Sunday {
			t.Errorf("Weeks[%d] starts on %v, want Sunday", i, week.Start.Weekday())
		}
		if len(week.Cells) != 7 {
			t.Errorf("Weeks[%d] has %d cells, want 7", i, len(week.Cells))
		}
	}

	last := view.Weeks[len(view.Weeks)-1]
	if lastCell := last.Cells[6]; lastCell.Date.Weekday() != time.Saturday {
		t.Errorf("grid ends on %v, want Saturday", lastCell.Date.Weekday())
	}
	if !view.Today.Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Today = %v, want start of 2024-03-06", view.Today)
	}
}

func TestBuildHeatmapViewFillsMissingDays(t *testing.T) {
	today := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	days := []HeatmapDay{
		{Date: "2024-03-04", Miles: 4, ActivityCount: 1},
	}

	view := BuildHeatmapView(days, today, 2)

	found := false
	zeroed := 0
	for _, week := range view.Weeks {
		for _, cell := range week.Cells {
			if DateKey(cell.Date) == "2024-03-04" {
				found = true
				if cell.Miles != 4 || cell.ActivityCount != 1 {
					t.Errorf("cell = %+v, want miles 4 count 1", cell)
				}
			} else if cell.Miles == 0 {
				zeroed++
			}
		}
	}
	if !found {
		t.Fatal("2024-03-04 not present in grid")
	}
	if zeroed == 0 {
		t.Error("expected zero-filled cells for days without data")
	}
	if view.MaxMiles != 4 {
		t.Errorf("MaxMiles = %v, want 4", view.MaxMiles)
	}
	if view.TotalMiles != 4 {
		t.Errorf("TotalMiles = %v, want 4", view.TotalMiles)
	}
}

func TestBuildHeatmapViewDeterministic(t *testing.T) {
	today := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	days := []HeatmapDay{
		{Date: "2024-03-01", Miles: 2, ActivityCount: 1},
		{Date: "2024-03-04", Miles: 4, ActivityCount: 2},
	}

	first := BuildHeatmapView(days, today, 4)
	second := BuildHeatmapView(days, today, 4)

	if len(first.Weeks) != len(second.Weeks) {
		t.Fatal("repeated builds produced different week counts")
	}
	for i := range first.Weeks {
		for j := range first.Weeks[i].Cells {
			if first.Weeks[i].Cells[j] != second.Weeks[i].Cells[j] {
				t.Fatalf("cell (%d,%d) differs between builds", i, j)
			}
		}
	}
}

func TestBuildMonthLabels(t *testing.T) {
	// 16 weeks ending mid-April spans Jan through Apr
	today := time.Date(2024, 4, 17, 12, 0, 0, 0, time.UTC)
	view := BuildHeatmapView(nil, today, 16)

	labels := BuildMonthLabels(view.Weeks)

	if len(labels) == 0 {
		t.Fatal("no month labels")
	}
	if labels[0].WeekIndex != 0 {
		t.Errorf("first label at week %d, want 0", labels[0].WeekIndex)
	}
	for i := 1; i < len(labels); i++ {
		gap := labels[i].WeekIndex - labels[i-1].WeekIndex
		if gap < minLabelWeekGap {
			t.Errorf("labels %q and %q only %d weeks apart, want >= %d",
				labels[i-1].Label, labels[i].Label, gap, minLabelWeekGap)
		}
	}
}

func TestStartEndOfWeek(t *testing.T) {
	wednesday := time.Date(2024, 3, 6, 13, 0, 0, 0, time.UTC)

	start := startOfWeek(wednesday)
	if DateKey(start) != "2024-03-03" {
		t.Errorf("startOfWeek = %s, want 2024-03-03", DateKey(start))
	}

	end := endOfWeek(wednesday)
	if DateKey(end) != "2024-03-09" {
		t.Errorf("endOfWeek = %s, want 2024-03-09", DateKey(end))
	}

	sunday := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	if !startOfWeek(sunday).Equal(sunday) {
		t.Error("startOfWeek of a Sunday should be itself")
	}
}
