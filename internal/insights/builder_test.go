package insights

import (
	"math"
	"testing"
	"time"

	"stratiles/internal/strava"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func milesActivity(id int64, start time.Time, meters float64) strava.Activity {
	return strava.Activity{
		ID:             id,
		Name:           "Morning Run",
		Distance:       meters,
		MovingTime:     1800,
		Type:           "Run",
		SportType:      "Run",
		StartDate:      start,
		StartDateLocal: start,
	}
}

func TestBuildTotalsAndStreak(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

	activities := []strava.Activity{
		milesActivity(1, time.Date(2024, 3, 8, 7, 0, 0, 0, time.UTC), 1609.344),
		milesActivity(2, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 1609.344),
		milesActivity(3, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), 1609.344),
	}

	ins := Build(activities, windowEnd, DefaultOptions())

	if ins.TotalActivities != 3 {
		t.Errorf("TotalActivities = %d, want 3", ins.TotalActivities)
	}
	if ins.TotalMiles != 3.00 {
		t.Errorf("TotalMiles = %v, want 3.00", ins.TotalMiles)
	}
	if ins.CurrentStreakDays != 3 {
		t.Errorf("CurrentStreakDays = %d, want 3", ins.CurrentStreakDays)
	}
	if ins.LongestStreakDays != 3 {
		t.Errorf("LongestStreakDays = %d, want 3", ins.LongestStreakDays)
	}
	if len(ins.HeatmapDays) != 3 {
		t.Fatalf("len(HeatmapDays) = %d, want 3", len(ins.HeatmapDays))
	}
	if ins.HeatmapDays[0].Date != "2024-03-08" {
		t.Errorf("HeatmapDays[0].Date = %q, want 2024-03-08", ins.HeatmapDays[0].Date)
	}
	if ins.HeatmapDays[0].Miles != 1.00 {
		t.Errorf("HeatmapDays[0].Miles = %v, want 1.00", ins.HeatmapDays[0].Miles)
	}
	if ins.IsPartial {
		t.Error("IsPartial = true, want false")
	}
}

func TestBuildEmptyInput(t *testing.T) {
	ins := Build(nil, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DefaultOptions())

	if ins.TotalActivities != 0 {
		t.Errorf("TotalActivities = %d, want 0", ins.TotalActivities)
	}
	if ins.TotalMiles != 0 {
		t.Errorf("TotalMiles = %v, want 0", ins.TotalMiles)
	}
	if ins.CurrentStreakDays != 0 || ins.LongestStreakDays != 0 {
		t.Errorf("streaks = %d/%d, want 0/0", ins.CurrentStreakDays, ins.LongestStreakDays)
	}
	if len(ins.HeatmapDays) != 0 {
		t.Errorf("len(HeatmapDays) = %d, want 0", len(ins.HeatmapDays))
	}
	// Grid still covers the full window even with no data
	if len(ins.HeatmapView.Weeks) == 0 {
		t.Error("HeatmapView.Weeks is empty, want full grid")
	}
}

func TestBuildIgnoresActivitiesOutsideWindow(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	opts := DefaultOptions()
	opts.WindowDays = 30

	activities := []strava.Activity{
		milesActivity(1, time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), 1609.344),
		milesActivity(2, time.Date(2023, 12, 1, 7, 0, 0, 0, time.UTC), 1609.344), // too old
		milesActivity(3, time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC), 1609.344), // future
	}

	ins := Build(activities, windowEnd, opts)

	if ins.TotalActivities != 1 {
		t.Errorf("TotalActivities = %d, want 1", ins.TotalActivities)
	}
}

func TestBuildShortActivityExcludedFromPace(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	short := milesActivity(1, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 400)
	ins := Build([]strava.Activity{short}, windowEnd, DefaultOptions())

	if len(ins.PacePoints) != 0 {
		t.Errorf("len(PacePoints) = %d, want 0 for a 400m activity", len(ins.PacePoints))
	}
	// The day still aggregates
	if len(ins.HeatmapDays) != 1 {
		t.Fatalf("len(HeatmapDays) = %d, want 1", len(ins.HeatmapDays))
	}
	if ins.HeatmapDays[0].Miles != 0.25 {
		t.Errorf("HeatmapDays[0].Miles = %v, want 0.25", ins.HeatmapDays[0].Miles)
	}
}

func TestBuildPacePoints(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	a := milesActivity(1, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 1609.344)
	a.MovingTime = 480 // 8:00/mi
	ins := Build([]strava.Activity{a}, windowEnd, DefaultOptions())

	if len(ins.PacePoints) != 1 {
		t.Fatalf("len(PacePoints) = %d, want 1", len(ins.PacePoints))
	}
	if got := ins.PacePoints[0].PaceSecondsPerMile; math.Abs(got-480) > 0.01 {
		t.Errorf("PaceSecondsPerMile = %v, want 480", got)
	}
}

func TestBuildTrainingRhythm(t *testing.T) {
	// windowEnd in a -08:00 zone: the rhythm cell must come from the
	// recorded wall clock, not from the zone the build runs in
	pst := time.FixedZone("PST", -8*3600)
	windowEnd := time.Date(2024, 1, 10, 12, 0, 0, 0, pst)

	// 2024-01-01 is a Monday; 03:00 wall clock
	a := milesActivity(1, time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC), 5000)
	ins := Build([]strava.Activity{a}, windowEnd, DefaultOptions())

	if len(ins.TrainingRhythm) != 1 {
		t.Fatalf("len(TrainingRhythm) = %d, want 1", len(ins.TrainingRhythm))
	}
	cell := ins.TrainingRhythm[0]
	if cell.Weekday != 2 {
		t.Errorf("Weekday = %d, want 2 (Monday)", cell.Weekday)
	}
	if cell.Hour != 3 {
		t.Errorf("Hour = %d, want 3", cell.Hour)
	}
	if cell.ActivityCount != 1 {
		t.Errorf("ActivityCount = %d, want 1", cell.ActivityCount)
	}
	if ins.MaxRhythmCount != 1 {
		t.Errorf("MaxRhythmCount = %d, want 1", ins.MaxRhythmCount)
	}
}

func TestBuildTypeBreakdown(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	run := milesActivity(1, time.Date(2024, 3, 8, 7, 0, 0, 0, time.UTC), 5000)
	ride := milesActivity(2, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 20000)
	ride.Type = "Ride"
	ride.SportType = "Ride"
	run2 := milesActivity(3, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), 5000)

	ins := Build([]strava.Activity{run, ride, run2}, windowEnd, DefaultOptions())

	if len(ins.TypeBreakdown) != 2 {
		t.Fatalf("len(TypeBreakdown) = %d, want 2", len(ins.TypeBreakdown))
	}
	if ins.TypeBreakdown[0].Type != Run || ins.TypeBreakdown[0].ActivityCount != 2 {
		t.Errorf("TypeBreakdown[0] = %v x%d, want Run x2",
			ins.TypeBreakdown[0].Type, ins.TypeBreakdown[0].ActivityCount)
	}
	if got := ins.TypeBreakdown[0].Share; math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("TypeBreakdown[0].Share = %v, want 2/3", got)
	}
}

func TestBuildPeakDaysOrdering(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	activities := []strava.Activity{
		milesActivity(1, time.Date(2024, 3, 8, 7, 0, 0, 0, time.UTC), 16093.44), // 10 mi
		milesActivity(2, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 3218.688), // 2 mi
		milesActivity(3, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), 8046.72), // 5 mi
	}

	ins := Build(activities, windowEnd, DefaultOptions())

	if len(ins.PeakDays) != 3 {
		t.Fatalf("len(PeakDays) = %d, want 3", len(ins.PeakDays))
	}
	wantOrder := []string{"2024-03-08", "2024-03-10", "2024-03-09"}
	for i, want := range wantOrder {
		if ins.PeakDays[i].DateKey != want {
			t.Errorf("PeakDays[%d].DateKey = %q, want %q", i, ins.PeakDays[i].DateKey, want)
		}
	}
}

func TestBuildPeakActivitiesStableOnTies(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	first := milesActivity(1, time.Date(2024, 3, 8, 7, 0, 0, 0, time.UTC), 10000)
	first.Name = "First"
	second := milesActivity(2, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 10000)
	second.Name = "Second"

	ins := Build([]strava.Activity{first, second}, windowEnd, DefaultOptions())

	if len(ins.PeakActivities) != 2 {
		t.Fatalf("len(PeakActivities) = %d, want 2", len(ins.PeakActivities))
	}
	if ins.PeakActivities[0].Name != "First" {
		t.Errorf("PeakActivities[0].Name = %q, want %q (input order on ties)",
			ins.PeakActivities[0].Name, "First")
	}
}

func TestBuildEffortData(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	score1, score2 := 40, 60
	a := milesActivity(1, time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC), 5000) // Monday
	a.SufferScore = &score1
	b := milesActivity(2, time.Date(2024, 3, 6, 7, 0, 0, 0, time.UTC), 5000) // Wednesday, same week
	b.SufferScore = &score2
	c := milesActivity(3, time.Date(2024, 3, 7, 7, 0, 0, 0, time.UTC), 5000) // no score

	ins := Build([]strava.Activity{a, b, c}, windowEnd, DefaultOptions())

	if len(ins.EffortPoints) != 2 {
		t.Fatalf("len(EffortPoints) = %d, want 2", len(ins.EffortPoints))
	}
	if len(ins.WeeklyEffort) != 1 {
		t.Fatalf("len(WeeklyEffort) = %d, want 1", len(ins.WeeklyEffort))
	}
	week := ins.WeeklyEffort[0]
	if week.TotalSufferScore != 100 {
		t.Errorf("TotalSufferScore = %d, want 100", week.TotalSufferScore)
	}
	if week.ActivityCount != 2 {
		t.Errorf("ActivityCount = %d, want 2", week.ActivityCount)
	}
	if week.WeekStart.Weekday() != time.Sunday {
		t.Errorf("WeekStart weekday = %v, want Sunday", week.WeekStart.Weekday())
	}
}

func TestBuildWeeklyVolumes(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// Two activities same day, one the next day; all in the week of Mar 3
	activities := []strava.Activity{
		milesActivity(1, time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC), 1609.344),
		milesActivity(2, time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC), 1609.344),
		milesActivity(3, time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC), 1609.344),
	}

	ins := Build(activities, windowEnd, DefaultOptions())

	if len(ins.WeeklyVolumes) != 1 {
		t.Fatalf("len(WeeklyVolumes) = %d, want 1", len(ins.WeeklyVolumes))
	}
	week := ins.WeeklyVolumes[0]
	if week.Miles != 3.00 {
		t.Errorf("Miles = %v, want 3.00", week.Miles)
	}
	if week.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", week.ActiveDays)
	}
	if week.ActivityCount != 3 {
		t.Errorf("ActivityCount = %d, want 3", week.ActivityCount)
	}
}

func TestBuildIdempotent(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	activities := []strava.Activity{
		milesActivity(1, time.Date(2024, 3, 8, 7, 0, 0, 0, time.UTC), 1609.344),
		milesActivity(2, time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC), 3218.688),
	}

	first := Build(activities, windowEnd, DefaultOptions())
	second := Build(activities, windowEnd, DefaultOptions())

	if first.TotalMiles != second.TotalMiles || first.TotalActivities != second.TotalActivities {
		t.Error("repeated builds over the same input differ")
	}
	if len(first.HeatmapDays) != len(second.HeatmapDays) {
		t.Fatal("repeated builds produced different heatmap days")
	}
	for i := range first.HeatmapDays {
		if first.HeatmapDays[i] != second.HeatmapDays[i] {
			t.Errorf("HeatmapDays[%d] differs between builds", i)
		}
	}
}

func TestBuildPartialZeroesDetailFields(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	days := []HeatmapDay{
		{Date: "2024-03-09", Miles: 3.11, ActivityCount: 1, DistanceMeters: 5000},
		{Date: "2024-03-10", Miles: 6.21, ActivityCount: 2, DistanceMeters: 10000},
	}

	ins := BuildPartial(days, windowEnd, DefaultOptions())

	if !ins.IsPartial {
		t.Error("IsPartial = false, want true")
	}
	if ins.TotalActivities != 3 {
		t.Errorf("TotalActivities = %d, want 3", ins.TotalActivities)
	}
	if ins.TotalMiles != 9.32 {
		t.Errorf("TotalMiles = %v, want 9.32", ins.TotalMiles)
	}
	if ins.CurrentStreakDays != 2 {
		t.Errorf("CurrentStreakDays = %d, want 2", ins.CurrentStreakDays)
	}
	if ins.TotalMovingHours != 0 || ins.TotalElevationGainFeet != 0 || ins.TotalKudos != 0 {
		t.Error("detail totals should be zero in a partial build")
	}
	if ins.TrainingRhythm != nil || ins.TypeBreakdown != nil || ins.PeakActivities != nil {
		t.Error("detail slices should be nil in a partial build")
	}
	if ins.PacePoints != nil || ins.EffortPoints != nil || ins.WeeklyEffort != nil {
		t.Error("series should be nil in a partial build")
	}
	if len(ins.WeeklyVolumes) == 0 {
		t.Error("WeeklyVolumes should survive a partial build")
	}
}

func TestStreakInvariant(t *testing.T) {
	windowEnd := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// A 4-day streak earlier in the window, a 2-day streak ending today
	var activities []strava.Activity
	for i, d := range []time.Time{
		day(2024, 2, 1), day(2024, 2, 2), day(2024, 2, 3), day(2024, 2, 4),
		day(2024, 3, 9), day(2024, 3, 10),
	} {
		activities = append(activities, milesActivity(int64(i+1), d.Add(7*time.Hour), 5000))
	}

	ins := Build(activities, windowEnd, DefaultOptions())

	if ins.CurrentStreakDays != 2 {
		t.Errorf("CurrentStreakDays = %d, want 2", ins.CurrentStreakDays)
	}
	if ins.LongestStreakDays != 4 {
		t.Errorf("LongestStreakDays = %d, want 4", ins.LongestStreakDays)
	}
	if ins.CurrentStreakDays > ins.LongestStreakDays {
		t.Error("current streak exceeds longest streak")
	}
}

func TestRollingPace(t *testing.T) {
	base := day(2024, 3, 1)
	points := []PacePoint{
		{Date: base, PaceSecondsPerMile: 600},
		{Date: base.AddDate(0, 0, 10), PaceSecondsPerMile: 500},
		{Date: base.AddDate(0, 0, 60), PaceSecondsPerMile: 400},
	}

	got := RollingPace(points)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if math.Abs(got[0]-600) > 0.01 {
		t.Errorf("got[0] = %v, want 600", got[0])
	}
	if math.Abs(got[1]-550) > 0.01 {
		t.Errorf("got[1] = %v, want 550 (average of both in-window points)", got[1])
	}
	// Third point is more than 28 days past the others
	if math.Abs(got[2]-400) > 0.01 {
		t.Errorf("got[2] = %v, want 400", got[2])
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		value  float64
		places int
		want   float64
	}{
		{3.14159, 2, 3.14},
		{0.5, 0, 1},
		{-0.5, 0, -1},
		{2.5, 0, 3},
		{1.25, 1, 1.3},
	}

	for _, tt := range tests {
		if got := roundTo(tt.value, tt.places); got != tt.want {
			t.Errorf("roundTo(%v, %d) = %v, want %v", tt.value, tt.places, got, tt.want)
		}
	}
}
