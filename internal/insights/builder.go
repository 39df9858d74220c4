package insights

import (
	"math"
	"sort"
	"time"

	"stratiles/internal/strava"
)

const (
	metersPerMile = 1609.344
	feetPerMeter  = 3.28084

	// minPaceDistanceMeters excludes very short efforts whose pace is
	// mostly noise from the pace trend.
	minPaceDistanceMeters = 500

	// rollingPaceWindowDays is the trailing window of the smoothed pace
	// series, inclusive of each point's own day.
	rollingPaceWindowDays = 28
)

// Options controls the window and leaderboard sizes of a build
type Options struct {
	WindowDays        int
	WeeksToShow       int
	PeakDayLimit      int
	PeakActivityLimit int
}

// DefaultOptions returns the standard trailing-year configuration
func DefaultOptions() Options {
	return Options{
		WindowDays:        366,
		WeeksToShow:       52,
		PeakDayLimit:      8,
		PeakActivityLimit: 12,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WindowDays <= 0 {
		o.WindowDays = d.WindowDays
	}
	if o.WeeksToShow <= 0 {
		o.WeeksToShow = d.WeeksToShow
	}
	if o.PeakDayLimit <= 0 {
		o.PeakDayLimit = d.PeakDayLimit
	}
	if o.PeakActivityLimit <= 0 {
		o.PeakActivityLimit = d.PeakActivityLimit
	}
	return o
}

type dayAggregate struct {
	date            time.Time
	distanceMeters  float64
	activityCount   int
	elevationMeters float64
	kudosCount      int
	movingSeconds   int
}

type rhythmKey struct {
	weekday int
	hour    int
}

type rhythmAggregate struct {
	activityCount int
	movingSeconds int
}

// Build aggregates raw activities into the full statistics bundle for
// the trailing window ending at windowEnd. Calendar days are resolved
// in windowEnd's location. Build never fails: an empty input produces
// zero-valued insights.
func Build(activities []strava.Activity, windowEnd time.Time, opts Options) Insights {
	opts = opts.withDefaults()
	loc := windowEnd.Location()
	endDay := startOfDay(windowEnd)
	startDay := addDays(endDay, -(opts.WindowDays - 1))

	daily := make(map[string]*dayAggregate)
	rhythm := make(map[rhythmKey]*rhythmAggregate)
	typeCounts := make(map[ActivityType]int)

	var totalMeters, totalElevation float64
	var totalMovingSeconds, totalKudos, totalActivities int

	for _, a := range activities {
		localDay := startOfDay(a.StartDateLocal.In(loc))
		if localDay.Before(startDay) || localDay.After(endDay) {
			continue
		}

		key := DateKey(localDay)
		agg := daily[key]
		if agg == nil {
			agg = &dayAggregate{date: localDay}
			daily[key] = agg
		}
		agg.distanceMeters += a.Distance
		agg.activityCount++
		agg.elevationMeters += a.TotalElevationGain
		agg.kudosCount += a.KudosCount
		agg.movingSeconds += a.MovingTime

		// start_date_local is local wall-clock time mis-tagged as UTC,
		// so UTC accessors recover the intended hour and weekday.
		utcLocal := a.StartDateLocal.UTC()
		rk := rhythmKey{weekday: int(utcLocal.Weekday()) + 1, hour: utcLocal.Hour()}
		ra := rhythm[rk]
		if ra == nil {
			ra = &rhythmAggregate{}
			rhythm[rk] = ra
		}
		ra.activityCount++
		ra.movingSeconds += a.MovingTime

		if t, ok := Classify(a.Type, a.SportType); ok {
			typeCounts[t]++
		}

		totalMeters += a.Distance
		totalMovingSeconds += a.MovingTime
		totalElevation += a.TotalElevationGain
		totalKudos += a.KudosCount
		totalActivities++
	}

	heatmapDays := makeHeatmapDays(daily)
	activeDays := make(map[string]bool, len(daily))
	for key := range daily {
		activeDays[key] = true
	}

	effortPoints, weeklyEffort := makeEffortData(activities, startDay, endDay, loc)

	return Insights{
		WindowStart: startDay,
		WindowEnd:   endDay,
		IsPartial:   false,

		HeatmapDays: heatmapDays,
		HeatmapView: BuildHeatmapView(heatmapDays, endDay, opts.WeeksToShow),

		TotalActivities:        totalActivities,
		TotalMiles:             roundTo(totalMeters/metersPerMile, 2),
		TotalMovingHours:       roundTo(float64(totalMovingSeconds)/3600, 1),
		TotalElevationGainFeet: roundTo(totalElevation*feetPerMeter, 0),
		TotalKudos:             totalKudos,

		CurrentStreakDays: streakEndingOn(endDay, startDay, activeDays),
		LongestStreakDays: longestStreak(startDay, endDay, activeDays),

		WeeklyVolumes:  makeWeeklyVolumes(daily),
		TrainingRhythm: makeTrainingRhythm(rhythm),
		MaxRhythmCount: maxRhythmCount(rhythm),
		TypeBreakdown:  makeTypeBreakdown(typeCounts, totalActivities),
		PeakDays:       makePeakDays(daily, opts.PeakDayLimit),
		PeakActivities: makePeakActivities(activities, startDay, endDay, loc, opts.PeakActivityLimit),

		PacePoints:   makePacePoints(activities, startDay, endDay, loc),
		EffortPoints: effortPoints,
		WeeklyEffort: weeklyEffort,
	}
}

// BuildPartial derives a reduced bundle from heatmap days alone, for
// when only the degraded cache tier is available. Fields that require
// raw activity detail are explicitly zeroed and IsPartial is set.
func BuildPartial(heatmapDays []HeatmapDay, windowEnd time.Time, opts Options) Insights {
	opts = opts.withDefaults()
	loc := windowEnd.Location()
	endDay := startOfDay(windowEnd)
	startDay := addDays(endDay, -(opts.WindowDays - 1))

	daily := make(map[string]*dayAggregate, len(heatmapDays))
	activeDays := make(map[string]bool, len(heatmapDays))
	totalActivities := 0
	totalMiles := 0.0

	for _, day := range heatmapDays {
		date, ok := fromDateKey(day.Date, loc)
		if !ok {
			continue
		}
		daily[day.Date] = &dayAggregate{
			date:           date,
			distanceMeters: day.DistanceMeters,
			activityCount:  day.ActivityCount,
		}
		activeDays[day.Date] = true
		totalActivities += day.ActivityCount
		totalMiles += day.Miles
	}

	return Insights{
		WindowStart: startDay,
		WindowEnd:   endDay,
		IsPartial:   true,

		HeatmapDays: heatmapDays,
		HeatmapView: BuildHeatmapView(heatmapDays, endDay, opts.WeeksToShow),

		TotalActivities: totalActivities,
		TotalMiles:      roundTo(totalMiles, 2),

		CurrentStreakDays: streakEndingOn(endDay, startDay, activeDays),
		LongestStreakDays: longestStreak(startDay, endDay, activeDays),

		WeeklyVolumes: makeWeeklyVolumes(daily),
		PeakDays:      makePeakDays(daily, opts.PeakDayLimit),
	}
}

// RollingPace smooths a date-ascending pace series with a trailing
// 28-day average: each output value averages every point whose date
// falls within [point.Date - 28d, point.Date].
func RollingPace(points []PacePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		cutoff := p.Date.AddDate(0, 0, -rollingPaceWindowDays)
		var sum float64
		var n int
		for _, q := range points {
			if !q.Date.Before(cutoff) && !q.Date.After(p.Date) {
				sum += q.PaceSecondsPerMile
				n++
			}
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

func makeHeatmapDays(daily map[string]*dayAggregate) []HeatmapDay {
	days := make([]HeatmapDay, 0, len(daily))
	for key, agg := range daily {
		days = append(days, HeatmapDay{
			Date:           key,
			Miles:          roundTo(agg.distanceMeters/metersPerMile, 2),
			ActivityCount:  agg.activityCount,
			DistanceMeters: agg.distanceMeters,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func makeWeeklyVolumes(daily map[string]*dayAggregate) []WeeklyVolume {
	type weekAgg struct {
		weekStart      time.Time
		distanceMeters float64
		activeDays     int
		activityCount  int
	}

	weekly := make(map[string]*weekAgg)
	for _, agg := range daily {
		weekStart := startOfWeek(agg.date)
		key := DateKey(weekStart)
		w := weekly[key]
		if w == nil {
			w = &weekAgg{weekStart: weekStart}
			weekly[key] = w
		}
		w.distanceMeters += agg.distanceMeters
		if agg.activityCount > 0 {
			w.activeDays++
		}
		w.activityCount += agg.activityCount
	}

	volumes := make([]WeeklyVolume, 0, len(weekly))
	for _, w := range weekly {
		volumes = append(volumes, WeeklyVolume{
			WeekStart:     w.weekStart,
			Miles:         roundTo(w.distanceMeters/metersPerMile, 2),
			ActiveDays:    w.activeDays,
			ActivityCount: w.activityCount,
		})
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].WeekStart.Before(volumes[j].WeekStart) })
	return volumes
}

func makeTrainingRhythm(rhythm map[rhythmKey]*rhythmAggregate) []RhythmCell {
	cells := make([]RhythmCell, 0, len(rhythm))
	for key, agg := range rhythm {
		cells = append(cells, RhythmCell{
			Weekday:       key.weekday,
			Hour:          key.hour,
			ActivityCount: agg.activityCount,
			MovingSeconds: agg.movingSeconds,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Weekday != cells[j].Weekday {
			return cells[i].Weekday < cells[j].Weekday
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells
}

func maxRhythmCount(rhythm map[rhythmKey]*rhythmAggregate) int {
	maxCount := 0
	for _, agg := range rhythm {
		if agg.activityCount > maxCount {
			maxCount = agg.activityCount
		}
	}
	return maxCount
}

func makeTypeBreakdown(counts map[ActivityType]int, totalActivities int) []TypeBreakdown {
	if totalActivities == 0 {
		return nil
	}

	breakdown := make([]TypeBreakdown, 0, len(counts))
	for t, count := range counts {
		breakdown = append(breakdown, TypeBreakdown{
			Type:          t,
			ActivityCount: count,
			Share:         float64(count) / float64(totalActivities),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].ActivityCount != breakdown[j].ActivityCount {
			return breakdown[i].ActivityCount > breakdown[j].ActivityCount
		}
		return breakdown[i].Type.DisplayName() < breakdown[j].Type.DisplayName()
	})
	return breakdown
}

func makePeakDays(daily map[string]*dayAggregate, limit int) []PeakDay {
	days := make([]PeakDay, 0, len(daily))
	for key, agg := range daily {
		days = append(days, PeakDay{
			Date:                agg.date,
			DateKey:             key,
			Miles:               roundTo(agg.distanceMeters/metersPerMile, 2),
			ActivityCount:       agg.activityCount,
			ElevationGainMeters: roundTo(agg.elevationMeters, 0),
			KudosCount:          agg.kudosCount,
		})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Miles != days[j].Miles {
			return days[i].Miles > days[j].Miles
		}
		if days[i].ActivityCount != days[j].ActivityCount {
			return days[i].ActivityCount > days[j].ActivityCount
		}
		return days[i].Date.After(days[j].Date)
	})
	if len(days) > limit {
		days = days[:limit]
	}
	return days
}

func makePeakActivities(activities []strava.Activity, startDay, endDay time.Time, loc *time.Location, limit int) []PeakActivity {
	inWindow := filterWindow(activities, startDay, endDay, loc)

	// Stable sort: equal distances keep their input order.
	sort.SliceStable(inWindow, func(i, j int) bool { return inWindow[i].Distance > inWindow[j].Distance })
	if len(inWindow) > limit {
		inWindow = inWindow[:limit]
	}

	peaks := make([]PeakActivity, 0, len(inWindow))
	for _, a := range inWindow {
		t, _ := Classify(a.Type, a.SportType)
		peaks = append(peaks, PeakActivity{
			ID:                a.ID,
			Name:              a.Name,
			Date:              a.StartDateLocal,
			Miles:             roundTo(a.Distance/metersPerMile, 2),
			ElevationGainFeet: roundTo(a.TotalElevationGain*feetPerMeter, 0),
			KudosCount:        a.KudosCount,
			MovingSeconds:     a.MovingTime,
			Type:              t,
		})
	}
	return peaks
}

func makePacePoints(activities []strava.Activity, startDay, endDay time.Time, loc *time.Location) []PacePoint {
	var points []PacePoint
	for _, a := range filterWindow(activities, startDay, endDay, loc) {
		if a.Distance <= minPaceDistanceMeters || a.MovingTime <= 0 {
			continue
		}
		miles := a.Distance / metersPerMile
		t, _ := Classify(a.Type, a.SportType)
		points = append(points, PacePoint{
			Date:               a.StartDateLocal,
			PaceSecondsPerMile: float64(a.MovingTime) / miles,
			ActivityName:       a.Name,
			Miles:              roundTo(miles, 2),
			Type:               t,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

func makeEffortData(activities []strava.Activity, startDay, endDay time.Time, loc *time.Location) ([]EffortPoint, []WeeklyEffort) {
	var filtered []strava.Activity
	for _, a := range filterWindow(activities, startDay, endDay, loc) {
		if a.SufferScore != nil && *a.SufferScore > 0 {
			filtered = append(filtered, a)
		}
	}

	points := make([]EffortPoint, 0, len(filtered))
	for _, a := range filtered {
		points = append(points, EffortPoint{Date: a.StartDateLocal, SufferScore: *a.SufferScore, ActivityName: a.Name})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	type effortAgg struct {
		weekStart time.Time
		total     int
		count     int
	}
	weekly := make(map[string]*effortAgg)
	for _, a := range filtered {
		weekStart := startOfWeek(startOfDay(a.StartDateLocal.In(loc)))
		key := DateKey(weekStart)
		w := weekly[key]
		if w == nil {
			w = &effortAgg{weekStart: weekStart}
			weekly[key] = w
		}
		w.total += *a.SufferScore
		w.count++
	}

	weeklyEffort := make([]WeeklyEffort, 0, len(weekly))
	for _, w := range weekly {
		weeklyEffort = append(weeklyEffort, WeeklyEffort{WeekStart: w.weekStart, TotalSufferScore: w.total, ActivityCount: w.count})
	}
	sort.Slice(weeklyEffort, func(i, j int) bool { return weeklyEffort[i].WeekStart.Before(weeklyEffort[j].WeekStart) })

	if len(points) == 0 {
		points = nil
	}
	return points, weeklyEffort
}

func filterWindow(activities []strava.Activity, startDay, endDay time.Time, loc *time.Location) []strava.Activity {
	var out []strava.Activity
	for _, a := range activities {
		localDay := startOfDay(a.StartDateLocal.In(loc))
		if localDay.Before(startDay) || localDay.After(endDay) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// streakEndingOn counts consecutive active days walking backward from
// endDay; zero when endDay itself is inactive.
func streakEndingOn(endDay, startDay time.Time, activeDays map[string]bool) int {
	streak := 0
	for day := endDay; !day.Before(startDay); day = addDays(day, -1) {
		if !activeDays[DateKey(day)] {
			break
		}
		streak++
	}
	return streak
}

// longestStreak scans the window forward for the longest run of
// consecutive active days.
func longestStreak(startDay, endDay time.Time, activeDays map[string]bool) int {
	longest, current := 0, 0
	for day := startDay; !day.After(endDay); day = addDays(day, 1) {
		if activeDays[DateKey(day)] {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

func fromDateKey(key string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", key, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// roundTo rounds half away from zero to the given number of decimals,
// matching the display rounding used throughout the app.
func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
