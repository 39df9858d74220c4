package insights

import "time"

// HeatmapDay is the persisted per-day aggregate: the minimum needed to
// redraw a heatmap without retaining full activity detail.
type HeatmapDay struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	Miles          float64 `json:"miles"`
	ActivityCount  int     `json:"activityCount"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// HeatmapCell is one day cell in the calendar grid
type HeatmapCell struct {
	Date          time.Time
	Miles         float64
	ActivityCount int
}

// HeatmapWeek is seven consecutive cells starting on a Sunday
type HeatmapWeek struct {
	Start time.Time
	Cells []HeatmapCell
}

// HeatmapView is the calendar-grid projection of daily aggregates
type HeatmapView struct {
	Weeks      []HeatmapWeek
	MaxMiles   float64
	TotalMiles float64
	Today      time.Time
}

// MonthLabel marks the week column where a month label should render
type MonthLabel struct {
	Label     string
	WeekIndex int
}

// WeeklyVolume is one Sunday-aligned week of training volume
type WeeklyVolume struct {
	WeekStart     time.Time
	Miles         float64
	ActiveDays    int
	ActivityCount int
}

// RhythmCell is one (weekday, hour) bucket of the training rhythm
// histogram. Weekday is 1 (Sunday) through 7 (Saturday).
type RhythmCell struct {
	Weekday       int
	Hour          int
	ActivityCount int
	MovingSeconds int
}

// TypeBreakdown is one activity type's share of the window's activities
type TypeBreakdown struct {
	Type          ActivityType
	ActivityCount int
	Share         float64
}

// PeakDay is one of the highest-mileage days in the window
type PeakDay struct {
	Date                time.Time
	DateKey             string
	Miles               float64
	ActivityCount       int
	ElevationGainMeters float64
	KudosCount          int
}

// PeakActivity is one of the longest individual activities in the window
type PeakActivity struct {
	ID                int64
	Name              string
	Date              time.Time
	Miles             float64
	ElevationGainFeet float64
	KudosCount        int
	MovingSeconds     int
	Type              ActivityType // empty when unclassified
}

// PacePoint is one activity's pace, for the pace-over-time series
type PacePoint struct {
	Date               time.Time
	PaceSecondsPerMile float64
	ActivityName       string
	Miles              float64
	Type               ActivityType // empty when unclassified
}

// EffortPoint is one activity's perceived-effort (suffer) score
type EffortPoint struct {
	Date         time.Time
	SufferScore  int
	ActivityName string
}

// WeeklyEffort sums suffer scores per Sunday-aligned week
type WeeklyEffort struct {
	WeekStart        time.Time
	TotalSufferScore int
	ActivityCount    int
}

// Insights is the full statistics bundle for one trailing window.
// When IsPartial is set, only window bounds, heatmap, streaks, weekly
// volumes and the miles/activity-count totals carry data; every field
// that needs raw activity detail is zeroed.
type Insights struct {
	WindowStart time.Time
	WindowEnd   time.Time
	IsPartial   bool

	HeatmapDays []HeatmapDay
	HeatmapView HeatmapView

	TotalActivities        int
	TotalMiles             float64
	TotalMovingHours       float64
	TotalElevationGainFeet float64
	TotalKudos             int

	CurrentStreakDays int
	LongestStreakDays int

	WeeklyVolumes  []WeeklyVolume
	TrainingRhythm []RhythmCell
	MaxRhythmCount int
	TypeBreakdown  []TypeBreakdown
	PeakDays       []PeakDay
	PeakActivities []PeakActivity

	PacePoints   []PacePoint
	EffortPoints []EffortPoint
	WeeklyEffort []WeeklyEffort
}
