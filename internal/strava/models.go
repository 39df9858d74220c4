package strava

import "time"

// Activity is a summary activity as returned by /athlete/activities.
//
// StartDateLocal carries a Strava quirk: the athlete's local wall-clock
// time encoded with a UTC marker. Reading its fields with UTC accessors
// recovers the intended local hour and weekday.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Distance           float64   `json:"distance"`    // meters
	MovingTime         int       `json:"moving_time"` // seconds
	ElapsedTime        int       `json:"elapsed_time"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	KudosCount         int       `json:"kudos_count"`
	SufferScore        *int      `json:"suffer_score,omitempty"`
}
