package models

import (
	"strings"
	"time"
)

// Activity is a completed activity from the activity list service.
// Zero values mean the field was not reported.
type Activity struct {
	ActivityID     int64        `json:"activityId"`
	ActivityName   string       `json:"activityName"`
	ActivityType   ActivityType `json:"activityType"`
	StartTimeLocal string       `json:"startTimeLocal"`
	Description    string       `json:"description"`
	Distance       float64      `json:"distance"`       // meters
	Duration       float64      `json:"duration"`       // seconds
	MovingDuration float64      `json:"movingDuration"` // seconds
	AverageSpeed   float64      `json:"averageSpeed"`   // m/s
	AverageHR      float64      `json:"averageHR"`
	MaxHR          float64      `json:"maxHR"`
	Cadence        float64      `json:"averageRunningCadenceInStepsPerMinute"`
	ElevationGain  float64      `json:"elevationGain"` // meters
	Calories       float64      `json:"calories"`
}

type ActivityType struct {
	TypeKey string `json:"typeKey"`
}

// Lap is one split of an activity.
type Lap struct {
	Distance     float64 `json:"distance"`
	Duration     float64 `json:"duration"`
	AverageSpeed float64 `json:"averageSpeed"`
	AverageHR    float64 `json:"averageHR"`
	MaxHR        float64 `json:"maxHR"`
}

// activityTimeLayouts covers the local timestamps the service returns.
var activityTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// StartTime parses StartTimeLocal. The timestamp carries no zone, so it is
// read in loc.
func (a Activity) StartTime(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(a.StartTimeLocal)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.Replace(s, "Z", "+00:00", 1)
	for _, layout := range activityTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UploadRecord is one uploaded workout as remembered by the local ledger.
type UploadRecord struct {
	ID            string     `json:"id" toml:"id"`
	RunID         string     `json:"run_id" toml:"run_id"`
	WorkoutID     int64      `json:"workout_id" toml:"workout_id"`
	WorkoutName   string     `json:"workout_name" toml:"workout_name"`
	Week          int        `json:"week" toml:"week"`
	Day           string     `json:"day" toml:"day"`
	ScheduledDate string     `json:"scheduled_date" toml:"scheduled_date"`
	Scheduled     bool       `json:"scheduled" toml:"scheduled"`
	UploadedAt    time.Time  `json:"uploaded_at" toml:"uploaded_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" toml:"deleted_at,omitempty"`
}

// SyncRun is one invocation of a batch command.
type SyncRun struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Attempted  int        `json:"attempted"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
}
