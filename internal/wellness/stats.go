package wellness

import "time"

// DailyStats are the mutable daily counters. ProgressPercentage is derived
// and stored redundantly; it is never the source of truth.
type DailyStats struct {
	Steps               int     `json:"steps"`
	WorkoutCompleted    bool    `json:"workoutCompleted"`
	JournalCompleted    bool    `json:"journalCompleted"`
	MeditationMinutes   int     `json:"meditationMinutes"`
	ProgressPercentage  float64 `json:"progressPercentage"`
	LastActiveTimestamp int64   `json:"lastActiveTimestamp"`
	// Day is the local calendar day (YYYY-MM-DD) the counters belong to.
	// Only consulted when daily reset is enabled.
	Day string `json:"day,omitempty"`
}

// StatsPatch is a merge-update: nil fields are left untouched, so
// independent writers never overwrite each other's fields.
type StatsPatch struct {
	Steps               *int
	AddSteps            int
	WorkoutCompleted    *bool
	JournalCompleted    *bool
	MeditationMinutes   *int
	AddMeditation       int
	LastActiveTimestamp *int64
}

// Apply returns s with the patch merged in.
func (s DailyStats) Apply(p StatsPatch) DailyStats {
	if p.Steps != nil {
		s.Steps = *p.Steps
	}
	s.Steps += p.AddSteps
	if p.WorkoutCompleted != nil {
		s.WorkoutCompleted = *p.WorkoutCompleted
	}
	if p.JournalCompleted != nil {
		s.JournalCompleted = *p.JournalCompleted
	}
	if p.MeditationMinutes != nil {
		s.MeditationMinutes = *p.MeditationMinutes
	}
	s.MeditationMinutes += p.AddMeditation
	if p.LastActiveTimestamp != nil {
		s.LastActiveTimestamp = *p.LastActiveTimestamp
	}
	return s
}

// LastActive converts the stored millisecond timestamp.
func (s DailyStats) LastActive() time.Time {
	return time.UnixMilli(s.LastActiveTimestamp)
}

// ActiveAt builds a patch stamping the activity timestamp.
func ActiveAt(t time.Time) StatsPatch {
	ms := t.UnixMilli()
	return StatsPatch{LastActiveTimestamp: &ms}
}

func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
