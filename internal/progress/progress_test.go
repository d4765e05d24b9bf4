package progress

import (
	"testing"

	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

func TestCompute(t *testing.T) {
	profile := wellness.UserProfile{DailyStepGoal: 8000}

	tests := []struct {
		name  string
		stats wellness.DailyStats
		want  int
	}{
		{"nothing", wellness.DailyStats{}, 0},
		{"steps only", wellness.DailyStats{Steps: 8000}, 25},
		{"below step goal", wellness.DailyStats{Steps: 7999, WorkoutCompleted: true}, 25},
		{"workout and journal", wellness.DailyStats{WorkoutCompleted: true, JournalCompleted: true}, 50},
		{"meditation threshold", wellness.DailyStats{MeditationMinutes: 10, JournalCompleted: true, Steps: 9000}, 75},
		{"meditation below threshold", wellness.DailyStats{MeditationMinutes: 9}, 0},
		{"everything", wellness.DailyStats{Steps: 12000, WorkoutCompleted: true, JournalCompleted: true, MeditationMinutes: 30}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.stats, profile); got != tt.want {
				t.Errorf("Compute() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompute_AllCombinations(t *testing.T) {
	profile := wellness.UserProfile{DailyStepGoal: 100}
	for mask := 0; mask < 16; mask++ {
		stats := wellness.DailyStats{}
		satisfied := 0
		if mask&1 != 0 {
			stats.Steps = 100
			satisfied++
		}
		if mask&2 != 0 {
			stats.WorkoutCompleted = true
			satisfied++
		}
		if mask&4 != 0 {
			stats.JournalCompleted = true
			satisfied++
		}
		if mask&8 != 0 {
			stats.MeditationMinutes = 10
			satisfied++
		}
		if got := Compute(stats, profile); got != satisfied*25 {
			t.Errorf("mask %04b: got %d, want %d", mask, got, satisfied*25)
		}
	}
}

func TestApply(t *testing.T) {
	stats := Apply(wellness.DailyStats{WorkoutCompleted: true, ProgressPercentage: 90}, wellness.UserProfile{DailyStepGoal: 8000})
	if stats.ProgressPercentage != 25 {
		t.Errorf("expected stored percentage 25, got %v", stats.ProgressPercentage)
	}
}
