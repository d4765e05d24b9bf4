// Package progress derives the daily completion percentage.
package progress

import "github.com/jislas1039-svg/higher-self/internal/wellness"

// MeditationTargetMinutes is the daily meditation threshold.
const MeditationTargetMinutes = 10

const weight = 25

// Compute counts four independent conditions, 25 points each.
func Compute(stats wellness.DailyStats, profile wellness.UserProfile) int {
	met := 0
	if stats.Steps >= profile.DailyStepGoal {
		met++
	}
	if stats.WorkoutCompleted {
		met++
	}
	if stats.JournalCompleted {
		met++
	}
	if stats.MeditationMinutes >= MeditationTargetMinutes {
		met++
	}
	return met * weight
}

// Apply writes the derived percentage back into stats.
func Apply(stats wellness.DailyStats, profile wellness.UserProfile) wellness.DailyStats {
	stats.ProgressPercentage = float64(Compute(stats, profile))
	return stats
}
