// Package hydration computes daily water targets, per-reminder suggestions
// and the effective hydration credit of logged beverages.
package hydration

import (
	"math"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

const (
	MinDailyTargetOz = 40
	OzPerLb          = 0.6
	MaxHourlyOz      = 32
	SuggestBucketOz  = 4
)

// DefaultDailyTargetOz derives a target from body weight, never below 40 oz.
func DefaultDailyTargetOz(weightLb float64) float64 {
	return math.Max(MinDailyTargetOz, math.Round(weightLb*OzPerLb))
}

// ExerciseBonusOz is the extra water for today's exercise: 0 to 12 oz over the
// first 30 minutes, 12 to 24 oz up to an hour, then 0.3 oz per minute.
func ExerciseBonusOz(minutes float64) float64 {
	switch {
	case minutes <= 0 || math.IsNaN(minutes):
		return 0
	case minutes <= 30:
		return minutes / 30 * 12
	case minutes <= 60:
		return 12 + (minutes-30)/30*12
	default:
		return 24 + (minutes-60)*0.3
	}
}

// SuggestPerReminderOz splits what is left over the remaining reminders,
// halved late in the day and rounded to the nearest 4 oz.
func SuggestPerReminderOz(remaining float64, remindersLeft int, isLate bool) float64 {
	if remindersLeft <= 0 {
		return 0
	}
	base := remaining / float64(remindersLeft)
	if isLate {
		base /= 2
	}
	return math.Max(0, math.Round(base/SuggestBucketOz)*SuggestBucketOz)
}

// GuidanceInput is everything Guide needs; IsLate comes from the caller's
// time-mode classification.
type GuidanceInput struct {
	WeightLb        float64
	OverrideOz      float64
	ExerciseMinutes float64
	DrankOz         float64
	RemindersLeft   int
	IsLate          bool
}

type GuidanceFlags struct {
	IsLate bool `json:"is_late"`
}

type WaterGuidance struct {
	TargetOz             float64       `json:"target_oz"`
	DrankOz              float64       `json:"drank_oz"`
	RemainingOz          float64       `json:"remaining_oz"`
	BonusFromExerciseOz  float64       `json:"bonus_from_exercise_oz"`
	SuggestPerReminderOz float64       `json:"suggest_per_reminder_oz"`
	MaxHourlyOz          float64       `json:"max_hourly_oz"`
	RemindersLeft        int           `json:"reminders_left"`
	Flags                GuidanceFlags `json:"flags"`
}

// Guide builds a WaterGuidance snapshot. An explicit override replaces the
// weight-based target; the exercise bonus is added on top of either.
func Guide(in GuidanceInput) WaterGuidance {
	base := DefaultDailyTargetOz(in.WeightLb)
	if in.OverrideOz > 0 {
		base = in.OverrideOz
	}
	bonus := ExerciseBonusOz(in.ExerciseMinutes)
	target := base + bonus
	drank := math.Max(0, in.DrankOz)
	remaining := math.Max(0, target-drank)

	suggest := SuggestPerReminderOz(remaining, in.RemindersLeft, in.IsLate)
	if suggest > MaxHourlyOz {
		suggest = MaxHourlyOz
	}

	return WaterGuidance{
		TargetOz:             target,
		DrankOz:              drank,
		RemainingOz:          remaining,
		BonusFromExerciseOz:  bonus,
		SuggestPerReminderOz: suggest,
		MaxHourlyOz:          MaxHourlyOz,
		RemindersLeft:        in.RemindersLeft,
		Flags:                GuidanceFlags{IsLate: in.IsLate},
	}
}

// InputFromConfig fills the config-owned half of a GuidanceInput.
func InputFromConfig(cfg models.ScheduleConfig) GuidanceInput {
	return GuidanceInput{
		WeightLb:        cfg.WeightLb,
		OverrideOz:      cfg.WaterGoalOverrideOz,
		ExerciseMinutes: cfg.TodayExerciseMinutes,
	}
}

// RemindersLeft counts water reminders still outstanding at now.
func RemindersLeft(reminders []models.Reminder, now time.Time) int {
	n := 0
	for _, r := range reminders {
		if r.Type != models.ReminderTypeWater || r.Status.IsTerminal() || r.Status == models.StatusMissed {
			continue
		}
		at := r.ScheduledAt
		if r.DelayedUntil != nil {
			at = *r.DelayedUntil
		}
		if at.IsZero() || !at.Before(now) {
			n++
		}
	}
	return n
}
