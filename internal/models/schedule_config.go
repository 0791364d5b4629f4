package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for every tunable of ScheduleConfig. A zero value in the stored
// config resolves to these, never to a zero that leaks into arithmetic.
const (
	DefaultPreSleepCutoffHours      = 2.5
	DefaultNightModeBufferMin       = 90
	DefaultLastReminderBufferMin    = 60
	DefaultMinGapBetweenMealsMin    = 120
	DefaultWaterIntervalHours       = 2.5
	DefaultFlexibilityWindowMinutes = 90
	DefaultMissedGraceMinutes       = 60
	DefaultTimezone                 = "UTC"
)

// ErrInvalidSchedule is returned when wake/sleep times cannot form a waking day.
var ErrInvalidSchedule = errors.New("invalid schedule config")

var validate = validator.New()

// ScheduleConfig is the per-user plan configuration read from the profile store.
type ScheduleConfig struct {
	UserID                       int64   `json:"user_id"`
	Timezone                     string  `json:"timezone"`
	WakeTime                     string  `json:"wake_time" validate:"required,datetime=15:04"`  // HH:MM
	SleepTime                    string  `json:"sleep_time" validate:"required,datetime=15:04"` // HH:MM
	SnacksCount                  int     `json:"snacks_count" validate:"gte=0,lte=2"`
	WaterIntervalHours           float64 `json:"water_interval_hours" validate:"omitempty,gte=2,lte=3"`
	QuietPeriodEnabled           bool    `json:"quiet_period_enabled"`
	PreSleepCutoffHours          float64 `json:"pre_sleep_cutoff_hours" validate:"gte=0,lte=12"`
	NightModeBufferMin           int     `json:"night_mode_buffer_min" validate:"gte=0,lte=720"`
	LastReminderBufferMin        int     `json:"last_reminder_buffer_min" validate:"gte=0,lte=720"`
	AllowLightProteinAfterCutoff bool    `json:"allow_light_protein_after_cutoff"`
	AutoRescheduleMeals          bool    `json:"auto_reschedule_meals"`
	MinGapBetweenMealsMin        int     `json:"min_gap_between_meals_min" validate:"gte=0,lte=600"`
	WaterRemindersPerDay         int     `json:"water_reminders_per_day" validate:"gte=0,lte=24"`
	WaterGoalOverrideOz          float64 `json:"water_goal_override_oz" validate:"gte=0"`
	TodayExerciseMinutes         float64 `json:"today_exercise_minutes" validate:"gte=0"`
	WeightLb                     float64 `json:"weight_lb" validate:"gte=0"`
	FlexibilityWindowEnabled     bool    `json:"flexibility_window_enabled"`
	FlexibilityWindowMinutes     int     `json:"flexibility_window_minutes" validate:"gte=0,lte=360"`
	MissedGraceMinutes           int     `json:"missed_grace_minutes" validate:"gte=0,lte=720"`
	PlannerEnabled               bool    `json:"planner_enabled"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewDefaultScheduleConfig creates a ScheduleConfig with default values
func NewDefaultScheduleConfig(userID int64) *ScheduleConfig {
	return &ScheduleConfig{
		UserID:                   userID,
		Timezone:                 DefaultTimezone,
		WakeTime:                 "07:00",
		SleepTime:                "23:00",
		SnacksCount:              1,
		WaterIntervalHours:       DefaultWaterIntervalHours,
		QuietPeriodEnabled:       true,
		PreSleepCutoffHours:      DefaultPreSleepCutoffHours,
		NightModeBufferMin:       DefaultNightModeBufferMin,
		LastReminderBufferMin:    DefaultLastReminderBufferMin,
		AutoRescheduleMeals:      true,
		MinGapBetweenMealsMin:    DefaultMinGapBetweenMealsMin,
		FlexibilityWindowMinutes: DefaultFlexibilityWindowMinutes,
		MissedGraceMinutes:       DefaultMissedGraceMinutes,
		PlannerEnabled:           true,
		UpdatedAt:                time.Now(),
	}
}

// WithDefaults returns a copy where every unset tunable carries its default.
func (c ScheduleConfig) WithDefaults() ScheduleConfig {
	if c.PreSleepCutoffHours <= 0 || math.IsNaN(c.PreSleepCutoffHours) {
		c.PreSleepCutoffHours = DefaultPreSleepCutoffHours
	}
	if c.NightModeBufferMin <= 0 {
		c.NightModeBufferMin = DefaultNightModeBufferMin
	}
	if c.LastReminderBufferMin <= 0 {
		c.LastReminderBufferMin = DefaultLastReminderBufferMin
	}
	if c.MinGapBetweenMealsMin <= 0 {
		c.MinGapBetweenMealsMin = DefaultMinGapBetweenMealsMin
	}
	if c.WaterIntervalHours <= 0 || math.IsNaN(c.WaterIntervalHours) {
		c.WaterIntervalHours = DefaultWaterIntervalHours
	}
	if c.FlexibilityWindowMinutes <= 0 {
		c.FlexibilityWindowMinutes = DefaultFlexibilityWindowMinutes
	}
	if c.MissedGraceMinutes <= 0 {
		c.MissedGraceMinutes = DefaultMissedGraceMinutes
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	return c
}

// Validate checks field ranges and the wake/sleep invariant.
func (c ScheduleConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	wake, _ := ParseClock(c.WakeTime)
	sleep, _ := ParseClock(c.SleepTime)
	if wake == sleep {
		return fmt.Errorf("%w: sleep time %s equals wake time", ErrInvalidSchedule, c.SleepTime)
	}
	return nil
}

// CutoffMinutes is the pre-sleep cutoff in whole minutes.
func (c ScheduleConfig) CutoffMinutes() int {
	return int(math.Round(c.PreSleepCutoffHours * 60))
}

// WaterIntervalMinutes is the water cadence in whole minutes.
func (c ScheduleConfig) WaterIntervalMinutes() int {
	return int(math.Round(c.WaterIntervalHours * 60))
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidSchedule, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders the time-of-day of t as "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// OnDay places a minutes-after-midnight clock value on the civil date of day.
func OnDay(day time.Time, minutes int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location())
}
