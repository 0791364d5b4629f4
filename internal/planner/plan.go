package planner

import (
	"sort"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/clock"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/rrule"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/window"
)

// DayPlan is everything generated for one local day.
type DayPlan struct {
	DayKey    string                     `json:"day_key"`
	Day       window.Day                 `json:"day"`
	Meals     MealSchedule               `json:"meals"`
	Reminders []models.ScheduledReminder `json:"reminders"`
	WaterStep time.Duration              `json:"water_step"`
}

// BuildDayPlan validates cfg and generates the merged meal and water
// reminders for now's local day.
func BuildDayPlan(cfg models.ScheduleConfig, now time.Time) (DayPlan, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return DayPlan{}, err
	}

	day, err := window.ResolveDay(cfg, now)
	if err != nil {
		return DayPlan{}, err
	}
	meals := placeMeals(cfg, cfg.SnacksCount, window.ForDay(cfg, day))

	water, err := waterTimes(day.Wake, day.Sleep, cfg.WaterIntervalHours, cfg.QuietPeriodEnabled,
		time.Duration(cfg.LastReminderBufferMin)*time.Minute)
	if err != nil {
		return DayPlan{}, err
	}
	if cfg.WaterRemindersPerDay > 0 && len(water) > cfg.WaterRemindersPerDay {
		water = water[:cfg.WaterRemindersPerDay]
	}

	return DayPlan{
		DayKey:    clock.DayKey(now, now.Location()),
		Day:       day,
		Meals:     meals,
		Reminders: Merge(MealReminders(meals), WaterReminders(water)),
		WaterStep: time.Duration(cfg.WaterIntervalMinutes()) * time.Minute,
	}, nil
}

// WaterRule is the RFC 5545 form of the plan's water cadence.
func (p DayPlan) WaterRule() string {
	b := &rrule.Builder{
		Freq:     rrule.FreqMinutely,
		Interval: int(p.WaterStep / time.Minute),
	}
	return b.String()
}

// MealReminders converts placed slots into scheduled reminders.
func MealReminders(s MealSchedule) []models.ScheduledReminder {
	var out []models.ScheduledReminder
	for _, slot := range s.Slots() {
		typ := models.ReminderTypeMeal
		if slot.MealType == models.MealSnack {
			typ = models.ReminderTypeSnack
		}
		out = append(out, models.ScheduledReminder{
			Type:          typ,
			ScheduledTime: models.FormatClock(slot.Time),
			MealType:      slot.MealType,
			At:            slot.Time,
			Rescheduled:   slot.Rescheduled,
		})
	}
	return out
}

// WaterReminders converts water times into scheduled reminders.
func WaterReminders(times []time.Time) []models.ScheduledReminder {
	out := make([]models.ScheduledReminder, 0, len(times))
	for _, t := range times {
		out = append(out, models.ScheduledReminder{
			Type:          models.ReminderTypeWater,
			ScheduledTime: models.FormatClock(t),
			At:            t,
		})
	}
	return out
}

// Merge combines reminder lists in ascending order. Ordering uses the
// resolved instant, which matches time-of-day order within a waking day and
// keeps post-midnight reminders last.
func Merge(lists ...[]models.ScheduledReminder) []models.ScheduledReminder {
	var out []models.ScheduledReminder
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
