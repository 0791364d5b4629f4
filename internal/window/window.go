// Package window computes the daily eating window and classifies the current
// moment against the pre-sleep cutoff.
package window

import (
	"fmt"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

// EatingWindow is the span of the day during which meals are encouraged.
// DurationHours may be zero or negative when the cutoff consumes the whole
// waking day; see Available.
type EatingWindow struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
}

// Available reports whether there is any eating window today.
func (w EatingWindow) Available() bool {
	return w.DurationHours > 0
}

// Contains reports whether t lies in [Start, End].
func (w EatingWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Day is a resolved waking day: wake and sleep as civil instants.
type Day struct {
	Wake  time.Time
	Sleep time.Time
}

// ResolveDay places wake and sleep on now's local date. A sleep time that is
// not after the wake time belongs to the next calendar day.
func ResolveDay(cfg models.ScheduleConfig, now time.Time) (Day, error) {
	wakeMin, sleepMin, err := clockMinutes(cfg)
	if err != nil {
		return Day{}, err
	}
	return dayFor(now, 0, wakeMin, sleepMin)
}

// activeDay is the waking day now belongs to: before today's wake time, the
// person is still inside yesterday's span.
func activeDay(cfg models.ScheduleConfig, now time.Time) (Day, error) {
	wakeMin, sleepMin, err := clockMinutes(cfg)
	if err != nil {
		return Day{}, err
	}
	today, err := dayFor(now, 0, wakeMin, sleepMin)
	if err != nil {
		return Day{}, err
	}
	if !now.Before(today.Wake) {
		return today, nil
	}
	return dayFor(now, -1, wakeMin, sleepMin)
}

func clockMinutes(cfg models.ScheduleConfig) (wake, sleep int, err error) {
	if wake, err = models.ParseClock(cfg.WakeTime); err != nil {
		return 0, 0, err
	}
	if sleep, err = models.ParseClock(cfg.SleepTime); err != nil {
		return 0, 0, err
	}
	if wake == sleep {
		return 0, 0, fmt.Errorf("%w: wake and sleep are both %s", models.ErrInvalidSchedule, cfg.WakeTime)
	}
	return wake, sleep, nil
}

func dayFor(now time.Time, offsetDays, wakeMin, sleepMin int) (Day, error) {
	y, m, d := now.Date()
	loc := now.Location()
	wake := time.Date(y, m, d+offsetDays, wakeMin/60, wakeMin%60, 0, 0, loc)
	sleep := time.Date(y, m, d+offsetDays, sleepMin/60, sleepMin%60, 0, 0, loc)
	if !sleep.After(wake) {
		sleep = time.Date(y, m, d+offsetDays+1, sleepMin/60, sleepMin%60, 0, 0, loc)
	}
	if !sleep.After(wake) {
		return Day{}, fmt.Errorf("%w: sleep %s does not resolve after wake %s",
			models.ErrInvalidSchedule, sleep.Format(time.RFC3339), wake.Format(time.RFC3339))
	}
	return Day{Wake: wake, Sleep: sleep}, nil
}

// Calculate returns today's eating window: from wake until the pre-sleep
// cutoff. The cutoff is applied in whole minutes so fractional hours survive.
func Calculate(cfg models.ScheduleConfig, now time.Time) (EatingWindow, error) {
	cfg = cfg.WithDefaults()
	day, err := ResolveDay(cfg, now)
	if err != nil {
		return EatingWindow{}, err
	}
	return fromDay(cfg, day), nil
}

// ForDay builds the eating window for an already resolved day.
func ForDay(cfg models.ScheduleConfig, day Day) EatingWindow {
	return fromDay(cfg.WithDefaults(), day)
}

func fromDay(cfg models.ScheduleConfig, day Day) EatingWindow {
	end := day.Sleep.Add(-time.Duration(cfg.CutoffMinutes()) * time.Minute)
	return EatingWindow{
		Start:         day.Wake,
		End:           end,
		DurationHours: end.Sub(day.Wake).Hours(),
	}
}
