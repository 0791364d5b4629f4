package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/rrule"
)

const (
	// FirstWaterOffset is the delay from wake to the first water reminder.
	FirstWaterOffset = 60 * time.Minute
	// QuietMargin is the half-width of the quiet period around wake and sleep.
	QuietMargin = 30 * time.Minute
)

// GenerateWaterReminders places reminders from wake+1h every intervalHours
// until one hour before sleep. With quietPeriodEnabled, reminders within
// QuietMargin of the wake or sleep time of day are dropped.
func GenerateWaterReminders(wake, sleep time.Time, intervalHours float64, quietPeriodEnabled bool) ([]time.Time, error) {
	return waterTimes(wake, sleep, intervalHours, quietPeriodEnabled,
		time.Duration(models.DefaultLastReminderBufferMin)*time.Minute)
}

func waterTimes(wake, sleep time.Time, intervalHours float64, quiet bool, lastBuffer time.Duration) ([]time.Time, error) {
	if intervalHours <= 0 || math.IsNaN(intervalHours) {
		return nil, fmt.Errorf("%w: water interval %.2fh", models.ErrInvalidSchedule, intervalHours)
	}
	step := time.Duration(math.Round(intervalHours*60)) * time.Minute

	times, err := rrule.Every(wake.Add(FirstWaterOffset), sleep.Add(-lastBuffer), step)
	if err != nil {
		return nil, err
	}
	if !quiet {
		return times, nil
	}

	wakeMin := minuteOfDay(wake)
	sleepMin := minuteOfDay(sleep)
	kept := times[:0]
	for _, t := range times {
		if InQuietPeriod(t, wakeMin, sleepMin) {
			continue
		}
		kept = append(kept, t)
	}
	return kept, nil
}

// InQuietPeriod reports whether t's time of day is within QuietMargin of
// either anchor. Distances wrap around midnight, so 23:50 is 20 minutes from
// 00:10.
func InQuietPeriod(t time.Time, wakeMin, sleepMin int) bool {
	m := minuteOfDay(t)
	margin := int(QuietMargin / time.Minute)
	return circularDistance(m, wakeMin) <= margin || circularDistance(m, sleepMin) <= margin
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func circularDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 12*60 {
		d = 24*60 - d
	}
	return d
}
