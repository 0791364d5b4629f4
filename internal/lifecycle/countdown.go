package lifecycle

import (
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

// DisplayCountdown is the derived label for a live reminder near its target.
// It is never persisted.
const DisplayCountdown = "countdown"

// ScheduledInstant resolves the reminder's scheduled time. The stored
// instant wins; otherwise the HH:MM is placed on now's local date.
func ScheduledInstant(r *models.Reminder, now time.Time) (time.Time, error) {
	if !r.ScheduledAt.IsZero() {
		return r.ScheduledAt, nil
	}
	minutes, err := models.ParseClock(r.ScheduledTime)
	if err != nil {
		return time.Time{}, err
	}
	return models.OnDay(now, minutes), nil
}

// Target is the instant the reminder is counting down to: DelayedUntil for a
// delayed or postponed reminder, the scheduled time otherwise.
func Target(r *models.Reminder, now time.Time) (time.Time, error) {
	if r.DelayedUntil != nil && (r.Status == models.StatusDelayed || r.Status == models.StatusPostponed) {
		return *r.DelayedUntil, nil
	}
	return ScheduledInstant(r, now)
}

// Countdown is target − now. Negative means overdue, whatever the status.
func Countdown(r *models.Reminder, now time.Time) (time.Duration, error) {
	target, err := Target(r, now)
	if err != nil {
		return 0, err
	}
	return target.Sub(now), nil
}

// CountdownSeconds is Countdown truncated to whole seconds.
func CountdownSeconds(r *models.Reminder, now time.Time) (int64, error) {
	d, err := Countdown(r, now)
	if err != nil {
		return 0, err
	}
	return int64(d / time.Second), nil
}

// IsOverdue reports whether a countdown has passed its target.
func IsOverdue(countdown time.Duration) bool {
	return countdown < 0
}

// Display returns the label to show for r: finished reminders show their
// status, live ones show "countdown" while within active of their target.
func Display(r *models.Reminder, now time.Time, active time.Duration) (string, time.Duration, error) {
	d, err := Countdown(r, now)
	if err != nil {
		return "", 0, err
	}
	if r.Status.IsTerminal() || r.Status == models.StatusMissed {
		return string(r.Status), d, nil
	}
	if d <= active && d >= -active {
		return DisplayCountdown, d, nil
	}
	return string(r.Status), d, nil
}
