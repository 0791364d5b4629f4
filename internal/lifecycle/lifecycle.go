// Package lifecycle applies user and system actions to reminders and derives
// countdown and tolerance-window guidance from them.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid reminder transition")
	ErrInvalidDelay      = errors.New("postpone delay must be positive")
	ErrGraceNotElapsed   = errors.New("reminder is still within its grace period")
)

type Action string

const (
	ActionComplete Action = "complete"
	ActionSkip     Action = "skip"
	ActionPostpone Action = "postpone"
	ActionMiss     Action = "miss"
)

// Common postpone increments.
const (
	Snooze15 = 15 * time.Minute
	Snooze30 = 30 * time.Minute
	Snooze60 = 60 * time.Minute
)

// TransitionError reports an action that the reminder's status forbids.
type TransitionError struct {
	ReminderID string
	From       models.ReminderStatus
	Action     Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s reminder %s in status %s", e.Action, e.ReminderID, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// allowed lists, per action, the statuses it may start from.
var allowed = map[Action][]models.ReminderStatus{
	ActionComplete: {models.StatusPending, models.StatusPostponed, models.StatusDelayed, models.StatusMissed},
	ActionSkip:     {models.StatusPending, models.StatusPostponed, models.StatusDelayed, models.StatusMissed},
	ActionPostpone: {models.StatusPending, models.StatusPostponed, models.StatusDelayed, models.StatusMissed},
	ActionMiss:     {models.StatusPending, models.StatusPostponed, models.StatusDelayed},
}

func guard(r *models.Reminder, action Action) error {
	for _, s := range allowed[action] {
		if r.Status == s {
			return nil
		}
	}
	return &TransitionError{ReminderID: r.ID, From: r.Status, Action: action}
}

// Complete marks the reminder done. Completing twice is rejected and leaves
// CompletedAt untouched.
func Complete(r *models.Reminder, now time.Time) error {
	if err := guard(r, ActionComplete); err != nil {
		return err
	}
	completedAt := now
	r.Status = models.StatusCompleted
	r.CompletedAt = &completedAt
	r.UpdatedAt = now
	return nil
}

// Skip marks the reminder skipped.
func Skip(r *models.Reminder, now time.Time) error {
	if err := guard(r, ActionSkip); err != nil {
		return err
	}
	r.Status = models.StatusSkipped
	r.UpdatedAt = now
	return nil
}

// Postpone pushes the reminder to now+delay. The status becomes delayed when
// the scheduled time has already passed, postponed otherwise. It may be
// repeated any number of times before completion.
func Postpone(r *models.Reminder, delay time.Duration, now time.Time) error {
	if err := guard(r, ActionPostpone); err != nil {
		return err
	}
	if delay <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDelay, delay)
	}
	scheduled, err := ScheduledInstant(r, now)
	if err != nil {
		return err
	}

	until := now.Add(delay)
	if now.Before(scheduled) {
		r.Status = models.StatusPostponed
	} else {
		r.Status = models.StatusDelayed
	}
	r.DelayedUntil = &until
	r.UpdatedAt = now
	return nil
}

// Miss is applied by the system once grace has elapsed past the reminder's
// target without completion or a further postpone.
func Miss(r *models.Reminder, now time.Time, grace time.Duration) error {
	if err := guard(r, ActionMiss); err != nil {
		return err
	}
	target, err := Target(r, now)
	if err != nil {
		return err
	}
	if now.Before(target.Add(grace)) {
		return fmt.Errorf("%w: reminder %s due at %s", ErrGraceNotElapsed, r.ID, target.Format(time.RFC3339))
	}
	r.Status = models.StatusMissed
	r.UpdatedAt = now
	return nil
}

// ShouldMiss reports whether Miss would succeed now.
func ShouldMiss(r *models.Reminder, now time.Time, grace time.Duration) bool {
	if guard(r, ActionMiss) != nil {
		return false
	}
	target, err := Target(r, now)
	if err != nil {
		return false
	}
	return !now.Before(target.Add(grace))
}

// Apply dispatches an action by name; delay is only used by postpone.
func Apply(r *models.Reminder, action Action, delay time.Duration, now time.Time) error {
	switch action {
	case ActionComplete:
		return Complete(r, now)
	case ActionSkip:
		return Skip(r, now)
	case ActionPostpone:
		return Postpone(r, delay, now)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
}
