package lifecycle

import (
	"time"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

type FlexState string

const (
	FlexFuture FlexState = "future"
	FlexEarly  FlexState = "early"
	FlexLate   FlexState = "late"
	FlexClosed FlexState = "closed"
)

// Flexibility is guidance only; it never changes which transitions are legal.
type Flexibility struct {
	State     FlexState     `json:"state"`
	Countdown time.Duration `json:"countdown"`
	Message   string        `json:"message"`
}

// ClassifyFlexibility places a countdown relative to a symmetric tolerance
// window. countdown is target minus now, so a positive countdown means the
// target is still ahead. More than window ahead is future, (0, window] is
// early, [-window, 0] is late (at or past the target), anything older is
// closed.
func ClassifyFlexibility(countdown, window time.Duration) FlexState {
	switch {
	case countdown > window:
		return FlexFuture
	case countdown > 0:
		return FlexEarly
	case countdown >= -window:
		return FlexLate
	default:
		return FlexClosed
	}
}

var flexMessages = map[FlexState]string{
	FlexFuture: "Coming up later. No need to act yet.",
	FlexEarly:  "A little early is fine. Logging now still counts as on time.",
	FlexLate:   "Still on time. Log it now to keep your streak.",
	FlexClosed: "The on-time window has closed, but you can still log it.",
}

// FlexibilityFor derives guidance for r. ok is false when the feature is
// disabled for the user or the reminder is already finished.
func FlexibilityFor(r *models.Reminder, cfg models.ScheduleConfig, now time.Time) (Flexibility, bool, error) {
	if !cfg.FlexibilityWindowEnabled || r.Status.IsTerminal() {
		return Flexibility{}, false, nil
	}
	cfg = cfg.WithDefaults()
	d, err := Countdown(r, now)
	if err != nil {
		return Flexibility{}, false, err
	}
	state := ClassifyFlexibility(d, time.Duration(cfg.FlexibilityWindowMinutes)*time.Minute)
	return Flexibility{State: state, Countdown: d, Message: flexMessages[state]}, true, nil
}
