package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

var noon = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func pendingAt(clock string) *models.Reminder {
	return &models.Reminder{
		ID:            "r1",
		Type:          models.ReminderTypeMeal,
		MealType:      models.MealLunch,
		ScheduledTime: clock,
		Status:        models.StatusPending,
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	r := pendingAt("12:00")
	require.NoError(t, Complete(r, noon))
	assert.Equal(t, models.StatusCompleted, r.Status)
	require.NotNil(t, r.CompletedAt)
	assert.Equal(t, noon, *r.CompletedAt)

	err := Complete(r, noon.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, noon, *r.CompletedAt)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.StatusCompleted, te.From)
	assert.Equal(t, ActionComplete, te.Action)

	assert.ErrorIs(t, Skip(r, noon), ErrInvalidTransition)
	assert.ErrorIs(t, Postpone(r, Snooze15, noon), ErrInvalidTransition)
	assert.ErrorIs(t, Miss(r, noon.Add(3*time.Hour), time.Hour), ErrInvalidTransition)
}

func TestSkipIsTerminal(t *testing.T) {
	r := pendingAt("12:00")
	require.NoError(t, Skip(r, noon))
	assert.Equal(t, models.StatusSkipped, r.Status)
	assert.ErrorIs(t, Complete(r, noon), ErrInvalidTransition)
	assert.Nil(t, r.CompletedAt)
}

func TestPostponeBeforeAndAfterScheduledTime(t *testing.T) {
	r := pendingAt("12:30")
	require.NoError(t, Postpone(r, Snooze15, noon))
	assert.Equal(t, models.StatusPostponed, r.Status)
	require.NotNil(t, r.DelayedUntil)
	assert.Equal(t, noon.Add(15*time.Minute), *r.DelayedUntil)

	r = pendingAt("11:00")
	require.NoError(t, Postpone(r, Snooze30, noon))
	assert.Equal(t, models.StatusDelayed, r.Status)
	assert.Equal(t, noon.Add(30*time.Minute), *r.DelayedUntil)
}

func TestPostponeIsReentrant(t *testing.T) {
	r := pendingAt("11:00")
	require.NoError(t, Postpone(r, Snooze15, noon))
	require.NoError(t, Postpone(r, Snooze60, noon.Add(20*time.Minute)))
	assert.Equal(t, models.StatusDelayed, r.Status)
	assert.Equal(t, noon.Add(80*time.Minute), *r.DelayedUntil)

	require.NoError(t, Complete(r, noon.Add(90*time.Minute)))
	assert.Equal(t, models.StatusCompleted, r.Status)
}

func TestPostponeRejectsNonPositiveDelay(t *testing.T) {
	r := pendingAt("12:00")
	assert.ErrorIs(t, Postpone(r, 0, noon), ErrInvalidDelay)
	assert.ErrorIs(t, Postpone(r, -time.Minute, noon), ErrInvalidDelay)
	assert.Equal(t, models.StatusPending, r.Status)
	assert.Nil(t, r.DelayedUntil)
}

func TestMissRequiresGrace(t *testing.T) {
	r := pendingAt("11:30")
	grace := time.Hour

	assert.False(t, ShouldMiss(r, noon, grace))
	assert.ErrorIs(t, Miss(r, noon, grace), ErrGraceNotElapsed)
	assert.Equal(t, models.StatusPending, r.Status)

	later := noon.Add(30 * time.Minute)
	assert.True(t, ShouldMiss(r, later, grace))
	require.NoError(t, Miss(r, later, grace))
	assert.Equal(t, models.StatusMissed, r.Status)

	assert.False(t, ShouldMiss(r, later.Add(time.Hour), grace))
	assert.ErrorIs(t, Miss(r, later, grace), ErrInvalidTransition)
}

func TestMissUsesDelayedTarget(t *testing.T) {
	r := pendingAt("10:00")
	require.NoError(t, Postpone(r, Snooze60, noon))
	assert.False(t, ShouldMiss(r, noon.Add(90*time.Minute), time.Hour))
	assert.True(t, ShouldMiss(r, noon.Add(2*time.Hour), time.Hour))
}

func TestMissedCanStillBeResolved(t *testing.T) {
	r := pendingAt("08:00")
	require.NoError(t, Miss(r, noon, time.Hour))
	require.NoError(t, Complete(r, noon))
	assert.Equal(t, models.StatusCompleted, r.Status)

	r = pendingAt("08:00")
	require.NoError(t, Miss(r, noon, time.Hour))
	require.NoError(t, Postpone(r, Snooze15, noon))
	assert.Equal(t, models.StatusDelayed, r.Status)
}

func TestApply(t *testing.T) {
	r := pendingAt("12:30")
	require.NoError(t, Apply(r, ActionPostpone, Snooze15, noon))
	assert.Equal(t, models.StatusPostponed, r.Status)
	require.NoError(t, Apply(r, ActionComplete, 0, noon))
	assert.ErrorIs(t, Apply(pendingAt("12:00"), ActionMiss, 0, noon), ErrInvalidTransition)
}

func TestCountdown(t *testing.T) {
	r := pendingAt("12:45")
	d, err := Countdown(r, noon)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, d)
	assert.False(t, IsOverdue(d))

	secs, err := CountdownSeconds(r, noon.Add(30*time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 44*60+30, secs)

	r = pendingAt("11:50")
	d, err = Countdown(r, noon)
	require.NoError(t, err)
	assert.Equal(t, -10*time.Minute, d)
	assert.True(t, IsOverdue(d))

	require.NoError(t, Postpone(r, Snooze15, noon))
	d, err = Countdown(r, noon)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)
}

func TestCountdownPrefersStoredInstant(t *testing.T) {
	r := pendingAt("00:30")
	r.ScheduledAt = time.Date(2024, time.June, 11, 0, 30, 0, 0, time.UTC)
	evening := time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC)

	d, err := Countdown(r, evening)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)
}

func TestCountdownRejectsBadClock(t *testing.T) {
	_, err := Countdown(pendingAt("noon"), noon)
	assert.ErrorIs(t, err, models.ErrInvalidSchedule)
}

func TestDisplay(t *testing.T) {
	active := time.Hour

	label, _, err := Display(pendingAt("12:30"), noon, active)
	require.NoError(t, err)
	assert.Equal(t, DisplayCountdown, label)

	label, _, err = Display(pendingAt("15:00"), noon, active)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPending), label)

	done := pendingAt("12:10")
	require.NoError(t, Complete(done, noon))
	label, _, err = Display(done, noon, active)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCompleted), label)
}
