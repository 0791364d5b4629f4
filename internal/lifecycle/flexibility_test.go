package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliewang306-ui/fitfuel-planner-sub001/internal/models"
)

func TestClassifyFlexibility(t *testing.T) {
	window := 90 * time.Minute
	cases := []struct {
		countdown time.Duration
		want      FlexState
	}{
		{3 * time.Hour, FlexFuture},
		{91 * time.Minute, FlexFuture},
		{90 * time.Minute, FlexEarly},
		{time.Minute, FlexEarly},
		{0, FlexLate},
		{-45 * time.Minute, FlexLate},
		{-90 * time.Minute, FlexLate},
		{-91 * time.Minute, FlexClosed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyFlexibility(tc.countdown, window), tc.countdown.String())
	}
}

func TestClassifyFlexibilityFollowsCountdownSign(t *testing.T) {
	r := pendingAt("12:30")

	before, err := Countdown(r, noon)
	require.NoError(t, err)
	assert.Positive(t, before)
	assert.Equal(t, FlexEarly, ClassifyFlexibility(before, time.Hour))

	after, err := Countdown(r, noon.Add(time.Hour))
	require.NoError(t, err)
	assert.Negative(t, after)
	assert.Equal(t, FlexLate, ClassifyFlexibility(after, time.Hour))
}

func TestFlexibilityFor(t *testing.T) {
	cfg := models.ScheduleConfig{FlexibilityWindowEnabled: true, FlexibilityWindowMinutes: 60}

	f, ok, err := FlexibilityFor(pendingAt("12:30"), cfg, noon)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FlexEarly, f.State)
	assert.Equal(t, 30*time.Minute, f.Countdown)
	assert.NotEmpty(t, f.Message)

	f, ok, err = FlexibilityFor(pendingAt("10:30"), cfg, noon)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FlexClosed, f.State)
}

func TestFlexibilityForDisabledOrFinished(t *testing.T) {
	cfg := models.ScheduleConfig{FlexibilityWindowEnabled: false}
	_, ok, err := FlexibilityFor(pendingAt("12:30"), cfg, noon)
	require.NoError(t, err)
	assert.False(t, ok)

	cfg.FlexibilityWindowEnabled = true
	r := pendingAt("12:30")
	require.NoError(t, Skip(r, noon))
	_, ok, err = FlexibilityFor(r, cfg, noon)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlexibilityDefaultsWindow(t *testing.T) {
	cfg := models.ScheduleConfig{FlexibilityWindowEnabled: true}
	f, ok, err := FlexibilityFor(pendingAt("13:20"), cfg, noon)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FlexEarly, f.State)
}
