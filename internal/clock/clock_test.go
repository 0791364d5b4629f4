package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestDayKey(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	instant := time.Date(2024, time.March, 4, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-04", DayKey(instant, time.UTC))
	assert.Equal(t, "2024-03-05", DayKey(instant, tokyo))
}

func TestUntilNextLocalMidnight(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	tests := []struct {
		name    string
		instant time.Time
		want    time.Duration
	}{
		{
			name:    "ordinary day",
			instant: time.Date(2024, time.June, 10, 18, 0, 0, 0, ny),
			want:    6 * time.Hour,
		},
		{
			name:    "spring forward day is 23h long",
			instant: time.Date(2024, time.March, 10, 0, 0, 0, 0, ny),
			want:    23 * time.Hour,
		},
		{
			name:    "fall back day is 25h long",
			instant: time.Date(2024, time.November, 3, 0, 0, 0, 0, ny),
			want:    25 * time.Hour,
		},
		{
			name:    "one second before midnight",
			instant: time.Date(2024, time.June, 10, 23, 59, 59, 0, ny),
			want:    time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UntilNextLocalMidnight(tt.instant, ny, nil)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, time.Duration(0))
			assert.LessOrEqual(t, got, MaxDayLength)
		})
	}
}

func TestUntilNextLocalMidnightAcrossDSTHours(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	for _, day := range []time.Time{
		time.Date(2024, time.March, 10, 0, 0, 0, 0, ny),
		time.Date(2024, time.November, 3, 0, 0, 0, 0, ny),
	} {
		for h := 0; h < 26; h++ {
			instant := day.Add(time.Duration(h) * time.Hour)
			got := UntilNextLocalMidnight(instant, ny, nil)
			assert.GreaterOrEqual(t, got, time.Duration(0), instant.String())
			assert.LessOrEqual(t, got, MaxDayLength, instant.String())
		}
	}
}

func TestBoundedFallsBackOnImplausibleDurations(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core).Sugar()
	instant := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, FallbackRecheck, bounded(-time.Minute, instant, time.UTC, logger))
	assert.Equal(t, FallbackRecheck, bounded(30*time.Hour, instant, time.UTC, logger))
	assert.Equal(t, 2, logs.Len())

	assert.Equal(t, 12*time.Hour, bounded(12*time.Hour, instant, time.UTC, logger))
	assert.Equal(t, MaxDayLength, bounded(MaxDayLength, instant, time.UTC, logger))
	assert.Equal(t, 2, logs.Len())
}

func TestHasDayOrZoneChanged(t *testing.T) {
	assert.False(t, HasDayOrZoneChanged("2024-03-04", "UTC", "2024-03-04", "UTC"))
	assert.True(t, HasDayOrZoneChanged("2024-03-04", "UTC", "2024-03-05", "UTC"))
	assert.True(t, HasDayOrZoneChanged("2024-03-04", "UTC", "2024-03-04", "Asia/Tokyo"))
	assert.True(t, HasDayOrZoneChanged("", "", "2024-03-04", "UTC"))
}

func TestClockStamp(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	fixed := time.Date(2024, time.March, 4, 20, 30, 0, 0, time.UTC)
	c := New(tokyo, func() time.Time { return fixed }, nil)

	stamp := c.Stamp()
	assert.Equal(t, DayStamp{Key: "2024-03-05", Zone: "Asia/Tokyo"}, stamp)
	assert.True(t, stamp.Changed(DayStamp{Key: "2024-03-04", Zone: "Asia/Tokyo"}))
	assert.Equal(t, 18*time.Hour+30*time.Minute, c.UntilNextMidnight())
}

func TestResolveLocationFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	loc := ResolveLocation("Mars/Olympus_Mons", zap.New(core).Sugar())

	assert.Equal(t, time.Local, loc)
	assert.Equal(t, 1, logs.Len())
}
