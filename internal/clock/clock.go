// Package clock derives local calendar days from wall-clock time and detects
// when the day or the device timezone changes.
package clock

import (
	"time"

	"go.uber.org/zap"
)

// DayKeyLayout is the canonical day key format.
const DayKeyLayout = "2006-01-02"

const (
	// MaxDayLength bounds a civil day, with headroom over the 25h fall-back day.
	MaxDayLength = 26 * time.Hour
	// FallbackRecheck is returned instead of an implausible midnight duration.
	FallbackRecheck = time.Hour
)

// DayStamp is the last observed (day key, zone) pair for one user or device.
type DayStamp struct {
	Key  string `json:"key"`
	Zone string `json:"zone"`
}

// Changed reports whether s differs from last in either field.
func (s DayStamp) Changed(last DayStamp) bool {
	return HasDayOrZoneChanged(last.Key, last.Zone, s.Key, s.Zone)
}

// HasDayOrZoneChanged is true if either the date key or the zone differs.
func HasDayOrZoneChanged(lastKey, lastZone, nowKey, nowZone string) bool {
	return lastKey != nowKey || lastZone != nowZone
}

// DayKey returns the civil date of instant in loc.
func DayKey(instant time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return instant.In(loc).Format(DayKeyLayout)
}

// Clock resolves local days for a single timezone.
type Clock struct {
	loc    *time.Location
	now    func() time.Time
	logger *zap.SugaredLogger
}

// New builds a Clock for loc. A nil now uses time.Now; a nil logger is a no-op.
func New(loc *time.Location, now func() time.Time, logger *zap.SugaredLogger) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Clock{loc: loc, now: now, logger: logger}
}

// ForZone builds a Clock for an IANA zone name, falling back to time.Local.
func ForZone(zone string, now func() time.Time, logger *zap.SugaredLogger) *Clock {
	c := New(nil, now, logger)
	c.loc = ResolveLocation(zone, c.logger)
	return c
}

// Location returns the resolved timezone.
func (c *Clock) Location() *time.Location { return c.loc }

// Now returns the current instant in the clock's timezone.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// DayKey returns today's key.
func (c *Clock) DayKey() string { return DayKey(c.now(), c.loc) }

// Stamp returns the current (day key, zone) pair.
func (c *Clock) Stamp() DayStamp {
	return DayStamp{Key: c.DayKey(), Zone: c.loc.String()}
}

// UntilNextMidnight is UntilNextLocalMidnight for the clock's current time.
func (c *Clock) UntilNextMidnight() time.Duration {
	return UntilNextLocalMidnight(c.now(), c.loc, c.logger)
}

// UntilNextLocalMidnight returns the time from instant to the next civil
// midnight in loc. Short (23h) and long (25h) DST days are handled by
// building midnight from calendar fields instead of adding 24h. A result
// outside [0, MaxDayLength] is logged and replaced by FallbackRecheck.
func UntilNextLocalMidnight(instant time.Time, loc *time.Location, logger *zap.SugaredLogger) time.Duration {
	if loc == nil {
		loc = time.Local
	}
	local := instant.In(loc)
	y, m, d := local.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	return bounded(midnight.Sub(instant), instant, loc, logger)
}

func bounded(until time.Duration, instant time.Time, loc *time.Location, logger *zap.SugaredLogger) time.Duration {
	if until >= 0 && until <= MaxDayLength {
		return until
	}
	if logger != nil {
		logger.Warnf("Implausible duration until midnight (%s) for %s in %s, rechecking in %s",
			until, instant.Format(time.RFC3339), loc, FallbackRecheck)
	}
	return FallbackRecheck
}

// ResolveLocation loads an IANA zone, falling back to time.Local.
func ResolveLocation(zone string, logger *zap.SugaredLogger) *time.Location {
	if zone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		if logger != nil {
			logger.Warnf("Unknown timezone %q, using local time: %v", zone, err)
		}
		return time.Local
	}
	return loc
}
