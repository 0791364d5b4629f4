package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// FreqMinutely is the only frequency the water cadence needs.
const FreqMinutely = rrule.MINUTELY

// Parse parses an RFC 5545 RRULE string anchored at dtstart. The rule is
// evaluated in dtstart's location so civil times survive DST changes.
func Parse(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// Builder creates an RRULE from components
type Builder struct {
	Freq     rrule.Frequency
	Interval int
	Dtstart  time.Time
	Until    time.Time
	Count    int
}

func (b *Builder) Build() (*rrule.RRule, error) {
	if b.Interval < 0 {
		return nil, fmt.Errorf("rrule interval must not be negative, got %d", b.Interval)
	}
	opt := rrule.ROption{
		Freq:     b.Freq,
		Interval: b.Interval,
		Dtstart:  b.Dtstart,
	}
	if !b.Until.IsZero() {
		opt.Until = b.Until
	}
	if b.Count > 0 {
		opt.Count = b.Count
	}
	return rrule.NewRRule(opt)
}

func (b *Builder) String() string {
	freqMap := map[rrule.Frequency]string{
		rrule.MINUTELY: "MINUTELY",
		rrule.HOURLY:   "HOURLY",
		rrule.DAILY:    "DAILY",
	}
	parts := []string{fmt.Sprintf("FREQ=%s", freqMap[b.Freq])}

	if b.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", b.Interval))
	}
	if b.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", b.Count))
	}
	if !b.Until.IsZero() {
		parts = append(parts, fmt.Sprintf("UNTIL=%s", b.Until.UTC().Format("20060102T150405Z")))
	}
	return strings.Join(parts, ";")
}

// Every expands a fixed step from start through until, both inclusive.
func Every(start, until time.Time, step time.Duration) ([]time.Time, error) {
	if step < time.Minute {
		return nil, fmt.Errorf("step must be at least one minute, got %s", step)
	}
	if until.Before(start) {
		return nil, nil
	}
	b := &Builder{
		Freq:     FreqMinutely,
		Interval: int(step / time.Minute),
		Dtstart:  start,
		Until:    until,
	}
	rule, err := b.Build()
	if err != nil {
		return nil, err
	}
	return rule.All(), nil
}

// Describe returns a short English description of a cadence step.
func Describe(step time.Duration) string {
	h := int(step.Hours())
	m := int(step.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("every %d min", m)
	case m == 0 && h == 1:
		return "every hour"
	case m == 0:
		return fmt.Sprintf("every %d hours", h)
	default:
		return fmt.Sprintf("every %dh%02d", h, m)
	}
}
