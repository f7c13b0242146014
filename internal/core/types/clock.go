package types

import (
	"fmt"
	"time"
)

// ClockLayout is the wire and storage layout of a posting time.
const ClockLayout = "15:04:05"

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClockOf formats the wall-clock part of t.
func ClockOf(t time.Time) string {
	return t.UTC().Format(ClockLayout)
}

// ParseClock validates an HH:MM:SS string. HH:MM is accepted too.
func ParseClock(s string) (time.Duration, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// CombineDateTime joins a posting date and time into one instant.
// An empty clock means start of day.
func CombineDateTime(date time.Time, clock string) (time.Time, error) {
	base := DateOnly(date)
	if clock == "" {
		return base, nil
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return base.Add(offset), nil
}

// Clock supplies the current instant. Tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct{ At time.Time }

func (c FixedClock) Now() time.Time { return c.At }
