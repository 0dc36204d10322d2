package domain

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	minutes int
}

// NewClockTime returns the time of day hour:minute. Out of range values are clamped.
func NewClockTime(hour, minute int) ClockTime {
	hour = min(max(hour, 0), 23)
	minute = min(max(minute, 0), 59)
	return ClockTime{minutes: hour*60 + minute}
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS"; seconds are dropped.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid time of day %q", s)
}

func (c ClockTime) Hour() int   { return c.minutes / 60 }
func (c ClockTime) Minute() int { return c.minutes % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weekday serializes time.Weekday as its upper-case English name ("MONDAY").
type Weekday time.Weekday

func (d Weekday) String() string {
	return strings.ToUpper(time.Weekday(d).String())
}

func (d Weekday) MarshalText() ([]byte, error) {
	if d < Weekday(time.Sunday) || d > Weekday(time.Saturday) {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday accepts full English day names in any case, with or without a schema.org prefix.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.TrimSpace(s)
	if i := strings.LastIndexAny(name, "/#"); i >= 0 {
		name = name[i+1:]
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return Weekday(day), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
