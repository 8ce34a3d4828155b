package schedule

import (
	"fmt"
	"time"
)

// TimeSlot is a fixed point in a business day's schedule.
type TimeSlot struct {
	Hour   int
	Minute int
}

func (t TimeSlot) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTime parses a stored time value in "HH:MM" or "HH:MM:SS" form,
// dropping seconds. Stored appointment times may carry seconds while the
// catalog only knows (hour, minute).
func ParseTime(s string) (TimeSlot, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeSlot{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Config describes the daily operating window and slot granularity.
// DayEnd is the start time of the last offered slot, inclusive.
type Config struct {
	DayStart TimeSlot
	DayEnd   TimeSlot
	Interval time.Duration
	Buffer   time.Duration
}

func DefaultConfig() Config {
	return Config{
		DayStart: TimeSlot{Hour: 9},
		DayEnd:   TimeSlot{Hour: 20},
		Interval: 30 * time.Minute,
		Buffer:   30 * time.Minute,
	}
}

// Catalog returns the full ordered slot catalog for a business day.
func (c Config) Catalog() []TimeSlot {
	step := int(c.Interval.Minutes())
	if step <= 0 {
		step = 30
	}
	var slots []TimeSlot
	for m := c.DayStart.Minutes(); m <= c.DayEnd.Minutes(); m += step {
		slots = append(slots, TimeSlot{Hour: m / 60, Minute: m % 60})
	}
	return slots
}
