package schedule

import "time"

// Engine computes bookable time slots for one resource and date. It is a
// pure function of its inputs: the caller fetches the active (pending or
// confirmed) reservation times and injects the current wall-clock time, so
// the computation is deterministic and holds no state.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Available returns the ordered subset of the daily catalog that is safe to
// offer for date. booked holds the stored time values ("HH:MM" or
// "HH:MM:SS") of reservations that occupy a slot; unparseable entries are
// skipped rather than blocking a slot.
//
// Rules:
//   - a date before now's calendar date yields nothing, whatever is booked;
//   - a slot whose time matches a booked time is never offered;
//   - for today, slots starting before now plus the buffer are dropped
//     (a slot at exactly the cutoff is still offered).
func (e *Engine) Available(date, now time.Time, booked []string) []TimeSlot {
	today := dayOrdinal(now)
	target := dayOrdinal(date)

	if target < today {
		return nil
	}

	occupied := make(map[int]bool, len(booked))
	for _, b := range booked {
		t, err := ParseTime(b)
		if err != nil {
			continue
		}
		occupied[t.Minutes()] = true
	}

	cutoff := -1
	if target == today {
		cutoff = now.Hour()*60 + now.Minute() + int(e.cfg.Buffer.Minutes())
	}

	var out []TimeSlot
	for _, slot := range e.cfg.Catalog() {
		if occupied[slot.Minutes()] {
			continue
		}
		if slot.Minutes() < cutoff {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func dayOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
