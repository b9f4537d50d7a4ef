package calendar

import (
	"time"

	"salondesk/backend/internal/domain"
)

const (
	DefaultSlotMinutes = 30
	SnapMinutes        = 5

	minutesPerDay = 24 * 60
)

// TimeGrid is the ordered list of slot starts for one day. The last entry is
// the closing boundary, so a grid for 09:00-20:30 ends with 20:00 and 21:00.
type TimeGrid struct {
	Day         time.Time
	SlotMinutes int
	Start       time.Time
	End         time.Time
	Slots       []time.Time
}

// BuildTimeGrid lays out slots for day between opening and closing ("HH:MM").
// Missing or malformed hours fall back to the full day.
func BuildTimeGrid(day time.Time, opening, closing string, slotMinutes int) TimeGrid {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	day = domain.StartOfDay(day)

	startMin, endMin := 0, minutesPerDay
	opens, errOpen := domain.ParseTimeOfDay(opening)
	closes, errClose := domain.ParseTimeOfDay(closing)
	if errOpen == nil && errClose == nil {
		s := opens.Minutes() / slotMinutes * slotMinutes
		e := closes.Hour * 60
		if closes.Minute != 0 {
			e += 60
		}
		s = clampInt(s, 0, minutesPerDay)
		e = clampInt(e, 0, minutesPerDay)
		if e > s {
			startMin, endMin = s, e
		}
	}

	g := TimeGrid{
		Day:         day,
		SlotMinutes: slotMinutes,
		Start:       minuteOf(day, startMin),
		End:         minuteOf(day, endMin),
	}
	for m := startMin; m <= endMin; m += slotMinutes {
		g.Slots = append(g.Slots, minuteOf(day, m))
	}
	return g
}

func (g TimeGrid) SlotDuration() time.Duration {
	return time.Duration(g.SlotMinutes) * time.Minute
}

// Contains reports whether t falls within [Start, End].
func (g TimeGrid) Contains(t time.Time) bool {
	return !t.Before(g.Start) && !t.After(g.End)
}

// SlotFor returns the start of the slot containing t.
func (g TimeGrid) SlotFor(t time.Time) (time.Time, bool) {
	if !g.Contains(t) || len(g.Slots) == 0 {
		return time.Time{}, false
	}
	i := int(t.Sub(g.Start) / g.SlotDuration())
	if i >= len(g.Slots) {
		i = len(g.Slots) - 1
	}
	return g.Slots[i], true
}

func (g TimeGrid) Previous(slot time.Time) time.Time {
	return slot.Add(-g.SlotDuration())
}

func minuteOf(day time.Time, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, minute, 0, 0, day.Location())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
