package calendar

import (
	"fmt"
	"math"
	"time"
)

// Placement is a snapped drop position: an anchor slot plus an offset into it.
type Placement struct {
	Anchor        time.Time
	OffsetMinutes int
	Start         time.Time
}

// ResolveSlot maps a pointer offset inside the cell at slotTime to a snapped
// start. Offsets past the bottom of the cell stay anchored to slotTime and are
// capped at one slot. Negative offsets spill into the previous slot unless
// they round back onto the boundary.
func ResolveSlot(slotTime time.Time, rawOffsetMinutes float64, slotMinutes int) Placement {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if math.IsNaN(rawOffsetMinutes) {
		rawOffsetMinutes = 0
	}
	slot := float64(slotMinutes)

	anchor := slotTime
	var offset int
	if rawOffsetMinutes >= 0 {
		v := clampFloat(rawOffsetMinutes, 0, 2*slot)
		offset = clampInt(snap(v), 0, slotMinutes)
	} else {
		v := clampFloat(slot+rawOffsetMinutes, 0, slot)
		rounded := clampInt(snap(v), 0, slotMinutes)
		if rounded == slotMinutes {
			offset = 0
		} else {
			anchor = slotTime.Add(-time.Duration(slotMinutes) * time.Minute)
			offset = rounded
		}
	}

	return Placement{
		Anchor:        anchor,
		OffsetMinutes: offset,
		Start:         anchor.Add(time.Duration(offset) * time.Minute),
	}
}

// Key identifies the placement for teamMemberID; equal keys mean the pointer
// has not moved to a new position.
func (p Placement) Key(teamMemberID string) string {
	return fmt.Sprintf("%s|%d|%d", teamMemberID, p.Anchor.Unix(), p.OffsetMinutes)
}

func snap(minutes float64) int {
	return int(math.Round(minutes/SnapMinutes)) * SnapMinutes
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
