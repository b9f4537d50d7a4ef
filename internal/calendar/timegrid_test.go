package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeGrid_ClosingRollsUpToNextHour(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	g := BuildTimeGrid(day, "09:00", "20:30", 30)

	require.Len(t, g.Slots, 25)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), g.Slots[0])
	assert.Equal(t, time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC), g.Slots[len(g.Slots)-2])
	assert.Equal(t, time.Date(2026, 1, 5, 21, 0, 0, 0, time.UTC), g.Slots[len(g.Slots)-1])
	assert.Equal(t, g.Slots[len(g.Slots)-1], g.End)
}

func TestBuildTimeGrid_OpeningFloorsToSlotBoundary(t *testing.T) {
	day := time.Date(2026, 1, 5, 15, 4, 0, 0, time.UTC)

	g := BuildTimeGrid(day, "09:10", "18:00", 30)

	assert.Equal(t, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), g.Start)
	assert.Equal(t, time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC), g.End)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), g.Day)
}

func TestBuildTimeGrid_FallsBackToFullDay(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name             string
		opening, closing string
	}{
		{name: "missing", opening: "", closing: ""},
		{name: "malformed", opening: "9am", closing: "18:00"},
		{name: "out of range", opening: "09:00", closing: "25:00"},
		{name: "closing before opening", opening: "18:00", closing: "09:00"},
		{name: "empty range", opening: "09:00", closing: "09:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := BuildTimeGrid(day, tc.opening, tc.closing, 30)
			assert.Equal(t, day, g.Start)
			assert.Equal(t, day.AddDate(0, 0, 1), g.End)
			assert.Len(t, g.Slots, 49)
		})
	}
}

func TestBuildTimeGrid_DefaultSlotWidth(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	g := BuildTimeGrid(day, "09:00", "10:00", 0)

	assert.Equal(t, DefaultSlotMinutes, g.SlotMinutes)
	assert.Len(t, g.Slots, 3)
}

func TestTimeGrid_SlotForAndPrevious(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	g := BuildTimeGrid(day, "09:00", "18:00", 30)

	slot, ok := g.SlotFor(time.Date(2026, 1, 5, 10, 45, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC), slot)

	_, ok = g.SlotFor(time.Date(2026, 1, 5, 8, 59, 0, 0, time.UTC))
	assert.False(t, ok)

	slot, ok = g.SlotFor(g.End)
	require.True(t, ok)
	assert.Equal(t, g.End, slot)

	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), g.Previous(time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC)))
}
