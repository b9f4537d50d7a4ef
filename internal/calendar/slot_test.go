package calendar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSlot(t *testing.T) {
	slot := at(10, 0)

	cases := []struct {
		name       string
		raw        float64
		wantAnchor time.Time
		wantOffset int
	}{
		{name: "top of cell", raw: 0, wantAnchor: at(10, 0), wantOffset: 0},
		{name: "rounds down", raw: 12.4, wantAnchor: at(10, 0), wantOffset: 10},
		{name: "rounds up", raw: 13, wantAnchor: at(10, 0), wantOffset: 15},
		{name: "overshoot capped at one slot", raw: 45, wantAnchor: at(10, 0), wantOffset: 30},
		{name: "far overshoot", raw: 500, wantAnchor: at(10, 0), wantOffset: 30},
		{name: "spills into previous slot", raw: -5, wantAnchor: at(9, 30), wantOffset: 25},
		{name: "rounds back onto boundary", raw: -2, wantAnchor: at(10, 0), wantOffset: 0},
		{name: "far above cell", raw: -40, wantAnchor: at(9, 30), wantOffset: 0},
		{name: "not a number", raw: math.NaN(), wantAnchor: at(10, 0), wantOffset: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ResolveSlot(slot, tc.raw, 30)
			assert.Equal(t, tc.wantAnchor, p.Anchor)
			assert.Equal(t, tc.wantOffset, p.OffsetMinutes)
			assert.Equal(t, tc.wantAnchor.Add(time.Duration(tc.wantOffset)*time.Minute), p.Start)
		})
	}
}

func TestResolveSlot_CrossSlotLandsAt0955(t *testing.T) {
	p := ResolveSlot(at(10, 0), -5, 30)

	assert.Equal(t, at(9, 30), p.Anchor)
	assert.Equal(t, 25, p.OffsetMinutes)
	assert.Equal(t, at(9, 55), p.Start)
}

func TestResolveSlot_IsIdempotent(t *testing.T) {
	for _, raw := range []float64{-17.3, -5, 0, 7.49, 7.5, 29.9, 61} {
		a := ResolveSlot(at(11, 30), raw, 30)
		b := ResolveSlot(at(11, 30), raw, 30)
		assert.Equal(t, a, b)
		assert.Equal(t, a.Key("tm1"), b.Key("tm1"))
	}
}

func TestPlacementKey(t *testing.T) {
	p := ResolveSlot(at(10, 0), 10, 30)

	assert.NotEqual(t, p.Key("tm1"), p.Key("tm2"))
	assert.NotEqual(t, p.Key("tm1"), ResolveSlot(at(10, 0), 15, 30).Key("tm1"))
	assert.Equal(t, p.Key("tm1"), ResolveSlot(at(10, 0), 11, 30).Key("tm1"))
}
