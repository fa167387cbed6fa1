package wallet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestCarousel_ClickToggles(t *testing.T) {
	c := NewCarousel(3)

	c.Down(100, t0)
	assert.Equal(t, Pressed, c.State())
	assert.Equal(t, OutcomeClick, c.Up(100, 1, t0.Add(100*time.Millisecond)))

	i, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, Idle, c.State())

	c.Down(100, t0)
	c.Move()
	assert.Equal(t, OutcomeClick, c.Up(103, 1, t0.Add(50*time.Millisecond)), "jitter within slop is a click")
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestCarousel_ClickOnBackground(t *testing.T) {
	c := NewCarousel(3)
	c.Select(2)

	c.Down(10, t0)
	assert.Equal(t, OutcomeClick, c.Up(10, -1, t0))
	i, _ := c.Selected()
	assert.Equal(t, 2, i)
}

func TestCarousel_Swipe(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		fromX    float64
		toX      float64
		want     Outcome
		selected int
	}{
		{name: "left from nothing lands on centre", start: -1, fromX: 300, toX: 200, want: OutcomeSwipeNext, selected: 1},
		{name: "right from nothing lands on centre", start: -1, fromX: 200, toX: 300, want: OutcomeSwipePrev, selected: 1},
		{name: "left advances", start: 0, fromX: 300, toX: 200, want: OutcomeSwipeNext, selected: 1},
		{name: "right goes back", start: 2, fromX: 200, toX: 300, want: OutcomeSwipePrev, selected: 1},
		{name: "left clamps at last", start: 2, fromX: 300, toX: 200, want: OutcomeSwipeNext, selected: 2},
		{name: "right clamps at first", start: 0, fromX: 200, toX: 300, want: OutcomeSwipePrev, selected: 0},
		{name: "short drag does nothing", start: 0, fromX: 200, toX: 170, want: OutcomeNone, selected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCarousel(3)
			c.Select(tt.start)

			c.Down(tt.fromX, t0)
			c.Move()
			assert.Equal(t, Dragging, c.State())
			assert.Equal(t, tt.want, c.Up(tt.toX, -1, t0.Add(200*time.Millisecond)))

			i, ok := c.Selected()
			require.True(t, ok)
			assert.Equal(t, tt.selected, i)
		})
	}
}

func TestCarousel_LongPress(t *testing.T) {
	c := NewCarousel(2)

	c.Down(50, t0)
	c.Tick(t0.Add(499 * time.Millisecond))
	assert.Equal(t, Pressed, c.State())

	c.Tick(t0.Add(LongPressDelay))
	assert.Equal(t, LongPressing, c.State())

	assert.Equal(t, OutcomeLongPress, c.Up(50, 0, t0.Add(time.Second)))
	_, ok := c.Selected()
	assert.False(t, ok, "a long press does not select")
}

func TestCarousel_LongPressDetectedOnRelease(t *testing.T) {
	c := NewCarousel(2)
	c.Down(50, t0)
	assert.Equal(t, OutcomeLongPress, c.Up(50, 0, t0.Add(600*time.Millisecond)))
}

func TestCarousel_MotionCancelsLongPress(t *testing.T) {
	c := NewCarousel(2)
	c.Down(50, t0)
	c.Move()
	c.Tick(t0.Add(time.Second))
	assert.Equal(t, Dragging, c.State())
}

func TestCarousel_Leave(t *testing.T) {
	c := NewCarousel(2)
	assert.Equal(t, OutcomeNone, c.Leave())

	c.Down(50, t0)
	c.Move()
	assert.Equal(t, OutcomeCancelled, c.Leave())
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, OutcomeNone, c.Up(0, 0, t0))
}

func TestCarousel_EmptyAndResize(t *testing.T) {
	c := NewCarousel(0)
	c.Next()
	c.Prev()
	_, ok := c.Selected()
	assert.False(t, ok)

	c.SetCount(4)
	c.Select(3)
	c.SetCount(2)
	_, ok = c.Selected()
	assert.False(t, ok)

	c.Select(7)
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestLayout_NoSelection(t *testing.T) {
	got := Layout(3, -1)
	require.Len(t, got, 3)

	assert.Equal(t, Placement{OffsetX: -150, OffsetY: 5, Rotation: -3, Scale: 1, Z: 49}, got[0])
	assert.Equal(t, Placement{OffsetX: 0, OffsetY: 0, Rotation: 0, Scale: 1, Z: 50}, got[1])
	assert.Equal(t, Placement{OffsetX: 150, OffsetY: 5, Rotation: 3, Scale: 1, Z: 49}, got[2])
}

func TestLayout_EvenCountFansAroundMiddle(t *testing.T) {
	got := Layout(2, -1)
	assert.InDelta(t, -75, got[0].OffsetX, 1e-9)
	assert.InDelta(t, 75, got[1].OffsetX, 1e-9)
	assert.InDelta(t, 2.5, got[0].OffsetY, 1e-9)
}

func TestLayout_Selected(t *testing.T) {
	got := Layout(3, 0)

	assert.Equal(t, Placement{OffsetY: -40, Scale: 1.15, Z: 100}, got[0])
	assert.Equal(t, Placement{OffsetX: 150, OffsetY: 10, Rotation: 3, Scale: 0.9, Z: 49}, got[1])
	assert.Equal(t, Placement{OffsetX: 300, OffsetY: 20, Rotation: 6, Scale: 0.9, Z: 48}, got[2])
}

func TestLayout_Empty(t *testing.T) {
	assert.Nil(t, Layout(0, 0))
}
