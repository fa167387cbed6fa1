// Package wallet manages the card wallet and the card carousel interaction.
package wallet

import (
	"math"
	"time"
)

// Gesture tuning.
const (
	LongPressDelay = 500 * time.Millisecond
	ClickSlop      = 5.0
	SwipeThreshold = 50.0
	CardSpacing    = 150.0
)

// GestureState is the state of the carousel pointer machine.
type GestureState int

// Gesture states.
const (
	Idle GestureState = iota
	Pressed
	Dragging
	LongPressing
)

func (s GestureState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case LongPressing:
		return "long-pressing"
	}
	return "unknown"
}

// Outcome describes what a completed gesture did.
type Outcome int

// Gesture outcomes.
const (
	OutcomeNone Outcome = iota
	OutcomeClick
	OutcomeSwipeNext
	OutcomeSwipePrev
	OutcomeLongPress
	OutcomeCancelled
)

// Carousel tracks card selection and pointer gestures. The zero value is
// not usable; call NewCarousel.
//
// A Carousel is not safe for concurrent use; it belongs to one UI loop.
type Carousel struct {
	pressedAt time.Time
	startX    float64
	count     int
	selected  int
	state     GestureState
	moved     bool
}

// NewCarousel returns a carousel over count cards with nothing selected.
func NewCarousel(count int) *Carousel {
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count, selected: -1}
}

// State returns the current gesture state.
func (c *Carousel) State() GestureState { return c.state }

// Count returns the number of cards.
func (c *Carousel) Count() int { return c.count }

// Selected returns the selected index and whether a card is selected.
func (c *Carousel) Selected() (int, bool) {
	return c.selected, c.selected >= 0
}

// SetCount changes the number of cards, dropping a selection that falls
// outside the new range.
func (c *Carousel) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	c.count = count
	if c.selected >= count {
		c.selected = -1
	}
}

// Select selects index i. Out-of-range indexes clear the selection.
func (c *Carousel) Select(i int) {
	if i < 0 || i >= c.count {
		c.selected = -1
		return
	}
	c.selected = i
}

// Toggle selects i, or clears the selection when i is already selected.
func (c *Carousel) Toggle(i int) {
	if c.selected == i {
		c.selected = -1
		return
	}
	c.Select(i)
}

// Clear drops the selection.
func (c *Carousel) Clear() { c.selected = -1 }

func (c *Carousel) center() int { return c.count / 2 }

// Next moves the selection one card to the right. With nothing selected it
// lands on the centre card.
func (c *Carousel) Next() {
	if c.count == 0 {
		return
	}
	switch {
	case c.selected < 0:
		c.selected = c.center()
	case c.selected < c.count-1:
		c.selected++
	}
}

// Prev moves the selection one card to the left. With nothing selected it
// lands on the centre card.
func (c *Carousel) Prev() {
	if c.count == 0 {
		return
	}
	switch {
	case c.selected < 0:
		c.selected = c.center()
	case c.selected > 0:
		c.selected--
	}
}

// Down starts a gesture at x.
func (c *Carousel) Down(x float64, at time.Time) {
	c.state = Pressed
	c.startX = x
	c.pressedAt = at
	c.moved = false
}

// Move records pointer motion. Any motion cancels a pending long press.
func (c *Carousel) Move() {
	switch c.state {
	case Pressed, LongPressing:
		c.state = Dragging
	case Dragging:
	default:
		return
	}
	c.moved = true
}

// Tick advances timers. A press held still past LongPressDelay becomes a
// long press.
func (c *Carousel) Tick(now time.Time) {
	if c.state == Pressed && !c.moved && now.Sub(c.pressedAt) >= LongPressDelay {
		c.state = LongPressing
	}
}

// Up ends the gesture at x. target is the card under the pointer, or -1.
func (c *Carousel) Up(x float64, target int, at time.Time) Outcome {
	if c.state == Idle {
		return OutcomeNone
	}
	c.Tick(at)
	state := c.state
	c.reset()

	if state == LongPressing {
		return OutcomeLongPress
	}

	end := c.startX
	if state == Dragging {
		end = x
	}
	distance := c.startX - end
	if math.Abs(distance) < ClickSlop {
		if target >= 0 {
			c.Toggle(target)
		}
		return OutcomeClick
	}

	switch {
	case distance > SwipeThreshold:
		c.Next()
		return OutcomeSwipeNext
	case distance < -SwipeThreshold:
		c.Prev()
		return OutcomeSwipePrev
	}
	return OutcomeNone
}

// Leave aborts the gesture when the pointer exits the carousel.
func (c *Carousel) Leave() Outcome {
	if c.state == Idle {
		return OutcomeNone
	}
	c.reset()
	return OutcomeCancelled
}

func (c *Carousel) reset() {
	c.state = Idle
	c.moved = false
}

// Placement is the visual position of one card in the fanned stack.
type Placement struct {
	OffsetX  float64
	OffsetY  float64
	Rotation float64
	Scale    float64
	Z        int
}

// Layout computes card placements. With a selection the selected card is
// lifted to the centre and its neighbours fan out from it; without one the
// stack fans out around the middle.
func Layout(count, selected int) []Placement {
	if count <= 0 {
		return nil
	}
	hasSelection := selected >= 0 && selected < count
	out := make([]Placement, count)

	for i := range out {
		var p Placement
		switch {
		case hasSelection && i == selected:
			p = Placement{OffsetY: -40, Scale: 1.15, Z: 100}
		case hasSelection:
			offset := float64(i - selected)
			p = Placement{
				OffsetX:  offset * CardSpacing,
				OffsetY:  math.Abs(offset) * 10,
				Rotation: offset * 3,
				Scale:    0.9,
			}
		default:
			offset := float64(i) - float64(count-1)/2
			p = Placement{
				OffsetX:  offset * CardSpacing,
				OffsetY:  math.Abs(offset) * 5,
				Rotation: offset * 3,
				Scale:    1,
			}
		}

		if !(hasSelection && i == selected) {
			anchor := count / 2
			if hasSelection {
				anchor = selected
			}
			p.Z = 50 - absInt(i-anchor)
		}
		out[i] = p
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
