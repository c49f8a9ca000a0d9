package carousel

import "time"

// NoIndex is the index of a carousel that has not placed a slide yet.
const NoIndex = -1

// State is an immutable snapshot of a Carousel.
type State struct {
	// Index is the slide being shown (or transitioned to).
	// NoIndex until the first placement.
	Index int

	// Previous is the slide shown before the current transition started.
	// Equal to Index for an in-place refresh and NoIndex for the initial setup.
	Previous int

	// Bound is the number of slides.
	Bound int

	// Direction is the direction of the latest accepted move.
	Direction Direction

	// Locked is true while a transition is in flight.
	Locked bool

	// Autoplay is true between Play and Stop.
	Autoplay bool

	// Timeout is the autoplay interval.
	Timeout time.Duration

	// Duration is the transition duration handed to engines.
	Duration time.Duration
}

// Placed reports whether a slide has been placed.
func (s State) Placed() bool {
	return s.Index != NoIndex
}

// Immediate reports whether the slide should be shown without animation:
// the initial setup, or a refresh of the slide already on screen.
func (s State) Immediate() bool {
	return s.Direction == DirectionSetup || s.Previous == s.Index || s.Previous == NoIndex
}
