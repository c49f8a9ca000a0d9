package carousel

import "fmt"

// Direction is the semantic sense of a move. Engines use it to pick the
// spatial direction of a transition.
type Direction int

const (
	// DirectionNext moves forward through the slides.
	DirectionNext Direction = iota + 1
	// DirectionPrevious moves backward through the slides.
	DirectionPrevious
	// DirectionRandom jumps to an arbitrary index, as from a navigation indicator.
	DirectionRandom
	// DirectionSetup is the initial, unanimated placement.
	DirectionSetup
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrevious:
		return "previous"
	case DirectionRandom:
		return "random"
	case DirectionSetup:
		return "setup"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool {
	return d >= DirectionNext && d <= DirectionSetup
}
