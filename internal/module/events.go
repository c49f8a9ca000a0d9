package module

import (
	"image"
	"time"
)

// DialEventType indicates the type of dial interaction.
type DialEventType uint8

const (
	// DialRotate indicates the dial was rotated.
	DialRotate DialEventType = iota + 1
	// DialPress indicates the dial was pressed down.
	DialPress
	// DialRelease indicates the dial was released.
	DialRelease
)

// DialEvent represents an interaction with a rotary dial.
type DialEvent struct {
	Type DialEventType

	// Delta is the rotation in detents, positive clockwise.
	// Only set for DialRotate.
	Delta int8

	// Duration is how long the dial was held. Only set for DialRelease.
	Duration time.Duration
}

// KeyEvent represents an interaction with a physical key.
type KeyEvent struct {
	// Pressed is true on key down and false on release.
	Pressed bool

	// Duration is how long the key was held. Only set on release.
	Duration time.Duration
}

// TouchStripEventType indicates the type of touch strip interaction.
type TouchStripEventType uint8

const (
	// TouchTap is a short tap.
	TouchTap TouchStripEventType = iota + 1
	// TouchLongTap is a press held past the device's long-touch threshold.
	TouchLongTap
)

// String returns the string representation of the touch type.
func (t TouchStripEventType) String() string {
	switch t {
	case TouchTap:
		return "tap"
	case TouchLongTap:
		return "long tap"
	default:
		return "unknown"
	}
}

// TouchStripEvent represents a touch on the strip.
type TouchStripEvent struct {
	Type  TouchStripEventType
	Point image.Point
}

// Translate returns a copy of e with its point moved by -origin, converting
// strip coordinates into coordinates local to a region starting at origin.
func (e TouchStripEvent) Translate(origin image.Point) TouchStripEvent {
	e.Point = e.Point.Sub(origin)
	return e
}
