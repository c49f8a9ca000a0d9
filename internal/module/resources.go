// Package module defines the interface for Stream Deck feature modules.
package module

import (
	"image"
	"slices"
)

// KeyID identifies a physical key. The Stream Deck Plus has 8 keys.
type KeyID uint8

const (
	Key1 KeyID = iota + 1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
)

// AllKeys lists every key on the Stream Deck Plus.
var AllKeys = []KeyID{Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8}

// DialID identifies a rotary dial. The Stream Deck Plus has 4 dials.
type DialID uint8

const (
	Dial1 DialID = iota + 1
	Dial2
	Dial3
	Dial4
)

// AllDials lists every dial on the Stream Deck Plus.
var AllDials = []DialID{Dial1, Dial2, Dial3, Dial4}

// Resources are the hardware resources allocated to a module.
type Resources struct {
	// Keys assigned to this module (may be empty).
	Keys []KeyID

	// StripRect is the module's region of the touch strip, in strip
	// coordinates. A zero rect means no strip region.
	StripRect image.Rectangle

	// Dials assigned to this module (may be empty).
	Dials []DialID
}

// HasKeys reports whether any keys are allocated.
func (r Resources) HasKeys() bool {
	return len(r.Keys) > 0
}

// HasStrip reports whether a strip region is allocated.
func (r Resources) HasStrip() bool {
	return !r.StripRect.Empty()
}

// HasDials reports whether any dials are allocated.
func (r Resources) HasDials() bool {
	return len(r.Dials) > 0
}

// OwnsKey reports whether key is allocated to the module.
func (r Resources) OwnsKey(key KeyID) bool {
	return slices.Contains(r.Keys, key)
}

// OwnsDial reports whether dial is allocated to the module.
func (r Resources) OwnsDial(dial DialID) bool {
	return slices.Contains(r.Dials, dial)
}

// OwnsStripPoint reports whether p, in strip coordinates, falls inside the
// module's strip region.
func (r Resources) OwnsStripPoint(p image.Point) bool {
	return r.HasStrip() && p.In(r.StripRect)
}

// KeyIndex returns the position of key within Keys, or -1.
func (r Resources) KeyIndex(key KeyID) int {
	return slices.Index(r.Keys, key)
}
