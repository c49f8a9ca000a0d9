package module

import (
	"context"
	"image"
)

// Module is a feature that owns a set of keys, dials and a touch strip region.
type Module interface {
	// ID returns a unique identifier for this module instance.
	ID() string

	// Init starts the module with its allocated resources. The context is
	// cancelled when the module is stopped.
	Init(ctx context.Context, resources Resources) error

	// Stop shuts the module down and releases what it holds.
	Stop() error

	// RenderKeys returns images for the keys allocated to this module.
	// Keys missing from the map are left as they are.
	RenderKeys() map[KeyID]image.Image

	// RenderStrip returns the image for this module's strip region, sized to
	// Resources.StripRect and anchored at the origin. Nil leaves it as it is.
	RenderStrip() image.Image

	// HandleKey processes a key press or release.
	HandleKey(id KeyID, event KeyEvent) error

	// HandleDial processes a dial rotation, press or release.
	HandleDial(id DialID, event DialEvent) error

	// HandleStripTouch processes a touch inside this module's strip region.
	// The point is relative to the region.
	HandleStripTouch(event TouchStripEvent) error
}

// Invalidator is implemented by modules that redraw outside the periodic
// render cycle, such as while an animation is running. The coordinator
// installs fn before Init; calling it schedules a render as soon as possible.
type Invalidator interface {
	SetInvalidate(fn func())
}
