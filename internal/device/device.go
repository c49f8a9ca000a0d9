// Package device defines the abstraction layer for Stream Deck hardware.
package device

import (
	"fmt"
	"image"
	"time"
)

// Device abstracts a Stream Deck Plus. The hardware adapter and the emulator
// both implement it. Swipes are not surfaced: the strip only reports touches.
type Device interface {
	Open() error
	Close() error
	IsOpen() bool

	GetModelName() string
	GetKeyCount() byte
	GetDialCount() byte
	GetTouchStripSupported() bool
	GetKeyImageRectangle() (image.Rectangle, error)
	GetTouchStripImageRectangle() (image.Rectangle, error)

	// SetBrightness takes a percentage; see ClampBrightness.
	SetBrightness(perc byte) error
	SetKeyImage(key KeyID, img image.Image) error
	SetTouchStripImage(img image.Image) error
	ClearKey(key KeyID) error

	ForEachKey(cb func(KeyID) error) error
	ForEachDial(cb func(DialID) error) error

	// Handlers run on the device's event goroutine. Slow handlers delay
	// every later event.
	AddKeyHandler(key KeyID, fn KeyHandler) error
	AddDialRotateHandler(dial DialID, fn DialRotateHandler) error
	AddDialSwitchHandler(dial DialID, fn DialSwitchHandler) error
	AddTouchStripTouchHandler(fn TouchStripTouchHandler) error

	// Listen blocks dispatching events until the device closes.
	Listen(errCh chan error) error
}

// Stream Deck Plus geometry in native pixels.
const (
	PlusKeyCount    = 8
	PlusDialCount   = 4
	PlusKeySize     = 72
	PlusStripWidth  = 800
	PlusStripHeight = 100
)

// PlusStripRect is the touch strip viewport the carousel draws into.
var PlusStripRect = image.Rect(0, 0, PlusStripWidth, PlusStripHeight)

// ClampBrightness converts a configured percentage to the byte devices take.
func ClampBrightness(perc int) byte {
	return byte(min(max(perc, 0), 100))
}

// KeyID identifies a physical key, numbered from 1 in reading order.
type KeyID byte

const (
	KEY_1 KeyID = iota + 1
	KEY_2
	KEY_3
	KEY_4
	KEY_5
	KEY_6
	KEY_7
	KEY_8
)

func (k KeyID) String() string {
	return fmt.Sprintf("key %d", byte(k))
}

// DialID identifies a rotary dial, numbered from 1 left to right.
type DialID byte

const (
	DIAL_1 DialID = iota + 1
	DIAL_2
	DIAL_3
	DIAL_4
)

func (d DialID) String() string {
	return fmt.Sprintf("dial %d", byte(d))
}

// TouchStripTouchType distinguishes taps from held touches.
type TouchStripTouchType byte

const (
	TOUCH_STRIP_TOUCH_TYPE_SHORT TouchStripTouchType = iota + 1
	TOUCH_STRIP_TOUCH_TYPE_LONG
)

func (t TouchStripTouchType) String() string {
	switch t {
	case TOUCH_STRIP_TOUCH_TYPE_SHORT:
		return "tap"
	case TOUCH_STRIP_TOUCH_TYPE_LONG:
		return "long tap"
	default:
		return fmt.Sprintf("TouchStripTouchType(%d)", byte(t))
	}
}

// Key is handed to key handlers.
type Key interface {
	GetID() KeyID
	// WaitForRelease blocks until the key is released and reports how long
	// it was held.
	WaitForRelease() time.Duration
}

// Dial is handed to dial handlers.
type Dial interface {
	GetID() DialID
	WaitForRelease() time.Duration
}

type (
	KeyHandler             func(d Device, k Key) error
	DialSwitchHandler      func(d Device, di Dial) error
	DialRotateHandler      func(d Device, di Dial, delta int8) error
	TouchStripTouchHandler func(d Device, t TouchStripTouchType, p image.Point) error
)
