package module

import (
	"image"

	"github.com/phinze/slidedeck/internal/device"
)

// Device converts a module KeyID to the device KeyID.
func (k KeyID) Device() device.KeyID {
	return device.KeyID(k)
}

// KeyIDFromDevice converts a device KeyID to a module KeyID.
func KeyIDFromDevice(k device.KeyID) KeyID {
	return KeyID(k)
}

// Device converts a module DialID to the device DialID.
func (d DialID) Device() device.DialID {
	return device.DialID(d)
}

// DialIDFromDevice converts a device DialID to a module DialID.
func DialIDFromDevice(d device.DialID) DialID {
	return DialID(d)
}

// TouchStripEventFromDevice creates a TouchStripEvent from a device touch.
// Unknown touch types are treated as taps.
func TouchStripEventFromDevice(touchType device.TouchStripTouchType, point image.Point) TouchStripEvent {
	eventType := TouchTap
	if touchType == device.TOUCH_STRIP_TOUCH_TYPE_LONG {
		eventType = TouchLongTap
	}
	return TouchStripEvent{
		Type:  eventType,
		Point: point,
	}
}
