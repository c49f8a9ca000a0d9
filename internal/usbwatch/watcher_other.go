//go:build !darwin && !linux

package usbwatch

import (
	"log"
	"sync"
)

var platformOnce sync.Once

// startPlatformWatcher has no hotplug source on this platform; Watch
// channels never fire and callers fall back to their retry loop.
func startPlatformWatcher() {
	platformOnce.Do(func() {
		log.Println("usbwatch: device arrival notifications unavailable on this platform")
	})
}
