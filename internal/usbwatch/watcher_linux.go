package usbwatch

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var platformOnce sync.Once

// startPlatformWatcher watches /dev for new hidraw nodes and reads the
// vendor from sysfs. It runs for the life of the process.
func startPlatformWatcher() {
	platformOnce.Do(func() {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Printf("usbwatch: failed to create watcher: %v", err)
			return
		}
		if err := w.Add("/dev"); err != nil {
			log.Printf("usbwatch: failed to watch /dev: %v", err)
			w.Close()
			return
		}

		go func() {
			log.Println("usbwatch: listening for hidraw device arrivals")
			for {
				select {
				case ev, ok := <-w.Events:
					if !ok {
						return
					}
					name := filepath.Base(ev.Name)
					if !ev.Has(fsnotify.Create) || !strings.HasPrefix(name, "hidraw") {
						continue
					}
					data, err := os.ReadFile(filepath.Join("/sys/class/hidraw", name, "device", "uevent"))
					if err != nil {
						continue
					}
					if vid, ok := parseHIDVendor(string(data)); ok && subscribers.dispatch(vid) > 0 {
						log.Printf("USB device arrived (vendor 0x%04x)", vid)
					}
				case err, ok := <-w.Errors:
					if !ok {
						return
					}
					log.Printf("usbwatch: %v", err)
				}
			}
		}()
	})
}
