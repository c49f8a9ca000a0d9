// Package usbwatch signals when a USB HID device from a given vendor is
// plugged in, so a disconnected Stream Deck can be reopened without polling.
package usbwatch

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"sync"
)

// ElgatoVendorID is the USB vendor ID of Stream Deck devices.
const ElgatoVendorID uint16 = 0x0fd9

// Watch returns a channel that receives a signal each time a HID device with
// the given vendor ID appears. Signals are coalesced while unread. The
// channel stops receiving when ctx is cancelled.
func Watch(ctx context.Context, vendorID uint16) <-chan struct{} {
	id, ch := subscribers.add(vendorID)
	startPlatformWatcher()

	go func() {
		<-ctx.Done()
		subscribers.remove(id)
	}()
	return ch
}

type subscriber struct {
	vendorID uint16
	ch       chan struct{}
}

// registry fans device arrivals out to every Watch caller.
type registry struct {
	mu   sync.Mutex
	next int
	subs map[int]subscriber
}

var subscribers = &registry{subs: make(map[int]subscriber)}

func (r *registry) add(vendorID uint16) (int, chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	ch := make(chan struct{}, 1)
	r.subs[r.next] = subscriber{vendorID: vendorID, ch: ch}
	return r.next, ch
}

func (r *registry) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
}

// dispatch signals subscribers for vendorID and returns how many matched.
func (r *registry) dispatch(vendorID uint16) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.subs {
		if s.vendorID != vendorID {
			continue
		}
		n++
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
	return n
}

// parseHIDVendor extracts the vendor ID from a Linux HID uevent, whose
// HID_ID line reads BUS:VENDOR:PRODUCT in hex.
func parseHIDVendor(uevent string) (uint16, bool) {
	sc := bufio.NewScanner(strings.NewReader(uevent))
	for sc.Scan() {
		id, ok := strings.CutPrefix(sc.Text(), "HID_ID=")
		if !ok {
			continue
		}
		parts := strings.Split(id, ":")
		if len(parts) != 3 {
			return 0, false
		}
		vid, err := strconv.ParseUint(parts[1], 16, 32)
		if err != nil || vid > 0xffff {
			return 0, false
		}
		return uint16(vid), true
	}
	return 0, false
}
