package usbwatch

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

type (
	cfAllocatorRef   uintptr
	cfIndex          int64
	cfNumberRef      uintptr
	cfRunLoopRef     uintptr
	cfStringRef      uintptr
	cfTypeRef        uintptr
	cfStringEncoding uint32

	hidDeviceRef  uintptr
	hidManagerRef uintptr
	hidOptions    uint32
	hidReturn     int32
)

const (
	cfAllocatorDefault   cfAllocatorRef   = 0
	cfNumberSInt32Type   cfIndex          = 3
	cfStringEncodingUTF8 cfStringEncoding = 0x08000100

	hidOptionsNone hidOptions = 0
	hidSuccess     hidReturn  = 0
)

const (
	coreFoundationPath = "/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation"
	ioKitPath          = "/System/Library/Frameworks/IOKit.framework/IOKit"
)

var (
	cfNumberGetValue        func(number cfNumberRef, theType cfIndex, valuePtr unsafe.Pointer) bool
	cfRelease               func(cf cfTypeRef)
	cfRunLoopGetCurrent     func() cfRunLoopRef
	cfRunLoopRun            func()
	cfStringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, numBytes cfIndex, encoding cfStringEncoding, isExternalRepresentation bool) cfStringRef

	hidDeviceGetProperty     func(device hidDeviceRef, key cfStringRef) cfTypeRef
	hidManagerCreate         func(allocator cfAllocatorRef, options hidOptions) hidManagerRef
	hidManagerOpen           func(manager hidManagerRef, options hidOptions) hidReturn
	hidManagerSetMatching    func(manager hidManagerRef, matching uintptr)
	hidManagerOnMatch        func(manager hidManagerRef, callback uintptr, context unsafe.Pointer)
	hidManagerScheduleOnLoop func(manager hidManagerRef, runLoop cfRunLoopRef, mode cfStringRef)
)

// Resolved by loadFrameworks.
var (
	runLoopDefaultMode cfStringRef
	vendorIDKey        cfStringRef
	productIDKey       cfStringRef
)

type symbol struct {
	fn   any
	name string
}

func bind(path string, syms []symbol) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", path, err)
	}
	for _, s := range syms {
		purego.RegisterLibFunc(s.fn, lib, s.name)
	}
	return lib, nil
}

// loadFrameworks binds CoreFoundation and IOKit on first use, so a missing
// framework disables hotplug notifications instead of aborting the process.
func loadFrameworks() error {
	cf, err := bind(coreFoundationPath, []symbol{
		{&cfNumberGetValue, "CFNumberGetValue"},
		{&cfRelease, "CFRelease"},
		{&cfRunLoopGetCurrent, "CFRunLoopGetCurrent"},
		{&cfRunLoopRun, "CFRunLoopRun"},
		{&cfStringCreateWithBytes, "CFStringCreateWithBytes"},
	})
	if err != nil {
		return err
	}
	mode, err := purego.Dlsym(cf, "kCFRunLoopDefaultMode")
	if err != nil {
		return fmt.Errorf("resolving kCFRunLoopDefaultMode: %w", err)
	}
	runLoopDefaultMode = **(**cfStringRef)(unsafe.Pointer(&mode))

	if _, err := bind(ioKitPath, []symbol{
		{&hidDeviceGetProperty, "IOHIDDeviceGetProperty"},
		{&hidManagerCreate, "IOHIDManagerCreate"},
		{&hidManagerOpen, "IOHIDManagerOpen"},
		{&hidManagerSetMatching, "IOHIDManagerSetDeviceMatching"},
		{&hidManagerOnMatch, "IOHIDManagerRegisterDeviceMatchingCallback"},
		{&hidManagerScheduleOnLoop, "IOHIDManagerScheduleWithRunLoop"},
	}); err != nil {
		return err
	}

	// Property keys live for the whole process.
	vendorIDKey = cfString("VendorID")
	productIDKey = cfString("ProductID")
	if vendorIDKey == 0 || productIDKey == 0 {
		return fmt.Errorf("creating HID property keys")
	}
	return nil
}

func cfString(s string) cfStringRef {
	b := []byte(s)
	return cfStringCreateWithBytes(cfAllocatorDefault, b, cfIndex(len(b)), cfStringEncodingUTF8, false)
}

// hidProperty reads a 16-bit numeric property such as the vendor ID.
func hidProperty(device hidDeviceRef, key cfStringRef) (uint16, bool) {
	prop := hidDeviceGetProperty(device, key)
	if prop == 0 {
		return 0, false
	}
	var v int32
	if !cfNumberGetValue(cfNumberRef(prop), cfNumberSInt32Type, unsafe.Pointer(&v)) || v < 0 || v > 0xffff {
		return 0, false
	}
	return uint16(v), true
}

func onDeviceMatched(_ unsafe.Pointer, _ hidReturn, _ uintptr, device hidDeviceRef) {
	vid, ok := hidProperty(device, vendorIDKey)
	if !ok {
		return
	}
	if subscribers.dispatch(vid) == 0 {
		return
	}
	pid, _ := hidProperty(device, productIDKey)
	log.Printf("USB device arrived (vendor 0x%04x, product 0x%04x)", vid, pid)
}

var platformOnce sync.Once

// startPlatformWatcher runs an IOHIDManager on a dedicated OS thread for the
// life of the process. It matches every HID device and leaves filtering by
// vendor to the subscriber registry.
func startPlatformWatcher() {
	platformOnce.Do(func() {
		if err := loadFrameworks(); err != nil {
			log.Printf("usbwatch: USB notifications unavailable: %v", err)
			return
		}
		callback := purego.NewCallback(onDeviceMatched)

		ready := make(chan struct{})
		go func() {
			runtime.LockOSThread()

			mgr := hidManagerCreate(cfAllocatorDefault, hidOptionsNone)
			if rv := hidManagerOpen(mgr, hidOptionsNone); rv != hidSuccess {
				log.Printf("usbwatch: failed to open IOHIDManager: 0x%08x", rv)
				cfRelease(cfTypeRef(mgr))
				runtime.UnlockOSThread()
				close(ready)
				return
			}
			hidManagerSetMatching(mgr, 0)
			hidManagerScheduleOnLoop(mgr, cfRunLoopGetCurrent(), runLoopDefaultMode)
			hidManagerOnMatch(mgr, callback, nil)
			close(ready)

			log.Println("usbwatch: listening for USB HID device arrivals")
			// Never returns; the thread stays locked to the run loop.
			cfRunLoopRun()
		}()
		<-ready
	})
}
