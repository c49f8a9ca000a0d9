// Package emulator provides a GUI Stream Deck Plus for running slidedeck
// without hardware.
package emulator

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/phinze/slidedeck/internal/device"
	"golang.org/x/image/draw"
)

// ErrNotOpen is returned by operations that need an open emulator.
var ErrNotOpen = errors.New("emulator: device is not open")

// Emulator implements device.Device. Input arrives from the window run by
// RunGUI; the handler side can be driven directly in tests.
type Emulator struct {
	mu sync.RWMutex

	open       bool
	brightness byte
	keyImages  [keyCount]*image.RGBA
	stripImage *image.RGBA
	frames     int

	keyHandlers        [keyCount][]device.KeyHandler
	dialRotateHandlers [dialCount][]device.DialRotateHandler
	dialSwitchHandlers [dialCount][]device.DialSwitchHandler
	stripTouchHandlers []device.TouchStripTouchHandler

	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}

	// pressHold is how long a simulated click holds a key or dial down.
	pressHold time.Duration
}

// New creates a closed emulator with black keys and strip.
func New() *Emulator {
	e := &Emulator{
		brightness: 80,
		stopCh:     make(chan struct{}),
		listenDone: make(chan struct{}),
		stripImage: image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight)),
		pressHold:  50 * time.Millisecond,
	}
	for i := range e.keyImages {
		e.keyImages[i] = image.NewRGBA(image.Rect(0, 0, keySize, keySize))
	}
	return e
}

// Open marks the emulator open.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}
	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close stops the window, if one is running.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return ErrNotOpen
	}
	e.open = false
	close(e.stopCh)
	return nil
}

// IsOpen reports whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

func (e *Emulator) GetModelName() string         { return "Stream Deck Plus (Emulator)" }
func (e *Emulator) GetKeyCount() byte            { return keyCount }
func (e *Emulator) GetDialCount() byte           { return dialCount }
func (e *Emulator) GetTouchStripSupported() bool { return true }

func (e *Emulator) GetKeyImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, keySize, keySize), nil
}

func (e *Emulator) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, stripWidth, stripHeight), nil
}

// SetBrightness sets the display brightness in percent.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = min(perc, 100)
	return nil
}

// SetKeyImage copies img into the key's buffer.
func (e *Emulator) SetKeyImage(key device.KeyID, img image.Image) error {
	idx, err := keyIndex(key)
	if err != nil {
		return err
	}

	rgba := image.NewRGBA(image.Rect(0, 0, keySize, keySize))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.keyImages[idx] = rgba
	return nil
}

// SetTouchStripImage copies img into the strip buffer.
func (e *Emulator) SetTouchStripImage(img image.Image) error {
	rgba := image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stripImage = rgba
	e.frames++
	return nil
}

// ClearKey sets a key to black.
func (e *Emulator) ClearKey(key device.KeyID) error {
	idx, err := keyIndex(key)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.keyImages[idx] = image.NewRGBA(image.Rect(0, 0, keySize, keySize))
	return nil
}

// KeyImage returns the current image of a key.
func (e *Emulator) KeyImage(key device.KeyID) image.Image {
	idx, err := keyIndex(key)
	if err != nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.keyImages[idx]
}

// StripImage returns the current strip image and how many times it has been
// set.
func (e *Emulator) StripImage() (image.Image, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stripImage, e.frames
}

// ForEachKey calls cb for each key.
func (e *Emulator) ForEachKey(cb func(device.KeyID) error) error {
	for k := device.KEY_1; k <= device.KEY_8; k++ {
		if err := cb(k); err != nil {
			return err
		}
	}
	return nil
}

// ForEachDial calls cb for each dial.
func (e *Emulator) ForEachDial(cb func(device.DialID) error) error {
	for d := device.DIAL_1; d <= device.DIAL_4; d++ {
		if err := cb(d); err != nil {
			return err
		}
	}
	return nil
}

// AddKeyHandler registers a key press handler.
func (e *Emulator) AddKeyHandler(key device.KeyID, fn device.KeyHandler) error {
	idx, err := keyIndex(key)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keyHandlers[idx] = append(e.keyHandlers[idx], fn)
	return nil
}

// AddDialRotateHandler registers a dial rotation handler.
func (e *Emulator) AddDialRotateHandler(dial device.DialID, fn device.DialRotateHandler) error {
	idx, err := dialIndex(dial)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dialRotateHandlers[idx] = append(e.dialRotateHandlers[idx], fn)
	return nil
}

// AddDialSwitchHandler registers a dial press handler.
func (e *Emulator) AddDialSwitchHandler(dial device.DialID, fn device.DialSwitchHandler) error {
	idx, err := dialIndex(dial)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dialSwitchHandlers[idx] = append(e.dialSwitchHandlers[idx], fn)
	return nil
}

// AddTouchStripTouchHandler registers a touch strip handler.
func (e *Emulator) AddTouchStripTouchHandler(fn device.TouchStripTouchHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stripTouchHandlers = append(e.stripTouchHandlers, fn)
	return nil
}

// Listen blocks until the window closes or Close is called. Handler errors are sent to errCh
// when it is non-nil.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return ErrNotOpen
	}
	e.errorCh = errCh
	done, stop := e.listenDone, e.stopCh
	e.mu.Unlock()

	select {
	case <-done:
	case <-stop:
	}
	return nil
}

// PressKey simulates a click on key.
func (e *Emulator) PressKey(key device.KeyID) {
	idx, err := keyIndex(key)
	if err != nil {
		return
	}
	e.mu.RLock()
	handlers := e.keyHandlers[idx]
	e.mu.RUnlock()

	for _, h := range handlers {
		k := &emulatorKey{id: key, press: newPress()}
		go func() { e.report(h(e, k)) }()
		go k.releaseAfter(e.pressHold)
	}
}

// PressDial simulates a click on dial.
func (e *Emulator) PressDial(dial device.DialID) {
	idx, err := dialIndex(dial)
	if err != nil {
		return
	}
	e.mu.RLock()
	handlers := e.dialSwitchHandlers[idx]
	e.mu.RUnlock()

	for _, h := range handlers {
		d := &emulatorDial{id: dial, press: newPress()}
		go func() { e.report(h(e, d)) }()
		go d.releaseAfter(e.pressHold)
	}
}

// RotateDial simulates turning dial by delta detents.
func (e *Emulator) RotateDial(dial device.DialID, delta int8) {
	idx, err := dialIndex(dial)
	if err != nil {
		return
	}
	e.mu.RLock()
	handlers := e.dialRotateHandlers[idx]
	e.mu.RUnlock()

	for _, h := range handlers {
		d := &emulatorDial{id: dial, press: newPress()}
		d.release()
		go func() { e.report(h(e, d, delta)) }()
	}
}

// Touch simulates a touch on the strip at p.
func (e *Emulator) Touch(touchType device.TouchStripTouchType, p image.Point) {
	e.mu.RLock()
	handlers := e.stripTouchHandlers
	e.mu.RUnlock()

	for _, h := range handlers {
		go func() { e.report(h(e, touchType, p)) }()
	}
}

// report forwards a handler error to the Listen error channel, dropping it
// if nobody is reading.
func (e *Emulator) report(err error) {
	if err == nil {
		return
	}
	e.mu.RLock()
	errCh := e.errorCh
	e.mu.RUnlock()
	if errCh == nil {
		log.Printf("emulator: handler error: %v", err)
		return
	}
	select {
	case errCh <- err:
	default:
	}
}

func keyIndex(key device.KeyID) (int, error) {
	idx := int(key) - 1
	if idx < 0 || idx >= keyCount {
		return 0, fmt.Errorf("emulator: invalid key ID: %d", key)
	}
	return idx, nil
}

func dialIndex(dial device.DialID) (int, error) {
	idx := int(dial) - 1
	if idx < 0 || idx >= dialCount {
		return 0, fmt.Errorf("emulator: invalid dial ID: %d", dial)
	}
	return idx, nil
}

// press tracks a simulated press until release.
type press struct {
	released chan struct{}
	once     sync.Once
	start    time.Time
}

func newPress() *press {
	return &press{released: make(chan struct{}), start: time.Now()}
}

func (p *press) release() {
	p.once.Do(func() { close(p.released) })
}

func (p *press) releaseAfter(d time.Duration) {
	time.Sleep(d)
	p.release()
}

// WaitForRelease blocks until the press is released and returns how long
// it was held.
func (p *press) WaitForRelease() time.Duration {
	<-p.released
	return time.Since(p.start)
}

type emulatorKey struct {
	id device.KeyID
	*press
}

func (k *emulatorKey) GetID() device.KeyID { return k.id }

type emulatorDial struct {
	id device.DialID
	*press
}

func (d *emulatorDial) GetID() device.DialID { return d.id }
