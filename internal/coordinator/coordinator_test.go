package coordinator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/phinze/slidedeck/internal/device"
	"github.com/phinze/slidedeck/internal/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice records images and lets tests fire handlers directly.
type fakeDevice struct {
	mu          sync.Mutex
	keyImages   map[device.KeyID]image.Image
	strip       image.Image
	stripFrames int

	keyHandlers    map[device.KeyID]device.KeyHandler
	rotateHandlers map[device.DialID]device.DialRotateHandler
	switchHandlers map[device.DialID]device.DialSwitchHandler
	touchHandler   device.TouchStripTouchHandler

	listen chan error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		keyImages:      make(map[device.KeyID]image.Image),
		keyHandlers:    make(map[device.KeyID]device.KeyHandler),
		rotateHandlers: make(map[device.DialID]device.DialRotateHandler),
		switchHandlers: make(map[device.DialID]device.DialSwitchHandler),
		listen:         make(chan error),
	}
}

func (d *fakeDevice) Open() error                  { return nil }
func (d *fakeDevice) Close() error                 { return nil }
func (d *fakeDevice) IsOpen() bool                 { return true }
func (d *fakeDevice) GetModelName() string         { return "fake" }
func (d *fakeDevice) GetKeyCount() byte            { return 8 }
func (d *fakeDevice) GetDialCount() byte           { return 4 }
func (d *fakeDevice) GetTouchStripSupported() bool { return true }
func (d *fakeDevice) SetBrightness(byte) error     { return nil }
func (d *fakeDevice) ClearKey(device.KeyID) error  { return nil }

func (d *fakeDevice) GetKeyImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, 72, 72), nil
}

func (d *fakeDevice) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, 800, 100), nil
}

func (d *fakeDevice) SetKeyImage(key device.KeyID, img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keyImages[key] = img
	return nil
}

func (d *fakeDevice) SetTouchStripImage(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strip = img
	d.stripFrames++
	return nil
}

func (d *fakeDevice) ForEachKey(cb func(device.KeyID) error) error {
	for k := device.KEY_1; k <= device.KEY_8; k++ {
		if err := cb(k); err != nil {
			return err
		}
	}
	return nil
}

func (d *fakeDevice) ForEachDial(cb func(device.DialID) error) error {
	for k := device.DIAL_1; k <= device.DIAL_4; k++ {
		if err := cb(k); err != nil {
			return err
		}
	}
	return nil
}

func (d *fakeDevice) AddKeyHandler(key device.KeyID, fn device.KeyHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keyHandlers[key] = fn
	return nil
}

func (d *fakeDevice) AddDialRotateHandler(dial device.DialID, fn device.DialRotateHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rotateHandlers[dial] = fn
	return nil
}

func (d *fakeDevice) AddDialSwitchHandler(dial device.DialID, fn device.DialSwitchHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.switchHandlers[dial] = fn
	return nil
}

func (d *fakeDevice) AddTouchStripTouchHandler(fn device.TouchStripTouchHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.touchHandler = fn
	return nil
}

func (d *fakeDevice) Listen(chan error) error {
	return <-d.listen
}

func (d *fakeDevice) StripFrames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stripFrames
}

func (d *fakeDevice) StripImage() image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strip
}

func (d *fakeDevice) KeyImage(key device.KeyID) image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keyImages[key]
}

type instantRelease struct{}

func (instantRelease) GetID() device.KeyID { return device.KEY_1 }

func (instantRelease) WaitForRelease() time.Duration { return 10 * time.Millisecond }

type instantDial struct{}

func (instantDial) GetID() device.DialID { return device.DIAL_1 }

func (instantDial) WaitForRelease() time.Duration { return 10 * time.Millisecond }

// fakeModule fills its strip region with a solid color and records events.
type fakeModule struct {
	module.BaseModule
	fill    color.RGBA
	initErr error

	mu     sync.Mutex
	keys   []module.KeyEvent
	dials  []module.DialEvent
	touchs []module.TouchStripEvent
}

func newFakeModule(id string, fill color.RGBA) *fakeModule {
	return &fakeModule{BaseModule: module.NewBaseModule(id), fill: fill}
}

func (m *fakeModule) Init(ctx context.Context, res module.Resources) error {
	if m.initErr != nil {
		return m.initErr
	}
	return m.BaseModule.Init(ctx, res)
}

func (m *fakeModule) RenderStrip() image.Image {
	r := m.Resources().StripRect
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			img.SetRGBA(x, y, m.fill)
		}
	}
	return img
}

func (m *fakeModule) RenderKeys() map[module.KeyID]image.Image {
	out := make(map[module.KeyID]image.Image)
	for _, k := range m.Resources().Keys {
		out[k] = image.NewUniform(m.fill)
	}
	return out
}

func (m *fakeModule) HandleKey(id module.KeyID, e module.KeyEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, e)
	return nil
}

func (m *fakeModule) HandleDial(id module.DialID, e module.DialEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dials = append(m.dials, e)
	return nil
}

func (m *fakeModule) HandleStripTouch(e module.TouchStripEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touchs = append(m.touchs, e)
	return nil
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

// startCoordinator runs c until the test ends, returning once ready reports
// that the first render reached dev.
func startCoordinator(t *testing.T, c *Coordinator, ready func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		require.NoError(t, c.Stop())
	})
	require.Eventually(t, ready, time.Second, time.Millisecond)
}

func stripDrawn(dev *fakeDevice) func() bool {
	return func() bool { return dev.StripFrames() > 0 }
}

func TestCoordinator_CompositesStripRegions(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, WithRenderInterval(time.Hour))

	left := newFakeModule("left", red)
	right := newFakeModule("right", blue)
	require.NoError(t, c.RegisterModule(left, module.Resources{StripRect: image.Rect(0, 0, 400, 100)}))
	require.NoError(t, c.RegisterModule(right, module.Resources{StripRect: image.Rect(400, 0, 800, 100)}))

	startCoordinator(t, c, stripDrawn(dev))

	strip := dev.StripImage()
	assert.Equal(t, red, strip.At(10, 50))
	assert.Equal(t, blue, strip.At(790, 50))
}

func TestCoordinator_RoutesStripTouchInLocalCoordinates(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, WithRenderInterval(time.Hour))

	left := newFakeModule("left", red)
	right := newFakeModule("right", blue)
	require.NoError(t, c.RegisterModule(left, module.Resources{StripRect: image.Rect(0, 0, 400, 100)}))
	require.NoError(t, c.RegisterModule(right, module.Resources{StripRect: image.Rect(400, 0, 800, 100)}))
	startCoordinator(t, c, stripDrawn(dev))

	require.NoError(t, dev.touchHandler(dev, device.TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(450, 30)))

	right.mu.Lock()
	defer right.mu.Unlock()
	require.Len(t, right.touchs, 1)
	assert.Equal(t, module.TouchStripEvent{Type: module.TouchLongTap, Point: image.Pt(50, 30)}, right.touchs[0])
	assert.Empty(t, left.touchs)
}

func TestCoordinator_KeyAndDialEvents(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, WithRenderInterval(time.Hour))

	m := newFakeModule("m", red)
	require.NoError(t, c.RegisterModule(m, module.Resources{
		Keys:  []module.KeyID{module.Key1},
		Dials: []module.DialID{module.Dial1},
	}))
	// No strip region, so readiness is the key image.
	startCoordinator(t, c, func() bool { return dev.KeyImage(device.KEY_1) != nil })

	require.NoError(t, dev.keyHandlers[device.KEY_1](dev, instantRelease{}))
	require.NoError(t, dev.rotateHandlers[device.DIAL_1](dev, instantDial{}, -2))
	require.NoError(t, dev.switchHandlers[device.DIAL_1](dev, instantDial{}))

	// Unowned keys get no handler.
	assert.Nil(t, dev.keyHandlers[device.KEY_2])

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, []module.KeyEvent{
		{Pressed: true},
		{Pressed: false, Duration: 10 * time.Millisecond},
	}, m.keys)
	assert.Equal(t, []module.DialEvent{
		{Type: module.DialRotate, Delta: -2},
		{Type: module.DialPress},
		{Type: module.DialRelease, Duration: 10 * time.Millisecond},
	}, m.dials)
	assert.Equal(t, 0, dev.StripFrames())
}

func TestCoordinator_InvalidateRenders(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, WithRenderInterval(time.Hour))

	m := newFakeModule("m", red)
	require.NoError(t, c.RegisterModule(m, module.Resources{StripRect: image.Rect(0, 0, 800, 100)}))
	startCoordinator(t, c, stripDrawn(dev))

	before := dev.StripFrames()
	m.Invalidate()
	assert.Eventually(t, func() bool { return dev.StripFrames() > before }, time.Second, time.Millisecond)
}

func TestCoordinator_SkipsFailedModules(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, WithRenderInterval(time.Hour))

	broken := newFakeModule("broken", blue)
	broken.initErr = errors.New("no config")
	ok := newFakeModule("ok", red)
	require.NoError(t, c.RegisterModule(broken, module.Resources{
		Keys:      []module.KeyID{module.Key2},
		StripRect: image.Rect(0, 0, 400, 100),
	}))
	require.NoError(t, c.RegisterModule(ok, module.Resources{StripRect: image.Rect(400, 0, 800, 100)}))
	startCoordinator(t, c, stripDrawn(dev))

	require.NoError(t, dev.keyHandlers[device.KEY_2](dev, instantRelease{}))
	require.NoError(t, dev.touchHandler(dev, device.TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(10, 10)))

	broken.mu.Lock()
	defer broken.mu.Unlock()
	assert.Empty(t, broken.keys)
	assert.Empty(t, broken.touchs)
	assert.Equal(t, color.RGBA{}, dev.StripImage().At(10, 10))
}

func TestCoordinator_ListenErrorEndsStart(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, WithRenderInterval(time.Hour))

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()

	dev.listen <- errors.New("unplugged")
	select {
	case err := <-done:
		assert.EqualError(t, err, "unplugged")
	case <-time.After(time.Second):
		t.Fatal("Start did not return")
	}
	require.NoError(t, c.Stop())
}
