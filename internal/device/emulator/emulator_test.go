package emulator

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/phinze/slidedeck/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_HitTesting(t *testing.T) {
	l := newLayout()

	assert.Equal(t, 1, l.keyAt(l.keys[0].Min))
	assert.Equal(t, 8, l.keyAt(l.keys[7].Max.Sub(image.Pt(1, 1))))
	assert.Equal(t, 0, l.keyAt(image.Pt(0, 0)))

	center := l.dials[2].Min.Add(image.Pt(dialSize/2, dialSize/2))
	assert.Equal(t, 3, l.dialAt(center))
	// Corners of the bounding box are outside the circle.
	assert.Equal(t, 0, l.dialAt(l.dials[2].Min))

	p, ok := l.stripPoint(l.strip.Min.Add(image.Pt(10, 20)))
	assert.True(t, ok)
	assert.Equal(t, image.Pt(10, 20), p)

	p, ok = l.stripPoint(image.Pt(l.strip.Max.X+50, l.strip.Min.Y))
	assert.False(t, ok)
	assert.Equal(t, stripWidth-1, p.X)

	assert.LessOrEqual(t, l.dials[3].Max.Y, windowHeight)
	assert.LessOrEqual(t, l.strip.Max.X, windowWidth)
}

func TestEmulator_OpenClose(t *testing.T) {
	e := New()
	assert.False(t, e.IsOpen())
	assert.ErrorIs(t, e.Close(), ErrNotOpen)

	require.NoError(t, e.Open())
	assert.Error(t, e.Open())
	assert.True(t, e.IsOpen())
	require.NoError(t, e.Close())
}

func TestEmulator_Images(t *testing.T) {
	e := New()

	red := image.NewUniform(color.RGBA{255, 0, 0, 255})
	require.NoError(t, e.SetKeyImage(device.KEY_2, red))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, e.KeyImage(device.KEY_2).At(0, 0))

	require.NoError(t, e.ClearKey(device.KEY_2))
	assert.Equal(t, color.RGBA{}, e.KeyImage(device.KEY_2).At(0, 0))

	assert.Error(t, e.SetKeyImage(device.KeyID(9), red))

	require.NoError(t, e.SetTouchStripImage(red))
	img, frames := e.StripImage()
	assert.Equal(t, 1, frames)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.At(799, 99))
}

func TestEmulator_Handlers(t *testing.T) {
	e := New()
	e.pressHold = time.Millisecond

	var mu sync.Mutex
	var got []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	}

	require.NoError(t, e.AddKeyHandler(device.KEY_3, func(d device.Device, k device.Key) error {
		k.WaitForRelease()
		record("key")
		return nil
	}))
	require.NoError(t, e.AddDialRotateHandler(device.DIAL_1, func(d device.Device, di device.Dial, delta int8) error {
		record("rotate")
		return nil
	}))
	require.NoError(t, e.AddDialSwitchHandler(device.DIAL_1, func(d device.Device, di device.Dial) error {
		di.WaitForRelease()
		record("press")
		return nil
	}))
	require.NoError(t, e.AddTouchStripTouchHandler(func(d device.Device, tt device.TouchStripTouchType, p image.Point) error {
		if tt == device.TOUCH_STRIP_TOUCH_TYPE_LONG && p == image.Pt(5, 6) {
			record("touch")
		}
		return nil
	}))

	e.PressKey(device.KEY_3)
	e.RotateDial(device.DIAL_1, 1)
	e.PressDial(device.DIAL_1)
	e.Touch(device.TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(5, 6))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 4
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"key", "rotate", "press", "touch"}, got)
}

func TestEmulator_ListenRequiresOpen(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.Listen(nil), ErrNotOpen)
}

func TestEmulator_ListenReturnsOnClose(t *testing.T) {
	e := New()
	require.NoError(t, e.Open())

	done := make(chan error, 1)
	go func() { done <- e.Listen(nil) }()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, e.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after Close")
	}
}
