package module

import (
	"context"
	"image"
	"testing"

	"github.com/phinze/slidedeck/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResources(t *testing.T) {
	res := Resources{
		Keys:      []KeyID{Key1, Key2, Key3},
		Dials:     []DialID{Dial1},
		StripRect: image.Rect(200, 0, 400, 100),
	}

	assert.True(t, res.HasKeys())
	assert.True(t, res.HasDials())
	assert.True(t, res.HasStrip())
	assert.True(t, res.OwnsKey(Key2))
	assert.False(t, res.OwnsKey(Key8))
	assert.True(t, res.OwnsDial(Dial1))
	assert.False(t, res.OwnsDial(Dial4))
	assert.Equal(t, 2, res.KeyIndex(Key3))
	assert.Equal(t, -1, res.KeyIndex(Key5))

	assert.True(t, res.OwnsStripPoint(image.Pt(250, 50)))
	assert.False(t, res.OwnsStripPoint(image.Pt(400, 50)))
	assert.False(t, Resources{}.OwnsStripPoint(image.Pt(0, 0)))
}

func TestTouchStripEventFromDevice(t *testing.T) {
	tap := TouchStripEventFromDevice(device.TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(10, 20))
	assert.Equal(t, TouchStripEvent{Type: TouchTap, Point: image.Pt(10, 20)}, tap)

	long := TouchStripEventFromDevice(device.TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(1, 2))
	assert.Equal(t, TouchLongTap, long.Type)
	assert.Equal(t, "long tap", long.Type.String())

	local := tap.Translate(image.Pt(5, 0))
	assert.Equal(t, image.Pt(5, 20), local.Point)
	assert.Equal(t, image.Pt(10, 20), tap.Point)
}

func TestBaseModule(t *testing.T) {
	b := NewBaseModule("base")
	assert.Equal(t, "base", b.ID())

	// Invalidate before SetInvalidate is a no-op.
	b.Invalidate()

	calls := 0
	b.SetInvalidate(func() { calls++ })
	b.Invalidate()
	assert.Equal(t, 1, calls)

	res := Resources{Keys: []KeyID{Key1}}
	require.NoError(t, b.Init(context.Background(), res))
	assert.Equal(t, res, b.Resources())

	ctx := b.Context()
	require.NoError(t, b.Stop())
	assert.Error(t, ctx.Err())
}

func TestIDConversions(t *testing.T) {
	assert.Equal(t, device.KEY_4, Key4.Device())
	assert.Equal(t, Key4, KeyIDFromDevice(device.KEY_4))
	assert.Equal(t, device.DIAL_2, Dial2.Device())
	assert.Equal(t, Dial2, DialIDFromDevice(device.DIAL_2))
}
