package device

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampBrightness(t *testing.T) {
	tests := []struct {
		in   int
		want byte
	}{
		{-5, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{250, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampBrightness(tt.in), "ClampBrightness(%d)", tt.in)
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "key 3", KEY_3.String())
	assert.Equal(t, "dial 1", DIAL_1.String())
	assert.Equal(t, "tap", TOUCH_STRIP_TOUCH_TYPE_SHORT.String())
	assert.Equal(t, "long tap", TOUCH_STRIP_TOUCH_TYPE_LONG.String())
	assert.Equal(t, "TouchStripTouchType(9)", TouchStripTouchType(9).String())
}

func TestPlusStripRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 800, 100), PlusStripRect)
}
