package emulator

import (
	"image"

	"github.com/phinze/slidedeck/internal/device"
)

const (
	keySize     = device.PlusKeySize
	keyCount    = device.PlusKeyCount
	keysPerRow  = 4
	keyRows     = 2
	dialCount   = device.PlusDialCount
	stripWidth  = device.PlusStripWidth
	stripHeight = device.PlusStripHeight
)

// Window layout. Keys are drawn at 2x so they line up with the native-width
// strip; dials sit below the strip.
const (
	keyDisplaySize = 2 * keySize
	dialSize       = 120
	marginX        = 20
	marginY        = 20
	headerHeight   = 30
	stripMarginY   = 72
	dialMarginY    = 50
	bottomMarginY  = 50

	keySpacing    = (stripWidth - keysPerRow*keyDisplaySize) / (keysPerRow + 1)
	keyAreaHeight = keyRows*keyDisplaySize + (keyRows-1)*keySpacing
	dialSpacing   = (stripWidth - dialCount*dialSize) / (dialCount + 1)

	windowWidth  = 2*marginX + stripWidth
	windowHeight = headerHeight + marginY + keyAreaHeight + stripMarginY + stripHeight + dialMarginY + dialSize + bottomMarginY
)

// layout holds the on-screen position of every control. Draw and hit
// testing share it.
type layout struct {
	keys  [keyCount]image.Rectangle
	strip image.Rectangle
	dials [dialCount]image.Rectangle
}

func newLayout() layout {
	var l layout

	keysX := marginX + keySpacing
	keysY := headerHeight + marginY
	for i := range l.keys {
		row, col := i/keysPerRow, i%keysPerRow
		min := image.Pt(
			keysX+col*(keyDisplaySize+keySpacing),
			keysY+row*(keyDisplaySize+keySpacing),
		)
		l.keys[i] = image.Rectangle{Min: min, Max: min.Add(image.Pt(keyDisplaySize, keyDisplaySize))}
	}

	stripMin := image.Pt(marginX, keysY+keyAreaHeight+stripMarginY)
	l.strip = image.Rectangle{Min: stripMin, Max: stripMin.Add(image.Pt(stripWidth, stripHeight))}

	dialY := l.strip.Max.Y + dialMarginY
	for i := range l.dials {
		min := image.Pt(marginX+dialSpacing+i*(dialSize+dialSpacing), dialY)
		l.dials[i] = image.Rectangle{Min: min, Max: min.Add(image.Pt(dialSize, dialSize))}
	}

	return l
}

// keyAt returns the 1-based key under p, or 0.
func (l layout) keyAt(p image.Point) int {
	for i, r := range l.keys {
		if p.In(r) {
			return i + 1
		}
	}
	return 0
}

// dialAt returns the 1-based dial whose circle contains p, or 0.
func (l layout) dialAt(p image.Point) int {
	radius := dialSize / 2
	for i, r := range l.dials {
		c := r.Min.Add(image.Pt(radius, radius))
		d := p.Sub(c)
		if d.X*d.X+d.Y*d.Y <= radius*radius {
			return i + 1
		}
	}
	return 0
}

// stripPoint converts p to strip coordinates, clamped to the strip.
// ok is false when p is outside the strip.
func (l layout) stripPoint(p image.Point) (image.Point, bool) {
	ok := p.In(l.strip)
	local := p.Sub(l.strip.Min)
	local.X = min(max(local.X, 0), stripWidth-1)
	local.Y = min(max(local.Y, 0), stripHeight-1)
	return local, ok
}
