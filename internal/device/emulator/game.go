package emulator

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/slidedeck/internal/device"
	"golang.org/x/image/draw"
)

// longTouch is how long the strip must be held to count as a long touch.
const longTouch = 500 * time.Millisecond

var digitKeys = [keyCount]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8,
}

var (
	background = color.RGBA{30, 30, 30, 255}
	bezel      = color.RGBA{60, 60, 60, 255}
	dialRing   = color.RGBA{80, 80, 80, 255}
	dialFace   = color.RGBA{70, 70, 70, 255}
	dialGroove = color.RGBA{50, 50, 50, 255}
)

// RunGUI opens the emulator window and blocks until it is closed. On macOS it
// must be called from the main goroutine.
func (e *Emulator) RunGUI() error {
	if !e.IsOpen() {
		return ErrNotOpen
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("slidedeck emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	err := ebiten.RunGame(&game{emu: e, layout: newLayout()})

	e.mu.Lock()
	close(e.listenDone)
	e.listenDone = make(chan struct{})
	e.mu.Unlock()
	return err
}

// game implements ebiten.Game.
type game struct {
	emu    *Emulator
	layout layout

	touching   bool
	touchStart image.Point
	touchTime  time.Time
}

func (g *game) Update() error {
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleMouse()
	g.handleKeyboard()
	return nil
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	cursor := image.Pt(mx, my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if key := g.layout.keyAt(cursor); key > 0 {
			g.emu.PressKey(device.KeyID(key))
			return
		}
		if dial := g.layout.dialAt(cursor); dial > 0 {
			g.emu.PressDial(device.DialID(dial))
			return
		}
		if p, ok := g.layout.stripPoint(cursor); ok {
			g.touching = true
			g.touchStart = p
			g.touchTime = time.Now()
		}
	}

	// Strip touches report where the finger went down; dragging is not a
	// gesture.
	if g.touching && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		touchType := device.TOUCH_STRIP_TOUCH_TYPE_SHORT
		if time.Since(g.touchTime) >= longTouch {
			touchType = device.TOUCH_STRIP_TOUCH_TYPE_LONG
		}
		g.emu.Touch(touchType, g.touchStart)
		g.touching = false
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		if dial := g.layout.dialAt(cursor); dial > 0 {
			g.emu.RotateDial(device.DialID(dial), int8(max(min(wheelY, 5), -5)))
		}
	}
}

// handleKeyboard maps 1-8 to keys and the arrows and space to the first dial.
func (g *game) handleKeyboard() {
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.emu.PressKey(device.KeyID(i + 1))
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.emu.RotateDial(device.DIAL_1, -1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.emu.RotateDial(device.DIAL_1, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.emu.PressDial(device.DIAL_1)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	ebitenutil.DebugPrintAt(screen, "slidedeck emulator", windowWidth/2-54, 8)

	g.emu.mu.RLock()
	keys := g.emu.keyImages
	strip := g.emu.stripImage
	level := float32(g.emu.brightness) / 100
	g.emu.mu.RUnlock()

	for i, r := range g.layout.keys {
		fillRect(screen, r.Inset(-2), bezel)
		scaled := image.NewRGBA(image.Rect(0, 0, keyDisplaySize, keyDisplaySize))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), keys[i], keys[i].Bounds(), draw.Src, nil)
		blit(screen, scaled, r.Min, level)
	}

	fillRect(screen, g.layout.strip.Inset(-2), bezel)
	blit(screen, strip, g.layout.strip.Min, level)

	for i, r := range g.layout.dials {
		radius := dialSize / 2
		c := r.Min.Add(image.Pt(radius, radius))
		fillCircle(screen, c, radius, dialRing)
		fillCircle(screen, c, radius-8, dialGroove)
		fillCircle(screen, c, radius-12, dialFace)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("D%d", i+1), c.X-8, c.Y-4)
	}

	ebitenutil.DebugPrintAt(screen,
		"Click keys or press 1-8 | Scroll dials, arrows turn D1, space presses D1 | Click or hold the strip",
		10, windowHeight-18)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

// blit draws img at p, dimmed to the device brightness.
func blit(screen *ebiten.Image, img image.Image, p image.Point, level float32) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(p.X), float64(p.Y))
	op.ColorScale.Scale(level, level, level, 1)
	screen.DrawImage(ebiten.NewImageFromImage(img), op)
}

func fillRect(screen *ebiten.Image, r image.Rectangle, c color.Color) {
	rect := ebiten.NewImage(r.Dx(), r.Dy())
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	screen.DrawImage(rect, op)
}

func fillCircle(screen *ebiten.Image, center image.Point, radius int, c color.Color) {
	d := radius * 2
	disc := image.NewRGBA(image.Rect(0, 0, d, d))
	for y := range d {
		for x := range d {
			dx, dy := x-radius, y-radius
			if dx*dx+dy*dy <= radius*radius {
				disc.Set(x, y, c)
			}
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(center.X-radius), float64(center.Y-radius))
	screen.DrawImage(ebiten.NewImageFromImage(disc), op)
}
