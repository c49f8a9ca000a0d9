package slideshow

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Colors
var (
	colorBackground = color.RGBA{25, 25, 25, 255}
	colorKeyBg      = color.RGBA{40, 40, 40, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorGray       = color.RGBA{160, 160, 160, 255}
	colorDimGray    = color.RGBA{90, 90, 90, 255}
	colorDotActive  = color.RGBA{255, 255, 255, 255}
	colorDotIdle    = color.RGBA{110, 110, 110, 255}
)

// faces holds the font faces used for rendering. A face must not be used
// from two goroutines at once, so slides and keys get their own.
type faces struct {
	title    font.Face
	subtitle font.Face
	key      font.Face
}

// newFaces initializes the font faces for rendering.
func newFaces() (*faces, error) {
	ttBold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	ttRegular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	f := &faces{}
	if f.title, err = newFace(ttBold, 24); err != nil {
		return nil, fmt.Errorf("create title face: %w", err)
	}
	if f.subtitle, err = newFace(ttRegular, 16); err != nil {
		return nil, fmt.Errorf("create subtitle face: %w", err)
	}
	if f.key, err = newFace(ttBold, 18); err != nil {
		return nil, fmt.Errorf("create key face: %w", err)
	}
	return f, nil
}

func newFace(ft *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// lineHeight returns the distance from one baseline to the next.
func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// drawText draws text at the given position.
func drawText(img *image.RGBA, text string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// drawTextCentered draws text horizontally centered at the given position.
func drawTextCentered(img *image.RGBA, text string, centerX, y int, face font.Face, col color.Color) {
	width := font.MeasureString(face, text).Ceil()
	drawText(img, text, centerX-width/2, y, face, col)
}

// truncate shortens text with an ellipsis until it fits in maxWidth pixels.
func truncate(text string, maxWidth int, face font.Face) string {
	if font.MeasureString(face, text).Ceil() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		s := string(runes) + "..."
		if font.MeasureString(face, s).Ceil() <= maxWidth {
			return s
		}
	}
	return ""
}

// Drawing helpers

func fillRect(img *image.RGBA, c color.Color) {
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

func fillRectArea(img *image.RGBA, c color.Color, x, y, w, h int) {
	rect := image.Rect(x, y, x+w, y+h)
	draw.Draw(img, rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

func fillCircle(img *image.RGBA, c color.Color, cx, cy, r int) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

func drawTriangleRight(img *image.RGBA, c color.Color, x, cy, size int) {
	// Left edge at x, centered at cy
	for i := 0; i < size; i++ {
		halfH := (size - i) / 2
		for dy := -halfH; dy <= halfH; dy++ {
			img.Set(x+i, cy+dy, c)
		}
	}
}

func drawTriangleLeft(img *image.RGBA, c color.Color, x, cy, size int) {
	// Right edge at x, centered at cy
	for i := 0; i < size; i++ {
		halfH := (size - i) / 2
		for dy := -halfH; dy <= halfH; dy++ {
			img.Set(x-i, cy+dy, c)
		}
	}
}

// scaleToFit scales src to fit inside a box of the given size, preserving its
// aspect ratio.
func scaleToFit(src image.Image, box image.Point) *image.RGBA {
	b := src.Bounds()
	if b.Empty() || box.X <= 0 || box.Y <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}

	w, h := box.X, b.Dy()*box.X/b.Dx()
	if h > box.Y {
		w, h = b.Dx()*box.Y/b.Dy(), box.Y
	}
	w, h = max(w, 1), max(h, 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
