package slideshow

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/phinze/slidedeck/internal/carousel"
	"golang.org/x/image/draw"
)

// Indicator dot layout, anchored at the bottom of the strip.
const (
	dotRadius    = 3
	dotSpacing   = 16
	dotInset     = 8
	dotHitHeight = 28
)

// Strip composes carousel frames for a touch strip region. It implements
// carousel.Renderer and carousel.Sizer and is safe for concurrent use.
type Strip struct {
	size       image.Point
	invalidate func()

	mu        sync.Mutex
	slides    []*image.RGBA
	heights   []int
	frame     *image.RGBA
	visible   int
	active    int
	container int
	frames    int
}

// NewStrip creates a strip of the given size. invalidate, if set, is called
// after every drawn frame.
func NewStrip(size image.Point, invalidate func()) *Strip {
	return &Strip{
		size:       size,
		invalidate: invalidate,
		visible:    carousel.NoIndex,
		active:     carousel.NoIndex,
		container:  size.Y,
	}
}

// Size returns the strip dimensions.
func (s *Strip) Size() image.Point {
	return s.size
}

// SetSlides rasterizes slides, replacing the current set. The frame on screen
// is kept until the next draw.
func (s *Strip) SetSlides(slides []Slide, f *faces) {
	imgs := make([]*image.RGBA, len(slides))
	heights := make([]int, len(slides))
	for i, sl := range slides {
		imgs[i], heights[i] = rasterize(sl, s.size, f)
	}

	s.mu.Lock()
	s.slides = imgs
	s.heights = heights
	if s.active >= len(imgs) {
		s.active = carousel.NoIndex
	}
	s.mu.Unlock()
}

// Len returns the number of slides.
func (s *Strip) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slides)
}

// ShowSlide implements carousel.Renderer.
func (s *Strip) ShowSlide(index int) {
	s.compose([]carousel.Layer{{Index: index, Opacity: 1}})
}

// DrawFrame implements carousel.Renderer.
func (s *Strip) DrawFrame(layers []carousel.Layer) {
	s.compose(layers)
}

// SetIndicatorActive implements carousel.Renderer.
func (s *Strip) SetIndicatorActive(index int) {
	s.mu.Lock()
	s.active = index
	s.mu.Unlock()
	s.notify()
}

// ClearIndicators implements carousel.Renderer.
func (s *Strip) ClearIndicators() {
	s.mu.Lock()
	s.active = carousel.NoIndex
	s.mu.Unlock()
}

// MeasureTallestSlide implements carousel.Sizer.
func (s *Strip) MeasureTallestSlide() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	tallest := 0
	for _, h := range s.heights {
		tallest = max(tallest, h)
	}
	return tallest
}

// ApplyContainerHeight implements carousel.Sizer. Slides are cropped to a
// band of the given height centered in the strip.
func (s *Strip) ApplyContainerHeight(height int) {
	if height <= 0 || height > s.size.Y {
		height = s.size.Y
	}
	s.mu.Lock()
	s.container = height
	s.mu.Unlock()
}

// Visible returns the slide currently presented to the user: the most
// opaque layer of the latest frame.
func (s *Strip) Visible() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// ActiveIndicator returns the index of the highlighted dot, or
// carousel.NoIndex.
func (s *Strip) ActiveIndicator() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Frames returns how many frames have been composed.
func (s *Strip) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ContainerHeight returns the height applied through ApplyContainerHeight.
func (s *Strip) ContainerHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container
}

// Image returns the strip as it should appear on the device.
func (s *Strip) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	img := image.NewRGBA(image.Rectangle{Max: s.size})
	fillRect(img, colorBackground)

	if s.frame != nil {
		top := (s.size.Y - s.container) / 2
		band := image.Rect(0, top, s.size.X, top+s.container)
		draw.Draw(img, band, s.frame, band.Min, draw.Src)
	}

	// Navigation is only shown with something to navigate to
	if n := len(s.slides); n > 1 {
		for i := range n {
			c := colorDotIdle
			if i == s.active {
				c = colorDotActive
			}
			center := s.dotCenter(i, n)
			fillCircle(img, c, center.X, center.Y, dotRadius)
		}
	}

	return img
}

// DotAt returns the indicator dot under p, in strip coordinates.
func (s *Strip) DotAt(p image.Point) (int, bool) {
	n := s.Len()
	if n <= 1 || p.Y < s.size.Y-dotHitHeight || p.Y >= s.size.Y {
		return 0, false
	}
	first := s.dotCenter(0, n)
	i := int(math.Round(float64(p.X-first.X) / dotSpacing))
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func (s *Strip) dotCenter(i, n int) image.Point {
	startX := s.size.X/2 - (n-1)*dotSpacing/2
	return image.Pt(startX+i*dotSpacing, s.size.Y-dotInset)
}

func (s *Strip) compose(layers []carousel.Layer) {
	s.mu.Lock()
	frame := image.NewRGBA(image.Rectangle{Max: s.size})
	fillRect(frame, colorBackground)

	var top float64 = -1
	for _, l := range layers {
		if l.Index < 0 || l.Index >= len(s.slides) {
			continue
		}
		if l.Opacity >= top {
			top = l.Opacity
			s.visible = l.Index
		}

		alpha := uint8(math.Round(math.Max(0, math.Min(1, l.Opacity)) * 255))
		if alpha == 0 {
			continue
		}
		dx := int(math.Round(l.Offset * float64(s.size.X)))
		r := frame.Bounds().Add(image.Pt(dx, 0))
		draw.DrawMask(frame, r, s.slides[l.Index], image.Point{}, &image.Uniform{color.Alpha{alpha}}, image.Point{}, draw.Over)
	}

	s.frame = frame
	s.frames++
	s.mu.Unlock()
	s.notify()
}

func (s *Strip) notify() {
	if s.invalidate != nil {
		s.invalidate()
	}
}
