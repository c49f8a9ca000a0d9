package tui

import (
	"sync"

	"github.com/phinze/slidedeck/internal/carousel"
)

// Renderer records carousel output for the terminal view. The model polls
// it on every frame tick. It is safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex
	layers []carousel.Layer
	active int
	frames int
}

// NewRenderer creates an empty renderer.
func NewRenderer() *Renderer {
	return &Renderer{active: carousel.NoIndex}
}

// ShowSlide implements carousel.Renderer.
func (r *Renderer) ShowSlide(index int) {
	r.DrawFrame([]carousel.Layer{{Index: index, Opacity: 1}})
}

// DrawFrame implements carousel.Renderer.
func (r *Renderer) DrawFrame(layers []carousel.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers = append(r.layers[:0:0], layers...)
	r.frames++
}

// SetIndicatorActive implements carousel.Renderer.
func (r *Renderer) SetIndicatorActive(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = index
}

// ClearIndicators implements carousel.Renderer.
func (r *Renderer) ClearIndicators() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = carousel.NoIndex
}

// Snapshot returns the latest frame and the active indicator.
func (r *Renderer) Snapshot() ([]carousel.Layer, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]carousel.Layer(nil), r.layers...), r.active
}

// Frames returns how many frames have been drawn.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
