// Package slideshow provides a Stream Deck module that rotates configured
// slides across the touch strip.
package slideshow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"reflect"
	"sync"

	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/phinze/slidedeck/internal/config"
	"github.com/phinze/slidedeck/internal/module"
)

// Module drives a carousel from keys, the first dial and the touch strip.
//
// Keys, in allocation order: previous, play/pause, next, position.
type Module struct {
	module.BaseModule

	extra []carousel.Option
	faces *faces

	mu       sync.RWMutex
	cfg      *config.Config
	gen      uint64 // bumped by every Reload
	strip    *Strip
	carousel *carousel.Carousel
}

// Option configures a Module.
type Option func(*Module)

// WithCarouselOptions appends options to every carousel the module builds.
// They are applied after the configured ones.
func WithCarouselOptions(opts ...carousel.Option) Option {
	return func(m *Module) {
		m.extra = append(m.extra, opts...)
	}
}

// New creates a slideshow module for cfg.
func New(cfg *config.Config, opts ...Option) *Module {
	m := &Module{
		BaseModule: module.NewBaseModule("slideshow"),
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the slides and places the start slide.
func (m *Module) Init(ctx context.Context, res module.Resources) error {
	if err := m.BaseModule.Init(ctx, res); err != nil {
		return err
	}
	if !res.HasStrip() {
		return fmt.Errorf("slideshow needs a touch strip region")
	}

	f, err := newFaces()
	if err != nil {
		return err
	}
	m.faces = f

	for {
		m.mu.RLock()
		cfg, gen := m.cfg, m.gen
		m.mu.RUnlock()

		slides, err := LoadSlides(m.Context(), cfg.Slides, NewImageLoader(cfg.ImageToken))
		if err != nil {
			return err
		}

		m.mu.Lock()
		if m.gen != gen {
			// Reloaded while loading; start over from the newer config.
			m.mu.Unlock()
			continue
		}

		m.strip = NewStrip(res.StripRect.Size(), m.Invalidate)
		m.strip.SetSlides(slides, m.faces)

		c, err := m.newCarousel(cfg)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.carousel = c
		m.mu.Unlock()

		log.Printf("Slideshow module initialized with %d slides", len(slides))
		return nil
	}
}

// Stop closes the carousel and shuts down the module.
func (m *Module) Stop() error {
	m.mu.Lock()
	c := m.carousel
	m.mu.Unlock()

	if c != nil {
		if err := c.Close(); err != nil && !errors.Is(err, carousel.ErrClosed) {
			log.Printf("Failed to close carousel: %v", err)
		}
	}
	return m.BaseModule.Stop()
}

// Carousel returns the carousel currently driven by the module.
func (m *Module) Carousel() *carousel.Carousel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carousel
}

// Strip returns the renderer behind the touch strip.
func (m *Module) Strip() *Strip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strip
}

// Reload applies a new configuration. With the same slide count and
// carousel settings the slides are redrawn in place; otherwise the carousel
// is rebuilt at the same position, keeping autoplay running if it was.
// Before Init completes the config is only stored and Init picks it up. A
// reload overtaken by a newer one is dropped. After Stop it returns
// ErrClosed.
func (m *Module) Reload(cfg *config.Config) error {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	if m.carousel == nil {
		m.cfg = cfg
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	slides, err := LoadSlides(m.Context(), cfg.Slides, NewImageLoader(cfg.ImageToken))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return nil
	}

	old := m.carousel
	prev := old.State()

	sameShape := len(slides) == prev.Bound && reflect.DeepEqual(cfg.Carousel, m.cfg.Carousel)
	m.cfg = cfg

	if sameShape {
		m.strip.SetSlides(slides, m.faces)
		return old.Update()
	}

	if err := old.Close(); err != nil {
		return err
	}
	m.strip.SetSlides(slides, m.faces)

	start := max(prev.Index, 0)
	c, err := m.newCarousel(cfg,
		carousel.WithStartIndex(start),
		carousel.WithAutoplay(prev.Autoplay),
	)
	if err != nil {
		return err
	}
	m.carousel = c

	log.Printf("Slideshow rebuilt with %d slides", len(slides))
	return nil
}

// newCarousel builds a carousel over the strip. Callers hold m.mu.
func (m *Module) newCarousel(cfg *config.Config, overrides ...carousel.Option) (*carousel.Carousel, error) {
	opts, err := cfg.Carousel.Options()
	if err != nil {
		return nil, err
	}

	redraw := func(*carousel.Carousel) { m.Invalidate() }
	opts = append(opts,
		carousel.WithContext(m.Context()),
		carousel.WithID(m.ID()),
		carousel.WithHook(carousel.HookMove, redraw),
		carousel.WithHook(carousel.HookPlay, redraw),
		carousel.WithHook(carousel.HookStop, redraw),
		carousel.WithHook(carousel.HookUpdate, redraw),
	)
	opts = append(opts, m.extra...)
	opts = append(opts, overrides...)

	return carousel.New(m.strip.Len(), m.strip, opts...)
}

// RenderKeys returns images for the module's keys.
func (m *Module) RenderKeys() map[module.KeyID]image.Image {
	c := m.Carousel()
	if c == nil {
		return nil
	}
	st := c.State()
	enabled := st.Bound > 1

	keys := make(map[module.KeyID]image.Image)
	for i, id := range m.Resources().Keys {
		switch i {
		case 0:
			keys[id] = drawPrevIcon(keySize, enabled)
		case 1:
			if st.Autoplay {
				keys[id] = drawPauseIcon(keySize, enabled)
			} else {
				keys[id] = drawPlayIcon(keySize, enabled)
			}
		case 2:
			keys[id] = drawNextIcon(keySize, enabled)
		case 3:
			keys[id] = drawPositionIcon(keySize, st.Index, st.Bound, m.faces.key)
		}
	}
	return keys
}

// RenderStrip returns the touch strip image.
func (m *Module) RenderStrip() image.Image {
	s := m.Strip()
	if s == nil {
		return nil
	}
	return s.Image()
}

// HandleKey processes key events.
func (m *Module) HandleKey(id module.KeyID, event module.KeyEvent) error {
	// Only trigger on press (not release)
	if !event.Pressed {
		return nil
	}
	c := m.Carousel()
	if c == nil {
		return carousel.ErrNotInitialized
	}

	switch m.Resources().KeyIndex(id) {
	case 0:
		return c.Previous()
	case 1:
		return togglePlay(c)
	case 2:
		return c.Next()
	}
	return nil
}

// HandleDial processes events from the first allocated dial. Rotation moves
// one slide per event regardless of the number of detents.
func (m *Module) HandleDial(id module.DialID, event module.DialEvent) error {
	dials := m.Resources().Dials
	if len(dials) == 0 || id != dials[0] {
		return nil
	}
	c := m.Carousel()
	if c == nil {
		return carousel.ErrNotInitialized
	}

	switch event.Type {
	case module.DialRotate:
		switch {
		case event.Delta > 0:
			return c.Next()
		case event.Delta < 0:
			return c.Previous()
		}
	case module.DialPress:
		return togglePlay(c)
	}
	return nil
}

// HandleStripTouch jumps to a tapped indicator dot, advances on any other
// tap and refreshes the current slide on a long tap.
func (m *Module) HandleStripTouch(event module.TouchStripEvent) error {
	c := m.Carousel()
	s := m.Strip()
	if c == nil || s == nil {
		return carousel.ErrNotInitialized
	}

	switch event.Type {
	case module.TouchTap:
		if i, ok := s.DotAt(event.Point); ok {
			_, err := c.GoTo(i, carousel.DirectionRandom)
			return err
		}
		return c.Next()
	case module.TouchLongTap:
		return c.Update()
	}
	return nil
}

func togglePlay(c *carousel.Carousel) error {
	if c.State().Autoplay {
		return c.Stop()
	}
	return c.Play()
}
