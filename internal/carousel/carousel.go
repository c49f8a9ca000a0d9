package carousel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Carousel shows one of a fixed number of slides at a time and moves between
// them through a transition Engine. At most one transition is in flight;
// moves requested while one is running are dropped.
type Carousel struct {
	id         string
	engineName string
	engine     Engine
	renderer   Renderer
	sizer      Sizer
	bus        *hookBus
	clock      clockz.Clock
	stage      *stage
	parent     context.Context
	cancel     context.CancelFunc

	mu        sync.Mutex
	index     int
	previous  int
	bound     int
	direction Direction
	locked    bool
	autoplay  bool
	timeout   time.Duration
	duration  time.Duration
	seq       uint64
	timer     *autoplayTimer
	closed    bool
}

// New creates a Carousel over slideCount slides drawn by r. When slideCount
// is positive the start slide is placed immediately. Invalid configuration
// returns an error wrapping ErrConfig and no Carousel.
func New(slideCount int, r Renderer, opts ...Option) (*Carousel, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if slideCount < 0 {
		return nil, fmt.Errorf("%w: negative slide count %d", ErrConfig, slideCount)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: nil renderer", ErrConfig)
	}
	if cfg.duration < 0 {
		return nil, fmt.Errorf("%w: negative duration %v", ErrConfig, cfg.duration)
	}
	if cfg.frameRate <= 0 {
		return nil, fmt.Errorf("%w: frame rate must be positive, got %d", ErrConfig, cfg.frameRate)
	}
	if cfg.curve == nil || cfg.clock == nil || cfg.registry == nil || cfg.ctx == nil {
		return nil, fmt.Errorf("%w: nil option value", ErrConfig)
	}

	engine, err := cfg.registry.Lookup(cfg.engine)
	if err != nil {
		return nil, err
	}

	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(cfg.ctx)
	c := &Carousel{
		id:         cfg.id,
		engineName: cfg.engine,
		engine:     engine,
		renderer:   r,
		bus:        newHookBus(cfg.hooks),
		clock:      cfg.clock,
		parent:     cfg.ctx,
		cancel:     cancel,
		index:      NoIndex,
		previous:   NoIndex,
		bound:      slideCount,
		timeout:    cfg.timeout,
		duration:   cfg.duration,
	}
	if s, ok := r.(Sizer); ok && cfg.autoHeight {
		c.sizer = s
	}
	c.stage = &stage{
		carousel: c,
		renderer: r,
		clock:    cfg.clock,
		interval: time.Second / time.Duration(cfg.frameRate),
		curve:    cfg.curve,
		ctx:      ctx,
	}

	capitan.Emit(cfg.ctx, CarouselInitialized,
		KeyCarousel.Field(c.id),
		KeyBound.Field(slideCount),
		KeyEngine.Field(cfg.engine),
	)

	if slideCount > 0 {
		start := clamp(cfg.startIndex, 0, slideCount-1)
		c.move(func(int) int { return start }, DirectionSetup, false)
		if cfg.autoplay {
			if err := c.Play(); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// ID returns the identifier attached to emitted signals.
func (c *Carousel) ID() string {
	return c.id
}

// Engine returns the name of the transition engine.
func (c *Carousel) Engine() string {
	return c.engineName
}

// State returns a snapshot of the carousel.
func (c *Carousel) State() State {
	if c == nil || c.bus == nil {
		return State{Index: NoIndex, Previous: NoIndex}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Next moves to the following slide, wrapping after the last one, then fires
// the next hook. The hook fires whether or not the move was accepted.
func (c *Carousel) Next() error {
	if err := c.check(); err != nil {
		return err
	}
	c.move(func(cur int) int { return cur + 1 }, DirectionNext, false)
	c.bus.fire(HookNext, c)
	return nil
}

// Previous moves to the preceding slide, wrapping before the first one, then
// fires the previous hook. The hook fires whether or not the move was accepted.
func (c *Carousel) Previous() error {
	if err := c.check(); err != nil {
		return err
	}
	c.move(func(cur int) int { return cur - 1 }, DirectionPrevious, false)
	c.bus.fire(HookPrevious, c)
	return nil
}

// GoTo moves to target. Indexes past either end wrap around to the other.
// It reports false without changing anything when a transition is in flight,
// when there are too few slides, or when target is already shown.
func (c *Carousel) GoTo(target int, dir Direction) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	if !dir.Valid() {
		return false, fmt.Errorf("%w: invalid direction %v", ErrConfig, dir)
	}
	return c.move(func(int) int { return target }, dir, false), nil
}

// Play starts autoplay, replacing any pending tick, and fires the play hook.
// With a non-positive timeout autoplay is on but nothing is scheduled.
func (c *Carousel) Play() error {
	if err := c.check(); err != nil {
		return err
	}

	c.mu.Lock()
	c.autoplay = true
	c.rescheduleLocked()
	timeout := c.timeout
	c.mu.Unlock()

	c.bus.fire(HookPlay, c)
	capitan.Emit(c.parent, CarouselPlaying,
		KeyCarousel.Field(c.id),
		KeyTimeout.Field(timeout),
	)
	return nil
}

// Stop cancels autoplay and fires the stop hook.
func (c *Carousel) Stop() error {
	if err := c.check(); err != nil {
		return err
	}

	c.mu.Lock()
	c.autoplay = false
	c.cancelTimerLocked()
	c.mu.Unlock()

	c.bus.fire(HookStop, c)
	capitan.Emit(c.parent, CarouselStopped, KeyCarousel.Field(c.id))
	return nil
}

// Update refits the container and re-renders the current slide in place,
// then fires the update hook. Nothing is re-rendered while a transition is
// in flight.
func (c *Carousel) Update() error {
	if err := c.check(); err != nil {
		return err
	}

	if !c.move(func(cur int) int { return cur }, DirectionSetup, true) {
		c.applyHeight()
	}

	c.bus.fire(HookUpdate, c)
	s := c.State()
	capitan.Emit(c.parent, CarouselUpdated,
		KeyCarousel.Field(c.id),
		KeyIndex.Field(s.Index),
	)
	return nil
}

// Close cancels autoplay and any running animation. Later calls to the
// Carousel return ErrClosed.
func (c *Carousel) Close() error {
	if c == nil || c.bus == nil {
		return ErrNotInitialized
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	c.autoplay = false
	c.locked = false
	c.seq++
	c.cancelTimerLocked()
	c.mu.Unlock()

	c.cancel()
	capitan.Emit(c.parent, CarouselClosed, KeyCarousel.Field(c.id))
	return nil
}

// check reports whether c may be used.
func (c *Carousel) check() error {
	if c == nil || c.bus == nil {
		return ErrNotInitialized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// move runs one transition to resolve(current index). A refresh re-renders
// the current slide: it skips the same-index rule, keeps the direction and
// leaves the autoplay schedule alone. It reports whether the move was
// accepted.
func (c *Carousel) move(resolve func(cur int) int, dir Direction, refresh bool) bool {
	c.mu.Lock()
	if c.closed || c.locked || c.bound == 0 {
		c.mu.Unlock()
		return false
	}

	var target int
	if refresh {
		if c.index == NoIndex {
			c.mu.Unlock()
			return false
		}
		target = c.index
	} else {
		if dir != DirectionSetup && c.bound <= 1 {
			c.mu.Unlock()
			return false
		}
		target = normalize(resolve(c.index), c.bound)
		if target == c.index {
			c.mu.Unlock()
			return false
		}
		c.direction = dir
		c.rescheduleLocked()
	}

	c.previous = c.index
	c.index = target
	c.locked = true
	c.seq++
	seq := c.seq
	s := c.snapshotLocked()
	c.mu.Unlock()

	c.applyHeight()
	c.bus.fire(HookSyncNavigation, c)
	c.engine.Run(s, c.stage, func() { c.settle(seq) })

	if !refresh {
		// Only the initial placement is exempt from move.
		if dir != DirectionSetup || s.Previous != NoIndex {
			c.bus.fire(HookMove, c)
		}
		capitan.Emit(c.parent, CarouselMoved,
			KeyCarousel.Field(c.id),
			KeyIndex.Field(s.Index),
			KeyPrevious.Field(s.Previous),
			KeyDirection.Field(s.Direction.String()),
		)
	}
	return true
}

func (c *Carousel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// settle releases the lock taken by transition seq. Completions of
// superseded transitions are ignored.
func (c *Carousel) settle(seq uint64) {
	c.mu.Lock()
	if seq != c.seq || !c.locked {
		c.mu.Unlock()
		return
	}
	c.locked = false
	index := c.index
	c.mu.Unlock()

	capitan.Emit(c.parent, CarouselSettled,
		KeyCarousel.Field(c.id),
		KeyIndex.Field(index),
	)
}

// tick is the autoplay callback. It re-arms the timer before advancing so a
// rejected move does not end autoplay.
func (c *Carousel) tick(t *autoplayTimer) {
	c.mu.Lock()
	if c.timer != t || c.closed {
		c.mu.Unlock()
		return
	}
	c.rescheduleLocked()
	c.mu.Unlock()

	_ = c.Next()
}

// rescheduleLocked replaces the autoplay timer. c.mu must be held.
func (c *Carousel) rescheduleLocked() {
	c.cancelTimerLocked()
	if c.autoplay && c.timeout > 0 && !c.closed {
		c.timer = startAutoplay(c.clock, c.timeout, c.tick)
	}
}

func (c *Carousel) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.cancel()
		c.timer = nil
	}
}

func (c *Carousel) applyHeight() {
	if c.sizer == nil {
		return
	}
	c.sizer.ApplyContainerHeight(c.sizer.MeasureTallestSlide())
}

func (c *Carousel) snapshotLocked() State {
	return State{
		Index:     c.index,
		Previous:  c.previous,
		Bound:     c.bound,
		Direction: c.direction,
		Locked:    c.locked,
		Autoplay:  c.autoplay,
		Timeout:   c.timeout,
		Duration:  c.duration,
	}
}

// normalize wraps i into [0, bound). Only one step past either end is
// expected; anything further lands on the opposite end.
func normalize(i, bound int) int {
	switch {
	case i < 0:
		return bound - 1
	case i >= bound:
		return 0
	default:
		return i
	}
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
