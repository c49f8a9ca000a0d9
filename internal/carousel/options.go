package carousel

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

const (
	// DefaultTimeout is the default autoplay interval.
	DefaultTimeout = 5 * time.Second

	// DefaultDuration is the default transition duration.
	DefaultDuration = 300 * time.Millisecond

	// DefaultEngine is the engine used when none is configured.
	DefaultEngine = "fade"

	// DefaultFrameRate is the default number of animation frames per second.
	DefaultFrameRate = 30
)

// config holds configuration options for a Carousel.
type config struct {
	startIndex int
	timeout    time.Duration
	autoplay   bool
	duration   time.Duration
	engine     string
	autoHeight bool
	frameRate  int
	curve      Curve
	hooks      Hooks
	clock      clockz.Clock
	registry   *Registry
	ctx        context.Context
	id         string
}

func defaultConfig() *config {
	return &config{
		timeout:    DefaultTimeout,
		duration:   DefaultDuration,
		engine:     DefaultEngine,
		autoHeight: true,
		frameRate:  DefaultFrameRate,
		curve:      Swing,
		hooks:      Hooks{},
		clock:      clockz.RealClock,
		registry:   DefaultRegistry,
		ctx:        context.Background(),
	}
}

// Option configures a Carousel.
type Option func(*config)

// WithStartIndex sets the slide placed at construction.
// Out-of-range values are clamped into [0, slideCount-1].
func WithStartIndex(i int) Option {
	return func(c *config) {
		c.startIndex = i
	}
}

// WithTimeout sets the autoplay interval. Zero or negative disables
// scheduling even while autoplay is on.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithAutoplay starts autoplay right after the initial placement.
func WithAutoplay(enabled bool) Option {
	return func(c *config) {
		c.autoplay = enabled
	}
}

// WithDuration sets the transition duration handed to engines.
func WithDuration(d time.Duration) Option {
	return func(c *config) {
		c.duration = d
	}
}

// WithEngine selects the transition engine by registry name.
func WithEngine(name string) Option {
	return func(c *config) {
		c.engine = name
	}
}

// WithAutoHeight toggles fitting the container to the tallest slide.
// It only has an effect when the renderer implements Sizer.
func WithAutoHeight(enabled bool) Option {
	return func(c *config) {
		c.autoHeight = enabled
	}
}

// WithFrameRate sets how many frames per second animated transitions draw.
func WithFrameRate(fps int) Option {
	return func(c *config) {
		c.frameRate = fps
	}
}

// WithCurve sets the easing curve applied to animation progress.
func WithCurve(curve Curve) Option {
	return func(c *config) {
		c.curve = curve
	}
}

// WithHooks registers a set of hooks. Entries replace hooks registered
// earlier under the same name. The map is copied.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		for name, fn := range hooks {
			c.hooks[name] = fn
		}
	}
}

// WithHook registers a single hook. The last registration for a name wins.
func WithHook(name string, fn Hook) Option {
	return func(c *config) {
		c.hooks[name] = fn
	}
}

// WithoutNavigationSync disables the default syncNavigation hook.
func WithoutNavigationSync() Option {
	return func(c *config) {
		c.hooks[HookSyncNavigation] = nil
	}
}

// WithClock sets the clock used for autoplay and animation timers.
// Use this with clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithRegistry resolves the engine from r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithContext sets the parent context. Cancelling it stops in-flight
// animations; signals are emitted with it.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithID sets the identifier attached to emitted signals.
// A random UUID is used by default.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}
