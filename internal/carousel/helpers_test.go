package carousel

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

// recorder is a Renderer that logs every call.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	frames [][]Layer
}

func (r *recorder) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) ShowSlide(index int)          { r.record("show %d", index) }
func (r *recorder) SetIndicatorActive(index int) { r.record("active %d", index) }
func (r *recorder) ClearIndicators()             { r.record("clear") }

func (r *recorder) DrawFrame(layers []Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, append([]Layer(nil), layers...))
	r.calls = append(r.calls, "frame")
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Frames() [][]Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]Layer(nil), r.frames...)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.frames = nil
}

// sizedRecorder also implements Sizer.
type sizedRecorder struct {
	recorder
	tallest int
}

func (r *sizedRecorder) MeasureTallestSlide() int { return r.tallest }

func (r *sizedRecorder) ApplyContainerHeight(h int) { r.record("height %d", h) }

// hookLog records the names of fired hooks in order.
type hookLog struct {
	mu    sync.Mutex
	names []string
}

func (h *hookLog) hook(name string, next Hook) Hook {
	return func(c *Carousel) {
		h.mu.Lock()
		h.names = append(h.names, name)
		h.mu.Unlock()
		if next != nil {
			next(c)
		}
	}
}

// options registers a recording hook for every controller hook. The
// syncNavigation recorder still delegates to SyncNavigation.
func (h *hookLog) options() Option {
	return WithHooks(Hooks{
		HookMove:           h.hook(HookMove, nil),
		HookNext:           h.hook(HookNext, nil),
		HookPrevious:       h.hook(HookPrevious, nil),
		HookPlay:           h.hook(HookPlay, nil),
		HookStop:           h.hook(HookStop, nil),
		HookUpdate:         h.hook(HookUpdate, nil),
		HookSyncNavigation: h.hook(HookSyncNavigation, SyncNavigation),
	})
}

func (h *hookLog) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.names...)
}

func (h *hookLog) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = nil
}

// manualEngine holds completion callbacks until the test releases them.
type manualEngine struct {
	mu      sync.Mutex
	pending []func()
	runs    []State
}

func (e *manualEngine) Run(s State, st Stage, done func()) {
	if s.Immediate() {
		st.Show(s.Index)
		done()
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runs = append(e.runs, s)
	e.pending = append(e.pending, done)
}

func (e *manualEngine) release() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, done := range pending {
		done()
	}
}

func (e *manualEngine) Runs() []State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]State(nil), e.runs...)
}

// withManualEngine returns options selecting a fresh manualEngine.
func withManualEngine(t *testing.T) (*manualEngine, Option) {
	t.Helper()
	e := &manualEngine{}
	reg := NewRegistry()
	require.NoError(t, reg.Register("manual", e))
	return e, func(c *config) {
		c.registry = reg
		c.engine = "manual"
	}
}

// newTestCarousel builds a carousel with a fake clock and instantaneous
// transitions unless opts say otherwise.
func newTestCarousel(t *testing.T, n int, opts ...Option) (*Carousel, *recorder, *clockz.FakeClock) {
	t.Helper()
	clock := clockz.NewFakeClock()
	r := &recorder{}
	base := []Option{WithClock(clock), WithDuration(0)}
	c, err := New(n, r, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, r, clock
}

// advance moves the fake clock forward and lets timer goroutines run.
func advance(clock *clockz.FakeClock, d time.Duration) {
	clock.Advance(d)
	clock.BlockUntilReady()
}

// settleTime is how long tests wait for timer goroutines to act.
const settleTime = 20 * time.Millisecond

func requireIndex(t *testing.T, c *Carousel, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State().Index == want
	}, time.Second, time.Millisecond, "index never reached %d", want)
}

func countHook(names []string, name string) int {
	n := 0
	for _, got := range names {
		if got == name {
			n++
		}
	}
	return n
}
