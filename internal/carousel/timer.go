package carousel

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// autoplayTimer is a one-shot, cancellable autoplay handle.
type autoplayTimer struct {
	timer clockz.Timer
	quit  chan struct{}
	once  sync.Once
}

// startAutoplay calls tick with the handle once d has elapsed, unless the
// handle is cancelled first.
func startAutoplay(clock clockz.Clock, d time.Duration, tick func(*autoplayTimer)) *autoplayTimer {
	t := &autoplayTimer{
		timer: clock.NewTimer(d),
		quit:  make(chan struct{}),
	}

	go func() {
		select {
		case <-t.timer.C():
			tick(t)
		case <-t.quit:
		}
	}()

	return t
}

// cancel stops the handle. Safe to call more than once.
func (t *autoplayTimer) cancel() {
	t.once.Do(func() {
		t.timer.Stop()
		close(t.quit)
	})
}
