package carousel

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// stage implements Stage on top of a Renderer, stepping animations with the
// carousel's clock.
type stage struct {
	carousel *Carousel
	renderer Renderer
	clock    clockz.Clock
	interval time.Duration
	curve    Curve
	ctx      context.Context
}

// Show implements Stage.
func (s *stage) Show(index int) {
	s.renderer.ShowSlide(index)
}

// Fire implements Stage. Nothing fires once the carousel is closed or its
// context is done.
func (s *stage) Fire(hook string) {
	if s.ctx.Err() != nil || s.carousel.isClosed() {
		return
	}
	s.carousel.bus.fire(hook, s.carousel)
}

// Animate implements Stage. A deadline timer bounds the animation so done
// always runs within d, however late frame ticks are delivered.
func (s *stage) Animate(d time.Duration, frame FrameFunc, done func()) {
	if d <= 0 {
		s.renderer.DrawFrame(frame(1))
		done()
		return
	}

	s.renderer.DrawFrame(frame(0))

	start := s.clock.Now()
	deadline := s.clock.NewTimer(d)
	tick := s.clock.NewTimer(s.interval)

	go func() {
		defer tick.Stop()
		for {
			select {
			case <-s.ctx.Done():
				deadline.Stop()
				done()
				return

			case <-deadline.C():
				s.renderer.DrawFrame(frame(1))
				done()
				return

			case <-tick.C():
				progress := float64(s.clock.Since(start)) / float64(d)
				if progress >= 1 {
					// Let the deadline draw the final frame.
					progress = 1
				}
				s.renderer.DrawFrame(frame(s.curve(progress)))
				tick.Reset(s.interval)
			}
		}
	}()
}
