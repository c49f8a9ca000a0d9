package session

import (
	"context"
	"log"
	"sync"

	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/zoobzio/capitan"
)

var logSignalsOnce sync.Once

// LogSignals logs carousel lifecycle signals. Repeated calls are no-ops.
func LogSignals() {
	logSignalsOnce.Do(func() {
		capitan.Hook(carousel.CarouselInitialized, func(_ context.Context, e *capitan.Event) {
			bound, _ := carousel.KeyBound.From(e)
			engine, _ := carousel.KeyEngine.From(e)
			log.Printf("Carousel ready: %d slides, %s engine", bound, engine)
		})
		capitan.Hook(carousel.CarouselMoved, func(_ context.Context, e *capitan.Event) {
			index, _ := carousel.KeyIndex.From(e)
			previous, _ := carousel.KeyPrevious.From(e)
			dir, _ := carousel.KeyDirection.From(e)
			log.Printf("Slide %d -> %d (%s)", previous, index, dir)
		})
		capitan.Hook(carousel.CarouselPlaying, func(_ context.Context, e *capitan.Event) {
			timeout, _ := carousel.KeyTimeout.From(e)
			log.Printf("Autoplay on, every %s", timeout)
		})
		capitan.Hook(carousel.CarouselStopped, func(context.Context, *capitan.Event) {
			log.Println("Autoplay off")
		})
		capitan.Hook(carousel.CarouselClosed, func(context.Context, *capitan.Event) {
			log.Println("Carousel closed")
		})
	})
}
