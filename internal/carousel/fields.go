package carousel

import "github.com/zoobzio/capitan"

// Field keys for carousel signals.
var (
	// KeyCarousel is the carousel identifier.
	KeyCarousel = capitan.NewStringKey("carousel")

	// KeyIndex is the slide index after the event.
	KeyIndex = capitan.NewIntKey("index")

	// KeyPrevious is the slide index before the event.
	KeyPrevious = capitan.NewIntKey("previous")

	// KeyBound is the number of slides.
	KeyBound = capitan.NewIntKey("bound")

	// KeyDirection is the direction of the move.
	KeyDirection = capitan.NewStringKey("direction")

	// KeyEngine is the name of the transition engine.
	KeyEngine = capitan.NewStringKey("engine")

	// KeyTimeout is the autoplay interval.
	KeyTimeout = capitan.NewDurationKey("timeout")
)
