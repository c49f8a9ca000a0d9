package carousel

import "github.com/zoobzio/capitan"

// Carousel lifecycle signals.
var (
	// CarouselInitialized is emitted when New has validated its configuration.
	CarouselInitialized = capitan.NewSignal(
		"carousel.initialized",
		"Carousel constructed",
	)

	// CarouselClosed is emitted when Close releases the carousel.
	CarouselClosed = capitan.NewSignal(
		"carousel.closed",
		"Carousel closed",
	)
)

// Transition signals.
var (
	// CarouselMoved is emitted for every accepted move, including setup.
	CarouselMoved = capitan.NewSignal(
		"carousel.moved",
		"Transition accepted",
	)

	// CarouselSettled is emitted when an engine signals completion and the
	// lock is released.
	CarouselSettled = capitan.NewSignal(
		"carousel.settled",
		"Transition completed",
	)

	// CarouselUpdated is emitted by Update.
	CarouselUpdated = capitan.NewSignal(
		"carousel.updated",
		"Carousel re-rendered in place",
	)
)

// Autoplay signals.
var (
	// CarouselPlaying is emitted by Play.
	CarouselPlaying = capitan.NewSignal(
		"carousel.autoplay.started",
		"Autoplay started",
	)

	// CarouselStopped is emitted by Stop.
	CarouselStopped = capitan.NewSignal(
		"carousel.autoplay.stopped",
		"Autoplay stopped",
	)
)
