package carousel

// Renderer draws slides and navigation indicators. Implementations must be
// safe to call from the goroutines driving animations and autoplay.
type Renderer interface {
	// ShowSlide makes index the only visible slide, without animation.
	ShowSlide(index int)

	// DrawFrame draws one frame of a transition. Layers are painted in order.
	DrawFrame(layers []Layer)

	// SetIndicatorActive marks the navigation indicator at index as active.
	SetIndicatorActive(index int)

	// ClearIndicators removes the active marker from all indicators.
	ClearIndicators()
}

// Sizer is implemented by renderers that can fit their container to the
// tallest slide. It is only used when auto height is enabled.
type Sizer interface {
	MeasureTallestSlide() int
	ApplyContainerHeight(height int)
}

// Layer places one slide in the viewport for a single frame.
type Layer struct {
	// Index is the slide to draw.
	Index int

	// Offset is the horizontal displacement in viewport widths.
	// 0 is centered, -1 is fully off the left edge, 1 fully off the right.
	Offset float64

	// Opacity ranges from 0 (invisible) to 1 (opaque).
	Opacity float64
}
