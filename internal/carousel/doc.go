/*
Package carousel implements a rotating slide carousel: exactly one slide is
visible at a time, moved manually (Next, Previous, GoTo) or by an autoplay
timer, with a pluggable transition Engine and synchronized navigation
indicators.

The Carousel owns the current index, the single-flight transition lock and
the autoplay timer. Drawing is delegated to a Renderer supplied by the caller;
transitions are drawn by an Engine selected by name from a Registry.

# Basic Usage

	c, err := carousel.New(len(slides), renderer,
	    carousel.WithEngine("slide"),
	    carousel.WithTimeout(4*time.Second),
	    carousel.WithHook(carousel.HookMove, func(c *carousel.Carousel) {
	        log.Printf("now showing %d", c.State().Index)
	    }),
	)
	if err != nil {
	    return err
	}
	defer c.Close()

	c.Play()

# Locking

A move arriving while another transition is still animating is dropped and
GoTo reports false. Callers that need every move to land should wait for the
move hook (or the transitionEnd hook fired by the built-in engines) and retry.

# Signals

Lifecycle steps are emitted as capitan signals (see signals.go) so observers
can log or measure carousel activity without registering hooks.
*/
package carousel
