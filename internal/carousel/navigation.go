package carousel

// SyncNavigation is the default syncNavigation hook. It clears every
// indicator and marks the one at the current index.
func SyncNavigation(c *Carousel) {
	s := c.State()
	if !s.Placed() {
		return
	}
	c.renderer.ClearIndicators()
	c.renderer.SetIndicatorActive(s.Index)
}
