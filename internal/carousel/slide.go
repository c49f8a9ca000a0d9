package carousel

// Slide pushes the outgoing slide off the viewport while the incoming slide
// enters from the opposite edge. Previous moves right; everything else left.
type Slide struct{}

// Run implements Engine.
func (Slide) Run(s State, st Stage, done func()) {
	if s.Immediate() {
		st.Show(s.Index)
		done()
		return
	}

	sense := 1.0
	if s.Direction == DirectionPrevious {
		sense = -1.0
	}

	from, to := s.Previous, s.Index
	st.Animate(s.Duration, func(t float64) []Layer {
		return []Layer{
			{Index: from, Offset: -sense * t, Opacity: 1},
			{Index: to, Offset: sense * (1 - t), Opacity: 1},
		}
	}, func() {
		done()
		st.Fire(HookTransitionEnd)
	})
}
