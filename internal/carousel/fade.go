package carousel

// Fade cross-dissolves the outgoing and incoming slides.
type Fade struct{}

// Run implements Engine.
func (Fade) Run(s State, st Stage, done func()) {
	if s.Immediate() {
		st.Show(s.Index)
		done()
		return
	}

	from, to := s.Previous, s.Index
	st.Animate(s.Duration, func(t float64) []Layer {
		return []Layer{
			{Index: from, Opacity: 1 - t},
			{Index: to, Opacity: t},
		}
	}, func() {
		done()
		st.Fire(HookTransitionEnd)
	})
}
