package editor

// ScrollPolicy lists the scroll affordances a surface may offer. Typing and
// cursor movement are never governed by it.
type ScrollPolicy struct {
	Vertical   bool
	Horizontal bool
	Wheel      bool
}

// ScrollPolicyFor returns the policy for the given presentation: scrolling is
// locked while embedded in the page and unlocked in fullscreen.
func ScrollPolicyFor(fullscreen bool) ScrollPolicy {
	return ScrollPolicy{
		Vertical:   fullscreen,
		Horizontal: fullscreen,
		Wheel:      fullscreen,
	}
}
