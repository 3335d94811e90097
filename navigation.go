package tourguide

// NavControls describes which navigation controls are rendered.
type NavControls struct {
	ShowPrev   bool
	ShowNext   bool
	ShowFinish bool
}

// Navigate computes the controls for a position in the tour. Previous is
// shown past the first step; the last step (or an empty tour) gets finish
// instead of next.
func Navigate(currentStep, totalSteps int) NavControls {
	last := currentStep >= totalSteps-1
	return NavControls{
		ShowPrev:   currentStep > 0,
		ShowNext:   !last,
		ShowFinish: last,
	}
}

// Navigation binds NavControls to callbacks. A control that is not
// rendered does nothing when invoked.
type Navigation struct {
	NavControls
	onNext func()
	onPrev func()
	onEnd  func()
}

// BindNavigation creates a Navigation for the given position.
func BindNavigation(currentStep, totalSteps int, onNext, onPrev, onEnd func()) Navigation {
	return Navigation{
		NavControls: Navigate(currentStep, totalSteps),
		onNext:      onNext,
		onPrev:      onPrev,
		onEnd:       onEnd,
	}
}

// Next invokes onNext if the next control is rendered.
func (n Navigation) Next() bool {
	return invokeIf(n.ShowNext, n.onNext)
}

// Prev invokes onPrev if the previous control is rendered.
func (n Navigation) Prev() bool {
	return invokeIf(n.ShowPrev, n.onPrev)
}

// Finish invokes onEnd if the finish control is rendered.
func (n Navigation) Finish() bool {
	return invokeIf(n.ShowFinish, n.onEnd)
}

func invokeIf(shown bool, fn func()) bool {
	if !shown || fn == nil {
		return false
	}
	fn()
	return true
}
