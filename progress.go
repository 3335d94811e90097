package tourguide

import "fmt"

// ProgressView is the read-only render model of tour progress.
type ProgressView struct {
	Current int
	Total   int
	Label   string
	Dots    []Dot
}

// Dot is one per-step indicator.
type Dot struct {
	Index  int
	Active bool
}

// ProgressFor renders "n of total" plus one dot per step. It returns an
// empty view when there are no steps.
func ProgressFor(currentStep, totalSteps int) ProgressView {
	if totalSteps <= 0 {
		return ProgressView{}
	}

	dots := make([]Dot, totalSteps)
	for i := range dots {
		dots[i] = Dot{Index: i, Active: i == currentStep}
	}

	return ProgressView{
		Current: currentStep,
		Total:   totalSteps,
		Label:   fmt.Sprintf("%d of %d", currentStep+1, totalSteps),
		Dots:    dots,
	}
}

// Empty reports whether there is nothing to render.
func (p ProgressView) Empty() bool {
	return p.Total <= 0
}
