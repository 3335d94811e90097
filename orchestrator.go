package tourguide

import (
	"sync"
	"time"
)

// Orchestrator wires the Registry and Store to the active Presenter and
// the navigation and progress controls.
type Orchestrator struct {
	p *Provider

	mu          sync.Mutex
	active      *presenter
	exiting     *presenter
	unsubscribe func()
}

// Frame is everything needed to render the tour at one instant.
type Frame struct {
	State     TourState
	Step      *StepView // nil when no descriptor exists for the current step
	Exiting   *StepView // previous tooltip still playing its exit transition
	Nav       NavControls
	Progress  ProgressView
	Highlight string // target selector currently carrying the highlight class

	HighlightClass string
	HighlightLayer int // z-index the client gives the highlighted target
}

func newOrchestrator(p *Provider) *Orchestrator {
	return &Orchestrator{p: p}
}

func (o *Orchestrator) mount() {
	o.unsubscribe = o.p.store.Subscribe(func(TourState) {
		o.reconcile()
	})
	o.p.store.SetTotalSteps(o.p.registry.Count())
}

func (o *Orchestrator) unmount() {
	if o.unsubscribe != nil {
		o.unsubscribe()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		o.active.deactivate()
		o.active = nil
	}
	o.exiting = nil
}

// reconcile makes the presented step match the Store. The outgoing step
// releases its highlight before the incoming step acquires one.
func (o *Orchestrator) reconcile() {
	st := o.p.store.Snapshot()

	var want *StepDescriptor
	if st.IsActive {
		if d, ok := o.p.registry.DescriptorFor(st.CurrentStep); ok {
			want = &d
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil && (want == nil || o.active.desc.StepIndex != want.StepIndex) {
		o.active.deactivate()
		if o.active.phase == PhaseExiting {
			o.exiting = o.active
		}
		o.active = nil
	}

	if want != nil && o.active == nil {
		pr := newPresenter(*want, o.p)
		pr.activate()
		o.active = pr
	}
}

// Frame returns the render model at the provider's current time.
func (o *Orchestrator) Frame() Frame {
	return o.FrameAt(o.p.now())
}

// FrameAt returns the render model at now.
func (o *Orchestrator) FrameAt(now time.Time) Frame {
	st := o.p.store.Snapshot()

	o.mu.Lock()
	defer o.mu.Unlock()

	f := Frame{
		State:          st,
		HighlightClass: o.p.highlightClass,
		HighlightLayer: LayerHighlight,
	}

	if o.exiting != nil {
		if v := o.exiting.view(now); v.Phase == PhaseExiting {
			f.Exiting = v
		} else {
			o.exiting = nil
		}
	}

	if !st.IsActive {
		return f
	}

	if o.active != nil {
		f.Step = o.active.view(now)
		if o.active.highlighted() {
			f.Highlight = o.active.desc.Target
		}
	}
	f.Nav = Navigate(st.CurrentStep, st.TotalSteps)
	f.Progress = ProgressFor(st.CurrentStep, st.TotalSteps)
	return f
}

// Navigation binds the controls for the current state to the Store.
func (o *Orchestrator) Navigation() Navigation {
	store := o.p.store
	st := store.Snapshot()
	if !st.IsActive {
		return Navigation{}
	}
	return BindNavigation(st.CurrentStep, st.TotalSteps,
		func() { store.GoToStep(st.CurrentStep + 1) },
		func() { store.GoToStep(st.CurrentStep - 1) },
		store.EndTour,
	)
}

// Start starts the tour.
func (o *Orchestrator) Start(opts StartOptions) {
	o.p.store.StartTour(opts)
}

// Next clicks the next control. It reports whether the control was shown.
func (o *Orchestrator) Next() bool {
	return o.Navigation().Next()
}

// Prev clicks the previous control.
func (o *Orchestrator) Prev() bool {
	return o.Navigation().Prev()
}

// Finish clicks the finish control.
func (o *Orchestrator) Finish() bool {
	return o.Navigation().Finish()
}

// GoTo jumps to a step; out-of-range indices end the tour.
func (o *Orchestrator) GoTo(stepIndex int) {
	o.p.store.GoToStep(stepIndex)
}

// End ends the tour from any state.
func (o *Orchestrator) End() {
	o.p.store.EndTour()
}
