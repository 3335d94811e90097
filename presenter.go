package tourguide

import (
	"time"
)

// Phase is the tooltip presentation phase of a step.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseEntering
	PhaseExiting
)

// String returns the CSS-friendly name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseExiting:
		return "exiting"
	default:
		return "hidden"
	}
}

// DefaultExitDuration matches the tooltip exit transition in tour.css.
const DefaultExitDuration = 200 * time.Millisecond

// presenter binds one step to its target element. The highlight marker is
// a scoped resource: activate acquires it, deactivate releases it, and a
// release happens at most once per activation.
type presenter struct {
	desc           StepDescriptor
	doc            Document
	sink           DiagnosticSink
	now            func() time.Time
	highlightClass string
	exitDuration   time.Duration

	held        Element // non-nil while the highlight is acquired
	targetFound bool
	phase       Phase
	exitedAt    time.Time
}

func newPresenter(desc StepDescriptor, p *Provider) *presenter {
	return &presenter{
		desc:           desc,
		doc:            p.doc,
		sink:           p.sink,
		now:            p.now,
		highlightClass: p.highlightClass,
		exitDuration:   p.exitDuration,
	}
}

// activate resolves the target and acquires the highlight. A missing or
// invalid target is reported and leaves the tooltip hidden.
func (pr *presenter) activate() {
	if pr.held != nil {
		return
	}

	var el Element
	var err error
	if pr.doc != nil {
		el, err = pr.doc.Query(pr.desc.Target)
	}

	switch {
	case err != nil:
		pr.sink.Report(Diagnostic{
			Kind:      DiagInvalidSelector,
			StepIndex: pr.desc.StepIndex,
			Target:    pr.desc.Target,
			Message:   err.Error(),
		})
	case el == nil:
		pr.sink.Report(Diagnostic{
			Kind:      DiagTargetNotFound,
			StepIndex: pr.desc.StepIndex,
			Target:    pr.desc.Target,
			Message:   "no element matches the step target",
		})
	default:
		el.AddClass(pr.highlightClass)
		pr.held = el
		pr.targetFound = true
		pr.phase = PhaseEntering
		return
	}

	pr.targetFound = false
	pr.phase = PhaseHidden
}

// deactivate releases the highlight and starts the exit transition.
func (pr *presenter) deactivate() {
	if pr.held != nil {
		pr.held.RemoveClass(pr.highlightClass)
		pr.held = nil
	}
	if pr.phase == PhaseEntering {
		pr.phase = PhaseExiting
		pr.exitedAt = pr.now()
	}
}

// phaseAt reports the phase at now; exiting decays to hidden once the
// exit duration has elapsed.
func (pr *presenter) phaseAt(now time.Time) Phase {
	if pr.phase == PhaseExiting && now.Sub(pr.exitedAt) >= pr.exitDuration {
		pr.phase = PhaseHidden
	}
	return pr.phase
}

func (pr *presenter) highlighted() bool {
	return pr.held != nil
}

// view builds the render model for the step at now.
func (pr *presenter) view(now time.Time) *StepView {
	return &StepView{
		StepIndex:   pr.desc.StepIndex,
		Title:       pr.desc.Title,
		Content:     pr.desc.Content,
		Position:    pr.desc.Position,
		Target:      pr.desc.Target,
		TargetFound: pr.targetFound,
		Phase:       pr.phaseAt(now),
	}
}

// StepView is the render model of a presented step.
type StepView struct {
	StepIndex   int
	Title       string
	Content     string
	Position    Position
	Target      string
	TargetFound bool
	Phase       Phase
}

// Visible reports whether the tooltip is shown (entering).
func (v *StepView) Visible() bool {
	return v != nil && v.Phase == PhaseEntering
}
