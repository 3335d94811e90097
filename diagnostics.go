package tourguide

import (
	"fmt"
	"log"
	"sync"
)

// DiagnosticKind classifies a non-fatal engine condition.
type DiagnosticKind string

const (
	DiagTargetNotFound  DiagnosticKind = "target-not-found"
	DiagInvalidSelector DiagnosticKind = "invalid-selector"
	DiagEmptyTour       DiagnosticKind = "empty-tour"
)

// Diagnostic is a warning raised by the engine. Diagnostics never stop
// the tour; they only explain a degraded step.
type Diagnostic struct {
	Kind      DiagnosticKind
	StepIndex int
	Target    string
	Message   string
}

func (d Diagnostic) String() string {
	if d.Target != "" {
		return fmt.Sprintf("%s (step %d, target %q): %s", d.Kind, d.StepIndex, d.Target, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// DiagnosticSink receives engine diagnostics.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// LogSink writes diagnostics to a standard logger.
type LogSink struct {
	Logger *log.Logger // nil uses the log package default
}

// Report implements DiagnosticSink.
func (s LogSink) Report(d Diagnostic) {
	if s.Logger != nil {
		s.Logger.Printf("[Tour] Warning: %s", d)
		return
	}
	log.Printf("[Tour] Warning: %s", d)
}

// Recorder collects diagnostics in memory.
type Recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report implements DiagnosticSink.
func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Kinds returns the recorded diagnostic kinds in order.
func (r *Recorder) Kinds() []DiagnosticKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]DiagnosticKind, 0, len(r.diags))
	for _, d := range r.diags {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}
