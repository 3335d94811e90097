package tourguide

import (
	"sync"
)

// TourState is the observable state of one tour run.
// CurrentStep is only meaningful while IsActive is true.
type TourState struct {
	CurrentStep int  `json:"currentStep"`
	IsActive    bool `json:"isActive"`
	TotalSteps  int  `json:"totalSteps"`
}

// StartOptions configures StartTour. Nil fields mean "not provided".
type StartOptions struct {
	InitialStep        *int
	TotalStepsOverride *int
}

// AtStep returns options that start the tour at step k.
func AtStep(k int) StartOptions {
	return StartOptions{InitialStep: &k}
}

// WithTotal returns a copy of o that also overrides the total step count.
func (o StartOptions) WithTotal(n int) StartOptions {
	o.TotalStepsOverride = &n
	return o
}

// Store owns TourState. It is the single writer of tour state; every
// mutation goes through one of its operations.
type Store struct {
	mu        sync.Mutex
	state     TourState
	listeners []*listener
	sink      DiagnosticSink

	// pending holds states not yet delivered to listeners. Only the
	// goroutine that set dispatching drains it.
	pending     []TourState
	dispatching bool
}

type listener struct {
	fn func(TourState)
}

// NewStore creates an inactive store with the given total step count.
func NewStore(initialTotalSteps int, sink DiagnosticSink) *Store {
	if sink == nil {
		sink = LogSink{}
	}
	if initialTotalSteps < 0 {
		initialTotalSteps = 0
	}
	return &Store{
		state: TourState{TotalSteps: initialTotalSteps},
		sink:  sink,
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() TourState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every operation with the
// resulting state. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(TourState)) func() {
	l := &listener{fn: fn}

	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, candidate := range s.listeners {
				if candidate == l {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// StartTour activates the tour. No bounds validation is performed against
// TotalSteps; starting an empty tour is reported but allowed.
func (s *Store) StartTour(opts StartOptions) {
	var total int
	s.update(func(st *TourState) {
		if opts.TotalStepsOverride != nil {
			st.TotalSteps = *opts.TotalStepsOverride
		}
		st.CurrentStep = 0
		if opts.InitialStep != nil {
			st.CurrentStep = *opts.InitialStep
		}
		st.IsActive = true
		total = st.TotalSteps
	})

	if total <= 0 {
		s.sink.Report(Diagnostic{
			Kind:    DiagEmptyTour,
			Message: "tour started with no steps",
		})
	}
}

// EndTour deactivates the tour and rewinds to the first step.
func (s *Store) EndTour() {
	s.update(endTour)
}

// GoToStep moves to stepIndex. Navigating outside [0, TotalSteps) ends
// the tour instead of clamping.
func (s *Store) GoToStep(stepIndex int) {
	s.update(func(st *TourState) {
		if stepIndex < 0 || stepIndex >= st.TotalSteps {
			endTour(st)
			return
		}
		st.CurrentStep = stepIndex
	})
}

// SetTotalSteps overwrites the step count. CurrentStep is left as is even
// if it is now out of range.
func (s *Store) SetTotalSteps(count int) {
	s.update(func(st *TourState) {
		st.TotalSteps = count
	})
}

func endTour(st *TourState) {
	st.IsActive = false
	st.CurrentStep = 0
}

// update applies fn under the lock and queues the resulting state for
// delivery. Listeners run outside the lock and may read the store or
// dispatch further operations; states dispatched while a delivery round is
// running are delivered in order once that round finishes, so every
// listener sees every state in the order it was produced.
func (s *Store) update(fn func(*TourState)) {
	s.mu.Lock()
	fn(&s.state)
	s.pending = append(s.pending, s.state)
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	s.drain()
}

func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]*listener, len(s.listeners))
		copy(listeners, s.listeners)
		s.mu.Unlock()

		s.deliver(listeners, snap)
	}
}

// deliver calls each listener with snap. A panicking listener must not
// leave the store stuck in dispatching mode.
func (s *Store) deliver(listeners []*listener, snap TourState) {
	ok := false
	defer func() {
		if !ok {
			s.mu.Lock()
			s.pending = nil
			s.dispatching = false
			s.mu.Unlock()
		}
	}()
	for _, l := range listeners {
		l.fn(snap)
	}
	ok = true
}
