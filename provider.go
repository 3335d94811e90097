package tourguide

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoProvider is returned when tour state is requested outside a
// mounted Provider.
var ErrNoProvider = errors.New("tourguide: no tour Provider in context; wrap the caller with WithProvider")

// Provider is the mount-scoped root of one tour. It owns the Store and the
// Orchestrator and is handed down explicitly through context.Context, so
// several independent tours can run side by side.
type Provider struct {
	ID string

	store    *Store
	registry *Registry
	doc      Document
	sink     DiagnosticSink

	now               func() time.Time
	highlightClass    string
	exitDuration      time.Duration
	initialTotalSteps int

	mu      sync.Mutex
	orch    *Orchestrator
	mounted bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithDiagnostics routes diagnostics to sink.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(p *Provider) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithClock replaces time.Now, mainly for exit-transition tests.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithInitialTotalSteps sets the total step count the Store starts with.
func WithInitialTotalSteps(n int) Option {
	return func(p *Provider) {
		p.initialTotalSteps = n
	}
}

// WithHighlightClass overrides the highlight marker class.
func WithHighlightClass(class string) Option {
	return func(p *Provider) {
		if class != "" {
			p.highlightClass = class
		}
	}
}

// WithExitDuration sets how long an exiting tooltip keeps rendering.
func WithExitDuration(d time.Duration) Option {
	return func(p *Provider) {
		if d >= 0 {
			p.exitDuration = d
		}
	}
}

// WithID sets the provider identifier (a random UUID by default).
func WithID(id string) Option {
	return func(p *Provider) {
		if id != "" {
			p.ID = id
		}
	}
}

// NewProvider creates an unmounted Provider for the given step table and
// live document.
func NewProvider(registry *Registry, doc Document, opts ...Option) *Provider {
	if registry == nil {
		registry = MustRegistry(nil)
	}
	p := &Provider{
		ID:             uuid.NewString(),
		registry:       registry,
		doc:            doc,
		sink:           LogSink{},
		now:            time.Now,
		highlightClass: DefaultHighlightClass,
		exitDuration:   DefaultExitDuration,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.store = NewStore(p.initialTotalSteps, p.sink)
	return p
}

// Mount creates the Orchestrator and synchronizes the step count into the
// Store. Mounting twice returns the same Orchestrator.
func (p *Provider) Mount() *Orchestrator {
	p.mu.Lock()
	if p.mounted {
		o := p.orch
		p.mu.Unlock()
		return o
	}
	p.orch = newOrchestrator(p)
	p.mounted = true
	o := p.orch
	p.mu.Unlock()

	o.mount()
	return o
}

// Unmount releases any held highlight and detaches from the Store.
func (p *Provider) Unmount() {
	p.mu.Lock()
	o := p.orch
	p.mounted = false
	p.orch = nil
	p.mu.Unlock()

	if o != nil {
		o.unmount()
	}
}

// Store returns the tour state store.
func (p *Provider) Store() *Store {
	return p.store
}

// Registry returns the step table.
func (p *Provider) Registry() *Registry {
	return p.registry
}

// Orchestrator returns the mounted orchestrator, or nil when unmounted.
func (p *Provider) Orchestrator() *Orchestrator {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.orch
}

// Now returns the provider clock reading.
func (p *Provider) Now() time.Time {
	return p.now()
}

type providerKey struct{}

// WithProvider returns a context carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the Provider carried by ctx.
func FromContext(ctx context.Context) (*Provider, error) {
	if p, ok := ctx.Value(providerKey{}).(*Provider); ok && p != nil {
		return p, nil
	}
	return nil, ErrNoProvider
}

// MustFromContext is like FromContext but panics when no Provider is
// mounted. Reading tour state outside a Provider is a programming error.
func MustFromContext(ctx context.Context) *Provider {
	p, err := FromContext(ctx)
	if err != nil {
		panic(fmt.Errorf("MustFromContext: %w", err))
	}
	return p
}
