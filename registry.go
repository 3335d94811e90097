package tourguide

import (
	"fmt"
	"sort"
)

// Registry is the static, read-only table of tour steps.
type Registry struct {
	steps   []StepDescriptor
	byIndex map[int]StepDescriptor
}

// NewRegistry builds a registry from a step table. Steps are keyed by
// StepIndex, so the table may be given in any order and may be sparse.
func NewRegistry(steps []StepDescriptor) (*Registry, error) {
	r := &Registry{
		steps:   make([]StepDescriptor, 0, len(steps)),
		byIndex: make(map[int]StepDescriptor, len(steps)),
	}

	for i, step := range steps {
		if step.StepIndex < 0 {
			return nil, fmt.Errorf("step #%d: negative step index %d", i+1, step.StepIndex)
		}
		if _, dup := r.byIndex[step.StepIndex]; dup {
			return nil, fmt.Errorf("step #%d: duplicate step index %d", i+1, step.StepIndex)
		}
		if step.Position == "" {
			step.Position = PositionBottom
		}
		if !step.Position.Valid() {
			return nil, fmt.Errorf("step %d: unknown position %q", step.StepIndex, step.Position)
		}
		r.byIndex[step.StepIndex] = step
		r.steps = append(r.steps, step)
	}

	sort.Slice(r.steps, func(i, j int) bool {
		return r.steps[i].StepIndex < r.steps[j].StepIndex
	})

	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid table.
// It is meant for tables compiled into the program.
func MustRegistry(steps []StepDescriptor) *Registry {
	r, err := NewRegistry(steps)
	if err != nil {
		panic(err)
	}
	return r
}

// DescriptorFor returns the step keyed by stepIndex.
func (r *Registry) DescriptorFor(stepIndex int) (StepDescriptor, bool) {
	d, ok := r.byIndex[stepIndex]
	return d, ok
}

// Count returns the number of steps in the table.
func (r *Registry) Count() int {
	return len(r.steps)
}

// Steps returns the table ordered by StepIndex.
func (r *Registry) Steps() []StepDescriptor {
	out := make([]StepDescriptor, len(r.steps))
	copy(out, r.steps)
	return out
}
