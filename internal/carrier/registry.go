package carrier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/funvibe/callsite/internal/typesystem"
	"github.com/funvibe/callsite/internal/vm"
)

// Registry serves classes compiled ahead of time, registered by generated
// code, and defers every other shape to a fallback synthesizer.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*Class
	fallback Synthesizer
}

// NewRegistry creates a registry. fallback may be nil, in which case
// unregistered shapes fail to synthesize.
func NewRegistry(fallback Synthesizer) *Registry {
	return &Registry{
		entries:  make(map[string]*Class),
		fallback: fallback,
	}
}

// Register adds a precompiled class for the shape descriptor desc, e.g. "(int,ref)".
func (r *Registry) Register(desc string, construct func([]vm.Value) any, accessors ...func(any) vm.Value) error {
	shape, err := typesystem.ParseDescriptor(desc)
	if err != nil {
		return err
	}
	d := NewDescriptor(shape)
	cls := &Class{
		Descriptor: d,
		Construct:  construct,
		Accessors:  accessors,
		Backend:    "precompiled",
	}
	if err := cls.validate(d); err != nil {
		return err
	}

	key := shape.Descriptor()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[key]; dup {
		return fmt.Errorf("carrier %s already registered", key)
	}
	r.entries[key] = cls
	return nil
}

// Synthesize implements Synthesizer.
func (r *Registry) Synthesize(d *Descriptor) (*Class, error) {
	r.mu.RLock()
	cls, ok := r.entries[d.Shape.Descriptor()]
	r.mu.RUnlock()
	if ok {
		return cls, nil
	}
	if r.fallback == nil {
		return nil, fmt.Errorf("no precompiled carrier for %s", d.Shape)
	}
	return r.fallback.Synthesize(d)
}

// Descriptors lists registered shapes in sorted order.
func (r *Registry) Descriptors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
