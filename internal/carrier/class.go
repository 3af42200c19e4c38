// Package carrier synthesizes fixed-arity tuple classes on first use and
// caches them by simplified shape.
//
// A Synthesizer turns a Descriptor into a Class: a raw constructor and one raw
// accessor per slot, typed to the simplified kinds. A Cache makes sure each
// simplified shape is synthesized at most once. A Factory adapts the cached
// class to the caller's declared component types.
package carrier

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/funvibe/callsite/internal/config"
	"github.com/funvibe/callsite/internal/typesystem"
	"github.com/funvibe/callsite/internal/vm"
)

// classNamespace seeds the name-based class IDs.
var classNamespace = uuid.MustParse("6f1d2b7e-4c1a-5e38-9b0d-3a6c8e2f4d17")

// Descriptor is the request handed to a Synthesizer.
type Descriptor struct {
	Shape typesystem.SimpleShape
	// Name is a Go identifier unique per shape, e.g. CarrierIntRef.
	Name string
	// ID is derived from the shape, so it is identical across processes.
	ID uuid.UUID
}

// NewDescriptor describes the class for shape.
func NewDescriptor(shape typesystem.SimpleShape) *Descriptor {
	return &Descriptor{
		Shape: shape,
		Name:  ClassName(shape),
		ID:    uuid.NewSHA1(classNamespace, []byte(shape.Descriptor())),
	}
}

func (d *Descriptor) String() string { return d.Shape.Descriptor() }

// ClassName returns the Go identifier used for shape's class.
func ClassName(shape typesystem.SimpleShape) string {
	if shape.Arity() == 0 {
		return config.CarrierTypePrefix + "Empty"
	}
	var sb strings.Builder
	sb.WriteString(config.CarrierTypePrefix)
	for _, k := range shape.Kinds() {
		name := k.String()
		sb.WriteString(strings.ToUpper(name[:1]))
		sb.WriteString(name[1:])
	}
	return sb.String()
}

// Class is a synthesized carrier type with its raw entry points.
type Class struct {
	Descriptor *Descriptor
	// Construct stores slots in order. len(slots) equals the arity.
	Construct func(slots []vm.Value) any
	// Accessors[i] reads slot i of an object made by Construct.
	Accessors []func(obj any) vm.Value
	// GoType is the synthesized Go type, when the backend has one.
	GoType reflect.Type
	// Backend names the synthesizer that produced the class.
	Backend string
}

func (c *Class) String() string {
	return fmt.Sprintf("%s%s[%s]", c.Descriptor.Name, c.Descriptor.Shape, c.Backend)
}

// validate checks that a backend honoured the descriptor.
func (c *Class) validate(d *Descriptor) error {
	switch {
	case c == nil:
		return fmt.Errorf("backend returned no class")
	case c.Descriptor == nil || !c.Descriptor.Shape.Equal(d.Shape):
		return fmt.Errorf("backend returned class for a different shape")
	case c.Construct == nil:
		return fmt.Errorf("class %s has no constructor", d.Name)
	case len(c.Accessors) != d.Shape.Arity():
		return fmt.Errorf("class %s has %d accessors, want %d", d.Name, len(c.Accessors), d.Shape.Arity())
	}
	for i, a := range c.Accessors {
		if a == nil {
			return fmt.Errorf("class %s accessor %d is nil", d.Name, i)
		}
	}
	return nil
}

// Synthesizer emits and loads carrier classes.
type Synthesizer interface {
	Synthesize(d *Descriptor) (*Class, error)
}

// SynthesizerFunc adapts a function to Synthesizer.
type SynthesizerFunc func(d *Descriptor) (*Class, error)

func (f SynthesizerFunc) Synthesize(d *Descriptor) (*Class, error) { return f(d) }
