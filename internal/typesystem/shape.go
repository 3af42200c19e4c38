package typesystem

import (
	"fmt"
	"reflect"
	"strings"
)

// Shape is the ordered list of declared component types of a carrier.
type Shape []reflect.Type

// ShapeOf builds a shape from sample values. A nil sample yields an `any` component.
func ShapeOf(samples ...any) Shape {
	shape := make(Shape, len(samples))
	for i, s := range samples {
		if s == nil {
			shape[i] = anyType
			continue
		}
		shape[i] = reflect.TypeOf(s)
	}
	return shape
}

// Arity returns the number of components.
func (s Shape) Arity() int { return len(s) }

// Simplify collapses every reference component to Reference.
func (s Shape) Simplify() SimpleShape {
	kinds := make([]Kind, len(s))
	for i, t := range s {
		kinds[i] = KindOf(t)
	}
	return SimpleShape{kinds: kinds}
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		if t == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Validate rejects shapes containing nil component types.
func (s Shape) Validate() error {
	for i, t := range s {
		if t == nil {
			return fmt.Errorf("component %d has no type", i)
		}
	}
	return nil
}

// SimpleShape is the cache key of a carrier class: kinds only.
type SimpleShape struct {
	kinds []Kind
}

// NewSimpleShape builds a simplified shape directly from kinds.
func NewSimpleShape(kinds ...Kind) SimpleShape {
	cp := make([]Kind, len(kinds))
	copy(cp, kinds)
	return SimpleShape{kinds: cp}
}

// ParseDescriptor is the inverse of Descriptor.
func ParseDescriptor(desc string) (SimpleShape, error) {
	if len(desc) < 2 || desc[0] != '(' || desc[len(desc)-1] != ')' {
		return SimpleShape{}, fmt.Errorf("malformed shape descriptor %q", desc)
	}
	body := desc[1 : len(desc)-1]
	if body == "" {
		return SimpleShape{}, nil
	}
	names := strings.Split(body, ",")
	kinds := make([]Kind, len(names))
	for i, n := range names {
		k, ok := ParseKind(n)
		if !ok {
			return SimpleShape{}, fmt.Errorf("unknown kind %q in descriptor %q", n, desc)
		}
		kinds[i] = k
	}
	return SimpleShape{kinds: kinds}, nil
}

func (s SimpleShape) Arity() int { return len(s.kinds) }

// Kind returns the kind of component i.
func (s SimpleShape) Kind(i int) Kind { return s.kinds[i] }

// Kinds returns a copy of the component kinds.
func (s SimpleShape) Kinds() []Kind {
	cp := make([]Kind, len(s.kinds))
	copy(cp, s.kinds)
	return cp
}

// Descriptor renders the shape as e.g. "(int,ref)". Equal shapes render equally.
func (s SimpleShape) Descriptor() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, k := range s.kinds {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (s SimpleShape) String() string { return s.Descriptor() }

// Equal compares kind sequences.
func (s SimpleShape) Equal(other SimpleShape) bool {
	if len(s.kinds) != len(other.kinds) {
		return false
	}
	for i := range s.kinds {
		if s.kinds[i] != other.kinds[i] {
			return false
		}
	}
	return true
}

// ReferenceCount returns the number of Reference slots.
func (s SimpleShape) ReferenceCount() int {
	n := 0
	for _, k := range s.kinds {
		if k == Reference {
			n++
		}
	}
	return n
}
