package carrier

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/callsite/internal/diagnostics"
	"github.com/funvibe/callsite/internal/typesystem"
	"github.com/funvibe/callsite/internal/vm"
)

// Factory hands out carrier elements for declared shapes.
type Factory struct {
	cache *Cache
}

// NewFactory creates a factory over cache.
func NewFactory(cache *Cache) *Factory {
	return &Factory{cache: cache}
}

// Cache returns the underlying class cache.
func (f *Factory) Cache() *Cache { return f.cache }

// Describe returns the constructor and accessors for shape. The class behind
// them is shared with every shape that simplifies to the same kinds; the
// adaptation to shape's declared types is rebuilt on every call.
func (f *Factory) Describe(shape typesystem.Shape) (*Elements, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("describe %s: %w", shape, err)
	}
	simple := shape.Simplify()
	cls, err := f.cache.Lookup(simple)
	if err != nil {
		return nil, err
	}

	e := &Elements{
		shape:     append(typesystem.Shape(nil), shape...),
		kinds:     simple.Kinds(),
		class:     cls,
		Accessors: make([]Accessor, len(shape)),
	}
	for i, t := range shape {
		e.Accessors[i] = Accessor{index: i, typ: t, class: cls, raw: cls.Accessors[i]}
	}
	return e, nil
}

// Elements are the adapted entry points of a carrier class for one declared shape.
type Elements struct {
	shape typesystem.Shape
	kinds []typesystem.Kind
	class *Class

	// Accessors[i] reads the value passed as argument i of New.
	Accessors []Accessor
}

// Carrier is an instance built by Elements.New.
type Carrier struct {
	class *Class
	obj   any
}

// Class returns the class the carrier was built with.
func (c Carrier) Class() *Class { return c.class }

// Shape returns the declared component types.
func (e *Elements) Shape() typesystem.Shape {
	return append(typesystem.Shape(nil), e.shape...)
}

// Class returns the shared underlying class.
func (e *Elements) Class() *Class { return e.class }

// New builds a carrier from one argument per component. Each argument must be
// assignable to its declared type, or a numeric value convertible to it
// without loss.
func (e *Elements) New(args ...any) (Carrier, error) {
	if len(args) != len(e.shape) {
		return Carrier{}, fmt.Errorf("carrier %s takes %d arguments, got %d", e.shape, len(e.shape), len(args))
	}
	slots := make([]vm.Value, len(args))
	for i, arg := range args {
		rv, err := coerce(arg, e.shape[i])
		if err != nil {
			return Carrier{}, fmt.Errorf("carrier %s argument %d: %w", e.shape, i, err)
		}
		slot, err := vm.FromReflect(rv, e.kinds[i])
		if err != nil {
			return Carrier{}, fmt.Errorf("carrier %s argument %d: %w", e.shape, i, err)
		}
		slots[i] = slot
	}
	return Carrier{class: e.class, obj: e.class.Construct(slots)}, nil
}

// ComponentInvoker would call fn with the components of a carrier as arguments.
func (e *Elements) ComponentInvoker(fn any) (func(Carrier) (any, error), error) {
	return nil, diagnostics.NotImplemented("carrier component invoker")
}

// BoxedComponents would extract every component of a carrier into a slice.
func (e *Elements) BoxedComponents() (func(Carrier) ([]any, error), error) {
	return nil, diagnostics.NotImplemented("carrier boxed components")
}

// Accessor reads one component of a carrier, typed to its declared type.
type Accessor struct {
	index int
	typ   reflect.Type
	class *Class
	raw   func(any) vm.Value
}

// Index is the component position.
func (a Accessor) Index() int { return a.index }

// Type is the declared component type.
func (a Accessor) Type() reflect.Type { return a.typ }

// Get returns component Index of c.
func (a Accessor) Get(c Carrier) (any, error) {
	if c.class != a.class || c.obj == nil {
		return nil, fmt.Errorf("carrier of class %v read by accessor of class %v", c.class, a.class)
	}
	rv, err := a.raw(c.obj).Into(a.typ)
	if err != nil {
		return nil, fmt.Errorf("component %d: %w", a.index, err)
	}
	return rv.Interface(), nil
}

// Get reads a component and asserts it to T.
func Get[T any](a Accessor, c Carrier) (T, error) {
	var zero T
	v, err := a.Get(c)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("component %d is %T, not %s", a.index, v, reflect.TypeFor[T]())
	}
	return t, nil
}

// coerce converts arg to a value of the declared type t.
func coerce(arg any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if arg == nil {
		if !nillable(t) {
			return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
		}
		return out, nil
	}
	rv := reflect.ValueOf(arg)
	if rv.Type().AssignableTo(t) {
		out.Set(rv)
		return out, nil
	}
	if numeric(rv.Type()) && numeric(t) && rv.CanConvert(t) {
		cv := rv.Convert(t)
		if cv.Convert(rv.Type()).Equal(rv) {
			return cv, nil
		}
		// NaN never compares equal, but it narrows to NaN.
		if rv.CanFloat() && cv.CanFloat() && math.IsNaN(rv.Float()) {
			return cv, nil
		}
		return reflect.Value{}, fmt.Errorf("%v is not representable as %s", arg, t)
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), t)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func numeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
