// Package vm holds the slot representation shared by carrier backends.
package vm

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/callsite/internal/typesystem"
)

// Value is a tagged union for one carrier slot.
// Primitives live in Data as raw bits so they are never boxed; Obj holds references.
type Value struct {
	Kind typesystem.Kind
	Data uint64
	Obj  any
}

// Constructors

func IntVal(v int32) Value {
	return Value{Kind: typesystem.Int, Data: uint64(int64(v))}
}

func LongVal(v int64) Value {
	return Value{Kind: typesystem.Long, Data: uint64(v)}
}

func FloatVal(v float32) Value {
	return Value{Kind: typesystem.Float, Data: uint64(math.Float32bits(v))}
}

func DoubleVal(v float64) Value {
	return Value{Kind: typesystem.Double, Data: math.Float64bits(v)}
}

func BoolVal(v bool) Value {
	var data uint64
	if v {
		data = 1
	}
	return Value{Kind: typesystem.Boolean, Data: data}
}

func ByteVal(v int8) Value {
	return Value{Kind: typesystem.Byte, Data: uint64(int64(v))}
}

func ShortVal(v int16) Value {
	return Value{Kind: typesystem.Short, Data: uint64(int64(v))}
}

func CharVal(v uint16) Value {
	return Value{Kind: typesystem.Char, Data: uint64(v)}
}

func RefVal(o any) Value {
	return Value{Kind: typesystem.Reference, Obj: o}
}

// Zero returns the zero value of a kind.
func Zero(k typesystem.Kind) Value {
	return Value{Kind: k}
}

// Accessors

func (v Value) AsInt() int32     { return int32(int64(v.Data)) }
func (v Value) AsLong() int64    { return int64(v.Data) }
func (v Value) AsFloat() float32 { return math.Float32frombits(uint32(v.Data)) }
func (v Value) AsDouble() float64 {
	return math.Float64frombits(v.Data)
}
func (v Value) AsBool() bool     { return v.Data == 1 }
func (v Value) AsByte() int8     { return int8(int64(v.Data)) }
func (v Value) AsShort() int16   { return int16(int64(v.Data)) }
func (v Value) AsChar() uint16   { return uint16(v.Data) }
func (v Value) AsRef() any       { return v.Obj }
func (v Value) IsRef() bool      { return v.Kind == typesystem.Reference }
func (v Value) IsNilRef() bool   { return v.Kind == typesystem.Reference && v.Obj == nil }

// FromReflect stores rv into a slot of kind k.
// rv must already have a Go type whose KindOf is k, except for Reference slots,
// which accept anything.
func FromReflect(rv reflect.Value, k typesystem.Kind) (Value, error) {
	if k == typesystem.Reference {
		if !rv.IsValid() {
			return RefVal(nil), nil
		}
		return RefVal(rv.Interface()), nil
	}
	if !rv.IsValid() {
		return Value{}, fmt.Errorf("nil is not a %s", k)
	}
	if got := typesystem.KindOf(rv.Type()); got != k {
		return Value{}, fmt.Errorf("%s is not a %s", rv.Type(), k)
	}
	switch k {
	case typesystem.Float:
		return FloatVal(float32(rv.Float())), nil
	case typesystem.Double:
		return DoubleVal(rv.Float()), nil
	case typesystem.Boolean:
		return BoolVal(rv.Bool()), nil
	}
	if rv.CanInt() {
		return Value{Kind: k, Data: uint64(rv.Int())}, nil
	}
	return Value{Kind: k, Data: rv.Uint()}, nil
}

// Into converts the slot back to a value of the declared type t.
func (v Value) Into(t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if v.Kind == typesystem.Reference {
		if v.Obj == nil {
			switch t.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				return out, nil
			}
			return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
		}
		rv := reflect.ValueOf(v.Obj)
		if !rv.Type().AssignableTo(t) {
			return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), t)
		}
		out.Set(rv)
		return out, nil
	}
	if got := typesystem.KindOf(t); got != v.Kind {
		return reflect.Value{}, fmt.Errorf("%s slot cannot be read as %s", v.Kind, t)
	}
	switch v.Kind {
	case typesystem.Float:
		out.SetFloat(float64(v.AsFloat()))
	case typesystem.Double:
		out.SetFloat(v.AsDouble())
	case typesystem.Boolean:
		out.SetBool(v.AsBool())
	default:
		if out.CanInt() {
			out.SetInt(int64(v.Data))
		} else {
			out.SetUint(v.Data)
		}
	}
	return out, nil
}

// Equals compares kind and payload. References compare with ==, so
// uncomparable references are never equal.
func (v Value) Equals(other Value) (eq bool) {
	if v.Kind != other.Kind {
		return false
	}
	if v.Kind != typesystem.Reference {
		return v.Data == other.Data // bitwise, so NaN equals itself
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return v.Obj == other.Obj
}

// Inspect returns string representation
func (v Value) Inspect() string {
	switch v.Kind {
	case typesystem.Int:
		return fmt.Sprintf("%d", v.AsInt())
	case typesystem.Long:
		return fmt.Sprintf("%d", v.AsLong())
	case typesystem.Float:
		return fmt.Sprintf("%g", v.AsFloat())
	case typesystem.Double:
		return fmt.Sprintf("%g", v.AsDouble())
	case typesystem.Boolean:
		return fmt.Sprintf("%t", v.AsBool())
	case typesystem.Byte:
		return fmt.Sprintf("%d", v.AsByte())
	case typesystem.Short:
		return fmt.Sprintf("%d", v.AsShort())
	case typesystem.Char:
		return fmt.Sprintf("%q", rune(v.AsChar()))
	case typesystem.Reference:
		if v.Obj == nil {
			return "null"
		}
		return fmt.Sprintf("%v", v.Obj)
	default:
		return "<?>"
	}
}
