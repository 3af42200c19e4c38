package typesystem

import (
	"fmt"
	"reflect"

	"github.com/funvibe/callsite/internal/config"
)

// Kind is the storage class of one carrier component.
// Every primitive keeps its own kind; all other types share Reference.
type Kind uint8

const (
	Reference Kind = iota
	Int
	Long
	Float
	Double
	Boolean
	Byte
	Short
	Char
)

var kindNames = [...]string{
	Reference: config.ReferenceKindName,
	Int:       config.IntKindName,
	Long:      config.LongKindName,
	Float:     config.FloatKindName,
	Double:    config.DoubleKindName,
	Boolean:   config.BooleanKindName,
	Byte:      config.ByteKindName,
	Short:     config.ShortKindName,
	Char:      config.CharKindName,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsPrimitive reports whether values of this kind are stored unboxed.
func (k Kind) IsPrimitive() bool { return k != Reference }

// StorageType is the Go type a synthesized slot of this kind is declared with.
func (k Kind) StorageType() reflect.Type {
	switch k {
	case Int:
		return reflect.TypeFor[int32]()
	case Long:
		return reflect.TypeFor[int64]()
	case Float:
		return reflect.TypeFor[float32]()
	case Double:
		return reflect.TypeFor[float64]()
	case Boolean:
		return reflect.TypeFor[bool]()
	case Byte:
		return reflect.TypeFor[int8]()
	case Short:
		return reflect.TypeFor[int16]()
	case Char:
		return reflect.TypeFor[uint16]()
	default:
		return anyType
	}
}

var anyType = reflect.TypeFor[any]()

// KindOf maps a declared Go type onto its component kind.
// Integer kinds are bucketed by width, so uint32 stores as Int and uint8 as Byte.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return Reference
	}
	switch t.Kind() {
	case reflect.Int32, reflect.Uint32:
		return Int
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint, reflect.Uintptr:
		return Long
	case reflect.Float32:
		return Float
	case reflect.Float64:
		return Double
	case reflect.Bool:
		return Boolean
	case reflect.Int8, reflect.Uint8:
		return Byte
	case reflect.Int16:
		return Short
	case reflect.Uint16:
		return Char
	default:
		return Reference
	}
}

// ParseKind resolves a kind name as written in descriptors.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return Reference, false
}
