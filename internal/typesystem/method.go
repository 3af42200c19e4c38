package typesystem

import (
	"reflect"
	"strings"
)

// MethodType is the calling contract a compiler declares for a call site.
type MethodType struct {
	Params []reflect.Type
	Result reflect.Type
}

// NewMethodType builds a contract returning result and taking params.
func NewMethodType(result reflect.Type, params ...reflect.Type) MethodType {
	return MethodType{Params: params, Result: result}
}

// Equal compares parameter and result types exactly.
func (m MethodType) Equal(other MethodType) bool {
	if m.Result != other.Result || len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != other.Params[i] {
			return false
		}
	}
	return true
}

func (m MethodType) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(typeName(p))
	}
	sb.WriteByte(')')
	sb.WriteString(typeName(m.Result))
	return sb.String()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
