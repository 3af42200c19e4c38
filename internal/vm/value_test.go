package vm

import (
	"math"
	"reflect"
	"testing"

	"github.com/funvibe/callsite/internal/typesystem"
)

func TestSlotRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind typesystem.Kind
	}{
		{"int32", int32(math.MinInt32), typesystem.Int},
		{"uint32", uint32(math.MaxUint32), typesystem.Int},
		{"int64", int64(math.MinInt64), typesystem.Long},
		{"uint64", uint64(math.MaxUint64), typesystem.Long},
		{"int", -7, typesystem.Long},
		{"float32", float32(1.5), typesystem.Float},
		{"float64", math.Inf(-1), typesystem.Double},
		{"bool", true, typesystem.Boolean},
		{"int8", int8(-128), typesystem.Byte},
		{"uint8", uint8(255), typesystem.Byte},
		{"int16", int16(-300), typesystem.Short},
		{"uint16", uint16(0xFFFF), typesystem.Char},
		{"string", "hello", typesystem.Reference},
		{"slice", []int{1, 2}, typesystem.Reference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := reflect.ValueOf(tt.in)
			v, err := FromReflect(rv, tt.kind)
			if err != nil {
				t.Fatalf("FromReflect: %v", err)
			}
			if v.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", v.Kind, tt.kind)
			}
			out, err := v.Into(rv.Type())
			if err != nil {
				t.Fatalf("Into: %v", err)
			}
			if !reflect.DeepEqual(out.Interface(), tt.in) {
				t.Errorf("round trip = %#v, want %#v", out.Interface(), tt.in)
			}
		})
	}
}

func TestFromReflectKindMismatch(t *testing.T) {
	if _, err := FromReflect(reflect.ValueOf(int64(1)), typesystem.Int); err == nil {
		t.Errorf("int64 stored into an int slot")
	}
	if _, err := FromReflect(reflect.Value{}, typesystem.Double); err == nil {
		t.Errorf("nil stored into a double slot")
	}
	v, err := FromReflect(reflect.Value{}, typesystem.Reference)
	if err != nil || !v.IsNilRef() {
		t.Errorf("nil reference = %+v, %v", v, err)
	}
}

func TestIntoRejects(t *testing.T) {
	if _, err := IntVal(3).Into(reflect.TypeFor[int64]()); err == nil {
		t.Errorf("int slot read as int64")
	}
	if _, err := RefVal(nil).Into(reflect.TypeFor[string]()); err == nil {
		t.Errorf("nil read as string")
	}
	if _, err := RefVal("x").Into(reflect.TypeFor[int]()); err == nil {
		t.Errorf("string read as int")
	}
	out, err := RefVal(nil).Into(reflect.TypeFor[*int]())
	if err != nil || !out.IsNil() {
		t.Errorf("nil pointer = %v, %v", out, err)
	}
	out, err = RefVal("x").Into(reflect.TypeFor[any]())
	if err != nil || out.Interface() != "x" {
		t.Errorf("string read as any = %v, %v", out, err)
	}
}

func TestEquals(t *testing.T) {
	nan := math.NaN()
	if !DoubleVal(nan).Equals(DoubleVal(nan)) {
		t.Errorf("NaN slot should equal itself")
	}
	if DoubleVal(0).Equals(DoubleVal(math.Copysign(0, -1))) {
		t.Errorf("+0 and -0 slots should differ")
	}
	if IntVal(1).Equals(LongVal(1)) {
		t.Errorf("kinds must match")
	}
	if !RefVal("a").Equals(RefVal("a")) {
		t.Errorf("equal strings should be equal")
	}
	if RefVal([]int{1}).Equals(RefVal([]int{1})) {
		t.Errorf("uncomparable references are never equal")
	}
	if !Zero(typesystem.Boolean).Equals(BoolVal(false)) {
		t.Errorf("zero boolean should equal false")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{IntVal(-4), "-4"},
		{LongVal(1 << 40), "1099511627776"},
		{FloatVal(0.5), "0.5"},
		{BoolVal(true), "true"},
		{CharVal('A'), "'A'"},
		{RefVal(nil), "null"},
		{RefVal("x"), "x"},
		{Value{Kind: typesystem.Kind(99)}, "<?>"},
	}
	for _, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("Inspect(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
