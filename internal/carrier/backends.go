package carrier

import (
	"fmt"
	"reflect"

	"github.com/funvibe/callsite/internal/typesystem"
	"github.com/funvibe/callsite/internal/vm"
)

// InterpretedSynthesizer builds classes whose instances are plain slot arrays.
type InterpretedSynthesizer struct{}

type record struct {
	slots []vm.Value
}

func (InterpretedSynthesizer) Synthesize(d *Descriptor) (*Class, error) {
	n := d.Shape.Arity()
	cls := &Class{
		Descriptor: d,
		Construct: func(slots []vm.Value) any {
			r := &record{slots: make([]vm.Value, n)}
			copy(r.slots, slots)
			return r
		},
		Accessors: make([]func(any) vm.Value, n),
		Backend:   "interpreted",
	}
	for i := 0; i < n; i++ {
		cls.Accessors[i] = func(obj any) vm.Value {
			return obj.(*record).slots[i]
		}
	}
	return cls, nil
}

// ReflectSynthesizer builds a real Go struct type per shape with reflect.StructOf.
// Primitive slots are typed fields; reference slots are `any`.
type ReflectSynthesizer struct{}

func (ReflectSynthesizer) Synthesize(d *Descriptor) (cls *Class, err error) {
	defer func() {
		if r := recover(); r != nil {
			cls, err = nil, fmt.Errorf("reflect.StructOf: %v", r)
		}
	}()

	kinds := d.Shape.Kinds()
	fields := make([]reflect.StructField, len(kinds))
	for i, k := range kinds {
		fields[i] = reflect.StructField{
			Name: fmt.Sprintf("F%d", i),
			Type: k.StorageType(),
			Tag:  reflect.StructTag(fmt.Sprintf(`carrier:"%d,%s"`, i, k)),
		}
	}
	st := reflect.StructOf(fields)

	cls = &Class{
		Descriptor: d,
		GoType:     st,
		Construct: func(slots []vm.Value) any {
			p := reflect.New(st)
			e := p.Elem()
			for i, v := range slots {
				storeField(e.Field(i), v)
			}
			return p.Interface()
		},
		Accessors: make([]func(any) vm.Value, len(kinds)),
		Backend:   "reflect",
	}
	for i, k := range kinds {
		cls.Accessors[i] = func(obj any) vm.Value {
			return loadField(reflect.ValueOf(obj).Elem().Field(i), k)
		}
	}
	return cls, nil
}

func storeField(f reflect.Value, v vm.Value) {
	switch v.Kind {
	case typesystem.Reference:
		if v.Obj != nil {
			f.Set(reflect.ValueOf(v.Obj))
		}
	case typesystem.Float:
		f.SetFloat(float64(v.AsFloat()))
	case typesystem.Double:
		f.SetFloat(v.AsDouble())
	case typesystem.Boolean:
		f.SetBool(v.AsBool())
	case typesystem.Char:
		f.SetUint(uint64(v.AsChar()))
	default:
		f.SetInt(int64(v.Data))
	}
}

func loadField(f reflect.Value, k typesystem.Kind) vm.Value {
	switch k {
	case typesystem.Reference:
		return vm.RefVal(f.Interface())
	case typesystem.Float:
		return vm.FloatVal(float32(f.Float()))
	case typesystem.Double:
		return vm.DoubleVal(f.Float())
	case typesystem.Boolean:
		return vm.BoolVal(f.Bool())
	case typesystem.Char:
		return vm.CharVal(uint16(f.Uint()))
	default:
		return vm.Value{Kind: k, Data: uint64(f.Int())}
	}
}
