package bootstrap

import (
	"errors"
	"slices"
	"testing"
)

// carrierShortRef mirrors what `callsite gen` emits for (short,ref).
type carrierShortRef struct {
	F0 int16
	F1 any
}

func init() {
	MustRegisterCarrier("(short,ref)",
		func(s []Value) any { return &carrierShortRef{F0: s[0].AsShort(), F1: s[1].AsRef()} },
		func(o any) Value { return ShortVal(o.(*carrierShortRef).F0) },
		func(o any) Value { return RefVal(o.(*carrierShortRef).F1) },
	)
}

func TestRuntimeUsesPrecompiledCarriers(t *testing.T) {
	if !slices.Contains(Precompiled(), "(short,ref)") {
		t.Fatalf("Precompiled() = %v, want (short,ref)", Precompiled())
	}

	rt := NewRuntime()
	elems, err := rt.Describe(ShapeOf(int16(3), "three"))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if elems.Class().Backend != "precompiled" {
		t.Errorf("Backend = %q, want precompiled", elems.Class().Backend)
	}
	c, err := elems.New(int16(3), "three")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n, err := Get[int16](elems.Accessors[0], c); err != nil || n != 3 {
		t.Errorf("accessor 0 = %v, %v", n, err)
	}
	if _, ok := c.Class().Construct(nil).(*carrierShortRef); !ok {
		t.Errorf("precompiled class does not build carrierShortRef")
	}

	other, err := rt.Describe(ShapeOf(true))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if other.Class().Backend != "reflect" {
		t.Errorf("unregistered shape Backend = %q, want reflect", other.Class().Backend)
	}
}

func TestRegisterCarrierRejectsDuplicates(t *testing.T) {
	err := RegisterCarrier("(short,ref)",
		func([]Value) any { return nil },
		func(any) Value { return Value{} },
		func(any) Value { return Value{} },
	)
	if err == nil {
		t.Errorf("duplicate RegisterCarrier succeeded")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("MustRegisterCarrier with bad descriptor did not panic")
		}
	}()
	MustRegisterCarrier("short,ref", func([]Value) any { return nil })
}

func TestRuntimesAreIndependent(t *testing.T) {
	a, b := NewRuntime(), NewRuntime()
	ea, err := a.Describe(ShapeOf(int64(1)))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	eb, err := b.Describe(ShapeOf(int64(1)))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if ea.Class() == eb.Class() {
		t.Errorf("independent runtimes share class %v", ea.Class())
	}
	if len(a.Classes()) != 1 || len(b.Classes()) != 1 {
		t.Errorf("Classes() = %d/%d, want 1/1", len(a.Classes()), len(b.Classes()))
	}
}

func TestRuntimesSharePrecompiledClasses(t *testing.T) {
	a, b := NewRuntime(), NewRuntime()
	ea, err := a.Describe(ShapeOf(int16(1), "one"))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	eb, err := b.Describe(ShapeOf(int16(2), []byte("two")))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if ea.Class() != eb.Class() {
		t.Errorf("precompiled (short,ref) resolved to %v and %v, want one class", ea.Class(), eb.Class())
	}
	if ea.Class().Backend != "precompiled" {
		t.Errorf("Backend = %q, want precompiled", ea.Class().Backend)
	}
}

func TestRuntimeSwitches(t *testing.T) {
	rt := NewRuntime()
	d, err := rt.StringSwitch(StringSwitchType, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("StringSwitch: %v", err)
	}
	for in, want := range map[string]int{"a": 0, "c": 2, "z": 3} {
		if got := d.Index(in); got != want {
			t.Errorf("Index(%q) = %d, want %d", in, got, want)
		}
	}
	if _, err := rt.StringSwitch(EnumSwitchType, []string{"a"}); !errors.Is(err, ErrInvalidBootstrapShape) {
		t.Errorf("StringSwitch with enum contract: err = %v", err)
	}

	enum := NewEnum("Suit", "CLUBS", "DIAMONDS", "HEARTS", "SPADES")
	table, err := rt.EnumSwitch(EnumSwitchType, enum, []string{"SPADES", "JOKER", "CLUBS"})
	if err != nil {
		t.Fatalf("EnumSwitch: %v", err)
	}
	if got := table.IndexOf(enum, "SPADES"); got != 0 {
		t.Errorf("IndexOf(SPADES) = %d, want 0", got)
	}
	if got := table.IndexOf(enum, "HEARTS"); got != 3 {
		t.Errorf("IndexOf(HEARTS) = %d, want 3", got)
	}
	if _, err := rt.EnumSwitch(EnumSwitchType, enum, nil); !errors.Is(err, ErrNullCandidateList) {
		t.Errorf("EnumSwitch(nil) err = %v", err)
	}
}
