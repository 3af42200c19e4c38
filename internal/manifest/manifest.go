// Package manifest reads call-site manifests: YAML files describing the
// switch call sites and carrier shapes a compiler emitted, with optional
// probe inputs to run against them.
//
// Example:
//
//	enums:
//	  - name: Color
//	    constants: [RED, GREEN, BLUE]
//	string_switches:
//	  - name: greet
//	    labels: [hello, hi, hello]
//	    probes: [hi, bye]
//	    probe_null: true
//	enum_switches:
//	  - name: paint
//	    enum: Color
//	    labels: [BLUE, RED]
//	    probes: [RED, GREEN]
//	carriers:
//	  - name: point
//	    components: [int, string]
//	    values: [10, x]
package manifest

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/callsite/internal/config"
)

// Manifest is the top-level manifest document.
type Manifest struct {
	Enums          []EnumDecl     `yaml:"enums,omitempty"`
	StringSwitches []StringSwitch `yaml:"string_switches,omitempty"`
	EnumSwitches   []EnumSwitch   `yaml:"enum_switches,omitempty"`
	Carriers       []CarrierShape `yaml:"carriers,omitempty"`
}

// EnumDecl declares an enum type. Ordinals follow the order of Constants.
type EnumDecl struct {
	Name      string   `yaml:"name"`
	Constants []string `yaml:"constants"`
}

// StringSwitch is a switch over a string selector.
type StringSwitch struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`

	// Probes are selector values to dispatch.
	Probes []string `yaml:"probes,omitempty"`

	// ProbeNull also dispatches a null selector.
	ProbeNull bool `yaml:"probe_null,omitempty"`
}

// EnumSwitch is a switch over a constant of a declared enum.
type EnumSwitch struct {
	Name   string   `yaml:"name"`
	Enum   string   `yaml:"enum"`
	Labels []string `yaml:"labels"`

	// Probes are constant names to dispatch.
	Probes []string `yaml:"probes,omitempty"`
}

// CarrierShape declares a carrier by component type names.
type CarrierShape struct {
	Name       string   `yaml:"name"`
	Components []string `yaml:"components"`

	// Values, when present, are packed into a carrier and read back.
	Values []any `yaml:"values,omitempty"`
}

// componentTypes maps manifest type names to Go component types.
var componentTypes = map[string]reflect.Type{
	"int":     reflect.TypeFor[int32](),
	"long":    reflect.TypeFor[int64](),
	"float":   reflect.TypeFor[float32](),
	"double":  reflect.TypeFor[float64](),
	"boolean": reflect.TypeFor[bool](),
	"byte":    reflect.TypeFor[int8](),
	"short":   reflect.TypeFor[int16](),
	"char":    reflect.TypeFor[uint16](),
	"string":  reflect.TypeFor[string](),
	"bytes":   reflect.TypeFor[[]byte](),
	"any":     reflect.TypeFor[any](),
}

// ComponentType resolves a component type name.
func ComponentType(name string) (reflect.Type, error) {
	t, ok := componentTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown component type %q (known: %s)", name, strings.Join(ComponentTypeNames(), ", "))
	}
	return t, nil
}

// ComponentValue converts a decoded YAML value to the component type t.
// YAML yields float64 for every decimal and string for every scalar text, so
// float components narrow finite decimals, char components take a single
// character and bytes components take a string. Other values pass through
// unchanged for the carrier constructor to check.
func ComponentValue(t reflect.Type, v any) (any, error) {
	switch t {
	case componentTypes["float"]:
		if f, ok := v.(float64); ok {
			if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
				return nil, fmt.Errorf("%v overflows float", f)
			}
			return float32(f), nil
		}
	case componentTypes["char"]:
		if s, ok := v.(string); ok {
			r := []rune(s)
			if len(r) != 1 || r[0] > math.MaxUint16 {
				return nil, fmt.Errorf("%q is not a single char", s)
			}
			return uint16(r[0]), nil
		}
	case componentTypes["bytes"]:
		if s, ok := v.(string); ok {
			return []byte(s), nil
		}
	}
	return v, nil
}

// Args converts Values to the declared component types.
func (c CarrierShape) Args() ([]any, error) {
	if len(c.Values) != len(c.Components) {
		return nil, fmt.Errorf("%d values for %d components", len(c.Values), len(c.Components))
	}
	args := make([]any, len(c.Values))
	for i, v := range c.Values {
		t, err := ComponentType(c.Components[i])
		if err != nil {
			return nil, err
		}
		if args[i], err = ComponentValue(t, v); err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, c.Components[i], err)
		}
	}
	return args, nil
}

// ComponentTypeNames lists the recognized component type names.
func ComponentTypeNames() []string {
	names := make([]string, 0, len(componentTypes))
	for n := range componentTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsManifestFile checks if a path has a recognized manifest extension.
func IsManifestFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	if !IsManifestFile(path) {
		return nil, fmt.Errorf("%s: not a manifest (want %s)", path, strings.Join(config.SourceFileExtensions, " or "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses manifest content from bytes.
// The path argument is used only for error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

// Enum returns the enum declared under name.
func (m *Manifest) Enum(name string) (EnumDecl, bool) {
	for _, e := range m.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return EnumDecl{}, false
}

// validate checks the manifest for semantic errors.
func (m *Manifest) validate(path string) error {
	if len(m.StringSwitches)+len(m.EnumSwitches)+len(m.Carriers) == 0 {
		return fmt.Errorf("%s: no call sites defined", path)
	}

	names := make(map[string]string) // name → section (for conflict detection)
	claim := func(section string, i int, name string) error {
		if name == "" {
			return fmt.Errorf("%s: %s[%d]: name is required", path, section, i)
		}
		if prev, dup := names[name]; dup {
			return fmt.Errorf("%s: %s[%d]: name %q already used in %s", path, section, i, name, prev)
		}
		names[name] = section
		return nil
	}

	for i, e := range m.Enums {
		if err := claim("enums", i, e.Name); err != nil {
			return err
		}
		seen := make(map[string]bool, len(e.Constants))
		for _, c := range e.Constants {
			if seen[c] {
				return fmt.Errorf("%s: enums[%d] (%s): duplicate constant %q", path, i, e.Name, c)
			}
			seen[c] = true
		}
	}

	for i, s := range m.StringSwitches {
		if err := claim("string_switches", i, s.Name); err != nil {
			return err
		}
		if s.Labels == nil {
			return fmt.Errorf("%s: string_switches[%d] (%s): labels is required", path, i, s.Name)
		}
	}

	for i, s := range m.EnumSwitches {
		if err := claim("enum_switches", i, s.Name); err != nil {
			return err
		}
		if s.Labels == nil {
			return fmt.Errorf("%s: enum_switches[%d] (%s): labels is required", path, i, s.Name)
		}
		if _, ok := m.Enum(s.Enum); !ok {
			return fmt.Errorf("%s: enum_switches[%d] (%s): unknown enum %q", path, i, s.Name, s.Enum)
		}
	}

	for i, c := range m.Carriers {
		if err := claim("carriers", i, c.Name); err != nil {
			return err
		}
		for j, comp := range c.Components {
			if _, err := ComponentType(comp); err != nil {
				return fmt.Errorf("%s: carriers[%d].components[%d] (%s): %w", path, i, j, c.Name, err)
			}
		}
		if c.Values != nil && len(c.Values) != len(c.Components) {
			return fmt.Errorf("%s: carriers[%d] (%s): %d values for %d components",
				path, i, c.Name, len(c.Values), len(c.Components))
		}
	}
	return nil
}
