package selector

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/funvibe/callsite/internal/config"
	"github.com/funvibe/callsite/internal/diagnostics"
	"github.com/funvibe/callsite/internal/typesystem"
)

// EnumSwitchType is the calling contract of an enum switch: ordinal in, case index out.
var EnumSwitchType = typesystem.NewMethodType(reflect.TypeFor[int32](), reflect.TypeFor[int]())

// EnumTable maps an enum ordinal to a case index.
// Cell o holds caseIndex+1, or 0 when no label names constant o.
type EnumTable struct {
	enum  string
	cells []int
	cases int
}

// MakeEnumTable builds the lookup table for a switch over enum.
// Names that are not constants of enum are skipped. When a constant is named
// more than once, the last position wins.
func MakeEnumTable(enum typesystem.Enum, names []string, opts ...Option) (*EnumTable, error) {
	o := buildOptions(opts)
	if enum == nil {
		return nil, diagnostics.NewBootstrapError(config.EnumSwitchSite, "enum type", "nil")
	}
	if names == nil {
		return nil, fmt.Errorf("%s %s: %w", config.EnumSwitchSite, enum.Name(), diagnostics.ErrNullCandidateList)
	}

	t := &EnumTable{
		enum:  enum.Name(),
		cells: make([]int, len(enum.Constants())),
		cases: len(names),
	}
	for i, name := range names {
		ord, ok := enum.Ordinal(name)
		if !ok || ord < 0 || ord >= len(t.cells) {
			o.logger.Debug("unresolved enum case label skipped",
				zap.String("enum", t.enum), zap.String("label", name), zap.Int("index", i))
			continue
		}
		t.cells[ord] = i + 1
	}
	return t, nil
}

// BootstrapEnumSwitch checks the calling contract before building the table.
func BootstrapEnumSwitch(callType typesystem.MethodType, enum typesystem.Enum, names []string, opts ...Option) (*EnumTable, error) {
	if !callType.Equal(EnumSwitchType) {
		return nil, diagnostics.NewBootstrapError(config.EnumSwitchSite, EnumSwitchType.String(), callType.String())
	}
	return MakeEnumTable(enum, names, opts...)
}

// Index returns the case index for ordinal, or NoMatch.
func (t *EnumTable) Index(ordinal int) int {
	if ordinal < 0 || ordinal >= len(t.cells) || t.cells[ordinal] == config.NoMatchCell {
		return t.cases
	}
	return t.cells[ordinal] - 1
}

// IndexNullable is Index with a null selector mapped to config.NullIndex.
func (t *EnumTable) IndexNullable(ordinal *int) int {
	if ordinal == nil {
		return config.NullIndex
	}
	return t.Index(*ordinal)
}

// IndexOf resolves a constant by name through enum and returns its case index.
func (t *EnumTable) IndexOf(enum typesystem.Enum, constant string) int {
	ord, ok := enum.Ordinal(constant)
	if !ok {
		return t.cases
	}
	return t.Index(ord)
}

// NoMatch is the index returned for constants no label names.
func (t *EnumTable) NoMatch() int { return t.cases }

// Cells returns a copy of the raw table.
func (t *EnumTable) Cells() []int {
	return append([]int(nil), t.cells...)
}

// Enum returns the name of the enum the table was built for.
func (t *EnumTable) Enum() string { return t.enum }
