// Package selector builds the dispatch structures behind switch call sites:
// a string dispatcher and an enum ordinal table.
package selector

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/funvibe/callsite/internal/config"
	"github.com/funvibe/callsite/internal/diagnostics"
	"github.com/funvibe/callsite/internal/typesystem"
)

// StringSwitchType is the only calling contract a string switch accepts.
var StringSwitchType = typesystem.NewMethodType(reflect.TypeFor[int32](), reflect.TypeFor[string]())

// Option configures a bootstrap.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used during bootstrap.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dispatcher maps a string to the index of the first case label equal to it.
// It is immutable and shared by every execution of its call site.
type Dispatcher struct {
	labels []string
	table  labelMap
}

// MakeStringDispatcher bootstraps a string switch call site.
// A nil labels slice is rejected; an empty one yields a dispatcher that never matches.
func MakeStringDispatcher(callType typesystem.MethodType, labels []string, opts ...Option) (*Dispatcher, error) {
	o := buildOptions(opts)
	if !callType.Equal(StringSwitchType) {
		return nil, diagnostics.NewBootstrapError(config.StringSwitchSite, StringSwitchType.String(), callType.String())
	}
	if labels == nil {
		return nil, fmt.Errorf("%s: %w", config.StringSwitchSite, diagnostics.ErrNullCandidateList)
	}

	d := &Dispatcher{labels: append([]string(nil), labels...)}
	for i, l := range d.labels {
		if !d.table.PutIfAbsent(l, i) {
			o.logger.Debug("duplicate case label ignored",
				zap.String("label", l), zap.Int("index", i))
		}
	}
	o.logger.Debug("string switch bootstrapped",
		zap.Int("labels", len(d.labels)), zap.Int("distinct", d.table.Len()))
	return d, nil
}

// Index returns the index of the first label equal to s, or NoMatch.
func (d *Dispatcher) Index(s string) int {
	if i, ok := d.table.Get(s); ok {
		return i
	}
	return len(d.labels)
}

// IndexNullable is Index with a null selector mapped to config.NullIndex.
func (d *Dispatcher) IndexNullable(s *string) int {
	if s == nil {
		return config.NullIndex
	}
	return d.Index(*s)
}

// Invoke is the dynamic entry point of the call site: one argument, nil or string.
func (d *Dispatcher) Invoke(args ...any) (int, error) {
	if len(args) != 1 {
		return 0, diagnostics.NewBootstrapError(config.StringSwitchSite, StringSwitchType.String(),
			fmt.Sprintf("%d arguments", len(args)))
	}
	switch v := args[0].(type) {
	case nil:
		return config.NullIndex, nil
	case string:
		return d.Index(v), nil
	case *string:
		return d.IndexNullable(v), nil
	default:
		return 0, diagnostics.NewBootstrapError(config.StringSwitchSite, StringSwitchType.String(),
			fmt.Sprintf("argument of type %T", v))
	}
}

// NoMatch is the index returned for selectors matching no label.
func (d *Dispatcher) NoMatch() int { return len(d.labels) }

// Labels returns a copy of the case labels in source order.
func (d *Dispatcher) Labels() []string {
	return append([]string(nil), d.labels...)
}
