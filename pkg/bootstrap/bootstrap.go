// Package bootstrap is the public entry point for switch call-site bootstraps
// and carrier factories.
//
// A Runtime owns one carrier class cache. Create it once at startup and keep
// it for the life of the process. Independent Runtimes synthesize their own
// classes, except for precompiled ones: a shape registered with RegisterCarrier
// resolves to the same process-wide Class in every Runtime.
// Code emitted by `callsite gen` registers precompiled carrier classes with
// RegisterCarrier from its init functions.
package bootstrap

import (
	"go.uber.org/zap"

	"github.com/funvibe/callsite/internal/carrier"
	"github.com/funvibe/callsite/internal/diagnostics"
	"github.com/funvibe/callsite/internal/selector"
	"github.com/funvibe/callsite/internal/typesystem"
	"github.com/funvibe/callsite/internal/vm"
)

// Type aliases
type Value = vm.Value
type Kind = typesystem.Kind
type Shape = typesystem.Shape
type MethodType = typesystem.MethodType
type Enum = typesystem.Enum
type Dispatcher = selector.Dispatcher
type EnumTable = selector.EnumTable
type Elements = carrier.Elements
type Carrier = carrier.Carrier
type Accessor = carrier.Accessor
type Class = carrier.Class
type Synthesizer = carrier.Synthesizer

// Slot constructors (used by codegen)
var (
	IntVal    = vm.IntVal
	LongVal   = vm.LongVal
	FloatVal  = vm.FloatVal
	DoubleVal = vm.DoubleVal
	BoolVal   = vm.BoolVal
	ByteVal   = vm.ByteVal
	ShortVal  = vm.ShortVal
	CharVal   = vm.CharVal
	RefVal    = vm.RefVal
)

// Errors
var (
	ErrInvalidBootstrapShape = diagnostics.ErrInvalidBootstrapShape
	ErrNullCandidateList     = diagnostics.ErrNullCandidateList
	ErrNotImplemented        = diagnostics.ErrNotImplemented
	ErrGeneration            = diagnostics.ErrGeneration
)

// Calling contracts
var (
	StringSwitchType = selector.StringSwitchType
	EnumSwitchType   = selector.EnumSwitchType
)

// precompiled holds classes registered by generated code. Shapes nobody
// registered fall through to reflect.StructOf.
var precompiled = carrier.NewRegistry(carrier.ReflectSynthesizer{})

// RegisterCarrier registers a precompiled carrier class for a shape descriptor
// such as "(int,ref)".
func RegisterCarrier(desc string, construct func([]Value) any, accessors ...func(any) Value) error {
	return precompiled.Register(desc, construct, accessors...)
}

// MustRegisterCarrier is RegisterCarrier for init functions; it panics on error.
func MustRegisterCarrier(desc string, construct func([]Value) any, accessors ...func(any) Value) {
	if err := RegisterCarrier(desc, construct, accessors...); err != nil {
		panic("bootstrap: " + err.Error())
	}
}

// Precompiled lists the registered carrier descriptors.
func Precompiled() []string {
	return precompiled.Descriptors()
}

// NewEnum declares an enum by its ordered constant names.
func NewEnum(name string, constants ...string) Enum {
	return typesystem.NewEnum(name, constants...)
}

// ShapeOf builds a shape from sample component values.
func ShapeOf(samples ...any) Shape {
	return typesystem.ShapeOf(samples...)
}

// Get reads a carrier component as T.
func Get[T any](a Accessor, c Carrier) (T, error) {
	return carrier.Get[T](a, c)
}

// Runtime bundles a carrier factory with the selector bootstraps.
type Runtime struct {
	logger  *zap.Logger
	factory *carrier.Factory
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	logger *zap.Logger
	synth  Synthesizer
}

// WithLogger sets the logger used by bootstraps and the carrier cache.
func WithLogger(l *zap.Logger) Option {
	return func(c *runtimeConfig) { c.logger = l }
}

// WithSynthesizer replaces the default carrier backend (precompiled classes,
// then reflect.StructOf).
func WithSynthesizer(s Synthesizer) Option {
	return func(c *runtimeConfig) { c.synth = s }
}

// NewRuntime creates a Runtime with its own carrier cache.
func NewRuntime(opts ...Option) *Runtime {
	cfg := runtimeConfig{logger: zap.NewNop(), synth: precompiled}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	cache := carrier.NewCache(cfg.synth, carrier.WithLogger(cfg.logger.Named("carrier")))
	return &Runtime{
		logger:  cfg.logger,
		factory: carrier.NewFactory(cache),
	}
}

// StringSwitch bootstraps a string switch call site.
func (r *Runtime) StringSwitch(callType MethodType, labels []string) (*Dispatcher, error) {
	return selector.MakeStringDispatcher(callType, labels, selector.WithLogger(r.logger.Named("selector")))
}

// EnumSwitch bootstraps an enum switch call site.
func (r *Runtime) EnumSwitch(callType MethodType, enum Enum, names []string) (*EnumTable, error) {
	return selector.BootstrapEnumSwitch(callType, enum, names, selector.WithLogger(r.logger.Named("selector")))
}

// Describe returns carrier elements for shape.
func (r *Runtime) Describe(shape Shape) (*Elements, error) {
	return r.factory.Describe(shape)
}

// Classes returns the carrier classes this Runtime has published.
func (r *Runtime) Classes() []*Class {
	return r.factory.Cache().Classes()
}
