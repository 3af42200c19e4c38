package pipeline

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/funvibe/callsite/internal/codegen"
	"github.com/funvibe/callsite/internal/manifest"
	"github.com/funvibe/callsite/internal/typesystem"
	"github.com/funvibe/callsite/pkg/bootstrap"
)

// LoadProcessor reads and validates the manifest at ctx.FilePath.
type LoadProcessor struct{}

func (LoadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	m, err := manifest.LoadManifest(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Manifest = m
	ctx.Logger.Debug("manifest loaded",
		zap.String("path", ctx.FilePath),
		zap.Int("string_switches", len(m.StringSwitches)),
		zap.Int("enum_switches", len(m.EnumSwitches)),
		zap.Int("carriers", len(m.Carriers)))
	return ctx
}

// BootstrapProcessor bootstraps every call site in the manifest.
type BootstrapProcessor struct{}

func (BootstrapProcessor) Process(ctx *PipelineContext) *PipelineContext {
	m := ctx.Manifest
	if m == nil {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("bootstrap: no manifest loaded"))
		return ctx
	}
	if ctx.Runtime == nil {
		ctx.Runtime = bootstrap.NewRuntime(bootstrap.WithLogger(ctx.Logger))
	}

	for _, s := range m.StringSwitches {
		d, err := ctx.Runtime.StringSwitch(bootstrap.StringSwitchType, s.Labels)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("string switch %s: %w", s.Name, err))
			continue
		}
		ctx.StringSites[s.Name] = d
	}

	for _, e := range m.Enums {
		ctx.Enums[e.Name] = bootstrap.NewEnum(e.Name, e.Constants...)
	}
	for _, s := range m.EnumSwitches {
		table, err := ctx.Runtime.EnumSwitch(bootstrap.EnumSwitchType, ctx.Enums[s.Enum], s.Labels)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("enum switch %s: %w", s.Name, err))
			continue
		}
		ctx.EnumSites[s.Name] = table
	}

	for _, c := range m.Carriers {
		shape, err := shapeOf(c)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("carrier %s: %w", c.Name, err))
			continue
		}
		elems, err := ctx.Runtime.Describe(shape)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("carrier %s: %w", c.Name, err))
			continue
		}
		ctx.Carriers[c.Name] = elems
	}
	return ctx
}

func shapeOf(c manifest.CarrierShape) (typesystem.Shape, error) {
	shape := make(typesystem.Shape, len(c.Components))
	for i, name := range c.Components {
		t, err := manifest.ComponentType(name)
		if err != nil {
			return nil, err
		}
		shape[i] = t
	}
	return shape, nil
}

// ProbeProcessor runs the manifest's probes against the bootstrapped sites.
type ProbeProcessor struct{}

func (ProbeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	m := ctx.Manifest
	if m == nil {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("probe: no manifest loaded"))
		return ctx
	}

	for _, s := range m.StringSwitches {
		d := ctx.StringSites[s.Name]
		for _, p := range s.Probes {
			ctx.Results = append(ctx.Results, ProbeResult{
				Site: s.Name, Kind: "string", Input: strconv.Quote(p), Output: strconv.Itoa(d.Index(p)),
			})
		}
		if s.ProbeNull {
			ctx.Results = append(ctx.Results, ProbeResult{
				Site: s.Name, Kind: "string", Input: "null", Output: strconv.Itoa(d.IndexNullable(nil)),
			})
		}
	}

	for _, s := range m.EnumSwitches {
		table := ctx.EnumSites[s.Name]
		enum := ctx.Enums[s.Enum]
		for _, p := range s.Probes {
			out := strconv.Itoa(table.IndexOf(enum, p))
			if _, ok := enum.Ordinal(p); !ok {
				out = "unknown constant"
			}
			ctx.Results = append(ctx.Results, ProbeResult{
				Site: s.Name, Kind: "enum", Input: s.Enum + "." + p, Output: out,
			})
		}
	}

	for _, c := range m.Carriers {
		if c.Values == nil {
			continue
		}
		elems := ctx.Carriers[c.Name]
		args, err := c.Args()
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("carrier %s: %w", c.Name, err))
			continue
		}
		carrier, err := elems.New(args...)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("carrier %s: %w", c.Name, err))
			continue
		}
		for k, acc := range elems.Accessors {
			v, err := acc.Get(carrier)
			if err != nil {
				ctx.Errors = append(ctx.Errors, fmt.Errorf("carrier %s: %w", c.Name, err))
				break
			}
			ctx.Results = append(ctx.Results, ProbeResult{
				Site:   c.Name,
				Kind:   "carrier",
				Input:  fmt.Sprintf("%d:%s", k, c.Components[k]),
				Output: fmt.Sprintf("%v", v),
			})
		}
	}
	return ctx
}

// GenerateProcessor renders precompiled carrier sources for the manifest's shapes.
type GenerateProcessor struct {
	ModulePath  string
	PackageName string
}

func (g GenerateProcessor) Process(ctx *PipelineContext) *PipelineContext {
	m := ctx.Manifest
	if m == nil {
		ctx.Errors = append(ctx.Errors, fmt.Errorf("generate: no manifest loaded"))
		return ctx
	}

	shapes := make([]typesystem.SimpleShape, 0, len(m.Carriers))
	for _, c := range m.Carriers {
		shape, err := shapeOf(c)
		if err != nil {
			ctx.Errors = append(ctx.Errors, fmt.Errorf("carrier %s: %w", c.Name, err))
			return ctx
		}
		shapes = append(shapes, shape.Simplify())
	}

	file, err := codegen.NewCarrierGenerator(g.ModulePath, g.PackageName).Generate(shapes)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Generated = &file
	return ctx
}
