package pipeline

import (
	"go.uber.org/zap"

	"github.com/funvibe/callsite/internal/codegen"
	"github.com/funvibe/callsite/internal/manifest"
	"github.com/funvibe/callsite/pkg/bootstrap"
)

// PipelineContext carries a manifest through the stages.
type PipelineContext struct {
	FilePath string
	Logger   *zap.Logger

	Manifest *manifest.Manifest
	Runtime  *bootstrap.Runtime

	StringSites map[string]*bootstrap.Dispatcher
	EnumSites   map[string]*bootstrap.EnumTable
	Enums       map[string]bootstrap.Enum
	Carriers    map[string]*bootstrap.Elements

	Results   []ProbeResult
	Generated *codegen.GeneratedFile

	Errors []error
}

// NewPipelineContext creates a context for the manifest at path.
func NewPipelineContext(path string, rt *bootstrap.Runtime, logger *zap.Logger) *PipelineContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineContext{
		FilePath:    path,
		Logger:      logger,
		Runtime:     rt,
		StringSites: make(map[string]*bootstrap.Dispatcher),
		EnumSites:   make(map[string]*bootstrap.EnumTable),
		Enums:       make(map[string]bootstrap.Enum),
		Carriers:    make(map[string]*bootstrap.Elements),
	}
}

// ProbeResult is the outcome of one probe against a call site.
type ProbeResult struct {
	Site  string `json:"site"`
	Kind  string `json:"kind"` // "string", "enum" or "carrier"
	Input string `json:"input"`
	// Output is the case index for switches, or the read-back component.
	Output string `json:"output"`
}
