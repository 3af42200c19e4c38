// Package codegen emits Go source for carrier classes compiled ahead of time.
//
// Each distinct simplified shape becomes a struct with one typed field per
// slot, plus an init function that registers its constructor and accessors
// with pkg/bootstrap, so a Runtime serves the shape without synthesizing it.
package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/funvibe/callsite/internal/carrier"
	"github.com/funvibe/callsite/internal/config"
	"github.com/funvibe/callsite/internal/typesystem"
)

// CarrierGenerator produces Go source code for precompiled carriers.
type CarrierGenerator struct {
	// modulePath is the import path of this module, used to import pkg/bootstrap.
	modulePath  string
	packageName string
}

// NewCarrierGenerator creates a generator emitting into packageName.
func NewCarrierGenerator(modulePath, packageName string) *CarrierGenerator {
	if packageName == "" {
		packageName = config.GeneratedPackageName
	}
	return &CarrierGenerator{modulePath: modulePath, packageName: packageName}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	Filename string
	Content  string
}

type fileContext struct {
	Package    string
	ImportPath string
	Classes    []classContext
}

type classContext struct {
	Name       string
	Descriptor string
	Fields     []fieldContext
}

type fieldContext struct {
	Index  int
	Name   string
	GoType string
	// Load reads slot Index as the field type, e.g. "s[0].AsInt()".
	Load string
	// Ctor wraps the field back into a slot, e.g. "bootstrap.IntVal".
	Ctor string
}

var kindCode = map[typesystem.Kind]struct{ goType, as, ctor string }{
	typesystem.Int:       {"int32", "AsInt", "IntVal"},
	typesystem.Long:      {"int64", "AsLong", "LongVal"},
	typesystem.Float:     {"float32", "AsFloat", "FloatVal"},
	typesystem.Double:    {"float64", "AsDouble", "DoubleVal"},
	typesystem.Boolean:   {"bool", "AsBool", "BoolVal"},
	typesystem.Byte:      {"int8", "AsByte", "ByteVal"},
	typesystem.Short:     {"int16", "AsShort", "ShortVal"},
	typesystem.Char:      {"uint16", "AsChar", "CharVal"},
	typesystem.Reference: {"any", "AsRef", "RefVal"},
}

// Generate renders one file registering every distinct shape in shapes.
func (g *CarrierGenerator) Generate(shapes []typesystem.SimpleShape) (GeneratedFile, error) {
	seen := make(map[string]bool)
	ctx := fileContext{
		Package:    g.packageName,
		ImportPath: g.modulePath + "/pkg/bootstrap",
	}
	for _, s := range shapes {
		desc := s.Descriptor()
		if seen[desc] {
			continue
		}
		seen[desc] = true
		ctx.Classes = append(ctx.Classes, classFor(s))
	}
	// Sort classes for deterministic output
	sort.Slice(ctx.Classes, func(i, j int) bool {
		return ctx.Classes[i].Descriptor < ctx.Classes[j].Descriptor
	})

	var buf bytes.Buffer
	if err := carriersTemplate.Execute(&buf, ctx); err != nil {
		return GeneratedFile{}, fmt.Errorf("rendering carriers: %w", err)
	}
	src, err := imports.Process(config.GeneratedFileName, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("formatting carriers: %w\n%s", err, buf.String())
	}
	return GeneratedFile{Filename: config.GeneratedFileName, Content: string(src)}, nil
}

func classFor(s typesystem.SimpleShape) classContext {
	cls := classContext{
		Name:       carrier.ClassName(s),
		Descriptor: s.Descriptor(),
	}
	for i, k := range s.Kinds() {
		code := kindCode[k]
		cls.Fields = append(cls.Fields, fieldContext{
			Index:  i,
			Name:   fmt.Sprintf("F%d", i),
			GoType: code.goType,
			Load:   fmt.Sprintf("s[%d].%s()", i, code.as),
			Ctor:   "bootstrap." + code.ctor,
		})
	}
	return cls
}

var carriersTemplate = template.Must(template.New("carriers").Parse(`// Code generated by callsite gen. DO NOT EDIT.

package {{.Package}}

import "{{.ImportPath}}"
{{range .Classes}}{{$cls := .}}
// {{.Name}} holds the components of carrier shape {{.Descriptor}}.
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.GoType}}
{{- end}}
}

func init() {
	bootstrap.MustRegisterCarrier("{{.Descriptor}}",
		func(s []bootstrap.Value) any {
			return &{{.Name}}{ {{- range $i, $f := .Fields}}{{if $i}}, {{end}}{{$f.Name}}: {{$f.Load}}{{end -}} }
		},
{{- range .Fields}}
		func(o any) bootstrap.Value { return {{.Ctor}}(o.(*{{$cls.Name}}).{{.Name}}) },
{{- end}}
	)
}
{{end}}`))
