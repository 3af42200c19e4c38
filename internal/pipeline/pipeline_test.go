package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/callsite/pkg/bootstrap"
)

const probeManifest = `
enums:
  - name: Color
    constants: [RED, GREEN, BLUE]
string_switches:
  - name: abc
    labels: [a, b, c]
    probes: [a, c, z]
  - name: collide
    labels: [Ba, CB]
    probes: [Ba, CB, xx]
    probe_null: true
enum_switches:
  - name: paint
    enum: Color
    labels: [BLUE, PURPLE, RED, BLUE]
    probes: [RED, GREEN, BLUE, MAUVE]
carriers:
  - name: pair
    components: [int, string]
    values: [10, x]
  - name: pairLong
    components: [long, any]
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProbePipeline(t *testing.T) {
	rt := bootstrap.NewRuntime()
	ctx := NewPipelineContext(writeManifest(t, probeManifest), rt, nil)
	ctx = New(LoadProcessor{}, BootstrapProcessor{}, ProbeProcessor{}).Run(ctx)
	require.Empty(t, ctx.Errors)

	got := make([]string, 0, len(ctx.Results))
	for _, r := range ctx.Results {
		got = append(got, r.Site+" "+r.Input+" -> "+r.Output)
	}
	require.Equal(t, []string{
		`abc "a" -> 0`,
		`abc "c" -> 2`,
		`abc "z" -> 3`,
		`collide "Ba" -> 0`,
		`collide "CB" -> 1`,
		`collide "xx" -> 2`,
		`collide null -> -1`,
		`paint Color.RED -> 2`,
		`paint Color.GREEN -> 4`,
		`paint Color.BLUE -> 3`,
		`paint Color.MAUVE -> unknown constant`,
		`pair 0:int -> 10`,
		`pair 1:string -> x`,
	}, got)

	require.Len(t, ctx.Carriers, 2)
	require.NotSame(t, ctx.Carriers["pair"].Class(), ctx.Carriers["pairLong"].Class())
	require.Same(t, rt, ctx.Runtime)
	require.Len(t, rt.Classes(), 2)
}

func TestPipelineStopsOnLoadError(t *testing.T) {
	ctx := NewPipelineContext(filepath.Join(t.TempDir(), "absent.yaml"), nil, nil)
	ctx = New(LoadProcessor{}, BootstrapProcessor{}, ProbeProcessor{}).Run(ctx)

	require.Len(t, ctx.Errors, 1)
	require.ErrorContains(t, ctx.Errors[0], "reading manifest")
	require.Nil(t, ctx.Runtime)
}

func TestProbeReportsBadCarrierValues(t *testing.T) {
	path := writeManifest(t, "carriers:\n  - name: tiny\n    components: [byte]\n    values: [1000]\n")
	ctx := New(LoadProcessor{}, BootstrapProcessor{}, ProbeProcessor{}).Run(NewPipelineContext(path, nil, nil))

	require.Len(t, ctx.Errors, 1)
	require.ErrorContains(t, ctx.Errors[0], "carrier tiny")
	require.ErrorContains(t, ctx.Errors[0], "not representable as int8")
}

func TestProbeConvertsManifestValues(t *testing.T) {
	path := writeManifest(t, "carriers:\n  - name: f\n    components: [float, char, bytes]\n    values: [0.1, a, abc]\n")
	ctx := New(LoadProcessor{}, BootstrapProcessor{}, ProbeProcessor{}).Run(NewPipelineContext(path, nil, nil))
	require.Empty(t, ctx.Errors)

	got := make([]string, 0, len(ctx.Results))
	for _, r := range ctx.Results {
		got = append(got, r.Input+" -> "+r.Output)
	}
	require.Equal(t, []string{
		"0:float -> 0.1",
		"1:char -> 97",
		"2:bytes -> [97 98 99]",
	}, got)
}

func TestProbeReportsUnconvertibleValues(t *testing.T) {
	path := writeManifest(t, "carriers:\n  - name: c\n    components: [char]\n    values: [ab]\n")
	ctx := New(LoadProcessor{}, BootstrapProcessor{}, ProbeProcessor{}).Run(NewPipelineContext(path, nil, nil))

	require.Len(t, ctx.Errors, 1)
	require.ErrorContains(t, ctx.Errors[0], `carrier c: value 0 (char): "ab" is not a single char`)
}

func TestGeneratePipeline(t *testing.T) {
	ctx := NewPipelineContext(writeManifest(t, probeManifest), nil, nil)
	ctx = New(LoadProcessor{}, GenerateProcessor{ModulePath: "github.com/funvibe/callsite", PackageName: "sites"}).Run(ctx)
	require.Empty(t, ctx.Errors)
	require.NotNil(t, ctx.Generated)

	src := ctx.Generated.Content
	require.True(t, strings.Contains(src, "package sites"))
	require.Contains(t, src, "type CarrierIntRef struct")
	require.Contains(t, src, "type CarrierLongRef struct")
	require.Contains(t, src, `bootstrap.MustRegisterCarrier("(long,ref)",`)
}
