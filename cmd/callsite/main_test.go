package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sitesManifest = `
enums:
  - name: Color
    constants: [RED, GREEN, BLUE]
string_switches:
  - name: greet
    labels: [hello, world]
    probes: [world, nope]
enum_switches:
  - name: paint
    enum: Color
    labels: [GREEN]
    probes: [GREEN, RED]
carriers:
  - name: pair
    components: [int, string]
    values: [7, seven]
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	logger = zap.NewNop()
	t.Cleanup(func() { logger = nil })

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProbeCommand(t *testing.T) {
	out, _, err := runCLI(t, "probe", writeManifest(t, sitesManifest))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, []string{"SITE", "KIND", "INPUT", "OUTPUT"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"greet", "string", `"world"`, "1"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"greet", "string", `"nope"`, "2"}, strings.Fields(lines[2]))
	require.Equal(t, []string{"paint", "enum", "Color.GREEN", "0"}, strings.Fields(lines[3]))
	require.Equal(t, []string{"paint", "enum", "Color.RED", "1"}, strings.Fields(lines[4]))
	require.Equal(t, []string{"pair", "carrier", "0:int", "7"}, strings.Fields(lines[5]))
	require.Equal(t, []string{"pair", "carrier", "1:string", "seven"}, strings.Fields(lines[6]))
}

func TestProbeCommandJSON(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })
	out, _, err := runCLI(t, "probe", "--json", writeManifest(t, sitesManifest))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	var first map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, map[string]string{"site": "greet", "kind": "string", "input": `"world"`, "output": "1"}, first)
}

func TestProbeCommandReportsManifestErrors(t *testing.T) {
	path := writeManifest(t, "string_switches:\n  - name: empty\n")
	_, errOut, err := runCLI(t, "probe", path)
	require.Error(t, err)
	require.Contains(t, errOut, "empty")
	require.Contains(t, err.Error(), "1 error(s)")
}

func TestGenCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "carriers")
	out, _, err := runCLI(t, "gen", writeManifest(t, sitesManifest), "--out", dir, "--package", "sites")
	require.NoError(t, err)

	target := filepath.Join(dir, "carriers_gen.go")
	require.Equal(t, target, strings.TrimSpace(out))

	src, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(src), "package sites")
	require.Contains(t, string(src), `"github.com/funvibe/callsite/pkg/bootstrap"`)
	require.Contains(t, string(src), "type CarrierIntRef struct")
}

func TestCommandsRequireManifest(t *testing.T) {
	_, _, err := runCLI(t, "probe")
	require.Error(t, err)
}

func TestBuildLogger(t *testing.T) {
	l, err := buildLogger(true, false)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = buildLogger(false, true)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zap.DebugLevel))
}
