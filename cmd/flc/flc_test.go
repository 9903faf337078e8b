package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlang/flc/chimod"
	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

// writeHelloWorldChimod builds the canonical entry->exit-with-literal
// module and serializes it to a temp .chimod file, returning its path.
func writeHelloWorldChimod(t *testing.T) string {
	t.Helper()
	ctx := modreg.NewContext()
	m := graph.NewGraphModule(ctx, "example/hello", "hello")
	require.NoError(t, ctx.LoadModule(m))

	f := m.NewFunction("main")
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)

	lit, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 7), 0, 100, nil)
	f.AddDataOutput("result", i32, 0)
	exit := f.ExitNodes()[0]
	entry := f.EntryNode()
	require.True(t, graph.ConnectExec(entry, 0, exit, 0).Success())
	require.True(t, graph.ConnectData(lit, 0, exit, 0).Success())

	raw, err := chimod.Marshal(m)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hello.chimod")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCompileCommandPrintsIR(t *testing.T) {
	path := writeHelloWorldChimod(t)
	out, err := runCmd(t, "", "compile", path, "--module", "example/hello", "--short", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "example/hello.main")
	assert.Contains(t, out, "store i32 7")
}

func TestRunCommandReturnsLiteral(t *testing.T) {
	path := writeHelloWorldChimod(t)
	out, err := runCmd(t, "", "run", path, "--module", "example/hello", "--short", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "7")
}

func TestInterpretCommandReadsIRFromStdin(t *testing.T) {
	path := writeHelloWorldChimod(t)
	irText, err := runCmd(t, "", "compile", path, "--module", "example/hello", "--short", "hello")
	require.NoError(t, err)

	out, err := runCmd(t, irText, "interpret", "--func", "example/hello.main", "--outputs", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "7")
}

func TestCompileCommandRequiresModuleFlags(t *testing.T) {
	path := writeHelloWorldChimod(t)
	_, err := runCmd(t, "", "compile", path)
	assert.Error(t, err)
}

func TestDebugCommandListsBreakpoints(t *testing.T) {
	path := writeHelloWorldChimod(t)
	out, err := runCmd(t, "", "debug", path, "--module", "example/hello", "--short", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "node_id")
}
