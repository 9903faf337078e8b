package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

func TestCompileModuleHelloWorld(t *testing.T) {
	ctx := modreg.NewContext()
	m := graph.NewGraphModule(ctx, "demo/hello", "hello")
	require.NoError(t, ctx.LoadModule(m))

	f := m.NewFunction("main")
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)

	lit, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 42), 0, 100, nil)
	f.AddDataOutput("result", i32, 0)
	exit := f.ExitNodes()[0]
	entry := f.EntryNode()
	require.True(t, graph.ConnectExec(entry, 0, exit, 0).Success())
	require.True(t, graph.ConnectData(lit, 0, exit, 0).Success())

	irModule, debug, r := CompileModule(context.Background(), m)
	require.True(t, r.Success(), "%v", r.Entries())

	text := irModule.String()
	assert.Contains(t, text, "demo/hello.main")
	assert.NotEmpty(t, debug.All())
}

func TestCompileModuleRejectsInvalidFunction(t *testing.T) {
	ctx := modreg.NewContext()
	m := graph.NewGraphModule(ctx, "demo/broken", "broken")
	require.NoError(t, ctx.LoadModule(m))
	m.NewFunction("main") // entry/exit never connected: unreachable exit

	_, _, r := CompileModule(context.Background(), m)
	assert.False(t, r.Success())
}
