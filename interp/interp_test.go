package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlang/flc/compiler"
	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

func newTestModule(t *testing.T) (*modreg.Context, *graph.GraphModule) {
	t.Helper()
	ctx := modreg.NewContext()
	m := graph.NewGraphModule(ctx, "demo/interp", "interp")
	require.NoError(t, ctx.LoadModule(m))
	return ctx, m
}

func TestCallHelloWorldReturnsLiteral(t *testing.T) {
	ctx, m := newTestModule(t)
	f := m.NewFunction("main")
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)

	lit, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 7), 0, 100, nil)
	f.AddDataOutput("result", i32, 0)
	exit := f.ExitNodes()[0]
	entry := f.EntryNode()
	require.True(t, graph.ConnectExec(entry, 0, exit, 0).Success())
	require.True(t, graph.ConnectData(lit, 0, exit, 0).Success())

	irModule, _, r := compiler.CompileModule(context.Background(), m)
	require.True(t, r.Success(), "%v", r.Entries())

	mach := New(irModule)
	execOut, outputs, err := mach.Call("demo/interp.main", 0, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, execOut)
	require.Len(t, outputs, 1)
	assert.Equal(t, int64(7), outputs[0])
}

func TestCallBranchingIf(t *testing.T) {
	ctx, m := newTestModule(t)
	f := m.NewFunction("main")
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)
	boolType, err := ctx.TypeFromModule("lang", "bool")
	require.NoError(t, err)

	cond, _ := f.InsertNode(nodetype.NewConstBool("lang", boolType, false), 0, 0, nil)
	ifNode, _ := f.InsertNode(nodetype.NewIf("lang", boolType), 100, 0, nil)
	litTrue, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 1), 0, 200, nil)
	litFalse, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 2), 0, 300, nil)

	f.AddDataOutput("result", i32, 0)
	exitTrue := f.ExitNodes()[0]
	exitFalse, _ := f.InsertNode(nodetype.NewExit("lang", exitTrue.Type().DataInputs(), exitTrue.Type().ExecInputs()), 400, 300, nil)

	entry := f.EntryNode()
	require.True(t, graph.ConnectExec(entry, 0, ifNode, 0).Success())
	require.True(t, graph.ConnectData(cond, 0, ifNode, 0).Success())
	require.True(t, graph.ConnectExec(ifNode, 0, exitTrue, 0).Success())
	require.True(t, graph.ConnectExec(ifNode, 1, exitFalse, 0).Success())
	require.True(t, graph.ConnectData(litTrue, 0, exitTrue, 0).Success())
	require.True(t, graph.ConnectData(litFalse, 0, exitFalse, 0).Success())

	irModule, _, r := compiler.CompileModule(context.Background(), m)
	require.True(t, r.Success(), "%v", r.Entries())

	mach := New(irModule)
	_, outputs, err := mach.Call("demo/interp.main", 0, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), outputs[0], "condition was false, should take the false branch literal")
}

func TestCallStrCatRunsThroughBuiltin(t *testing.T) {
	ctx, m := newTestModule(t)
	f := m.NewFunction("main")
	strType, err := ctx.TypeFromModule("lang", "string")
	require.NoError(t, err)

	a, _ := f.InsertNode(nodetype.NewStrLiteral("lang", strType, "hello, "), 0, 0, nil)
	b, _ := f.InsertNode(nodetype.NewStrLiteral("lang", strType, "world"), 0, 100, nil)
	cat, _ := f.InsertNode(nodetype.NewStrCat("lang", strType), 100, 200, nil)

	f.AddDataOutput("result", strType, 0)
	exit := f.ExitNodes()[0]
	entry := f.EntryNode()
	require.True(t, graph.ConnectExec(entry, 0, exit, 0).Success())
	require.True(t, graph.ConnectData(a, 0, cat, 0).Success())
	require.True(t, graph.ConnectData(b, 0, cat, 1).Success())
	require.True(t, graph.ConnectData(cat, 0, exit, 0).Success())

	irModule, _, r := compiler.CompileModule(context.Background(), m)
	require.True(t, r.Success(), "%v", r.Entries())

	mach := New(irModule)
	_, outputs, err := mach.Call("demo/interp.main", 0, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", outputs[0])
}

func TestCallStructMakeBreakRoundTrip(t *testing.T) {
	ctx, m := newTestModule(t)
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)

	fields := []datatype.NamedDataType{{Name: "x", Type: i32}, {Name: "y", Type: i32}}
	s := m.NewStruct("point", fields)
	require.NotNil(t, s)

	f := m.NewFunction("main")
	litX, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 3), 0, 0, nil)
	litY, _ := f.InsertNode(nodetype.NewConstInt("lang", i32, 4), 0, 100, nil)

	makeType, err := m.NodeTypeFromName("make.point", nil)
	require.NoError(t, err)
	breakType, err := m.NodeTypeFromName("break.point", nil)
	require.NoError(t, err)

	makeNode, _ := f.InsertNode(makeType, 200, 0, nil)
	breakNode, _ := f.InsertNode(breakType, 300, 0, nil)

	f.AddDataOutput("px", i32, 0)
	f.AddDataOutput("py", i32, 1)
	exit := f.ExitNodes()[0]
	entry := f.EntryNode()

	require.True(t, graph.ConnectExec(entry, 0, exit, 0).Success())
	require.True(t, graph.ConnectData(litX, 0, makeNode, 0).Success())
	require.True(t, graph.ConnectData(litY, 0, makeNode, 1).Success())
	require.True(t, graph.ConnectData(makeNode, 0, breakNode, 0).Success())
	require.True(t, graph.ConnectData(breakNode, 0, exit, 0).Success())
	require.True(t, graph.ConnectData(breakNode, 1, exit, 1).Success())

	irModule, _, r := compiler.CompileModule(context.Background(), m)
	require.True(t, r.Success(), "%v", r.Entries())

	mach := New(irModule)
	_, outputs, err := mach.Call("demo/interp.main", 0, nil, 2)
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, int64(3), outputs[0])
	assert.Equal(t, int64(4), outputs[1])
}

func TestCallUnknownFunctionErrors(t *testing.T) {
	_, m := newTestModule(t)
	irModule, _, r := compiler.CompileModule(context.Background(), m)
	require.True(t, r.Success(), "%v", r.Entries())

	mach := New(irModule)
	_, _, err := mach.Call("does/not.exist", 0, nil, 0)
	assert.Error(t, err)
}
