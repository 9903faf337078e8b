package llvmgen

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

func newTestModule(t *testing.T) (*modreg.Context, *graph.GraphModule) {
	t.Helper()
	ctx := modreg.NewContext()
	m := graph.NewGraphModule(ctx, "test/mod", "mod")
	require.NoError(t, ctx.LoadModule(m))
	return ctx, m
}

func TestDeclareFunctionSignature(t *testing.T) {
	ctx, m := newTestModule(t)
	f := m.NewFunction("main")
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)
	f.AddDataInput("x", i32, 0)
	f.AddDataOutput("y", i32, 0)

	irModule := ir.NewModule()
	irFunc := DeclareFunction(irModule, f, "test.mod.main")

	assert.Equal(t, "test.mod.main", irFunc.Name())
	require.Len(t, irFunc.Params, 3)
	assert.Equal(t, "exec_input_id", irFunc.Params[0].Name())
	assert.Equal(t, "x", irFunc.Params[1].Name())
	assert.Equal(t, "y.out", irFunc.Params[2].Name())
}

// buildHelloWorld wires entry -> exit directly, with exit's single
// data output fed by a const-int literal, and returns the lowered
// module's text form.
func buildHelloWorld(t *testing.T) string {
	t.Helper()
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

	v := graph.Validate(f)
	require.True(t, v.Success(), "%v", v.Entries())

	irModule := ir.NewModule()
	irFunc := DeclareFunction(irModule, f, "test.mod.main")
	debug := nodetype.NewDebugTable()
	r := LowerBody(irModule, irFunc, f, debug)
	require.True(t, r.Success(), "%v", r.Entries())

	_, ok := debug.Lookup(entry.ID().String())
	assert.True(t, ok)
	_, ok = debug.Lookup(exit.ID().String())
	assert.True(t, ok)

	return irModule.String()
}

func TestLowerBodyHelloWorldReturnsLiteral(t *testing.T) {
	text := buildHelloWorld(t)
	assert.Contains(t, text, "define i32 @test.mod.main")
	assert.Contains(t, text, "store i32 7")
	assert.Contains(t, text, "ret i32")
}

func TestLowerBodyBranchingIf(t *testing.T) {
	ctx, m := newTestModule(t)
	f := m.NewFunction("main")
	i32, err := ctx.TypeFromModule("lang", "i32")
	require.NoError(t, err)
	boolType, err := ctx.TypeFromModule("lang", "bool")
	require.NoError(t, err)

	cond, _ := f.InsertNode(nodetype.NewConstBool("lang", boolType, true), 0, 0, nil)
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

	v := graph.Validate(f)
	require.True(t, v.Success(), "%v", v.Entries())

	irModule := ir.NewModule()
	irFunc := DeclareFunction(irModule, f, "test.mod.main")
	debug := nodetype.NewDebugTable()
	r := LowerBody(irModule, irFunc, f, debug)
	require.True(t, r.Success(), "%v", r.Entries())

	text := irModule.String()
	assert.True(t, strings.Contains(text, "br i1"))
	assert.Equal(t, 2, strings.Count(text, "ret i32"))
}
