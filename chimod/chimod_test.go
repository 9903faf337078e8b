package chimod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

func buildHelloWorldModule(t *testing.T) (*modreg.Context, *graph.GraphModule) {
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

	return ctx, m
}

func TestMarshalProducesValidEnvelope(t *testing.T) {
	_, m := buildHelloWorldModule(t)
	raw, err := Marshal(m)
	require.NoError(t, err)
	r := ValidateEnvelope(raw)
	assert.True(t, r.Success(), "unexpected schema violations: %v", r.Entries())
}

func TestRoundTripPreservesShape(t *testing.T) {
	_, m := buildHelloWorldModule(t)
	raw, err := Marshal(m)
	require.NoError(t, err)

	ctx2 := modreg.NewContext()
	m2, r := Load(ctx2, "example/hello", "hello", raw)
	require.True(t, r.Success(), "load failed: %v", r.Entries())

	f2, ok := m2.Function("main")
	require.True(t, ok)
	assert.Len(t, f2.DataOutputs(), 1)
	assert.Equal(t, "result", f2.DataOutputs()[0].Name)

	exit2 := f2.ExitNodes()[0]
	source, _, ok := exit2.InputDataSource(0)
	require.True(t, ok, "data connection into exit should survive round-trip")
	assert.Equal(t, "lang:const-int", source.Type().QualifiedName())
}

func TestRoundTripIsByteStable(t *testing.T) {
	_, m := buildHelloWorldModule(t)
	raw1, err := Marshal(m)
	require.NoError(t, err)

	ctx2 := modreg.NewContext()
	m2, r := Load(ctx2, "example/hello", "hello", raw1)
	require.True(t, r.Success())

	raw2, err := Marshal(m2)
	require.NoError(t, err)
	assert.Equal(t, string(raw1), string(raw2))
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	ctx := modreg.NewContext()
	_, r := Load(ctx, "example/broken", "broken", []byte(`{"dependencies": []}`))
	assert.False(t, r.Success())
}

func TestLoadRejectsMalformedConnection(t *testing.T) {
	ctx := modreg.NewContext()
	raw := []byte(`{
		"dependencies": [],
		"types": {},
		"graphs": [
			{
				"type": "function",
				"name": "main",
				"description": "",
				"data_inputs": [],
				"data_outputs": [],
				"exec_inputs": [],
				"exec_outputs": [],
				"local_variables": {},
				"nodes": {},
				"connections": [ {"type": "exec", "output": ["bad"], "input": ["alsobad", 0]} ]
			}
		]
	}`)
	_, r := Load(ctx, "example/broken2", "broken2", raw)
	assert.False(t, r.Success())
}
