package nodetype

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlang/flc/datatype"
)

type fakeModule struct{ name string }

func (m fakeModule) FullName() string { return m.name }

type irHandle struct {
	s string
	t types.Type
}

func (h irHandle) BackendTypeString() string { return h.s }
func (h irHandle) IRType() types.Type        { return h.t }

var langModule = fakeModule{"lang"}

func i32Type() datatype.DataType  { return datatype.New(langModule, "i32", irHandle{"i32", types.I32}) }
func boolType() datatype.DataType { return datatype.New(langModule, "bool", irHandle{"i1", types.I1}) }
func stringType() datatype.DataType {
	return datatype.New(langModule, "string", irHandle{"i8*", StringType})
}

func TestSignatureEqual(t *testing.T) {
	a := Signature{DataIn: []datatype.NamedDataType{{Name: "x", Type: i32Type()}}}
	b := Signature{DataIn: []datatype.NamedDataType{{Name: "x", Type: i32Type()}}}
	assert.True(t, a.Equal(b))

	c := Signature{DataIn: []datatype.NamedDataType{{Name: "x", Type: boolType()}}}
	assert.False(t, a.Equal(c))
}

func TestSignaturePure(t *testing.T) {
	assert.True(t, Signature{}.Pure())
	assert.False(t, Signature{ExecIn: []string{"in"}}.Pure())
}

func TestMangleFuncName(t *testing.T) {
	assert.Equal(t, "mymod.doThing", MangleFuncName("mymod", "doThing"))
}

func TestConstIntClone(t *testing.T) {
	n := NewConstInt("lang", i32Type(), 42)
	clone := n.Clone()
	assert.Equal(t, n.QualifiedName(), clone.QualifiedName())
	assert.NotSame(t, n, clone)

	raw, err := n.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "42")
}

func TestEntryExitPortConfigRoundTrip(t *testing.T) {
	entry := NewEntry("mymod", []datatype.NamedDataType{{Name: "n", Type: i32Type()}}, []string{"start"})
	raw, err := entry.ToJSON()
	require.NoError(t, err)

	cfg, err := DecodePortConfig(raw)
	require.NoError(t, err)
	require.Len(t, cfg.Data, 1)
	assert.Equal(t, "n", cfg.Data[0].Name)
	assert.Equal(t, "lang:i32", cfg.Data[0].TypeRef)
	assert.Equal(t, []string{"start"}, cfg.Exec)
}

func TestIfNodeSignature(t *testing.T) {
	n := NewIf("lang", boolType())
	assert.True(t, len(n.DataInputs()) == 1)
	assert.Equal(t, []string{"true", "false"}, n.ExecOutputs())
	assert.False(t, n.Pure())
}

func TestStrPrintfArity(t *testing.T) {
	n, err := NewStrPrintf("lang", "hello {} and {}", nil, stringType())
	require.NoError(t, err)
	assert.Len(t, n.DataInputs(), 2)
	assert.Equal(t, "a0", n.DataInputs()[0].Name)

	_, err = NewStrPrintf("lang", "hello {}", []string{"x", "y"}, stringType())
	assert.Error(t, err)
}

// buildFunc creates a minimal two-block function — used across codegen
// smoke tests to exercise CodegenParams plumbing end to end.
func buildFunc(t *testing.T, name string, paramTypes []types.Type) (*ir.Module, *ir.Func, *ir.Block) {
	t.Helper()
	m := ir.NewModule()
	params := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = ir.NewParam("", pt)
	}
	f := m.NewFunc(name, types.I32, params...)
	entry := f.NewBlock("entry")
	return m, f, entry
}

func TestConstIntCodegenStoresLiteral(t *testing.T) {
	m, f, entry := buildFunc(t, "f", []types.Type{types.I32})
	out := entry.NewAlloca(types.I32)

	n := NewConstInt("lang", i32Type(), 7)
	table := NewDebugTable()
	err := n.Codegen(&CodegenParams{
		ExecInputID:  -1,
		Module:       m,
		Func:         f,
		IOValues:     []value.Value{out},
		CurrentBlock: entry,
		Debug:        table,
		Location:     Location{NodeID: "n1"},
	})
	require.NoError(t, err)

	text := m.String()
	assert.True(t, strings.Contains(text, "store i32 7"))
	_, ok := table.Lookup("n1")
	assert.True(t, ok)
}
