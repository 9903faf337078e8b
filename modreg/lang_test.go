package modreg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLangModuleNodeTypeNames(t *testing.T) {
	m := newLangModule()
	names := m.NodeTypeNames()
	assert.Contains(t, names, "strcat")
	assert.Contains(t, names, "strprintf")
	assert.Contains(t, names, "if")
}

func TestLangModuleIfNode(t *testing.T) {
	m := newLangModule()
	n, err := m.NodeTypeFromName("if", json.RawMessage("{}"))
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false"}, n.ExecOutputs())
}

func TestLangModuleStrPrintf(t *testing.T) {
	m := newLangModule()
	cfg, _ := json.Marshal(map[string]any{"format": "hi {}"})
	n, err := m.NodeTypeFromName("strprintf", cfg)
	require.NoError(t, err)
	assert.Len(t, n.DataInputs(), 1)
}

func TestLangModuleUnknownNodeType(t *testing.T) {
	m := newLangModule()
	_, err := m.NodeTypeFromName("nope", json.RawMessage("{}"))
	assert.Error(t, err)
}

func TestLangModuleTypeNames(t *testing.T) {
	m := newLangModule()
	assert.ElementsMatch(t, []string{"i32", "bool", "float", "string"}, m.TypeNames())
}
