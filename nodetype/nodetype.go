// Package nodetype implements NodeType (spec.md §3.3): the polymorphic
// description of one node class — its signature, clone, JSON
// configuration, and LLVM codegen. Concrete variants live alongside
// this file: builtin lang nodes (lang.go), synthesized function-call /
// struct / local-variable node types (synth_*.go), and the escape
// hatch for externally registered node types (user.go).
package nodetype

import (
	"encoding/json"

	"github.com/flowlang/flc/datatype"
)

// Signature is the ordered set of ports a NodeType declares: data
// inputs/outputs and exec inputs/outputs (spec.md §3.3).
type Signature struct {
	DataIn  []datatype.NamedDataType
	DataOut []datatype.NamedDataType
	ExecIn  []string
	ExecOut []string
}

// Pure reports whether both exec lists are empty — a pure, data-only
// node lowered on demand rather than during the exec walk (spec.md
// §4.7).
func (s Signature) Pure() bool {
	return len(s.ExecIn) == 0 && len(s.ExecOut) == 0
}

// Equal compares two signatures port-for-port, matching data ports by
// DataType.Equal (data port names are not compared) and exec labels by
// string equality.
func (s Signature) Equal(other Signature) bool {
	if len(s.DataIn) != len(other.DataIn) || len(s.DataOut) != len(other.DataOut) ||
		len(s.ExecIn) != len(other.ExecIn) || len(s.ExecOut) != len(other.ExecOut) {
		return false
	}
	for i := range s.DataIn {
		if !s.DataIn[i].Type.Equal(other.DataIn[i].Type) {
			return false
		}
	}
	for i := range s.DataOut {
		if !s.DataOut[i].Type.Equal(other.DataOut[i].Type) {
			return false
		}
	}
	for i := range s.ExecIn {
		if s.ExecIn[i] != other.ExecIn[i] {
			return false
		}
	}
	for i := range s.ExecOut {
		if s.ExecOut[i] != other.ExecOut[i] {
			return false
		}
	}
	return true
}

// NodeType is the capability set every node class implements (spec.md
// §3.3).
type NodeType interface {
	// Name is the node type's local (module-relative) name.
	Name() string
	// Description is a human-readable summary, possibly empty.
	Description() string
	// QualifiedName returns "<module>:<name>".
	QualifiedName() string

	DataInputs() []datatype.NamedDataType
	DataOutputs() []datatype.NamedDataType
	ExecInputs() []string
	ExecOutputs() []string

	// Pure reports whether both exec lists are empty.
	Pure() bool

	// Clone produces an independent NodeType with identical signature
	// and configuration. Must be a deep copy: the clone's signature is
	// held by value, not shared with the original (spec.md §4.3).
	Clone() NodeType

	// ToJSON returns the node type's configuration payload — the
	// literal for a const-* node, the field list for entry/exit, "{}"
	// for if/strcat, and for a synthesized type a small object naming
	// its referent ({"target_module","target_function"} for call.*,
	// {"function","local"} for get.*/set.*, {"struct"} for
	// make.*/break.*). The loader does not read a synthesized type's
	// payload: its identity is carried by its qualified name.
	ToJSON() (json.RawMessage, error)

	// Codegen emits the node's IR fragment. See codegen.go for the full
	// contract (spec.md §4.7).
	Codegen(params *CodegenParams) error
}

// common holds the fields shared by every NodeType variant: a
// qualified name scoped to a module, a description, and a signature.
// Concrete variants embed common and add their own configuration and
// Codegen/Clone/ToJSON methods.
type common struct {
	moduleFullName string
	name           string
	description    string
	sig            Signature
}

func (c common) Name() string        { return c.name }
func (c common) Description() string { return c.description }
func (c common) QualifiedName() string {
	if c.moduleFullName == "" {
		return c.name
	}
	return c.moduleFullName + ":" + c.name
}
func (c common) DataInputs() []datatype.NamedDataType  { return c.sig.DataIn }
func (c common) DataOutputs() []datatype.NamedDataType { return c.sig.DataOut }
func (c common) ExecInputs() []string                  { return c.sig.ExecIn }
func (c common) ExecOutputs() []string                 { return c.sig.ExecOut }
func (c common) Pure() bool                            { return c.sig.Pure() }

func cloneNamed(in []datatype.NamedDataType) []datatype.NamedDataType {
	out := make([]datatype.NamedDataType, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (c common) cloneSignature() Signature {
	return Signature{
		DataIn:  cloneNamed(c.sig.DataIn),
		DataOut: cloneNamed(c.sig.DataOut),
		ExecIn:  cloneStrings(c.sig.ExecIn),
		ExecOut: cloneStrings(c.sig.ExecOut),
	}
}

// MangleFuncName computes the backend IR function name for a
// GraphFunction (spec.md §4.9 / Glossary "Mangled name"): the module's
// full dotted path followed by the function's local name.
func MangleFuncName(moduleFullName, funcName string) string {
	return moduleFullName + "." + funcName
}
