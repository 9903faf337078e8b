// Package modreg implements the module registry (spec.md §3.6): the
// process-wide Context that loads ChiModules, plus the builtin lang
// module providing the core primitive types and node types every
// GraphModule is implicitly allowed to reference.
package modreg

import (
	"encoding/json"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/nodetype"
)

// ChiModule is the base contract every module satisfies (spec.md
// §3.6): the builtin lang module, and — via package graph — every
// user-authored GraphModule.
type ChiModule interface {
	// FullName is the module's globally unique path, e.g. "lang" or
	// "github.com/x/y/main".
	FullName() string
	// ShortName is a display name, not required to be unique.
	ShortName() string
	// Dependencies lists the full names of modules this module
	// references types or node types from.
	Dependencies() map[string]struct{}

	// NodeTypeFromName resolves a local node type name plus its
	// instance configuration JSON into a concrete NodeType. Each call
	// returns an independent NodeType value (see nodetype.NodeType.Clone
	// for why instances must not alias shared state).
	NodeTypeFromName(name string, configJSON json.RawMessage) (nodetype.NodeType, error)
	// TypeFromName resolves a local type name into a DataType.
	TypeFromName(name string) (datatype.DataType, error)

	NodeTypeNames() []string
	TypeNames() []string
}
