package nodetype

import (
	"encoding/json"
)

// UserRegistered wraps a node type supplied by a module outside this
// implementation's core (spec.md §3.3's escape hatch for ChiModule
// implementations that are not the builtin lang module or a
// GraphModule): its signature and configuration are fixed data, but
// its Codegen and Clone behavior are supplied by the registrant as
// plain functions, since user node types have no shared struct layout
// to embed into.
type UserRegistered struct {
	common
	config     json.RawMessage
	codegenFn  func(*CodegenParams) error
	cloneExtra func() (config json.RawMessage, codegenFn func(*CodegenParams) error)
}

// NewUserRegistered builds a UserRegistered node type. cloneExtra lets
// the registrant control what a Clone() actually duplicates (e.g. deep
// copying captured state in codegenFn's closure); a nil cloneExtra
// means the clone shares config and codegenFn with the original,
// which is safe for any codegenFn that is itself purely data-driven by
// CodegenParams.
func NewUserRegistered(
	moduleFullName, name, description string,
	sig Signature,
	config json.RawMessage,
	codegenFn func(*CodegenParams) error,
	cloneExtra func() (json.RawMessage, func(*CodegenParams) error),
) NodeType {
	return &UserRegistered{
		common:     common{moduleFullName, name, description, sig},
		config:     config,
		codegenFn:  codegenFn,
		cloneExtra: cloneExtra,
	}
}

func (n *UserRegistered) Clone() NodeType {
	cp := &UserRegistered{
		common: common{n.moduleFullName, n.name, n.description, n.cloneSignature()},
	}
	if n.cloneExtra != nil {
		cp.config, cp.codegenFn = n.cloneExtra()
	} else {
		cp.config, cp.codegenFn = n.config, n.codegenFn
	}
	return cp
}

func (n *UserRegistered) ToJSON() (json.RawMessage, error) {
	if n.config == nil {
		return json.RawMessage("{}"), nil
	}
	return n.config, nil
}

func (n *UserRegistered) Codegen(p *CodegenParams) error {
	return n.codegenFn(p)
}
