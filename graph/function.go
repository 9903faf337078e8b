package graph

import (
	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/nodetype"
	"github.com/flowlang/flc/result"
	"github.com/flowlang/flc/uuidx"
)

// GraphFunction is a directed graph of node instances plus its I/O
// signature (spec.md §3.4): the unit of compilation, lowering to one
// backend IR function.
type GraphFunction struct {
	module      *GraphModule
	name        string
	description string

	dataIn  []datatype.NamedDataType
	dataOut []datatype.NamedDataType
	execIn  []string
	execOut []string

	locals []datatype.NamedDataType

	nodes map[NodeID]*NodeInstance
}

// newGraphFunction constructs an empty function owned by module.
// Exported via GraphModule.NewFunction so callers never hold a
// GraphFunction detached from its module.
func newGraphFunction(module *GraphModule, name string) *GraphFunction {
	return &GraphFunction{
		module: module,
		name:   name,
		nodes:  make(map[NodeID]*NodeInstance),
	}
}

func (f *GraphFunction) Name() string        { return f.name }
func (f *GraphFunction) Description() string { return f.description }
func (f *GraphFunction) SetDescription(d string) { f.description = d }
func (f *GraphFunction) Module() *GraphModule { return f.module }

// SetSignature overwrites the function's whole I/O signature directly,
// without touching any existing node. Used only by package chimod's
// loader, which reconstructs entry/exit nodes itself from the
// serialized document instead of relying on updateEntries/updateExits
// to synthesize them.
func (f *GraphFunction) SetSignature(dataIn, dataOut []datatype.NamedDataType, execIn, execOut []string) {
	f.dataIn, f.dataOut, f.execIn, f.execOut = dataIn, dataOut, execIn, execOut
}

func (f *GraphFunction) DataInputs() []datatype.NamedDataType  { return f.dataIn }
func (f *GraphFunction) DataOutputs() []datatype.NamedDataType { return f.dataOut }
func (f *GraphFunction) ExecInputs() []string                  { return f.execIn }
func (f *GraphFunction) ExecOutputs() []string                 { return f.execOut }
func (f *GraphFunction) Locals() []datatype.NamedDataType      { return append([]datatype.NamedDataType(nil), f.locals...) }

// Node looks up a node instance by id.
func (f *GraphFunction) Node(id NodeID) (*NodeInstance, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Nodes returns every node instance in the function, in
// non-deterministic map order (insertion order is irrelevant per
// spec.md §3.4).
func (f *GraphFunction) Nodes() []*NodeInstance {
	out := make([]*NodeInstance, 0, len(f.nodes))
	for _, n := range f.nodes {
		out = append(out, n)
	}
	return out
}

// EntryNode returns the function's unique lang:entry node, if any
// (invariant I1).
func (f *GraphFunction) EntryNode() *NodeInstance {
	for _, n := range f.nodes {
		if n.typ.QualifiedName() == "lang:entry" {
			return n
		}
	}
	return nil
}

// ExitNodes returns every lang:exit node in the function. Unlike
// entry, a function may have more than one exit node (one per return
// path through the graph); V1 only requires at least one be reachable.
func (f *GraphFunction) ExitNodes() []*NodeInstance {
	var out []*NodeInstance
	for _, n := range f.nodes {
		if n.typ.QualifiedName() == "lang:exit" {
			out = append(out, n)
		}
	}
	return out
}

// InsertNode creates a new node owning typ at position (x, y). If id
// is nil a random Uuid is generated; a caller-supplied id colliding
// with an existing node is an EUKN error and no node is inserted
// (spec.md §4.4.1).
func (f *GraphFunction) InsertNode(typ nodetype.NodeType, x, y float64, id *NodeID) (*NodeInstance, *result.Result) {
	r := result.New()
	var nodeID NodeID
	if id != nil {
		nodeID = *id
		if _, exists := f.nodes[nodeID]; exists {
			r.Merge(result.Fail(result.CodeUnknownReference, "node id %s already exists in function %q", nodeID, f.name))
			return nil, r
		}
	} else {
		nodeID = uuidx.New()
	}
	n := newNodeInstance(f, nodeID, typ)
	n.x, n.y = x, y
	f.nodes[nodeID] = n
	return n, r
}

// RemoveNode severs every incident connection (both directions, both
// kinds) then erases the node from the node table. Disconnection
// failures are collected but never abort the removal (spec.md
// §4.4.1).
func (f *GraphFunction) RemoveNode(n *NodeInstance) *result.Result {
	r := result.New()
	for _, eps := range n.inputExec {
		for _, ep := range append([]execEndpoint(nil), eps...) {
			r.Merge(DisconnectExec(ep.node, ep.slot))
		}
	}
	for i := range n.outputExec {
		if n.outputExec[i] != nil {
			r.Merge(DisconnectExec(n, i))
		}
	}
	for _, ep := range n.inputData {
		if ep != nil {
			r.Merge(DisconnectData(ep.node, ep.slot, n))
		}
	}
	for i, targets := range n.outputData {
		for _, ep := range append([]dataEndpoint(nil), targets...) {
			r.Merge(DisconnectData(n, i, ep.node))
		}
	}
	delete(f.nodes, n.id)
	return r
}
