// Package graph implements the graph model (spec.md §3.4–§3.7, §4.4–
// §4.6): GraphFunction, NodeInstance, the connection engine, the
// validator, and GraphModule/GraphStruct. Back-references
// (node→function, function→module, module→context) are realized as
// ordinary Go pointers rather than the arena-indexed handles spec.md
// §9 suggests — that strategy exists to give a manual-memory-management
// language a safe way to express a cyclic ownership graph, a problem
// Go's garbage collector already solves; see DESIGN.md.
package graph

import "github.com/flowlang/flc/uuidx"

// execEndpoint is one (node, exec-slot) pair, used on both sides of an
// exec connection.
type execEndpoint struct {
	node *NodeInstance
	slot int
}

// dataEndpoint is one (node, data-slot) pair, used on both sides of a
// data connection.
type dataEndpoint struct {
	node *NodeInstance
	slot int
}

// NodeID is a node instance's unique identifier within its function.
type NodeID = uuidx.UUID
