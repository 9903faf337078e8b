package graph

import (
	"github.com/flowlang/flc/nodetype"
)

// NodeInstance is one node in a GraphFunction's graph (spec.md §3.5):
// an owned NodeType, a canvas position, and the four connection slot
// vectors.
type NodeInstance struct {
	id  NodeID
	typ nodetype.NodeType
	x, y float64
	fn  *GraphFunction

	inputExec  [][]execEndpoint
	outputExec []*execEndpoint
	inputData  []*dataEndpoint
	outputData [][]dataEndpoint
}

func newNodeInstance(fn *GraphFunction, id NodeID, typ nodetype.NodeType) *NodeInstance {
	n := &NodeInstance{id: id, typ: typ, fn: fn}
	n.resizeSlots()
	return n
}

func (n *NodeInstance) resizeSlots() {
	n.inputExec = make([][]execEndpoint, len(n.typ.ExecInputs()))
	n.outputExec = make([]*execEndpoint, len(n.typ.ExecOutputs()))
	n.inputData = make([]*dataEndpoint, len(n.typ.DataInputs()))
	n.outputData = make([][]dataEndpoint, len(n.typ.DataOutputs()))
}

// ID returns the node's unique identifier within its function.
func (n *NodeInstance) ID() NodeID { return n.id }

// Type returns the node's current NodeType.
func (n *NodeInstance) Type() nodetype.NodeType { return n.typ }

// Function returns the owning GraphFunction.
func (n *NodeInstance) Function() *GraphFunction { return n.fn }

// X returns the node's canvas X position.
func (n *NodeInstance) X() float64 { return n.x }

// Y returns the node's canvas Y position.
func (n *NodeInstance) Y() float64 { return n.y }

// SetX sets the node's canvas X position.
func (n *NodeInstance) SetX(x float64) { n.x = x }

// SetY sets the node's canvas Y position.
func (n *NodeInstance) SetY(y float64) { n.y = y }

// InputExecCount returns how many edges currently feed exec-input
// slot i (multi-fan-in).
func (n *NodeInstance) InputExecCount(i int) int { return len(n.inputExec[i]) }

// OutputExecTarget returns the node and slot exec-output slot i
// currently targets, or ok=false if unconnected.
func (n *NodeInstance) OutputExecTarget(i int) (target *NodeInstance, slot int, ok bool) {
	ep := n.outputExec[i]
	if ep == nil {
		return nil, 0, false
	}
	return ep.node, ep.slot, true
}

// InputDataSource returns the node and slot currently feeding
// data-input slot i, or ok=false if unconnected.
func (n *NodeInstance) InputDataSource(i int) (source *NodeInstance, slot int, ok bool) {
	ep := n.inputData[i]
	if ep == nil {
		return nil, 0, false
	}
	return ep.node, ep.slot, true
}

// OutputDataTargets returns every (node, slot) data-output slot i
// currently fans out to.
func (n *NodeInstance) OutputDataTargets(i int) []struct {
	Node *NodeInstance
	Slot int
} {
	out := make([]struct {
		Node *NodeInstance
		Slot int
	}, len(n.outputData[i]))
	for j, ep := range n.outputData[i] {
		out[j] = struct {
			Node *NodeInstance
			Slot int
		}{ep.node, ep.slot}
	}
	return out
}

// SetType replaces n's NodeType, disconnecting every slot that no
// longer exists or no longer type-checks against its peer, then
// resizing the slot vectors to the new signature (spec.md §4.4.5,
// property P7).
func (n *NodeInstance) SetType(newType nodetype.NodeType) {
	old := n.typ

	for i := range n.inputExec {
		if i >= len(newType.ExecInputs()) {
			for _, ep := range append([]execEndpoint(nil), n.inputExec[i]...) {
				DisconnectExec(ep.node, ep.slot)
			}
		}
	}
	for i := range n.outputExec {
		if i >= len(newType.ExecOutputs()) && n.outputExec[i] != nil {
			DisconnectExec(n, i)
		}
	}
	for i := range n.inputData {
		ep := n.inputData[i]
		if ep == nil {
			continue
		}
		if i >= len(newType.DataInputs()) {
			DisconnectData(ep.node, ep.slot, n)
			continue
		}
		oldType := old.DataInputs()[i].Type
		newSlotType := newType.DataInputs()[i].Type
		if !oldType.Equal(newSlotType) {
			DisconnectData(ep.node, ep.slot, n)
		}
	}
	for i := range n.outputData {
		if i >= len(newType.DataOutputs()) {
			for _, ep := range append([]dataEndpoint(nil), n.outputData[i]...) {
				DisconnectData(n, i, ep.node)
			}
			continue
		}
		oldType := old.DataOutputs()[i].Type
		newSlotType := newType.DataOutputs()[i].Type
		if !oldType.Equal(newSlotType) {
			for _, ep := range append([]dataEndpoint(nil), n.outputData[i]...) {
				DisconnectData(n, i, ep.node)
			}
		}
	}

	n.typ = newType
	n.resizeSlotsPreserving()
}

// resizeSlotsPreserving resizes every slot vector to the new type's
// signature, keeping already-valid entries (everything SetType's
// disconnection pass didn't clear) in place.
func (n *NodeInstance) resizeSlotsPreserving() {
	n.inputExec = resizeExecIn(n.inputExec, len(n.typ.ExecInputs()))
	n.outputExec = resizeExecOut(n.outputExec, len(n.typ.ExecOutputs()))
	n.inputData = resizeDataIn(n.inputData, len(n.typ.DataInputs()))
	n.outputData = resizeDataOut(n.outputData, len(n.typ.DataOutputs()))
}

func resizeExecIn(in [][]execEndpoint, n int) [][]execEndpoint {
	out := make([][]execEndpoint, n)
	copy(out, in)
	return out
}

func resizeExecOut(in []*execEndpoint, n int) []*execEndpoint {
	out := make([]*execEndpoint, n)
	copy(out, in)
	return out
}

func resizeDataIn(in []*dataEndpoint, n int) []*dataEndpoint {
	out := make([]*dataEndpoint, n)
	copy(out, in)
	return out
}

func resizeDataOut(in [][]dataEndpoint, n int) [][]dataEndpoint {
	out := make([][]dataEndpoint, n)
	copy(out, in)
	return out
}
