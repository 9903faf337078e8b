package nodetype

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Location is the structured debug-info handle threaded through every
// Codegen call (spec.md §4.7's "debug_location"). It is deliberately
// independent of any single backend's native metadata format: package
// debug consumes it directly to answer "what IR location does node N
// occupy", which is the only thing the bundled debugger needs — we do
// not attempt to emit DWARF-compatible LLVM debug metadata.
type Location struct {
	NodeID   string
	Function string
	File     string
	Line     int
}

// DebugTable accumulates one Location per node as the compiler walks a
// GraphFunction, keyed by node id. Package debug builds its breakpoint
// mapping directly from the finished table.
type DebugTable struct {
	byNode map[string]Location
}

// NewDebugTable returns an empty table.
func NewDebugTable() *DebugTable {
	return &DebugTable{byNode: make(map[string]Location)}
}

// Record stores loc for loc.NodeID, overwriting any previous entry
// (a node may be lowered into more than one block — entry-per-step —
// and the compiler always wants the most recently emitted location).
func (t *DebugTable) Record(loc Location) {
	if t == nil {
		return
	}
	t.byNode[loc.NodeID] = loc
}

// Lookup returns the recorded location for a node id, if any.
func (t *DebugTable) Lookup(nodeID string) (Location, bool) {
	if t == nil {
		return Location{}, false
	}
	loc, ok := t.byNode[nodeID]
	return loc, ok
}

// All returns a copy of every recorded (nodeID -> Location) pair.
func (t *DebugTable) All() map[string]Location {
	out := make(map[string]Location, len(t.byNode))
	for k, v := range t.byNode {
		out[k] = v
	}
	return out
}

// CodegenParams bundles everything a NodeType.Codegen implementation
// needs to emit its IR fragment (spec.md §4.7):
//
//   - ExecInputID is which exec input is being entered, or -1 for a
//     pure node lowered on demand outside the exec walk.
//   - IOValues is the node's data inputs followed by pointers to its
//     data outputs, in declared order — the "io_values" list of §4.7.
//   - CurrentBlock is the block the node must emit instructions into.
//   - OutputBlocks holds one block per declared exec output, in order;
//     nil for a pure node, which has none. A non-pure node's Codegen
//     must terminate CurrentBlock with a branch into exactly one of
//     these.
//   - Debug is the shared table; implementations call Debug.Record once
//     with their own Location (node id, current function, and any
//     available source reference) before returning.
type CodegenParams struct {
	ExecInputID  int
	Module       *ir.Module
	Func         *ir.Func
	IOValues     []value.Value
	CurrentBlock *ir.Block
	OutputBlocks []*ir.Block
	Debug        *DebugTable
	Location     Location
	// Locals maps a GraphFunction's local-variable names to the
	// alloca backing each one. Populated once, in the function's entry
	// block, before any node in that function is lowered — LocalGet and
	// LocalSet look themselves up here by name.
	Locals map[string]value.Value
}

// DataInputs slices the leading data-input portion of IOValues, given
// the node's own declared data-input count.
func (p *CodegenParams) DataInputs(n int) []value.Value {
	return p.IOValues[:n]
}

// OutputPointers slices the trailing output-pointer portion of
// IOValues, given the node's own declared data-input count.
func (p *CodegenParams) OutputPointers(dataInputCount int) []value.Value {
	return p.IOValues[dataInputCount:]
}

// Track records the current Location in the shared debug table. Every
// Codegen implementation calls this once, after it knows its emission
// is non-speculative (i.e. not about to be discarded).
func (p *CodegenParams) Track() {
	p.Debug.Record(p.Location)
}
