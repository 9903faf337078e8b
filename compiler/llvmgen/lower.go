package llvmgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/nodetype"
	"github.com/flowlang/flc/result"
)

// execStep identifies one basic block of the exec-order walk: a
// non-pure node entered through one specific exec-input slot (spec.md
// §4.8 step 2 — "one block per (node, exec input) pair").
type execStep struct {
	node graph.NodeID
	slot int
}

// lowerer holds the working state for one GraphFunction's body (spec.md
// §4.8): the entry-block output cells for every node, the exec-step
// block table, and the shared debug table every Codegen call records
// into.
type lowerer struct {
	m      *ir.Module
	irFunc *ir.Func
	f      *graph.GraphFunction
	debug  *nodetype.DebugTable

	cells      map[graph.NodeID][]value.Value
	locals     map[string]value.Value
	blocks     map[execStep]*ir.Block
	filled     map[execStep]bool
	unreach    *ir.Block
	worklist   []execStep
	result     *result.Result
}

// LowerBody fills in irFunc's basic blocks from f's node graph,
// implementing the six-step algorithm of spec.md §4.8. f is assumed to
// have already passed graph.Validate — LowerBody does not re-check
// invariants V1-V4, only trusts them.
func LowerBody(m *ir.Module, irFunc *ir.Func, f *graph.GraphFunction, debug *nodetype.DebugTable) *result.Result {
	l := &lowerer{
		m:      m,
		irFunc: irFunc,
		f:      f,
		debug:  debug,
		cells:  make(map[graph.NodeID][]value.Value),
		locals: make(map[string]value.Value),
		blocks: make(map[execStep]*ir.Block),
		filled: make(map[execStep]bool),
		result: result.New(),
	}

	entry := f.EntryNode()
	if entry == nil {
		l.result.Merge(result.Fail(result.CodeSchemaNode, "function %q has no entry node, cannot lower", f.Name()))
		return l.result
	}

	realEntry := irFunc.NewBlock("entry")
	l.allocateCells(realEntry)
	l.allocateLocals(realEntry)
	l.dispatchEntry(realEntry, entry)
	l.drainWorklist()

	return l.result
}

// allocateCells pre-allocates one output cell per declared data output
// of every node in the function, in the entry block. spec.md §4.8
// literally describes this only for non-pure nodes, but every pure
// NodeType's own Codegen (e.g. the const-* literals) also writes
// through an output-pointer IOValue exactly like a non-pure node does
// — so pure nodes need a cell too. Allocating for every node
// uniformly, rather than special-casing, is simpler and costs nothing
// a validated graph wouldn't already pay for.
func (l *lowerer) allocateCells(b *ir.Block) {
	for _, n := range l.f.Nodes() {
		outs := n.Type().DataOutputs()
		if len(outs) == 0 {
			continue
		}
		cells := make([]value.Value, len(outs))
		for i, o := range outs {
			cells[i] = b.NewAlloca(irType(o.Type))
		}
		l.cells[n.ID()] = cells
	}
}

// allocateLocals pre-allocates one cell per function-scoped local
// variable, shared by every LocalGet/LocalSet node referencing it
// (nodetype.CodegenParams.Locals).
func (l *lowerer) allocateLocals(b *ir.Block) {
	for _, lv := range l.f.Locals() {
		l.locals[lv.Name] = b.NewAlloca(irType(lv.Type))
	}
}

// unreachableBlock returns a single shared block, terminated with
// "unreachable", used whenever the exec walk reaches a dangling
// (unconnected) exec output. spec.md does not say what a compiled
// function should do when control would fall off the end of the
// graph; synthesizing "unreachable" is the standard LLVM idiom for a
// path the compiler can prove is never taken by a validated graph,
// and is documented as a judgment call.
func (l *lowerer) unreachableBlock() *ir.Block {
	if l.unreach == nil {
		l.unreach = l.irFunc.NewBlock("dangling")
		l.unreach.NewUnreachable()
	}
	return l.unreach
}

// getOrQueueTarget resolves a node's exec-output connection into the
// block for the corresponding (target, input-slot) step, creating and
// enqueueing that block the first time it is referenced so that
// multiple predecessors reaching the same step share one block (spec
// §4.8's block memoization).
func (l *lowerer) getOrQueueTarget(n *graph.NodeInstance, execOutputIdx int) *ir.Block {
	target, slot, ok := n.OutputExecTarget(execOutputIdx)
	if !ok {
		return l.unreachableBlock()
	}
	step := execStep{target.ID(), slot}
	if b, ok := l.blocks[step]; ok {
		return b
	}
	b := l.irFunc.NewBlock(fmt.Sprintf("n%s.%d", target.ID(), slot))
	l.blocks[step] = b
	l.worklist = append(l.worklist, step)
	return b
}

// dispatchEntry wires the real IR entry block to one dispatch block
// per declared exec input of the function. entryNodeType.Codegen picks
// its single live output by statically indexing OutputBlocks with the
// ExecInputID it was called with (nodetype/lang.go), so the only way
// to honor the function's runtime exec_input_id parameter is to call
// Codegen once per possible value, each time from a distinct block
// guarded by a runtime switch over the real parameter. The formal
// parameters get stored into their cells redundantly once per branch
// (harmless — the stored values are identical across calls) rather
// than reworking nodetype's Codegen contract for this one case.
func (l *lowerer) dispatchEntry(realEntry *ir.Block, entry *graph.NodeInstance) {
	n := len(l.f.ExecInputs())
	if n == 0 {
		n = 1
	}
	outputBlocks := make([]*ir.Block, n)
	for k := 0; k < n; k++ {
		if k < len(entry.Type().ExecOutputs()) {
			outputBlocks[k] = l.getOrQueueTarget(entry, k)
		} else {
			outputBlocks[k] = l.unreachableBlock()
		}
	}

	dispatch := make([]*ir.Block, n)
	for k := 0; k < n; k++ {
		dispatch[k] = l.irFunc.NewBlock(paramName("entry", k))
		params := &nodetype.CodegenParams{
			ExecInputID:  k,
			Module:       l.m,
			Func:         l.irFunc,
			IOValues:     l.cells[entry.ID()],
			CurrentBlock: dispatch[k],
			OutputBlocks: outputBlocks,
			Debug:        l.debug,
			Location:     nodetype.Location{NodeID: entry.ID().String(), Function: l.f.Name()},
			Locals:       l.locals,
		}
		if err := entry.Type().Codegen(params); err != nil {
			l.result.Merge(result.Fail(result.CodeSchemaNode, "lowering entry node of %q: %v", l.f.Name(), err))
		}
	}

	if n == 1 {
		realEntry.NewBr(dispatch[0])
		return
	}
	cases := make([]*ir.Case, 0, n-1)
	for k := 1; k < n; k++ {
		cases = append(cases, ir.NewCase(constant.NewInt(types.I32, int64(k)), dispatch[k]))
	}
	realEntry.NewSwitch(l.irFunc.Params[0], dispatch[0], cases...)
}

// drainWorklist processes every queued (node, exec-input) step exactly
// once, emitting that node's IR fragment into its pre-created block.
func (l *lowerer) drainWorklist() {
	for len(l.worklist) > 0 {
		step := l.worklist[0]
		l.worklist = l.worklist[1:]
		if l.filled[step] {
			continue
		}
		l.filled[step] = true
		l.lowerStep(step)
	}
}

// lowerStep materializes every data input of step.node (recursively
// computing any pure producer inline, memoized for the duration of
// this one step per spec §4.8 step 6), assembles this node's
// OutputBlocks from its own exec outputs, and invokes its Codegen.
func (l *lowerer) lowerStep(step execStep) {
	n, ok := l.f.Node(step.node)
	if !ok {
		l.result.Merge(result.Fail(result.CodeSchemaNode, "exec walk reached unknown node %s", step.node))
		return
	}
	b := l.blocks[step]

	ins := n.Type().DataInputs()
	pureCache := make(map[graph.NodeID]bool)
	ioValues := make([]value.Value, 0, len(ins)+len(n.Type().DataOutputs()))
	for i := range ins {
		v, err := l.materializeInput(n, i, b, pureCache)
		if err != nil {
			l.result.Merge(result.Fail(result.CodeSchemaConnection, "%v", err))
			return
		}
		ioValues = append(ioValues, v)
	}
	ioValues = append(ioValues, l.cells[n.ID()]...)

	outputBlocks := make([]*ir.Block, len(n.Type().ExecOutputs()))
	for i := range outputBlocks {
		outputBlocks[i] = l.getOrQueueTarget(n, i)
	}

	params := &nodetype.CodegenParams{
		ExecInputID:  step.slot,
		Module:       l.m,
		Func:         l.irFunc,
		IOValues:     ioValues,
		CurrentBlock: b,
		OutputBlocks: outputBlocks,
		Debug:        l.debug,
		Location:     nodetype.Location{NodeID: n.ID().String(), Function: l.f.Name()},
		Locals:       l.locals,
	}
	if err := n.Type().Codegen(params); err != nil {
		l.result.Merge(result.Fail(result.CodeSchemaNode, "lowering node %s: %v", n.ID(), err))
	}
}

// materializeInput loads the value currently feeding data-input idx of
// consumer. A pure producer is computed inline into curBlock (caching
// its result in pureCache for the remainder of this one exec step);
// a non-pure producer's value is simply loaded back out of its
// already-computed output cell.
func (l *lowerer) materializeInput(consumer *graph.NodeInstance, idx int, curBlock *ir.Block, pureCache map[graph.NodeID]bool) (value.Value, error) {
	source, outSlot, ok := consumer.InputDataSource(idx)
	if !ok {
		return nil, fmt.Errorf("node %s has no source feeding data input %d", consumer.ID(), idx)
	}
	if source.Type().Pure() {
		if err := l.ensurePureComputed(source, curBlock, pureCache); err != nil {
			return nil, err
		}
	}
	cell := l.cells[source.ID()][outSlot]
	outType := source.Type().DataOutputs()[outSlot].Type
	return curBlock.NewLoad(irType(outType), cell), nil
}

// ensurePureComputed invokes n's Codegen exactly once per exec step,
// after recursively materializing its own data inputs, then marks it
// cached. A pure node is never given any OutputBlocks or assigned its
// own exec step — it always runs inline in whatever block currently
// needs its value.
func (l *lowerer) ensurePureComputed(n *graph.NodeInstance, curBlock *ir.Block, pureCache map[graph.NodeID]bool) error {
	if pureCache[n.ID()] {
		return nil
	}
	ins := n.Type().DataInputs()
	ioValues := make([]value.Value, 0, len(ins)+len(n.Type().DataOutputs()))
	for i := range ins {
		v, err := l.materializeInput(n, i, curBlock, pureCache)
		if err != nil {
			return err
		}
		ioValues = append(ioValues, v)
	}
	ioValues = append(ioValues, l.cells[n.ID()]...)

	params := &nodetype.CodegenParams{
		ExecInputID:  -1,
		Module:       l.m,
		Func:         l.irFunc,
		IOValues:     ioValues,
		CurrentBlock: curBlock,
		Debug:        l.debug,
		Location:     nodetype.Location{NodeID: n.ID().String(), Function: l.f.Name()},
		Locals:       l.locals,
	}
	if err := n.Type().Codegen(params); err != nil {
		return fmt.Errorf("lowering pure node %s: %w", n.ID(), err)
	}
	pureCache[n.ID()] = true
	return nil
}
