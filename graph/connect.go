package graph

import "github.com/flowlang/flc/result"

// ConnectData wires lhs's data-output slot lhsOut to rhs's data-input
// slot rhsIn (spec.md §4.5). Implicitly disconnects whatever was
// already feeding rhsIn first, since a data input slot holds at most
// one producer (C2).
func ConnectData(lhs *NodeInstance, lhsOut int, rhs *NodeInstance, rhsIn int) *result.Result {
	r := result.New()
	if lhs.fn != rhs.fn {
		r.Merge(crossFunctionError(lhs, rhs))
		return r
	}
	if lhsOut < 0 || lhsOut >= len(lhs.outputData) {
		r.Merge(slotOutOfRange(result.CodeSlotOutOfRangeA, "output", lhsOut, len(lhs.outputData)))
		return r
	}
	if rhsIn < 0 || rhsIn >= len(rhs.inputData) {
		r.Merge(slotOutOfRange(result.CodeSlotOutOfRangeB, "input", rhsIn, len(rhs.inputData)))
		return r
	}
	lhsType := lhs.typ.DataOutputs()[lhsOut].Type
	rhsType := rhs.typ.DataInputs()[rhsIn].Type
	if !lhsType.Equal(rhsType) {
		r.Merge(typeMismatchError(lhsType, rhsType))
		return r
	}
	if existing := rhs.inputData[rhsIn]; existing != nil {
		r.Merge(DisconnectData(existing.node, existing.slot, rhs))
	}
	lhs.outputData[lhsOut] = append(lhs.outputData[lhsOut], dataEndpoint{node: rhs, slot: rhsIn})
	rhs.inputData[rhsIn] = &dataEndpoint{node: lhs, slot: lhsOut}
	return r
}

// ConnectExec wires lhs's exec-output slot lhsOut to rhs's exec-input
// slot rhsIn (spec.md §4.5). Implicitly disconnects whatever lhsOut
// was already pointed at, since an exec output slot holds at most one
// successor (C2).
func ConnectExec(lhs *NodeInstance, lhsOut int, rhs *NodeInstance, rhsIn int) *result.Result {
	r := result.New()
	if lhs.fn != rhs.fn {
		r.Merge(crossFunctionError(lhs, rhs))
		return r
	}
	if lhsOut < 0 || lhsOut >= len(lhs.outputExec) {
		r.Merge(slotOutOfRange(result.CodeSlotOutOfRangeA, "output", lhsOut, len(lhs.outputExec)))
		return r
	}
	if rhsIn < 0 || rhsIn >= len(rhs.inputExec) {
		r.Merge(slotOutOfRange(result.CodeSlotOutOfRangeB, "input", rhsIn, len(rhs.inputExec)))
		return r
	}
	if lhs.outputExec[lhsOut] != nil {
		r.Merge(DisconnectExec(lhs, lhsOut))
	}
	lhs.outputExec[lhsOut] = &execEndpoint{node: rhs, slot: rhsIn}
	rhs.inputExec[rhsIn] = append(rhs.inputExec[rhsIn], execEndpoint{node: lhs, slot: lhsOut})
	return r
}

// DisconnectData removes the data edge from lhs's output slot lhsOut
// to rhs, wherever on rhs's input slots it currently lands (spec.md
// §4.5).
func DisconnectData(lhs *NodeInstance, lhsOut int, rhs *NodeInstance) *result.Result {
	r := result.New()
	if lhsOut < 0 || lhsOut >= len(lhs.outputData) {
		r.Merge(slotOutOfRange(result.CodeSlotOutOfRangeA, "output", lhsOut, len(lhs.outputData)))
		return r
	}
	targets := lhs.outputData[lhsOut]
	pos := -1
	for i, ep := range targets {
		if ep.node == rhs {
			pos = i
			break
		}
	}
	if pos == -1 {
		r.Merge(unknownNodeError(rhs.ID()))
		return r
	}
	rhsIn := targets[pos].slot
	if back := rhs.inputData[rhsIn]; back == nil || back.node != lhs || back.slot != lhsOut {
		r.Merge(result.Fail(result.CodeUnknownReference, "connection symmetry violated between %s and %s", lhs.ID(), rhs.ID()))
		return r
	}
	lhs.outputData[lhsOut] = append(targets[:pos], targets[pos+1:]...)
	rhs.inputData[rhsIn] = nil
	return r
}

// DisconnectExec removes the exec edge leaving lhs's output slot
// lhsOut, wherever it currently lands (spec.md §4.5).
func DisconnectExec(lhs *NodeInstance, lhsOut int) *result.Result {
	r := result.New()
	if lhsOut < 0 || lhsOut >= len(lhs.outputExec) {
		r.Merge(slotOutOfRange(result.CodeSlotOutOfRangeA, "output", lhsOut, len(lhs.outputExec)))
		return r
	}
	ep := lhs.outputExec[lhsOut]
	if ep == nil {
		r.Merge(result.Fail(result.CodeUnknownReference, "output exec slot %d on %s is not connected", lhsOut, lhs.ID()))
		return r
	}
	target := ep.node
	back := target.inputExec[ep.slot]
	pos := -1
	for i, b := range back {
		if b.node == lhs && b.slot == lhsOut {
			pos = i
			break
		}
	}
	if pos != -1 {
		target.inputExec[ep.slot] = append(back[:pos], back[pos+1:]...)
	}
	lhs.outputExec[lhsOut] = nil
	return r
}
