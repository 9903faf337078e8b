package graph

import (
	"fmt"

	"github.com/flowlang/flc/result"
)

// slotOutOfRange builds an E22/E23 entry (spec.md §7) naming which side
// of a connection was out of range, with the valid slot range as the
// payload for diagnostics.
func slotOutOfRange(code string, side string, idx, max int) *result.Result {
	return result.FailWithPayload(code,
		fmt.Sprintf("%s slot %d out of range", side, idx),
		map[string]any{"valid": validRange(max)},
	)
}

func validRange(max int) []int {
	out := make([]int, max)
	for i := range out {
		out[i] = i
	}
	return out
}

func crossFunctionError(lhs, rhs *NodeInstance) *result.Result {
	return result.Fail(result.CodeUnknownReference,
		"nodes %s and %s belong to different functions", lhs.ID(), rhs.ID())
}

func typeMismatchError(lhsType, rhsType fmt.Stringer) *result.Result {
	return result.Fail(result.CodeTypeMismatch,
		"cannot connect %s to %s", lhsType.String(), rhsType.String())
}

func unknownNodeError(id fmt.Stringer) *result.Result {
	return result.Fail(result.CodeUnknownReference, "no node with id %s", id.String())
}
