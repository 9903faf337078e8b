package graph

import (
	"github.com/flowlang/flc/result"
)

// Validate checks a GraphFunction against the invariants lowering
// depends on (spec.md §4.8's "well-formed graph" precondition, V1-V4):
// a unique reachable entry, every exec-reachable non-pure node fully
// wired, every exec-reachable data input satisfied, and no cycle among
// non-pure nodes walked through exec edges.
func Validate(f *GraphFunction) *result.Result {
	r := result.New()

	entry := f.EntryNode()
	if entry == nil {
		r.Merge(result.Fail(result.CodeUnknownReference, "function %q has no entry node", f.name))
		return r
	}

	reached := execReachable(entry)

	if !anyExitReached(f, reached) {
		r.AddEntry("V1", "no exit node is reachable from entry in function "+f.name, nil)
	}

	dataChecked := map[*NodeInstance]struct{}{}
	for n := range reached {
		checkExecWiring(f, n, r)
		checkDataWiring(f, n, r, dataChecked)
	}

	if cyclePath := findExecCycle(f, reached); cyclePath != nil {
		r.AddEntry("V4", "exec graph contains a cycle among non-pure nodes in function "+f.name, cyclePath)
	}

	return r
}

// execReachable walks every exec-output edge transitively from entry,
// following through every non-pure node it finds (V1). Pure nodes
// have no exec ports and are reached only as data dependencies, not
// through this walk.
func execReachable(entry *NodeInstance) map[*NodeInstance]struct{} {
	seen := map[*NodeInstance]struct{}{entry: {}}
	stack := []*NodeInstance{entry}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range n.outputExec {
			target, _, ok := n.OutputExecTarget(i)
			if !ok {
				continue
			}
			if _, visited := seen[target]; !visited {
				seen[target] = struct{}{}
				stack = append(stack, target)
			}
		}
	}
	return seen
}

func anyExitReached(f *GraphFunction, reached map[*NodeInstance]struct{}) bool {
	for _, n := range f.ExitNodes() {
		if _, ok := reached[n]; ok {
			return true
		}
	}
	return false
}

// checkExecWiring implements V2: every exec-reachable non-pure node
// other than entry must have at least one connected exec input (entry
// is reached by definition, not by an incoming edge).
func checkExecWiring(f *GraphFunction, n *NodeInstance, r *result.Result) {
	if n.typ.Pure() || n == f.EntryNode() {
		return
	}
	for i := range n.inputExec {
		if n.InputExecCount(i) == 0 {
			r.AddEntry("V2", "node "+n.id.String()+" exec input "+n.typ.ExecInputs()[i]+" is unconnected", nil)
		}
	}
}

// checkDataWiring implements V3: every data input of every node
// reached during lowering must be connected, not just the
// exec-reached nodes themselves. Lowering pulls in pure producers
// transitively through an exec-reached node's data inputs (spec.md
// §4.8's on-demand pure-node codegen), and those producers have data
// inputs of their own that Validate must catch up front rather than
// leaving to surface as a lowering error. checked dedupes the walk
// across the whole exec-reachable set, since the same pure producer
// can feed more than one reached node.
func checkDataWiring(f *GraphFunction, n *NodeInstance, r *result.Result, checked map[*NodeInstance]struct{}) {
	if _, done := checked[n]; done {
		return
	}
	checked[n] = struct{}{}

	for i := range n.inputData {
		source, _, ok := n.InputDataSource(i)
		if !ok {
			r.AddEntry("V3", "node "+n.id.String()+" data input "+n.typ.DataInputs()[i].Name+" is unconnected", nil)
			continue
		}
		if source.typ.Pure() {
			checkDataWiring(f, source, r, checked)
		}
	}
}

// findExecCycle implements V4 via a three-color DFS over non-pure
// nodes restricted to reached, following exec-output edges. Returns
// the cyclic path of node ids, or nil if acyclic.
func findExecCycle(f *GraphFunction, reached map[*NodeInstance]struct{}) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*NodeInstance]int, len(reached))
	var path []string
	var visit func(n *NodeInstance) []string
	visit = func(n *NodeInstance) []string {
		color[n] = gray
		path = append(path, n.id.String())
		for i := range n.outputExec {
			target, _, ok := n.OutputExecTarget(i)
			if !ok {
				continue
			}
			if _, ok := reached[target]; !ok {
				continue
			}
			switch color[target] {
			case white:
				if cyc := visit(target); cyc != nil {
					return cyc
				}
			case gray:
				return append(append([]string(nil), path...), target.id.String())
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return nil
	}
	for n := range reached {
		if color[n] == white {
			if cyc := visit(n); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}
