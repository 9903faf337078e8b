// Package debug turns a compiled module's nodetype.DebugTable into a
// breakpoint map an external debugger can query (SPEC_FULL.md §7's
// "Debugger glue"): which node produced which emitted IR location, and
// the reverse lookup, plus an optional HTTP server exposing both.
package debug

import (
	"sort"
	"strconv"

	"github.com/flowlang/flc/nodetype"
)

// Breakpoint is one node's resolved source/IR location, in the shape
// an external debugger wants to display or set a stop on.
type Breakpoint struct {
	NodeID   string `json:"node_id"`
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Map is a queryable snapshot of a DebugTable: every node's location,
// plus an index from (file, line) back to the node ids that occupy it
// (several nodes in a pure-computation chain can share one line).
type Map struct {
	byNode map[string]Breakpoint
	byLine map[string][]string
}

// BuildMap snapshots table into a Map. Safe to call once after
// compilation finishes; table is not consulted again afterward.
func BuildMap(table *nodetype.DebugTable) *Map {
	m := &Map{
		byNode: make(map[string]Breakpoint),
		byLine: make(map[string][]string),
	}
	for nodeID, loc := range table.All() {
		bp := Breakpoint{NodeID: nodeID, Function: loc.Function, File: loc.File, Line: loc.Line}
		m.byNode[nodeID] = bp
		key := lineKey(loc.File, loc.Line)
		m.byLine[key] = append(m.byLine[key], nodeID)
	}
	for _, ids := range m.byLine {
		sort.Strings(ids)
	}
	return m
}

func lineKey(file string, line int) string {
	return file + ":" + strconv.Itoa(line)
}

// Lookup returns the breakpoint recorded for a node id.
func (m *Map) Lookup(nodeID string) (Breakpoint, bool) {
	bp, ok := m.byNode[nodeID]
	return bp, ok
}

// NodesAt returns every node id whose recorded location is (file,
// line), in sorted order.
func (m *Map) NodesAt(file string, line int) []string {
	return append([]string(nil), m.byLine[lineKey(file, line)]...)
}

// All returns every breakpoint, sorted by node id, for stable output
// (e.g. JSON listing endpoints).
func (m *Map) All() []Breakpoint {
	ids := make([]string, 0, len(m.byNode))
	for id := range m.byNode {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Breakpoint, len(ids))
	for i, id := range ids {
		out[i] = m.byNode[id]
	}
	return out
}
