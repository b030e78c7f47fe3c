// Package callgraph builds a directed multigraph of direct function calls
// from a decoded module, and computes which defined functions are
// unreachable from any entry point.
package callgraph

import (
	"sort"

	"github.com/wasmlens/wasmlens/internal/bodywalk"
	"github.com/wasmlens/wasmlens/model"
	"github.com/wasmlens/wasmlens/wasm"
)

// Node describes one function in the combined import+defined index space.
type Node struct {
	Index       uint32
	Name        string
	IsImported  bool
	IsExported  bool
	CallCount   int // sum of call_sites_count across incoming edges
	ScanWarning string
}

// Edge aggregates every direct call from one function to another.
type Edge struct {
	From      uint32
	To        uint32
	CallSites int
}

// Graph is the call-graph builder's output.
type Graph struct {
	Nodes       []Node
	Edges       []Edge
	EntryPoints []uint32
	Unreachable []uint32

	// IndirectCallSites counts call_indirect (and return_call_indirect)
	// occurrences across the module. They do not contribute edges: the
	// callee is not statically resolvable.
	IndirectCallSites int
}

// Build scans every defined function body for direct calls and derives
// reachability. It never fails: a malformed body only aborts that
// function's scan and is recorded as a ScanWarning on its node.
func Build(mm *model.Module) *Graph {
	g := &Graph{}
	edgeCount := make(map[[2]uint32]int)

	for idx := uint32(0); idx < uint32(mm.FuncCount()); idx++ {
		node := Node{
			Index:      idx,
			Name:       mm.FuncName(idx),
			IsImported: mm.IsImportedFunc(idx),
			IsExported: mm.IsExportedFunc(idx),
		}

		if body, ok := mm.FuncBody(idx); ok {
			warn := scanCalls(idx, body, edgeCount, g)
			node.ScanWarning = warn
		}

		g.Nodes = append(g.Nodes, node)
	}

	g.Edges = make([]Edge, 0, len(edgeCount))
	for pair, count := range edgeCount {
		g.Edges = append(g.Edges, Edge{From: pair[0], To: pair[1], CallSites: count})
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})

	callCount := make(map[uint32]int)
	for _, e := range g.Edges {
		callCount[e.To] += e.CallSites
	}
	for i := range g.Nodes {
		g.Nodes[i].CallCount = callCount[g.Nodes[i].Index]
	}

	g.EntryPoints = entryPoints(mm, g.Nodes)
	g.Unreachable = unreachableFuncs(mm, g)

	return g
}

func scanCalls(from uint32, body []byte, edgeCount map[[2]uint32]int, g *Graph) string {
	var warning string
	err := bodywalk.Walk(body, func(instr wasm.Instruction, _ int) {
		if to, ok := instr.GetCallTarget(); ok {
			edgeCount[[2]uint32{from, to}]++
			return
		}
		if instr.IsIndirectCall() || instr.Opcode == wasm.OpReturnCallIndirect {
			g.IndirectCallSites++
		}
	})
	if err != nil {
		warning = "malformed function body: " + err.Error()
	}
	return warning
}

func entryPoints(mm *model.Module, nodes []Node) []uint32 {
	seen := make(map[uint32]bool)
	var entries []uint32

	if mm.Wasm.Start != nil {
		seen[*mm.Wasm.Start] = true
		entries = append(entries, *mm.Wasm.Start)
	}
	for _, idx := range mm.ExportedFuncIndices() {
		if !seen[idx] {
			seen[idx] = true
			entries = append(entries, idx)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })
	return entries
}

func unreachableFuncs(mm *model.Module, g *Graph) []uint32 {
	adj := make(map[uint32][]uint32)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	visited := make(map[uint32]bool)
	queue := append([]uint32(nil), g.EntryPoints...)
	for _, idx := range queue {
		visited[idx] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var unreachable []uint32
	for i := uint32(mm.NumImportedFuncs()); i < uint32(mm.FuncCount()); i++ {
		if !visited[i] {
			unreachable = append(unreachable, i)
		}
	}
	return unreachable
}
