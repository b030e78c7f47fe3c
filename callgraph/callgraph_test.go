package callgraph_test

import (
	"testing"

	"github.com/wasmlens/wasmlens/callgraph"
	"github.com/wasmlens/wasmlens/model"
	"github.com/wasmlens/wasmlens/wasm"
)

func buildModel(t *testing.T, m *wasm.Module) *model.Module {
	t.Helper()
	data := m.Encode()
	parsed, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	return model.New(parsed, data)
}

func TestBuild_SingleExportedNoOp(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
		Code:  []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
		},
	}
	g := callgraph.Build(buildModel(t, m))

	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 0 {
		t.Fatalf("expected no edges, got %d", len(g.Edges))
	}
	if len(g.Unreachable) != 0 {
		t.Fatalf("expected no unreachable functions, got %v", g.Unreachable)
	}
	if len(g.EntryPoints) != 1 || g.EntryPoints[0] != 0 {
		t.Fatalf("expected entry points [0], got %v", g.EntryPoints)
	}
}

func TestBuild_DirectCallEdge(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0, 0},
		Code: []wasm.FuncBody{
			{Code: []byte{wasm.OpCall, 0x01, wasm.OpEnd}},
			{Code: []byte{wasm.OpEnd}},
		},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
		},
	}
	g := callgraph.Build(buildModel(t, m))

	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	e := g.Edges[0]
	if e.From != 0 || e.To != 1 || e.CallSites != 1 {
		t.Errorf("unexpected edge: %+v", e)
	}
	if len(g.Unreachable) != 0 {
		t.Errorf("expected function 1 reachable via call, got unreachable=%v", g.Unreachable)
	}
}

func TestBuild_DeadFunction(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0, 0, 0},
		Code: []wasm.FuncBody{
			{Code: []byte{wasm.OpEnd}},
			{Code: []byte{wasm.OpEnd}},
			{Code: []byte{wasm.OpEnd}},
		},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
		},
	}
	g := callgraph.Build(buildModel(t, m))

	if len(g.Unreachable) != 2 || g.Unreachable[0] != 1 || g.Unreachable[1] != 2 {
		t.Errorf("expected unreachable [1 2], got %v", g.Unreachable)
	}
}

func TestBuild_SelfCall(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
		Code: []wasm.FuncBody{
			{Code: []byte{wasm.OpCall, 0x00, wasm.OpEnd}},
		},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 0},
		},
	}
	g := callgraph.Build(buildModel(t, m))

	if len(g.Edges) != 1 || g.Edges[0].From != 0 || g.Edges[0].To != 0 {
		t.Fatalf("expected a self-edge, got %v", g.Edges)
	}
	if len(g.Unreachable) != 0 {
		t.Errorf("self-calling exported function should be reachable, got %v", g.Unreachable)
	}
}

func TestBuild_ImportsNeverUnreachable(t *testing.T) {
	m := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "env", Name: "log", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Types: []wasm.FuncType{{}},
	}
	g := callgraph.Build(buildModel(t, m))

	if len(g.Nodes) != 1 {
		t.Fatalf("expected 1 node for the import, got %d", len(g.Nodes))
	}
	if !g.Nodes[0].IsImported {
		t.Error("expected node to be marked imported")
	}
	if len(g.Unreachable) != 0 {
		t.Errorf("imported functions must never be unreachable, got %v", g.Unreachable)
	}
}
