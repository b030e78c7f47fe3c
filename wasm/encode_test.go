package wasm_test

import (
	"testing"

	"github.com/wasmlens/wasmlens/wasm"
)

// roundTrip encodes m and decodes it back, failing the test on any error.
func roundTrip(t *testing.T, m *wasm.Module) *wasm.Module {
	t.Helper()
	got, err := wasm.ParseModule(m.Encode())
	if err != nil {
		t.Fatalf("ParseModule(Encode()): %v", err)
	}
	return got
}

func TestEncode_TableWithFuncref(t *testing.T) {
	max := uint64(10)
	m := &wasm.Module{
		Tables: []wasm.TableType{
			{ElemType: byte(wasm.ValFuncRef), Limits: wasm.Limits{Min: 1, Max: &max}},
		},
	}
	got := roundTrip(t, m)

	if len(got.Tables) != 1 {
		t.Fatalf("Tables = %d, want 1", len(got.Tables))
	}
	table := got.Tables[0]
	if table.ElemType != byte(wasm.ValFuncRef) {
		t.Errorf("ElemType = 0x%02x, want funcref", table.ElemType)
	}
	if table.Limits.Min != 1 || table.Limits.Max == nil || *table.Limits.Max != 10 {
		t.Errorf("Limits = %+v, want {Min:1 Max:10}", table.Limits)
	}
}

func TestEncode_MemorySharedWithMax(t *testing.T) {
	max := uint64(4)
	m := &wasm.Module{
		Memories: []wasm.MemoryType{
			{Limits: wasm.Limits{Min: 1, Max: &max, Shared: true}},
		},
	}
	got := roundTrip(t, m)

	mem := got.Memories[0]
	if !mem.Limits.Shared {
		t.Error("Shared = false, want true")
	}
	if mem.Limits.Max == nil || *mem.Limits.Max != 4 {
		t.Errorf("Max = %v, want 4", mem.Limits.Max)
	}
}

func TestEncode_Memory64(t *testing.T) {
	m := &wasm.Module{
		Memories: []wasm.MemoryType{
			{Limits: wasm.Limits{Min: 2, Memory64: true}},
		},
	}
	got := roundTrip(t, m)

	mem := got.Memories[0]
	if !mem.Limits.Memory64 {
		t.Error("Memory64 = false, want true")
	}
	if mem.Limits.Min != 2 {
		t.Errorf("Min = %d, want 2", mem.Limits.Min)
	}
}

func TestEncode_DataSegmentModes(t *testing.T) {
	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Data: []wasm.DataSegment{
			{Flags: 0, Offset: []byte{wasm.OpI32Const, 0x00, wasm.OpEnd}, Init: []byte("active")},
			{Flags: 1, Init: []byte("passive")},
		},
	}
	got := roundTrip(t, m)

	if len(got.Data) != 2 {
		t.Fatalf("Data = %d segments, want 2", len(got.Data))
	}
	if got.Data[0].Flags != 0 || string(got.Data[0].Init) != "active" {
		t.Errorf("Data[0] = %+v, want active segment %q", got.Data[0], "active")
	}
	if got.Data[1].Flags != 1 || string(got.Data[1].Init) != "passive" {
		t.Errorf("Data[1] = %+v, want passive segment %q", got.Data[1], "passive")
	}
}

func TestEncode_GlobalMutability(t *testing.T) {
	m := &wasm.Module{
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValI32, Mutable: true}, Init: []byte{wasm.OpI32Const, 0x05, wasm.OpEnd}},
			{Type: wasm.GlobalType{ValType: wasm.ValI64, Mutable: false}, Init: []byte{wasm.OpI64Const, 0x00, wasm.OpEnd}},
		},
	}
	got := roundTrip(t, m)

	if len(got.Globals) != 2 {
		t.Fatalf("Globals = %d, want 2", len(got.Globals))
	}
	if !got.Globals[0].Type.Mutable {
		t.Error("Globals[0].Mutable = false, want true")
	}
	if got.Globals[1].Type.Mutable {
		t.Error("Globals[1].Mutable = true, want false")
	}
}

func TestEncode_ImportKinds(t *testing.T) {
	max := uint64(1)
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Imports: []wasm.Import{
			{Module: "env", Name: "fn", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
			{Module: "env", Name: "tbl", Desc: wasm.ImportDesc{Kind: wasm.KindTable, Table: &wasm.TableType{ElemType: byte(wasm.ValFuncRef), Limits: wasm.Limits{Min: 1}}}},
			{Module: "env", Name: "mem", Desc: wasm.ImportDesc{Kind: wasm.KindMemory, Memory: &wasm.MemoryType{Limits: wasm.Limits{Min: 1, Max: &max}}}},
			{Module: "env", Name: "g", Desc: wasm.ImportDesc{Kind: wasm.KindGlobal, Global: &wasm.GlobalType{ValType: wasm.ValI32, Mutable: false}}},
		},
	}
	got := roundTrip(t, m)

	if len(got.Imports) != 4 {
		t.Fatalf("Imports = %d, want 4", len(got.Imports))
	}
	kinds := []byte{wasm.KindFunc, wasm.KindTable, wasm.KindMemory, wasm.KindGlobal}
	for i, k := range kinds {
		if got.Imports[i].Desc.Kind != k {
			t.Errorf("Imports[%d].Desc.Kind = %d, want %d", i, got.Imports[i].Desc.Kind, k)
		}
	}
	if got.NumImportedFuncs() != 1 || got.NumImportedTables() != 1 ||
		got.NumImportedMemories() != 1 || got.NumImportedGlobals() != 1 {
		t.Errorf("import counts wrong: funcs=%d tables=%d memories=%d globals=%d",
			got.NumImportedFuncs(), got.NumImportedTables(), got.NumImportedMemories(), got.NumImportedGlobals())
	}
}

func TestEncode_StartAndElementSegment(t *testing.T) {
	start := uint32(0)
	m := &wasm.Module{
		Types:  []wasm.FuncType{{}},
		Funcs:  []uint32{0},
		Code:   []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Start:  &start,
		Tables: []wasm.TableType{{ElemType: byte(wasm.ValFuncRef), Limits: wasm.Limits{Min: 1}}},
		Elements: []wasm.Element{
			{Flags: 0, Offset: []byte{wasm.OpI32Const, 0x00, wasm.OpEnd}, FuncIdxs: []uint32{0}},
		},
	}
	got := roundTrip(t, m)

	if got.Start == nil || *got.Start != 0 {
		t.Errorf("Start = %v, want 0", got.Start)
	}
	if len(got.Elements) != 1 || len(got.Elements[0].FuncIdxs) != 1 || got.Elements[0].FuncIdxs[0] != 0 {
		t.Errorf("Elements = %+v, want one segment referencing func 0", got.Elements)
	}
}
