package wasm_test

import (
	"testing"

	"github.com/wasmlens/wasmlens/wasm"
)

func TestModule_AddTypeDeduplicatesEqualSignatures(t *testing.T) {
	m := &wasm.Module{}
	ft := wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}}

	first := m.AddType(ft)
	second := m.AddType(ft)
	if first != second {
		t.Errorf("AddType returned %d then %d for an identical signature, want the same index", first, second)
	}
	if len(m.Types) != 1 {
		t.Errorf("Types = %d entries, want 1 after deduplication", len(m.Types))
	}

	distinct := m.AddType(wasm.FuncType{Results: []wasm.ValType{wasm.ValI64}})
	if distinct == first {
		t.Error("AddType reused an index for a distinct signature")
	}
}

func TestModule_GetFuncTypeOutOfRangeReturnsNil(t *testing.T) {
	m := &wasm.Module{Types: []wasm.FuncType{{}}, Funcs: []uint32{0}}
	if ft := m.GetFuncType(99); ft != nil {
		t.Errorf("GetFuncType(99) = %+v, want nil", ft)
	}
}

func TestModule_NumTypesMatchesFlatTypeList(t *testing.T) {
	m := &wasm.Module{Types: []wasm.FuncType{{}, {}}}
	if m.NumTypes() != 2 {
		t.Errorf("NumTypes() = %d, want 2", m.NumTypes())
	}
}

func TestModule_ImportCountAccessorsCountByKind(t *testing.T) {
	m := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "env", Name: "f", Desc: wasm.ImportDesc{Kind: wasm.KindFunc}},
			{Module: "env", Name: "t", Desc: wasm.ImportDesc{Kind: wasm.KindTag}},
			{Module: "env", Name: "g1", Desc: wasm.ImportDesc{Kind: wasm.KindGlobal}},
			{Module: "env", Name: "g2", Desc: wasm.ImportDesc{Kind: wasm.KindGlobal}},
		},
	}
	if m.NumImportedFuncs() != 1 {
		t.Errorf("NumImportedFuncs() = %d, want 1", m.NumImportedFuncs())
	}
	if m.NumImportedTags() != 1 {
		t.Errorf("NumImportedTags() = %d, want 1", m.NumImportedTags())
	}
	if m.NumImportedGlobals() != 2 {
		t.Errorf("NumImportedGlobals() = %d, want 2", m.NumImportedGlobals())
	}
	if m.NumImportedTables() != 0 || m.NumImportedMemories() != 0 {
		t.Errorf("expected zero imported tables/memories, got tables=%d memories=%d",
			m.NumImportedTables(), m.NumImportedMemories())
	}
}

func TestValType_StringNamesCoreAndReferenceTypes(t *testing.T) {
	cases := map[wasm.ValType]string{
		wasm.ValI32:     "i32",
		wasm.ValF64:     "f64",
		wasm.ValFuncRef: "funcref",
		wasm.ValExtern:  "externref",
	}
	for vt, want := range cases {
		if got := vt.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", vt, got, want)
		}
	}
}
