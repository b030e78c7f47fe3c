package wasm_test

import (
	"testing"

	"github.com/wasmlens/wasmlens/wasm"
	"github.com/wasmlens/wasmlens/wasm/internal/binary"
)

func nameSection(t *testing.T, names map[uint32]string) wasm.CustomSection {
	t.Helper()

	nameMap := binary.NewWriter()
	nameMap.WriteU32(uint32(len(names)))
	for idx, name := range names {
		nameMap.WriteU32(idx)
		nameMap.WriteName(name)
	}

	sub := binary.NewWriter()
	sub.Byte(1) // function name subsection
	sub.WriteU32(uint32(nameMap.Len()))
	sub.WriteBytes(nameMap.Bytes())

	return wasm.CustomSection{Name: "name", Data: sub.Bytes()}
}

func TestParseModule_NameSectionPopulatesFunctionNames(t *testing.T) {
	m := &wasm.Module{
		Types:   []wasm.FuncType{{}},
		Funcs:   []uint32{0},
		Code:    []wasm.FuncBody{{Code: []byte{0x0b}}},
		Exports: []wasm.Export{{Name: "run", Kind: wasm.KindFunc, Idx: 0}},
	}
	m.CustomSections = []wasm.CustomSection{nameSection(t, map[uint32]string{0: "run"})}

	data := m.Encode()
	parsed, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}

	if parsed.FunctionNames == nil {
		t.Fatal("expected FunctionNames to be populated")
	}
	if got := parsed.FunctionNames[0]; got != "run" {
		t.Errorf("FunctionNames[0] = %q, want %q", got, "run")
	}
}

func TestParseModule_NoNameSectionLeavesFunctionNamesNil(t *testing.T) {
	m := &wasm.Module{}
	data := m.Encode()
	parsed, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if parsed.FunctionNames != nil {
		t.Errorf("expected nil FunctionNames, got %v", parsed.FunctionNames)
	}
}
