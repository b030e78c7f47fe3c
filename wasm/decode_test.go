package wasm_test

import (
	"errors"
	"testing"

	"github.com/wasmlens/wasmlens/wasm"
)

// minimalModule builds the smallest useful module: one type, one defined
// function, one export. The tests in this file encode it and then alter
// or extend it.
func minimalModule() *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
		Code:  []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Exports: []wasm.Export{
			{Name: "run", Kind: wasm.KindFunc, Idx: 0},
		},
	}
}

func TestParseModule_RoundTripsMinimalModule(t *testing.T) {
	data := minimalModule().Encode()

	got, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(got.Types) != 1 {
		t.Fatalf("Types = %d, want 1", len(got.Types))
	}
	if len(got.Funcs) != 1 || got.Funcs[0] != 0 {
		t.Fatalf("Funcs = %v, want [0]", got.Funcs)
	}
	if len(got.Exports) != 1 || got.Exports[0].Name != "run" {
		t.Fatalf("Exports = %+v, want a single \"run\" export", got.Exports)
	}
}

func TestParseModule_RejectsBadMagic(t *testing.T) {
	data := minimalModule().Encode()
	data[1] = 0x00

	if _, err := wasm.ParseModule(data); err != wasm.ErrInvalidMagic {
		t.Errorf("err = %v, want ErrInvalidMagic", err)
	}
}

func TestParseModule_RejectsBadVersion(t *testing.T) {
	data := minimalModule().Encode()
	data[4] = 0x02

	if _, err := wasm.ParseModule(data); err != wasm.ErrInvalidVersion {
		t.Errorf("err = %v, want ErrInvalidVersion", err)
	}
}

func TestParseModule_RejectsTruncatedHeader(t *testing.T) {
	data := minimalModule().Encode()[:3]

	if _, err := wasm.ParseModule(data); err == nil {
		t.Error("expected an error decoding a truncated header, got nil")
	}
}

func TestParseModule_RejectsOutOfOrderSections(t *testing.T) {
	// The function section (3) must follow the type section (1); flip them.
	header := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	funcSection := []byte{wasm.SectionFunction, 0x02, 0x01, 0x00}
	typeSection := []byte{wasm.SectionType, 0x04, 0x01, 0x60, 0x00, 0x00}
	data := append(append(append([]byte{}, header...), funcSection...), typeSection...)

	if _, err := wasm.ParseModule(data); err == nil {
		t.Error("expected an out-of-order section error, got nil")
	}
}

func TestParseModule_CustomSectionsAreOrderExempt(t *testing.T) {
	m := minimalModule()
	m.CustomSections = []wasm.CustomSection{
		{Name: "producers", Data: []byte("go")},
		{Name: "target_features", Data: []byte{0x00}},
	}
	data := m.Encode()

	got, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(got.CustomSections) != 2 || got.CustomSections[0].Name != "producers" || got.CustomSections[1].Name != "target_features" {
		t.Errorf("CustomSections = %+v, want \"producers\" then \"target_features\"", got.CustomSections)
	}
}

func TestParseModuleWithLimits_RejectsOversizeModule(t *testing.T) {
	data := minimalModule().Encode()

	_, err := wasm.ParseModuleWithLimits(data, len(data)-1, wasm.DefaultMaxSectionSize)
	if err == nil {
		t.Fatal("expected an oversize error, got nil")
	}
	if !errors.Is(err, wasm.ErrOversize) {
		t.Errorf("err = %v, want wrapping ErrOversize", err)
	}
}

func TestParseModuleWithLimits_RejectsOversizeSection(t *testing.T) {
	m := minimalModule()
	m.CustomSections = []wasm.CustomSection{{Name: "big", Data: make([]byte, 64)}}
	data := m.Encode()

	_, err := wasm.ParseModuleWithLimits(data, wasm.DefaultMaxModuleSize, 16)
	if err == nil {
		t.Fatal("expected a section size-limit error, got nil")
	}
	if !errors.Is(err, wasm.ErrOversize) {
		t.Errorf("err = %v, want wrapping ErrOversize", err)
	}
}

func TestParseModule_CombinedIndexSpaceCoversImportsAndFuncs(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Imports: []wasm.Import{
			{Module: "env", Name: "host_fn", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Funcs: []uint32{0},
		Code:  []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Exports: []wasm.Export{
			{Name: "imported", Kind: wasm.KindFunc, Idx: 0},
			{Name: "defined", Kind: wasm.KindFunc, Idx: 1},
		},
	}
	got, err := wasm.ParseModule(m.Encode())
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if got.NumImportedFuncs() != 1 {
		t.Fatalf("NumImportedFuncs = %d, want 1", got.NumImportedFuncs())
	}
	if ft := got.GetFuncType(0); ft == nil {
		t.Error("GetFuncType(0) (imported func) = nil")
	}
	if ft := got.GetFuncType(1); ft == nil {
		t.Error("GetFuncType(1) (defined func) = nil")
	}
}

func TestParseModule_MalformedInputs(t *testing.T) {
	header := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	cases := map[string][]byte{
		"truncated section size":   append(append([]byte{}, header...), wasm.SectionType, 0x80),
		"truncated section body":   append(append([]byte{}, header...), wasm.SectionType, 0x04, 0x01, 0x60),
		"unknown section id":       append(append([]byte{}, header...), 0x7E, 0x00),
		"bad type form":            append(append([]byte{}, header...), wasm.SectionType, 0x02, 0x01, 0xFF),
		"invalid export kind":      append(append([]byte{}, header...), wasm.SectionExport, 0x06, 0x01, 0x03, 'r', 'u', 'n', 0x09, 0x00),
		"invalid element flags":    append(append([]byte{}, header...), wasm.SectionElement, 0x02, 0x01, 0x08),
		"invalid data seg flags":   append(append([]byte{}, header...), wasm.SectionData, 0x02, 0x01, 0x03),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := wasm.ParseModule(data); err == nil {
				t.Errorf("%s: expected a decode error, got nil", name)
			}
		})
	}
}
