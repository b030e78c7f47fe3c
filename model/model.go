// Package model adapts a decoded wasm.Module into the combined-index-space
// view the analysis passes are written against: imported functions first,
// then defined functions, matching the WASM function index space.
package model

import (
	"fmt"

	"github.com/wasmlens/wasmlens/wasm"
)

// Module is the read-only view every analysis pass receives. It borrows
// the decoded module and the raw input bytes; neither is copied, and
// neither should be retained past the analysis call that created this
// value.
type Module struct {
	Raw    []byte
	Wasm   *wasm.Module
	names  map[uint32]string
	nImpFn int
}

// New builds a Module view over a decoded wasm.Module. raw is the
// original input buffer the module's function bodies were decoded from;
// it is retained only for size accounting, never re-parsed.
func New(m *wasm.Module, raw []byte) *Module {
	mm := &Module{
		Raw:    raw,
		Wasm:   m,
		nImpFn: m.NumImportedFuncs(),
	}
	mm.names = mm.buildNames()
	return mm
}

func (m *Module) buildNames() map[uint32]string {
	names := make(map[uint32]string, m.FuncCount())
	idx := uint32(0)
	for _, imp := range m.Wasm.Imports {
		if imp.Desc.Kind != wasm.KindFunc {
			continue
		}
		names[idx] = fmt.Sprintf("%s::%s", imp.Module, imp.Name)
		idx++
	}
	for i := range m.Wasm.Code {
		fidx := uint32(m.nImpFn) + uint32(i)
		if n, ok := m.Wasm.FunctionNames[fidx]; ok && n != "" {
			names[fidx] = n
		} else {
			names[fidx] = fmt.Sprintf("func_%d", fidx)
		}
	}
	return names
}

// FuncCount returns the total number of functions in the combined index
// space (imports followed by defined functions).
func (m *Module) FuncCount() int {
	return m.nImpFn + len(m.Wasm.Code)
}

// NumImportedFuncs returns the number of imported functions, i.e. the
// offset at which defined function indices begin.
func (m *Module) NumImportedFuncs() int {
	return m.nImpFn
}

// IsImportedFunc reports whether idx (in the combined index space) names
// an imported function rather than a defined one.
func (m *Module) IsImportedFunc(idx uint32) bool {
	return idx < uint32(m.nImpFn)
}

// FuncName returns the display name for a function in the combined index
// space: "module::name" for imports, the name-section entry or a
// synthetic "func_<index>" for defined functions.
func (m *Module) FuncName(idx uint32) string {
	if n, ok := m.names[idx]; ok {
		return n
	}
	return fmt.Sprintf("func_%d", idx)
}

// FuncBody returns the raw code bytes for a defined function given its
// combined-space index, and false if idx names an import or is out of
// range.
func (m *Module) FuncBody(idx uint32) ([]byte, bool) {
	if m.IsImportedFunc(idx) {
		return nil, false
	}
	local := idx - uint32(m.nImpFn)
	if int(local) >= len(m.Wasm.Code) {
		return nil, false
	}
	return m.Wasm.Code[local].Code, true
}

// IsExportedFunc reports whether idx (combined space) is exported under
// any name.
func (m *Module) IsExportedFunc(idx uint32) bool {
	for _, exp := range m.Wasm.Exports {
		if exp.Kind == wasm.KindFunc && exp.Idx == idx {
			return true
		}
	}
	return false
}

// ExportedFuncIndices returns the combined-space indices of every
// function-kind export, in export declaration order. Duplicates are kept:
// a function exported under two names appears twice, matching the export
// table.
func (m *Module) ExportedFuncIndices() []uint32 {
	var out []uint32
	for _, exp := range m.Wasm.Exports {
		if exp.Kind == wasm.KindFunc {
			out = append(out, exp.Idx)
		}
	}
	return out
}

// ExportNamesForFunc returns every export name pointing at the given
// combined-space function index.
func (m *Module) ExportNamesForFunc(idx uint32) []string {
	var names []string
	for _, exp := range m.Wasm.Exports {
		if exp.Kind == wasm.KindFunc && exp.Idx == idx {
			names = append(names, exp.Name)
		}
	}
	return names
}

// ModuleSize returns the size in bytes of the original input buffer.
func (m *Module) ModuleSize() int {
	return len(m.Raw)
}

// CodeSize returns the combined size in bytes of every defined function's
// code bytes.
func (m *Module) CodeSize() int {
	total := 0
	for _, body := range m.Wasm.Code {
		total += len(body.Code)
	}
	return total
}
