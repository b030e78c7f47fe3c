package report

import (
	"encoding/json"
	"fmt"
)

// FuncType is a function signature's parameter and result value kinds.
type FuncType struct {
	Params  []string `json:"params"`
	Results []string `json:"results"`
}

// FunctionKind is an import's descriptor when it names a function.
type FunctionKind struct {
	TypeIndex uint32 `json:"type_index"`
}

// TableKind is an import's descriptor when it names a table.
type TableKind struct {
	ElementKind string  `json:"element_kind"`
	Initial     uint64  `json:"initial"`
	Maximum     *uint64 `json:"maximum,omitempty"`
}

// MemoryKind is an import's descriptor when it names a memory.
type MemoryKind struct {
	InitialPages uint64  `json:"initial_pages"`
	MaximumPages *uint64 `json:"maximum_pages,omitempty"`
	Shared       bool    `json:"shared"`
}

// GlobalKind is an import's descriptor when it names a global.
type GlobalKind struct {
	ValueKind string `json:"value_kind"`
	Mutable   bool   `json:"mutable"`
}

// ImportKind is a tagged variant over the four import descriptor kinds.
// It serializes as a single-key object, e.g. {"Function":{"type_index":7}}.
type ImportKind struct {
	Function *FunctionKind
	Table    *TableKind
	Memory   *MemoryKind
	Global   *GlobalKind
}

func (k ImportKind) MarshalJSON() ([]byte, error) {
	switch {
	case k.Function != nil:
		return json.Marshal(map[string]*FunctionKind{"Function": k.Function})
	case k.Table != nil:
		return json.Marshal(map[string]*TableKind{"Table": k.Table})
	case k.Memory != nil:
		return json.Marshal(map[string]*MemoryKind{"Memory": k.Memory})
	case k.Global != nil:
		return json.Marshal(map[string]*GlobalKind{"Global": k.Global})
	default:
		return nil, fmt.Errorf("report: ImportKind has no variant set")
	}
}

func (k *ImportKind) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["Function"]; ok {
		var f FunctionKind
		if err := json.Unmarshal(v, &f); err != nil {
			return err
		}
		k.Function = &f
		return nil
	}
	if v, ok := raw["Table"]; ok {
		var t TableKind
		if err := json.Unmarshal(v, &t); err != nil {
			return err
		}
		k.Table = &t
		return nil
	}
	if v, ok := raw["Memory"]; ok {
		var m MemoryKind
		if err := json.Unmarshal(v, &m); err != nil {
			return err
		}
		k.Memory = &m
		return nil
	}
	if v, ok := raw["Global"]; ok {
		var g GlobalKind
		if err := json.Unmarshal(v, &g); err != nil {
			return err
		}
		k.Global = &g
		return nil
	}
	return fmt.Errorf("report: unrecognized ImportKind variant in %s", data)
}

// Import is one imported item.
type Import struct {
	Module string     `json:"module"`
	Name   string     `json:"name"`
	Kind   ImportKind `json:"kind"`
}

// LocalGroup is a run of local variables sharing a value kind.
type LocalGroup struct {
	Count     uint32 `json:"count"`
	ValueKind string `json:"value_kind"`
}

// DefinedFunction is one function defined (not imported) by the module.
type DefinedFunction struct {
	TypeIndex uint32       `json:"type_index"`
	Locals    []LocalGroup `json:"locals"`
	BodySize  int          `json:"body_size"`
}

// Table describes a declared table.
type Table struct {
	ElementKind string  `json:"element_kind"`
	Initial     uint64  `json:"initial"`
	Maximum     *uint64 `json:"maximum,omitempty"`
}

// Memory describes a declared linear memory.
type Memory struct {
	InitialPages uint64  `json:"initial_pages"`
	MaximumPages *uint64 `json:"maximum_pages,omitempty"`
	Shared       bool    `json:"shared"`
}

// Global describes a declared global variable.
type Global struct {
	ValueKind string `json:"value_kind"`
	Mutable   bool   `json:"mutable"`
}

// Export is one exported item. Kind is a simple string enum:
// "Function", "Table", "Memory", or "Global".
type Export struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Index uint32 `json:"index"`
}

// Segment describes an element or data segment. Mode is "active",
// "passive", or "declared"; TargetIndex is present only for active
// segments.
type Segment struct {
	Mode        string  `json:"mode"`
	TargetIndex *uint32 `json:"target_index,omitempty"`
	PayloadSize int     `json:"payload_size"`
}

// CustomSection is a named custom section's name and size. Payload bytes
// are not carried in the report; only presence and size are.
type CustomSection struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// ModuleInfo mirrors the decoded module's declared structure.
type ModuleInfo struct {
	Version         uint32            `json:"version"`
	Types           []FuncType        `json:"types"`
	Imports         []Import          `json:"imports"`
	Functions       []DefinedFunction `json:"functions"`
	Tables          []Table           `json:"tables"`
	Memories        []Memory          `json:"memories"`
	Globals         []Global          `json:"globals"`
	Exports         []Export          `json:"exports"`
	StartFunction   *uint32           `json:"start_function,omitempty"`
	ElementSegments []Segment         `json:"element_segments"`
	DataSegments    []Segment         `json:"data_segments"`
	CustomSections  []CustomSection   `json:"custom_sections"`
	FunctionNames   map[uint32]string `json:"function_names"`
}
