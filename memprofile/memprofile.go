// Package memprofile classifies memory-touching opcodes in a module's
// function bodies to produce per-family operation counts, a hotspot list,
// allocation-pattern findings, and advisory memory-safety notes.
package memprofile

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/wasmlens/wasmlens/internal/bodywalk"
	"github.com/wasmlens/wasmlens/model"
	"github.com/wasmlens/wasmlens/wasm"
)

// Counters holds per-opcode-family operation counts.
type Counters struct {
	Load  int
	Store int
	Grow  int
	Size  int
	Copy  int
	Fill  int
	Init  int
}

func (c *Counters) total() int {
	return c.Load + c.Store + c.Grow + c.Size + c.Copy + c.Fill + c.Init
}

// Hotspot is a defined function with unusually high memory-operation
// density relative to the module.
type Hotspot struct {
	FuncIndex uint32
	Name      string
	OpCount   int
	Kind      HotspotKind
}

// HotspotKind characterizes why a function was flagged as a hotspot,
// based on which counter family dominates its memory-op mix.
type HotspotKind string

const (
	HighFrequencyAccess HotspotKind = "high_frequency_access" // load/store dominated
	LargeDataMovement   HotspotKind = "large_data_movement"    // copy/fill/init dominated
	MemoryGrowth        HotspotKind = "memory_growth"          // grow dominated
)

func classifyHotspot(c Counters) HotspotKind {
	bulk := c.Copy + c.Fill + c.Init
	accesses := c.Load + c.Store
	switch {
	case c.Grow >= bulk && c.Grow >= accesses && c.Grow > 0:
		return MemoryGrowth
	case bulk >= accesses:
		return LargeDataMovement
	default:
		return HighFrequencyAccess
	}
}

// Pattern is a name-based allocation-pattern finding. Risk is advisory.
type Pattern struct {
	Name        string
	Description string
	Risk        string
}

// Layout summarizes the module's declared memory section.
type Layout struct {
	InitialPages     uint64
	MaximumPages     *uint64
	Shared           bool
	DataSegmentBytes int
}

// AllocationProfile classifies the module's overall memory-operation mix
// into one dominant usage pattern, with an advisory mitigation note.
type AllocationProfile struct {
	Type       AllocationType
	Mitigation string
}

// AllocationType mirrors the coarse allocation-behavior categories a
// memory profiler typically distinguishes: whether a module mostly grows
// its memory, moves bulk data, allocates frequently in small chunks, or
// never touches memory beyond its static layout.
type AllocationType string

const (
	StaticAllocation         AllocationType = "static_allocation"
	DynamicGrowth            AllocationType = "dynamic_growth"
	BulkOperations           AllocationType = "bulk_operations"
	FrequentSmallAllocations AllocationType = "frequent_small_allocations"
)

// Report is the memory profiler's output.
type Report struct {
	Layout             Layout
	Module             Counters
	PerFunc            map[uint32]Counters
	Hotspots           []Hotspot
	Patterns           []Pattern
	AllocationProfile  AllocationProfile
	PotentialOverflows []string // active data segments whose offset+size exceeds declared initial memory
	SafetyNote         string   // non-empty when memory.grow appears unguarded anywhere
}

// Build scans every defined function body once and classifies its
// memory-touching opcodes. A malformed body contributes no counts for that
// function, including for instructions before the fault; other functions
// are unaffected.
func Build(mm *model.Module) *Report {
	return BuildWithLimit(mm, hotspotLimit)
}

// BuildWithLimit behaves like Build but reports up to limit hotspots
// instead of the built-in default. A non-positive limit falls back to
// the default.
func BuildWithLimit(mm *model.Module, limit int) *Report {
	if limit <= 0 {
		limit = hotspotLimit
	}
	r := &Report{
		PerFunc: make(map[uint32]Counters),
	}
	r.Layout = layoutFromModule(mm)

	grewUnguarded := false

	for idx := uint32(0); idx < uint32(mm.FuncCount()); idx++ {
		body, ok := mm.FuncBody(idx)
		if !ok {
			continue
		}
		fc, sawGrow, sawGuardedGrow := scanBody(body)
		if fc.total() == 0 {
			continue
		}
		r.PerFunc[idx] = fc
		accumulate(&r.Module, fc)
		if sawGrow && !sawGuardedGrow {
			grewUnguarded = true
		}
	}

	r.Hotspots = topHotspots(mm, r.PerFunc, limit)
	r.Patterns = allocationPatterns(mm)
	r.AllocationProfile = classifyAllocationProfile(r.Module, len(r.PerFunc))
	r.PotentialOverflows = potentialOverflows(mm)
	if grewUnguarded {
		r.SafetyNote = "memory.grow observed without an adjacent bounds-check guard; this is a heuristic and may false-positive"
	}
	return r
}

// classifyAllocationProfile picks one dominant AllocationType for the
// whole module from its aggregate memory-op mix. The thresholds are
// heuristic, not derived from any formal cost model.
func classifyAllocationProfile(c Counters, funcsWithOps int) AllocationProfile {
	bulk := c.Copy + c.Fill + c.Init
	switch {
	case c.Grow > 0 && c.Grow >= bulk:
		return AllocationProfile{
			Type:       DynamicGrowth,
			Mitigation: "declare a maximum page limit so growth has a hard ceiling",
		}
	case bulk > 0 && bulk >= c.Load+c.Store:
		return AllocationProfile{
			Type:       BulkOperations,
			Mitigation: "verify bulk-operation lengths against segment bounds before use",
		}
	case funcsWithOps > 0 && c.total() > 0 && c.total()/funcsWithOps <= 2:
		return AllocationProfile{
			Type:       FrequentSmallAllocations,
			Mitigation: "consider batching small accesses to reduce per-call overhead",
		}
	default:
		return AllocationProfile{Type: StaticAllocation}
	}
}

// potentialOverflows flags active data segments whose constant offset
// plus payload length runs past the memory's declared initial size. It
// only handles the common case of a single i32.const offset expression;
// anything else (global-relative offsets, multi-memory) is left alone.
func potentialOverflows(mm *model.Module) []string {
	if len(mm.Wasm.Memories) == 0 {
		return nil
	}
	limitBytes := mm.Wasm.Memories[0].Limits.Min * wasmPageSize

	var findings []string
	for i, d := range mm.Wasm.Data {
		if d.Flags == 1 || d.MemIdx != 0 { // passive, or targets a memory other than 0
			continue
		}
		off, ok := constI32Offset(d.Offset)
		if !ok {
			continue
		}
		end := uint64(off) + uint64(len(d.Init))
		if end > limitBytes {
			findings = append(findings, fmt.Sprintf("data segment %d writes up to offset %d, past the %d-byte initial memory", i, end, limitBytes))
		}
	}
	return findings
}

const wasmPageSize = 64 * 1024

// constI32Offset decodes a data/element offset expression of the
// shape `i32.const N; end`, the only form the decoder needs to evaluate
// statically.
func constI32Offset(expr []byte) (int32, bool) {
	if len(expr) < 2 || expr[0] != wasm.OpI32Const {
		return 0, false
	}
	r := bytes.NewReader(expr[1:])
	v, err := wasm.ReadLEB128s(r)
	if err != nil {
		return 0, false
	}
	return v, true
}

func accumulate(dst *Counters, src Counters) {
	dst.Load += src.Load
	dst.Store += src.Store
	dst.Grow += src.Grow
	dst.Size += src.Size
	dst.Copy += src.Copy
	dst.Fill += src.Fill
	dst.Init += src.Init
}

// scanBody walks one function body and returns its memory-op counters
// plus whether memory.grow appeared, and whether it appeared with a
// guard: a compare or branch opcode within a small window before it,
// which is the fixed heuristic for "looks bounds-checked".
func scanBody(body []byte) (Counters, bool, bool) {
	var c Counters
	var sawGrow, sawGuardedGrow bool
	var recentCompareOrBranch bool

	_ = bodywalk.Walk(body, func(instr wasm.Instruction, _ int) {
		switch {
		case isLoadOpcode(instr.Opcode):
			c.Load++
			recentCompareOrBranch = false
		case isStoreOpcode(instr.Opcode):
			c.Store++
			recentCompareOrBranch = false
		case instr.Opcode == wasm.OpMemoryGrow:
			c.Grow++
			sawGrow = true
			if recentCompareOrBranch {
				sawGuardedGrow = true
			}
			recentCompareOrBranch = false
		case instr.Opcode == wasm.OpMemorySize:
			c.Size++
		case isMiscMemoryOp(instr.Imm, wasm.MiscMemoryCopy):
			c.Copy++
		case isMiscMemoryOp(instr.Imm, wasm.MiscMemoryFill):
			c.Fill++
		case isMiscMemoryOp(instr.Imm, wasm.MiscMemoryInit):
			c.Init++
		case isCompareOrBranch(instr.Opcode):
			recentCompareOrBranch = true
		}
	})
	// A malformed body's decode error is recorded as a ScanWarning by the
	// call-graph pass's own bodywalk.Walk call. Walk visits no instruction
	// of such a body, so it contributes zero counts here.
	return c, sawGrow, sawGuardedGrow
}

func isLoadOpcode(op byte) bool {
	return op >= wasm.OpI32Load && op <= wasm.OpI64Load32U
}

func isStoreOpcode(op byte) bool {
	return op >= wasm.OpI32Store && op <= wasm.OpI64Store32
}

func isMiscMemoryOp(imm interface{}, subOpcode uint32) bool {
	m, ok := imm.(wasm.MiscImm)
	return ok && m.SubOpcode == subOpcode
}

func isCompareOrBranch(op byte) bool {
	switch op {
	case wasm.OpBrIf, wasm.OpIf:
		return true
	}
	return op >= wasm.OpI32Eqz && op <= wasm.OpI64GeU
}

func layoutFromModule(mm *model.Module) Layout {
	var l Layout
	mems := mm.Wasm.Memories
	if len(mems) > 0 {
		l.InitialPages = mems[0].Limits.Min
		l.MaximumPages = mems[0].Limits.Max
		l.Shared = mems[0].Limits.Shared
	}
	for _, d := range mm.Wasm.Data {
		l.DataSegmentBytes += len(d.Init)
	}
	return l
}

func topHotspots(mm *model.Module, perFunc map[uint32]Counters, limit int) []Hotspot {
	hotspots := make([]Hotspot, 0, len(perFunc))
	for idx, c := range perFunc {
		hotspots = append(hotspots, Hotspot{FuncIndex: idx, Name: mm.FuncName(idx), OpCount: c.total(), Kind: classifyHotspot(c)})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].OpCount != hotspots[j].OpCount {
			return hotspots[i].OpCount > hotspots[j].OpCount
		}
		return hotspots[i].FuncIndex < hotspots[j].FuncIndex
	})
	if len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}
	return hotspots
}

func allocationPatterns(mm *model.Module) []Pattern {
	seen := make(map[string]bool)
	var patterns []Pattern

	checkName := func(name string) {
		lower := strings.ToLower(name)
		for _, sub := range allocNameSubstrings {
			if strings.Contains(lower, sub) && !seen[name] {
				seen[name] = true
				patterns = append(patterns, Pattern{
					Name:        name,
					Description: "name suggests an allocator-style function (" + sub + ")",
					Risk:        "Low",
				})
				return
			}
		}
	}

	for _, exp := range mm.Wasm.Exports {
		if exp.Kind == wasm.KindFunc {
			checkName(exp.Name)
		}
	}
	for _, imp := range mm.Wasm.Imports {
		if imp.Desc.Kind == wasm.KindFunc {
			checkName(imp.Name)
		}
	}
	return patterns
}
