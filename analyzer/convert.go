package analyzer

import (
	"github.com/wasmlens/wasmlens/callgraph"
	"github.com/wasmlens/wasmlens/capability"
	"github.com/wasmlens/wasmlens/compat"
	"github.com/wasmlens/wasmlens/memprofile"
	"github.com/wasmlens/wasmlens/model"
	"github.com/wasmlens/wasmlens/perf"
	"github.com/wasmlens/wasmlens/report"
	"github.com/wasmlens/wasmlens/wasm"
)

func buildModuleInfo(mm *model.Module) report.ModuleInfo {
	w := mm.Wasm
	info := report.ModuleInfo{
		Version:         wasm.Version,
		StartFunction:   w.Start,
		ElementSegments: make([]report.Segment, 0, len(w.Elements)),
		DataSegments:    make([]report.Segment, 0, len(w.Data)),
		CustomSections:  make([]report.CustomSection, 0, len(w.CustomSections)),
		FunctionNames:   make(map[uint32]string, mm.FuncCount()),
	}

	for _, t := range w.Types {
		info.Types = append(info.Types, report.FuncType{
			Params:  valTypeStrings(t.Params),
			Results: valTypeStrings(t.Results),
		})
	}

	for _, imp := range w.Imports {
		info.Imports = append(info.Imports, report.Import{
			Module: imp.Module,
			Name:   imp.Name,
			Kind:   importKind(imp.Desc),
		})
	}

	for i, fb := range w.Code {
		typeIdx := uint32(0)
		if i < len(w.Funcs) {
			typeIdx = w.Funcs[i]
		}
		info.Functions = append(info.Functions, report.DefinedFunction{
			TypeIndex: typeIdx,
			Locals:    localGroups(fb.Locals),
			BodySize:  len(fb.Code),
		})
	}

	for _, tbl := range w.Tables {
		info.Tables = append(info.Tables, report.Table{
			ElementKind: elementKindName(tbl.ElemType),
			Initial:     tbl.Limits.Min,
			Maximum:     tbl.Limits.Max,
		})
	}

	for _, m := range w.Memories {
		info.Memories = append(info.Memories, report.Memory{
			InitialPages: m.Limits.Min,
			MaximumPages: m.Limits.Max,
			Shared:       m.Limits.Shared,
		})
	}

	for _, g := range w.Globals {
		info.Globals = append(info.Globals, report.Global{
			ValueKind: g.Type.ValType.String(),
			Mutable:   g.Type.Mutable,
		})
	}

	for _, exp := range w.Exports {
		info.Exports = append(info.Exports, report.Export{
			Name:  exp.Name,
			Kind:  exportKindName(exp.Kind),
			Index: exp.Idx,
		})
	}

	for _, el := range w.Elements {
		info.ElementSegments = append(info.ElementSegments, elementSegment(el))
	}
	for _, d := range w.Data {
		info.DataSegments = append(info.DataSegments, dataSegment(d))
	}
	for _, cs := range w.CustomSections {
		info.CustomSections = append(info.CustomSections, report.CustomSection{
			Name: cs.Name,
			Size: len(cs.Data),
		})
	}

	for idx := uint32(0); idx < uint32(mm.FuncCount()); idx++ {
		info.FunctionNames[idx] = mm.FuncName(idx)
	}

	return info
}

func valTypeStrings(vs []wasm.ValType) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func localGroups(locals []wasm.LocalEntry) []report.LocalGroup {
	out := make([]report.LocalGroup, len(locals))
	for i, l := range locals {
		out[i] = report.LocalGroup{Count: l.Count, ValueKind: l.ValType.String()}
	}
	return out
}

func importKind(desc wasm.ImportDesc) report.ImportKind {
	switch desc.Kind {
	case wasm.KindFunc:
		return report.ImportKind{Function: &report.FunctionKind{TypeIndex: desc.TypeIdx}}
	case wasm.KindTable:
		if desc.Table != nil {
			return report.ImportKind{Table: &report.TableKind{
				ElementKind: elementKindName(desc.Table.ElemType),
				Initial:     desc.Table.Limits.Min,
				Maximum:     desc.Table.Limits.Max,
			}}
		}
	case wasm.KindMemory:
		if desc.Memory != nil {
			return report.ImportKind{Memory: &report.MemoryKind{
				InitialPages: desc.Memory.Limits.Min,
				MaximumPages: desc.Memory.Limits.Max,
				Shared:       desc.Memory.Limits.Shared,
			}}
		}
	case wasm.KindGlobal:
		if desc.Global != nil {
			return report.ImportKind{Global: &report.GlobalKind{
				ValueKind: desc.Global.ValType.String(),
				Mutable:   desc.Global.Mutable,
			}}
		}
	}
	return report.ImportKind{}
}

func elementKindName(elemType byte) string {
	if elemType == byte(wasm.ValFuncRef) {
		return "funcref"
	}
	return "externref"
}

func exportKindName(kind byte) string {
	switch kind {
	case wasm.KindFunc:
		return "Function"
	case wasm.KindTable:
		return "Table"
	case wasm.KindMemory:
		return "Memory"
	case wasm.KindGlobal:
		return "Global"
	default:
		return "Tag"
	}
}

func elementSegment(el wasm.Element) report.Segment {
	seg := report.Segment{PayloadSize: len(el.FuncIdxs) + len(el.Exprs)}
	switch el.Flags {
	case 1, 5:
		seg.Mode = "passive"
	case 3, 7:
		seg.Mode = "declared"
	default:
		seg.Mode = "active"
		idx := el.TableIdx
		seg.TargetIndex = &idx
	}
	return seg
}

func dataSegment(d wasm.DataSegment) report.Segment {
	seg := report.Segment{PayloadSize: len(d.Init)}
	switch d.Flags {
	case 1:
		seg.Mode = "passive"
	default:
		seg.Mode = "active"
		idx := d.MemIdx
		seg.TargetIndex = &idx
	}
	return seg
}

func buildCallGraph(g *callgraph.Graph) report.CallGraph {
	out := report.CallGraph{
		EntryPoints:       g.EntryPoints,
		UnreachableFuncs:  g.Unreachable,
		IndirectCallSites: g.IndirectCallSites,
	}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, report.CallGraphNode{
			FunctionIndex: n.Index,
			Name:          n.Name,
			IsImported:    n.IsImported,
			IsExported:    n.IsExported,
			CallCount:     n.CallCount,
			ScanWarning:   n.ScanWarning,
		})
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, report.CallGraphEdge{From: e.From, To: e.To, CallSites: e.CallSites})
	}
	return out
}

func buildMemoryAnalysis(mem *memprofile.Report) report.MemoryAnalysis {
	out := report.MemoryAnalysis{
		MemoryLayout: report.MemoryLayout{
			InitialPages:     mem.Layout.InitialPages,
			MaximumPages:     mem.Layout.MaximumPages,
			Shared:           mem.Layout.Shared,
			DataSegmentBytes: mem.Layout.DataSegmentBytes,
		},
		Operations: report.MemoryOperations{
			Load:  mem.Module.Load,
			Store: mem.Module.Store,
			Grow:  mem.Module.Grow,
			Size:  mem.Module.Size,
			Copy:  mem.Module.Copy,
			Fill:  mem.Module.Fill,
			Init:  mem.Module.Init,
		},
	}
	for _, h := range mem.Hotspots {
		out.Hotspots = append(out.Hotspots, report.MemoryHotspot{
			FunctionIndex: h.FuncIndex,
			Name:          h.Name,
			OpCount:       h.OpCount,
			Kind:          string(h.Kind),
		})
	}
	for _, p := range mem.Patterns {
		out.Patterns = append(out.Patterns, report.MemoryPattern{
			Name:        p.Name,
			Description: p.Description,
			Risk:        p.Risk,
		})
	}
	out.AllocationProfile = report.AllocationProfile{
		Type:       string(mem.AllocationProfile.Type),
		Mitigation: mem.AllocationProfile.Mitigation,
	}
	out.PotentialOverflows = mem.PotentialOverflows
	if mem.SafetyNote != "" {
		out.SafetyNotes = []string{mem.SafetyNote}
	}
	return out
}

func buildSecurityAnalysis(sec *capability.Report) report.SecurityAnalysis {
	out := report.SecurityAnalysis{
		WasiUsage: report.WasiUsage{
			UsesWasi:      sec.WasiUsage.UsesWasi,
			WasiVersion:   sec.WasiUsage.WasiVersion,
			WasiFunctions: sec.WasiUsage.WasiFunctions,
		},
		Sandbox: report.Sandbox{
			RequiresFilesystem: sec.Sandbox.RequiresFilesystem,
			RequiresNetwork:    sec.Sandbox.RequiresNetwork,
			RequiresProcessEnv: sec.Sandbox.RequiresProcessEnv,
		},
	}
	for _, c := range sec.Capabilities {
		out.Capabilities = append(out.Capabilities, report.Capability{
			Name:        c.Name,
			RiskLevel:   string(c.Risk),
			Description: c.Description,
			Evidence:    c.Evidence,
		})
	}
	for _, v := range sec.Vulnerabilities {
		out.Vulnerabilities = append(out.Vulnerabilities, report.Vulnerability{
			Description: v.Description,
			RiskLevel:   string(v.Risk),
		})
	}
	return out
}

func buildPerformanceMetrics(p *perf.Report) report.PerformanceMetrics {
	return report.PerformanceMetrics{
		ModuleSize:              p.ModuleSize,
		CodeSize:                p.CodeSize,
		FunctionCount:           p.FunctionCount,
		AverageFunctionSize:     p.AverageFunctionSize,
		ComplexityScore:         p.ComplexityScore,
		ColdStartEstimateMs:     p.ColdStartEstimateMs,
		OptimizationSuggestions: p.OptimizationSuggestions,
	}
}

func buildCompatibility(c *compat.Report) report.Compatibility {
	v := func(rv compat.RuntimeVerdict) report.RuntimeVerdict {
		return report.RuntimeVerdict{
			Compatible:       rv.Compatible,
			Issues:           rv.Issues,
			RequiredFeatures: rv.RequiredFeatures,
		}
	}
	return report.Compatibility{
		Wasmtime:          v(c.Wasmtime),
		Wasmer:            v(c.Wasmer),
		Browser:           v(c.Browser),
		NodeJS:            v(c.NodeJS),
		Deno:              v(c.Deno),
		CloudflareWorkers: v(c.CloudflareWorkers),
		DetectedLanguage:  c.DetectedLanguage,
	}
}
