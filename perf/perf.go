// Package perf estimates size and cold-start characteristics from a
// module's declared sizes and its call graph's fan-out, and emits
// rule-based optimization suggestions. All figures are heuristic.
package perf

import (
	"github.com/wasmlens/wasmlens/callgraph"
	"github.com/wasmlens/wasmlens/memprofile"
	"github.com/wasmlens/wasmlens/model"
)

// Report is the performance estimator's output.
type Report struct {
	ModuleSize              int
	CodeSize                int
	FunctionCount           int
	AverageFunctionSize     float64
	ComplexityScore         float64
	ColdStartEstimateMs     float64
	OptimizationSuggestions []string
}

// Build computes size and complexity figures from mm and g, and consults
// mem only for the memory-ops term in the complexity score.
func Build(mm *model.Module, g *callgraph.Graph, mem *memprofile.Report) *Report {
	r := &Report{
		ModuleSize:    mm.ModuleSize(),
		CodeSize:      mm.CodeSize(),
		FunctionCount: len(mm.Wasm.Code),
	}
	if r.FunctionCount > 0 {
		r.AverageFunctionSize = float64(r.CodeSize) / float64(r.FunctionCount)
	}

	r.ComplexityScore = complexityScore(len(g.Nodes), averageFanOut(g), mem.Module.Load+mem.Module.Store+mem.Module.Grow+mem.Module.Copy+mem.Module.Fill+mem.Module.Init)
	r.ColdStartEstimateMs = coldStartBaselineMs + float64(r.ModuleSize)/bytesPerMsEstimate
	r.OptimizationSuggestions = suggestions(mm, g)

	return r
}

func averageFanOut(g *callgraph.Graph) float64 {
	if len(g.Nodes) == 0 {
		return 0
	}
	return float64(len(g.Edges)) / float64(len(g.Nodes))
}

func complexityScore(functionCount int, avgFanOut float64, memoryOps int) float64 {
	score := weightFunctionCount*(float64(functionCount)/functionCountDivisor)*100 +
		weightAvgFanOut*(avgFanOut/avgFanOutDivisor)*100 +
		weightMemoryOps*(float64(memoryOps)/memoryOpsDivisor)*100
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func suggestions(mm *model.Module, g *callgraph.Graph) []string {
	var out []string

	customBytes := 0
	for _, cs := range mm.Wasm.CustomSections {
		customBytes += len(cs.Data)
	}
	if customBytes >= largeCustomSectionBytes {
		out = append(out, "strip debug info")
	}

	callerCount := make(map[uint32]int)
	for _, e := range g.Edges {
		callerCount[e.To]++
	}
	smallSingleCallerCount := 0
	for idx := uint32(mm.NumImportedFuncs()); idx < uint32(mm.FuncCount()); idx++ {
		body, ok := mm.FuncBody(idx)
		if !ok {
			continue
		}
		if len(body) <= smallFunctionBodyBytes && callerCount[idx] == 1 {
			smallSingleCallerCount++
		}
	}
	if smallSingleCallerCount >= singleCallerInlineMinCount {
		out = append(out, "consider inlining")
	}

	if len(g.Unreachable) > 0 {
		out = append(out, "dead-code elimination")
	}

	return out
}
