// Package analyzer ties the decoder and the five analysis passes together
// into a single Analyze call that returns a complete report.AnalysisReport.
package analyzer

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wasmlens/wasmlens/callgraph"
	"github.com/wasmlens/wasmlens/capability"
	"github.com/wasmlens/wasmlens/compat"
	"github.com/wasmlens/wasmlens/errors"
	"github.com/wasmlens/wasmlens/memprofile"
	"github.com/wasmlens/wasmlens/model"
	"github.com/wasmlens/wasmlens/perf"
	"github.com/wasmlens/wasmlens/report"
	"github.com/wasmlens/wasmlens/wasm"
)

// Analyze decodes data as a WebAssembly binary module and runs every
// analysis pass over it, returning the assembled report. A malformed or
// oversize module is reported as a *errors.Error tagged PhaseDecode, and
// one that fails structural validation as one tagged PhaseValidate; every
// later pass is best-effort and never fails the whole call.
func Analyze(data []byte, opts ...Option) (*report.AnalysisReport, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errors.InvalidInput(errors.PhaseReport, err.Error())
		}
	}

	log := Logger()
	if o.Logger != nil {
		log = o.Logger
	}

	maxModuleSize := o.MaxModuleSize
	if maxModuleSize <= 0 {
		maxModuleSize = wasm.DefaultMaxModuleSize
	}
	maxSectionSize := o.MaxSectionSize
	if maxSectionSize <= 0 {
		maxSectionSize = wasm.DefaultMaxSectionSize
	}

	log.Debug("decoding module", zap.Int("bytes", len(data)))

	decoded, err := wasm.ParseModuleWithLimits(data, maxModuleSize, maxSectionSize)
	if err != nil {
		if stderrors.Is(err, wasm.ErrOversize) {
			return nil, errors.Oversize(errors.PhaseDecode, err.Error())
		}
		return nil, errors.ParseFailed("module", err)
	}

	if err := decoded.Validate(); err != nil {
		return nil, errors.InvalidData(errors.PhaseValidate, nil, err.Error())
	}

	mm := model.New(decoded, data)

	log.Debug("running analysis passes", zap.Int("functions", mm.FuncCount()))

	graph := callgraph.Build(mm)
	mem := memprofile.BuildWithLimit(mm, o.HotspotLimit)
	sec := capability.Build(mm, mem)
	perfReport := perf.Build(mm, graph, mem)
	compatReport := compat.Build(mm, sec)

	out := &report.AnalysisReport{
		ModuleInfo:         buildModuleInfo(mm),
		CallGraph:          buildCallGraph(graph),
		MemoryAnalysis:     buildMemoryAnalysis(mem),
		SecurityAnalysis:   buildSecurityAnalysis(sec),
		PerformanceMetrics: buildPerformanceMetrics(perfReport),
		Compatibility:      buildCompatibility(compatReport),
	}

	log.Info("analysis complete",
		zap.Int("unreachable_functions", len(graph.Unreachable)),
		zap.Int("capabilities", len(sec.Capabilities)),
	)

	return out, nil
}
