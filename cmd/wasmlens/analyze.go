package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmlens/wasmlens/analyzer"
	"github.com/wasmlens/wasmlens/report"
)

func analyzeCmd() *cobra.Command {
	var (
		format        string
		securityOnly  bool
		memoryOnly    bool
		graphOnly     bool
		outPath       string
		maxModuleSize int
	)

	cmd := &cobra.Command{
		Use:   "analyze <file.wasm>",
		Short: "Analyze a WebAssembly binary module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return wrapIOError(fmt.Errorf("read %s: %w", args[0], err))
			}

			var opts []analyzer.Option
			if maxModuleSize > 0 {
				opts = append(opts, analyzer.WithMaxModuleSize(maxModuleSize))
			}

			rep, err := analyzer.Analyze(data, opts...)
			if err != nil {
				return err
			}

			var out io.Writer = os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return wrapIOError(fmt.Errorf("create %s: %w", outPath, err))
				}
				defer f.Close()
				out = f
			}

			selector := sectionSelector{security: securityOnly, memory: memoryOnly, graph: graphOnly}
			if err := render(out, format, rep, selector); err != nil {
				return wrapIOError(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "summary", "output format: summary, detailed, json")
	cmd.Flags().BoolVar(&securityOnly, "security-only", false, "show only the security analysis")
	cmd.Flags().BoolVar(&memoryOnly, "memory-only", false, "show only the memory analysis")
	cmd.Flags().BoolVar(&graphOnly, "graph-only", false, "show only the call graph")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write output to PATH instead of stdout")
	cmd.Flags().IntVar(&maxModuleSize, "max-module-size", 0, "override the decoder's module size limit in bytes")

	return cmd
}

type sectionSelector struct {
	security bool
	memory   bool
	graph    bool
}

func (s sectionSelector) any() bool {
	return s.security || s.memory || s.graph
}

func render(out io.Writer, format string, rep *report.AnalysisReport, sel sectionSelector) error {
	switch format {
	case "json":
		return renderJSON(out, rep, sel)
	case "detailed":
		return renderDetailed(out, rep, sel)
	case "summary", "":
		return renderSummary(out, rep, sel)
	default:
		return fmt.Errorf("unknown format %q (want summary, detailed, or json)", format)
	}
}

func renderJSON(out io.Writer, rep *report.AnalysisReport, sel sectionSelector) error {
	var v any = rep
	switch {
	case sel.security:
		v = rep.SecurityAnalysis
	case sel.memory:
		v = rep.MemoryAnalysis
	case sel.graph:
		v = rep.CallGraph
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderSummary(out io.Writer, rep *report.AnalysisReport, sel sectionSelector) error {
	w := func(format string, args ...any) { fmt.Fprintf(out, format, args...) }

	if !sel.any() || sel.graph {
		w("Functions: %d (unreachable: %d, indirect call sites: %d)\n",
			len(rep.CallGraph.Nodes), len(rep.CallGraph.UnreachableFuncs), rep.CallGraph.IndirectCallSites)
	}
	if !sel.any() || sel.memory {
		w("Memory: %d initial pages, %d load(s), %d store(s), %d grow(s)\n",
			rep.MemoryAnalysis.MemoryLayout.InitialPages,
			rep.MemoryAnalysis.Operations.Load, rep.MemoryAnalysis.Operations.Store, rep.MemoryAnalysis.Operations.Grow)
	}
	if !sel.any() || sel.security {
		w("Capabilities: %d, vulnerabilities: %d, WASI: %v\n",
			len(rep.SecurityAnalysis.Capabilities), len(rep.SecurityAnalysis.Vulnerabilities), rep.SecurityAnalysis.WasiUsage.UsesWasi)
	}
	if !sel.any() {
		w("Module size: %d bytes, complexity score: %.1f, est. cold start: %.1fms\n",
			rep.PerformanceMetrics.ModuleSize, rep.PerformanceMetrics.ComplexityScore, rep.PerformanceMetrics.ColdStartEstimateMs)
		w("Detected language: %s\n", orUnknown(rep.Compatibility.DetectedLanguage))
	}
	return nil
}

func renderDetailed(out io.Writer, rep *report.AnalysisReport, sel sectionSelector) error {
	w := func(format string, args ...any) { fmt.Fprintf(out, format, args...) }

	if !sel.any() || sel.graph {
		w("=== Call Graph ===\n")
		for _, n := range rep.CallGraph.Nodes {
			tag := ""
			if n.IsExported {
				tag = " [exported]"
			}
			w("  %d %s calls=%d%s\n", n.FunctionIndex, n.Name, n.CallCount, tag)
		}
		if len(rep.CallGraph.UnreachableFuncs) > 0 {
			w("  unreachable: %v\n", rep.CallGraph.UnreachableFuncs)
		}
	}
	if !sel.any() || sel.memory {
		w("=== Memory Analysis ===\n")
		w("  layout: initial=%d max=%v shared=%v\n",
			rep.MemoryAnalysis.MemoryLayout.InitialPages, rep.MemoryAnalysis.MemoryLayout.MaximumPages, rep.MemoryAnalysis.MemoryLayout.Shared)
		w("  allocation profile: %s\n", rep.MemoryAnalysis.AllocationProfile.Type)
		for _, h := range rep.MemoryAnalysis.Hotspots {
			w("  hotspot: %s (%d ops, %s)\n", h.Name, h.OpCount, h.Kind)
		}
		for _, o := range rep.MemoryAnalysis.PotentialOverflows {
			w("  potential overflow: %s\n", o)
		}
		for _, note := range rep.MemoryAnalysis.SafetyNotes {
			w("  safety note: %s\n", note)
		}
	}
	if !sel.any() || sel.security {
		w("=== Security Analysis ===\n")
		for _, c := range rep.SecurityAnalysis.Capabilities {
			w("  capability: %s (%s) evidence=%v\n", c.Name, c.RiskLevel, c.Evidence)
		}
		for _, v := range rep.SecurityAnalysis.Vulnerabilities {
			w("  vulnerability: %s (%s)\n", v.Description, v.RiskLevel)
		}
	}
	if !sel.any() {
		w("=== Performance ===\n")
		w("  module_size=%d code_size=%d complexity=%.1f cold_start_ms=%.1f\n",
			rep.PerformanceMetrics.ModuleSize, rep.PerformanceMetrics.CodeSize,
			rep.PerformanceMetrics.ComplexityScore, rep.PerformanceMetrics.ColdStartEstimateMs)
		for _, s := range rep.PerformanceMetrics.OptimizationSuggestions {
			w("  suggestion: %s\n", s)
		}
		w("=== Compatibility ===\n")
		w("  detected language: %s\n", orUnknown(rep.Compatibility.DetectedLanguage))
		w("  browser: %v, cloudflare_workers: %v\n", rep.Compatibility.Browser.Compatible, rep.Compatibility.CloudflareWorkers.Compatible)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
