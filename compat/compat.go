// Package compat checks a decoded module's capabilities and memory flags
// against a fixed per-runtime feature matrix, and guesses the module's
// source language from naming conventions.
package compat

import (
	"strings"

	"github.com/wasmlens/wasmlens/capability"
	"github.com/wasmlens/wasmlens/model"
)

// RuntimeVerdict is one runtime's compatibility result.
type RuntimeVerdict struct {
	Compatible       bool
	Issues           []string
	RequiredFeatures []string
}

// Report is the compatibility checker's output.
type Report struct {
	Wasmtime          RuntimeVerdict
	Wasmer            RuntimeVerdict
	Browser           RuntimeVerdict
	NodeJS            RuntimeVerdict
	Deno              RuntimeVerdict
	CloudflareWorkers RuntimeVerdict
	DetectedLanguage  string
}

// Build evaluates mm against the fixed feature matrix, consulting sec for
// WASI usage and the sandbox flags it derived from the capability table.
func Build(mm *model.Module, sec *capability.Report) *Report {
	usesThreads := usesSharedMemory(mm)
	requiresFS := sec.Sandbox.RequiresFilesystem
	requiresNet := sec.Sandbox.RequiresNetwork

	r := &Report{}

	r.Wasmtime = nativeVerdict(usesThreads)
	r.Wasmer = nativeVerdict(usesThreads)

	r.Browser = RuntimeVerdict{Compatible: !sec.WasiUsage.UsesWasi}
	if sec.WasiUsage.UsesWasi {
		r.Browser.Issues = append(r.Browser.Issues, "WASI imports require a browser-side polyfill")
		r.Browser.RequiredFeatures = append(r.Browser.RequiredFeatures, "wasi-polyfill")
	}

	r.NodeJS = RuntimeVerdict{Compatible: true}
	if sec.WasiUsage.UsesWasi {
		r.NodeJS.RequiredFeatures = append(r.NodeJS.RequiredFeatures, "node:wasi")
	}

	r.Deno = RuntimeVerdict{Compatible: true}
	if sec.WasiUsage.UsesWasi {
		r.Deno.RequiredFeatures = append(r.Deno.RequiredFeatures, "Deno.WASI")
	}

	r.CloudflareWorkers = RuntimeVerdict{Compatible: !(requiresFS || requiresNet)}
	if requiresFS {
		r.CloudflareWorkers.Issues = append(r.CloudflareWorkers.Issues, "filesystem access is unavailable in Workers")
	}
	if requiresNet {
		r.CloudflareWorkers.Issues = append(r.CloudflareWorkers.Issues, "raw socket access is unavailable in Workers")
	}

	r.DetectedLanguage = detectLanguage(mm)

	return r
}

func nativeVerdict(usesThreads bool) RuntimeVerdict {
	v := RuntimeVerdict{Compatible: true}
	if usesThreads {
		v.RequiredFeatures = append(v.RequiredFeatures, "threads")
	}
	return v
}

func usesSharedMemory(mm *model.Module) bool {
	for _, m := range mm.Wasm.Memories {
		if m.Limits.Shared {
			return true
		}
	}
	return false
}

// detectLanguage guesses the module's source language from custom
// section names and export-name substrings. Unmatched modules are
// Unknown; this is a heuristic, not a parsed toolchain marker.
func detectLanguage(mm *model.Module) string {
	for _, cs := range mm.Wasm.CustomSections {
		if strings.HasPrefix(cs.Name, "__wasm_bindgen") || strings.HasPrefix(cs.Name, "__rustc_") {
			return "Rust"
		}
		if strings.Contains(cs.Name, "asconfig") {
			return "AssemblyScript"
		}
	}

	var sawRuntimeImport, sawGoImport bool
	for _, imp := range mm.Wasm.Imports {
		if strings.HasPrefix(imp.Module, "runtime.") {
			sawRuntimeImport = true
		}
		if strings.HasPrefix(imp.Module, "go.") {
			sawGoImport = true
		}
	}
	if sawRuntimeImport && sawGoImport {
		return "Go"
	}

	for _, exp := range mm.Wasm.Exports {
		switch {
		case strings.HasPrefix(exp.Name, "__wasm_bindgen") || strings.HasPrefix(exp.Name, "__rustc_"):
			return "Rust"
		case strings.HasPrefix(exp.Name, "__cxa_") || strings.HasPrefix(exp.Name, "_ZN"):
			return "C/C++"
		}
	}

	return "Unknown"
}
