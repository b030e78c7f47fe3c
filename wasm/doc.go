// Package wasm decodes WebAssembly binary modules into an in-memory
// structure the rest of wasmlens reads as a read-only view: it never
// executes a module or resolves a call_indirect target, only parses.
//
// Two callers sit on top of this package. model.New wraps the decoded
// *Module in a combined-index-space view (imports and defined functions
// share one index space, matching how calls reference them in a function
// body) for the call-graph, memory-profile, capability, performance, and
// compatibility passes. analyzer.Analyze is the entry point that actually
// drives this package end to end: it calls ParseModuleWithLimits to reject
// oversize input before buffering any section, then Validate to reject a
// structurally inconsistent module, before handing the result to model.New.
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//
// Reject a module, or any one section, past a configured size before any
// allocation beyond the section header:
//
//	module, err := wasm.ParseModuleWithLimits(data, 32<<20, 16<<20)
//
// # Encoding
//
// wasmlens itself never re-encodes a module; Encode exists so the test
// suite (in this package and every package downstream of it) can build
// small, precise *Module fixtures in Go rather than embedding .wasm
// binaries on disk, and round-trip them:
//
//	data := module.Encode()
//	roundtrip, err := wasm.ParseModule(data)
//
// # Module structure
//
//	module.Types, module.Funcs, module.Code  // type signatures, and each
//	                                          // defined function's type
//	                                          // index paired with its body
//	module.Imports, module.Exports           // combined-index-space entries
//	module.Tables, module.Memories, module.Globals
//	module.Data, module.Elements, module.CustomSections
//	module.FunctionNames                     // from the "name" custom section
//
// # Instructions
//
// DecodeInstructions walks a function body's bytecode into a flat
// []Instruction; internal/bodywalk wraps it in the walker that the
// call-graph and memory-profile builders each call.
//
//	instrs, err := wasm.DecodeInstructions(body)
//
// # Validation
//
// Validate checks structural consistency (index bounds, export/start
// targets, section counts matching their declared counts) that the
// byte-level decoder doesn't enforce on its own:
//
//	if err := module.Validate(); err != nil {
//	    // reported by analyzer.Analyze as errors.PhaseValidate
//	}
package wasm
