// Package capability pattern-matches a module's imports and declared
// sections against a fixed rule table to infer host capabilities, WASI
// usage, and heuristic vulnerability findings.
package capability

import (
	"fmt"
	"strings"

	"github.com/wasmlens/wasmlens/memprofile"
	"github.com/wasmlens/wasmlens/model"
	"github.com/wasmlens/wasmlens/wasm"
)

// Capability is one inferred ability of the module to affect its host.
type Capability struct {
	Name        string
	Risk        RiskLevel
	Description string
	Evidence    []string // "module::name" import references that triggered the match
}

// Vulnerability is a heuristic finding independent of the capability
// rule table.
type Vulnerability struct {
	Description string
	Risk        RiskLevel
}

// WasiUsage summarizes WASI-namespaced imports.
type WasiUsage struct {
	UsesWasi      bool
	WasiVersion   string
	WasiFunctions []string
}

// Sandbox records whether this module's imports require escaping a
// restrictive sandbox, with one flag per capability (filesystem, network,
// process/environment); it holds no per-runtime flags. Ownership of these booleans
// sits here rather than in compat: they are a direct function of the
// capability findings, and compat only consumes them.
type Sandbox struct {
	RequiresFilesystem bool
	RequiresNetwork    bool
	RequiresProcessEnv bool
}

// Report is the capability classifier's output.
type Report struct {
	Capabilities    []Capability
	Vulnerabilities []Vulnerability
	WasiUsage       WasiUsage
	Sandbox         Sandbox
}

// Build classifies mm's imports and sections, consulting mem for
// memory-growth bounds used by the unbounded-growth vulnerability check.
func Build(mm *model.Module, mem *memprofile.Report) *Report {
	r := &Report{}

	capsByName := make(map[string]*Capability)
	var order []string

	for _, imp := range mm.Wasm.Imports {
		ref := imp.Module + "::" + imp.Name

		if strings.HasPrefix(imp.Module, "wasi_") {
			r.WasiUsage.UsesWasi = true
			if r.WasiUsage.WasiVersion == "" {
				r.WasiUsage.WasiVersion = imp.Module
			}
			r.WasiUsage.WasiFunctions = append(r.WasiUsage.WasiFunctions, imp.Name)
		}

		if rl, ok := matchRule(imp.Module, imp.Name); ok {
			c, exists := capsByName[rl.Capability]
			if !exists {
				c = &Capability{Name: rl.Capability, Risk: rl.Risk, Description: rl.Description}
				capsByName[rl.Capability] = c
				order = append(order, rl.Capability)
			}
			c.Evidence = append(c.Evidence, ref)
			applySandbox(&r.Sandbox, rl.Capability)
			continue
		}

		if isHostAllocatorImport(imp.Module, imp.Name) {
			c, exists := capsByName["Host allocator"]
			if !exists {
				c = &Capability{Name: "Host allocator", Risk: RiskLow, Description: "imports a host-provided allocator function"}
				capsByName["Host allocator"] = c
				order = append(order, "Host allocator")
			}
			c.Evidence = append(c.Evidence, ref)
		}

		if isCryptoImport(imp.Name) {
			c, exists := capsByName["Cryptographic Operations"]
			if !exists {
				c = &Capability{Name: "Cryptographic Operations", Risk: RiskMedium, Description: "imports cryptographic host functions"}
				capsByName["Cryptographic Operations"] = c
				order = append(order, "Cryptographic Operations")
			}
			c.Evidence = append(c.Evidence, ref)
		}
	}

	for _, name := range order {
		r.Capabilities = append(r.Capabilities, *capsByName[name])
	}

	r.Vulnerabilities = vulnerabilities(mm, mem)

	return r
}

func applySandbox(s *Sandbox, capabilityName string) {
	switch capabilityName {
	case "Filesystem I/O":
		s.RequiresFilesystem = true
	case "Network I/O":
		s.RequiresNetwork = true
	case "Process/env introspection":
		s.RequiresProcessEnv = true
	}
}

func vulnerabilities(mm *model.Module, mem *memprofile.Report) []Vulnerability {
	var vulns []Vulnerability

	if mem.Module.Grow > 0 && mem.Layout.MaximumPages == nil {
		vulns = append(vulns, Vulnerability{
			Description: "unbounded memory growth",
			Risk:        RiskMedium,
		})
	}

	if n := len(mm.Wasm.Imports); n > largeImportSurfaceThreshold {
		vulns = append(vulns, Vulnerability{
			Description: fmt.Sprintf("module imports %d functions, a large attack surface", n),
			Risk:        RiskMedium,
		})
	}

	for _, imp := range mm.Wasm.Imports {
		if isSuspiciousImport(imp.Name) {
			vulns = append(vulns, Vulnerability{
				Description: fmt.Sprintf("suspicious import name %s::%s", imp.Module, imp.Name),
				Risk:        RiskHigh,
			})
		}
		if isUnsafeCStringImport(imp.Module, imp.Name) {
			vulns = append(vulns, Vulnerability{
				Description: fmt.Sprintf("imports unsafe C string function %s::%s", imp.Module, imp.Name),
				Risk:        RiskHigh,
			})
		}
	}

	for _, exp := range mm.Wasm.Exports {
		if exp.Kind != wasm.KindGlobal {
			continue
		}
		idx := exp.Idx
		nImp := uint32(mm.Wasm.NumImportedGlobals())
		var mutable bool
		if idx < nImp {
			var seen uint32
			for _, imp := range mm.Wasm.Imports {
				if imp.Desc.Kind == wasm.KindGlobal {
					if seen == idx {
						mutable = imp.Desc.Global != nil && imp.Desc.Global.Mutable
						break
					}
					seen++
				}
			}
		} else if int(idx-nImp) < len(mm.Wasm.Globals) {
			mutable = mm.Wasm.Globals[idx-nImp].Type.Mutable
		}
		if mutable {
			vulns = append(vulns, Vulnerability{
				Description: "mutable exported global",
				Risk:        RiskLow,
			})
			break
		}
	}

	for _, memType := range mm.Wasm.Memories {
		if memType.Limits.Shared {
			vulns = append(vulns, Vulnerability{
				Description: "shared memory",
				Risk:        "informational",
			})
			break
		}
	}

	return vulns
}
