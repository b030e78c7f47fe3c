package capability

// RiskLevel is the severity tag attached to a capability or vulnerability
// finding.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// rule pattern-matches an import's (module, name) pair by prefix.
type rule struct {
	ModulePrefix string
	NamePrefixes []string // any one matching is sufficient; empty means match any name
	Capability   string
	Risk         RiskLevel
	Description  string
}

// rules is the fixed capability pattern table. Order matters only in that
// the first matching rule wins per import.
var rules = []rule{
	{
		ModulePrefix: "wasi_snapshot_preview1",
		NamePrefixes: []string{"fd_", "path_"},
		Capability:   "Filesystem I/O",
		Risk:         RiskHigh,
		Description:  "imports WASI filesystem functions",
	},
	{
		ModulePrefix: "wasi_snapshot_preview1",
		NamePrefixes: []string{"sock_"},
		Capability:   "Network I/O",
		Risk:         RiskHigh,
		Description:  "imports WASI socket functions",
	},
	{
		ModulePrefix: "wasi_snapshot_preview1",
		NamePrefixes: []string{"proc_", "environ_", "args_"},
		Capability:   "Process/env introspection",
		Risk:         RiskMedium,
		Description:  "imports WASI process or environment functions",
	},
	{
		ModulePrefix: "wasi_snapshot_preview1",
		NamePrefixes: []string{"clock_", "random_"},
		Capability:   "Clock / randomness",
		Risk:         RiskLow,
		Description:  "imports WASI clock or randomness functions",
	},
	{
		ModulePrefix: "env",
		NamePrefixes: []string{"emscripten_"},
		Capability:   "Emscripten host",
		Risk:         RiskMedium,
		Description:  "imports Emscripten host glue functions",
	},
}

// hasPrefixAny reports whether s starts with any of prefixes; an empty
// prefix list matches unconditionally.
func hasPrefixAny(s string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}

func matchRule(module, name string) (rule, bool) {
	for _, r := range rules {
		if hasPrefixAny(module, []string{r.ModulePrefix}) && hasPrefixAny(name, r.NamePrefixes) {
			return r, true
		}
	}
	return rule{}, false
}

// isHostAllocatorImport matches the standalone env-module allocator rule:
// any import from module "env" whose name contains "alloc" or "free".
func isHostAllocatorImport(module, name string) bool {
	if module != "env" {
		return false
	}
	return containsFold(name, "alloc") || containsFold(name, "free")
}

// cryptoNameSubstrings match an import name regardless of its module,
// since crypto host functions aren't namespaced consistently across
// toolchains the way WASI or Emscripten glue is.
var cryptoNameSubstrings = []string{"crypto", "hash", "encrypt", "decrypt", "sign", "verify"}

func isCryptoImport(name string) bool {
	for _, sub := range cryptoNameSubstrings {
		if containsFold(name, sub) {
			return true
		}
	}
	return false
}

// suspiciousImportSubstrings flags import names that read like a shell or
// command-execution escape hatch offered by the host.
var suspiciousImportSubstrings = []string{"eval", "exec", "system", "shell", "cmd", "invoke"}

func isSuspiciousImport(name string) bool {
	for _, sub := range suspiciousImportSubstrings {
		if containsFold(name, sub) {
			return true
		}
	}
	return false
}

// unsafeCStringSubstrings are C standard library functions with a long
// history of buffer-overflow CVEs when their host exposes them directly.
var unsafeCStringSubstrings = []string{"strcpy", "sprintf", "gets", "strcat"}

func isUnsafeCStringImport(module, name string) bool {
	if module != "env" && module != "" {
		return false
	}
	for _, sub := range unsafeCStringSubstrings {
		if containsFold(name, sub) {
			return true
		}
	}
	return false
}

// largeImportSurfaceThreshold is the import count above which the sheer
// number of host-provided entry points is itself treated as a finding.
const largeImportSurfaceThreshold = 50

func containsFold(s, sub string) bool {
	ls, lsub := toLower(s), toLower(sub)
	for i := 0; i+len(lsub) <= len(ls); i++ {
		if ls[i:i+len(lsub)] == lsub {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
