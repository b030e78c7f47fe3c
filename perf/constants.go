package perf

// The weights and divisors below are fixed heuristic constants, not
// measured calibration: complexity_score and cold_start_estimate_ms are
// documented as estimates at the report boundary, not guarantees.
const (
	// complexity_score weights.
	weightFunctionCount = 0.4
	weightAvgFanOut     = 0.3
	weightMemoryOps     = 0.3

	// Divisors normalize each weighted term into a comparable range
	// before they're summed and clamped to [0, 100].
	functionCountDivisor = 200.0
	avgFanOutDivisor     = 10.0
	memoryOpsDivisor     = 500.0

	// cold_start_estimate_ms = baseline + moduleSize/bytesPerMs.
	coldStartBaselineMs = 5.0
	bytesPerMsEstimate  = 50_000.0

	// smallFunctionBodyBytes and singleCallerInlineMinCount gate the
	// "consider inlining" suggestion.
	smallFunctionBodyBytes     = 32
	singleCallerInlineMinCount = 3

	// largeCustomSectionBytes gates the "strip debug info" suggestion.
	largeCustomSectionBytes = 4096
)
