// Package errors provides structured error types shared across the
// decoder and analysis packages.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMemory, errors.KindOverflow).
//		Path("function", "12").
//		Detail("memory.grow delta overflows i32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 10, 5)
//	err := errors.Oversize(errors.PhaseDecode, "section 4 declares 200MiB")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
