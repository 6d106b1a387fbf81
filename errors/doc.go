// Package errors provides structured error types for the block runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: block name, port path, expected/actual kinds, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePort, errors.KindKindMismatch).
//		Block("add<f64, 2>").
//		Path("in[1]").
//		Expected("f64").
//		Actual("s32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownBlock("adder")
//	err := errors.PortOutOfRange("delay<f64>", "input", 4, 3)
//
// Every Kind has a sentinel (ErrUnknownBlock, ErrKindMismatch, ...) that
// matches regardless of phase:
//
//	if errors.Is(err, errors.ErrKindMismatch) { ... }
//
// All errors are synchronous and non-retryable.
package errors
